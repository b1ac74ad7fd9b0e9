package inventory

import (
	"fmt"
	"log/slog"
)

// Resource is a single usable element of the "resources" array.
type Resource struct {
	// Index is the element's position in the original array.
	Index int

	// ID is the resource's "id" field when it carries a string one.
	ID string

	// Fields holds the resource's keys. The top-level "types" key is
	// grouping metadata, not data, and is left out. Nested "types" keys
	// are kept.
	Fields map[string]interface{}
}

// Skip records a resource that was left out of every group, with the reason.
type Skip struct {
	Index  int
	ID     string
	Reason string
}

// Grouping partitions a document's resources by declared type name.
type Grouping struct {
	order  []string
	groups map[string][]*Resource
	skips  []Skip
}

// Types returns the group names in order of first appearance.
func (g *Grouping) Types() []string {
	return g.order
}

// Members returns the resources declaring the given type, in input order.
func (g *Grouping) Members(typeName string) []*Resource {
	return g.groups[typeName]
}

// Skips returns the resources that landed in no group.
func (g *Grouping) Skips() []Skip {
	return g.skips
}

// Len returns the number of groups.
func (g *Grouping) Len() int {
	return len(g.order)
}

// Group partitions the document's resources by their "types" field.
//
// A resource joins one group per declared type name; a plain string declares
// one type and a list of strings declares several. Duplicate names in one
// list count once. Elements that are not objects, lack a usable "types"
// field, or declare no valid type names are recorded as skips and logged as
// warnings. A non-string entry inside an otherwise valid list is logged and
// ignored without skipping the resource. The document itself is never
// modified.
func (d *Document) Group(logger *slog.Logger) *Grouping {
	if logger == nil {
		logger = slog.Default()
	}

	g := &Grouping{groups: make(map[string][]*Resource)}

	for i, element := range d.Resources {
		obj, ok := element.(map[string]interface{})
		if !ok {
			g.skip(logger, i, "", fmt.Sprintf("element is %s, not an object", jsonKind(element)))
			continue
		}

		id, _ := obj["id"].(string)

		names, bad, reason := typeNames(obj["types"])
		for _, entry := range bad {
			logger.Warn("ignoring non-string types entry",
				slog.Int("index", i),
				slog.String("id", id),
				slog.String("entry", fmt.Sprintf("%v", entry)),
			)
		}

		if reason != "" {
			g.skip(logger, i, id, reason)
			continue
		}

		res := &Resource{Index: i, ID: id, Fields: fieldsWithoutTypes(obj)}

		for _, name := range names {
			g.add(name, res)
		}
	}

	return g
}

func (g *Grouping) add(typeName string, res *Resource) {
	if _, ok := g.groups[typeName]; !ok {
		g.order = append(g.order, typeName)
	}

	g.groups[typeName] = append(g.groups[typeName], res)
}

func (g *Grouping) skip(logger *slog.Logger, index int, id, reason string) {
	g.skips = append(g.skips, Skip{Index: index, ID: id, Reason: reason})

	logger.Warn("skipping resource",
		slog.Int("index", index),
		slog.String("id", id),
		slog.String("reason", reason),
	)
}

// typeNames resolves a resource's "types" field into group names. Duplicate
// names count once. Non-string list entries are returned in bad. A non-empty
// reason means the resource belongs to no group.
func typeNames(v interface{}) (names []string, bad []interface{}, reason string) {
	switch val := v.(type) {
	case nil:
		return nil, nil, `missing "types" field`
	case string:
		return []string{val}, nil, ""
	case []interface{}:
		if len(val) == 0 {
			return nil, nil, `empty "types" list`
		}

		seen := make(map[string]bool, len(val))

		for _, entry := range val {
			s, ok := entry.(string)
			if !ok {
				bad = append(bad, entry)
				continue
			}

			if !seen[s] {
				seen[s] = true
				names = append(names, s)
			}
		}

		if len(names) == 0 {
			return nil, bad, `no string entries in "types" list`
		}

		return names, bad, ""
	default:
		return nil, nil, fmt.Sprintf(`"types" is %s, not a string or list of strings`, jsonKind(v))
	}
}

// fieldsWithoutTypes copies a resource's keys minus the top-level "types"
// key. The copy is shallow; flattening never mutates values.
func fieldsWithoutTypes(obj map[string]interface{}) map[string]interface{} {
	fields := make(map[string]interface{}, len(obj))

	for k, v := range obj {
		if k == "types" {
			continue
		}

		fields[k] = v
	}

	return fields
}
