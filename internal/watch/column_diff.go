package watch

import (
	"fmt"
	"sort"
	"strings"
)

// Column change kinds.
const (
	ColumnAdded   = "added"
	ColumnRemoved = "removed"
	GroupAdded    = "group-added"
	GroupRemoved  = "group-removed"
)

// ColumnChange describes one difference between the CSV headers of two
// consecutive export runs.
type ColumnChange struct {
	// Kind is one of ColumnAdded, ColumnRemoved, GroupAdded, GroupRemoved.
	Kind string

	// Group is the type name owning the column.
	Group string

	// Column is the affected column name. Empty for group-level changes.
	Column string
}

// DiffColumns compares the per-group column lists of two runs and returns
// the changes, ordered by group name.
func DiffColumns(prev, curr map[string][]string) []ColumnChange {
	var changes []ColumnChange

	for _, group := range sortedKeys(prev) {
		if _, ok := curr[group]; !ok {
			changes = append(changes, ColumnChange{Kind: GroupRemoved, Group: group})
		}
	}

	for _, group := range sortedKeys(curr) {
		prevCols, existed := prev[group]
		if !existed {
			changes = append(changes, ColumnChange{Kind: GroupAdded, Group: group})
			continue
		}

		prevSet := toSet(prevCols)
		currSet := toSet(curr[group])

		for _, col := range prevCols {
			if !currSet[col] {
				changes = append(changes, ColumnChange{Kind: ColumnRemoved, Group: group, Column: col})
			}
		}

		for _, col := range curr[group] {
			if !prevSet[col] {
				changes = append(changes, ColumnChange{Kind: ColumnAdded, Group: group, Column: col})
			}
		}
	}

	return changes
}

// ColumnDiffSummary renders changes as a short human-readable line, e.g.
// "+1 group(s) added, +2 column(s) added".
func ColumnDiffSummary(changes []ColumnChange) string {
	if len(changes) == 0 {
		return "no column changes"
	}

	var added, removed, groupsAdded, groupsRemoved int

	for _, c := range changes {
		switch c.Kind {
		case ColumnAdded:
			added++
		case ColumnRemoved:
			removed++
		case GroupAdded:
			groupsAdded++
		case GroupRemoved:
			groupsRemoved++
		}
	}

	var parts []string

	if groupsAdded > 0 {
		parts = append(parts, fmt.Sprintf("+%d group(s) added", groupsAdded))
	}

	if groupsRemoved > 0 {
		parts = append(parts, fmt.Sprintf("-%d group(s) removed", groupsRemoved))
	}

	if added > 0 {
		parts = append(parts, fmt.Sprintf("+%d column(s) added", added))
	}

	if removed > 0 {
		parts = append(parts, fmt.Sprintf("-%d column(s) removed", removed))
	}

	return strings.Join(parts, ", ")
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, it := range items {
		set[it] = true
	}

	return set
}
