// Package flatten converts nested JSON structures into flat dotted-path
// key/value rows suitable for CSV output.
package flatten

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// Options configures how scalar values are rendered during flattening.
type Options struct {
	// NullValue is the cell text emitted for JSON null values.
	NullValue string
}

// Row holds the flattened key/value pairs of a single resource.
// Keys preserves the order in which paths were produced so callers can
// build deterministic headers from it.
type Row struct {
	Keys   []string
	Values map[string]string
}

// Map flattens a decoded JSON object into a Row using default options.
func Map(obj map[string]interface{}) Row {
	return MapWithOptions(obj, Options{})
}

// MapWithOptions flattens a decoded JSON object into a Row.
//
// Nested object keys are joined with ".", array elements contribute their
// decimal index as a path segment (a.b.0.c), and scalars are rendered as
// strings. Sibling keys are visited in lexical order so the resulting key
// order does not depend on map iteration order. Empty objects and arrays
// contribute no keys.
func MapWithOptions(obj map[string]interface{}, opts Options) Row {
	row := Row{Values: make(map[string]string)}
	walkMap("", obj, opts, &row)

	return row
}

func walkMap(prefix string, m map[string]interface{}, opts Options, row *Row) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	for _, k := range keys {
		walkValue(joinPath(prefix, k), m[k], opts, row)
	}
}

func walkValue(path string, v interface{}, opts Options, row *Row) {
	switch val := v.(type) {
	case map[string]interface{}:
		walkMap(path, val, opts, row)
	case []interface{}:
		for i, item := range val {
			walkValue(joinPath(path, strconv.Itoa(i)), item, opts, row)
		}
	default:
		// A key containing dots can produce the same path as a nested
		// key. The last value written wins; the path stays one column.
		if _, exists := row.Values[path]; !exists {
			row.Keys = append(row.Keys, path)
		}

		row.Values[path] = renderScalar(val, opts)
	}
}

// joinPath appends a segment to a dotted path.
func joinPath(prefix, segment string) string {
	if prefix == "" {
		return segment
	}

	return prefix + "." + segment
}

// renderScalar converts a JSON scalar to its CSV cell text.
func renderScalar(v interface{}, opts Options) string {
	switch val := v.(type) {
	case nil:
		return opts.NullValue
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case json.Number:
		// Preserves the lexical form from the document (2.50 stays 2.50).
		return val.String()
	case float64:
		// Reached only for documents decoded without UseNumber.
		return strconv.FormatFloat(val, 'g', -1, 64)
	default:
		return fmt.Sprintf("%v", val)
	}
}
