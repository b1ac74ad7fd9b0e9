package flatten

import (
	"encoding/json"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// decode parses a JSON object the same way the loader does, with numbers
// kept as json.Number.
func decode(t *testing.T, raw string) map[string]interface{} {
	t.Helper()

	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()

	var obj map[string]interface{}
	require.NoError(t, dec.Decode(&obj))

	return obj
}

func TestMap_Scalars(t *testing.T) {
	row := Map(decode(t, `{"s": "text", "n": 42, "f": 2.50, "b": true, "z": null}`))

	assert.Equal(t, map[string]string{
		"s": "text",
		"n": "42",
		"f": "2.50",
		"b": "true",
		"z": "",
	}, row.Values)
}

func TestMap_NestedObjects(t *testing.T) {
	row := Map(decode(t, `{"meta": {"id": 7, "owner": {"name": "ops"}}}`))

	assert.Equal(t, []string{"meta.id", "meta.owner.name"}, row.Keys)
	assert.Equal(t, "7", row.Values["meta.id"])
	assert.Equal(t, "ops", row.Values["meta.owner.name"])
}

func TestMap_Arrays(t *testing.T) {
	row := Map(decode(t, `{"tags": ["a", "b"], "ports": [{"port": 80}, {"port": 443}]}`))

	assert.Equal(t, []string{"ports.0.port", "ports.1.port", "tags.0", "tags.1"}, row.Keys)
	assert.Equal(t, "80", row.Values["ports.0.port"])
	assert.Equal(t, "443", row.Values["ports.1.port"])
	assert.Equal(t, "a", row.Values["tags.0"])
	assert.Equal(t, "b", row.Values["tags.1"])
}

func TestMap_ArrayInsideObjectPath(t *testing.T) {
	row := Map(decode(t, `{"a": {"b": [{"c": 1}]}}`))

	assert.Equal(t, []string{"a.b.0.c"}, row.Keys)
	assert.Equal(t, "1", row.Values["a.b.0.c"])
}

func TestMap_SiblingOrderIsLexical(t *testing.T) {
	// Key order must not depend on map iteration order.
	raw := `{"zeta": 1, "alpha": 2, "mid": {"b": 3, "a": 4}}`

	first := Map(decode(t, raw))
	assert.Equal(t, []string{"alpha", "mid.a", "mid.b", "zeta"}, first.Keys)

	for i := 0; i < 20; i++ {
		again := Map(decode(t, raw))
		require.Equal(t, first.Keys, again.Keys)
	}
}

func TestMap_EmptyContainersContributeNothing(t *testing.T) {
	row := Map(decode(t, `{"a": {}, "b": [], "c": 1}`))

	assert.Equal(t, []string{"c"}, row.Keys)
	assert.Len(t, row.Values, 1)
}

func TestMap_EmptyObject(t *testing.T) {
	row := Map(decode(t, `{}`))

	assert.Empty(t, row.Keys)
	assert.Empty(t, row.Values)
}

func TestMapWithOptions_NullValue(t *testing.T) {
	row := MapWithOptions(decode(t, `{"x": null}`), Options{NullValue: "NULL"})

	assert.Equal(t, "NULL", row.Values["x"])
}

func TestMap_NumberLexicalForm(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{`{"n": 1}`, "1"},
		{`{"n": 2.50}`, "2.50"},
		{`{"n": -0.001}`, "-0.001"},
		{`{"n": 1e3}`, "1e3"},
		{`{"n": 12345678901234567890}`, "12345678901234567890"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			row := Map(decode(t, tt.raw))
			assert.Equal(t, tt.want, row.Values["n"])
		})
	}
}

func TestMap_DottedKeyCollision(t *testing.T) {
	row := Map(decode(t, `{"a.b": "flat", "a": {"b": "nested"}}`))

	// One column, last write wins ("a" walks before "a.b" lexically).
	assert.Equal(t, []string{"a.b"}, row.Keys)
	assert.Equal(t, "flat", row.Values["a.b"])
}

func TestMap_RoundTrip(t *testing.T) {
	raw := `{
		"name": "web",
		"meta": {"env": "prod", "region": "eu"},
		"hosts": ["h1", "h2"],
		"cluster": {"nodes": [{"zone": "a"}, {"zone": "b"}]}
	}`

	row := Map(decode(t, raw))
	rebuilt := nest(t, row)

	assert.Equal(t, map[string]interface{}{
		"name": "web",
		"meta": map[string]interface{}{"env": "prod", "region": "eu"},
		"hosts": []interface{}{"h1", "h2"},
		"cluster": map[string]interface{}{
			"nodes": []interface{}{
				map[string]interface{}{"zone": "a"},
				map[string]interface{}{"zone": "b"},
			},
		},
	}, rebuilt)
}

// nest rebuilds a nested structure from a flattened row. Array segments are
// recognized by being all digits. Only string leaves are supported, which is
// enough to verify the flattening is lossless.
func nest(t *testing.T, row Row) map[string]interface{} {
	t.Helper()

	root := make(map[string]interface{})

	for _, key := range row.Keys {
		segments := strings.Split(key, ".")
		insert(t, root, segments, row.Values[key])
	}

	return root
}

func insert(t *testing.T, node map[string]interface{}, segments []string, value string) {
	t.Helper()

	head := segments[0]

	if len(segments) == 1 {
		node[head] = value
		return
	}

	if idx, err := strconv.Atoi(segments[1]); err == nil {
		list, _ := node[head].([]interface{})
		for len(list) <= idx {
			list = append(list, nil)
		}

		if len(segments) == 2 {
			list[idx] = value
		} else {
			child, _ := list[idx].(map[string]interface{})
			if child == nil {
				child = make(map[string]interface{})
			}

			insert(t, child, segments[2:], value)
			list[idx] = child
		}

		node[head] = list

		return
	}

	child, _ := node[head].(map[string]interface{})
	if child == nil {
		child = make(map[string]interface{})
		node[head] = child
	}

	insert(t, child, segments[1:], value)
}
