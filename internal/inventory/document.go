// Package inventory loads JSON inventory documents and partitions their
// resources by declared type.
package inventory

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// ErrMissingResources indicates the document has no top-level "resources"
// array to export.
var ErrMissingResources = errors.New(`no top-level "resources" array`)

// ParseError reports a JSON syntax problem with its position in the input.
type ParseError struct {
	Path   string
	Line   int
	Col    int
	Offset int64
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing %s: line %d, column %d (offset %d): %v",
		e.Path, e.Line, e.Col, e.Offset, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Document is a parsed inventory document.
type Document struct {
	// Path is the file the document was loaded from.
	Path string

	// Resources holds the raw elements of the top-level "resources" array.
	Resources []interface{}
}

// Load reads and parses the JSON inventory document at path.
//
// Numbers are decoded as json.Number so their lexical form survives into
// CSV cells. Syntax problems, including content after the first JSON value,
// are reported as a *ParseError with line/column position. A document whose
// root is not an object, or whose "resources" key is absent or not an
// array, fails with ErrMissingResources.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading input file: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var root interface{}
	if decErr := dec.Decode(&root); decErr != nil {
		return nil, newParseError(path, data, decErr)
	}

	tail := data[dec.InputOffset():]
	if idx := indexNonSpace(tail); idx >= 0 {
		off := dec.InputOffset() + int64(idx)
		line, col := position(data, off)

		return nil, &ParseError{
			Path:   path,
			Line:   line,
			Col:    col,
			Offset: off,
			Err:    errors.New("trailing content after JSON document"),
		}
	}

	rootObj, ok := root.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("%s: document root is %s, not an object: %w",
			path, jsonKind(root), ErrMissingResources)
	}

	resources, ok := rootObj["resources"].([]interface{})
	if !ok {
		return nil, fmt.Errorf("%s: %w", path, ErrMissingResources)
	}

	return &Document{Path: path, Resources: resources}, nil
}

// newParseError wraps a decode error with its line/column position. Errors
// without an offset (such as a truncated document) point at the end of the
// input.
func newParseError(path string, data []byte, err error) *ParseError {
	offset := int64(len(data))

	var synErr *json.SyntaxError

	var typeErr *json.UnmarshalTypeError

	switch {
	case errors.As(err, &synErr):
		offset = synErr.Offset
	case errors.As(err, &typeErr):
		offset = typeErr.Offset
	}

	line, col := position(data, offset)

	return &ParseError{Path: path, Line: line, Col: col, Offset: offset, Err: err}
}

// position converts a byte offset into a 1-based line and column.
func position(data []byte, offset int64) (line, col int) {
	line = 1
	col = 1

	for i := int64(0); i < offset && i < int64(len(data)); i++ {
		if data[i] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}

	return line, col
}

// indexNonSpace returns the index of the first byte that is not JSON
// whitespace, or -1 if there is none.
func indexNonSpace(b []byte) int {
	for i, c := range b {
		switch c {
		case ' ', '\t', '\r', '\n':
		default:
			return i
		}
	}

	return -1
}

// jsonKind names the JSON kind of a decoded value for error messages.
func jsonKind(v interface{}) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "a boolean"
	case json.Number:
		return "a number"
	case string:
		return "a string"
	case []interface{}:
		return "a list"
	case map[string]interface{}:
		return "an object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
