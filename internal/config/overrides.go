package config

import (
	"fmt"
	"os"
	"regexp"

	sigsyaml "sigs.k8s.io/yaml"
)

// ExportOverrides holds declarative per-type output overrides loaded
// from the config file (.res2csv.yaml).
type ExportOverrides struct {
	// TypeOverrides customise output for individual group type names.
	TypeOverrides map[string]TypeOverride `json:"typeOverrides,omitempty"`
}

// TypeOverride customises the output of a single group.
type TypeOverride struct {
	// File overrides the file name derived from the type name.
	File string `json:"file,omitempty"`

	// Columns pins the listed columns to the front of the header, in the
	// given order. Names not present in the group are ignored.
	Columns []string `json:"columns,omitempty"`
}

// LoadExportOverrides reads the config file at path and parses its
// typeOverrides section. An empty path yields empty overrides.
func LoadExportOverrides(path string) (*ExportOverrides, error) {
	if path == "" {
		return &ExportOverrides{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file %q: %w", path, err)
	}

	return ParseExportOverrides(data)
}

// ParseExportOverrides parses the typeOverrides section from raw config
// file bytes.
func ParseExportOverrides(data []byte) (*ExportOverrides, error) {
	var raw struct {
		TypeOverrides map[string]TypeOverride `json:"typeOverrides,omitempty"`
	}

	if err := sigsyaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing export overrides: %w", err)
	}

	o := &ExportOverrides{TypeOverrides: raw.TypeOverrides}

	if err := o.Validate(); err != nil {
		return nil, err
	}

	return o, nil
}

// fileNamePattern validates file name override values.
// Must not contain path separators or characters the sanitizer replaces.
var fileNamePattern = regexp.MustCompile(`^[^/\\:*?"<>|]+$`)

// Validate checks the overrides for correctness.
func (o *ExportOverrides) Validate() error {
	for typeName, ov := range o.TypeOverrides {
		if ov.File != "" && !fileNamePattern.MatchString(ov.File) {
			return fmt.Errorf("typeOverrides[%s]: file %q is invalid (must match %s)", typeName, ov.File, fileNamePattern.String())
		}

		for _, col := range ov.Columns {
			if col == "" {
				return fmt.Errorf("typeOverrides[%s]: column names must not be empty", typeName)
			}
		}
	}

	return nil
}

// IsEmpty reports whether no overrides are configured.
func (o *ExportOverrides) IsEmpty() bool {
	return len(o.TypeOverrides) == 0
}

// FileFor returns the output file name for a type: the override when one is
// configured, the fallback otherwise.
func (o *ExportOverrides) FileFor(typeName, fallback string) string {
	if ov, ok := o.TypeOverrides[typeName]; ok && ov.File != "" {
		return ov.File
	}

	return fallback
}

// ColumnsFor returns the pinned columns configured for a type.
func (o *ExportOverrides) ColumnsFor(typeName string) []string {
	if ov, ok := o.TypeOverrides[typeName]; ok {
		return ov.Columns
	}

	return nil
}
