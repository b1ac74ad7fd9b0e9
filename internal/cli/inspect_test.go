package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const inspectInput = `{"resources": [{"types": "server", "id": "web-1", "cpu": 4}, {"id": "bad"}]}`

func TestInspect_Table(t *testing.T) {
	input := writeInputFile(t, inspectInput)

	stdout, _, err := executeCommand("inspect", input)
	require.NoError(t, err, "inspect is informational; skips do not fail it")

	assert.Contains(t, stdout, "=== Input: "+input+" ===")
	assert.Contains(t, stdout, "Resources: 2")
	assert.Contains(t, stdout, "--- Groups (1) ---")
	assert.Contains(t, stdout, "server")
	assert.Contains(t, stdout, "server.csv")
	assert.Contains(t, stdout, "--- Skipped (1) ---")
	assert.Contains(t, stdout, `missing "types" field`)
	assert.Contains(t, stdout, "bad")
}

func TestInspect_TableWithoutSkipsOmitsSkipSection(t *testing.T) {
	input := writeInputFile(t, `{"resources": [{"types": "server", "cpu": 4}]}`)

	stdout, _, err := executeCommand("inspect", input)
	require.NoError(t, err)

	assert.NotContains(t, stdout, "Skipped")
}

func TestInspect_ShowColumns(t *testing.T) {
	input := writeInputFile(t, inspectInput)

	stdout, _, err := executeCommand("inspect", "--show-columns", input)
	require.NoError(t, err)

	assert.Contains(t, stdout, "--- Columns: server ---")
	assert.Contains(t, stdout, "  1. cpu")
	assert.Contains(t, stdout, "  2. id")
}

func TestInspect_JSON(t *testing.T) {
	input := writeInputFile(t, inspectInput)

	stdout, _, err := executeCommand("inspect", "--format", "json", input)
	require.NoError(t, err)

	var result inspectReport
	require.NoError(t, json.Unmarshal([]byte(stdout), &result))

	assert.Equal(t, input, result.Input)
	assert.Equal(t, 2, result.Resources)

	require.Len(t, result.Groups, 1)
	assert.Equal(t, "server", result.Groups[0].Type)
	assert.Equal(t, "server.csv", result.Groups[0].File)
	assert.Equal(t, 1, result.Groups[0].Members)
	assert.Equal(t, []string{"cpu", "id"}, result.Groups[0].Columns)

	require.Len(t, result.Skips, 1)
	assert.Equal(t, 1, result.Skips[0].Index)
	assert.Equal(t, "bad", result.Skips[0].ID)
	assert.Equal(t, `missing "types" field`, result.Skips[0].Reason)
}

func TestInspect_YAML(t *testing.T) {
	input := writeInputFile(t, inspectInput)

	stdout, _, err := executeCommand("inspect", "--format", "yaml", input)
	require.NoError(t, err)

	assert.Contains(t, stdout, "type: server")
	assert.Contains(t, stdout, "file: server.csv")
	assert.Contains(t, stdout, "resources: 2")
}

func TestInspect_RespectsColumnOrderFlag(t *testing.T) {
	input := writeInputFile(t, `{"resources": [{"types": "T", "b": 1}, {"types": "T", "a": 2}]}`)

	stdout, _, err := executeCommand("inspect", "--format", "json", "--column-order", "alpha", input)
	require.NoError(t, err)

	var result inspectReport
	require.NoError(t, json.Unmarshal([]byte(stdout), &result))

	require.Len(t, result.Groups, 1)
	assert.Equal(t, []string{"a", "b"}, result.Groups[0].Columns)
}

func TestInspect_InvalidFormat(t *testing.T) {
	input := writeInputFile(t, `{"resources": []}`)

	_, _, err := executeCommand("inspect", "--format", "csv", input)

	exitErr := requireExitCode(t, err, 2)
	assert.Contains(t, exitErr.Error(), "unknown format")
}

func TestInspect_InvalidJSONInput(t *testing.T) {
	input := writeInputFile(t, `{`)

	_, _, err := executeCommand("inspect", input)

	requireExitCode(t, err, 7)
}
