package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderMarkdown(t *testing.T) {
	doc := string(renderMarkdown(defaultSections()))

	for _, want := range []string{
		"## MCP Server Tools",
		"## Agent Tools",
		"### `divide`",
		"### `power`",
		"### `calculator`",
		"### `python_repl`",
		"**Output Schema:**",
		"`expression`",
	} {
		assert.Contains(t, doc, want)
	}
	assert.True(t, strings.HasPrefix(doc, header))
	assert.Less(t, strings.Index(doc, "## MCP Server Tools"), strings.Index(doc, "## Agent Tools"))
}

func TestWriteToolWithoutParams(t *testing.T) {
	tool := mcplib.NewTool("noop", mcplib.WithDescription("Does nothing.\n\nReally\nnothing."))

	var sb strings.Builder
	writeTool(&sb, &tool)

	out := sb.String()
	assert.Contains(t, out, "> Does nothing.")
	assert.Contains(t, out, "- Really nothing.\n")
	assert.Contains(t, out, "| **Parameters** | None |")
	assert.NotContains(t, out, "**Output Schema:**")
}

func TestSchemaFields(t *testing.T) {
	fields := schemaFields(map[string]any{
		"z":    map[string]any{"type": "string", "description": "last"},
		"b":    map[string]any{"type": "number"},
		"tags": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
	}, []string{"z"})

	require.Len(t, fields, 3)
	assert.Equal(t, field{Name: "z", Type: "string", Required: true, Description: "last"}, fields[0])
	assert.Equal(t, "b", fields[1].Name)
	assert.Equal(t, "string[]", fields[2].Type)
}

func TestFormatTable(t *testing.T) {
	got := formatTable([]column{{Title: "A"}, {Title: "B", Align: alignCenter}}, [][]string{{"x", "yy"}})
	want := "| A | B  |\n| : | :: |\n| x | yy |\n"
	assert.Equal(t, want, got)

	assert.Empty(t, formatTable([]column{{Title: "A"}}, nil))
}

func TestCheckUpToDate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "TOOLS.md")
	doc := renderMarkdown(defaultSections())

	assert.ErrorIs(t, checkUpToDate(path, doc), errStale, "missing file")

	require.NoError(t, os.WriteFile(path, doc, 0o644))
	assert.NoError(t, checkUpToDate(path, doc))

	require.NoError(t, os.WriteFile(path, append(doc, '\n'), 0o644))
	assert.ErrorIs(t, checkUpToDate(path, doc), errStale)
}
