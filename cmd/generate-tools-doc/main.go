package main

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/spf13/cobra"

	"github.com/rhobs/agent-tools/pkg/agenttools"
	"github.com/rhobs/agent-tools/pkg/mcp"
)

const header = `<!-- This file is auto-generated. Do not edit manually. -->
<!-- Run 'go run ./cmd/generate-tools-doc' to regenerate. -->

# Available Tools

`

var errStale = errors.New("is out of date, run 'go run ./cmd/generate-tools-doc'")

// section is one group of tools in the generated document.
type section struct {
	Title string
	Intro string
	Tools []mcplib.Tool
}

var (
	output string
	check  bool
)

var rootCmd = &cobra.Command{
	Use:           "generate-tools-doc",
	Short:         "Render the tool reference for both hosts as markdown",
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.NoArgs,
	RunE:          run,
}

func init() {
	rootCmd.Flags().StringVarP(&output, "output", "o", "TOOLS.md", "File to write")
	rootCmd.Flags().BoolVar(&check, "check", false, "Only verify that the file is up to date")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, _ []string) error {
	sections := defaultSections()
	doc := renderMarkdown(sections)

	if check {
		return checkUpToDate(output, doc)
	}
	if err := os.WriteFile(output, doc, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", output, err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "✓ %s generated successfully\n", output)
	for _, sec := range sections {
		fmt.Fprintf(out, "  %s (%d):\n", sec.Title, len(sec.Tools))
		for i := range sec.Tools {
			fmt.Fprintf(out, "    - %s\n", sec.Tools[i].Name)
		}
	}
	fmt.Fprintln(out, "\n💡 Reminder: new tools must be added to AllTools() in pkg/tools or pkg/agenttools")
	return nil
}

func defaultSections() []section {
	defs := agenttools.AllTools()
	agentTools := make([]mcplib.Tool, 0, len(defs))
	for _, def := range defs {
		agentTools = append(agentTools, def.ToMCPTool())
	}

	return []section{
		{
			Title: "MCP Server Tools",
			Intro: "The `calculator-mcp` server exposes the following numeric tools. Failures are reported as MCP tool errors (`isError`).",
			Tools: mcp.AllTools(),
		},
		{
			Title: "Agent Tools",
			Intro: "The `agent` CLI offers the following tools to the model. Results are plain text; failures start with `Error`.",
			Tools: agentTools,
		},
	}
}

func checkUpToDate(path string, want []byte) error {
	got, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%s %w", path, errStale)
	}
	if err != nil {
		return err
	}
	if !bytes.Equal(got, want) {
		return fmt.Errorf("%s %w", path, errStale)
	}
	return nil
}

func renderMarkdown(sections []section) []byte {
	var sb strings.Builder
	sb.WriteString(header)
	for _, sec := range sections {
		fmt.Fprintf(&sb, "## %s\n\n%s\n\n", sec.Title, sec.Intro)
		for i := range sec.Tools {
			if i > 0 {
				sb.WriteString("---\n\n")
			}
			writeTool(&sb, &sec.Tools[i])
		}
	}
	return []byte(sb.String())
}

func writeTool(sb *strings.Builder, tool *mcplib.Tool) {
	fmt.Fprintf(sb, "### `%s`\n\n", tool.Name)

	// The first paragraph is the summary; any further ones become tips.
	summary, tips := splitDescription(tool.Description)
	fmt.Fprintf(sb, "> %s\n\n", summary)
	if len(tips) > 0 {
		sb.WriteString("**Usage Tips:**\n\n")
		for _, tip := range tips {
			fmt.Fprintf(sb, "- %s\n", tip)
		}
		sb.WriteString("\n")
	}

	params := schemaFields(tool.InputSchema.Properties, tool.InputSchema.Required)
	if len(params) == 0 {
		sb.WriteString(formatTable([]column{{}, {}}, [][]string{{"**Parameters**", "None"}}))
		sb.WriteString("\n")
	} else {
		rows := make([][]string, 0, len(params))
		for _, p := range params {
			req := ""
			if p.Required {
				req = "✅"
			}
			rows = append(rows, []string{code(p.Name), code(p.Type), req, p.Description})
		}
		sb.WriteString("**Parameters:**\n\n")
		sb.WriteString(formatTable([]column{
			{Title: "Parameter"}, {Title: "Type"}, {Title: "Required", Align: alignCenter}, {Title: "Description"},
		}, rows))
		sb.WriteString("\n")
	}

	outputs := schemaFields(tool.OutputSchema.Properties, tool.OutputSchema.Required)
	if len(outputs) > 0 {
		rows := make([][]string, 0, len(outputs))
		for _, f := range outputs {
			rows = append(rows, []string{code(f.Name), code(f.Type), f.Description})
		}
		sb.WriteString("**Output Schema:**\n\n")
		sb.WriteString(formatTable([]column{{Title: "Field"}, {Title: "Type"}, {Title: "Description"}}, rows))
		sb.WriteString("\n")
	}
}

func splitDescription(desc string) (string, []string) {
	paragraphs := strings.Split(strings.TrimSpace(desc), "\n\n")
	var tips []string
	for _, para := range paragraphs[1:] {
		if tip := strings.Join(strings.Fields(para), " "); tip != "" {
			tips = append(tips, tip)
		}
	}
	return strings.TrimSpace(paragraphs[0]), tips
}

func code(s string) string {
	return "`" + s + "`"
}

type field struct {
	Name        string
	Type        string
	Required    bool
	Description string
}

// schemaFields flattens the top level of a JSON schema. Required fields sort
// first, then by name.
func schemaFields(props map[string]any, required []string) []field {
	isRequired := make(map[string]bool, len(required))
	for _, r := range required {
		isRequired[r] = true
	}

	fields := make([]field, 0, len(props))
	for name, prop := range props {
		f := field{Name: name, Required: isRequired[name]}
		if m, ok := prop.(map[string]any); ok {
			f.Type = schemaType(m)
			f.Description, _ = m["description"].(string)
		}
		fields = append(fields, f)
	}

	sort.Slice(fields, func(i, j int) bool {
		if fields[i].Required != fields[j].Required {
			return fields[i].Required
		}
		return fields[i].Name < fields[j].Name
	})
	return fields
}

func schemaType(prop map[string]any) string {
	t, _ := prop["type"].(string)
	if t != "array" {
		return t
	}
	items, _ := prop["items"].(map[string]any)
	if it, ok := items["type"].(string); ok {
		return it + "[]"
	}
	return "array"
}

type align int

const (
	alignLeft align = iota
	alignCenter
	alignRight
)

type column struct {
	Title string
	Align align
}

// formatTable renders a markdown table padded so columns line up in plain text.
func formatTable(cols []column, rows [][]string) string {
	if len(cols) == 0 || len(rows) == 0 {
		return ""
	}

	widths := make([]int, len(cols))
	for i, c := range cols {
		widths[i] = len(c.Title)
	}
	for _, row := range rows {
		for i := 0; i < len(row) && i < len(widths); i++ {
			widths[i] = max(widths[i], len(row[i]))
		}
	}

	var sb strings.Builder
	writeRow := func(cells func(i int) string) {
		sb.WriteString("|")
		for i := range widths {
			fmt.Fprintf(&sb, " %s |", cells(i))
		}
		sb.WriteString("\n")
	}
	pad := func(s string, w int) string { return s + strings.Repeat(" ", max(w-len(s), 0)) }

	writeRow(func(i int) string { return pad(cols[i].Title, widths[i]) })
	writeRow(func(i int) string {
		w := widths[i]
		switch cols[i].Align {
		case alignCenter:
			return ":" + strings.Repeat("-", max(w-2, 0)) + ":"
		case alignRight:
			return strings.Repeat("-", max(w-1, 0)) + ":"
		default:
			return ":" + strings.Repeat("-", max(w-1, 0))
		}
	})
	for _, row := range rows {
		writeRow(func(i int) string {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			return pad(cell, widths[i])
		})
	}
	return sb.String()
}
