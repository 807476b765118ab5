// Package visualization renders element schemas as Graphviz graphs
package visualization

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/anggasct/netedit"
)

// DOTGenerator generates Graphviz DOT format representations of element schemas
type DOTGenerator struct {
	schema  netedit.Schema
	options DOTOptions
}

// DOTOptions configures the DOT generation
type DOTOptions struct {
	ShowDefaults      bool
	ShowKinds         bool
	ShowRequirements  bool
	RankDirection     string // "TB", "LR", "BT", "RL"
	NodeShape         string
	ExclusiveStyle    string
	RequireOneOfStyle string
}

// DefaultDOTOptions returns sensible default options for DOT generation
func DefaultDOTOptions() DOTOptions {
	return DOTOptions{
		ShowDefaults:      true,
		ShowKinds:         true,
		ShowRequirements:  true,
		RankDirection:     "LR",
		NodeShape:         "box",
		ExclusiveStyle:    "dashed",
		RequireOneOfStyle: "rounded,dotted",
	}
}

// NewDOTGenerator creates a new DOT generator for the given schema
func NewDOTGenerator(schema netedit.Schema, options ...DOTOptions) *DOTGenerator {
	opts := DefaultDOTOptions()
	if len(options) > 0 {
		opts = options[0]
	}

	return &DOTGenerator{
		schema:  schema,
		options: opts,
	}
}

// Generate creates a DOT representation of the schema
func (g *DOTGenerator) Generate() (string, error) {
	if g.schema.Tag == "" {
		return "", fmt.Errorf("schema has no tag")
	}

	var dot strings.Builder

	fmt.Fprintf(&dot, "digraph %q {\n", string(g.schema.Tag))
	fmt.Fprintf(&dot, "  rankdir=%s;\n", g.options.RankDirection)
	fmt.Fprintf(&dot, "  node [shape=%s];\n", g.options.NodeShape)
	dot.WriteString("  edge [fontsize=10];\n\n")

	g.generateAttributes(&dot)
	g.generateRequireOneOf(&dot)
	g.generateExclusive(&dot)
	if g.options.ShowRequirements {
		g.generateRequirements(&dot)
	}

	dot.WriteString("}\n")

	return dot.String(), nil
}

// generateAttributes generates one node per key
func (g *DOTGenerator) generateAttributes(dot *strings.Builder) {
	dot.WriteString("  // Attributes\n")

	for _, info := range g.schema.Attributes {
		g.generateAttributeNode(dot, info)
	}
}

func (g *DOTGenerator) generateAttributeNode(dot *strings.Builder, info netedit.AttributeInfo) {
	fillColor := "lightblue"
	style := "filled"
	label := info.Key.String()

	if g.options.ShowKinds {
		label += fmt.Sprintf("\\n<%s>", info.Kind)
	}
	if g.options.ShowDefaults && info.Default != "" {
		label += fmt.Sprintf("\\n= %s", escape(info.Default))
	}

	switch {
	case info.ReadOnly:
		fillColor = "lightgrey"
	case info.Optional && info.Enabled:
		fillColor = "lightgreen"
		style = "filled,dashed"
	case info.Optional:
		fillColor = "white"
		style = "filled,dashed"
	}
	if info.Positional {
		label += "\\n(positional)"
	}

	fmt.Fprintf(dot, "  %q [style=%q fillcolor=%s label=\"%s\"];\n",
		info.Key.String(), style, fillColor, label)
}

// generateRequireOneOf draws a cluster around every group that needs one enabled key
func (g *DOTGenerator) generateRequireOneOf(dot *strings.Builder) {
	if len(g.schema.RequireOneOf) == 0 {
		return
	}

	dot.WriteString("\n  // Require one of\n")

	for i, group := range g.schema.RequireOneOf {
		fmt.Fprintf(dot, "  subgraph cluster_one_of_%d {\n", i)
		fmt.Fprintf(dot, "    label=\"one of\";\n    style=%q;\n", g.options.RequireOneOfStyle)
		for _, key := range group {
			fmt.Fprintf(dot, "    %q;\n", key.String())
		}
		dot.WriteString("  }\n")
	}
}

// generateExclusive connects mutually exclusive keys
func (g *DOTGenerator) generateExclusive(dot *strings.Builder) {
	if len(g.schema.Exclusive) == 0 {
		return
	}

	dot.WriteString("\n  // Exclusive\n")

	for _, group := range g.schema.Exclusive {
		for i := 0; i < len(group); i++ {
			for j := i + 1; j < len(group); j++ {
				fmt.Fprintf(dot, "  %q -> %q [dir=both style=%s color=red label=\"excludes\"];\n",
					group[i].String(), group[j].String(), g.options.ExclusiveStyle)
			}
		}
	}
}

// generateRequirements attaches the condition of every guarded key
func (g *DOTGenerator) generateRequirements(dot *strings.Builder) {
	if len(g.schema.Requires) == 0 {
		return
	}

	dot.WriteString("\n  // Requirements\n")

	for i, req := range g.schema.Requires {
		node := fmt.Sprintf("requires_%d", i)
		fmt.Fprintf(dot, "  %q [shape=note fillcolor=lightyellow style=filled label=\"%s\"];\n", node, escape(req.Reason))
		fmt.Fprintf(dot, "  %q -> %q [style=dotted arrowhead=none];\n", req.Key.String(), node)
	}
}

func escape(s string) string {
	return strings.ReplaceAll(s, `"`, `\"`)
}

// GenerateToFile writes the DOT representation to a file
func (g *DOTGenerator) GenerateToFile(filename string) error {
	content, err := g.Generate()
	if err != nil {
		return err
	}

	return os.WriteFile(filename, []byte(content), 0644)
}

// SVGGenerator generates SVG representations by calling Graphviz
type SVGGenerator struct {
	dotGenerator *DOTGenerator
}

// NewSVGGenerator creates a new SVG generator
func NewSVGGenerator(schema netedit.Schema, options ...DOTOptions) *SVGGenerator {
	return &SVGGenerator{
		dotGenerator: NewDOTGenerator(schema, options...),
	}
}

// Generate creates an SVG representation of the schema
func (g *SVGGenerator) Generate() (string, error) {
	dotContent, err := g.dotGenerator.Generate()
	if err != nil {
		return "", err
	}

	cmd := exec.Command("dot", "-Tsvg")
	cmd.Stdin = strings.NewReader(dotContent)

	var out bytes.Buffer
	cmd.Stdout = &out

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("failed to execute dot command: %w (make sure Graphviz is installed)", err)
	}

	return out.String(), nil
}

// GenerateSVG creates an SVG representation of the schema
func (g *DOTGenerator) GenerateSVG() (string, error) {
	svgGen := &SVGGenerator{dotGenerator: g}
	return svgGen.Generate()
}
