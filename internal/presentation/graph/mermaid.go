package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/fbxtools/pkg/scene"
)

// GraphOverlay marks the nodes touched by a clone.
type GraphOverlay struct {
	Source string
	Clone  string
}

// GenerateMermaid produces a Mermaid flowchart of the scene hierarchy.
// It applies semantic styling:
// - Root and Null models: ((Circle))
// - Mesh models: [Rectangle]
// - Geometry: [[Subroutine]]
// - Materials: {{Hexagon}}
// - Anything else: [/Parallelogram/]
// Parent links are solid arrows, geometry and material links dotted.
func GenerateMermaid(info *scene.Inspection, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")
	fmt.Fprintf(&sb, "    %s((\"%s\"))\n", sanitizeMermaidID(scene.RootName), scene.RootName)

	for _, node := range info.Nodes {
		safeID := sanitizeMermaidID(node.Name)

		opener, closer := "[/", "/]"
		switch node.Type {
		case "Null":
			opener, closer = "((", "))"
		case "Mesh":
			opener, closer = "[", "]"
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", safeID, opener, escapeLabel(node.Name), closer)

		for _, parent := range node.Parents {
			fmt.Fprintf(&sb, "    %s --> %s\n", sanitizeMermaidID(parent), safeID)
		}
		if node.Mesh != "" {
			meshID := "geo_" + sanitizeMermaidID(node.Mesh)
			fmt.Fprintf(&sb, "    %s[[\"%s\"]]\n", meshID, escapeLabel(node.Mesh))
			fmt.Fprintf(&sb, "    %s -.-> %s\n", meshID, safeID)
		}
		for _, mat := range node.Materials {
			matID := "mat_" + sanitizeMermaidID(mat)
			fmt.Fprintf(&sb, "    %s{{\"%s\"}}\n", matID, escapeLabel(mat))
			fmt.Fprintf(&sb, "    %s -.- %s\n", matID, safeID)
		}
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef source fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef clone fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")
		if overlay.Source != "" {
			fmt.Fprintf(&sb, "    class %s source;\n", sanitizeMermaidID(overlay.Source))
		}
		if overlay.Clone != "" {
			fmt.Fprintf(&sb, "    class %s clone;\n", sanitizeMermaidID(overlay.Clone))
		}
	}

	return sb.String()
}

func escapeLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

func sanitizeMermaidID(id string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		}
		return '_'
	}, id)
}
