package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/fbxtools/pkg/domain"
	"github.com/aretw0/fbxtools/pkg/scene"
)

// InspectionMarkdown renders a scene listing as a markdown table.
func InspectionMarkdown(info *scene.Inspection) string {
	var sb strings.Builder
	title := info.Path
	if title == "" {
		title = "scene"
	}
	fmt.Fprintf(&sb, "# %s\n\n", title)
	fmt.Fprintf(&sb, "FBX %d (%s), %d objects, %d connections\n\n", info.Version, orDash(info.Format), info.Objects, info.Connections)

	sb.WriteString("| Node | Type | Mesh | Materials | Parents |\n")
	sb.WriteString("|---|---|---|---|---|\n")
	for _, n := range info.Nodes {
		fmt.Fprintf(&sb, "| %s | %s | %s | %s | %s |\n",
			cell(n.Name), cell(orDash(n.Type)), cell(orDash(n.Mesh)),
			cell(orDash(strings.Join(n.Materials, ", "))), cell(orDash(strings.Join(n.Parents, ", "))))
	}
	return sb.String()
}

// ResultMarkdown renders the outcome of a clone.
func ResultMarkdown(res *domain.Result) string {
	var sb strings.Builder
	if !res.OK() {
		fmt.Fprintf(&sb, "**%s**: %s\n", res.Status, res.Message)
		return sb.String()
	}
	fmt.Fprintf(&sb, "Cloned **%s** as **%s**\n\n", res.Request.Source, res.Clone)
	fmt.Fprintf(&sb, "- Mesh: `%s`\n", res.Mesh)
	fmt.Fprintf(&sb, "- Parents: %s\n", strings.Join(res.Parents, ", "))
	fmt.Fprintf(&sb, "- Output: `%s`\n", res.Output)
	for _, s := range res.Snapshots {
		fmt.Fprintf(&sb, "- Snapshot: `%s`\n", s)
	}
	fmt.Fprintf(&sb, "- Took: %s\n", res.Duration())
	return sb.String()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func cell(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
