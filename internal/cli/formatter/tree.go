package formatter

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// TreeItem is one row of a rendered outline.
type TreeItem struct {
	Label  string // generated ID; "" renders a placeholder
	Title  string
	Level  int
	IsLast bool
	Detail string
}

const (
	treeBranch = "├─ "
	treeCorner = "└─ "
	treePipe   = "│  "
	treeBlank  = "   "
)

// RenderTree renders items in depth-first order as an indented tree, each
// row led by its generated ID. Detail badges are right-aligned.
func RenderTree(items []TreeItem) string {
	if len(items) == 0 {
		return ""
	}

	contents := make([]string, len(items))
	badges := make([]string, len(items))
	width := 0

	// open[d] is true while the ancestor at depth d still has siblings below.
	var open []bool
	for idx, item := range items {
		if item.Level < len(open) {
			open = open[:item.Level]
		}
		for len(open) < item.Level {
			open = append(open, true)
		}

		var prefix strings.Builder
		for d := 1; d < item.Level; d++ {
			if open[d] {
				prefix.WriteString(treePipe)
			} else {
				prefix.WriteString(treeBlank)
			}
		}
		if item.Level > 0 {
			if item.IsLast {
				prefix.WriteString(treeCorner)
			} else {
				prefix.WriteString(treeBranch)
			}
		}
		open = append(open, !item.IsLast)

		content := prefix.String() + Label(item.Label) + " " + item.Title
		contents[idx] = content
		if item.Detail != "" {
			badges[idx] = StyleBlue.Render("[ " + item.Detail + " ]")
		}
		if w := lipgloss.Width(content); w > width {
			width = w
		}
	}

	var b strings.Builder
	for i, content := range contents {
		b.WriteString(content)
		if badges[i] != "" {
			b.WriteString(strings.Repeat(" ", width-lipgloss.Width(content)+2))
			b.WriteString(badges[i])
		}
		b.WriteString("\n")
	}
	return b.String()
}
