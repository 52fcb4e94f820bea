package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/orgtree/internal/presentation/tree"
	"github.com/aretw0/orgtree/pkg/domain"
	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a function that renders markdown using glamour.
func NewRenderer() func(string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(), // Automatically detect light/dark background
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return func(markdown string) (string, error) {
			return markdown, nil
		}
	}

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}

// Report builds a markdown overview of an organization: its tree and its history.
func Report(title string, chart domain.Chart, history []domain.Move, cursor int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", title)
	fmt.Fprintf(&sb, "%d employees, CEO is **%d**.\n\n", chart.Size(), chart.ID)

	sb.WriteString("```\n")
	sb.WriteString(tree.String(chart))
	sb.WriteString("```\n")

	if len(history) == 0 {
		return sb.String()
	}

	sb.WriteString("\n## History\n\n")
	sb.WriteString("| # | Employee | From | To | State |\n")
	sb.WriteString("|---|---|---|---|---|\n")
	for i, mv := range history {
		state := "done"
		switch {
		case i+1 == cursor:
			state = "**current**"
		case i+1 > cursor:
			state = "undone"
		}
		fmt.Fprintf(&sb, "| %d | %d | %d | %d | %s |\n",
			i+1, mv.EmployeeID, mv.OriginalSupervisorID, mv.SupervisorID, state)
	}
	return sb.String()
}
