package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/orgtree/pkg/domain"
)

// GraphOverlay contains history data to visualize on the graph.
type GraphOverlay struct {
	MovedEmployees []int
	LastMoved      int // 0 means none
}

// OverlayFromHistory marks every employee moved by the executed part of history.
// Entries past cursor were undone and are ignored.
func OverlayFromHistory(history []domain.Move, cursor int) *GraphOverlay {
	if cursor > len(history) {
		cursor = len(history)
	}
	o := &GraphOverlay{}
	for _, mv := range history[:cursor] {
		o.MovedEmployees = append(o.MovedEmployees, mv.EmployeeID)
	}
	if cursor > 0 {
		o.LastMoved = history[cursor-1].EmployeeID
	}
	return o
}

// GenerateMermaid produces a Mermaid flowchart, top-down from the CEO.
// The CEO is drawn as a ((Circle)), everyone else as a [Rectangle].
// Overlay styles (moved/last) are applied if provided.
func GenerateMermaid(chart domain.Chart, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	fmt.Fprintf(&sb, "    %s((\"%d\"))\n", nodeID(chart.ID), chart.ID)
	writeEdges(&sb, chart)

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for contrast regardless of theme
		sb.WriteString("    classDef moved fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef last fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		seen := make(map[int]bool)
		for _, id := range overlay.MovedEmployees {
			if seen[id] || id == overlay.LastMoved {
				continue
			}
			seen[id] = true
			fmt.Fprintf(&sb, "    class %s moved;\n", nodeID(id))
		}
		if overlay.LastMoved != 0 {
			fmt.Fprintf(&sb, "    class %s last;\n", nodeID(overlay.LastMoved))
		}
	}

	return sb.String()
}

func writeEdges(sb *strings.Builder, c domain.Chart) {
	for _, sub := range c.Subordinates {
		fmt.Fprintf(sb, "    %s[\"%d\"]\n", nodeID(sub.ID), sub.ID)
		fmt.Fprintf(sb, "    %s --> %s\n", nodeID(c.ID), nodeID(sub.ID))
		writeEdges(sb, sub)
	}
}

// nodeID keeps negative ids valid as Mermaid identifiers.
func nodeID(id int) string {
	if id < 0 {
		return fmt.Sprintf("e_%d", -id)
	}
	return fmt.Sprintf("e%d", id)
}
