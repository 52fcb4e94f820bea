package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/orgtree/internal/presentation/graph"
	"github.com/aretw0/orgtree/pkg/domain"
)

func chart() domain.Chart {
	return domain.Chart{ID: 1, Subordinates: []domain.Chart{
		{ID: 2, Subordinates: []domain.Chart{{ID: 4}}},
		{ID: -3},
	}}
}

func TestGenerateMermaid(t *testing.T) {
	history := []domain.Move{
		{EmployeeID: 4, SupervisorID: 3, OriginalSupervisorID: 2},
		{EmployeeID: 2, SupervisorID: 3, OriginalSupervisorID: 1},
		{EmployeeID: 4, SupervisorID: 1, OriginalSupervisorID: 3},
	}

	tests := []struct {
		name     string
		overlay  *graph.GraphOverlay
		contains []string
		excludes []string
	}{
		{
			name: "Shapes and Edges",
			contains: []string{
				"graph TD\n",
				`e1(("1"))`,
				`e2["2"]`,
				"e1 --> e2",
				"e2 --> e4",
				`e_3["-3"]`,
				"e1 --> e_3",
			},
			excludes: []string{"classDef"},
		},
		{
			name:    "Overlay Skips Undone Moves",
			overlay: graph.OverlayFromHistory(history, 2),
			contains: []string{
				"class e4 moved;",
				"class e2 last;",
			},
			excludes: []string{"class e2 moved;"},
		},
		{
			name:     "Empty Overlay",
			overlay:  graph.OverlayFromHistory(history, 0),
			contains: []string{"classDef moved"},
			excludes: []string{"class e"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := graph.GenerateMermaid(chart(), tt.overlay)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("GenerateMermaid() = \n%v\nWant substring: %v", got, want)
				}
			}
			for _, unwanted := range tt.excludes {
				if strings.Contains(got, unwanted) {
					t.Errorf("GenerateMermaid() = \n%v\nUnexpected substring: %v", got, unwanted)
				}
			}
		})
	}
}

func TestOverlayFromHistory_ClampsCursor(t *testing.T) {
	o := graph.OverlayFromHistory([]domain.Move{{EmployeeID: 5}}, 9)
	if o.LastMoved != 5 || len(o.MovedEmployees) != 1 {
		t.Errorf("unexpected overlay %+v", o)
	}
}
