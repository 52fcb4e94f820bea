package memory

import (
	"context"
	"fmt"

	"github.com/aretw0/orgtree/pkg/domain"
)

// Loader implements ports.ChartLoader with a fixed chart.
type Loader struct {
	chart domain.Chart
}

// NewLoader creates a loader serving chart.
func NewLoader(chart domain.Chart) (*Loader, error) {
	if err := chart.Validate(); err != nil {
		return nil, fmt.Errorf("memory loader: %w", err)
	}
	return &Loader{chart: chart}, nil
}

// NewFromEmployees snapshots an already built tree.
// This improves DX for tests that assemble employees by hand.
func NewFromEmployees(root *domain.Employee) (*Loader, error) {
	return NewLoader(domain.Snapshot(root))
}

// LoadChart returns a copy of the configured chart.
func (l *Loader) LoadChart(ctx context.Context) (domain.Chart, error) {
	return domain.Snapshot(l.chart.Build()), nil
}
