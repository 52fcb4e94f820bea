package ports

import (
	"context"

	"github.com/aretw0/orgtree/pkg/domain"
)

// ChartLoader provides the initial organization chart for new sessions.
type ChartLoader interface {
	LoadChart(ctx context.Context) (domain.Chart, error)
}
