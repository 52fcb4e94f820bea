package memory_test

import (
	"context"
	"testing"

	"github.com/aretw0/orgtree/pkg/adapters/memory"
	"github.com/aretw0/orgtree/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoader_ReturnsIndependentCopies(t *testing.T) {
	loader, err := memory.NewFromEmployees(domain.NewEmployee(1, domain.NewEmployee(2), domain.NewEmployee(3)))
	require.NoError(t, err)

	first, err := loader.LoadChart(context.Background())
	require.NoError(t, err)
	first.Subordinates[0].ID = 42

	second, err := loader.LoadChart(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, second.IDs())
}

func TestNewLoader_RejectsDuplicates(t *testing.T) {
	_, err := memory.NewLoader(domain.Chart{ID: 1, Subordinates: []domain.Chart{{ID: 1}}})
	assert.ErrorIs(t, err, domain.ErrInvalidChart)
}
