package tree_test

import (
	"strings"
	"testing"

	"github.com/aretw0/orgtree/internal/presentation/tree"
	"github.com/aretw0/orgtree/pkg/domain"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chart() domain.Chart {
	return domain.Chart{ID: 1, Subordinates: []domain.Chart{
		{ID: 2, Subordinates: []domain.Chart{{ID: 4}, {ID: 5}}},
		{ID: 3, Subordinates: []domain.Chart{{ID: 6}}},
	}}
}

func TestString(t *testing.T) {
	want := strings.Join([]string{
		"1 (CEO)",
		"├── 2",
		"│   ├── 4",
		"│   └── 5",
		"└── 3",
		"    └── 6",
		"",
	}, "\n")
	assert.Equal(t, want, tree.String(chart()))
}

func TestString_Single(t *testing.T) {
	assert.Equal(t, "7 (CEO)\n", tree.String(domain.Chart{ID: 7}))
}

func TestRenderer_Colors(t *testing.T) {
	var sb strings.Builder
	r := tree.NewRenderer(tree.WithProfile(termenv.TrueColor), tree.WithHighlight(4))
	require.NoError(t, r.Render(&sb, chart()))

	out := sb.String()
	assert.Contains(t, out, "\x1b[")
	assert.NotEqual(t, tree.String(chart()), out)
}
