package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/orgtree/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunSessionStoreContract runs a suite of tests to verify that a SessionStore implementation
// adheres to the defined interface contract.
func RunSessionStoreContract(t *testing.T, store SessionStore) {
	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")

	chart := domain.Chart{ID: 1, Subordinates: []domain.Chart{
		{ID: 2, Subordinates: []domain.Chart{{ID: 3}}},
		{ID: 4},
	}}

	t.Run("Save and Load", func(t *testing.T) {
		session := domain.NewSession(sessionID, chart)
		session.History = []domain.Move{
			{EmployeeID: 3, SupervisorID: 4, OriginalSupervisorID: 2},
			{EmployeeID: 2, SupervisorID: 4, OriginalSupervisorID: 1, OriginalSubordinates: []int{3}},
		}
		session.Cursor = 1

		err := store.Save(ctx, session)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, sessionID, loaded.ID)
		assert.Equal(t, chart, loaded.Chart)
		assert.Equal(t, session.History, loaded.History)
		assert.Equal(t, 1, loaded.Cursor)
	})

	t.Run("Loaded Session Is Isolated", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, domain.NewSession(sessionID, chart)))

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		loaded.Chart.Subordinates[0].ID = 99

		again, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, 2, again.Chart.Subordinates[0].ID, "mutating a loaded session must not affect the store")
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, domain.NewSession(sessionID, chart))
		require.NoError(t, err)

		err = store.Delete(ctx, sessionID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		_ = store.Save(ctx, domain.NewSession(id1, chart))
		_ = store.Save(ctx, domain.NewSession(id2, chart))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
	})
}
