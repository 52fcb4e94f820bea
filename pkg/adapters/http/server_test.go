package http

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/orgtree"
	"github.com/aretw0/orgtree/pkg/adapters/memory"
	"github.com/aretw0/orgtree/pkg/domain"
	"github.com/aretw0/orgtree/pkg/observability"
	"github.com/aretw0/orgtree/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chartJSON = `{"id":1,"subordinates":[{"id":2,"subordinates":[{"id":4}]},{"id":3}]}`

type fixture struct {
	handler http.Handler
	streams *StreamManager
	metrics *observability.Metrics
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	streams := NewStreamManager(nil)
	metrics := observability.NewMetrics()
	mgr := session.NewManager(memory.NewStore(), session.WithEngineOptions(
		orgtree.WithLifecycleHooks(observability.Combine(metrics.Hooks(), streams.Hooks())),
	))
	h, err := NewHandler(mgr, WithStreams(streams), WithMetrics(metrics))
	require.NoError(t, err)
	return &fixture{handler: h, streams: streams, metrics: metrics}
}

func (f *fixture) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	w := httptest.NewRecorder()
	f.handler.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestLoadSpec(t *testing.T) {
	doc, err := LoadSpec(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, doc.Paths.Find("/sessions/{id}/moves"))
}

func TestHealthAndInfo(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, "GET", "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	info := decode[map[string]string](t, f.do(t, "GET", "/info", ""))
	assert.Equal(t, "orgtree-http", info["app"])
	assert.Equal(t, "0.1.0", info["api_version"])

	w = f.do(t, "GET", "/openapi.yaml", "")
	assert.Contains(t, w.Body.String(), "openapi: 3.0.3")
}

func TestSessionLifecycle(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, "PUT", "/sessions/acme", chartJSON)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[SessionResponse](t, w)
	assert.Equal(t, "acme", created.ID)
	assert.False(t, created.CanUndo)

	ids := decode[[]string](t, f.do(t, "GET", "/sessions", ""))
	assert.Equal(t, []string{"acme"}, ids)

	// Move 4 under 3.
	w = f.do(t, "POST", "/sessions/acme/moves", `{"employee_id":4,"supervisor_id":3}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	moved := decode[SessionResponse](t, w)
	assert.Equal(t, 1, moved.Cursor)
	assert.True(t, moved.CanUndo)

	emp := decode[EmployeeResponse](t, f.do(t, "GET", "/sessions/acme/employees/4", ""))
	assert.Equal(t, 3, emp.SupervisorID)

	ceo := decode[EmployeeResponse](t, f.do(t, "GET", "/sessions/acme/employees/1", ""))
	assert.Equal(t, 1, ceo.SupervisorID)
	assert.Equal(t, []int{2, 3}, ceo.Subordinates)

	undone := decode[StepResponse](t, f.do(t, "POST", "/sessions/acme/undo", ""))
	assert.True(t, undone.Applied)
	assert.Equal(t, 0, undone.Cursor)
	assert.True(t, undone.CanRedo)

	// Undo at the start of history is a no-op, not an error.
	w = f.do(t, "POST", "/sessions/acme/undo", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.False(t, decode[StepResponse](t, w).Applied)

	redone := decode[StepResponse](t, f.do(t, "POST", "/sessions/acme/redo", ""))
	assert.True(t, redone.Applied)

	hist := decode[HistoryResponse](t, f.do(t, "GET", "/sessions/acme/history", ""))
	assert.Equal(t, 1, hist.Cursor)
	require.Len(t, hist.Moves, 1)
	assert.Equal(t, domain.Move{EmployeeID: 4, SupervisorID: 3, OriginalSupervisorID: 2}, hist.Moves[0])

	c := decode[domain.Chart](t, f.do(t, "GET", "/sessions/acme/chart", ""))
	sub, ok := c.Find(3)
	require.True(t, ok)
	assert.Equal(t, []int{3, 4}, sub.IDs())

	w = f.do(t, "GET", "/sessions/acme/chart?format=yaml", "")
	assert.Equal(t, "application/yaml", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "id: 1")

	w = f.do(t, "GET", "/sessions/acme/graph", "")
	assert.Contains(t, w.Body.String(), "e3 --> e4")
	assert.Contains(t, w.Body.String(), "class e4 last;")

	w = f.do(t, "DELETE", "/sessions/acme", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = f.do(t, "GET", "/sessions/acme", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestErrorMapping(t *testing.T) {
	f := newFixture(t)
	require.Equal(t, http.StatusCreated, f.do(t, "PUT", "/sessions/acme", chartJSON).Code)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
	}{
		{"move CEO", "POST", "/sessions/acme/moves", `{"employee_id":1,"supervisor_id":2}`, http.StatusUnprocessableEntity},
		{"self supervision", "POST", "/sessions/acme/moves", `{"employee_id":2,"supervisor_id":2}`, http.StatusUnprocessableEntity},
		{"unknown employee", "POST", "/sessions/acme/moves", `{"employee_id":9,"supervisor_id":2}`, http.StatusNotFound},
		{"unknown supervisor", "POST", "/sessions/acme/moves", `{"employee_id":2,"supervisor_id":9}`, http.StatusNotFound},
		{"missing field", "POST", "/sessions/acme/moves", `{"employee_id":2}`, http.StatusBadRequest},
		{"malformed body", "POST", "/sessions/acme/moves", `{`, http.StatusBadRequest},
		{"unknown session", "POST", "/sessions/ghost/undo", "", http.StatusNotFound},
		{"unknown employee lookup", "GET", "/sessions/acme/employees/42", "", http.StatusNotFound},
		{"non numeric employee", "GET", "/sessions/acme/employees/bob", "", http.StatusBadRequest},
		{"duplicate ids", "PUT", "/sessions/dup", `{"id":1,"subordinates":[{"id":1}]}`, http.StatusBadRequest},
		{"invalid session id", "PUT", "/sessions/-bad", chartJSON, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := f.do(t, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			assert.Contains(t, w.Body.String(), `"error"`)
		})
	}

	// Rejected moves leave the history untouched.
	hist := decode[HistoryResponse](t, f.do(t, "GET", "/sessions/acme/history", ""))
	assert.Empty(t, hist.Moves)
}

func TestMetricsEndpoint(t *testing.T) {
	f := newFixture(t)
	require.Equal(t, http.StatusCreated, f.do(t, "PUT", "/sessions/acme", chartJSON).Code)
	require.Equal(t, http.StatusOK, f.do(t, "POST", "/sessions/acme/moves", `{"employee_id":4,"supervisor_id":3}`).Code)

	w := f.do(t, "GET", "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `orgtree_history_cursor{org="acme"} 1`)
}

func TestNewHandler_OptionalRoutes(t *testing.T) {
	mgr := session.NewManager(memory.NewStore())
	h, err := NewHandler(mgr)
	require.NoError(t, err)

	for _, path := range []string{"/sessions/acme/events", "/metrics"} {
		req := httptest.NewRequest("GET", path, nil)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNotFound, w.Code, path)
	}
}

func TestCORSPreflight(t *testing.T) {
	f := newFixture(t)
	w := f.do(t, "OPTIONS", "/sessions/acme/moves", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestSubscribeEvents_Session(t *testing.T) {
	f := newFixture(t)
	srv := httptest.NewServer(f.handler)
	defer srv.Close()

	require.Equal(t, http.StatusCreated, f.do(t, "PUT", "/sessions/acme", chartJSON).Code)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, "GET", srv.URL+"/sessions/acme/events", nil)
	require.NoError(t, err)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	lines := bufio.NewScanner(resp.Body)
	readData := func() string {
		for lines.Scan() {
			if data, ok := strings.CutPrefix(lines.Text(), "data: "); ok {
				return data
			}
		}
		t.Fatalf("stream ended: %v", lines.Err())
		return ""
	}

	// The ping is written after the subscription is registered.
	assert.Equal(t, "connected", readData())

	require.Equal(t, http.StatusOK, f.do(t, "POST", "/sessions/acme/moves", `{"employee_id":4,"supervisor_id":3}`).Code)

	var ev domain.MoveEvent
	require.NoError(t, json.Unmarshal([]byte(readData()), &ev))
	assert.Equal(t, domain.EventMove, ev.Type)
	assert.Equal(t, "acme", ev.Org)
	assert.Equal(t, 4, ev.Move.EmployeeID)
	assert.Equal(t, 1, ev.Cursor)
}

func TestStreamManager_Unsubscribe(t *testing.T) {
	sm := NewStreamManager(nil)
	ch, cancel := sm.Subscribe("s1")
	sm.Broadcast("s1", "hello")
	assert.Equal(t, "hello", <-ch)

	cancel()
	_, open := <-ch
	assert.False(t, open)
	assert.Empty(t, sm.subscribers)

	// Broadcasting to nobody is a no-op.
	sm.Broadcast("s1", "ignored")
}
