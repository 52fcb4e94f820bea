package orgtree

import (
	"io"
	"log/slog"

	"github.com/aretw0/orgtree/internal/runtime"
	"github.com/aretw0/orgtree/pkg/domain"
)

// Engine is the high-level entry point for the orgtree library.
// It wraps the internal runtime and provides a simplified API for consumers.
type Engine struct {
	runtime *runtime.Engine
	hooks   domain.LifecycleHooks
	logger  *slog.Logger
	Name    string
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithName labels the engine; the name is attached to every log record and event.
func WithName(name string) Option {
	return func(e *Engine) {
		e.Name = name
	}
}

func configure(opts []Option) (*Engine, []runtime.EngineOption) {
	eng := &Engine{}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.logger == nil {
		eng.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if eng.Name != "" {
		eng.logger = eng.logger.With("org", eng.Name)
	}

	return eng, []runtime.EngineOption{
		runtime.WithLifecycleHooks(eng.hooks),
		runtime.WithLogger(eng.logger),
		runtime.WithOrg(eng.Name),
	}
}

// New wraps a pre-built root as an organization with an empty history.
func New(root *domain.Employee, opts ...Option) *Engine {
	eng, runtimeOpts := configure(opts)
	eng.runtime = runtime.NewEngine(root, runtimeOpts...)
	return eng
}

// NewFromChart builds the tree described by chart after checking that its IDs are unique.
func NewFromChart(chart domain.Chart, opts ...Option) (*Engine, error) {
	if err := chart.Validate(); err != nil {
		return nil, err
	}
	return New(chart.Build(), opts...), nil
}

// Restore rebuilds an engine, including its undo/redo history, from a persisted session.
func Restore(s *domain.Session, opts ...Option) (*Engine, error) {
	eng, runtimeOpts := configure(opts)
	rt, err := runtime.RestoreEngine(s, runtimeOpts...)
	if err != nil {
		return nil, err
	}
	eng.runtime = rt
	return eng, nil
}

// FindByID locates an employee and its supervisor.
// The root is reported as its own supervisor.
func (e *Engine) FindByID(id int) (domain.Position, bool) {
	return e.runtime.FindByID(id)
}

// FindByIDOrFail is FindByID returning a *domain.NotFoundError for unknown IDs.
func (e *Engine) FindByIDOrFail(id int) (domain.Position, error) {
	return e.runtime.FindByIDOrFail(id)
}

// Move relocates employeeID under supervisorID and records the move for undo.
// It fails with domain.ErrCEOImmutable, domain.ErrSelfSupervision or a
// *domain.NotFoundError, in that order of precedence, without changing anything.
func (e *Engine) Move(employeeID, supervisorID int) error {
	return e.runtime.Move(employeeID, supervisorID)
}

// Undo reverts the latest move. It is a silent no-op when there is nothing to undo.
func (e *Engine) Undo() bool {
	return e.runtime.Undo()
}

// Redo re-applies the latest undone move. It is a silent no-op when there is nothing to redo.
func (e *Engine) Redo() bool {
	return e.runtime.Redo()
}

// Root returns the CEO.
func (e *Engine) Root() *domain.Employee {
	return e.runtime.Tree().Root()
}

// Chart returns a value snapshot of the current organization.
func (e *Engine) Chart() domain.Chart {
	return e.runtime.Chart()
}

// History returns the recorded moves, including undone ones that can still be redone.
func (e *Engine) History() []domain.Move {
	return e.runtime.History()
}

// Cursor returns how many recorded moves are currently applied.
func (e *Engine) Cursor() int {
	return e.runtime.Cursor()
}

// CanUndo reports whether Undo would change the chart.
func (e *Engine) CanUndo() bool {
	return e.runtime.CanUndo()
}

// CanRedo reports whether Redo would change the chart.
func (e *Engine) CanRedo() bool {
	return e.runtime.CanRedo()
}

// Session captures the engine for persistence under the given session ID.
func (e *Engine) Session(id string) *domain.Session {
	return e.runtime.Session(id)
}
