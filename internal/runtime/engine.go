package runtime

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/orgtree/internal/logging"
	"github.com/aretw0/orgtree/pkg/domain"
	"github.com/aretw0/orgtree/pkg/history"
)

// Engine pairs a Tree with the history of moves applied to it.
type Engine struct {
	tree   *Tree
	log    *history.Log[domain.Move]
	hooks  domain.LifecycleHooks
	logger *slog.Logger
	org    string
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets the structured logger. A nil logger is ignored.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithOrg labels the events emitted by the engine.
func WithOrg(org string) EngineOption {
	return func(e *Engine) {
		e.org = org
	}
}

// NewEngine creates an engine around a pre-built root with an empty history.
func NewEngine(root *domain.Employee, opts ...EngineOption) *Engine {
	e := &Engine{
		tree:   NewTree(root),
		log:    history.New[domain.Move](),
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// RestoreEngine rebuilds an engine from a persisted session.
// The session chart must be the tree as it stands after the first Cursor moves.
func RestoreEngine(s *domain.Session, opts ...EngineOption) (*Engine, error) {
	if err := s.Chart.Validate(); err != nil {
		return nil, err
	}
	log, err := history.Restore(s.History, s.Cursor)
	if err != nil {
		return nil, fmt.Errorf("failed to restore history of session %s: %w", s.ID, err)
	}
	e := NewEngine(s.Chart.Build(), opts...)
	e.log = log
	return e, nil
}

// Tree exposes the underlying tree for read access.
func (e *Engine) Tree() *Tree {
	return e.tree
}

// FindByID locates an employee. The root is its own supervisor.
func (e *Engine) FindByID(id int) (domain.Position, bool) {
	return e.tree.FindByID(id)
}

// FindByIDOrFail locates an employee or returns a *domain.NotFoundError.
func (e *Engine) FindByIDOrFail(id int) (domain.Position, error) {
	return e.tree.FindByIDOrFail(id)
}

// Move relocates employeeID under supervisorID, leaving its subordinates with their
// former supervisor, and records the move so it can be undone.
// All preconditions are checked before the tree or the history change.
func (e *Engine) Move(employeeID, supervisorID int) error {
	mv, err := e.prepare(employeeID, supervisorID)
	if err != nil {
		e.logger.Warn("move rejected", "employee_id", employeeID, "supervisor_id", supervisorID, "error", err)
		e.emit(e.hooks.OnReject, domain.EventReject, domain.Move{EmployeeID: employeeID, SupervisorID: supervisorID}, err)
		return err
	}

	e.log.Append(mv)
	e.forward(mv)

	e.logger.Debug("employee moved",
		"employee_id", mv.EmployeeID,
		"supervisor_id", mv.SupervisorID,
		"original_supervisor_id", mv.OriginalSupervisorID,
		"noop", mv.IsNoop(),
		"cursor", e.log.Cursor(),
	)
	e.emit(e.hooks.OnMove, domain.EventMove, mv, nil)
	return nil
}

func (e *Engine) prepare(employeeID, supervisorID int) (domain.Move, error) {
	if employeeID == e.tree.Root().ID {
		return domain.Move{}, domain.ErrCEOImmutable
	}
	if employeeID == supervisorID {
		return domain.Move{}, domain.ErrSelfSupervision
	}
	pos, err := e.tree.FindByIDOrFail(employeeID)
	if err != nil {
		return domain.Move{}, err
	}
	if _, err := e.tree.FindByIDOrFail(supervisorID); err != nil {
		return domain.Move{}, err
	}
	return domain.Move{
		EmployeeID:           employeeID,
		SupervisorID:         supervisorID,
		OriginalSupervisorID: pos.Supervisor.ID,
		OriginalSubordinates: pos.Employee.SubordinateIDs(),
	}, nil
}

// Undo reverts the latest applied move.
// It reports false, doing nothing, when there is nothing to undo.
func (e *Engine) Undo() bool {
	var reverted domain.Move
	ok := e.log.Undo(func(mv domain.Move) {
		reverted = mv
		e.replay(mv.Backward())
	})
	if !ok {
		e.logger.Debug("nothing to undo")
		return false
	}
	e.logger.Debug("move undone", "employee_id", reverted.EmployeeID, "cursor", e.log.Cursor())
	e.emit(e.hooks.OnUndo, domain.EventUndo, reverted, nil)
	return true
}

// Redo re-applies the latest undone move.
// It reports false, doing nothing, when there is nothing to redo.
func (e *Engine) Redo() bool {
	var applied domain.Move
	ok := e.log.Redo(func(mv domain.Move) {
		applied = mv
		e.forward(mv)
	})
	if !ok {
		e.logger.Debug("nothing to redo")
		return false
	}
	e.logger.Debug("move redone", "employee_id", applied.EmployeeID, "cursor", e.log.Cursor())
	e.emit(e.hooks.OnRedo, domain.EventRedo, applied, nil)
	return true
}

func (e *Engine) forward(mv domain.Move) {
	e.replay(mv.Forward())
}

// replay applies relocation steps without revalidating them.
// A failing step means the tree was changed behind the engine's back.
func (e *Engine) replay(steps []domain.Relocation) {
	for _, step := range steps {
		if err := e.tree.Relocate(step.EmployeeID, step.SupervisorID, step.Mode); err != nil {
			e.logger.Error("history replay diverged from tree",
				"employee_id", step.EmployeeID,
				"supervisor_id", step.SupervisorID,
				"mode", step.Mode.String(),
				"error", err,
			)
		}
	}
}

func (e *Engine) emit(hook func(*domain.MoveEvent), typ domain.EventType, mv domain.Move, err error) {
	if hook == nil {
		return
	}
	hook(&domain.MoveEvent{
		Timestamp: time.Now(),
		Type:      typ,
		Org:       e.org,
		Move:      mv,
		Cursor:    e.log.Cursor(),
		Err:       err,
	})
}

// History returns the recorded moves, including undone ones still available to redo.
func (e *Engine) History() []domain.Move {
	return e.log.Entries()
}

// Cursor returns how many recorded moves are currently applied.
func (e *Engine) Cursor() int { return e.log.Cursor() }

// CanUndo reports whether Undo would change the tree.
func (e *Engine) CanUndo() bool { return e.log.CanUndo() }

// CanRedo reports whether Redo would change the tree.
func (e *Engine) CanRedo() bool { return e.log.CanRedo() }

// Chart returns a value snapshot of the current tree.
func (e *Engine) Chart() domain.Chart {
	return domain.Snapshot(e.tree.Root())
}

// Session captures the engine state for persistence.
func (e *Engine) Session(id string) *domain.Session {
	return &domain.Session{
		ID:        id,
		Chart:     e.Chart(),
		History:   e.log.Entries(),
		Cursor:    e.log.Cursor(),
		UpdatedAt: time.Now(),
	}
}
