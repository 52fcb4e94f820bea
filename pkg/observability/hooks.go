package observability

import (
	"log/slog"

	"github.com/aretw0/orgtree/pkg/domain"
)

// AuditHooks logs every change at Info and every rejection at Warn.
func AuditHooks(logger *slog.Logger) domain.LifecycleHooks {
	change := func(e *domain.MoveEvent) {
		logger.Info("org_"+string(e.Type),
			"employee_id", e.Move.EmployeeID,
			"supervisor_id", e.Move.SupervisorID,
			"original_supervisor_id", e.Move.OriginalSupervisorID,
			"cursor", e.Cursor,
		)
	}
	return domain.LifecycleHooks{
		OnMove: change,
		OnUndo: change,
		OnRedo: change,
		OnReject: func(e *domain.MoveEvent) {
			logger.Warn("org_reject",
				"employee_id", e.Move.EmployeeID,
				"supervisor_id", e.Move.SupervisorID,
				"err", e.Err,
			)
		},
	}
}

// Combine fans every event out to all hooks, in order.
func Combine(hooks ...domain.LifecycleHooks) domain.LifecycleHooks {
	pick := func(get func(domain.LifecycleHooks) func(*domain.MoveEvent)) func(*domain.MoveEvent) {
		var fns []func(*domain.MoveEvent)
		for _, h := range hooks {
			if fn := get(h); fn != nil {
				fns = append(fns, fn)
			}
		}
		if len(fns) == 0 {
			return nil
		}
		return func(e *domain.MoveEvent) {
			for _, fn := range fns {
				fn(e)
			}
		}
	}
	return domain.LifecycleHooks{
		OnMove:   pick(func(h domain.LifecycleHooks) func(*domain.MoveEvent) { return h.OnMove }),
		OnUndo:   pick(func(h domain.LifecycleHooks) func(*domain.MoveEvent) { return h.OnUndo }),
		OnRedo:   pick(func(h domain.LifecycleHooks) func(*domain.MoveEvent) { return h.OnRedo }),
		OnReject: pick(func(h domain.LifecycleHooks) func(*domain.MoveEvent) { return h.OnReject }),
	}
}
