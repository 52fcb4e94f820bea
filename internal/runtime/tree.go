package runtime

import (
	"slices"

	"github.com/aretw0/orgtree/pkg/domain"
)

// Tree owns the root of an organization and performs structural changes on it.
type Tree struct {
	root *domain.Employee
}

// NewTree wraps a pre-built root.
func NewTree(root *domain.Employee) *Tree {
	return &Tree{root: root}
}

// Root returns the root employee.
func (t *Tree) Root() *domain.Employee {
	return t.root
}

// FindByID locates id with a depth-first search from the root.
// The root is reported as its own supervisor.
func (t *Tree) FindByID(id int) (domain.Position, bool) {
	return t.search(id, t.root, t.root)
}

// FindByIDOrFail is FindByID returning a *domain.NotFoundError for unknown ids.
func (t *Tree) FindByIDOrFail(id int) (domain.Position, error) {
	pos, ok := t.FindByID(id)
	if !ok {
		return domain.Position{}, &domain.NotFoundError{ID: id}
	}
	return pos, nil
}

func (t *Tree) search(id int, node, parent *domain.Employee) (domain.Position, bool) {
	if id == t.root.ID {
		return domain.Position{Employee: t.root, Supervisor: t.root}, true
	}
	if node.ID == id {
		return domain.Position{Employee: node, Supervisor: parent}, true
	}
	for _, sub := range node.Subordinates {
		if pos, ok := t.search(id, sub, node); ok {
			return pos, true
		}
	}
	return domain.Position{}, false
}

// Relocate re-parents employeeID under supervisorID.
// In ModeLeaveBehind the employee's subordinates are appended to its former supervisor
// and the employee arrives with no subordinates. In ModeWholeBranch they travel with it.
// Relocating an employee to its current supervisor changes nothing.
// Relocate does not guard against moving the root or moving an employee under itself;
// Engine.Move validates those before anything reaches the tree.
func (t *Tree) Relocate(employeeID, supervisorID int, mode domain.RelocationMode) error {
	pos, err := t.FindByIDOrFail(employeeID)
	if err != nil {
		return err
	}
	target, err := t.FindByIDOrFail(supervisorID)
	if err != nil {
		return err
	}

	employee, current := pos.Employee, pos.Supervisor
	if current.ID == supervisorID {
		return nil
	}

	current.Subordinates = slices.DeleteFunc(current.Subordinates, func(e *domain.Employee) bool {
		return e.ID == employeeID
	})
	if mode == domain.ModeLeaveBehind {
		current.Subordinates = append(current.Subordinates, employee.Subordinates...)
		employee.Subordinates = nil
	}
	target.Employee.Subordinates = append(target.Employee.Subordinates, employee)
	return nil
}
