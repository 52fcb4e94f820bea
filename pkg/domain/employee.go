package domain

// Employee is a node of the organization tree.
// Subordinates are shared pointers: two lookups of the same ID yield the same *Employee,
// so mutating a found node mutates the tree in place.
type Employee struct {
	ID           int
	Subordinates []*Employee
}

// NewEmployee creates an employee with the given direct subordinates.
func NewEmployee(id int, subordinates ...*Employee) *Employee {
	return &Employee{
		ID:           id,
		Subordinates: subordinates,
	}
}

// SubordinateIDs returns the IDs of the direct subordinates, in order.
func (e *Employee) SubordinateIDs() []int {
	ids := make([]int, 0, len(e.Subordinates))
	for _, sub := range e.Subordinates {
		ids = append(ids, sub.ID)
	}
	return ids
}

// Position locates an employee in the tree.
// The root is reported as its own supervisor.
type Position struct {
	Employee   *Employee
	Supervisor *Employee
}
