package domain

// RelocationMode selects what happens to the children of a relocated employee.
type RelocationMode int

const (
	// ModeLeaveBehind promotes the employee's subordinates to its former supervisor.
	ModeLeaveBehind RelocationMode = iota
	// ModeWholeBranch moves the employee together with its current subordinates.
	// It is only used when reverting a Move.
	ModeWholeBranch
)

// String returns the mode name used in logs.
func (m RelocationMode) String() string {
	if m == ModeWholeBranch {
		return "whole_branch"
	}
	return "leave_behind"
}

// Move is a reversible relocation recorded in the action history.
// Everything needed to revert it is captured before the tree is mutated.
type Move struct {
	EmployeeID           int   `json:"employee_id"`
	SupervisorID         int   `json:"supervisor_id"`
	OriginalSupervisorID int   `json:"original_supervisor_id"`
	OriginalSubordinates []int `json:"original_subordinates,omitempty"`
}

// IsNoop reports whether the move did not change the employee's supervisor.
func (m Move) IsNoop() bool {
	return m.SupervisorID == m.OriginalSupervisorID
}

// Relocation is a single structural step of a Move.
type Relocation struct {
	EmployeeID   int
	SupervisorID int
	Mode         RelocationMode
}

// Forward returns the steps that apply the move.
func (m Move) Forward() []Relocation {
	return []Relocation{{EmployeeID: m.EmployeeID, SupervisorID: m.SupervisorID, Mode: ModeLeaveBehind}}
}

// Backward returns the steps that revert the move.
// The employee goes back to its original supervisor first, then each former direct
// subordinate is reclaimed together with whatever it currently holds.
func (m Move) Backward() []Relocation {
	steps := make([]Relocation, 0, 1+len(m.OriginalSubordinates))
	steps = append(steps, Relocation{EmployeeID: m.EmployeeID, SupervisorID: m.OriginalSupervisorID, Mode: ModeLeaveBehind})
	for _, id := range m.OriginalSubordinates {
		steps = append(steps, Relocation{EmployeeID: id, SupervisorID: m.EmployeeID, Mode: ModeWholeBranch})
	}
	return steps
}
