package dsl

// EmployeeBuilder provides a fluent API for configuring an employee.
type EmployeeBuilder struct {
	id         int
	supervisor *int
	builder    *Builder
}

// Under sets the employee's supervisor. A later call replaces an earlier one.
func (e *EmployeeBuilder) Under(supervisorID int) *EmployeeBuilder {
	e.supervisor = &supervisorID
	return e
}

// Reports declares direct reports of this employee, adding them if needed.
func (e *EmployeeBuilder) Reports(ids ...int) *EmployeeBuilder {
	for _, id := range ids {
		e.builder.Add(id).Under(e.id)
	}
	return e
}

// ID returns the employee's identity.
func (e *EmployeeBuilder) ID() int {
	return e.id
}
