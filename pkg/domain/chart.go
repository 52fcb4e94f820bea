package domain

import "fmt"

// Chart is a value snapshot of an organization tree.
// Unlike Employee it is safe to copy, compare and serialize.
type Chart struct {
	ID           int     `json:"id" yaml:"id"`
	Subordinates []Chart `json:"subordinates,omitempty" yaml:"subordinates,omitempty"`
}

// Snapshot captures the structure rooted at e.
func Snapshot(e *Employee) Chart {
	c := Chart{ID: e.ID}
	if len(e.Subordinates) > 0 {
		c.Subordinates = make([]Chart, 0, len(e.Subordinates))
		for _, sub := range e.Subordinates {
			c.Subordinates = append(c.Subordinates, Snapshot(sub))
		}
	}
	return c
}

// Build materializes the chart as a fresh tree of employees.
func (c Chart) Build() *Employee {
	e := NewEmployee(c.ID)
	for _, sub := range c.Subordinates {
		e.Subordinates = append(e.Subordinates, sub.Build())
	}
	return e
}

// IDs returns every ID in the chart in depth-first order.
func (c Chart) IDs() []int {
	ids := []int{c.ID}
	for _, sub := range c.Subordinates {
		ids = append(ids, sub.IDs()...)
	}
	return ids
}

// Size returns the number of employees in the chart.
func (c Chart) Size() int {
	n := 1
	for _, sub := range c.Subordinates {
		n += sub.Size()
	}
	return n
}

// Find returns the sub-chart rooted at id.
func (c Chart) Find(id int) (Chart, bool) {
	if c.ID == id {
		return c, true
	}
	for _, sub := range c.Subordinates {
		if found, ok := sub.Find(id); ok {
			return found, true
		}
	}
	return Chart{}, false
}

// Validate checks that every ID appears exactly once.
func (c Chart) Validate() error {
	seen := make(map[int]bool)
	for _, id := range c.IDs() {
		if seen[id] {
			return fmt.Errorf("%w: duplicate employee id %d", ErrInvalidChart, id)
		}
		seen[id] = true
	}
	return nil
}
