package dsl

import (
	"fmt"

	"github.com/aretw0/orgtree/pkg/adapters/memory"
	"github.com/aretw0/orgtree/pkg/domain"
)

// Builder manages the chart construction.
type Builder struct {
	ceo   int
	nodes map[int]*EmployeeBuilder
	order []int
}

// New creates a new chart builder rooted at the CEO.
func New(ceo int) *Builder {
	b := &Builder{
		ceo:   ceo,
		nodes: make(map[int]*EmployeeBuilder),
	}
	b.Add(ceo)
	return b
}

// Add declares an employee.
// If the employee already exists, it returns the existing builder.
func (b *Builder) Add(id int) *EmployeeBuilder {
	if eb, ok := b.nodes[id]; ok {
		return eb
	}
	eb := &EmployeeBuilder{
		id:      id,
		builder: b,
	}
	b.nodes[id] = eb
	b.order = append(b.order, id)
	return eb
}

// Chart resolves the declared reporting lines. Subordinates keep declaration order.
func (b *Builder) Chart() (domain.Chart, error) {
	children := make(map[int][]int)
	for _, id := range b.order {
		eb := b.nodes[id]
		if id == b.ceo {
			if eb.supervisor != nil {
				return domain.Chart{}, fmt.Errorf("%w: the CEO %d cannot report to %d", domain.ErrInvalidChart, id, *eb.supervisor)
			}
			continue
		}
		if eb.supervisor == nil {
			return domain.Chart{}, fmt.Errorf("%w: employee %d has no supervisor", domain.ErrInvalidChart, id)
		}
		if _, ok := b.nodes[*eb.supervisor]; !ok {
			return domain.Chart{}, fmt.Errorf("%w: supervisor %d of employee %d was never added", domain.ErrInvalidChart, *eb.supervisor, id)
		}
		children[*eb.supervisor] = append(children[*eb.supervisor], id)
	}

	visited := make(map[int]bool, len(b.nodes))
	var build func(id int) domain.Chart
	build = func(id int) domain.Chart {
		visited[id] = true
		c := domain.Chart{ID: id}
		for _, sub := range children[id] {
			c.Subordinates = append(c.Subordinates, build(sub))
		}
		return c
	}
	c := build(b.ceo)

	// Anything not reached from the CEO reports in a cycle.
	if len(visited) != len(b.nodes) {
		for _, id := range b.order {
			if !visited[id] {
				return domain.Chart{}, fmt.Errorf("%w: employee %d is part of a reporting cycle", domain.ErrInvalidChart, id)
			}
		}
	}
	return c, nil
}

// Build compiles the chart into a MemoryLoader.
func (b *Builder) Build() (*memory.Loader, error) {
	c, err := b.Chart()
	if err != nil {
		return nil, err
	}

	loader, err := memory.NewLoader(c)
	if err != nil {
		return nil, fmt.Errorf("failed to build memory loader: %w", err)
	}

	return loader, nil
}
