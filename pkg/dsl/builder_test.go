package dsl

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/orgtree/pkg/domain"
)

func TestBuilder_SimpleChart(t *testing.T) {
	// 1. Build the chart using DSL
	b := New(1)
	b.Add(2).Under(1).Reports(4, 5)
	b.Add(3).Under(1)
	b.Add(6).Under(3)

	// 2. Compile to Loader
	loader, err := b.Build()
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	// 3. Verify structure
	c, err := loader.LoadChart(context.Background())
	if err != nil {
		t.Fatalf("LoadChart() failed: %v", err)
	}

	want := domain.Chart{ID: 1, Subordinates: []domain.Chart{
		{ID: 2, Subordinates: []domain.Chart{{ID: 4}, {ID: 5}}},
		{ID: 3, Subordinates: []domain.Chart{{ID: 6}}},
	}}
	if got, exp := c.IDs(), want.IDs(); len(got) != len(exp) {
		t.Fatalf("Expected ids %v, got %v", exp, got)
	}
	for i, id := range want.IDs() {
		if c.IDs()[i] != id {
			t.Errorf("Expected id %d at position %d, got %d", id, i, c.IDs()[i])
		}
	}
	sub, ok := c.Find(2)
	if !ok || len(sub.Subordinates) != 2 {
		t.Errorf("Expected 2 to have two reports, got %+v", sub)
	}
}

func TestBuilder_ForwardReference(t *testing.T) {
	// Supervisors may be declared after their reports.
	b := New(1)
	b.Add(3).Under(2)
	b.Add(2).Under(1)

	c, err := b.Chart()
	if err != nil {
		t.Fatalf("Chart() failed: %v", err)
	}
	if c.Size() != 3 {
		t.Errorf("Expected 3 employees, got %d", c.Size())
	}
}

func TestBuilder_AddIsIdempotent(t *testing.T) {
	b := New(1)
	first := b.Add(2)
	if b.Add(2) != first {
		t.Error("Expected Add to return the existing builder")
	}
	if first.ID() != 2 {
		t.Errorf("Expected ID 2, got %d", first.ID())
	}
}

func TestBuilder_Errors(t *testing.T) {
	tests := []struct {
		name  string
		build func(b *Builder)
	}{
		{"missing supervisor", func(b *Builder) { b.Add(2) }},
		{"unknown supervisor", func(b *Builder) { b.Add(2).Under(9) }},
		{"CEO with supervisor", func(b *Builder) { b.Add(2).Under(1); b.Add(1).Under(2) }},
		{"cycle", func(b *Builder) { b.Add(2).Under(3); b.Add(3).Under(2) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New(1)
			tt.build(b)
			_, err := b.Build()
			if !errors.Is(err, domain.ErrInvalidChart) {
				t.Errorf("Expected ErrInvalidChart, got %v", err)
			}
		})
	}
}
