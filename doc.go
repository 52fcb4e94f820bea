/*
Package orgtree manages a strictly hierarchical organization chart and relocates
employees within it, with linear undo and redo of every relocation.

# Concept

The chart is a tree: one root (the CEO) and every other employee reporting to exactly
one supervisor. Moving an employee re-parents only that employee; the people who
reported to it stay behind and now report to its former supervisor. Every move is
recorded as a reversible action, so any sequence of Undo and Redo calls reconstructs
an earlier chart exactly.

The engine is synchronous and unsynchronized. Loading charts, persisting sessions and
exposing the engine over HTTP, MCP or a CLI are left to adapters (see pkg/chart,
pkg/session and pkg/adapters).

# Usage

	package main

	import (
		"errors"
		"fmt"

		"github.com/aretw0/orgtree"
		"github.com/aretw0/orgtree/pkg/domain"
	)

	func main() {
		root := domain.NewEmployee(1,
			domain.NewEmployee(2, domain.NewEmployee(3, domain.NewEmployee(4))),
		)
		org := orgtree.New(root)

		if err := org.Move(3, 1); err != nil {
			var nf *domain.NotFoundError
			if errors.As(err, &nf) {
				fmt.Println("unknown employee", nf.ID)
			}
			return
		}

		pos, _ := org.FindByID(4)
		fmt.Println(pos.Supervisor.ID) // 2: employee 4 was left behind

		org.Undo()
		pos, _ = org.FindByID(4)
		fmt.Println(pos.Supervisor.ID) // 3
	}
*/
package orgtree
