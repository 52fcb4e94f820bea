/*
Package domain contains the core domain models of the orgtree engine.

It defines the organization tree (Employees linked through their Subordinates),
the reversible Move record kept in the action history, and the value types used to
snapshot and persist a tree. This package is kept pure and free of external
dependencies like I/O or persistence, following Hexagonal Architecture principles.

# Key Entities

  - Employee: A node of the organization tree. Identity is a caller-assigned integer.
  - Position: The result of a lookup, pairing an Employee with its Supervisor.
  - Move: A reversible relocation, recorded with everything needed to undo it.
  - Chart: An immutable value snapshot of a tree, used for loading, storing and rendering.
  - Session: The persisted form of an engine (current Chart, Move history and cursor).
*/
package domain
