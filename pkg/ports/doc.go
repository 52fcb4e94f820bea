/*
Package ports defines the driven ports (interfaces) for the orgtree engine.

These interfaces decouple the core logic from external implementations, allowing
sessions to live in memory, on disk or in Redis.

# Key Interfaces

  - ChartLoader: Provides the initial chart of a new session (e.g., from a YAML file).
  - SessionStore: Persists and loads sessions (chart plus undo/redo history).
  - DistributedLocker: Provides distributed locking for concurrent session access.
*/
package ports
