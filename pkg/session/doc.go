/*
Package session implements session management and persistence orchestration.

A session is an organization chart together with its undo/redo history. The engine
itself is unsynchronized, so the Manager serializes every operation on a session:
a reference-counted local mutex per session ID, plus an optional distributed lock for
deployments with several replicas. Each operation loads the session, restores an
engine, runs the caller's function and saves the result.
*/
package session
