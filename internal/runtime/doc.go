// Package runtime holds the orgtree core: the mutable Tree and the Engine that pairs it
// with a linear history of reversible moves.
//
// Nothing in this package is synchronized. Callers that share an Engine between
// goroutines must serialize access to it (see pkg/session).
package runtime
