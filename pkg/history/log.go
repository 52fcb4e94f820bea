package history

import (
	"errors"
	"fmt"
)

// ErrCursorOutOfRange is returned by Restore when the cursor does not fit the entries.
var ErrCursorOutOfRange = errors.New("history cursor out of range")

// Log is a linear action history with a cursor.
// It is not safe for concurrent use.
type Log[A any] struct {
	entries []A // entries[0] is the sentinel
	cursor  int
}

// New creates an empty log holding only the sentinel.
func New[A any]() *Log[A] {
	var sentinel A
	return &Log[A]{entries: []A{sentinel}}
}

// Restore rebuilds a log from recorded entries (sentinel excluded) and a cursor
// counting how many of them are applied.
func Restore[A any](entries []A, cursor int) (*Log[A], error) {
	if cursor < 0 || cursor > len(entries) {
		return nil, fmt.Errorf("%w: cursor %d with %d entries", ErrCursorOutOfRange, cursor, len(entries))
	}
	l := New[A]()
	l.entries = append(l.entries, entries...)
	l.cursor = cursor
	return l, nil
}

// Append discards any undone entries, records a, and moves the cursor onto it.
// The caller is responsible for applying a.
func (l *Log[A]) Append(a A) {
	if l.cursor < len(l.entries)-1 {
		clear(l.entries[l.cursor+1:])
		l.entries = l.entries[:l.cursor+1]
	}
	l.entries = append(l.entries, a)
	l.cursor++
}

// Undo reverts the entry under the cursor and steps back.
// It is a no-op returning false when nothing has been applied.
func (l *Log[A]) Undo(revert func(A)) bool {
	if l.cursor == 0 {
		return false
	}
	revert(l.entries[l.cursor])
	l.cursor--
	return true
}

// Redo steps forward and re-applies the entry under the cursor.
// It is a no-op returning false when there is nothing to redo.
func (l *Log[A]) Redo(apply func(A)) bool {
	if l.cursor == len(l.entries)-1 {
		return false
	}
	l.cursor++
	apply(l.entries[l.cursor])
	return true
}

// Current returns the entry under the cursor, or false at the sentinel.
func (l *Log[A]) Current() (A, bool) {
	if l.cursor == 0 {
		var zero A
		return zero, false
	}
	return l.entries[l.cursor], true
}

// Cursor returns the number of applied entries.
func (l *Log[A]) Cursor() int { return l.cursor }

// Len returns the number of recorded entries, sentinel excluded.
func (l *Log[A]) Len() int { return len(l.entries) - 1 }

// CanUndo reports whether Undo would do anything.
func (l *Log[A]) CanUndo() bool { return l.cursor > 0 }

// CanRedo reports whether Redo would do anything.
func (l *Log[A]) CanRedo() bool { return l.cursor < len(l.entries)-1 }

// Entries returns a copy of the recorded entries, sentinel excluded.
func (l *Log[A]) Entries() []A {
	out := make([]A, len(l.entries)-1)
	copy(out, l.entries[1:])
	return out
}
