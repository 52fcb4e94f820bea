/*
Package history implements a linear undo/redo log.

The log starts with a sentinel entry at index 0 and a cursor pointing at it. Entries at
or before the cursor have been applied; entries after it were applied and then undone.
Appending a new entry discards everything after the cursor, so history never branches.

The log stores actions as plain values and never executes them itself: Undo and Redo
hand the affected entry to a caller-supplied function, keeping the log independent of
what the actions mean.
*/
package history
