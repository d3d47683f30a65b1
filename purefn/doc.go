// Package purefn memoizes pure functions on a bounded LRU table.
//
// A tableized function answers repeated calls from its table instead of
// recomputing them. That is only sound when the wrapped function is
// referentially transparent: same inputs, same outputs, no side effects.
//
// The table keeps at most maxTableSize argument tuples and forgets the least
// recently used one first. Concurrent callers may compute the same entry
// twice; both store the same value.
//
// WARNING: Do not use Tableize on impure functions (e.g., those depending on time, I/O, etc).
package purefn
