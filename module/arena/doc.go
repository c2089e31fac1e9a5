// Package arena implements doubly linked lists whose nodes and heads live in two fixed-capacity
// slot pools instead of being allocated per element.
//
// A Pool owns a node pool and a list-head pool, each with its own free-index stack. Any number of
// lists (up to the head capacity) can be created from a pool; they all draw their nodes from the
// same shared node pool, and nodes released by one list are recycled by the others. Nodes are linked
// by slot index, so inserting and removing an element is O(1) relinking plus a stack push or pop.
//
// Each list carries a cursor used by the relative operations:
//
//	id, err := pool.Create()
//	_ = pool.Append(id, "a")      // cursor at "a"
//	_ = pool.InsertBefore(id, "b") // list is [b a], cursor at "b"
//	item, ok := pool.Next(id)      // "a", true
//	item, ok = pool.Next(id)       // nil, false: cursor fell off the end
//
// Running out of slots is an expected outcome reported with ErrPoolExhausted (ErrFull for insertions)
// and never mutates anything. Using a ListID after its list was destroyed or consumed by Concat is a
// programming error: the Pool panics with an InvalidHandleError rather than touching a slot that may
// already belong to another list.
//
// A Pool is not safe for concurrent use. Package queue wraps a Pool for goroutines that share it.
package arena
