package arena

// InsertAfter adds the item right after the current element and makes it the current element.
// Without a current position the item is added at the end of the list.
// Expected errors during normal operations:
//   - ErrFull if the node pool is exhausted, the list is left untouched.
func (p *Pool) InsertAfter(id ListID, item Element) error {
	h := p.head(id)
	n, err := p.acquireNode(item)
	if err != nil {
		return err
	}

	if h.curr == invalidNode {
		p.linkLast(h, n)
	} else {
		p.linkAfter(h, h.curr, n)
	}
	h.curr = n
	return nil
}

// InsertBefore adds the item right before the current element and makes it the current element.
// Without a current position the item is added at the start of the list.
// Expected errors during normal operations:
//   - ErrFull if the node pool is exhausted, the list is left untouched.
func (p *Pool) InsertBefore(id ListID, item Element) error {
	h := p.head(id)
	n, err := p.acquireNode(item)
	if err != nil {
		return err
	}

	if h.curr == invalidNode {
		p.linkFirst(h, n)
	} else {
		p.linkBefore(h, h.curr, n)
	}
	h.curr = n
	return nil
}

// Append adds the item at the end of the list and makes it the current element.
// Expected errors during normal operations:
//   - ErrFull if the node pool is exhausted, the list is left untouched.
func (p *Pool) Append(id ListID, item Element) error {
	h := p.head(id)
	n, err := p.acquireNode(item)
	if err != nil {
		return err
	}

	p.linkLast(h, n)
	h.curr = n
	return nil
}

// Prepend adds the item at the start of the list and makes it the current element.
// Expected errors during normal operations:
//   - ErrFull if the node pool is exhausted, the list is left untouched.
func (p *Pool) Prepend(id ListID, item Element) error {
	h := p.head(id)
	n, err := p.acquireNode(item)
	if err != nil {
		return err
	}

	p.linkFirst(h, n)
	h.curr = n
	return nil
}

// Remove takes the current element out of the list and returns it. The element after it becomes the
// current one; removing the last element leaves the cursor without a position.
// Returns false, without changing the list, if the cursor has no position.
func (p *Pool) Remove(id ListID) (Element, bool) {
	h := p.head(id)
	n := h.curr
	if n == invalidNode {
		return nil, false
	}

	h.curr = p.nodes[n].link.next
	return p.unlink(h, n), true
}

// Trim takes the last element out of the list and returns it. The new last element becomes the
// current one, or the cursor loses its position if the list is now empty.
// Returns false on an empty list.
func (p *Pool) Trim(id ListID) (Element, bool) {
	h := p.head(id)
	n := h.last
	if n == invalidNode {
		return nil, false
	}

	item := p.unlink(h, n)
	h.curr = h.last
	return item, true
}

// connect links the prev and next nodes as the adjacent nodes in the double-linked list.
func (p *Pool) connect(prev nodeIndex, next nodeIndex) {
	p.nodes[prev].link.next = next
	p.nodes[next].link.prev = prev
}

// linkFirst makes the unlinked node n the first node of the list.
func (p *Pool) linkFirst(h *state, n nodeIndex) {
	if h.count == 0 {
		h.first = n
		h.last = n
	} else {
		p.connect(n, h.first)
		h.first = n
	}
	h.count++
}

// linkLast makes the unlinked node n the last node of the list.
func (p *Pool) linkLast(h *state, n nodeIndex) {
	if h.count == 0 {
		h.first = n
		h.last = n
	} else {
		p.connect(h.last, n)
		h.last = n
	}
	h.count++
}

// linkAfter links the unlinked node n right after the node at.
func (p *Pool) linkAfter(h *state, at nodeIndex, n nodeIndex) {
	if at == h.last {
		p.linkLast(h, n)
		return
	}
	next := p.nodes[at].link.next
	p.connect(at, n)
	p.connect(n, next)
	h.count++
}

// linkBefore links the unlinked node n right before the node at.
func (p *Pool) linkBefore(h *state, at nodeIndex, n nodeIndex) {
	if at == h.first {
		p.linkFirst(h, n)
		return
	}
	prev := p.nodes[at].link.prev
	p.connect(prev, n)
	p.connect(n, at)
	h.count++
}

// unlink detaches node n from the list, returns its item and releases the node to the pool.
// The cursor of the list is not touched and must be moved off n by the caller.
func (p *Pool) unlink(h *state, n nodeIndex) Element {
	l := p.nodes[n].link

	switch {
	case h.count == 1:
		h.first = invalidNode
		h.last = invalidNode
	case n == h.first:
		// moves first forward
		h.first = l.next
		p.nodes[h.first].link.prev = invalidNode
	case n == h.last:
		// moves last backwards
		h.last = l.prev
		p.nodes[h.last].link.next = invalidNode
	default:
		p.connect(l.prev, l.next)
	}
	h.count--

	item := p.nodes[n].item
	p.releaseNode(n)
	return item
}
