package arena

// The cursor of a list is either positioned at one of its nodes or has no position (curr ==
// invalidNode). Stepping past either end drops the position, after which Next and Prev keep returning
// nothing until First, Last, an insertion or a successful Search positions the cursor again.

// First positions the cursor at the first element of the list and returns it.
// Returns false and clears the position if the list is empty.
func (p *Pool) First(id ListID) (Element, bool) {
	h := p.head(id)
	h.curr = h.first
	return p.current(h)
}

// Last positions the cursor at the last element of the list and returns it.
// Returns false and clears the position if the list is empty.
func (p *Pool) Last(id ListID) (Element, bool) {
	h := p.head(id)
	h.curr = h.last
	return p.current(h)
}

// Next advances the cursor by one element and returns the new current element.
// Returns false if the cursor has no position or was at the last element, in both cases the cursor is
// left without a position.
func (p *Pool) Next(id ListID) (Element, bool) {
	h := p.head(id)
	if h.curr != invalidNode {
		h.curr = p.nodes[h.curr].link.next
	}
	return p.current(h)
}

// Prev moves the cursor back by one element and returns the new current element.
// Returns false if the cursor has no position or was at the first element, in both cases the cursor is
// left without a position.
func (p *Pool) Prev(id ListID) (Element, bool) {
	h := p.head(id)
	if h.curr != invalidNode {
		h.curr = p.nodes[h.curr].link.prev
	}
	return p.current(h)
}

// Curr returns the element at the cursor without moving it, false if the cursor has no position.
func (p *Pool) Curr(id ListID) (Element, bool) {
	return p.current(p.head(id))
}

func (p *Pool) current(h *state) (Element, bool) {
	if h.curr == invalidNode {
		return nil, false
	}
	return p.nodes[h.curr].item, true
}
