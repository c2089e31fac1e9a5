package arena

// Predicate reports whether an element matches. arg is the value passed to Search along with the
// predicate.
type Predicate func(item Element, arg any) bool

// Concat moves every element of list b to the end of list a and returns the head of b to the pool.
// The cursor of a is not moved. b is consumed: any further use of it panics.
func (p *Pool) Concat(a ListID, b ListID) {
	if a == b {
		p.violation(NewInvalidHandleErr(b, "cannot concatenate a list with itself"))
	}
	ha := p.head(a)
	hb := p.head(b)

	if hb.count > 0 {
		if ha.count == 0 {
			ha.first = hb.first
		} else {
			p.connect(ha.last, hb.first)
		}
		ha.last = hb.last
		ha.count += hb.count
	}

	p.releaseHead(b)
}

// Destroy calls cleanup on every element of the list, from first to last, then returns all of its
// nodes and its head to the pool. cleanup may be nil. The list is consumed: any further use of it panics.
//
// Each element is unlinked and its node released before cleanup sees it. If cleanup panics, the list
// stays valid, holding the elements not yet visited, with no current element.
func (p *Pool) Destroy(id ListID, cleanup func(Element)) {
	h := p.head(id)
	h.curr = invalidNode

	for h.first != invalidNode {
		item := p.unlink(h, h.first)
		if cleanup != nil {
			cleanup(item)
		}
	}

	p.releaseHead(id)
}

// Search scans the list forward for the first element matching the predicate, starting after the
// current element, or at the first element if the cursor has no position. A match becomes the current
// element and is returned, so repeated calls walk through all matches. The scan never wraps around: if
// nothing matches up to the end of the list the cursor loses its position and false is returned.
//
// The current element itself is never matched. After Append the new element is current and last, so
// searching for it right away misses it and clears the cursor; a second Search then scans from the
// first element.
func (p *Pool) Search(id ListID, match Predicate, arg any) (Element, bool) {
	h := p.head(id)

	n := h.first
	if h.curr != invalidNode {
		n = p.nodes[h.curr].link.next
	}

	for ; n != invalidNode; n = p.nodes[n].link.next {
		if match(p.nodes[n].item, arg) {
			h.curr = n
			return p.nodes[n].item, true
		}
	}

	h.curr = invalidNode
	return nil, false
}
