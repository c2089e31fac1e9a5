package arena

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// modelList is the slice-based reference of a list used to check the pool against.
type modelList struct {
	id    ListID
	items []Element
	// curr is the index of the current element, -1 without position.
	curr int
}

func (m *modelList) insert(at int, item Element) {
	m.items = append(m.items, nil)
	copy(m.items[at+1:], m.items[at:])
	m.items[at] = item
	m.curr = at
}

func (m *modelList) remove(at int) Element {
	item := m.items[at]
	m.items = append(m.items[:at], m.items[at+1:]...)
	return item
}

func (m *modelList) current() (Element, bool) {
	if m.curr < 0 {
		return nil, false
	}
	return m.items[m.curr], true
}

// remainder is the predicate used by the property test, it matches integers by their value modulo 3.
func remainder(item Element, arg any) bool {
	return item.(int)%3 == arg.(int)
}

// TestPool_RandomOperations applies random sequences of operations on random lists of a pool and checks
// every outcome against a slice-based model, along with the health of the pool after each step.
func TestPool_RandomOperations(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		nodeCapacity := rapid.Uint32Range(0, 16).Draw(t, "nodeCapacity")
		listCapacity := rapid.Uint32Range(1, 4).Draw(t, "listCapacity")
		pool := newTestPool(nodeCapacity, listCapacity)

		var live []*modelList
		nodesInUse := 0
		next := 0

		pick := func(label string) *modelList {
			return rapid.SampledFrom(live).Draw(t, label)
		}
		drop := func(m *modelList) {
			for i := range live {
				if live[i] == m {
					live = append(live[:i], live[i+1:]...)
					return
				}
			}
		}
		insert := func(m *modelList, at int, add func(ListID, Element) error) {
			item := next
			next++
			err := add(m.id, item)
			if nodesInUse == int(nodeCapacity) {
				require.ErrorIs(t, err, ErrFull)
				return
			}
			require.NoError(t, err)
			m.insert(at, item)
			nodesInUse++
		}

		steps := rapid.IntRange(1, 100).Draw(t, "steps")
		for step := 0; step < steps; step++ {
			if len(live) == 0 {
				id, err := pool.Create()
				require.NoError(t, err)
				live = append(live, &modelList{id: id, curr: -1})
				continue
			}

			switch op := rapid.IntRange(0, 14).Draw(t, "op"); op {
			case 0:
				id, err := pool.Create()
				if len(live) == int(listCapacity) {
					require.ErrorIs(t, err, ErrPoolExhausted)
					break
				}
				require.NoError(t, err)
				live = append(live, &modelList{id: id, curr: -1})

			case 1:
				m := pick("list")
				m.curr = len(m.items) - 1
				if len(m.items) > 0 {
					m.curr = 0
				}
				requireStep(t, m, pool.First)

			case 2:
				m := pick("list")
				m.curr = len(m.items) - 1
				requireStep(t, m, pool.Last)

			case 3:
				m := pick("list")
				if m.curr >= 0 {
					m.curr++
					if m.curr == len(m.items) {
						m.curr = -1
					}
				}
				requireStep(t, m, pool.Next)

			case 4:
				m := pick("list")
				if m.curr >= 0 {
					m.curr--
				}
				requireStep(t, m, pool.Prev)

			case 5:
				m := pick("list")
				at := len(m.items)
				if m.curr >= 0 {
					at = m.curr + 1
				}
				insert(m, at, pool.InsertAfter)

			case 6:
				m := pick("list")
				at := 0
				if m.curr >= 0 {
					at = m.curr
				}
				insert(m, at, pool.InsertBefore)

			case 7:
				m := pick("list")
				insert(m, len(m.items), pool.Append)

			case 8:
				m := pick("list")
				insert(m, 0, pool.Prepend)

			case 9:
				m := pick("list")
				item, ok := pool.Remove(m.id)
				if m.curr < 0 {
					require.False(t, ok)
					break
				}
				require.True(t, ok)
				require.Equal(t, m.remove(m.curr), item)
				if m.curr == len(m.items) {
					m.curr = -1
				}
				nodesInUse--

			case 10:
				m := pick("list")
				item, ok := pool.Trim(m.id)
				if len(m.items) == 0 {
					require.False(t, ok)
					break
				}
				require.True(t, ok)
				require.Equal(t, m.remove(len(m.items)-1), item)
				m.curr = len(m.items) - 1
				nodesInUse--

			case 11:
				if len(live) < 2 {
					break
				}
				a := pick("a")
				b := pick("b")
				if a == b {
					requireInvalidHandlePanicT(t, func() { pool.Concat(a.id, b.id) })
					break
				}
				pool.Concat(a.id, b.id)
				a.items = append(a.items, b.items...)
				drop(b)
				requireInvalidHandlePanicT(t, func() { pool.Count(b.id) })

			case 12:
				m := pick("list")
				var cleaned []Element
				pool.Destroy(m.id, func(item Element) { cleaned = append(cleaned, item) })
				require.Equal(t, len(m.items), len(cleaned))
				for i := range m.items {
					require.Equal(t, m.items[i], cleaned[i])
				}
				nodesInUse -= len(m.items)
				drop(m)
				requireInvalidHandlePanicT(t, func() { pool.Curr(m.id) })

			case 13:
				m := pick("list")
				arg := rapid.IntRange(0, 2).Draw(t, "remainder")
				item, ok := pool.Search(m.id, remainder, arg)

				from := 0
				if m.curr >= 0 {
					from = m.curr + 1
				}
				m.curr = -1
				for i := from; i < len(m.items); i++ {
					if remainder(m.items[i], arg) {
						m.curr = i
						break
					}
				}
				expected, found := m.current()
				require.Equal(t, found, ok)
				require.Equal(t, expected, item)

			case 14:
				m := pick("list")
				item, ok := pool.Curr(m.id)
				expected, found := m.current()
				require.Equal(t, found, ok)
				require.Equal(t, expected, item)
			}

			for _, m := range live {
				expected := m.items
				if expected == nil {
					expected = []Element{}
				}
				require.Equal(t, expected, pool.All(m.id))
				require.Equal(t, len(m.items), pool.Count(m.id))
				item, ok := pool.Curr(m.id)
				want, found := m.current()
				require.Equal(t, found, ok)
				require.Equal(t, want, item)
			}
			require.Equal(t, uint32(nodesInUse), pool.Stats().NodesInUse)
			require.Equal(t, uint32(len(live)), pool.Stats().ListsInUse)
			requireHealthy(t, pool)
		}
	})
}

// requireStep checks the outcome of a cursor movement against the already moved model.
func requireStep(t *rapid.T, m *modelList, move func(ListID) (Element, bool)) {
	item, ok := move(m.id)
	expected, found := m.current()
	require.Equal(t, found, ok)
	require.Equal(t, expected, item)
}

func requireInvalidHandlePanicT(t *rapid.T, f func()) {
	var recovered interface{}
	func() {
		defer func() { recovered = recover() }()
		f()
	}()
	err, ok := recovered.(error)
	require.True(t, ok, "expected a panic with an error, got %v", recovered)
	require.True(t, IsInvalidHandleError(err), "unexpected panic: %v", err)
}
