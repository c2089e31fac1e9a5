package arena

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"
)

// slotStack is the free-index stack of a fixed-capacity pool. Every slot index below the capacity is
// either on the stack (free) or marked in the used set (allocated), never both.
type slotStack[I ~uint32] struct {
	free []I
	used *bitset.BitSet
}

// newSlotStack returns a stack holding every index in [0, capacity). Indices are pushed in ascending
// order, hence the first acquire returns capacity-1.
func newSlotStack[I ~uint32](capacity uint32) *slotStack[I] {
	s := &slotStack[I]{
		free: make([]I, 0, capacity),
		used: bitset.New(uint(capacity)),
	}
	for i := uint32(0); i < capacity; i++ {
		s.free = append(s.free, I(i))
	}
	return s
}

// acquire pops a free slot index.
// Expected errors during normal operations:
//   - ErrPoolExhausted if every slot is in use.
func (s *slotStack[I]) acquire() (I, error) {
	top := len(s.free) - 1
	if top < 0 {
		return 0, ErrPoolExhausted
	}
	i := s.free[top]
	s.free = s.free[:top]
	s.used.Set(uint(i))
	return i, nil
}

// release pushes the slot index back onto the stack.
// A slot that is out of range or not allocated is rejected with ErrInvalidRelease, so the stack never
// holds duplicate entries.
func (s *slotStack[I]) release(i I) error {
	if uint32(i) >= s.capacity() {
		return fmt.Errorf("slot %d out of range [0, %d): %w", i, s.capacity(), ErrInvalidRelease)
	}
	if !s.used.Test(uint(i)) {
		return fmt.Errorf("slot %d is not in use: %w", i, ErrInvalidRelease)
	}
	s.used.Clear(uint(i))
	s.free = append(s.free, i)
	return nil
}

// inUse returns true if the slot index is currently allocated.
func (s *slotStack[I]) inUse(i I) bool {
	return uint32(i) < s.capacity() && s.used.Test(uint(i))
}

func (s *slotStack[I]) capacity() uint32 {
	return uint32(cap(s.free))
}

func (s *slotStack[I]) available() uint32 {
	return uint32(len(s.free))
}

func (s *slotStack[I]) allocated() uint32 {
	return s.capacity() - s.available()
}
