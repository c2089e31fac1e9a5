package unittest

import (
	"fmt"
	"math/rand"
)

// MockElement implements a bare minimum element stored in arena lists for sake of test.
// Elements are compared by pointer, so two fixtures never match each other even with equal keys.
type MockElement struct {
	Key int
}

func (m *MockElement) String() string {
	return fmt.Sprintf("element-%d", m.Key)
}

// ElementFixture returns an element with a random key.
func ElementFixture() *MockElement {
	return &MockElement{Key: rand.Int()}
}

// ElementListFixture returns n elements keyed 0..n-1.
func ElementListFixture(n int) []*MockElement {
	list := make([]*MockElement, 0, n)

	for i := 0; i < n; i++ {
		list = append(list, &MockElement{Key: i})
	}

	return list
}

// KeyIs is a search predicate matching a *MockElement whose key equals arg.
func KeyIs(item interface{}, arg interface{}) bool {
	e, ok := item.(*MockElement)
	return ok && e.Key == arg.(int)
}
