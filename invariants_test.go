/*
Copyright 2025 Vimeo Inc.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

     http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package expiremap

import (
	"math/rand"
	"testing"
	"time"

	"github.com/vimeo/go-clocks/fake"
)

// checkInvariants walks the order list and fails the test on any broken
// structural property: dangling links, wrong back-links, index/arena/order
// disagreement, or touch times out of order.
func checkInvariants[K comparable, V any](t testing.TB, m *Map[K, V]) {
	t.Helper()

	if (m.head == nullSlot) != (m.tail == nullSlot) {
		t.Fatalf("head/tail emptiness mismatch: head=%d tail=%d", m.head, m.tail)
	}
	if (m.head == nullSlot) != (len(m.index) == 0) {
		t.Fatalf("head=%d with %d indexed keys", m.head, len(m.index))
	}
	if len(m.slots) != len(m.index) {
		t.Fatalf("slot arena holds %d entries, index holds %d", len(m.slots), len(m.index))
	}

	count := 0
	prev := nullSlot
	var lastTouched time.Time
	for id := m.head; id != nullSlot; {
		e, ok := m.slots[id]
		if !ok {
			t.Fatalf("order link to dead slot %d", id)
		}
		if e.prev != prev {
			t.Fatalf("slot %d prev link = %d; want %d", id, e.prev, prev)
		}
		if gotID, ok := m.index[e.key]; !ok || gotID != id {
			t.Fatalf("index does not resolve the key of slot %d back to it", id)
		}
		if count > 0 && e.touched.Before(lastTouched) {
			t.Fatalf("order not sorted by touch time at slot %d", id)
		}
		lastTouched = e.touched
		count++
		prev = id
		id = e.next
	}
	if m.tail != prev {
		t.Fatalf("tail = %d; want %d", m.tail, prev)
	}
	if count != len(m.index) {
		t.Fatalf("order holds %d entries, index holds %d", count, len(m.index))
	}
}

// The transitional states where an entry is both ends of the order, or the
// stale end but not the fresh one, are where hand-rolled splicing goes
// wrong. Walk them explicitly.
func TestTransitionalStates(t *testing.T) {
	m := mustNew[string, int](t)

	// single element: reposition is a no-op
	m.Put("a", 1)
	checkInvariants(t, m)
	m.Get("a")
	checkInvariants(t, m)

	// two elements: reposition the stale end
	m.Put("b", 2)
	checkInvariants(t, m)
	m.Get("a")
	checkInvariants(t, m)

	// reposition the fresh end (no-op)
	m.Get("a")
	checkInvariants(t, m)

	// remove the stale end, then the last element
	if _, ok := m.Remove("b"); !ok {
		t.Fatal("Remove(b) missed")
	}
	checkInvariants(t, m)
	if _, ok := m.Remove("a"); !ok {
		t.Fatal("Remove(a) missed")
	}
	checkInvariants(t, m)

	// three elements: remove the middle
	m.Put("a", 1)
	m.Put("b", 2)
	m.Put("c", 3)
	if _, ok := m.Remove("b"); !ok {
		t.Fatal("Remove(b) missed")
	}
	checkInvariants(t, m)
}

func TestRandomizedOps(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	fc := fake.NewClock(time.Unix(1000, 0))
	m := mustNew[int, int](t, WithTTL(50*time.Millisecond), WithClock(fc))

	for i := 0; i < 5000; i++ {
		key := rng.Intn(40)
		switch op := rng.Intn(20); {
		case op == 0:
			m.Clear()
		case op < 5:
			m.Remove(key)
		case op < 7:
			m.Contains(key)
		case op < 13:
			m.Put(key, i)
		default:
			m.Get(key)
		}
		if rng.Intn(4) == 0 {
			fc.Advance(time.Duration(rng.Intn(20)) * time.Millisecond)
		}

		checkInvariants(t, m)
		if got := len(m.Values()); got != m.Len() {
			t.Fatalf("step %d: Values returned %d entries, Len reports %d", i, got, m.Len())
		}
	}
}
