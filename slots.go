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

import "time"

// slotID identifies an entry in the slot arena. Order links are slot ids
// resolved through the arena map rather than entry pointers, so a removed
// entry can never be reached through a stale link: resolving a dead id
// simply fails. Ids are issued monotonically and never reused.
type slotID uint64

// nullSlot terminates the order list at both ends.
const nullSlot slotID = 0

type entry[K comparable, V any] struct {
	key     K
	value   V
	touched time.Time

	// prev is the next-staler entry, next the next-fresher one.
	prev, next slotID
}

func (m *Map[K, V]) issueSlot() slotID {
	m.lastSlot++
	return m.lastSlot
}

// pushBack links id at the fresh end of the order. The entry must not be
// linked already.
func (m *Map[K, V]) pushBack(id slotID, e *entry[K, V]) {
	e.prev = m.tail
	e.next = nullSlot
	if m.tail != nullSlot {
		m.slots[m.tail].next = id
	}
	m.tail = id
	if m.head == nullSlot {
		// first element
		m.head = id
	}
}

// unlink splices id out of the order, patching both neighbors and the
// head/tail ends. The entry keeps its stale links; callers relink or drop
// it.
func (m *Map[K, V]) unlink(id slotID, e *entry[K, V]) {
	if e.prev != nullSlot {
		m.slots[e.prev].next = e.next
	} else {
		m.head = e.next
	}
	if e.next != nullSlot {
		m.slots[e.next].prev = e.prev
	} else {
		m.tail = e.prev
	}
}

// moveToBack splices id to the fresh end of the order. It is a no-op when id
// is already the freshest entry; that covers the single-element case, and
// unlink's end patching covers an entry that is the stale end but not the
// fresh one.
func (m *Map[K, V]) moveToBack(id slotID, e *entry[K, V]) {
	if m.tail == id {
		// nothing to do
		return
	}
	m.unlink(id, e)
	m.pushBack(id, e)
}
