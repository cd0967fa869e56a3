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

// Package expiremap provides a linked hash map with sliding time-based
// expiration: a hash index combined with a doubly-linked recency order over
// the same entries, giving O(1) lookup, O(1) reposition-on-access, and O(1)
// removal of expired entries from the stale end of the order.
//
// The expiration window is sliding: a successful Get re-timestamps the entry
// and moves it to the fresh end of the order, so the order is always sorted
// by touch time and expired entries form a contiguous run at the stale end.
// Cleanup is amortized across writes; there is no background goroutine.
//
// A Map is not safe for concurrent use. Every operation, including Get,
// mutates the recency order, so concurrent callers must serialize all access
// with a single exclusive lock per Map.
package expiremap // import "github.com/vimeo/expiremap"

import (
	"context"
	"time"

	"github.com/vimeo/go-clocks"

	"go.opencensus.io/stats"
	"go.opencensus.io/tag"
)

// Map is a generic key/value map with sliding time-based expiration.
// The zero value is not usable; construct with New.
type Map[K comparable, V any] struct {
	// OnEvicted optionally specifies a callback function to be executed
	// when an entry is removed by the expiration sweep. It is not called
	// for Remove, Clear, or an overwriting Put. The callback must not
	// mutate the Map.
	OnEvicted func(key K, value V)

	// index comes first so the GC enqueues marking the map-contents first
	// (which will mark the slot arena much more efficiently than chasing
	// the order links).
	index map[K]slotID
	slots map[slotID]*entry[K, V]

	// head is the least-recently-touched entry (first to expire), tail
	// the most-recently-touched one. Both are nullSlot when the Map is
	// empty.
	head, tail slotID
	lastSlot   slotID

	ttl   time.Duration
	clock clocks.Clock

	// statsCtx carries the map-name tag for recorded measures.
	statsCtx context.Context

	ms MapStats
}

// New constructs an empty Map. With no options, expiration is disabled and
// entries live until explicitly removed; pass WithTTL to enable the sliding
// window. Invalid options are reported as a *ConfigError.
func New[K comparable, V any](opts ...Option) (*Map[K, V], error) {
	cfg := mapOpts{
		clock: clocks.DefaultClock(),
		name:  "default",
	}
	for _, opt := range opts {
		opt.apply(&cfg)
	}
	if cfg.clock == nil {
		return nil, &ConfigError{Option: "WithClock", Reason: "nil clock"}
	}
	if cfg.name == "" {
		return nil, &ConfigError{Option: "WithName", Reason: "empty map name"}
	}
	statsCtx, err := tag.New(context.Background(), tag.Upsert(MapKey, cfg.name))
	if err != nil {
		return nil, &ConfigError{Option: "WithName", Reason: err.Error()}
	}
	return &Map[K, V]{
		index:    make(map[K]slotID),
		slots:    make(map[slotID]*entry[K, V]),
		ttl:      cfg.ttl,
		clock:    cfg.clock,
		statsCtx: statsCtx,
	}, nil
}

// Put adds a value to the map at the most-recently-touched position with a
// fresh timestamp. A colliding key is removed first and freshly inserted, so
// an overwrite always ends up at the fresh end of the order. Put also runs
// the expiration sweep, amortizing cleanup across writes.
func (m *Map[K, V]) Put(key K, value V) {
	now := m.clock.Now()
	m.sweep(now)
	if id, hit := m.index[key]; hit {
		m.deleteSlot(id, m.slots[id])
	}
	id := m.issueSlot()
	e := &entry[K, V]{key: key, value: value, touched: now}
	m.slots[id] = e
	m.index[key] = id
	m.pushBack(id, e)
	m.ms.Puts++
	stats.Record(m.statsCtx, MPuts.M(1), MItems.M(int64(len(m.index))))
}

// Get looks up a key's value. On a hit the entry is re-timestamped and moved
// to the most-recently-touched position, resetting its expiration window.
//
// A present-but-expired entry is indistinguishable from an absent one: both
// report a miss. A miss on an expired entry additionally drains the whole
// expired run at the stale end of the order (which includes the entry
// itself); a miss on an absent key does not sweep.
func (m *Map[K, V]) Get(key K) (value V, ok bool) {
	m.ms.Gets++
	stats.Record(m.statsCtx, MGets.M(1))
	id, hit := m.index[key]
	if !hit {
		m.ms.Misses++
		stats.Record(m.statsCtx, MMisses.M(1))
		return
	}
	e := m.slots[id]
	now := m.clock.Now()
	if m.expired(e, now) {
		m.sweep(now)
		m.ms.Misses++
		stats.Record(m.statsCtx, MMisses.M(1), MItems.M(int64(len(m.index))))
		return
	}
	e.touched = now
	m.moveToBack(id, e)
	m.ms.Hits++
	stats.Record(m.statsCtx, MHits.M(1))
	return e.value, true
}

// Remove removes the provided key from the map and returns its value.
// Removing an absent key is a no-op reporting ok == false.
func (m *Map[K, V]) Remove(key K) (value V, ok bool) {
	id, hit := m.index[key]
	if !hit {
		return
	}
	e := m.slots[id]
	m.deleteSlot(id, e)
	m.ms.Removes++
	stats.Record(m.statsCtx, MRemoves.M(1), MItems.M(int64(len(m.index))))
	return e.value, true
}

// Contains reports whether the key is currently tracked by the map. It does
// NOT consult expiration: an expired entry that no sweep has removed yet is
// still reported present. Membership tracks sweep state, not the clock; use
// Get for an expiration-aware lookup.
func (m *Map[K, V]) Contains(key K) bool {
	_, hit := m.index[key]
	return hit
}

// Clear purges all stored entries. Clearing an empty map is a no-op.
func (m *Map[K, V]) Clear() {
	m.index = make(map[K]slotID)
	m.slots = make(map[slotID]*entry[K, V])
	m.head, m.tail = nullSlot, nullSlot
	stats.Record(m.statsCtx, MItems.M(0))
}

// Values returns a snapshot of all values in least- to most-recently-touched
// order, including expired entries that no sweep has removed yet.
func (m *Map[K, V]) Values() []V {
	out := make([]V, 0, len(m.index))
	for id := m.head; id != nullSlot; id = m.slots[id].next {
		out = append(out, m.slots[id].value)
	}
	return out
}

// Keys returns a snapshot of all keys in least- to most-recently-touched
// order, including expired entries that no sweep has removed yet.
func (m *Map[K, V]) Keys() []K {
	out := make([]K, 0, len(m.index))
	for id := m.head; id != nullSlot; id = m.slots[id].next {
		out = append(out, m.slots[id].key)
	}
	return out
}

// Len returns the number of tracked entries, including not-yet-swept expired
// ones.
func (m *Map[K, V]) Len() int {
	return len(m.index)
}

// TTL returns the configured sliding expiration window. Non-positive means
// expiration is disabled.
func (m *Map[K, V]) TTL() time.Duration {
	return m.ttl
}

// Stats returns a snapshot of the map's operation counters.
func (m *Map[K, V]) Stats() MapStats {
	ms := m.ms
	ms.Items = int64(len(m.index))
	return ms
}

// expired reports whether e has outlived the sliding window at time now. An
// entry aged exactly ttl is still live.
func (m *Map[K, V]) expired(e *entry[K, V], now time.Time) bool {
	return m.ttl > 0 && now.Sub(e.touched) > m.ttl
}

// sweep removes expired entries from the stale end of the order until it
// finds a live one. The order is sorted by touch time, so expired entries
// are always contiguous at the stale end and the scan stops at the first
// live entry.
func (m *Map[K, V]) sweep(now time.Time) {
	if m.ttl <= 0 {
		return
	}
	for m.head != nullSlot {
		id := m.head
		e := m.slots[id]
		if now.Sub(e.touched) <= m.ttl {
			return
		}
		m.deleteSlot(id, e)
		m.ms.Expired++
		stats.Record(m.statsCtx, MExpirations.M(1))
		if m.OnEvicted != nil {
			m.OnEvicted(e.key, e.value)
		}
	}
}

func (m *Map[K, V]) deleteSlot(id slotID, e *entry[K, V]) {
	m.unlink(id, e)
	delete(m.slots, id)
	delete(m.index, e.key)
}

// MapStats are returned by the Stats accessor on Map.
type MapStats struct {
	Items   int64 // entries currently tracked, including not-yet-swept expired ones
	Gets    int64 // Get calls
	Hits    int64 // Gets that found a live entry
	Misses  int64 // Gets that found nothing, or only an expired entry
	Puts    int64 // Put calls
	Removes int64 // Removes that removed an entry
	Expired int64 // entries removed by the expiration sweep
}
