// Copyright 2024 The tawhiri authors.
// SPDX-License-Identifier: Apache-2.0

package tawhiri

import (
	"math/bits"
	"sync"

	"github.com/KerlinMichel/tawhiri/errors"
)

// checklistSlots is the number of (hour, pressure, variable) slots tracked.
const checklistSlots = HourCount * PressureCount * VariableCount

// Checklist is a boolean occupancy bitmap over every (hour, pressure,
// variable) slot of one logical dataset. A shared checklist accumulates
// coverage from many source files; the array contents are meaningless
// without checklist confirmation, so consumers must consult the checklist
// before trusting any array slot.
//
// Ingestions run on separate goroutines, so the shared instance is guarded
// by a mutex. Per-record membership checks take the read lock and may be
// stale by commit time; Commit re-checks for overlap under the write lock
// before merging, which is the sole publication point. File-local checklists
// are owned by a single goroutine and the locking is uncontended.
type Checklist struct {
	mu   sync.RWMutex
	bits []uint64
}

// NewChecklist returns an all-false checklist.
func NewChecklist() *Checklist {
	return &Checklist{
		bits: make([]uint64, (checklistSlots+63)/64),
	}
}

// Contains reports whether the slot at loc has been marked.
func (c *Checklist) Contains(loc Location) bool {
	i := loc.slot()
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.bits[i/64]&(1<<(i%64)) != 0
}

// Set marks the slot at loc.
func (c *Checklist) Set(loc Location) {
	i := loc.slot()
	c.mu.Lock()
	c.bits[i/64] |= 1 << (i % 64)
	c.mu.Unlock()
}

// Count returns the number of marked slots.
func (c *Checklist) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	n := 0
	for _, w := range c.bits {
		n += bits.OnesCount64(w)
	}
	return n
}

// Intersects reports whether c and other share any marked slot. The two
// locks are never held at once, so opposite-order calls from concurrent
// goroutines cannot deadlock; the answer reflects some interleaving of the
// two checklists' states.
func (c *Checklist) Intersects(other *Checklist) bool {
	other.mu.RLock()
	words := make([]uint64, len(other.bits))
	copy(words, other.bits)
	other.mu.RUnlock()

	c.mu.RLock()
	defer c.mu.RUnlock()
	for i, w := range c.bits {
		if w&words[i] != 0 {
			return true
		}
	}
	return false
}

// Commit merges a file-local checklist into c in place. It first re-checks
// for overlap: a per-record Contains check can be stale if another ingestion
// committed an overlapping slot while this file was still being scanned, and
// this single check under the write lock closes that window without locking
// the whole ingestion. On ErrChecklistRace c is left unchanged.
func (c *Checklist) Commit(local *Checklist) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, w := range local.bits {
		if c.bits[i]&w != 0 {
			return errors.New(ErrChecklistRace, "records already unpacked (checklist race)")
		}
	}
	for i, w := range local.bits {
		c.bits[i] |= w
	}
	return nil
}
