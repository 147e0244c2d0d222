// Copyright (c) 2023 the bex authors
//
// MIT License

package bex

import (
	"sort"
	"sync"
)

// HiLo is the hi/lo pair stored for a node. All nodes with the same
// branching variable go in the same row, so the variable itself is not
// duplicated in storage.
type HiLo struct {
	Hi, Lo NID
}

// Invert complements both branches.
func (hl HiLo) Invert() HiLo { return HiLo{Hi: hl.Hi.Not(), Lo: hl.Lo.Not()} }

// HiLoPart names one branch of a HiLo.
type HiLoPart uint8

const (
	// HiPart is the branch taken when the variable is true.
	HiPart HiLoPart = iota
	// LoPart is the branch taken when the variable is false.
	LoPart
)

// Part returns the named branch.
func (hl HiLo) Part(which HiLoPart) NID {
	if which == HiPart {
		return hl.Hi
	}
	return hl.Lo
}

// Vhl is a full (variable, hi, lo) record.
type Vhl struct {
	V      VID
	Hi, Lo NID
}

// vhlParts is a Vhl under assembly: the branches arrive independently
// as sub-queries resolve.
type vhlParts struct {
	v      VID
	hi, lo NID
	hasHi  bool
	hasLo  bool
	invert bool
}

func (p *vhlParts) setPart(which HiLoPart, n NID) {
	if which == HiPart {
		p.hi, p.hasHi = n, true
	} else {
		p.lo, p.hasLo = n, true
	}
}

func (p *vhlParts) hilo() (HiLo, bool) {
	if p.hasHi && p.hasLo {
		return HiLo{Hi: p.hi, Lo: p.lo}, true
	}
	return HiLo{}, false
}

// hiLoRow is one unique-table row: every node branching on one
// variable. Lookup and append are atomic under the row lock; an index
// is published only after the record it names is fully written.
type hiLoRow struct {
	mu    sync.RWMutex
	index map[HiLo]uint32
	vhls  []HiLo
}

func newHiLoRow() *hiLoRow {
	return &hiLoRow{index: make(map[HiLo]uint32)}
}

// hiLoCache is the unique table: a row per branching variable. It is
// the sole authority assigning node indices. Stored pairs never have
// the inversion flag on their hi branch; inserting such a pair stores
// the complemented node and hands back an inverted NID instead.
type hiLoCache struct {
	mu   sync.RWMutex
	rows map[VID]*hiLoRow
}

func newHiLoCache() *hiLoCache {
	return &hiLoCache{rows: make(map[VID]*hiLoRow)}
}

// row returns the row for v, creating it on first use. The cache lock
// is released before the caller touches the row lock.
func (c *hiLoCache) row(v VID) *hiLoRow {
	c.mu.RLock()
	r := c.rows[v]
	c.mu.RUnlock()
	if r != nil {
		return r
	}
	c.mu.Lock()
	r = c.rows[v]
	if r == nil {
		r = newHiLoRow()
		c.rows[v] = r
	}
	c.mu.Unlock()
	return r
}

// getHiLo fetches the stored pair for an internal node, applying the
// inversion flag of n to both branches.
func (c *hiLoCache) getHiLo(n NID) HiLo {
	r := c.row(n.Vid())
	r.mu.RLock()
	res := r.vhls[n.Idx()]
	r.mu.RUnlock()
	if n.IsInv() {
		return res.Invert()
	}
	return res
}

// getNode looks up an existing node for (v, hl) without inserting.
func (c *hiLoCache) getNode(v VID, hl HiLo) (NID, bool) {
	inv := hl.Hi.IsInv()
	if inv {
		hl = hl.Invert()
	}
	r := c.row(v)
	r.mu.RLock()
	ix, ok := r.index[hl]
	r.mu.RUnlock()
	if !ok {
		return O, false
	}
	n := FromVidIdx(v, ix)
	if inv {
		n = n.Not()
	}
	return n, true
}

// insert returns the canonical NID for (v, hl), appending a new record
// if the pair is not yet present. Callers guarantee hl.Hi != hl.Lo and
// that both branches sit strictly below v. Concurrent callers with the
// same pair receive the same NID; exactly one append occurs.
func (c *hiLoCache) insert(v VID, hl HiLo) NID {
	inv := hl.Hi.IsInv()
	if inv {
		hl = hl.Invert()
	}
	if _DEBUG {
		if err := checkVhl(v, hl); err != nil {
			panic(err)
		}
	}
	r := c.row(v)
	r.mu.Lock()
	ix, ok := r.index[hl]
	if !ok {
		ix = uint32(len(r.vhls))
		r.vhls = append(r.vhls, hl)
		r.index[hl] = ix
	}
	r.mu.Unlock()
	n := FromVidIdx(v, ix)
	if inv {
		n = n.Not()
	}
	return n
}

// checkVhl verifies the invariants of a stored pair. Used by Load and
// by the debug build.
func checkVhl(v VID, hl HiLo) error {
	if hl.Hi.IsInv() {
		return errInvariantf("inverted hi branch stored under %s", v)
	}
	if hl.Hi == hl.Lo {
		return errInvariantf("hi == lo (%s) stored under %s", hl.Hi, v)
	}
	if !v.IsAbove(hl.Hi.Vid()) || !v.IsAbove(hl.Lo.Vid()) {
		return errInvariantf("%s does not sit above its children %s, %s", v, hl.Hi, hl.Lo)
	}
	return nil
}

// snapshot copies every row, deepest variable first, so that each
// record appears after the rows its children index into.
func (c *hiLoCache) snapshot() []struct {
	V    VID
	Vhls []HiLo
} {
	c.mu.RLock()
	vids := make([]VID, 0, len(c.rows))
	for v := range c.rows {
		vids = append(vids, v)
	}
	c.mu.RUnlock()
	sort.Slice(vids, func(i, j int) bool { return vids[i].IsBelow(vids[j]) })
	out := make([]struct {
		V    VID
		Vhls []HiLo
	}, 0, len(vids))
	for _, v := range vids {
		r := c.row(v)
		r.mu.RLock()
		cp := make([]HiLo, len(r.vhls))
		copy(cp, r.vhls)
		r.mu.RUnlock()
		if len(cp) > 0 {
			out = append(out, struct {
				V    VID
				Vhls []HiLo
			}{v, cp})
		}
	}
	return out
}

// nodeCount returns the total number of stored records.
func (c *hiLoCache) nodeCount() int {
	c.mu.RLock()
	rows := make([]*hiLoRow, 0, len(c.rows))
	for _, r := range c.rows {
		rows = append(rows, r)
	}
	c.mu.RUnlock()
	total := 0
	for _, r := range rows {
		r.mu.RLock()
		total += len(r.vhls)
		r.mu.RUnlock()
	}
	return total
}
