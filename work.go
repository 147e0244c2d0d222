// Copyright (c) 2023 the bex authors
//
// MIT License

package bex

import (
	"encoding/binary"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// dep is a reverse edge in the query graph: when the query it hangs
// off resolves, the result fills one branch slot of q (complemented
// first when invert is set).
type dep struct {
	q      ite
	part   HiLoPart
	invert bool
}

// workRec is one entry in the work registry. While todo it accumulates
// the partial node and the list of parents waiting on it; once done it
// is a plain memo entry and stays that way, so the registry doubles as
// the computed cache.
type workRec struct {
	done  bool
	nid   NID
	parts vhlParts
	deps  []dep
}

type workShard struct {
	mu sync.Mutex
	m  map[ite]*workRec
}

// workState is the concurrent registry of pending and completed ITE
// queries, shared by every worker. All locks here are leaf-level: each
// method locks one shard or one unique-table row at a time, copies
// what it needs, and releases before calling anything that locks.
type workState struct {
	hilos  *hiLoCache
	shards []workShard
}

func newWorkState(nshards int) *workState {
	s := &workState{hilos: newHiLoCache(), shards: make([]workShard, nshards)}
	for i := range s.shards {
		s.shards[i].m = make(map[ite]*workRec)
	}
	return s
}

func (s *workState) shard(q ite) *workShard {
	var b [24]byte
	binary.LittleEndian.PutUint64(b[0:], uint64(q.f))
	binary.LittleEndian.PutUint64(b[8:], uint64(q.g))
	binary.LittleEndian.PutUint64(b[16:], uint64(q.h))
	return &s.shards[xxhash.Sum64(b[:])%uint64(len(s.shards))]
}

// getDone returns the memoized result for q, if the work is finished.
func (s *workState) getDone(q ite) (NID, bool) {
	sh := s.shard(q)
	sh.mu.Lock()
	w := sh.m[q]
	var n NID
	ok := w != nil && w.done
	if ok {
		n = w.nid
	}
	sh.mu.Unlock()
	return n, ok
}

// addTask registers the root query. Reports whether it was new.
func (s *workState) addTask(q ite) bool {
	sh := s.shard(q)
	sh.mu.Lock()
	_, known := sh.m[q]
	if !known {
		sh.m[q] = &workRec{}
	}
	sh.mu.Unlock()
	return !known
}

// tup returns the (hi, lo) pair for any non-fun nid, treating leaves
// as virtual nodes branching to the constants.
func (s *workState) tup(n NID) (NID, NID) {
	switch {
	case n.IsConst():
		if n == I {
			return I, O
		}
		return O, I
	case n.IsVid():
		if n.IsInv() {
			return O, I
		}
		return I, O
	default:
		hl := s.hilos.getHiLo(n)
		return hl.Hi, hl.Lo
	}
}

// vhlToNid returns the canonical nid for (v, hi, lo), constructing the
// node if needed.
func (s *workState) vhlToNid(v VID, hi, lo NID) NID {
	if n, ok := s.hilos.getNode(v, HiLo{Hi: hi, Lo: lo}); ok {
		return n
	}
	return s.hilos.insert(v, HiLo{Hi: hi, Lo: lo})
}

// resolveNid marks q finished and propagates the result to every
// parent waiting on it. Returns the final answer when the chain
// reaches a query with no parents (the root).
func (s *workState) resolveNid(q ite, n NID) (NID, bool) {
	sh := s.shard(q)
	sh.mu.Lock()
	w := sh.m[q]
	if w == nil {
		sh.mu.Unlock()
		panic(errInvariantf("resolution for unknown query %s", q))
	}
	if w.done {
		old := w.nid
		sh.mu.Unlock()
		if old != n {
			panic(errInvariantf("conflicting resolutions %s / %s", old, n))
		}
		return O, false
	}
	ideps := w.deps
	w.deps = nil
	w.done = true
	w.nid = n
	sh.mu.Unlock()
	if len(ideps) == 0 {
		return n, true
	}
	var res NID
	found := false
	for _, d := range ideps {
		if a, ok := s.resolvePart(d.q, d.part, n, d.invert); ok {
			res, found = a, true
		}
	}
	return res, found
}

// resolveVhl builds the node for a completed parts record and resolves
// q with it. The invert flag is applied before normalizing so the
// canonical orientation comes out right.
func (s *workState) resolveVhl(q ite, v VID, hi, lo NID, invert bool) (NID, bool) {
	if invert {
		hi, lo = hi.Not(), lo.Not()
	}
	var n NID
	nm := normIte(FromVid(v), hi, lo)
	if nm.done {
		n = nm.nid
	} else {
		n = s.vhlToNid(nm.key.f.Vid(), nm.key.g, nm.key.h)
		if nm.inv {
			n = n.Not()
		}
	}
	return s.resolveNid(q, n)
}

// resolvePart fills one branch slot of q. If that completes the parts
// record, the node is committed and q resolves in turn. Results for
// unknown or already-finished queries are dropped.
func (s *workState) resolvePart(q ite, part HiLoPart, n NID, invert bool) (NID, bool) {
	sh := s.shard(q)
	sh.mu.Lock()
	w := sh.m[q]
	if w == nil || w.done {
		sh.mu.Unlock()
		return O, false
	}
	if invert {
		n = n.Not()
	}
	w.parts.setPart(part, n)
	parts := w.parts
	sh.mu.Unlock()
	if hl, ok := parts.hilo(); ok {
		return s.resolveVhl(q, parts.v, hl.Hi, hl.Lo, parts.invert)
	}
	return O, false
}

// addWip records the branch variable and invert flag for a query whose
// children are still being computed.
func (s *workState) addWip(q ite, v VID, invert bool) {
	sh := s.shard(q)
	sh.mu.Lock()
	w := sh.m[q]
	if w == nil {
		sh.mu.Unlock()
		panic(errInvariantf("wip for unknown query %s", q))
	}
	if !w.done {
		w.parts.v = v
		w.parts.invert = invert
	}
	sh.mu.Unlock()
}

// addDep links a sub-query to its parent. fresh reports whether the
// sub-query is new to the system (and so must be delegated to a
// worker). If the sub-query already finished, the parent slot is
// filled immediately, which can produce an answer.
func (s *workState) addDep(q ite, d dep) (fresh bool, ans NID, found bool) {
	sh := s.shard(q)
	sh.mu.Lock()
	w := sh.m[q]
	if w == nil {
		w = &workRec{}
		sh.m[q] = w
		fresh = true
	}
	var doneNid NID
	wasDone := w.done
	if wasDone {
		doneNid = w.nid
	} else {
		w.deps = append(w.deps, d)
	}
	sh.mu.Unlock()
	if wasDone {
		ans, found = s.resolvePart(d.q, d.part, doneNid, d.invert)
	}
	return fresh, ans, found
}

// resStep is the outcome of one worker step on a query: either a
// finished nid, or a parts record plus the normalized sub-queries for
// the two branches.
type resStep struct {
	isNid  bool
	nid    NID
	v      VID
	hi, lo norm
}

// iteStep performs one normalization step: cofactor the triple on its
// topmost variable and normalize both branches. When both branches
// collapse to nids the node can be built right away.
func (s *workState) iteStep(q ite) resStep {
	if n, ok := s.getDone(q); ok {
		return resStep{isNid: true, nid: n}
	}
	f, g, h := q.f, q.g, q.h
	fv, gv, hv := f.Vid(), g.Vid(), h.Vid()
	v := topmost3(fv, gv, hv)
	hiF, loF := f, f
	if v == fv {
		hiF, loF = s.tup(f)
	}
	hiG, loG := g, g
	if v == gv {
		hiG, loG = s.tup(g)
	}
	hiH, loH := h, h
	if v == hv {
		hiH, loH = s.tup(h)
	}
	hi := normIte(hiF, hiG, hiH)
	lo := normIte(loF, loG, loH)
	if hi.done && lo.done {
		nm := normIte(FromVid(v), hi.nid, lo.nid)
		if nm.done {
			return resStep{isNid: true, nid: nm.nid}
		}
		n := s.vhlToNid(nm.key.f.Vid(), nm.key.g, nm.key.h)
		if nm.inv {
			n = n.Not()
		}
		return resStep{isNid: true, nid: n}
	}
	return resStep{v: v, hi: hi, lo: lo}
}

func (q ite) String() string {
	return "ite(" + q.f.String() + "," + q.g.String() + "," + q.h.String() + ")"
}
