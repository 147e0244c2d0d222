// Copyright (c) 2023 the bex authors
//
// MIT License

package bex

// Cursor tracks one position in the solution space of a node: the
// current variable assignment and the stack of nodes along the path
// from the root. Advancing a cursor ripple-increments the assignment
// at the current branching variable and descends again.
type Cursor struct {
	nvars   int
	node    NID
	nstack  []NID
	scope   *Reg
	canSkip *Reg
	watch   *Reg
}

func newCursor(nvars int, node NID) *Cursor {
	return &Cursor{
		nvars:   nvars,
		node:    node,
		scope:   NewReg(nvars),
		canSkip: NewReg(nvars),
		watch:   NewReg(nvars),
	}
}

// Scope returns the current variable assignment. Bits flagged as
// don't-care by the current path are left at their last value.
func (c *Cursor) Scope() *Reg { return c.scope }

func (c *Cursor) pushNode(node NID) {
	c.nstack = append(c.nstack, c.node)
	c.node = node
}

func (c *Cursor) popNode() {
	c.node = c.nstack[len(c.nstack)-1]
	c.nstack = c.nstack[:len(c.nstack)-1]
}

// stepUp takes one step toward the root and returns the new node.
func (c *Cursor) stepUp() NID {
	c.popNode()
	return c.node
}

func (c *Cursor) stepDown(b *Base, which HiLoPart) {
	hi, lo := b.Tup(c.node)
	if which == HiPart {
		c.pushNode(hi)
	} else {
		c.pushNode(lo)
	}
}

// putStep records the chosen value for the current branching variable
// and follows the matching branch.
func (c *Cursor) putStep(b *Base, val bool) {
	c.scope.VarPut(c.node.Vid(), val)
	if val {
		c.stepDown(b, HiPart)
	} else {
		c.stepDown(b, LoPart)
	}
}

// descend walks down to the leftmost leaf under the current node that
// can contain a solution, setting the scope along the way. It never
// backtracks; once at a leaf the caller climbs via findNextLeaf.
func (c *Cursor) descend(b *Base) {
	for !c.node.IsConst() {
		_, lo := b.Tup(c.node)
		c.putStep(b, lo == O)
	}
}

func (c *Cursor) varGet() bool {
	return c.scope.VarGet(c.node.Vid())
}

// ascend climbs the stack until it reaches a branch whose variable is
// still set to lo.
func (c *Cursor) ascend() {
	bv := c.node.Vid()
	for c.scope.VarGet(bv) && len(c.nstack) > 0 {
		bv = c.stepUp().Vid()
	}
}

func (c *Cursor) clearTrailingBits() {
	bi := int(c.node.Vid().Ix())
	for i := 0; i < bi; i++ {
		c.scope.Put(i, false)
	}
}

// increment advances the scope register by one, first forcing every
// unwatched don't-care bit high so the carry skips over it. Returns
// the position where a 0 became 1, or -1 on overflow. Stack entries
// at or below that position are popped.
func (c *Cursor) increment() int {
	for i := range c.scope.data {
		c.scope.data[i] |= c.canSkip.data[i] &^ c.watch.data[i]
	}
	zpos := c.scope.Increment()
	if zpos < 0 {
		return -1
	}
	vz := Var(uint32(zpos))
	for len(c.nstack) > 0 && !vz.IsBelow(c.nstack[len(c.nstack)-1].Vid()) {
		c.popNode()
	}
	return zpos
}

// SolIterator iterates the satisfying assignments of a node in
// ascending numeric order of the assignment register.
type SolIterator struct {
	b   *Base
	cur *Cursor
}

// Solutions returns an iterator over the satisfying assignments of n,
// viewed as a function of the first nvars real variables.
func (b *Base) Solutions(n NID, nvars int) *SolIterator {
	return &SolIterator{b: b, cur: b.firstSolution(n, nvars)}
}

// Next returns the next satisfying assignment. ok is false once the
// solutions are exhausted.
func (it *SolIterator) Next() (*Reg, bool) {
	if it.cur == nil {
		return nil, false
	}
	res := it.cur.scope.Clone()
	it.cur = it.b.nextSolution(it.cur)
	return res, true
}

func (b *Base) firstSolution(n NID, nvars int) *Cursor {
	if n == O || nvars == 0 {
		return nil
	}
	cur := b.makeCursor(n, nvars)
	for i := 0; i < cur.nvars; i++ {
		cur.watch.Put(i, true)
	}
	return cur
}

// makeCursor positions a fresh cursor on the first leaf that can hold
// a solution. nvars below the root variable is widened to cover it.
func (b *Base) makeCursor(n NID, nvars int) *Cursor {
	if n == O {
		return nil
	}
	if !n.IsConst() {
		if base := int(n.Vid().Ix()) + 1; base > nvars {
			nvars = base
		}
	}
	cur := newCursor(nvars, n)
	cur.descend(b)
	b.markSkippable(cur)
	return cur
}

func (b *Base) inSolution(cur *Cursor) bool {
	return cur.node == I
}

// findNextLeaf climbs from the current leaf to the next unexplored
// branch and descends to the leaf below it. Reports false when the
// solution space is exhausted.
func (b *Base) findNextLeaf(cur *Cursor) bool {
	if len(cur.nstack) == 0 {
		return false
	}
	cur.stepUp()
	tv := cur.node.Vid()
	rippled := false
	if cur.scope.VarGet(tv) {
		// the hi branch here is already explored
		cur.ascend()
		iv := cur.node.Vid()
		if len(cur.nstack) == 0 && cur.scope.VarGet(iv) {
			// the root does not depend on variables above it; a
			// ripple there is the only way forward
			if cur.scope.Ripple(int(iv.Ix()), cur.nvars-1) >= 0 {
				rippled = true
			} else {
				return false
			}
		}
	}
	if rippled {
		cur.clearTrailingBits()
	} else if cur.varGet() {
		return false
	} else {
		// the lo side is exhausted; the hi side starts from all-zero
		// lower bits
		cur.clearTrailingBits()
		cur.putStep(b, true)
	}
	cur.descend(b)
	return true
}

// nextSolution advances past the current span of solutions. Returns
// nil when the assignment register overflows.
func (b *Base) nextSolution(cur *Cursor) *Cursor {
	if b.inSolution(cur) {
		if cur.increment() < 0 {
			return nil
		}
		if cur.node.IsConst() {
			// nothing was popped (or the root is I): the same I leaf
			// covers the new assignment
			return cur
		}
		cur.putStep(b, cur.varGet())
		cur.descend(b)
	}
	for !b.inSolution(cur) {
		if !b.findNextLeaf(cur) {
			return nil
		}
	}
	b.markSkippable(cur)
	return cur
}

// markSkippable flags the variables the current path never branches
// on: gaps between stack levels, everything below the deepest branch,
// and everything above the root.
func (b *Base) markSkippable(cur *Cursor) {
	canSkip := NewReg(cur.nvars)
	prev := 0
	for i := len(cur.nstack) - 1; i >= 0; i-- {
		level := int(cur.nstack[i].Vid().Ix())
		if i == len(cur.nstack)-1 {
			for j := 0; j < level; j++ {
				canSkip.Put(j, true)
			}
		} else if level > prev+1 {
			for j := prev + 1; j < level; j++ {
				canSkip.Put(j, true)
			}
		}
		prev = level
	}
	if len(cur.nstack) > 0 {
		for i := int(cur.nstack[0].Vid().Ix()) + 1; i < cur.nvars; i++ {
			canSkip.Put(i, true)
		}
	}
	cur.canSkip = canSkip
}
