// Copyright (c) 2023 the bex authors
//
// MIT License

package bex

import (
	"math/big"

	set "github.com/hashicorp/go-set/v3"
)

// Base is a binary decision diagram store with complement edges. A
// Base is safe for use by one client goroutine; the operations it
// exposes are serialized over the worker pool. Close releases the
// workers.
type Base struct {
	swarm *swarm
	tags  map[string]NID
	err   error
}

// New returns an empty Base. The zero-variable constants O and I are
// always available; variables are created on demand with NewVar and
// NewVir.
func New(options ...func(*configs)) *Base {
	c := makeconfigs()
	for _, f := range options {
		f(c)
	}
	return &Base{
		swarm: newSwarm(c.workers, c.shards),
		tags:  make(map[string]NID),
	}
}

// Close stops the worker pool. The Base must not be used afterwards.
func (b *Base) Close() {
	b.swarm.shutdown()
}

// Error returns the first error recorded on the Base, or nil.
func (b *Base) Error() error {
	return b.err
}

// seterror records the first error and returns O so call chains stay
// total.
func (b *Base) seterror(format string, a ...interface{}) NID {
	if b.err == nil {
		b.err = errMalformedf(format, a...)
	}
	return O
}

// Len returns the number of stored nodes.
func (b *Base) Len() int {
	return b.swarm.state.hilos.nodeCount()
}

// Tup returns the (hi, lo) pair for n, treating constants and
// variables as virtual nodes branching to the constants.
func (b *Base) Tup(n NID) (NID, NID) {
	return b.swarm.state.tup(n)
}

// Vhl returns the branch variable and the (hi, lo) pair for n.
func (b *Base) Vhl(n NID) (VID, NID, NID) {
	hi, lo := b.Tup(n)
	return n.Vid(), hi, lo
}

// Ite computes "if f then g else h".
func (b *Base) Ite(f, g, h NID) NID {
	return b.swarm.ite(f, g, h)
}

// And computes the conjunction of x and y.
func (b *Base) And(x, y NID) NID { return b.Ite(x, y, O) }

// Or computes the disjunction of x and y.
func (b *Base) Or(x, y NID) NID { return b.Ite(x, I, y) }

// Xor computes the exclusive or of x and y.
func (b *Base) Xor(x, y NID) NID { return b.Ite(x, y.Not(), y) }

// Not complements x. This is a constant-time edge flip.
func (b *Base) Not(x NID) NID { return x.Not() }

// Gt computes x and not y.
func (b *Base) Gt(x, y NID) NID { return b.Ite(x, y.Not(), O) }

// Lt computes not x and y.
func (b *Base) Lt(x, y NID) NID { return b.Ite(x, O, y) }

// WhenHi restricts y to the subspace where x is true.
func (b *Base) WhenHi(x VID, y NID) NID {
	switch x.CmpDepth(y.Vid()) {
	case Level:
		hi, _ := b.Tup(y)
		return hi
	case Above:
		// y cannot depend on x
		return y
	default:
		hi, lo := b.Tup(y)
		return b.Ite(FromVid(y.Vid()), b.WhenHi(x, hi), b.WhenHi(x, lo))
	}
}

// WhenLo restricts y to the subspace where x is false.
func (b *Base) WhenLo(x VID, y NID) NID {
	switch x.CmpDepth(y.Vid()) {
	case Level:
		_, lo := b.Tup(y)
		return lo
	case Above:
		return y
	default:
		hi, lo := b.Tup(y)
		return b.Ite(FromVid(y.Vid()), b.WhenLo(x, hi), b.WhenLo(x, lo))
	}
}

// When restricts y to the subspace where x takes the given value.
func (b *Base) When(x VID, val bool, y NID) NID {
	if val {
		return b.WhenHi(x, y)
	}
	return b.WhenLo(x, y)
}

// Sub replaces variable v in ctx with the function n.
func (b *Base) Sub(v VID, n, ctx NID) NID {
	return b.subMemo(v, n, ctx, make(map[NID]NID))
}

// subMemo memoizes on the raw nid; complementing the context
// complements the result, so one entry serves both orientations.
func (b *Base) subMemo(v VID, n, ctx NID, memo map[NID]NID) NID {
	if !ctx.MightDependOn(v) {
		return ctx
	}
	raw := ctx.Raw()
	if r, ok := memo[raw]; ok {
		if ctx.IsInv() {
			return r.Not()
		}
		return r
	}
	zv := raw.Vid()
	hi, lo := b.Tup(raw)
	var res NID
	if v == zv {
		res = b.Ite(n, hi, lo)
	} else {
		res = b.Ite(FromVid(zv), b.subMemo(v, n, hi, memo), b.subMemo(v, n, lo, memo))
	}
	memo[raw] = res
	if ctx.IsInv() {
		return res.Not()
	}
	return res
}

// Eval computes the value of n under the variable assignment in reg.
// Bit i of the register holds the value of Var(i).
func (b *Base) Eval(n NID, reg *Reg) (bool, error) {
	for !n.IsConst() {
		v := n.Vid()
		if !v.IsVar() {
			return false, errEvalf("branch on %s needs a value", v)
		}
		ix := int(v.Ix())
		if ix >= reg.Len() {
			return false, errEvalf("no value for %s in a %d-bit register", v, reg.Len())
		}
		hi, lo := b.Tup(n)
		if reg.Get(ix) {
			n = hi
		} else {
			n = lo
		}
	}
	return n == I, nil
}

// walkDn calls f once per reachable node, parents before children.
func (b *Base) walkDn(n NID, f func(NID)) {
	seen := set.New[NID](16)
	b.step(n.Raw(), f, seen)
}

func (b *Base) step(n NID, f func(NID), seen *set.Set[NID]) {
	if !seen.Insert(n) {
		return
	}
	f(n)
	if !n.IsConst() && !n.IsVid() {
		hi, lo := b.Tup(n)
		b.step(hi.Raw(), f, seen)
		b.step(lo.Raw(), f, seen)
	}
}

// NodeCount returns the number of nodes reachable from n, counting
// constants and variable leaves.
func (b *Base) NodeCount(n NID) int {
	count := 0
	b.walkDn(n, func(NID) { count++ })
	return count
}

// Tt returns the truth table of n over the first numVars real
// variables, one byte per row, low rows first.
func (b *Base) Tt(n NID, numVars int) []uint8 {
	if numVars < 1 || numVars > 16 {
		panic("tt only works for up to 16 variables")
	}
	res := make([]uint8, 1<<numVars)
	b.ttAux(res, n, numVars, 0)
	return res
}

func (b *Base) ttAux(res []uint8, n NID, level, i int) {
	if level == 0 {
		switch n {
		case O:
		case I:
			res[i] = 1
		default:
			panic(errInvariantf("expected a leaf, got %s", n))
		}
		return
	}
	v := Var(uint32(level - 1))
	b.ttAux(res, b.WhenLo(v, n), level-1, i*2)
	b.ttAux(res, b.WhenHi(v, n), level-1, i*2+1)
}

type satKey struct {
	n NID
	k uint32
}

// Satcount returns the number of satisfying assignments for n over
// nvars real variables. All variables of n must be real variables
// with index below nvars.
func (b *Base) Satcount(n NID, nvars int) *big.Int {
	return b.satAux(n, uint32(nvars), make(map[satKey]*big.Int))
}

func pow2(k uint32) *big.Int {
	return new(big.Int).Lsh(big.NewInt(1), uint(k))
}

func (b *Base) satAux(n NID, k uint32, memo map[satKey]*big.Int) *big.Int {
	if n == I {
		return pow2(k)
	}
	if n == O {
		return big.NewInt(0)
	}
	if n.IsInv() {
		return new(big.Int).Sub(pow2(k), b.satAux(n.Raw(), k, memo))
	}
	key := satKey{n: n, k: k}
	if r, ok := memo[key]; ok {
		return r
	}
	v := n.Vid().Ix()
	hi, lo := b.Tup(n)
	sum := new(big.Int).Add(b.satAux(hi, v, memo), b.satAux(lo, v, memo))
	res := sum.Mul(sum, pow2(k-1-v))
	memo[key] = res
	return res
}

// Tag associates a name with a node.
func (b *Base) Tag(n NID, name string) {
	b.tags[name] = n
}

// Named fetches a node by tag name.
func (b *Base) Named(name string) (NID, bool) {
	n, ok := b.tags[name]
	return n, ok
}
