// Copyright (c) 2023 the bex authors
//
// MIT License

package bex

import (
	"sort"

	set "github.com/hashicorp/go-set/v3"
)

type astOp uint8

const (
	astAnd astOp = iota
	astXor
)

// astNode defines one virtual variable as an operation over two
// operands. Operands are constants, real-variable leaves, or other
// virtual variables (earlier ones as built, later ones after
// SortByCost), any of them possibly complemented.
type astNode struct {
	op   astOp
	x, y NID
}

// AST is an expression store. Building an expression returns a
// virtual-variable leaf naming it: node k defines Vir(k). Nodes are
// deduplicated, so equal subexpressions share one virtual variable.
// Complements are edge flips here too, which keeps And and Xor
// sufficient as the stored operations.
type AST struct {
	nodes []astNode
	cache map[astNode]NID
}

// NewAST returns an empty expression store.
func NewAST() *AST {
	return &AST{cache: make(map[astNode]NID)}
}

// Len returns the number of stored nodes.
func (a *AST) Len() int { return len(a.nodes) }

// nid returns the virtual variable for nd, creating a node if the
// expression is new.
func (a *AST) nid(nd astNode) NID {
	if n, ok := a.cache[nd]; ok {
		return n
	}
	n := NewVir(uint32(len(a.nodes)))
	a.nodes = append(a.nodes, nd)
	a.cache[nd] = n
	return n
}

// ordered puts commutative operands in a canonical order so the cache
// catches both argument orders.
func ordered(x, y NID) (NID, NID) {
	if y < x {
		return y, x
	}
	return x, y
}

// And returns the conjunction of x and y.
func (a *AST) And(x, y NID) NID {
	switch {
	case x == O || y == O:
		return O
	case x == I:
		return y
	case y == I:
		return x
	case x == y:
		return x
	case x == y.Not():
		return O
	}
	x, y = ordered(x, y)
	return a.nid(astNode{op: astAnd, x: x, y: y})
}

// Xor returns the exclusive or of x and y.
func (a *AST) Xor(x, y NID) NID {
	switch {
	case x == O:
		return y
	case y == O:
		return x
	case x == I:
		return y.Not()
	case y == I:
		return x.Not()
	case x == y:
		return O
	case x == y.Not():
		return I
	}
	x, y = ordered(x, y)
	return a.nid(astNode{op: astXor, x: x, y: y})
}

// Or returns the disjunction of x and y, expressed with the stored
// operations as xor(and(x,y), xor(x,y)).
func (a *AST) Or(x, y NID) NID {
	return a.Xor(a.And(x, y), a.Xor(x, y))
}

// Not complements x.
func (a *AST) Not(x NID) NID { return x.Not() }

// isNode reports whether n names a stored node rather than a constant
// or real-variable leaf.
func (a *AST) isNode(n NID) bool {
	return !n.IsConst() && n.IsVir()
}

// markDeps inserts the index of every node reachable from n into seen.
func (a *AST) markDeps(n NID, seen *set.Set[uint32]) {
	if !a.isNode(n) {
		return
	}
	ix := n.Vid().Ix()
	if !seen.Insert(ix) {
		return
	}
	nd := a.nodes[ix]
	a.markDeps(nd.x, seen)
	a.markDeps(nd.y, seen)
}

// remapVir renames the virtual variable of n through newIx, keeping
// constants and real variables as they are.
func remapVir(n NID, newIx []int) NID {
	if n.IsConst() || n.IsVar() {
		return n
	}
	r := NewVir(uint32(newIx[n.Vid().Ix()]))
	if n.IsInv() {
		r = r.Not()
	}
	return r
}

// permute builds a copy of the store holding the nodes named by pv, in
// that order: pv[i] is the old index of the node that lands at new
// index i. Returns the copy and the old-to-new index map. The copy
// starts with an empty cache, like any store built from scratch.
func (a *AST) permute(pv []int) (*AST, []int) {
	newIx := make([]int, len(a.nodes))
	for i := range newIx {
		newIx[i] = -1
	}
	for i, old := range pv {
		newIx[old] = i
	}
	res := NewAST()
	for _, old := range pv {
		nd := a.nodes[old]
		res.nodes = append(res.nodes, astNode{
			op: nd.op,
			x:  remapVir(nd.x, newIx),
			y:  remapVir(nd.y, newIx),
		})
	}
	return res, newIx
}

// Repack garbage-collects the store: the result holds only nodes
// reachable from keep, in their original relative order. The second
// result is keep renamed into the new store.
func (a *AST) Repack(keep []NID) (*AST, []NID) {
	seen := set.New[uint32](len(a.nodes))
	for _, n := range keep {
		a.markDeps(n, seen)
	}
	pv := make([]int, 0, seen.Size())
	for i := range a.nodes {
		if seen.Contains(uint32(i)) {
			pv = append(pv, i)
		}
	}
	packed, newIx := a.permute(pv)
	roots := make([]NID, len(keep))
	for i, n := range keep {
		roots[i] = remapVir(n, newIx)
	}
	return packed, roots
}

// costs returns the step cost of each node: constants cost 0, inputs
// cost 1, and a node costs one more than its dearest operand. Costs
// are memoized recursively, so operands may be stored before or after
// the nodes that use them.
func (a *AST) costs() []uint32 {
	costs := make([]uint32, len(a.nodes))
	var cost func(n NID) uint32
	cost = func(n NID) uint32 {
		switch {
		case n.IsConst():
			return 0
		case n.IsVar():
			return 1
		}
		ix := n.Vid().Ix()
		if costs[ix] == 0 {
			nd := a.nodes[ix]
			cx, cy := cost(nd.x), cost(nd.y)
			if cy > cx {
				cx = cy
			}
			costs[ix] = cx + 1
		}
		return costs[ix]
	}
	for i := range a.nodes {
		cost(NewVir(uint32(i)))
	}
	return costs
}

// gradeup returns the permutation that sorts costs ascending, stably:
// entry i of the result is the index holding the i'th smallest cost.
func gradeup(costs []uint32) []int {
	p := make([]int, len(costs))
	for i := range p {
		p[i] = i
	}
	sort.SliceStable(p, func(i, j int) bool { return costs[p[i]] < costs[p[j]] })
	return p
}

// SortByCost repacks the store to the nodes reachable from top and
// renumbers them by descending cost, so the root becomes Vir(0) and
// every operand of a node has a strictly larger index (or is a real
// variable or constant). Substituting virtual variables in ascending
// index order then takes exactly one step per node.
func (a *AST) SortByCost(top NID) (*AST, NID) {
	if !a.isNode(top) {
		return NewAST(), top
	}
	packed, roots := a.Repack([]NID{top})
	p := gradeup(packed.costs())
	for i, j := 0, len(p)-1; i < j; i, j = i+1, j-1 {
		p[i], p[j] = p[j], p[i]
	}
	sorted, newIx := packed.permute(p)
	return sorted, remapVir(roots[0], newIx)
}
