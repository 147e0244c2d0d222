// Copyright (c) 2023 the bex authors
//
// MIT License

package bex

// A NID identifies a node in a Base. Conceptually it is a (VID, index)
// pair plus some flag bits, packed into a u64 so that most algebraic
// decisions can be made without touching storage:
//
//	bit 63   INV   the nid denotes the complement of the function
//	bit 62   VAR   the nid is a variable leaf (nothing stored for it)
//	bit 61   T     the nid is one of the constants O and I
//	bit 60   RVAR  the variable is a real input, not a virtual
//	bit 59   FUN   the low word holds a whole truth table (arity <= 5)
//	32..58   VID   the variable this node branches on
//	 0..31   IDX   index into the unique-table row for that VID
//
// NID equality is function identity: two nids denote the same function
// exactly when they are equal, and nids differing only in INV denote
// complements.
type NID uint64

const (
	nidInv uint64 = 1 << 63
	nidVar uint64 = 1 << 62
	nidT   uint64 = 1 << 61
	nidRV  uint64 = 1 << 60
	nidFun uint64 = 1 << 59

	idxMask uint64 = 1<<32 - 1
)

// O is the constant function "always false".
const O NID = NID(nidT)

// I is the constant function "always true". I == O.Not().
const I NID = NID(nidT | nidInv)

// FromVid returns the leaf NID for a variable. Leaves are virtual nodes
// with hi=I and lo=O; they are simple and numerous enough that nothing
// is stored for them.
func FromVid(v VID) NID { return NID(uint64(v)<<32 | nidVar) }

// NewVar returns the leaf NID for real input variable i.
func NewVar(i uint32) NID { return FromVid(Var(i)) }

// NewVir returns the leaf NID for virtual variable i.
func NewVir(i uint32) NID { return FromVid(Vir(i)) }

// FromVidIdx returns the NID for entry idx in the unique-table row of v.
func FromVidIdx(v VID, idx uint32) NID { return NID(uint64(v)<<32 | uint64(idx)) }

// Ixn returns an indexed NID not tied to any variable.
func Ixn(idx uint32) NID { return FromVidIdx(vidNoV, idx) }

// Fun returns a NID carrying an entire truth table for a function of
// the given arity (1..5). The table occupies the low 32 bits; inputs
// are numbered from bit 0.
func Fun(arity uint8, tbl uint32) NID {
	return NID(nidFun | uint64(arity)<<32 | uint64(tbl))
}

// IsInv reports whether the INV flag is set.
func (n NID) IsInv() bool { return uint64(n)&nidInv != 0 }

// IsVid reports whether n is a variable leaf (real or virtual).
func (n NID) IsVid() bool { return uint64(n)&nidVar != 0 }

// IsVar reports whether n is a real-variable leaf.
func (n NID) IsVar() bool { return n.IsVid() && uint64(n)&nidRV != 0 }

// IsVir reports whether n is a virtual-variable leaf.
func (n NID) IsVir() bool { return n.IsVid() && uint64(n)&nidRV == 0 }

// IsConst reports whether n is O or I.
func (n NID) IsConst() bool { return uint64(n)&nidT != 0 }

// IsLit reports whether n is a leaf: a variable or a constant.
func (n NID) IsLit() bool { return n.IsVid() || n.IsConst() }

// IsFun reports whether n carries an embedded truth table.
func (n NID) IsFun() bool { return uint64(n)&nidFun != 0 }

// IsIxn reports whether n is an indexed node not tied to a variable.
func (n NID) IsIxn() bool {
	return !n.IsLit() && !n.IsFun() && n.Vid() == vidNoV
}

// Idx returns the index part of the NID.
func (n NID) Idx() uint32 { return uint32(uint64(n) & idxMask) }

// Vid returns the variable this node branches on. O and I branch on the
// constant level T. Not meaningful for Fun nids.
func (n NID) Vid() VID {
	return VID((uint64(n) &^ (nidInv | nidVar)) >> 32)
}

// Not returns the complement. Involutive: n.Not().Not() == n.
func (n NID) Not() NID { return NID(uint64(n) ^ nidInv) }

// Raw returns n with the INV flag cleared.
func (n NID) Raw() NID { return NID(uint64(n) &^ nidInv) }

// Table returns the embedded truth table of a Fun nid.
func (n NID) Table() uint32 {
	if !n.IsFun() {
		panic("not a fun nid")
	}
	return n.Idx()
}

// Arity returns the input count of a Fun nid; literals have arity 0.
func (n NID) Arity() uint8 {
	if n.IsFun() {
		return uint8(uint64(n) >> 32 & 0xff)
	}
	if n.IsLit() {
		return 0
	}
	panic("arity is only defined for fun and literal nids")
}

// MightDependOn reports whether the function denoted by n can depend on
// variable v. A false answer is definite; a true answer only means the
// subgraph must be explored.
func (n NID) MightDependOn(v VID) bool {
	if n.IsConst() {
		return false
	}
	if n.IsVid() {
		return n.Vid() == v
	}
	nv := n.Vid()
	return nv == v || nv.IsAbove(v)
}

// permuteBits rearranges the bits of x: entry pv[i] names the bit of x
// that lands at position i of the result.
func permuteBits(x uint32, pv *[32]uint8) uint32 {
	var r uint32
	for i, b := range pv {
		r |= (x >> b & 1) << i
	}
	return r
}

var flipTables = [5][32]uint8{
	{1, 0, 3, 2, 5, 4, 7, 6, 9, 8, 11, 10, 13, 12, 15, 14, 17, 16, 19, 18, 21, 20, 23, 22, 25, 24, 27, 26, 29, 28, 31, 30},
	{2, 3, 0, 1, 6, 7, 4, 5, 10, 11, 8, 9, 14, 15, 12, 13, 18, 19, 16, 17, 22, 23, 20, 21, 26, 27, 24, 25, 30, 31, 28, 29},
	{4, 5, 6, 7, 0, 1, 2, 3, 12, 13, 14, 15, 8, 9, 10, 11, 20, 21, 22, 23, 16, 17, 18, 19, 28, 29, 30, 31, 24, 25, 26, 27},
	{8, 9, 10, 11, 12, 13, 14, 15, 0, 1, 2, 3, 4, 5, 6, 7, 24, 25, 26, 27, 28, 29, 30, 31, 16, 17, 18, 19, 20, 21, 22, 23},
	{16, 17, 18, 19, 20, 21, 22, 23, 24, 25, 26, 27, 28, 29, 30, 31, 0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15},
}

// FunFlipInputs returns the truth table you would get by inverting a
// subset of the inputs of a Fun nid. Setting bit i of bits inverts
// input i.
func (n NID) FunFlipInputs(bits uint8) NID {
	res := n.Table()
	for i := 4; i >= 0; i-- {
		if bits&(1<<i) != 0 {
			res = permuteBits(res, &flipTables[i])
		}
	}
	return Fun(n.Arity(), res)
}
