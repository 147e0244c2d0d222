// Copyright (c) 2023 the bex authors
//
// MIT License

package bex

import "fmt"

// VID identifies a decision variable. There are four kinds: real input
// variables (Var), virtual variables standing for unsolved subexpressions
// (Vir), the constant level T on which O and I branch, and NoV for nodes
// not tied to any variable.
//
// A VID is packed into 30 bits so that it can be stored directly in the
// middle section of a NID: bit 29 marks T, bit 28 marks a real variable,
// bit 26 marks NoV, and the low 26 bits hold the variable index.
type VID uint32

const (
	vidNoV VID = 1 << 26
	vidRV  VID = 1 << 28
	vidTop VID = 1 << 29

	// _MAXIX is the largest variable index that fits in the packed form.
	_MAXIX = 1<<26 - 1
)

// TopVid is the constant level. It compares below every variable.
func TopVid() VID { return vidTop }

// NoVid is the placeholder for nodes not tied to a variable.
func NoVid() VID { return vidNoV }

// Var returns the VID for real input variable i.
func Var(i uint32) VID { return vidRV | VID(i) }

// Vir returns the VID for virtual variable i.
func Vir(i uint32) VID { return VID(i) }

// IsTop reports whether v is the constant level.
func (v VID) IsTop() bool { return v == vidTop }

// IsNoV reports whether v is the no-variable placeholder.
func (v VID) IsNoV() bool { return v == vidNoV }

// IsVar reports whether v is a real input variable.
func (v VID) IsVar() bool { return v&vidRV != 0 }

// IsVir reports whether v is a virtual variable.
func (v VID) IsVir() bool { return v&(vidRV|vidTop) == 0 && v != vidNoV }

// Ix returns the index of a Var or Vir. It panics on T and NoV.
func (v VID) Ix() uint32 {
	if v.IsTop() || v.IsNoV() {
		panic(fmt.Sprintf("no index for %s", v))
	}
	return uint32(v &^ vidRV)
}

// ShiftUp returns the variable one level above v, of the same kind.
func (v VID) ShiftUp() VID {
	if v.IsTop() || v.IsNoV() {
		panic(fmt.Sprintf("cannot shift %s", v))
	}
	return v + 1
}

// Bitmask returns a single-bit mask for variable indices below 64, and 0
// otherwise.
func (v VID) Bitmask() uint64 {
	if v.IsTop() || v.IsNoV() {
		return 0
	}
	if ix := v.Ix(); ix < 64 {
		return 1 << ix
	}
	return 0
}

func (v VID) String() string {
	switch {
	case v.IsTop():
		return "T"
	case v.IsNoV():
		return "NoV"
	case v.IsVar():
		return fmt.Sprintf("x%X", v.Ix())
	default:
		return fmt.Sprintf("v%X", v.Ix())
	}
}

// VidOrdering is the result of comparing the depths of two VIDs.
type VidOrdering int

const (
	// Above means the receiver sits strictly closer to the root.
	Above VidOrdering = iota - 1
	// Level means the two VIDs are the same depth.
	Level
	// Below means the receiver sits strictly closer to the leaves.
	Below
)

func cmpIx(x, y uint32) VidOrdering {
	switch {
	case x < y:
		return Below
	case x == y:
		return Level
	default:
		return Above
	}
}

// CmpDepth compares two VIDs by depth. From top to bottom the order is:
// NoV, virtual variables (larger index first), real variables (larger
// index first), T. Smaller indices sit deeper, so a node's top VID
// bounds the width of its truth table.
func (v VID) CmpDepth(o VID) VidOrdering {
	switch {
	case v.IsTop():
		if o.IsTop() {
			return Level
		}
		return Below
	case v.IsNoV():
		if o.IsNoV() {
			return Level
		}
		return Above
	case v.IsVar():
		switch {
		case o.IsNoV() || o.IsVir():
			return Below
		case o.IsVar():
			return cmpIx(v.Ix(), o.Ix())
		default:
			return Above
		}
	default: // Vir
		switch {
		case o.IsNoV():
			return Below
		case o.IsVir():
			return cmpIx(v.Ix(), o.Ix())
		default:
			return Above
		}
	}
}

// IsAbove reports whether v sits strictly above o.
func (v VID) IsAbove(o VID) bool { return v.CmpDepth(o) == Above }

// IsBelow reports whether v sits strictly below o.
func (v VID) IsBelow(o VID) bool { return v.CmpDepth(o) == Below }

// Topmost returns whichever of x and y sits closer to the root.
func Topmost(x, y VID) VID {
	if x.IsAbove(y) {
		return x
	}
	return y
}

func topmost3(x, y, z VID) VID { return Topmost(x, Topmost(y, z)) }
