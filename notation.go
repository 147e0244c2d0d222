// Copyright (c) 2023 the bex authors
//
// MIT License

package bex

import (
	"fmt"
	"strconv"
	"strings"
)

// Textual notation for NIDs. Hex digits are always uppercase. The forms:
//
//	O, I         the constants
//	xN           real variable N; vN virtual variable N
//	xV.IDX       entry IDX in the unique-table row of real variable V
//	vV.IDX       same for a virtual variable
//	@.IDX        an indexed node tied to no variable
//	t<bits>      an embedded truth table, as 2^arity binary digits
//	!<form>      complement of any of the above
//
// Parse additionally accepts @xV.IDX / @vV.IDX for the indexed forms,
// fX (one hex digit, an arity-2 table), and fN.M (N the arity in
// decimal, M the table in hex). Parse(n.String()) == n for every valid
// NID.

func (n NID) String() string {
	if n.IsConst() {
		if n.IsInv() {
			return "I"
		}
		return "O"
	}
	var sb strings.Builder
	if n.IsInv() {
		sb.WriteByte('!')
		n = n.Raw()
	}
	switch {
	case n.IsFun():
		ar := n.Arity()
		width := 1 << ar
		tbl := uint64(n.Table())
		if ar < 5 {
			tbl &= 1<<width - 1
		}
		sb.WriteByte('t')
		bits := strconv.FormatUint(tbl, 2)
		sb.WriteString(strings.Repeat("0", width-len(bits)))
		sb.WriteString(bits)
	case n.IsVar():
		fmt.Fprintf(&sb, "x%X", n.Vid().Ix())
	case n.IsVir():
		fmt.Fprintf(&sb, "v%X", n.Vid().Ix())
	case n.IsIxn():
		fmt.Fprintf(&sb, "@.%X", n.Idx())
	case n.Vid().IsVar():
		fmt.Fprintf(&sb, "x%X.%X", n.Vid().Ix(), n.Idx())
	default:
		fmt.Fprintf(&sb, "v%X.%X", n.Vid().Ix(), n.Idx())
	}
	return sb.String()
}

func badNid(s string) error {
	return fmt.Errorf("%w: bad nid %q", ErrMalformedInput, s)
}

// Parse converts the textual notation back into a NID.
func Parse(s string) (NID, error) {
	t := s
	inv := false
	for strings.HasPrefix(t, "!") {
		inv = !inv
		t = t[1:]
	}
	n, err := parseRaw(t, s)
	if err != nil {
		return O, err
	}
	if inv {
		n = n.Not()
	}
	return n, nil
}

func parseRaw(t, orig string) (NID, error) {
	if t == "" {
		return O, badNid(orig)
	}
	switch t[0] {
	case 'O':
		if t == "O" {
			return O, nil
		}
	case 'I':
		if t == "I" {
			return I, nil
		}
	case 't':
		return parseTable(t[1:], orig)
	case 'f':
		return parseFun(t[1:], orig)
	case '@':
		t = t[1:]
		if strings.HasPrefix(t, ".") {
			idx, err := strconv.ParseUint(t[1:], 16, 32)
			if err != nil {
				return O, badNid(orig)
			}
			return Ixn(uint32(idx)), nil
		}
		if t == "" || (t[0] != 'x' && t[0] != 'v') || !strings.Contains(t, ".") {
			return O, badNid(orig)
		}
		return parseRaw(t, orig)
	case 'x', 'v':
		real := t[0] == 'x'
		rest := t[1:]
		if vs, is, ok := strings.Cut(rest, "."); ok {
			v, err1 := strconv.ParseUint(vs, 16, 32)
			idx, err2 := strconv.ParseUint(is, 16, 32)
			if err1 != nil || err2 != nil || v > _MAXIX {
				return O, badNid(orig)
			}
			if real {
				return FromVidIdx(Var(uint32(v)), uint32(idx)), nil
			}
			return FromVidIdx(Vir(uint32(v)), uint32(idx)), nil
		}
		v, err := strconv.ParseUint(rest, 16, 32)
		if err != nil || v > _MAXIX {
			return O, badNid(orig)
		}
		if real {
			return NewVar(uint32(v)), nil
		}
		return NewVir(uint32(v)), nil
	}
	return O, badNid(orig)
}

func parseTable(bits, orig string) (NID, error) {
	var ar uint8
	switch len(bits) {
	case 2:
		ar = 1
	case 4:
		ar = 2
	case 8:
		ar = 3
	case 16:
		ar = 4
	case 32:
		ar = 5
	default:
		return O, badNid(orig)
	}
	tbl, err := strconv.ParseUint(bits, 2, 32)
	if err != nil {
		return O, badNid(orig)
	}
	return Fun(ar, uint32(tbl)), nil
}

func parseFun(t, orig string) (NID, error) {
	if len(t) == 1 {
		tbl, err := strconv.ParseUint(t, 16, 32)
		if err != nil {
			return O, badNid(orig)
		}
		return Fun(2, uint32(tbl)), nil
	}
	as, ts, ok := strings.Cut(t, ".")
	if !ok {
		return O, badNid(orig)
	}
	ar, err1 := strconv.ParseUint(as, 10, 8)
	tbl, err2 := strconv.ParseUint(ts, 16, 32)
	if err1 != nil || err2 != nil || ar < 1 || ar > 5 {
		return O, badNid(orig)
	}
	if ar < 5 && tbl >= 1<<(1<<ar) {
		return O, badNid(orig)
	}
	return Fun(uint8(ar), uint32(tbl)), nil
}
