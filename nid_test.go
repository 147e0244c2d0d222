// Copyright (c) 2023 the bex authors
//
// MIT License

package bex

import (
	"errors"
	"testing"
)

//********************************************************************************************

func TestNidConstants(t *testing.T) {
	var nidTests = []struct {
		n        NID
		expected uint64
	}{
		{O, 0x2000000000000000},
		{I, 0xA000000000000000},
		{NewVir(0), 0x4000000000000000},
		{NewVir(1), 0x4000000100000000},
		{NewVar(0), 0x5000000000000000},
		{FromVidIdx(Vir(0), 0), 0x0},
		{FromVidIdx(Vir(1), 0), 0x0000000100000000},
	}
	for _, tt := range nidTests {
		if uint64(tt.n) != tt.expected {
			t.Errorf("%s: expected %016x, actual %016x", tt.n, tt.expected, uint64(tt.n))
		}
	}
}

//********************************************************************************************

func TestNidPredicates(t *testing.T) {
	var predTests = []struct {
		n                                  NID
		isConst, isVar, isVir, isInv, lit bool
	}{
		{O, true, false, false, false, true},
		{I, true, false, false, true, true},
		{NewVar(3), false, true, false, false, true},
		{NewVar(3).Not(), false, true, false, true, true},
		{NewVir(7), false, false, true, false, true},
		{FromVidIdx(Var(2), 5), false, false, false, false, false},
		{Fun(3, 0x16), false, false, false, false, false},
	}
	for _, tt := range predTests {
		if tt.n.IsConst() != tt.isConst {
			t.Errorf("%s.IsConst(): expected %v, actual %v", tt.n, tt.isConst, tt.n.IsConst())
		}
		if tt.n.IsVar() != tt.isVar {
			t.Errorf("%s.IsVar(): expected %v, actual %v", tt.n, tt.isVar, tt.n.IsVar())
		}
		if tt.n.IsVir() != tt.isVir {
			t.Errorf("%s.IsVir(): expected %v, actual %v", tt.n, tt.isVir, tt.n.IsVir())
		}
		if tt.n.IsInv() != tt.isInv {
			t.Errorf("%s.IsInv(): expected %v, actual %v", tt.n, tt.isInv, tt.n.IsInv())
		}
		if tt.n.IsLit() != tt.lit {
			t.Errorf("%s.IsLit(): expected %v, actual %v", tt.n, tt.lit, tt.n.IsLit())
		}
	}
}

func TestNidNot(t *testing.T) {
	for _, n := range []NID{O, I, NewVar(0), NewVir(4), FromVidIdx(Var(1), 9)} {
		if n.Not().Not() != n {
			t.Errorf("%s.Not().Not(): expected %s, actual %s", n, n, n.Not().Not())
		}
		if n.Not() == n {
			t.Errorf("%s.Not() must differ from %s", n, n)
		}
		if n.Not().Raw() != n.Raw() {
			t.Errorf("%s: complement must only touch the inversion flag", n)
		}
	}
	if O.Not() != I {
		t.Errorf("O.Not(): expected I, actual %s", O.Not())
	}
}

func TestNidVidIdx(t *testing.T) {
	n := FromVidIdx(Var(5), 0xAB)
	if n.Vid() != Var(5) {
		t.Errorf("Vid: expected %s, actual %s", Var(5), n.Vid())
	}
	if n.Idx() != 0xAB {
		t.Errorf("Idx: expected %x, actual %x", 0xAB, n.Idx())
	}
	if n.Not().Vid() != Var(5) {
		t.Errorf("Vid must ignore the inversion flag")
	}
	if O.Vid() != TopVid() || I.Vid() != TopVid() {
		t.Errorf("constants must branch on %s", TopVid())
	}
}

//********************************************************************************************

func TestMightDependOn(t *testing.T) {
	var depTests = []struct {
		n        NID
		v        VID
		expected bool
	}{
		{O, Var(0), false},
		{I, Var(3), false},
		{NewVar(2), Var(2), true},
		{NewVar(2), Var(1), false},
		{NewVar(2), Var(3), false},
		{FromVidIdx(Var(3), 0), Var(3), true},
		{FromVidIdx(Var(3), 0), Var(1), true},
		{FromVidIdx(Var(3), 0), Var(4), false},
		{FromVidIdx(Vir(1), 0), Var(0), true},
		{FromVidIdx(Var(1), 0), Vir(0), false},
	}
	for _, tt := range depTests {
		actual := tt.n.MightDependOn(tt.v)
		if actual != tt.expected {
			t.Errorf("%s.MightDependOn(%s): expected %v, actual %v", tt.n, tt.v, tt.expected, actual)
		}
	}
}

//********************************************************************************************

func TestFun(t *testing.T) {
	f := Fun(2, 0x6)
	if f.Arity() != 2 {
		t.Errorf("Arity: expected 2, actual %d", f.Arity())
	}
	if f.Table() != 0x6 {
		t.Errorf("Table: expected 6, actual %x", f.Table())
	}
	// inverting both inputs of xor leaves it unchanged
	if g := f.FunFlipInputs(0b11); g.Table() != 0x6 {
		t.Errorf("FunFlipInputs(11) on xor: expected 6, actual %x", g.Table())
	}
	// inverting input 0 of and(2) moves its true row from 3 to 2: 1000 -> 0100
	a := Fun(2, 0x8)
	if g := a.FunFlipInputs(0b01); g.Table() != 0x4 {
		t.Errorf("FunFlipInputs(01) on and: expected 4, actual %x", g.Table())
	}
}

//********************************************************************************************

func TestNotation(t *testing.T) {
	var strTests = []struct {
		n        NID
		expected string
	}{
		{O, "O"},
		{I, "I"},
		{NewVar(1), "x1"},
		{NewVar(1).Not(), "!x1"},
		{NewVar(10), "xA"},
		{NewVir(2), "v2"},
		{FromVidIdx(Var(1), 3), "x1.3"},
		{FromVidIdx(Vir(0), 12), "v0.C"},
		{Ixn(255), "@.FF"},
		{Fun(2, 6), "t0110"},
		{Fun(2, 6).Not(), "!t0110"},
		{Fun(1, 2), "t10"},
	}
	for _, tt := range strTests {
		if actual := tt.n.String(); actual != tt.expected {
			t.Errorf("String(%016x): expected %q, actual %q", uint64(tt.n), tt.expected, actual)
		}
		back, err := Parse(tt.expected)
		if err != nil {
			t.Errorf("Parse(%q): unexpected error %v", tt.expected, err)
		} else if back != tt.n {
			t.Errorf("Parse(%q): expected %016x, actual %016x", tt.expected, uint64(tt.n), uint64(back))
		}
	}
}

func TestParseExtras(t *testing.T) {
	var parseTests = []struct {
		s        string
		expected NID
	}{
		{"!!x1", NewVar(1)},
		{"@x1.3", FromVidIdx(Var(1), 3)},
		{"@v0.C", FromVidIdx(Vir(0), 12)},
		{"f6", Fun(2, 6)},
		{"f3.16", Fun(3, 0x16)},
		{"!O", I},
	}
	for _, tt := range parseTests {
		actual, err := Parse(tt.s)
		if err != nil {
			t.Errorf("Parse(%q): unexpected error %v", tt.s, err)
		} else if actual != tt.expected {
			t.Errorf("Parse(%q): expected %s, actual %s", tt.s, tt.expected, actual)
		}
	}
}

func TestParseErrors(t *testing.T) {
	for _, s := range []string{"", "!", "x", "q3", "x1.", "xZ", "t011", "f0.1", "f6.0", "@", "@.", "OI"} {
		if _, err := Parse(s); err == nil {
			t.Errorf("Parse(%q): expected an error", s)
		} else if !errors.Is(err, ErrMalformedInput) {
			t.Errorf("Parse(%q): expected ErrMalformedInput, actual %v", s, err)
		}
	}
}
