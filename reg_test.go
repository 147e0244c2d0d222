// Copyright (c) 2023 the bex authors
//
// MIT License

package bex

import (
	"reflect"
	"testing"
)

//********************************************************************************************

func TestRegGetPut(t *testing.T) {
	r := NewReg(10)
	if r.Len() != 10 {
		t.Errorf("Len: expected 10, actual %d", r.Len())
	}
	r.Put(0, true)
	r.Put(9, true)
	r.Put(4, true)
	r.Put(4, false)
	for i := 0; i < 10; i++ {
		expected := i == 0 || i == 9
		if r.Get(i) != expected {
			t.Errorf("Get(%d): expected %v, actual %v", i, expected, r.Get(i))
		}
	}
	if r.AsUint64() != 1<<9|1 {
		t.Errorf("AsUint64: expected %x, actual %x", 1<<9|1, r.AsUint64())
	}
}

func TestRegWide(t *testing.T) {
	r := NewReg(66)
	r.Put(65, true)
	r.Put(63, true)
	r.Put(1, true)
	if !reflect.DeepEqual(r.HiBits(), []int{1, 63, 65}) {
		t.Errorf("HiBits: expected [1 63 65], actual %v", r.HiBits())
	}
	r.Put(63, false)
	if !r.Get(65) || r.Get(63) {
		t.Errorf("bit updates must not cross word boundaries")
	}
}

func TestRegFromBits(t *testing.T) {
	r := RegFromBits(8, []int{1, 3, 5})
	if r.AsUint64() != 0b101010 {
		t.Errorf("RegFromBits: expected %b, actual %b", 0b101010, r.AsUint64())
	}
	if !reflect.DeepEqual(r.HiBits(), []int{1, 3, 5}) {
		t.Errorf("HiBits: expected [1 3 5], actual %v", r.HiBits())
	}
}

func TestRegVarAccess(t *testing.T) {
	r := NewReg(4)
	r.VarPut(Var(2), true)
	if !r.VarGet(Var(2)) || r.VarGet(Var(1)) {
		t.Errorf("VarGet must track VarPut by variable index")
	}
}

//********************************************************************************************

func TestRipple(t *testing.T) {
	var rippleTests = []struct {
		bits       []int
		start, end int
		expected   int
		after      uint64
	}{
		{[]int{}, 0, 7, 0, 0b1},
		{[]int{0}, 0, 7, 1, 0b10},
		{[]int{0, 1, 2}, 0, 7, 3, 0b1000},
		{[]int{0, 1, 2}, 0, 2, -1, 0b000},
		{[]int{3}, 3, 3, -1, 0b0000},
		{[]int{3, 2}, 3, 0, 1, 0b0010},
		{[]int{1, 2, 3}, 2, 5, 4, 0b10010},
	}
	for _, tt := range rippleTests {
		r := RegFromBits(8, tt.bits)
		actual := r.Ripple(tt.start, tt.end)
		if actual != tt.expected {
			t.Errorf("Ripple(%v, %d, %d): expected %d, actual %d", tt.bits, tt.start, tt.end, tt.expected, actual)
		}
		if r.AsUint64() != tt.after {
			t.Errorf("Ripple(%v, %d, %d): expected state %b, actual %b", tt.bits, tt.start, tt.end, tt.after, r.AsUint64())
		}
	}
}

func TestIncrement(t *testing.T) {
	r := NewReg(3)
	var seen []uint64
	for {
		seen = append(seen, r.AsUint64())
		if r.Increment() < 0 {
			break
		}
	}
	if !reflect.DeepEqual(seen, []uint64{0, 1, 2, 3, 4, 5, 6, 7}) {
		t.Errorf("Increment must count through every value, actual %v", seen)
	}
	if r.AsUint64() != 0 {
		t.Errorf("overflow must wrap to zero, actual %b", r.AsUint64())
	}
}

//********************************************************************************************

func TestRegClone(t *testing.T) {
	r := RegFromBits(8, []int{2, 4})
	c := r.Clone()
	c.Put(0, true)
	if r.Get(0) {
		t.Errorf("Clone must not share storage")
	}
	if !c.Get(2) || !c.Get(4) {
		t.Errorf("Clone must copy the bits")
	}
}

func TestRegPermuteBits(t *testing.T) {
	r := RegFromBits(4, []int{0, 3})
	p := r.PermuteBits([]int{3, 2, 1, 0})
	if p.AsUint64() != 0b1001 {
		// reversal of 1001 is 1001
		t.Errorf("PermuteBits reverse: expected 1001, actual %04b", p.AsUint64())
	}
	q := RegFromBits(4, []int{1}).PermuteBits([]int{1, 0, 2, 3})
	if q.AsUint64() != 0b0001 {
		t.Errorf("PermuteBits swap: expected 0001, actual %04b", q.AsUint64())
	}
}

func TestAsUint64Rev(t *testing.T) {
	r := RegFromBits(4, []int{0})
	if r.AsUint64Rev() != 0b1000 {
		t.Errorf("AsUint64Rev: expected 1000, actual %04b", r.AsUint64Rev())
	}
	s := RegFromBits(3, []int{0, 2})
	if s.AsUint64Rev() != 0b101 {
		t.Errorf("AsUint64Rev: expected 101, actual %03b", s.AsUint64Rev())
	}
}

func TestRegString(t *testing.T) {
	r := RegFromBits(4, []int{0, 2})
	if r.String() != "reg[o1o1=05]" {
		t.Errorf("String: expected %q, actual %q", "reg[o1o1=05]", r.String())
	}
}
