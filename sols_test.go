// Copyright (c) 2023 the bex authors
//
// MIT License

package bex

import (
	"reflect"
	"testing"

	mapset "github.com/deckarep/golang-set/v2"
)

func solutionValues(b *Base, n NID, nvars int) []uint64 {
	var res []uint64
	it := b.Solutions(n, nvars)
	for {
		reg, ok := it.Next()
		if !ok {
			return res
		}
		res = append(res, reg.AsUint64())
	}
}

//********************************************************************************************

func TestSolutions(t *testing.T) {
	b := New()
	defer b.Close()
	x0, x1, x2 := NewVar(0), NewVar(1), NewVar(2)
	n := b.Or(b.And(x0, x1), x2)
	actual := solutionValues(b, n, 3)
	expected := []uint64{3, 4, 5, 6, 7}
	if !reflect.DeepEqual(actual, expected) {
		t.Errorf("Solutions(%s, 3): expected %v, actual %v", n, expected, actual)
	}
}

func TestSolutionsEdges(t *testing.T) {
	b := New()
	defer b.Close()
	x0 := NewVar(0)
	x1 := NewVar(1)
	var solTests = []struct {
		n        NID
		nvars    int
		expected []uint64
	}{
		{O, 3, nil},
		{I, 2, []uint64{0, 1, 2, 3}},
		{x0, 2, []uint64{1, 3}},
		{x1, 2, []uint64{2, 3}},
		{x0.Not(), 2, []uint64{0, 2}},
		{b.And(x0, x1), 2, []uint64{3}},
		{b.Xor(x0, x1), 2, []uint64{1, 2}},
	}
	for _, tt := range solTests {
		actual := solutionValues(b, tt.n, tt.nvars)
		if !reflect.DeepEqual(actual, tt.expected) {
			t.Errorf("Solutions(%s, %d): expected %v, actual %v", tt.n, tt.nvars, tt.expected, actual)
		}
	}
}

func TestSolutionsMatchSatcount(t *testing.T) {
	b := New()
	defer b.Close()
	x0, x1, x2, x3 := NewVar(0), NewVar(1), NewVar(2), NewVar(3)
	funcs := []NID{
		b.Or(b.And(x0, x1), b.And(x2, x3)),
		b.Xor(b.Or(x0, x2), b.And(x1, x3)),
		b.Ite(x1, b.Xor(x0, x3), x2),
	}
	for _, n := range funcs {
		vals := solutionValues(b, n, 4)
		seen := mapset.NewSet[uint64]()
		for _, v := range vals {
			if !seen.Add(v) {
				t.Errorf("Solutions(%s, 4): duplicate assignment %d", n, v)
			}
		}
		if int64(seen.Cardinality()) != b.Satcount(n, 4).Int64() {
			t.Errorf("Solutions(%s, 4): expected %s assignments, actual %d", n, b.Satcount(n, 4), seen.Cardinality())
		}
		for _, v := range vals {
			reg := NewReg(4)
			for k := 0; k < 4; k++ {
				reg.Put(k, v&(1<<k) != 0)
			}
			if ok, err := b.Eval(n, reg); err != nil || !ok {
				t.Errorf("Solutions(%s, 4): %d is not a model (%v)", n, v, err)
			}
		}
	}
}

func TestSolutionsWidens(t *testing.T) {
	b := New()
	defer b.Close()
	n := NewVar(2)
	// asking for one variable still covers the root at x2
	it := b.Solutions(n, 1)
	reg, ok := it.Next()
	if !ok {
		t.Errorf("Solutions(%s, 1): expected at least one assignment", n)
	}
	if reg.Len() < 3 {
		t.Errorf("Solutions(%s, 1): expected a widened register, actual %d bits", n, reg.Len())
	}
	if !reg.Get(2) {
		t.Errorf("Solutions(%s, 1): expected x2 high", n)
	}
}
