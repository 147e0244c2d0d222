// Copyright (c) 2023 the bex authors
//
// MIT License

package bex

import (
	"math/big"
	"testing"
)

// nqueens counts the solutions of the N-Queen chess problem. The board
// uses one variable per square, column-major:
//
//	0 4  8 12
//	1 5  9 13
//	2 6 10 14
//	3 7 11 15
//
// One solution for N=4 is queens on 2, 4, 11 and 13:
//
//	. X . .
//	. . . X
//	X . . .
//	. . X .
func nqueens(N int) *big.Int {
	b := New()
	defer b.Close()
	imp := func(x, y NID) NID { return b.Or(x.Not(), y) }
	queen := I
	X := make([][]NID, N)
	for i := range X {
		X[i] = make([]NID, N)
		for j := range X[i] {
			X[i][j] = NewVar(uint32(i*N + j))
		}
	}
	// place a queen in each column
	for i := 0; i < N; i++ {
		e := O
		for j := 0; j < N; j++ {
			e = b.Or(e, X[i][j])
		}
		queen = b.And(queen, e)
	}
	for i := 0; i < N; i++ {
		for j := 0; j < N; j++ {
			guard := I
			// no one in the same column
			for k := 0; k < N; k++ {
				if k != j {
					guard = b.And(guard, imp(X[i][j], X[i][k].Not()))
				}
			}
			// no one in the same row
			for k := 0; k < N; k++ {
				if k != i {
					guard = b.And(guard, imp(X[i][j], X[k][j].Not()))
				}
			}
			// no one in the same down-right diagonal
			for k := 0; k < N; k++ {
				ll := k - i + j
				if ll >= 0 && ll < N && k != i {
					guard = b.And(guard, imp(X[i][j], X[k][ll].Not()))
				}
			}
			// no one in the same up-right diagonal
			for k := 0; k < N; k++ {
				ll := i + j - k
				if ll >= 0 && ll < N && k != i {
					guard = b.And(guard, imp(X[i][j], X[k][ll].Not()))
				}
			}
			queen = b.And(queen, guard)
		}
	}
	return b.Satcount(queen, N*N)
}

func TestNQueens(t *testing.T) {
	var nqueensTests = []struct {
		N        int
		expected int64
	}{
		{4, 2},
		{5, 10},
		{6, 4},
	}
	for _, tt := range nqueensTests {
		actual := nqueens(tt.N)
		if actual.Cmp(big.NewInt(tt.expected)) != 0 {
			t.Errorf("nqueens(%d): expected %d, actual %s", tt.N, tt.expected, actual)
		}
	}
}

func BenchmarkNQueens(b *testing.B) {
	for n := 0; n < b.N; n++ {
		nqueens(8)
	}
}
