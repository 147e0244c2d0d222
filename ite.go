// Copyright (c) 2023 the bex authors
//
// MIT License

package bex

// ite is an if-then-else triple: "if f then g else h". Every internal
// node is one of these. Normalized triples double as keys in the
// computed cache and the work registry.
type ite struct {
	f, g, h NID
}

// norm is the result of normalizing a triple. Exactly one of three
// shapes: the triple collapsed to a nid, a normalized triple, or a
// normalized triple whose result must be complemented.
type norm struct {
	nid  NID
	key  ite
	inv  bool
	done bool
}

func normNid(n NID) norm { return norm{nid: n, done: true} }

func normKey(k ite) norm { return norm{key: k} }

func (n norm) not() norm {
	if n.done {
		n.nid = n.nid.Not()
	} else {
		n.inv = !n.inv
	}
	return n
}

// normIte rewrites (f,g,h) into the canonical form used for cache
// lookup and node construction. The rules follow Brace, Rudell and
// Bryant, "Efficient Implementation of a BDD Package" (DAC 1990):
// constant and equality collapses first, then operand reordering so
// the first two slots carry no inversion flag and the topmost variable
// lands in the condition slot.
func normIte(f, g, h NID) norm {
	for {
		if f.IsConst() {
			if f == I {
				return normNid(g)
			}
			return normNid(h)
		}
		if g == h {
			return normNid(g)
		}
		if g == f {
			if h.IsConst() {
				if h == I {
					return normNid(I)
				}
				return normNid(f)
			}
			g = I
			continue
		}
		if g.IsConst() && h.IsConst() {
			// both const and g != h
			if g == I {
				return normNid(f)
			}
			return normNid(f.Not())
		}
		nf := f.Not()
		switch {
		case g == nf:
			g = O
		case h == nf:
			h = I
		case h == f:
			h = O
		default:
			fv, fi := f.Vid(), f.Idx()
			// does x belong in the condition slot instead of f?
			above := func(x NID) bool {
				xv := x.Vid()
				return xv.IsAbove(fv) || (xv == fv && x.Idx() < fi)
			}
			ng := g.Not()
			switch {
			case g.IsConst() && above(h):
				if g == I {
					f, h = h, f
				} else {
					f, g, h = h.Not(), O, nf
				}
			case h.IsConst() && above(g):
				if h == I {
					f, g, h = g.Not(), nf, I
				} else {
					f, g, h = g, f, O
				}
			case h == ng && above(g):
				f, g, h = g, f, nf
			case f.IsInv():
				f, g, h = nf, h, g
			case g.IsInv():
				return normIte(f, ng, h.Not()).not()
			default:
				return normKey(ite{f, g, h})
			}
		}
	}
}
