// Copyright (c) 2023 the bex authors
//
// MIT License

/*
Package bex implements Reduced Ordered Binary Decision Diagrams with
complement edges, evaluated by a pool of worker goroutines.

Basics

Boolean functions are named by 64-bit node identifiers (type NID). A
NID packs a variable, an index into per-variable node storage, and a
complement flag, so negation is a bit flip and never allocates. The
two constant functions are O (false) and I (true); NewVar(i) names the
i'th real input variable and NewVir(i) the i'th virtual variable, a
placeholder for a subexpression that has not been solved yet.

A Base owns the node storage and the worker pool. All operations are
expressed through the if-then-else operator Ite(f, g, h), which the
workers evaluate concurrently: each normalized query is claimed by
exactly one worker, decomposed on its topmost variable, and its
sub-queries delegated back to the pool. And, Or, Xor and the other
connectives are thin wrappers over Ite. Satisfying assignments can be
counted (Satcount), enumerated (Solutions), or probed (Eval).

Expressions and solving

An AST store holds unsolved expressions as a graph of And/Xor nodes
named by virtual variables. Solve converts such an expression into a
BDD by substituting one virtual variable per step, cheapest
subexpressions last, which keeps intermediate BDDs small.

Use of build tags

Compiling with the build tag `debug` enables logging of top-level
queries and a dump of the node table in PrintStats.
*/
package bex
