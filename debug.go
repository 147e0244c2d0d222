// Copyright (c) 2023 the bex authors
//
// MIT License

//go:build debug

package bex

import (
	"log"
	"os"
)

const _DEBUG bool = true
const _LOGLEVEL int = 1

func init() {
	log.SetOutput(os.Stdout)
}

// logTable prints every stored node, row by row.
func (b *Base) logTable() {
	if b.err != nil {
		log.Printf("ERROR: %s\n", b.err)
	}
	for _, row := range b.swarm.state.hilos.snapshot() {
		for i, hl := range row.Vhls {
			log.Printf("%s.%-3X ( %s , %s )\n", row.V, i, hl.Hi, hl.Lo)
		}
	}
}
