// Copyright (c) 2023 the bex authors
//
// MIT License

package bex

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
)

// Save stream layout: a magic word and a format version, then the
// unique-table rows deepest variable first. Each row is a record count
// followed by (v, hi, lo) triples with nids in their 64-bit form.
// Writing children rows before their parents lets Load re-insert in
// stream order with every referenced index already assigned.
const (
	saveMagic   uint32 = 0x62657862 // "bexb"
	saveVersion uint32 = 1
)

// leWriter wraps a writer with a sticky error so a save is a straight
// run of puts with one check at the end.
type leWriter struct {
	w   io.Writer
	err error
}

func (e *leWriter) put(v interface{}) {
	if e.err == nil {
		e.err = binary.Write(e.w, binary.LittleEndian, v)
	}
}

type leReader struct {
	r   io.Reader
	err error
}

func (d *leReader) get(v interface{}) {
	if d.err == nil {
		d.err = binary.Read(d.r, binary.LittleEndian, v)
	}
}

// Save writes every stored node to w.
func (b *Base) Save(w io.Writer) error {
	bw := bufio.NewWriter(w)
	e := &leWriter{w: bw}
	e.put(saveMagic)
	e.put(saveVersion)
	rows := b.swarm.state.hilos.snapshot()
	e.put(uint32(len(rows)))
	for _, row := range rows {
		e.put(uint32(len(row.Vhls)))
		for _, hl := range row.Vhls {
			e.put(uint32(row.V))
			e.put(uint64(hl.Hi))
			e.put(uint64(hl.Lo))
		}
	}
	if e.err != nil {
		return e.err
	}
	return bw.Flush()
}

// Load reads a save stream into b, which must be freshly created.
// Records are re-inserted in stream order, so every node keeps the
// index it had when the stream was written.
func (b *Base) Load(r io.Reader) error {
	d := &leReader{r: bufio.NewReader(r)}
	var magic, version, nrows uint32
	d.get(&magic)
	d.get(&version)
	if d.err != nil {
		return d.err
	}
	if magic != saveMagic {
		return errMalformedf("bad magic word %08x", magic)
	}
	if version != saveVersion {
		return errMalformedf("unsupported stream version %d", version)
	}
	d.get(&nrows)
	for i := uint32(0); i < nrows; i++ {
		var count uint32
		d.get(&count)
		for j := uint32(0); j < count; j++ {
			var v uint32
			var hi, lo uint64
			d.get(&v)
			d.get(&hi)
			d.get(&lo)
			if d.err != nil {
				return d.err
			}
			vid := VID(v)
			if !vid.IsVar() && !vid.IsVir() {
				return errMalformedf("bad variable %08x in stream", v)
			}
			hl := HiLo{Hi: NID(hi), Lo: NID(lo)}
			if err := checkVhl(vid, hl); err != nil {
				return err
			}
			b.swarm.state.hilos.insert(vid, hl)
		}
	}
	return d.err
}

// SaveFile writes the Base to the named file. "-" means stdout.
func (b *Base) SaveFile(filename string) error {
	if filename == "-" {
		return b.Save(os.Stdout)
	}
	out, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer out.Close()
	return b.Save(out)
}

// LoadFile reads a save stream from the named file into b.
func (b *Base) LoadFile(filename string) error {
	in, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer in.Close()
	return b.Load(in)
}

// Stats returns information about the Base.
func (b *Base) Stats() string {
	rows := b.swarm.state.hilos.snapshot()
	nodes := 0
	for _, row := range rows {
		nodes += len(row.Vhls)
	}
	res := fmt.Sprintf("Nodes:      %d\n", nodes)
	res += fmt.Sprintf("Rows:       %d\n", len(rows))
	res += fmt.Sprintf("Workers:    %d\n", b.swarm.nw)
	res += fmt.Sprintf("Tags:       %d", len(b.tags))
	return res
}

// PrintStats outputs a textual representation of the Base statistics.
func (b *Base) PrintStats() {
	fmt.Println("==============")
	fmt.Println(b.Stats())
	if _DEBUG {
		fmt.Println("==============")
		b.logTable()
	}
	fmt.Println("==============")
}

// Print writes a one-line description of every node reachable from n,
// parents before children.
func (b *Base) Print(w io.Writer, n NID) {
	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)
	b.walkDn(n, func(x NID) {
		if x.IsLit() {
			fmt.Fprintf(tw, "%s\n", x)
			return
		}
		hi, lo := b.Tup(x)
		fmt.Fprintf(tw, "%s\t%s\t? %s\t: %s\n", x, x.Vid(), hi, lo)
	})
	tw.Flush()
}

// PrintSet prints the nodes reachable from n on standard output.
func (b *Base) PrintSet(n NID) {
	b.Print(os.Stdout, n)
}
