// Package strtab implements the append-only, NUL-delimited string pool
// that backs a BTF string section. It does not deduplicate by content:
// two Add calls with the same text get two distinct offsets, matching
// the source translator this core reimplements. Deduplication would be
// a strictly smaller-output optimization (see DESIGN.md) but is not
// enabled here, to keep output byte-for-byte comparable.
package strtab

import (
	"bytes"
	"fmt"
	"io"
)

// Table is an append-only string pool. The zero value is ready to use.
type Table struct {
	buf bytes.Buffer
}

// Add appends s followed by an implicit NUL and returns the byte offset
// at which s starts. Offsets are monotonically increasing and, once
// returned, never change.
func (t *Table) Add(s string) uint32 {
	off := uint32(t.buf.Len())
	t.buf.WriteString(s)
	t.buf.WriteByte(0)
	return off
}

// Get returns the NUL-terminated string starting at off. The result is
// only meaningful if off falls on a recorded string's start: an offset
// inside a string returns that string's tail, and an offset at or past
// the end of the table panics.
func (t *Table) Get(off uint32) string {
	data := t.buf.Bytes()
	if int(off) > len(data) {
		panic(fmt.Sprintf("strtab: offset %d out of range", off))
	}
	end := bytes.IndexByte(data[off:], 0)
	if end < 0 {
		panic(fmt.Sprintf("strtab: offset %d is not NUL-terminated", off))
	}
	return string(data[off : off+uint32(end)])
}

// Size returns the total emitted byte length, including every NUL
// terminator written so far.
func (t *Table) Size() uint32 {
	return uint32(t.buf.Len())
}

// WriteTo writes every stored string, NUL-terminated, in insertion
// order. It implements io.WriterTo.
func (t *Table) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(t.buf.Bytes())
	return int64(n), err
}
