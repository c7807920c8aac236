// Package hostio implements the byte-sink side of the external
// interfaces spec.md §6 requires a host to supply: the ability to
// switch to a named output section and stream bytes to it. The core
// translator in internal/btf only depends on the btf.SectionSink
// interface (Section(name string) io.Writer); this package supplies
// concrete implementations so the translator is runnable standalone,
// grounded on pkg/pdb/msf/stream.go's named, offset-addressed stream
// abstraction turned from a reader into a writer.
package hostio

import (
	"bytes"
	"io"
)

// MemorySink collects every section written to it in memory, keyed by
// section name. It is the sink used by every test in internal/btf, and
// ELFSink builds on it for the CLI's -out mode. MemorySink satisfies
// btf.SectionSink structurally.
type MemorySink struct {
	sections map[string]*bytes.Buffer
}

// NewMemorySink creates an empty sink.
func NewMemorySink() *MemorySink {
	return &MemorySink{sections: make(map[string]*bytes.Buffer)}
}

// Section returns the writer for name, creating it on first use.
func (s *MemorySink) Section(name string) io.Writer {
	buf, ok := s.sections[name]
	if !ok {
		buf = &bytes.Buffer{}
		s.sections[name] = buf
	}
	return buf
}

// Bytes returns the accumulated bytes for the named section, or nil if
// nothing was ever written to it.
func (s *MemorySink) Bytes(name string) []byte {
	buf, ok := s.sections[name]
	if !ok {
		return nil
	}
	return buf.Bytes()
}
