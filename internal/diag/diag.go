// Package diag carries the translator's best-effort diagnostic channel:
// warnings about unsupported DWARF constructs that get skipped rather
// than aborting the whole translation.
package diag

import (
	"fmt"
	"io"
)

// Sink receives a formatted diagnostic line. It must not block and must
// not panic; the translator calls it inline during registration.
type Sink func(format string, args ...any)

// Discard is the default sink: it drops every diagnostic. A host that
// cares about skipped-construct warnings must supply its own sink.
func Discard(format string, args ...any) {}

// ToWriter returns a Sink that formats each diagnostic with a fixed
// prefix and writes it to w, one line per call.
func ToWriter(w io.Writer) Sink {
	return func(format string, args ...any) {
		fmt.Fprintf(w, "dwarf2btf: "+format+"\n", args...)
	}
}
