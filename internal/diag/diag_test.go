package diag

import (
	"bytes"
	"testing"
)

func TestDiscardDropsEverything(t *testing.T) {
	// Just confirms Discard never panics regardless of arguments.
	Discard("skipping %s at %d", "thing", 3)
}

func TestToWriterFormatsWithPrefixAndArgs(t *testing.T) {
	var buf bytes.Buffer
	sink := ToWriter(&buf)
	sink("skipping %s construct", "unsupported")

	want := "dwarf2btf: skipping unsupported construct\n"
	if got := buf.String(); got != want {
		t.Errorf("sink output = %q, want %q", got, want)
	}
}

func TestToWriterWritesOneLinePerCall(t *testing.T) {
	var buf bytes.Buffer
	sink := ToWriter(&buf)
	sink("first")
	sink("second")

	want := "dwarf2btf: first\ndwarf2btf: second\n"
	if got := buf.String(); got != want {
		t.Errorf("sink output = %q, want %q", got, want)
	}
}
