package btf

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/jtang613/dwarf2btf/internal/dwarf"
	"github.com/jtang613/dwarf2btf/internal/hostio"
	"github.com/jtang613/dwarf2btf/internal/testdie"
)

// TestGoldenSingleIntWireBlob asserts the full encoded byte stream for a
// one-type compile unit against a hand-computed golden blob, the same
// shape of check as other_examples' xiaofsec-ebpf__btf-marshal_test.go
// (encode a known type, diff the raw bytes against a fixed expectation).
func TestGoldenSingleIntWireBlob(t *testing.T) {
	intDIE := testdie.BaseType("int", 4, dwarf.EncSigned)
	ctx := NewContext()
	if err := ctx.AddCompileUnit(testdie.CU(intDIE)); err != nil {
		t.Fatalf("AddCompileUnit: %v", err)
	}
	if err := ctx.Finish(); err != nil {
		t.Fatalf("Finish: %v", err)
	}
	sink := hostio.NewMemorySink()
	if err := ctx.Emit(sink, ".BTF"); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	got := sink.Bytes(".BTF")

	want := []byte{
		// header (24 bytes)
		0x9F, 0xEB, // magic
		0x01,       // version
		0x00,       // flags
		0x18, 0x00, 0x00, 0x00, // hdr_len = 24
		0x00, 0x00, 0x00, 0x00, // type_off = 0
		0x10, 0x00, 0x00, 0x00, // type_len = 16 (one INT entry)
		0x10, 0x00, 0x00, 0x00, // str_off = 16
		0x05, 0x00, 0x00, 0x00, // str_len = 5 ("\0int\0")

		// BTF_KIND_INT entry "int" (16 bytes)
		0x01, 0x00, 0x00, 0x00, // name_off = 1
		0x00, 0x00, 0x00, 0x01, // info = KindInt<<24
		0x04, 0x00, 0x00, 0x00, // size = 4
		0x20, 0x00, 0x00, 0x01, // int_val: encoding=SIGNED(1), bit_offset=0, bit_size=32

		// string section (5 bytes)
		0x00,
		0x69, 0x6E, 0x74, 0x00, // "int\0"
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("encoded wire blob mismatch (-want +got):\n%s", diff)
	}
}
