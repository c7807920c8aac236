package hostio

import (
	"bytes"
	"encoding/binary"
	"io"
)

// ELFSink accumulates one or more named sections and, on WriteTo,
// serializes them as a minimal little-endian ELF64 relocatable object:
// a null section, each named section with SHT_PROGBITS data, and a
// trailing shstrtab. This mirrors the real compiler backend's behavior
// of placing the translator's BTF blob into a named section (".BTF")
// of the final object file, so the output can be inspected with
// standard tooling (`readelf -x .BTF out.o`).
//
// Grounded on bobbydeveaux-starbucks-mugs/internal/watcher/ebpf's
// debug/elf-based section reader (loader_linux.go), run here in the
// write direction, and on
// other_examples/8523cbd5_SeleniaProject-Orizon__internal-debug-dwarf_writer.go.go's
// BuildDWARF, which assembles named byte sections the same way.
type ELFSink struct {
	*MemorySink
	order []string
}

// NewELFSink creates an empty ELF section accumulator.
func NewELFSink() *ELFSink {
	return &ELFSink{MemorySink: NewMemorySink()}
}

// Section returns the writer for name, recording insertion order on
// first use so the emitted section-header table is deterministic.
func (s *ELFSink) Section(name string) io.Writer {
	if _, ok := s.sections[name]; !ok {
		s.order = append(s.order, name)
	}
	return s.MemorySink.Section(name)
}

const (
	elfClass64   = 2
	elfDataLE    = 1
	elfVersion   = 1
	elfTypeRel   = 1
	elfMachNone  = 0
	shtNull      = 0
	shtProgbits  = 1
	shtStrtab    = 3
	ehdrSize     = 64
	shdrSize     = 64
)

// WriteTo serializes the accumulated sections as a minimal ELF64
// relocatable object and writes it to w.
func (s *ELFSink) WriteTo(w io.Writer) (int64, error) {
	var shstrtab bytes.Buffer
	shstrtab.WriteByte(0) // index 0 is the empty name, same convention as strtab.Table

	nameOff := make(map[string]uint32, len(s.order)+1)
	for _, name := range s.order {
		off := uint32(shstrtab.Len())
		shstrtab.WriteString(name)
		shstrtab.WriteByte(0)
		nameOff[name] = off
	}
	shstrtabNameOff := uint32(shstrtab.Len())
	shstrtab.WriteString(".shstrtab")
	shstrtab.WriteByte(0)

	numSections := uint16(1 + len(s.order) + 1) // null + data sections + shstrtab

	var body bytes.Buffer
	offsets := make(map[string]uint64, len(s.order))
	cursor := uint64(ehdrSize)
	for _, name := range s.order {
		data := s.Bytes(name)
		offsets[name] = cursor
		body.Write(data)
		cursor += uint64(len(data))
	}
	shstrtabOffset := cursor
	body.Write(shstrtab.Bytes())
	cursor += uint64(shstrtab.Len())

	shoff := cursor

	var out bytes.Buffer
	out.Write(body.Bytes())

	writeSectionHeader := func(nameOff uint32, typ uint32, offset, size uint64) {
		var hdr [shdrSize]byte
		binary.LittleEndian.PutUint32(hdr[0:4], nameOff)
		binary.LittleEndian.PutUint32(hdr[4:8], typ)
		// sh_flags, sh_addr left zero.
		binary.LittleEndian.PutUint64(hdr[24:32], offset)
		binary.LittleEndian.PutUint64(hdr[32:40], size)
		out.Write(hdr[:])
	}

	writeSectionHeader(0, shtNull, 0, 0)
	for _, name := range s.order {
		writeSectionHeader(nameOff[name], shtProgbits, offsets[name], uint64(len(s.Bytes(name))))
	}
	writeSectionHeader(shstrtabNameOff, shtStrtab, shstrtabOffset, uint64(shstrtab.Len()))

	var ehdr [ehdrSize]byte
	copy(ehdr[0:4], []byte{0x7f, 'E', 'L', 'F'})
	ehdr[4] = elfClass64
	ehdr[5] = elfDataLE
	ehdr[6] = elfVersion
	binary.LittleEndian.PutUint16(ehdr[16:18], elfTypeRel)
	binary.LittleEndian.PutUint16(ehdr[18:20], elfMachNone)
	binary.LittleEndian.PutUint32(ehdr[20:24], elfVersion)
	binary.LittleEndian.PutUint64(ehdr[40:48], shoff) // e_shoff
	binary.LittleEndian.PutUint16(ehdr[52:54], ehdrSize) // e_ehsize
	binary.LittleEndian.PutUint16(ehdr[58:60], shdrSize) // e_shentsize
	binary.LittleEndian.PutUint16(ehdr[60:62], numSections)
	binary.LittleEndian.PutUint16(ehdr[62:64], uint16(1+len(s.order))) // e_shstrndx

	full := make([]byte, 0, ehdrSize+out.Len())
	full = append(full, ehdr[:]...)
	full = append(full, out.Bytes()...)

	n, err := w.Write(full)
	return int64(n), err
}
