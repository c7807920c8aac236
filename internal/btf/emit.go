package btf

import (
	"encoding/binary"
	"io"
)

// Header is the 24-byte BTF header, bit-exact per spec.md §6.
type Header struct {
	Magic   uint16
	Version uint8
	Flags   uint8
	HdrLen  uint32
	TypeOff uint32
	TypeLen uint32
	StrOff  uint32
	StrLen  uint32
}

const (
	btfMagic   uint16 = 0xEB9F
	btfVersion uint8  = 1
	hdrLen     uint32 = 24
)

// buildHeader computes the header fields from the registered entries
// and string table, per spec.md §4.D's "Header construction".
func (c *Context) buildHeader() Header {
	var typeLen uint32
	for _, e := range c.entries {
		typeLen += e.EncodedSize()
	}
	return Header{
		Magic:   btfMagic,
		Version: btfVersion,
		Flags:   0,
		HdrLen:  hdrLen,
		TypeOff: 0,
		TypeLen: typeLen,
		StrOff:  typeLen,
		StrLen:  c.strings.Size(),
	}
}

func (h Header) writeTo(w io.Writer) error {
	var buf [24]byte
	binary.LittleEndian.PutUint16(buf[0:2], h.Magic)
	buf[2] = h.Version
	buf[3] = h.Flags
	binary.LittleEndian.PutUint32(buf[4:8], h.HdrLen)
	binary.LittleEndian.PutUint32(buf[8:12], h.TypeOff)
	binary.LittleEndian.PutUint32(buf[12:16], h.TypeLen)
	binary.LittleEndian.PutUint32(buf[16:20], h.StrOff)
	binary.LittleEndian.PutUint32(buf[20:24], h.StrLen)
	_, err := w.Write(buf[:])
	return err
}

// SectionSink is the host capability spec.md §6 requires: the ability
// to switch to a named output section and write bytes to it.
type SectionSink interface {
	Section(name string) io.Writer
}

// Header returns the header that Emit would write, without writing
// anything. Hosts use it to report type/string counts (e.g. the CLI's
// -json summary) without re-parsing the emitted blob.
func (c *Context) Header() Header {
	return c.buildHeader()
}

// Emit streams the header, the type section, and the string section
// into the named section of sink, in that order, per spec.md §4.E.
// The context must be finished.
func (c *Context) Emit(sink SectionSink, section string) error {
	if !c.finished {
		violate("Emit", "context not finished")
	}
	w := sink.Section(section)

	hdr := c.buildHeader()
	if err := hdr.writeTo(w); err != nil {
		return err
	}
	for _, e := range c.entries {
		if err := e.Emit(w); err != nil {
			return err
		}
	}
	if _, err := c.strings.WriteTo(w); err != nil {
		return err
	}
	return nil
}
