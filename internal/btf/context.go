package btf

import (
	"fmt"
	"io"

	"github.com/jtang613/dwarf2btf/internal/diag"
	"github.com/jtang613/dwarf2btf/internal/dwarf"
	"github.com/jtang613/dwarf2btf/internal/strtab"
)

// Context is the type-graph reducer (component D): it walks compile-unit
// DIE trees, deduplicates by DIE identity, assigns dense 1-based ids,
// and hosts the string table. It is single-threaded and used in a
// strict sequence: NewContext -> N*AddCompileUnit -> Finish -> M*Emit,
// matching spec.md §5.
//
// Grounded on pkg/pdb/streams/tpi.go's ReadTPIStream: a single forward
// pass that appends to a flat entry vector while building a parallel
// index (there, typeIndex -> *TypeRecord; here, *dwarf.DIE -> id).
type Context struct {
	entries  []Type
	ids      map[*dwarf.DIE]uint32
	strings  *strtab.Table
	finished bool
	diag     diag.Sink
}

// NewContext creates an empty, unfinished context.
func NewContext() *Context {
	return &Context{
		ids:     make(map[*dwarf.DIE]uint32),
		strings: &strtab.Table{},
		diag:    diag.Discard,
	}
}

// SetDiagSink replaces the diagnostic sink used for skipped/unsupported
// construct warnings. Must be called before the first AddCompileUnit
// call to see every diagnostic; calling it later is allowed but only
// affects subsequently registered DIEs.
func (c *Context) SetDiagSink(sink diag.Sink) {
	if sink == nil {
		sink = diag.Discard
	}
	c.diag = sink
}

// AddCompileUnit registers one compile unit's DIE tree. unit's tag must
// be compile_unit and the context must not yet be finished.
func (c *Context) AddCompileUnit(unit *dwarf.DIE) error {
	if c.finished {
		violate("AddCompileUnit", "context already finished")
	}
	if unit.Tag() != dwarf.TagCompileUnit {
		violate("AddCompileUnit", fmt.Sprintf("root DIE must be compile_unit, got %s", unit.Tag()))
	}
	return c.walk(unit)
}

// walk implements the recursive registration pass of spec.md §4.D.
func (c *Context) walk(d *dwarf.DIE) error {
	if d.Tag() == dwarf.TagCompileUnit || d.Tag() == dwarf.TagSubprogram {
		for _, kid := range d.Kids() {
			if err := c.walk(kid); err != nil {
				return err
			}
		}
	}

	if ShouldSkip(d) {
		if ClassifyKind(d) == KindUnkn {
			c.diag("skipping unsupported construct: tag=%s", d.Tag())
		}
		return nil
	}

	if _, already := c.ids[d]; already {
		return nil
	}

	kind := ClassifyKind(d)
	entry, err := c.newEntry(d, kind)
	if err != nil {
		return err
	}
	if err := entry.shape(c); err != nil {
		return err
	}

	if len(c.entries)+1 > MaxType {
		return ErrTooManyTypes
	}

	id := uint32(len(c.entries) + 1)
	setID(entry, id)
	c.entries = append(c.entries, entry)
	c.ids[d] = id
	return nil
}

// newEntry is the per-kind factory referenced in spec.md §4.B/§4.D.
func (c *Context) newEntry(d *dwarf.DIE, kind Kind) (Type, error) {
	switch kind {
	case KindInt:
		return newInt(d), nil
	case KindPtr:
		return newRef(d, KindPtr), nil
	case KindConst:
		return newRef(d, KindConst), nil
	case KindVolatile:
		return newRef(d, KindVolatile), nil
	case KindRestrict:
		return newRef(d, KindRestrict), nil
	case KindTypedef:
		return newRef(d, KindTypedef), nil
	case KindFwd:
		return newFwd(d, d.Tag() == dwarf.TagUnionType), nil
	case KindEnum:
		return newEnum(d), nil
	case KindArray:
		return newArray(d), nil
	case KindStruct:
		return newAggregate(d, KindStruct), nil
	case KindUnion:
		return newAggregate(d, KindUnion), nil
	case KindFunc:
		return newFunc(d, KindFunc), nil
	case KindFuncProto:
		return newFunc(d, KindFuncProto), nil
	default:
		return nil, fmt.Errorf("btf: no entry factory for kind %s", kind)
	}
}

// setID is the only place a base's id field is mutated after
// construction, kept out of the base type itself so Type stays a
// narrow interface.
func setID(t Type, id uint32) {
	switch v := t.(type) {
	case *Int:
		v.id = id
	case *Ref:
		v.id = id
	case *Fwd:
		v.id = id
	case *Enum:
		v.id = id
	case *Array:
		v.id = id
	case *Aggregate:
		v.id = id
	case *Func:
		v.id = id
	}
}

// IDOf returns the dense id assigned to die, or 0 if die was never
// registered (skipped, or absent) — the void collapse spec.md §4.D
// describes.
func (c *Context) IDOf(die *dwarf.DIE) uint32 {
	if die == nil {
		return 0
	}
	return c.ids[die]
}

// checkVlen enforces spec.md §3's BTF_MAX_VLEN cap at shape time.
func (c *Context) checkVlen(n int) error {
	if n > MaxVlen {
		return ErrVlenOverflow
	}
	return nil
}

// addString adds s to the string table, enforcing spec.md §3's
// BTF_MAX_NAME_OFFSET cap. An empty s is not added: it returns offset 0,
// the empty name Finish reserves, so anonymous entries get name_off 0.
func (c *Context) addString(s string) (uint32, error) {
	if s == "" {
		return 0, nil
	}
	off := c.strings.Add(s)
	if off > MaxNameOffset {
		return 0, ErrNameOffsetOverflow
	}
	return off, nil
}

// Finish ends the registration phase and runs the completion pass: it
// reserves string offset 0 for the empty name, then lets every entry
// resolve its cross-references in registration order, per spec.md
// §4.D. After Finish returns successfully, Emit may be called any
// number of times.
func (c *Context) Finish() error {
	if c.finished {
		violate("Finish", "already finished")
	}
	c.finished = true

	if c.strings.Size() != 0 {
		violate("Finish", "string table already written to before Finish")
	}
	c.strings.Add("")

	for _, e := range c.entries {
		if err := e.complete(c); err != nil {
			return err
		}
	}
	return nil
}

// Count returns the number of registered type entries.
func (c *Context) Count() int { return len(c.entries) }

// ShowAll writes a human-readable dump of every type entry and the
// string table. Its format is not stable, matching spec.md §6.
func (c *Context) ShowAll(w io.Writer) {
	fmt.Fprintf(w, "types: %d\n", len(c.entries))
	for _, e := range c.entries {
		name := c.strings.Get(nameOffOf(e))
		fmt.Fprintf(w, "  #%d %-10s name=%q size=%d\n", e.ID(), e.Kind(), name, e.EncodedSize())
	}
	fmt.Fprintf(w, "strings: %d bytes\n", c.strings.Size())
	for off := uint32(0); off < c.strings.Size(); {
		s := c.strings.Get(off)
		fmt.Fprintf(w, "  @%d %q\n", off, s)
		off += uint32(len(s)) + 1
	}
}

func nameOffOf(t Type) uint32 {
	switch v := t.(type) {
	case *Int:
		return v.nameOff
	case *Ref:
		return v.nameOff
	case *Fwd:
		return v.nameOff
	case *Enum:
		return v.nameOff
	case *Array:
		return v.nameOff
	case *Aggregate:
		return v.nameOff
	case *Func:
		return v.nameOff
	default:
		return 0
	}
}
