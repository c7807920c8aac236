package btf

import (
	"encoding/binary"
	"io"

	"github.com/jtang613/dwarf2btf/internal/dwarf"
)

// Type is the common capability every kind-specific entry implements.
// The two-phase split (shape/complete) mirrors the teacher's own
// two-stage type-record handling in pkg/pdb/codeview/types.go
// (ParseStructureType reads the fixed shape, then a second pass walks
// the field list): shape fills in everything knowable in isolation,
// complete fills in everything that needs the full DIE-to-id map or the
// string table to exist.
type Type interface {
	ID() uint32
	Kind() Kind
	DIE() *dwarf.DIE
	shape(ctx *Context) error
	complete(ctx *Context) error
	EncodedSize() uint32
	Emit(w io.Writer) error
}

// base holds the fields common to every kind-specific entry: the dense
// id, the originating DIE, and the name offset (0 for reference kinds
// and anonymous entries, per spec.md's invariant).
type base struct {
	id      uint32
	die     *dwarf.DIE
	kind    Kind
	nameOff uint32
}

func (b *base) ID() uint32        { return b.id }
func (b *base) Kind() Kind        { return b.kind }
func (b *base) DIE() *dwarf.DIE   { return b.die }

func writeHeader(w io.Writer, nameOff, info, sizeOrType uint32) error {
	var hdr [12]byte
	binary.LittleEndian.PutUint32(hdr[0:4], nameOff)
	binary.LittleEndian.PutUint32(hdr[4:8], info)
	binary.LittleEndian.PutUint32(hdr[8:12], sizeOrType)
	_, err := w.Write(hdr[:])
	return err
}

// ---- INT ------------------------------------------------------------

// Int is a BTF_KIND_INT entry.
type Int struct {
	base
	size   uint32 // byte size, lives in the size_or_type slot
	intVal uint32 // {encoding:4, bit_offset:8, bit_size:8}
	info   uint32
}

func newInt(die *dwarf.DIE) *Int {
	return &Int{base: base{die: die, kind: KindInt}}
}

func (t *Int) shape(ctx *Context) error {
	byteSize, _ := t.die.ByteSize()
	t.size = uint32(byteSize)

	enc, _ := t.die.Encoding()
	encBits := encodingFor(enc)

	bitOff, _ := t.die.BitOffset()
	bitSize, ok := t.die.BitSize()
	if !ok {
		bitSize = byteSize * 8
	}

	// Open Question #1 (spec.md §9 item 1): the reference translator
	// OR's this word in twice, a typo. A single OR is the only sane
	// reading of the intent.
	t.intVal = encBits<<24 | uint32(bitOff)<<16 | uint32(bitSize)

	t.info = infoWord(KindInt, 0)
	return nil
}

func (t *Int) complete(ctx *Context) error {
	name, _ := t.die.Name()
	off, err := ctx.addString(name)
	if err != nil {
		return err
	}
	t.nameOff = off
	return nil
}

func (t *Int) EncodedSize() uint32 { return 12 + 4 }

func (t *Int) Emit(w io.Writer) error {
	if err := writeHeader(w, t.nameOff, t.info, t.size); err != nil {
		return err
	}
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], t.intVal)
	_, err := w.Write(b[:])
	return err
}

// ---- Reference kinds: PTR / CONST / VOLATILE / RESTRICT / TYPEDEF ---

// Ref is the shared shape for every pure reference kind: its
// size_or_type slot holds the id of the referent, it is never named,
// and it has no trailer.
type Ref struct {
	base
	info     uint32
	typeID   uint32
	refField AttrGetter
}

// AttrGetter fetches the DIE whose id this reference kind points at.
// newRef installs typeRefGetter (DW_AT_type) for every reference kind;
// when it finds no referent, complete stores type 0 (void), which is
// how a void pointer (REDESIGN FLAG #5) is encoded.
type AttrGetter func(d *dwarf.DIE) (*dwarf.DIE, bool)

func typeRefGetter(d *dwarf.DIE) (*dwarf.DIE, bool) { return d.TypeRef() }

func newRef(die *dwarf.DIE, kind Kind) *Ref {
	return &Ref{base: base{die: die, kind: kind}, refField: typeRefGetter}
}

func (t *Ref) shape(ctx *Context) error {
	t.info = infoWord(t.kind, 0)
	return nil
}

func (t *Ref) complete(ctx *Context) error {
	t.nameOff = 0
	referent, ok := t.refField(t.die)
	if !ok {
		// Pointer-to-void (REDESIGN FLAG #5): type=0 means void.
		t.typeID = 0
		return nil
	}
	t.typeID = ctx.IDOf(referent)
	return nil
}

func (t *Ref) EncodedSize() uint32 { return 12 }

func (t *Ref) Emit(w io.Writer) error {
	return writeHeader(w, t.nameOff, t.info, t.typeID)
}

// ---- FWD --------------------------------------------------------------

// Fwd is a BTF_KIND_FWD entry: a forward declaration of a struct or
// union with no body. REDESIGN FLAG #3: unlike the reference
// translator, this one records the struct/union distinction in info
// bit 16 (the first bit of the otherwise-unused 16-23 range).
type Fwd struct {
	base
	info    uint32
	isUnion bool
}

func newFwd(die *dwarf.DIE, isUnion bool) *Fwd {
	return &Fwd{base: base{die: die, kind: KindFwd}, isUnion: isUnion}
}

func (t *Fwd) shape(ctx *Context) error {
	info := infoWord(KindFwd, 0)
	if t.isUnion {
		info |= 1 << 16
	}
	t.info = info
	return nil
}

func (t *Fwd) complete(ctx *Context) error {
	name, _ := t.die.Name()
	off, err := ctx.addString(name)
	if err != nil {
		return err
	}
	t.nameOff = off
	return nil
}

func (t *Fwd) EncodedSize() uint32 { return 12 }

func (t *Fwd) Emit(w io.Writer) error {
	return writeHeader(w, t.nameOff, t.info, 0)
}

// ---- ENUM ---------------------------------------------------------

// EnumValue is one (name_off, value) record trailing an Enum entry.
type EnumValue struct {
	NameOff uint32
	Value   int32
}

// Enum is a BTF_KIND_ENUM entry.
type Enum struct {
	base
	info    uint32
	size    uint32
	values  []EnumValue
}

func newEnum(die *dwarf.DIE) *Enum {
	return &Enum{base: base{die: die, kind: KindEnum}}
}

func (t *Enum) shape(ctx *Context) error {
	children := t.die.ChildrenWithTag(dwarf.TagEnumerator)
	if err := ctx.checkVlen(len(children)); err != nil {
		return err
	}
	t.info = infoWord(KindEnum, uint16(len(children)))
	byteSize, _ := t.die.ByteSize()
	t.size = uint32(byteSize)
	return nil
}

func (t *Enum) complete(ctx *Context) error {
	name, _ := t.die.Name()
	off, err := ctx.addString(name)
	if err != nil {
		return err
	}
	t.nameOff = off

	for _, child := range t.die.ChildrenWithTag(dwarf.TagEnumerator) {
		cname, _ := child.Name()
		coff, err := ctx.addString(cname)
		if err != nil {
			return err
		}
		cval, _ := child.ConstValue()
		t.values = append(t.values, EnumValue{NameOff: coff, Value: int32(cval)})
	}
	return nil
}

func (t *Enum) EncodedSize() uint32 { return 12 + 8*uint32(len(t.values)) }

func (t *Enum) Emit(w io.Writer) error {
	if err := writeHeader(w, t.nameOff, t.info, t.size); err != nil {
		return err
	}
	for _, v := range t.values {
		var b [8]byte
		binary.LittleEndian.PutUint32(b[0:4], v.NameOff)
		binary.LittleEndian.PutUint32(b[4:8], uint32(v.Value))
		if _, err := w.Write(b[:]); err != nil {
			return err
		}
	}
	return nil
}

// ---- ARRAY (variable-anchored) ----------------------------------

// Array is a BTF_KIND_ARRAY entry. Per spec.md §9 item 4 (preserved
// for source compatibility) it is built from a `variable` DIE whose
// DW_AT_type resolves to an array_type DIE, and is named after the
// variable rather than being an anonymous array type.
type Array struct {
	base
	info      uint32
	elemType  uint32
	indexType uint32
	nelems    uint32
}

func newArray(die *dwarf.DIE) *Array {
	return &Array{base: base{die: die, kind: KindArray}}
}

func (t *Array) shape(ctx *Context) error {
	t.info = infoWord(KindArray, 0)
	return nil
}

func (t *Array) complete(ctx *Context) error {
	varName, _ := t.die.Name()
	off, err := ctx.addString(varName)
	if err != nil {
		return err
	}
	t.nameOff = off

	arrayTypeDIE, ok := t.die.TypeRef()
	if !ok {
		return nil
	}
	elemDIE, ok := arrayTypeDIE.TypeRef()
	if ok {
		t.elemType = ctx.IDOf(elemDIE)
	}
	if subrange, ok := arrayTypeDIE.FirstChildWithTag(dwarf.TagSubrangeType); ok {
		count, _ := subrange.Count()
		t.nelems = uint32(count)
		if idxDIE, ok := subrange.TypeRef(); ok {
			t.indexType = ctx.IDOf(idxDIE)
		}
	}
	return nil
}

func (t *Array) EncodedSize() uint32 { return 12 + 12 }

func (t *Array) Emit(w io.Writer) error {
	if err := writeHeader(w, t.nameOff, t.info, 0); err != nil {
		return err
	}
	var b [12]byte
	binary.LittleEndian.PutUint32(b[0:4], t.elemType)
	binary.LittleEndian.PutUint32(b[4:8], t.indexType)
	binary.LittleEndian.PutUint32(b[8:12], t.nelems)
	_, err := w.Write(b[:])
	return err
}

// ---- STRUCT / UNION -------------------------------------------------

// Member is one (name_off, type, bit_offset) record trailing a
// Struct or Union entry.
type Member struct {
	NameOff uint32
	Type    uint32
	Offset  uint32
}

// Aggregate is the shared implementation for STRUCT and UNION, which
// differ only in their Kind.
type Aggregate struct {
	base
	info    uint32
	size    uint32
	members []Member
}

func newAggregate(die *dwarf.DIE, kind Kind) *Aggregate {
	return &Aggregate{base: base{die: die, kind: kind}}
}

func (t *Aggregate) shape(ctx *Context) error {
	byteSize, _ := t.die.ByteSize()
	t.size = uint32(byteSize)
	members := t.die.ChildrenWithTag(dwarf.TagMember)
	if err := ctx.checkVlen(len(members)); err != nil {
		return err
	}
	t.info = infoWord(t.kind, uint16(len(members)))
	return nil
}

func (t *Aggregate) complete(ctx *Context) error {
	name, _ := t.die.Name()
	off, err := ctx.addString(name)
	if err != nil {
		return err
	}
	t.nameOff = off

	for _, child := range t.die.ChildrenWithTag(dwarf.TagMember) {
		mname, _ := child.Name()
		moff, err := ctx.addString(mname)
		if err != nil {
			return err
		}
		var mtype uint32
		if typeDIE, ok := child.TypeRef(); ok {
			mtype = ctx.IDOf(typeDIE)
		}
		bitOff, _ := child.BitOffset()
		t.members = append(t.members, Member{NameOff: moff, Type: mtype, Offset: uint32(bitOff)})
	}
	return nil
}

func (t *Aggregate) EncodedSize() uint32 { return 12 + 12*uint32(len(t.members)) }

func (t *Aggregate) Emit(w io.Writer) error {
	if err := writeHeader(w, t.nameOff, t.info, t.size); err != nil {
		return err
	}
	for _, m := range t.members {
		var b [12]byte
		binary.LittleEndian.PutUint32(b[0:4], m.NameOff)
		binary.LittleEndian.PutUint32(b[4:8], m.Type)
		binary.LittleEndian.PutUint32(b[8:12], m.Offset)
		if _, err := w.Write(b[:]); err != nil {
			return err
		}
	}
	return nil
}

// ---- FUNC / FUNC_PROTO -----------------------------------------------

// Func is the shared implementation for FUNC and FUNC_PROTO, which
// differ in whether they carry a name and in which DIE anchors them
// (subprogram vs. standalone subroutine_type).
type Func struct {
	base
	info    uint32
	retType uint32
	params  []uint32
}

func newFunc(die *dwarf.DIE, kind Kind) *Func {
	return &Func{base: base{die: die, kind: kind}}
}

func (t *Func) shape(ctx *Context) error {
	params := t.die.ChildrenWithTag(dwarf.TagFormalParameter)
	if err := ctx.checkVlen(len(params)); err != nil {
		return err
	}
	t.info = infoWord(t.kind, uint16(len(params)))
	return nil
}

func (t *Func) complete(ctx *Context) error {
	if t.kind == KindFunc {
		name, hasName := t.die.Name()
		if !hasName {
			if retDIE, ok := t.die.TypeRef(); ok {
				name, _ = retDIE.Name()
			}
		}
		off, err := ctx.addString(name)
		if err != nil {
			return err
		}
		t.nameOff = off
	} else {
		t.nameOff = 0
	}

	if retDIE, ok := t.die.TypeRef(); ok {
		t.retType = ctx.IDOf(retDIE)
	}

	for _, p := range t.die.ChildrenWithTag(dwarf.TagFormalParameter) {
		var pid uint32
		if typeDIE, ok := p.TypeRef(); ok {
			pid = ctx.IDOf(typeDIE)
		}
		t.params = append(t.params, pid)
	}
	return nil
}

func (t *Func) EncodedSize() uint32 { return 12 + 4*uint32(len(t.params)) }

func (t *Func) Emit(w io.Writer) error {
	if err := writeHeader(w, t.nameOff, t.info, t.retType); err != nil {
		return err
	}
	for _, p := range t.params {
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], p)
		if _, err := w.Write(b[:]); err != nil {
			return err
		}
	}
	return nil
}
