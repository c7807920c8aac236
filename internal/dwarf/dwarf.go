// Package dwarf models the subset of a DWARF debug-information tree that
// the BTF translator consumes: tags, attributes, and child lists. It does
// not parse the on-disk .debug_info byte format; callers hand it an
// already-built tree, the same way a compiler backend's debug-info
// builder would.
package dwarf

// Tag identifies the kind of debug-information entry.
type Tag int

const (
	TagCompileUnit Tag = iota + 1
	TagBaseType
	TagPointerType
	TagConstType
	TagVolatileType
	TagRestrictType
	TagStructureType
	TagClassType
	TagUnionType
	TagEnumerationType
	TagEnumerator
	TagMember
	TagSubrangeType
	TagArrayType
	TagTypedef
	TagSubprogram
	TagSubroutineType
	TagFormalParameter
	TagInlinedSubroutine
	TagLexicalBlock
	TagVariable
)

var tagNames = map[Tag]string{
	TagCompileUnit:       "compile_unit",
	TagBaseType:          "base_type",
	TagPointerType:       "pointer_type",
	TagConstType:         "const_type",
	TagVolatileType:      "volatile_type",
	TagRestrictType:      "restrict_type",
	TagStructureType:     "structure_type",
	TagClassType:         "class_type",
	TagUnionType:         "union_type",
	TagEnumerationType:   "enumeration_type",
	TagEnumerator:        "enumerator",
	TagMember:            "member",
	TagSubrangeType:      "subrange_type",
	TagArrayType:         "array_type",
	TagTypedef:           "typedef",
	TagSubprogram:        "subprogram",
	TagSubroutineType:    "subroutine_type",
	TagFormalParameter:   "formal_parameter",
	TagInlinedSubroutine: "inlined_subroutine",
	TagLexicalBlock:      "lexical_block",
	TagVariable:          "variable",
}

func (t Tag) String() string {
	if n, ok := tagNames[t]; ok {
		return n
	}
	return "unknown_tag"
}

// AttrID identifies an attribute slot on a DIE.
type AttrID int

const (
	AttrName AttrID = iota + 1
	AttrType
	AttrByteSize
	AttrBitSize
	AttrBitOffset
	AttrDataBitOffset
	AttrEncoding
	AttrDeclaration
	AttrConstValue
	AttrCount
	AttrUpperBound
	AttrExternal
	AttrDeclFile
	AttrDeclLine
	AttrLowPC
	AttrHighPC
)

// Encoding is the DW_ATE_* subset the classifier cares about.
type Encoding int

const (
	EncBoolean Encoding = iota + 1
	EncSigned
	EncSignedChar
	EncUnsigned
	EncUnsignedChar
	EncFloat
	EncComplexFloat
	EncUnsignedComplex
	EncAddress
)

// AttrValue is a tagged union over the four kinds of attribute payload
// DWARF can carry for the attributes this translator reads.
type AttrValue struct {
	hasInt bool
	hasStr bool
	hasRef bool
	i      int64
	s      string
	ref    *DIE
}

// IntAttr builds an integer-valued attribute.
func IntAttr(v int64) AttrValue { return AttrValue{hasInt: true, i: v} }

// StrAttr builds a string-valued attribute.
func StrAttr(v string) AttrValue { return AttrValue{hasStr: true, s: v} }

// RefAttr builds a DIE-reference attribute.
func RefAttr(v *DIE) AttrValue { return AttrValue{hasRef: true, ref: v} }

// FlagAttr builds a presence-only attribute (e.g. DW_AT_declaration),
// carrying no payload beyond existing.
func FlagAttr() AttrValue { return AttrValue{hasInt: true, i: 1} }

// Int returns the attribute's integer value, if it has one.
func (a AttrValue) Int() (int64, bool) { return a.i, a.hasInt }

// Str returns the attribute's string value, if it has one.
func (a AttrValue) Str() (string, bool) { return a.s, a.hasStr }

// Ref returns the attribute's DIE reference, if it has one.
func (a AttrValue) Ref() (*DIE, bool) { return a.ref, a.hasRef }

// DIE is a single debug-information entry. The translator never mutates
// a DIE; it only reads tag, attributes, and children.
type DIE struct {
	tag      Tag
	attrs    map[AttrID]AttrValue
	children []*DIE
}

// New creates a DIE with the given tag, attributes, and children.
func New(tag Tag, attrs map[AttrID]AttrValue, children ...*DIE) *DIE {
	if attrs == nil {
		attrs = map[AttrID]AttrValue{}
	}
	return &DIE{tag: tag, attrs: attrs, children: children}
}

// Tag returns the DIE's tag.
func (d *DIE) Tag() Tag { return d.tag }

// Attr looks up an attribute by id.
func (d *DIE) Attr(id AttrID) (AttrValue, bool) {
	v, ok := d.attrs[id]
	return v, ok
}

// Kids returns the DIE's children in DWARF child-list order.
func (d *DIE) Kids() []*DIE { return d.children }

// AddChild appends a child DIE, in order. It exists for building
// cyclic fixtures (e.g. a struct whose member points back at a pointer
// to the struct itself) where the full child list cannot be known at
// construction time.
func (d *DIE) AddChild(child *DIE) { d.children = append(d.children, child) }

// Name returns the DW_AT_name value, if present.
func (d *DIE) Name() (string, bool) {
	v, ok := d.Attr(AttrName)
	if !ok {
		return "", false
	}
	return v.Str()
}

// TypeRef returns the DIE referenced by DW_AT_type, if present.
func (d *DIE) TypeRef() (*DIE, bool) {
	v, ok := d.Attr(AttrType)
	if !ok {
		return nil, false
	}
	return v.Ref()
}

// ByteSize returns DW_AT_byte_size, if present.
func (d *DIE) ByteSize() (uint64, bool) {
	v, ok := d.Attr(AttrByteSize)
	if !ok {
		return 0, false
	}
	i, ok := v.Int()
	return uint64(i), ok
}

// BitSize returns DW_AT_bit_size, if present.
func (d *DIE) BitSize() (uint64, bool) {
	v, ok := d.Attr(AttrBitSize)
	if !ok {
		return 0, false
	}
	i, ok := v.Int()
	return uint64(i), ok
}

// BitOffset returns DW_AT_bit_offset or DW_AT_data_bit_offset, if present.
func (d *DIE) BitOffset() (uint64, bool) {
	if v, ok := d.Attr(AttrDataBitOffset); ok {
		i, ok := v.Int()
		return uint64(i), ok
	}
	if v, ok := d.Attr(AttrBitOffset); ok {
		i, ok := v.Int()
		return uint64(i), ok
	}
	return 0, false
}

// Encoding returns DW_AT_encoding, if present.
func (d *DIE) Encoding() (Encoding, bool) {
	v, ok := d.Attr(AttrEncoding)
	if !ok {
		return 0, false
	}
	i, ok := v.Int()
	if !ok {
		return 0, false
	}
	return Encoding(i), true
}

// IsDeclaration reports whether DW_AT_declaration is present.
func (d *DIE) IsDeclaration() bool {
	_, ok := d.Attr(AttrDeclaration)
	return ok
}

// ConstValue returns DW_AT_const_value, if present.
func (d *DIE) ConstValue() (int64, bool) {
	v, ok := d.Attr(AttrConstValue)
	if !ok {
		return 0, false
	}
	return v.Int()
}

// Count returns DW_AT_count, if present.
func (d *DIE) Count() (uint64, bool) {
	v, ok := d.Attr(AttrCount)
	if !ok {
		return 0, false
	}
	i, ok := v.Int()
	return uint64(i), ok
}

// ChildrenWithTag returns the direct children carrying the given tag, in
// child-list order.
func (d *DIE) ChildrenWithTag(tag Tag) []*DIE {
	var out []*DIE
	for _, c := range d.children {
		if c.tag == tag {
			out = append(out, c)
		}
	}
	return out
}

// FirstChildWithTag returns the first direct child carrying the given
// tag, if any.
func (d *DIE) FirstChildWithTag(tag Tag) (*DIE, bool) {
	for _, c := range d.children {
		if c.tag == tag {
			return c, true
		}
	}
	return nil, false
}
