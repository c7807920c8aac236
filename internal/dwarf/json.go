package dwarf

import (
	"encoding/json"
	"fmt"
)

// jsonDIE is the on-disk fixture shape accepted by the CLI's -in flag. It
// exists purely so dwarf2btf can be exercised standalone, without a real
// compiler backend attached, the same way pdbdump needs a real .pdb file
// but gopdb's own tests never wrote one from scratch.
type jsonDIE struct {
	Tag      string             `json:"tag"`
	Name     string             `json:"name,omitempty"`
	ByteSize *uint64            `json:"byte_size,omitempty"`
	BitSize  *uint64            `json:"bit_size,omitempty"`
	BitOff   *uint64            `json:"bit_offset,omitempty"`
	Encoding string             `json:"encoding,omitempty"`
	Declared bool               `json:"declaration,omitempty"`
	Const    *int64             `json:"const_value,omitempty"`
	Count    *uint64            `json:"count,omitempty"`
	TypeRef  *int               `json:"type_ref,omitempty"`
	Children []jsonDIE          `json:"children,omitempty"`
}

var tagFromJSON = map[string]Tag{
	"compile_unit":        TagCompileUnit,
	"base_type":           TagBaseType,
	"pointer_type":        TagPointerType,
	"const_type":          TagConstType,
	"volatile_type":       TagVolatileType,
	"restrict_type":       TagRestrictType,
	"structure_type":      TagStructureType,
	"class_type":          TagClassType,
	"union_type":          TagUnionType,
	"enumeration_type":    TagEnumerationType,
	"enumerator":          TagEnumerator,
	"member":              TagMember,
	"subrange_type":       TagSubrangeType,
	"array_type":          TagArrayType,
	"typedef":             TagTypedef,
	"subprogram":          TagSubprogram,
	"subroutine_type":     TagSubroutineType,
	"formal_parameter":    TagFormalParameter,
	"inlined_subroutine":  TagInlinedSubroutine,
	"lexical_block":       TagLexicalBlock,
	"variable":            TagVariable,
}

var encFromJSON = map[string]Encoding{
	"boolean":           EncBoolean,
	"signed":            EncSigned,
	"signed_char":       EncSignedChar,
	"unsigned":          EncUnsigned,
	"unsigned_char":     EncUnsignedChar,
	"float":             EncFloat,
	"complex_float":     EncComplexFloat,
	"unsigned_complex":  EncUnsignedComplex,
	"address":           EncAddress,
}

// FromJSON parses a fixture document into a forest of compile-unit DIEs.
// The document is a JSON array of compile_unit objects; DW_AT_type
// references are expressed as indices into a flat, depth-first
// pre-order numbering of the whole document (so a struct member can
// reference a type that appears later in the listing).
func FromJSON(data []byte) ([]*DIE, error) {
	var roots []jsonDIE
	if err := json.Unmarshal(data, &roots); err != nil {
		return nil, fmt.Errorf("dwarf: parse fixture: %w", err)
	}

	var flat []*jsonDIE
	var walk func(n *jsonDIE)
	walk = func(n *jsonDIE) {
		flat = append(flat, n)
		for i := range n.Children {
			walk(&n.Children[i])
		}
	}
	for i := range roots {
		walk(&roots[i])
	}

	built := make([]*DIE, len(flat))
	for i, n := range flat {
		tag, ok := tagFromJSON[n.Tag]
		if !ok {
			return nil, fmt.Errorf("dwarf: unknown tag %q", n.Tag)
		}
		attrs := map[AttrID]AttrValue{}
		if n.Name != "" {
			attrs[AttrName] = StrAttr(n.Name)
		}
		if n.ByteSize != nil {
			attrs[AttrByteSize] = IntAttr(int64(*n.ByteSize))
		}
		if n.BitSize != nil {
			attrs[AttrBitSize] = IntAttr(int64(*n.BitSize))
		}
		if n.BitOff != nil {
			attrs[AttrBitOffset] = IntAttr(int64(*n.BitOff))
		}
		if n.Encoding != "" {
			enc, ok := encFromJSON[n.Encoding]
			if !ok {
				return nil, fmt.Errorf("dwarf: unknown encoding %q", n.Encoding)
			}
			attrs[AttrEncoding] = IntAttr(int64(enc))
		}
		if n.Declared {
			attrs[AttrDeclaration] = FlagAttr()
		}
		if n.Const != nil {
			attrs[AttrConstValue] = IntAttr(*n.Const)
		}
		if n.Count != nil {
			attrs[AttrCount] = IntAttr(int64(*n.Count))
		}
		built[i] = New(tag, attrs)
	}

	// Second pass: wire up children and type refs now that every node
	// has a live *DIE, same two-phase idea the core itself uses for
	// cross-references.
	idx := 0
	var link func(n *jsonDIE) *DIE
	link = func(n *jsonDIE) *DIE {
		d := built[idx]
		idx++
		for i := range n.Children {
			child := link(&n.Children[i])
			d.children = append(d.children, child)
		}
		return d
	}
	var linkedRoots []*DIE
	for i := range roots {
		linkedRoots = append(linkedRoots, link(&roots[i]))
	}

	for i, n := range flat {
		if n.TypeRef != nil {
			if *n.TypeRef < 0 || *n.TypeRef >= len(built) {
				return nil, fmt.Errorf("dwarf: type_ref %d out of range", *n.TypeRef)
			}
			built[i].attrs[AttrType] = RefAttr(built[*n.TypeRef])
		}
	}

	return linkedRoots, nil
}
