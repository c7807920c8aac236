// Package btf implements the core of the DWARF-to-BTF translator: the
// type-entry model, the DIE classifier, the type-graph reducer, and the
// header/section emitter. See SPEC_FULL.md for the module boundary and
// DESIGN.md for what each file is grounded on.
package btf

// Kind is the closed, fourteen-value BTF kind enumeration. It is
// encoded in bits 24-27 of a type record's info word.
type Kind uint8

const (
	KindUnkn Kind = iota
	KindInt
	KindPtr
	KindArray
	KindStruct
	KindUnion
	KindEnum
	KindFwd
	KindTypedef
	KindVolatile
	KindConst
	KindRestrict
	KindFunc
	KindFuncProto
)

var kindNames = [...]string{
	KindUnkn:      "UNKN",
	KindInt:       "INT",
	KindPtr:       "PTR",
	KindArray:     "ARRAY",
	KindStruct:    "STRUCT",
	KindUnion:     "UNION",
	KindEnum:      "ENUM",
	KindFwd:       "FWD",
	KindTypedef:   "TYPEDEF",
	KindVolatile:  "VOLATILE",
	KindConst:     "CONST",
	KindRestrict:  "RESTRICT",
	KindFunc:      "FUNC",
	KindFuncProto: "FUNC_PROTO",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "UNKNOWN_KIND"
}

// Wire-format limits from spec.md §3. The reference translator this
// core reimplements does not enforce these; this implementation does,
// per spec.md §7's SHOULD.
const (
	MaxType       = 0xFFFF
	MaxNameOffset = 0xFFFF
	MaxVlen       = 0xFFFF
)

// Integer encoding bits, spec.md §4.C / §6.
const (
	encNone          uint32 = 0
	encSigned        uint32 = 1 << 0
	encChar          uint32 = 1 << 1
	encBool          uint32 = 1 << 2
	encInvalid       uint32 = 0xFF
)

func infoWord(k Kind, vlen uint16) uint32 {
	return uint32(k)<<24 | uint32(vlen)
}
