package btf

import "github.com/jtang613/dwarf2btf/internal/dwarf"

// ClassifyKind maps a DIE to the BTF kind it would produce, or KindUnkn
// if the DIE is not representable. This is a pure function: it never
// touches the context, the id map, or the string table.
//
// REDESIGN FLAG (spec.md §9 item 2): the reference translator always
// returns UNKN for typedef and subprogram, with a TODO to extend
// classification later. Table 4.B in the spec already defines full
// shape/complete rules for TYPEDEF and FUNC, so this classifier
// implements that extension: typedef maps to TYPEDEF (a reference
// kind, same row as PTR/CONST/VOLATILE/RESTRICT), a subprogram with a
// concrete body maps to FUNC, and a standalone subroutine_type maps to
// FUNC_PROTO. A subprogram that is only a declaration (no body, i.e.
// DW_AT_declaration present) still classifies UNKN: there is nothing
// to call param/return types against. Standalone array_type (not
// anchored to a variable) stays UNKN, preserving spec.md §9 item 4's
// variable-anchored-array behavior as the sole path to an ARRAY entry.
func ClassifyKind(die *dwarf.DIE) Kind {
	switch die.Tag() {
	case dwarf.TagBaseType:
		enc, ok := die.Encoding()
		if !ok {
			return KindUnkn
		}
		switch enc {
		case dwarf.EncBoolean, dwarf.EncSigned, dwarf.EncSignedChar,
			dwarf.EncUnsigned, dwarf.EncUnsignedChar:
			return KindInt
		default:
			return KindUnkn
		}
	case dwarf.TagConstType:
		return KindConst
	case dwarf.TagPointerType:
		return KindPtr
	case dwarf.TagRestrictType:
		return KindRestrict
	case dwarf.TagVolatileType:
		return KindVolatile
	case dwarf.TagStructureType, dwarf.TagClassType:
		if die.IsDeclaration() {
			return KindFwd
		}
		return KindStruct
	case dwarf.TagUnionType:
		if die.IsDeclaration() {
			return KindFwd
		}
		return KindUnion
	case dwarf.TagEnumerationType:
		return KindEnum
	case dwarf.TagTypedef:
		return KindTypedef
	case dwarf.TagSubprogram:
		if die.IsDeclaration() {
			return KindUnkn
		}
		return KindFunc
	case dwarf.TagSubroutineType:
		return KindFuncProto
	case dwarf.TagVariable:
		if typeDIE, ok := die.TypeRef(); ok && typeDIE.Tag() == dwarf.TagArrayType {
			return KindArray
		}
		return KindUnkn
	case dwarf.TagArrayType, dwarf.TagCompileUnit, dwarf.TagFormalParameter,
		dwarf.TagInlinedSubroutine, dwarf.TagLexicalBlock:
		return KindUnkn
	default:
		return KindUnkn
	}
}

// ShouldSkip reports whether die must not be registered as a type
// entry: either it is itself unclassifiable, or it is a reference kind
// whose pointee is unsupported. REDESIGN FLAG (spec.md §9 item 5): a
// PTR whose pointee is simply absent (a genuine `void *`) is no longer
// treated as skippable; it emits PTR{type: 0} instead. A PTR whose
// pointee is present but itself unsupported is still skipped, so the
// pointer collapses the same way a struct member referencing an
// unsupported type collapses to void.
func ShouldSkip(die *dwarf.DIE) bool {
	kind := ClassifyKind(die)
	if kind == KindUnkn {
		return true
	}
	switch kind {
	case KindPtr:
		referent, ok := die.TypeRef()
		if !ok {
			return false
		}
		return ShouldSkip(referent)
	case KindConst, KindVolatile, KindRestrict, KindTypedef:
		referent, ok := die.TypeRef()
		if !ok {
			return true
		}
		return ShouldSkip(referent)
	default:
		return false
	}
}

// encodingFor maps a DWARF base-type encoding to the BTF INT encoding
// word used both by classification and by Int.shape.
func encodingFor(enc dwarf.Encoding) uint32 {
	switch enc {
	case dwarf.EncBoolean:
		return encBool
	case dwarf.EncSigned:
		return encSigned
	case dwarf.EncSignedChar:
		return encChar
	case dwarf.EncUnsigned:
		return encNone
	case dwarf.EncUnsignedChar:
		return encChar
	default:
		return encInvalid
	}
}
