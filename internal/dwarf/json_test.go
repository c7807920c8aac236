package dwarf

import "testing"

func TestFromJSONBuildsForestAndResolvesTypeRefs(t *testing.T) {
	doc := []byte(`[
		{
			"tag": "compile_unit",
			"children": [
				{"tag": "base_type", "name": "int", "byte_size": 4, "encoding": "signed"},
				{"tag": "pointer_type", "type_ref": 1}
			]
		}
	]`)

	roots, err := FromJSON(doc)
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	if len(roots) != 1 {
		t.Fatalf("len(roots) = %d, want 1", len(roots))
	}
	cu := roots[0]
	if cu.Tag() != TagCompileUnit {
		t.Fatalf("root tag = %s, want compile_unit", cu.Tag())
	}
	kids := cu.Kids()
	if len(kids) != 2 {
		t.Fatalf("len(children) = %d, want 2", len(kids))
	}

	intDIE := kids[0]
	ptrDIE := kids[1]
	if name, _ := intDIE.Name(); name != "int" {
		t.Errorf("children[0].Name() = %q, want %q", name, "int")
	}
	ref, ok := ptrDIE.TypeRef()
	if !ok || ref != intDIE {
		t.Fatalf("pointer TypeRef() = (%v, %v), want (%v, true)", ref, ok, intDIE)
	}
}

func TestFromJSONForwardTypeRef(t *testing.T) {
	// A member (index 2) referencing a struct declared earlier (index 1)
	// is trivial; what FromJSON must also handle is a type_ref that
	// points *forward* in the flat listing, before that node exists.
	doc := []byte(`[
		{
			"tag": "compile_unit",
			"children": [
				{"tag": "pointer_type", "type_ref": 2},
				{"tag": "structure_type", "name": "S", "byte_size": 8}
			]
		}
	]`)
	roots, err := FromJSON(doc)
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	kids := roots[0].Kids()
	ptrDIE, structDIE := kids[0], kids[1]
	ref, ok := ptrDIE.TypeRef()
	if !ok || ref != structDIE {
		t.Fatalf("forward TypeRef() = (%v, %v), want (%v, true)", ref, ok, structDIE)
	}
}

func TestFromJSONRejectsUnknownTag(t *testing.T) {
	doc := []byte(`[{"tag": "not_a_real_tag"}]`)
	if _, err := FromJSON(doc); err == nil {
		t.Fatal("expected error for unknown tag, got nil")
	}
}

func TestFromJSONRejectsUnknownEncoding(t *testing.T) {
	doc := []byte(`[{"tag": "base_type", "encoding": "not_a_real_encoding"}]`)
	if _, err := FromJSON(doc); err == nil {
		t.Fatal("expected error for unknown encoding, got nil")
	}
}

func TestFromJSONRejectsOutOfRangeTypeRef(t *testing.T) {
	doc := []byte(`[{"tag": "pointer_type", "type_ref": 5}]`)
	if _, err := FromJSON(doc); err == nil {
		t.Fatal("expected error for out-of-range type_ref, got nil")
	}
}

func TestFromJSONRejectsMalformedDocument(t *testing.T) {
	if _, err := FromJSON([]byte(`{not valid json`)); err == nil {
		t.Fatal("expected error for malformed JSON, got nil")
	}
}

func TestFromJSONCarriesDeclarationAndConstValue(t *testing.T) {
	doc := []byte(`[
		{
			"tag": "compile_unit",
			"children": [
				{"tag": "structure_type", "name": "Opaque", "declaration": true},
				{"tag": "enumerator", "name": "Red", "const_value": 0}
			]
		}
	]`)
	roots, err := FromJSON(doc)
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	kids := roots[0].Kids()
	if !kids[0].IsDeclaration() {
		t.Error("expected declaration flag on structure_type")
	}
	if v, ok := kids[1].ConstValue(); !ok || v != 0 {
		t.Errorf("ConstValue() = (%d, %v), want (0, true)", v, ok)
	}
}
