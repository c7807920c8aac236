package btf

import (
	"strings"
	"testing"

	"github.com/jtang613/dwarf2btf/internal/dwarf"
	"github.com/jtang613/dwarf2btf/internal/testdie"
)

// --- boundary-precise checks on the private helpers themselves ---

func TestCheckVlenBoundary(t *testing.T) {
	ctx := NewContext()
	if err := ctx.checkVlen(MaxVlen); err != nil {
		t.Errorf("checkVlen(MaxVlen) = %v, want nil", err)
	}
	if err := ctx.checkVlen(MaxVlen + 1); err != ErrVlenOverflow {
		t.Errorf("checkVlen(MaxVlen+1) = %v, want ErrVlenOverflow", err)
	}
}

func TestAddStringBoundary(t *testing.T) {
	ctx := NewContext()
	ctx.strings.Add("") // the reservation Finish() would make

	// The padding itself starts at offset 1 and is accepted; with its NUL
	// it brings the table's size to MaxNameOffset+1, so the next add
	// lands one past the cap and must be rejected.
	padding := strings.Repeat("a", int(MaxNameOffset)-1)
	if _, err := ctx.addString(padding); err != nil {
		t.Fatalf("addString(padding) = %v, want nil", err)
	}
	if _, err := ctx.addString("x"); err != ErrNameOffsetOverflow {
		t.Fatalf("addString(\"x\") = %v, want ErrNameOffsetOverflow", err)
	}
}

// --- realistic fixtures that actually trigger each sentinel end to end ---

func TestAddCompileUnitRejectsStructVlenOverflow(t *testing.T) {
	intDIE := testdie.BaseType("int", 4, dwarf.EncSigned)
	members := make([]*dwarf.DIE, MaxVlen+1)
	for i := range members {
		members[i] = testdie.Member("f", intDIE, 0)
	}
	structDIE := testdie.Struct("Big", 4, members...)

	ctx := NewContext()
	if err := ctx.AddCompileUnit(testdie.CU(intDIE, structDIE)); err != ErrVlenOverflow {
		t.Fatalf("AddCompileUnit() = %v, want ErrVlenOverflow", err)
	}
}

func TestAddCompileUnitRejectsEnumVlenOverflow(t *testing.T) {
	enumerators := make([]*dwarf.DIE, MaxVlen+1)
	for i := range enumerators {
		enumerators[i] = testdie.Enumerator("V", int64(i))
	}
	enumDIE := testdie.Enum("Big", 4, enumerators...)

	ctx := NewContext()
	if err := ctx.AddCompileUnit(testdie.CU(enumDIE)); err != ErrVlenOverflow {
		t.Fatalf("AddCompileUnit() = %v, want ErrVlenOverflow", err)
	}
}

func TestAddCompileUnitRejectsFuncVlenOverflow(t *testing.T) {
	intDIE := testdie.BaseType("int", 4, dwarf.EncSigned)
	params := make([]*dwarf.DIE, MaxVlen+1)
	for i := range params {
		params[i] = testdie.FormalParameter(intDIE)
	}
	subprog := testdie.Subprogram("f", intDIE, params...)

	ctx := NewContext()
	if err := ctx.AddCompileUnit(testdie.CU(intDIE, subprog)); err != ErrVlenOverflow {
		t.Fatalf("AddCompileUnit() = %v, want ErrVlenOverflow", err)
	}
}

func TestFinishRejectsNameOffsetOverflow(t *testing.T) {
	longDIE := testdie.BaseType(strings.Repeat("a", int(MaxNameOffset)+2), 4, dwarf.EncSigned)
	shortDIE := testdie.BaseType("x", 4, dwarf.EncUnsigned)

	ctx := NewContext()
	if err := ctx.AddCompileUnit(testdie.CU(longDIE, shortDIE)); err != nil {
		t.Fatalf("AddCompileUnit: %v", err)
	}
	if err := ctx.Finish(); err != ErrNameOffsetOverflow {
		t.Fatalf("Finish() = %v, want ErrNameOffsetOverflow", err)
	}
}

func TestAddCompileUnitRejectsTooManyTypes(t *testing.T) {
	children := make([]*dwarf.DIE, MaxType+1)
	for i := range children {
		children[i] = testdie.BaseType("int", 4, dwarf.EncSigned)
	}

	ctx := NewContext()
	if err := ctx.AddCompileUnit(testdie.CU(children...)); err != ErrTooManyTypes {
		t.Fatalf("AddCompileUnit() = %v, want ErrTooManyTypes", err)
	}
}
