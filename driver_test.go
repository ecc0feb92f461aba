package main

import "testing"

func TestIfElseEndifSelectsBranch(t *testing.T) {
	src := "if 1\nnop\nelse\nhalt\nendif\n"
	a := assembleSource(t, src)
	if a.errors != 0 {
		t.Fatalf("unexpected errors: %d", a.errors)
	}
	assertBin(t, a, 0x00)
}

func TestIfFalseTakesElseBranch(t *testing.T) {
	src := "if 0\nnop\nelse\nhalt\nendif\n"
	a := assembleSource(t, src)
	if a.errors != 0 {
		t.Fatalf("unexpected errors: %d", a.errors)
	}
	assertBin(t, a, 0x76)
}

func TestElseWithoutIfIsError(t *testing.T) {
	a := assembleSource(t, "else\n")
	if a.errors == 0 {
		t.Fatalf("expected ELSE without IF to be reported")
	}
}

func TestEndifWithoutIfIsError(t *testing.T) {
	a := assembleSource(t, "endif\n")
	if a.errors == 0 {
		t.Fatalf("expected ENDIF without IF to be reported")
	}
}

func TestUnclosedIfAtEOFIsError(t *testing.T) {
	a := assembleSource(t, "if 1\nnop\n")
	if a.errors == 0 {
		t.Fatalf("expected an unclosed IF at EOF to be reported")
	}
}

func TestMacroExpansionSubstitutesArguments(t *testing.T) {
	src := "setreg: macro r, n\nld r, n\nendm\nsetreg a, 7\nsetreg b, 9\n"
	a := assembleSource(t, src)
	if a.errors != 0 {
		t.Fatalf("unexpected errors: %d", a.errors)
	}
	assertBin(t, a, 0x3E, 0x07, 0x06, 0x09)
}

func TestMacroNameDoesNotAppearAsLabel(t *testing.T) {
	src := "setreg: macro r, n\nld r, n\nendm\n"
	a := assembleSource(t, src)
	if _, ok := a.globals["setreg"]; ok {
		t.Fatalf("macro name %q leaked into the label table", "setreg")
	}
}

func TestScopeLocalLabelsDoNotLeakAcrossFrames(t *testing.T) {
	src := ".loop: nop\njr .loop\n"
	a := assembleSource(t, src)
	if a.errors != 0 {
		t.Fatalf("unexpected errors: %d", a.errors)
	}
	// jr .loop targets the nop at address 0; the displacement byte
	// relative to the PC after the 2-byte jr instruction (addr 3) is
	// 0 - 3 = -3.
	disp := int8(-3)
	assertBin(t, a, 0x00, 0x18, byte(disp))
}

func TestDuplicateLabelIsError(t *testing.T) {
	a := assembleSource(t, "foo: nop\nfoo: nop\n")
	if a.errors == 0 {
		t.Fatalf("expected redefining a label to be reported")
	}
}

func TestEndSkipsRemainderOfFile(t *testing.T) {
	a := assembleSource(t, "nop\nend\nhalt\n")
	if a.errors != 0 {
		t.Fatalf("unexpected errors: %d", a.errors)
	}
	assertBin(t, a, 0x00)
}

func TestDuplicateMacroNameRejected(t *testing.T) {
	src := "m: macro x\nld a, x\nendm\nm: macro y\nld a, y\nendm\n"
	a := assembleSource(t, src)
	if a.errors == 0 {
		t.Fatalf("expected a duplicate macro definition to be rejected")
	}
}

func TestScopeLocalLabelVisibleFromMacroFrame(t *testing.T) {
	src := ".x: nop\nm: macro\njr .x\nendm\nm\n"
	a := assembleSource(t, src)
	if a.errors != 0 {
		t.Fatalf("unexpected errors: %d", a.errors)
	}
	disp := int8(-3)
	assertBin(t, a, 0x00, 0x18, byte(disp))
}

func TestSyntaxErrorOnUnknownMnemonic(t *testing.T) {
	a := assembleSource(t, "bogusinstr 1, 2\n")
	if a.errors == 0 {
		t.Fatalf("expected an unrecognised mnemonic to be reported")
	}
}
