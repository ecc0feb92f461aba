package main

import "testing"

func newTestAssembler() *Assembler {
	return newAssembler(&Options{})
}

func evalString(t *testing.T, a *Assembler, expr string) (int, bool) {
	t.Helper()
	s := expr
	return a.evalExpr(&s)
}

func TestRdNumberBases(t *testing.T) {
	cases := []struct {
		expr string
		want int
	}{
		{"0x1A", 0x1A},
		{"1Ah", 0x1A},
		{"1AH", 0x1A},
		{"%1011", 0b1011},
		{"1011b", 0b1011},
		{"17o", 0o17},
		{"17q", 0o17},
		{"10d", 10},
		{"017", 0o17},
		{"42", 42},
		{"0", 0},
	}
	for _, c := range cases {
		a := newTestAssembler()
		got, ok := evalString(t, a, c.expr)
		if !ok || got != c.want {
			t.Errorf("eval(%q) = %d, %v; want %d, true", c.expr, got, ok, c.want)
		}
	}
}

func TestRdOtherBaseNumber(t *testing.T) {
	cases := []struct {
		expr string
		want int
	}{
		{"&h1A", 0x1A},
		{"&o17", 0o17},
		{"&b1011", 0b1011},
		// @<c> takes a single base character: '1'-'9' give bases 2-10,
		// 'a'-'z' give bases 1-26
		{"@1101", 0b101},
		{"@9377", 377},
		{"@g16", 13},
	}
	for _, c := range cases {
		a := newTestAssembler()
		got, ok := evalString(t, a, c.expr)
		if !ok || got != c.want {
			t.Errorf("eval(%q) = %d, %v; want %d, true", c.expr, got, ok, c.want)
		}
	}
}

func TestRdCharacter(t *testing.T) {
	cases := []struct {
		expr string
		want int
	}{
		{"'A'", 'A'},
		{"'\\n'", '\n'},
		{"'\\t'", '\t'},
		{"'\\''", '\''},
	}
	for _, c := range cases {
		a := newTestAssembler()
		got, ok := evalString(t, a, c.expr)
		if !ok || got != c.want {
			t.Errorf("eval(%q) = %d, %v; want %d, true", c.expr, got, ok, c.want)
		}
	}
}

func TestOperatorPrecedence(t *testing.T) {
	cases := []struct {
		expr string
		want int
	}{
		{"2+3*4", 14},
		{"(2+3)*4", 20},
		{"1 ? 2 : 3", 2},
		{"0 ? 2 : 3", 3},
		{"1 | 2 & 3", 3},
		{"1 ^ 3", 2},
		{"1 == 1", 1},
		{"1 != 1", 0},
		// == groups rightward: 1 == (2 == 0), not (1 == 2) == 0
		{"1 == 2 == 0", 0},
		{"2 < 3", 1},
		{"3 <= 3", 1},
		{"1 << 4", 16},
		{"256 >> 4", 16},
		{"-5 + 3", -2},
		{"~0", -1},
		{"!0", 1},
		{"!5", 0},
	}
	for _, c := range cases {
		a := newTestAssembler()
		got, ok := evalString(t, a, c.expr)
		if !ok || got != c.want {
			t.Errorf("eval(%q) = %d, %v; want %d, true", c.expr, got, ok, c.want)
		}
	}
}

func TestForwardReferenceUnresolved(t *testing.T) {
	a := newTestAssembler()
	_, ok := evalString(t, a, "undefined_label")
	if ok {
		t.Fatalf("expected forward reference to an unknown label to be unresolved")
	}
}

func TestLabelExistsTest(t *testing.T) {
	a := newTestAssembler()
	a.defineLabel("known", 5)
	got, ok := evalString(t, a, "?known")
	if !ok || got != 1 {
		t.Fatalf("?known = %d, %v; want 1, true", got, ok)
	}
	got, ok = evalString(t, a, "?missing")
	if !ok || got != 0 {
		t.Fatalf("?missing = %d, %v; want 0, true", got, ok)
	}
}

func TestDollarIsLineStartPC(t *testing.T) {
	a := newTestAssembler()
	a.baseAddr = 0x8000
	got, ok := evalString(t, a, "$")
	if !ok || got != 0x8000 {
		t.Fatalf("$ = %d, %v; want %d, true", got, ok, 0x8000)
	}
}

func TestDollarHexLiteral(t *testing.T) {
	a := newTestAssembler()
	a.baseAddr = 0x8000
	got, ok := evalString(t, a, "$1A")
	if !ok || got != 0x1A {
		t.Fatalf("$1A = %d, %v; want %d, true", got, ok, 0x1A)
	}
}
