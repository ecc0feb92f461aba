package main

import "strings"

// mnemonics is the ordered keyword list recognised by the assembler.
var mnemonics = []string{
	"call", "cpdr", "cpir", "djnz", "halt", "indr", "inir", "lddr", "ldir",
	"otdr", "otir", "outd", "outi", "push", "reti", "retn", "rlca", "rrca",
	"defb", "defw", "defs", "defm", "adc", "add", "and", "bit", "ccf",
	"cpd", "cpi", "cpl", "daa", "dec", "equ", "exx", "inc", "ind", "ini",
	"ldd", "ldi", "neg", "nop", "out", "pop", "res", "ret", "rla", "rlc",
	"rld", "rra", "rrc", "rrd", "rst", "sbc", "scf", "set", "sla", "sll",
	"sli", "sra", "srl", "sub", "xor", "org", "cp", "di", "ei", "ex",
	"im", "in", "jp", "jr", "ld", "or", "rl", "rr", "db", "dw", "ds",
	"dm", "include", "bininclude", "if", "else", "endif", "end", "macro",
	"endm",
}

func isAlnum(c byte) bool {
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

// isWordChar is the identifier-character set used for keyword boundary
// checks: letters, digits and underscore (a leading '.' or '?' marks a
// label as scope-local or an existence test, but neither continues a
// word for boundary purposes).
func isWordChar(c byte) bool {
	return isAlnum(c) || c == '_'
}

func isIdentStart(c byte) bool {
	return isAlnum(c) || c == '_' || c == '.' || c == '?'
}

func isIdentChar(c byte) bool {
	return isAlnum(c) || c == '_' || c == '.'
}

func isHexDigit(c byte) bool {
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F'
}

// delspc skips leading spaces and tabs.
func delspc(s string) string {
	i := 0
	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	return s[i:]
}

// readIdent reads a maximal identifier (label/mnemonic/macro-parameter
// name) starting at s, returning the identifier and the remaining tail.
func readIdent(s string) (string, string) {
	i := 0
	for i < len(s) && isIdentChar(s[i]) {
		i++
	}
	return s[:i], s[i:]
}

// matchKeyword reports whether s begins with kw, case-insensitively,
// and that the match ends on a word boundary: either kw's own last byte
// is not a word character, or the byte following the match in s is not.
// The first alternative is what lets "(ix" and "(iy" match as keywords
// despite being followed by more characters (the displacement).
func matchKeyword(s, kw string) bool {
	if len(s) < len(kw) {
		return false
	}
	if !strings.EqualFold(s[:len(kw)], kw) {
		return false
	}
	rest := s[len(kw):]
	if len(rest) == 0 {
		return true
	}
	if !isWordChar(rest[0]) || !isWordChar(kw[len(kw)-1]) {
		return true
	}
	return false
}

// matchAny scans list in order for a keyword matching the text at *p;
// on success it advances *p past the match (and past any intervening
// comma, per the comma>1 rule below) and returns 1+the matching index
// (0 means not found).
//
// Once the second operand of an instruction is being read (comma > 1),
// a leading comma before the keyword is silently consumed as part of
// the lookup, since by that point the comma has already served its role
// as an operand separator.
func (a *Assembler) matchAny(p *string, list []string) int {
	s := delspc(*p)
	if a.comma > 1 && len(s) > 0 && s[0] == ',' {
		s = delspc(s[1:])
	}
	for i, kw := range list {
		if matchKeyword(s, kw) {
			*p = s[len(kw):]
			return i + 1
		}
	}
	return 0
}

// rdComma requires and consumes a comma, incrementing the comma counter
// that gates matchAny's comma-skip rule and that operand recognizers use
// to tell which operand position they are reading.
func (a *Assembler) rdComma(p *string) bool {
	s := delspc(*p)
	if len(s) == 0 || s[0] != ',' {
		a.errorf("',' expected")
		return false
	}
	a.comma++
	*p = delspc(s[1:])
	return true
}
