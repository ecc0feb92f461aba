package main

import (
	"strconv"
	"strings"
)

// digitVal reports the value of c as a digit in bases up to 36.
func digitVal(c byte) (int, bool) {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0'), true
	case c >= 'a' && c <= 'z':
		return int(c-'a') + 10, true
	case c >= 'A' && c <= 'Z':
		return int(c-'A') + 10, true
	}
	return 0, false
}

// rdBaseRun reads the maximal run of digits valid in base starting at s,
// returning the value and how many bytes it consumed.
func rdBaseRun(s string, base int) (int, int) {
	v, i := 0, 0
	for i < len(s) {
		d, ok := digitVal(s[i])
		if !ok || d >= base {
			break
		}
		v = v*base + d
		i++
	}
	return v, i
}

// rdNumber reads a numeric literal beginning with a decimal digit: a
// 0x/0X hex prefix, or a run of alphanumerics whose base is decided by
// the run's last character (h/H hex, b/B binary, o/O/q/Q octal, d/D
// decimal; no suffix means decimal, or octal when the run starts with
// 0). The whole run is scanned first and the base applied in arrears;
// leading '%' reads a binary literal. Returns ok=false, with *p
// untouched, if s does not begin with a digit or %.
func rdNumber(p *string) (int, bool) {
	s := *p
	if len(s) == 0 {
		return 0, false
	}

	if s[0] == '%' {
		v, n := rdBaseRun(s[1:], 2)
		if n == 0 {
			return 0, false
		}
		*p = s[1+n:]
		return v, true
	}

	if s[0] < '0' || s[0] > '9' {
		return 0, false
	}

	if len(s) > 1 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		v, n := rdBaseRun(s[2:], 16)
		if n == 0 {
			return 0, false
		}
		*p = s[2+n:]
		return v, true
	}

	i := 0
	for i < len(s) && isAlnum(s[i]) {
		i++
	}
	run := s[:i]
	base := 10
	digits := run
	switch run[len(run)-1] {
	case 'h', 'H':
		base, digits = 16, run[:len(run)-1]
	case 'b', 'B':
		base, digits = 2, run[:len(run)-1]
	case 'o', 'O', 'q', 'Q':
		base, digits = 8, run[:len(run)-1]
	case 'd', 'D':
		base, digits = 10, run[:len(run)-1]
	default:
		if run[0] == '0' && len(run) > 1 {
			base = 8
		}
	}
	if digits == "" {
		return 0, false
	}
	v, n := rdBaseRun(digits, base)
	if n != len(digits) {
		return 0, false
	}
	*p = s[i:]
	return v, true
}

// rdOtherBaseNumber reads the alternate base syntaxes: &hNN/&oNN/&bNN,
// and @<c><digits> where the single base character c maps '1'-'9' to
// bases 2-10 and 'a'-'z' to bases 1-26.
func rdOtherBaseNumber(p *string) (int, bool) {
	s := *p
	if len(s) >= 2 && s[0] == '&' {
		var base int
		switch s[1] {
		case 'h', 'H':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		default:
			return 0, false
		}
		v, n := rdBaseRun(s[2:], base)
		if n == 0 {
			return 0, false
		}
		*p = s[2+n:]
		return v, true
	}
	if len(s) >= 2 && s[0] == '@' {
		c := s[1]
		var base int
		switch {
		case c >= '1' && c <= '9':
			base = int(c-'0') + 1
		case c >= 'a' && c <= 'z':
			base = int(c-'a') + 1
		case c >= 'A' && c <= 'Z':
			base = int(c-'A') + 1
		default:
			return 0, false
		}
		v, n := rdBaseRun(s[2:], base)
		if n == 0 {
			return 0, false
		}
		*p = s[2+n:]
		return v, true
	}
	return 0, false
}

// rdCharacter reads a 'c' or '\x' character literal and returns its
// numeric value. Escapes: \n=10, \r=13, \t=9, \a=7, \<1-3 octal digits>,
// and \<any other char> passes through literally.
func rdCharacter(p *string) (int, bool) {
	s := *p
	if len(s) < 3 || s[0] != '\'' {
		return 0, false
	}
	if s[1] == '\\' {
		rest := s[2:]
		var v int
		var consumed int
		switch {
		case len(rest) > 0 && rest[0] == 'n':
			v, consumed = '\n', 1
		case len(rest) > 0 && rest[0] == 't':
			v, consumed = '\t', 1
		case len(rest) > 0 && rest[0] == 'r':
			v, consumed = '\r', 1
		case len(rest) > 0 && rest[0] == 'a':
			v, consumed = 7, 1
		case len(rest) > 0 && rest[0] >= '0' && rest[0] <= '7':
			n := 1
			for n < 3 && n < len(rest) && rest[n] >= '0' && rest[n] <= '7' {
				n++
			}
			o, _ := strconv.ParseInt(rest[:n], 8, 64)
			v, consumed = int(o), n
		case len(rest) > 0:
			v, consumed = int(rest[0]), 1
		default:
			return 0, false
		}
		tail := rest[consumed:]
		if len(tail) == 0 || tail[0] != '\'' {
			return 0, false
		}
		*p = tail[1:]
		return v, true
	}
	if s[2] != '\'' {
		return 0, false
	}
	*p = s[3:]
	return int(s[1]), true
}

// lookupLabelValue resolves a label name against the active scope (the
// current frame's local map for dot-prefixed names) then the global
// table. Unknown names get an invalid placeholder entry created on the
// spot, so a later definition can fill it in.
func (a *Assembler) lookupLabelValue(name string) (*Label, bool) {
	if strings.HasPrefix(name, ".") {
		// walk from the innermost frame outward; a miss everywhere plants
		// the placeholder in the innermost frame, where a later
		// definition at this scope will find it.
		for i := len(a.stack) - 1; i >= 0; i-- {
			if l, ok := a.stack[i].Labels[name]; ok {
				return l, l.Valid && !l.Busy
			}
		}
		if fr := a.currentFrame(); fr != nil {
			l := &Label{Name: name}
			fr.Labels[name] = l
			return l, false
		}
	}
	if l, ok := a.globals[name]; ok {
		return l, l.Valid && !l.Busy
	}
	l := &Label{Name: name}
	a.globals[name] = l
	a.globalOrder = append(a.globalOrder, name)
	return l, false
}

// rdValue is the base of the precedence ladder: numeric literals in every
// supported base, character literals, $ (current PC, unless immediately
// followed by a hex digit in which case it is the start of a $-prefixed
// hex literal), ?name label-exists tests, parenthesised subexpressions,
// and bare label references.
func (a *Assembler) rdValue(p *string, ok *bool) int {
	s := delspc(*p)

	if len(s) > 0 && s[0] == '$' {
		if len(s) > 1 && isHexDigit(s[1]) {
			i := 1
			for i < len(s) && isHexDigit(s[i]) {
				i++
			}
			v, _ := strconv.ParseInt(s[1:i], 16, 64)
			*p = s[i:]
			return int(v)
		}
		*p = s[1:]
		return a.baseAddr
	}

	if v, got := rdOtherBaseNumber(&s); got {
		*p = s
		return v
	}
	if v, got := rdNumber(&s); got {
		*p = s
		return v
	}
	if v, got := rdCharacter(&s); got {
		*p = s
		return v
	}

	if len(s) > 0 && s[0] == '?' {
		name, rest := readIdent(s[1:])
		if name == "" {
			a.errorf("label name expected after '?'")
			*p = rest
			return 0
		}
		_, found := a.lookupLabelExists(name)
		*p = rest
		if found {
			return 1
		}
		return 0
	}

	if len(s) > 0 && s[0] == '(' {
		inner := s[1:]
		v := a.rdExpr(&inner, ok)
		inner = delspc(inner)
		if len(inner) == 0 || inner[0] != ')' {
			a.errorf("')' expected")
		} else {
			inner = inner[1:]
		}
		*p = inner
		return v
	}

	if len(s) > 0 && isIdentStart(s[0]) {
		name, rest := readIdent(s)
		lbl, resolved := a.lookupLabelValue(name)
		*p = rest
		if !resolved {
			*ok = false
			return 0
		}
		return int(lbl.Value)
	}

	a.errorf("value expected")
	*p = s
	return 0
}

// lookupLabelExists reports whether name is already a known, valid label,
// without creating a placeholder entry (used by the ?name test, which
// must not itself conjure the label into existence).
func (a *Assembler) lookupLabelExists(name string) (*Label, bool) {
	if strings.HasPrefix(name, ".") {
		for i := len(a.stack) - 1; i >= 0; i-- {
			if l, ok := a.stack[i].Labels[name]; ok {
				return l, l.Valid
			}
		}
		return nil, false
	}
	l, ok := a.globals[name]
	return l, ok && l.Valid
}

func (a *Assembler) rdFactor(p *string, ok *bool) int {
	s := delspc(*p)
	if len(s) > 0 && (s[0] == '-' || s[0] == '+' || s[0] == '~' || s[0] == '!') {
		op := s[0]
		s = s[1:]
		v := a.rdFactor(&s, ok)
		*p = s
		switch op {
		case '-':
			return -v
		case '~':
			return ^v
		case '!':
			if v == 0 {
				return 1
			}
			return 0
		default:
			return v
		}
	}
	return a.rdValue(p, ok)
}

func (a *Assembler) rdTerm(p *string, ok *bool) int {
	v := a.rdFactor(p, ok)
	for {
		s := delspc(*p)
		if len(s) == 0 || (s[0] != '*' && s[0] != '/' && s[0] != '%') {
			*p = s
			return v
		}
		op := s[0]
		s = s[1:]
		rhs := a.rdFactor(&s, ok)
		*p = s
		switch op {
		case '*':
			v *= rhs
		case '/':
			if rhs != 0 {
				v /= rhs
			} else {
				a.errorf("division by zero")
			}
		case '%':
			if rhs != 0 {
				v %= rhs
			}
		}
	}
}

func (a *Assembler) rdExprAdd(p *string, ok *bool) int {
	v := a.rdTerm(p, ok)
	for {
		s := delspc(*p)
		if len(s) == 0 || (s[0] != '+' && s[0] != '-') {
			*p = s
			return v
		}
		op := s[0]
		s = s[1:]
		rhs := a.rdTerm(&s, ok)
		*p = s
		if op == '+' {
			v += rhs
		} else {
			v -= rhs
		}
	}
}

func (a *Assembler) rdExprShift(p *string, ok *bool) int {
	v := a.rdExprAdd(p, ok)
	for {
		s := delspc(*p)
		if strings.HasPrefix(s, "<<") {
			s = s[2:]
			rhs := a.rdExprAdd(&s, ok)
			*p = s
			v <<= uint(rhs)
			continue
		}
		if strings.HasPrefix(s, ">>") {
			s = s[2:]
			rhs := a.rdExprAdd(&s, ok)
			*p = s
			v >>= uint(rhs)
			continue
		}
		*p = s
		return v
	}
}

// rdExprRel takes one relational step then recurses on the right, the
// same shape the lower levels use; "a < b < c" therefore reads as
// "a < (b < c)".
func (a *Assembler) rdExprRel(p *string, ok *bool) int {
	v := a.rdExprShift(p, ok)
	s := delspc(*p)
	var op string
	switch {
	case strings.HasPrefix(s, "<="):
		op = "<="
	case strings.HasPrefix(s, ">="):
		op = ">="
	case strings.HasPrefix(s, "<") && !strings.HasPrefix(s, "<<"):
		op = "<"
	case strings.HasPrefix(s, ">") && !strings.HasPrefix(s, ">>"):
		op = ">"
	default:
		*p = s
		return v
	}
	s = s[len(op):]
	rhs := a.rdExprRel(&s, ok)
	*p = s
	return boolToInt(relCompare(op, v, rhs))
}

func relCompare(op string, a, b int) bool {
	switch op {
	case "<":
		return a < b
	case ">":
		return a > b
	case "<=":
		return a <= b
	case ">=":
		return a >= b
	}
	return false
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// rdExprEqual, rdExprAnd, rdExprXor and rdExprOr all recurse on their
// own level for the right operand rather than looping, so each of these
// operators groups rightward.
func (a *Assembler) rdExprEqual(p *string, ok *bool) int {
	v := a.rdExprRel(p, ok)
	s := delspc(*p)
	var op string
	switch {
	case strings.HasPrefix(s, "=="):
		op = "=="
	case strings.HasPrefix(s, "!="):
		op = "!="
	default:
		*p = s
		return v
	}
	s = s[2:]
	rhs := a.rdExprEqual(&s, ok)
	*p = s
	if op == "==" {
		return boolToInt(v == rhs)
	}
	return boolToInt(v != rhs)
}

func (a *Assembler) rdExprAnd(p *string, ok *bool) int {
	v := a.rdExprEqual(p, ok)
	s := delspc(*p)
	if len(s) == 0 || s[0] != '&' || strings.HasPrefix(s, "&&") {
		*p = s
		return v
	}
	s = s[1:]
	rhs := a.rdExprAnd(&s, ok)
	*p = s
	return v & rhs
}

func (a *Assembler) rdExprXor(p *string, ok *bool) int {
	v := a.rdExprAnd(p, ok)
	s := delspc(*p)
	if len(s) == 0 || s[0] != '^' {
		*p = s
		return v
	}
	s = s[1:]
	rhs := a.rdExprXor(&s, ok)
	*p = s
	return v ^ rhs
}

func (a *Assembler) rdExprOr(p *string, ok *bool) int {
	v := a.rdExprXor(p, ok)
	s := delspc(*p)
	if len(s) == 0 || s[0] != '|' || strings.HasPrefix(s, "||") {
		*p = s
		return v
	}
	s = s[1:]
	rhs := a.rdExprOr(&s, ok)
	*p = s
	return v | rhs
}

// rdExpr is the top of the ladder: the ternary a ? b : c, otherwise
// falling straight through to the bitwise-or level.
func (a *Assembler) rdExpr(p *string, ok *bool) int {
	v := a.rdExprOr(p, ok)
	s := delspc(*p)
	if len(s) == 0 || s[0] != '?' {
		*p = s
		return v
	}
	s = s[1:]
	thenVal := a.rdExpr(&s, ok)
	s = delspc(s)
	if len(s) == 0 || s[0] != ':' {
		a.errorf("':' expected in ternary expression")
		*p = s
		return v
	}
	s = s[1:]
	elseVal := a.rdExpr(&s, ok)
	*p = s
	if v != 0 {
		return thenVal
	}
	return elseVal
}

// evalExpr evaluates an expression starting at *p and reports whether
// every label it referenced was already resolved. The returned value is
// a best-effort result (placeholders read as 0) usable immediately when
// ok is true, or as a provisional value when the caller is about to
// capture the expression text into a deferred Reference.
func (a *Assembler) evalExpr(p *string) (int, bool) {
	ok := true
	v := a.rdExpr(p, &ok)
	return v, ok
}
