package main

// doOrg implements ORG: sets the current PC. Later ORGs reposition the
// logical PC for $ and label values but do not reopen a gap in the
// linear output buffer.
func (a *Assembler) doOrg(p *string) {
	v, ok := a.evalExpr(p)
	if !ok {
		a.errorf("ORG address must not be a forward reference")
		return
	}
	a.addr = v
	a.baseAddr = v
}

// doEqu implements EQU: this line's label (already tentatively bound to
// the current PC by processLine's label scan) has its value replaced by
// the EQU expression. An immediately resolvable expression binds it
// right away; otherwise the expression text is captured for the
// end-of-assembly fixpoint pass (resolveDeferred).
func (a *Assembler) doEqu(p *string) {
	l := a.lastLabel
	if l == nil {
		a.errorf("EQU requires a label")
		return
	}
	start := *p
	v, ok := a.evalExpr(p)
	if ok {
		l.Value = int32(v)
		l.Valid = true
		l.Ref = nil
		return
	}
	text := start[:len(start)-len(*p)]
	a.makeLabelDeferred(l, text)
}

// readQuotedString decodes a '"'- or '\''-delimited string literal,
// expanding the same backslash escapes rdCharacter recognises for
// character literals. Returns the decoded bytes and
// whether the literal was properly terminated.
func readQuotedString(p *string) ([]byte, bool) {
	s := *p
	if len(s) == 0 || (s[0] != '"' && s[0] != '\'') {
		return nil, false
	}
	quote := s[0]
	rest := s[1:]
	var out []byte
	for {
		if len(rest) == 0 {
			return nil, false
		}
		if rest[0] == quote {
			*p = rest[1:]
			return out, true
		}
		if rest[0] == '\\' && len(rest) > 1 {
			switch rest[1] {
			case 'n':
				out = append(out, '\n')
				rest = rest[2:]
			case 't':
				out = append(out, '\t')
				rest = rest[2:]
			case 'r':
				out = append(out, '\r')
				rest = rest[2:]
			case 'a':
				out = append(out, 7)
				rest = rest[2:]
			default:
				if rest[1] >= '0' && rest[1] <= '7' {
					n := 1
					for n < 3 && n+1 < len(rest) && rest[1+n] >= '0' && rest[1+n] <= '7' {
						n++
					}
					var v int
					for i := 0; i < n; i++ {
						v = v*8 + int(rest[1+i]-'0')
					}
					out = append(out, byte(v))
					rest = rest[1+n:]
				} else {
					out = append(out, rest[1])
					rest = rest[2:]
				}
			}
			continue
		}
		out = append(out, rest[0])
		rest = rest[1:]
	}
}

// doDefb implements DEFB/DB/DEFM/DM: a comma-separated list of quoted
// strings (emitted byte for byte, with escape expansion) and/or byte
// expressions.
func (a *Assembler) doDefb(p *string) {
	for {
		s := delspc(*p)
		if len(s) > 0 && (s[0] == '"' || s[0] == '\'') {
			data, ok := readQuotedString(&s)
			if !ok {
				a.errorf("unterminated string")
				*p = s
				return
			}
			a.emitBytes(data)
			*p = s
		} else {
			a.addReference(RefABSB, &s, ',', 0)
			*p = s
		}
		s = delspc(*p)
		if len(s) > 0 && s[0] == ',' {
			*p = s[1:]
			continue
		}
		*p = s
		return
	}
}

// doDefw implements DEFW/DW: a comma-separated list of little-endian
// word expressions.
func (a *Assembler) doDefw(p *string) {
	for {
		s := delspc(*p)
		a.addReference(RefABSW, &s, ',', 0)
		*p = s
		s = delspc(*p)
		if len(s) > 0 && s[0] == ',' {
			*p = s[1:]
			continue
		}
		*p = s
		return
	}
}

// doDefs implements DEFS/DS: count, [fill]. count must be immediately
// known (it sizes the reservation); fill may itself be a forward
// reference, queued the same way a DEFB byte would be. Omitting fill
// defaults to zero and produces one compact listing row rather than one
// row per byte.
func (a *Assembler) doDefs(p *string) {
	count, ok := a.evalExpr(p)
	if !ok {
		a.errorf("DEFS count must not be a forward reference")
		return
	}
	if count < 0 {
		a.errorf("DEFS count must not be negative")
		return
	}
	s := delspc(*p)
	special := " 00..."
	if len(s) > 0 && s[0] == ',' {
		s = s[1:]
		a.addReference(RefDS, &s, 0, count)
		special = " xx..."
	} else {
		for i := 0; i < count; i++ {
			a.bin = append(a.bin, 0)
		}
		a.addr += count
	}
	*p = s
	a.recordCompactListLine(special, a.curLine)
}
