package main

// refByteWidth reports how many bytes of output a reference of the given
// kind reserves immediately, before its value is known. RefBSR reserves
// none of its own: it patches a bit field inside an opcode byte that
// encoder.go has already written.
func refByteWidth(kind RefKind, count int) int {
	switch kind {
	case RefABSW:
		return 2
	case RefDS:
		return count
	default:
		return 1
	}
}

// parseDeferrable evaluates the expression at *p, advancing *p past it,
// and also returns the verbatim source text it consumed. When the
// expression isn't fully resolvable yet (ok is false) that text is what
// gets re-parsed, unchanged, during the final patch pass.
func (a *Assembler) parseDeferrable(p *string) (value int, text string, ok bool) {
	start := *p
	v, ok := a.evalExpr(p)
	text = start[:len(start)-len(*p)]
	return v, text, ok
}

func (a *Assembler) curLineNo() int {
	if fr := a.currentFrame(); fr != nil {
		return fr.Line
	}
	return 0
}

// patchValue writes a reference's resolved value into the output buffer.
// pcAfter is only meaningful for RefRELB (the PC the displacement is
// relative to).
func (a *Assembler) patchValue(kind RefKind, outPos, value, count, pcAfter int) {
	switch kind {
	case RefBSR:
		if value < 0 || value > 7 {
			a.errorf("incorrect BIT/SET/RES value %d", value)
			return
		}
		a.bin[outPos] = (a.bin[outPos] &^ 0x38) | byte((value&7)<<3)
	case RefRST:
		if value < 0 || value > 0x38 || value%8 != 0 {
			a.errorf("invalid RST target 0x%02x", value)
			return
		}
		a.bin[outPos] = 0xC7 | byte(value)
	case RefABSW:
		a.bin[outPos] = byte(value)
		a.bin[outPos+1] = byte(value >> 8)
	case RefABSB:
		a.bin[outPos] = byte(value)
	case RefRELB:
		disp := value - pcAfter
		if disp < -128 || disp > 127 {
			a.errorf("relative jump target out of range (%d)", disp)
		}
		a.bin[outPos] = byte(int8(disp))
	case RefDS:
		for i := 0; i < count; i++ {
			a.bin[outPos+i] = byte(value)
		}
	}
}

// addReference reserves refByteWidth(kind, count) placeholder bytes at
// the current output position, advances the PC, and either patches the
// value immediately (if every label the expression touched is already
// known) or queues a Reference for the final pass. It returns the
// provisional value (0 for anything still deferred).
func (a *Assembler) addReference(kind RefKind, p *string, delim byte, count int) int {
	value, text, ok := a.parseDeferrable(p)
	width := refByteWidth(kind, count)
	outPos := len(a.bin)
	for i := 0; i < width; i++ {
		a.bin = append(a.bin, 0)
	}
	a.addr += width
	pcAfter := a.addr

	if ok {
		a.patchValue(kind, outPos, value, count, pcAfter)
		return value
	}

	a.refs = append(a.refs, &Reference{
		Kind: kind, OutPos: outPos,
		Addr: pcAfter, Line: a.curLineNo(), File: a.curFile,
		Comma: a.comma, Expr: text, Delim: delim, Count: count,
	})
	return value
}

// addBitReference patches (or queues a patch for) the 3-bit field inside
// an already-written CB-prefixed opcode byte at outPos; used by BIT/SET/
// RES n,r whose bit index n may itself be a forward reference.
func (a *Assembler) addBitReference(outPos int, p *string, delim byte) int {
	value, text, ok := a.parseDeferrable(p)
	if ok {
		a.patchValue(RefBSR, outPos, value, 0, 0)
		return value
	}
	a.refs = append(a.refs, &Reference{
		Kind: RefBSR, OutPos: outPos,
		Line: a.curLineNo(), File: a.curFile, Comma: a.comma,
		Expr: text, Delim: delim,
	})
	return value
}

// patchAll runs the final pass over every queued deferred reference, now
// that every label in the source has been seen. Must run after
// resolveDeferred, so that EQU chains referenced by these expressions
// have already converged.
func (a *Assembler) patchAll() {
	for _, ref := range a.refs {
		if ref.Done {
			continue
		}
		s := ref.Expr
		v, ok := a.evalExpr(&s)
		if !ok {
			name := "?"
			if ref.File >= 0 && ref.File < len(a.infiles) {
				name = a.infiles[ref.File].Name
			}
			a.errorf("%s:%d: unresolved reference %q", name, ref.Line, ref.Expr)
			continue
		}
		a.patchValue(ref.Kind, ref.OutPos, v, ref.Count, ref.Addr)
	}
}
