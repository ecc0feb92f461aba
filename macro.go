package main

import "strings"

// beginMacroDef starts recording a new macro body. name has already
// been read as this line's label and is about to be unlinked from the
// symbol table: a label that turns into a macro name never appears in
// the label file.
func (a *Assembler) beginMacroDef(name string, p *string) {
	if name == "" {
		a.errorf("MACRO requires a name")
		return
	}
	if a.definingMacro != nil {
		a.errorf("nested macro definitions are not allowed")
		return
	}
	if _, exists := a.macros[strings.ToLower(name)]; exists {
		a.errorf("duplicate macro definition of %s", name)
		return
	}
	m := &Macro{Name: strings.ToLower(name)}
	s := delspc(*p)
	for len(s) > 0 {
		ident, rest := readIdent(s)
		if ident == "" {
			a.errorf("MACRO: parameter name expected")
			break
		}
		m.Params = append(m.Params, ident)
		s = delspc(rest)
		if len(s) > 0 && s[0] == ',' {
			s = delspc(s[1:])
			if len(s) == 0 || s[0] == ',' {
				a.errorf("MACRO: empty parameter name is not allowed")
				break
			}
			continue
		}
		break
	}
	a.removeLastLabelAsMacroName()
	a.definingMacro = m
}

// recordMacroLine captures one raw body line verbatim, noting where each
// of the macro's parameters occurs as a whole-identifier token, so
// expandMacroCall can substitute call-site arguments by byte position
// rather than doing textual find/replace (which would also rewrite
// unrelated substrings that merely share a parameter's spelling).
func (a *Assembler) recordMacroLine(text string) {
	ml := MacroLine{Text: text}
	for i := 0; i < len(text); {
		if isIdentStart(text[i]) {
			ident, _ := readIdent(text[i:])
			for pi, pname := range a.definingMacro.Params {
				if ident == pname {
					ml.Args = append(ml.Args, MacroArg{Pos: i, Which: pi})
					break
				}
			}
			i += len(ident)
			if len(ident) == 0 {
				i++
			}
			continue
		}
		i++
	}
	a.definingMacro.Lines = append(a.definingMacro.Lines, ml)
}

// endMacroDef finalises the macro currently being recorded.
func (a *Assembler) endMacroDef() {
	if a.definingMacro == nil {
		a.errorf("ENDM without MACRO")
		return
	}
	a.macros[a.definingMacro.Name] = a.definingMacro
	a.definingMacro = nil
}

// splitMacroArgs splits a call-site argument list on commas. Unlike
// parameter names at definition time, an empty argument is legal here,
// so placeholder arguments can be passed through.
func splitMacroArgs(s string) []string {
	s = delspc(s)
	if s == "" {
		return nil
	}
	var args []string
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				args = append(args, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	args = append(args, strings.TrimSpace(s[start:]))
	return args
}

// expandMacroLine substitutes the call's arguments into one recorded
// body line, working from the end so earlier recorded positions stay
// valid as the string's length changes.
func expandMacroLine(ml MacroLine, args []string) string {
	if len(ml.Args) == 0 {
		return ml.Text
	}
	out := ml.Text
	for i := len(ml.Args) - 1; i >= 0; i-- {
		sub := ml.Args[i]
		if sub.Which >= len(args) {
			continue
		}
		ident, _ := readIdent(out[sub.Pos:])
		out = out[:sub.Pos] + args[sub.Which] + out[sub.Pos+len(ident):]
	}
	return out
}

// callMacro pushes a new macro-expansion frame for name, after checking
// its arity against argsText.
func (a *Assembler) callMacro(name string, argsText string) bool {
	m, ok := a.macros[strings.ToLower(name)]
	if !ok {
		return false
	}
	args := splitMacroArgs(argsText)
	if len(args) != len(m.Params) {
		a.errorf("macro %s called with %d argument(s), expected %d", name, len(args), len(m.Params))
		return true
	}
	a.tracef(3, "expanding macro %s", name)
	fr := newFrame(name + " (macro)")
	fr.Macro = m
	fr.MacroArgs = args
	a.pushFrame(fr)
	return true
}

// nextMacroLine returns the next expanded body line of fr, and whether
// the macro has any lines left.
func (fr *Frame) nextMacroLine() (string, bool) {
	if fr.MacroPos >= len(fr.Macro.Lines) {
		return "", false
	}
	line := expandMacroLine(fr.Macro.Lines[fr.MacroPos], fr.MacroArgs)
	fr.MacroPos++
	fr.Line++
	return line, true
}
