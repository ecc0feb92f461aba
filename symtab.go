package main

import (
	"fmt"
	"os"
	"strings"
)

// maxInclude bounds the input-frame stack depth, guarding against
// runaway INCLUDE/macro recursion rather than a real resource limit.
const maxInclude = 200

func (a *Assembler) currentFrame() *Frame {
	if len(a.stack) == 0 {
		return nil
	}
	return a.stack[len(a.stack)-1]
}

func (a *Assembler) pushFrame(f *Frame) bool {
	if len(a.stack) >= maxInclude {
		a.errorf("includes nested too deeply")
		return false
	}
	a.stack = append(a.stack, f)
	return true
}

// popFrame removes and returns the innermost frame, closing its
// underlying file if it owns one. A popped frame's scope-local labels
// go out of existence with it.
func (a *Assembler) popFrame() *Frame {
	if len(a.stack) == 0 {
		return nil
	}
	f := a.stack[len(a.stack)-1]
	a.stack = a.stack[:len(a.stack)-1]
	if f.ShouldClose && f.Closer != nil {
		f.Closer()
	}
	return f
}

// defineLabel binds name to an immediately-known value (a plain "name:"
// definition, or the current PC for an instruction's attached label).
// Dot-prefixed names are scope-local to the current frame; anything else
// is global.
func (a *Assembler) defineLabel(name string, value int32) *Label {
	if strings.HasPrefix(name, ".") {
		fr := a.currentFrame()
		if fr == nil {
			a.errorf("local label %s outside any frame", name)
			return nil
		}
		if existing, ok := fr.Labels[name]; ok {
			if existing.Valid {
				a.errorf("label %s already defined", name)
				return existing
			}
			existing.Value = value
			existing.Valid = true
			existing.Ref = nil
			a.lastLabel = existing
			return existing
		}
		l := &Label{Name: name, Value: value, Valid: true}
		fr.Labels[name] = l
		a.lastLabel = l
		return l
	}

	if existing, ok := a.globals[name]; ok {
		if existing.Valid {
			a.errorf("label %s already defined", name)
			return existing
		}
		existing.Value = value
		existing.Valid = true
		existing.Ref = nil
		a.lastLabel = existing
		return existing
	}
	l := &Label{Name: name, Value: value, Valid: true}
	a.globals[name] = l
	a.globalOrder = append(a.globalOrder, name)
	a.lastLabel = l
	return l
}

// makeLabelDeferred converts l, a label already tentatively bound to the
// current PC when its "name:" was read (see processLine), into an EQU
// target: an expression whose value may depend on labels not yet seen,
// resolved in the final fixpoint pass (resolveDeferred) or, for a
// scope-local label, at its frame's unwind (unwindFrame). This
// overrides the tentative PC-valued binding rather than treating it as
// a real prior definition, since at this point in a single line's
// processing it always is the label this same EQU is attached to.
func (a *Assembler) makeLabelDeferred(l *Label, expr string) {
	l.Ref = &Reference{Kind: RefLabel, Expr: expr}
	l.Valid = false
}

// removeLastLabelAsMacroName implements the "a label turned into a
// macro name disappears" rule: `foo: MACRO a, b` unlinks `foo` from the
// symbol table entirely rather than leaving it bound to the macro's
// starting address.
func (a *Assembler) removeLastLabelAsMacroName() {
	if a.lastLabel == nil {
		return
	}
	name := a.lastLabel.Name
	delete(a.globals, name)
	for i, n := range a.globalOrder {
		if n == name {
			a.globalOrder = append(a.globalOrder[:i], a.globalOrder[i+1:]...)
			break
		}
	}
	a.lastLabel = nil
}

// resolveDeferred runs the end-of-assembly fixpoint pass over every
// deferred (EQU) label: repeatedly re-evaluating each unresolved label's
// expression until nothing changes, then reporting any label still
// invalid as a circular or unresolved reference. The Busy flag set during
// evaluation is what makes a direct cycle (A: equ B / B: equ A) converge
// to "still invalid" instead of infinite-looping.
func (a *Assembler) resolveDeferred() {
	for {
		changed := false
		for _, name := range a.globalOrder {
			l := a.globals[name]
			if l.Valid || l.Ref == nil {
				continue
			}
			l.Busy = true
			s := l.Ref.Expr
			v, ok := a.evalExpr(&s)
			l.Busy = false
			if ok {
				l.Value = int32(v)
				l.Valid = true
				changed = true
			}
		}
		if !changed {
			break
		}
	}
	// Plain undefined labels (placeholders with no deferred expression)
	// are reported per use site by patchAll, with the referencing line's
	// context; only deferred EQUs are this pass's to diagnose.
	for _, name := range a.globalOrder {
		l := a.globals[name]
		if !l.Valid && l.Ref != nil {
			a.errorf("circular or unresolved reference in EQU for %s", name)
		}
	}
}

// writeLabelFile emits one record per global label
// ("name:\tequ 0x%04xh\n", the doubled 0x/h intentional, downstream
// tooling depends on it), in the order labels were first stored rather
// than any sorted or scope-nested order.
func (a *Assembler) writeLabelFile(path string) error {
	var b strings.Builder
	for _, name := range a.globalOrder {
		l := a.globals[name]
		if !l.Valid {
			continue
		}
		fmt.Fprintf(&b, "%s%s:\tequ 0x%04xh\n", a.opts.LabelPrefix, name, uint16(l.Value))
	}
	return writeStagedFile(path, []byte(b.String()), os.Stderr)
}
