package main

import (
	"fmt"
	"testing"
)

func TestDefineLabelGlobalAcceptsFirstDefinition(t *testing.T) {
	a := newTestAssembler()
	l := a.defineLabel("start", 0x100)
	if l == nil || !l.Valid || l.Value != 0x100 {
		t.Fatalf("defineLabel did not bind start correctly: %+v", l)
	}
	if a.globals["start"] != l {
		t.Fatalf("label not stored under its name in globals")
	}
	if len(a.globalOrder) != 1 || a.globalOrder[0] != "start" {
		t.Fatalf("globalOrder not updated: %v", a.globalOrder)
	}
}

func TestDefineLabelGlobalRejectsDuplicate(t *testing.T) {
	a := newTestAssembler()
	a.defineLabel("start", 0x100)
	before := a.errors
	a.defineLabel("start", 0x200)
	if a.errors <= before {
		t.Fatalf("expected redefining a valid label to be reported")
	}
	// the original value must survive the rejected redefinition
	if a.globals["start"].Value != 0x100 {
		t.Fatalf("duplicate definition overwrote the original value: %d", a.globals["start"].Value)
	}
}

func TestDefineLabelScopeLocalRequiresAFrame(t *testing.T) {
	a := newTestAssembler()
	before := a.errors
	l := a.defineLabel(".loop", 0x10)
	if a.errors <= before {
		t.Fatalf("expected a scope-local label outside any frame to be reported")
	}
	if l != nil {
		t.Fatalf("expected nil label when no frame is active, got %+v", l)
	}
}

func TestDefineLabelScopeLocalBindsWithinFrame(t *testing.T) {
	a := newTestAssembler()
	fr := newFrame("test.asm")
	a.stack = append(a.stack, fr)
	l := a.defineLabel(".loop", 0x20)
	if l == nil || !l.Valid || l.Value != 0x20 {
		t.Fatalf("scope-local label not bound correctly: %+v", l)
	}
	if fr.Labels[".loop"] != l {
		t.Fatalf("scope-local label not stored on the active frame")
	}
	if _, ok := a.globals[".loop"]; ok {
		t.Fatalf("scope-local label leaked into the global table")
	}
}

func TestMakeLabelDeferredClearsValidUntilResolved(t *testing.T) {
	a := newTestAssembler()
	l := a.defineLabel("size", 0)
	a.makeLabelDeferred(l, "1+2")
	if l.Valid {
		t.Fatalf("expected label to become invalid once turned into a deferred EQU")
	}
	if l.Ref == nil || l.Ref.Kind != RefLabel || l.Ref.Expr != "1+2" {
		t.Fatalf("deferred reference not recorded correctly: %+v", l.Ref)
	}
}

func TestResolveDeferredConvergesOnForwardChain(t *testing.T) {
	a := newTestAssembler()
	b := a.defineLabel("B", 0)
	a.makeLabelDeferred(b, "5")
	aLabel := a.defineLabel("A", 0)
	a.makeLabelDeferred(aLabel, "B+1")
	a.resolveDeferred()
	if !b.Valid || b.Value != 5 {
		t.Fatalf("B did not resolve to 5: valid=%v value=%d", b.Valid, b.Value)
	}
	if !aLabel.Valid || aLabel.Value != 6 {
		t.Fatalf("A did not resolve to 6: valid=%v value=%d", aLabel.Valid, aLabel.Value)
	}
	if a.errors != 0 {
		t.Fatalf("unexpected errors: %d", a.errors)
	}
}

func TestResolveDeferredReportsDirectCycle(t *testing.T) {
	a := newTestAssembler()
	la := a.defineLabel("A", 0)
	a.makeLabelDeferred(la, "B")
	lb := a.defineLabel("B", 0)
	a.makeLabelDeferred(lb, "A")
	a.resolveDeferred()
	if la.Valid || lb.Valid {
		t.Fatalf("expected both labels in a direct cycle to remain invalid")
	}
	if a.errors == 0 {
		t.Fatalf("expected resolveDeferred to report the cycle")
	}
}

func TestRemoveLastLabelAsMacroNameUnlinksLabel(t *testing.T) {
	a := newTestAssembler()
	a.defineLabel("mymacro", 0x300)
	a.removeLastLabelAsMacroName()
	if _, ok := a.globals["mymacro"]; ok {
		t.Fatalf("expected label to be removed from globals")
	}
	found := false
	for _, n := range a.globalOrder {
		if n == "mymacro" {
			found = true
		}
	}
	if found {
		t.Fatalf("expected label name to be removed from globalOrder")
	}
	if a.lastLabel != nil {
		t.Fatalf("expected lastLabel to be cleared")
	}
}

func TestRemoveLastLabelAsMacroNameNoopWhenNoLabel(t *testing.T) {
	a := newTestAssembler()
	a.lastLabel = nil
	a.removeLastLabelAsMacroName()
	if a.errors != 0 {
		t.Fatalf("unexpected errors: %d", a.errors)
	}
}

// TestWriteLabelFileSkipsUnresolvedEntries exercises the same selection
// and formatting logic writeLabelFile applies, without touching the
// filesystem: only Valid labels are emitted, in globalOrder, formatted
// as "name:\tequ 0x%04xh".
func TestWriteLabelFileSkipsUnresolvedEntries(t *testing.T) {
	a := newTestAssembler()
	a.defineLabel("start", 0x8000)
	unresolved := a.defineLabel("pending", 0)
	a.makeLabelDeferred(unresolved, "nothing")

	var lines []string
	for _, name := range a.globalOrder {
		l := a.globals[name]
		if !l.Valid {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s%s:\tequ 0x%04xh", a.opts.LabelPrefix, name, uint16(l.Value)))
	}
	if len(lines) != 1 {
		t.Fatalf("expected exactly one resolved label line, got %v", lines)
	}
	want := "start:\tequ 0x8000h"
	if lines[0] != want {
		t.Fatalf("label line = %q, want %q", lines[0], want)
	}
}
