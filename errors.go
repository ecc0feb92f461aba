package main

import (
	"fmt"
	"os"
)

// errorf reports a source-level error against the current frame's file
// and line, and increments the run's error counter so main can decide
// the process exit status.
func (a *Assembler) errorf(format string, args ...interface{}) {
	a.errors++
	msg := fmt.Sprintf(format, args...)
	if fr := a.currentFrame(); fr != nil {
		fmt.Fprintf(os.Stderr, "%s:%d: error: %s\n", fr.Name, fr.Line, msg)
		return
	}
	fmt.Fprintf(os.Stderr, "error: %s\n", msg)
}

// tracef prints a diagnostic line gated on the verbosity level.
func (a *Assembler) tracef(level int, format string, args ...interface{}) {
	if a.verbose < level {
		return
	}
	fmt.Fprintf(os.Stderr, format, args...)
	fmt.Fprintln(os.Stderr)
}
