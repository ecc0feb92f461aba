package main

import (
	"fmt"
	"os"
	"strings"
)

// emitByte appends one byte to the output and advances the PC.
func (a *Assembler) emitByte(b byte) {
	a.bin = append(a.bin, b)
	a.addr++
}

// emitBytes appends a run of raw bytes (DEFB/DEFM strings, BININCLUDE
// data) without going through the reference queue.
func (a *Assembler) emitBytes(bs []byte) {
	a.bin = append(a.bin, bs...)
	a.addr += len(bs)
}

// beginLine records the PC a source line starts at, which is what "$"
// resolves to for the rest of that line ($ is the line-start PC, not a
// constantly moving mid-line cursor).
func (a *Assembler) beginLine() {
	a.baseAddr = a.addr
}

// recordListLine appends one rendered listing row once a source line has
// been fully processed. The actual bytes are read back out of a.bin at
// render time by writeListingFile, so any reference patch applied later
// is automatically reflected without a second patch target.
func (a *Assembler) recordListLine(text string) {
	if !a.haveList {
		return
	}
	length := a.addr - a.baseAddr
	a.listLines = append(a.listLines, &ListLine{
		Addr: a.baseAddr, BinPos: len(a.bin) - length, Length: length,
		File: a.curFile, Line: a.curLineNo(), Text: text,
	})
}

// recordCompactListLine is used by DEFS: one fixed "xx..." row instead
// of one hex pair per fill byte.
func (a *Assembler) recordCompactListLine(special, text string) {
	if !a.haveList {
		return
	}
	a.listLines = append(a.listLines, &ListLine{
		Addr: a.baseAddr, File: a.curFile, Line: a.curLineNo(),
		Text: text, Special: special,
	})
}

// recordBareListLine emits text as a whole listing row with no address
// or byte column: the "# File"/"# End of file" markers and the lines
// END skips over.
func (a *Assembler) recordBareListLine(text string) {
	if !a.haveList {
		return
	}
	a.listLines = append(a.listLines, &ListLine{Text: text, Bare: true})
}

// writeStagedFile writes data to path, except that an empty path or
// "-" redirects to dflt (stdout for the binary output, stderr for the
// listing and label files).
func writeStagedFile(path string, data []byte, dflt *os.File) error {
	if path == "" || path == "-" {
		_, err := dflt.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (a *Assembler) writeBinaryFile(path string) error {
	return writeStagedFile(path, a.bin, os.Stdout)
}

// listingTabs reports how many tabs separate the byte-hex column from
// the source-text column, based on how many bytes the line emitted: up
// to 7 bytes gets 3 tabs, up to 15 gets 2, otherwise 1.
func listingTabs(n int) int {
	switch {
	case n <= 7:
		return 3
	case n <= 15:
		return 2
	default:
		return 1
	}
}

// writeListingFile renders the recorded line records against the final,
// fully-patched a.bin: one row per source line (PC, emitted bytes,
// tab-padded source text), file-boundary markers, and the final address
// on its own trailing line.
func (a *Assembler) writeListingFile(path string) error {
	var b strings.Builder
	for _, ll := range a.listLines {
		if ll.Bare {
			fmt.Fprintf(&b, "%s\n", ll.Text)
			continue
		}
		if ll.Special != "" {
			fmt.Fprintf(&b, "%04x%s%s%s\n", ll.Addr, ll.Special, strings.Repeat("\t", listingTabs(0)), ll.Text)
			continue
		}
		fmt.Fprintf(&b, "%04x", ll.Addr)
		for i := 0; i < ll.Length; i++ {
			fmt.Fprintf(&b, " %02x", a.bin[ll.BinPos+i])
		}
		fmt.Fprintf(&b, "%s%s\n", strings.Repeat("\t", listingTabs(ll.Length)), ll.Text)
	}
	fmt.Fprintf(&b, "%04x\n", a.addr)
	return writeStagedFile(path, []byte(b.String()), os.Stderr)
}
