package main

// Register describes one Z80 register name and its 3-bit encoding
// where applicable.
type Register struct {
	Name     string
	Encoding uint8
}

// r8Table is the "r" operand encoding (B C D E H L (HL) A), used by LD r,r'
// and the 8-bit ALU ops. Index 6 ((HL)) is never produced by rdR (it is
// handled by the (HL)/(IX+d)/(IY+d) memory recognizers instead), but is
// kept in the table for documentation since the raw bit pattern still
// appears in the opcode matrix.
var r8Table = []Register{
	{"b", 0}, {"c", 1}, {"d", 2}, {"e", 3},
	{"h", 4}, {"l", 5}, {"(hl)", 6}, {"a", 7},
}

// rr16Table is the "rr" pair encoding (BC DE HL SP) used by 16-bit loads,
// INC rr/DEC rr and ADD HL,rr.
var rr16Table = []Register{
	{"bc", 0}, {"de", 1}, {"hl", 2}, {"sp", 3},
}

// rr16AfTable is the same encoding but with AF instead of SP in slot 3,
// used by PUSH/POP.
var rr16AfTable = []Register{
	{"bc", 0}, {"de", 1}, {"hl", 2}, {"af", 3},
}

// ccTable is the 3-bit condition-code encoding (NZ Z NC C PO PE P M).
var ccTable = []Register{
	{"nz", 0}, {"z", 1}, {"nc", 2}, {"c", 3},
	{"po", 4}, {"pe", 5}, {"p", 6}, {"m", 7},
}

func lookupRegister(table []Register, name string) (Register, bool) {
	for _, r := range table {
		if r.Name == name {
			return r, true
		}
	}
	return Register{}, false
}

// indexRegName maps the encoder's current index prefix back to its source
// spelling, for error messages and listing text.
func indexRegName(prefix byte) string {
	switch prefix {
	case 0xDD:
		return "ix"
	case 0xFD:
		return "iy"
	default:
		return "hl"
	}
}
