package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xyproto/env/v2"
)

const versionString = "z80asm version 2.0 (Go reimplementation)"

const defaultIncludeDir = "/usr/share/z80asm/headers/"

// unsetMarker distinguishes "-l/-L not given at all" from "-l/-L given
// with no attached path" for the optional-argument flags. flag.FlagSet
// has no native optional-argument support (unlike getopt_long's
// optional_argument), so an attached path must use "=" syntax
// (--list=path.lst or -l=path.lst); a bare -l/--list still enables the
// listing, defaulting its destination to stderr.
const unsetMarker = "\x00unset"

// Options holds every flag recognised by the command line.
type Options struct {
	Help    bool
	Version bool
	Verbose int

	ListFile  string // "" means disabled; "-" or "" after enabling means stderr
	LabelFile string

	InputFiles []string
	OutputFile string

	LabelPrefix string
	IncludeDirs []string // registration order, most-recently-added first
}

// ParseArgs parses a command line into Options. It does not touch
// global state so it can be exercised directly by tests.
func ParseArgs(args []string) (*Options, error) {
	fs := flag.NewFlagSet("z80asm", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	help := fs.Bool("h", false, "display help text and exit")
	helpLong := fs.Bool("help", false, "display help text and exit")
	version := fs.Bool("V", false, "display version information and exit")
	versionLong := fs.Bool("version", false, "display version information and exit")
	verbose := fs.Bool("v", false, "be verbose; repeatable")
	verboseLong := fs.Bool("verbose", false, "be verbose; repeatable")

	list := fs.String("l", unsetMarker, "write a list file (optional path, default stderr)")
	listLong := fs.String("list", unsetMarker, "write a list file (optional path, default stderr)")
	label := fs.String("L", unsetMarker, "write a label file (optional path, default stderr)")
	labelLong := fs.String("label", unsetMarker, "write a label file (optional path, default stderr)")

	var inputs multiFlag
	fs.Var(&inputs, "i", "specify an input file (repeatable)")
	var inputsLong multiFlag
	fs.Var(&inputsLong, "input", "specify an input file (repeatable)")

	output := fs.String("o", "-", "specify the output file")
	outputLong := fs.String("output", "-", "specify the output file")

	prefix := fs.String("p", "", "prefix applied to each label-file record")
	prefixLong := fs.String("label-prefix", "", "prefix applied to each label-file record")

	var includeDirs multiFlag
	fs.Var(&includeDirs, "I", "add a directory to the include search path (repeatable)")
	var includeDirsLong multiFlag
	fs.Var(&includeDirsLong, "includepath", "add a directory to the include search path (repeatable)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	opts := &Options{
		Help:    *help || *helpLong,
		Version: *version || *versionLong,
	}
	if *verbose {
		opts.Verbose++
	}
	if *verboseLong {
		opts.Verbose++
	}

	opts.ListFile = resolveOptionalPath(*list, *listLong)
	opts.LabelFile = resolveOptionalPath(*label, *labelLong)

	opts.OutputFile = "-"
	if *output != "-" {
		opts.OutputFile = *output
	}
	if *outputLong != "-" {
		opts.OutputFile = *outputLong
	}

	opts.LabelPrefix = *prefix
	if *prefixLong != "" {
		opts.LabelPrefix = *prefixLong
	}

	opts.InputFiles = append(opts.InputFiles, inputs...)
	opts.InputFiles = append(opts.InputFiles, inputsLong...)
	opts.InputFiles = append(opts.InputFiles, fs.Args()...)
	if len(opts.InputFiles) == 0 {
		opts.InputFiles = []string{"-"}
	}

	if env.Bool("Z80ASM_DEBUG") {
		opts.Verbose++
	}

	// -I directories are searched most-recently-added first,
	// Z80ASM_INCLUDE directories after them, and the built-in default
	// directory last.
	opts.IncludeDirs = append(opts.IncludeDirs, reverseStrings(includeDirs)...)
	opts.IncludeDirs = append(opts.IncludeDirs, reverseStrings(includeDirsLong)...)
	for _, dir := range filepath.SplitList(env.Str("Z80ASM_INCLUDE")) {
		if dir != "" {
			opts.IncludeDirs = append(opts.IncludeDirs, dir)
		}
	}
	opts.IncludeDirs = append(opts.IncludeDirs, defaultIncludeDir)

	return opts, nil
}

// resolveOptionalPath turns the pair of short/long flag values for an
// optional-argument destination into "" (disabled), "-" (enabled,
// defaulting to stderr), or an explicit path.
func resolveOptionalPath(short, long string) string {
	if short == unsetMarker && long == unsetMarker {
		return ""
	}
	if short != unsetMarker && short != "" {
		return short
	}
	if long != unsetMarker && long != "" {
		return long
	}
	return "-"
}

func reverseStrings(s []string) []string {
	out := make([]string, len(s))
	for i, v := range s {
		out[len(s)-1-i] = v
	}
	return out
}

// multiFlag implements flag.Value to collect a repeatable string flag
// (-i, -I and their long forms).
type multiFlag []string

func (m *multiFlag) String() string {
	if m == nil {
		return ""
	}
	return fmt.Sprint([]string(*m))
}

func (m *multiFlag) Set(v string) error {
	*m = append(*m, v)
	return nil
}

func printHelp() {
	fmt.Printf(`Usage: z80asm [options] [input files]

Possible options are:
-h  --help          Display this help text and exit.
-V  --version       Display version information and exit.
-v  --verbose       Be verbose. Specify again to be more verbose.
-l  --list          Write a list file.
-L  --label         Write a label file.
-p  --label-prefix  Prefix all labels with this prefix.
-i  --input         Specify an input file (-i may be omitted).
-o  --output        Specify the output file.
-I  --includepath   Add a directory to the include path.
`)
}

func printVersion() {
	fmt.Println(versionString)
}
