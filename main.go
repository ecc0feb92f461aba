package main

import (
	"fmt"
	"os"
)

func main() {
	opts, err := ParseArgs(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}

	if opts.Help {
		printHelp()
		os.Exit(0)
	}
	if opts.Version {
		printVersion()
		os.Exit(0)
	}

	a := newAssembler(opts)
	for _, name := range opts.InputFiles {
		a.infiles = append(a.infiles, InFile{Name: name})
	}
	a.includeDirs = opts.IncludeDirs

	a.assemble()

	if a.errors != 0 {
		if a.errors == 1 {
			fmt.Fprintln(os.Stderr, "*** 1 error found ***")
		} else {
			fmt.Fprintf(os.Stderr, "*** %d errors found ***\n", a.errors)
		}
		os.Exit(1)
	}
}
