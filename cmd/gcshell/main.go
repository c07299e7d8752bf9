// Command gcshell is an interactive demonstrator for the gc and mapping
// packages: it allocates, roots, collects, and migrates a small built-in
// type universe so the collector and the schema mapper can be driven by
// hand instead of only from tests. The type system gcshell allocates from
// (package fixture) is not part of the runtime itself — spec.md keeps
// that out of scope — but something has to fill that role for a usable
// demo tool, the way viewcore's cmd/viewcore explores a real core dump
// instead of a hand-built one.
package main

import (
	"fmt"
	"os"
)

func main() {
	sess := newSession()

	args := os.Args[1:]
	if len(args) == 0 || args[0] == "repl" {
		if err := runREPL(sess); err != nil {
			fmt.Fprintf(os.Stderr, "gcshell: %v\n", err)
			os.Exit(1)
		}
		return
	}

	cmd := newShellCommands(sess)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "gcshell: %v\n", err)
		os.Exit(1)
	}
}
