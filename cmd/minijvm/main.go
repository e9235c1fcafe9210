// Command minijvm is the process entry point: it parses a single class file
// off disk and hands it to the interpreter, but owns none of the
// interpreter's own invariants.
package main

import (
	"os"

	"github.com/dzli7/JVM-Stack-Machine/cmd/minijvm/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
