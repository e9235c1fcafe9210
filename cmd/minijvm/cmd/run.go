package cmd

import (
	"fmt"
	"os"

	"github.com/dzli7/JVM-Stack-Machine/internal/classfile"
	"github.com/dzli7/JVM-Stack-Machine/internal/interp"
	"github.com/spf13/cobra"
)

var traceExecution bool

var runCmd = &cobra.Command{
	Use:   "run <class-file>",
	Short: "Parse a class file and execute its main method",
	Long: `Run reads one class file, locates main([Ljava/lang/String;)V, and
executes it. Standard output carries only what invokevirtual prints, one
value per call; everything else, including --trace output, goes to stderr.`,
	Args: cobra.ExactArgs(1),
	RunE: runClassFile,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().BoolVar(&traceExecution, "trace", false, "print a per-instruction execution trace to stderr")
}

func runClassFile(_ *cobra.Command, args []string) error {
	path := args[0]

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("minijvm: opening %s: %w", path, err)
	}
	defer f.Close()

	class, err := classfile.Parse(f)
	if err != nil {
		return fmt.Errorf("minijvm: parsing %s: %w", path, err)
	}

	machine := interp.New(func(v int32) { fmt.Fprintln(os.Stdout, v) })

	var trace interp.Trace
	if traceExecution {
		trace = func(methodName string, pc int, op interp.Opcode, stackDepth int) {
			fmt.Fprintf(os.Stderr, "trace: %s@%d %s (stack=%d)\n", methodName, pc, op, stackDepth)
		}
	}

	if err := machine.RunMain(class, trace); err != nil {
		return fmt.Errorf("minijvm: %w", err)
	}
	return nil
}
