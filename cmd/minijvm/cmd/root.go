package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "minijvm",
	Short: "A minimal JVM bytecode interpreter",
	Long: `minijvm runs a single-class subset of the JVM instruction set:
an operand stack, local variables, integer arithmetic, arrays, and
invokestatic calls. It does not implement class loading, verification,
or any instruction outside that subset.`,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
