package cmd

import (
	"fmt"
	"os"

	"github.com/dzli7/JVM-Stack-Machine/internal/classfile"
	"github.com/dzli7/JVM-Stack-Machine/internal/interp"
	"github.com/spf13/cobra"
	"github.com/tidwall/sjson"
)

var disasmJSON bool

var disasmCmd = &cobra.Command{
	Use:   "disasm <class-file>",
	Short: "List a class file's methods and their decoded instruction stream",
	Args:  cobra.ExactArgs(1),
	RunE:  disasmClassFile,
}

func init() {
	rootCmd.AddCommand(disasmCmd)
	disasmCmd.Flags().BoolVar(&disasmJSON, "json", false, "emit one JSON object per method instead of plain text")
}

func disasmClassFile(_ *cobra.Command, args []string) error {
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

	for _, method := range class.Methods {
		if disasmJSON {
			doc, err := disasmJSONDoc(method, class)
			if err != nil {
				return fmt.Errorf("minijvm: disassembling %s%s: %w", method.Name, method.Descriptor, err)
			}
			fmt.Fprintln(os.Stdout, doc)
			continue
		}

		text, err := interp.Text(method, class)
		if err != nil {
			return fmt.Errorf("minijvm: disassembling %s%s: %w", method.Name, method.Descriptor, err)
		}
		fmt.Fprint(os.Stdout, text)
	}
	return nil
}

// disasmJSONDoc renders one method's disassembly as a JSON document built
// incrementally with sjson.Set, the way go-dws's internal/jsonvalue package
// composes structured values without round-tripping through a Go struct.
func disasmJSONDoc(method *classfile.Method, class *classfile.Class) (string, error) {
	insns, err := interp.Disassemble(method, class)
	if err != nil {
		return "", err
	}

	doc := "{}"
	doc, err = sjson.Set(doc, "method", method.Name)
	if err != nil {
		return "", err
	}
	doc, err = sjson.Set(doc, "descriptor", method.Descriptor)
	if err != nil {
		return "", err
	}
	doc, err = sjson.Set(doc, "max_stack", method.MaxStack)
	if err != nil {
		return "", err
	}
	doc, err = sjson.Set(doc, "max_locals", method.MaxLocals)
	if err != nil {
		return "", err
	}

	for i, in := range insns {
		prefix := fmt.Sprintf("instructions.%d.", i)
		doc, err = sjson.Set(doc, prefix+"pc", in.PC)
		if err != nil {
			return "", err
		}
		doc, err = sjson.Set(doc, prefix+"op", in.Op.String())
		if err != nil {
			return "", err
		}
		doc, err = sjson.Set(doc, prefix+"operand", in.Operand)
		if err != nil {
			return "", err
		}
	}
	return doc, nil
}
