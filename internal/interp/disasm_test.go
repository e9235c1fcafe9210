package interp_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/dzli7/JVM-Stack-Machine/internal/classfile"
	"github.com/dzli7/JVM-Stack-Machine/internal/classfile/classbuilder"
	"github.com/dzli7/JVM-Stack-Machine/internal/interp"
)

func TestDisassembleResolvesBranchTargetsAndCallees(t *testing.T) {
	b := classbuilder.New()
	factorialRef := b.MethodRef("factorial", "(I)I")

	fc := classbuilder.NewCode()
	fc.Op(opIload0)
	fc.Branch(opIfle, "base")
	fc.Op(opIload0)
	fc.InvokeStatic(factorialRef)
	fc.Op(opImul)
	fc.Op(opIreturn)
	fc.Label("base")
	fc.Op(opIconst1)
	fc.Op(opIreturn)
	b.AddMethod("factorial", "(I)I", 2, 1, fc.Bytes())

	cls, err := classfile.Parse(bytes.NewReader(b.Bytes()))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	method, ok := cls.FindMethod("factorial", "(I)I")
	if !ok {
		t.Fatal("factorial not found")
	}

	insns, err := interp.Disassemble(method, cls)
	if err != nil {
		t.Fatalf("Disassemble failed: %v", err)
	}
	if len(insns) != 8 {
		t.Fatalf("got %d instructions, want 8", len(insns))
	}
	if !strings.Contains(insns[1].Operand, "-> ") {
		t.Fatalf("ifle operand = %q, want a resolved branch target", insns[1].Operand)
	}
	if !strings.Contains(insns[3].Operand, "factorial(I)I") {
		t.Fatalf("invokestatic operand = %q, want it to name the callee", insns[3].Operand)
	}

	text, err := interp.Text(method, cls)
	if err != nil {
		t.Fatalf("Text failed: %v", err)
	}
	if !strings.Contains(text, "factorial(I)I") {
		t.Fatalf("Text() output missing method signature header: %q", text)
	}
}
