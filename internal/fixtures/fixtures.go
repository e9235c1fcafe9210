// Package fixtures builds the class files named in testdata/manifest.yaml.
// Bytecode has no natural YAML encoding, so the manifest only carries each
// example's name and expected behavior; Build turns a name back into the
// actual class file bytes, one function per example scenario.
package fixtures

import (
	"fmt"

	"github.com/dzli7/JVM-Stack-Machine/internal/classfile/classbuilder"
)

const (
	opIconst0    = 0x03
	opIconst1    = 0x04
	opIconst2    = 0x05
	opIconst3    = 0x06
	opBipush     = 0x10
	opIload0     = 0x1A
	opIload1     = 0x1B
	opAload0     = 0x2A
	opIaload     = 0x2E
	opIstore0    = 0x3B
	opIstore1    = 0x3C
	opAstore0    = 0x4B
	opIastore    = 0x4F
	opIadd       = 0x60
	opIsub       = 0x64
	opImul       = 0x68
	opIshr       = 0x7A
	opIushr      = 0x7C
	opIfIcmpgt   = 0xA3
	opIfle       = 0x9E
	opGoto       = 0xA7
	opIreturn    = 0xAC
	opReturn     = 0xB1
	opGetstatic  = 0xB2
	opInvokevirt = 0xB6
	opNewarray   = 0xBC
)

// Build returns the class file bytes for the manifest entry named name.
func Build(name string) ([]byte, error) {
	switch name {
	case "constants":
		return constants(), nil
	case "arithmetic":
		return arithmetic(), nil
	case "loop_sum":
		return loopSum(), nil
	case "factorial":
		return factorial(), nil
	case "array_sum":
		return arraySum(), nil
	case "shifts":
		return shifts(), nil
	default:
		return nil, fmt.Errorf("fixtures: unknown example %q", name)
	}
}

func constants() []byte {
	b := classbuilder.New()
	code := classbuilder.NewCode().
		Op1(opBipush, 42).
		Op2(opGetstatic, 0).
		Op2(opInvokevirt, 0).
		Op(opReturn).
		Bytes()
	b.AddMethod("main", "([Ljava/lang/String;)V", 1, 0, code)
	return b.Bytes()
}

func arithmetic() []byte {
	b := classbuilder.New()
	code := classbuilder.NewCode().
		Op1(opBipush, 7).
		Op1(opBipush, 6).
		Op(opImul).
		Op1(opBipush, 1).
		Op(opIsub).
		Op2(opGetstatic, 0).
		Op2(opInvokevirt, 0).
		Op(opReturn).
		Bytes()
	b.AddMethod("main", "([Ljava/lang/String;)V", 3, 0, code)
	return b.Bytes()
}

func loopSum() []byte {
	b := classbuilder.New()
	c := classbuilder.NewCode()
	c.Op(opIconst0).Op(opIstore0)
	c.Op(opIconst1).Op(opIstore1)
	c.Label("loop")
	c.Op(opIload1)
	c.Op1(opBipush, 10)
	c.Branch(opIfIcmpgt, "exit")
	c.Op(opIload0)
	c.Op(opIload1)
	c.Op(opIadd)
	c.Op(opIstore0)
	c.Iinc(1, 1)
	c.Branch(opGoto, "loop")
	c.Label("exit")
	c.Op2(opGetstatic, 0)
	c.Op(opIload0)
	c.Op2(opInvokevirt, 0)
	c.Op(opReturn)
	b.AddMethod("main", "([Ljava/lang/String;)V", 2, 2, c.Bytes())
	return b.Bytes()
}

func factorial() []byte {
	b := classbuilder.New()
	factorialRef := b.MethodRef("factorial", "(I)I")

	fc := classbuilder.NewCode()
	fc.Op(opIload0)
	fc.Branch(opIfle, "base")
	fc.Op(opIload0)
	fc.Op(opIload0)
	fc.Op(opIconst1)
	fc.Op(opIsub)
	fc.InvokeStatic(factorialRef)
	fc.Op(opImul)
	fc.Op(opIreturn)
	fc.Label("base")
	fc.Op(opIconst1)
	fc.Op(opIreturn)
	b.AddMethod("factorial", "(I)I", 3, 1, fc.Bytes())

	mc := classbuilder.NewCode().
		Op1(opBipush, 5).
		InvokeStatic(factorialRef).
		Op2(opGetstatic, 0).
		Op2(opInvokevirt, 0).
		Op(opReturn).
		Bytes()
	b.AddMethod("main", "([Ljava/lang/String;)V", 1, 0, mc)
	return b.Bytes()
}

func arraySum() []byte {
	b := classbuilder.New()
	c := classbuilder.NewCode()
	c.Op(opIconst3).Op1(opNewarray, 10).Op(opAstore0)
	c.Op(opAload0).Op(opIconst0).Op1(opBipush, 10).Op(opIastore)
	c.Op(opAload0).Op(opIconst1).Op1(opBipush, 20).Op(opIastore)
	c.Op(opAload0).Op(opIconst2).Op1(opBipush, 30).Op(opIastore)
	c.Op(opAload0).Op(opIconst0).Op(opIaload)
	c.Op(opAload0).Op(opIconst1).Op(opIaload)
	c.Op(opIadd)
	c.Op(opAload0).Op(opIconst2).Op(opIaload)
	c.Op(opIadd)
	c.Op2(opGetstatic, 0)
	c.Op2(opInvokevirt, 0)
	c.Op(opReturn)
	b.AddMethod("main", "([Ljava/lang/String;)V", 3, 1, c.Bytes())
	return b.Bytes()
}

func shifts() []byte {
	b := classbuilder.New()
	c := classbuilder.NewCode()
	c.Op1(opBipush, 0xF8).Op(opIconst1).Op(opIshr).Op2(opGetstatic, 0).Op2(opInvokevirt, 0)  // bipush -8
	c.Op1(opBipush, 0xF8).Op(opIconst1).Op(opIushr).Op2(opGetstatic, 0).Op2(opInvokevirt, 0) // bipush -8
	c.Op(opReturn)
	b.AddMethod("main", "([Ljava/lang/String;)V", 2, 0, c.Bytes())
	return b.Bytes()
}
