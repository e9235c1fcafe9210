package interp

import (
	"fmt"
	"strings"

	"github.com/dzli7/JVM-Stack-Machine/internal/classfile"
	"github.com/dzli7/JVM-Stack-Machine/internal/decode"
)

// Instruction is one decoded entry of a disassembly listing: the mnemonic
// dispatch already names (opcode.go), plus whatever operand the encoding
// carries, rendered the way a human reading class file hexdumps expects to
// see it (signed immediates in decimal, branch offsets resolved to an
// absolute target, ldc/invokestatic resolved against the constant pool).
type Instruction struct {
	PC      int
	Op      Opcode
	Operand string
	NextPC  int
}

// Disassemble walks method's code array and returns one Instruction per
// opcode, in the same dispatch order exec.go's loop visits them, without
// ever executing anything. It shares a great deal of shape with execute's
// switch precisely because a disassembler is a dry-run of the same decode
// rules, operating on the class view and code bytes alone.
func Disassemble(method *classfile.Method, class *classfile.Class) ([]Instruction, error) {
	code := method.Code
	var out []Instruction

	pc := 0
	for pc < len(code) {
		op := Opcode(code[pc])
		inst := Instruction{PC: pc, Op: op}

		switch {
		case op == opNop, op == opDup,
			op >= opIconstM1 && op <= opIconst5,
			op >= opIload0 && op <= opIload3,
			op >= opAload0 && op <= opAload3,
			op >= opIstore0 && op <= opIstore3,
			op >= opAstore0 && op <= opAstore3,
			op == opIadd, op == opIsub, op == opImul, op == opIdiv, op == opIrem, op == opIneg,
			op == opIand, op == opIor, op == opIxor,
			op == opIshl, op == opIshr, op == opIushr,
			op == opIaload, op == opIastore,
			op == opIreturn, op == opAreturn, op == opReturn,
			op == opArraylen:
			inst.NextPC = pc + 1

		case op == opBipush, op == opLdc, op == opIload, op == opAload, op == opIstore, op == opAstore, op == opNewarray:
			inst.NextPC = pc + 2
			inst.Operand = disasmOperand1(op, code, pc, class)

		case op == opSipush, op == opIfeq, op == opIfne, op == opIflt, op == opIfge, op == opIfgt, op == opIfle,
			op == opIfIcmpeq, op == opIfIcmpne, op == opIfIcmplt, op == opIfIcmpge, op == opIfIcmpgt, op == opIfIcmple,
			op == opGoto, op == opGetstatic, op == opInvokeV, op == opInvokeS:
			inst.NextPC = pc + 3
			inst.Operand = disasmOperand2(op, code, pc, class)

		case op == opIinc:
			inst.NextPC = pc + 3
			idx := decode.U8(code, pc, 1)
			delta := decode.S8(code, pc, 2)
			inst.Operand = fmt.Sprintf("%d, %d", idx, delta)

		default:
			return nil, fmt.Errorf("interp: unsupported opcode %#x at pc %d", byte(op), pc)
		}

		out = append(out, inst)
		pc = inst.NextPC
	}
	return out, nil
}

func disasmOperand1(op Opcode, code []byte, pc int, class *classfile.Class) string {
	switch op {
	case opBipush:
		return fmt.Sprintf("%d", decode.S8(code, pc, 1))
	case opLdc:
		idx := uint16(decode.U8(code, pc, 1))
		if class != nil {
			if v, err := class.Pool.Integer(idx); err == nil {
				return fmt.Sprintf("#%d (%d)", idx, v)
			}
		}
		return fmt.Sprintf("#%d", idx)
	default: // iload, aload, istore, astore, newarray
		return fmt.Sprintf("%d", decode.U8(code, pc, 1))
	}
}

func disasmOperand2(op Opcode, code []byte, pc int, class *classfile.Class) string {
	switch op {
	case opSipush:
		return fmt.Sprintf("%d", decode.S16(code, pc, 1))
	case opGoto, opIfeq, opIfne, opIflt, opIfge, opIfgt, opIfle,
		opIfIcmpeq, opIfIcmpne, opIfIcmplt, opIfIcmpge, opIfIcmpgt, opIfIcmple:
		target := pc + int(decode.S16(code, pc, 1))
		return fmt.Sprintf("-> %d", target)
	case opInvokeS:
		idx := decode.U16(code, pc, 1)
		if class != nil {
			if name, descriptor, err := class.Pool.NameAndDescriptor(idx); err == nil {
				return fmt.Sprintf("#%d (%s%s)", idx, name, descriptor)
			}
		}
		return fmt.Sprintf("#%d", idx)
	default: // getstatic, invokevirtual: operand ignored by dispatch, still shown
		return fmt.Sprintf("#%d", decode.U16(code, pc, 1))
	}
}

// Text renders a full method disassembly listing as plain text: one
// "pc: mnemonic operand" line per instruction.
func Text(method *classfile.Method, class *classfile.Class) (string, error) {
	insns, err := Disassemble(method, class)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s%s (max_stack=%d, max_locals=%d)\n", method.Name, method.Descriptor, method.MaxStack, method.MaxLocals)
	for _, in := range insns {
		if in.Operand == "" {
			fmt.Fprintf(&b, "  %4d: %s\n", in.PC, in.Op)
		} else {
			fmt.Fprintf(&b, "  %4d: %-16s %s\n", in.PC, in.Op, in.Operand)
		}
	}
	return b.String(), nil
}
