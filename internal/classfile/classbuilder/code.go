package classbuilder

import "fmt"

// CodeBuilder assembles a single method's instruction stream, resolving
// named labels to the signed 16-bit branch offsets goto/if*/if_icmp*
// opcodes expect: the caller writes "jump to LABEL" and the byte arithmetic
// is worked out once, after every instruction's size is known.
type CodeBuilder struct {
	code   []byte
	labels map[string]int
	// fixups records, for each branch instruction emitted, where its
	// 2-byte offset operand lives and which label it targets.
	fixups []fixup
}

type fixup struct {
	operandAt int
	label     string
}

// NewCode returns an empty code builder.
func NewCode() *CodeBuilder {
	return &CodeBuilder{labels: make(map[string]int)}
}

// Label marks the current position under name, resolvable by later (or
// earlier) branch instructions that reference it.
func (c *CodeBuilder) Label(name string) *CodeBuilder {
	c.labels[name] = len(c.code)
	return c
}

func (c *CodeBuilder) emit(opcode byte, operands ...byte) *CodeBuilder {
	c.code = append(c.code, opcode)
	c.code = append(c.code, operands...)
	return c
}

// Op emits a single-byte instruction with no operand (nop, iadd, dup, ...).
func (c *CodeBuilder) Op(opcode byte) *CodeBuilder { return c.emit(opcode) }

// Op1 emits an instruction with a single unsigned-byte operand (bipush,
// iload, istore, ldc, ...).
func (c *CodeBuilder) Op1(opcode, operand byte) *CodeBuilder { return c.emit(opcode, operand) }

// Op2 emits an instruction with a two-byte big-endian operand that is not
// a branch offset (sipush, getstatic, invokevirtual with a don't-care
// constant-pool index).
func (c *CodeBuilder) Op2(opcode byte, operand uint16) *CodeBuilder {
	return c.emit(opcode, byte(operand>>8), byte(operand))
}

// Iinc emits iinc index, delta.
func (c *CodeBuilder) Iinc(index uint8, delta int8) *CodeBuilder {
	return c.emit(0x84, index, byte(delta))
}

// Branch emits a branch opcode (goto, ifeq, if_icmplt, ...) targeting
// label, deferring the actual offset computation to Bytes.
func (c *CodeBuilder) Branch(opcode byte, label string) *CodeBuilder {
	c.code = append(c.code, opcode, 0, 0)
	c.fixups = append(c.fixups, fixup{operandAt: len(c.code) - 2, label: label})
	return c
}

// InvokeStatic emits invokestatic against a constant-pool index, typically
// produced by Builder.MethodRef.
func (c *CodeBuilder) InvokeStatic(cpIndex uint16) *CodeBuilder {
	return c.Op2(0xB8, cpIndex)
}

// Bytes resolves every pending label reference and returns the finished
// instruction stream. It panics if a referenced label was never marked,
// since that is a programming error in the test/fixture being assembled,
// not a condition the interpreter itself needs to handle.
func (c *CodeBuilder) Bytes() []byte {
	out := append([]byte(nil), c.code...)
	for _, fx := range c.fixups {
		target, ok := c.labels[fx.label]
		if !ok {
			panic(fmt.Sprintf("classbuilder: undefined label %q", fx.label))
		}
		offset := int16(target - (fx.operandAt - 1))
		out[fx.operandAt] = byte(offset >> 8)
		out[fx.operandAt+1] = byte(offset)
	}
	return out
}
