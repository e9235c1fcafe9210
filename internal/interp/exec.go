package interp

import (
	"github.com/dzli7/JVM-Stack-Machine/internal/classfile"
	"github.com/dzli7/JVM-Stack-Machine/internal/decode"
	"github.com/dzli7/JVM-Stack-Machine/internal/frame"
)

// execute is the recursive core of Execute/RunMain. Every invokestatic
// call recurses into this same function with a freshly built locals array;
// every other opcode either mutates f and advances pc, jumps, or returns.
func (m *Machine) execute(method *classfile.Method, locals []int32, class *classfile.Class, trace Trace) Result {
	f := frame.New(method.MaxStack, locals)
	defer f.Release()

	code := method.Code
	pc := 0
	var op Opcode

	// Attribute a panic raised anywhere below this point to the opcode and
	// program counter active in *this* frame, then keep it unwinding. Only
	// the innermost frame on the call tree where the fault actually
	// occurred sees r as a raw (non-*FaultError) value; every enclosing
	// recursive call's own deferred recover below sees it already wrapped
	// and passes it straight through, so the attribution always names the
	// instruction that actually failed, not an outer caller.
	defer func() {
		if r := recover(); r != nil {
			if _, already := r.(*FaultError); already {
				panic(r)
			}
			panic(recoverFault(r, pc, op))
		}
	}()

	for pc < len(code) {
		op = Opcode(code[pc])
		if trace != nil {
			trace(method.Name, pc, op, f.Depth())
		}

		switch {
		case op == opNop:
			pc++

		case op >= opIconstM1 && op <= opIconst5:
			f.Push(int32(op) - int32(opIconst0))
			pc++
		case op == opBipush:
			f.Push(int32(decode.S8(code, pc, 1)))
			pc += 2
		case op == opSipush:
			f.Push(int32(decode.S16(code, pc, 1)))
			pc += 3
		case op == opLdc:
			idx := uint16(decode.U8(code, pc, 1))
			v, err := class.Pool.Integer(idx)
			if err != nil {
				panic(err)
			}
			f.Push(v)
			pc += 2

		case op == opIload || op == opAload:
			f.Push(f.LocalAt(int(decode.U8(code, pc, 1))))
			pc += 2
		case op >= opIload0 && op <= opIload3:
			f.Push(f.LocalAt(int(op - opIload0)))
			pc++
		case op >= opAload0 && op <= opAload3:
			f.Push(f.LocalAt(int(op - opAload0)))
			pc++
		case op == opIstore || op == opAstore:
			f.SetLocalAt(int(decode.U8(code, pc, 1)), f.Pop())
			pc += 2
		case op >= opIstore0 && op <= opIstore3:
			f.SetLocalAt(int(op-opIstore0), f.Pop())
			pc++
		case op >= opAstore0 && op <= opAstore3:
			f.SetLocalAt(int(op-opAstore0), f.Pop())
			pc++
		case op == opIinc:
			idx := int(decode.U8(code, pc, 1))
			delta := int32(decode.S8(code, pc, 2))
			f.SetLocalAt(idx, f.LocalAt(idx)+delta)
			pc += 3

		case op == opIadd:
			b, a := f.Pop(), f.Pop()
			f.Push(a + b)
			pc++
		case op == opIsub:
			b, a := f.Pop(), f.Pop()
			f.Push(a - b)
			pc++
		case op == opImul:
			b, a := f.Pop(), f.Pop()
			f.Push(a * b)
			pc++
		case op == opIdiv:
			b, a := f.Pop(), f.Pop()
			if b == 0 {
				panic(ErrDivisionByZero)
			}
			f.Push(a / b)
			pc++
		case op == opIrem:
			b, a := f.Pop(), f.Pop()
			if b == 0 {
				panic(ErrDivisionByZero)
			}
			f.Push(a % b)
			pc++
		case op == opIneg:
			f.Push(-f.Pop())
			pc++

		case op == opIand:
			b, a := f.Pop(), f.Pop()
			f.Push(a & b)
			pc++
		case op == opIor:
			b, a := f.Pop(), f.Pop()
			f.Push(a | b)
			pc++
		case op == opIxor:
			b, a := f.Pop(), f.Pop()
			f.Push(a ^ b)
			pc++

		case op == opIshl:
			b, a := f.Pop(), f.Pop()
			f.Push(a << (uint32(b) & 0x1F))
			pc++
		case op == opIshr:
			b, a := f.Pop(), f.Pop()
			f.Push(a >> (uint32(b) & 0x1F))
			pc++
		case op == opIushr:
			b, a := f.Pop(), f.Pop()
			f.Push(int32(uint32(a) >> (uint32(b) & 0x1F)))
			pc++

		case op == opDup:
			f.Push(f.Peek())
			pc++

		case op == opGoto:
			pc += int(decode.S16(code, pc, 1))

		case op == opIfeq:
			pc = branchUnary(f, code, pc, func(a int32) bool { return a == 0 })
		case op == opIfne:
			pc = branchUnary(f, code, pc, func(a int32) bool { return a != 0 })
		case op == opIflt:
			pc = branchUnary(f, code, pc, func(a int32) bool { return a < 0 })
		case op == opIfge:
			pc = branchUnary(f, code, pc, func(a int32) bool { return a >= 0 })
		case op == opIfgt:
			pc = branchUnary(f, code, pc, func(a int32) bool { return a > 0 })
		case op == opIfle:
			pc = branchUnary(f, code, pc, func(a int32) bool { return a <= 0 })

		case op == opIfIcmpeq:
			pc = branchBinary(f, code, pc, func(a, b int32) bool { return a == b })
		case op == opIfIcmpne:
			pc = branchBinary(f, code, pc, func(a, b int32) bool { return a != b })
		case op == opIfIcmplt:
			pc = branchBinary(f, code, pc, func(a, b int32) bool { return a < b })
		case op == opIfIcmpge:
			pc = branchBinary(f, code, pc, func(a, b int32) bool { return a >= b })
		case op == opIfIcmpgt:
			pc = branchBinary(f, code, pc, func(a, b int32) bool { return a > b })
		case op == opIfIcmple:
			pc = branchBinary(f, code, pc, func(a, b int32) bool { return a <= b })

		case op == opInvokeS:
			pc = m.invokeStatic(f, code, pc, class, trace)

		case op == opIreturn || op == opAreturn:
			return Result{HasValue: true, Value: f.Pop()}
		case op == opReturn:
			return Result{}

		case op == opGetstatic:
			// Treated as a no-op of width 3: the "stream" object is
			// implicit and nothing is pushed or popped.
			pc += 3
		case op == opInvokeV:
			m.Println(f.Pop())
			pc += 3

		case op == opNewarray:
			n := f.Pop()
			arr := make([]int32, n)
			ref := m.Heap.Allocate(arr)
			f.Push(ref)
			pc += 2
		case op == opArraylen:
			ref := f.Pop()
			f.Push(int32(len(m.Heap.Get(ref))))
			pc++
		case op == opIaload:
			i := f.Pop()
			ref := f.Pop()
			f.Push(m.Heap.Get(ref)[i])
			pc++
		case op == opIastore:
			v := f.Pop()
			i := f.Pop()
			ref := f.Pop()
			m.Heap.Get(ref)[i] = v
			pc++

		default:
			panic(ErrUnknownOpcode)
		}
	}

	// Ran off the end of the code array without a return instruction: the
	// method's bytecode is malformed, since pc must always point to a valid
	// instruction when the loop re-enters.
	panic(ErrCodeFellThrough)
}

// branchUnary pops one operand, evaluates pred against it, and returns the
// next program counter: pc+S16 offset if pred holds, pc+3 otherwise.
func branchUnary(f *frame.Frame, code []byte, pc int, pred func(int32) bool) int {
	a := f.Pop()
	if pred(a) {
		return pc + int(decode.S16(code, pc, 1))
	}
	return pc + 3
}

// branchBinary pops two operands (b then a, so a was pushed first) and
// evaluates pred(a, b).
func branchBinary(f *frame.Frame, code []byte, pc int, pred func(a, b int32) bool) int {
	b := f.Pop()
	a := f.Pop()
	if pred(a, b) {
		return pc + int(decode.S16(code, pc, 1))
	}
	return pc + 3
}

// invokeStatic implements the full invokestatic calling convention:
// resolve the callee, pop its parameters off the caller's stack in
// left-to-right order, recurse, and push any returned value.
func (m *Machine) invokeStatic(f *frame.Frame, code []byte, pc int, class *classfile.Class, trace Trace) int {
	cpIndex := decode.U16(code, pc, 1)
	callee, err := class.FindMethodFromIndex(cpIndex)
	if err != nil {
		panic(err)
	}

	params := callee.NumParameters()
	calleeLocals := make([]int32, callee.MaxLocals)
	for i := 0; i < params; i++ {
		calleeLocals[params-i-1] = f.Pop()
	}

	result := m.execute(callee, calleeLocals, class, trace)
	if result.HasValue {
		f.Push(result.Value)
	}
	return pc + 3
}
