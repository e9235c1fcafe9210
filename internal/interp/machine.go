package interp

import (
	"fmt"

	"github.com/dzli7/JVM-Stack-Machine/internal/classfile"
	"github.com/dzli7/JVM-Stack-Machine/internal/heap"
)

// Result is a method's optional 32-bit return value: void, or a single
// int/reference slot.
type Result struct {
	HasValue bool
	Value    int32
}

// Println is the host I/O hook invokevirtual calls through. getstatic and
// invokevirtual are not truly implemented against a constant pool method
// reference: the receiver and method identity are ignored, and
// invokevirtual always means "print one decimal integer followed by a
// newline." Keeping that behind a named hook, rather than inlining
// fmt.Println at the call site, lets a future caller swap in real
// field/virtual-dispatch semantics without touching the dispatch loop.
type Println func(v int32)

// Machine bundles the two collaborators every invocation shares across the
// whole call tree: the heap, shared across every frame in a single call
// tree, and the host I/O hook. A Machine has no per-call state of its own,
// so the same value is passed unchanged into every recursive Execute.
type Machine struct {
	Heap    *heap.Heap
	Println Println
}

// New returns a Machine with a fresh heap and stdout-printing I/O hook.
func New(print Println) *Machine {
	if print == nil {
		print = func(v int32) { fmt.Println(v) }
	}
	return &Machine{Heap: heap.New(), Println: print}
}

// Trace, if set, is called once per dispatched instruction with the
// executing method's name, the program counter, the opcode about to run,
// and the current operand stack depth. It exists purely for the CLI's
// --trace flag; the interpreter never reads it back and it never affects
// dispatch.
type Trace func(methodName string, pc int, op Opcode, stackDepth int)

// Execute runs method's instructions to completion, starting at pc=0 with
// the given locals (already populated with the parameter prefix), recursing
// into itself for invokestatic call targets resolved against class.
//
// Execute does not turn faults raised mid-dispatch (stack/locals bounds
// violations, division by zero, bad heap references, unknown opcodes) into
// a returned error: the faulting frame wraps the panic in a *FaultError
// and re-panics, and it propagates out of Execute as a Go panic so every
// enclosing recursive call's deferred frame release still fires during
// unwind. Callers that want the *FaultError as an error value should call
// RunMain, which recovers it at the outermost frame.
func (m *Machine) Execute(method *classfile.Method, locals []int32, class *classfile.Class, trace Trace) Result {
	return m.execute(method, locals, class, trace)
}

// RunMain locates main([Ljava/lang/String;)V in class, executes it with a
// zeroed locals array, and enforces the entry contract that main returns
// void. A panic anywhere in the call tree is recovered here and reported
// as a *FaultError, already attributed to the
// innermost frame's program counter and opcode by execute's own per-frame
// recover/repanic (see exec.go); find-main and returned-value violations
// are reported as the plain sentinel errors ErrMissingMain / ErrMainReturnedValue.
func (m *Machine) RunMain(class *classfile.Class, trace Trace) (err error) {
	const mainName = "main"
	const mainDescriptor = "([Ljava/lang/String;)V"

	method, ok := class.FindMethod(mainName, mainDescriptor)
	if !ok {
		return ErrMissingMain
	}

	defer func() {
		if r := recover(); r != nil {
			if fe, ok := r.(*FaultError); ok {
				err = fe
				return
			}
			err = recoverFault(r, 0, Opcode(0))
		}
	}()

	locals := make([]int32, method.MaxLocals)
	result := m.execute(method, locals, class, trace)
	if result.HasValue {
		return ErrMainReturnedValue
	}
	return nil
}
