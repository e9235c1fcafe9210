package classfile_test

import (
	"bytes"
	"testing"

	"github.com/dzli7/JVM-Stack-Machine/internal/classfile"
	"github.com/dzli7/JVM-Stack-Machine/internal/classfile/classbuilder"
)

func buildSimpleClass(t *testing.T) *classfile.Class {
	t.Helper()

	b := classbuilder.New()
	ldcIdx := b.IntegerConstant(42)
	b.AddMethod("main", "([Ljava/lang/String;)V", 2, 1, []byte{
		0xB2, 0x00, 0x00, // getstatic (3-byte no-op)
		0x12, byte(ldcIdx), // ldc <idx>
		0xB6, 0x00, 0x00, // invokevirtual (prints top of stack)
		0xB1, // return
	})

	cls, err := classfile.Parse(bytes.NewReader(b.Bytes()))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return cls
}

func TestParseFindsMainMethod(t *testing.T) {
	cls := buildSimpleClass(t)

	m, ok := cls.FindMethod("main", "([Ljava/lang/String;)V")
	if !ok {
		t.Fatal("expected to find main method")
	}
	if m.MaxStack != 2 || m.MaxLocals != 1 {
		t.Fatalf("unexpected max_stack/max_locals: %d/%d", m.MaxStack, m.MaxLocals)
	}
	if len(m.Code) != 9 {
		t.Fatalf("unexpected code length: %d", len(m.Code))
	}
}

func TestParseLdcReadsIntegerConstant(t *testing.T) {
	cls := buildSimpleClass(t)
	m, _ := cls.FindMethod("main", "([Ljava/lang/String;)V")

	idx := uint16(m.Code[4])
	v, err := cls.Pool.Integer(idx)
	if err != nil {
		t.Fatalf("Integer: %v", err)
	}
	if v != 42 {
		t.Fatalf("got %d, want 42", v)
	}
}

func TestFindMethodFromIndex(t *testing.T) {
	b := classbuilder.New()
	calleeIdx := b.MethodRef("helper", "(I)I")
	b.AddMethod("helper", "(I)I", 1, 1, []byte{0x1A, 0xAC}) // iload_0, ireturn
	b.AddMethod("main", "([Ljava/lang/String;)V", 1, 1, []byte{
		0x03,                                         // iconst_0
		0xB8, byte(calleeIdx >> 8), byte(calleeIdx), // invokestatic
		0xB1, // return
	})

	cls, err := classfile.Parse(bytes.NewReader(b.Bytes()))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	resolved, err := cls.FindMethodFromIndex(calleeIdx)
	if err != nil {
		t.Fatalf("FindMethodFromIndex: %v", err)
	}
	if resolved.Name != "helper" || resolved.Descriptor != "(I)I" {
		t.Fatalf("resolved to wrong method: %+v", resolved)
	}
}

func TestNumberOfParameters(t *testing.T) {
	cases := []struct {
		descriptor string
		want       int
	}{
		{"()V", 0},
		{"(I)I", 1},
		{"(II)I", 2},
		{"([Ljava/lang/String;)V", 1},
		{"(ILjava/lang/Object;[I)V", 3},
	}
	for _, c := range cases {
		if got := classfile.NumberOfParameters(c.descriptor); got != c.want {
			t.Errorf("NumberOfParameters(%q) = %d, want %d", c.descriptor, got, c.want)
		}
	}
}
