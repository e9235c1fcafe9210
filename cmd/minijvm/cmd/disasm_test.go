package cmd

import (
	"strings"
	"testing"

	"github.com/dzli7/JVM-Stack-Machine/internal/classfile/classbuilder"
	"github.com/tidwall/gjson"
)

func TestDisasmClassFileText(t *testing.T) {
	b := classbuilder.New()
	code := classbuilder.NewCode().
		Op1(0x10, 42).
		Op2(0xB2, 0).
		Op2(0xB6, 0).
		Op(0xB1).
		Bytes()
	b.AddMethod("main", "([Ljava/lang/String;)V", 1, 0, code)
	path := writeClassFile(t, b)

	disasmJSON = false
	out := captureStdout(t, func() {
		if err := disasmClassFile(disasmCmd, []string{path}); err != nil {
			t.Fatalf("disasmClassFile returned error: %v", err)
		}
	})

	if !strings.Contains(out, "main([Ljava/lang/String;)V") {
		t.Fatalf("output missing method header: %q", out)
	}
	if !strings.Contains(out, "bipush") {
		t.Fatalf("output missing bipush mnemonic: %q", out)
	}
}

func TestDisasmClassFileJSON(t *testing.T) {
	b := classbuilder.New()
	code := classbuilder.NewCode().
		Op1(0x10, 42).
		Op2(0xB2, 0).
		Op2(0xB6, 0).
		Op(0xB1).
		Bytes()
	b.AddMethod("main", "([Ljava/lang/String;)V", 1, 0, code)
	path := writeClassFile(t, b)

	disasmJSON = true
	defer func() { disasmJSON = false }()
	out := captureStdout(t, func() {
		if err := disasmClassFile(disasmCmd, []string{path}); err != nil {
			t.Fatalf("disasmClassFile returned error: %v", err)
		}
	})

	line := strings.TrimSpace(strings.SplitN(out, "\n", 2)[0])
	if method := gjson.Get(line, "method").String(); method != "main" {
		t.Fatalf("method = %q, want main", method)
	}
	if op := gjson.Get(line, "instructions.0.op").String(); op != "bipush" {
		t.Fatalf("instructions.0.op = %q, want bipush", op)
	}
}
