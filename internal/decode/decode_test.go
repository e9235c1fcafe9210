package decode

import "testing"

func TestU8AndS8(t *testing.T) {
	code := []byte{0x00, 0xFF, 0x7F}

	if got := U8(code, 0, 1); got != 0xFF {
		t.Fatalf("U8 = %d, want 255", got)
	}
	if got := S8(code, 0, 1); got != -1 {
		t.Fatalf("S8 = %d, want -1", got)
	}
	if got := S8(code, 0, 2); got != 127 {
		t.Fatalf("S8 = %d, want 127", got)
	}
}

func TestU16AndS16(t *testing.T) {
	code := []byte{0x00, 0xFF, 0xFF, 0x00, 0x0A}

	if got := U16(code, 0, 1); got != 0xFFFF {
		t.Fatalf("U16 = %#x, want 0xFFFF", got)
	}
	if got := S16(code, 0, 1); got != -1 {
		t.Fatalf("S16 = %d, want -1", got)
	}
	if got := S16(code, 0, 3); got != 0x0A {
		t.Fatalf("S16 = %d, want 10", got)
	}
}

func TestS16NegativeBranchOffset(t *testing.T) {
	// 0xFFF8 as a signed 16-bit value is -8.
	code := []byte{0x00, 0xFF, 0xF8}
	pc := 10
	target := pc + int(S16(code, 0, 1))
	if target != 2 {
		t.Fatalf("backward branch target = %d, want 2", target)
	}
}
