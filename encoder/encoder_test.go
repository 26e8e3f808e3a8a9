package encoder_test

import (
	"testing"

	"github.com/sicxe/assembler/encoder"
	"github.com/sicxe/assembler/parser"
	"github.com/sicxe/assembler/pass1"
)

func runPass2(t *testing.T, source string) (*pass1.Result, *encoder.Result) {
	t.Helper()
	lines := parser.Tokenize(source)
	p1 := pass1.Run(lines)
	if !p1.Success {
		t.Fatalf("pass1 failed: %v", p1.Diagnostics.Errors())
	}
	return p1, encoder.Run(p1)
}

func bytesOf(t *testing.T, p2 *encoder.Result, locctr uint32) []byte {
	t.Helper()
	for _, e := range p2.Encoded {
		if e.Entry.HasLocCtr && e.Entry.LocCtr == locctr && len(e.Bytes) > 0 {
			return e.Bytes
		}
	}
	t.Fatalf("no encoded entry at %05X", locctr)
	return nil
}

func TestRun_Format1(t *testing.T) {
	_, p2 := runPass2(t, "PROG     START   0\n         FIX\n         END     PROG\n")
	if !p2.Success {
		t.Fatalf("unexpected diagnostics: %v", p2.Diagnostics.Errors())
	}
	b := bytesOf(t, p2, 0)
	if len(b) != 1 || b[0] != 0xC4 {
		t.Errorf("expected [C4], got % X", b)
	}
}

func TestRun_Format2(t *testing.T) {
	_, p2 := runPass2(t, "PROG     START   0\n         ADDR    A,X\n         END     PROG\n")
	b := bytesOf(t, p2, 0)
	if len(b) != 2 || b[0] != 0x90 || b[1] != 0x01 {
		t.Errorf("expected [90 01], got % X", b)
	}
}

func TestEncodeFormat2_SHIFTLMissingCountIsAnErrorNotAPanic(t *testing.T) {
	_, err := encoder.EncodeFormat2("SHIFTL", 0xA4, "A")
	if err == nil {
		t.Fatalf("expected an error for a missing shift count, got none")
	}
}

func TestRun_Format3SimpleAddressing(t *testing.T) {
	// STL RETADR at 0, RETADR at 3: PC-relative disp = 3 - 3 = 0.
	_, p2 := runPass2(t, "PROG     START   0\n         STL     RETADR\nRETADR   RESW    1\n         END     PROG\n")
	if !p2.Success {
		t.Fatalf("unexpected diagnostics: %v", p2.Diagnostics.Errors())
	}
	b := bytesOf(t, p2, 0)
	// STL opcode 0x14, n=i=1 sets both low bits -> 0x17; flags p=1 -> nibble 0x20; disp=0.
	want := []byte{0x17, 0x20, 0x00}
	if len(b) != 3 || b[0] != want[0] || b[1] != want[1] || b[2] != want[2] {
		t.Errorf("expected % X, got % X", want, b)
	}
}

func TestRun_Format3ImmediateConstant(t *testing.T) {
	_, p2 := runPass2(t, "PROG     START   0\n         LDA     #5\n         END     PROG\n")
	b := bytesOf(t, p2, 0)
	// LDA opcode 0x00, n=0 i=1 -> opcode byte 0x01, no x/b/p/e, disp=5.
	want := []byte{0x01, 0x00, 0x05}
	if len(b) != 3 || b[0] != want[0] || b[1] != want[1] || b[2] != want[2] {
		t.Errorf("expected % X, got % X", want, b)
	}
}

func TestRun_Format4SetsExtendedFlagAndModification(t *testing.T) {
	_, p2 := runPass2(t, "PROG     START   0\n         +LDT    BUFFER\nBUFFER   RESW    1\n         END     PROG\n")
	var enc *encoder.Encoded
	for _, e := range p2.Encoded {
		if e.Entry.HasLocCtr && e.Entry.LocCtr == 0 {
			enc = e
		}
	}
	if enc == nil {
		t.Fatalf("no encoded entry at address 0")
	}
	if len(enc.Bytes) != 4 {
		t.Fatalf("expected 4-byte Format-4 instruction, got %d bytes", len(enc.Bytes))
	}
	if enc.Bytes[1]&0x10 == 0 {
		t.Errorf("expected E flag set in Format-4 encoding, got % X", enc.Bytes)
	}
	if !enc.NeedsModification {
		t.Errorf("expected a Format-4 symbol reference to need modification")
	}
}

func TestRun_UndefinedSymbolIsAnError(t *testing.T) {
	_, p2 := runPass2(t, "PROG     START   0\n         LDA     NOPE\n         END     PROG\n")
	if p2.Success {
		t.Fatalf("expected an undefined symbol reference to fail")
	}
}

func TestRun_BaseRelativeFallback(t *testing.T) {
	src := "PROG     START   0\n         BASE    BUFFER\n         LDA     BUFFER\n" +
		"         RESW    2000\nBUFFER   RESW    1\n         END     PROG\n"
	_, p2 := runPass2(t, src)
	if !p2.Success {
		t.Fatalf("unexpected diagnostics: %v", p2.Diagnostics.Errors())
	}
}
