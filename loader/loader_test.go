package loader_test

import (
	"testing"

	"github.com/sicxe/assembler/encoder"
	"github.com/sicxe/assembler/loader"
	"github.com/sicxe/assembler/object"
	"github.com/sicxe/assembler/parser"
	"github.com/sicxe/assembler/pass1"
	"github.com/sicxe/assembler/vm"
)

const copyProgram = `COPY     START   1000
FIRST    STL     RETADR
         LDA     FIVE
         ADD     FOUR
RETADR   RESW    1
FOUR     WORD    4
FIVE     WORD    5
         END     FIRST
`

func assemble(t *testing.T) (*pass1.Result, *encoder.Result, *object.Program) {
	t.Helper()
	lines := parser.Tokenize(copyProgram)
	p1 := pass1.Run(lines)
	if !p1.Success {
		t.Fatalf("pass1 failed: %v", p1.Diagnostics.Errors())
	}
	p2 := encoder.Run(p1)
	if !p2.Success {
		t.Fatalf("pass2 failed: %v", p2.Diagnostics.Errors())
	}
	return p1, p2, object.Generate(p1, p2)
}

func TestParseObjectText_RoundTrip(t *testing.T) {
	_, _, prog := assemble(t)
	text := prog.String()

	parsed, err := loader.ParseObjectText(text)
	if err != nil {
		t.Fatalf("ParseObjectText failed: %v", err)
	}

	if parsed.Header != prog.Header {
		t.Errorf("header mismatch: got %+v, want %+v", parsed.Header, prog.Header)
	}
	if len(parsed.Text) != len(prog.Text) {
		t.Fatalf("expected %d text records, got %d", len(prog.Text), len(parsed.Text))
	}
	for i := range prog.Text {
		if parsed.Text[i].StartAddress != prog.Text[i].StartAddress {
			t.Errorf("text record %d: address mismatch", i)
		}
		if string(parsed.Text[i].Bytes) != string(prog.Text[i].Bytes) {
			t.Errorf("text record %d: byte mismatch: got % X, want % X", i, parsed.Text[i].Bytes, prog.Text[i].Bytes)
		}
	}
	if parsed.End != prog.End {
		t.Errorf("end record mismatch: got %+v, want %+v", parsed.End, prog.End)
	}
}

func TestParseObjectText_RoundTripsModificationSignAndSymbol(t *testing.T) {
	lines := parser.Tokenize("PROG     START   0\n         +LDT    BUFFER\nBUFFER   RESW    1\n         END     PROG\n")
	p1 := pass1.Run(lines)
	if !p1.Success {
		t.Fatalf("pass1 failed: %v", p1.Diagnostics.Errors())
	}
	p2 := encoder.Run(p1)
	if !p2.Success {
		t.Fatalf("pass2 failed: %v", p2.Diagnostics.Errors())
	}
	prog := object.Generate(p1, p2)

	parsed, err := loader.ParseObjectText(prog.String())
	if err != nil {
		t.Fatalf("ParseObjectText failed: %v", err)
	}

	if len(parsed.Modifications) != 1 {
		t.Fatalf("expected exactly one modification record, got %d", len(parsed.Modifications))
	}
	if parsed.Modifications[0] != prog.Modifications[0] {
		t.Errorf("modification record mismatch: got %+v, want %+v", parsed.Modifications[0], prog.Modifications[0])
	}
	if parsed.Modifications[0].Sign != '+' || parsed.Modifications[0].Symbol != "PROG" {
		t.Errorf("expected sign + and symbol PROG, got %+v", parsed.Modifications[0])
	}
}

func TestLoad_PlacesBytesAtRecordedAddresses(t *testing.T) {
	_, _, prog := assemble(t)
	loaded, err := loader.Load(prog, vm.XEMemorySize)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	b, err := loaded.Memory.GetBytes(0x1000, 3)
	if err != nil {
		t.Fatalf("GetBytes failed: %v", err)
	}
	want := []byte{0x17, 0x20, 0x06}
	if string(b) != string(want) {
		t.Errorf("expected % X at 0x1000, got % X", want, b)
	}
}

func TestLoadFromEncoded_TagsCodeAndData(t *testing.T) {
	p1, p2, _ := assemble(t)
	loaded, err := loader.LoadFromEncoded(p1, p2, vm.XEMemorySize)
	if err != nil {
		t.Fatalf("LoadFromEncoded failed: %v", err)
	}

	info, err := loaded.Memory.InfoAt(0x1000)
	if err != nil {
		t.Fatalf("InfoAt failed: %v", err)
	}
	if info.Kind != vm.KindCode {
		t.Errorf("expected instruction byte to be tagged KindCode, got %v", info.Kind)
	}

	info, err = loaded.Memory.InfoAt(0x100C)
	if err != nil {
		t.Fatalf("InfoAt failed: %v", err)
	}
	if info.Kind != vm.KindData || info.Label != "FOUR" {
		t.Errorf("expected FOUR's WORD constant to be tagged KindData with label FOUR, got kind=%v label=%q", info.Kind, info.Label)
	}
}

func TestLoadFromEncoded_FirstExecAddressFromEND(t *testing.T) {
	p1, p2, _ := assemble(t)
	loaded, err := loader.LoadFromEncoded(p1, p2, vm.XEMemorySize)
	if err != nil {
		t.Fatalf("LoadFromEncoded failed: %v", err)
	}
	if loaded.FirstExecAddress != 0x1000 {
		t.Errorf("expected first executable address 0x1000, got %05X", loaded.FirstExecAddress)
	}
}
