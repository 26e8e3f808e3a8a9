package object_test

import (
	"strings"
	"testing"

	"github.com/sicxe/assembler/encoder"
	"github.com/sicxe/assembler/object"
	"github.com/sicxe/assembler/parser"
	"github.com/sicxe/assembler/pass1"
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

func assemble(t *testing.T, source string) *object.Program {
	t.Helper()
	lines := parser.Tokenize(source)
	p1 := pass1.Run(lines)
	if !p1.Success {
		t.Fatalf("pass1 failed: %v", p1.Diagnostics.Errors())
	}
	p2 := encoder.Run(p1)
	if !p2.Success {
		t.Fatalf("pass2 failed: %v", p2.Diagnostics.Errors())
	}
	return object.Generate(p1, p2)
}

func TestGenerate_HeaderRecord(t *testing.T) {
	prog := assemble(t, copyProgram)
	if prog.Header.ProgramName != "COPY" {
		t.Errorf("expected program name COPY, got %q", prog.Header.ProgramName)
	}
	if prog.Header.StartAddress != 0x1000 {
		t.Errorf("expected start address 0x1000, got %05X", prog.Header.StartAddress)
	}
}

func TestGenerate_TextRecordsAreContiguous(t *testing.T) {
	prog := assemble(t, copyProgram)
	if len(prog.Text) == 0 {
		t.Fatalf("expected at least one text record")
	}
	for _, tr := range prog.Text {
		if len(tr.Bytes) == 0 {
			t.Errorf("text record at %05X has no bytes", tr.StartAddress)
		}
		if len(tr.Bytes) > 30 {
			t.Errorf("text record at %05X exceeds 30-byte limit: %d bytes", tr.StartAddress, len(tr.Bytes))
		}
	}
}

func TestGenerate_RESWGapSplitsTextRecords(t *testing.T) {
	prog := assemble(t, copyProgram)
	// RETADR's RESW 1 opens a 3-byte gap between the instructions and
	// the FOUR/FIVE WORD constants, so they must land in separate
	// Text records.
	if len(prog.Text) < 2 {
		t.Fatalf("expected RESW to split object code into at least 2 text records, got %d", len(prog.Text))
	}
}

func TestGenerate_EndRecordNamesFirstExecutableAddress(t *testing.T) {
	prog := assemble(t, copyProgram)
	if !prog.End.HasAddress || prog.End.FirstExecAddress != 0x1000 {
		t.Errorf("expected end address 0x1000, got %05X (has=%v)", prog.End.FirstExecAddress, prog.End.HasAddress)
	}
}

func TestString_RendersHTEInOrder(t *testing.T) {
	prog := assemble(t, copyProgram)
	text := prog.String()
	lines := strings.Split(text, "\n")
	if lines[0][0] != 'H' {
		t.Errorf("expected first record to be H, got %q", lines[0])
	}
	if lines[len(lines)-1][0] != 'E' {
		t.Errorf("expected last record to be E, got %q", lines[len(lines)-1])
	}
}

func TestGenerate_Format4NeedsModificationRecord(t *testing.T) {
	prog := assemble(t, "PROG     START   0\n         +LDT    BUFFER\nBUFFER   RESW    1\n         END     PROG\n")
	if len(prog.Modifications) != 1 {
		t.Fatalf("expected exactly one modification record, got %d", len(prog.Modifications))
	}
	if prog.Modifications[0].Address != 1 || prog.Modifications[0].HalfByteLength != 5 {
		t.Errorf("unexpected modification record: %+v", prog.Modifications[0])
	}
}
