package parser_test

import (
	"testing"

	"github.com/sicxe/assembler/parser"
)

func validateSource(t *testing.T, source string) *parser.DiagnosticList {
	t.Helper()
	lines := parser.Tokenize(source)
	return parser.Validate(lines)
}

func TestValidate_ValidProgramHasNoErrors(t *testing.T) {
	dl := validateSource(t, "COPY     START   0\n         LDA     FIVE\n         RSUB\nFIVE     WORD    5\n         END     COPY\n")
	if dl.HasErrors() {
		t.Errorf("unexpected errors: %v", dl.Errors())
	}
}

func TestValidate_UnknownOpcode(t *testing.T) {
	dl := validateSource(t, "         FROB    1\n")
	if !dl.HasErrors() {
		t.Fatalf("expected an error for unknown opcode")
	}
	if dl.Errors()[0].Kind != parser.ErrorUnknownOpcode {
		t.Errorf("expected ErrorUnknownOpcode, got %v", dl.Errors()[0].Kind)
	}
}

func TestValidate_ExtendedOnNonFormat3(t *testing.T) {
	dl := validateSource(t, "         +CLEAR  A\n")
	if !dl.HasErrors() {
		t.Fatalf("expected an error for '+' on a Format-2 instruction")
	}
	if dl.Errors()[0].Kind != parser.ErrorIllegalExtended {
		t.Errorf("expected ErrorIllegalExtended, got %v", dl.Errors()[0].Kind)
	}
}

func TestValidate_ImmediateIndexedCombination(t *testing.T) {
	dl := validateSource(t, "         LDA     #BUFFER,X\n")
	if !dl.HasErrors() {
		t.Fatalf("expected an error combining immediate and indexed addressing")
	}
	if dl.Errors()[0].Kind != parser.ErrorCombinedImmediateIndexed {
		t.Errorf("expected ErrorCombinedImmediateIndexed, got %v", dl.Errors()[0].Kind)
	}
}

func TestValidate_BadByteConstant(t *testing.T) {
	dl := validateSource(t, "FLAG     BYTE    X'1'\n")
	if !dl.HasErrors() {
		t.Fatalf("expected an error for an odd number of hex digits")
	}
}

func TestValidate_Format2RequiresRegisters(t *testing.T) {
	dl := validateSource(t, "         ADDR    A,Q\n")
	if !dl.HasErrors() {
		t.Fatalf("expected an error for an invalid register name")
	}
}

func TestValidate_RESBRejectsNegative(t *testing.T) {
	dl := validateSource(t, "BUF      RESB    -1\n")
	if !dl.HasErrors() {
		t.Fatalf("expected an error for a negative reservation count")
	}
}

func TestValidate_InvalidLabel(t *testing.T) {
	dl := validateSource(t, "1BAD     WORD    1\n")
	if !dl.HasErrors() {
		t.Fatalf("expected an error for a label starting with a digit")
	}
	if dl.Errors()[0].Kind != parser.ErrorBadLabel {
		t.Errorf("expected ErrorBadLabel, got %v", dl.Errors()[0].Kind)
	}
}
