package tools

import (
	"strings"
	"testing"
)

func TestFormat_AlignsOpcodeAndOperandColumns(t *testing.T) {
	out := FormatString("FIRST STL RETADR . save return address\n")
	line := strings.TrimRight(strings.Split(out, "\n")[0], "\n")
	if !strings.HasPrefix(line, "FIRST") {
		t.Fatalf("expected label at start of line, got %q", line)
	}
	if !strings.Contains(line, "STL") || !strings.Contains(line, "RETADR") {
		t.Errorf("expected opcode and operand preserved, got %q", line)
	}
}

func TestFormat_CompactStyleUsesSingleSpaces(t *testing.T) {
	out := FormatStringWithStyle("FIRST STL RETADR\n", FormatCompact)
	line := strings.TrimRight(out, "\n")
	if line != "FIRST STL RETADR" {
		t.Errorf("expected compact single-space layout, got %q", line)
	}
}

func TestFormat_PreservesExtendedPrefixAndIndexedSuffix(t *testing.T) {
	out := FormatString("       +LDT    BUFFER,X\n")
	if !strings.Contains(out, "+LDT") {
		t.Errorf("expected extended '+' prefix preserved, got %q", out)
	}
	if !strings.Contains(out, "BUFFER,X") {
		t.Errorf("expected indexed operand preserved, got %q", out)
	}
}

func TestFormat_PreservesImmediateAndIndirectPrefixes(t *testing.T) {
	out := FormatString("       LDA     #5\n       J       @TARGET\n")
	if !strings.Contains(out, "#5") {
		t.Errorf("expected '#' immediate prefix preserved, got %q", out)
	}
	if !strings.Contains(out, "@TARGET") {
		t.Errorf("expected '@' indirect prefix preserved, got %q", out)
	}
}

func TestFormat_PreservesCommentLines(t *testing.T) {
	out := FormatString(".   this is a full-line comment\n")
	if !strings.Contains(out, "this is a full-line comment") {
		t.Errorf("expected comment line preserved verbatim, got %q", out)
	}
}

func TestFormat_PreservesBlankLines(t *testing.T) {
	out := FormatString("       LDA     FIVE\n\n       LDA     FOUR\n")
	lines := strings.Split(out, "\n")
	if len(lines) < 3 || lines[1] != "" {
		t.Errorf("expected a blank line to survive formatting, got %q", out)
	}
}
