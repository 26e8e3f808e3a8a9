package parser

import (
	"strconv"
	"strings"
)

// Validate performs per-line syntactic validation: it is a
// pure function from tokenized lines to diagnostics and never mutates
// state or looks symbols up in a table.
func Validate(lines []*Line) *DiagnosticList {
	dl := &DiagnosticList{}
	for _, line := range lines {
		validateLine(line, dl)
	}
	return dl
}

func validateLine(line *Line, dl *DiagnosticList) {
	if line.IsEmpty || line.IsComment {
		return
	}

	if line.Label != "" && !IsValidLabel(line.Label) {
		dl.Add(NewDiagnostic(PhaseSyntax, line.LineNo, ErrorBadLabel,
			"invalid label: "+line.Label).WithExcerpt(line.Raw).
			WithHint("labels must start with a letter, be at most 16 characters, and contain only letters, digits, or underscores"))
	}

	if line.Opcode == "" {
		dl.Add(NewDiagnostic(PhaseSyntax, line.LineNo, ErrorMissingOpcode,
			"missing opcode").WithExcerpt(line.Raw))
		return
	}

	known := IsKnownOpcode(line.Opcode)
	directive := IsDirective(line.Opcode)
	if !known && !directive {
		dl.Add(NewDiagnostic(PhaseSyntax, line.LineNo, ErrorUnknownOpcode,
			"unknown opcode: "+line.Opcode).WithExcerpt(line.Raw))
		return
	}

	if line.Extended {
		if !known || OpTable[line.Opcode].Fmt != Format3 {
			dl.Add(NewDiagnostic(PhaseSyntax, line.LineNo, ErrorIllegalExtended,
				"'+' prefix is only valid on Format-3 instructions").WithExcerpt(line.Raw))
		}
	}

	if line.Prefix == PrefixImmediate && line.Indexed {
		dl.Add(NewDiagnostic(PhaseSyntax, line.LineNo, ErrorCombinedImmediateIndexed,
			"immediate addressing cannot be combined with indexed addressing").WithExcerpt(line.Raw))
	}

	if directive {
		validateDirective(line, dl)
		return
	}

	entry := OpTable[line.Opcode]
	if entry.Fmt == Format2 {
		validateFormat2(line, entry, dl)
	}
}

func validateDirective(line *Line, dl *DiagnosticList) {
	switch line.Opcode {
	case "START":
		if line.Operand == "" {
			dl.Add(NewWarning(PhaseSyntax, line.LineNo, ErrorBadOperand,
				"START has no operand, defaulting start address to 0").WithExcerpt(line.Raw))
		} else if !IsValidHex(line.Operand) && !IsValidDecimal(line.Operand) {
			dl.Add(NewDiagnostic(PhaseSyntax, line.LineNo, ErrorBadOperand,
				"START operand must be a hex address: "+line.Operand).WithExcerpt(line.Raw))
		}
	case "BYTE":
		if !IsValidByteConstant(line.Operand) {
			dl.Add(NewDiagnostic(PhaseSyntax, line.LineNo, ErrorBadOperand,
				"invalid BYTE constant: "+line.Operand).WithExcerpt(line.Raw).
				WithHint("use C'…' for characters or X'…' with an even number of hex digits"))
		}
	case "WORD":
		if line.Operand == "" {
			dl.Add(NewDiagnostic(PhaseSyntax, line.LineNo, ErrorBadOperand,
				"WORD requires an operand").WithExcerpt(line.Raw))
		}
	case "RESB", "RESW":
		if !IsValidDecimal(line.Operand) || strings.HasPrefix(line.Operand, "-") {
			dl.Add(NewDiagnostic(PhaseSyntax, line.LineNo, ErrorBadOperand,
				line.Opcode+" requires a positive decimal integer operand").WithExcerpt(line.Raw))
		}
	case "BASE":
		if line.Operand == "" {
			dl.Add(NewDiagnostic(PhaseSyntax, line.LineNo, ErrorBadOperand,
				"BASE requires an operand").WithExcerpt(line.Raw))
		}
	case "NOBASE", "LTORG":
		if line.Operand != "" {
			dl.Add(NewWarning(PhaseSyntax, line.LineNo, ErrorBadOperand,
				line.Opcode+" does not take an operand").WithExcerpt(line.Raw))
		}
	case "EQU":
		if line.Label == "" {
			dl.Add(NewDiagnostic(PhaseSyntax, line.LineNo, ErrorBadOperand,
				"EQU requires a label").WithExcerpt(line.Raw))
		}
		if line.Operand == "" {
			dl.Add(NewDiagnostic(PhaseSyntax, line.LineNo, ErrorBadOperand,
				"EQU requires an operand").WithExcerpt(line.Raw))
		}
	case "ORG":
		if line.Operand == "" {
			dl.Add(NewDiagnostic(PhaseSyntax, line.LineNo, ErrorBadOperand,
				"ORG requires an operand").WithExcerpt(line.Raw))
		}
	}
}

func validateFormat2(line *Line, entry OpEntry, dl *DiagnosticList) {
	operands := splitOperands(line.Operand)

	switch line.Opcode {
	case "SVC":
		if len(operands) != 1 || !IsValidDecimal(operands[0]) {
			dl.Add(NewDiagnostic(PhaseSyntax, line.LineNo, ErrorBadOperand,
				"SVC requires a single decimal operand").WithExcerpt(line.Raw))
		}
	case "SHIFTL", "SHIFTR":
		if len(operands) != 2 {
			dl.Add(NewDiagnostic(PhaseSyntax, line.LineNo, ErrorBadOperand,
				line.Opcode+" requires a register and a decimal count").WithExcerpt(line.Raw))
			return
		}
		if !isRegister(operands[0]) {
			dl.Add(NewDiagnostic(PhaseSyntax, line.LineNo, ErrorBadOperand,
				"not a register: "+operands[0]).WithExcerpt(line.Raw))
		}
		if !IsValidDecimal(operands[1]) {
			dl.Add(NewDiagnostic(PhaseSyntax, line.LineNo, ErrorBadOperand,
				"not a decimal count: "+operands[1]).WithExcerpt(line.Raw))
		}
	case "CLEAR", "TIXR":
		if len(operands) != 1 || !isRegister(operands[0]) {
			dl.Add(NewDiagnostic(PhaseSyntax, line.LineNo, ErrorBadOperand,
				line.Opcode+" requires a single register operand").WithExcerpt(line.Raw))
		}
	default:
		if len(operands) != entry.Operand {
			dl.Add(NewDiagnostic(PhaseSyntax, line.LineNo, ErrorBadOperand,
				line.Opcode+" expects "+strconv.Itoa(entry.Operand)+" register operand(s)").WithExcerpt(line.Raw))
			return
		}
		for _, op := range operands {
			if !isRegister(op) {
				dl.Add(NewDiagnostic(PhaseSyntax, line.LineNo, ErrorBadOperand,
					"not a register: "+op).WithExcerpt(line.Raw))
			}
		}
	}
}

func splitOperands(operand string) []string {
	if operand == "" {
		return nil
	}
	parts := strings.Split(operand, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, strings.TrimSpace(p))
	}
	return out
}

func isRegister(name string) bool {
	_, ok := RegisterTable[strings.ToUpper(strings.TrimSpace(name))]
	return ok
}
