// Package encoder implements the second assembler pass:
// given Pass 1's intermediate list and completed symbol table, it
// resolves addressing and displacement for every instruction and emits
// the object code bytes Pass 2 is responsible for.
package encoder

import (
	"strings"

	"github.com/sicxe/assembler/parser"
	"github.com/sicxe/assembler/pass1"
)

// Encoded is the object code Pass 2 produced for one intermediate
// entry. Bytes is nil for directives that occupy no object code
// (EQU, ORG, BASE, RESB/RESW, and so on).
type Encoded struct {
	Entry             *pass1.IntermediateEntry
	Bytes             []byte
	NeedsModification bool
}

// Result is Pass 2's complete output, ready for the object package to
// assemble into H/T/M/E records.
type Result struct {
	Encoded     []*Encoded
	Diagnostics *parser.DiagnosticList
	Success     bool
}

// Run executes Pass 2 over a completed Pass 1 result.
func Run(p1 *pass1.Result) *Result {
	e := &encoderState{symtab: p1.Symbols, diags: &parser.DiagnosticList{}}

	var out []*Encoded
	for _, entry := range p1.Intermediate {
		var nextAddr uint32
		if entry.HasLocCtr {
			nextAddr = entry.LocCtr + uint32(entry.Size)
		}
		out = append(out, e.encodeEntry(entry, nextAddr))
	}

	return &Result{Encoded: out, Diagnostics: e.diags, Success: !e.diags.HasErrors()}
}

type encoderState struct {
	symtab  *parser.SymbolTable
	baseVal uint32
	hasBase bool
	diags   *parser.DiagnosticList
}

func (e *encoderState) encodeEntry(entry *pass1.IntermediateEntry, nextAddr uint32) *Encoded {
	line := entry.Line
	result := &Encoded{Entry: entry}

	if line.IsEmpty || line.IsComment || line.Opcode == "" {
		return result
	}

	switch line.Opcode {
	case "START", "END", "EQU", "ORG", "RESB", "RESW", "LTORG", "USE", "CSECT", "EXTDEF", "EXTREF":
		return result
	case "NOBASE":
		e.hasBase = false
		return result
	case "BASE":
		val, ok := pass1.Evaluate(line.Operand, e.symtab, entry.LocCtr)
		if !ok {
			e.diags.Add(parser.NewDiagnostic(parser.PhasePass2, line.LineNo, parser.ErrorUndefinedBase,
				"BASE operand could not be resolved: "+line.Operand).WithExcerpt(line.Raw))
			return result
		}
		e.baseVal, e.hasBase = val, true
		return result
	case "BYTE":
		bytes, err := parser.ExtractByteConstant(line.Operand)
		if err != nil {
			e.diags.Add(parser.NewDiagnostic(parser.PhasePass2, line.LineNo, parser.ErrorBadOperand, err.Error()).WithExcerpt(line.Raw))
			return result
		}
		result.Bytes = bytes
		return result
	case "WORD":
		val, ok := pass1.Evaluate(line.Operand, e.symtab, entry.LocCtr)
		if !ok {
			e.diags.Add(parser.NewDiagnostic(parser.PhasePass2, line.LineNo, parser.ErrorUnresolvableExpression,
				"WORD operand could not be resolved: "+line.Operand).WithExcerpt(line.Raw))
			return result
		}
		result.Bytes = []byte{byte(val >> 16), byte(val >> 8), byte(val)}
		result.NeedsModification = pass1.IsPlainSymbol(line.Operand)
		return result
	}

	entryOp, known := parser.OpTable[line.Opcode]
	if !known {
		e.diags.Add(parser.NewDiagnostic(parser.PhasePass2, line.LineNo, parser.ErrorUnknownOpcode,
			"unknown opcode: "+line.Opcode).WithExcerpt(line.Raw))
		return result
	}

	var bytes []byte
	var needsMod bool
	var err error

	switch entryOp.Fmt {
	case parser.Format1:
		bytes = EncodeFormat1(entryOp.Opcode)
	case parser.Format2:
		bytes, err = EncodeFormat2(line.Opcode, entryOp.Opcode, line.Operand)
	case parser.Format3:
		bytes, needsMod, err = EncodeFormat34(line, entryOp.Opcode, line.Extended, entry.LocCtr, nextAddr, e.symtab, e.baseVal, e.hasBase)
	}

	if err != nil {
		e.diags.Add(parser.NewDiagnostic(parser.PhasePass2, line.LineNo, classifyEncodeError(err.Error()), err.Error()).
			WithExcerpt(line.Raw).WithLocCtr(entry.LocCtr))
		return result
	}

	result.Bytes = bytes
	result.NeedsModification = needsMod
	return result
}

// classifyEncodeError maps a Pass 2 error message to the diagnostic
// kind it most specifically reports, falling back to ErrorBadOperand.
func classifyEncodeError(msg string) parser.ErrorKind {
	switch {
	case strings.Contains(msg, "undefined symbol"):
		return parser.ErrorUndefinedSymbol
	case strings.Contains(msg, "out of range"):
		return parser.ErrorDisplacementOutOfRange
	default:
		return parser.ErrorBadOperand
	}
}
