// Package pass1 implements the first assembler pass: a
// single line-by-line scan that assigns location counters, builds the
// symbol table, and produces the intermediate list Pass 2 consumes.
package pass1

import (
	"strconv"
	"strings"

	"github.com/sicxe/assembler/parser"
)

// IntermediateEntry pairs a tokenized line with the location counter it
// was assigned (if any) and the byte size it occupies.
type IntermediateEntry struct {
	Line      *parser.Line
	LocCtr    uint32
	HasLocCtr bool
	Size      int
}

// Result is everything Pass 1 hands to Pass 2: the intermediate list,
// the completed symbol table, the program's name and start address, its
// total length, and the accumulated diagnostics.
type Result struct {
	Intermediate []*IntermediateEntry
	Symbols      *parser.SymbolTable
	ProgramName  string
	StartAddress uint32
	Length       uint32
	EndOperand   string
	Diagnostics  *parser.DiagnosticList
	Success      bool
}

type deferredEQU struct {
	label  string
	expr   string
	lineNo int
	raw    string
	locctr uint32
}

// pass1 holds the mutable state threaded through a single run.
type pass1 struct {
	symtab       *parser.SymbolTable
	locctr       uint32
	startAddress uint32
	programName  string
	endOperand   string
	ended        bool
	started      bool
	deferred     []*deferredEQU
	diags        *parser.DiagnosticList
}

// Run executes Pass 1 over lines (already tokenized by parser.Tokenize).
func Run(lines []*parser.Line) *Result {
	p := &pass1{
		symtab: parser.NewSymbolTable(),
		diags:  &parser.DiagnosticList{},
	}

	var intermediate []*IntermediateEntry
	firstStatement := true

	for _, line := range lines {
		if line.IsEmpty || line.IsComment || p.ended {
			intermediate = append(intermediate, &IntermediateEntry{Line: line})
			continue
		}

		if line.Opcode == "START" {
			p.handleStart(line, firstStatement)
			firstStatement = false
			intermediate = append(intermediate, &IntermediateEntry{Line: line, LocCtr: p.locctr, HasLocCtr: true})
			continue
		}
		firstStatement = false

		switch line.Opcode {
		case "EQU":
			intermediate = append(intermediate, p.handleEQU(line))
			continue
		case "ORG":
			intermediate = append(intermediate, p.handleORG(line))
			continue
		case "END":
			p.endOperand = line.Operand
			p.ended = true
			intermediate = append(intermediate, &IntermediateEntry{Line: line, LocCtr: p.locctr, HasLocCtr: true})
			continue
		}

		if line.Label != "" {
			if err := p.symtab.Define(line.Label, p.locctr, line.LineNo); err != nil {
				p.diags.Add(parser.NewDiagnostic(parser.PhasePass1, line.LineNo, parser.ErrorDuplicateSymbol, err.Error()).
					WithExcerpt(line.Raw).WithLocCtr(p.locctr))
			}
		}

		size, err := ComputeSize(line)
		if err != nil {
			p.diags.Add(parser.NewDiagnostic(parser.PhasePass1, line.LineNo, parser.ErrorBadOperand, err.Error()).
				WithExcerpt(line.Raw).WithLocCtr(p.locctr))
			size = 0
		}

		intermediate = append(intermediate, &IntermediateEntry{Line: line, LocCtr: p.locctr, HasLocCtr: true, Size: size})
		p.locctr += uint32(size)
	}

	p.resolveDeferred()

	return &Result{
		Intermediate: intermediate,
		Symbols:      p.symtab,
		ProgramName:  p.programName,
		StartAddress: p.startAddress,
		Length:       p.locctr - p.startAddress,
		EndOperand:   p.endOperand,
		Diagnostics:  p.diags,
		Success:      !p.diags.HasErrors(),
	}
}

func (p *pass1) handleStart(line *parser.Line, firstStatement bool) {
	if p.started {
		p.diags.Add(parser.NewDiagnostic(parser.PhasePass1, line.LineNo, parser.ErrorDuplicateStart,
			"START may only appear once, as the first statement").WithExcerpt(line.Raw))
		return
	}
	if !firstStatement {
		p.diags.Add(parser.NewDiagnostic(parser.PhasePass1, line.LineNo, parser.ErrorDuplicateStart,
			"START must be the first statement in the program").WithExcerpt(line.Raw))
	}

	p.started = true
	p.programName = line.Label
	if p.programName == "" {
		p.programName = "PROG"
	}

	if operand := strings.TrimSpace(line.Operand); operand != "" {
		hexDigits := strings.TrimPrefix(strings.TrimPrefix(operand, "0x"), "0X")
		if v, err := strconv.ParseUint(hexDigits, 16, 32); err == nil {
			p.startAddress = uint32(v)
		}
	}
	p.locctr = p.startAddress

	if line.Label != "" {
		if err := p.symtab.Define(line.Label, p.locctr, line.LineNo); err != nil {
			p.diags.Add(parser.NewDiagnostic(parser.PhasePass1, line.LineNo, parser.ErrorDuplicateSymbol, err.Error()).
				WithExcerpt(line.Raw).WithLocCtr(p.locctr))
		}
	}
}

func (p *pass1) handleEQU(line *parser.Line) *IntermediateEntry {
	entry := &IntermediateEntry{Line: line, LocCtr: p.locctr, HasLocCtr: true}
	if line.Label == "" {
		return entry
	}

	val, ok := Evaluate(line.Operand, p.symtab, p.locctr)
	if ok {
		if err := p.symtab.Define(line.Label, val, line.LineNo); err != nil {
			p.diags.Add(parser.NewDiagnostic(parser.PhasePass1, line.LineNo, parser.ErrorDuplicateSymbol, err.Error()).
				WithExcerpt(line.Raw))
		}
		return entry
	}

	p.deferred = append(p.deferred, &deferredEQU{
		label: line.Label, expr: line.Operand, lineNo: line.LineNo, raw: line.Raw, locctr: p.locctr,
	})
	return entry
}

func (p *pass1) handleORG(line *parser.Line) *IntermediateEntry {
	val, ok := Evaluate(line.Operand, p.symtab, p.locctr)
	if !ok {
		p.diags.Add(parser.NewDiagnostic(parser.PhasePass1, line.LineNo, parser.ErrorUnresolvableExpression,
			"ORG operand could not be resolved: "+line.Operand).WithExcerpt(line.Raw).WithLocCtr(p.locctr))
		return &IntermediateEntry{Line: line, LocCtr: p.locctr, HasLocCtr: true}
	}
	p.locctr = val
	return &IntermediateEntry{Line: line, LocCtr: p.locctr, HasLocCtr: true}
}

// resolveDeferred runs the fixed-point loop over EQU definitions whose
// expression could not be evaluated when first encountered, typically
// because they forward-reference another EQU. The loop is bounded to
// len(deferred)+1 passes: each pass resolves at least one symbol or the
// remaining set has made no progress and can never converge.
func (p *pass1) resolveDeferred() {
	remaining := p.deferred
	maxIter := len(remaining) + 1

	for iter := 0; iter < maxIter && len(remaining) > 0; iter++ {
		var stillDeferred []*deferredEQU
		progressed := false

		for _, d := range remaining {
			val, ok := Evaluate(d.expr, p.symtab, d.locctr)
			if !ok {
				stillDeferred = append(stillDeferred, d)
				continue
			}
			progressed = true
			if err := p.symtab.Define(d.label, val, d.lineNo); err != nil {
				p.diags.Add(parser.NewDiagnostic(parser.PhasePass1, d.lineNo, parser.ErrorDuplicateSymbol, err.Error()).
					WithExcerpt(d.raw))
			}
		}

		remaining = stillDeferred
		if !progressed {
			break
		}
	}

	for _, d := range remaining {
		p.diags.Add(parser.NewDiagnostic(parser.PhasePass1, d.lineNo, parser.ErrorUnresolvableExpression,
			"EQU operand could not be resolved: "+d.expr).WithExcerpt(d.raw).WithLocCtr(d.locctr))
	}
}
