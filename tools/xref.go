package tools

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sicxe/assembler/parser"
)

// ReferenceType indicates how a symbol is used at one point in the
// source.
type ReferenceType int

const (
	RefDefinition ReferenceType = iota // symbol defined here
	RefBranch                          // conditional/unconditional jump target
	RefCall                            // JSUB target
	RefLoad                            // LD* source operand
	RefStore                           // ST* destination operand
	RefData                            // any other Format-3/4 or WORD/EQU reference
)

func (r ReferenceType) String() string {
	switch r {
	case RefDefinition:
		return "definition"
	case RefBranch:
		return "branch"
	case RefCall:
		return "call"
	case RefLoad:
		return "load"
	case RefStore:
		return "store"
	default:
		return "data"
	}
}

// Reference is a single use (or definition) of a symbol.
type Reference struct {
	Type ReferenceType
	Line int
}

// Symbol collects every definition and reference found for one name.
type Symbol struct {
	Name        string
	Definition  *Reference
	References  []*Reference
	Value       uint32
	IsConstant  bool // defined via EQU
	IsFunction  bool // has at least one JSUB reference
	IsDataLabel bool // defined via WORD/BYTE/RESW/RESB
}

// XRefGenerator builds a symbol cross-reference from tokenized source.
type XRefGenerator struct {
	symbols map[string]*Symbol
}

// NewXRefGenerator creates an empty cross-reference generator.
func NewXRefGenerator() *XRefGenerator {
	return &XRefGenerator{symbols: make(map[string]*Symbol)}
}

// Generate builds the cross-reference for the given source text.
func (x *XRefGenerator) Generate(source string) map[string]*Symbol {
	lines := parser.Tokenize(source)
	x.collectDefinitions(lines)
	x.collectReferences(lines)
	x.analyzeCallGraph()
	return x.symbols
}

func (x *XRefGenerator) ensure(name string) *Symbol {
	if sym, ok := x.symbols[name]; ok {
		return sym
	}
	sym := &Symbol{Name: name}
	x.symbols[name] = sym
	return sym
}

func (x *XRefGenerator) collectDefinitions(lines []*parser.Line) {
	for _, line := range lines {
		if line.Label == "" {
			continue
		}
		sym := x.ensure(line.Label)
		sym.Definition = &Reference{Type: RefDefinition, Line: line.LineNo}
		switch line.Opcode {
		case "EQU":
			sym.IsConstant = true
		case "WORD", "BYTE", "RESW", "RESB":
			sym.IsDataLabel = true
		}
	}
}

func (x *XRefGenerator) collectReferences(lines []*parser.Line) {
	for _, line := range lines {
		if line.IsComment || line.Opcode == "" {
			continue
		}
		entry, known := parser.OpTable[line.Opcode]
		operand := strings.TrimSpace(line.Operand)
		if !known || entry.Operand == 0 || operand == "" {
			if line.Opcode == "EQU" || line.Opcode == "ORG" || line.Opcode == "WORD" {
				x.addOperandReferences(operand, RefData, line.LineNo)
			}
			continue
		}
		if entry.Fmt != parser.Format3 {
			continue
		}
		if line.Prefix == parser.PrefixImmediate {
			if _, err := parser.ParseNumeric(operand); err == nil {
				continue
			}
		}

		refType := RefData
		switch {
		case line.Opcode == "JSUB":
			refType = RefCall
		case strings.HasPrefix(line.Opcode, "J"):
			refType = RefBranch
		case strings.HasPrefix(line.Opcode, "LD"):
			refType = RefLoad
		case strings.HasPrefix(line.Opcode, "ST"):
			refType = RefStore
		}
		x.addReference(operand, refType, line.LineNo)
	}
}

// addOperandReferences records a reference for every symbol mentioned
// in an EQU/ORG/WORD expression, skipping numeric terms and '*'.
func (x *XRefGenerator) addOperandReferences(expr string, refType ReferenceType, line int) {
	for _, term := range strings.FieldsFunc(expr, func(r rune) bool { return r == '+' || r == '-' }) {
		term = strings.TrimSpace(term)
		if term == "" || term == "*" {
			continue
		}
		if _, err := parser.ParseNumeric(term); err == nil {
			continue
		}
		x.addReference(term, refType, line)
	}
}

func (x *XRefGenerator) addReference(name string, refType ReferenceType, line int) {
	name = strings.ToUpper(strings.TrimSpace(name))
	sym := x.ensure(name)
	sym.References = append(sym.References, &Reference{Type: refType, Line: line})
}

func (x *XRefGenerator) analyzeCallGraph() {
	for _, sym := range x.symbols {
		for _, ref := range sym.References {
			if ref.Type == RefCall {
				sym.IsFunction = true
				break
			}
		}
	}
}

// GetSymbols returns every symbol discovered in the source.
func (x *XRefGenerator) GetSymbols() map[string]*Symbol {
	return x.symbols
}

// GetUndefinedSymbols returns symbols that are referenced but never
// defined.
func (x *XRefGenerator) GetUndefinedSymbols() []*Symbol {
	var undefined []*Symbol
	for _, sym := range x.symbols {
		if sym.Definition == nil && len(sym.References) > 0 {
			undefined = append(undefined, sym)
		}
	}
	sort.Slice(undefined, func(i, j int) bool { return undefined[i].Name < undefined[j].Name })
	return undefined
}

// GetUnusedSymbols returns symbols that are defined but never
// referenced.
func (x *XRefGenerator) GetUnusedSymbols() []*Symbol {
	var unused []*Symbol
	for _, sym := range x.symbols {
		if sym.Definition != nil && len(sym.References) == 0 {
			unused = append(unused, sym)
		}
	}
	sort.Slice(unused, func(i, j int) bool { return unused[i].Name < unused[j].Name })
	return unused
}

// XRefReport renders a symbol cross-reference as a text report.
type XRefReport struct {
	symbols []*Symbol
}

// NewXRefReport builds a report over symbols sorted by name.
func NewXRefReport(symbols map[string]*Symbol) *XRefReport {
	sorted := make([]*Symbol, 0, len(symbols))
	for _, sym := range symbols {
		sorted = append(sorted, sym)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })
	return &XRefReport{symbols: sorted}
}

// String renders the full report.
func (r *XRefReport) String() string {
	var sb strings.Builder

	sb.WriteString("Symbol Cross-Reference\n")
	sb.WriteString("=======================\n\n")

	for _, sym := range r.symbols {
		sb.WriteString(fmt.Sprintf("%-20s", sym.Name))
		switch {
		case sym.IsConstant:
			sb.WriteString(fmt.Sprintf(" [constant=%05X]", sym.Value))
		case sym.IsFunction:
			sb.WriteString(" [function]")
		case sym.IsDataLabel:
			sb.WriteString(" [data]")
		default:
			sb.WriteString(" [label]")
		}
		sb.WriteString("\n")

		if sym.Definition != nil {
			sb.WriteString(fmt.Sprintf("  defined:    line %d\n", sym.Definition.Line))
		} else {
			sb.WriteString("  defined:    (undefined)\n")
		}

		if len(sym.References) == 0 {
			sb.WriteString("  referenced: (never)\n")
		} else {
			sb.WriteString(fmt.Sprintf("  referenced: %d time(s)\n", len(sym.References)))
			byType := make(map[ReferenceType][]int)
			for _, ref := range sym.References {
				byType[ref.Type] = append(byType[ref.Type], ref.Line)
			}
			for _, refType := range []ReferenceType{RefCall, RefBranch, RefLoad, RefStore, RefData} {
				lines := byType[refType]
				if len(lines) == 0 {
					continue
				}
				strs := make([]string, len(lines))
				for i, ln := range lines {
					strs[i] = fmt.Sprintf("%d", ln)
				}
				sb.WriteString(fmt.Sprintf("    %-8s: line(s) %s\n", refType.String(), strings.Join(strs, ", ")))
			}
		}
		sb.WriteString("\n")
	}

	defined, undefined, unused, functions := 0, 0, 0, 0
	for _, sym := range r.symbols {
		if sym.Definition != nil {
			defined++
		} else {
			undefined++
		}
		if len(sym.References) == 0 {
			unused++
		}
		if sym.IsFunction {
			functions++
		}
	}

	sb.WriteString("Summary\n")
	sb.WriteString("=======\n")
	sb.WriteString(fmt.Sprintf("Total symbols: %d\n", len(r.symbols)))
	sb.WriteString(fmt.Sprintf("Defined:       %d\n", defined))
	sb.WriteString(fmt.Sprintf("Undefined:     %d\n", undefined))
	sb.WriteString(fmt.Sprintf("Unused:        %d\n", unused))
	sb.WriteString(fmt.Sprintf("Functions:     %d\n", functions))

	return sb.String()
}

// GenerateXRef is a convenience wrapper producing a text report
// directly from source.
func GenerateXRef(source string) string {
	gen := NewXRefGenerator()
	symbols := gen.Generate(source)
	return NewXRefReport(symbols).String()
}
