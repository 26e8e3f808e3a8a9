package tools

import (
	"strings"

	"github.com/sicxe/assembler/parser"
)

// FormatStyle selects a column layout for the source reformatter.
type FormatStyle int

const (
	FormatDefault  FormatStyle = iota // standard column layout
	FormatCompact                     // minimal whitespace, single space between fields
	FormatExpanded                    // extra whitespace for readability
)

// FormatOptions controls column placement and alignment in Format.
type FormatOptions struct {
	Style         FormatStyle
	OpcodeColumn  int // column where the opcode/mnemonic starts
	OperandColumn int // column where the operand starts
	CommentColumn int // column where an inline comment starts
	AlignOperands bool
	AlignComments bool
}

// DefaultFormatOptions returns the standard column layout.
func DefaultFormatOptions() *FormatOptions {
	return &FormatOptions{
		Style:         FormatDefault,
		OpcodeColumn:  9,
		OperandColumn: 18,
		CommentColumn: 40,
		AlignOperands: true,
		AlignComments: true,
	}
}

// CompactFormatOptions returns a single-space-separated layout.
func CompactFormatOptions() *FormatOptions {
	opts := DefaultFormatOptions()
	opts.Style = FormatCompact
	opts.AlignOperands = false
	opts.AlignComments = false
	return opts
}

// ExpandedFormatOptions returns a wider column layout.
func ExpandedFormatOptions() *FormatOptions {
	opts := DefaultFormatOptions()
	opts.Style = FormatExpanded
	opts.OpcodeColumn = 12
	opts.OperandColumn = 24
	opts.CommentColumn = 50
	return opts
}

// Formatter reformats tokenized SIC/XE source into aligned columns. It
// never changes opcodes, operands, or symbols, only their layout.
type Formatter struct {
	options *FormatOptions
	output  strings.Builder
}

// NewFormatter creates a Formatter with the given options, falling back
// to DefaultFormatOptions when options is nil.
func NewFormatter(options *FormatOptions) *Formatter {
	if options == nil {
		options = DefaultFormatOptions()
	}
	return &Formatter{options: options}
}

// Format reformats source into column-aligned SIC/XE assembly.
func (f *Formatter) Format(source string) string {
	f.output.Reset()
	for _, line := range parser.Tokenize(source) {
		f.formatLine(line)
	}
	return f.output.String()
}

func (f *Formatter) formatLine(line *parser.Line) {
	if strings.TrimSpace(line.Raw) == "" {
		f.output.WriteString("\n")
		return
	}
	if line.IsComment {
		f.output.WriteString(line.Comment)
		f.output.WriteString("\n")
		return
	}

	out := strings.Builder{}

	if line.Label != "" {
		out.WriteString(line.Label)
	}

	if line.Opcode != "" {
		if f.options.Style == FormatCompact {
			if line.Label != "" {
				out.WriteString(" ")
			}
		} else {
			padToColumn(&out, f.options.OpcodeColumn)
		}
		if line.Extended {
			out.WriteString("+")
		}
		out.WriteString(line.Opcode)
	}

	if line.Operand != "" {
		if f.options.Style == FormatCompact {
			out.WriteString(" ")
		} else if f.options.AlignOperands {
			padToColumn(&out, f.options.OperandColumn)
		} else {
			out.WriteString(" ")
		}
		out.WriteString(formatOperand(line))
	}

	if line.Comment != "" {
		comment := strings.TrimSpace(line.Comment)
		if f.options.Style == FormatCompact {
			out.WriteString(" . ")
			out.WriteString(comment)
		} else if f.options.AlignComments {
			padToColumn(&out, f.options.CommentColumn)
			out.WriteString(". ")
			out.WriteString(comment)
		} else {
			out.WriteString(" . ")
			out.WriteString(comment)
		}
	}

	f.output.WriteString(out.String())
	f.output.WriteString("\n")
}

// formatOperand reattaches the addressing prefix and indexed suffix
// that Tokenize strips off during lexing.
func formatOperand(line *parser.Line) string {
	operand := line.Operand
	switch line.Prefix {
	case parser.PrefixImmediate:
		operand = "#" + operand
	case parser.PrefixIndirect:
		operand = "@" + operand
	}
	if line.Indexed {
		operand += ",X"
	}
	return operand
}

// padToColumn pads the builder with spaces up to column, or a single
// space if the builder has already passed it.
func padToColumn(sb *strings.Builder, column int) {
	current := sb.Len()
	switch {
	case current < column:
		sb.WriteString(strings.Repeat(" ", column-current))
	case current == column:
	default:
		sb.WriteString(" ")
	}
}

// FormatString reformats source using DefaultFormatOptions.
func FormatString(source string) string {
	return NewFormatter(DefaultFormatOptions()).Format(source)
}

// FormatStringWithStyle reformats source using the column layout for
// the given style.
func FormatStringWithStyle(source string, style FormatStyle) string {
	var options *FormatOptions
	switch style {
	case FormatCompact:
		options = CompactFormatOptions()
	case FormatExpanded:
		options = ExpandedFormatOptions()
	default:
		options = DefaultFormatOptions()
	}
	return NewFormatter(options).Format(source)
}
