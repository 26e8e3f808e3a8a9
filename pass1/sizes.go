package pass1

import (
	"fmt"

	"github.com/sicxe/assembler/parser"
)

// ComputeSize returns the number of bytes line will occupy in the object
// program: 1/2/3/4 for instructions depending on format and
// the '+' extended prefix, the BYTE constant's encoded length, 3 for
// WORD, the reserved byte count for RESB/RESW, and 0 for every other
// directive. Empty and comment-only lines occupy no space.
func ComputeSize(line *parser.Line) (int, error) {
	if line.IsEmpty || line.IsComment {
		return 0, nil
	}

	if entry, ok := parser.OpTable[line.Opcode]; ok {
		if line.Extended {
			return 4, nil
		}
		switch entry.Fmt {
		case parser.Format1:
			return 1, nil
		case parser.Format2:
			return 2, nil
		case parser.Format3:
			return 3, nil
		}
	}

	switch line.Opcode {
	case "BYTE":
		return parser.CalculateByteConstantSize(line.Operand)
	case "WORD":
		return 3, nil
	case "RESB":
		n, err := parser.ParseNumeric(line.Operand)
		if err != nil {
			return 0, err
		}
		return int(n), nil
	case "RESW":
		n, err := parser.ParseNumeric(line.Operand)
		if err != nil {
			return 0, err
		}
		return int(n) * 3, nil
	case "START", "END", "BASE", "NOBASE", "EQU", "ORG", "LTORG", "USE", "CSECT", "EXTDEF", "EXTREF":
		return 0, nil
	}

	return 0, fmt.Errorf("unknown opcode in size calculation: %s", line.Opcode)
}
