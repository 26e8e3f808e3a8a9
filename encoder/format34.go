package encoder

import (
	"fmt"
	"strings"

	"github.com/sicxe/assembler/parser"
)

// EncodeFormat34 emits the object code for a Format-3 or Format-4
// instruction. format4 selects Format 4 (the '+' prefix); locctr is
// this instruction's own address and nextAddr is the address of the
// instruction following it (the PC-relative base).
//
// needsModification reports whether this instruction's address field
// names a relocatable symbol and so must be listed in an M record:
// true for the simple (n,i)=(1,1) addressing path and the
// immediate-symbol path, since Format 4 bakes the absolute address
// into the object code in both cases. Indirect addressing resolves
// through a data word at link/load time rather than baking the
// address in directly, so it is excluded.
func EncodeFormat34(line *parser.Line, opcode byte, format4 bool, locctr, nextAddr uint32, symtab *parser.SymbolTable, baseAddr uint32, hasBase bool) (bytes []byte, needsModification bool, err error) {
	flags := ResolveAddressing(line)
	flags.E = format4

	operand := strings.TrimSpace(line.Operand)

	if operand == "" {
		return assembleFormat3(opcode, flags, 0), false, nil
	}

	targetAddr, isSymbol, err := resolveOperand(operand, line.Prefix, symtab)
	if err != nil {
		return nil, false, err
	}

	if format4 {
		flags.P, flags.B = false, false
		addr := targetAddr & 0xFFFFF
		code := []byte{
			flags.OpcodeByte(opcode),
			flags.FlagNibble() | byte((addr>>16)&0xF),
			byte((addr >> 8) & 0xFF),
			byte(addr & 0xFF),
		}
		return code, isSymbol && flags.I, nil
	}

	if !isSymbol {
		if targetAddr > 0xFFF {
			return nil, false, fmt.Errorf("immediate operand %s does not fit in a 12-bit Format-3 field", operand)
		}
		return assembleFormat3(opcode, flags, targetAddr), false, nil
	}

	disp, useBase, derr := ResolveDisplacement(targetAddr, nextAddr, baseAddr, hasBase)
	if derr != nil {
		return nil, false, derr
	}
	flags.B, flags.P = useBase, !useBase
	return assembleFormat3(opcode, flags, disp), false, nil
}

// resolveOperand evaluates a Format-3/4 operand: a bare numeric literal
// under immediate addressing is a constant, not a relocatable address;
// everything else is a symbol reference looked up in the table.
func resolveOperand(operand string, prefix parser.AddrPrefix, symtab *parser.SymbolTable) (addr uint32, isSymbol bool, err error) {
	if prefix == parser.PrefixImmediate {
		if v, perr := parser.ParseNumeric(operand); perr == nil {
			return uint32(v), false, nil
		}
	}

	v, ok := symtab.Lookup(strings.ToUpper(operand))
	if !ok {
		return 0, false, fmt.Errorf("undefined symbol: %s", operand)
	}
	return v, true, nil
}

func assembleFormat3(opcode byte, flags NIXBPE, disp uint32) []byte {
	disp &= 0xFFF
	return []byte{
		flags.OpcodeByte(opcode),
		flags.FlagNibble() | byte((disp>>8)&0xF),
		byte(disp & 0xFF),
	}
}
