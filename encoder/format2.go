package encoder

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sicxe/assembler/parser"
)

// EncodeFormat2 emits the two bytes of a Format-2 instruction: the
// opcode followed by a byte packing two 4-bit register/count fields.
// Most Format-2 mnemonics take two registers; SVC takes a single
// decimal interrupt number, CLEAR/TIXR take a single register (with
// the second nibble left zero), and SHIFTL/SHIFTR take a register and
// a decimal shift count (encoded as count-1, per the classic SIC/XE
// convention).
func EncodeFormat2(mnemonic string, opcode byte, operand string) ([]byte, error) {
	operands := splitOperands(operand)

	switch mnemonic {
	case "SVC":
		n, err := strconv.Atoi(strings.TrimSpace(operands[0]))
		if err != nil {
			return nil, fmt.Errorf("invalid SVC operand: %s", operand)
		}
		return []byte{opcode, byte(n&0xF) << 4}, nil

	case "CLEAR", "TIXR":
		r1, err := lookupRegister(operands[0])
		if err != nil {
			return nil, err
		}
		return []byte{opcode, r1 << 4}, nil

	case "SHIFTL", "SHIFTR":
		if len(operands) != 2 {
			return nil, fmt.Errorf("%s requires a register and a shift count", mnemonic)
		}
		r1, err := lookupRegister(operands[0])
		if err != nil {
			return nil, err
		}
		n, err := strconv.Atoi(strings.TrimSpace(operands[1]))
		if err != nil {
			return nil, fmt.Errorf("invalid shift count: %s", operands[1])
		}
		return []byte{opcode, (r1 << 4) | byte(n-1)&0xF}, nil

	default:
		if len(operands) != 2 {
			return nil, fmt.Errorf("%s requires two register operands", mnemonic)
		}
		r1, err := lookupRegister(operands[0])
		if err != nil {
			return nil, err
		}
		r2, err := lookupRegister(operands[1])
		if err != nil {
			return nil, err
		}
		return []byte{opcode, (r1 << 4) | r2}, nil
	}
}

func splitOperands(operand string) []string {
	parts := strings.Split(operand, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, strings.TrimSpace(p))
	}
	return out
}

func lookupRegister(name string) (byte, error) {
	r, ok := parser.RegisterTable[strings.ToUpper(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("not a register: %s", name)
	}
	return r, nil
}
