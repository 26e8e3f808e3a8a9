package encoder

import "github.com/sicxe/assembler/parser"

// NIXBPE is the six-bit addressing-mode flag set carried by every
// Format-3/4 instruction: N/I select simple, immediate,
// indirect, or simple addressing; X marks indexed addressing; B/P
// select base-relative or PC-relative displacement; E marks Format 4.
type NIXBPE struct {
	N, I, X, B, P, E bool
}

// ResolveAddressing derives N/I/X/E directly from the tokenized line;
// B and P are filled in later by the displacement resolver, since they
// depend on which addressing mode the displacement calculation picks.
func ResolveAddressing(line *parser.Line) NIXBPE {
	flags := NIXBPE{X: line.Indexed, E: line.Extended}
	switch line.Prefix {
	case parser.PrefixImmediate:
		flags.N, flags.I = false, true
	case parser.PrefixIndirect:
		flags.N, flags.I = true, false
	default:
		flags.N, flags.I = true, true
	}
	return flags
}

// OpcodeByte folds N and I into the top two bits of the 6-bit opcode,
// as SIC/XE's first object-code byte always does.
func (f NIXBPE) OpcodeByte(opcode byte) byte {
	b := opcode &^ 0x03
	if f.N {
		b |= 0x02
	}
	if f.I {
		b |= 0x01
	}
	return b
}

// FlagNibble packs X/B/P/E into the high nibble of the second
// object-code byte; the low nibble holds the top 4 bits of the
// 12-bit displacement (or, for Format 4, the address field).
func (f NIXBPE) FlagNibble() byte {
	var b byte
	if f.X {
		b |= 0x08
	}
	if f.B {
		b |= 0x04
	}
	if f.P {
		b |= 0x02
	}
	if f.E {
		b |= 0x01
	}
	return b << 4
}
