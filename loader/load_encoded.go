package loader

import (
	"fmt"
	"strings"

	"github.com/sicxe/assembler/encoder"
	"github.com/sicxe/assembler/parser"
	"github.com/sicxe/assembler/pass1"
	"github.com/sicxe/assembler/vm"
)

// LoadFromEncoded builds a memory image directly from Pass 1 and Pass
// 2's results, without round-tripping through object text. Unlike
// Load, every byte is tagged with its originating source line and
// label, readable through Memory.InfoAt, and is tagged vm.KindCode for
// instructions or vm.KindData for BYTE/WORD constants.
func LoadFromEncoded(p1 *pass1.Result, p2 *encoder.Result, memSize uint32) (*LoadedProgram, error) {
	mem := vm.NewMemory(memSize)

	for _, enc := range p2.Encoded {
		if len(enc.Bytes) == 0 {
			continue
		}
		kind := vm.KindData
		if _, isInstruction := parser.OpTable[enc.Entry.Line.Opcode]; isInstruction {
			kind = vm.KindCode
		}
		if err := mem.LoadBytes(enc.Entry.LocCtr, enc.Bytes, kind, enc.Entry.Line.LineNo, enc.Entry.Line.Label); err != nil {
			return nil, fmt.Errorf("failed to load line %d at %05X: %w", enc.Entry.Line.LineNo, enc.Entry.LocCtr, err)
		}
	}

	firstExec := p1.StartAddress
	if v, ok := p1.Symbols.Lookup(strings.ToUpper(strings.TrimSpace(p1.EndOperand))); ok {
		firstExec = v
	}

	return &LoadedProgram{
		ProgramName:      p1.ProgramName,
		StartAddress:     p1.StartAddress,
		Length:           p1.Length,
		FirstExecAddress: firstExec,
		Memory:           mem,
	}, nil
}
