package object

import (
	"strings"

	"github.com/sicxe/assembler/encoder"
	"github.com/sicxe/assembler/pass1"
)

const maxTextRecordBytes = 30

// Generate packs a completed Pass 2 encoding into an object program.
// Consecutive object-code bytes are coalesced into a single Text
// record up to the classic 30-byte limit; any gap (a RESB/RESW run, an
// EQU, a directive with no object code) starts a new record.
func Generate(p1 *pass1.Result, p2 *encoder.Result) *Program {
	prog := &Program{
		Header: HeaderRecord{ProgramName: p1.ProgramName, StartAddress: p1.StartAddress, Length: p1.Length},
		End:    resolveEnd(p1),
	}

	var curStart uint32
	var curBytes []byte

	flush := func() {
		if len(curBytes) > 0 {
			prog.Text = append(prog.Text, TextRecord{StartAddress: curStart, Bytes: curBytes})
			curBytes = nil
		}
	}

	for _, enc := range p2.Encoded {
		if len(enc.Bytes) == 0 {
			flush()
			continue
		}

		addr := enc.Entry.LocCtr
		contiguous := len(curBytes) > 0 && addr == curStart+uint32(len(curBytes))
		if len(curBytes) > 0 && (!contiguous || len(curBytes)+len(enc.Bytes) > maxTextRecordBytes) {
			flush()
		}
		if len(curBytes) == 0 {
			curStart = addr
		}
		curBytes = append(curBytes, enc.Bytes...)

		if enc.NeedsModification {
			prog.Modifications = append(prog.Modifications, ModificationRecord{
				Address:        addr + 1,
				HalfByteLength: 5,
				Sign:           '+',
				Symbol:         p1.ProgramName,
			})
		}
	}
	flush()

	return prog
}

// resolveEnd looks up END's operand (the program's first executable
// instruction, when one was named) in the symbol table, falling back
// to the start address when END had no operand or it did not resolve.
func resolveEnd(p1 *pass1.Result) EndRecord {
	operand := strings.TrimSpace(p1.EndOperand)
	if operand != "" {
		if v, ok := p1.Symbols.Lookup(strings.ToUpper(operand)); ok {
			return EndRecord{FirstExecAddress: v, HasAddress: true}
		}
	}
	return EndRecord{FirstExecAddress: p1.StartAddress, HasAddress: true}
}
