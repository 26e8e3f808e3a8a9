package loader

import (
	"fmt"

	"github.com/sicxe/assembler/object"
	"github.com/sicxe/assembler/vm"
)

// LoadedProgram is an object program placed into a memory image, ready
// for the listing printer and the viewer to inspect.
type LoadedProgram struct {
	ProgramName      string
	StartAddress     uint32
	Length           uint32
	FirstExecAddress uint32
	Memory           *vm.Memory
}

// Load places every Text record's bytes into a freshly allocated
// memory image of size memSize, tagging each byte vm.KindCode. This is
// the path used to load a previously-assembled object file, and the
// oracle a round-trip test compares against Pass 2's direct output.
func Load(prog *object.Program, memSize uint32) (*LoadedProgram, error) {
	mem := vm.NewMemory(memSize)

	for _, t := range prog.Text {
		if err := mem.LoadBytes(t.StartAddress, t.Bytes, vm.KindCode, 0, ""); err != nil {
			return nil, fmt.Errorf("failed to load text record at %05X: %w", t.StartAddress, err)
		}
	}

	return &LoadedProgram{
		ProgramName:      prog.Header.ProgramName,
		StartAddress:     prog.Header.StartAddress,
		Length:           prog.Header.Length,
		FirstExecAddress: resolveFirstExec(prog),
		Memory:           mem,
	}, nil
}

func resolveFirstExec(prog *object.Program) uint32 {
	if prog.End.HasAddress {
		return prog.End.FirstExecAddress
	}
	return prog.Header.StartAddress
}
