package vm

// ============================================================================
// SIC/XE Memory Constants
// ============================================================================
// These values are defined by the SIC/XE architecture and should not be modified

const (
	// WordSize is the width of a SIC/XE word: 3 bytes (24 bits), not 4.
	WordSize = 3

	// AddressBits is the width of a SIC/XE address: 20 bits.
	AddressBits = 20
	// AddressMask clears everything above the 20-bit address space.
	AddressMask = 0xFFFFF

	// SICMemorySize is the classic SIC machine's address space: 32KB.
	SICMemorySize = 0x8000
	// XEMemorySize is the default SIC/XE address space: 1MB, the full
	// 20-bit range.
	XEMemorySize = 0x100000
)
