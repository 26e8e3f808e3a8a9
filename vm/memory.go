package vm

import "fmt"

// ByteKind classifies why a byte of memory holds the value it does,
// for display in the listing and the viewer.
type ByteKind int

const (
	KindEmpty ByteKind = iota
	KindCode
	KindData
	KindReserved
	KindModified
)

func (k ByteKind) String() string {
	switch k {
	case KindCode:
		return "code"
	case KindData:
		return "data"
	case KindReserved:
		return "reserved"
	case KindModified:
		return "modified"
	default:
		return "empty"
	}
}

// ByteInfo annotates one byte of memory with where it came from: which
// kind of content it holds, which source line produced it, and the
// label of the item it belongs to (every byte of a labeled item
// carries that label).
type ByteInfo struct {
	Kind  ByteKind
	Line  int
	Label string
}

// Memory is the flat byte image a SIC/XE program loads into. It has no
// registers, no program counter, and no instruction execution: loading
// and inspecting an object program is this module's entire job.
type Memory struct {
	Size  uint32
	Bytes []byte
	Info  []ByteInfo
}

// NewMemory allocates a zeroed memory image of size bytes, typically
// vm.SICMemorySize or vm.XEMemorySize.
func NewMemory(size uint32) *Memory {
	return &Memory{
		Size:  size,
		Bytes: make([]byte, size),
		Info:  make([]ByteInfo, size),
	}
}

func (m *Memory) checkBounds(address uint32, length uint32) error {
	if address >= m.Size || uint64(address)+uint64(length) > uint64(m.Size) {
		return fmt.Errorf("memory access out of range: address 0x%05X length %d exceeds %d-byte image", address, length, m.Size)
	}
	return nil
}

// ReadByte returns the byte at address.
func (m *Memory) ReadByte(address uint32) (byte, error) {
	if err := m.checkBounds(address, 1); err != nil {
		return 0, err
	}
	return m.Bytes[address], nil
}

// WriteByte stores value at address and records its provenance.
func (m *Memory) WriteByte(address uint32, value byte, kind ByteKind, line int, label string) error {
	if err := m.checkBounds(address, 1); err != nil {
		return err
	}
	if m.Info[address].Kind != KindEmpty {
		kind = KindModified
	}
	m.Bytes[address] = value
	m.Info[address] = ByteInfo{Kind: kind, Line: line, Label: label}
	return nil
}

// ReadWord returns the 24-bit unsigned value of the 3-byte big-endian
// word at address.
func (m *Memory) ReadWord(address uint32) (uint32, error) {
	if err := m.checkBounds(address, WordSize); err != nil {
		return 0, err
	}
	return uint32(m.Bytes[address])<<16 | uint32(m.Bytes[address+1])<<8 | uint32(m.Bytes[address+2]), nil
}

// LoadBytes writes a contiguous run of bytes starting at address,
// tagging every byte with the same kind/line/label provenance. This is
// how the loader places a Text record's payload into memory.
func (m *Memory) LoadBytes(address uint32, data []byte, kind ByteKind, line int, label string) error {
	if err := m.checkBounds(address, uint32(len(data))); err != nil {
		return err
	}
	for i, b := range data {
		if err := m.WriteByte(address+uint32(i), b, kind, line, label); err != nil {
			return err
		}
	}
	return nil
}

// GetBytes reads length bytes starting at address.
func (m *Memory) GetBytes(address, length uint32) ([]byte, error) {
	if err := m.checkBounds(address, length); err != nil {
		return nil, err
	}
	out := make([]byte, length)
	copy(out, m.Bytes[address:address+length])
	return out, nil
}

// InfoAt returns the provenance recorded for the byte at address.
func (m *Memory) InfoAt(address uint32) (ByteInfo, error) {
	if err := m.checkBounds(address, 1); err != nil {
		return ByteInfo{}, err
	}
	return m.Info[address], nil
}

// Reset clears every byte of memory and its provenance.
func (m *Memory) Reset() {
	for i := range m.Bytes {
		m.Bytes[i] = 0
		m.Info[i] = ByteInfo{}
	}
}
