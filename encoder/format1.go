package encoder

// EncodeFormat1 emits the single opcode byte a Format-1 instruction
// occupies; Format 1 carries no operand and no addressing flags.
func EncodeFormat1(opcode byte) []byte {
	return []byte{opcode}
}
