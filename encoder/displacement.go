package encoder

import "fmt"

// ResolveDisplacement picks between PC-relative and BASE-relative
// addressing for a Format-3 reference to targetAddr:
// PC-relative is tried first against nextAddr (the address of the
// instruction following this one), and only falls back to
// BASE-relative — when a base register is loaded — if the PC-relative
// displacement does not fit in a signed 12-bit field.
func ResolveDisplacement(targetAddr, nextAddr uint32, baseAddr uint32, hasBase bool) (disp uint32, useBase bool, err error) {
	pcDisp := int64(targetAddr) - int64(nextAddr)
	if pcDisp >= -2048 && pcDisp <= 2047 {
		return uint32(pcDisp) & 0xFFF, false, nil
	}

	if hasBase {
		baseDisp := int64(targetAddr) - int64(baseAddr)
		if baseDisp >= 0 && baseDisp <= 4095 {
			return uint32(baseDisp), true, nil
		}
	}

	return 0, false, fmt.Errorf("target address %05X is out of range of both PC-relative and BASE-relative addressing", targetAddr)
}
