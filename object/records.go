// Package object assembles Pass 2's per-line object code into the
// classic SIC/XE object program: Header, Text, Modification, and End
// records.
package object

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// HeaderRecord names the program, its load address, and its length.
type HeaderRecord struct {
	ProgramName  string
	StartAddress uint32
	Length       uint32
}

func (h HeaderRecord) String() string {
	name := h.ProgramName
	if len(name) > 6 {
		name = name[:6]
	}
	return fmt.Sprintf("H^%-6s^%06X^%06X", name, h.StartAddress, h.Length)
}

// TextRecord carries up to 30 bytes of contiguous object code.
type TextRecord struct {
	StartAddress uint32
	Bytes        []byte
}

func (t TextRecord) String() string {
	return fmt.Sprintf("T^%06X^%02X^%s", t.StartAddress, len(t.Bytes), strings.ToUpper(hex.EncodeToString(t.Bytes)))
}

// ModificationRecord marks a relocatable address field: Address is the
// byte offset where the field begins, HalfByteLength its length in hex
// digits (always 5 for a Format-4 address field), Sign the +/- applied
// to the relocation, and Symbol the program or external symbol whose
// value is added at link time.
type ModificationRecord struct {
	Address        uint32
	HalfByteLength int
	Sign           byte
	Symbol         string
}

func (m ModificationRecord) String() string {
	symbol := m.Symbol
	if len(symbol) > 6 {
		symbol = symbol[:6]
	}
	sign := m.Sign
	if sign == 0 {
		sign = '+'
	}
	return fmt.Sprintf("M^%06X^%02X^%c%s", m.Address, m.HalfByteLength, sign, symbol)
}

// EndRecord names the program's first executable instruction address.
type EndRecord struct {
	FirstExecAddress uint32
	HasAddress       bool
}

func (e EndRecord) String() string {
	if !e.HasAddress {
		return "E"
	}
	return fmt.Sprintf("E^%06X", e.FirstExecAddress)
}

// Program is a complete object program ready to print or hand to the
// loader.
type Program struct {
	Header        HeaderRecord
	Text          []TextRecord
	Modifications []ModificationRecord
	End           EndRecord
}

// String renders the full object program, one record per line, in the
// canonical H / T* / M* / E order.
func (p *Program) String() string {
	var out []string
	out = append(out, p.Header.String())
	for _, t := range p.Text {
		out = append(out, t.String())
	}
	for _, m := range p.Modifications {
		out = append(out, m.String())
	}
	out = append(out, p.End.String())
	return strings.Join(out, "\n")
}
