// Package loader places an assembled object program into a memory
// image. It also parses the canonical H/T/M/E object text format back
// into records, the inverse of the object package's formatting and the
// basis of this assembler's round-trip tests: generate, format, parse,
// and load must all agree on the same bytes.
package loader

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/sicxe/assembler/object"
)

// ParseObjectText parses an object program's text form back into an
// object.Program.
func ParseObjectText(text string) (*object.Program, error) {
	prog := &object.Program{}
	sawHeader, sawEnd := false, false

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimRight(raw, "\r")
		if line == "" {
			continue
		}

		switch line[0] {
		case 'H':
			h, err := parseHeader(line)
			if err != nil {
				return nil, err
			}
			prog.Header = h
			sawHeader = true
		case 'T':
			t, err := parseText(line)
			if err != nil {
				return nil, err
			}
			prog.Text = append(prog.Text, t)
		case 'M':
			m, err := parseModification(line)
			if err != nil {
				return nil, err
			}
			prog.Modifications = append(prog.Modifications, m)
		case 'E':
			e, err := parseEnd(line)
			if err != nil {
				return nil, err
			}
			prog.End = e
			sawEnd = true
		default:
			return nil, fmt.Errorf("unrecognized object record: %q", line)
		}
	}

	if !sawHeader {
		return nil, fmt.Errorf("object text has no H record")
	}
	if !sawEnd {
		return nil, fmt.Errorf("object text has no E record")
	}
	return prog, nil
}

// splitFields splits a caret-delimited record into its fields,
// dropping the leading record-type letter.
func splitFields(line string) []string {
	return strings.Split(line, "^")[1:]
}

func parseHeader(line string) (object.HeaderRecord, error) {
	fields := splitFields(line)
	if len(fields) != 3 {
		return object.HeaderRecord{}, fmt.Errorf("malformed H record: %q", line)
	}
	start, err := strconv.ParseUint(fields[1], 16, 32)
	if err != nil {
		return object.HeaderRecord{}, fmt.Errorf("malformed H record start address: %q", line)
	}
	length, err := strconv.ParseUint(fields[2], 16, 32)
	if err != nil {
		return object.HeaderRecord{}, fmt.Errorf("malformed H record length: %q", line)
	}
	return object.HeaderRecord{
		ProgramName:  strings.TrimSpace(fields[0]),
		StartAddress: uint32(start),
		Length:       uint32(length),
	}, nil
}

func parseText(line string) (object.TextRecord, error) {
	fields := splitFields(line)
	if len(fields) != 3 {
		return object.TextRecord{}, fmt.Errorf("malformed T record: %q", line)
	}
	start, err := strconv.ParseUint(fields[0], 16, 32)
	if err != nil {
		return object.TextRecord{}, fmt.Errorf("malformed T record address: %q", line)
	}
	length, err := strconv.ParseUint(fields[1], 16, 16)
	if err != nil {
		return object.TextRecord{}, fmt.Errorf("malformed T record length: %q", line)
	}
	body := fields[2]
	if uint64(len(body)) != length*2 {
		return object.TextRecord{}, fmt.Errorf("T record length %d does not match payload size in %q", length, line)
	}
	data, err := hex.DecodeString(body)
	if err != nil {
		return object.TextRecord{}, fmt.Errorf("malformed T record payload: %q", line)
	}
	return object.TextRecord{StartAddress: uint32(start), Bytes: data}, nil
}

func parseModification(line string) (object.ModificationRecord, error) {
	fields := splitFields(line)
	if len(fields) != 3 || len(fields[2]) == 0 {
		return object.ModificationRecord{}, fmt.Errorf("malformed M record: %q", line)
	}
	addr, err := strconv.ParseUint(fields[0], 16, 32)
	if err != nil {
		return object.ModificationRecord{}, fmt.Errorf("malformed M record address: %q", line)
	}
	length, err := strconv.ParseUint(fields[1], 16, 16)
	if err != nil {
		return object.ModificationRecord{}, fmt.Errorf("malformed M record length: %q", line)
	}
	signAndSymbol := fields[2]
	return object.ModificationRecord{
		Address:        uint32(addr),
		HalfByteLength: int(length),
		Sign:           signAndSymbol[0],
		Symbol:         signAndSymbol[1:],
	}, nil
}

func parseEnd(line string) (object.EndRecord, error) {
	if line == "E" {
		return object.EndRecord{}, nil
	}
	fields := splitFields(line)
	if len(fields) != 1 {
		return object.EndRecord{}, fmt.Errorf("malformed E record: %q", line)
	}
	addr, err := strconv.ParseUint(fields[0], 16, 32)
	if err != nil {
		return object.EndRecord{}, fmt.Errorf("malformed E record address: %q", line)
	}
	return object.EndRecord{FirstExecAddress: uint32(addr), HasAddress: true}, nil
}
