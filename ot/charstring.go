package ot

import (
	"fmt"
	"strconv"
	"strings"
)

// Charstring is a Type 2 charstring, i.e. the outline of a CFF glyph encoded
// as a program for a stack machine.
//
// This package does not execute charstrings. Disassemble reads the program as a
// tape of operands and operators.
type Charstring []byte

// CharstringInstruction is an operator together with the operands preceding it.
// Trailing operands without an operator are reported with Op == -1.
type CharstringInstruction struct {
	Offset   int       // byte offset of the first operand (or the operator)
	Operands []float64 // operands pushed before the operator
	Op       int       // operator, 12<<8 | b1 for two-byte operators
	Mask     []byte    // mask bytes of hintmask and cntrmask
}

// Type 2 charstring operators used during disassembly.
const (
	csHstem       = 1
	csVstem       = 3
	csEscape      = 12
	csHstemhm     = 18
	csHintmask    = 19
	csCntrmask    = 20
	csVstemhm     = 23
	csShortint    = 28
	csFixed       = 255
	csMaxOperands = 48
)

var charstringMnemonics = [32]string{
	"reserved0", "hstem", "reserved2", "vstem", "vmoveto", "rlineto", "hlineto", "vlineto",
	"rrcurveto", "reserved9", "callsubr", "return", "escape", "reserved13", "endchar", "reserved15",
	"reserved16", "reserved17", "hstemhm", "hintmask", "cntrmask", "rmoveto", "hmoveto", "vstemhm",
	"rcurveline", "rlinecurve", "vvcurveto", "hhcurveto", "shortint", "callgsubr", "vhcurveto", "hvcurveto",
}

var charstringEscapeMnemonics = [39]string{
	"dotsection", "reserved1", "reserved2", "and", "or", "not", "reserved6", "reserved7",
	"reserved8", "abs", "add", "sub", "div", "reserved13", "neg", "eq",
	"reserved16", "reserved17", "drop", "reserved19", "put", "get", "ifelse", "random",
	"mul", "reserved25", "sqrt", "dup", "exch", "index", "roll", "reserved31",
	"reserved32", "reserved33", "hflex", "flex", "hflex1", "flex1", "reserved38",
}

// EscapeMnemonic returns the name of a two-byte operator 12 b. Values beyond
// the table of known operators are clamped to its last entry.
func EscapeMnemonic(b byte) string {
	if int(b) >= len(charstringEscapeMnemonics) {
		return charstringEscapeMnemonics[len(charstringEscapeMnemonics)-1]
	}
	return charstringEscapeMnemonics[b]
}

// OperatorMnemonic returns the name of an operator, as found in CharstringInstruction.Op.
func OperatorMnemonic(op int) string {
	switch {
	case op < 0:
		return ""
	case op>>8 == csEscape:
		return EscapeMnemonic(byte(op))
	case op < len(charstringMnemonics):
		return charstringMnemonics[op]
	}
	return "reserved" + strconv.Itoa(op)
}

// IsOperandAt reports whether the byte at position i introduces an operand
// (bytes 28 and 32…255) rather than an operator (0…27, 29…31).
// It classifies a single byte and does not check if i is at an instruction
// boundary.
func (cs Charstring) IsOperandAt(i int) bool {
	if i < 0 || i >= len(cs) {
		return false
	}
	return cs[i] == csShortint || cs[i] >= 32
}

// Disassemble decodes the charstring into a list of instructions. The number of
// mask bytes of hintmask and cntrmask operators is derived from the stem hints
// declared in this charstring; stems declared in subroutines are not counted.
func (cs Charstring) Disassemble() ([]CharstringInstruction, error) {
	var instrs []CharstringInstruction
	var operands []float64
	c := NewCursor(cs)
	start, stems := 0, 0
	for c.Remaining() > 0 {
		pos := c.Pos()
		if len(operands) == 0 {
			start = pos
		}
		b0, _ := c.U8()
		if b0 == csShortint || b0 >= 32 {
			v, err := readCharstringOperand(c, b0)
			if err != nil {
				return instrs, fmt.Errorf("charstring operand at %d: %w", pos, err)
			}
			if len(operands) >= csMaxOperands {
				return instrs, errFontFormat("charstring operand stack overflow at %d", pos)
			}
			operands = append(operands, v)
			continue
		}
		op := int(b0)
		if b0 == csEscape {
			b1, err := c.U8()
			if err != nil {
				return instrs, fmt.Errorf("charstring escape at %d: %w", pos, err)
			}
			op = csEscape<<8 | int(b1)
		}
		instr := CharstringInstruction{Offset: start, Operands: operands, Op: op}
		switch op {
		case csHstem, csVstem, csHstemhm, csVstemhm:
			stems += len(operands) / 2
		case csHintmask, csCntrmask:
			stems += len(operands) / 2 // implicit vstem
			mask, err := c.Bytes((stems + 7) / 8)
			if err != nil {
				return instrs, fmt.Errorf("charstring %s at %d: %w", OperatorMnemonic(op), pos, err)
			}
			instr.Mask = mask
		}
		instrs = append(instrs, instr)
		operands = nil
	}
	if len(operands) > 0 {
		instrs = append(instrs, CharstringInstruction{Offset: start, Operands: operands, Op: -1})
	}
	return instrs, nil
}

// readCharstringOperand decodes the operand introduced by byte b0.
func readCharstringOperand(c *Cursor, b0 byte) (float64, error) {
	switch {
	case b0 >= 32 && b0 <= 246:
		return float64(int(b0) - 139), nil
	case b0 >= 247 && b0 <= 250:
		b1, err := c.U8()
		return float64((int(b0)-247)*256 + int(b1) + 108), err
	case b0 >= 251 && b0 <= 254:
		b1, err := c.U8()
		return float64(-(int(b0)-251)*256 - int(b1) - 108), err
	case b0 == csShortint:
		n, err := c.I16()
		return float64(n), err
	case b0 == csFixed:
		f, err := c.Fixed()
		return f.Float(), err
	}
	return 0, errFontFormat("charstring: byte %d is not an operand", b0)
}

func (instr CharstringInstruction) String() string {
	var sb strings.Builder
	for _, v := range instr.Operands {
		sb.WriteString(strconv.FormatFloat(v, 'f', -1, 64))
		sb.WriteByte(' ')
	}
	sb.WriteString(OperatorMnemonic(instr.Op))
	for _, m := range instr.Mask {
		fmt.Fprintf(&sb, " %08b", m)
	}
	return strings.TrimSpace(sb.String())
}

// String returns a disassembly listing of the charstring, one instruction per line.
// Decoding errors are appended to the listing.
func (cs Charstring) String() string {
	instrs, err := cs.Disassemble()
	var sb strings.Builder
	for _, instr := range instrs {
		fmt.Fprintf(&sb, "%4d: %s\n", instr.Offset, instr)
	}
	if err != nil {
		fmt.Fprintf(&sb, "error: %v\n", err)
	}
	return sb.String()
}
