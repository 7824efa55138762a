package ot

import (
	"fmt"
	"strconv"
	"strings"
)

// DictOp is an operator of a CFF DICT. Two-byte operators (escape 12) are
// represented as 12<<8 | second byte.
type DictOp uint16

// CFF DICT Operators (Top DICT and Private DICT)
// See Adobe Technical Note #5176: The Compact Font Format Specification
const (
	DictVersion           DictOp = 0
	DictNotice            DictOp = 1
	DictFullName          DictOp = 2
	DictFamilyName        DictOp = 3
	DictWeight            DictOp = 4
	DictFontBBox          DictOp = 5
	DictBlueValues        DictOp = 6
	DictOtherBlues        DictOp = 7
	DictFamilyBlues       DictOp = 8
	DictFamilyOtherBlues  DictOp = 9
	DictStdHW             DictOp = 10
	DictStdVW             DictOp = 11
	DictUniqueID          DictOp = 13
	DictXUID              DictOp = 14
	DictCharset           DictOp = 15
	DictEncoding          DictOp = 16
	DictCharStrings       DictOp = 17
	DictPrivate           DictOp = 18
	DictSubrs             DictOp = 19
	DictDefaultWidthX     DictOp = 20
	DictNominalWidthX     DictOp = 21
	DictCopyright         DictOp = 12<<8 | 0
	DictIsFixedPitch      DictOp = 12<<8 | 1
	DictItalicAngle       DictOp = 12<<8 | 2
	DictUnderlinePosition DictOp = 12<<8 | 3
	DictUnderlineThick    DictOp = 12<<8 | 4
	DictPaintType         DictOp = 12<<8 | 5
	DictCharstringType    DictOp = 12<<8 | 6
	DictFontMatrix        DictOp = 12<<8 | 7
	DictStrokeWidth       DictOp = 12<<8 | 8
	DictBlueScale         DictOp = 12<<8 | 9
	DictBlueShift         DictOp = 12<<8 | 10
	DictBlueFuzz          DictOp = 12<<8 | 11
	DictStemSnapH         DictOp = 12<<8 | 12
	DictStemSnapV         DictOp = 12<<8 | 13
	DictForceBold         DictOp = 12<<8 | 14
	DictLanguageGroup     DictOp = 12<<8 | 17
	DictExpansionFactor   DictOp = 12<<8 | 18
	DictInitialRandomSeed DictOp = 12<<8 | 19
	DictSyntheticBase     DictOp = 12<<8 | 20
	DictPostScript        DictOp = 12<<8 | 21
	DictBaseFontName      DictOp = 12<<8 | 22
	DictBaseFontBlend     DictOp = 12<<8 | 23
	DictROS               DictOp = 12<<8 | 30
	DictCIDFontVersion    DictOp = 12<<8 | 31
	DictCIDFontRevision   DictOp = 12<<8 | 32
	DictCIDFontType       DictOp = 12<<8 | 33
	DictCIDCount          DictOp = 12<<8 | 34
	DictUIDBase           DictOp = 12<<8 | 35
	DictFDArray           DictOp = 12<<8 | 36
	DictFDSelect          DictOp = 12<<8 | 37
	DictFontName          DictOp = 12<<8 | 38
)

var dictOpNames = map[DictOp]string{
	DictVersion: "version", DictNotice: "Notice", DictFullName: "FullName",
	DictFamilyName: "FamilyName", DictWeight: "Weight", DictFontBBox: "FontBBox",
	DictBlueValues: "BlueValues", DictOtherBlues: "OtherBlues", DictFamilyBlues: "FamilyBlues",
	DictFamilyOtherBlues: "FamilyOtherBlues", DictStdHW: "StdHW", DictStdVW: "StdVW",
	DictUniqueID: "UniqueID", DictXUID: "XUID", DictCharset: "charset", DictEncoding: "Encoding",
	DictCharStrings: "CharStrings", DictPrivate: "Private", DictSubrs: "Subrs",
	DictDefaultWidthX: "defaultWidthX", DictNominalWidthX: "nominalWidthX",
	DictCopyright: "Copyright", DictIsFixedPitch: "isFixedPitch", DictItalicAngle: "ItalicAngle",
	DictUnderlinePosition: "UnderlinePosition", DictUnderlineThick: "UnderlineThickness",
	DictPaintType: "PaintType", DictCharstringType: "CharstringType", DictFontMatrix: "FontMatrix",
	DictStrokeWidth: "StrokeWidth", DictBlueScale: "BlueScale", DictBlueShift: "BlueShift",
	DictBlueFuzz: "BlueFuzz", DictStemSnapH: "StemSnapH", DictStemSnapV: "StemSnapV",
	DictForceBold: "ForceBold", DictLanguageGroup: "LanguageGroup",
	DictExpansionFactor: "ExpansionFactor", DictInitialRandomSeed: "initialRandomSeed",
	DictSyntheticBase: "SyntheticBase", DictPostScript: "PostScript", DictBaseFontName: "BaseFontName",
	DictBaseFontBlend: "BaseFontBlend", DictROS: "ROS", DictCIDFontVersion: "CIDFontVersion",
	DictCIDFontRevision: "CIDFontRevision", DictCIDFontType: "CIDFontType", DictCIDCount: "CIDCount",
	DictUIDBase: "UIDBase", DictFDArray: "FDArray", DictFDSelect: "FDSelect", DictFontName: "FontName",
}

func (op DictOp) String() string {
	if name, ok := dictOpNames[op]; ok {
		return name
	}
	if op>>8 == 12 {
		return fmt.Sprintf("12 %d", op&0xff)
	}
	return strconv.Itoa(int(op))
}

// DictEntry is an operator together with its operands.
type DictEntry struct {
	Op       DictOp
	Operands []float64
}

// CFFDict is a decoded CFF DICT, in the order of its entries.
type CFFDict struct {
	Entries []DictEntry
}

// ParseCFFDict decodes the binary DICT format: operands precede their operator.
func ParseCFFDict(b []byte) (CFFDict, error) {
	var dict CFFDict
	var operands []float64
	c := NewCursor(b)
	for c.Remaining() > 0 {
		b0, _ := c.U8()
		switch {
		case b0 <= 21:
			op := DictOp(b0)
			if b0 == 12 {
				b1, err := c.U8()
				if err != nil {
					return dict, err
				}
				op = 12<<8 | DictOp(b1)
			}
			dict.Entries = append(dict.Entries, DictEntry{Op: op, Operands: operands})
			operands = nil
		case b0 == 30:
			v, err := readDictReal(c)
			if err != nil {
				return dict, err
			}
			operands = append(operands, v)
		default:
			v, err := readDictInt(c, b0)
			if err != nil {
				return dict, err
			}
			operands = append(operands, float64(v))
		}
		if len(operands) > 48 {
			return dict, errFontFormat("CFF DICT operand stack overflow")
		}
	}
	return dict, nil
}

// readDictInt decodes an integer operand introduced by byte b0.
func readDictInt(c *Cursor, b0 byte) (int32, error) {
	switch {
	case b0 >= 32 && b0 <= 246:
		return int32(b0) - 139, nil
	case b0 >= 247 && b0 <= 250:
		b1, err := c.U8()
		return (int32(b0)-247)*256 + int32(b1) + 108, err
	case b0 >= 251 && b0 <= 254:
		b1, err := c.U8()
		return -(int32(b0)-251)*256 - int32(b1) - 108, err
	case b0 == 28:
		n, err := c.I16()
		return int32(n), err
	case b0 == 29:
		return c.I32()
	}
	return 0, errFontFormat("CFF DICT: invalid operand byte %d", b0)
}

// readDictReal decodes a real number operand from packed BCD nibbles.
func readDictReal(c *Cursor) (float64, error) {
	var sb strings.Builder
	for {
		b, err := c.U8()
		if err != nil {
			return 0, err
		}
		for _, nibble := range []byte{b >> 4, b & 0x0f} {
			switch {
			case nibble <= 9:
				sb.WriteByte('0' + nibble)
			case nibble == 0xa:
				sb.WriteByte('.')
			case nibble == 0xb:
				sb.WriteByte('E')
			case nibble == 0xc:
				sb.WriteString("E-")
			case nibble == 0xe:
				sb.WriteByte('-')
			case nibble == 0xf:
				if sb.Len() == 0 {
					return 0, nil
				}
				return strconv.ParseFloat(sb.String(), 64)
			default:
				return 0, errFontFormat("CFF DICT: reserved nibble in real number")
			}
		}
	}
}

// Operands returns the operands of the first entry for op.
func (d CFFDict) Operands(op DictOp) Option[[]float64] {
	for _, e := range d.Entries {
		if e.Op == op {
			return Some(e.Operands)
		}
	}
	return None[[]float64]()
}

// Int returns the first operand of op as an integer, or def if op is not present.
func (d CFFDict) Int(op DictOp, def int) int {
	if ops, ok := d.Operands(op).Unwrap(); ok && len(ops) > 0 {
		return int(ops[0])
	}
	return def
}

// Has reports whether the DICT contains an entry for op.
func (d CFFDict) Has(op DictOp) bool {
	return d.Operands(op).IsSome()
}
