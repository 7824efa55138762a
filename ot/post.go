package ot

import (
	"fmt"
)

// PostTable contains information needed to use a TrueType or OpenType font on
// a PostScript printer, most notably the glyph names (version 2.0 only).
type PostTable struct {
	tableBase
	Version            Fixed
	ItalicAngle        Fixed
	UnderlinePosition  int16
	UnderlineThickness int16
	IsFixedPitch       bool
	glyphNames         []string // version 2.0 only
}

func parsePost(e DirectoryEntry, b binarySegm) (*PostTable, error) {
	if len(b) < 32 {
		return nil, errFontFormat("post table too short: %d bytes", len(b))
	}
	t := &PostTable{tableBase: newTableBase(e, b)}
	t.self = t
	c := NewCursor(b)
	t.Version, _ = c.Fixed()
	t.ItalicAngle, _ = c.Fixed()
	t.UnderlinePosition, _ = c.I16()
	t.UnderlineThickness, _ = c.I16()
	fixedPitch, _ := c.U32()
	t.IsFixedPitch = fixedPitch != 0
	_ = c.Skip(16) // memory usage hints
	if t.Version != 0x00020000 {
		return t, nil
	}
	n, err := c.U16()
	if err != nil {
		return nil, err
	}
	indices := make([]uint16, n)
	for i := range indices {
		if indices[i], err = c.U16(); err != nil {
			return nil, fmt.Errorf("post glyph name index %d: %w", i, err)
		}
	}
	var custom []string
	for c.Remaining() > 0 {
		l, _ := c.U8()
		s, err := c.Bytes(int(l))
		if err != nil {
			return nil, fmt.Errorf("post glyph name string %d: %w", len(custom), err)
		}
		custom = append(custom, string(s))
	}
	t.glyphNames = make([]string, n)
	for i, inx := range indices {
		switch {
		case int(inx) < len(macGlyphNames):
			t.glyphNames[i] = macGlyphNames[inx]
		case int(inx)-len(macGlyphNames) < len(custom):
			t.glyphNames[i] = custom[int(inx)-len(macGlyphNames)]
		default:
			return nil, errFontFormat("post glyph name index %d for glyph %d", inx, i)
		}
	}
	return t, nil
}

// GlyphName returns the PostScript name of a glyph, if the table contains glyph names.
func (t *PostTable) GlyphName(gid GlyphIndex) Option[string] {
	if t == nil || int(gid) >= len(t.glyphNames) {
		return None[string]()
	}
	return Some(t.glyphNames[gid])
}

// macGlyphNames is the standard order of Macintosh glyph names.
var macGlyphNames = [258]string{
	".notdef", ".null", "nonmarkingreturn", "space", "exclam", "quotedbl", "numbersign",
	"dollar", "percent", "ampersand", "quotesingle", "parenleft", "parenright", "asterisk",
	"plus", "comma", "hyphen", "period", "slash", "zero", "one", "two", "three", "four",
	"five", "six", "seven", "eight", "nine", "colon", "semicolon", "less", "equal",
	"greater", "question", "at", "A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K",
	"L", "M", "N", "O", "P", "Q", "R", "S", "T", "U", "V", "W", "X", "Y", "Z",
	"bracketleft", "backslash", "bracketright", "asciicircum", "underscore", "grave",
	"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l", "m", "n", "o", "p", "q",
	"r", "s", "t", "u", "v", "w", "x", "y", "z", "braceleft", "bar", "braceright",
	"asciitilde", "Adieresis", "Aring", "Ccedilla", "Eacute", "Ntilde", "Odieresis",
	"Udieresis", "aacute", "agrave", "acircumflex", "adieresis", "atilde", "aring",
	"ccedilla", "eacute", "egrave", "ecircumflex", "edieresis", "iacute", "igrave",
	"icircumflex", "idieresis", "ntilde", "oacute", "ograve", "ocircumflex", "odieresis",
	"otilde", "uacute", "ugrave", "ucircumflex", "udieresis", "dagger", "degree", "cent",
	"sterling", "section", "bullet", "paragraph", "germandbls", "registered", "copyright",
	"trademark", "acute", "dieresis", "notequal", "AE", "Oslash", "infinity", "plusminus",
	"lessequal", "greaterequal", "yen", "mu", "partialdiff", "summation", "product", "pi",
	"integral", "ordfeminine", "ordmasculine", "Omega", "ae", "oslash", "questiondown",
	"exclamdown", "logicalnot", "radical", "florin", "approxequal", "Delta", "guillemotleft",
	"guillemotright", "ellipsis", "nonbreakingspace", "Agrave", "Atilde", "Otilde", "OE",
	"oe", "endash", "emdash", "quotedblleft", "quotedblright", "quoteleft", "quoteright",
	"divide", "lozenge", "ydieresis", "Ydieresis", "fraction", "currency", "guilsinglleft",
	"guilsinglright", "fi", "fl", "daggerdbl", "periodcentered", "quotesinglbase",
	"quotedblbase", "perthousand", "Acircumflex", "Ecircumflex", "Aacute", "Edieresis",
	"Egrave", "Iacute", "Icircumflex", "Idieresis", "Igrave", "Oacute", "Ocircumflex",
	"apple", "Ograve", "Uacute", "Ucircumflex", "Ugrave", "dotlessi", "circumflex", "tilde",
	"macron", "breve", "dotaccent", "ring", "cedilla", "hungarumlaut", "ogonek", "caron",
	"Lslash", "lslash", "Scaron", "scaron", "Zcaron", "zcaron", "brokenbar", "Eth", "eth",
	"Yacute", "yacute", "Thorn", "thorn", "minus", "multiply", "onesuperior", "twosuperior",
	"threesuperior", "onehalf", "onequarter", "threequarters", "franc", "Gbreve", "gbreve",
	"Idotaccent", "Scedilla", "scedilla", "Cacute", "cacute", "Ccaron", "ccaron", "dcroat",
}
