package ot

import (
	"fmt"
)

// CFFTable holds the decoded structures of a 'CFF ' table (Compact Font Format
// version 1). Only the first font of the FontSet is decoded, as OpenType
// requires a single font per CFF table.
type CFFTable struct {
	tableBase
	Header      CFFHeader
	Names       *CFFIndex
	TopDicts    *CFFIndex
	Strings     *CFFIndex
	GlobalSubrs *CFFIndex
	CharStrings *CFFIndex
	LocalSubrs  *CFFIndex // nil if the Private DICT has no Subrs
	TopDict     TopDict
	PrivateDict CFFDict
	FDArray     *CFFIndex // CID-keyed fonts only; Font DICTs are not decoded
	Charset     []uint16  // SIDs by glyph index (CIDs for CID-keyed fonts)
}

// CFFHeader is the header of a CFF table.
type CFFHeader struct {
	Major   uint8
	Minor   uint8
	HdrSize uint8
	OffSize uint8
}

// TopDict is a typed view of the Top DICT of a CFF font. Entries missing from
// the DICT carry their default values.
type TopDict struct {
	Dict           CFFDict
	FullName       int // SID
	FamilyName     int // SID
	Weight         int // SID
	CharstringType int
	FontMatrix     [6]float64
	FontBBox       [4]float64
	Charset        int // offset, or predefined charset 0…2
	Encoding       int // offset, or predefined encoding 0…1
	CharStrings    int // offset
	PrivateSize    int
	PrivateOffset  int
	IsCIDFont      bool
	FDArray        int // offset
	FDSelect       int // offset
}

func parseCFF(e DirectoryEntry, b binarySegm) (*CFFTable, error) {
	t := &CFFTable{tableBase: newTableBase(e, b)}
	t.self = t
	c := NewCursor(b)
	hdr, err := c.Bytes(4)
	if err != nil {
		return nil, err
	}
	t.Header = CFFHeader{Major: hdr[0], Minor: hdr[1], HdrSize: hdr[2], OffSize: hdr[3]}
	if t.Header.Major != 1 {
		return nil, errFontFormat("CFF version %d.%d not supported", t.Header.Major, t.Header.Minor)
	}
	if err = c.Seek(int(t.Header.HdrSize)); err != nil {
		return nil, err
	}
	for _, inx := range []struct {
		name   string
		target **CFFIndex
	}{
		{"Name", &t.Names}, {"Top DICT", &t.TopDicts}, {"String", &t.Strings}, {"Global Subr", &t.GlobalSubrs},
	} {
		if *inx.target, err = ParseCFFIndex(c); err != nil {
			return nil, fmt.Errorf("CFF %s INDEX: %w", inx.name, err)
		}
	}
	if t.TopDicts.Len() == 0 {
		return nil, errFontFormat("CFF without Top DICT")
	}
	if t.TopDict, err = decodeTopDict(t.TopDicts.Object(0)); err != nil {
		return nil, fmt.Errorf("CFF Top DICT: %w", err)
	}
	if t.TopDict.CharstringType != 2 {
		return nil, errFontFormat("CFF charstring type %d not supported", t.TopDict.CharstringType)
	}
	if t.CharStrings, err = t.indexAt(t.TopDict.CharStrings); err != nil {
		return nil, fmt.Errorf("CFF CharStrings INDEX: %w", err)
	}
	if t.Charset, err = parseCFFCharset(b, t.TopDict.Charset, t.CharStrings.Len()); err != nil {
		return nil, fmt.Errorf("CFF charset: %w", err)
	}
	if t.TopDict.PrivateSize > 0 {
		priv, err := b.view(t.TopDict.PrivateOffset, t.TopDict.PrivateSize)
		if err != nil {
			return nil, fmt.Errorf("CFF Private DICT: %w", err)
		}
		if t.PrivateDict, err = ParseCFFDict(priv); err != nil {
			return nil, fmt.Errorf("CFF Private DICT: %w", err)
		}
		// local subrs offset is relative to the Private DICT
		if subrs := t.PrivateDict.Int(DictSubrs, 0); subrs > 0 {
			if t.LocalSubrs, err = t.indexAt(t.TopDict.PrivateOffset + subrs); err != nil {
				return nil, fmt.Errorf("CFF local Subrs INDEX: %w", err)
			}
		}
	}
	if t.TopDict.IsCIDFont && t.TopDict.FDArray > 0 {
		if t.FDArray, err = t.indexAt(t.TopDict.FDArray); err != nil {
			return nil, fmt.Errorf("CFF FDArray INDEX: %w", err)
		}
	}
	tracer().Debugf("CFF font %q with %d charstrings", t.FontName(), t.CharStrings.Len())
	return t, nil
}

func (t *CFFTable) indexAt(offset int) (*CFFIndex, error) {
	c, err := t.data.cursor(offset)
	if err != nil {
		return nil, err
	}
	return ParseCFFIndex(c)
}

func decodeTopDict(b []byte) (TopDict, error) {
	dict, err := ParseCFFDict(b)
	if err != nil {
		return TopDict{}, err
	}
	td := TopDict{
		Dict:           dict,
		FullName:       dict.Int(DictFullName, -1),
		FamilyName:     dict.Int(DictFamilyName, -1),
		Weight:         dict.Int(DictWeight, -1),
		CharstringType: dict.Int(DictCharstringType, 2),
		FontMatrix:     [6]float64{0.001, 0, 0, 0.001, 0, 0},
		Charset:        dict.Int(DictCharset, 0),
		Encoding:       dict.Int(DictEncoding, 0),
		CharStrings:    dict.Int(DictCharStrings, -1),
		IsCIDFont:      dict.Has(DictROS),
		FDArray:        dict.Int(DictFDArray, 0),
		FDSelect:       dict.Int(DictFDSelect, 0),
	}
	if m, ok := dict.Operands(DictFontMatrix).Unwrap(); ok && len(m) == 6 {
		copy(td.FontMatrix[:], m)
	}
	if bbox, ok := dict.Operands(DictFontBBox).Unwrap(); ok && len(bbox) == 4 {
		copy(td.FontBBox[:], bbox)
	}
	if priv, ok := dict.Operands(DictPrivate).Unwrap(); ok {
		if len(priv) != 2 {
			return td, errFontFormat("CFF Private operator with %d operands", len(priv))
		}
		td.PrivateSize, td.PrivateOffset = int(priv[0]), int(priv[1])
	}
	if td.CharStrings < 0 {
		return td, errFontFormat("CFF Top DICT without CharStrings")
	}
	return td, nil
}

// FontName returns the name of the font from the Name INDEX.
func (t *CFFTable) FontName() string {
	if t == nil {
		return ""
	}
	return string(t.Names.Object(0))
}

// String resolves a string ID (SID). SIDs below 391 denote standard strings,
// others index into the String INDEX.
func (t *CFFTable) String(sid int) Option[string] {
	if sid < 0 {
		return None[string]()
	}
	if sid < len(cffStandardStrings) {
		return Some(cffStandardStrings[sid])
	}
	if t == nil {
		return None[string]()
	}
	if b := t.Strings.Object(sid - len(cffStandardStrings)); b != nil {
		return Some(string(b))
	}
	return None[string]()
}

// NumGlyphs returns the number of charstrings.
func (t *CFFTable) NumGlyphs() int {
	if t == nil {
		return 0
	}
	return t.CharStrings.Len()
}

// Charstring returns the Type 2 charstring for a glyph.
func (t *CFFTable) Charstring(gid GlyphIndex) Option[Charstring] {
	if t == nil || int(gid) >= t.CharStrings.Len() {
		return None[Charstring]()
	}
	return Some(Charstring(t.CharStrings.Object(int(gid))))
}

// cffStandardStrings are the predefined strings of CFF, addressed by SIDs 0…390.
var cffStandardStrings = [391]string{
	".notdef", "space", "exclam", "quotedbl", "numbersign", "dollar", "percent", "ampersand",
	"quoteright", "parenleft", "parenright", "asterisk", "plus", "comma", "hyphen", "period",
	"slash", "zero", "one", "two", "three", "four", "five", "six", "seven", "eight", "nine",
	"colon", "semicolon", "less", "equal", "greater", "question", "at", "A", "B", "C", "D", "E",
	"F", "G", "H", "I", "J", "K", "L", "M", "N", "O", "P", "Q", "R", "S", "T", "U", "V", "W", "X",
	"Y", "Z", "bracketleft", "backslash", "bracketright", "asciicircum", "underscore",
	"quoteleft", "a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l", "m", "n", "o", "p",
	"q", "r", "s", "t", "u", "v", "w", "x", "y", "z", "braceleft", "bar", "braceright",
	"asciitilde", "exclamdown", "cent", "sterling", "fraction", "yen", "florin", "section",
	"currency", "quotesingle", "quotedblleft", "guillemotleft", "guilsinglleft", "guilsinglright",
	"fi", "fl", "endash", "dagger", "daggerdbl", "periodcentered", "paragraph", "bullet",
	"quotesinglbase", "quotedblbase", "quotedblright", "guillemotright", "ellipsis",
	"perthousand", "questiondown", "grave", "acute", "circumflex", "tilde", "macron", "breve",
	"dotaccent", "dieresis", "ring", "cedilla", "hungarumlaut", "ogonek", "caron", "emdash", "AE",
	"ordfeminine", "Lslash", "Oslash", "OE", "ordmasculine", "ae", "dotlessi", "lslash", "oslash",
	"oe", "germandbls", "onesuperior", "logicalnot", "mu", "trademark", "Eth", "onehalf",
	"plusminus", "Thorn", "onequarter", "divide", "brokenbar", "degree", "thorn", "threequarters",
	"twosuperior", "registered", "minus", "eth", "multiply", "threesuperior", "copyright",
	"Aacute", "Acircumflex", "Adieresis", "Agrave", "Aring", "Atilde", "Ccedilla", "Eacute",
	"Ecircumflex", "Edieresis", "Egrave", "Iacute", "Icircumflex", "Idieresis", "Igrave",
	"Ntilde", "Oacute", "Ocircumflex", "Odieresis", "Ograve", "Otilde", "Scaron", "Uacute",
	"Ucircumflex", "Udieresis", "Ugrave", "Yacute", "Ydieresis", "Zcaron", "aacute",
	"acircumflex", "adieresis", "agrave", "aring", "atilde", "ccedilla", "eacute", "ecircumflex",
	"edieresis", "egrave", "iacute", "icircumflex", "idieresis", "igrave", "ntilde", "oacute",
	"ocircumflex", "odieresis", "ograve", "otilde", "scaron", "uacute", "ucircumflex",
	"udieresis", "ugrave", "yacute", "ydieresis", "zcaron", "exclamsmall", "Hungarumlautsmall",
	"dollaroldstyle", "dollarsuperior", "ampersandsmall", "Acutesmall", "parenleftsuperior",
	"parenrightsuperior", "twodotenleader", "onedotenleader", "zerooldstyle", "oneoldstyle",
	"twooldstyle", "threeoldstyle", "fouroldstyle", "fiveoldstyle", "sixoldstyle",
	"sevenoldstyle", "eightoldstyle", "nineoldstyle", "commasuperior", "threequartersemdash",
	"periodsuperior", "questionsmall", "asuperior", "bsuperior", "centsuperior", "dsuperior",
	"esuperior", "isuperior", "lsuperior", "msuperior", "nsuperior", "osuperior", "rsuperior",
	"ssuperior", "tsuperior", "ff", "ffi", "ffl", "parenleftinferior", "parenrightinferior",
	"Circumflexsmall", "hyphensuperior", "Gravesmall", "Asmall", "Bsmall", "Csmall", "Dsmall",
	"Esmall", "Fsmall", "Gsmall", "Hsmall", "Ismall", "Jsmall", "Ksmall", "Lsmall", "Msmall",
	"Nsmall", "Osmall", "Psmall", "Qsmall", "Rsmall", "Ssmall", "Tsmall", "Usmall", "Vsmall",
	"Wsmall", "Xsmall", "Ysmall", "Zsmall", "colonmonetary", "onefitted", "rupiah", "Tildesmall",
	"exclamdownsmall", "centoldstyle", "Lslashsmall", "Scaronsmall", "Zcaronsmall",
	"Dieresissmall", "Brevesmall", "Caronsmall", "Dotaccentsmall", "Macronsmall", "figuredash",
	"hypheninferior", "Ogoneksmall", "Ringsmall", "Cedillasmall", "questiondownsmall",
	"oneeighth", "threeeighths", "fiveeighths", "seveneighths", "onethird", "twothirds",
	"zerosuperior", "foursuperior", "fivesuperior", "sixsuperior", "sevensuperior",
	"eightsuperior", "ninesuperior", "zeroinferior", "oneinferior", "twoinferior",
	"threeinferior", "fourinferior", "fiveinferior", "sixinferior", "seveninferior",
	"eightinferior", "nineinferior", "centinferior", "dollarinferior", "periodinferior",
	"commainferior", "Agravesmall", "Aacutesmall", "Acircumflexsmall", "Atildesmall",
	"Adieresissmall", "Aringsmall", "AEsmall", "Ccedillasmall", "Egravesmall", "Eacutesmall",
	"Ecircumflexsmall", "Edieresissmall", "Igravesmall", "Iacutesmall", "Icircumflexsmall",
	"Idieresissmall", "Ethsmall", "Ntildesmall", "Ogravesmall", "Oacutesmall", "Ocircumflexsmall",
	"Otildesmall", "Odieresissmall", "OEsmall", "Oslashsmall", "Ugravesmall", "Uacutesmall",
	"Ucircumflexsmall", "Udieresissmall", "Yacutesmall", "Thornsmall", "Ydieresissmall",
	"001.000", "001.001", "001.002", "001.003", "Black", "Bold", "Book", "Light", "Medium",
	"Regular", "Roman", "Semibold",
}
