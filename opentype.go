package opentype

import (
	"strings"

	"github.com/npillmayer/otdecode/ot"
	"github.com/npillmayer/otdecode/otquery"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/text/language"
)

// FromBinary parses raw OpenType bytes and returns a decoded font.
//
// The input is expected to contain a complete single-font SFNT stream.
// It must not change after parsing for the font to be usable.
func FromBinary(data []byte, opts ...ot.ParseOption) (*ot.Font, error) {
	return ot.Parse(data, opts...)
}

// FamilyName extracts family and subfamily names from a font's `name` table.
//
// Returned values are empty if no matching records exist or if records cannot be
// decoded by the current name-table reader.
func FamilyName(f *ot.Font) (family, subfamily string) {
	for nameId, stringValue := range otquery.NamesRange(f) {
		switch nameId {
		case sfnt.NameIDFamily:
			if family == "" {
				family = stringValue
			}
		case sfnt.NameIDSubfamily:
			if subfamily == "" {
				subfamily = stringValue
			}
		}
	}
	return
}

// scriptTagExceptions lists ISO 15924 codes with an OpenType script tag other
// than the lowercased code.
var scriptTagExceptions = map[string]string{
	"Hira": "kana",
	"Laoo": "lao ",
	"Yiii": "yi  ",
	"Nkoo": "nko ",
	"Vaii": "vai ",
	"Zinh": "DFLT",
	"Zyyy": "DFLT",
	"Zzzz": "DFLT",
}

// ScriptTag returns the OpenType script tag for a script, e.g. 'latn' for
// Latin. Only tags of the first generation of script tags are returned, i.e.
// 'deva' rather than 'dev2'.
func ScriptTag(script language.Script) ot.Tag {
	code := script.String()
	if tag, ok := scriptTagExceptions[code]; ok {
		return ot.T(tag)
	}
	return ot.T(strings.ToLower(code))
}

// SupportsScript checks if a font's GSUB table contains a script and a
// language system for it. It returns the tags actually selected, falling
// back to 'DFLT' where a tag is not supported.
//
// The language is converted to an OpenType language system tag for a small
// set of common languages only; for all other languages the default language
// system is selected.
func SupportsScript(otf *ot.Font, script language.Script, lang language.Tag) (ot.Tag, ot.Tag) {
	base, _ := lang.Base()
	lsTag := ot.DFLT
	if t, ok := langSysTags[base.String()]; ok {
		lsTag = ot.T(t)
	}
	return otquery.FontSupportsScript(otf, ScriptTag(script), lsTag)
}

// langSysTags maps ISO 639 language codes to OpenType language system tags.
var langSysTags = map[string]string{
	"ar": "ARA ",
	"cs": "CSY ",
	"da": "DAN ",
	"de": "DEU ",
	"el": "ELL ",
	"en": "ENG ",
	"es": "ESP ",
	"fi": "FIN ",
	"fr": "FRA ",
	"he": "IWR ",
	"hu": "HUN ",
	"it": "ITA ",
	"ja": "JAN ",
	"ko": "KOR ",
	"nl": "NLD ",
	"no": "NOR ",
	"pl": "PLK ",
	"pt": "PTG ",
	"ro": "ROM ",
	"ru": "RUS ",
	"sv": "SVE ",
	"tr": "TRK ",
	"zh": "ZHS ",
}
