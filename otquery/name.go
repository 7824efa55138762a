package otquery

import (
	"iter"

	"github.com/npillmayer/otdecode/ot"
	"golang.org/x/image/font/sfnt"
)

// NamesRange yields decoded `(nameID, value)` pairs from a font's OpenType
// `name` table, in the order of the table's records.
//
// Records with an encoding which package ot cannot decode are skipped, as are
// empty strings. The same name ID may be yielded more than once, e.g. for
// different platforms or languages.
func NamesRange(otf *ot.Font) iter.Seq2[sfnt.NameID, string] {
	return func(yield func(sfnt.NameID, string) bool) {
		if otf == nil || otf.Name == nil {
			tracer().Debugf("no name table found in font")
			return
		}
		for _, rec := range otf.Name.Records {
			value, err := rec.Decode()
			if err != nil || value == "" {
				continue
			}
			if !yield(rec.NameID, value) {
				return
			}
		}
	}
}

// nameKeys are the entries of NameInfo.
var nameKeys = map[sfnt.NameID]string{
	sfnt.NameIDCopyright:         "copyright",
	sfnt.NameIDFamily:            "family",
	sfnt.NameIDSubfamily:         "subfamily",
	sfnt.NameIDFull:              "full",
	sfnt.NameIDVersion:           "version",
	sfnt.NameIDPostScript:        "postscript",
	sfnt.NameIDTrademark:         "trademark",
	sfnt.NameIDManufacturer:      "manufacturer",
	sfnt.NameIDDesigner:          "designer",
	sfnt.NameIDLicense:           "license",
	sfnt.NameIDTypographicFamily: "typographic-family",
}

// NameInfo returns a map of well-known names of a font, keyed by
// "family", "subfamily", "full", "version", "postscript", and others.
// Values are taken from the preferred record for each name ID (Windows
// records first).
func NameInfo(otf *ot.Font) map[string]string {
	info := make(map[string]string)
	if otf == nil {
		return info
	}
	for id, key := range nameKeys {
		if value, ok := otf.Name.Lookup(id).Unwrap(); ok {
			info[key] = value
		}
	}
	return info
}
