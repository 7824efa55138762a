/*
Package opentype decodes OpenType and TrueType fonts.

The tables of a font are decoded by package ot, which has no notion of font
files. Package otquery answers common questions about decoded fonts, like font
metrics or the glyph for a code point. This package ties everything together
for the most common use cases: loading a font from a file and identifying it.

There is a certain confusion with the nomenclature of typesetting. We will
stick to the following definitions:

▪︎ A "typeface" is a family of fonts. An example is "Helvetica".
This corresponds to a TrueType "collection" (*.ttc).

▪︎ A "scalable font" is a font, i.e. a variant of a typeface with a
certain weight, slant, etc.  An example is "Helvetica regular".

Please note that Go (Golang) does use the terms "font" and "face"
differently–actually more or less in an opposite manner.

# Links

OpenType explained:
https://docs.microsoft.com/en-us/typography/opentype/

______________________________________________________________________

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package opentype

import (
	"github.com/npillmayer/otdecode/internal/fontload"
	"github.com/npillmayer/otdecode/ot"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'opentype'
func tracer() tracing.Trace {
	return tracing.Select("opentype")
}

// LoadFont loads a font file (TTF, OTF or TTC) and decodes its tables.
// For font collections, index selects the font; it must be 0 otherwise.
//
// The font file is checked with the SFNT parser of golang.org/x/image before
// decoding.
func LoadFont(fontfile string, index int, opts ...ot.ParseOption) (*ot.Font, error) {
	f, err := fontload.LoadOpenTypeFont(fontfile, index)
	if err != nil {
		return nil, err
	}
	tracer().Debugf("loaded SFNT font %q from %s", f.Fontname, fontfile)
	return f.Decode(opts...)
}
