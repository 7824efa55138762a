/*
Package ot decodes the binary tables of OpenType fonts into typed, navigable
in-memory structures. Intended audience for this package are:

▪︎ glyph rasterizers, which need outlines from 'glyf' or 'CFF '

▪︎ text shapers, which need character mappings and layout lookups

▪︎ any application needing to have the internal structure of an OpenType font file available

Package `ot` will not interpret the tables it decodes. For example, it is not possible to ask
package `ot` for a kerning distance between two glyphs: the 'kern' pairs are exposed,
but never applied. Likewise, TrueType instructions and CFF charstrings are stored and
disassembled, but not executed.

Decoding happens eagerly and once: Parse reads the table directory, then decodes the
tables it knows in dependency order ('maxp' and 'head' before 'loca', 'hhea' and
'maxp' before 'hmtx', 'loca' before 'glyf'). After Parse returns, every table is
immutable and may be shared between goroutines.

Errors in optional tables do not prevent a font from being usable. They are
collected and may be inspected with Font.Errors().

# Status

Outlines are decoded for TrueType ('glyf') and CFF version 1. Only GSUB lookups of type 1
(single substitution) and type 4 (ligature substitution) are decoded, other lookup types
are recognized but left empty. No font variations.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package ot

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'font.opentype'
func tracer() tracing.Trace {
	return tracing.Select("font.opentype")
}
