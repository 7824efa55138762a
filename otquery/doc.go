/*
Package otquery answers common questions about a decoded OpenType font, such as
font and glyph metrics, names, and script support.

Functions of this package operate on an *ot.Font, as returned by ot.Parse.
They never fail: missing or broken tables lead to zero values.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package otquery

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'font.otquery'
func tracer() tracing.Trace {
	return tracing.Select("font.otquery")
}
