/*
Package fontload reads font files and checks them with the SFNT decoder of
golang.org/x/image before they are handed to package ot.
*/
package fontload

import (
	"fmt"
	"os"

	"github.com/npillmayer/otdecode/ot"
	"golang.org/x/image/font/sfnt"
)

// ScalableFont is a font file, loaded into memory, together with its SFNT view.
// For font collections, Index denotes the font of interest.
type ScalableFont struct {
	Fontname string
	Filepath string
	Binary   []byte
	Index    int
	SFNT     *sfnt.Font
}

// LoadOpenTypeFont loads an OpenType font (TTF, OTF or TTC) from a file.
func LoadOpenTypeFont(fontfile string, index int) (*ScalableFont, error) {
	bytez, err := os.ReadFile(fontfile)
	if err != nil {
		return nil, err
	}
	f, err := ParseOpenTypeFont(bytez, index)
	if err != nil {
		return nil, fmt.Errorf("font file %s: %w", fontfile, err)
	}
	f.Filepath = fontfile
	return f, nil
}

// ParseOpenTypeFont loads an OpenType font (TTF, OTF or TTC) from memory.
// index selects a font within a collection and must be 0 for single fonts.
func ParseOpenTypeFont(fbytes []byte, index int) (f *ScalableFont, err error) {
	f = &ScalableFont{Binary: fbytes, Index: index}
	if ot.IsCollection(fbytes) {
		var coll *sfnt.Collection
		if coll, err = sfnt.ParseCollection(fbytes); err != nil {
			return nil, err
		}
		if index < 0 || index >= coll.NumFonts() {
			return nil, fmt.Errorf("font collection has %d fonts, no #%d: %w", coll.NumFonts(), index, ot.ErrOutOfRange)
		}
		f.SFNT, err = coll.Font(index)
	} else if index != 0 {
		return nil, fmt.Errorf("font #%d requested from single font: %w", index, ot.ErrOutOfRange)
	} else {
		f.SFNT, err = sfnt.Parse(fbytes)
	}
	if err != nil {
		return nil, err
	}
	if f.Fontname, err = f.SFNT.Name(nil, sfnt.NameIDFull); err != nil {
		f.Fontname, err = "", nil // name is optional
	}
	return f, nil
}

// Decode decodes the font's tables with package ot.
func (f *ScalableFont) Decode(opts ...ot.ParseOption) (*ot.Font, error) {
	if ot.IsCollection(f.Binary) {
		return ot.ParseCollectionFont(f.Binary, f.Index, opts...)
	}
	return ot.Parse(f.Binary, opts...)
}
