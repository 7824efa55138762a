package ot

import (
	"fmt"
)

// Code comment often will cite passage from the
// OpenType specification version 1.9;
// see https://docs.microsoft.com/en-us/typography/opentype/spec/.

// RequiredTables are, according to the OpenType spec, required for the font
// to function correctly. Missing required tables are reported as warnings.
var RequiredTables = []string{
	"cmap", "head", "hhea", "hmtx", "maxp", "name", "OS/2", "post",
}

// decodingOrder is a topological order of the tables with dedicated decoders:
// 'loca' needs 'head' and 'maxp', 'hmtx' needs 'hhea' and 'maxp', 'glyf' needs
// 'maxp' and 'loca', 'post' and 'CFF ' use the glyph count of 'maxp'.
var decodingOrder = []Tag{
	T("head"), T("maxp"), T("hhea"), T("loca"), T("hmtx"), T("glyf"),
	T("cmap"), T("post"), T("OS/2"), T("name"), T("kern"), T("CFF "), T("GSUB"),
}

// Parse parses an OpenType font from a byte slice. The slice must contain a single
// font; for font collections use ParseCollectionFont.
//
// A font without tables 'head' and 'maxp' is rejected. Errors in other tables
// do not abort parsing (unless option StrictTables is given): the table is kept
// as a generic table and the error is available from Font.Errors(). A table
// whose directory record points outside the font is skipped.
func Parse(font []byte, opts ...ParseOption) (*Font, error) {
	return parseFont(font, 0, opts)
}

// ParseCollectionFont parses the font at position index within a font collection.
func ParseCollectionFont(font []byte, index int, opts ...ParseOption) (*Font, error) {
	offsets, err := CollectionOffsets(font)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(offsets) {
		return nil, fmt.Errorf("font collection has no font #%d: %w", index, ErrOutOfRange)
	}
	return parseFont(font, offsets[index], opts)
}

func parseFont(font []byte, offset uint32, opts []ParseOption) (*Font, error) {
	dir, err := ReadTableDirectory(font, offset)
	if err != nil {
		return nil, err
	}
	otf := &Font{
		Directory:    dir,
		tables:       make(map[Tag]Table, len(dir.Entries)),
		parseOptions: opts,
	}
	ec := &errorCollector{}
	prev := Tag(0)
	for _, e := range dir.Entries {
		if e.Tag < prev {
			ec.addWarning(e.Tag, "table records not sorted by tag", e.Offset)
		}
		prev = e.Tag
	}
	for _, tag := range []Tag{T("head"), T("maxp")} {
		if dir.EntryByTag(tag).IsNone() {
			return nil, errFontFormat("font has no %s table", tag)
		}
	}
	decoded := make(map[Tag]bool, len(decodingOrder))
	for _, tag := range decodingOrder {
		decoded[tag] = true
		entry, ok := dir.EntryByTag(tag).Unwrap()
		if !ok {
			continue
		}
		if err := otf.decodeTable(font, entry, ec); err != nil {
			return nil, err
		}
	}
	for _, e := range dir.Entries {
		if decoded[e.Tag] {
			continue
		}
		if b, err := e.tableBytes(font); err != nil {
			ec.addError(e.Tag, "Directory", err, SeverityMajor, e.Offset)
		} else {
			otf.tables[e.Tag] = newGenericTable(e, b)
		}
	}
	if !otf.hasOption(IsTestfont) {
		for _, name := range RequiredTables {
			if otf.tables[T(name)] == nil {
				ec.addWarning(T(name), "missing required table", 0)
			}
		}
	}
	otf.parseErrors = ec.errors
	otf.parseWarnings = ec.warnings
	return otf, nil
}

// decodeTable decodes a single table and stores it in otf. Errors are collected;
// an error is returned only if parsing of the font has to be aborted.
func (otf *Font) decodeTable(font []byte, e DirectoryEntry, ec *errorCollector) error {
	severity := SeverityMajor
	if e.Tag == T("head") || e.Tag == T("maxp") {
		severity = SeverityCritical
	}
	b, err := e.tableBytes(font)
	if err != nil {
		// the table's bytes are not available, not even as a generic table
		ec.addError(e.Tag, "Directory", err, severity, e.Offset)
		if severity == SeverityCritical || otf.hasOption(StrictTables) {
			return fmt.Errorf("table %s: %w", e.Tag, err)
		}
		return nil
	}
	tracer().Debugf("decoding table %s", e)
	t, err := otf.dispatch(e, b)
	if err == nil {
		otf.tables[e.Tag] = t
		return nil
	}
	ec.addError(e.Tag, "Decode", err, severity, e.Offset)
	if severity == SeverityCritical || otf.hasOption(StrictTables) {
		return fmt.Errorf("table %s: %w", e.Tag, err)
	}
	otf.tables[e.Tag] = newGenericTable(e, b)
	return nil
}

// dispatch builds the typed table for a tag. Prerequisite tables must have been
// decoded beforehand (see decodingOrder).
func (otf *Font) dispatch(e DirectoryEntry, b binarySegm) (Table, error) {
	var err error
	switch e.Tag {
	case T("head"):
		otf.Head, err = parseHead(e, b)
		return otf.Head, err
	case T("maxp"):
		otf.MaxP, err = parseMaxP(e, b)
		return otf.MaxP, err
	case T("hhea"):
		otf.HHea, err = parseHHea(e, b)
		return otf.HHea, err
	case T("loca"):
		if otf.Head == nil || otf.MaxP == nil {
			return nil, errFontFormat("table loca requires tables head and maxp")
		}
		otf.Loca, err = parseLoca(e, b, otf.Head.IndexToLocFormat, otf.MaxP.NumGlyphs)
		return otf.Loca, err
	case T("hmtx"):
		if otf.HHea == nil || otf.MaxP == nil {
			return nil, errFontFormat("table hmtx requires tables hhea and maxp")
		}
		otf.HMtx, err = parseHMtx(e, b, otf.MaxP.NumGlyphs, otf.HHea.NumberOfHMetrics)
		return otf.HMtx, err
	case T("glyf"):
		if otf.Loca == nil || otf.MaxP == nil {
			return nil, errFontFormat("table glyf requires tables loca and maxp")
		}
		otf.Glyf, err = parseGlyf(e, b, otf.Loca, otf.MaxP.NumGlyphs)
		return otf.Glyf, err
	case T("cmap"):
		otf.CMap, err = parseCMap(e, b)
		return otf.CMap, err
	case T("post"):
		otf.Post, err = parsePost(e, b)
		return otf.Post, err
	case T("OS/2"):
		otf.OS2, err = parseOS2(e, b)
		return otf.OS2, err
	case T("name"):
		otf.Name, err = parseName(e, b)
		return otf.Name, err
	case T("kern"):
		otf.Kern, err = parseKern(e, b)
		return otf.Kern, err
	case T("CFF "):
		otf.CFF, err = parseCFF(e, b)
		return otf.CFF, err
	case T("GSUB"):
		otf.Layout.GSub, err = parseGSub(e, b)
		return otf.Layout.GSub, err
	}
	return newGenericTable(e, b), nil
}
