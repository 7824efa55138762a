package main

import (
	"errors"
	"fmt"
	"sort"

	"github.com/npillmayer/otdecode/ot"
	"github.com/npillmayer/otdecode/otquery"
	"github.com/pterm/pterm"
)

func tablesOp(intp *Intp, op *Op) (error, bool) {
	dir := intp.font.Directory
	pterm.Printf("font has %d tables, outlines are %s\n", len(dir.Entries), otquery.FontType(intp.font))
	data := [][]string{
		{"Tag", "Offset", "Length", "Decoded as", "Description"},
	}
	for _, e := range dir.Entries {
		data = append(data, []string{
			e.Tag.String(),
			fmt.Sprintf("%d", e.Offset),
			fmt.Sprintf("%d", e.Length),
			tableKind(intp.font.Table(e.Tag)),
			ot.TableDescription(e.Tag),
		})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	return nil, false
}

// tableKind names the Go type a table has been decoded to.
func tableKind(t ot.Table) string {
	if t == nil {
		return "-"
	}
	kind := fmt.Sprintf("%T", t)
	if kind == "*ot.genericTable" {
		return "generic"
	}
	return kind
}

func tableOp(intp *Intp, op *Op) (error, bool) {
	if tag, ok := op.hasArg(); ok {
		t := intp.font.Table(ot.T(tag))
		if t == nil {
			return fmt.Errorf("table %q not found in font", tag), false
		}
		intp.table = t
		tracer().Infof("setting table: %v", tag)
	} else if intp.table == nil {
		return ErrNoTable, false
	}
	printTable(intp.font, intp.table)
	return nil, false
}

func printTable(otf *ot.Font, t ot.Table) {
	offset, size := t.Extent()
	pterm.Info.Printf("table %s at offset %d, %d bytes, %s\n", t.Self().NameTag(), offset, size, tableKind(t))
	var data [][]string
	self := t.Self()
	switch {
	case self.AsHead() != nil:
		info, _ := otquery.HeadInfo(otf)
		data = [][]string{
			{"Version", info.Version},
			{"Font revision", fmt.Sprintf("%.3f", info.FontRevision)},
			{"Units per em", fmt.Sprintf("%d", info.UnitsPerEm)},
			{"Created", info.Created.Format("2006-01-02 15:04:05")},
			{"Modified", info.Modified.Format("2006-01-02 15:04:05")},
			{"Bounding box", formatBBox(info.BBox)},
			{"Mac style", fmt.Sprintf("%016b", info.MacStyle)},
			{"Index to loc format", fmt.Sprintf("%d", info.IndexToLocFormat)},
		}
	case self.AsMaxP() != nil:
		info, _ := otquery.MaxPInfo(otf)
		data = [][]string{{"Glyphs", fmt.Sprintf("%d", info.NumGlyphs)}}
		if info.HasExtendedProfile {
			data = append(data,
				[]string{"Max points", fmt.Sprintf("%d", info.MaxPoints)},
				[]string{"Max contours", fmt.Sprintf("%d", info.MaxContours)},
				[]string{"Max composite points", fmt.Sprintf("%d", info.MaxCompositePoints)},
				[]string{"Max component depth", fmt.Sprintf("%d", info.MaxComponentDepth)},
			)
		}
	case self.AsHHea() != nil, self.AsOS2() != nil:
		m := otquery.FontMetrics(otf)
		data = [][]string{
			{"Ascent", fmt.Sprintf("%d", m.Ascent)},
			{"Descent", fmt.Sprintf("%d", m.Descent)},
			{"Line gap", fmt.Sprintf("%d", m.LineGap)},
			{"Max advance", fmt.Sprintf("%d", m.MaxAdvance)},
			{"x-height", fmt.Sprintf("%d", m.XHeight)},
			{"Cap height", fmt.Sprintf("%d", m.CapHeight)},
		}
		if os2 := self.AsOS2(); os2 != nil {
			data = append(data,
				[]string{"OS/2 version", fmt.Sprintf("%d", os2.Version)},
				[]string{"Weight class", fmt.Sprintf("%d", os2.WeightClass)},
				[]string{"Width class", fmt.Sprintf("%d", os2.WidthClass)},
				[]string{"Vendor", os2.VendorID.String()},
			)
		}
	case self.AsName() != nil:
		names := otquery.NameInfo(otf)
		keys := make([]string, 0, len(names))
		for k := range names {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			data = append(data, []string{k, names[k]})
		}
	case self.AsCMap() != nil:
		printCMap(self.AsCMap())
		return
	case self.AsPost() != nil:
		post := self.AsPost()
		data = [][]string{
			{"Version", post.Version.String()},
			{"Italic angle", post.ItalicAngle.String()},
			{"Underline position", fmt.Sprintf("%d", post.UnderlinePosition)},
			{"Fixed pitch", fmt.Sprintf("%v", post.IsFixedPitch)},
			{"Name of glyph 1", post.GlyphName(1).String()},
		}
	case self.AsKern() != nil:
		kern := self.AsKern()
		for i, st := range kern.Subtables {
			data = append(data, []string{
				fmt.Sprintf("Subtable %d", i),
				fmt.Sprintf("format %d, horizontal=%v, %d pairs", st.Format, st.IsHorizontal(kern.Apple), len(st.Pairs)),
			})
		}
	case self.AsCFF() != nil:
		printCFF(self.AsCFF())
		return
	case self.AsGSub() != nil:
		gsub := self.AsGSub()
		data = [][]string{
			{"Version", fmt.Sprintf("%d.%d", gsub.MajorVersion, gsub.MinorVersion)},
			{"Scripts", fmt.Sprintf("%d", gsub.ScriptList.Len())},
			{"Features", fmt.Sprintf("%d", gsub.FeatureList.Len())},
			{"Lookups", fmt.Sprintf("%d", gsub.LookupList.Len())},
		}
	default:
		b := t.Binary()
		if len(b) > 16 {
			b = b[:16]
		}
		data = [][]string{{"First bytes", fmt.Sprintf("% x", b)}}
	}
	if len(data) > 0 {
		pterm.DefaultTable.WithData(data).Render()
	}
}

func printCMap(cmap *ot.CMapTable) {
	data := [][]string{
		{"Platform", "Encoding", "Offset", "Format", "Ranges"},
	}
	for _, rec := range cmap.Encodings {
		data = append(data, []string{
			rec.PlatformID.String(),
			ot.EncodingName(rec.PlatformID, rec.EncodingID),
			fmt.Sprintf("%d", rec.Offset),
			fmt.Sprintf("%d", rec.Subtable.Format()),
			fmt.Sprintf("%d", rec.Subtable.RangeCount()),
		})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	if st, ok := cmap.UnicodeSubtable().Unwrap(); ok {
		pterm.Printf("Unicode lookups use a format %d subtable\n", st.Format())
	}
}

func cmapOp(intp *Intp, op *Op) (error, bool) {
	if intp.font.CMap == nil {
		return errors.New("font has no decoded cmap table"), false
	}
	if op.noArg() {
		printCMap(intp.font.CMap)
		return nil, false
	}
	r, err := op.runeArg()
	if err != nil {
		return err, false
	}
	gid := otquery.GlyphIndex(intp.font, r)
	name := ""
	if intp.font.Post != nil {
		name = intp.font.Post.GlyphName(gid).Or("")
	}
	pterm.Printf("%q (U+%04X) => glyph %d %s\n", r, r, gid, name)
	return nil, false
}

func glyphOp(intp *Intp, op *Op) (error, bool) {
	gid, err := op.glyphArg(intp.font)
	if err != nil {
		return err, false
	}
	metrics := otquery.GlyphMetrics(intp.font, gid)
	outline := otquery.GlyphOutline(intp.font, gid)
	data := [][]string{
		{"Glyph", fmt.Sprintf("%d", gid)},
		{"Code point", formatRune(otquery.CodePointForGlyph(intp.font, gid))},
		{"Advance", fmt.Sprintf("%d", metrics.Advance)},
		{"Side bearings", fmt.Sprintf("%d / %d", metrics.LSB, metrics.RSB)},
		{"Bounding box", formatBBox(metrics.BBox)},
		{"Outlines", outline.Outlines},
		{"Contours", fmt.Sprintf("%d", outline.Contours)},
		{"Points", fmt.Sprintf("%d", outline.Points)},
		{"Instructions", fmt.Sprintf("%d", outline.Instructions)},
	}
	if outline.Composite {
		data = append(data, []string{"Components", fmt.Sprintf("%v", outline.Components)})
	}
	if intp.font.Post != nil {
		if name, ok := intp.font.Post.GlyphName(gid).Unwrap(); ok {
			data = append(data, []string{"Name", name})
		}
	}
	pterm.DefaultTable.WithData(data).Render()
	return nil, false
}

func printCFF(cff *ot.CFFTable) {
	top := cff.TopDict
	data := [][]string{
		{"Version", fmt.Sprintf("%d.%d", cff.Header.Major, cff.Header.Minor)},
		{"Font name", cff.FontName()},
		{"Full name", cff.String(top.FullName).Or("-")},
		{"Family name", cff.String(top.FamilyName).Or("-")},
		{"Charstring type", fmt.Sprintf("%d", top.CharstringType)},
		{"Glyphs", fmt.Sprintf("%d", cff.NumGlyphs())},
		{"Font matrix", fmt.Sprintf("%v", top.FontMatrix)},
		{"Font BBox", fmt.Sprintf("%v", top.FontBBox)},
		{"CID-keyed", fmt.Sprintf("%v", top.IsCIDFont)},
		{"Charset", charsetName(top.Charset)},
		{"Glyph 1", cff.GlyphName(1).Or("-")},
		{"Global subrs", fmt.Sprintf("%d", cff.GlobalSubrs.Len())},
		{"Local subrs", fmt.Sprintf("%d", cff.LocalSubrs.Len())},
	}
	pterm.DefaultTable.WithData(data).Render()
}

func charsetName(offset int) string {
	switch offset {
	case ot.CharsetISOAdobe:
		return "ISOAdobe"
	case ot.CharsetExpert:
		return "Expert"
	case ot.CharsetExpertSubset:
		return "ExpertSubset"
	}
	return fmt.Sprintf("custom @%d", offset)
}

func cffOp(intp *Intp, op *Op) (error, bool) {
	if intp.font.CFF == nil {
		return errors.New("font has no decoded CFF table"), false
	}
	printCFF(intp.font.CFF)
	return nil, false
}

func charstringOp(intp *Intp, op *Op) (error, bool) {
	if intp.font.CFF == nil {
		return errors.New("font has no decoded CFF table"), false
	}
	gid, err := op.glyphArg(intp.font)
	if err != nil {
		return err, false
	}
	cs, ok := intp.font.CFF.Charstring(gid).Unwrap()
	if !ok {
		return fmt.Errorf("no charstring for glyph %d", gid), false
	}
	instrs, err := cs.Disassemble()
	if err != nil {
		return err, false
	}
	if name, ok := intp.font.CFF.GlyphName(gid).Unwrap(); ok {
		pterm.Printf("glyph %d %s\n", gid, name)
	}
	data := [][]string{{"Offset", "Instruction"}}
	for _, instr := range instrs {
		data = append(data, []string{fmt.Sprintf("%d", instr.Offset), instr.String()})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	return nil, false
}

func errorsOp(intp *Intp, op *Op) (error, bool) {
	errs, warnings := intp.font.Errors(), intp.font.Warnings()
	if len(errs) == 0 && len(warnings) == 0 {
		pterm.Println("no errors or warnings")
		return nil, false
	}
	for _, err := range errs {
		pterm.Error.Println(err.Error())
	}
	for _, w := range warnings {
		pterm.Warning.Println(w.String())
	}
	return nil, false
}

func formatBBox(bbox otquery.BoundingBox) string {
	return fmt.Sprintf("(%d,%d)–(%d,%d)", bbox.MinX, bbox.MinY, bbox.MaxX, bbox.MaxY)
}

func formatRune(r rune) string {
	if r == 0 {
		return "-"
	}
	return fmt.Sprintf("U+%04X %q", r, r)
}
