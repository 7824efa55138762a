package main

import (
	"fmt"
	"strings"

	"github.com/npillmayer/otdecode/ot"
	"github.com/pterm/pterm"
)

// scriptsOp lists the scripts of GSUB, or selects one if an argument is given.
// Selecting a script selects its default language system as well.
func scriptsOp(intp *Intp, op *Op) (err error, stop bool) {
	var gsub *ot.GSubTable
	if gsub, err = intp.gsub(); err != nil {
		return
	}
	if tag, ok := op.hasArg(); ok {
		scr := gsub.ScriptList.Script(ot.T(tag))
		if scr == nil {
			return fmt.Errorf("script %q not found in GSUB", tag), false
		}
		intp.script, intp.langSys = scr, scr.DefaultLangSys()
		tracer().Infof("setting script: %v", scr.Tag)
		return
	}
	data := [][]string{
		{"Script", "Default LangSys", "Languages"},
	}
	for tag, scr := range gsub.ScriptList.Range() {
		langs := make([]string, 0, 8)
		for ltag := range scr.Range() {
			langs = append(langs, strings.TrimSpace(ltag.String()))
		}
		data = append(data, []string{
			tag.String(),
			fmt.Sprintf("%v", scr.DefaultLangSys() != nil),
			strings.Join(langs, " "),
		})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	return
}

// langOp selects a language system of the current script, or prints the
// current one.
func langOp(intp *Intp, op *Op) (err error, stop bool) {
	if intp.script == nil {
		return ErrNoScript, false
	}
	if tag, ok := op.hasArg(); ok {
		ls := intp.script.LangSys(ot.T(tag))
		if ls == nil {
			return fmt.Errorf("language system %q not found for script %s", tag, intp.script.Tag), false
		}
		intp.langSys = ls
		tracer().Infof("setting language system: %v", ls.Tag)
	}
	if intp.langSys == nil {
		pterm.Printf("script %s has no default language system\n", intp.script.Tag)
		return
	}
	gsub, _ := intp.gsub()
	printLangSys(gsub, intp.langSys)
	return
}

func printLangSys(gsub *ot.GSubTable, ls *ot.LangSys) {
	pterm.Printf("LangSys %s indexes %d features\n", ls.Tag, len(ls.FeatureIndices))
	data := [][]string{
		{"Index", "Feature", "Lookups", "Description"},
	}
	if req, ok := ls.RequiredFeatureIndex(); ok {
		data = append(data, featureRow(gsub.FeatureList.Feature(int(req)), "required"))
	}
	for _, inx := range ls.FeatureIndices {
		data = append(data, featureRow(gsub.FeatureList.Feature(int(inx)), ""))
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func featureRow(f *ot.Feature, note string) []string {
	if f == nil {
		return []string{"?", "-", "-", note}
	}
	desc := ot.FeatureDescription(f.Tag)
	if note != "" {
		desc = strings.TrimSpace(desc + " (" + note + ")")
	}
	return []string{
		fmt.Sprintf("%d", f.Index),
		f.Tag.String(),
		fmt.Sprintf("%v", f.LookupIndices),
		desc,
	}
}

// featuresOp lists the features of GSUB, or prints the lookups of a feature
// given by index.
func featuresOp(intp *Intp, op *Op) (err error, stop bool) {
	var gsub *ot.GSubTable
	if gsub, err = intp.gsub(); err != nil {
		return
	}
	if op.noArg() {
		data := [][]string{
			{"Index", "Feature", "Lookups", "Description"},
		}
		for _, f := range gsub.FeatureList.Range() {
			data = append(data, featureRow(f, ""))
		}
		pterm.DefaultTable.WithHasHeader().WithData(data).Render()
		return
	}
	var i int
	if i, err = op.intArg(); err != nil {
		return
	}
	f := gsub.FeatureList.Feature(i)
	if f == nil {
		return fmt.Errorf("feature index out of range: %d", i), false
	}
	printFeatureLookups(gsub, f)
	return
}

// findOp looks up a feature by tag for the current language system.
func findOp(intp *Intp, op *Op) (err error, stop bool) {
	var gsub *ot.GSubTable
	if gsub, err = intp.gsub(); err != nil {
		return
	}
	tag, ok := op.hasArg()
	if !ok {
		return fmt.Errorf("usage: find:<feature-tag>"), false
	}
	if intp.langSys == nil {
		pterm.Info.Println("no language system set, searching all features")
	}
	f, found := gsub.FindFeature(intp.langSys, ot.T(tag)).Unwrap()
	if !found {
		pterm.Printf("feature %s not found\n", ot.T(tag))
		return
	}
	printFeatureLookups(gsub, f)
	return
}

func printFeatureLookups(gsub *ot.GSubTable, f *ot.Feature) {
	pterm.Printf("Feature %d %s %s\n", f.Index, f.Tag, ot.FeatureDescription(f.Tag))
	data := [][]string{
		{"Index", "Type", "Subtables", "Flags"},
	}
	for _, inx := range f.LookupIndices {
		data = append(data, lookupRow(int(inx), gsub.LookupList.Lookup(int(inx))))
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

// lookupsOp lists the lookups of GSUB, or prints the subtables of a lookup
// given by index.
func lookupsOp(intp *Intp, op *Op) (err error, stop bool) {
	var gsub *ot.GSubTable
	if gsub, err = intp.gsub(); err != nil {
		return
	}
	ll := gsub.LookupList
	if op.noArg() {
		pterm.Printf("GSUB LookupList has %d entries\n", ll.Len())
		data := [][]string{
			{"Index", "Type", "Subtables", "Flags"},
		}
		for i, lookup := range ll.Range() {
			data = append(data, lookupRow(i, lookup))
		}
		pterm.DefaultTable.WithHasHeader().WithData(data).Render()
		return
	}
	var i int
	if i, err = op.intArg(); err != nil {
		return
	}
	if ll.Lookup(i) == nil {
		return fmt.Errorf("lookup index out of range: %d", i), false
	}
	printLookup(ll.Lookup(i), i, op.format == "full")
	return
}

func lookupRow(i int, lookup *ot.Lookup) []string {
	if lookup == nil {
		return []string{fmt.Sprintf("%d", i), "-", "-", "-"}
	}
	return []string{
		fmt.Sprintf("%d", i),
		formatLookupType(lookup.Type),
		fmt.Sprintf("%d", len(lookup.Subtables)),
		formatLookupFlags(lookup.Flag),
	}
}

func printLookup(lookup *ot.Lookup, index int, full bool) {
	pterm.Printf("Lookup %d: type=%s flags=%s subtables=%d\n",
		index,
		formatLookupType(lookup.Type),
		formatLookupFlags(lookup.Flag),
		len(lookup.Subtables),
	)
	if lookup.Flag&ot.LookupUseMarkFilteringSet != 0 {
		pterm.Printf("mark filtering set: %d\n", lookup.MarkFilteringSet)
	}
	data := [][]string{
		{"Sub", "Type", "Format", "Coverage", "Substitutions"},
	}
	for i, sub := range lookup.Subtables {
		if sub == nil {
			data = append(data, []string{fmt.Sprintf("%d", i), "not decoded", "-", "-", "-"})
			continue
		}
		data = append(data, []string{
			fmt.Sprintf("%d", i),
			formatLookupType(sub.LookupType()),
			fmt.Sprintf("%d", sub.Format()),
			formatCoverageSummary(sub.Coverage()),
			formatSubstitutions(sub, full),
		})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func formatLookupType(ltype uint16) string {
	switch ltype {
	case ot.GSubLookupTypeSingle:
		return "Single(1)"
	case ot.GSubLookupTypeMultiple:
		return "Multiple(2)"
	case ot.GSubLookupTypeAlternate:
		return "Alternate(3)"
	case ot.GSubLookupTypeLigature:
		return "Ligature(4)"
	case ot.GSubLookupTypeContext:
		return "Context(5)"
	case ot.GSubLookupTypeChainingContext:
		return "ChainingContext(6)"
	case ot.GSubLookupTypeExtensionSubs:
		return "Extension(7)"
	case ot.GSubLookupTypeReverseChaining:
		return "ReverseChaining(8)"
	}
	return fmt.Sprintf("Unknown(%d)", ltype)
}

func formatLookupFlags(flag ot.LayoutTableLookupFlag) string {
	if flag == 0 {
		return "-"
	}
	parts := make([]string, 0, 6)
	if flag&ot.LookupRightToLeft != 0 {
		parts = append(parts, "RightToLeft")
	}
	if flag&ot.LookupIgnoreBaseGlyphs != 0 {
		parts = append(parts, "IgnoreBase")
	}
	if flag&ot.LookupIgnoreLigatures != 0 {
		parts = append(parts, "IgnoreLigatures")
	}
	if flag&ot.LookupIgnoreMarks != 0 {
		parts = append(parts, "IgnoreMarks")
	}
	if flag&ot.LookupUseMarkFilteringSet != 0 {
		parts = append(parts, "UseMarkFilteringSet")
	}
	if flag&ot.LookupMarkAttachmentTypeMask != 0 {
		parts = append(parts, fmt.Sprintf("MarkAttachType=%d", flag>>8))
	}
	return strings.Join(parts, "|")
}

func formatCoverageSummary(cov ot.Coverage) string {
	switch cov.Format {
	case 1:
		return fmt.Sprintf("fmt=1 glyphs=%d", len(cov.Glyphs))
	case 2:
		return fmt.Sprintf("fmt=2 ranges=%d", len(cov.Ranges))
	}
	return "-"
}

// maxSubstitutions limits the substitutions shown per subtable, unless
// format 'full' is requested.
const maxSubstitutions = 8

// formatSubstitutions lists the substitutions of a subtable, in coverage order.
func formatSubstitutions(sub ot.LookupSubtable, full bool) string {
	var parts []string
	more := false
	add := func(s string) bool {
		if !full && len(parts) == maxSubstitutions {
			more = true
			return false
		}
		parts = append(parts, s)
		return true
	}
	switch st := sub.(type) {
	case *ot.SingleSubst:
		for _, g := range coveredGlyphs(st.Coverage()) {
			if out, ok := st.Substitute(g); ok && !add(fmt.Sprintf("%d→%d", g, out)) {
				break
			}
		}
	case *ot.LigatureSubst:
		for i, first := range coveredGlyphs(st.Coverage()) {
			if i >= len(st.LigatureSets) {
				break
			}
			for _, lig := range st.LigatureSets[i] {
				seq := append([]ot.GlyphIndex{first}, lig.Components...)
				if !add(fmt.Sprintf("%v→%d", seq, lig.Glyph)) {
					break
				}
			}
		}
	default:
		return fmt.Sprintf("%T", sub)
	}
	s := strings.Join(parts, " ")
	if more {
		s += " …"
	}
	return s
}

func coveredGlyphs(cov ot.Coverage) []ot.GlyphIndex {
	if cov.Format == 1 {
		return cov.Glyphs
	}
	var glyphs []ot.GlyphIndex
	for _, r := range cov.Ranges {
		for g := int(r.Start); g <= int(r.End); g++ {
			glyphs = append(glyphs, ot.GlyphIndex(g))
		}
	}
	return glyphs
}
