package otquery

import (
	"github.com/npillmayer/otdecode/ot"
)

// FontType returns "TrueType" for fonts with 'glyf' outlines, "CFF" for fonts
// with 'CFF ' outlines, and "unknown" otherwise.
func FontType(otf *ot.Font) string {
	switch {
	case otf == nil:
		return "unknown"
	case otf.Table(ot.T("glyf")) != nil:
		return "TrueType"
	case otf.Table(ot.T("CFF ")) != nil:
		return "CFF"
	}
	return "unknown"
}

// MaxPTableInfo is a query view over OpenType table 'maxp'. Limits other than
// NumGlyphs are available for TrueType fonts with a version 1.0 table only.
type MaxPTableInfo struct {
	NumGlyphs          int
	HasExtendedProfile bool
	MaxPoints          int
	MaxContours        int
	MaxCompositePoints int
	MaxComponentDepth  int
}

// MaxPInfo returns information from table 'maxp'.
// Returns (info, true) on success, or (zero, false) if the table is missing.
func MaxPInfo(otf *ot.Font) (MaxPTableInfo, bool) {
	var info MaxPTableInfo
	if otf == nil || otf.MaxP == nil {
		return info, false
	}
	maxp := otf.MaxP
	info.NumGlyphs = maxp.NumGlyphs
	if maxp.Version != 0x00010000 {
		return info, true
	}
	info.HasExtendedProfile = true
	info.MaxPoints = int(maxp.MaxPoints)
	info.MaxContours = int(maxp.MaxContours)
	info.MaxCompositePoints = int(maxp.MaxCompositePoints)
	info.MaxComponentDepth = int(maxp.MaxComponentDepth)
	return info, true
}

// LayoutTables returns the tags of the OpenType layout tables contained in a
// font, in the order of the table directory. Only GSUB is decoded by package ot,
// other layout tables are reported nevertheless.
func LayoutTables(otf *ot.Font) []string {
	var tables []string
	for _, tag := range otf.TableTags() {
		switch tag {
		case ot.T("GSUB"), ot.T("GPOS"), ot.T("GDEF"), ot.T("BASE"), ot.T("JSTF"):
			tables = append(tables, tag.String())
		}
	}
	return tables
}
