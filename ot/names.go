package ot

import "fmt"

// PlatformID identifies the platform of a cmap encoding record or of a name record.
type PlatformID uint16

// Platform IDs
const (
	PlatformUnicode   PlatformID = 0
	PlatformMacintosh PlatformID = 1
	PlatformISO       PlatformID = 2 // deprecated
	PlatformWindows   PlatformID = 3
	PlatformCustom    PlatformID = 4
)

var platformNames = map[PlatformID]string{
	PlatformUnicode:   "Unicode",
	PlatformMacintosh: "Macintosh",
	PlatformISO:       "ISO",
	PlatformWindows:   "Windows",
	PlatformCustom:    "Custom",
}

func (p PlatformID) String() string {
	if name, ok := platformNames[p]; ok {
		return name
	}
	return fmt.Sprintf("Platform(%d)", uint16(p))
}

type platformEncoding struct {
	platform PlatformID
	encoding uint16
}

var encodingNames = map[platformEncoding]string{
	{PlatformUnicode, 0}:    "Unicode 1.0",
	{PlatformUnicode, 1}:    "Unicode 1.1",
	{PlatformUnicode, 2}:    "ISO/IEC 10646",
	{PlatformUnicode, 3}:    "Unicode BMP",
	{PlatformUnicode, 4}:    "Unicode full",
	{PlatformUnicode, 5}:    "Unicode variation sequences",
	{PlatformUnicode, 6}:    "Unicode full (format 13)",
	{PlatformMacintosh, 0}:  "Roman",
	{PlatformMacintosh, 1}:  "Japanese",
	{PlatformMacintosh, 2}:  "Chinese (Traditional)",
	{PlatformMacintosh, 3}:  "Korean",
	{PlatformMacintosh, 4}:  "Arabic",
	{PlatformMacintosh, 5}:  "Hebrew",
	{PlatformMacintosh, 6}:  "Greek",
	{PlatformMacintosh, 7}:  "Russian",
	{PlatformWindows, 0}:    "Symbol",
	{PlatformWindows, 1}:    "Unicode BMP",
	{PlatformWindows, 2}:    "ShiftJIS",
	{PlatformWindows, 3}:    "PRC",
	{PlatformWindows, 4}:    "Big5",
	{PlatformWindows, 5}:    "Wansung",
	{PlatformWindows, 6}:    "Johab",
	{PlatformWindows, 10}:   "Unicode full",
	{PlatformISO, 0}:        "7-bit ASCII",
	{PlatformISO, 1}:        "ISO 10646",
	{PlatformISO, 2}:        "ISO 8859-1",
}

// EncodingName returns a human readable name for a platform-specific encoding ID.
func EncodingName(platform PlatformID, encoding uint16) string {
	if name, ok := encodingNames[platformEncoding{platform, encoding}]; ok {
		return platform.String() + "/" + name
	}
	return fmt.Sprintf("%s/%d", platform, encoding)
}

var tableDescriptions = map[Tag]string{
	T("BASE"): "Baseline data",
	T("CFF "): "Compact Font Format 1.0",
	T("CFF2"): "Compact Font Format 2.0",
	T("cmap"): "Character to glyph mapping",
	T("cvt "): "Control Value Table",
	T("fpgm"): "Font program",
	T("gasp"): "Grid-fitting/Scan-conversion",
	T("GDEF"): "Glyph definition data",
	T("glyf"): "Glyph data",
	T("GPOS"): "Glyph positioning data",
	T("GSUB"): "Glyph substitution data",
	T("head"): "Font header",
	T("hhea"): "Horizontal header",
	T("hmtx"): "Horizontal metrics",
	T("JSTF"): "Justification data",
	T("kern"): "Kerning",
	T("loca"): "Index to location",
	T("MATH"): "Math layout data",
	T("maxp"): "Maximum profile",
	T("name"): "Naming table",
	T("OS/2"): "OS/2 and Windows specific metrics",
	T("post"): "PostScript information",
	T("prep"): "CVT Program",
	T("VORG"): "Vertical Origin",
}

// TableDescription returns a short description for well-known table tags.
func TableDescription(tag Tag) string {
	if d, ok := tableDescriptions[tag]; ok {
		return d
	}
	return ""
}

var featureDescriptions = map[Tag]string{
	T("aalt"): "Access All Alternates",
	T("calt"): "Contextual Alternates",
	T("ccmp"): "Glyph Composition/Decomposition",
	T("clig"): "Contextual Ligatures",
	T("dlig"): "Discretionary Ligatures",
	T("frac"): "Fractions",
	T("hlig"): "Historical Ligatures",
	T("init"): "Initial Forms",
	T("isol"): "Isolated Forms",
	T("fina"): "Terminal Forms",
	T("medi"): "Medial Forms",
	T("liga"): "Standard Ligatures",
	T("locl"): "Localized Forms",
	T("lnum"): "Lining Figures",
	T("onum"): "Oldstyle Figures",
	T("pnum"): "Proportional Figures",
	T("rlig"): "Required Ligatures",
	T("smcp"): "Small Capitals",
	T("c2sc"): "Small Capitals From Capitals",
	T("ss01"): "Stylistic Set 1",
	T("salt"): "Stylistic Alternates",
	T("sups"): "Superscript",
	T("subs"): "Subscript",
	T("tnum"): "Tabular Figures",
	T("zero"): "Slashed Zero",
}

// FeatureDescription returns the friendly name of a registered layout feature tag.
func FeatureDescription(tag Tag) string {
	if d, ok := featureDescriptions[tag]; ok {
		return d
	}
	return ""
}
