package ot

import "fmt"

// Font represents the decoded tables of an OpenType font.
//
// Tables are decoded once, during Parse. Typed shortcuts to the tables this
// package knows are available as fields; every table contained in the font
// (including the ones without a special decoder) is available by calling Table(tag).
type Font struct {
	Directory     *TableDirectory
	tables        map[Tag]Table
	Head          *HeadTable
	MaxP          *MaxPTable
	HHea          *HHeaTable
	HMtx          *HMtxTable
	Loca          *LocaTable
	Glyf          *GlyfTable
	CMap          *CMapTable
	Post          *PostTable
	OS2           *OS2Table
	Name          *NameTable
	Kern          *KernTable
	CFF           *CFFTable
	parseErrors   []FontError   // Errors accumulated during parsing
	parseWarnings []FontWarning // Warnings accumulated during parsing
	parseOptions  []ParseOption // Options to guide the parsing process
	Layout        struct {      // OpenType layout tables
		GSub *GSubTable // OpenType layout GSUB
	}
}

// ParseOption guides and influences the parsing of the font.
type ParseOption int

const (
	IsTestfont   ParseOption = iota // relaxes checks for required tables
	StrictTables                    // an error in any table aborts parsing
)

func (otf *Font) hasOption(opt ParseOption) bool {
	for _, o := range otf.parseOptions {
		if o == opt {
			return true
		}
	}
	return false
}

// Table returns the font table for a given tag. If a table for a tag cannot
// be found in the font, nil is returned.
//
// Tables without a dedicated decoder (or with a decoding error) are returned as
// generic tables, i.e. no table information will be dropped.
//
// For example to receive the `OS/2` and the `loca` table, clients may call
//
//	os2  := otf.Table(ot.T("OS/2"))
//	loca := otf.Table(ot.T("loca")).Self().AsLoca()
//
// Table tag names are case-sensitive, following the names in the OpenType specification.
// Tag 'CFF ' has a trailing space.
func (otf *Font) Table(tag Tag) Table {
	if otf == nil {
		return nil
	}
	if t, ok := otf.tables[tag]; ok {
		return t
	}
	return nil
}

// TableTags returns a list of tags, one for each table contained in the font,
// in the order of the table directory.
func (otf *Font) TableTags() []Tag {
	if otf == nil {
		return nil
	}
	tags := make([]Tag, 0, len(otf.tables))
	for _, tag := range otf.Directory.Tags() {
		if _, ok := otf.tables[tag]; ok {
			tags = append(tags, tag)
		}
	}
	return tags
}

// NumGlyphs returns the number of glyphs in the font, as stated by table 'maxp'.
func (otf *Font) NumGlyphs() int {
	if otf == nil || otf.MaxP == nil {
		return 0
	}
	return otf.MaxP.NumGlyphs
}

// Errors returns all errors encountered during font parsing.
// These errors represent issues that were found but did not prevent parsing from completing.
func (otf *Font) Errors() []FontError {
	if otf.parseErrors == nil {
		return []FontError{}
	}
	return otf.parseErrors
}

// Warnings returns all warnings encountered during font parsing.
func (otf *Font) Warnings() []FontWarning {
	if otf.parseWarnings == nil {
		return []FontWarning{}
	}
	return otf.parseWarnings
}

// CriticalErrors returns all errors with critical severity.
func (otf *Font) CriticalErrors() []FontError {
	critical := make([]FontError, 0)
	for _, err := range otf.parseErrors {
		if err.Severity == SeverityCritical {
			critical = append(critical, err)
		}
	}
	return critical
}

// GlyphIndex is a glyph index in a font. Glyph 0 is ".notdef".
type GlyphIndex uint16

// --- Tag -------------------------------------------------------------------

// Tag is defined by the OpenType specification as:
// Array of four uint8s (length = 32 bits) used to identify a table, design-variation axis,
// script, language system, feature, or baseline
type Tag uint32

// DFLT is the tag of the default script and of the default language system.
const DFLT = Tag(0x44464c54)

// MakeTag creates a Tag from 4 bytes, e.g.,
//
//	MakeTag([]byte("cmap"))
//
// If b is shorter or longer, it will be silently extended or cut as appropriate.
func MakeTag(b []byte) Tag {
	var t [4]byte
	copy(t[:], b)
	return Tag(u32(t[:]))
}

// T returns a Tag from a (4-letter) string.
// If t is shorter or longer, it will be silently extended with spaces or cut as appropriate.
func T(t string) Tag {
	t = (t + "    ")[:4]
	return Tag(u32([]byte(t)))
}

func (t Tag) String() string {
	return string([]byte{
		byte(t >> 24 & 0xff),
		byte(t >> 16 & 0xff),
		byte(t >> 8 & 0xff),
		byte(t & 0xff),
	})
}

// --- Table -----------------------------------------------------------------

// Table represents one of the various OpenType font tables.
type Table interface {
	Type() Tag                // the table's tag
	Entry() DirectoryEntry    // the table's record in the table directory
	Extent() (uint32, uint32) // offset and byte size within the font's binary data
	Binary() []byte           // the bytes of this table; should be treated as read-only by clients
	Self() TableSelf          // reference to itself
}

// tableBase is a common parent for all kinds of OpenType tables.
type tableBase struct {
	data  binarySegm     // a table is a slice of font data
	entry DirectoryEntry // clone of the directory record
	self  any
}

func newTableBase(e DirectoryEntry, b binarySegm) tableBase {
	return tableBase{data: b, entry: e.Clone()}
}

// genericTable is a table without a dedicated decoder.
type genericTable struct {
	tableBase
}

func newGenericTable(e DirectoryEntry, b binarySegm) *genericTable {
	t := &genericTable{tableBase: newTableBase(e, b)}
	t.self = t
	return t
}

// Type returns the tag of a table.
func (tb *tableBase) Type() Tag {
	return tb.entry.Tag
}

// Entry returns a copy of the table's directory record.
func (tb *tableBase) Entry() DirectoryEntry {
	return tb.entry.Clone()
}

// Extent returns offset and byte size of this table within the OpenType font.
func (tb *tableBase) Extent() (uint32, uint32) {
	return tb.entry.Offset, tb.entry.Length
}

// Binary returns the bytes of this table. Should be treated as read-only by
// clients, as it is a view into the original data.
func (tb *tableBase) Binary() []byte {
	return tb.data
}

// Self returns a reference to the table, for conversion to a concrete table type.
func (tb *tableBase) Self() TableSelf {
	return TableSelf{tableBase: tb}
}

func (tb *tableBase) String() string {
	return fmt.Sprintf("table %s", tb.entry)
}

// TableSelf is a reference to a table. Its primary use is for converting
// a generic table to a concrete table flavour, and for reproducing the
// name tag of a table.
type TableSelf struct {
	tableBase *tableBase
}

// NameTag returns the 4-letter name of a table.
func (tself TableSelf) NameTag() Tag {
	if tself.tableBase == nil {
		return 0
	}
	return tself.tableBase.entry.Tag
}

func asTable[T any](tself TableSelf) T {
	var zero T
	if tself.tableBase == nil || tself.tableBase.self == nil {
		return zero
	}
	if t, ok := tself.tableBase.self.(T); ok {
		return t
	}
	return zero
}

// AsHead returns this table as a head table, or nil.
func (tself TableSelf) AsHead() *HeadTable { return asTable[*HeadTable](tself) }

// AsMaxP returns this table as a maxp table, or nil.
func (tself TableSelf) AsMaxP() *MaxPTable { return asTable[*MaxPTable](tself) }

// AsHHea returns this table as a hhea table, or nil.
func (tself TableSelf) AsHHea() *HHeaTable { return asTable[*HHeaTable](tself) }

// AsHMtx returns this table as a hmtx table, or nil.
func (tself TableSelf) AsHMtx() *HMtxTable { return asTable[*HMtxTable](tself) }

// AsLoca returns this table as a loca table, or nil.
func (tself TableSelf) AsLoca() *LocaTable { return asTable[*LocaTable](tself) }

// AsGlyf returns this table as a glyf table, or nil.
func (tself TableSelf) AsGlyf() *GlyfTable { return asTable[*GlyfTable](tself) }

// AsCMap returns this table as a cmap table, or nil.
func (tself TableSelf) AsCMap() *CMapTable { return asTable[*CMapTable](tself) }

// AsPost returns this table as a post table, or nil.
func (tself TableSelf) AsPost() *PostTable { return asTable[*PostTable](tself) }

// AsOS2 returns this table as an OS/2 table, or nil.
func (tself TableSelf) AsOS2() *OS2Table { return asTable[*OS2Table](tself) }

// AsName returns this table as a name table, or nil.
func (tself TableSelf) AsName() *NameTable { return asTable[*NameTable](tself) }

// AsKern returns this table as a kern table, or nil.
func (tself TableSelf) AsKern() *KernTable { return asTable[*KernTable](tself) }

// AsCFF returns this table as a CFF table, or nil.
func (tself TableSelf) AsCFF() *CFFTable { return asTable[*CFFTable](tself) }

// AsGSub returns this table as a GSUB table, or nil.
func (tself TableSelf) AsGSub() *GSubTable { return asTable[*GSubTable](tself) }
