package ot

import (
	"fmt"
)

// Font types, as found in the first 4 bytes of a font file.
const (
	fontTypeTrueType   uint32 = 0x00010000
	fontTypeCFF        uint32 = 0x4f54544f // OTTO
	fontTypeAppleTrue  uint32 = 0x74727565 // true
	fontTypeCollection uint32 = 0x74746366 // ttcf
)

const (
	offsetTableSize    = 12
	directoryEntrySize = 16
)

// OffsetTable is the header of a table directory. If the font file contains only
// one font, the offset table will begin at byte 0 of the file.
// For font collections, the beginning of the offset table of each font is
// indicated in the TTC header (see CollectionOffsets).
//
// OpenType fonts that contain TrueType outlines should use the value of 0x00010000
// for SFNTVersion. OpenType fonts containing CFF data should use 'OTTO'.
type OffsetTable struct {
	SFNTVersion   uint32
	NumTables     uint16
	SearchRange   uint16
	EntrySelector uint16
	RangeShift    uint16
}

// HasCFFOutlines is true for fonts of type 'OTTO'.
func (ot OffsetTable) HasCFFOutlines() bool {
	return ot.SFNTVersion == fontTypeCFF
}

// DirectoryEntry locates a single table within a font file.
type DirectoryEntry struct {
	Tag      Tag
	Checksum uint32
	Offset   uint32 // from the beginning of the font file
	Length   uint32 // unpadded length of the table
}

// Clone returns a copy of e. Tables hold clones of their directory entries.
func (e DirectoryEntry) Clone() DirectoryEntry {
	return e
}

func (e DirectoryEntry) String() string {
	return fmt.Sprintf("%s @%d [%d bytes] checksum=%08x", e.Tag, e.Offset, e.Length, e.Checksum)
}

// TableDirectory is the ordered list of table records of a font.
type TableDirectory struct {
	OffsetTable
	Entries []DirectoryEntry
}

// ReadTableDirectory reads the offset table and the table records of a font,
// starting at byte position offset within the font file.
func ReadTableDirectory(font []byte, offset uint32) (*TableDirectory, error) {
	c := NewCursor(font)
	if err := c.Seek(int(offset)); err != nil {
		return nil, err
	}
	dir := &TableDirectory{}
	var err error
	if dir.SFNTVersion, err = c.U32(); err != nil {
		return nil, err
	}
	switch dir.SFNTVersion {
	case fontTypeTrueType, fontTypeCFF, fontTypeAppleTrue:
	default:
		return nil, errFontFormat("font type not supported: %x", dir.SFNTVersion)
	}
	if dir.NumTables, err = c.U16(); err != nil {
		return nil, err
	}
	if dir.NumTables > MaxTableCount {
		return nil, errFontFormat("table count %d too large", dir.NumTables)
	}
	for _, p := range []*uint16{&dir.SearchRange, &dir.EntrySelector, &dir.RangeShift} {
		if *p, err = c.U16(); err != nil {
			return nil, err
		}
	}
	tracer().Debugf("offset table: type=%s, %d tables", Tag(dir.SFNTVersion), dir.NumTables)
	dir.Entries = make([]DirectoryEntry, dir.NumTables)
	for i := range dir.Entries {
		b, err := c.Bytes(directoryEntrySize)
		if err != nil {
			return nil, fmt.Errorf("table record %d: %w", i, err)
		}
		dir.Entries[i] = DirectoryEntry{
			Tag:      Tag(u32(b)),
			Checksum: u32(b[4:]),
			Offset:   u32(b[8:]),
			Length:   u32(b[12:]),
		}
	}
	return dir, nil
}

// EntryByTag finds the directory entry for a table. Table counts are small,
// so this is a linear scan.
func (dir *TableDirectory) EntryByTag(tag Tag) Option[DirectoryEntry] {
	if dir == nil {
		return None[DirectoryEntry]()
	}
	for _, e := range dir.Entries {
		if e.Tag == tag {
			return Some(e.Clone())
		}
	}
	return None[DirectoryEntry]()
}

// Tags returns the tags of all tables, in directory order.
func (dir *TableDirectory) Tags() []Tag {
	if dir == nil {
		return nil
	}
	tags := make([]Tag, len(dir.Entries))
	for i, e := range dir.Entries {
		tags[i] = e.Tag
	}
	return tags
}

// tableBytes returns the bytes of the table located by e, checking the
// entry against the font's size.
func (e DirectoryEntry) tableBytes(font []byte) (binarySegm, error) {
	end, err := checkedAddUint32(e.Offset, e.Length)
	if err != nil {
		return nil, err
	}
	if end > uint32(len(font)) {
		return nil, errFontFormat("table %s: bounds [%d:%d] exceed font size %d", e.Tag, e.Offset, end, len(font))
	}
	return binarySegm(font[e.Offset:end]), nil
}

// --- Font collections ------------------------------------------------------

// IsCollection reports whether font starts with a TTC header.
func IsCollection(font []byte) bool {
	return len(font) >= 4 && u32(font) == fontTypeCollection
}

// CollectionOffsets returns the offsets of the table directories of all fonts
// within a font collection file (*.ttc).
func CollectionOffsets(font []byte) ([]uint32, error) {
	c := NewCursor(font)
	tag, err := c.U32()
	if err != nil {
		return nil, err
	}
	if tag != fontTypeCollection {
		return nil, errFontFormat("not a font collection: %s", Tag(tag))
	}
	if err = c.Skip(4); err != nil { // major and minor version
		return nil, err
	}
	n, err := c.U32()
	if err != nil {
		return nil, err
	}
	if n == 0 || n > MaxTableCount {
		return nil, errFontFormat("font collection with %d fonts", n)
	}
	offsets := make([]uint32, n)
	for i := range offsets {
		if offsets[i], err = c.U32(); err != nil {
			return nil, err
		}
	}
	return offsets, nil
}
