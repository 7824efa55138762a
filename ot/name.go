package ot

import (
	"fmt"

	"golang.org/x/image/font/sfnt"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// NameTable holds the records of table 'name', i.e. font names, copyright notices,
// and other descriptive strings, in different languages and encodings.
type NameTable struct {
	tableBase
	Format  uint16
	Records []NameRecord
}

// NameRecord is a single string of the 'name' table. Value holds the raw bytes,
// which have to be decoded according to the record's platform and encoding.
type NameRecord struct {
	PlatformID PlatformID
	EncodingID uint16
	LanguageID uint16
	NameID     sfnt.NameID // see https://pkg.go.dev/golang.org/x/image/font/sfnt#NameID
	Value      []byte
}

func parseName(e DirectoryEntry, b binarySegm) (*NameTable, error) {
	t := &NameTable{tableBase: newTableBase(e, b)}
	t.self = t
	c := NewCursor(b)
	var err error
	if t.Format, err = c.U16(); err != nil {
		return nil, err
	}
	count, err := c.U16()
	if err != nil {
		return nil, err
	}
	storage, err := c.U16()
	if err != nil {
		return nil, err
	}
	t.Records = make([]NameRecord, 0, count)
	for i := 0; i < int(count); i++ {
		rec, err := c.Bytes(12)
		if err != nil {
			return nil, fmt.Errorf("name record %d: %w", i, err)
		}
		start := int(storage) + int(u16(rec[10:]))
		value, err := b.view(start, int(u16(rec[8:])))
		if err != nil {
			return nil, fmt.Errorf("name record %d: %w", i, err)
		}
		t.Records = append(t.Records, NameRecord{
			PlatformID: PlatformID(u16(rec)),
			EncodingID: u16(rec[2:]),
			LanguageID: u16(rec[4:]),
			NameID:     sfnt.NameID(u16(rec[6:])),
			Value:      value,
		})
	}
	return t, nil
}

// Decode decodes the string value of a record. Unicode and Windows records are
// UTF-16BE, Macintosh Roman records are decoded with the Macintosh charmap.
// Other encodings are not supported.
func (r NameRecord) Decode() (string, error) {
	var enc encoding.Encoding
	switch {
	case r.PlatformID == PlatformUnicode:
		enc = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)
	case r.PlatformID == PlatformWindows && (r.EncodingID == 0 || r.EncodingID == 1 || r.EncodingID == 10):
		enc = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)
	case r.PlatformID == PlatformMacintosh && r.EncodingID == 0:
		enc = charmap.Macintosh
	default:
		return "", fmt.Errorf("name record encoding %s not supported", EncodingName(r.PlatformID, r.EncodingID))
	}
	s, err := enc.NewDecoder().Bytes(r.Value)
	if err != nil {
		return "", err
	}
	return string(s), nil
}

// Lookup returns the first decodable string for a name ID, preferring Windows
// records over Unicode and Macintosh ones.
func (t *NameTable) Lookup(id sfnt.NameID) Option[string] {
	if t == nil {
		return None[string]()
	}
	for _, platform := range []PlatformID{PlatformWindows, PlatformUnicode, PlatformMacintosh} {
		for _, r := range t.Records {
			if r.NameID != id || r.PlatformID != platform {
				continue
			}
			if s, err := r.Decode(); err == nil && s != "" {
				return Some(s)
			}
		}
	}
	return None[string]()
}
