package otquery

import (
	"fmt"
	"time"

	"github.com/npillmayer/otdecode/ot"
	"golang.org/x/image/font/sfnt"
)

// HeadTableInfo is a query view over OpenType table 'head', with dates and
// version numbers converted to Go types.
type HeadTableInfo struct {
	Version          string
	FontRevision     float64
	UnitsPerEm       sfnt.Units
	Created          time.Time
	Modified         time.Time
	BBox             BoundingBox // union of all glyph bounding boxes
	MacStyle         uint16      // bit 0 bold, bit 1 italic
	IndexToLocFormat int16       // 0 for short offsets, 1 for long
}

// longDateTimeEpoch is the epoch of OpenType LONGDATETIME values.
var longDateTimeEpoch = time.Date(1904, time.January, 1, 0, 0, 0, 0, time.UTC)

// HeadInfo returns information from table 'head'.
// Returns (info, true) on success, or (zero, false) if the table is missing.
func HeadInfo(otf *ot.Font) (HeadTableInfo, bool) {
	var info HeadTableInfo
	if otf == nil || otf.Head == nil {
		return info, false
	}
	head := otf.Head
	info.Version = fmt.Sprintf("%d.%d", head.MajorVersion, head.MinorVersion)
	info.FontRevision = head.FontRevision.Float()
	info.UnitsPerEm = sfnt.Units(head.UnitsPerEm)
	info.Created = longDateTimeEpoch.Add(time.Duration(head.Created) * time.Second)
	info.Modified = longDateTimeEpoch.Add(time.Duration(head.Modified) * time.Second)
	info.BBox = BoundingBox{
		MinX: sfnt.Units(head.XMin),
		MinY: sfnt.Units(head.YMin),
		MaxX: sfnt.Units(head.XMax),
		MaxY: sfnt.Units(head.YMax),
	}
	info.MacStyle = head.MacStyle
	info.IndexToLocFormat = head.IndexToLocFormat
	return info, true
}
