package ot

import (
	"fmt"
)

// CFFIndex is the generic container structure of CFF: an array of variable-sized
// objects. Offsets are 1-based and relative to the byte preceding the object data,
// i.e. object i spans Data[Offsets[i]-1 : Offsets[i+1]-1].
// An INDEX with count 0 has neither offsets nor data.
type CFFIndex struct {
	Count   uint16
	OffSize uint8
	Offsets []uint32 // Count+1 offsets, first is 1
	Data    []byte
}

// ParseCFFIndex reads an INDEX structure at the cursor's position and advances
// the cursor past it.
func ParseCFFIndex(c *Cursor) (*CFFIndex, error) {
	inx := &CFFIndex{}
	var err error
	if inx.Count, err = c.U16(); err != nil {
		return nil, err
	}
	if inx.Count == 0 {
		return inx, nil
	}
	if inx.OffSize, err = c.U8(); err != nil {
		return nil, err
	}
	if inx.OffSize < 1 || inx.OffSize > 4 {
		return nil, errFontFormat("CFF INDEX offSize %d", inx.OffSize)
	}
	n, err := checkedMulInt(int(inx.Count)+1, int(inx.OffSize))
	if err != nil {
		return nil, err
	}
	if n > c.Remaining() {
		return nil, fmt.Errorf("CFF INDEX with %d objects: %w", inx.Count, ErrOutOfRange)
	}
	inx.Offsets = make([]uint32, int(inx.Count)+1)
	for i := range inx.Offsets {
		if inx.Offsets[i], err = c.Offset(int(inx.OffSize)); err != nil {
			return nil, err
		}
		if i == 0 && inx.Offsets[0] != 1 {
			return nil, errFontFormat("CFF INDEX first offset is %d", inx.Offsets[0])
		}
		if i > 0 && inx.Offsets[i] < inx.Offsets[i-1] {
			return nil, errFontFormat("CFF INDEX offsets not ascending at %d", i)
		}
	}
	size := inx.Offsets[inx.Count] - 1
	if uint64(size) > uint64(c.Remaining()) {
		return nil, fmt.Errorf("CFF INDEX data of %d bytes: %w", size, ErrOutOfRange)
	}
	inx.Data, _ = c.Bytes(int(size))
	return inx, nil
}

// Len returns the number of objects in the INDEX.
func (inx *CFFIndex) Len() int {
	if inx == nil {
		return 0
	}
	return int(inx.Count)
}

// Object returns the bytes of object i, or nil if i is out of range.
func (inx *CFFIndex) Object(i int) []byte {
	if inx == nil || i < 0 || i >= int(inx.Count) {
		return nil
	}
	return inx.Data[inx.Offsets[i]-1 : inx.Offsets[i+1]-1]
}

// BuildCFFIndex creates an INDEX for a list of objects, using the smallest
// possible offset size.
func BuildCFFIndex(objects [][]byte) (*CFFIndex, error) {
	if len(objects) > MaxCFFIndexCount {
		return nil, errFontFormat("CFF INDEX with %d objects", len(objects))
	}
	inx := &CFFIndex{Count: uint16(len(objects))}
	if len(objects) == 0 {
		return inx, nil
	}
	inx.Offsets = make([]uint32, 0, len(objects)+1)
	inx.Offsets = append(inx.Offsets, 1)
	for _, obj := range objects {
		inx.Data = append(inx.Data, obj...)
		inx.Offsets = append(inx.Offsets, uint32(len(inx.Data))+1)
	}
	last := inx.Offsets[len(objects)]
	switch {
	case last <= 0xff:
		inx.OffSize = 1
	case last <= 0xffff:
		inx.OffSize = 2
	case last <= 0xffffff:
		inx.OffSize = 3
	default:
		inx.OffSize = 4
	}
	return inx, nil
}

// Bytes encodes the INDEX in its binary format.
func (inx *CFFIndex) Bytes() []byte {
	b := []byte{byte(inx.Count >> 8), byte(inx.Count)}
	if inx.Count == 0 {
		return b
	}
	b = append(b, inx.OffSize)
	for _, off := range inx.Offsets {
		for shift := 8 * (int(inx.OffSize) - 1); shift >= 0; shift -= 8 {
			b = append(b, byte(off>>shift))
		}
	}
	return append(b, inx.Data...)
}
