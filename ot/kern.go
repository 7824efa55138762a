package ot

import (
	"fmt"
	"sort"
)

// KernTable holds the kerning pairs of a 'kern' table. Kerning values are exposed,
// but never applied by this package. Only format 0 sub-tables are decoded; sub-tables
// of other formats are kept with their header information only.
//
// Both the Microsoft (version 0) and the Apple (version 1.0) table headers are supported.
type KernTable struct {
	tableBase
	Apple     bool
	Subtables []KernSubtable
}

// KernSubtable is a single sub-table of 'kern'.
type KernSubtable struct {
	Format   uint8
	Coverage uint16
	Pairs    []KernPair // sorted by (Left, Right); format 0 only
}

// KernPair is a kerning value for a pair of glyphs, in font units.
type KernPair struct {
	Left, Right GlyphIndex
	Value       int16
}

// IsHorizontal reports whether the sub-table holds horizontal kerning data.
func (st KernSubtable) IsHorizontal(apple bool) bool {
	if apple {
		return st.Coverage&0x8000 == 0
	}
	return st.Coverage&0x0001 != 0
}

func parseKern(e DirectoryEntry, b binarySegm) (*KernTable, error) {
	t := &KernTable{tableBase: newTableBase(e, b)}
	t.self = t
	if len(b) <= 4 {
		return t, nil
	}
	c := NewCursor(b)
	var n int
	if version, _ := b.u32(0); version == 0x00010000 {
		tracer().Debugf("font has Apple TTF kern table format")
		t.Apple = true
		_ = c.Skip(4)
		cnt, err := c.U32()
		if err != nil {
			return nil, err
		}
		n = int(cnt)
	} else {
		tracer().Debugf("font has OTF (MS) kern table format")
		_ = c.Skip(2)
		cnt, _ := c.U16()
		n = int(cnt)
	}
	if n > MaxSubtableCount {
		return nil, errFontFormat("kern table with %d sub-tables", n)
	}
	for i := 0; i < n; i++ {
		start := c.Pos()
		var length uint32
		var st KernSubtable
		var err error
		if t.Apple {
			if length, err = c.U32(); err != nil {
				return nil, fmt.Errorf("kern sub-table %d: %w", i, err)
			}
			if st.Coverage, err = c.U16(); err != nil {
				return nil, fmt.Errorf("kern sub-table %d: %w", i, err)
			}
			st.Format = uint8(st.Coverage & 0xff)
			_ = c.Skip(2) // tuple index
		} else {
			_ = c.Skip(2) // sub-table version
			l, err := c.U16()
			if err != nil {
				return nil, fmt.Errorf("kern sub-table %d: %w", i, err)
			}
			length = uint32(l)
			if st.Coverage, err = c.U16(); err != nil {
				return nil, fmt.Errorf("kern sub-table %d: %w", i, err)
			}
			st.Format = uint8(st.Coverage >> 8)
		}
		if st.Format != 0 {
			tracer().Infof("kern sub-table format %d not supported, ignoring sub-table", st.Format)
			t.Subtables = append(t.Subtables, st)
			if err := c.Seek(start + int(length)); err != nil {
				return nil, fmt.Errorf("kern sub-table %d: %w", i, err)
			}
			continue
		}
		if st.Pairs, err = parseKernPairs(c); err != nil {
			return nil, fmt.Errorf("kern sub-table %d: %w", i, err)
		}
		// For some fonts, the length of kern sub-tables is off (it overflows 16 bits);
		// see https://github.com/fonttools/fonttools/issues/314#issuecomment-118116527
		// We rely on the number of pairs instead.
		if actual := uint32(c.Pos() - start); actual != length {
			tracer().Infof("kern sub-table size should be 0x%x, but given as 0x%x; fixing", actual, length)
		}
		t.Subtables = append(t.Subtables, st)
	}
	tracer().Debugf("table kern has %d sub-table(s)", len(t.Subtables))
	return t, nil
}

func parseKernPairs(c *Cursor) ([]KernPair, error) {
	n, err := c.U16()
	if err != nil {
		return nil, err
	}
	if err = c.Skip(6); err != nil { // search parameters
		return nil, err
	}
	if 6*int(n) > c.Remaining() {
		return nil, fmt.Errorf("%d kern pairs: %w", n, ErrOutOfRange)
	}
	pairs := make([]KernPair, n)
	for i := range pairs {
		l, _ := c.U16()
		r, _ := c.U16()
		v, _ := c.I16()
		pairs[i] = KernPair{Left: GlyphIndex(l), Right: GlyphIndex(r), Value: v}
	}
	sort.SliceStable(pairs, func(i, j int) bool {
		return pairs[i].key() < pairs[j].key()
	})
	return pairs, nil
}

func (p KernPair) key() uint32 {
	return uint32(p.Left)<<16 | uint32(p.Right)
}

// Value returns the kerning value for a pair of glyphs from the first horizontal
// format 0 sub-table which contains the pair.
func (t *KernTable) Value(left, right GlyphIndex) (int16, bool) {
	if t == nil {
		return 0, false
	}
	key := uint32(left)<<16 | uint32(right)
	for _, st := range t.Subtables {
		if st.Format != 0 || !st.IsHorizontal(t.Apple) {
			continue
		}
		i := sort.Search(len(st.Pairs), func(i int) bool { return st.Pairs[i].key() >= key })
		if i < len(st.Pairs) && st.Pairs[i].key() == key {
			return st.Pairs[i].Value, true
		}
	}
	return 0, false
}
