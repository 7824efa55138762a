package ot

import (
	"fmt"
	"math"
)

// GlyfTable holds the decoded outlines of a font with TrueType outlines.
//
// All glyph descriptions live in a single arena, indexed by glyph index.
// Components of composite glyphs refer to other glyphs by index and are
// resolved through the arena.
type GlyfTable struct {
	tableBase
	glyphs []GlyphDescription
}

// GlyphDescription is the outline description of a single glyph, either a
// *SimpleGlyph, a *CompositeGlyph, or an *EmptyGlyph for glyphs without outline.
//
// Points and contours of composite glyphs are numbered across all components,
// in component order, and coordinates are transformed by the components' matrices.
// Index arguments out of range yield zero values.
type GlyphDescription interface {
	GlyphIndex() GlyphIndex
	IsComposite() bool
	PointCount() int
	ContourCount() int
	EndPtOfContours(contour int) int
	Flags(point int) uint8
	X(point int) int
	Y(point int) int
	Instructions() []byte
	Bounds() GlyphBounds
}

// GlyphBounds is the bounding box of a glyph, as stated in the glyph header.
type GlyphBounds struct {
	XMin, YMin, XMax, YMax int16
}

// Flags of points of simple glyphs.
const (
	GlyphOnCurve uint8 = 0x01 // point is on the curve
	glyphXShort  uint8 = 0x02 // x-coordinate is 1 byte long
	glyphYShort  uint8 = 0x04 // y-coordinate is 1 byte long
	glyphRepeat  uint8 = 0x08 // next byte is a repeat count for this flag
	glyphXSame   uint8 = 0x10 // x is same as previous, or sign bit of short x
	glyphYSame   uint8 = 0x20 // y is same as previous, or sign bit of short y
	GlyphOverlap uint8 = 0x40 // contours may overlap
)

// Flags of components of composite glyphs.
const (
	Arg1And2AreWords   uint16 = 0x0001
	ArgsAreXYValues    uint16 = 0x0002
	RoundXYToGrid      uint16 = 0x0004
	WeHaveAScale       uint16 = 0x0008
	MoreComponents     uint16 = 0x0020
	WeHaveAnXAndYScale uint16 = 0x0040
	WeHaveATwoByTwo    uint16 = 0x0080
	WeHaveInstructions uint16 = 0x0100
	UseMyMetrics       uint16 = 0x0200
	OverlapCompound    uint16 = 0x0400
)

func parseGlyf(e DirectoryEntry, b binarySegm, loca *LocaTable, numGlyphs int) (*GlyfTable, error) {
	if numGlyphs > MaxGlyphCount {
		return nil, errFontFormat("glyf table for %d glyphs", numGlyphs)
	}
	if loca.NumGlyphs() < numGlyphs {
		return nil, errFontFormat("loca table has %d locations for %d glyphs", loca.NumGlyphs(), numGlyphs)
	}
	t := &GlyfTable{tableBase: newTableBase(e, b)}
	t.self = t
	t.glyphs = make([]GlyphDescription, numGlyphs)
	var composites []*CompositeGlyph
	for i := range t.glyphs {
		gid := GlyphIndex(i)
		offset, size := loca.IndexToLocation(gid)
		if size == 0 {
			t.glyphs[i] = &EmptyGlyph{gid: gid}
			continue
		}
		data, err := b.view(int(offset), int(size))
		if err != nil {
			return nil, fmt.Errorf("glyph %d: %w", gid, err)
		}
		g, err := parseGlyph(gid, data)
		if err != nil {
			return nil, fmt.Errorf("glyph %d: %w", gid, err)
		}
		if cg, ok := g.(*CompositeGlyph); ok {
			cg.table = t
			composites = append(composites, cg)
		}
		t.glyphs[i] = g
	}
	// Simple glyphs are complete now; composite glyphs need their components'
	// point and contour counts.
	r := glyphResolver{table: t, state: make(map[GlyphIndex]resolveState, len(composites))}
	for _, cg := range composites {
		if err := r.resolve(cg, 0); err != nil {
			return nil, err
		}
	}
	tracer().Debugf("glyf: %d glyphs, %d composite", numGlyphs, len(composites))
	return t, nil
}

// Glyph returns the description of a glyph.
func (t *GlyfTable) Glyph(gid GlyphIndex) Option[GlyphDescription] {
	if t == nil || int(gid) >= len(t.glyphs) {
		return None[GlyphDescription]()
	}
	return Some(t.glyphs[gid])
}

// NumGlyphs returns the number of glyphs in the table.
func (t *GlyfTable) NumGlyphs() int {
	if t == nil {
		return 0
	}
	return len(t.glyphs)
}

func parseGlyph(gid GlyphIndex, b binarySegm) (GlyphDescription, error) {
	c := NewCursor(b)
	n, err := c.I16()
	if err != nil {
		return nil, err
	}
	var bounds GlyphBounds
	for _, p := range []*int16{&bounds.XMin, &bounds.YMin, &bounds.XMax, &bounds.YMax} {
		if *p, err = c.I16(); err != nil {
			return nil, err
		}
	}
	if n >= 0 {
		return parseSimpleGlyph(gid, bounds, int(n), c)
	}
	return parseCompositeGlyph(gid, bounds, c)
}

// --- Empty glyphs ----------------------------------------------------------

// EmptyGlyph is a glyph without outline, e.g. a space.
type EmptyGlyph struct {
	gid GlyphIndex
}

func (g *EmptyGlyph) GlyphIndex() GlyphIndex  { return g.gid }
func (g *EmptyGlyph) IsComposite() bool       { return false }
func (g *EmptyGlyph) PointCount() int         { return 0 }
func (g *EmptyGlyph) ContourCount() int       { return 0 }
func (g *EmptyGlyph) EndPtOfContours(int) int { return 0 }
func (g *EmptyGlyph) Flags(int) uint8         { return 0 }
func (g *EmptyGlyph) X(int) int               { return 0 }
func (g *EmptyGlyph) Y(int) int               { return 0 }
func (g *EmptyGlyph) Instructions() []byte    { return nil }
func (g *EmptyGlyph) Bounds() GlyphBounds     { return GlyphBounds{} }

// --- Simple glyphs ---------------------------------------------------------

// SimpleGlyph is a glyph with its own contours.
type SimpleGlyph struct {
	gid          GlyphIndex
	bounds       GlyphBounds
	EndPts       []uint16 // last point of each contour
	PointFlags   []uint8
	XCoordinates []int16 // absolute
	YCoordinates []int16 // absolute
	instructions []byte  // TrueType hinting instructions, not interpreted
}

func parseSimpleGlyph(gid GlyphIndex, bounds GlyphBounds, contours int, c *Cursor) (*SimpleGlyph, error) {
	g := &SimpleGlyph{gid: gid, bounds: bounds}
	g.EndPts = make([]uint16, contours)
	var err error
	for i := range g.EndPts {
		if g.EndPts[i], err = c.U16(); err != nil {
			return nil, err
		}
		if i > 0 && g.EndPts[i] < g.EndPts[i-1] {
			return nil, errFontFormat("contour end points decreasing")
		}
	}
	points := 0
	if contours > 0 {
		points = int(g.EndPts[contours-1]) + 1
	}
	l, err := c.U16()
	if err != nil {
		return nil, err
	}
	if g.instructions, err = c.Bytes(int(l)); err != nil {
		return nil, fmt.Errorf("instructions: %w", err)
	}
	if g.PointFlags, err = decodeGlyphFlags(c, points); err != nil {
		return nil, err
	}
	if g.XCoordinates, err = decodeGlyphCoordinates(c, g.PointFlags, glyphXShort, glyphXSame); err != nil {
		return nil, fmt.Errorf("x-coordinates: %w", err)
	}
	if g.YCoordinates, err = decodeGlyphCoordinates(c, g.PointFlags, glyphYShort, glyphYSame); err != nil {
		return nil, fmt.Errorf("y-coordinates: %w", err)
	}
	return g, nil
}

// decodeGlyphFlags reads run-length encoded point flags. A flag with the repeat bit
// set is followed by a count of additional repetitions of the same flag.
func decodeGlyphFlags(c *Cursor, points int) ([]uint8, error) {
	flags := make([]uint8, 0, points)
	for len(flags) < points {
		f, err := c.U8()
		if err != nil {
			return nil, fmt.Errorf("flags: %w", err)
		}
		flags = append(flags, f)
		if f&glyphRepeat == 0 {
			continue
		}
		r, err := c.U8()
		if err != nil {
			return nil, fmt.Errorf("flags: %w", err)
		}
		if len(flags)+int(r) > points {
			return nil, errFontFormat("flag repeat count %d exceeds %d points", r, points)
		}
		for ; r > 0; r-- {
			flags = append(flags, f)
		}
	}
	return flags, nil
}

// decodeGlyphCoordinates reads coordinate deltas and accumulates them to absolute values.
// Either short is set and same is the sign (set = positive), or short is unset and
// same means "unchanged" (no bytes); else a signed 16-bit delta follows.
func decodeGlyphCoordinates(c *Cursor, flags []uint8, short, same uint8) ([]int16, error) {
	coords := make([]int16, len(flags))
	var v int16
	for i, f := range flags {
		switch {
		case f&short != 0:
			d, err := c.U8()
			if err != nil {
				return nil, err
			}
			if f&same != 0 {
				v += int16(d)
			} else {
				v -= int16(d)
			}
		case f&same == 0:
			d, err := c.I16()
			if err != nil {
				return nil, err
			}
			v += d
		}
		coords[i] = v
	}
	return coords, nil
}

func (g *SimpleGlyph) GlyphIndex() GlyphIndex { return g.gid }
func (g *SimpleGlyph) IsComposite() bool      { return false }
func (g *SimpleGlyph) PointCount() int        { return len(g.PointFlags) }
func (g *SimpleGlyph) ContourCount() int      { return len(g.EndPts) }
func (g *SimpleGlyph) Instructions() []byte   { return g.instructions }
func (g *SimpleGlyph) Bounds() GlyphBounds    { return g.bounds }

func (g *SimpleGlyph) EndPtOfContours(contour int) int {
	if contour < 0 || contour >= len(g.EndPts) {
		return 0
	}
	return int(g.EndPts[contour])
}

func (g *SimpleGlyph) Flags(point int) uint8 {
	if point < 0 || point >= len(g.PointFlags) {
		return 0
	}
	return g.PointFlags[point]
}

func (g *SimpleGlyph) X(point int) int {
	if point < 0 || point >= len(g.XCoordinates) {
		return 0
	}
	return int(g.XCoordinates[point])
}

func (g *SimpleGlyph) Y(point int) int {
	if point < 0 || point >= len(g.YCoordinates) {
		return 0
	}
	return int(g.YCoordinates[point])
}

// --- Composite glyphs ------------------------------------------------------

// CompositeGlyph is a glyph composed of transformed references to other glyphs.
type CompositeGlyph struct {
	gid          GlyphIndex
	bounds       GlyphBounds
	Components   []CompositeComponent
	instructions []byte
	table        *GlyfTable // arena for resolving components
	points       int
	contours     int
}

// CompositeComponent is a reference to another glyph within a composite glyph,
// together with its transformation. If flag ArgsAreXYValues is set, Arg1 and Arg2
// are the x/y offsets, otherwise they are point numbers to be matched (the parent's
// point Arg1 is aligned with the child's point Arg2).
//
// Transformed coordinates are
//
//	x' = x*XScale + y*Scale10 + XTranslate
//	y' = x*Scale01 + y*YScale + YTranslate
type CompositeComponent struct {
	Flags        uint16
	GlyphIndex   GlyphIndex
	Arg1, Arg2   int
	XScale       float64
	Scale01      float64
	Scale10      float64
	YScale       float64
	XTranslate   float64
	YTranslate   float64
	FirstIndex   int // index of the component's first point within the composite
	FirstContour int // index of the component's first contour within the composite
}

func parseCompositeGlyph(gid GlyphIndex, bounds GlyphBounds, c *Cursor) (*CompositeGlyph, error) {
	g := &CompositeGlyph{gid: gid, bounds: bounds}
	flags := MoreComponents
	for flags&MoreComponents != 0 {
		var err error
		if flags, err = c.U16(); err != nil {
			return nil, fmt.Errorf("component %d: %w", len(g.Components), err)
		}
		cgid, err := c.U16()
		if err != nil {
			return nil, fmt.Errorf("component %d: %w", len(g.Components), err)
		}
		comp := CompositeComponent{Flags: flags, GlyphIndex: GlyphIndex(cgid), XScale: 1, YScale: 1}
		if comp.Arg1, comp.Arg2, err = readComponentArgs(c, flags); err != nil {
			return nil, fmt.Errorf("component %d: %w", len(g.Components), err)
		}
		if flags&ArgsAreXYValues != 0 {
			comp.XTranslate, comp.YTranslate = float64(comp.Arg1), float64(comp.Arg2)
		}
		if err = readComponentScale(c, &comp); err != nil {
			return nil, fmt.Errorf("component %d: %w", len(g.Components), err)
		}
		g.Components = append(g.Components, comp)
		if len(g.Components) > MaxGlyphCount {
			return nil, errFontFormat("too many components")
		}
	}
	if flags&WeHaveInstructions != 0 {
		l, err := c.U16()
		if err != nil {
			return nil, fmt.Errorf("instructions: %w", err)
		}
		if g.instructions, err = c.Bytes(int(l)); err != nil {
			return nil, fmt.Errorf("instructions: %w", err)
		}
	}
	return g, nil
}

func readComponentArgs(c *Cursor, flags uint16) (int, int, error) {
	var a1, a2 int
	switch {
	case flags&Arg1And2AreWords != 0 && flags&ArgsAreXYValues != 0:
		x, err := c.I16()
		if err != nil {
			return 0, 0, err
		}
		y, err := c.I16()
		a1, a2 = int(x), int(y)
		return a1, a2, err
	case flags&Arg1And2AreWords != 0:
		p1, err := c.U16()
		if err != nil {
			return 0, 0, err
		}
		p2, err := c.U16()
		return int(p1), int(p2), err
	case flags&ArgsAreXYValues != 0:
		x, err := c.I8()
		if err != nil {
			return 0, 0, err
		}
		y, err := c.I8()
		return int(x), int(y), err
	}
	p1, err := c.U8()
	if err != nil {
		return 0, 0, err
	}
	p2, err := c.U8()
	return int(p1), int(p2), err
}

func readComponentScale(c *Cursor, comp *CompositeComponent) error {
	var n int
	switch {
	case comp.Flags&WeHaveAScale != 0:
		n = 1
	case comp.Flags&WeHaveAnXAndYScale != 0:
		n = 2
	case comp.Flags&WeHaveATwoByTwo != 0:
		n = 4
	default:
		return nil
	}
	var v [4]float64
	for i := 0; i < n; i++ {
		f, err := c.F2Dot14()
		if err != nil {
			return err
		}
		v[i] = f.Float()
	}
	switch n {
	case 1:
		comp.XScale, comp.YScale = v[0], v[0]
	case 2:
		comp.XScale, comp.YScale = v[0], v[1]
	case 4:
		comp.XScale, comp.Scale01, comp.Scale10, comp.YScale = v[0], v[1], v[2], v[3]
	}
	return nil
}

func (g *CompositeGlyph) GlyphIndex() GlyphIndex { return g.gid }
func (g *CompositeGlyph) IsComposite() bool      { return true }
func (g *CompositeGlyph) PointCount() int        { return g.points }
func (g *CompositeGlyph) ContourCount() int      { return g.contours }
func (g *CompositeGlyph) Instructions() []byte   { return g.instructions }
func (g *CompositeGlyph) Bounds() GlyphBounds    { return g.bounds }

// componentForPoint finds the component owning a point of the composite.
func (g *CompositeGlyph) componentForPoint(point int) (*CompositeComponent, GlyphDescription) {
	if point < 0 || point >= g.points {
		return nil, nil
	}
	for i := len(g.Components) - 1; i >= 0; i-- {
		comp := &g.Components[i]
		if comp.FirstIndex <= point {
			return comp, g.table.glyphs[comp.GlyphIndex]
		}
	}
	return nil, nil
}

func (g *CompositeGlyph) EndPtOfContours(contour int) int {
	if contour < 0 || contour >= g.contours {
		return 0
	}
	for i := len(g.Components) - 1; i >= 0; i-- {
		comp := &g.Components[i]
		if comp.FirstContour <= contour {
			child := g.table.glyphs[comp.GlyphIndex]
			return comp.FirstIndex + child.EndPtOfContours(contour-comp.FirstContour)
		}
	}
	return 0
}

func (g *CompositeGlyph) Flags(point int) uint8 {
	comp, child := g.componentForPoint(point)
	if comp == nil {
		return 0
	}
	return child.Flags(point - comp.FirstIndex)
}

// Point returns the transformed coordinates of a point.
func (g *CompositeGlyph) Point(point int) (int, int) {
	comp, child := g.componentForPoint(point)
	if comp == nil {
		return 0, 0
	}
	x, y := comp.transform(child.X(point-comp.FirstIndex), child.Y(point-comp.FirstIndex))
	return int(math.Round(x)), int(math.Round(y))
}

func (g *CompositeGlyph) X(point int) int {
	x, _ := g.Point(point)
	return x
}

func (g *CompositeGlyph) Y(point int) int {
	_, y := g.Point(point)
	return y
}

func (comp *CompositeComponent) transform(x, y int) (float64, float64) {
	fx, fy := float64(x), float64(y)
	return fx*comp.XScale + fy*comp.Scale10 + comp.XTranslate,
		fx*comp.Scale01 + fy*comp.YScale + comp.YTranslate
}

// --- Resolving composites --------------------------------------------------

type resolveState int8

const (
	unresolved resolveState = iota
	resolving
	resolved
)

// glyphResolver computes point and contour counts of composite glyphs.
// Composites may reference other composites; references are followed
// depth-first and cycles are reported as structural errors.
type glyphResolver struct {
	table *GlyfTable
	state map[GlyphIndex]resolveState
}

func (r glyphResolver) resolve(g *CompositeGlyph, depth int) error {
	switch r.state[g.gid] {
	case resolved:
		return nil
	case resolving:
		return errFontFormat("composite glyph %d references itself", g.gid)
	}
	if depth > MaxCompositeDepth {
		return errFontFormat("composite glyph %d nested too deeply", g.gid)
	}
	r.state[g.gid] = resolving
	points, contours := 0, 0
	for i := range g.Components {
		comp := &g.Components[i]
		if int(comp.GlyphIndex) >= len(r.table.glyphs) {
			return errFontFormat("composite glyph %d references glyph %d, out of range", g.gid, comp.GlyphIndex)
		}
		child := r.table.glyphs[comp.GlyphIndex]
		if cg, ok := child.(*CompositeGlyph); ok {
			if err := r.resolve(cg, depth+1); err != nil {
				return err
			}
		}
		comp.FirstIndex, comp.FirstContour = points, contours
		if comp.Flags&ArgsAreXYValues == 0 {
			// point matching: align parent point Arg1 with child point Arg2
			if comp.Arg1 >= points || comp.Arg2 >= child.PointCount() {
				return errFontFormat("composite glyph %d: point numbers %d/%d out of range",
					g.gid, comp.Arg1, comp.Arg2)
			}
			g.points = points // make previous components visible to Point()
			px, py := g.Point(comp.Arg1)
			cx, cy := comp.transform(child.X(comp.Arg2), child.Y(comp.Arg2))
			comp.XTranslate, comp.YTranslate = float64(px)-cx, float64(py)-cy
		}
		points += child.PointCount()
		contours += child.ContourCount()
	}
	g.points, g.contours = points, contours
	r.state[g.gid] = resolved
	return nil
}
