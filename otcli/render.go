package main

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"

	"github.com/npillmayer/otdecode/ot"
	"github.com/pterm/pterm"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

// Size of rendered glyph images.
const (
	renderPPEm   = 96
	renderWidth  = 240
	renderHeight = 240
)

// renderOp renders a glyph to a PNG file, e.g. 'render:36:a.png'.
func renderOp(intp *Intp, op *Op) (error, bool) {
	gid, err := op.glyphArg(intp.font)
	if err != nil {
		return err, false
	}
	outPath := op.format
	if outPath == "" {
		outPath = fmt.Sprintf("glyph-%d.png", gid)
	}
	img, err := intp.renderGlyph(gid, renderWidth, renderHeight, renderPPEm)
	if err != nil {
		return err, false
	}
	if err := writePNG(img, outPath); err != nil {
		return err, false
	}
	pterm.Printf("glyph %d written to %s\n", gid, outPath)
	return nil, false
}

// renderGlyph draws a glyph, centered, black on white. The bounding box from
// the glyph header is drawn in red. TrueType outlines are taken from the
// decoded 'glyf' table, CFF outlines are loaded by the SFNT parser.
func (intp *Intp) renderGlyph(gid ot.GlyphIndex, width, height, ppem int) (*image.RGBA, error) {
	if intp.font.Head == nil || intp.font.Head.UnitsPerEm == 0 {
		return nil, errors.New("invalid units-per-em")
	}
	scale := float32(ppem) / float32(intp.font.Head.UnitsPerEm)
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.RGBA{255, 255, 255, 255}), image.Point{}, draw.Src)
	rast := vector.NewRasterizer(width, height)
	rast.DrawOp = draw.Over
	if g, ok := intp.font.Glyf.Glyph(gid).Unwrap(); ok {
		b := g.Bounds()
		// font units have y going up, image y grows downward
		tx := float32(width)/2 - float32(int(b.XMin)+int(b.XMax))*scale/2
		ty := float32(height)/2 + float32(int(b.YMin)+int(b.YMax))*scale/2
		tr := func(p outlinePoint) (float32, float32) {
			return tx + p.x*scale, ty - p.y*scale
		}
		for _, seg := range glyphSegments(g) {
			x0, y0 := tr(seg.pts[0])
			switch seg.op {
			case segMoveTo:
				rast.MoveTo(x0, y0)
			case segLineTo:
				rast.LineTo(x0, y0)
			case segQuadTo:
				x1, y1 := tr(seg.pts[1])
				rast.QuadTo(x0, y0, x1, y1)
			}
		}
		rast.Draw(img, img.Bounds(), image.Black, image.Point{})
		drawRectOutline(img,
			int(tx+float32(b.XMin)*scale), int(ty-float32(b.YMax)*scale),
			int(tx+float32(b.XMax)*scale)+1, int(ty-float32(b.YMin)*scale)+1,
			color.RGBA{255, 0, 0, 255})
		return img, nil
	}
	if intp.source == nil || intp.font.CFF == nil {
		return nil, fmt.Errorf("font has no outline for glyph %d", gid)
	}
	var buf sfnt.Buffer
	segs, err := intp.source.SFNT.LoadGlyph(&buf, sfnt.GlyphIndex(gid), fixed.I(ppem), nil)
	if err != nil {
		return nil, fmt.Errorf("cannot load glyph %d: %w", gid, err)
	}
	bounds := segs.Bounds()
	tx := float32(width)/2 - (float32(bounds.Min.X)+float32(bounds.Max.X))/128
	ty := float32(height)/2 - (float32(bounds.Min.Y)+float32(bounds.Max.Y))/128
	for _, seg := range segs {
		switch seg.Op {
		case sfnt.SegmentOpMoveTo:
			rast.MoveTo(tx+float32(seg.Args[0].X)/64, ty+float32(seg.Args[0].Y)/64)
		case sfnt.SegmentOpLineTo:
			rast.LineTo(tx+float32(seg.Args[0].X)/64, ty+float32(seg.Args[0].Y)/64)
		case sfnt.SegmentOpQuadTo:
			rast.QuadTo(
				tx+float32(seg.Args[0].X)/64, ty+float32(seg.Args[0].Y)/64,
				tx+float32(seg.Args[1].X)/64, ty+float32(seg.Args[1].Y)/64,
			)
		case sfnt.SegmentOpCubeTo:
			rast.CubeTo(
				tx+float32(seg.Args[0].X)/64, ty+float32(seg.Args[0].Y)/64,
				tx+float32(seg.Args[1].X)/64, ty+float32(seg.Args[1].Y)/64,
				tx+float32(seg.Args[2].X)/64, ty+float32(seg.Args[2].Y)/64,
			)
		}
	}
	rast.Draw(img, img.Bounds(), image.Black, image.Point{})
	drawRectOutline(img, bounds.Min.X.Floor()+int(tx), bounds.Min.Y.Floor()+int(ty),
		bounds.Max.X.Ceil()+int(tx), bounds.Max.Y.Ceil()+int(ty), color.RGBA{255, 0, 0, 255})
	return img, nil
}

type segmentOp int8

const (
	segMoveTo segmentOp = iota
	segLineTo
	segQuadTo // control point, end point
)

type outlinePoint struct {
	x, y float32
}

type outlineSegment struct {
	op  segmentOp
	pts []outlinePoint
}

// glyphSegments converts the contours of a TrueType glyph into path segments.
// Between two consecutive off-curve points an on-curve point is implied at
// their midpoint. A contour without on-curve points starts at the midpoint
// of its first two points.
func glyphSegments(g ot.GlyphDescription) []outlineSegment {
	var segs []outlineSegment
	start := 0
	for c := 0; c < g.ContourCount(); c++ {
		end := g.EndPtOfContours(c)
		if end < start || end >= g.PointCount() {
			break
		}
		n := end - start + 1
		pt := func(i int) (outlinePoint, bool) {
			i = start + (i % n)
			return outlinePoint{float32(g.X(i)), float32(g.Y(i))}, g.Flags(i)&ot.GlyphOnCurve != 0
		}
		first := -1
		for i := 0; i < n; i++ {
			if _, on := pt(i); on {
				first = i
				break
			}
		}
		var origin outlinePoint
		if first < 0 { // all points off curve
			p0, _ := pt(0)
			p1, _ := pt(1)
			origin = midpoint(p0, p1)
			first = 0
		} else {
			origin, _ = pt(first)
		}
		segs = append(segs, outlineSegment{op: segMoveTo, pts: []outlinePoint{origin}})
		var ctrl *outlinePoint
		for i := 1; i <= n; i++ {
			p, on := pt(first + i)
			switch {
			case on && ctrl == nil:
				segs = append(segs, outlineSegment{op: segLineTo, pts: []outlinePoint{p}})
			case on:
				segs = append(segs, outlineSegment{op: segQuadTo, pts: []outlinePoint{*ctrl, p}})
				ctrl = nil
			case ctrl != nil:
				mid := midpoint(*ctrl, p)
				segs = append(segs, outlineSegment{op: segQuadTo, pts: []outlinePoint{*ctrl, mid}})
				ctrl = &p
			default:
				ctrl = &p
			}
		}
		if ctrl != nil {
			segs = append(segs, outlineSegment{op: segQuadTo, pts: []outlinePoint{*ctrl, origin}})
		}
		start = end + 1
	}
	return segs
}

func midpoint(a, b outlinePoint) outlinePoint {
	return outlinePoint{(a.x + b.x) / 2, (a.y + b.y) / 2}
}

func drawRectOutline(img *image.RGBA, minX int, minY int, maxX int, maxY int, c color.RGBA) {
	if img == nil {
		return
	}
	if maxX < minX {
		minX, maxX = maxX, minX
	}
	if maxY < minY {
		minY, maxY = maxY, minY
	}
	b := img.Bounds()
	minX, minY = max(minX, b.Min.X), max(minY, b.Min.Y)
	maxX, maxY = min(maxX, b.Max.X), min(maxY, b.Max.Y)
	if minX >= maxX || minY >= maxY {
		return
	}
	// top and bottom
	for x := minX; x < maxX; x++ {
		img.SetRGBA(x, minY, c)
		img.SetRGBA(x, maxY-1, c)
	}
	// left and right
	for y := minY; y < maxY; y++ {
		img.SetRGBA(minX, y, c)
		img.SetRGBA(maxX-1, y, c)
	}
}

func writePNG(img image.Image, outPath string) error {
	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("cannot create output file: %w", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("cannot encode png: %w", err)
	}
	return nil
}
