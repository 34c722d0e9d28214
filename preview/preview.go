// Package preview renders a level's geometry to a top-down image in the
// style of the in-game automap: one-sided lines bright, two-sided lines
// dim, things as direction ticks. Images render supersampled and are
// scaled down for output.
package preview

import (
	"image"
	"image/color"
	"math"
	"os"

	"github.com/HugoSmits86/nativewebp"
	"golang.org/x/exp/constraints"
	xdraw "golang.org/x/image/draw"

	wad "github.com/stuarthighley/wadforge"
)

const (
	maxEdge     = 1024 // longest edge of the output image
	margin      = 16   // map units of padding around the geometry
	superSample = 2
	thingTick   = 12 // map units of direction tick per thing
)

var (
	background = color.RGBA{0x10, 0x10, 0x10, 0xff}
	wallColor  = color.RGBA{0xff, 0xff, 0xff, 0xff}
	passColor  = color.RGBA{0x80, 0x80, 0x80, 0xff}
	thingColor = color.RGBA{0xd0, 0xb0, 0x30, 0xff}
)

// Render draws the level to an RGBA image. Dangling references are
// skipped rather than failed: a preview of broken geometry is still
// useful while debugging a script.
func Render(l *wad.Level) *image.RGBA {
	minX, minY, maxX, maxY := bounds(l)
	spanX, spanY := maxX-minX, maxY-minY
	scale := float64(maxEdge*superSample) / float64(max(spanX, spanY, 1))

	width := int(float64(spanX)*scale) + 2*superSample
	height := int(float64(spanY)*scale) + 2*superSample
	img := image.NewRGBA(image.Rect(0, 0, max(width, superSample), max(height, superSample)))
	xdraw.Draw(img, img.Bounds(), image.NewUniform(background), image.Point{}, xdraw.Src)

	// Map coordinates grow north; image rows grow down.
	toImg := func(x, y int) (int, int) {
		return int(float64(x-minX)*scale) + superSample,
			height - int(float64(y-minY)*scale) - superSample
	}

	for _, line := range l.Lines {
		if line.V1 < 1 || line.V1 > len(l.Vertexes) || line.V2 < 1 || line.V2 > len(l.Vertexes) {
			continue
		}
		v1, v2 := l.Vertexes[line.V1-1], l.Vertexes[line.V2-1]
		c := wallColor
		if line.TwoSided() {
			c = passColor
		}
		x0, y0 := toImg(v1.X, v1.Y)
		x1, y1 := toImg(v2.X, v2.Y)
		drawLine(img, x0, y0, x1, y1, c)
	}

	for _, t := range l.Things {
		angle := degreesToRadians(t.Angle)
		x0, y0 := toImg(t.X, t.Y)
		x1, y1 := toImg(t.X+int(thingTick*math.Cos(angle)), t.Y+int(thingTick*math.Sin(angle)))
		drawLine(img, x0, y0, x1, y1, thingColor)
	}

	// Downsample to the output size.
	out := image.NewRGBA(image.Rect(0, 0, img.Bounds().Dx()/superSample, img.Bounds().Dy()/superSample))
	xdraw.ApproxBiLinear.Scale(out, out.Bounds(), img, img.Bounds(), xdraw.Src, nil)
	return out
}

// Save renders the level and writes it as a WebP file.
func Save(path string, l *wad.Level) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return nativewebp.Encode(f, Render(l), nil)
}

func bounds(l *wad.Level) (minX, minY, maxX, maxY int) {
	minX, minY = math.MaxInt, math.MaxInt
	maxX, maxY = math.MinInt, math.MinInt
	for _, v := range l.Vertexes {
		minX, maxX = min(minX, v.X), max(maxX, v.X)
		minY, maxY = min(minY, v.Y), max(maxY, v.Y)
	}
	for _, t := range l.Things {
		minX, maxX = min(minX, t.X), max(maxX, t.X)
		minY, maxY = min(minY, t.Y), max(maxY, t.Y)
	}
	if minX > maxX { // no geometry at all
		return 0, 0, 0, 0
	}
	return minX - margin, minY - margin, maxX + margin, maxY + margin
}

// drawLine plots an integer line with Bresenham stepping.
func drawLine(img *image.RGBA, x0, y0, x1, y1 int, c color.RGBA) {
	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		img.SetRGBA(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func degreesToRadians[T constraints.Integer | constraints.Float](n T) float64 {
	return float64(n) * (math.Pi / 180)
}
