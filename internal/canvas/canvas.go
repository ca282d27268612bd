// Package canvas is the turtle-graphics drawing surface the evaluator's
// movement/pose/pen built-ins mutate. Line rasterization and the bitmap
// writer are a direct port of the reference's Bresenham walk and 54-byte
// BMP header, kept byte-for-byte compatible.
package canvas

import (
	"bufio"
	"encoding/binary"
	"math"
	"os"

	"github.com/oarkflow/errors"
)

// Color is one RGB pixel; the canvas always writes it out with a forced
// opaque alpha byte, matching the reference's 32bpp-but-fully-opaque BMP.
type Color struct {
	R, G, B uint8
}

// Canvas is the turtle's pose plus a w*h pixel buffer, row-major, origin at
// the top-left the way the reference stores and later dumps it unmodified.
type Canvas struct {
	Width, Height int32
	PosX, PosY    float64
	Rot           float64
	IsPenDown     bool
	PenColor      Color
	pixels        []Color
}

// New initializes a canvas of the given size with a white background,
// the turtle centered, pen down, and pen color black — the 2-argument
// `init` built-in's behavior.
func New(w, h int32) (*Canvas, error) {
	return NewWithBackground(w, h, 255, 255, 255)
}

// NewWithBackground is the 5-argument `init` overload: same as New but
// with a caller-chosen background color.
func NewWithBackground(w, h int32, bgR, bgG, bgB uint8) (*Canvas, error) {
	if w <= 0 || h <= 0 {
		return nil, errors.New("canvas dimensions must be positive")
	}
	c := &Canvas{
		Width:     w,
		Height:    h,
		PosX:      float64(w) / 2,
		PosY:      float64(h) / 2,
		Rot:       0,
		IsPenDown: true,
		PenColor:  Color{0, 0, 0},
	}
	bg := Color{bgR, bgG, bgB}
	c.pixels = make([]Color, int(w)*int(h))
	for i := range c.pixels {
		c.pixels[i] = bg
	}
	return c, nil
}

func (c *Canvas) inBounds(x, y int32) bool {
	return x >= 0 && x < c.Width && y >= 0 && y < c.Height
}

func (c *Canvas) setPixel(x, y int32) {
	if c.inBounds(x, y) && c.IsPenDown {
		c.pixels[int(y)*int(c.Width)+int(x)] = c.PenColor
	}
}

func (c *Canvas) plotLineLow(x0, y0, x1, y1 int32) {
	dx := x1 - x0
	dy := y1 - y0
	yi := int32(1)
	if dy < 0 {
		yi = -1
		dy = -dy
	}
	d := 2*dy - dx
	y := y0
	for x := x0; x <= x1; x++ {
		c.setPixel(x, y)
		if d > 0 {
			y += yi
			d += 2 * (dy - dx)
		} else {
			d += 2 * dy
		}
	}
}

func (c *Canvas) plotLineHigh(x0, y0, x1, y1 int32) {
	dx := x1 - x0
	dy := y1 - y0
	xi := int32(1)
	if dx < 0 {
		xi = -1
		dx = -dx
	}
	d := 2*dx - dy
	x := x0
	for y := y0; y <= y1; y++ {
		c.setPixel(x, y)
		if d > 0 {
			x += xi
			d += 2 * (dx - dy)
		} else {
			d += 2 * dx
		}
	}
}

// MoveForward advances the turtle `steps` units along its current heading
// (standard unit-circle convention: dx=cos(rot), dy=sin(rot); rot is in
// radians), rasterizing the traversed segment with Bresenham's algorithm.
func (c *Canvas) MoveForward(steps float64) {
	x0 := int32(c.PosX)
	y0 := int32(c.PosY)
	fx1 := c.PosX + math.Cos(c.Rot)*steps
	fy1 := c.PosY + math.Sin(c.Rot)*steps
	c.PosX = fx1
	c.PosY = fy1
	x1 := int32(fx1)
	y1 := int32(fy1)

	if abs32(y1-y0) < abs32(x1-x0) {
		if x0 > x1 {
			c.plotLineLow(x1, y1, x0, y0)
		} else {
			c.plotLineLow(x0, y0, x1, y1)
		}
	} else {
		if y0 > y1 {
			c.plotLineHigh(x1, y1, x0, y0)
		} else {
			c.plotLineHigh(x0, y0, x1, y1)
		}
	}
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

// SaveAsBitmap writes the canvas as a little-endian 32bpp BMP: the 14-byte
// file header, the 40-byte DIB header, then width*height (b,g,r,255)
// records in the order pixels are stored — field-for-field the format the
// reference's save_as_bitmap produces.
func (c *Canvas) SaveAsBitmap(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.New("couldn't open file \"" + path + "\"")
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	const fileHeaderSize = 14
	const infoHeaderSize = 40
	pixelBytes := uint32(c.Width) * uint32(c.Height) * 4

	if err := binary.Write(w, binary.LittleEndian, [2]byte{'B', 'M'}); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(fileHeaderSize+infoHeaderSize)+pixelBytes); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, [2]uint16{0, 0}); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(fileHeaderSize+infoHeaderSize)); err != nil {
		return err
	}

	if err := binary.Write(w, binary.LittleEndian, uint32(infoHeaderSize)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, c.Width); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, c.Height); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint16(1)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint16(32)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(0)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(0)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, c.Width); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, c.Height); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(0)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(0)); err != nil {
		return err
	}

	for _, px := range c.pixels {
		if _, err := w.Write([]byte{px.B, px.G, px.R, 255}); err != nil {
			return err
		}
	}
	return w.Flush()
}
