package canvas

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

func TestNewCentersTurtleAndFillsBackground(t *testing.T) {
	c, err := New(100, 100)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if c.PosX != 50 || c.PosY != 50 {
		t.Fatalf("expected turtle centered at (50,50), got (%v,%v)", c.PosX, c.PosY)
	}
	if !c.IsPenDown {
		t.Fatal("expected pen down by default")
	}
	if c.PenColor != (Color{0, 0, 0}) {
		t.Fatalf("expected black pen by default, got %v", c.PenColor)
	}
}

func TestNewRejectsNonPositiveDimensions(t *testing.T) {
	if _, err := New(0, 10); err == nil {
		t.Fatal("expected an error for zero width")
	}
	if _, err := New(10, -1); err == nil {
		t.Fatal("expected an error for negative height")
	}
}

func TestNewWithBackgroundUsesGivenColor(t *testing.T) {
	c, err := NewWithBackground(10, 10, 10, 20, 30)
	if err != nil {
		t.Fatalf("NewWithBackground: %v", err)
	}
	if c.pixels[0] != (Color{10, 20, 30}) {
		t.Fatalf("expected background color set, got %v", c.pixels[0])
	}
}

func TestMoveForwardRotatesWithCosSin(t *testing.T) {
	c, err := New(100, 100)
	if err != nil {
		t.Fatal(err)
	}
	x0, y0 := c.PosX, c.PosY
	c.MoveForward(10)
	if c.PosX == x0 {
		t.Fatal("expected PosX to change after moving forward at rot=0")
	}
	if c.PosY != y0 {
		t.Fatalf("expected PosY unchanged at rot=0, got %v want %v", c.PosY, y0)
	}
}

func TestSaveAsBitmapHeaderShape(t *testing.T) {
	c, err := New(4, 3)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "out.bmp")
	if err := c.SaveAsBitmap(path); err != nil {
		t.Fatalf("SaveAsBitmap: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	wantSize := 14 + 40 + 4*3*4
	if len(data) != wantSize {
		t.Fatalf("got %d bytes, want %d", len(data), wantSize)
	}
	if data[0] != 'B' || data[1] != 'M' {
		t.Fatalf("expected BMP magic 'BM', got %q", data[0:2])
	}
	pixelOffset := binary.LittleEndian.Uint32(data[10:14])
	if pixelOffset != 54 {
		t.Fatalf("expected pixel offset 54, got %d", pixelOffset)
	}
	width := int32(binary.LittleEndian.Uint32(data[18:22]))
	height := int32(binary.LittleEndian.Uint32(data[22:26]))
	if width != 4 || height != 3 {
		t.Fatalf("got %dx%d, want 4x3", width, height)
	}
	bpp := binary.LittleEndian.Uint16(data[28:30])
	if bpp != 32 {
		t.Fatalf("expected 32bpp, got %d", bpp)
	}
	// First pixel (white background, since penless New() defaults white):
	// bytes are (b,g,r,a).
	first := data[54:58]
	if first[0] != 255 || first[1] != 255 || first[2] != 255 || first[3] != 255 {
		t.Fatalf("expected first pixel opaque white (b,g,r,a), got %v", first)
	}
}

func TestPenUpSuppressesDrawing(t *testing.T) {
	c, err := New(10, 10)
	if err != nil {
		t.Fatal(err)
	}
	c.IsPenDown = false
	before := make([]Color, len(c.pixels))
	copy(before, c.pixels)
	c.MoveForward(5)
	for i := range before {
		if c.pixels[i] != before[i] {
			t.Fatal("expected no pixels modified while pen is up")
		}
	}
}
