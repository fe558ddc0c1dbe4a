package service

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"sync"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// DefaultFontSize 与标签栅格匹配的字号 (px)
const DefaultFontSize = 18

// Typeface measures and draws single-line text.
type Typeface interface {
	// Measure returns the size of the ink box of text.
	Measure(text string) image.Point
	// Draw paints text so its ink box starts at topLeft.
	Draw(dst draw.Image, text string, topLeft image.Point)
}

// FontFace is a Typeface backed by an OpenType face. A font.Face is not safe
// for concurrent use, hence the mutex.
type FontFace struct {
	mu   sync.Mutex
	face font.Face
}

// LoadFontFace reads a TTF/OTF file. An empty path falls back to Go Regular,
// which has no Hangul glyphs.
func LoadFontFace(path string, size float64) (*FontFace, error) {
	data := goregular.TTF
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read font %s: %w", path, err)
		}
		data = b
	}
	return NewFontFace(data, size)
}

// NewFontFace 从字体数据创建字体
func NewFontFace(data []byte, size float64) (*FontFace, error) {
	if size <= 0 {
		size = DefaultFontSize
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("create font face: %w", err)
	}
	return &FontFace{face: face}, nil
}

func (f *FontFace) inkBounds(text string) image.Rectangle {
	b, _ := font.BoundString(f.face, text)
	return image.Rect(b.Min.X.Floor(), b.Min.Y.Floor(), b.Max.X.Ceil(), b.Max.Y.Ceil())
}

// Measure implements Typeface.
func (f *FontFace) Measure(text string) image.Point {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.inkBounds(text).Size()
}

// Draw implements Typeface.
func (f *FontFace) Draw(dst draw.Image, text string, topLeft image.Point) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b := f.inkBounds(text)
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(color.Black),
		Face: f.face,
		Dot:  fixed.P(topLeft.X-b.Min.X, topLeft.Y-b.Min.Y),
	}
	d.DrawString(text)
}
