package service

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"
)

// TileColumns 预览图每行标签数
const TileColumns = 2

// TileGrid returns the column and row count for n labels.
func TileGrid(n int) (cols, rows int) {
	if n <= 0 {
		return 0, 0
	}
	cols = min(n, TileColumns)
	rows = (n + TileColumns - 1) / TileColumns
	return cols, rows
}

// TileCanvases lays canvases out row-major, one label size per cell, on white.
// Every canvas must be the same size as the first.
func TileCanvases(canvases []image.Image) (*image.NRGBA, error) {
	if len(canvases) == 0 {
		return nil, fmt.Errorf("tile labels: no canvases")
	}
	cell := canvases[0].Bounds().Size()
	cols, rows := TileGrid(len(canvases))
	out := imaging.New(cols*cell.X, rows*cell.Y, color.White)
	for i, c := range canvases {
		if c.Bounds().Size() != cell {
			return nil, fmt.Errorf("tile labels: canvas %d is %v, want %v", i, c.Bounds().Size(), cell)
		}
		at := image.Pt((i%TileColumns)*cell.X, (i/TileColumns)*cell.Y)
		draw.Draw(out, image.Rectangle{Min: at, Max: at.Add(cell)}, c, c.Bounds().Min, draw.Src)
	}
	return out, nil
}

// EncodePNG 编码为PNG字节
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
