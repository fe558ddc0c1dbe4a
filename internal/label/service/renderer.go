package service

import (
	"fmt"
	"image"
	"image/color"

	"github.com/bitfantasy/qr-label/internal/label/entity"
	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"
)

// 标签画布与表格栅格
const (
	CanvasWidth  = 600
	CanvasHeight = 335

	gridLeft    = 20
	gridTop     = 20
	rowHeight   = 40
	gridRows    = 7
	strokeWidth = 2
	qrMargin    = 10
	captionGap  = 5
)

// column edges: caption | value | code/QR
var gridX = [4]int{gridLeft, 160, 400, 580}

func gridY(i int) int { return gridTop + i*rowHeight }

// Captions 标签左列标题
type Captions struct {
	Company        string
	ProductionDate string
	ItemNo         string
	Spec           string
	Lot            string
	Quantity       string
	DeliveryDate   string
}

var (
	CaptionsKO = Captions{
		Company:        "업체명",
		ProductionDate: "생산일자",
		ItemNo:         "품번",
		Spec:           "부품규격",
		Lot:            "LOT No.",
		Quantity:       "수량",
		DeliveryDate:   "납품일자",
	}
	CaptionsEN = Captions{
		Company:        "Company",
		ProductionDate: "Prod. Date",
		ItemNo:         "Item No.",
		Spec:           "Spec",
		Lot:            "LOT No.",
		Quantity:       "Qty",
		DeliveryDate:   "Delivery",
	}
)

// CaptionsByLocale ko (default) or en.
func CaptionsByLocale(locale string) (Captions, error) {
	switch locale {
	case "", "ko":
		return CaptionsKO, nil
	case "en":
		return CaptionsEN, nil
	}
	return Captions{}, fmt.Errorf("unsupported locale %q", locale)
}

// rows returns caption/value pairs in table order.
func (c Captions) rows(l entity.IssuedLabel) [gridRows][2]string {
	r := l.Record
	return [gridRows][2]string{
		{c.Company, r.CompanyName},
		{c.ProductionDate, r.ProductionDate.String()},
		{c.ItemNo, r.ItemNo},
		{c.Spec, r.Spec},
		{c.Lot, string(l.Lot)},
		{c.Quantity, r.Quantity},
		{c.DeliveryDate, r.DeliveryDate.String()},
	}
}

// LabelRenderer 单张标签绘制
type LabelRenderer struct {
	face     Typeface
	symbols  SymbolEncoder
	captions Captions
}

// NewLabelRenderer 创建标签渲染器
func NewLabelRenderer(face Typeface, symbols SymbolEncoder, captions Captions) *LabelRenderer {
	return &LabelRenderer{face: face, symbols: symbols, captions: captions}
}

var black = image.NewUniform(color.Black)
var white = image.NewUniform(color.White)

// Render draws one label. The same input always yields the same pixels.
func (r *LabelRenderer) Render(l entity.IssuedLabel) (*image.NRGBA, error) {
	canvas := imaging.New(CanvasWidth, CanvasHeight, color.White)
	x1, x2, x3, x4 := gridX[0], gridX[1], gridX[2], gridX[3]

	strokeBox(canvas, image.Rect(x1, gridY(0), x4, gridY(gridRows)))
	for i := 1; i <= gridRows; i++ {
		hline(canvas, x1, x4, gridY(i))
	}
	vline(canvas, x2, gridY(0), gridY(gridRows))
	vline(canvas, x3, gridY(0), gridY(1))
	vline(canvas, x3, gridY(gridRows-1), gridY(gridRows))

	for i, pair := range r.captions.rows(l) {
		top, bottom := gridY(i), gridY(i+1)
		r.centerText(canvas, pair[0], image.Rect(x1, top, x2, bottom))
		r.centerText(canvas, pair[1], image.Rect(x2, top, x3, bottom))
	}
	r.centerText(canvas, l.Record.CompanyCode, image.Rect(x3, gridY(0), x4, gridY(1)))

	if err := r.pasteSymbol(canvas, string(l.Payload), image.Rect(x3, gridY(1), x4, gridY(gridRows))); err != nil {
		return nil, err
	}

	size := r.face.Measure(string(l.Payload))
	r.face.Draw(canvas, string(l.Payload), image.Pt(floorDiv(CanvasWidth-size.X, 2), gridY(gridRows)+captionGap))
	return canvas, nil
}

func (r *LabelRenderer) centerText(dst draw.Image, text string, cell image.Rectangle) {
	if text == "" {
		return
	}
	size := r.face.Measure(text)
	x := cell.Min.X + floorDiv(cell.Dx()-size.X, 2)
	y := cell.Min.Y + floorDiv(cell.Dy()-size.Y, 2)
	r.face.Draw(dst, text, image.Pt(x, y))
}

// pasteSymbol clears the QR cell, centers the scaled symbol in it and redraws
// the cell border on top.
func (r *LabelRenderer) pasteSymbol(dst draw.Image, payload string, cell image.Rectangle) error {
	sym, err := r.symbols.Encode(payload)
	if err != nil {
		return fmt.Errorf("render qr symbol: %w", err)
	}
	target := min(cell.Dx(), cell.Dy()) - qrMargin
	scaled := imaging.Resize(sym, target, target, imaging.NearestNeighbor)
	at := image.Pt(cell.Min.X+(cell.Dx()-target)/2, cell.Min.Y+(cell.Dy()-target)/2)

	draw.Draw(dst, image.Rect(cell.Min.X, cell.Min.Y, cell.Max.X+1, cell.Max.Y+1), white, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rectangle{Min: at, Max: at.Add(scaled.Bounds().Size())}, scaled, image.Point{}, draw.Src)
	strokeBox(dst, cell)
	return nil
}

// hline covers rows y-1 and y.
func hline(dst draw.Image, x0, x1, y int) {
	draw.Draw(dst, image.Rect(x0, y-strokeWidth/2, x1+1, y-strokeWidth/2+strokeWidth), black, image.Point{}, draw.Src)
}

// vline covers columns x-1 and x.
func vline(dst draw.Image, x, y0, y1 int) {
	draw.Draw(dst, image.Rect(x-strokeWidth/2, y0, x-strokeWidth/2+strokeWidth, y1+1), black, image.Point{}, draw.Src)
}

// strokeBox outlines r inward; r.Max is inclusive.
func strokeBox(dst draw.Image, r image.Rectangle) {
	w := strokeWidth
	draw.Draw(dst, image.Rect(r.Min.X, r.Min.Y, r.Max.X+1, r.Min.Y+w), black, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(r.Min.X, r.Max.Y+1-w, r.Max.X+1, r.Max.Y+1), black, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(r.Min.X, r.Min.Y, r.Min.X+w, r.Max.Y+1), black, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(r.Max.X+1-w, r.Min.Y, r.Max.X+1, r.Max.Y+1), black, image.Point{}, draw.Src)
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
