package service

import (
	"context"
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/bitfantasy/qr-label/internal/label/entity"
	"github.com/xuri/excelize/v2"
	"golang.org/x/image/font/gofont/goregular"
)

// 2024-03-05 12:00:00 Asia/Seoul
var testAnchorUTC = time.Date(2024, 3, 5, 3, 0, 0, 0, time.UTC)

func seoul(t *testing.T) *time.Location {
	t.Helper()
	loc, err := LoadZone(DefaultZone)
	if err != nil {
		t.Fatalf("Failed to load zone: %v", err)
	}
	return loc
}

func testFace(t *testing.T) *FontFace {
	t.Helper()
	face, err := NewFontFace(goregular.TTF, DefaultFontSize)
	if err != nil {
		t.Fatalf("Failed to load font: %v", err)
	}
	return face
}

func sampleRecord() entity.LabelRecord {
	return entity.LabelRecord{
		CompanyName:    "Acme Parts",
		CompanyCode:    "A1",
		ItemNo:         "IT-100",
		Spec:           "M6x20",
		Quantity:       "200",
		ProductionDate: entity.NewDate(2024, time.March, 5),
		DeliveryDate:   entity.NewDate(2024, time.March, 10),
		OrderNo:        "PO9",
	}
}

func sampleRecords(n int) []entity.LabelRecord {
	out := make([]entity.LabelRecord, n)
	for i := range out {
		out[i] = sampleRecord()
	}
	return out
}

func builtinTemplate(blocks int) TemplateSource {
	return TemplateFunc(func(ctx context.Context) (*excelize.File, error) {
		return NewTemplateWorkbook(blocks, CaptionsEN)
	})
}

func newTestService(t *testing.T, blocks int, templates TemplateSource) *LabelService {
	t.Helper()
	if templates == nil {
		templates = builtinTemplate(blocks)
	}
	symbols := NewQRCodeEncoder()
	return NewLabelService(Options{
		Lots:      NewLotCodeEncoder(MonthTableSequential),
		Serials:   NewSerialAllocator(seoul(t), func() time.Time { return testAnchorUTC }),
		Renderer:  NewLabelRenderer(testFace(t), symbols, CaptionsEN),
		Layout:    NewSheetLayout(symbols, blocks),
		Templates: templates,
		SheetName: DefaultSheetName,
	})
}

func isBlack(img image.Image, x, y int) bool {
	r, g, b, _ := img.At(x, y).RGBA()
	return r == 0 && g == 0 && b == 0
}

func isWhite(img image.Image, x, y int) bool {
	return color.GrayModel.Convert(img.At(x, y)).(color.Gray).Y == 0xff
}

// countInk counts non-white pixels inside r.
func countInk(img image.Image, r image.Rectangle) int {
	n := 0
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if !isWhite(img, x, y) {
				n++
			}
		}
	}
	return n
}
