package service

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// DefaultSheetName 内置模板工作表名
const DefaultSheetName = "Labels"

// TemplateSource opens a fresh copy of the template workbook for every batch.
type TemplateSource interface {
	Open(ctx context.Context) (*excelize.File, error)
}

// TemplateFunc adapts a function to TemplateSource.
type TemplateFunc func(ctx context.Context) (*excelize.File, error)

// Open implements TemplateSource.
func (f TemplateFunc) Open(ctx context.Context) (*excelize.File, error) {
	return f(ctx)
}

var templateColWidths = map[string]float64{
	"A": 12, "B": 24, "C": 21, "D": 3,
	"E": 12, "F": 24, "G": 21,
}

// NewTemplateWorkbook generates the built-in template: blocks of seven caption
// rows, a caption row for the QR text and one spacer row.
func NewTemplateWorkbook(blocks int, captions Captions) (*excelize.File, error) {
	if blocks <= 0 {
		blocks = DefaultBlocks
	}
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", DefaultSheetName); err != nil {
		f.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	sheet := DefaultSheetName

	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}
	captionStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 10},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#F2F2F2"}},
		Border:    border,
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("create caption style: %w", err)
	}
	valueStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Size: 11},
		Border:    border,
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("create value style: %w", err)
	}

	names := []string{
		captions.Company, captions.ProductionDate, captions.ItemNo, captions.Spec,
		captions.Lot, captions.Quantity, captions.DeliveryDate,
	}
	for b := 0; b < blocks; b++ {
		base := b * BlockRows
		for _, side := range []Side{SideLeft, SideRight} {
			cols := side.Columns()
			for i, name := range names {
				row := base + 1 + i
				if err := f.SetCellValue(sheet, cell(cols.Caption, row), name); err != nil {
					f.Close()
					return nil, err
				}
				f.SetCellStyle(sheet, cell(cols.Caption, row), cell(cols.Caption, row), captionStyle)
				f.SetCellStyle(sheet, cell(cols.Value, row), cell(cols.Value, row), valueStyle)
			}
			f.SetCellStyle(sheet, cell(cols.Code, base+1), cell(cols.Code, base+1), valueStyle)
			f.SetCellStyle(sheet, cell(cols.Caption, base+captionRowOffset), cell(cols.QR, base+captionRowOffset), valueStyle)
		}
		for i := 1; i <= 7; i++ {
			f.SetRowHeight(sheet, base+i, 22)
		}
		f.SetRowHeight(sheet, base+captionRowOffset, 18)
		f.SetRowHeight(sheet, base+BlockRows, 10)
	}

	for col, w := range templateColWidths {
		f.SetColWidth(sheet, col, col, w)
	}
	return f, nil
}
