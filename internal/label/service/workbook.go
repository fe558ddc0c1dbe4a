package service

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"io"
	"math"

	"github.com/bitfantasy/qr-label/internal/label/entity"
	"github.com/disintegration/imaging"
	"github.com/xuri/excelize/v2"
	"golang.org/x/image/draw"
)

// 模板块布局
const (
	BlockRows        = 9
	BlockFirstRow    = 8
	DefaultBlocks    = 10
	LabelsPerBlock   = 2
	SheetDPI         = 96.0
	SheetQRWidthCM   = 3.63
	SheetQRHeightCM  = 3.77
	sheetQRBorderPx  = 2
	captionRowOffset = 8
	qrRowOffset      = 2
)

// Workbook is the part of a spreadsheet the layout engine needs.
type Workbook interface {
	SetCell(cell, value string) error
	MergeCells(from, to string) error
	AddImage(cell string, png []byte) error
	// DeleteRows removes rows from..to inclusive.
	DeleteRows(from, to int) error
	Write(w io.Writer) error
}

// Side 块内左/右标签
type Side int

const (
	SideLeft Side = iota
	SideRight
)

func (s Side) String() string {
	if s == SideRight {
		return "right"
	}
	return "left"
}

// ColumnGroup 一侧标签使用的列
type ColumnGroup struct {
	Caption string
	Value   string
	Code    string
	QR      string
}

var columnGroups = map[Side]ColumnGroup{
	SideLeft:  {Caption: "A", Value: "B", Code: "C", QR: "C"},
	SideRight: {Caption: "E", Value: "F", Code: "G", QR: "G"},
}

// Columns 返回该侧的列组
func (s Side) Columns() ColumnGroup {
	return columnGroups[s]
}

// Placement locates label i inside the template.
type Placement struct {
	Block   int
	RowBase int
	Side    Side
}

// PlaceLabel block = i/2, rows offset by 9 per block, even indexes on the left.
func PlaceLabel(i int) Placement {
	side := SideLeft
	if i%LabelsPerBlock != 0 {
		side = SideRight
	}
	block := i / LabelsPerBlock
	return Placement{Block: block, RowBase: block * BlockRows, Side: side}
}

// BlocksFor ceil(n/2)
func BlocksFor(n int) int {
	return (n + LabelsPerBlock - 1) / LabelsPerBlock
}

// TrimRange returns the rows to delete when only used of templateBlocks blocks
// are filled. ok is false when nothing needs removing.
func TrimRange(used, templateBlocks int) (from, to int, ok bool) {
	if used >= templateBlocks {
		return 0, 0, false
	}
	return BlockFirstRow + used*BlockRows, BlockFirstRow + templateBlocks*BlockRows, true
}

// CMToPixels converts a physical length at 96 DPI.
func CMToPixels(cm float64) int {
	return int(math.Round(cm / 2.54 * SheetDPI))
}

// SheetLayout fills a template workbook block by block.
type SheetLayout struct {
	templateBlocks int
	symbols        SymbolEncoder
}

// NewSheetLayout templateBlocks <= 0 means DefaultBlocks.
func NewSheetLayout(symbols SymbolEncoder, templateBlocks int) *SheetLayout {
	if templateBlocks <= 0 {
		templateBlocks = DefaultBlocks
	}
	return &SheetLayout{templateBlocks: templateBlocks, symbols: symbols}
}

// TemplateBlocks 模板中的块数
func (l *SheetLayout) TemplateBlocks() int {
	return l.templateBlocks
}

// Fill writes labels in ascending index order, then deletes unused trailing blocks.
func (l *SheetLayout) Fill(wb Workbook, labels []entity.IssuedLabel) error {
	for i, label := range labels {
		if err := l.place(wb, PlaceLabel(i), label); err != nil {
			return fmt.Errorf("place label %d: %w", i, err)
		}
	}
	if from, to, ok := TrimRange(BlocksFor(len(labels)), l.templateBlocks); ok {
		if err := wb.DeleteRows(from, to); err != nil {
			return fmt.Errorf("trim unused blocks: %w", err)
		}
	}
	return nil
}

func (l *SheetLayout) place(wb Workbook, p Placement, label entity.IssuedLabel) error {
	cols := p.Side.Columns()
	r := label.Record
	values := []string{
		r.CompanyName,
		r.ProductionDate.String(),
		r.ItemNo,
		r.Spec,
		string(label.Lot),
		r.Quantity,
		r.DeliveryDate.String(),
	}
	for i, v := range values {
		if err := wb.SetCell(cell(cols.Value, p.RowBase+1+i), v); err != nil {
			return err
		}
	}
	if err := wb.SetCell(cell(cols.Code, p.RowBase+1), r.CompanyCode); err != nil {
		return err
	}

	img, err := l.symbolPNG(string(label.Payload))
	if err != nil {
		return err
	}
	if err := wb.AddImage(cell(cols.QR, p.RowBase+qrRowOffset), img); err != nil {
		return err
	}

	captionRow := p.RowBase + captionRowOffset
	if err := wb.MergeCells(cell(cols.Caption, captionRow), cell(cols.QR, captionRow)); err != nil {
		return err
	}
	return wb.SetCell(cell(cols.Caption, captionRow), string(label.Payload))
}

// symbolPNG renders the QR at its printed size with a black border.
func (l *SheetLayout) symbolPNG(payload string) ([]byte, error) {
	sym, err := l.symbols.Encode(payload)
	if err != nil {
		return nil, fmt.Errorf("render sheet qr: %w", err)
	}
	w, h := CMToPixels(SheetQRWidthCM), CMToPixels(SheetQRHeightCM)
	img := imaging.Resize(sym, w, h, imaging.NearestNeighbor)
	strokeInset(img, sheetQRBorderPx)
	return EncodePNG(img)
}

func strokeInset(dst draw.Image, width int) {
	b := dst.Bounds()
	ink := image.NewUniform(color.Black)
	draw.Draw(dst, image.Rect(b.Min.X, b.Min.Y, b.Max.X, b.Min.Y+width), ink, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(b.Min.X, b.Max.Y-width, b.Max.X, b.Max.Y), ink, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(b.Min.X, b.Min.Y, b.Min.X+width, b.Max.Y), ink, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(b.Max.X-width, b.Min.Y, b.Max.X, b.Max.Y), ink, image.Point{}, draw.Src)
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

// ExcelWorkbook adapts one sheet of an excelize file to Workbook.
type ExcelWorkbook struct {
	file  *excelize.File
	sheet string
}

// NewExcelWorkbook sheet "" selects the first sheet.
func NewExcelWorkbook(f *excelize.File, sheet string) (*ExcelWorkbook, error) {
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, fmt.Errorf("template sheet %q not found", sheet)
	}
	return &ExcelWorkbook{file: f, sheet: sheet}, nil
}

// File 底层excelize文件
func (w *ExcelWorkbook) File() *excelize.File { return w.file }

// Sheet 正在填写的工作表名
func (w *ExcelWorkbook) Sheet() string { return w.sheet }

func (w *ExcelWorkbook) SetCell(c, value string) error {
	return w.file.SetCellValue(w.sheet, c, value)
}

func (w *ExcelWorkbook) MergeCells(from, to string) error {
	return w.file.MergeCell(w.sheet, from, to)
}

// AddImage copies the bytes into the workbook; the caller may drop its buffer afterwards.
func (w *ExcelWorkbook) AddImage(c string, png []byte) error {
	return w.file.AddPictureFromBytes(w.sheet, c, &excelize.Picture{
		Extension: ".png",
		File:      png,
		Format: &excelize.GraphicOptions{
			OffsetX: 4,
			OffsetY: 4,
		},
	})
}

// DeleteRows removes bottom-up so row numbers above stay put.
func (w *ExcelWorkbook) DeleteRows(from, to int) error {
	for row := to; row >= from; row-- {
		if err := w.file.RemoveRow(w.sheet, row); err != nil {
			return err
		}
	}
	return nil
}

func (w *ExcelWorkbook) Write(out io.Writer) error {
	return w.file.Write(out)
}

// WorkbookBytes 序列化工作簿
func WorkbookBytes(wb Workbook) ([]byte, error) {
	var buf bytes.Buffer
	if err := wb.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
