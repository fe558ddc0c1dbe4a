package service

import (
	"bytes"
	"io"
	"testing"

	"github.com/bitfantasy/qr-label/internal/label/entity"
	"github.com/xuri/excelize/v2"
)

// recordingWorkbook captures layout calls without a real spreadsheet.
type recordingWorkbook struct {
	cells   map[string]string
	merges  [][2]string
	images  map[string][]byte
	deletes [][2]int
}

func newRecordingWorkbook() *recordingWorkbook {
	return &recordingWorkbook{cells: map[string]string{}, images: map[string][]byte{}}
}

func (w *recordingWorkbook) SetCell(cell, value string) error {
	w.cells[cell] = value
	return nil
}

func (w *recordingWorkbook) MergeCells(from, to string) error {
	w.merges = append(w.merges, [2]string{from, to})
	return nil
}

func (w *recordingWorkbook) AddImage(cell string, png []byte) error {
	w.images[cell] = png
	return nil
}

func (w *recordingWorkbook) DeleteRows(from, to int) error {
	w.deletes = append(w.deletes, [2]int{from, to})
	return nil
}

func (w *recordingWorkbook) Write(out io.Writer) error { return nil }

func issuedLabels(t *testing.T, n int) []entity.IssuedLabel {
	t.Helper()
	svc := newTestService(t, DefaultBlocks, nil)
	return svc.Issue(sampleRecords(n), svc.serials.Anchor())
}

func TestPlaceLabel(t *testing.T) {
	tests := []struct {
		index int
		want  Placement
	}{
		{0, Placement{Block: 0, RowBase: 0, Side: SideLeft}},
		{1, Placement{Block: 0, RowBase: 0, Side: SideRight}},
		{2, Placement{Block: 1, RowBase: 9, Side: SideLeft}},
		{5, Placement{Block: 2, RowBase: 18, Side: SideRight}},
		{9, Placement{Block: 4, RowBase: 36, Side: SideRight}},
	}
	for _, tt := range tests {
		if got := PlaceLabel(tt.index); got != tt.want {
			t.Errorf("PlaceLabel(%d) = %+v, want %+v", tt.index, got, tt.want)
		}
	}
}

func TestSideColumns(t *testing.T) {
	if c := SideLeft.Columns(); c != (ColumnGroup{Caption: "A", Value: "B", Code: "C", QR: "C"}) {
		t.Errorf("Unexpected left columns %+v", c)
	}
	if c := SideRight.Columns(); c != (ColumnGroup{Caption: "E", Value: "F", Code: "G", QR: "G"}) {
		t.Errorf("Unexpected right columns %+v", c)
	}
}

func TestTrimRange(t *testing.T) {
	tests := []struct {
		used, blocks int
		from, to     int
		ok           bool
	}{
		{used: 2, blocks: 2, ok: false},
		{used: 3, blocks: 2, ok: false},
		{used: 1, blocks: 10, from: 17, to: 98, ok: true},
		{used: 5, blocks: 10, from: 53, to: 98, ok: true},
	}
	for _, tt := range tests {
		from, to, ok := TrimRange(tt.used, tt.blocks)
		if ok != tt.ok || from != tt.from || to != tt.to {
			t.Errorf("TrimRange(%d,%d) = %d,%d,%v want %d,%d,%v",
				tt.used, tt.blocks, from, to, ok, tt.from, tt.to, tt.ok)
		}
	}
}

func TestCMToPixels(t *testing.T) {
	if w := CMToPixels(SheetQRWidthCM); w != 137 {
		t.Errorf("Expected 137px width, got %d", w)
	}
	if h := CMToPixels(SheetQRHeightCM); h != 142 {
		t.Errorf("Expected 142px height, got %d", h)
	}
}

func TestFillFullTemplateKeepsRows(t *testing.T) {
	labels := issuedLabels(t, 4)
	wb := newRecordingWorkbook()
	if err := NewSheetLayout(NewQRCodeEncoder(), 2).Fill(wb, labels); err != nil {
		t.Fatalf("Fill failed: %v", err)
	}
	if len(wb.deletes) != 0 {
		t.Errorf("Expected no row deletion, got %v", wb.deletes)
	}

	want := map[string]string{
		"B1":  "Acme Parts",
		"B2":  "2024/03/05",
		"B3":  "IT-100",
		"B4":  "M6x20",
		"B5":  "BC05",
		"B6":  "200",
		"B7":  "2024/03/10",
		"C1":  "A1",
		"A8":  string(labels[0].Payload),
		"F1":  "Acme Parts",
		"G1":  "A1",
		"E8":  string(labels[1].Payload),
		"B10": "Acme Parts",
		"A17": string(labels[2].Payload),
		"E17": string(labels[3].Payload),
	}
	for cell, v := range want {
		if wb.cells[cell] != v {
			t.Errorf("Cell %s = %q, want %q", cell, wb.cells[cell], v)
		}
	}
	for _, cell := range []string{"C2", "G2", "C11", "G11"} {
		if len(wb.images[cell]) == 0 {
			t.Errorf("Expected QR image at %s", cell)
		}
	}
	wantMerges := [][2]string{{"A8", "C8"}, {"E8", "G8"}, {"A17", "C17"}, {"E17", "G17"}}
	if len(wb.merges) != len(wantMerges) {
		t.Fatalf("Expected %d merges, got %v", len(wantMerges), wb.merges)
	}
	for i, m := range wantMerges {
		if wb.merges[i] != m {
			t.Errorf("Merge %d = %v, want %v", i, wb.merges[i], m)
		}
	}
}

func TestFillTrimsUnusedBlocks(t *testing.T) {
	wb := newRecordingWorkbook()
	if err := NewSheetLayout(NewQRCodeEncoder(), 10).Fill(wb, issuedLabels(t, 1)); err != nil {
		t.Fatalf("Fill failed: %v", err)
	}
	if len(wb.deletes) != 1 || wb.deletes[0] != [2]int{17, 98} {
		t.Errorf("Expected rows 17..98 deleted, got %v", wb.deletes)
	}
}

func TestFillExcelTemplate(t *testing.T) {
	f, err := NewTemplateWorkbook(2, CaptionsEN)
	if err != nil {
		t.Fatalf("NewTemplateWorkbook failed: %v", err)
	}
	defer f.Close()
	wb, err := NewExcelWorkbook(f, "")
	if err != nil {
		t.Fatalf("NewExcelWorkbook failed: %v", err)
	}
	if wb.Sheet() != DefaultSheetName {
		t.Errorf("Expected sheet %s, got %s", DefaultSheetName, wb.Sheet())
	}

	labels := issuedLabels(t, 3)
	if err := NewSheetLayout(NewQRCodeEncoder(), 2).Fill(wb, labels); err != nil {
		t.Fatalf("Fill failed: %v", err)
	}

	data, err := WorkbookBytes(wb)
	if err != nil {
		t.Fatalf("WorkbookBytes failed: %v", err)
	}
	out, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Reopen failed: %v", err)
	}
	defer out.Close()

	sheet := DefaultSheetName
	checks := map[string]string{
		"A1":  "Company",
		"B1":  "Acme Parts",
		"C1":  "A1",
		"B5":  "BC05",
		"A8":  string(labels[0].Payload),
		"F1":  "Acme Parts",
		"B10": "Acme Parts",
	}
	for cell, v := range checks {
		got, err := out.GetCellValue(sheet, cell)
		if err != nil || got != v {
			t.Errorf("Cell %s = %q (%v), want %q", cell, got, err, v)
		}
	}
	// right side of block 1 is unused but kept
	if got, _ := out.GetCellValue(sheet, "F10"); got != "" {
		t.Errorf("Expected F10 empty, got %q", got)
	}

	pics, err := out.GetPictures(sheet, "C2")
	if err != nil || len(pics) != 1 {
		t.Errorf("Expected one picture at C2, got %d (%v)", len(pics), err)
	}

	merges, err := out.GetMergeCells(sheet)
	if err != nil {
		t.Fatalf("GetMergeCells failed: %v", err)
	}
	found := false
	for _, m := range merges {
		if m.GetStartAxis() == "A8" && m.GetEndAxis() == "C8" {
			found = true
		}
	}
	if !found {
		t.Error("Expected A8:C8 merged for the payload caption")
	}
}

func TestNewExcelWorkbookUnknownSheet(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	if _, err := NewExcelWorkbook(f, "Missing"); err == nil {
		t.Error("Expected error for missing sheet")
	}
}

func TestTemplateWorkbookBlocks(t *testing.T) {
	f, err := NewTemplateWorkbook(0, CaptionsKO)
	if err != nil {
		t.Fatalf("NewTemplateWorkbook failed: %v", err)
	}
	defer f.Close()

	last := (DefaultBlocks-1)*BlockRows + 7
	got, _ := f.GetCellValue(DefaultSheetName, cell("E", last))
	if got != CaptionsKO.DeliveryDate {
		t.Errorf("Expected last caption %q at E%d, got %q", CaptionsKO.DeliveryDate, last, got)
	}
	if got, _ := f.GetCellValue(DefaultSheetName, cell("A", last+BlockRows)); got != "" {
		t.Errorf("Expected nothing past block %d, got %q", DefaultBlocks, got)
	}
}
