package service

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/bitfantasy/qr-label/internal/label/entity"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/transform"
	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat 不支持的导入文件类型
var ErrUnsupportedFormat = errors.New("unsupported record file format")

// RecordColumns 导入文件列顺序, 与表单一致
var RecordColumns = []string{
	"company_name", "company_code", "item_no", "spec",
	"quantity", "production_date", "delivery_date", "order_no",
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// RecordImporter 从文件导入标签字段
type RecordImporter struct{}

// NewRecordImporter 创建导入器
func NewRecordImporter() *RecordImporter {
	return &RecordImporter{}
}

// Import picks a parser from the file extension: csv, xlsx, yaml/yml or json.
func (im *RecordImporter) Import(r io.Reader, filename string) ([]entity.LabelRecord, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return im.importCSV(r)
	case ".xlsx":
		return im.importXLSX(r)
	case ".yaml", ".yml":
		return im.importYAML(r)
	case ".json":
		return im.importJSON(r)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filename)
}

// importCSV decodes EUC-KR when the bytes are not valid UTF-8, which is what
// Korean Excel writes for "CSV (comma delimited)".
func (im *RecordImporter) importCSV(r io.Reader) ([]entity.LabelRecord, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)
	var src io.Reader = bytes.NewReader(data)
	if !utf8.Valid(data) {
		src = transform.NewReader(src, korean.EUCKR.NewDecoder())
	}

	cr := csv.NewReader(src)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	return rowsToRecords(rows)
}

func (im *RecordImporter) importXLSX(r io.Reader) ([]entity.LabelRecord, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("read xlsx: %w", err)
	}
	return rowsToRecords(rows)
}

type recordFile struct {
	Labels []entity.LabelRecord `json:"labels" yaml:"labels"`
}

func (im *RecordImporter) importYAML(r io.Reader) ([]entity.LabelRecord, error) {
	var doc recordFile
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	return doc.Labels, nil
}

// importJSON accepts {"labels": [...]} or a bare array.
func (im *RecordImporter) importJSON(r io.Reader) ([]entity.LabelRecord, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read json: %w", err)
	}
	data = bytes.TrimSpace(data)
	if bytes.HasPrefix(data, []byte("[")) {
		var records []entity.LabelRecord
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("parse json: %w", err)
		}
		return records, nil
	}
	var doc recordFile
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	return doc.Labels, nil
}

// rowsToRecords skips the header row and blank rows.
func rowsToRecords(rows [][]string) ([]entity.LabelRecord, error) {
	var records []entity.LabelRecord
	for i, row := range rows {
		if i == 0 || isBlankRow(row) {
			continue
		}
		rec, err := rowToRecord(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func rowToRecord(row []string) (entity.LabelRecord, error) {
	cols := make([]string, len(RecordColumns))
	for i := range cols {
		if i < len(row) {
			cols[i] = strings.TrimSpace(row[i])
		}
	}
	rec := entity.LabelRecord{
		CompanyName: cols[0],
		CompanyCode: cols[1],
		ItemNo:      cols[2],
		Spec:        cols[3],
		Quantity:    cols[4],
		OrderNo:     cols[7],
	}
	if err := rec.ProductionDate.UnmarshalText([]byte(cols[5])); err != nil {
		return rec, fmt.Errorf("production_date: %w", err)
	}
	if err := rec.DeliveryDate.UnmarshalText([]byte(cols[6])); err != nil {
		return rec, fmt.Errorf("delivery_date: %w", err)
	}
	return rec, nil
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
