package service

import (
	"context"
	"errors"
	"fmt"
	"image"
	"reflect"
	"time"

	"github.com/bitfantasy/qr-label/internal/label/entity"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// DefaultMaxBatch 单次提交最多标签数
const DefaultMaxBatch = 10

// 下载文件名
const (
	SinglePNGName = "label.png"
	BatchPNGName  = "labels_all.png"
	BatchXLSXName = "labels_all.xlsx"
)

var (
	ErrBatchSize     = errors.New("batch size out of range")
	ErrInvalidRecord = errors.New("invalid label record")
)

// SingleXLSXName label_{serial}.xlsx
func SingleXLSXName(serial entity.SerialNumber) string {
	return fmt.Sprintf("label_%s.xlsx", serial)
}

// Options LabelService依赖
type Options struct {
	Lots      *LotCodeEncoder
	Serials   *SerialAllocator
	Renderer  *LabelRenderer
	Layout    *SheetLayout
	Templates TemplateSource
	SheetName string
	MaxBatch  int
	Logger    *zap.Logger
}

// LabelService 标签生成服务
type LabelService struct {
	lots      *LotCodeEncoder
	serials   *SerialAllocator
	renderer  *LabelRenderer
	layout    *SheetLayout
	templates TemplateSource
	sheet     string
	maxBatch  int
	validate  *validator.Validate
	logger    *zap.Logger
}

// NewLabelService 创建标签生成服务
func NewLabelService(opts Options) *LabelService {
	maxBatch := opts.MaxBatch
	if maxBatch <= 0 {
		maxBatch = DefaultMaxBatch
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LabelService{
		lots:      opts.Lots,
		serials:   opts.Serials,
		renderer:  opts.Renderer,
		layout:    opts.Layout,
		templates: opts.Templates,
		sheet:     opts.SheetName,
		maxBatch:  maxBatch,
		validate:  NewRecordValidator(),
		logger:    logger,
	}
}

// NewRecordValidator validator that treats a zero entity.Date as missing.
func NewRecordValidator() *validator.Validate {
	v := validator.New()
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(entity.Date); ok && !d.IsZero() {
			return d.String()
		}
		return ""
	}, entity.Date{})
	return v
}

// MaxBatch 单批上限
func (s *LabelService) MaxBatch() int {
	return s.maxBatch
}

// LotCode 单个日期的LOT No.
func (s *LabelService) LotCode(d entity.Date) entity.LotCode {
	return s.lots.Encode(d)
}

// Validate checks batch size and required fields. Empty text fields pass.
func (s *LabelService) Validate(records []entity.LabelRecord) error {
	if len(records) < 1 || len(records) > s.maxBatch {
		return fmt.Errorf("%w: got %d labels, allowed 1..%d", ErrBatchSize, len(records), s.maxBatch)
	}
	for i := range records {
		if err := s.validate.Struct(&records[i]); err != nil {
			return fmt.Errorf("%w: label %d: %v", ErrInvalidRecord, i+1, err)
		}
	}
	return nil
}

// Issue assigns lot, serial and payload to each record against one anchor.
func (s *LabelService) Issue(records []entity.LabelRecord, anchor time.Time) []entity.IssuedLabel {
	labels := make([]entity.IssuedLabel, len(records))
	for i, r := range records {
		lot := s.lots.Encode(r.ProductionDate)
		serial := s.serials.Serial(anchor, i)
		labels[i] = entity.IssuedLabel{
			Index:   i,
			Record:  r,
			Lot:     lot,
			Serial:  serial,
			Payload: BuildPayload(lot, serial, r.CompanyCode, r.ItemNo, r.Quantity, r.OrderNo),
		}
	}
	return labels
}

// Generate 生成一批标签的PNG与XLSX。任何一步失败都不产出部分结果。
func (s *LabelService) Generate(ctx context.Context, records []entity.LabelRecord) (*entity.Batch, error) {
	if err := s.Validate(records); err != nil {
		return nil, err
	}
	start := time.Now()
	anchor := s.serials.Anchor()
	labels := s.Issue(records, anchor)

	canvases := make([]image.Image, len(labels))
	for i := range labels {
		canvas, err := s.renderer.Render(labels[i])
		if err != nil {
			s.logger.Error("render label failed", zap.Int("index", i), zap.Error(err))
			return nil, fmt.Errorf("render label %d: %w", i, err)
		}
		labels[i].Canvas = canvas
		canvases[i] = canvas
	}

	tiled, err := TileCanvases(canvases)
	if err != nil {
		return nil, err
	}
	pngBytes, err := EncodePNG(tiled)
	if err != nil {
		return nil, err
	}

	xlsxBytes, err := s.fillTemplate(ctx, labels)
	if err != nil {
		s.logger.Error("fill template failed", zap.Int("count", len(labels)), zap.Error(err))
		return nil, err
	}

	batch := &entity.Batch{
		Labels:    labels,
		PNG:       pngBytes,
		XLSX:      xlsxBytes,
		PNGName:   BatchPNGName,
		XLSXName:  BatchXLSXName,
		CreatedAt: anchor,
	}
	if len(labels) == 1 {
		batch.PNGName = SinglePNGName
		batch.XLSXName = SingleXLSXName(labels[0].Serial)
	}

	s.logger.Info("label batch generated",
		zap.Int("count", len(labels)),
		zap.String("first_serial", string(labels[0].Serial)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return batch, nil
}

func (s *LabelService) fillTemplate(ctx context.Context, labels []entity.IssuedLabel) ([]byte, error) {
	f, err := s.templates.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("open template: %w", err)
	}
	defer f.Close()

	wb, err := NewExcelWorkbook(f, s.sheet)
	if err != nil {
		return nil, err
	}
	if err := s.layout.Fill(wb, labels); err != nil {
		return nil, err
	}
	return WorkbookBytes(wb)
}

// Template returns the active template as xlsx bytes.
func (s *LabelService) Template(ctx context.Context) ([]byte, error) {
	f, err := s.templates.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("open template: %w", err)
	}
	defer f.Close()
	var wb Workbook = &ExcelWorkbook{file: f}
	return WorkbookBytes(wb)
}
