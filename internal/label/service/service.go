package service

import (
	"fmt"

	"github.com/bitfantasy/qr-label/internal/config"
	"go.uber.org/zap"
)

// Services 服务集合
type Services struct {
	Label    *LabelService
	Importer *RecordImporter
}

// NewServices wires the label engine from configuration. Font or zone errors
// are returned so the process refuses to start rather than print bad labels.
func NewServices(cfg *config.Config, templates TemplateSource, logger *zap.Logger) (*Services, error) {
	lc := cfg.Label

	months, err := MonthTableByName(lc.MonthTable)
	if err != nil {
		return nil, err
	}
	zone, err := LoadZone(lc.Timezone)
	if err != nil {
		return nil, err
	}
	captions, err := CaptionsByLocale(lc.Locale)
	if err != nil {
		return nil, err
	}
	face, err := LoadFontFace(lc.FontPath, lc.FontSize)
	if err != nil {
		return nil, fmt.Errorf("load label font: %w", err)
	}
	if lc.FontPath == "" && lc.Locale != "en" {
		logger.Warn("label.font_path is empty, Hangul captions will render without glyphs")
	}

	symbols := NewQRCodeEncoder()
	label := NewLabelService(Options{
		Lots:      NewLotCodeEncoder(months),
		Serials:   NewSerialAllocator(zone, nil),
		Renderer:  NewLabelRenderer(face, symbols, captions),
		Layout:    NewSheetLayout(symbols, lc.TemplateBlocks),
		Templates: templates,
		SheetName: lc.SheetName,
		MaxBatch:  lc.MaxBatch,
		Logger:    logger.Named("label"),
	})
	return &Services{Label: label, Importer: NewRecordImporter()}, nil
}
