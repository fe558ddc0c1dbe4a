package handler

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"

	"github.com/bitfantasy/qr-label/internal/label/entity"
	"github.com/bitfantasy/qr-label/internal/label/repository"
	"github.com/bitfantasy/qr-label/internal/label/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	contentTypePNG  = "image/png"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	templateName    = "label_template.xlsx"
)

// LabelHandler 标签处理器
type LabelHandler struct {
	svc       *service.LabelService
	importer  *service.RecordImporter
	store     repository.ArtifactStore
	maxUpload int64
	basePath  string
	logger    *zap.Logger
}

// NewLabelHandler 创建标签处理器
func NewLabelHandler(svc *service.LabelService, importer *service.RecordImporter, store repository.ArtifactStore, maxUpload int64, logger *zap.Logger) *LabelHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxUpload <= 0 {
		maxUpload = 5 << 20
	}
	return &LabelHandler{svc: svc, importer: importer, store: store, maxUpload: maxUpload, logger: logger}
}

// GenerateRequest 生成请求
type GenerateRequest struct {
	Labels []entity.LabelRecord `json:"labels" binding:"required"`
}

// LabelView 单张标签的编码结果
type LabelView struct {
	Index   int    `json:"index"`
	Lot     string `json:"lot"`
	Serial  string `json:"serial"`
	Payload string `json:"payload"`
}

// BatchView 批次信息
type BatchView struct {
	BatchID  string      `json:"batch_id"`
	Labels   []LabelView `json:"labels"`
	PNGName  string      `json:"png_name"`
	XLSXName string      `json:"xlsx_name"`
	PNGURL   string      `json:"png_url"`
	XLSXURL  string      `json:"xlsx_url"`
	Preview  string      `json:"preview,omitempty"`
}

func (h *LabelHandler) newBatchView(b *entity.Batch, withPreview bool) BatchView {
	base := fmt.Sprintf("%s/batches/%s", h.basePath, b.ID)
	v := BatchView{
		BatchID:  b.ID,
		Labels:   make([]LabelView, len(b.Labels)),
		PNGName:  b.PNGName,
		XLSXName: b.XLSXName,
		PNGURL:   base + "/png",
		XLSXURL:  base + "/xlsx",
	}
	for i, l := range b.Labels {
		v.Labels[i] = LabelView{Index: l.Index, Lot: string(l.Lot), Serial: string(l.Serial), Payload: string(l.Payload)}
	}
	if withPreview {
		v.Preview = "data:image/png;base64," + base64.StdEncoding.EncodeToString(b.PNG)
	}
	return v
}

// Preview POST /labels/preview
func (h *LabelHandler) Preview(c *gin.Context) {
	batch, ok := h.generate(c)
	if !ok {
		return
	}
	if _, err := h.store.Put(c.Request.Context(), batch); err != nil {
		h.fail(c, err)
		return
	}
	Created(c, h.newBatchView(batch, true))
}

// DownloadPNG POST /labels/png
func (h *LabelHandler) DownloadPNG(c *gin.Context) {
	batch, ok := h.generate(c)
	if !ok {
		return
	}
	sendFile(c, contentTypePNG, batch.PNGName, batch.PNG)
}

// DownloadXLSX POST /labels/xlsx
func (h *LabelHandler) DownloadXLSX(c *gin.Context) {
	batch, ok := h.generate(c)
	if !ok {
		return
	}
	sendFile(c, contentTypeXLSX, batch.XLSXName, batch.XLSX)
}

// GetBatch GET /labels/batches/:id
func (h *LabelHandler) GetBatch(c *gin.Context) {
	batch, err := h.store.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	Success(c, h.newBatchView(batch, false))
}

// BatchPNG GET /labels/batches/:id/png
func (h *LabelHandler) BatchPNG(c *gin.Context) {
	batch, err := h.store.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	sendFile(c, contentTypePNG, batch.PNGName, batch.PNG)
}

// BatchXLSX GET /labels/batches/:id/xlsx
func (h *LabelHandler) BatchXLSX(c *gin.Context) {
	batch, err := h.store.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	sendFile(c, contentTypeXLSX, batch.XLSXName, batch.XLSX)
}

// Import POST /labels/import (multipart field "file")
func (h *LabelHandler) Import(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload)
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			TooLarge(c, "上传文件过大")
			return
		}
		BadRequest(c, "请上传标签文件: "+err.Error())
		return
	}
	defer file.Close()

	records, err := h.importer.Import(file, header.Filename)
	if err != nil {
		if errors.Is(err, service.ErrUnsupportedFormat) {
			h.fail(c, err)
			return
		}
		BadRequest(c, "无法解析标签文件: "+err.Error())
		return
	}
	if err := h.svc.Validate(records); err != nil {
		h.fail(c, err)
		return
	}
	Success(c, gin.H{"count": len(records), "labels": records})
}

// LotCode GET /labels/lot-code?date=YYYY/MM/DD
func (h *LabelHandler) LotCode(c *gin.Context) {
	d, err := entity.ParseDate(c.Query("date"))
	if err != nil {
		BadRequest(c, err.Error())
		return
	}
	Success(c, gin.H{"date": d.String(), "lot": h.svc.LotCode(d)})
}

// Template GET /labels/template
func (h *LabelHandler) Template(c *gin.Context) {
	data, err := h.svc.Template(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	sendFile(c, contentTypeXLSX, templateName, data)
}

func (h *LabelHandler) generate(c *gin.Context) (*entity.Batch, bool) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return nil, false
	}
	batch, err := h.svc.Generate(c.Request.Context(), req.Labels)
	if err != nil {
		h.fail(c, err)
		return nil, false
	}
	c.Set("label_count", len(batch.Labels))
	return batch, true
}

func (h *LabelHandler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrBatchSize),
		errors.Is(err, service.ErrInvalidRecord),
		errors.Is(err, service.ErrUnsupportedFormat):
		BadRequest(c, err.Error())
	case errors.Is(err, repository.ErrArtifactNotFound):
		NotFound(c, err.Error())
	default:
		h.logger.Error("label request failed",
			zap.String("path", c.FullPath()),
			zap.String("request_id", c.GetString("request_id")),
			zap.Error(err),
		)
		InternalError(c, err.Error())
	}
}

func sendFile(c *gin.Context, contentType, filename string, data []byte) {
	c.Header("Content-Disposition", "attachment; filename=\""+filename+"\"")
	c.Header("Content-Transfer-Encoding", "binary")
	c.Data(http.StatusOK, contentType, data)
}
