package handler

import (
	"github.com/bitfantasy/qr-label/internal/label/repository"
	"github.com/bitfantasy/qr-label/internal/label/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handlers 处理器集合
type Handlers struct {
	Label *LabelHandler
}

// NewHandlers 创建处理器集合
func NewHandlers(svc *service.Services, repos *repository.Repositories, maxUpload int64, logger *zap.Logger) *Handlers {
	return &Handlers{
		Label: NewLabelHandler(svc.Label, svc.Importer, repos.Artifacts, maxUpload, logger),
	}
}

// Register 注册标签路由
func (h *Handlers) Register(api *gin.RouterGroup) {
	labels := api.Group("/labels")
	h.Label.basePath = labels.BasePath()
	{
		labels.POST("/preview", h.Label.Preview)
		labels.POST("/png", h.Label.DownloadPNG)
		labels.POST("/xlsx", h.Label.DownloadXLSX)
		labels.POST("/import", h.Label.Import)
		labels.GET("/batches/:id", h.Label.GetBatch)
		labels.GET("/batches/:id/png", h.Label.BatchPNG)
		labels.GET("/batches/:id/xlsx", h.Label.BatchXLSX)
		labels.GET("/lot-code", h.Label.LotCode)
		labels.GET("/template", h.Label.Template)
	}
}

// Response 通用响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(200, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Created 创建成功响应
func Created(c *gin.Context, data interface{}) {
	c.JSON(201, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Error 错误响应
func Error(c *gin.Context, code int, message string) {
	statusCode := code / 100
	if statusCode < 100 || statusCode > 599 {
		statusCode = 500
	}
	c.JSON(statusCode, Response{
		Code:    code,
		Message: message,
	})
}

// BadRequest 参数错误响应
func BadRequest(c *gin.Context, message string) {
	Error(c, 40000, message)
}

// NotFound 资源不存在响应
func NotFound(c *gin.Context, message string) {
	Error(c, 40400, message)
}

// TooLarge 上传文件过大
func TooLarge(c *gin.Context, message string) {
	Error(c, 41300, message)
}

// InternalError 服务器错误响应
func InternalError(c *gin.Context, message string) {
	Error(c, 50000, message)
}
