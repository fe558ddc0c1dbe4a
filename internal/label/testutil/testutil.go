package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bitfantasy/qr-label/internal/label/entity"
	"github.com/bitfantasy/qr-label/internal/label/service"
	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"golang.org/x/image/font/gofont/goregular"
)

// FixedAnchor 2024-03-05 12:00:00 in Asia/Seoul, serial 240305120000
var FixedAnchor = time.Date(2024, 3, 5, 3, 0, 0, 0, time.UTC)

// SetupRouter creates a gin test router
func SetupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(gin.Recovery())
	return r
}

// Record returns a fully populated label record
func Record() entity.LabelRecord {
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

// Records returns n copies of Record
func Records(n int) []entity.LabelRecord {
	out := make([]entity.LabelRecord, n)
	for i := range out {
		out[i] = Record()
	}
	return out
}

// NewLabelService builds a label service on Go Regular with a fixed clock and
// the built-in template of the given block count.
func NewLabelService(t *testing.T, now time.Time, blocks int) *service.LabelService {
	t.Helper()
	zone, err := service.LoadZone(service.DefaultZone)
	if err != nil {
		t.Fatalf("Failed to load zone: %v", err)
	}
	face, err := service.NewFontFace(goregular.TTF, service.DefaultFontSize)
	if err != nil {
		t.Fatalf("Failed to load font: %v", err)
	}
	symbols := service.NewQRCodeEncoder()
	return service.NewLabelService(service.Options{
		Lots:     service.NewLotCodeEncoder(service.MonthTableSequential),
		Serials:  service.NewSerialAllocator(zone, func() time.Time { return now }),
		Renderer: service.NewLabelRenderer(face, symbols, service.CaptionsEN),
		Layout:   service.NewSheetLayout(symbols, blocks),
		Templates: service.TemplateFunc(func(ctx context.Context) (*excelize.File, error) {
			return service.NewTemplateWorkbook(blocks, service.CaptionsEN)
		}),
		SheetName: service.DefaultSheetName,
	})
}

// DoRequest executes an HTTP request against the test router
func DoRequest(r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		jsonBytes, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBytes)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, _ := http.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// DoUpload posts content as multipart field "file"
func DoUpload(r *gin.Engine, path, filename string, content []byte) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, _ := mw.CreateFormFile("file", filename)
	part.Write(content)
	mw.Close()

	req, _ := http.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ParseResponse parses the JSON response body into a handler.Response-like map
func ParseResponse(w *httptest.ResponseRecorder) map[string]interface{} {
	var result map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &result)
	return result
}
