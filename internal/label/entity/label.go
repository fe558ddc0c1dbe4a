package entity

import (
	"image"
	"time"
)

// LabelRecord 表单提交的一张标签的原始字段
type LabelRecord struct {
	CompanyName    string `json:"company_name" yaml:"company_name"`
	CompanyCode    string `json:"company_code" yaml:"company_code"`
	ItemNo         string `json:"item_no" yaml:"item_no"`
	Spec           string `json:"spec" yaml:"spec"`
	Quantity       string `json:"quantity" yaml:"quantity"`
	ProductionDate Date   `json:"production_date" yaml:"production_date" validate:"required"`
	DeliveryDate   Date   `json:"delivery_date" yaml:"delivery_date" validate:"required"`
	OrderNo        string `json:"order_no" yaml:"order_no"`
}

// LotCode 4-character production lot code: year char, month char, 2-digit day.
type LotCode string

// SerialNumber yyMMddHHmmss in the civil zone.
type SerialNumber string

// QrPayload 写入二维码的追溯字符串
type QrPayload string

// IssuedLabel 一张已编码的标签
type IssuedLabel struct {
	Index   int          `json:"index"`
	Record  LabelRecord  `json:"record"`
	Lot     LotCode      `json:"lot"`
	Serial  SerialNumber `json:"serial"`
	Payload QrPayload    `json:"payload"`
	Canvas  image.Image  `json:"-"`
}

// Batch 一次提交生成的导出物
type Batch struct {
	ID        string        `json:"id"`
	Labels    []IssuedLabel `json:"labels"`
	PNG       []byte        `json:"-"`
	XLSX      []byte        `json:"-"`
	PNGName   string        `json:"png_name"`
	XLSXName  string        `json:"xlsx_name"`
	CreatedAt time.Time     `json:"created_at"`
}
