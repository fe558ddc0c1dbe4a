package service

import (
	"strings"

	"github.com/bitfantasy/qr-label/internal/label/entity"
)

// PayloadSeparator 二维码字段分隔符
const PayloadSeparator = "#"

// BuildPayload {lot}{serial}{code}#{item}#{qty}#{order}. Fields are taken verbatim,
// a '#' inside a field is not escaped.
func BuildPayload(lot entity.LotCode, serial entity.SerialNumber, companyCode, itemNo, qty, orderNo string) entity.QrPayload {
	var b strings.Builder
	b.Grow(len(lot) + len(serial) + len(companyCode) + len(itemNo) + len(qty) + len(orderNo) + 3)
	b.WriteString(string(lot))
	b.WriteString(string(serial))
	b.WriteString(companyCode)
	b.WriteString(PayloadSeparator)
	b.WriteString(itemNo)
	b.WriteString(PayloadSeparator)
	b.WriteString(qty)
	b.WriteString(PayloadSeparator)
	b.WriteString(orderNo)
	return entity.QrPayload(b.String())
}
