package service

import (
	"fmt"
	"strings"

	"github.com/bitfantasy/qr-label/internal/label/entity"
)

// UnknownCode stands in for a year or month outside the lookup tables.
const UnknownCode = 'Z'

// MonthTable maps January..December to lot letters.
type MonthTable [12]byte

// Two month tables are in circulation; which one the plant uses is a deployment choice.
var (
	// MonthTableSequential A..K with M for December.
	MonthTableSequential = MonthTable{'A', 'B', 'C', 'D', 'E', 'F', 'G', 'H', 'I', 'J', 'K', 'M'}
	// MonthTableSkipI skips I, so September is J.
	MonthTableSkipI = MonthTable{'A', 'B', 'C', 'D', 'E', 'F', 'G', 'H', 'J', 'K', 'L', 'M'}
)

var monthTables = map[string]MonthTable{
	"sequential": MonthTableSequential,
	"skip_i":     MonthTableSkipI,
}

// MonthTableByName 按配置名取月份表
func MonthTableByName(name string) (MonthTable, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return MonthTableSequential, nil
	}
	t, ok := monthTables[key]
	if !ok {
		return MonthTable{}, fmt.Errorf("unknown month table %q", name)
	}
	return t, nil
}

var yearCodes = map[int]byte{
	2020: 'K', 2021: 'L', 2022: 'M', 2023: 'A', 2024: 'B', 2025: 'C',
	2026: 'D', 2027: 'E', 2028: 'F', 2029: 'G', 2030: 'H', 2031: 'J',
}

// LotCodeEncoder 生产日期 → LOT No.
type LotCodeEncoder struct {
	months MonthTable
}

// NewLotCodeEncoder 创建LOT编码器
func NewLotCodeEncoder(months MonthTable) *LotCodeEncoder {
	return &LotCodeEncoder{months: months}
}

// Encode never fails: unknown years and months become 'Z'.
func (e *LotCodeEncoder) Encode(d entity.Date) entity.LotCode {
	y, ok := yearCodes[d.Year]
	if !ok {
		y = UnknownCode
	}
	m := byte(UnknownCode)
	if d.Month >= 1 && d.Month <= 12 {
		m = e.months[d.Month-1]
	}
	return entity.LotCode(fmt.Sprintf("%c%c%02d", y, m, d.Day))
}
