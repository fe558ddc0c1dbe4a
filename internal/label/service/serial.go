package service

import (
	"fmt"
	"time"
	_ "time/tzdata"

	"github.com/bitfantasy/qr-label/internal/label/entity"
)

// SerialLayout yyMMddHHmmss
const SerialLayout = "060102150405"

// DefaultZone 标签流水号使用的民用时区
const DefaultZone = "Asia/Seoul"

// LoadZone resolves a civil zone name against the embedded tz database.
func LoadZone(name string) (*time.Location, error) {
	if name == "" {
		name = DefaultZone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("load time zone %q: %w", name, err)
	}
	return loc, nil
}

// SerialAllocator 按批次锚点生成流水号
type SerialAllocator struct {
	zone *time.Location
	now  func() time.Time
}

// NewSerialAllocator now may be nil, in which case time.Now is used.
func NewSerialAllocator(zone *time.Location, now func() time.Time) *SerialAllocator {
	if now == nil {
		now = time.Now
	}
	return &SerialAllocator{zone: zone, now: now}
}

// Anchor reads the clock once for a submission and pins it to the civil zone.
func (a *SerialAllocator) Anchor() time.Time {
	return a.now().In(a.zone)
}

// Serial is a pure function of anchor and offset. Offsets are label indexes,
// so serials stay unique only while a batch is at most 60 labels.
func (a *SerialAllocator) Serial(anchor time.Time, offset int) entity.SerialNumber {
	t := anchor.Add(time.Duration(offset) * time.Second).In(a.zone)
	return entity.SerialNumber(t.Format(SerialLayout))
}
