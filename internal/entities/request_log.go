package entities

import "time"

// RequestLog is an append-only audit record of one listing request.
type RequestLog struct {
	ID           uint   `gorm:"primaryKey"`
	URL          string `gorm:"type:text;not null"`
	Params       string `gorm:"type:text"`
	StatusCode   int
	ResponseTime float64
	TotalResults int
	HasMore      bool
	Cookies      string `gorm:"type:text"`
	CreatedAt    time.Time
}
