package models

import (
	"time"

	"gorm.io/gorm"
)

// SourceSnapshot records one source downloaded during a load.
// All rows written by the same load share a LoadID.
type SourceSnapshot struct {
	gorm.Model
	LoadID     string    `gorm:"index;not null" json:"load_id"`
	Source     string    `gorm:"not null" json:"source"`
	URL        string    `json:"url"`
	Bytes      int       `json:"bytes"`
	Rows       int       `json:"rows"`
	Duplicates int       `json:"duplicates"`
	SHA256     string    `gorm:"column:sha256" json:"sha256"`
	FetchedAt  time.Time `json:"fetched_at"`
}
