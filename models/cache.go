package models

import (
	"time"

	"gorm.io/datatypes"
)

// CacheRecord is the persisted resolution outcome for one source URL.
// There is exactly one row per source URL (unique key); both successful and
// failed resolutions produce/update the row. Rows are never deleted by the
// resolution core — removal is a media-item lifecycle concern.
type CacheRecord struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	SourceURL   string     `json:"source_url" gorm:"size:1024;uniqueIndex;not null"`
	DownloadURL string     `json:"download_url" gorm:"size:2048"`
	ExpiresAt   *time.Time `json:"expires_at"`
	FetchedAt   time.Time  `json:"fetched_at"`
	SizeBytes   *int64     `json:"size_bytes"`

	// LastError holds the reason of the most recent exhausted resolution;
	// empty after a success.
	LastError string `json:"last_error"`

	// RawPayload keeps the normalized proxy response so the library layer can
	// extract title/thumbnail without a second upstream call.
	RawPayload datatypes.JSON `json:"-"`

	CreatedAt time.Time `json:"created_at"`
}
