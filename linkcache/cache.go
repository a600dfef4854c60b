package linkcache

import (
	"encoding/json"
	"errors"
	"time"

	"teralib-backend/models"
	"teralib-backend/resolver"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store persists resolved links keyed by source URL. All writes for a key go
// through a single conflict-aware statement, so concurrent resolutions for
// the same URL cannot interleave partial updates — last write wins whole.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Get returns the cache row for sourceURL, or nil when none exists yet.
func (s *Store) Get(sourceURL string) (*models.CacheRecord, error) {
	var rec models.CacheRecord
	err := s.db.Where("source_url = ?", sourceURL).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Upsert stores a successful resolution, overwriting any previous link state
// and clearing the failure marker.
func (s *Store) Upsert(sourceURL string, link *resolver.ResolvedLink) error {
	raw, err := json.Marshal(link.RawFields)
	if err != nil {
		raw = nil
	}
	expires := link.ExpiresAt
	rec := models.CacheRecord{
		SourceURL:   sourceURL,
		DownloadURL: link.DownloadURL,
		ExpiresAt:   &expires,
		FetchedAt:   time.Now().UTC(),
		SizeBytes:   link.SizeBytes,
		LastError:   "",
		RawPayload:  raw,
	}
	return s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "source_url"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"download_url", "expires_at", "fetched_at",
			"size_bytes", "last_error", "raw_payload",
		}),
	}).Create(&rec).Error
}

// RecordFailure marks an exhausted resolution. Any previously stored link and
// expiry are left untouched: a stale-but-present link is still worth showing,
// even though it will fail the freshness check.
func (s *Store) RecordFailure(sourceURL, reason string) error {
	rec := models.CacheRecord{
		SourceURL: sourceURL,
		FetchedAt: time.Now().UTC(),
		LastError: reason,
	}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "source_url"}},
		DoUpdates: clause.AssignmentColumns([]string{"last_error", "fetched_at"}),
	}).Create(&rec).Error
}

// IsFresh reports whether rec still carries a presumably valid link. A record
// without expiry counts as valid. The comparison is strict: a link expiring
// exactly now is already stale.
func IsFresh(rec *models.CacheRecord, now time.Time) bool {
	if rec == nil || rec.DownloadURL == "" {
		return false
	}
	return rec.ExpiresAt == nil || now.Before(*rec.ExpiresAt)
}
