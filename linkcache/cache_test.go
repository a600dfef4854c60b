package linkcache

import (
	"path/filepath"
	"testing"
	"time"

	"teralib-backend/models"
	"teralib-backend/resolver"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "cache.db")), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.CacheRecord{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return NewStore(db)
}

func sizePtr(n int64) *int64 { return &n }

func TestStore_GetMissingReturnsNil(t *testing.T) {
	s := testStore(t)
	rec, err := s.Get("https://terabox.com/s/nothing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec != nil {
		t.Errorf("rec = %+v, want nil", rec)
	}
}

func TestStore_UpsertIsIdempotentPerSourceURL(t *testing.T) {
	s := testStore(t)
	const src = "https://terabox.com/s/abc"

	first := &resolver.ResolvedLink{
		DownloadURL: "https://cdn.terabox.com/v1.mp4",
		ExpiresAt:   time.Now().Add(time.Hour).UTC(),
		SizeBytes:   sizePtr(100),
		ProxyName:   "p1",
		RawFields:   map[string]any{"link": "https://cdn.terabox.com/v1.mp4"},
	}
	second := &resolver.ResolvedLink{
		DownloadURL: "https://cdn.terabox.com/v2.mp4",
		ExpiresAt:   time.Now().Add(2 * time.Hour).UTC(),
		SizeBytes:   sizePtr(200),
		ProxyName:   "p2",
		RawFields:   map[string]any{"link": "https://cdn.terabox.com/v2.mp4"},
	}

	if err := s.Upsert(src, first); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if err := s.Upsert(src, second); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	var count int64
	if err := s.db.Model(&models.CacheRecord{}).Where("source_url = ?", src).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("rows for %s = %d, want exactly 1", src, count)
	}

	rec, err := s.Get(src)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if rec.DownloadURL != second.DownloadURL {
		t.Errorf("DownloadURL = %q, want the second write's value", rec.DownloadURL)
	}
	if rec.SizeBytes == nil || *rec.SizeBytes != 200 {
		t.Errorf("SizeBytes = %v, want 200", rec.SizeBytes)
	}
}

func TestStore_UpsertClearsLastError(t *testing.T) {
	s := testStore(t)
	const src = "https://terabox.com/s/abc"

	if err := s.RecordFailure(src, "no proxy produced a usable link"); err != nil {
		t.Fatalf("record failure: %v", err)
	}
	link := &resolver.ResolvedLink{
		DownloadURL: "https://cdn.terabox.com/v.mp4",
		ExpiresAt:   time.Now().Add(time.Hour).UTC(),
	}
	if err := s.Upsert(src, link); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	rec, _ := s.Get(src)
	if rec.LastError != "" {
		t.Errorf("LastError = %q, want cleared", rec.LastError)
	}
}

func TestStore_RecordFailurePreservesStoredLink(t *testing.T) {
	s := testStore(t)
	const src = "https://terabox.com/s/abc"

	expires := time.Now().Add(time.Hour).UTC()
	if err := s.Upsert(src, &resolver.ResolvedLink{
		DownloadURL: "https://cdn.terabox.com/v.mp4",
		ExpiresAt:   expires,
	}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	if err := s.RecordFailure(src, "all proxies down"); err != nil {
		t.Fatalf("record failure: %v", err)
	}

	rec, _ := s.Get(src)
	if rec.LastError != "all proxies down" {
		t.Errorf("LastError = %q", rec.LastError)
	}
	if rec.DownloadURL != "https://cdn.terabox.com/v.mp4" {
		t.Errorf("DownloadURL = %q, failure must not clobber the stored link", rec.DownloadURL)
	}
	if rec.ExpiresAt == nil || !rec.ExpiresAt.Equal(expires) {
		t.Errorf("ExpiresAt = %v, want untouched %v", rec.ExpiresAt, expires)
	}
}

func TestStore_RecordFailureCreatesRowWhenNoneExists(t *testing.T) {
	s := testStore(t)
	const src = "https://terabox.com/s/new"

	if err := s.RecordFailure(src, "exhausted"); err != nil {
		t.Fatalf("record failure: %v", err)
	}
	rec, _ := s.Get(src)
	if rec == nil {
		t.Fatal("expected a row to be created")
	}
	if rec.DownloadURL != "" {
		t.Errorf("DownloadURL = %q, want empty", rec.DownloadURL)
	}
	if rec.LastError != "exhausted" {
		t.Errorf("LastError = %q", rec.LastError)
	}
}

func TestIsFresh(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	future := now.Add(time.Hour)
	justBefore := now.Add(-time.Microsecond)
	justAfter := now.Add(time.Microsecond)

	tests := []struct {
		name string
		rec  *models.CacheRecord
		want bool
	}{
		{name: "nil_record", rec: nil, want: false},
		{name: "no_download_url", rec: &models.CacheRecord{ExpiresAt: &future}, want: false},
		{name: "future_expiry", rec: &models.CacheRecord{DownloadURL: "https://x/y", ExpiresAt: &future}, want: true},
		// strict comparison: expiring exactly now is already stale
		{name: "expiry_equals_now", rec: &models.CacheRecord{DownloadURL: "https://x/y", ExpiresAt: &now}, want: false},
		{name: "expired_a_microsecond_ago", rec: &models.CacheRecord{DownloadURL: "https://x/y", ExpiresAt: &justBefore}, want: false},
		{name: "expires_a_microsecond_from_now", rec: &models.CacheRecord{DownloadURL: "https://x/y", ExpiresAt: &justAfter}, want: true},
		// missing expiry counts as valid regardless of fetch age
		{name: "nil_expiry_is_fresh", rec: &models.CacheRecord{DownloadURL: "https://x/y", FetchedAt: now.Add(-240 * time.Hour)}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsFresh(tt.rec, now); got != tt.want {
				t.Errorf("IsFresh = %v, want %v", got, tt.want)
			}
		})
	}
}
