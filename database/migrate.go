package database

import (
	"log"

	"teralib-backend/models"
)

// AutoMigrate applies (idempotent) schema migrations. The unique index on
// cache_records.source_url comes from the model tag and is what the cache's
// conflict-aware upsert relies on.
func AutoMigrate() {
	if err := DB.AutoMigrate(
		&models.ProxyDescriptor{},
		&models.CacheRecord{},
		&models.Category{},
		&models.Tag{},
		&models.MediaItem{},
	); err != nil {
		log.Fatalf("automigrate failed: %v", err)
	}
	seedProxies()
}

// seedProxies installs the shipped proxy list on first run. Operators edit or
// replace these through the proxies API.
func seedProxies() {
	var count int64
	if err := DB.Model(&models.ProxyDescriptor{}).Count(&count).Error; err != nil || count > 0 {
		return
	}

	defaults := []models.ProxyDescriptor{
		{Name: "teradl", Endpoint: "https://teradl-api.dapuntaratya.com/generate_file", CallMethod: models.CallPost, Encoding: models.EncodingJSON, FieldName: "url", Priority: 1, Enabled: true},
		{Name: "teraboxdl", Endpoint: "https://teraboxdl.site/api/terabox", CallMethod: models.CallGet, Encoding: models.EncodingQuery, FieldName: "url", Priority: 2, Enabled: true},
		{Name: "terafast", Endpoint: "https://terafast.net/api/resolve", CallMethod: models.CallPost, Encoding: models.EncodingForm, FieldName: "link", Priority: 3, Enabled: true},
	}
	if err := DB.Create(&defaults).Error; err != nil {
		log.Printf("seeding default proxies failed: %v", err)
	}
}
