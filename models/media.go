package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Category struct {
	Id   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"size:64;uniqueIndex;not null"`
}

type Tag struct {
	Id   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"size:64;uniqueIndex;not null"`
}

// MediaItem is one library entry, keyed by its share URL.
type MediaItem struct {
	Id         string    `json:"id" gorm:"primaryKey"`
	SourceURL  string    `json:"source_url" gorm:"size:1024;uniqueIndex;not null"`
	Title      string    `json:"title" gorm:"size:512"`
	Thumbnail  string    `json:"thumbnail" gorm:"size:2048"`
	SizeBytes  *int64    `json:"size_bytes"`
	CategoryID *uint     `json:"category_id"`
	Category   *Category `json:"category,omitempty" gorm:"foreignKey:CategoryID;references:Id"`
	Tags       []Tag     `json:"tags" gorm:"many2many:media_tags"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (item *MediaItem) BeforeCreate(tx *gorm.DB) (err error) {
	// UUID version 4
	item.Id = uuid.NewString()
	return
}
