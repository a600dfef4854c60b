package models

import "time"

// Call method / encoding values a ProxyDescriptor may carry.
const (
	CallGet  = "GET"
	CallPost = "POST"

	EncodingJSON  = "json"
	EncodingQuery = "query"
	EncodingForm  = "form"
)

// ProxyDescriptor is one operator-configured resolver proxy. The enabled
// descriptors, ordered by ascending priority, form the fallback chain for a
// resolution pass; the list is read once per pass and never mutated by it.
type ProxyDescriptor struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	Name       string    `json:"name" gorm:"size:64;uniqueIndex;not null"`
	Endpoint   string    `json:"endpoint" gorm:"size:512;not null"`
	CallMethod string    `json:"call_method" gorm:"size:8;not null"`
	Encoding   string    `json:"encoding" gorm:"size:8;not null"`
	FieldName  string    `json:"field_name" gorm:"size:64;not null"`
	Priority   int       `json:"priority" gorm:"index"`
	Enabled    bool      `json:"enabled"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
