package models

import (
	"time"

	"gorm.io/gorm"
)

// Link is a stored dynamic link record, keyed by its token.
type Link struct {
	ID              uint            `gorm:"primaryKey" json:"-"`
	Token           string          `gorm:"uniqueIndex;size:32;not null" json:"token"`
	TargetURL       string          `gorm:"not null" json:"targetUrl"`
	DynamicLinkInfo DynamicLinkInfo `gorm:"serializer:json;type:text" json:"dynamicLinkInfo"`
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"createdAt"`
	ExpiresAt       *time.Time      `gorm:"index" json:"expiresAt,omitempty"`
	ClickCount      int64           `gorm:"not null;default:0" json:"clickCount"`
}

// IsExpired reports whether the link can no longer be resolved at now.
// A link without ExpiresAt never expires.
func (l *Link) IsExpired(now time.Time) bool {
	return l.ExpiresAt != nil && !l.ExpiresAt.After(now)
}

// AutoMigrate runs GORM auto-migration for the link table
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&Link{})
}
