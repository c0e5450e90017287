package models

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Discovery is a community-feed post sharing a visited place.
type Discovery struct {
	ID        uint            `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID    uint            `json:"userId" gorm:"not null;index"`
	User      User            `json:"user" gorm:"foreignKey:UserID"`
	Caption   string          `json:"caption" gorm:"type:text"`
	MediaType string          `json:"mediaType" gorm:"not null;type:varchar(10)"` // "photo" or "video"
	MediaURLs pq.StringArray  `json:"mediaUrls" gorm:"type:text[]"`
	SiteName  string          `json:"siteName"`
	Latitude  float64         `json:"latitude" gorm:"type:decimal(10,8)"`
	Longitude float64         `json:"longitude" gorm:"type:decimal(11,8)"`
	Likes     []DiscoveryLike `json:"-" gorm:"foreignKey:DiscoveryID"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
	DeletedAt gorm.DeletedAt  `json:"-" gorm:"index"`
}

type DiscoveryLike struct {
	ID          uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	DiscoveryID uint      `json:"discoveryId" gorm:"not null;uniqueIndex:idx_discovery_user"`
	UserID      uint      `json:"userId" gorm:"not null;uniqueIndex:idx_discovery_user"`
	CreatedAt   time.Time `json:"createdAt"`

	User      User      `json:"-" gorm:"foreignKey:UserID"`
	Discovery Discovery `json:"-" gorm:"foreignKey:DiscoveryID"`
}
