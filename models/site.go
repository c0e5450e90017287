package models

import (
	"time"

	"gorm.io/gorm"
)

// HeritageType is the closed set of heritage classifications a site can carry.
type HeritageType string

const (
	HeritageUNESCO   HeritageType = "unesco"
	HeritageNational HeritageType = "national"
	HeritageRegional HeritageType = "regional"
	HeritageLocal    HeritageType = "local"
)

// Valid reports whether t is one of the known heritage classifications.
func (t HeritageType) Valid() bool {
	switch t {
	case HeritageUNESCO, HeritageNational, HeritageRegional, HeritageLocal:
		return true
	}
	return false
}

// Site is a discoverable point of interest. Sites fetched from the external
// source are immutable for a given search; itineraries copy what they need.
type Site struct {
	ID           uint           `json:"id" gorm:"primaryKey;autoIncrement"`
	RefID        string         `json:"refId" gorm:"uniqueIndex;not null"` // external source identifier
	Name         string         `json:"name" gorm:"not null"`
	Description  string         `json:"description" gorm:"type:text"`
	Address      string         `json:"address"`
	Category     string         `json:"category"`
	Rating       float64        `json:"rating" gorm:"default:0;type:decimal(3,2)"`
	Latitude     float64        `json:"latitude" gorm:"not null;type:decimal(10,8)"`
	Longitude    float64        `json:"longitude" gorm:"not null;type:decimal(11,8)"`
	HeritageType *HeritageType  `json:"heritageType" gorm:"type:varchar(20)"`
	ImageURL     string         `json:"imageUrl"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`
	Distance     float64        `json:"distance,omitempty" gorm:"-"`
}
