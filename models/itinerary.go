package models

import (
	"time"

	"gorm.io/gorm"
)

// Itinerary is a user's named, ordered collection of sites for one trip.
// Lifecycle: created as a draft, saved with its items in one operation, and
// optionally marked completed. Once is_completed is true it stays true.
type Itinerary struct {
	ID             uint            `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID         uint            `json:"userId" gorm:"not null;index"`
	User           User            `json:"-" gorm:"foreignKey:UserID"`
	Name           string          `json:"name" gorm:"not null"`
	Location       string          `json:"location"`
	StartDate      *string         `json:"startDate" gorm:"type:varchar(10)"` // YYYY-MM-DD
	EndDate        *string         `json:"endDate" gorm:"type:varchar(10)"`
	Description    string          `json:"description" gorm:"type:text"`
	IsSmartPlanned bool            `json:"isSmartPlanned" gorm:"default:false"`
	IsCompleted    bool            `json:"isCompleted" gorm:"default:false"`
	Items          []ItineraryItem `json:"items" gorm:"foreignKey:ItineraryID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
	DeletedAt      gorm.DeletedAt  `json:"-" gorm:"index"`
}

// ItineraryItem is a denormalized snapshot of a site at the moment it was
// added to an itinerary. The copy is deliberate: a saved trip must not change
// if the upstream site catalog does. order_index values within one itinerary
// form a contiguous 0-based sequence.
type ItineraryItem struct {
	ID           uint          `json:"id" gorm:"primaryKey;autoIncrement"`
	ItineraryID  uint          `json:"itineraryId" gorm:"not null;index"`
	SiteRefID    string        `json:"siteRefId" gorm:"not null"`
	Name         string        `json:"name" gorm:"not null"`
	Description  string        `json:"description" gorm:"type:text"`
	Address      string        `json:"address"`
	Category     string        `json:"category"`
	HeritageType *HeritageType `json:"heritageType" gorm:"type:varchar(20)"`
	Rating       float64       `json:"rating" gorm:"default:0;type:decimal(3,2)"`
	Latitude     float64       `json:"latitude" gorm:"not null;type:decimal(10,8)"`
	Longitude    float64       `json:"longitude" gorm:"not null;type:decimal(11,8)"`
	OrderIndex   int           `json:"orderIndex" gorm:"not null;default:0"`
	VisitDate    *time.Time    `json:"visitDate"`
	VisitNotes   string        `json:"visitNotes" gorm:"type:text"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}
