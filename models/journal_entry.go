package models

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// TranslatedPhrase is one AI-generated phrase translation attached to a visit.
type TranslatedPhrase struct {
	Language   string `json:"language"`
	Original   string `json:"original"`
	Translated string `json:"translated"`
}

// PlaceInfo is the AI-generated background blurb for a visited place.
type PlaceInfo struct {
	Summary string `json:"summary"`
	History string `json:"history"`
}

// Annotations groups the known AI-generated annotation kinds for a journal
// entry. Stored as a single JSON column; absent kinds stay nil/empty.
type Annotations struct {
	PlaceInfo    *PlaceInfo         `json:"placeInfo,omitempty"`
	Phrases      []TranslatedPhrase `json:"phrases,omitempty"`
	CulturalTips []string           `json:"culturalTips,omitempty"`
	GeneratedAt  *time.Time         `json:"generatedAt,omitempty"`
}

// Translated reports whether the entry carries any phrase translations.
func (a Annotations) Translated() bool { return len(a.Phrases) > 0 }

// JournalEntry records an actual visit: either logged directly by the user or
// fanned out from an itinerary completion. Append-only; the fog-of-war view
// is an aggregate over these rows.
type JournalEntry struct {
	ID              uint           `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID          uint           `json:"userId" gorm:"not null;index"`
	User            User           `json:"-" gorm:"foreignKey:UserID"`
	SiteRefID       string         `json:"siteRefId"`
	SiteName        string         `json:"siteName" gorm:"not null"`
	Category        string         `json:"category"`
	Latitude        float64        `json:"latitude" gorm:"not null;type:decimal(10,8)"`
	Longitude       float64        `json:"longitude" gorm:"not null;type:decimal(11,8)"`
	LocationName    string         `json:"locationName"`
	Country         string         `json:"country"`
	State           string         `json:"state"`
	VisitedAt       time.Time      `json:"visitedAt" gorm:"not null;index"`
	Notes           string         `json:"notes" gorm:"type:text"`
	PhotoURLs       pq.StringArray `json:"photoUrls" gorm:"type:text[]"`
	Annotations     Annotations    `json:"annotations" gorm:"serializer:json"`
	ItineraryItemID *uint          `json:"itineraryItemId" gorm:"uniqueIndex"` // guards against duplicate completion fan-out
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
	DeletedAt       gorm.DeletedAt `json:"-" gorm:"index"`
}
