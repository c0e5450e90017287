package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID             uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"deleted_at"`
	Username       string         `gorm:"unique;not null" json:"username"`
	Email          string         `gorm:"unique;not null" json:"email"`
	Password       *string        `json:"-"` // nil for OAuth-only accounts
	GoogleID       *string        `gorm:"unique" json:"-"`
	Provider       string         `gorm:"default:'email'" json:"provider"`
	DisplayName    string         `json:"display_name"`
	Avatar         string         `json:"avatar"`
	HomeCountry    string         `json:"home_country"`
	Itineraries    []Itinerary    `json:"-" gorm:"foreignKey:UserID"`
	JournalEntries []JournalEntry `json:"-" gorm:"foreignKey:UserID"`
	RefreshTokens  []RefreshToken `json:"-" gorm:"foreignKey:UserID"`
	EmailVerified  bool           `json:"email_verified"`
}
