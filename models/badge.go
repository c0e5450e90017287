package models

import (
	"time"
)

// BadgeRule selects the counting rule a badge's progress is computed with.
type BadgeRule string

const (
	RuleTranslatedEntries BadgeRule = "translated_entries" // journal entries carrying phrase translations
	RuleVisits            BadgeRule = "visits"             // total journal entries
	RuleLanguages         BadgeRule = "languages"          // distinct languages across phrase translations
	RuleKeyword           BadgeRule = "keyword"            // site name / notes containing the badge keyword
	RuleVideos            BadgeRule = "videos"             // discoveries with video media
	RuleLikes             BadgeRule = "likes"              // cumulative likes across the user's discoveries
	RuleCountries         BadgeRule = "countries"          // distinct countries across journal entries
)

// Badge is one row of the fixed badge catalog.
type Badge struct {
	ID          uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Code        string    `json:"code" gorm:"uniqueIndex;not null"`
	Name        string    `json:"name" gorm:"not null"`
	Description string    `json:"description" gorm:"type:text"`
	Icon        string    `json:"icon"`
	Rule        BadgeRule `json:"rule" gorm:"not null;type:varchar(30)"`
	Keyword     string    `json:"keyword"` // only used by RuleKeyword
	MaxProgress int       `json:"maxProgress" gorm:"not null"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// UserBadge is per-user badge progress. UnlockedAt is written once, on the
// recompute that first crosses the threshold, and is never cleared afterwards.
type UserBadge struct {
	ID         uint       `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID     uint       `json:"userId" gorm:"not null;uniqueIndex:idx_user_badge"`
	BadgeID    uint       `json:"badgeId" gorm:"not null;uniqueIndex:idx_user_badge"`
	Badge      Badge      `json:"badge" gorm:"foreignKey:BadgeID"`
	Progress   int        `json:"progress" gorm:"not null;default:0"`
	Unlocked   bool       `json:"unlocked" gorm:"default:false"`
	UnlockedAt *time.Time `json:"unlockedAt"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}
