package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/odyssey-app/api-go/models"
	"github.com/odyssey-app/api-go/services"
)

func seedBadge(t *testing.T, db *gorm.DB, code string, rule models.BadgeRule, keyword string, max int) models.Badge {
	t.Helper()
	badge := models.Badge{Code: code, Name: code, Rule: rule, Keyword: keyword, MaxProgress: max}
	require.NoError(t, db.Create(&badge).Error)
	return badge
}

func seedEntry(t *testing.T, db *gorm.DB, userID uint, entry models.JournalEntry) models.JournalEntry {
	t.Helper()
	entry.UserID = userID
	if entry.SiteName == "" {
		entry.SiteName = "somewhere"
	}
	if entry.VisitedAt.IsZero() {
		entry.VisitedAt = time.Now()
	}
	require.NoError(t, db.Create(&entry).Error)
	return entry
}

func userProgress(t *testing.T, db *gorm.DB, userID, badgeID uint) models.UserBadge {
	t.Helper()
	var ub models.UserBadge
	require.NoError(t, db.Where("user_id = ? AND badge_id = ?", userID, badgeID).First(&ub).Error)
	return ub
}

func TestRecomputeVisitRule(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "maya")
	badge := seedBadge(t, db, "wanderer", models.RuleVisits, "", 3)
	svc := services.NewBadgeService(db)

	seedEntry(t, db, user.ID, models.JournalEntry{})
	seedEntry(t, db, user.ID, models.JournalEntry{})

	require.NoError(t, svc.Recompute(context.Background(), user.ID))
	ub := userProgress(t, db, user.ID, badge.ID)
	assert.Equal(t, 2, ub.Progress)
	assert.False(t, ub.Unlocked)
	assert.Nil(t, ub.UnlockedAt)

	seedEntry(t, db, user.ID, models.JournalEntry{})
	require.NoError(t, svc.Recompute(context.Background(), user.ID))
	ub = userProgress(t, db, user.ID, badge.ID)
	assert.Equal(t, 3, ub.Progress)
	assert.True(t, ub.Unlocked)
	require.NotNil(t, ub.UnlockedAt)
}

func TestRecomputeTranslationAndLanguageRules(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "maya")
	translated := seedBadge(t, db, "translator", models.RuleTranslatedEntries, "", 10)
	languages := seedBadge(t, db, "polyglot", models.RuleLanguages, "", 5)
	svc := services.NewBadgeService(db)

	seedEntry(t, db, user.ID, models.JournalEntry{Annotations: models.Annotations{
		Phrases: []models.TranslatedPhrase{
			{Language: "Japanese", Original: "hello", Translated: "konnichiwa"},
			{Language: "japanese", Original: "thanks", Translated: "arigatou"},
		},
	}})
	seedEntry(t, db, user.ID, models.JournalEntry{Annotations: models.Annotations{
		Phrases: []models.TranslatedPhrase{{Language: "Korean", Original: "hello", Translated: "annyeong"}},
	}})
	seedEntry(t, db, user.ID, models.JournalEntry{}) // no translations

	require.NoError(t, svc.Recompute(context.Background(), user.ID))

	assert.Equal(t, 2, userProgress(t, db, user.ID, translated.ID).Progress)
	// Case-insensitive: Japanese twice counts once.
	assert.Equal(t, 2, userProgress(t, db, user.ID, languages.ID).Progress)
}

func TestRecomputeKeywordRule(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "maya")
	badge := seedBadge(t, db, "temple_seeker", models.RuleKeyword, "temple", 5)
	svc := services.NewBadgeService(db)

	seedEntry(t, db, user.ID, models.JournalEntry{SiteName: "Golden Temple"})
	seedEntry(t, db, user.ID, models.JournalEntry{SiteName: "Harbor", Notes: "tiny temple by the pier"})
	seedEntry(t, db, user.ID, models.JournalEntry{SiteName: "Castle"})

	require.NoError(t, svc.Recompute(context.Background(), user.ID))
	assert.Equal(t, 2, userProgress(t, db, user.ID, badge.ID).Progress)
}

func TestRecomputeCountryRule(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "maya")
	badge := seedBadge(t, db, "globetrotter", models.RuleCountries, "", 10)
	svc := services.NewBadgeService(db)

	seedEntry(t, db, user.ID, models.JournalEntry{Country: "Japan"})
	seedEntry(t, db, user.ID, models.JournalEntry{Country: "japan"})
	seedEntry(t, db, user.ID, models.JournalEntry{Country: "Portugal"})
	seedEntry(t, db, user.ID, models.JournalEntry{}) // country unknown

	require.NoError(t, svc.Recompute(context.Background(), user.ID))
	assert.Equal(t, 2, userProgress(t, db, user.ID, badge.ID).Progress)
}

func TestRecomputeVideoAndLikeRules(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "maya")
	fan := createTestUser(t, db, "kai")
	videos := seedBadge(t, db, "storyteller", models.RuleVideos, "", 5)
	likes := seedBadge(t, db, "crowd_favorite", models.RuleLikes, "", 50)
	svc := services.NewBadgeService(db)

	clip := models.Discovery{UserID: user.ID, MediaType: "video", Caption: "sunrise"}
	require.NoError(t, db.Create(&clip).Error)
	photo := models.Discovery{UserID: user.ID, MediaType: "photo", Caption: "gate"}
	require.NoError(t, db.Create(&photo).Error)

	require.NoError(t, db.Create(&models.DiscoveryLike{DiscoveryID: clip.ID, UserID: fan.ID}).Error)
	require.NoError(t, db.Create(&models.DiscoveryLike{DiscoveryID: photo.ID, UserID: fan.ID}).Error)

	require.NoError(t, svc.Recompute(context.Background(), user.ID))
	assert.Equal(t, 1, userProgress(t, db, user.ID, videos.ID).Progress)
	assert.Equal(t, 2, userProgress(t, db, user.ID, likes.ID).Progress)
}

func TestRecomputeDoesNotRegressUnlock(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "maya")
	badge := seedBadge(t, db, "wanderer", models.RuleVisits, "", 2)
	svc := services.NewBadgeService(db)

	first := seedEntry(t, db, user.ID, models.JournalEntry{})
	seedEntry(t, db, user.ID, models.JournalEntry{})

	require.NoError(t, svc.Recompute(context.Background(), user.ID))
	unlocked := userProgress(t, db, user.ID, badge.ID)
	require.True(t, unlocked.Unlocked)
	require.NotNil(t, unlocked.UnlockedAt)
	originalUnlockedAt := *unlocked.UnlockedAt

	// A concurrent deletion drops the count back under the threshold.
	require.NoError(t, db.Unscoped().Delete(&first).Error)

	require.NoError(t, svc.Recompute(context.Background(), user.ID))
	after := userProgress(t, db, user.ID, badge.ID)
	assert.Equal(t, 1, after.Progress, "progress reflects the current total")
	assert.True(t, after.Unlocked, "an unlock never regresses")
	require.NotNil(t, after.UnlockedAt)
	assert.WithinDuration(t, originalUnlockedAt, *after.UnlockedAt, time.Millisecond)
}

func TestListForUserIncludesLockedBadges(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "maya")
	seedBadge(t, db, "wanderer", models.RuleVisits, "", 25)
	seedBadge(t, db, "globetrotter", models.RuleCountries, "", 10)
	svc := services.NewBadgeService(db)

	list, err := svc.ListForUser(context.Background(), user.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	for _, ub := range list {
		assert.Zero(t, ub.Progress)
		assert.False(t, ub.Unlocked)
		assert.NotEmpty(t, ub.Badge.Code)
	}
}
