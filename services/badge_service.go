package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/odyssey-app/api-go/models"
)

// BadgeService recomputes per-user badge progress from scratch against the
// fixed badge catalog. There is no incremental path: every run scans the
// user's journal and discovery records and reflects current totals.
type BadgeService struct {
	DB *gorm.DB
}

func NewBadgeService(db *gorm.DB) *BadgeService {
	return &BadgeService{DB: db}
}

// tally holds the per-user counts the badge rules are evaluated against.
type tally struct {
	translatedEntries int
	visits            int
	languages         map[string]struct{}
	keywordMatches    map[string]int // keyword -> matching entry count
	videos            int
	likes             int
	countries         map[string]struct{}
}

// Recompute reevaluates every catalog badge for the user and upserts the
// result. Progress reflects current totals; unlocked becomes true exactly
// when progress reaches the badge threshold. An unlock timestamp, once
// stored, is never cleared or rewritten even if a later recompute reads a
// lower count (entries can be deleted concurrently).
func (s *BadgeService) Recompute(ctx context.Context, userID uint) error {
	var badges []models.Badge
	if err := s.DB.WithContext(ctx).Find(&badges).Error; err != nil {
		return fmt.Errorf("loading badge catalog: %w", err)
	}
	if len(badges) == 0 {
		return nil
	}

	var (
		entries     []models.JournalEntry
		discoveries []models.Discovery
		likeTotal   int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.DB.WithContext(gctx).Where("user_id = ?", userID).Find(&entries).Error
	})
	g.Go(func() error {
		return s.DB.WithContext(gctx).Where("user_id = ?", userID).Find(&discoveries).Error
	})
	g.Go(func() error {
		return s.DB.WithContext(gctx).Model(&models.DiscoveryLike{}).
			Joins("JOIN discoveries ON discoveries.id = discovery_likes.discovery_id").
			Where("discoveries.user_id = ?", userID).
			Count(&likeTotal).Error
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("gathering badge sources for user %d: %w", userID, err)
	}

	t := newTally(badges, entries, discoveries, int(likeTotal))

	for _, badge := range badges {
		if err := s.upsertProgress(ctx, userID, badge, t.progressFor(badge)); err != nil {
			return err
		}
	}
	return nil
}

func newTally(badges []models.Badge, entries []models.JournalEntry, discoveries []models.Discovery, likes int) tally {
	t := tally{
		languages:      map[string]struct{}{},
		keywordMatches: map[string]int{},
		countries:      map[string]struct{}{},
		likes:          likes,
	}

	keywords := map[string]struct{}{}
	for _, b := range badges {
		if b.Rule == models.RuleKeyword && b.Keyword != "" {
			keywords[strings.ToLower(b.Keyword)] = struct{}{}
		}
	}

	for _, e := range entries {
		t.visits++
		if e.Annotations.Translated() {
			t.translatedEntries++
		}
		for _, p := range e.Annotations.Phrases {
			if p.Language != "" {
				t.languages[strings.ToLower(p.Language)] = struct{}{}
			}
		}
		if e.Country != "" {
			t.countries[strings.ToLower(e.Country)] = struct{}{}
		}
		haystack := strings.ToLower(e.SiteName + " " + e.Notes)
		for kw := range keywords {
			if strings.Contains(haystack, kw) {
				t.keywordMatches[kw]++
			}
		}
	}

	for _, d := range discoveries {
		if d.MediaType == "video" {
			t.videos++
		}
	}

	return t
}

func (t tally) progressFor(badge models.Badge) int {
	switch badge.Rule {
	case models.RuleTranslatedEntries:
		return t.translatedEntries
	case models.RuleVisits:
		return t.visits
	case models.RuleLanguages:
		return len(t.languages)
	case models.RuleKeyword:
		return t.keywordMatches[strings.ToLower(badge.Keyword)]
	case models.RuleVideos:
		return t.videos
	case models.RuleLikes:
		return t.likes
	case models.RuleCountries:
		return len(t.countries)
	}
	return 0
}

func (s *BadgeService) upsertProgress(ctx context.Context, userID uint, badge models.Badge, progress int) error {
	var ub models.UserBadge
	err := s.DB.WithContext(ctx).Where("user_id = ? AND badge_id = ?", userID, badge.ID).First(&ub).Error
	if err != nil && err != gorm.ErrRecordNotFound {
		return fmt.Errorf("loading progress for badge %s: %w", badge.Code, err)
	}
	if err == gorm.ErrRecordNotFound {
		ub = models.UserBadge{UserID: userID, BadgeID: badge.ID}
	}

	ub.Progress = progress
	if !ub.Unlocked && progress >= badge.MaxProgress {
		now := time.Now()
		ub.Unlocked = true
		ub.UnlockedAt = &now
	}
	// Unlocked and UnlockedAt are sticky: a recompute that reads a lower
	// count must not regress an unlock that already happened.

	if err := s.DB.WithContext(ctx).Save(&ub).Error; err != nil {
		return fmt.Errorf("saving progress for badge %s: %w", badge.Code, err)
	}
	return nil
}

// RecomputeAsync runs Recompute detached from the caller. Failures are
// logged and swallowed: badge progress is best-effort and must never block a
// user-visible operation.
func (s *BadgeService) RecomputeAsync(userID uint) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("badge recompute panicked for user %d: %v", userID, r)
			}
		}()
		if err := s.Recompute(context.Background(), userID); err != nil {
			log.Printf("badge recompute failed for user %d: %v", userID, err)
		}
	}()
}

// ListForUser returns the catalog joined with the user's progress; badges the
// user has no row for yet come back with zero progress.
func (s *BadgeService) ListForUser(ctx context.Context, userID uint) ([]models.UserBadge, error) {
	var badges []models.Badge
	if err := s.DB.WithContext(ctx).Order("id").Find(&badges).Error; err != nil {
		return nil, fmt.Errorf("loading badge catalog: %w", err)
	}

	var owned []models.UserBadge
	if err := s.DB.WithContext(ctx).Where("user_id = ?", userID).Find(&owned).Error; err != nil {
		return nil, fmt.Errorf("loading user badges: %w", err)
	}
	byBadge := map[uint]models.UserBadge{}
	for _, ub := range owned {
		byBadge[ub.BadgeID] = ub
	}

	out := make([]models.UserBadge, 0, len(badges))
	for _, b := range badges {
		ub, ok := byBadge[b.ID]
		if !ok {
			ub = models.UserBadge{UserID: userID, BadgeID: b.ID}
		}
		ub.Badge = b
		out = append(out, ub)
	}
	return out, nil
}

// DefaultBadgeCatalog is seeded at startup; codes are stable identifiers.
func DefaultBadgeCatalog() []models.Badge {
	return []models.Badge{
		{Code: "polyglot", Name: "Polyglot", Description: "Collect translations in 5 different languages", Icon: "🗣️", Rule: models.RuleLanguages, MaxProgress: 5},
		{Code: "translator", Name: "Translator", Description: "Save 10 journal entries with translated phrases", Icon: "📖", Rule: models.RuleTranslatedEntries, MaxProgress: 10},
		{Code: "wanderer", Name: "Wanderer", Description: "Log 25 visits in your journal", Icon: "🥾", Rule: models.RuleVisits, MaxProgress: 25},
		{Code: "globetrotter", Name: "Globetrotter", Description: "Visit 10 different countries", Icon: "🌍", Rule: models.RuleCountries, MaxProgress: 10},
		{Code: "temple_seeker", Name: "Temple Seeker", Description: "Visit 5 temples", Icon: "⛩️", Rule: models.RuleKeyword, Keyword: "temple", MaxProgress: 5},
		{Code: "storyteller", Name: "Storyteller", Description: "Share 5 video discoveries", Icon: "🎬", Rule: models.RuleVideos, MaxProgress: 5},
		{Code: "crowd_favorite", Name: "Crowd Favorite", Description: "Collect 50 likes on your discoveries", Icon: "❤️", Rule: models.RuleLikes, MaxProgress: 50},
	}
}
