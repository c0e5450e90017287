package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/odyssey-app/api-go/models"
	"github.com/odyssey-app/api-go/planner"
)

// badgeRecomputer is the slice of BadgeService the trip lifecycle needs.
type badgeRecomputer interface {
	Recompute(ctx context.Context, userID uint) error
}

// TripService owns the itinerary lifecycle: saving a curated draft as a trip
// and marking a saved trip completed, which fans out journal entries.
type TripService struct {
	DB     *gorm.DB
	Badges badgeRecomputer
}

func NewTripService(db *gorm.DB, badges badgeRecomputer) *TripService {
	return &TripService{DB: db, Badges: badges}
}

// TripDraft is the user-supplied metadata for a trip about to be saved.
type TripDraft struct {
	Name        string
	Location    string
	StartDate   *string
	EndDate     *string
	Description string
	SmartPlan   bool // reorder items with the nearest-neighbor heuristic before persisting
}

// SaveTrip validates the draft, optionally smart-plans the item order, and
// persists the itinerary with its items. The itinerary row is written first;
// if the item insert fails the orphaned row is deleted again before the
// error surfaces, so the store never holds a trip with missing items.
func (s *TripService) SaveTrip(ctx context.Context, userID uint, draft TripDraft, items []models.ItineraryItem) (*models.Itinerary, error) {
	name := strings.TrimSpace(draft.Name)
	if name == "" {
		return nil, validationErrorf("trip name is required")
	}
	if len(items) == 0 {
		return nil, validationErrorf("a trip needs at least one site")
	}
	for _, it := range items {
		coord := planner.Coordinate{Lat: it.Latitude, Lng: it.Longitude}
		if err := coord.Validate(); err != nil {
			return nil, &ValidationError{Reason: fmt.Sprintf("site %q: %v", it.Name, err)}
		}
	}

	if draft.SmartPlan && len(items) >= 2 {
		items = planner.SmartPlan(items)
	}

	itinerary := models.Itinerary{
		UserID:         userID,
		Name:           name,
		Location:       draft.Location,
		StartDate:      draft.StartDate,
		EndDate:        draft.EndDate,
		Description:    draft.Description,
		IsSmartPlanned: draft.SmartPlan,
	}

	if err := s.DB.WithContext(ctx).Create(&itinerary).Error; err != nil {
		return nil, fmt.Errorf("creating itinerary: %w", err)
	}

	for i := range items {
		items[i].ID = 0
		items[i].ItineraryID = itinerary.ID
		items[i].OrderIndex = i
	}

	if err := s.DB.WithContext(ctx).Create(&items).Error; err != nil {
		insertErr := fmt.Errorf("creating itinerary items: %w", err)
		if delErr := s.DB.WithContext(ctx).Unscoped().Delete(&models.Itinerary{}, itinerary.ID).Error; delErr != nil {
			log.Printf("WARNING: itinerary %d left without items and could not be deleted: %v", itinerary.ID, delErr)
			return nil, &PartialWriteError{Err: insertErr, RollbackErr: delErr}
		}
		return nil, insertErr
	}

	itinerary.Items = items
	return &itinerary, nil
}

// GetItinerary loads one of the user's itineraries with its items in order.
func (s *TripService) GetItinerary(ctx context.Context, userID, itineraryID uint) (*models.Itinerary, error) {
	var itinerary models.Itinerary
	err := s.DB.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("order_index ASC") }).
		Where("id = ? AND user_id = ?", itineraryID, userID).
		First(&itinerary).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrItineraryNotFound
		}
		return nil, fmt.Errorf("loading itinerary %d: %w", itineraryID, err)
	}
	return &itinerary, nil
}

// ListItineraries returns the user's itineraries, newest first, items ordered.
func (s *TripService) ListItineraries(ctx context.Context, userID uint) ([]models.Itinerary, error) {
	var itineraries []models.Itinerary
	err := s.DB.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("order_index ASC") }).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&itineraries).Error
	if err != nil {
		return nil, fmt.Errorf("listing itineraries: %w", err)
	}
	return itineraries, nil
}

// DeleteItinerary removes an itinerary and its items as one unit. Completed
// itineraries are off limits: the completed state is terminal and the journal
// entries created on completion reference the items.
func (s *TripService) DeleteItinerary(ctx context.Context, userID, itineraryID uint) error {
	itinerary, err := s.GetItinerary(ctx, userID, itineraryID)
	if err != nil {
		return err
	}
	if itinerary.IsCompleted {
		return ErrItineraryCompleted
	}

	tx := s.DB.WithContext(ctx).Begin()
	if err := tx.Where("itinerary_id = ?", itinerary.ID).Delete(&models.ItineraryItem{}).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("deleting itinerary items: %w", err)
	}
	if err := tx.Unscoped().Delete(&models.Itinerary{}, itinerary.ID).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("deleting itinerary: %w", err)
	}
	return tx.Commit().Error
}

// MarkCompleted sets the terminal completed flag on an itinerary and writes
// one journal entry per item. Calling it on an already-completed itinerary
// succeeds without creating anything: completion is idempotent, and the
// unique itinerary_item_id on journal entries backstops the flag check
// against concurrent double-invocation.
//
// Badge recomputation runs detached and best-effort; a slow or failing
// recompute never delays or fails the completion result.
func (s *TripService) MarkCompleted(ctx context.Context, userID, itineraryID uint) (*models.Itinerary, error) {
	itinerary, err := s.GetItinerary(ctx, userID, itineraryID)
	if err != nil {
		return nil, err
	}

	if itinerary.IsCompleted {
		return itinerary, nil
	}

	now := time.Now()
	tx := s.DB.WithContext(ctx).Begin()
	for i := range itinerary.Items {
		item := &itinerary.Items[i]
		visitedAt := now
		if item.VisitDate != nil {
			visitedAt = *item.VisitDate
		}
		entry := models.JournalEntry{
			UserID:          userID,
			SiteRefID:       item.SiteRefID,
			SiteName:        item.Name,
			Category:        item.Category,
			Latitude:        item.Latitude,
			Longitude:       item.Longitude,
			LocationName:    itinerary.Location,
			VisitedAt:       visitedAt,
			Notes:           item.VisitNotes,
			ItineraryItemID: &item.ID,
		}
		if err := tx.Create(&entry).Error; err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("creating journal entry for item %d: %w", item.ID, err)
		}
	}

	if err := tx.Model(&models.Itinerary{}).Where("id = ?", itinerary.ID).Update("is_completed", true).Error; err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("marking itinerary %d completed: %w", itinerary.ID, err)
	}
	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("committing completion of itinerary %d: %w", itinerary.ID, err)
	}

	itinerary.IsCompleted = true

	if s.Badges != nil {
		go func() {
			defer func() {
				if r := recover(); r != nil {
					log.Printf("badge recompute panicked for user %d: %v", userID, r)
				}
			}()
			if err := s.Badges.Recompute(context.Background(), userID); err != nil {
				log.Printf("badge recompute failed for user %d: %v", userID, err)
			}
		}()
	}

	return itinerary, nil
}
