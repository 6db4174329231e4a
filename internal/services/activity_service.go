package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/stacta-app/backend/internal/apperrors"
	"github.com/stacta-app/backend/internal/models"
	"github.com/stacta-app/backend/internal/repositories"
	"gorm.io/gorm"
)

// ActivityService records the non-review feed events: collection and wishlist
// adds. They carry fragrance context but no counters or engagement.
type ActivityService struct {
	activities repositories.ActivityRepository
}

func NewActivityService(db *gorm.DB) *ActivityService {
	return &ActivityService{activities: repositories.NewActivityRepository(db)}
}

func (s *ActivityService) record(ctx context.Context, actor *models.User, eventType string, req *models.RecordActivityRequest) (*models.FeedItem, error) {
	source := strings.ToUpper(strings.TrimSpace(req.Source))
	if !validFragranceSources[source] {
		return nil, apperrors.ErrInvalidReview
	}
	event := &models.ActivityEvent{
		ID:                  uuid.New().String(),
		ActorUserID:         actor.ID,
		Type:                eventType,
		FragranceName:       req.FragranceName,
		FragranceSource:     source,
		FragranceExternalID: req.ExternalID,
		FragranceImageURL:   req.FragranceImageURL,
		CollectionTag:       strings.TrimSpace(req.CollectionTag),
		CreatedAt:           time.Now().UTC(),
	}
	if err := s.activities.Create(ctx, event); err != nil {
		return nil, err
	}
	row, err := s.activities.GetFeedItem(ctx, event.ID, actor.ID)
	if err != nil {
		return nil, err
	}
	item := feedRowToItem(*row)
	return &item, nil
}

// RecordCollectionItemAdded surfaces "X added Y to their collection" in feeds.
func (s *ActivityService) RecordCollectionItemAdded(ctx context.Context, actor *models.User, req *models.RecordActivityRequest) (*models.FeedItem, error) {
	return s.record(ctx, actor, models.ActivityCollectionItemAdded, req)
}

// RecordWishlistItemAdded surfaces "X wants Y" in feeds.
func (s *ActivityService) RecordWishlistItemAdded(ctx context.Context, actor *models.User, req *models.RecordActivityRequest) (*models.FeedItem, error) {
	return s.record(ctx, actor, models.ActivityWishlistItemAdded, req)
}
