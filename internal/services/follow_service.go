package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stacta-app/backend/internal/apperrors"
	"github.com/stacta-app/backend/internal/models"
	"github.com/stacta-app/backend/internal/repositories"
	"gorm.io/gorm"
)

// FollowService owns the follow lifecycle and the feed/notification rows that
// hang off an accepted edge.
type FollowService struct {
	db      *gorm.DB
	users   repositories.UserRepository
	follows repositories.FollowRepository
}

func NewFollowService(db *gorm.DB) *FollowService {
	return &FollowService{
		db:      db,
		users:   repositories.NewUserRepository(db),
		follows: repositories.NewFollowRepository(db),
	}
}

// Follow requests or establishes a follow edge onto the named user. A public
// target accepts immediately; a private target leaves the edge PENDING until
// the target responds. Repeating the call returns the current state.
func (s *FollowService) Follow(ctx context.Context, viewer *models.User, targetUsername string) (*models.FollowActionResponse, error) {
	target, err := s.users.GetByUsername(ctx, targetUsername)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, apperrors.ErrUserNotFound
	}
	if target.ID == viewer.ID {
		return nil, apperrors.ErrInvalidFollowTarget
	}
	existing, err := s.follows.GetPair(ctx, viewer.ID, target.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return &models.FollowActionResponse{Status: existing.Status}, nil
	}

	follow := &models.FollowRelationship{
		ID:              uuid.New().String(),
		FollowerUserID:  viewer.ID,
		FollowingUserID: target.ID,
		Status:          models.FollowStatusPending,
		CreatedAt:       time.Now().UTC(),
	}
	if target.IsPrivate {
		if err := s.follows.Create(ctx, follow); err != nil {
			return nil, err
		}
		return &models.FollowActionResponse{Status: models.FollowStatusPending}, nil
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := repositories.NewFollowRepository(tx).Create(ctx, follow); err != nil {
			return err
		}
		return s.finalizeAccept(ctx, tx, follow)
	})
	if err != nil {
		return nil, err
	}
	return &models.FollowActionResponse{Status: models.FollowStatusAccepted}, nil
}

// finalizeAccept flips the edge to ACCEPTED and writes everything an accepted
// follow carries: both users' counters, the USER_FOLLOWED_USER feed event, and
// the FOLLOWED_YOU notification (FOLLOWED_YOU_BACK when the target already
// follows the new follower).
func (s *FollowService) finalizeAccept(ctx context.Context, tx *gorm.DB, follow *models.FollowRelationship) error {
	follows := repositories.NewFollowRepository(tx)
	users := repositories.NewUserRepository(tx)
	activities := repositories.NewActivityRepository(tx)
	notifications := repositories.NewNotificationRepository(tx)

	now := time.Now().UTC()
	follow.Status = models.FollowStatusAccepted
	follow.RespondedAt = &now
	if err := follows.Save(ctx, follow); err != nil {
		return err
	}
	if err := users.BumpFollowersCount(ctx, follow.FollowingUserID, 1); err != nil {
		return err
	}
	if err := users.BumpFollowingCount(ctx, follow.FollowerUserID, 1); err != nil {
		return err
	}

	event := &models.ActivityEvent{
		ID:             uuid.New().String(),
		ActorUserID:    follow.FollowerUserID,
		TargetUserID:   follow.FollowingUserID,
		Type:           models.ActivityUserFollowedUser,
		SourceFollowID: follow.ID,
		CreatedAt:      now,
	}
	if err := activities.Create(ctx, event); err != nil {
		return err
	}

	notificationType := models.NotificationFollowedYou
	followsBack, err := follows.ExistsAccepted(ctx, follow.FollowingUserID, follow.FollowerUserID)
	if err != nil {
		return err
	}
	if followsBack {
		notificationType = models.NotificationFollowedYouBack
	}
	return notifications.Create(ctx, &models.NotificationEvent{
		RecipientUserID: follow.FollowingUserID,
		ActorUserID:     follow.FollowerUserID,
		Type:            notificationType,
		SourceFollowID:  &follow.ID,
		AggregateCount:  1,
		CreatedAt:       now,
	})
}

// Unfollow removes the viewer's edge onto the named user, whether PENDING or
// ACCEPTED, and unwinds the accepted edge's counters, feed event and
// notification. Unfollowing someone never followed is a no-op.
func (s *FollowService) Unfollow(ctx context.Context, viewer *models.User, targetUsername string) error {
	target, err := s.users.GetByUsername(ctx, targetUsername)
	if err != nil {
		return err
	}
	if target == nil {
		return apperrors.ErrUserNotFound
	}
	follow, err := s.follows.GetPair(ctx, viewer.ID, target.ID)
	if err != nil {
		return err
	}
	if follow == nil {
		return nil
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		follows := repositories.NewFollowRepository(tx)
		if err := follows.Delete(ctx, follow); err != nil {
			return err
		}
		if follow.Status != models.FollowStatusAccepted {
			return nil
		}
		users := repositories.NewUserRepository(tx)
		if err := users.BumpFollowersCount(ctx, follow.FollowingUserID, -1); err != nil {
			return err
		}
		if err := users.BumpFollowingCount(ctx, follow.FollowerUserID, -1); err != nil {
			return err
		}
		if err := repositories.NewActivityRepository(tx).DeleteBySourceFollowID(ctx, follow.ID); err != nil {
			return err
		}
		return repositories.NewNotificationRepository(tx).DeleteBySourceFollowID(ctx, follow.ID)
	})
}

// IsFollowing reports whether the viewer has an accepted edge onto the user.
func (s *FollowService) IsFollowing(ctx context.Context, viewer *models.User, targetUsername string) (bool, error) {
	target, err := s.users.GetByUsername(ctx, targetUsername)
	if err != nil {
		return false, err
	}
	if target == nil {
		return false, apperrors.ErrUserNotFound
	}
	return s.follows.ExistsAccepted(ctx, viewer.ID, target.ID)
}

// PendingRequests pages through follow requests awaiting the viewer's answer.
func (s *FollowService) PendingRequests(ctx context.Context, viewer *models.User, cursorToken string, limit int) (*models.PendingFollowRequestsResponse, error) {
	limit = clampLimit(limit)
	cursor, err := DecodeTimeCursor(cursorScopeFollowRequests, cursorToken)
	if err != nil {
		return nil, err
	}
	var items []models.PendingFollowRequestItem
	if cursor != nil {
		items, err = s.follows.ListPendingRequests(ctx, viewer.ID, &cursor.CreatedAt, cursor.ID, limit+1)
	} else {
		items, err = s.follows.ListPendingRequests(ctx, viewer.ID, nil, "", limit+1)
	}
	if err != nil {
		return nil, err
	}
	hasMore := len(items) > limit
	if hasMore {
		items = items[:limit]
	}
	resp := &models.PendingFollowRequestsResponse{Items: items}
	if hasMore {
		last := items[len(items)-1]
		token := EncodeTimeCursor(cursorScopeFollowRequests, last.RequestedAt, last.ID)
		resp.NextCursor = &token
	}
	return resp, nil
}

// pendingRequestFor loads a PENDING request addressed to the viewer.
func (s *FollowService) pendingRequestFor(ctx context.Context, viewer *models.User, requestID string) (*models.FollowRelationship, error) {
	follow, err := s.follows.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if follow == nil || follow.FollowingUserID != viewer.ID || follow.Status != models.FollowStatusPending {
		return nil, apperrors.ErrFollowRequestNotFound
	}
	return follow, nil
}

// AcceptRequest approves a pending follow request addressed to the viewer.
func (s *FollowService) AcceptRequest(ctx context.Context, viewer *models.User, requestID string) error {
	follow, err := s.pendingRequestFor(ctx, viewer, requestID)
	if err != nil {
		return err
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		return s.finalizeAccept(ctx, tx, follow)
	})
}

// DeclineRequest drops a pending follow request addressed to the viewer.
func (s *FollowService) DeclineRequest(ctx context.Context, viewer *models.User, requestID string) error {
	follow, err := s.pendingRequestFor(ctx, viewer, requestID)
	if err != nil {
		return err
	}
	return s.follows.Delete(ctx, follow)
}
