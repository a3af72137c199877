package services

import (
	"errors"
	"math"
	"strconv"

	"github.com/ardenlow/pulsegram/backend/internal/models"
	"github.com/ardenlow/pulsegram/backend/internal/repositories"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

// UserPage is one page of follower or following summaries
type UserPage struct {
	Users       []models.UserCompact `json:"users"`
	Total       int64                `json:"total"`
	TotalPages  int                  `json:"totalPages"`
	CurrentPage int                  `json:"currentPage"`
}

// RelationshipService owns the directed follow graph. Follower and
// following counts are always computed from the edge set, so they cannot
// drift from it.
type RelationshipService struct {
	follows       repositories.FollowRepository
	users         repositories.UserRepository
	notifications *NotificationService
}

// NewRelationshipService creates a new RelationshipService
func NewRelationshipService(followRepo repositories.FollowRepository, userRepo repositories.UserRepository, notifications *NotificationService) *RelationshipService {
	return &RelationshipService{
		follows:       followRepo,
		users:         userRepo,
		notifications: notifications,
	}
}

// ToggleFollow flips the follow edge from actor to target and keeps the
// ledger in step: following records a follow notification to the target,
// unfollowing deletes it again whether or not it was read. Returns the
// resulting state.
func (s *RelationshipService) ToggleFollow(actorID, targetID uint) (bool, error) {
	if actorID == targetID {
		return false, ErrSelfFollow
	}

	target, err := s.users.GetUserByID(targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrNotFound
		}
		return false, err
	}

	following, created, err := s.follows.ToggleFollow(actorID, targetID)
	if err != nil {
		return false, err
	}

	if created {
		if actor, err := s.users.GetUserByID(actorID); err == nil {
			s.notifications.Record(&models.Notification{
				Type:        models.NotificationFollow,
				ActorID:     actorID,
				RecipientID: target.ID,
				TargetID:    strconv.FormatUint(uint64(actorID), 10),
				TargetType:  models.TargetUser,
				Message:     actor.Username + " started following you",
			})
		}
	} else if !following {
		s.notifications.DeleteMatching(targetID, actorID, models.NotificationFollow, "")
	}

	return following, nil
}

// IsFollowing reports whether actor currently follows target
func (s *RelationshipService) IsFollowing(actorID, targetID uint) (bool, error) {
	return s.follows.IsFollowing(actorID, targetID)
}

// Followers returns one page of the user's followers in edge insertion
// order, with the total taken from the edge set.
func (s *RelationshipService) Followers(userID uint, page, limit int) (*UserPage, error) {
	return s.pageUsers(userID, page, limit, s.follows.GetFollowers, s.follows.GetFollowersCount)
}

// Following returns one page of the users this user follows
func (s *RelationshipService) Following(userID uint, page, limit int) (*UserPage, error) {
	return s.pageUsers(userID, page, limit, s.follows.GetFollowing, s.follows.GetFollowingCount)
}

// SuggestUsers returns users the actor does not yet follow, excluding
// the actor, most followed first.
func (s *RelationshipService) SuggestUsers(actorID uint, limit int) ([]models.UserCompact, error) {
	if limit < 1 || limit > 50 {
		limit = 5
	}
	followingIDs, err := s.follows.GetFollowingIDs(actorID)
	if err != nil {
		return nil, err
	}
	exclude := append(followingIDs, actorID)
	users, err := s.users.GetSuggestedUsers(exclude, limit)
	if err != nil {
		return nil, err
	}
	return lo.Map(users, func(u models.User, _ int) models.UserCompact { return u.ToCompact() }), nil
}

// FollowerCounts returns the live follower and following counts
func (s *RelationshipService) FollowerCounts(userID uint) (followers int64, following int64, err error) {
	if followers, err = s.follows.GetFollowersCount(userID); err != nil {
		return 0, 0, err
	}
	if following, err = s.follows.GetFollowingCount(userID); err != nil {
		return 0, 0, err
	}
	return followers, following, nil
}

func (s *RelationshipService) pageUsers(
	userID uint, page, limit int,
	list func(uint, int, int) ([]models.User, error),
	count func(uint) (int64, error),
) (*UserPage, error) {
	if _, err := s.users.GetUserByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 20
	}

	users, err := list(userID, (page-1)*limit, limit)
	if err != nil {
		return nil, err
	}
	total, err := count(userID)
	if err != nil {
		return nil, err
	}

	return &UserPage{
		Users:       lo.Map(users, func(u models.User, _ int) models.UserCompact { return u.ToCompact() }),
		Total:       total,
		TotalPages:  int(math.Ceil(float64(total) / float64(limit))),
		CurrentPage: page,
	}, nil
}
