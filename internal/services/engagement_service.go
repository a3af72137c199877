package services

import (
	"context"
	"errors"
	"strconv"

	"github.com/ardenlow/pulsegram/backend/internal/models"
	"github.com/ardenlow/pulsegram/backend/internal/repositories"
	"gorm.io/gorm"
)

// LikeResult is the outcome of a like toggle
type LikeResult struct {
	IsLiked    bool  `json:"isLiked"`
	LikesCount int64 `json:"likesCount"`
}

// EngagementService owns like marks for posts and comments. The mark set
// is authoritative; counts returned here come from the same transaction
// that flipped the mark.
type EngagementService struct {
	likes         repositories.LikeRepository
	commentLikes  repositories.CommentLikeRepository
	posts         repositories.PostRepository
	comments      repositories.CommentRepository
	users         repositories.UserRepository
	notifications *NotificationService
}

// NewEngagementService creates a new EngagementService
func NewEngagementService(
	likeRepo repositories.LikeRepository,
	commentLikeRepo repositories.CommentLikeRepository,
	postRepo repositories.PostRepository,
	commentRepo repositories.CommentRepository,
	userRepo repositories.UserRepository,
	notifications *NotificationService,
) *EngagementService {
	return &EngagementService{
		likes:         likeRepo,
		commentLikes:  commentLikeRepo,
		posts:         postRepo,
		comments:      commentRepo,
		users:         userRepo,
		notifications: notifications,
	}
}

// TogglePostLike flips the actor's like mark on a post. Liking records a
// like notification to the post author unless the actor owns the post;
// unliking deletes the matching notification.
func (s *EngagementService) TogglePostLike(ctx context.Context, actorID uint, postID string) (*LikeResult, error) {
	post, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	liked, count, err := s.likes.ToggleLike(postID, actorID)
	if err != nil {
		return nil, err
	}

	if liked {
		if post.AuthorID != actorID {
			if actor, err := s.users.GetUserByID(actorID); err == nil {
				s.notifications.Record(&models.Notification{
					Type:        models.NotificationLike,
					ActorID:     actorID,
					RecipientID: post.AuthorID,
					TargetID:    postID,
					TargetType:  models.TargetPost,
					Message:     actor.Username + " liked your post \"" + post.Title + "\"",
				})
			}
		}
	} else {
		s.notifications.DeleteMatching(post.AuthorID, actorID, models.NotificationLike, postID)
	}

	return &LikeResult{IsLiked: liked, LikesCount: count}, nil
}

// ToggleCommentLike flips the actor's like mark on a comment. Deleted
// comments are terminal: engagement on them is rejected as not found.
func (s *EngagementService) ToggleCommentLike(actorID, commentID uint) (*LikeResult, error) {
	comment, err := s.comments.GetCommentByID(commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if comment.IsDeleted {
		return nil, ErrNotFound
	}

	liked, count, err := s.commentLikes.ToggleLike(commentID, actorID)
	if err != nil {
		return nil, err
	}

	commentTarget := strconv.FormatUint(uint64(commentID), 10)
	if liked {
		if comment.UserID != actorID {
			if actor, err := s.users.GetUserByID(actorID); err == nil {
				s.notifications.Record(&models.Notification{
					Type:        models.NotificationLike,
					ActorID:     actorID,
					RecipientID: comment.UserID,
					TargetID:    commentTarget,
					TargetType:  models.TargetComment,
					Message:     actor.Username + " liked your comment",
				})
			}
		}
	} else {
		s.notifications.DeleteMatching(comment.UserID, actorID, models.NotificationLike, commentTarget)
	}

	return &LikeResult{IsLiked: liked, LikesCount: count}, nil
}

// HasLikedPost reports whether the actor has a live like mark on the post
func (s *EngagementService) HasLikedPost(postID string, actorID uint) (bool, error) {
	return s.likes.HasUserLikedPost(postID, actorID)
}
