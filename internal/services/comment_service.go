package services

import (
	"context"
	"errors"
	"math"
	"strconv"

	"github.com/ardenlow/pulsegram/backend/internal/models"
	"github.com/ardenlow/pulsegram/backend/internal/repositories"
	"gorm.io/gorm"
)

// CommentPage is one page of top-level comments with their reply threads
type CommentPage struct {
	Comments    []models.CommentView `json:"comments"`
	Total       int64                `json:"total"`
	TotalPages  int                  `json:"totalPages"`
	CurrentPage int                  `json:"currentPage"`
}

// CommentService owns comment creation, editing, soft deletion and the
// parent/reply linkage. A comment's lifecycle is Created, any number of
// Edits, then optionally Deleted; Deleted is terminal and rejects every
// further mutation.
type CommentService struct {
	comments      repositories.CommentRepository
	commentLikes  repositories.CommentLikeRepository
	posts         repositories.PostRepository
	users         repositories.UserRepository
	notifications *NotificationService
}

// NewCommentService creates a new CommentService
func NewCommentService(
	commentRepo repositories.CommentRepository,
	commentLikeRepo repositories.CommentLikeRepository,
	postRepo repositories.PostRepository,
	userRepo repositories.UserRepository,
	notifications *NotificationService,
) *CommentService {
	return &CommentService{
		comments:      commentRepo,
		commentLikes:  commentLikeRepo,
		posts:         postRepo,
		users:         userRepo,
		notifications: notifications,
	}
}

// Create persists a comment on a post, optionally as a reply. One create
// can record two distinct ledger rows: one to the post author and one to
// the parent comment author, each suppressed when that person is the
// actor. The parent is only checked for existence, not for belonging to
// the same post.
func (s *CommentService) Create(ctx context.Context, actorID uint, req *models.CreateCommentRequest) (*models.CommentView, error) {
	post, err := s.posts.GetPostByID(ctx, req.PostID)
	if err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var parent *models.Comment
	if req.ParentCommentID != nil {
		parent, err = s.comments.GetCommentByID(*req.ParentCommentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}
	}

	comment := &models.Comment{
		PostID:          req.PostID,
		UserID:          actorID,
		ParentCommentID: req.ParentCommentID,
		Body:            req.Body,
	}
	if err := s.comments.CreateComment(comment); err != nil {
		return nil, err
	}

	actor, err := s.users.GetUserByID(actorID)
	if err != nil {
		return nil, err
	}

	if post.AuthorID != actorID {
		s.notifications.Record(&models.Notification{
			Type:        models.NotificationComment,
			ActorID:     actorID,
			RecipientID: post.AuthorID,
			TargetID:    req.PostID,
			TargetType:  models.TargetPost,
			Message:     actor.Username + " commented on your post \"" + post.Title + "\"",
		})
	}
	if parent != nil && parent.UserID != actorID {
		s.notifications.Record(&models.Notification{
			Type:        models.NotificationComment,
			ActorID:     actorID,
			RecipientID: parent.UserID,
			TargetID:    strconv.FormatUint(uint64(comment.ID), 10),
			TargetType:  models.TargetComment,
			Message:     actor.Username + " replied to your comment",
		})
	}

	view := &models.CommentView{Comment: *comment, Author: actor.ToCompact()}
	return view, nil
}

// Edit overwrites the comment body in place; no edit history is kept.
// Only the author may edit, and a deleted comment is gone as far as
// editing is concerned.
func (s *CommentService) Edit(actorID, commentID uint, body string) (*models.CommentView, error) {
	comment, err := s.getLive(commentID)
	if err != nil {
		return nil, err
	}
	if comment.UserID != actorID {
		return nil, ErrForbidden
	}

	comment.Body = body
	if err := s.comments.UpdateComment(comment); err != nil {
		return nil, err
	}
	return s.view(comment, actorID)
}

// Delete soft-deletes a comment: the row keeps its id and thread
// position, the body becomes the placeholder, and notifications
// referencing the comment are removed in the same transaction. Requires
// ownership or the elevated role. The post's comment count drops by one
// because it is computed from non-deleted rows.
func (s *CommentService) Delete(actorID uint, isAdmin bool, commentID uint) error {
	comment, err := s.getLive(commentID)
	if err != nil {
		return err
	}
	if comment.UserID != actorID && !isAdmin {
		return ErrForbidden
	}

	if err := s.comments.SoftDeleteComment(commentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// ListByPost returns one page of top-level comments, newest first, each
// with its replies in creation order. Deleted comments appear with the
// placeholder body so thread shape is preserved. viewerID of zero means
// anonymous and leaves every IsLiked false.
func (s *CommentService) ListByPost(ctx context.Context, postID string, viewerID uint, page, limit int) (*CommentPage, error) {
	if _, err := s.posts.GetPostByID(ctx, postID); err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
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

	topLevel, err := s.comments.GetTopLevelByPostID(postID, (page-1)*limit, limit)
	if err != nil {
		return nil, err
	}
	total, err := s.comments.CountTopLevelByPostID(postID)
	if err != nil {
		return nil, err
	}

	views := make([]models.CommentView, 0, len(topLevel))
	for _, comment := range topLevel {
		view, err := s.view(&comment, viewerID)
		if err != nil {
			return nil, err
		}

		replies, err := s.comments.GetReplies(comment.ID)
		if err != nil {
			return nil, err
		}
		for _, reply := range replies {
			replyView, err := s.view(&reply, viewerID)
			if err != nil {
				return nil, err
			}
			view.Replies = append(view.Replies, *replyView)
		}
		views = append(views, *view)
	}

	return &CommentPage{
		Comments:    views,
		Total:       total,
		TotalPages:  int(math.Ceil(float64(total) / float64(limit))),
		CurrentPage: page,
	}, nil
}

// CountForPost returns the live count of non-deleted comments on a post
func (s *CommentService) CountForPost(postID string) (int64, error) {
	return s.comments.CountActiveByPostID(postID)
}

// getLive loads a comment and treats soft-deleted ones as missing
func (s *CommentService) getLive(commentID uint) (*models.Comment, error) {
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
	return comment, nil
}

func (s *CommentService) view(comment *models.Comment, viewerID uint) (*models.CommentView, error) {
	view := &models.CommentView{Comment: *comment}
	if author, err := s.users.GetUserByID(comment.UserID); err == nil {
		view.Author = author.ToCompact()
	}
	likes, err := s.commentLikes.GetLikesCount(comment.ID)
	if err != nil {
		return nil, err
	}
	view.LikesCount = likes
	if viewerID != 0 {
		liked, err := s.commentLikes.HasUserLikedComment(comment.ID, viewerID)
		if err != nil {
			return nil, err
		}
		view.IsLiked = liked
	}
	return view, nil
}
