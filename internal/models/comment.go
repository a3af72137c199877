package models

import "gorm.io/gorm"

// DeletedCommentBody replaces the body of a soft-deleted comment. The row
// and its position in the thread are kept so reply chains stay intact.
const DeletedCommentBody = "[Comment deleted]"

// Comment represents a comment on a post. A comment with ParentCommentID
// set is a reply; replies stay attached to their parent even after the
// parent is soft-deleted.
type Comment struct {
	gorm.Model
	PostID          string `json:"post_id" gorm:"index"` // ID of the post the comment belongs to (MongoDB ObjectID as string)
	UserID          uint   `json:"user_id" gorm:"index"` // ID of the user who made the comment
	ParentCommentID *uint  `json:"parent_comment_id,omitempty" gorm:"index"`
	Body            string `json:"body"`
	IsDeleted       bool   `json:"is_deleted" gorm:"default:false;index"`
}

// CommentView is a comment enriched for rendering: author summary, live
// like count, the viewer's own like state and nested replies. Deleted
// comments surface with the placeholder body already in place.
type CommentView struct {
	Comment
	Author     UserCompact   `json:"author"`
	LikesCount int64         `json:"likes_count"`
	IsLiked    bool          `json:"is_liked"`
	Replies    []CommentView `json:"replies,omitempty"`
}

// CreateCommentRequest defines the request body for creating a new comment
type CreateCommentRequest struct {
	PostID          string `json:"post_id" validate:"required"`
	Body            string `json:"body" validate:"required,min=1,max=1000"`
	ParentCommentID *uint  `json:"parent_comment_id,omitempty"`
}

// UpdateCommentRequest defines the request body for updating an existing comment
type UpdateCommentRequest struct {
	Body string `json:"body" validate:"required,min=1,max=1000"`
}
