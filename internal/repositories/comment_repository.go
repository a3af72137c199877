package repositories

import (
	"strconv"

	"github.com/ardenlow/pulsegram/backend/internal/models"
	"gorm.io/gorm"
)

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	CreateComment(comment *models.Comment) error
	GetCommentByID(id uint) (*models.Comment, error)
	GetTopLevelByPostID(postID string, offset, limit int) ([]models.Comment, error)
	CountTopLevelByPostID(postID string) (int64, error)
	GetReplies(parentCommentID uint) ([]models.Comment, error)
	CountActiveByPostID(postID string) (int64, error)
	UpdateComment(comment *models.Comment) error
	SoftDeleteComment(id uint) error
}

// PostgresCommentRepository implements CommentRepository for PostgreSQL
type PostgresCommentRepository struct {
	db *gorm.DB
}

// NewPostgresCommentRepository creates a new PostgresCommentRepository
func NewPostgresCommentRepository(db *gorm.DB) *PostgresCommentRepository {
	return &PostgresCommentRepository{db: db}
}

// CreateComment creates a new comment in PostgreSQL
func (r *PostgresCommentRepository) CreateComment(comment *models.Comment) error {
	return r.db.Create(comment).Error
}

// GetCommentByID retrieves a comment by ID from PostgreSQL
func (r *PostgresCommentRepository) GetCommentByID(id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.First(&comment, id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// GetTopLevelByPostID retrieves top-level comments for a post, newest
// first. Soft-deleted comments are included so thread shape is preserved;
// their body already carries the deletion placeholder.
func (r *PostgresCommentRepository) GetTopLevelByPostID(postID string, offset, limit int) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.Where("post_id = ? AND parent_comment_id IS NULL", postID).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&comments).Error
	return comments, err
}

// CountTopLevelByPostID counts top-level comments for pagination
func (r *PostgresCommentRepository) CountTopLevelByPostID(postID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Comment{}).Where("post_id = ? AND parent_comment_id IS NULL", postID).Count(&count).Error
	return count, err
}

// GetReplies retrieves the replies of a comment in creation order
func (r *PostgresCommentRepository) GetReplies(parentCommentID uint) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.Where("parent_comment_id = ?", parentCommentID).
		Order("created_at ASC").
		Find(&comments).Error
	return comments, err
}

// CountActiveByPostID counts the non-deleted comments of a post. This is
// the authoritative comments count: soft deletion lowers it by exactly
// one without touching any stored counter.
func (r *PostgresCommentRepository) CountActiveByPostID(postID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Comment{}).Where("post_id = ? AND is_deleted = false", postID).Count(&count).Error
	return count, err
}

// UpdateComment updates an existing comment in PostgreSQL
func (r *PostgresCommentRepository) UpdateComment(comment *models.Comment) error {
	return r.db.Save(comment).Error
}

// SoftDeleteComment marks the comment deleted, replaces its body with the
// placeholder and removes every notification referencing it, all in one
// transaction so a crash cannot leave a deleted comment with live
// notifications.
func (r *PostgresCommentRepository) SoftDeleteComment(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Comment{}).
			Where("id = ? AND is_deleted = false", id).
			Updates(map[string]interface{}{"is_deleted": true, "body": models.DeletedCommentBody})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Where("target_id = ? AND target_type = ?", strconv.FormatUint(uint64(id), 10), models.TargetComment).
			Delete(&models.Notification{}).Error
	})
}
