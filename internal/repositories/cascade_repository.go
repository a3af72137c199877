package repositories

import (
	"strconv"

	"github.com/ardenlow/pulsegram/backend/internal/models"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

// CascadeRepository centralizes the relational cleanup that post deletion
// fans out to. Keeping it in one place means every call site gets the
// same ordering and the same transactional guarantee.
type CascadeRepository interface {
	PurgePost(postID string) error
}

type postgresCascadeRepository struct {
	db *gorm.DB
}

func NewPostgresCascadeRepository(db *gorm.DB) CascadeRepository {
	return &postgresCascadeRepository{db: db}
}

// PurgePost removes every relational record hanging off a post: its
// comments (and their likes), its own likes, and every notification
// referencing either the post or one of its comments. Runs in a single
// transaction so a crash mid-cascade cannot leave notifications pointing
// at deleted entities. The Mongo document itself is removed by the
// caller after this succeeds.
func (r *postgresCascadeRepository) PurgePost(postID string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var commentIDs []uint
		if err := tx.Model(&models.Comment{}).Where("post_id = ?", postID).Pluck("id", &commentIDs).Error; err != nil {
			return err
		}

		if len(commentIDs) > 0 {
			if err := tx.Where("comment_id IN ?", commentIDs).Delete(&models.CommentLike{}).Error; err != nil {
				return err
			}
			commentTargets := lo.Map(commentIDs, func(id uint, _ int) string {
				return strconv.FormatUint(uint64(id), 10)
			})
			if err := tx.Where("target_id IN ? AND target_type = ?", commentTargets, models.TargetComment).
				Delete(&models.Notification{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("target_id = ? AND target_type = ?", postID, models.TargetPost).
			Delete(&models.Notification{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", postID).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Where("post_id = ?", postID).Delete(&models.Comment{}).Error
	})
}
