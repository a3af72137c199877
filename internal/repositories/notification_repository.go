package repositories

import (
	"github.com/ardenlow/pulsegram/backend/internal/models"
	"gorm.io/gorm"
)

// NotificationRepository defines the interface for notification ledger
// operations
type NotificationRepository interface {
	CreateNotification(notification *models.Notification) error
	GetByRecipientID(recipientID uint, page, limit int, unreadOnly bool) ([]models.Notification, int64, error)
	GetUnreadCount(recipientID uint) (int64, error)
	MarkAsRead(notificationID, recipientID uint) error
	MarkAllAsRead(recipientID uint) error
	DeleteNotification(notificationID, recipientID uint) error
	DeleteByTarget(targetID, targetType string) error
	DeleteMatching(recipientID, actorID uint, notifType, targetID string) error
}

type postgresNotificationRepository struct {
	db *gorm.DB
}

func NewPostgresNotificationRepository(db *gorm.DB) NotificationRepository {
	return &postgresNotificationRepository{db: db}
}

func (r *postgresNotificationRepository) CreateNotification(notification *models.Notification) error {
	return r.db.Create(notification).Error
}

func (r *postgresNotificationRepository) GetByRecipientID(recipientID uint, page, limit int, unreadOnly bool) ([]models.Notification, int64, error) {
	var notifications []models.Notification
	var total int64

	query := r.db.Model(&models.Notification{}).Where("recipient_id = ?", recipientID)
	if unreadOnly {
		query = query.Where("is_read = false")
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := query.
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&notifications).Error

	return notifications, total, err
}

func (r *postgresNotificationRepository) GetUnreadCount(recipientID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Notification{}).Where("recipient_id = ? AND is_read = false", recipientID).Count(&count).Error
	return count, err
}

// MarkAsRead is scoped to the recipient and idempotent: marking an
// already-read or missing notification is a no-op.
func (r *postgresNotificationRepository) MarkAsRead(notificationID, recipientID uint) error {
	return r.db.Model(&models.Notification{}).
		Where("id = ? AND recipient_id = ?", notificationID, recipientID).
		Update("is_read", true).Error
}

func (r *postgresNotificationRepository) MarkAllAsRead(recipientID uint) error {
	return r.db.Model(&models.Notification{}).Where("recipient_id = ? AND is_read = false", recipientID).Update("is_read", true).Error
}

// DeleteNotification removes a single notification owned by the recipient
func (r *postgresNotificationRepository) DeleteNotification(notificationID, recipientID uint) error {
	res := r.db.Where("id = ? AND recipient_id = ?", notificationID, recipientID).Delete(&models.Notification{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteByTarget removes every notification referencing an entity; used
// when the entity itself is deleted.
func (r *postgresNotificationRepository) DeleteByTarget(targetID, targetType string) error {
	return r.db.Where("target_id = ? AND target_type = ?", targetID, targetType).Delete(&models.Notification{}).Error
}

// DeleteMatching removes the notification a toggle previously recorded.
// targetID may be empty to match any target, which is how unfollow clears
// the follow notification regardless of what it referenced.
func (r *postgresNotificationRepository) DeleteMatching(recipientID, actorID uint, notifType, targetID string) error {
	query := r.db.Where("recipient_id = ? AND actor_id = ? AND type = ?", recipientID, actorID, notifType)
	if targetID != "" {
		query = query.Where("target_id = ?", targetID)
	}
	return query.Delete(&models.Notification{}).Error
}
