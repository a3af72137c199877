package models

import "time"

// Notification types and target kinds stored in the ledger.
const (
	NotificationFollow  = "follow"
	NotificationLike    = "like"
	NotificationComment = "comment"
	NotificationMention = "mention"

	TargetPost    = "post"
	TargetComment = "comment"
	TargetUser    = "user"
)

// Notification represents one durable row in the notification ledger
// (PostgreSQL). Rows are created only as a side effect of a triggering
// action and never when actor == recipient.
type Notification struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Type        string    `json:"type" gorm:"size:30;index"` // follow, like, comment, mention
	ActorID     uint      `json:"actor_id" gorm:"index"`
	RecipientID uint      `json:"recipient_id" gorm:"index"`
	TargetID    string    `json:"target_id" gorm:"index"`     // post ID, comment ID or user ID
	TargetType  string    `json:"target_type" gorm:"size:20"` // post, comment, user
	Message     string    `json:"message"`
	IsRead      bool      `json:"is_read" gorm:"default:false;index"`
	CreatedAt   time.Time `json:"created_at" gorm:"index"`
}
