package services

import (
	"errors"
	"math"

	"github.com/ardenlow/pulsegram/backend/internal/models"
	"github.com/ardenlow/pulsegram/backend/internal/realtime"
	"github.com/ardenlow/pulsegram/backend/internal/repositories"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

// Dispatcher pushes a recorded notification to the recipient's live
// connections. The persistence path only depends on this interface, never
// on a concrete transport; tests substitute a recording fake.
type Dispatcher interface {
	Publish(recipientID uint, event realtime.Event)
}

// EnrichedNotification is a ledger row with the sender summary attached
type EnrichedNotification struct {
	models.Notification
	Sender models.UserCompact `json:"sender"`
}

// NotificationPage is one page of a recipient's ledger. UnreadCount is
// computed live at query time, never cached.
type NotificationPage struct {
	Items       []EnrichedNotification `json:"notifications"`
	Total       int64                  `json:"total"`
	TotalPages  int                    `json:"totalPages"`
	CurrentPage int                    `json:"currentPage"`
	UnreadCount int64                  `json:"unreadCount"`
}

// NotificationService owns the notification ledger: every interaction
// that notifies writes through Record, and untoggled interactions clean
// up through the delete operations.
type NotificationService struct {
	notifications repositories.NotificationRepository
	users         repositories.UserRepository
	dispatcher    Dispatcher
}

// NewNotificationService creates a new NotificationService. dispatcher
// may be nil, in which case recorded notifications are durable but not
// pushed.
func NewNotificationService(notifRepo repositories.NotificationRepository, userRepo repositories.UserRepository, dispatcher Dispatcher) *NotificationService {
	return &NotificationService{
		notifications: notifRepo,
		users:         userRepo,
		dispatcher:    dispatcher,
	}
}

// Record persists one ledger row and, on success, publishes it to the
// recipient's live connections. Self-notification suppression is the
// caller's responsibility; the ledger performs no such check. Publish
// failures are invisible here: the row is the durability guarantee and
// the push is best-effort.
func (s *NotificationService) Record(n *models.Notification) error {
	if err := s.notifications.CreateNotification(n); err != nil {
		return err
	}
	s.publish(n)
	return nil
}

func (s *NotificationService) publish(n *models.Notification) {
	if s.dispatcher == nil {
		return
	}
	event := realtime.Event{
		ID:        n.ID,
		Type:      n.Type,
		Message:   n.Message,
		CreatedAt: n.CreatedAt,
		IsRead:    false,
	}
	if sender, err := s.users.GetUserByID(n.ActorID); err == nil {
		event.Sender = sender.ToCompact()
	}
	s.dispatcher.Publish(n.RecipientID, event)
}

// Page returns one newest-first page of the recipient's notifications
// with sender summaries and a live unread count.
func (s *NotificationService) Page(recipientID uint, page, limit int, unreadOnly bool) (*NotificationPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 20
	}

	notifications, total, err := s.notifications.GetByRecipientID(recipientID, page, limit, unreadOnly)
	if err != nil {
		return nil, err
	}
	unreadCount, err := s.notifications.GetUnreadCount(recipientID)
	if err != nil {
		return nil, err
	}

	senderCache := make(map[uint]models.UserCompact)
	items := lo.Map(notifications, func(n models.Notification, _ int) EnrichedNotification {
		enriched := EnrichedNotification{Notification: n}
		if sender, ok := senderCache[n.ActorID]; ok {
			enriched.Sender = sender
			return enriched
		}
		if user, err := s.users.GetUserByID(n.ActorID); err == nil {
			compact := user.ToCompact()
			senderCache[n.ActorID] = compact
			enriched.Sender = compact
		}
		return enriched
	})

	return &NotificationPage{
		Items:       items,
		Total:       total,
		TotalPages:  int(math.Ceil(float64(total) / float64(limit))),
		CurrentPage: page,
		UnreadCount: unreadCount,
	}, nil
}

// UnreadCount returns the live count of unread notifications
func (s *NotificationService) UnreadCount(recipientID uint) (int64, error) {
	return s.notifications.GetUnreadCount(recipientID)
}

// MarkRead marks one notification read, scoped to the recipient.
// Idempotent: already-read and missing notifications are no-ops.
func (s *NotificationService) MarkRead(notificationID, recipientID uint) error {
	return s.notifications.MarkAsRead(notificationID, recipientID)
}

// MarkAllRead marks every unread notification of the recipient read
func (s *NotificationService) MarkAllRead(recipientID uint) error {
	return s.notifications.MarkAllAsRead(recipientID)
}

// Delete removes a single notification owned by the recipient
func (s *NotificationService) Delete(notificationID, recipientID uint) error {
	err := s.notifications.DeleteNotification(notificationID, recipientID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// DeleteByEntity removes every notification referencing the entity
func (s *NotificationService) DeleteByEntity(targetID, targetType string) error {
	return s.notifications.DeleteByTarget(targetID, targetType)
}

// DeleteMatching removes the notification a previous toggle recorded
func (s *NotificationService) DeleteMatching(recipientID, actorID uint, notifType, targetID string) error {
	return s.notifications.DeleteMatching(recipientID, actorID, notifType, targetID)
}
