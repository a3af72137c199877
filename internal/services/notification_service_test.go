package services

import (
	"strconv"
	"testing"

	"github.com/ardenlow/pulsegram/backend/internal/models"
	"github.com/stretchr/testify/require"
)

func TestRecord_PersistsAndPublishes(t *testing.T) {
	req := require.New(t)
	f := newFixture()
	actor := f.users.add("actor")
	recipient := f.users.add("recipient")

	err := f.notificationSvc.Record(&models.Notification{
		Type:        models.NotificationFollow,
		ActorID:     actor.ID,
		RecipientID: recipient.ID,
		TargetID:    strconv.FormatUint(uint64(actor.ID), 10),
		TargetType:  models.TargetUser,
		Message:     "actor started following you",
	})
	req.NoError(err)

	req.Len(f.notifications.rows, 1)
	req.Len(f.dispatcher.events[recipient.ID], 1)
	event := f.dispatcher.events[recipient.ID][0]
	req.Equal(models.NotificationFollow, event.Type)
	req.Equal("actor started following you", event.Message)
	req.Equal("actor", event.Sender.Username)
	req.False(event.IsRead)
}

func TestRecord_NilDispatcherStillDurable(t *testing.T) {
	req := require.New(t)
	users := newFakeUsers()
	notifications := newFakeNotifications()
	svc := NewNotificationService(notifications, users, nil)
	actor := users.add("actor")
	recipient := users.add("recipient")

	err := svc.Record(&models.Notification{
		Type:        models.NotificationLike,
		ActorID:     actor.ID,
		RecipientID: recipient.ID,
	})
	req.NoError(err)
	req.Len(notifications.rows, 1)
}

func TestPage_NewestFirstWithUnreadCount(t *testing.T) {
	req := require.New(t)
	f := newFixture()
	actor := f.users.add("actor")
	recipient := f.users.add("recipient")

	for i := 0; i < 5; i++ {
		req.NoError(f.notificationSvc.Record(&models.Notification{
			Type:        models.NotificationLike,
			ActorID:     actor.ID,
			RecipientID: recipient.ID,
			Message:     "m" + strconv.Itoa(i),
		}))
	}

	page, err := f.notificationSvc.Page(recipient.ID, 1, 2, false)
	req.NoError(err)
	req.Len(page.Items, 2)
	req.Equal("m4", page.Items[0].Message)
	req.Equal("m3", page.Items[1].Message)
	req.EqualValues(5, page.Total)
	req.Equal(3, page.TotalPages)
	req.Equal(1, page.CurrentPage)
	req.EqualValues(5, page.UnreadCount)
	req.Equal("actor", page.Items[0].Sender.Username)
}

func TestPage_UnreadOnlyFilter(t *testing.T) {
	req := require.New(t)
	f := newFixture()
	actor := f.users.add("actor")
	recipient := f.users.add("recipient")

	for i := 0; i < 3; i++ {
		req.NoError(f.notificationSvc.Record(&models.Notification{
			Type: models.NotificationLike, ActorID: actor.ID, RecipientID: recipient.ID,
		}))
	}
	firstID := f.notifications.rows[0].ID
	req.NoError(f.notificationSvc.MarkRead(firstID, recipient.ID))

	page, err := f.notificationSvc.Page(recipient.ID, 1, 20, true)
	req.NoError(err)
	req.Len(page.Items, 2)
	req.EqualValues(2, page.UnreadCount)
}

func TestMarkRead_Idempotent(t *testing.T) {
	req := require.New(t)
	f := newFixture()
	actor := f.users.add("actor")
	recipient := f.users.add("recipient")

	req.NoError(f.notificationSvc.Record(&models.Notification{
		Type: models.NotificationLike, ActorID: actor.ID, RecipientID: recipient.ID,
	}))
	id := f.notifications.rows[0].ID

	req.NoError(f.notificationSvc.MarkRead(id, recipient.ID))
	req.NoError(f.notificationSvc.MarkRead(id, recipient.ID))

	count, err := f.notificationSvc.UnreadCount(recipient.ID)
	req.NoError(err)
	req.EqualValues(0, count)
}

func TestMarkAllRead(t *testing.T) {
	req := require.New(t)
	f := newFixture()
	actor := f.users.add("actor")
	recipient := f.users.add("recipient")
	other := f.users.add("other")

	for i := 0; i < 3; i++ {
		req.NoError(f.notificationSvc.Record(&models.Notification{
			Type: models.NotificationLike, ActorID: actor.ID, RecipientID: recipient.ID,
		}))
	}
	req.NoError(f.notificationSvc.Record(&models.Notification{
		Type: models.NotificationLike, ActorID: actor.ID, RecipientID: other.ID,
	}))

	req.NoError(f.notificationSvc.MarkAllRead(recipient.ID))

	count, err := f.notificationSvc.UnreadCount(recipient.ID)
	req.NoError(err)
	req.EqualValues(0, count)

	// Other recipients are untouched
	count, err = f.notificationSvc.UnreadCount(other.ID)
	req.NoError(err)
	req.EqualValues(1, count)
}

func TestDelete_ScopedToRecipient(t *testing.T) {
	req := require.New(t)
	f := newFixture()
	actor := f.users.add("actor")
	recipient := f.users.add("recipient")
	other := f.users.add("other")

	req.NoError(f.notificationSvc.Record(&models.Notification{
		Type: models.NotificationLike, ActorID: actor.ID, RecipientID: recipient.ID,
	}))
	id := f.notifications.rows[0].ID

	// Someone else's ledger cannot delete the row
	req.ErrorIs(f.notificationSvc.Delete(id, other.ID), ErrNotFound)
	req.NoError(f.notificationSvc.Delete(id, recipient.ID))
	// A second delete finds nothing
	req.ErrorIs(f.notificationSvc.Delete(id, recipient.ID), ErrNotFound)
}

func TestDeleteMatching_EmptyTargetMatchesAny(t *testing.T) {
	req := require.New(t)
	f := newFixture()
	actor := f.users.add("actor")
	recipient := f.users.add("recipient")

	req.NoError(f.notificationSvc.Record(&models.Notification{
		Type: models.NotificationFollow, ActorID: actor.ID, RecipientID: recipient.ID, TargetID: "7",
	}))
	req.NoError(f.notificationSvc.Record(&models.Notification{
		Type: models.NotificationLike, ActorID: actor.ID, RecipientID: recipient.ID, TargetID: "p1",
	}))

	req.NoError(f.notificationSvc.DeleteMatching(recipient.ID, actor.ID, models.NotificationFollow, ""))

	req.Len(f.notifications.rows, 1)
	req.Equal(models.NotificationLike, f.notifications.rows[0].Type)
}
