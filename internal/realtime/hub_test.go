package realtime

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/ardenlow/pulsegram/backend/internal/models"
	"github.com/stretchr/testify/require"
)

func TestHub_PublishReachesSubscriber(t *testing.T) {
	req := require.New(t)
	hub := NewHub()
	conn := hub.Subscribe(7)
	req.Equal(1, hub.ConnectionCount(7))

	hub.Publish(7, Event{
		ID:      1,
		Type:    "follow",
		Message: "alice started following you",
		Sender:  models.UserCompact{ID: 2, Username: "alice"},
	})

	data := <-conn.Receive()
	var got Event
	req.NoError(json.Unmarshal(data, &got))
	req.Equal("follow", got.Type)
	req.Equal("alice started following you", got.Message)
	req.Equal("alice", got.Sender.Username)
	req.False(got.IsRead)
}

func TestHub_PublishToAbsentRecipientIsNoop(t *testing.T) {
	hub := NewHub()
	// Must not panic or block
	hub.Publish(42, Event{Type: "like"})
	require.Equal(t, 0, hub.ConnectionCount(42))
}

func TestHub_BroadcastToAllConnectionsOfRecipient(t *testing.T) {
	req := require.New(t)
	hub := NewHub()
	first := hub.Subscribe(7)
	second := hub.Subscribe(7)
	other := hub.Subscribe(8)
	req.Equal(2, hub.ConnectionCount(7))

	hub.Publish(7, Event{Type: "comment"})

	<-first.Receive()
	<-second.Receive()
	select {
	case <-other.Receive():
		t.Fatal("event leaked to another recipient")
	default:
	}
}

func TestHub_UnsubscribeClosesChannel(t *testing.T) {
	req := require.New(t)
	hub := NewHub()
	conn := hub.Subscribe(7)

	hub.Unsubscribe(7, conn)
	req.Equal(0, hub.ConnectionCount(7))

	_, open := <-conn.Receive()
	req.False(open)

	// A second unsubscribe of the same connection is safe
	hub.Unsubscribe(7, conn)
}

func TestHub_SlowConnectionDropsInsteadOfBlocking(t *testing.T) {
	req := require.New(t)
	hub := NewHub()
	conn := hub.Subscribe(7)

	// Overfill the connection buffer; Publish must never block
	for i := 0; i < 100; i++ {
		hub.Publish(7, Event{ID: uint(i), Type: "like"})
	}

	delivered := 0
	for {
		select {
		case <-conn.Receive():
			delivered++
			continue
		default:
		}
		break
	}
	req.Greater(delivered, 0)
	req.LessOrEqual(delivered, 16)
}

func TestHub_ConcurrentSubscribePublish(t *testing.T) {
	hub := NewHub()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		recipient := uint(i % 3)
		go func() {
			defer wg.Done()
			conn := hub.Subscribe(recipient)
			hub.Unsubscribe(recipient, conn)
		}()
		go func() {
			defer wg.Done()
			hub.Publish(recipient, Event{Type: "like"})
		}()
	}
	wg.Wait()
}
