package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcher_RunsAllHandlersAndJoinsErrors(t *testing.T) {
	d := NewInMemoryDispatcher()
	boom := errors.New("boom")

	var seen []Event
	d.Subscribe(EventProjectCreated, func(_ context.Context, e Event) error {
		return boom
	})
	d.Subscribe(EventProjectCreated, func(_ context.Context, e Event) error {
		seen = append(seen, e)
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventProjectCreated, SubjectID: 4})
	assert.ErrorIs(t, err, boom)
	require.Len(t, seen, 1)
	assert.NotEmpty(t, seen[0].ID)
	assert.False(t, seen[0].Timestamp.IsZero())
	assert.Equal(t, int64(4), seen[0].SubjectID)
}

func TestDispatcher_NoSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher()
	assert.NoError(t, d.Publish(context.Background(), Event{Type: EventProjectDeleted}))
}

type recordingChannel struct {
	keys []string
	msgs []amqp.Publishing
}

func (r *recordingChannel) PublishWithContext(_ context.Context, _, key string, _, _ bool, msg amqp.Publishing) error {
	r.keys = append(r.keys, key)
	r.msgs = append(r.msgs, msg)
	return nil
}

func (r *recordingChannel) Close() error { return nil }

func TestAMQPPublisher_RoutesByType(t *testing.T) {
	ch := &recordingChannel{}
	p := &AMQPPublisher{channel: ch, exchange: "tcnexs.events"}
	d := NewInMemoryDispatcher()
	d.Subscribe(EventAnnouncementCreated, p.Publish)

	payload := AnnouncementPayload{Title: "t", Type: "offer", CompanyID: 3}
	require.NoError(t, d.Publish(context.Background(), Event{Type: EventAnnouncementCreated, SubjectID: 9, ActorID: 3, Payload: payload}))

	require.Equal(t, []string{"announcement_created"}, ch.keys)
	msg := ch.msgs[0]
	assert.Equal(t, "application/json", msg.ContentType)
	assert.Equal(t, amqp.Persistent, msg.DeliveryMode)

	var decoded struct {
		Type      string `json:"type"`
		SubjectID int64  `json:"subject_id"`
	}
	require.NoError(t, json.Unmarshal(msg.Body, &decoded))
	assert.Equal(t, "announcement_created", decoded.Type)
	assert.Equal(t, int64(9), decoded.SubjectID)
}
