package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/tcnexs/backend/internal/events"
)

// EventForwarder ships events to an external broker.
type EventForwarder interface {
	Publish(ctx context.Context, event events.Event) error
}

// NotificationService handles emitting notifications for domain events.
type NotificationService struct {
	dispatcher events.Dispatcher
	forwarder  EventForwarder
	logger     *zap.Logger
}

// NewNotificationService creates the service. forwarder may be nil.
func NewNotificationService(dispatcher events.Dispatcher, forwarder EventForwarder, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		forwarder:  forwarder,
		logger:     loggerOrNop(logger),
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	for _, t := range events.AllEventTypes {
		n.dispatcher.Subscribe(t, n.handle)
	}
}

func (n *NotificationService) handle(ctx context.Context, event events.Event) error {
	n.logger.Info(string(event.Type),
		zap.String("event_id", event.ID),
		zap.Int64("subject_id", event.SubjectID),
		zap.Int64("actor_id", event.ActorID),
		zap.Any("payload", event.Payload))
	if n.forwarder == nil {
		return nil
	}
	return n.forwarder.Publish(ctx, event)
}
