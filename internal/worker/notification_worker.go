package worker

import (
	"context"

	"github.com/tcnexs/backend/internal/service"
)

// StartNotificationWorker starts the relay loop, if any, and registers the
// notification handlers. The relay stops when ctx is cancelled.
func StartNotificationWorker(ctx context.Context, notificationService *service.NotificationService, relay *EventRelay) {
	if relay != nil {
		go relay.Run(ctx)
	}
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
}
