package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/tcnexs/backend/internal/events"
	"github.com/tcnexs/backend/internal/policy"
	"github.com/tcnexs/backend/internal/repository"
	apperrors "github.com/tcnexs/backend/pkg/util/errorutil"
)

const (
	msgConcurrentModification = "resource was modified concurrently"
	msgDuplicateEmail         = "Company with this email already exists"
)

// DecisionRecorder observes every access decision a service makes.
type DecisionRecorder interface {
	RecordDecision(d policy.Decision)
}

// guard records d and converts a denial into its typed error.
type guard struct {
	decisions DecisionRecorder
}

func (g guard) check(d policy.Decision) error {
	if g.decisions != nil {
		g.decisions.RecordDecision(d)
	}
	return d.Err()
}

// publisher delivers events without failing the calling operation.
type publisher struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

func (p publisher) publish(ctx context.Context, event events.Event) {
	if p.dispatcher == nil {
		return
	}
	if err := p.dispatcher.Publish(ctx, event); err != nil {
		p.logger.Warn("event delivery failed",
			zap.String("event_type", string(event.Type)),
			zap.Int64("subject_id", event.SubjectID),
			zap.Error(err))
	}
}

func loggerOrNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}

// mapRepoError converts storage sentinels into domain errors for resource.
func mapRepoError(err error, resource string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, pgx.ErrNoRows):
		return apperrors.NewNotFound(resource, nil)
	case errors.Is(err, repository.ErrVersionConflict):
		return apperrors.NewConflict(msgConcurrentModification, nil)
	case errors.Is(err, repository.ErrDuplicateEmail):
		return apperrors.NewConflict(msgDuplicateEmail, nil)
	}
	return fmt.Errorf("%s storage: %w", resource, err)
}
