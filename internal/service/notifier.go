package service

import (
	"context"

	"ecomarket/internal/events"

	"go.uber.org/zap"
)

// CatalogInvalidator drops cached catalog reads after a write.
type CatalogInvalidator interface {
	Invalidate(ctx context.Context) error
}

// changeNotifier runs the post-write steps shared by every admin mutation.
// Neither step can fail the mutation; problems are logged.
type changeNotifier struct {
	invalidator CatalogInvalidator
	publisher   events.Publisher
	logger      *zap.Logger
}

func newChangeNotifier(invalidator CatalogInvalidator, publisher events.Publisher, logger *zap.Logger) changeNotifier {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return changeNotifier{invalidator: invalidator, publisher: publisher, logger: logger}
}

func (n changeNotifier) changed(ctx context.Context, eventType string, entityID int64, payload any) {
	if n.invalidator != nil {
		if err := n.invalidator.Invalidate(ctx); err != nil {
			n.logger.Warn("Failed to invalidate catalog cache",
				zap.String("event", eventType),
				zap.Error(err),
			)
		}
	}

	if err := n.publisher.Publish(ctx, events.New(eventType, entityID, payload)); err != nil {
		n.logger.Warn("Failed to publish event",
			zap.String("event", eventType),
			zap.Int64("entity_id", entityID),
			zap.Error(err),
		)
	}
}
