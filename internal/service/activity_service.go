package service

import (
	"context"
	"time"

	"datahub-portal-be/internal/pkg/logger"
	"datahub-portal-be/pkg/events"
	pktNats "datahub-portal-be/pkg/nats"

	"github.com/google/uuid"
)

const (
	NotificationActivity = "activity"

	activityDurable = "portal-activity-worker"
)

// EventSubscriber is satisfied by the NATS subscriber.
type EventSubscriber interface {
	Subscribe(ctx context.Context, subject, durableName string, handler pktNats.EventHandler) error
}

type ActivityNotification struct {
	Type       string                 `json:"type"`
	EntityType string                 `json:"entityType"`
	EntityID   string                 `json:"entityId"`
	Details    map[string]interface{} `json:"details"`
	OccurredAt time.Time              `json:"occurredAt"`
}

// ActivityService writes every domain event to the audit log and echoes it
// to the acting user's open sessions.
type ActivityService struct {
	subscriber EventSubscriber
	notifier   INotifier
	audit      logger.ILogger
	logger     logger.ILogger
}

func NewActivityService(sub EventSubscriber, notifier INotifier, audit, log logger.ILogger) *ActivityService {
	return &ActivityService{
		subscriber: sub,
		notifier:   notifier,
		audit:      audit,
		logger:     log,
	}
}

// Start begins listening to the event bus.
func (s *ActivityService) Start(ctx context.Context) error {
	subject := pktNats.Subject(">")
	if err := s.subscriber.Subscribe(ctx, subject, activityDurable, s.HandleEvent); err != nil {
		s.logger.Error("ActivityService", "Failed to start activity subscriber", map[string]interface{}{"error": err.Error()})
		return err
	}
	s.logger.Info("ActivityService", "Listening to "+subject, nil)
	return nil
}

func (s *ActivityService) HandleEvent(_ context.Context, event events.Event) error {
	payload := event.Payload()

	entityType, _ := payload["entity_type"].(string)
	entityID, _ := payload["entity_id"].(string)

	details := make(map[string]interface{}, len(payload))
	for k, v := range payload {
		if k == "entity_type" || k == "entity_id" {
			continue
		}
		details[k] = v
	}

	s.audit.Info("AUDIT", event.EventType(), map[string]interface{}{
		"entity_type": entityType,
		"entity_id":   entityID,
		"details":     details,
		"occurred_at": event.Timestamp(),
	})

	actor, ok := actorOf(payload)
	if !ok {
		s.logger.Warn("ActivityService", "Event without user_id", map[string]interface{}{"type": event.EventType()})
		return nil
	}

	if s.notifier != nil {
		s.notifier.Notify(actor, NotificationActivity, ActivityNotification{
			Type:       event.EventType(),
			EntityType: entityType,
			EntityID:   entityID,
			Details:    details,
			OccurredAt: event.Timestamp(),
		})
	}
	return nil
}

func actorOf(payload map[string]interface{}) (uuid.UUID, bool) {
	raw, ok := payload["user_id"].(string)
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
