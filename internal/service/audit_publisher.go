package service

import (
	"context"

	"datahub-portal-be/internal/pkg/logger"
	"datahub-portal-be/pkg/events"

	"github.com/google/uuid"
)

// IEventPublisher is satisfied by the NATS publisher.
type IEventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// IAuditPublisher emits audit events. Publishing is best effort: a failure
// is logged and never fails the operation that caused it.
type IAuditPublisher interface {
	RecordsDeleted(ctx context.Context, userId, submissionId uuid.UUID, nodeType string, affected int64, deleteAll bool)
	OrganizationCreated(ctx context.Context, userId, orgId uuid.UUID, name string)
	OrganizationUpdated(ctx context.Context, userId, orgId uuid.UUID, changes map[string]interface{})
}

type auditPublisher struct {
	publisher IEventPublisher
	logger    logger.ILogger
}

// NewAuditPublisher accepts a nil publisher, in which case nothing is sent.
func NewAuditPublisher(publisher IEventPublisher, logger logger.ILogger) IAuditPublisher {
	return &auditPublisher{publisher: publisher, logger: logger}
}

func (p *auditPublisher) publish(ctx context.Context, evt events.BaseEvent) {
	if p.publisher == nil {
		return
	}
	if err := p.publisher.Publish(ctx, evt); err != nil {
		p.logger.Error("AUDIT", "Failed to publish "+evt.Type+" event", map[string]interface{}{"error": err.Error()})
	}
}

func (p *auditPublisher) RecordsDeleted(ctx context.Context, userId, submissionId uuid.UUID, nodeType string, affected int64, deleteAll bool) {
	p.publish(ctx, events.New(events.TypeRecordsDeleted, map[string]interface{}{
		"user_id":       userId,
		"submission_id": submissionId,
		"node_type":     nodeType,
		"affected":      affected,
		"delete_all":    deleteAll,
		"entity_type":   "submission",
		"entity_id":     submissionId.String(),
	}))
}

func (p *auditPublisher) OrganizationCreated(ctx context.Context, userId, orgId uuid.UUID, name string) {
	p.publish(ctx, events.New(events.TypeOrganizationCreated, map[string]interface{}{
		"user_id":     userId,
		"name":        name,
		"entity_type": "organization",
		"entity_id":   orgId.String(),
	}))
}

func (p *auditPublisher) OrganizationUpdated(ctx context.Context, userId, orgId uuid.UUID, changes map[string]interface{}) {
	p.publish(ctx, events.New(events.TypeOrganizationUpdated, map[string]interface{}{
		"user_id":     userId,
		"changes":     changes,
		"entity_type": "organization",
		"entity_id":   orgId.String(),
	}))
}
