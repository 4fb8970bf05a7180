package service

import (
	"context"
	"encoding/json"

	"datahub-portal-be/internal/dto"
	"datahub-portal-be/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

const NotificationSelectionReset = "selection_reset"

// INotifier pushes a typed message to every connection of a user.
type INotifier interface {
	Notify(userID uuid.UUID, messageType string, data any)
}

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService reacts to deleted records: other users' selections in the
// same submission no longer describe existing rows, so they are dropped and
// the users are told.
type consumerService struct {
	subscriber message.Subscriber
	topicName  string
	selections ISelectionService
	notifier   INotifier
	logger     logger.ILogger
}

func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	selections ISelectionService,
	notifier INotifier,
	logger logger.ILogger,
) IConsumerService {
	return &consumerService{
		subscriber: subscriber,
		topicName:  topicName,
		selections: selections,
		notifier:   notifier,
		logger:     logger,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.RecordsDeletedMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("CONSUMER", "Failed to unmarshal records-deleted message", map[string]interface{}{
			"error":      err.Error(),
			"message_id": msg.UUID,
		})
		// Invalid payloads never succeed.
		msg.Ack()
		return
	}

	actor := dto.SelectionView{UserId: payload.UserId, SubmissionId: payload.SubmissionId, NodeType: payload.NodeType}
	dropped, err := cs.selections.ResetSubmission(ctx, payload.SubmissionId, &actor)
	if err != nil {
		cs.logger.Error("CONSUMER", "Failed to reset selections", map[string]interface{}{
			"error":         err.Error(),
			"submission_id": payload.SubmissionId,
		})
		msg.Nack()
		return
	}

	for _, view := range dropped {
		cs.notifier.Notify(view.UserId, NotificationSelectionReset, dto.SelectionResetNotification{
			SubmissionId: view.SubmissionId,
			NodeType:     view.NodeType,
			Reason:       "records in this submission were deleted",
		})
	}

	cs.logger.Info("CONSUMER", "Selections reset after delete", map[string]interface{}{
		"submission_id": payload.SubmissionId,
		"affected":      payload.Affected,
		"views_reset":   len(dropped),
	})
	msg.Ack()
}
