package service

import (
	"context"
	"encoding/json"

	"ai-coding-assistant-be/internal/dto"
	"ai-coding-assistant-be/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill/message"
)

const LiveEventMessageAppended = "message.appended"

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService forwards appended messages from the in-process bus to the
// owner's live connections.
type consumerService struct {
	subscriber message.Subscriber
	topicName  string
	live       LiveDelivery
	logger     logger.ILogger
}

func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	live LiveDelivery,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		subscriber: subscriber,
		topicName:  topicName,
		live:       live,
		logger:     log,
	}
}

// Consume subscribes and processes messages in the background until ctx is done.
func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(msg *message.Message) {
	// Live delivery is best effort; every message is acked.
	defer msg.Ack()

	var payload dto.MessageAppendedEvent
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("CONSUMER", "Failed to unmarshal message.appended", map[string]interface{}{
			"message_uuid": msg.UUID,
			"error":        err.Error(),
		})
		return
	}

	cs.live.Send(payload.OwnerId, LiveEventMessageAppended, payload.Message)
}
