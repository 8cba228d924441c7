package service

import (
	"context"

	"td-generator-be/internal/pkg/logger"
	"td-generator-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// EventSink receives every decoded event. The websocket hub and the NATS
// publisher are the production sinks.
type EventSink interface {
	Deliver(ctx context.Context, event events.Event, raw []byte) error
}

type consumerService struct {
	subscriber message.Subscriber
	topicName  string
	sinks      []EventSink
	logger     logger.ILogger
}

func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	logger logger.ILogger,
	sinks ...EventSink,
) IConsumerService {
	return &consumerService{
		subscriber: subscriber,
		topicName:  topicName,
		sinks:      sinks,
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
	event, err := events.Unmarshal(msg.Payload)
	if err != nil {
		cs.logger.Error("ConsumerService", "Failed to unmarshal event", map[string]interface{}{"error": err.Error()})
		// invalid payloads would be redelivered forever
		msg.Ack()
		return
	}

	for _, sink := range cs.sinks {
		if err := sink.Deliver(ctx, event, msg.Payload); err != nil {
			cs.logger.Warn("ConsumerService", "Event sink failed", map[string]interface{}{
				"event_type":   event.EventType(),
				"workspace_id": event.WorkspaceID(),
				"error":        err.Error(),
			})
		}
	}

	cs.logger.Debug("ConsumerService", "Event dispatched", map[string]interface{}{
		"event_type":   event.EventType(),
		"workspace_id": event.WorkspaceID(),
	})
	msg.Ack()
}
