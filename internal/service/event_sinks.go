package service

import (
	"context"

	internalWS "td-generator-be/internal/websocket"
	"td-generator-be/pkg/events"
	pktNats "td-generator-be/pkg/nats"
)

type hubSink struct {
	hub *internalWS.Hub
}

// NewHubSink pushes events to the browsers watching the workspace. Events
// without a workspace go to every connected browser.
func NewHubSink(hub *internalWS.Hub) EventSink {
	return &hubSink{hub: hub}
}

func (s *hubSink) Deliver(ctx context.Context, event events.Event, raw []byte) error {
	if event.WorkspaceID() == "" {
		s.hub.Broadcast(raw)
		return nil
	}
	s.hub.Publish(event.WorkspaceID(), raw)
	return nil
}

type natsSink struct {
	publisher *pktNats.Publisher
}

func NewNatsSink(publisher *pktNats.Publisher) EventSink {
	return &natsSink{publisher: publisher}
}

func (s *natsSink) Deliver(ctx context.Context, event events.Event, raw []byte) error {
	return s.publisher.Publish(ctx, event)
}
