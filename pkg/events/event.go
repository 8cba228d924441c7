package events

import (
	"encoding/json"
	"time"
)

const (
	SelectionSaved        = "SELECTION_SAVED"
	SelectionGroupDeleted = "SELECTION_GROUP_DELETED"
	FilesPrepared         = "FILES_PREPARED"
	RandomFilesPrepared   = "RANDOM_FILES_PREPARED"
	NodesGenerated        = "NODES_GENERATED"
)

// Event defines the contract for all system events.
type Event interface {
	EventType() string
	// WorkspaceID is empty for events that concern every workspace.
	WorkspaceID() string
	Payload() map[string]interface{}
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string                 `json:"type"`
	Workspace  string                 `json:"workspace_id,omitempty"`
	Data       map[string]interface{} `json:"data"`
	OccurredAt time.Time              `json:"occurred_at"`
}

func New(eventType, workspaceID string, data map[string]interface{}) BaseEvent {
	if data == nil {
		data = map[string]interface{}{}
	}
	return BaseEvent{
		Type:       eventType,
		Workspace:  workspaceID,
		Data:       data,
		OccurredAt: time.Now().UTC(),
	}
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) WorkspaceID() string {
	return e.Workspace
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// Marshal encodes any Event in the wire form shared by the bus, NATS and
// the websocket.
func Marshal(e Event) ([]byte, error) {
	return json.Marshal(BaseEvent{
		Type:       e.EventType(),
		Workspace:  e.WorkspaceID(),
		Data:       e.Payload(),
		OccurredAt: e.Timestamp(),
	})
}

func Unmarshal(data []byte) (BaseEvent, error) {
	var e BaseEvent
	err := json.Unmarshal(data, &e)
	return e, err
}
