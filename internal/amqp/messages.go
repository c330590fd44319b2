package amqp

import (
	"encoding/json"
	"time"
)

const (
	OpAppend = "append"
	OpUpdate = "update"
)

// WriteEvent announces a successful store write so other dashboard
// instances can invalidate their memoized snapshot. Key is the appended
// row's description or the updated asset name, carried for diagnostics
// only.
type WriteEvent struct {
	Worksheet string    `json:"worksheet"`
	Op        string    `json:"op"`
	Key       string    `json:"key"`
	Timestamp time.Time `json:"timestamp"`
}

func NewWriteEvent(worksheet, op, key string) WriteEvent {
	return WriteEvent{
		Worksheet: worksheet,
		Op:        op,
		Key:       key,
		Timestamp: time.Now(),
	}
}

func (e WriteEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func WriteEventFromJSON(data []byte) (WriteEvent, error) {
	var e WriteEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return WriteEvent{}, err
	}
	return e, nil
}
