package report

import (
	"encoding/json"

	"dexspread/internal/model"
)

const (
	EventTick    = "tick"
	EventFailure = "failure"
)

// Event is the JSON envelope published to live subscribers.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

func encodeTick(report model.TickReport) ([]byte, error) {
	return json.Marshal(Event{Type: EventTick, Data: report})
}

func encodeFailure(failure model.TickFailure) ([]byte, error) {
	return json.Marshal(Event{Type: EventFailure, Data: failure})
}
