package events

import (
	"fmt"
	"time"
)

// EventType type of event
type EventType string

const (
	// TypeSnapshot is published once per aggregation run, with the whole snapshot as data
	TypeSnapshot EventType = "SNAPSHOT"
	// TypeUnhealthy is published for each pipeline whose health status is not HEALTHY, with its record as data
	TypeUnhealthy EventType = "UNHEALTHY"
)

// Event represents a message to publish.
type Event struct {
	Type          EventType
	RunID         string
	PipelineID    string
	CorrelationID string
	Data          interface{}
	Time          time.Time
}

func (e Event) String() string {
	if e.PipelineID == "" {
		return fmt.Sprintf("%s of run %s", e.Type, e.RunID)
	}
	return fmt.Sprintf("%s for pipeline %s of run %s", e.Type, e.PipelineID, e.RunID)
}
