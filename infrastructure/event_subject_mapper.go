package infrastructure

import (
	"fmt"

	"montyhall/events"
)

// SimulationStream is the JetStream stream that holds every simulation event
const SimulationStream = "simulation_events"

// EventSubjectMapper handles mapping between events and NATS subjects
type EventSubjectMapper struct{}

// NewEventSubjectMapper creates a new event subject mapper
func NewEventSubjectMapper() *EventSubjectMapper {
	return &EventSubjectMapper{}
}

// MapEventToSubject converts an event to its NATS subject
func (m *EventSubjectMapper) MapEventToSubject(event events.Event) string {
	switch event.Type() {
	case events.EventTypeSimulationCompleted:
		return "montyhall.simulation.completed"
	case events.EventTypeSimulationFailed:
		return "montyhall.simulation.failed"
	default:
		return fmt.Sprintf("montyhall.unknown.%s", event.Type())
	}
}

// GetAllSubjects returns all subjects this service publishes to
func (m *EventSubjectMapper) GetAllSubjects() []string {
	return []string{
		"montyhall.simulation.completed",
		"montyhall.simulation.failed",
	}
}
