package infrastructure

import (
	"fmt"

	"diceroyale/events"
)

var subjectsByType = map[events.EventType]string{
	events.EventTypeBetPlaced:     "table.bets.placed",
	events.EventTypeBalanceChange: "table.balances.changed",
	events.EventTypeRoundResolved: "table.rounds.resolved",
	events.EventTypePhaseChanged:  "table.rounds.phase_changed",
	events.EventTypeTableReset:    "table.reset",
	events.EventTypeBagChanged:    "store.bag.changed",
}

// EventSubjectMapper handles mapping between table events and NATS subjects
type EventSubjectMapper struct{}

// NewEventSubjectMapper creates a new event subject mapper
func NewEventSubjectMapper() *EventSubjectMapper {
	return &EventSubjectMapper{}
}

// MapEventToSubject converts an event to its NATS subject
func (m *EventSubjectMapper) MapEventToSubject(event events.Event) string {
	if subject, ok := subjectsByType[event.Type()]; ok {
		return subject
	}
	return fmt.Sprintf("unknown.%s", event.Type())
}

// MapSubjectToEventType converts a NATS subject back to an event type
func (m *EventSubjectMapper) MapSubjectToEventType(subject string) events.EventType {
	for eventType, s := range subjectsByType {
		if s == subject {
			return eventType
		}
	}
	return events.EventType(subject)
}

// GetAllSubjects returns all subjects this service publishes to, in event type order
func (m *EventSubjectMapper) GetAllSubjects() []string {
	subjects := make([]string, 0, len(events.AllEventTypes))
	for _, eventType := range events.AllEventTypes {
		subjects = append(subjects, subjectsByType[eventType])
	}
	return subjects
}
