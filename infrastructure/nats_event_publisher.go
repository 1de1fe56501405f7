package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"diceroyale/events"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const (
	sourceService = "diceroyale"
	streamName    = "table_events"

	forwardQueueSize = 1024
)

// MessagePublisher is the transport the event publisher writes to
type MessagePublisher interface {
	Publish(ctx context.Context, subject string, data []byte) error
}

// EventEnvelope wraps every event sent over NATS
type EventEnvelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	Timestamp     time.Time       `json:"timestamp"`
	SourceService string          `json:"source_service"`
	Payload       json.RawMessage `json:"payload"`
}

// NATSEventPublisher forwards in-process events to NATS subjects.
// Forwarded events go through a single queue and reach NATS in bus order.
type NATSEventPublisher struct {
	transport     MessagePublisher
	subjectMapper *EventSubjectMapper
	now           func() time.Time

	mu      sync.Mutex
	queue   chan events.Event
	done    chan struct{}
	started bool
	closed  bool
}

// NewNATSEventPublisher creates a new NATS event publisher
func NewNATSEventPublisher(transport MessagePublisher, subjectMapper *EventSubjectMapper) *NATSEventPublisher {
	return &NATSEventPublisher{
		transport:     transport,
		subjectMapper: subjectMapper,
		now:           time.Now,
		queue:         make(chan events.Event, forwardQueueSize),
		done:          make(chan struct{}),
	}
}

// Publish publishes an event to NATS using the appropriate subject
func (p *NATSEventPublisher) Publish(ctx context.Context, event events.Event) error {
	subject := p.subjectMapper.MapEventToSubject(event)

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}

	envelope := EventEnvelope{
		EventID:       uuid.New().String(),
		EventType:     string(event.Type()),
		Timestamp:     p.now().UTC(),
		SourceService: sourceService,
		Payload:       payload,
	}

	envelopeData, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("failed to marshal event envelope: %w", err)
	}

	if err := p.transport.Publish(ctx, subject, envelopeData); err != nil {
		return fmt.Errorf("failed to publish event to NATS: %w", err)
	}

	log.WithFields(log.Fields{
		"eventType": event.Type(),
		"eventId":   envelope.EventID,
		"subject":   subject,
	}).Debug("Successfully published event to NATS")

	return nil
}

// Forward observes every event on the bus and publishes them one at a time
func (p *NATSEventPublisher) Forward(bus *events.Bus) {
	p.mu.Lock()
	if !p.started && !p.closed {
		p.started = true
		go p.drain()
	}
	p.mu.Unlock()

	bus.Observe(p.enqueue)
}

// Close stops accepting events and waits for queued ones to be published
func (p *NATSEventPublisher) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	started := p.started
	close(p.queue)
	p.mu.Unlock()

	if started {
		<-p.done
	}
}

func (p *NATSEventPublisher) enqueue(event events.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}

	select {
	case p.queue <- event:
	default:
		log.WithFields(log.Fields{
			"eventType": event.Type(),
			"queueSize": forwardQueueSize,
		}).Warn("NATS forward queue is full, dropping event")
	}
}

func (p *NATSEventPublisher) drain() {
	defer close(p.done)

	for event := range p.queue {
		if err := p.Publish(context.Background(), event); err != nil {
			log.WithFields(log.Fields{
				"eventType": event.Type(),
				"error":     err,
			}).Error("Failed to forward event to NATS")
		}
	}
}

// EnsureTableEventStream ensures the table_events stream exists with the correct subjects
func EnsureTableEventStream(client *NATSClient, mapper *EventSubjectMapper) error {
	return client.EnsureStream(streamName, mapper.GetAllSubjects())
}
