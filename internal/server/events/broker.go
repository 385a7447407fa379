package events

import (
	"context"
	gosync "sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	queueSize   = 256
	historySize = 128
)

// Broker numbers published events and hands them to every subscriber in
// order. The most recent events are kept for replay.
type Broker struct {
	logger *zerolog.Logger
	queue  chan Event

	mu      gosync.RWMutex
	subs    []Subscriber
	seq     uint64
	history []Event // ring, oldest at start
	start   int
}

// NewBroker returns a broker. Nothing is delivered before Run.
func NewBroker(logger *zerolog.Logger) *Broker {
	return &Broker{
		logger:  logger,
		queue:   make(chan Event, queueSize),
		history: make([]Event, 0, historySize),
	}
}

// Publish records an event and queues it for delivery. When the queue is
// full the event is only kept in the history.
func (b *Broker) Publish(eventType EventType, data any) Event {
	b.mu.Lock()
	b.seq++
	event := Event{Seq: b.seq, Type: eventType, Timestamp: time.Now().UTC(), Data: data}
	if len(b.history) < historySize {
		b.history = append(b.history, event)
	} else {
		b.history[b.start] = event
		b.start = (b.start + 1) % historySize
	}
	b.mu.Unlock()

	select {
	case b.queue <- event:
	default:
		b.logger.Warn().
			Uint64("seq", event.Seq).
			Str("event_type", string(eventType)).
			Msg("Event queue full, live delivery skipped")
	}
	return event
}

// Since returns the retained events with a sequence number above seq, oldest
// first.
func (b *Broker) Since(seq uint64) []Event {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := []Event{}
	for i := range b.history {
		e := b.history[(b.start+i)%len(b.history)]
		if e.Seq > seq {
			out = append(out, e)
		}
	}
	return out
}

// Subscribe adds sub to the delivery list. It may be called before Run.
func (b *Broker) Subscribe(sub Subscriber) {
	b.mu.Lock()
	b.subs = append(b.subs, sub)
	b.mu.Unlock()
}

// SubscriberCount returns the number of subscribers.
func (b *Broker) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Run delivers queued events until ctx is done, then closes the subscribers.
func (b *Broker) Run(ctx context.Context) {
	for {
		select {
		case event := <-b.queue:
			b.deliver(event)
		case <-ctx.Done():
			b.mu.Lock()
			subs := b.subs
			b.subs = nil
			b.mu.Unlock()
			for _, sub := range subs {
				if err := sub.Close(); err != nil {
					b.logger.Warn().Err(err).Msg("Failed to close subscriber")
				}
			}
			b.logger.Info().Uint64("last_seq", b.lastSeq()).Msg("Event broker stopped")
			return
		}
	}
}

func (b *Broker) deliver(event Event) {
	b.mu.RLock()
	subs := b.subs
	b.mu.RUnlock()

	for _, sub := range subs {
		if err := sub.Send(event); err != nil {
			b.logger.Warn().Err(err).Uint64("seq", event.Seq).Msg("Subscriber rejected event")
		}
	}
	b.logger.Trace().
		Uint64("seq", event.Seq).
		Str("event_type", string(event.Type)).
		Int("subscribers", len(subs)).
		Msg("Event delivered")
}

func (b *Broker) lastSeq() uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.seq
}
