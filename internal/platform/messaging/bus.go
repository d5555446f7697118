package messaging

import (
	"context"
	"log/slog"
	"sync"

	"offerhub/internal/shared/events"
)

const logModule = "internal/platform/messaging"

// EventBus carries offer events between the outbox relay and consumers inside
// one process. Every consumer group sees each event once; members of the same
// group share the topic round-robin. Brokers are recorded for configuration
// parity with a networked deployment.
type EventBus struct {
	mu      sync.Mutex
	brokers []string
	topics  map[string]map[string]*consumerGroup
	logger  *slog.Logger
}

type consumerGroup struct {
	members []*groupMember
	next    int
}

type groupMember struct {
	inbox chan events.Envelope
	done  chan struct{}
}

func NewEventBus(brokers []string, logger *slog.Logger) (*EventBus, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("event bus ready",
		"event", "event_bus_ready",
		"module", logModule,
		"layer", "platform",
		"brokers", brokers,
	)
	return &EventBus{
		brokers: append([]string(nil), brokers...),
		topics:  make(map[string]map[string]*consumerGroup),
		logger:  logger,
	}, nil
}

// Publish hands the event to one member of every group subscribed to topic.
// It waits for buffer space rather than dropping, so a relay only marks an
// outbox row sent once every group holds the event.
func (b *EventBus) Publish(ctx context.Context, topic string, event events.Envelope) error {
	for _, target := range b.pickMembers(topic) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-target.done:
			b.logger.Warn("consumer left before delivery",
				"event", "event_bus_member_gone",
				"module", logModule,
				"layer", "platform",
				"topic", topic,
				"event_id", event.EventID,
			)
		case target.inbox <- event:
		}
	}

	b.logger.Debug("event published",
		"event", "event_bus_published",
		"module", logModule,
		"layer", "platform",
		"topic", topic,
		"event_id", event.EventID,
		"event_type", event.EventType,
	)
	return nil
}

func (b *EventBus) pickMembers(topic string) []*groupMember {
	b.mu.Lock()
	defer b.mu.Unlock()

	groups := b.topics[topic]
	targets := make([]*groupMember, 0, len(groups))
	for _, group := range groups {
		if len(group.members) == 0 {
			continue
		}
		targets = append(targets, group.members[group.next%len(group.members)])
		group.next++
	}
	return targets
}

// Subscribe joins consumerGroup on topic and runs handler for each delivered
// event until ctx ends. Handler errors are logged; the event is not redelivered.
func (b *EventBus) Subscribe(
	ctx context.Context,
	topic string,
	consumerGroup string,
	handler func(context.Context, events.Envelope) error,
) error {
	member := &groupMember{
		inbox: make(chan events.Envelope, 128),
		done:  make(chan struct{}),
	}
	b.join(topic, consumerGroup, member)

	go func() {
		defer b.leave(topic, consumerGroup, member)
		for {
			select {
			case <-ctx.Done():
				return
			case event := <-member.inbox:
				if err := handler(ctx, event); err != nil {
					b.logger.Error("consumer handler failed",
						"event", "event_bus_consume_failed",
						"module", logModule,
						"layer", "platform",
						"topic", topic,
						"consumer_group", consumerGroup,
						"event_id", event.EventID,
						"event_type", event.EventType,
						"error", err.Error(),
					)
				}
			}
		}
	}()
	return nil
}

func (b *EventBus) join(topic string, name string, member *groupMember) {
	b.mu.Lock()
	defer b.mu.Unlock()

	groups, ok := b.topics[topic]
	if !ok {
		groups = make(map[string]*consumerGroup)
		b.topics[topic] = groups
	}
	group, ok := groups[name]
	if !ok {
		group = &consumerGroup{}
		groups[name] = group
	}
	group.members = append(group.members, member)
}

func (b *EventBus) leave(topic string, name string, member *groupMember) {
	close(member.done)

	b.mu.Lock()
	defer b.mu.Unlock()

	group := b.topics[topic][name]
	if group == nil {
		return
	}
	kept := group.members[:0]
	for _, item := range group.members {
		if item != member {
			kept = append(kept, item)
		}
	}
	group.members = kept
	if len(kept) == 0 {
		delete(b.topics[topic], name)
	}
}

// Brokers returns the configured broker addresses.
func (b *EventBus) Brokers() []string {
	return append([]string(nil), b.brokers...)
}
