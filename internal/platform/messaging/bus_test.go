package messaging

import (
	"context"
	"testing"
	"time"

	"offerhub/internal/shared/events"
)

func waitFor(t *testing.T, ch <-chan events.Envelope) events.Envelope {
	t.Helper()
	select {
	case event := <-ch:
		return event
	case <-time.After(time.Second):
		t.Fatal("expected event delivery")
	}
	return events.Envelope{}
}

func TestPublishDeliversOnlyToTopicSubscribers(t *testing.T) {
	bus, err := NewEventBus(nil, nil)
	if err != nil {
		t.Fatalf("new bus failed: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan events.Envelope, 2)
	err = bus.Subscribe(ctx, "offer.created", "test-cg", func(_ context.Context, event events.Envelope) error {
		received <- event
		return nil
	})
	if err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}

	if err := bus.Publish(ctx, "offer.deleted", events.Envelope{EventID: "evt-other"}); err != nil {
		t.Fatalf("publish failed: %v", err)
	}
	if err := bus.Publish(ctx, "offer.created", events.Envelope{EventID: "evt-1", EventType: "offer.created"}); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	if event := waitFor(t, received); event.EventID != "evt-1" {
		t.Fatalf("expected evt-1, got %s", event.EventID)
	}
}

func TestEachGroupReceivesEveryEventOnce(t *testing.T) {
	bus, _ := NewEventBus([]string{"localhost:9092"}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	feed := make(chan events.Envelope, 4)
	audit := make(chan events.Envelope, 4)
	for i := 0; i < 2; i++ {
		_ = bus.Subscribe(ctx, "offer.edited", "feed-cg", func(_ context.Context, event events.Envelope) error {
			feed <- event
			return nil
		})
	}
	_ = bus.Subscribe(ctx, "offer.edited", "audit-cg", func(_ context.Context, event events.Envelope) error {
		audit <- event
		return nil
	})

	for _, id := range []string{"evt-1", "evt-2"} {
		if err := bus.Publish(ctx, "offer.edited", events.Envelope{EventID: id}); err != nil {
			t.Fatalf("publish failed: %v", err)
		}
	}

	seen := map[string]int{}
	for i := 0; i < 2; i++ {
		seen[waitFor(t, feed).EventID]++
		seen[waitFor(t, audit).EventID]++
	}
	if seen["evt-1"] != 2 || seen["evt-2"] != 2 {
		t.Fatalf("expected each event once per group, got %v", seen)
	}
	select {
	case extra := <-feed:
		t.Fatalf("feed group received duplicate %s", extra.EventID)
	case <-time.After(50 * time.Millisecond):
	}
	if got := bus.Brokers(); len(got) != 1 || got[0] != "localhost:9092" {
		t.Fatalf("expected configured broker, got %v", got)
	}
}

func TestPublishSkipsMembersThatLeft(t *testing.T) {
	bus, _ := NewEventBus(nil, nil)
	subCtx, leave := context.WithCancel(context.Background())
	_ = bus.Subscribe(subCtx, "offer.deleted", "gone-cg", func(context.Context, events.Envelope) error { return nil })
	leave()

	deadline := time.Now().Add(time.Second)
	for {
		bus.mu.Lock()
		_, still := bus.topics["offer.deleted"]["gone-cg"]
		bus.mu.Unlock()
		if !still {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("expected member to leave its group")
		}
		time.Sleep(5 * time.Millisecond)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := bus.Publish(ctx, "offer.deleted", events.Envelope{EventID: "evt-1"}); err != nil {
		t.Fatalf("publish failed: %v", err)
	}
}
