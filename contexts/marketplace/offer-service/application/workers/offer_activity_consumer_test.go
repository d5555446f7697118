package workers

import (
	"context"
	"testing"

	"offerhub/contexts/marketplace/offer-service/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureSubscriber struct {
	handlers map[string]func(context.Context, ports.EventEnvelope) error
	groups   map[string]string
}

func (s *captureSubscriber) Subscribe(
	_ context.Context,
	topic string,
	consumerGroup string,
	handler func(context.Context, ports.EventEnvelope) error,
) error {
	if s.handlers == nil {
		s.handlers = map[string]func(context.Context, ports.EventEnvelope) error{}
		s.groups = map[string]string{}
	}
	s.handlers[topic] = handler
	s.groups[topic] = consumerGroup
	return nil
}

func TestOfferActivityConsumerSubscribesToLifecycleTopics(t *testing.T) {
	subscriber := &captureSubscriber{}
	consumer := OfferActivityConsumer{Subscriber: subscriber}

	require.NoError(t, consumer.Start(context.Background()))
	for _, topic := range []string{"offer.created", "offer.assessed", "offer.edited", "offer.deleted"} {
		assert.Contains(t, subscriber.handlers, topic)
		assert.Equal(t, defaultActivityConsumerGroup, subscriber.groups[topic])
	}
}

func TestOfferActivityConsumerDecodesEvent(t *testing.T) {
	subscriber := &captureSubscriber{}
	var got []OfferActivity
	consumer := OfferActivityConsumer{
		Subscriber:    subscriber,
		ConsumerGroup: "audit",
		Notify: func(_ context.Context, activity OfferActivity) error {
			got = append(got, activity)
			return nil
		},
	}
	require.NoError(t, consumer.Start(context.Background()))

	err := subscriber.handlers["offer.assessed"](context.Background(), ports.EventEnvelope{
		EventID:   "evt-9",
		EventType: "offer.assessed",
		Data:      []byte(`{"offer_id":"offer-1","listing_id":"listing-1","user_id":"buyer","status":"accepted"}`),
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, OfferActivity{
		EventID:   "evt-9",
		EventType: "offer.assessed",
		OfferID:   "offer-1",
		ListingID: "listing-1",
		UserID:    "buyer",
		Status:    "accepted",
	}, got[0])

	err = subscriber.handlers["offer.created"](context.Background(), ports.EventEnvelope{
		EventID: "evt-10",
		Data:    []byte(`not-json`),
	})
	assert.Error(t, err)
}
