package workers

import (
	"context"
	"encoding/json"
	"log/slog"

	application "offerhub/contexts/marketplace/offer-service/application"
	"offerhub/contexts/marketplace/offer-service/application/commands"
	"offerhub/contexts/marketplace/offer-service/ports"
)

const defaultActivityConsumerGroup = "offer-activity-cg"

// OfferActivityConsumer follows offer lifecycle events on the bus and writes one
// structured activity line per event. Notify, when set, receives each decoded
// activity after it is logged.
type OfferActivityConsumer struct {
	Subscriber    ports.EventSubscriber
	ConsumerGroup string
	Notify        func(context.Context, OfferActivity) error
	Logger        *slog.Logger
}

type OfferActivity struct {
	EventID   string `json:"-"`
	EventType string `json:"-"`
	OfferID   string `json:"offer_id"`
	ListingID string `json:"listing_id"`
	UserID    string `json:"user_id"`
	Status    string `json:"status"`
}

func (c OfferActivityConsumer) Start(ctx context.Context) error {
	group := c.ConsumerGroup
	if group == "" {
		group = defaultActivityConsumerGroup
	}
	for _, topic := range []string{
		commands.EventOfferCreated,
		commands.EventOfferAssessed,
		commands.EventOfferEdited,
		commands.EventOfferDeleted,
	} {
		if err := c.Subscriber.Subscribe(ctx, topic, group, c.handle); err != nil {
			return err
		}
	}
	return nil
}

func (c OfferActivityConsumer) handle(ctx context.Context, event ports.EventEnvelope) error {
	logger := application.ResolveLogger(c.Logger)

	var activity OfferActivity
	if err := json.Unmarshal(event.Data, &activity); err != nil {
		logger.Error("offer activity decode failed",
			"event", "offer_activity_decode_failed",
			"module", application.LogModule,
			"layer", application.LayerWorker,
			"event_id", event.EventID,
			"event_type", event.EventType,
			"error", err.Error(),
		)
		return err
	}
	activity.EventID = event.EventID
	activity.EventType = event.EventType

	logger.Info("offer activity",
		"event", "offer_activity",
		"module", application.LogModule,
		"layer", application.LayerWorker,
		"event_id", activity.EventID,
		"event_type", activity.EventType,
		"offer_id", activity.OfferID,
		"listing_id", activity.ListingID,
		"user_id", activity.UserID,
		"status", activity.Status,
	)
	if c.Notify != nil {
		return c.Notify(ctx, activity)
	}
	return nil
}
