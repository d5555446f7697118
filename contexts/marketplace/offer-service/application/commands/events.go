package commands

import (
	"context"
	"encoding/json"
	"time"

	"offerhub/contexts/marketplace/offer-service/domain/entities"
	"offerhub/contexts/marketplace/offer-service/ports"
)

const (
	EventOfferCreated  = "offer.created"
	EventOfferAssessed = "offer.assessed"
	EventOfferEdited   = "offer.edited"
	EventOfferDeleted  = "offer.deleted"

	sourceService = "offer-service"
)

func newOfferEnvelope(
	eventID string,
	eventType string,
	offer entities.Offer,
	occurredAt time.Time,
	extra map[string]any,
) (ports.EventEnvelope, error) {
	data := map[string]any{
		"offer_id":   offer.OfferID,
		"listing_id": offer.ListingID,
		"user_id":    offer.UserID,
		"status":     string(offer.Status),
		"price":      offer.Terms.Price,
	}
	for key, value := range extra {
		data[key] = value
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return ports.EventEnvelope{}, err
	}
	return ports.EventEnvelope{
		EventID:          eventID,
		EventType:        eventType,
		OccurredAt:       occurredAt.UTC(),
		SourceService:    sourceService,
		TraceID:          eventID,
		SchemaVersion:    1,
		PartitionKeyPath: "listing_id",
		PartitionKey:     offer.ListingID,
		Data:             payload,
	}, nil
}

func buildEvent(
	ctx context.Context,
	ids ports.IDGenerator,
	eventType string,
	offer entities.Offer,
	occurredAt time.Time,
	extra map[string]any,
) (ports.EventEnvelope, error) {
	eventID, err := ids.NewID(ctx)
	if err != nil {
		return ports.EventEnvelope{}, err
	}
	return newOfferEnvelope(eventID, eventType, offer, occurredAt, extra)
}

func resolveNow(clock ports.Clock) time.Time {
	if clock == nil {
		return time.Now().UTC()
	}
	return clock.Now().UTC()
}
