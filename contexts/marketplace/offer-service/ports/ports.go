package ports

import (
	"context"
	"time"

	"offerhub/contexts/marketplace/offer-service/domain/entities"
	"offerhub/internal/shared/events"
	"offerhub/internal/shared/outbox"
)

// OfferRepository owns offer persistence. Every write carries the outbox
// envelope describing it; adapters commit both together.
type OfferRepository interface {
	GetOffer(ctx context.Context, offerID string) (entities.Offer, error)
	// ListOffersByListing and ListOffersByUser return offers oldest first and a
	// non-nil empty slice when nothing matches.
	ListOffersByListing(ctx context.Context, listingID string) ([]entities.Offer, error)
	ListOffersByUser(ctx context.Context, userID string) ([]entities.Offer, error)
	// CreateOfferLinked must atomically persist the offer, register it on the
	// author and the listing, and append the outbox event. It returns
	// ErrUserNotFound or ErrListingNotFound without writing anything when either
	// reference is missing at commit time.
	CreateOfferLinked(ctx context.Context, offer entities.Offer, event EventEnvelope) error
	UpdateOffer(ctx context.Context, offer entities.Offer, event EventEnvelope) error
	// DeleteOfferUnlinked must atomically remove the offer and prune it from the
	// author's and listing's reference lists.
	DeleteOfferUnlinked(ctx context.Context, offer entities.Offer, event EventEnvelope) error
}

// UserRepository is read-only access to marketplace users.
type UserRepository interface {
	GetUser(ctx context.Context, userID string) (entities.User, error)
	// GetUsers returns the users found; missing ids are simply absent.
	GetUsers(ctx context.Context, userIDs []string) (map[string]entities.User, error)
}

// ListingRepository is read-only access to marketplace listings.
type ListingRepository interface {
	GetListing(ctx context.Context, listingID string) (entities.Listing, error)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

type EventEnvelope = events.Envelope

type OutboxMessage = outbox.Message

// OutboxRepository models worker-side outbox polling/acknowledgement.
type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxSent(ctx context.Context, outboxID string, sentAt time.Time) error
}

type EventPublisher interface {
	Publish(ctx context.Context, topic string, event EventEnvelope) error
}

type EventSubscriber interface {
	Subscribe(
		ctx context.Context,
		topic string,
		consumerGroup string,
		handler func(context.Context, EventEnvelope) error,
	) error
}
