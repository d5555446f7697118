package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	application "offerhub/contexts/marketplace/offer-service/application"
	"offerhub/contexts/marketplace/offer-service/domain/entities"
	domainerrors "offerhub/contexts/marketplace/offer-service/domain/errors"
	"offerhub/contexts/marketplace/offer-service/ports"
)

// Store is an in-memory adapter implementing the offer ports for local runtime
// and tests. It is not intended as production persistence.
type Store struct {
	mu          sync.RWMutex
	users       map[string]entities.User
	listings    map[string]entities.Listing
	offers      map[string]entities.Offer
	insertSeq   map[string]uint64
	outbox      map[string]ports.OutboxMessage
	outboxOrder []string
	outboxSent  map[string]time.Time
	sequence    uint64
	inserts     uint64
	logger      *slog.Logger
}

// NewStore seeds users and listings. Offer reference lists on the seeds are
// ignored; they are maintained by offer writes.
func NewStore(seedUsers []entities.User, seedListings []entities.Listing, logger *slog.Logger) *Store {
	users := make(map[string]entities.User, len(seedUsers))
	for _, user := range seedUsers {
		user.OfferIDs = nil
		users[user.UserID] = user
	}
	listings := make(map[string]entities.Listing, len(seedListings))
	for _, listing := range seedListings {
		listing.OfferIDs = nil
		listings[listing.ListingID] = listing
	}
	return &Store{
		users:      users,
		listings:   listings,
		offers:     make(map[string]entities.Offer),
		insertSeq:  make(map[string]uint64),
		outbox:     make(map[string]ports.OutboxMessage),
		outboxSent: make(map[string]time.Time),
		logger:     application.ResolveLogger(logger),
	}
}

func (s *Store) PutUser(user entities.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.users[user.UserID]; ok {
		user.OfferIDs = existing.OfferIDs
	} else {
		user.OfferIDs = nil
	}
	s.users[user.UserID] = user
}

func (s *Store) PutListing(listing entities.Listing) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.listings[listing.ListingID]; ok {
		listing.OfferIDs = existing.OfferIDs
	} else {
		listing.OfferIDs = nil
	}
	s.listings[listing.ListingID] = listing
}

func (s *Store) GetUser(_ context.Context, userID string) (entities.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[userID]
	if !ok {
		return entities.User{}, domainerrors.ErrUserNotFound
	}
	user.OfferIDs = append([]string(nil), user.OfferIDs...)
	return user, nil
}

func (s *Store) GetUsers(_ context.Context, userIDs []string) (map[string]entities.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]entities.User, len(userIDs))
	for _, id := range userIDs {
		if user, ok := s.users[id]; ok {
			user.OfferIDs = append([]string(nil), user.OfferIDs...)
			out[id] = user
		}
	}
	return out, nil
}

func (s *Store) GetListing(_ context.Context, listingID string) (entities.Listing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	listing, ok := s.listings[listingID]
	if !ok {
		return entities.Listing{}, domainerrors.ErrListingNotFound
	}
	listing.OfferIDs = append([]string(nil), listing.OfferIDs...)
	return listing, nil
}

func (s *Store) GetOffer(_ context.Context, offerID string) (entities.Offer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	offer, ok := s.offers[offerID]
	if !ok {
		return entities.Offer{}, domainerrors.ErrOfferNotFound
	}
	return offer, nil
}

func (s *Store) ListOffersByListing(_ context.Context, listingID string) ([]entities.Offer, error) {
	return s.listOffers(func(offer entities.Offer) bool { return offer.ListingID == listingID }), nil
}

func (s *Store) ListOffersByUser(_ context.Context, userID string) ([]entities.Offer, error) {
	return s.listOffers(func(offer entities.Offer) bool { return offer.UserID == userID }), nil
}

func (s *Store) listOffers(match func(entities.Offer) bool) []entities.Offer {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]entities.Offer, 0)
	for _, offer := range s.offers {
		if match(offer) {
			result = append(result, offer)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return s.insertSeq[result[i].OfferID] < s.insertSeq[result[j].OfferID]
	})
	return result
}

func (s *Store) CreateOfferLinked(_ context.Context, offer entities.Offer, event ports.EventEnvelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// One critical section covers the offer, both back-references and the
	// outbox row, so they become visible together or not at all.
	if _, ok := s.offers[offer.OfferID]; ok {
		return domainerrors.ErrRepositoryInvariantBroke
	}
	user, ok := s.users[offer.UserID]
	if !ok {
		return domainerrors.ErrUserNotFound
	}
	listing, ok := s.listings[offer.ListingID]
	if !ok {
		return domainerrors.ErrListingNotFound
	}
	if err := s.appendOutboxLocked(event); err != nil {
		return err
	}

	s.inserts++
	s.offers[offer.OfferID] = offer
	s.insertSeq[offer.OfferID] = s.inserts
	s.users[user.UserID] = user.WithOffer(offer.OfferID)
	s.listings[listing.ListingID] = listing.WithOffer(offer.OfferID)

	s.logger.Info("offer and references persisted in memory store",
		"event", "memory_create_offer_linked",
		"module", application.LogModule,
		"layer", application.LayerAdapter,
		"offer_id", offer.OfferID,
		"user_id", offer.UserID,
		"listing_id", offer.ListingID,
		"outbox_event_id", event.EventID,
	)
	return nil
}

func (s *Store) UpdateOffer(_ context.Context, offer entities.Offer, event ports.EventEnvelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.offers[offer.OfferID]
	if !ok {
		return domainerrors.ErrOfferNotFound
	}
	if existing.UserID != offer.UserID || existing.ListingID != offer.ListingID {
		return domainerrors.ErrRepositoryInvariantBroke
	}
	if err := s.appendOutboxLocked(event); err != nil {
		return err
	}
	s.offers[offer.OfferID] = offer
	return nil
}

func (s *Store) DeleteOfferUnlinked(_ context.Context, offer entities.Offer, event ports.EventEnvelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.offers[offer.OfferID]
	if !ok {
		return domainerrors.ErrOfferNotFound
	}
	if err := s.appendOutboxLocked(event); err != nil {
		return err
	}

	delete(s.offers, offer.OfferID)
	delete(s.insertSeq, offer.OfferID)
	if user, ok := s.users[existing.UserID]; ok {
		s.users[user.UserID] = user.WithoutOffer(offer.OfferID)
	}
	if listing, ok := s.listings[existing.ListingID]; ok {
		s.listings[listing.ListingID] = listing.WithoutOffer(offer.OfferID)
	}
	return nil
}

func (s *Store) appendOutboxLocked(event ports.EventEnvelope) error {
	if _, ok := s.outbox[event.EventID]; ok {
		return domainerrors.ErrRepositoryInvariantBroke
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	s.outbox[event.EventID] = ports.OutboxMessage{
		OutboxID:     event.EventID,
		EventType:    event.EventType,
		PartitionKey: event.PartitionKey,
		Payload:      payload,
		CreatedAt:    event.OccurredAt.UTC(),
	}
	s.outboxOrder = append(s.outboxOrder, event.EventID)
	return nil
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 100
	}
	messages := make([]ports.OutboxMessage, 0, limit)
	for _, id := range s.outboxOrder {
		if _, sent := s.outboxSent[id]; sent {
			continue
		}
		if msg, ok := s.outbox[id]; ok {
			messages = append(messages, msg)
		}
		if len(messages) >= limit {
			break
		}
	}
	return messages, nil
}

func (s *Store) MarkOutboxSent(_ context.Context, outboxID string, sentAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.outbox[outboxID]; !ok {
		return domainerrors.ErrRepositoryInvariantBroke
	}
	s.outboxSent[outboxID] = sentAt.UTC()
	return nil
}

func (s *Store) OutboxEvents() []ports.OutboxMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()

	events := make([]ports.OutboxMessage, 0, len(s.outboxOrder))
	for _, id := range s.outboxOrder {
		if evt, ok := s.outbox[id]; ok {
			events = append(events, evt)
		}
	}
	return events
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	value := atomic.AddUint64(&s.sequence, 1)
	return fmt.Sprintf("mem-%d", value), nil
}
