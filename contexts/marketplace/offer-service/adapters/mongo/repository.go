package mongoadapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	application "offerhub/contexts/marketplace/offer-service/application"
	"offerhub/contexts/marketplace/offer-service/domain/entities"
	domainerrors "offerhub/contexts/marketplace/offer-service/domain/errors"
	"offerhub/contexts/marketplace/offer-service/ports"
	"offerhub/internal/shared/outbox"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	collectionUsers    = "users"
	collectionListings = "listings"
	collectionOffers   = "offers"
	collectionOutbox   = "offer_outbox"
)

// Repository keeps offers in MongoDB. User and listing documents carry an
// "offers" array that is maintained in the same multi-document transaction as
// the offer write, so the deployment must be a replica set.
type Repository struct {
	client   *mongo.Client
	users    *mongo.Collection
	listings *mongo.Collection
	offers   *mongo.Collection
	outbox   *mongo.Collection
	logger   *slog.Logger
}

func NewRepository(client *mongo.Client, database string, logger *slog.Logger) *Repository {
	db := client.Database(database)
	return &Repository{
		client:   client,
		users:    db.Collection(collectionUsers),
		listings: db.Collection(collectionListings),
		offers:   db.Collection(collectionOffers),
		outbox:   db.Collection(collectionOutbox),
		logger:   application.ResolveLogger(logger),
	}
}

// EnsureIndexes creates the lookup indexes used by offer listing and outbox polling.
func (r *Repository) EnsureIndexes(ctx context.Context) error {
	if _, err := r.offers.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "listing_id", Value: 1}, {Key: "created_at", Value: 1}}},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: 1}}},
	}); err != nil {
		return err
	}
	_, err := r.outbox.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: 1}},
	})
	return err
}

func (r *Repository) GetUser(ctx context.Context, userID string) (entities.User, error) {
	var doc userDocument
	err := r.users.FindOne(ctx, bson.M{"_id": strings.TrimSpace(userID)}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return entities.User{}, domainerrors.ErrUserNotFound
		}
		return entities.User{}, fmt.Errorf("get user: %w", err)
	}
	return doc.toEntity(), nil
}

func (r *Repository) GetUsers(ctx context.Context, userIDs []string) (map[string]entities.User, error) {
	out := make(map[string]entities.User, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}

	cursor, err := r.users.Find(ctx, bson.M{"_id": bson.M{"$in": userIDs}})
	if err != nil {
		return nil, err
	}
	var docs []userDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	for _, doc := range docs {
		out[doc.UserID] = doc.toEntity()
	}
	return out, nil
}

func (r *Repository) GetListing(ctx context.Context, listingID string) (entities.Listing, error) {
	var doc listingDocument
	err := r.listings.FindOne(ctx, bson.M{"_id": strings.TrimSpace(listingID)}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return entities.Listing{}, domainerrors.ErrListingNotFound
		}
		return entities.Listing{}, fmt.Errorf("get listing: %w", err)
	}
	return doc.toEntity(), nil
}

func (r *Repository) GetOffer(ctx context.Context, offerID string) (entities.Offer, error) {
	var doc offerDocument
	err := r.offers.FindOne(ctx, bson.M{"_id": strings.TrimSpace(offerID)}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return entities.Offer{}, domainerrors.ErrOfferNotFound
		}
		return entities.Offer{}, fmt.Errorf("get offer: %w", err)
	}
	return doc.toEntity(), nil
}

func (r *Repository) ListOffersByListing(ctx context.Context, listingID string) ([]entities.Offer, error) {
	return r.listOffers(ctx, bson.M{"listing_id": strings.TrimSpace(listingID)})
}

func (r *Repository) ListOffersByUser(ctx context.Context, userID string) ([]entities.Offer, error) {
	return r.listOffers(ctx, bson.M{"user_id": strings.TrimSpace(userID)})
}

func (r *Repository) listOffers(ctx context.Context, filter bson.M) ([]entities.Offer, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := r.offers.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list offers: %w", err)
	}
	var docs []offerDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	items := make([]entities.Offer, 0, len(docs))
	for _, doc := range docs {
		items = append(items, doc.toEntity())
	}
	return items, nil
}

func (r *Repository) CreateOfferLinked(ctx context.Context, offer entities.Offer, event ports.EventEnvelope) error {
	err := r.inTransaction(ctx, func(sc mongo.SessionContext) error {
		if err := r.users.FindOne(sc, bson.M{"_id": offer.UserID}).Err(); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return domainerrors.ErrUserNotFound
			}
			return err
		}
		if err := r.listings.FindOne(sc, bson.M{"_id": offer.ListingID}).Err(); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return domainerrors.ErrListingNotFound
			}
			return err
		}

		if _, err := r.offers.InsertOne(sc, offerDocumentFromEntity(offer)); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return domainerrors.ErrRepositoryInvariantBroke
			}
			return err
		}
		if _, err := r.users.UpdateOne(sc,
			bson.M{"_id": offer.UserID},
			bson.M{"$addToSet": bson.M{"offers": offer.OfferID}},
		); err != nil {
			return err
		}
		if _, err := r.listings.UpdateOne(sc,
			bson.M{"_id": offer.ListingID},
			bson.M{"$addToSet": bson.M{"offers": offer.OfferID}},
		); err != nil {
			return err
		}
		return r.insertOutbox(sc, event)
	})
	if err != nil {
		return fmt.Errorf("create offer: %w", err)
	}

	r.logger.Info("offer and references persisted",
		"event", "mongo_create_offer_linked",
		"module", application.LogModule,
		"layer", application.LayerAdapter,
		"offer_id", offer.OfferID,
		"outbox_event_id", event.EventID,
	)
	return nil
}

func (r *Repository) UpdateOffer(ctx context.Context, offer entities.Offer, event ports.EventEnvelope) error {
	return r.inTransaction(ctx, func(sc mongo.SessionContext) error {
		result, err := r.offers.UpdateOne(sc,
			bson.M{"_id": offer.OfferID, "user_id": offer.UserID, "listing_id": offer.ListingID},
			bson.M{"$set": bson.M{
				"status":     string(offer.Status),
				"price":      offer.Terms.Price,
				"message":    offer.Terms.Message,
				"updated_at": offer.UpdatedAt.UTC(),
			}},
		)
		if err != nil {
			return err
		}
		if result.MatchedCount == 0 {
			return domainerrors.ErrOfferNotFound
		}
		return r.insertOutbox(sc, event)
	})
}

func (r *Repository) DeleteOfferUnlinked(ctx context.Context, offer entities.Offer, event ports.EventEnvelope) error {
	return r.inTransaction(ctx, func(sc mongo.SessionContext) error {
		var existing offerDocument
		if err := r.offers.FindOneAndDelete(sc, bson.M{"_id": offer.OfferID}).Decode(&existing); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return domainerrors.ErrOfferNotFound
			}
			return err
		}
		if _, err := r.users.UpdateOne(sc,
			bson.M{"_id": existing.UserID},
			bson.M{"$pull": bson.M{"offers": existing.OfferID}},
		); err != nil {
			return err
		}
		if _, err := r.listings.UpdateOne(sc,
			bson.M{"_id": existing.ListingID},
			bson.M{"$pull": bson.M{"offers": existing.OfferID}},
		); err != nil {
			return err
		}
		return r.insertOutbox(sc, event)
	})
}

func (r *Repository) inTransaction(ctx context.Context, fn func(sc mongo.SessionContext) error) error {
	session, err := r.client.StartSession()
	if err != nil {
		return fmt.Errorf("start mongo session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

func (r *Repository) insertOutbox(ctx context.Context, event ports.EventEnvelope) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	createdAt := event.OccurredAt.UTC()
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err = r.outbox.InsertOne(ctx, outboxDocument{
		OutboxID:     strings.TrimSpace(event.EventID),
		EventType:    event.EventType,
		PartitionKey: event.PartitionKey,
		Payload:      payload,
		Status:       outbox.StatusPending,
		CreatedAt:    createdAt,
	})
	if mongo.IsDuplicateKeyError(err) {
		return domainerrors.ErrRepositoryInvariantBroke
	}
	return err
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit <= 0 {
		limit = 100
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}}).
		SetLimit(int64(limit))
	cursor, err := r.outbox.Find(ctx, bson.M{"status": outbox.StatusPending}, opts)
	if err != nil {
		return nil, err
	}
	var docs []outboxDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	items := make([]ports.OutboxMessage, 0, len(docs))
	for _, doc := range docs {
		items = append(items, ports.OutboxMessage{
			OutboxID:     doc.OutboxID,
			EventType:    doc.EventType,
			PartitionKey: doc.PartitionKey,
			Payload:      append([]byte(nil), doc.Payload...),
			CreatedAt:    doc.CreatedAt.UTC(),
		})
	}
	return items, nil
}

func (r *Repository) MarkOutboxSent(ctx context.Context, outboxID string, sentAt time.Time) error {
	result, err := r.outbox.UpdateOne(ctx,
		bson.M{"_id": strings.TrimSpace(outboxID)},
		bson.M{"$set": bson.M{"status": outbox.StatusSent, "sent_at": sentAt.UTC()}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return domainerrors.ErrRepositoryInvariantBroke
	}
	return nil
}

type userDocument struct {
	UserID   string   `bson:"_id"`
	Username string   `bson:"username"`
	Email    string   `bson:"email"`
	OfferIDs []string `bson:"offers,omitempty"`
}

func (d userDocument) toEntity() entities.User {
	return entities.User{
		UserID:   d.UserID,
		Username: d.Username,
		Email:    d.Email,
		OfferIDs: d.OfferIDs,
	}
}

type listingDocument struct {
	ListingID string   `bson:"_id"`
	SellerID  string   `bson:"seller_id"`
	Title     string   `bson:"title"`
	OfferIDs  []string `bson:"offers,omitempty"`
}

func (d listingDocument) toEntity() entities.Listing {
	return entities.Listing{
		ListingID: d.ListingID,
		SellerID:  d.SellerID,
		Title:     d.Title,
		OfferIDs:  d.OfferIDs,
	}
}

type offerDocument struct {
	OfferID   string    `bson:"_id"`
	UserID    string    `bson:"user_id"`
	ListingID string    `bson:"listing_id"`
	Status    string    `bson:"status"`
	Price     float64   `bson:"price"`
	Message   string    `bson:"message,omitempty"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func offerDocumentFromEntity(offer entities.Offer) offerDocument {
	return offerDocument{
		OfferID:   offer.OfferID,
		UserID:    offer.UserID,
		ListingID: offer.ListingID,
		Status:    string(offer.Status),
		Price:     offer.Terms.Price,
		Message:   offer.Terms.Message,
		CreatedAt: offer.CreatedAt.UTC(),
		UpdatedAt: offer.UpdatedAt.UTC(),
	}
}

func (d offerDocument) toEntity() entities.Offer {
	return entities.Offer{
		OfferID:   d.OfferID,
		UserID:    d.UserID,
		ListingID: d.ListingID,
		Status:    entities.OfferStatus(d.Status),
		Terms: entities.Terms{
			Price:   d.Price,
			Message: d.Message,
		},
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}
}

type outboxDocument struct {
	OutboxID     string     `bson:"_id"`
	EventType    string     `bson:"event_type"`
	PartitionKey string     `bson:"partition_key"`
	Payload      []byte     `bson:"payload"`
	Status       string     `bson:"status"`
	CreatedAt    time.Time  `bson:"created_at"`
	SentAt       *time.Time `bson:"sent_at,omitempty"`
}
