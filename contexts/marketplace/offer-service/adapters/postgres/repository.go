package postgresadapter

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

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository persists offers in Postgres. Users and listings are owned by other
// services; this adapter only reads them. Their offer reference lists are
// derived from the offers table, so linking and unlinking is the offer row
// write itself.
type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: application.ResolveLogger(logger),
	}
}

// AutoMigrate creates the offer tables when they are missing.
func (r *Repository) AutoMigrate(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&userModel{}, &listingModel{}, &offerModel{}, &outboxModel{})
}

func (r *Repository) GetUser(ctx context.Context, userID string) (entities.User, error) {
	var row userModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", strings.TrimSpace(userID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.User{}, domainerrors.ErrUserNotFound
		}
		return entities.User{}, fmt.Errorf("get user: %w", err)
	}

	refs, err := r.offerRefs(ctx, "user_id", []string{row.UserID})
	if err != nil {
		return entities.User{}, err
	}
	return row.toEntity(refs[row.UserID]), nil
}

func (r *Repository) GetUsers(ctx context.Context, userIDs []string) (map[string]entities.User, error) {
	out := make(map[string]entities.User, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}

	var rows []userModel
	if err := r.db.WithContext(ctx).
		Where("user_id IN ?", userIDs).
		Find(&rows).
		Error; err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.UserID)
	}
	refs, err := r.offerRefs(ctx, "user_id", ids)
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.UserID] = row.toEntity(refs[row.UserID])
	}
	return out, nil
}

func (r *Repository) GetListing(ctx context.Context, listingID string) (entities.Listing, error) {
	var row listingModel
	err := r.db.WithContext(ctx).
		Where("listing_id = ?", strings.TrimSpace(listingID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Listing{}, domainerrors.ErrListingNotFound
		}
		return entities.Listing{}, fmt.Errorf("get listing: %w", err)
	}

	refs, err := r.offerRefs(ctx, "listing_id", []string{row.ListingID})
	if err != nil {
		return entities.Listing{}, err
	}
	return row.toEntity(refs[row.ListingID]), nil
}

// offerRefs groups offer ids by the given owner column, oldest offer first.
func (r *Repository) offerRefs(ctx context.Context, column string, ownerIDs []string) (map[string][]string, error) {
	refs := make(map[string][]string, len(ownerIDs))
	if len(ownerIDs) == 0 {
		return refs, nil
	}

	var rows []offerModel
	if err := r.db.WithContext(ctx).
		Select("offer_id", "user_id", "listing_id", "created_at").
		Where(column+" IN ?", ownerIDs).
		Order("created_at ASC, offer_id ASC").
		Find(&rows).
		Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		owner := row.UserID
		if column == "listing_id" {
			owner = row.ListingID
		}
		refs[owner] = append(refs[owner], row.OfferID)
	}
	return refs, nil
}

func (r *Repository) GetOffer(ctx context.Context, offerID string) (entities.Offer, error) {
	var row offerModel
	err := r.db.WithContext(ctx).
		Where("offer_id = ?", strings.TrimSpace(offerID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Offer{}, domainerrors.ErrOfferNotFound
		}
		return entities.Offer{}, fmt.Errorf("get offer: %w", err)
	}
	return row.toEntity(), nil
}

func (r *Repository) ListOffersByListing(ctx context.Context, listingID string) ([]entities.Offer, error) {
	return r.listOffers(ctx, "listing_id = ?", strings.TrimSpace(listingID))
}

func (r *Repository) ListOffersByUser(ctx context.Context, userID string) ([]entities.Offer, error) {
	return r.listOffers(ctx, "user_id = ?", strings.TrimSpace(userID))
}

func (r *Repository) listOffers(ctx context.Context, where string, value string) ([]entities.Offer, error) {
	var rows []offerModel
	if err := r.db.WithContext(ctx).
		Where(where, value).
		Order("created_at ASC, offer_id ASC").
		Find(&rows).
		Error; err != nil {
		return nil, fmt.Errorf("list offers: %w", err)
	}

	items := make([]entities.Offer, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) CreateOfferLinked(ctx context.Context, offer entities.Offer, event ports.EventEnvelope) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Share locks keep the author and listing alive until commit.
		var user userModel
		if err := tx.Clauses(clause.Locking{Strength: "SHARE"}).
			Where("user_id = ?", offer.UserID).
			First(&user).
			Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerrors.ErrUserNotFound
			}
			return err
		}
		var listing listingModel
		if err := tx.Clauses(clause.Locking{Strength: "SHARE"}).
			Where("listing_id = ?", offer.ListingID).
			First(&listing).
			Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerrors.ErrListingNotFound
			}
			return err
		}

		row := offerModelFromEntity(offer)
		if err := tx.Create(&row).Error; err != nil {
			if isUniqueViolation(err) {
				return domainerrors.ErrRepositoryInvariantBroke
			}
			return err
		}
		return insertOutbox(tx, event)
	})
	if err != nil {
		return fmt.Errorf("create offer: %w", err)
	}

	r.logger.Info("offer and outbox persisted",
		"event", "postgres_create_offer_linked",
		"module", application.LogModule,
		"layer", application.LayerAdapter,
		"offer_id", offer.OfferID,
		"outbox_event_id", event.EventID,
	)
	return nil
}

func (r *Repository) UpdateOffer(ctx context.Context, offer entities.Offer, event ports.EventEnvelope) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&offerModel{}).
			Where("offer_id = ? AND user_id = ? AND listing_id = ?", offer.OfferID, offer.UserID, offer.ListingID).
			Updates(map[string]any{
				"status":     string(offer.Status),
				"price":      offer.Terms.Price,
				"message":    offer.Terms.Message,
				"updated_at": offer.UpdatedAt.UTC(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerrors.ErrOfferNotFound
		}
		return insertOutbox(tx, event)
	})
}

func (r *Repository) DeleteOfferUnlinked(ctx context.Context, offer entities.Offer, event ports.EventEnvelope) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("offer_id = ?", strings.TrimSpace(offer.OfferID)).Delete(&offerModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerrors.ErrOfferNotFound
		}
		return insertOutbox(tx, event)
	})
}

func insertOutbox(tx *gorm.DB, event ports.EventEnvelope) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	row := outboxModel{
		OutboxID:     strings.TrimSpace(event.EventID),
		EventType:    strings.TrimSpace(event.EventType),
		PartitionKey: strings.TrimSpace(event.PartitionKey),
		Payload:      payload,
		Status:       outbox.StatusPending,
		CreatedAt:    event.OccurredAt.UTC(),
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	if err := tx.Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrRepositoryInvariantBroke
		}
		return err
	}
	return nil
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit <= 0 {
		limit = 100
	}

	var rows []outboxModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", outbox.StatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).
		Error; err != nil {
		return nil, fmt.Errorf("list pending outbox: %w", err)
	}

	items := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.OutboxMessage{
			OutboxID:     row.OutboxID,
			EventType:    row.EventType,
			PartitionKey: row.PartitionKey,
			Payload:      append([]byte(nil), row.Payload...),
			CreatedAt:    row.CreatedAt.UTC(),
		})
	}
	return items, nil
}

func (r *Repository) MarkOutboxSent(ctx context.Context, outboxID string, sentAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("outbox_id = ?", strings.TrimSpace(outboxID)).
		Updates(map[string]any{
			"status":  outbox.StatusSent,
			"sent_at": sentAt.UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrRepositoryInvariantBroke
	}
	return nil
}

type userModel struct {
	UserID   string `gorm:"column:user_id;primaryKey"`
	Username string `gorm:"column:username"`
	Email    string `gorm:"column:email"`
}

func (userModel) TableName() string {
	return "marketplace_users"
}

func (m userModel) toEntity(offerIDs []string) entities.User {
	return entities.User{
		UserID:   m.UserID,
		Username: m.Username,
		Email:    m.Email,
		OfferIDs: offerIDs,
	}
}

type listingModel struct {
	ListingID string `gorm:"column:listing_id;primaryKey"`
	SellerID  string `gorm:"column:seller_id;index"`
	Title     string `gorm:"column:title"`
}

func (listingModel) TableName() string {
	return "marketplace_listings"
}

func (m listingModel) toEntity(offerIDs []string) entities.Listing {
	return entities.Listing{
		ListingID: m.ListingID,
		SellerID:  m.SellerID,
		Title:     m.Title,
		OfferIDs:  offerIDs,
	}
}

type offerModel struct {
	OfferID   string    `gorm:"column:offer_id;primaryKey"`
	UserID    string    `gorm:"column:user_id;index"`
	ListingID string    `gorm:"column:listing_id;index"`
	Status    string    `gorm:"column:status"`
	Price     float64   `gorm:"column:price"`
	Message   string    `gorm:"column:message"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (offerModel) TableName() string {
	return "offers"
}

func offerModelFromEntity(offer entities.Offer) offerModel {
	return offerModel{
		OfferID:   strings.TrimSpace(offer.OfferID),
		UserID:    strings.TrimSpace(offer.UserID),
		ListingID: strings.TrimSpace(offer.ListingID),
		Status:    string(offer.Status),
		Price:     offer.Terms.Price,
		Message:   offer.Terms.Message,
		CreatedAt: offer.CreatedAt.UTC(),
		UpdatedAt: offer.UpdatedAt.UTC(),
	}
}

func (m offerModel) toEntity() entities.Offer {
	return entities.Offer{
		OfferID:   m.OfferID,
		UserID:    m.UserID,
		ListingID: m.ListingID,
		Status:    entities.OfferStatus(m.Status),
		Terms: entities.Terms{
			Price:   m.Price,
			Message: m.Message,
		},
		CreatedAt: m.CreatedAt.UTC(),
		UpdatedAt: m.UpdatedAt.UTC(),
	}
}

type outboxModel struct {
	OutboxID     string     `gorm:"column:outbox_id;primaryKey"`
	EventType    string     `gorm:"column:event_type"`
	PartitionKey string     `gorm:"column:partition_key"`
	Payload      []byte     `gorm:"column:payload"`
	Status       string     `gorm:"column:status;index"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	SentAt       *time.Time `gorm:"column:sent_at"`
}

func (outboxModel) TableName() string {
	return "offer_outbox"
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
