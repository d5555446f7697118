//go:build integration

package postgresadapter

import (
	"context"
	"os"
	"testing"
	"time"

	"offerhub/contexts/marketplace/offer-service/domain/entities"
	domainerrors "offerhub/contexts/marketplace/offer-service/domain/errors"
	"offerhub/contexts/marketplace/offer-service/ports"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Run with: OFFERHUB_TEST_POSTGRES_DSN=... go test -tags integration ./...
func newIntegrationRepository(t *testing.T) (*Repository, *gorm.DB) {
	t.Helper()
	dsn := os.Getenv("OFFERHUB_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("OFFERHUB_TEST_POSTGRES_DSN not set")
	}
	handle, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: gormlogger.Discard})
	require.NoError(t, err)
	repo := NewRepository(handle, nil)
	require.NoError(t, repo.AutoMigrate(context.Background()))
	return repo, handle
}

func seedParties(t *testing.T, handle *gorm.DB) (string, string) {
	t.Helper()
	userID := "user-" + uuid.NewString()
	listingID := "listing-" + uuid.NewString()
	require.NoError(t, handle.Create(&userModel{UserID: userID, Username: "buyer", Email: "buyer@example.com"}).Error)
	require.NoError(t, handle.Create(&listingModel{ListingID: listingID, SellerID: "seller", Title: "Desk"}).Error)
	t.Cleanup(func() {
		handle.Where("user_id = ?", userID).Delete(&offerModel{})
		handle.Where("user_id = ?", userID).Delete(&userModel{})
		handle.Where("listing_id = ?", listingID).Delete(&listingModel{})
	})
	return userID, listingID
}

func offerEvent(eventType string, partitionKey string) ports.EventEnvelope {
	return ports.EventEnvelope{
		EventID:      uuid.NewString(),
		EventType:    eventType,
		OccurredAt:   time.Now().UTC(),
		PartitionKey: partitionKey,
		Data:         []byte(`{}`),
	}
}

func countRows(t *testing.T, handle *gorm.DB, model any, column string, value string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, handle.Model(model).Where(column+" = ?", value).Count(&n).Error)
	return n
}

func TestCreateOfferLinkedWritesNothingWhenReferenceMissing(t *testing.T) {
	repo, handle := newIntegrationRepository(t)
	ctx := context.Background()
	userID, listingID := seedParties(t, handle)

	cases := []struct {
		userID    string
		listingID string
		want      error
	}{
		{userID, "listing-missing-" + uuid.NewString(), domainerrors.ErrListingNotFound},
		{"user-missing-" + uuid.NewString(), listingID, domainerrors.ErrUserNotFound},
	}
	for _, tc := range cases {
		offer, err := entities.NewOffer(uuid.NewString(), tc.userID, tc.listingID, entities.Terms{Price: 10}, time.Now())
		require.NoError(t, err)
		event := offerEvent("offer.created", tc.listingID)

		err = repo.CreateOfferLinked(ctx, offer, event)
		assert.ErrorIs(t, err, tc.want)
		assert.Zero(t, countRows(t, handle, &offerModel{}, "offer_id", offer.OfferID))
		assert.Zero(t, countRows(t, handle, &outboxModel{}, "outbox_id", event.EventID))
	}
}

func TestCreateThenDeleteMaintainsReferences(t *testing.T) {
	repo, handle := newIntegrationRepository(t)
	ctx := context.Background()
	userID, listingID := seedParties(t, handle)

	offer, err := entities.NewOffer(uuid.NewString(), userID, listingID, entities.Terms{Price: 40}, SystemClock{}.Now())
	require.NoError(t, err)
	created := offerEvent("offer.created", listingID)
	require.NoError(t, repo.CreateOfferLinked(ctx, offer, created))

	user, err := repo.GetUser(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, []string{offer.OfferID}, user.OfferIDs)
	listing, err := repo.GetListing(ctx, listingID)
	require.NoError(t, err)
	assert.Equal(t, []string{offer.OfferID}, listing.OfferIDs)

	duplicate := offerEvent("offer.created", listingID)
	assert.ErrorIs(t, repo.CreateOfferLinked(ctx, offer, duplicate), domainerrors.ErrRepositoryInvariantBroke)
	assert.Zero(t, countRows(t, handle, &outboxModel{}, "outbox_id", duplicate.EventID))

	deleted := offerEvent("offer.deleted", listingID)
	require.NoError(t, repo.DeleteOfferUnlinked(ctx, offer, deleted))
	user, err = repo.GetUser(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, user.OfferIDs)
	listing, err = repo.GetListing(ctx, listingID)
	require.NoError(t, err)
	assert.Empty(t, listing.OfferIDs)
	assert.Equal(t, int64(1), countRows(t, handle, &outboxModel{}, "outbox_id", deleted.EventID))

	assert.ErrorIs(t, repo.DeleteOfferUnlinked(ctx, offer, offerEvent("offer.deleted", listingID)), domainerrors.ErrOfferNotFound)
	_, err = repo.GetOffer(ctx, offer.OfferID)
	assert.ErrorIs(t, err, domainerrors.ErrOfferNotFound)
}
