package mongoadapter

import (
	"testing"
	"time"

	"offerhub/contexts/marketplace/offer-service/domain/entities"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestOfferDocumentRoundTripsThroughBSON(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	offer := entities.Offer{
		OfferID:   "offer-1",
		UserID:    "user-1",
		ListingID: "listing-1",
		Status:    entities.OfferStatusAccepted,
		Terms:     entities.Terms{Price: 125.5, Message: "cash on pickup"},
		CreatedAt: now,
		UpdatedAt: now.Add(time.Minute),
	}

	raw, err := bson.Marshal(offerDocumentFromEntity(offer))
	require.NoError(t, err)

	var fields bson.M
	require.NoError(t, bson.Unmarshal(raw, &fields))
	require.Equal(t, "offer-1", fields["_id"])
	require.Equal(t, "accepted", fields["status"])

	var decoded offerDocument
	require.NoError(t, bson.Unmarshal(raw, &decoded))
	require.Equal(t, offer, decoded.toEntity())
}

func TestUserDocumentKeepsOfferReferences(t *testing.T) {
	raw, err := bson.Marshal(bson.M{
		"_id":      "user-1",
		"username": "buyer",
		"email":    "buyer@example.com",
		"offers":   bson.A{"offer-1", "offer-2"},
	})
	require.NoError(t, err)

	var doc userDocument
	require.NoError(t, bson.Unmarshal(raw, &doc))
	user := doc.toEntity()
	require.Equal(t, "buyer", user.Username)
	require.Equal(t, []string{"offer-1", "offer-2"}, user.OfferIDs)
}
