package services

import (
	"errors"
	"testing"

	"offerhub/contexts/marketplace/offer-service/domain/entities"
	domainerrors "offerhub/contexts/marketplace/offer-service/domain/errors"
)

func TestAuthorizeAssessmentOnlySeller(t *testing.T) {
	listing := entities.Listing{ListingID: "listing-1", SellerID: "seller"}
	offer := entities.Offer{OfferID: "offer-1", UserID: "buyer", ListingID: "listing-1"}

	if err := AuthorizeAssessment(entities.Principal{UserID: "seller"}, offer, listing); err != nil {
		t.Fatalf("seller should be allowed, got %v", err)
	}
	for _, caller := range []string{"buyer", "stranger", ""} {
		err := AuthorizeAssessment(entities.Principal{UserID: caller}, offer, listing)
		if !errors.Is(err, domainerrors.ErrForbidden) {
			t.Fatalf("expected forbidden for %q, got %v", caller, err)
		}
	}
}

func TestAuthorizeAssessmentIgnoresOfferState(t *testing.T) {
	listing := entities.Listing{ListingID: "listing-1", SellerID: "seller"}
	for _, status := range []entities.OfferStatus{
		entities.OfferStatusPending,
		entities.OfferStatusAccepted,
		entities.OfferStatusRejected,
	} {
		offer := entities.Offer{OfferID: "offer-1", UserID: "buyer", ListingID: "listing-1", Status: status}
		if err := AuthorizeAssessment(entities.Principal{UserID: "buyer"}, offer, listing); !errors.Is(err, domainerrors.ErrForbidden) {
			t.Fatalf("expected forbidden in state %s, got %v", status, err)
		}
	}
}

func TestAuthorizeAuthorship(t *testing.T) {
	offer := entities.Offer{OfferID: "offer-1", UserID: "buyer", ListingID: "listing-1"}
	if err := AuthorizeAuthorship(entities.Principal{UserID: "buyer"}, offer); err != nil {
		t.Fatalf("author should be allowed, got %v", err)
	}
	if err := AuthorizeAuthorship(entities.Principal{UserID: "seller"}, offer); !errors.Is(err, domainerrors.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}
