package services

import (
	"offerhub/contexts/marketplace/offer-service/domain/entities"
	domainerrors "offerhub/contexts/marketplace/offer-service/domain/errors"
)

// AuthorizeAssessment allows only the seller of the offer's listing to assess it.
// The offer state is irrelevant to the decision.
func AuthorizeAssessment(principal entities.Principal, offer entities.Offer, listing entities.Listing) error {
	if !principal.Valid() {
		return domainerrors.ErrForbidden
	}
	if offer.ListingID != listing.ListingID {
		return domainerrors.ErrRepositoryInvariantBroke
	}
	if !listing.IsSoldBy(principal.UserID) {
		return domainerrors.ErrForbidden
	}
	return nil
}

// AuthorizeAuthorship allows only the offer author to edit or delete it.
func AuthorizeAuthorship(principal entities.Principal, offer entities.Offer) error {
	if !principal.Valid() || !offer.IsAuthoredBy(principal.UserID) {
		return domainerrors.ErrForbidden
	}
	return nil
}
