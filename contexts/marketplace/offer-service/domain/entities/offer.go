package entities

import (
	"math"
	"strings"
	"time"

	domainerrors "offerhub/contexts/marketplace/offer-service/domain/errors"
)

type OfferStatus string

const (
	OfferStatusPending  OfferStatus = "pending"
	OfferStatusAccepted OfferStatus = "accepted"
	OfferStatusRejected OfferStatus = "rejected"
)

// Terms is the author-controlled part of an offer.
type Terms struct {
	Price   float64
	Message string
}

func (t Terms) Validate() error {
	if math.IsNaN(t.Price) || math.IsInf(t.Price, 0) || t.Price < 0 {
		return domainerrors.ErrInvalidRequest
	}
	return nil
}

type Offer struct {
	OfferID   string
	UserID    string
	ListingID string
	Status    OfferStatus
	Terms     Terms
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewOffer builds a pending offer. Author and listing are fixed here and never
// change for the lifetime of the offer.
func NewOffer(offerID string, userID string, listingID string, terms Terms, now time.Time) (Offer, error) {
	if strings.TrimSpace(offerID) == "" ||
		strings.TrimSpace(userID) == "" ||
		strings.TrimSpace(listingID) == "" {
		return Offer{}, domainerrors.ErrInvalidRequest
	}
	if err := terms.Validate(); err != nil {
		return Offer{}, err
	}
	return Offer{
		OfferID:   offerID,
		UserID:    userID,
		ListingID: listingID,
		Status:    OfferStatusPending,
		Terms:     terms,
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}, nil
}

func (o Offer) Rejected() bool {
	return o.Status == OfferStatusRejected
}

func (o Offer) IsAuthoredBy(userID string) bool {
	return strings.TrimSpace(userID) != "" && o.UserID == userID
}

// TermsPatch holds the terms an edit sends. Nil fields keep their stored value.
type TermsPatch struct {
	Price   *float64
	Message *string
}

func (p TermsPatch) Apply(current Terms) Terms {
	if p.Price != nil {
		current.Price = *p.Price
	}
	if p.Message != nil {
		current.Message = *p.Message
	}
	return current
}

// Revise merges the sent terms into the stored ones and resubmits the offer
// for assessment.
func (o Offer) Revise(patch TermsPatch, now time.Time) (Offer, error) {
	terms := patch.Apply(o.Terms)
	if err := terms.Validate(); err != nil {
		return Offer{}, err
	}
	o.Terms = terms
	o.Status = OfferStatusPending
	o.UpdatedAt = now.UTC()
	return o, nil
}

func (o Offer) Assess(decision Decision, now time.Time) (Offer, error) {
	switch decision {
	case DecisionAccept:
		o.Status = OfferStatusAccepted
	case DecisionReject:
		o.Status = OfferStatusRejected
	default:
		return Offer{}, domainerrors.ErrInvalidDecision
	}
	o.UpdatedAt = now.UTC()
	return o, nil
}
