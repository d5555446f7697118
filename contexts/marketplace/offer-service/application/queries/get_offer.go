package queries

import (
	"context"
	"log/slog"
	"strings"

	application "offerhub/contexts/marketplace/offer-service/application"
	"offerhub/contexts/marketplace/offer-service/domain/entities"
	domainerrors "offerhub/contexts/marketplace/offer-service/domain/errors"
	"offerhub/contexts/marketplace/offer-service/ports"
)

type GetOfferQuery struct {
	Principal entities.Principal
	OfferID   string
}

type GetOfferResult struct {
	Offer entities.Offer
}

type GetOfferUseCase struct {
	Offers ports.OfferRepository
	Logger *slog.Logger
}

func (u GetOfferUseCase) Execute(ctx context.Context, query GetOfferQuery) (GetOfferResult, error) {
	logger := application.ResolveLogger(u.Logger)
	if !query.Principal.Valid() {
		return GetOfferResult{}, domainerrors.ErrForbidden
	}
	if strings.TrimSpace(query.OfferID) == "" {
		return GetOfferResult{}, domainerrors.ErrInvalidRequest
	}

	offer, err := u.Offers.GetOffer(ctx, query.OfferID)
	if err != nil {
		logger.Warn("get offer failed",
			"event", "get_offer_failed",
			"module", application.LogModule,
			"layer", application.LayerApplication,
			"offer_id", query.OfferID,
			"error", err.Error(),
		)
		return GetOfferResult{}, err
	}
	return GetOfferResult{Offer: offer}, nil
}
