package commands

import (
	"context"
	"log/slog"
	"strings"

	application "offerhub/contexts/marketplace/offer-service/application"
	"offerhub/contexts/marketplace/offer-service/domain/entities"
	domainerrors "offerhub/contexts/marketplace/offer-service/domain/errors"
	"offerhub/contexts/marketplace/offer-service/domain/services"
	"offerhub/contexts/marketplace/offer-service/ports"
)

type AssessOfferCommand struct {
	Principal entities.Principal
	OfferID   string
	Decision  entities.Decision
}

type AssessOfferResult struct {
	Offer entities.Offer
}

type AssessOfferUseCase struct {
	Offers      ports.OfferRepository
	Listings    ports.ListingRepository
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

func (u AssessOfferUseCase) Execute(ctx context.Context, cmd AssessOfferCommand) (AssessOfferResult, error) {
	logger := application.ResolveLogger(u.Logger)
	if strings.TrimSpace(cmd.OfferID) == "" {
		return AssessOfferResult{}, domainerrors.ErrInvalidRequest
	}

	offer, err := u.Offers.GetOffer(ctx, cmd.OfferID)
	if err != nil {
		return AssessOfferResult{}, err
	}
	listing, err := u.Listings.GetListing(ctx, offer.ListingID)
	if err != nil {
		logger.Error("assess offer failed loading listing",
			"event", "assess_offer_listing_load_failed",
			"module", application.LogModule,
			"layer", application.LayerApplication,
			"offer_id", offer.OfferID,
			"listing_id", offer.ListingID,
			"error", err.Error(),
		)
		return AssessOfferResult{}, err
	}

	if err := services.AuthorizeAssessment(cmd.Principal, offer, listing); err != nil {
		logger.Warn("assess offer denied",
			"event", "assess_offer_forbidden",
			"module", application.LogModule,
			"layer", application.LayerApplication,
			"offer_id", offer.OfferID,
			"user_id", cmd.Principal.UserID,
		)
		return AssessOfferResult{}, err
	}

	now := resolveNow(u.Clock)
	previous := offer.Status
	assessed, err := offer.Assess(cmd.Decision, now)
	if err != nil {
		return AssessOfferResult{}, err
	}

	event, err := buildEvent(ctx, u.IDGenerator, EventOfferAssessed, assessed, now, map[string]any{
		"decision":        string(cmd.Decision),
		"previous_status": string(previous),
		"assessed_by":     cmd.Principal.UserID,
	})
	if err != nil {
		return AssessOfferResult{}, err
	}
	if err := u.Offers.UpdateOffer(ctx, assessed, event); err != nil {
		logger.Error("assess offer failed on write",
			"event", "assess_offer_write_failed",
			"module", application.LogModule,
			"layer", application.LayerApplication,
			"offer_id", offer.OfferID,
			"error", err.Error(),
		)
		return AssessOfferResult{}, err
	}

	logger.Info("offer assessed",
		"event", "offer_assessed",
		"module", application.LogModule,
		"layer", application.LayerApplication,
		"offer_id", assessed.OfferID,
		"decision", string(cmd.Decision),
		"old_status", string(previous),
		"new_status", string(assessed.Status),
	)
	return AssessOfferResult{Offer: assessed}, nil
}
