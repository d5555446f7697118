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

type DeleteOfferCommand struct {
	Principal entities.Principal
	OfferID   string
}

type DeleteOfferResult struct {
	OfferID string
}

type DeleteOfferUseCase struct {
	Offers      ports.OfferRepository
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

func (u DeleteOfferUseCase) Execute(ctx context.Context, cmd DeleteOfferCommand) (DeleteOfferResult, error) {
	logger := application.ResolveLogger(u.Logger)
	if strings.TrimSpace(cmd.OfferID) == "" {
		return DeleteOfferResult{}, domainerrors.ErrInvalidRequest
	}

	offer, err := u.Offers.GetOffer(ctx, cmd.OfferID)
	if err != nil {
		return DeleteOfferResult{}, err
	}
	if err := services.AuthorizeAuthorship(cmd.Principal, offer); err != nil {
		logger.Warn("delete offer denied",
			"event", "delete_offer_forbidden",
			"module", application.LogModule,
			"layer", application.LayerApplication,
			"offer_id", offer.OfferID,
			"user_id", cmd.Principal.UserID,
		)
		return DeleteOfferResult{}, err
	}

	event, err := buildEvent(ctx, u.IDGenerator, EventOfferDeleted, offer, resolveNow(u.Clock), nil)
	if err != nil {
		return DeleteOfferResult{}, err
	}
	if err := u.Offers.DeleteOfferUnlinked(ctx, offer, event); err != nil {
		logger.Error("delete offer failed on write transaction",
			"event", "delete_offer_write_failed",
			"module", application.LogModule,
			"layer", application.LayerApplication,
			"offer_id", offer.OfferID,
			"error", err.Error(),
		)
		return DeleteOfferResult{}, err
	}

	logger.Info("offer deleted",
		"event", "offer_deleted",
		"module", application.LogModule,
		"layer", application.LayerApplication,
		"offer_id", offer.OfferID,
		"user_id", offer.UserID,
		"listing_id", offer.ListingID,
	)
	return DeleteOfferResult{OfferID: offer.OfferID}, nil
}
