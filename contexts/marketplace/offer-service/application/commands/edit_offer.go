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

type EditOfferCommand struct {
	Principal entities.Principal
	OfferID   string
	Changes   entities.TermsPatch
}

type EditOfferResult struct {
	Offer  entities.Offer
	Author entities.Author
}

type EditOfferUseCase struct {
	Offers      ports.OfferRepository
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

// Execute merges the sent terms into the offer. Author and listing always come from the
// stored offer and any edit puts the offer back to pending.
func (u EditOfferUseCase) Execute(ctx context.Context, cmd EditOfferCommand) (EditOfferResult, error) {
	logger := application.ResolveLogger(u.Logger)
	if strings.TrimSpace(cmd.OfferID) == "" {
		return EditOfferResult{}, domainerrors.ErrInvalidRequest
	}

	offer, err := u.Offers.GetOffer(ctx, cmd.OfferID)
	if err != nil {
		return EditOfferResult{}, err
	}
	if err := services.AuthorizeAuthorship(cmd.Principal, offer); err != nil {
		logger.Warn("edit offer denied",
			"event", "edit_offer_forbidden",
			"module", application.LogModule,
			"layer", application.LayerApplication,
			"offer_id", offer.OfferID,
			"user_id", cmd.Principal.UserID,
		)
		return EditOfferResult{}, err
	}

	now := resolveNow(u.Clock)
	revised, err := offer.Revise(cmd.Changes, now)
	if err != nil {
		return EditOfferResult{}, err
	}

	event, err := buildEvent(ctx, u.IDGenerator, EventOfferEdited, revised, now, map[string]any{
		"message":         revised.Terms.Message,
		"previous_status": string(offer.Status),
	})
	if err != nil {
		return EditOfferResult{}, err
	}
	if err := u.Offers.UpdateOffer(ctx, revised, event); err != nil {
		logger.Error("edit offer failed on write",
			"event", "edit_offer_write_failed",
			"module", application.LogModule,
			"layer", application.LayerApplication,
			"offer_id", offer.OfferID,
			"error", err.Error(),
		)
		return EditOfferResult{}, err
	}

	logger.Info("offer edited",
		"event", "offer_edited",
		"module", application.LogModule,
		"layer", application.LayerApplication,
		"offer_id", revised.OfferID,
		"old_status", string(offer.Status),
	)
	return EditOfferResult{
		Offer:  revised,
		Author: entities.AuthorFromPrincipal(cmd.Principal),
	}, nil
}
