package commands

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	application "offerhub/contexts/marketplace/offer-service/application"
	"offerhub/contexts/marketplace/offer-service/domain/entities"
	domainerrors "offerhub/contexts/marketplace/offer-service/domain/errors"
	"offerhub/contexts/marketplace/offer-service/ports"
)

type CreateOfferCommand struct {
	Principal entities.Principal
	ListingID string
	Terms     entities.Terms
}

type CreateOfferResult struct {
	Offer  entities.Offer
	Author entities.Author
}

type CreateOfferUseCase struct {
	Offers      ports.OfferRepository
	Users       ports.UserRepository
	Listings    ports.ListingRepository
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

// Execute runs the create workflow in this order:
// 1) author and listing existence checks
// 2) offer construction (author and pending state come from the caller identity)
// 3) atomic offer + back-references + outbox persistence.
func (u CreateOfferUseCase) Execute(ctx context.Context, cmd CreateOfferCommand) (CreateOfferResult, error) {
	logger := application.ResolveLogger(u.Logger)
	if !cmd.Principal.Valid() {
		return CreateOfferResult{}, domainerrors.ErrForbidden
	}
	if strings.TrimSpace(cmd.ListingID) == "" {
		return CreateOfferResult{}, domainerrors.ErrInvalidRequest
	}
	if err := cmd.Terms.Validate(); err != nil {
		return CreateOfferResult{}, err
	}

	logger.Info("create offer started",
		"event", "create_offer_started",
		"module", application.LogModule,
		"layer", application.LayerApplication,
		"user_id", cmd.Principal.UserID,
		"listing_id", cmd.ListingID,
	)

	if _, err := u.Users.GetUser(ctx, cmd.Principal.UserID); err != nil {
		return CreateOfferResult{}, u.referenceError(logger, cmd, err)
	}
	if _, err := u.Listings.GetListing(ctx, cmd.ListingID); err != nil {
		return CreateOfferResult{}, u.referenceError(logger, cmd, err)
	}

	offerID, err := u.IDGenerator.NewID(ctx)
	if err != nil {
		return CreateOfferResult{}, err
	}
	now := resolveNow(u.Clock)
	offer, err := entities.NewOffer(offerID, cmd.Principal.UserID, cmd.ListingID, cmd.Terms, now)
	if err != nil {
		return CreateOfferResult{}, err
	}

	event, err := buildEvent(ctx, u.IDGenerator, EventOfferCreated, offer, now, map[string]any{
		"message": offer.Terms.Message,
	})
	if err != nil {
		return CreateOfferResult{}, err
	}

	if err := u.Offers.CreateOfferLinked(ctx, offer, event); err != nil {
		if isReferenceMissing(err) {
			return CreateOfferResult{}, u.referenceError(logger, cmd, err)
		}
		logger.Error("create offer failed on write transaction",
			"event", "create_offer_write_failed",
			"module", application.LogModule,
			"layer", application.LayerApplication,
			"user_id", cmd.Principal.UserID,
			"listing_id", cmd.ListingID,
			"error", err.Error(),
		)
		return CreateOfferResult{}, err
	}

	logger.Info("offer created",
		"event", "offer_created",
		"module", application.LogModule,
		"layer", application.LayerApplication,
		"offer_id", offer.OfferID,
		"user_id", offer.UserID,
		"listing_id", offer.ListingID,
	)

	return CreateOfferResult{
		Offer:  offer,
		Author: entities.AuthorFromPrincipal(cmd.Principal),
	}, nil
}

func (u CreateOfferUseCase) referenceError(logger *slog.Logger, cmd CreateOfferCommand, err error) error {
	if !isReferenceMissing(err) {
		logger.Error("create offer failed loading references",
			"event", "create_offer_reference_load_failed",
			"module", application.LogModule,
			"layer", application.LayerApplication,
			"user_id", cmd.Principal.UserID,
			"listing_id", cmd.ListingID,
			"error", err.Error(),
		)
		return err
	}
	logger.Warn("create offer references missing",
		"event", "create_offer_reference_missing",
		"module", application.LogModule,
		"layer", application.LayerApplication,
		"user_id", cmd.Principal.UserID,
		"listing_id", cmd.ListingID,
		"error", err.Error(),
	)
	return domainerrors.ErrUserOrListingNotFound
}

func isReferenceMissing(err error) bool {
	return errors.Is(err, domainerrors.ErrUserNotFound) ||
		errors.Is(err, domainerrors.ErrListingNotFound) ||
		errors.Is(err, domainerrors.ErrUserOrListingNotFound)
}
