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

type ListListingOffersQuery struct {
	Principal entities.Principal
	ListingID string
}

type ListUserOffersQuery struct {
	Principal entities.Principal
	UserID    string
}

type ListOffersResult struct {
	Items []entities.OfferView
}

// ListListingOffersUseCase returns offers made against a listing, each carrying
// its author's username and email.
type ListListingOffersUseCase struct {
	Offers ports.OfferRepository
	Users  ports.UserRepository
	Logger *slog.Logger
}

func (u ListListingOffersUseCase) Execute(ctx context.Context, query ListListingOffersQuery) (ListOffersResult, error) {
	logger := application.ResolveLogger(u.Logger)
	if !query.Principal.Valid() {
		return ListOffersResult{}, domainerrors.ErrForbidden
	}
	if strings.TrimSpace(query.ListingID) == "" {
		return ListOffersResult{}, domainerrors.ErrInvalidRequest
	}

	offers, err := u.Offers.ListOffersByListing(ctx, query.ListingID)
	if err != nil {
		logger.Error("list listing offers failed",
			"event", "list_listing_offers_failed",
			"module", application.LogModule,
			"layer", application.LayerApplication,
			"listing_id", query.ListingID,
			"error", err.Error(),
		)
		return ListOffersResult{}, err
	}

	authorIDs := make([]string, 0, len(offers))
	seen := make(map[string]struct{}, len(offers))
	for _, offer := range offers {
		if _, ok := seen[offer.UserID]; ok {
			continue
		}
		seen[offer.UserID] = struct{}{}
		authorIDs = append(authorIDs, offer.UserID)
	}

	authors := map[string]entities.User{}
	if len(authorIDs) > 0 {
		authors, err = u.Users.GetUsers(ctx, authorIDs)
		if err != nil {
			logger.Error("list listing offers failed loading authors",
				"event", "list_listing_offers_authors_failed",
				"module", application.LogModule,
				"layer", application.LayerApplication,
				"listing_id", query.ListingID,
				"error", err.Error(),
			)
			return ListOffersResult{}, err
		}
	}

	items := make([]entities.OfferView, 0, len(offers))
	for _, offer := range offers {
		view := entities.OfferView{Offer: offer}
		if user, ok := authors[offer.UserID]; ok {
			author := entities.AuthorFromUser(user)
			view.Author = &author
		}
		items = append(items, view)
	}

	logger.Info("list listing offers completed",
		"event", "list_listing_offers_completed",
		"module", application.LogModule,
		"layer", application.LayerApplication,
		"listing_id", query.ListingID,
		"items_count", len(items),
	)
	return ListOffersResult{Items: items}, nil
}

type ListUserOffersUseCase struct {
	Offers ports.OfferRepository
	Logger *slog.Logger
}

func (u ListUserOffersUseCase) Execute(ctx context.Context, query ListUserOffersQuery) (ListOffersResult, error) {
	logger := application.ResolveLogger(u.Logger)
	if !query.Principal.Valid() {
		return ListOffersResult{}, domainerrors.ErrForbidden
	}
	if strings.TrimSpace(query.UserID) == "" {
		return ListOffersResult{}, domainerrors.ErrInvalidRequest
	}

	offers, err := u.Offers.ListOffersByUser(ctx, query.UserID)
	if err != nil {
		logger.Error("list user offers failed",
			"event", "list_user_offers_failed",
			"module", application.LogModule,
			"layer", application.LayerApplication,
			"user_id", query.UserID,
			"error", err.Error(),
		)
		return ListOffersResult{}, err
	}

	items := make([]entities.OfferView, 0, len(offers))
	for _, offer := range offers {
		items = append(items, entities.OfferView{Offer: offer})
	}
	return ListOffersResult{Items: items}, nil
}
