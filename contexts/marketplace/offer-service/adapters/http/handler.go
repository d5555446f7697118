package httpadapter

import (
	"context"
	"log/slog"

	application "offerhub/contexts/marketplace/offer-service/application"
	"offerhub/contexts/marketplace/offer-service/application/commands"
	"offerhub/contexts/marketplace/offer-service/application/queries"
	"offerhub/contexts/marketplace/offer-service/domain/entities"
	httptransport "offerhub/contexts/marketplace/offer-service/transport/http"
)

const timeLayout = "2006-01-02T15:04:05Z"

type Handler struct {
	GetOffer          queries.GetOfferUseCase
	ListListingOffers queries.ListListingOffersUseCase
	ListUserOffers    queries.ListUserOffersUseCase
	CreateOffer       commands.CreateOfferUseCase
	AssessOffer       commands.AssessOfferUseCase
	EditOffer         commands.EditOfferUseCase
	DeleteOffer       commands.DeleteOfferUseCase
	Logger            *slog.Logger
}

// GetOfferHandler godoc
// @Summary Get offer
// @Description Returns one offer by id.
// @Tags offers
// @Produce json
// @Security BearerAuth
// @Param offerId path string true "Offer id"
// @Success 200 {object} httptransport.OfferDTO
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /offers/{offerId} [get]
func (h Handler) GetOfferHandler(ctx context.Context, principal entities.Principal, offerID string) (httptransport.OfferDTO, error) {
	result, err := h.GetOffer.Execute(ctx, queries.GetOfferQuery{
		Principal: principal,
		OfferID:   offerID,
	})
	if err != nil {
		return httptransport.OfferDTO{}, err
	}
	return mapOffer(result.Offer, nil), nil
}

// ListListingOffersHandler godoc
// @Summary List offers for a listing
// @Description Returns offers made against a listing, oldest first, with author username and email. The list is wrapped as {"items": [...]}, not a bare array.
// @Tags offers
// @Produce json
// @Security BearerAuth
// @Param listingId path string true "Listing id"
// @Success 200 {object} httptransport.ListOffersResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /offers/listing/{listingId} [get]
func (h Handler) ListListingOffersHandler(ctx context.Context, principal entities.Principal, listingID string) (httptransport.ListOffersResponse, error) {
	logger := application.ResolveLogger(h.Logger)
	result, err := h.ListListingOffers.Execute(ctx, queries.ListListingOffersQuery{
		Principal: principal,
		ListingID: listingID,
	})
	if err != nil {
		logger.Error("list listing offers request failed",
			"event", "http_list_listing_offers_failed",
			"module", application.LogModule,
			"layer", application.LayerTransport,
			"listing_id", listingID,
			"error", err.Error(),
		)
		return httptransport.ListOffersResponse{}, err
	}
	return httptransport.ListOffersResponse{Items: mapViews(result.Items)}, nil
}

// ListUserOffersHandler godoc
// @Summary List offers by user
// @Description Returns offers authored by a user, oldest first. The list is wrapped as {"items": [...]}, not a bare array.
// @Tags offers
// @Produce json
// @Security BearerAuth
// @Param userId path string true "User id"
// @Success 200 {object} httptransport.ListOffersResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /offers/user/{userId} [get]
func (h Handler) ListUserOffersHandler(ctx context.Context, principal entities.Principal, userID string) (httptransport.ListOffersResponse, error) {
	result, err := h.ListUserOffers.Execute(ctx, queries.ListUserOffersQuery{
		Principal: principal,
		UserID:    userID,
	})
	if err != nil {
		return httptransport.ListOffersResponse{}, err
	}
	return httptransport.ListOffersResponse{Items: mapViews(result.Items)}, nil
}

// CreateOfferHandler godoc
// @Summary Create offer
// @Description Creates a pending offer authored by the caller and links it to the caller and the listing.
// @Tags offers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body httptransport.CreateOfferRequest true "Offer payload"
// @Success 200 {object} httptransport.OfferDTO
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /offers [post]
func (h Handler) CreateOfferHandler(
	ctx context.Context,
	principal entities.Principal,
	req httptransport.CreateOfferRequest,
) (httptransport.OfferDTO, error) {
	logger := application.ResolveLogger(h.Logger)
	logger.Info("create offer request received",
		"event", "http_create_offer_received",
		"module", application.LogModule,
		"layer", application.LayerTransport,
		"user_id", principal.UserID,
	)

	result, err := h.CreateOffer.Execute(ctx, commands.CreateOfferCommand{
		Principal: principal,
		ListingID: req.ListingID,
		Terms:     entities.Terms{Price: req.Price, Message: req.Message},
	})
	if err != nil {
		return httptransport.OfferDTO{}, err
	}
	return mapOffer(result.Offer, &result.Author), nil
}

// AssessOfferHandler godoc
// @Summary Assess offer
// @Description Seller accepts or rejects an offer on their listing. Without a decision the offer is rejected.
// @Tags offers
// @Produce json
// @Security BearerAuth
// @Param offerId path string true "Offer id"
// @Param rejected query bool false "true rejects, false accepts"
// @Param decision query string false "accept or reject; overrides rejected"
// @Success 200 {object} httptransport.OfferDTO
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /offers/assess/{offerId} [put]
func (h Handler) AssessOfferHandler(
	ctx context.Context,
	principal entities.Principal,
	offerID string,
	decision entities.Decision,
) (httptransport.OfferDTO, error) {
	result, err := h.AssessOffer.Execute(ctx, commands.AssessOfferCommand{
		Principal: principal,
		OfferID:   offerID,
		Decision:  decision,
	})
	if err != nil {
		return httptransport.OfferDTO{}, err
	}
	return mapOffer(result.Offer, nil), nil
}

// EditOfferHandler godoc
// @Summary Edit offer
// @Description Author updates offer terms. Only the fields sent change; omitted fields keep their stored value. The offer returns to pending.
// @Tags offers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param offerId path string true "Offer id"
// @Param request body httptransport.EditOfferRequest true "Offer terms"
// @Success 200 {object} httptransport.OfferDTO
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /offers/{offerId} [put]
func (h Handler) EditOfferHandler(
	ctx context.Context,
	principal entities.Principal,
	offerID string,
	req httptransport.EditOfferRequest,
) (httptransport.OfferDTO, error) {
	result, err := h.EditOffer.Execute(ctx, commands.EditOfferCommand{
		Principal: principal,
		OfferID:   offerID,
		Changes:   entities.TermsPatch{Price: req.Price, Message: req.Message},
	})
	if err != nil {
		return httptransport.OfferDTO{}, err
	}
	return mapOffer(result.Offer, &result.Author), nil
}

// DeleteOfferHandler godoc
// @Summary Delete offer
// @Description Author deletes an offer; it is removed from the author's and the listing's offer lists.
// @Tags offers
// @Produce json
// @Security BearerAuth
// @Param offerId path string true "Offer id"
// @Success 200 {object} httptransport.DeleteOfferResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 500 {object} httptransport.ErrorResponse
// @Router /offers/{offerId} [delete]
func (h Handler) DeleteOfferHandler(ctx context.Context, principal entities.Principal, offerID string) (httptransport.DeleteOfferResponse, error) {
	result, err := h.DeleteOffer.Execute(ctx, commands.DeleteOfferCommand{
		Principal: principal,
		OfferID:   offerID,
	})
	if err != nil {
		return httptransport.DeleteOfferResponse{}, err
	}
	return httptransport.DeleteOfferResponse{
		OfferID: result.OfferID,
		Message: "Offer deleted successfully",
	}, nil
}

func mapViews(views []entities.OfferView) []httptransport.OfferDTO {
	items := make([]httptransport.OfferDTO, 0, len(views))
	for _, view := range views {
		items = append(items, mapOffer(view.Offer, view.Author))
	}
	return items
}

func mapOffer(offer entities.Offer, author *entities.Author) httptransport.OfferDTO {
	dto := httptransport.OfferDTO{
		OfferID:   offer.OfferID,
		UserID:    offer.UserID,
		ListingID: offer.ListingID,
		Status:    string(offer.Status),
		Rejected:  offer.Rejected(),
		Price:     offer.Terms.Price,
		Message:   offer.Terms.Message,
		CreatedAt: offer.CreatedAt.UTC().Format(timeLayout),
		UpdatedAt: offer.UpdatedAt.UTC().Format(timeLayout),
	}
	if author != nil {
		dto.Author = &httptransport.AuthorDTO{
			UserID:   author.UserID,
			Username: author.Username,
			Email:    author.Email,
		}
	}
	return dto
}
