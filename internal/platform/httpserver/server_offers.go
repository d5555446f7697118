package httpserver

import (
	"context"
	"errors"
	"net/http"

	"offerhub/contexts/marketplace/offer-service/domain/entities"
	offererrors "offerhub/contexts/marketplace/offer-service/domain/errors"
	offerhttp "offerhub/contexts/marketplace/offer-service/transport/http"
	"offerhub/internal/platform/auth"
)

type principalKey struct{}

// authenticated verifies the bearer token and puts the caller principal on the
// request context. Identity is never read from the body or other headers.
func (s *Server) authenticated(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.tokens == nil {
			writeOfferError(w, http.StatusUnauthorized, "unauthorized", auth.ErrMissingToken.Error())
			return
		}
		raw, err := auth.BearerToken(r.Header.Get("Authorization"))
		if err != nil {
			writeOfferError(w, http.StatusUnauthorized, "unauthorized", err.Error())
			return
		}
		identity, err := s.tokens.Verify(raw)
		if err != nil {
			s.logger.Warn("bearer token rejected",
				"event", "http_auth_rejected",
				"module", "internal/platform/httpserver",
				"layer", "platform",
				"path", r.URL.Path,
			)
			writeOfferError(w, http.StatusUnauthorized, "unauthorized", err.Error())
			return
		}

		principal := entities.Principal{
			UserID:   identity.UserID,
			Username: identity.Username,
			Email:    identity.Email,
		}
		next(w, r.WithContext(context.WithValue(r.Context(), principalKey{}, principal)))
	}
}

func principalFrom(r *http.Request) entities.Principal {
	principal, _ := r.Context().Value(principalKey{}).(entities.Principal)
	return principal
}

func (s *Server) handleGetOffer(w http.ResponseWriter, r *http.Request) {
	resp, err := s.offers.Handler.GetOfferHandler(r.Context(), principalFrom(r), r.PathValue("offerId"))
	if err != nil {
		s.writeOfferDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListListingOffers(w http.ResponseWriter, r *http.Request) {
	resp, err := s.offers.Handler.ListListingOffersHandler(r.Context(), principalFrom(r), r.PathValue("listingId"))
	if err != nil {
		s.writeOfferDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListUserOffers(w http.ResponseWriter, r *http.Request) {
	resp, err := s.offers.Handler.ListUserOffersHandler(r.Context(), principalFrom(r), r.PathValue("userId"))
	if err != nil {
		s.writeOfferDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateOffer(w http.ResponseWriter, r *http.Request) {
	var req offerhttp.CreateOfferRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.offers.Handler.CreateOfferHandler(r.Context(), principalFrom(r), req)
	if err != nil {
		s.writeOfferDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAssessOffer(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	decision, err := entities.ParseDecision(query.Get("decision"), query.Get("rejected"))
	if err != nil {
		s.writeOfferDomainError(w, r, err)
		return
	}
	resp, err := s.offers.Handler.AssessOfferHandler(r.Context(), principalFrom(r), r.PathValue("offerId"), decision)
	if err != nil {
		s.writeOfferDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleEditOffer(w http.ResponseWriter, r *http.Request) {
	var req offerhttp.EditOfferRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.offers.Handler.EditOfferHandler(r.Context(), principalFrom(r), r.PathValue("offerId"), req)
	if err != nil {
		s.writeOfferDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteOffer(w http.ResponseWriter, r *http.Request) {
	resp, err := s.offers.Handler.DeleteOfferHandler(r.Context(), principalFrom(r), r.PathValue("offerId"))
	if err != nil {
		s.writeOfferDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) writeOfferDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, offererrors.ErrOfferNotFound):
		writeOfferError(w, http.StatusNotFound, "offer_not_found", err.Error())
	case errors.Is(err, offererrors.ErrUserOrListingNotFound):
		writeOfferError(w, http.StatusNotFound, "user_or_listing_not_found", offererrors.ErrUserOrListingNotFound.Error())
	case errors.Is(err, offererrors.ErrListingNotFound):
		writeOfferError(w, http.StatusNotFound, "listing_not_found", offererrors.ErrListingNotFound.Error())
	case errors.Is(err, offererrors.ErrUserNotFound):
		writeOfferError(w, http.StatusNotFound, "user_not_found", offererrors.ErrUserNotFound.Error())
	case errors.Is(err, offererrors.ErrForbidden):
		writeOfferError(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, offererrors.ErrInvalidDecision):
		writeOfferError(w, http.StatusBadRequest, "invalid_decision", err.Error())
	case errors.Is(err, offererrors.ErrInvalidRequest):
		writeOfferError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		s.logger.Error("offer request failed",
			"event", "http_offer_request_failed",
			"module", "internal/platform/httpserver",
			"layer", "platform",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err.Error(),
		)
		writeOfferError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeOfferError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, offerhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}
