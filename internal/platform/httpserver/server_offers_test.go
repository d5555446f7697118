package httpserver

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	offerservice "offerhub/contexts/marketplace/offer-service"
	"offerhub/contexts/marketplace/offer-service/domain/entities"
	offererrors "offerhub/contexts/marketplace/offer-service/domain/errors"
	offerhttp "offerhub/contexts/marketplace/offer-service/transport/http"
	"offerhub/internal/platform/auth"
)

const testSecret = "test-secret"

func newTestServer() *Server {
	module := offerservice.NewInMemoryModule(
		[]entities.User{
			{UserID: "alice", Username: "alice", Email: "alice@example.com"},
			{UserID: "bob", Username: "bob", Email: "bob@example.com"},
			{UserID: "carol", Username: "carol", Email: "carol@example.com"},
		},
		[]entities.Listing{
			{ListingID: "listing-bob", SellerID: "bob", Title: "Road bike"},
		},
		nil,
	)
	issuer, err := auth.NewIssuer(testSecret, "offerhub", time.Hour)
	if err != nil {
		panic(err)
	}
	return New(module, issuer, nil, ":0")
}

func bearer(t *testing.T, userID string) string {
	t.Helper()
	issuer, err := auth.NewIssuer(testSecret, "offerhub", time.Hour)
	if err != nil {
		t.Fatalf("new issuer failed: %v", err)
	}
	token, err := issuer.Issue(auth.Identity{UserID: userID, Username: userID, Email: userID + "@example.com"})
	if err != nil {
		t.Fatalf("issue token failed: %v", err)
	}
	return "Bearer " + token
}

func doRequest(t *testing.T, server *Server, method string, path string, userID string, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("Authorization", bearer(t, userID))
	}
	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	return rr
}

func decodeOffer(t *testing.T, rr *httptest.ResponseRecorder) offerhttp.OfferDTO {
	t.Helper()
	var dto offerhttp.OfferDTO
	if err := json.Unmarshal(rr.Body.Bytes(), &dto); err != nil {
		t.Fatalf("decode offer failed: %v body=%s", err, rr.Body.String())
	}
	return dto
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) offerhttp.ErrorResponse {
	t.Helper()
	var resp offerhttp.ErrorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error failed: %v body=%s", err, rr.Body.String())
	}
	return resp
}

func createTestOffer(t *testing.T, server *Server, userID string) offerhttp.OfferDTO {
	t.Helper()
	rr := doRequest(t, server, http.MethodPost, "/offers", userID, `{"listing_id":"listing-bob","price":100,"message":"hi"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	return decodeOffer(t, rr)
}

func TestHealthz(t *testing.T) {
	server := newTestServer()
	rr := doRequest(t, server, http.MethodGet, "/healthz", "", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}

func TestOfferRoutesRequireBearerToken(t *testing.T) {
	server := newTestServer()
	cases := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/offers/offer-1"},
		{http.MethodGet, "/offers/listing/listing-bob"},
		{http.MethodGet, "/offers/user/alice"},
		{http.MethodPost, "/offers"},
		{http.MethodPut, "/offers/assess/offer-1"},
		{http.MethodPut, "/offers/offer-1"},
		{http.MethodDelete, "/offers/offer-1"},
	}
	for _, tc := range cases {
		rr := doRequest(t, server, tc.method, tc.path, "", "")
		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s: expected 401, got %d", tc.method, tc.path, rr.Code)
		}
		if code := decodeError(t, rr).Code; code != "unauthorized" {
			t.Fatalf("%s %s: expected unauthorized code, got %s", tc.method, tc.path, code)
		}
	}
}

func TestOfferRoutesRejectForgedToken(t *testing.T) {
	server := newTestServer()
	forger, err := auth.NewIssuer("not-the-secret", "offerhub", time.Hour)
	if err != nil {
		t.Fatalf("new issuer failed: %v", err)
	}
	token, err := forger.Issue(auth.Identity{UserID: "bob"})
	if err != nil {
		t.Fatalf("issue token failed: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/offers/user/bob", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}

func TestCreateOfferIgnoresSpoofedFields(t *testing.T) {
	server := newTestServer()
	body := `{"listing_id":"listing-bob","price":80,"user_id":"mallory","status":"accepted","rejected":true}`
	rr := doRequest(t, server, http.MethodPost, "/offers", "alice", body)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}

	offer := decodeOffer(t, rr)
	if offer.UserID != "alice" {
		t.Fatalf("expected author alice, got %s", offer.UserID)
	}
	if offer.Status != "pending" || offer.Rejected {
		t.Fatalf("expected pending offer, got status=%s rejected=%v", offer.Status, offer.Rejected)
	}
	if offer.Author == nil || offer.Author.Username != "alice" || offer.Author.Email != "alice@example.com" {
		t.Fatalf("expected alice author projection, got %+v", offer.Author)
	}
}

func TestCreateOfferMissingListingReturns404(t *testing.T) {
	server := newTestServer()
	rr := doRequest(t, server, http.MethodPost, "/offers", "alice", `{"listing_id":"nope","price":1}`)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d body=%s", rr.Code, rr.Body.String())
	}
	if resp := decodeError(t, rr); resp.Message != "user or listing not found" {
		t.Fatalf("unexpected message %q", resp.Message)
	}

	list := doRequest(t, server, http.MethodGet, "/offers/user/alice", "alice", "")
	if body := list.Body.String(); body != "{\"items\":[]}\n" {
		t.Fatalf("expected empty items, got %s", body)
	}
}

func TestCreateOfferRejectsMalformedBody(t *testing.T) {
	server := newTestServer()
	rr := doRequest(t, server, http.MethodPost, "/offers", "alice", `{"listing_id":`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
	rr = doRequest(t, server, http.MethodPost, "/offers", "alice", `{"listing_id":"listing-bob","price":-3}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for negative price, got %d", rr.Code)
	}
}

func TestAssessOfferAuthorizationAndDecision(t *testing.T) {
	server := newTestServer()
	offer := createTestOffer(t, server, "alice")

	rr := doRequest(t, server, http.MethodPut, "/offers/assess/"+offer.OfferID+"?rejected=true", "carol", "")
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-seller, got %d", rr.Code)
	}
	if resp := decodeError(t, rr); resp.Message != "unauthorized access" {
		t.Fatalf("unexpected message %q", resp.Message)
	}

	rr = doRequest(t, server, http.MethodPut, "/offers/assess/"+offer.OfferID+"?rejected=maybe", "bob", "")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid decision, got %d", rr.Code)
	}

	rr = doRequest(t, server, http.MethodPut, "/offers/assess/"+offer.OfferID+"?rejected=false", "bob", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	if got := decodeOffer(t, rr); got.Status != "accepted" || got.Rejected {
		t.Fatalf("expected accepted, got %+v", got)
	}

	rr = doRequest(t, server, http.MethodPut, "/offers/assess/"+offer.OfferID, "bob", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if got := decodeOffer(t, rr); !got.Rejected {
		t.Fatalf("expected missing decision to reject, got %+v", got)
	}

	rr = doRequest(t, server, http.MethodPut, "/offers/assess/unknown?decision=accept", "bob", "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestEditOfferResetsRejection(t *testing.T) {
	server := newTestServer()
	offer := createTestOffer(t, server, "alice")

	rr := doRequest(t, server, http.MethodPut, "/offers/assess/"+offer.OfferID+"?decision=reject", "bob", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	rr = doRequest(t, server, http.MethodPut, "/offers/"+offer.OfferID, "bob", `{"price":1}`)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-author edit, got %d", rr.Code)
	}

	rr = doRequest(t, server, http.MethodPut, "/offers/"+offer.OfferID, "alice", `{"price":150,"message":"final"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	edited := decodeOffer(t, rr)
	if edited.Rejected || edited.Status != "pending" || edited.Price != 150 {
		t.Fatalf("expected pending revised offer, got %+v", edited)
	}
	if edited.Author == nil || edited.Author.UserID != "alice" {
		t.Fatalf("expected author projection, got %+v", edited.Author)
	}
}

func TestEditOfferKeepsTermsThatWereNotSent(t *testing.T) {
	server := newTestServer()
	offer := createTestOffer(t, server, "alice")

	rr := doRequest(t, server, http.MethodPut, "/offers/"+offer.OfferID, "alice", `{"message":"still interested"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	edited := decodeOffer(t, rr)
	if edited.Price != 100 || edited.Message != "still interested" {
		t.Fatalf("expected price kept and message replaced, got %+v", edited)
	}

	rr = doRequest(t, server, http.MethodPut, "/offers/"+offer.OfferID, "alice", `{"price":80}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	edited = decodeOffer(t, rr)
	if edited.Price != 80 || edited.Message != "still interested" {
		t.Fatalf("expected message kept and price replaced, got %+v", edited)
	}

	rr = doRequest(t, server, http.MethodGet, "/offers/"+offer.OfferID, "carol", "")
	stored := decodeOffer(t, rr)
	if stored.Price != 80 || stored.Message != "still interested" {
		t.Fatalf("expected merged terms persisted, got %+v", stored)
	}
}

func TestOfferDomainErrorCodes(t *testing.T) {
	server := newTestServer()
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{offererrors.ErrOfferNotFound, http.StatusNotFound, "offer_not_found"},
		{offererrors.ErrUserOrListingNotFound, http.StatusNotFound, "user_or_listing_not_found"},
		{fmt.Errorf("load listing: %w", offererrors.ErrListingNotFound), http.StatusNotFound, "listing_not_found"},
		{offererrors.ErrUserNotFound, http.StatusNotFound, "user_not_found"},
		{offererrors.ErrForbidden, http.StatusForbidden, "forbidden"},
		{offererrors.ErrInvalidDecision, http.StatusBadRequest, "invalid_decision"},
		{offererrors.ErrInvalidRequest, http.StatusBadRequest, "invalid_request"},
		{errors.New("connection reset"), http.StatusInternalServerError, "internal_error"},
	}
	for _, tc := range cases {
		rr := httptest.NewRecorder()
		server.writeOfferDomainError(rr, httptest.NewRequest(http.MethodPut, "/offers/assess/offer-1", nil), tc.err)
		if rr.Code != tc.status {
			t.Fatalf("%v: expected %d, got %d", tc.err, tc.status, rr.Code)
		}
		if got := decodeError(t, rr); got.Code != tc.code {
			t.Fatalf("%v: expected code %s, got %s", tc.err, tc.code, got.Code)
		}
	}
}

func TestDeleteOfferThenGetReturns404(t *testing.T) {
	server := newTestServer()
	offer := createTestOffer(t, server, "alice")

	rr := doRequest(t, server, http.MethodDelete, "/offers/"+offer.OfferID, "bob", "")
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-author delete, got %d", rr.Code)
	}

	rr = doRequest(t, server, http.MethodDelete, "/offers/"+offer.OfferID, "alice", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	var deleted offerhttp.DeleteOfferResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &deleted); err != nil {
		t.Fatalf("decode delete response failed: %v", err)
	}
	if deleted.Message != "Offer deleted successfully" {
		t.Fatalf("unexpected delete message %q", deleted.Message)
	}

	rr = doRequest(t, server, http.MethodGet, "/offers/"+offer.OfferID, "alice", "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", rr.Code)
	}
	rr = doRequest(t, server, http.MethodDelete, "/offers/"+offer.OfferID, "alice", "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on repeated delete, got %d", rr.Code)
	}
}

func TestListListingOffersIncludesAuthors(t *testing.T) {
	server := newTestServer()
	first := createTestOffer(t, server, "alice")
	second := createTestOffer(t, server, "carol")

	rr := doRequest(t, server, http.MethodGet, "/offers/listing/listing-bob", "bob", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var resp offerhttp.ListOffersResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode list failed: %v", err)
	}
	if len(resp.Items) != 2 {
		t.Fatalf("expected 2 offers, got %d", len(resp.Items))
	}
	if resp.Items[0].OfferID != first.OfferID || resp.Items[1].OfferID != second.OfferID {
		t.Fatalf("expected oldest first, got %s, %s", resp.Items[0].OfferID, resp.Items[1].OfferID)
	}
	if resp.Items[1].Author == nil || resp.Items[1].Author.Email != "carol@example.com" {
		t.Fatalf("expected carol author projection, got %+v", resp.Items[1].Author)
	}
}
