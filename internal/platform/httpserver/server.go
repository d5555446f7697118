package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	offerservice "offerhub/contexts/marketplace/offer-service"
	"offerhub/internal/platform/auth"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "offerhub/internal/platform/httpserver/docs"
)

const maxBodyBytes = 1 << 20

type Server struct {
	mux    *http.ServeMux
	logger *slog.Logger
	addr   string
	offers offerservice.Module
	tokens *auth.Issuer
}

func New(
	offers offerservice.Module,
	tokens *auth.Issuer,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:    http.NewServeMux(),
		logger: logger,
		addr:   addr,
		offers: offers,
		tokens: tokens,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server starting",
			"event", "http_server_starting",
			"module", "internal/platform/httpserver",
			"layer", "platform",
			"addr", s.addr,
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("http server stopping",
			"event", "http_server_stopping",
			"module", "internal/platform/httpserver",
			"layer", "platform",
		)
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	s.mux.HandleFunc("GET /healthz", s.handleHealth)

	s.mux.HandleFunc("POST /offers", s.authenticated(s.handleCreateOffer))
	s.mux.HandleFunc("GET /offers/{offerId}", s.authenticated(s.handleGetOffer))
	s.mux.HandleFunc("GET /offers/listing/{listingId}", s.authenticated(s.handleListListingOffers))
	s.mux.HandleFunc("GET /offers/user/{userId}", s.authenticated(s.handleListUserOffers))
	s.mux.HandleFunc("PUT /offers/assess/{offerId}", s.authenticated(s.handleAssessOffer))
	s.mux.HandleFunc("PUT /offers/{offerId}", s.authenticated(s.handleEditOffer))
	s.mux.HandleFunc("DELETE /offers/{offerId}", s.authenticated(s.handleDeleteOffer))
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := decoder.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			writeOfferError(w, http.StatusBadRequest, "invalid_json", "request body is required")
			return false
		}
		writeOfferError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
