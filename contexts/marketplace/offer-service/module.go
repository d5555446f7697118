package offerservice

import (
	"log/slog"

	httpadapter "offerhub/contexts/marketplace/offer-service/adapters/http"
	"offerhub/contexts/marketplace/offer-service/adapters/memory"
	"offerhub/contexts/marketplace/offer-service/application/commands"
	"offerhub/contexts/marketplace/offer-service/application/queries"
	"offerhub/contexts/marketplace/offer-service/domain/entities"
	"offerhub/contexts/marketplace/offer-service/ports"
)

// Module is the composition surface for the offer service.
// Runtime wiring should consume Handler; Store is exposed for tests/inspection.
type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Offers      ports.OfferRepository
	Users       ports.UserRepository
	Listings    ports.ListingRepository
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

// NewModule wires offer use cases against explicit ports.
func NewModule(deps Dependencies) Module {
	handler := httpadapter.Handler{
		GetOffer: queries.GetOfferUseCase{
			Offers: deps.Offers,
			Logger: deps.Logger,
		},
		ListListingOffers: queries.ListListingOffersUseCase{
			Offers: deps.Offers,
			Users:  deps.Users,
			Logger: deps.Logger,
		},
		ListUserOffers: queries.ListUserOffersUseCase{
			Offers: deps.Offers,
			Logger: deps.Logger,
		},
		CreateOffer: commands.CreateOfferUseCase{
			Offers:      deps.Offers,
			Users:       deps.Users,
			Listings:    deps.Listings,
			Clock:       deps.Clock,
			IDGenerator: deps.IDGenerator,
			Logger:      deps.Logger,
		},
		AssessOffer: commands.AssessOfferUseCase{
			Offers:      deps.Offers,
			Listings:    deps.Listings,
			Clock:       deps.Clock,
			IDGenerator: deps.IDGenerator,
			Logger:      deps.Logger,
		},
		EditOffer: commands.EditOfferUseCase{
			Offers:      deps.Offers,
			Clock:       deps.Clock,
			IDGenerator: deps.IDGenerator,
			Logger:      deps.Logger,
		},
		DeleteOffer: commands.DeleteOfferUseCase{
			Offers:      deps.Offers,
			Clock:       deps.Clock,
			IDGenerator: deps.IDGenerator,
			Logger:      deps.Logger,
		},
		Logger: deps.Logger,
	}
	return Module{Handler: handler}
}

// NewInMemoryModule wires the offer use cases against the in-memory store.
func NewInMemoryModule(seedUsers []entities.User, seedListings []entities.Listing, logger *slog.Logger) Module {
	store := memory.NewStore(seedUsers, seedListings, logger)
	module := NewModule(Dependencies{
		Offers:      store,
		Users:       store,
		Listings:    store,
		Clock:       store,
		IDGenerator: store,
		Logger:      logger,
	})
	module.Store = store
	return module
}
