package httphandler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/cosplayangola/acervo/internal/application"
	"github.com/cosplayangola/acervo/internal/domain/port/driven"
)

// Handler is the HTTP driving adapter that serves the REST API. Reads are
// public; writes require a superuser bearer token.
type Handler struct {
	authSvc  *application.AuthService
	eventSvc *application.EventService

	categories driven.CategoryStore
	partners   driven.PartnerStore
	cosplayers driven.CosplayerStore
	collection driven.CollectionStore
	media      driven.MediaStore
	subscriber driven.SubscriberStore

	logger *slog.Logger
}

// NewHandler creates a Handler with all required dependencies.
func NewHandler(
	authSvc *application.AuthService,
	eventSvc *application.EventService,
	categories driven.CategoryStore,
	partners driven.PartnerStore,
	cosplayers driven.CosplayerStore,
	collection driven.CollectionStore,
	media driven.MediaStore,
	subscriber driven.SubscriberStore,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		authSvc:    authSvc,
		eventSvc:   eventSvc,
		categories: categories,
		partners:   partners,
		cosplayers: cosplayers,
		collection: collection,
		media:      media,
		subscriber: subscriber,
		logger:     logger,
	}
}

// NewServeMux creates an http.Handler with all routes registered and wrapped
// with logging and recovery middleware.
func NewServeMux(h *Handler, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/v1/health", h.Health)

	mux.HandleFunc("POST /api/v1/auth/register", h.Register)
	mux.HandleFunc("POST /api/v1/auth/login", h.Login)
	mux.HandleFunc("POST /api/v1/auth/refresh", h.RefreshTokens)
	mux.HandleFunc("POST /api/v1/auth/logout", h.Logout)
	mux.HandleFunc("GET /api/v1/auth/me", h.requireAuth(h.Me))

	mux.HandleFunc("GET /api/v1/events", h.ListEvents)
	mux.HandleFunc("GET /api/v1/events/upcoming", h.ListUpcomingEvents)
	mux.HandleFunc("GET /api/v1/events/past", h.ListPastEvents)
	mux.HandleFunc("GET /api/v1/events/featured", h.ListFeaturedEvents)
	mux.HandleFunc("GET /api/v1/events/{slug}", h.GetEvent)
	mux.HandleFunc("GET /api/v1/events/{slug}/related", h.ListRelatedEvents)
	mux.HandleFunc("POST /api/v1/events", h.requireSuperuser(h.CreateEvent))
	mux.HandleFunc("PUT /api/v1/events/{id}", h.requireSuperuser(h.UpdateEvent))
	mux.HandleFunc("DELETE /api/v1/events/{id}", h.requireSuperuser(h.DeleteEvent))
	mux.HandleFunc("POST /api/v1/events/{id}/partners", h.requireSuperuser(h.CreditEventPartner))
	mux.HandleFunc("DELETE /api/v1/events/{id}/partners/{partnerID}", h.requireSuperuser(h.RemoveEventPartner))

	mux.HandleFunc("GET /api/v1/categories", h.ListCategories)
	mux.HandleFunc("GET /api/v1/categories/{slug}", h.GetCategory)
	mux.HandleFunc("POST /api/v1/categories", h.requireSuperuser(h.CreateCategory))
	mux.HandleFunc("PUT /api/v1/categories/{id}", h.requireSuperuser(h.UpdateCategory))
	mux.HandleFunc("DELETE /api/v1/categories/{id}", h.requireSuperuser(h.DeleteCategory))

	mux.HandleFunc("GET /api/v1/partners", h.ListPartners)
	mux.HandleFunc("GET /api/v1/partners/{id}", h.GetPartner)
	mux.HandleFunc("POST /api/v1/partners", h.requireSuperuser(h.CreatePartner))
	mux.HandleFunc("PUT /api/v1/partners/{id}", h.requireSuperuser(h.UpdatePartner))
	mux.HandleFunc("DELETE /api/v1/partners/{id}", h.requireSuperuser(h.DeletePartner))

	mux.HandleFunc("GET /api/v1/cosplayers", h.ListCosplayers)
	mux.HandleFunc("GET /api/v1/cosplayers/{slug}", h.GetCosplayer)
	mux.HandleFunc("POST /api/v1/cosplayers", h.requireSuperuser(h.CreateCosplayer))
	mux.HandleFunc("PUT /api/v1/cosplayers/{id}", h.requireSuperuser(h.UpdateCosplayer))
	mux.HandleFunc("DELETE /api/v1/cosplayers/{id}", h.requireSuperuser(h.DeleteCosplayer))

	mux.HandleFunc("GET /api/v1/collections", h.ListCollections)
	mux.HandleFunc("GET /api/v1/collections/{slug}", h.GetCollection)
	mux.HandleFunc("POST /api/v1/collections", h.requireSuperuser(h.CreateCollection))
	mux.HandleFunc("PUT /api/v1/collections/{id}", h.requireSuperuser(h.UpdateCollection))
	mux.HandleFunc("DELETE /api/v1/collections/{id}", h.requireSuperuser(h.DeleteCollection))
	mux.HandleFunc("POST /api/v1/collections/{id}/media", h.requireSuperuser(h.AttachCollectionMedia))
	mux.HandleFunc("DELETE /api/v1/collections/{id}/media/{mediaID}", h.requireSuperuser(h.DetachCollectionMedia))

	mux.HandleFunc("GET /api/v1/media", h.ListMedia)
	mux.HandleFunc("GET /api/v1/media/{id}", h.GetMedia)
	mux.HandleFunc("POST /api/v1/media", h.requireSuperuser(h.CreateMedia))
	mux.HandleFunc("PUT /api/v1/media/{id}", h.requireSuperuser(h.UpdateMedia))
	mux.HandleFunc("DELETE /api/v1/media/{id}", h.requireSuperuser(h.DeleteMedia))

	mux.HandleFunc("POST /api/v1/newsletter/subscribe", h.Subscribe)
	mux.HandleFunc("POST /api/v1/newsletter/confirm", h.ConfirmSubscription)
	mux.HandleFunc("POST /api/v1/newsletter/unsubscribe", h.Unsubscribe)
	mux.HandleFunc("GET /api/v1/newsletter/subscribers", h.requireSuperuser(h.ListSubscribers))

	// Recovery innermost so panics are caught before logging.
	wrapped := recoveryMiddleware(logger, mux)
	wrapped = loggingMiddleware(logger, wrapped)

	return wrapped
}

// Health returns a simple health check response.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
		Time:   time.Now().UTC().Format(time.RFC3339),
	})
}
