package httphandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/cosplayangola/acervo/internal/application"
	"github.com/cosplayangola/acervo/internal/domain/model"
	"github.com/cosplayangola/acervo/internal/domain/port/driven"
)

// EventRequest is the body for event create and update.
type EventRequest struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	StartsAt      string `json:"starts_at"`
	EndsAt        string `json:"ends_at"`
	Venue         string `json:"venue"`
	CategoryID    string `json:"category_id"`
	Kind          string `json:"kind"`
	Scope         string `json:"scope"`
	Status        string `json:"status"`
	CoverImageURL string `json:"cover_image_url"`
	Featured      bool   `json:"featured"`
}

// PartnerCreditRequest is the body for crediting a partner on an event.
type PartnerCreditRequest struct {
	PartnerID string `json:"partner_id"`
	Note      string `json:"note"`
}

func (req *EventRequest) toInput() (application.EventInput, error) {
	input := application.EventInput{
		Title:         req.Title,
		Description:   req.Description,
		Venue:         req.Venue,
		CategoryID:    req.CategoryID,
		Kind:          model.EventKind(req.Kind),
		Scope:         model.EventScope(req.Scope),
		Status:        model.EventStatus(req.Status),
		CoverImageURL: req.CoverImageURL,
		Featured:      req.Featured,
	}

	if req.StartsAt != "" {
		startsAt, err := time.Parse(time.RFC3339, req.StartsAt)
		if err != nil {
			return input, errors.New("starts_at must be RFC 3339")
		}
		input.StartsAt = startsAt.UTC()
	}
	if req.EndsAt != "" {
		endsAt, err := time.Parse(time.RFC3339, req.EndsAt)
		if err != nil {
			return input, errors.New("ends_at must be RFC 3339")
		}
		utc := endsAt.UTC()
		input.EndsAt = &utc
	}

	return input, nil
}

// parseEventFilter reads the listing query parameters. Public listings are
// pinned to published events; an explicit status is only honored for
// superusers.
func (h *Handler) parseEventFilter(r *http.Request) driven.EventFilter {
	q := r.URL.Query()
	filter := driven.EventFilter{
		CategoryID:   q.Get("category"),
		CategorySlug: q.Get("category_slug"),
		Kind:         model.EventKind(q.Get("kind")),
		Scope:        model.EventScope(q.Get("scope")),
		Search:       q.Get("search"),
		Page:         queryInt(q.Get("page")),
		PageSize:     queryInt(q.Get("page_size")),
	}

	if after := q.Get("starts_after"); after != "" {
		if t, err := time.Parse(time.RFC3339, after); err == nil {
			utc := t.UTC()
			filter.StartsAfter = &utc
		}
	}
	if before := q.Get("starts_before"); before != "" {
		if t, err := time.Parse(time.RFC3339, before); err == nil {
			utc := t.UTC()
			filter.StartsBefore = &utc
		}
	}

	filter.Status = model.EventStatusPublished
	if status := model.EventStatus(q.Get("status")); status.Valid() {
		if account, ok := h.superuserFromRequest(r); ok && account.IsSuperuser {
			filter.Status = status
		}
	}

	return filter
}

// superuserFromRequest does a best-effort token check for listing filters
// that only admins may widen. Invalid tokens fall back to public behavior
// instead of failing the request.
func (h *Handler) superuserFromRequest(r *http.Request) (*model.Account, bool) {
	header := r.Header.Get("Authorization")
	if len(header) < 8 || header[:7] != "Bearer " {
		return nil, false
	}
	account, err := h.authSvc.Authenticate(r.Context(), header[7:])
	if err != nil {
		return nil, false
	}
	return account, true
}

func queryInt(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return n
}

// ListEvents returns a filtered, paginated event listing.
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	page, err := h.eventSvc.List(r.Context(), h.parseEventFilter(r))
	if err != nil {
		h.logger.Error("failed to list events", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, toEventPageResponse(page))
}

// ListUpcomingEvents returns published events that have not started yet.
func (h *Handler) ListUpcomingEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := h.eventSvc.Upcoming(r.Context(), queryInt(q.Get("page")), queryInt(q.Get("page_size")))
	if err != nil {
		h.logger.Error("failed to list upcoming events", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, toEventPageResponse(page))
}

// ListPastEvents returns published events that already started.
func (h *Handler) ListPastEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := h.eventSvc.Past(r.Context(), queryInt(q.Get("page")), queryInt(q.Get("page_size")))
	if err != nil {
		h.logger.Error("failed to list past events", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, toEventPageResponse(page))
}

// ListFeaturedEvents returns published events flagged as featured.
func (h *Handler) ListFeaturedEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := h.eventSvc.Featured(r.Context(), queryInt(q.Get("page")), queryInt(q.Get("page_size")))
	if err != nil {
		h.logger.Error("failed to list featured events", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, toEventPageResponse(page))
}

// GetEvent returns the detail view of one event by slug.
func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")

	detail, err := h.eventSvc.GetBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, driven.ErrEventNotFound) {
			writeError(w, http.StatusNotFound, "event not found")
			return
		}
		h.logger.Error("failed to get event", "slug", slug, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	// Non-published events are invisible to the public, same as in listings.
	if detail.Event.Status != model.EventStatusPublished {
		account, ok := h.superuserFromRequest(r)
		if !ok || !account.IsSuperuser {
			writeError(w, http.StatusNotFound, "event not found")
			return
		}
	}

	writeJSON(w, http.StatusOK, toEventDetailResponse(detail))
}

// ListRelatedEvents returns published events in the same category.
func (h *Handler) ListRelatedEvents(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")

	related, err := h.eventSvc.Related(r.Context(), slug, queryInt(r.URL.Query().Get("limit")))
	if err != nil {
		if errors.Is(err, driven.ErrEventNotFound) {
			writeError(w, http.StatusNotFound, "event not found")
			return
		}
		h.logger.Error("failed to list related events", "slug", slug, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := make([]EventResponse, 0, len(related))
	for _, event := range related {
		resp = append(resp, toEventResponse(event))
	}
	writeJSON(w, http.StatusOK, resp)
}

// CreateEvent creates an event. Superuser only.
func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req EventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	input, err := req.toInput()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	event, err := h.eventSvc.Create(r.Context(), input)
	if err != nil {
		if errors.Is(err, application.ErrValidation) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("failed to create event", "title", req.Title, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusCreated, toEventResponse(*event))
}

// UpdateEvent rewrites an event's mutable fields. Superuser only.
func (h *Handler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req EventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	input, err := req.toInput()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	event, err := h.eventSvc.Update(r.Context(), id, input)
	if err != nil {
		switch {
		case errors.Is(err, driven.ErrEventNotFound):
			writeError(w, http.StatusNotFound, "event not found")
		case errors.Is(err, application.ErrValidation):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error("failed to update event", "id", id, "error", err)
			writeError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	writeJSON(w, http.StatusOK, toEventResponse(*event))
}

// DeleteEvent removes an event. Superuser only.
func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := h.eventSvc.Delete(r.Context(), id); err != nil {
		if errors.Is(err, driven.ErrEventNotFound) {
			writeError(w, http.StatusNotFound, "event not found")
			return
		}
		h.logger.Error("failed to delete event", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CreditEventPartner links a partner to an event. Superuser only.
func (h *Handler) CreditEventPartner(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req PartnerCreditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PartnerID == "" {
		writeError(w, http.StatusBadRequest, "partner_id is required")
		return
	}

	if err := h.eventSvc.CreditPartner(r.Context(), id, req.PartnerID, req.Note); err != nil {
		if errors.Is(err, driven.ErrPartnerAlreadyLinked) {
			writeError(w, http.StatusConflict, "partner already credited on this event")
			return
		}
		h.logger.Error("failed to credit partner", "event", id, "partner", req.PartnerID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// RemoveEventPartner removes a partner credit. Superuser only.
func (h *Handler) RemoveEventPartner(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	partnerID := r.PathValue("partnerID")

	if err := h.eventSvc.RemovePartner(r.Context(), id, partnerID); err != nil {
		if errors.Is(err, driven.ErrPartnerNotFound) {
			writeError(w, http.StatusNotFound, "partner credit not found")
			return
		}
		h.logger.Error("failed to remove partner credit", "event", id, "partner", partnerID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
