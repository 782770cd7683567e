package httphandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cosplayangola/acervo/internal/domain/model"
	"github.com/cosplayangola/acervo/internal/domain/port/driven"
)

// SubscribeRequest is the body for newsletter subscription endpoints.
type SubscribeRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

func normalizeEmail(raw string) (string, bool) {
	email := strings.ToLower(strings.TrimSpace(raw))
	// Enough to reject garbage; real validation happens on confirmation.
	at := strings.Index(email, "@")
	if at < 1 || at == len(email)-1 || !strings.Contains(email[at:], ".") {
		return "", false
	}
	return email, true
}

// Subscribe adds an email to the newsletter. Resubscribing a deactivated
// email reactivates it; an active one gets a conflict.
func (h *Handler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req SubscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	email, ok := normalizeEmail(req.Email)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid email address")
		return
	}

	subscriber := model.Subscriber{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         req.Name,
		Active:       true,
		SubscribedAt: time.Now().UTC(),
	}
	if err := h.subscriber.Create(r.Context(), subscriber); err != nil {
		if errors.Is(err, driven.ErrAlreadySubscribed) {
			writeError(w, http.StatusConflict, "email already subscribed")
			return
		}
		h.logger.Error("failed to subscribe", "email", email, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	created, err := h.subscriber.GetByEmail(r.Context(), email)
	if err != nil || created == nil {
		// The write went through; fall back to the input view.
		writeJSON(w, http.StatusCreated, toSubscriberResponse(subscriber))
		return
	}

	writeJSON(w, http.StatusCreated, toSubscriberResponse(*created))
}

// ConfirmSubscription records the double opt-in confirmation.
func (h *Handler) ConfirmSubscription(w http.ResponseWriter, r *http.Request) {
	var req SubscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	email, ok := normalizeEmail(req.Email)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid email address")
		return
	}

	if err := h.subscriber.Confirm(r.Context(), email); err != nil {
		if errors.Is(err, driven.ErrSubscriberNotFound) {
			writeError(w, http.StatusNotFound, "subscription not found")
			return
		}
		h.logger.Error("failed to confirm subscription", "email", email, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Unsubscribe deactivates a subscription, keeping the row for resubscribes.
func (h *Handler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	var req SubscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	email, ok := normalizeEmail(req.Email)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid email address")
		return
	}

	if err := h.subscriber.Deactivate(r.Context(), email); err != nil {
		if errors.Is(err, driven.ErrSubscriberNotFound) {
			writeError(w, http.StatusNotFound, "subscription not found")
			return
		}
		h.logger.Error("failed to unsubscribe", "email", email, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListSubscribers returns subscriptions for the admin panel. Superuser only.
func (h *Handler) ListSubscribers(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("all") != "true"

	subscribers, err := h.subscriber.ListAll(r.Context(), activeOnly)
	if err != nil {
		h.logger.Error("failed to list subscribers", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := make([]SubscriberResponse, 0, len(subscribers))
	for _, subscriber := range subscribers {
		resp = append(resp, toSubscriberResponse(subscriber))
	}
	writeJSON(w, http.StatusOK, resp)
}
