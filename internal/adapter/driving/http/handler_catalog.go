package httphandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/cosplayangola/acervo/internal/application"
	"github.com/cosplayangola/acervo/internal/domain/model"
	"github.com/cosplayangola/acervo/internal/domain/port/driven"
)

// CategoryRequest is the body for category create and update.
type CategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Kind        string `json:"kind"`
}

// PartnerRequest is the body for partner create and update.
type PartnerRequest struct {
	Name        string `json:"name"`
	Kind        string `json:"kind"`
	LogoURL     string `json:"logo_url"`
	Website     string `json:"website"`
	Description string `json:"description"`
	Active      *bool  `json:"active"`
}

// CosplayerRequest is the body for cosplayer create and update.
type CosplayerRequest struct {
	Name      string `json:"name"`
	StageName string `json:"stage_name"`
	Bio       string `json:"bio"`
	AvatarURL string `json:"avatar_url"`
	Instagram string `json:"instagram"`
	Facebook  string `json:"facebook"`
	TikTok    string `json:"tiktok"`
}

// ListCategories returns all categories, optionally filtered by kind.
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	kind := model.CategoryKind(r.URL.Query().Get("kind"))
	if kind != "" && !kind.Valid() {
		writeError(w, http.StatusBadRequest, "unknown category kind")
		return
	}

	categories, err := h.categories.ListAll(r.Context(), kind)
	if err != nil {
		h.logger.Error("failed to list categories", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := make([]CategoryResponse, 0, len(categories))
	for _, category := range categories {
		resp = append(resp, toCategoryResponse(category))
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetCategory returns a category by slug.
func (h *Handler) GetCategory(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")

	category, err := h.categories.GetBySlug(r.Context(), slug)
	if err != nil {
		h.logger.Error("failed to get category", "slug", slug, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if category == nil {
		writeError(w, http.StatusNotFound, "category not found")
		return
	}

	writeJSON(w, http.StatusOK, toCategoryResponse(*category))
}

// CreateCategory creates a category. Superuser only.
func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req CategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	kind := model.CategoryKind(req.Kind)
	if !kind.Valid() {
		writeError(w, http.StatusBadRequest, "unknown category kind")
		return
	}

	slug, err := application.UniqueSlug(r.Context(), req.Name, h.categories.SlugExists)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	category := model.Category{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Slug:        slug,
		Description: req.Description,
		Kind:        kind,
		CreatedAt:   time.Now().UTC(),
	}
	if err := h.categories.Create(r.Context(), category); err != nil {
		h.logger.Error("failed to create category", "name", req.Name, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusCreated, toCategoryResponse(category))
}

// UpdateCategory rewrites a category's name, description and kind. The slug
// stays stable. Superuser only.
func (h *Handler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req CategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	kind := model.CategoryKind(req.Kind)
	if !kind.Valid() {
		writeError(w, http.StatusBadRequest, "unknown category kind")
		return
	}

	existing, err := h.categories.GetByID(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to load category", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "category not found")
		return
	}

	existing.Name = req.Name
	existing.Description = req.Description
	existing.Kind = kind
	if err := h.categories.Update(r.Context(), *existing); err != nil {
		h.logger.Error("failed to update category", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, toCategoryResponse(*existing))
}

// DeleteCategory removes a category with no events attached. Superuser only.
func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := h.categories.Delete(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, driven.ErrCategoryNotFound):
			writeError(w, http.StatusNotFound, "category not found")
		case errors.Is(err, driven.ErrCategoryInUse):
			writeError(w, http.StatusConflict, "category still has events attached")
		default:
			h.logger.Error("failed to delete category", "id", id, "error", err)
			writeError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListPartners returns partners. Public callers only see active ones unless
// all=true is combined with a superuser token.
func (h *Handler) ListPartners(w http.ResponseWriter, r *http.Request) {
	activeOnly := true
	if r.URL.Query().Get("all") == "true" {
		if account, ok := h.superuserFromRequest(r); ok && account.IsSuperuser {
			activeOnly = false
		}
	}

	partners, err := h.partners.ListAll(r.Context(), activeOnly)
	if err != nil {
		h.logger.Error("failed to list partners", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := make([]PartnerResponse, 0, len(partners))
	for _, partner := range partners {
		resp = append(resp, toPartnerResponse(partner))
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetPartner returns a partner by ID.
func (h *Handler) GetPartner(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	partner, err := h.partners.GetByID(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to get partner", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if partner == nil {
		writeError(w, http.StatusNotFound, "partner not found")
		return
	}

	writeJSON(w, http.StatusOK, toPartnerResponse(*partner))
}

// CreatePartner creates a partner. Superuser only.
func (h *Handler) CreatePartner(w http.ResponseWriter, r *http.Request) {
	var req PartnerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	kind := model.PartnerKind(req.Kind)
	if !kind.Valid() {
		writeError(w, http.StatusBadRequest, "unknown partner kind")
		return
	}

	partner := model.Partner{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Kind:        kind,
		LogoURL:     req.LogoURL,
		Website:     req.Website,
		Description: req.Description,
		Active:      true,
		CreatedAt:   time.Now().UTC(),
	}
	if req.Active != nil {
		partner.Active = *req.Active
	}

	if err := h.partners.Create(r.Context(), partner); err != nil {
		h.logger.Error("failed to create partner", "name", req.Name, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusCreated, toPartnerResponse(partner))
}

// UpdatePartner rewrites a partner. Superuser only.
func (h *Handler) UpdatePartner(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req PartnerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	kind := model.PartnerKind(req.Kind)
	if !kind.Valid() {
		writeError(w, http.StatusBadRequest, "unknown partner kind")
		return
	}

	existing, err := h.partners.GetByID(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to load partner", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "partner not found")
		return
	}

	existing.Name = req.Name
	existing.Kind = kind
	existing.LogoURL = req.LogoURL
	existing.Website = req.Website
	existing.Description = req.Description
	if req.Active != nil {
		existing.Active = *req.Active
	}

	if err := h.partners.Update(r.Context(), *existing); err != nil {
		h.logger.Error("failed to update partner", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, toPartnerResponse(*existing))
}

// DeletePartner removes a partner. Superuser only.
func (h *Handler) DeletePartner(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := h.partners.Delete(r.Context(), id); err != nil {
		if errors.Is(err, driven.ErrPartnerNotFound) {
			writeError(w, http.StatusNotFound, "partner not found")
			return
		}
		h.logger.Error("failed to delete partner", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListCosplayers returns all cosplayer profiles.
func (h *Handler) ListCosplayers(w http.ResponseWriter, r *http.Request) {
	cosplayers, err := h.cosplayers.ListAll(r.Context())
	if err != nil {
		h.logger.Error("failed to list cosplayers", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := make([]CosplayerResponse, 0, len(cosplayers))
	for _, cosplayer := range cosplayers {
		resp = append(resp, toCosplayerResponse(cosplayer))
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetCosplayer returns a cosplayer profile by slug.
func (h *Handler) GetCosplayer(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")

	cosplayer, err := h.cosplayers.GetBySlug(r.Context(), slug)
	if err != nil {
		h.logger.Error("failed to get cosplayer", "slug", slug, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if cosplayer == nil {
		writeError(w, http.StatusNotFound, "cosplayer not found")
		return
	}

	writeJSON(w, http.StatusOK, toCosplayerDetailResponse(*cosplayer))
}

// CreateCosplayer creates a cosplayer profile. The slug derives from the
// stage name when present. Superuser only.
func (h *Handler) CreateCosplayer(w http.ResponseWriter, r *http.Request) {
	var req CosplayerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	slugSource := req.StageName
	if slugSource == "" {
		slugSource = req.Name
	}
	slug, err := application.UniqueSlug(r.Context(), slugSource, h.cosplayers.SlugExists)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	now := time.Now().UTC()
	cosplayer := model.Cosplayer{
		ID:        uuid.NewString(),
		Name:      req.Name,
		StageName: req.StageName,
		Slug:      slug,
		Bio:       req.Bio,
		AvatarURL: req.AvatarURL,
		Instagram: req.Instagram,
		Facebook:  req.Facebook,
		TikTok:    req.TikTok,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := h.cosplayers.Create(r.Context(), cosplayer); err != nil {
		h.logger.Error("failed to create cosplayer", "name", req.Name, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusCreated, toCosplayerResponse(cosplayer))
}

// UpdateCosplayer rewrites a cosplayer profile, keeping the slug. Superuser only.
func (h *Handler) UpdateCosplayer(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req CosplayerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	existing, err := h.cosplayers.GetByID(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to load cosplayer", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "cosplayer not found")
		return
	}

	existing.Name = req.Name
	existing.StageName = req.StageName
	existing.Bio = req.Bio
	existing.AvatarURL = req.AvatarURL
	existing.Instagram = req.Instagram
	existing.Facebook = req.Facebook
	existing.TikTok = req.TikTok
	existing.UpdatedAt = time.Now().UTC()

	if err := h.cosplayers.Update(r.Context(), *existing); err != nil {
		h.logger.Error("failed to update cosplayer", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, toCosplayerResponse(*existing))
}

// DeleteCosplayer removes a cosplayer profile. Superuser only.
func (h *Handler) DeleteCosplayer(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := h.cosplayers.Delete(r.Context(), id); err != nil {
		if errors.Is(err, driven.ErrCosplayerNotFound) {
			writeError(w, http.StatusNotFound, "cosplayer not found")
			return
		}
		h.logger.Error("failed to delete cosplayer", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
