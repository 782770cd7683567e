package httphandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cosplayangola/acervo/internal/application"
	"github.com/cosplayangola/acervo/internal/domain/model"
	"github.com/cosplayangola/acervo/internal/domain/port/driven"
)

// Formats accepted for media registration, per kind.
var mediaFormats = map[model.MediaKind][]string{
	model.MediaKindImage: {"jpg", "jpeg", "png", "webp", "gif"},
	model.MediaKindVideo: {"mp4", "webm", "mov"},
}

// maxMediaSizeKB caps registered file sizes at 100 MB.
const maxMediaSizeKB = 100 * 1024

// CollectionRequest is the body for collection create and update.
type CollectionRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Kind        string `json:"kind"`
	ProducedOn  string `json:"produced_on"`
	Featured    bool   `json:"featured"`
	EventID     string `json:"event_id"`
	CosplayerID string `json:"cosplayer_id"`
}

// AttachMediaRequest is the body for attaching a media file to a collection.
type AttachMediaRequest struct {
	MediaID     string `json:"media_id"`
	Position    int    `json:"position"`
	ContextNote string `json:"context_note"`
}

// MediaRequest is the body for media create and update.
type MediaRequest struct {
	Title              string `json:"title"`
	Description        string `json:"description"`
	FileURL            string `json:"file_url"`
	Kind               string `json:"kind"`
	Format             string `json:"format"`
	SizeKB             int    `json:"size_kb"`
	Width              int    `json:"width"`
	Height             int    `json:"height"`
	PhotographerCredit string `json:"photographer_credit"`
	CapturedOn         string `json:"captured_on"`
	Featured           bool   `json:"featured"`
}

func parseCollectionFilter(r *http.Request) (driven.CollectionFilter, error) {
	q := r.URL.Query()
	filter := driven.CollectionFilter{
		Kind:        model.CollectionKind(q.Get("kind")),
		EventID:     q.Get("event"),
		CosplayerID: q.Get("cosplayer"),
	}
	if filter.Kind != "" && !filter.Kind.Valid() {
		return filter, errors.New("unknown collection kind")
	}
	if raw := q.Get("featured"); raw != "" {
		featured := raw == "true"
		filter.Featured = &featured
	}
	return filter, nil
}

// ListCollections returns collections matching the query filters.
func (h *Handler) ListCollections(w http.ResponseWriter, r *http.Request) {
	filter, err := parseCollectionFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	collections, err := h.collection.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("failed to list collections", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := make([]CollectionResponse, 0, len(collections))
	for _, collection := range collections {
		resp = append(resp, toCollectionResponse(collection))
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetCollection returns a collection by slug with its ordered media.
func (h *Handler) GetCollection(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")

	collection, err := h.collection.GetBySlug(r.Context(), slug)
	if err != nil {
		h.logger.Error("failed to get collection", "slug", slug, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if collection == nil {
		writeError(w, http.StatusNotFound, "collection not found")
		return
	}

	items, err := h.collection.ListMedia(r.Context(), collection.ID)
	if err != nil {
		h.logger.Error("failed to list collection media", "slug", slug, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, toCollectionDetailResponse(*collection, items))
}

func (h *Handler) collectionFromRequest(r *http.Request, req CollectionRequest, existing *model.Collection) (*model.Collection, string) {
	if req.Title == "" {
		return nil, "title is required"
	}
	kind := model.CollectionKind(req.Kind)
	if !kind.Valid() {
		return nil, "unknown collection kind"
	}

	var collection model.Collection
	if existing != nil {
		collection = *existing
	} else {
		collection.ID = uuid.NewString()
		collection.CreatedAt = time.Now().UTC()
	}

	collection.Title = req.Title
	collection.Description = req.Description
	collection.Kind = kind
	collection.Featured = req.Featured
	collection.EventID = req.EventID
	collection.CosplayerID = req.CosplayerID
	collection.UpdatedAt = time.Now().UTC()

	collection.ProducedOn = nil
	if req.ProducedOn != "" {
		producedOn, err := time.Parse("2006-01-02", req.ProducedOn)
		if err != nil {
			return nil, "produced_on must be YYYY-MM-DD"
		}
		collection.ProducedOn = &producedOn
	}

	return &collection, ""
}

// CreateCollection creates a collection. Superuser only.
func (h *Handler) CreateCollection(w http.ResponseWriter, r *http.Request) {
	var req CollectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	collection, problem := h.collectionFromRequest(r, req, nil)
	if problem != "" {
		writeError(w, http.StatusBadRequest, problem)
		return
	}

	slug, err := application.UniqueSlug(r.Context(), req.Title, h.collection.SlugExists)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	collection.Slug = slug

	if err := h.collection.Create(r.Context(), *collection); err != nil {
		// A dangling event or cosplayer reference trips the FK constraint.
		if strings.Contains(err.Error(), "FOREIGN KEY constraint") {
			writeError(w, http.StatusBadRequest, "unknown event or cosplayer reference")
			return
		}
		h.logger.Error("failed to create collection", "title", req.Title, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusCreated, toCollectionResponse(*collection))
}

// UpdateCollection rewrites a collection, keeping the slug. Superuser only.
func (h *Handler) UpdateCollection(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req CollectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	existing, err := h.collection.GetByID(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to load collection", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "collection not found")
		return
	}

	collection, problem := h.collectionFromRequest(r, req, existing)
	if problem != "" {
		writeError(w, http.StatusBadRequest, problem)
		return
	}

	if err := h.collection.Update(r.Context(), *collection); err != nil {
		h.logger.Error("failed to update collection", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, toCollectionResponse(*collection))
}

// DeleteCollection removes a collection and its media links. Superuser only.
func (h *Handler) DeleteCollection(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := h.collection.Delete(r.Context(), id); err != nil {
		if errors.Is(err, driven.ErrCollectionNotFound) {
			writeError(w, http.StatusNotFound, "collection not found")
			return
		}
		h.logger.Error("failed to delete collection", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AttachCollectionMedia links a media file into a collection at a position.
// Superuser only.
func (h *Handler) AttachCollectionMedia(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req AttachMediaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.MediaID == "" {
		writeError(w, http.StatusBadRequest, "media_id is required")
		return
	}

	link := model.CollectionMedia{
		CollectionID: id,
		MediaID:      req.MediaID,
		Position:     req.Position,
		ContextNote:  req.ContextNote,
		CreatedAt:    time.Now().UTC(),
	}
	if err := h.collection.AttachMedia(r.Context(), link); err != nil {
		switch {
		case errors.Is(err, driven.ErrMediaAlreadyAttached):
			writeError(w, http.StatusConflict, "media already attached to this collection")
		case strings.Contains(err.Error(), "FOREIGN KEY constraint"):
			writeError(w, http.StatusBadRequest, "unknown collection or media reference")
		default:
			h.logger.Error("failed to attach media", "collection", id, "media", req.MediaID, "error", err)
			writeError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DetachCollectionMedia removes a media file from a collection. Superuser only.
func (h *Handler) DetachCollectionMedia(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	mediaID := r.PathValue("mediaID")

	if err := h.collection.DetachMedia(r.Context(), id, mediaID); err != nil {
		if errors.Is(err, driven.ErrMediaNotFound) {
			writeError(w, http.StatusNotFound, "media not attached to this collection")
			return
		}
		h.logger.Error("failed to detach media", "collection", id, "media", mediaID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListMedia returns media files matching the query filters.
func (h *Handler) ListMedia(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := driven.MediaFilter{Kind: model.MediaKind(q.Get("kind"))}
	if filter.Kind != "" && !filter.Kind.Valid() {
		writeError(w, http.StatusBadRequest, "unknown media kind")
		return
	}
	if raw := q.Get("featured"); raw != "" {
		featured := raw == "true"
		filter.Featured = &featured
	}

	media, err := h.media.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("failed to list media", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := make([]MediaResponse, 0, len(media))
	for _, m := range media {
		resp = append(resp, toMediaResponse(m))
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetMedia returns a media file by ID.
func (h *Handler) GetMedia(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	media, err := h.media.GetByID(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to get media", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if media == nil {
		writeError(w, http.StatusNotFound, "media not found")
		return
	}

	writeJSON(w, http.StatusOK, toMediaResponse(*media))
}

func (req *MediaRequest) validate() (model.MediaKind, string) {
	if req.Title == "" {
		return "", "title is required"
	}
	if req.FileURL == "" {
		return "", "file_url is required"
	}
	kind := model.MediaKind(req.Kind)
	if !kind.Valid() {
		return "", "unknown media kind"
	}

	format := strings.ToLower(req.Format)
	allowed := false
	for _, f := range mediaFormats[kind] {
		if f == format {
			allowed = true
			break
		}
	}
	if !allowed {
		return "", "format " + req.Format + " not allowed for " + req.Kind
	}

	if req.SizeKB < 0 || req.SizeKB > maxMediaSizeKB {
		return "", "size_kb out of range"
	}
	return kind, ""
}

// CreateMedia registers a media file already uploaded to the CDN. Superuser only.
func (h *Handler) CreateMedia(w http.ResponseWriter, r *http.Request) {
	var req MediaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	kind, problem := req.validate()
	if problem != "" {
		writeError(w, http.StatusBadRequest, problem)
		return
	}

	media := model.Media{
		ID:                 uuid.NewString(),
		Title:              req.Title,
		Description:        req.Description,
		FileURL:            req.FileURL,
		Kind:               kind,
		Format:             strings.ToLower(req.Format),
		SizeKB:             req.SizeKB,
		Width:              req.Width,
		Height:             req.Height,
		PhotographerCredit: req.PhotographerCredit,
		Featured:           req.Featured,
		CreatedAt:          time.Now().UTC(),
	}
	if req.CapturedOn != "" {
		capturedOn, err := time.Parse("2006-01-02", req.CapturedOn)
		if err != nil {
			writeError(w, http.StatusBadRequest, "captured_on must be YYYY-MM-DD")
			return
		}
		media.CapturedOn = &capturedOn
	}

	if err := h.media.Create(r.Context(), media); err != nil {
		h.logger.Error("failed to create media", "title", req.Title, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusCreated, toMediaResponse(media))
}

// UpdateMedia rewrites a media file's metadata. Superuser only.
func (h *Handler) UpdateMedia(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req MediaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	kind, problem := req.validate()
	if problem != "" {
		writeError(w, http.StatusBadRequest, problem)
		return
	}

	existing, err := h.media.GetByID(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to load media", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "media not found")
		return
	}

	existing.Title = req.Title
	existing.Description = req.Description
	existing.FileURL = req.FileURL
	existing.Kind = kind
	existing.Format = strings.ToLower(req.Format)
	existing.SizeKB = req.SizeKB
	existing.Width = req.Width
	existing.Height = req.Height
	existing.PhotographerCredit = req.PhotographerCredit
	existing.Featured = req.Featured

	existing.CapturedOn = nil
	if req.CapturedOn != "" {
		capturedOn, err := time.Parse("2006-01-02", req.CapturedOn)
		if err != nil {
			writeError(w, http.StatusBadRequest, "captured_on must be YYYY-MM-DD")
			return
		}
		existing.CapturedOn = &capturedOn
	}

	if err := h.media.Update(r.Context(), *existing); err != nil {
		h.logger.Error("failed to update media", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, toMediaResponse(*existing))
}

// DeleteMedia removes a media file from the archive. Superuser only.
func (h *Handler) DeleteMedia(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := h.media.Delete(r.Context(), id); err != nil {
		if errors.Is(err, driven.ErrMediaNotFound) {
			writeError(w, http.StatusNotFound, "media not found")
			return
		}
		h.logger.Error("failed to delete media", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
