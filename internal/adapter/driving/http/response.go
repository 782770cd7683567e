package httphandler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/cosplayangola/acervo/internal/application"
	"github.com/cosplayangola/acervo/internal/domain/model"
	"github.com/cosplayangola/acervo/internal/domain/port/driven"
)

// writeJSON marshals v to JSON and writes it to the response with the given
// status code. If marshaling fails, a 500 error is written instead.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeError writes a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// errorResponse is the standard error response body.
type errorResponse struct {
	Error string `json:"error"`
}

// HealthResponse is the health check response body.
type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

// PageResponse is the pagination envelope for listing endpoints.
type PageResponse struct {
	Count       int `json:"count"`
	TotalPages  int `json:"total_pages"`
	CurrentPage int `json:"current_page"`
	PageSize    int `json:"page_size"`
	Results     any `json:"results"`
}

// AccountResponse is the JSON representation of an account. The password
// hash never leaves the server.
type AccountResponse struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	IsSuperuser bool   `json:"is_superuser"`
	CreatedAt   string `json:"created_at"`
	LastLogin   string `json:"last_login,omitempty"`
}

func toAccountResponse(account model.Account) AccountResponse {
	resp := AccountResponse{
		ID:          account.ID,
		Username:    account.Username,
		Email:       account.Email,
		IsSuperuser: account.IsSuperuser,
		CreatedAt:   account.CreatedAt.UTC().Format(time.RFC3339),
	}
	if account.LastLogin != nil {
		resp.LastLogin = account.LastLogin.UTC().Format(time.RFC3339)
	}
	return resp
}

// TokenResponse carries an issued token pair.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    string `json:"expires_at"`
}

func toTokenResponse(pair *application.TokenPair) TokenResponse {
	return TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresAt:    pair.AccessExpiresAt.UTC().Format(time.RFC3339),
	}
}

// CategoryResponse is the JSON representation of a category.
type CategoryResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	Kind        string `json:"kind"`
}

func toCategoryResponse(category model.Category) CategoryResponse {
	return CategoryResponse{
		ID:          category.ID,
		Name:        category.Name,
		Slug:        category.Slug,
		Description: category.Description,
		Kind:        string(category.Kind),
	}
}

// EventResponse is the JSON representation of an event in listings.
type EventResponse struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Slug          string `json:"slug"`
	Description   string `json:"description"`
	StartsAt      string `json:"starts_at"`
	EndsAt        string `json:"ends_at,omitempty"`
	Venue         string `json:"venue"`
	CategoryID    string `json:"category_id"`
	Kind          string `json:"kind"`
	Scope         string `json:"scope"`
	Status        string `json:"status"`
	CoverImageURL string `json:"cover_image_url"`
	Featured      bool   `json:"featured"`
	Upcoming      bool   `json:"upcoming"`
}

func toEventResponse(event model.Event) EventResponse {
	resp := EventResponse{
		ID:            event.ID,
		Title:         event.Title,
		Slug:          event.Slug,
		Description:   event.Description,
		StartsAt:      event.StartsAt.UTC().Format(time.RFC3339),
		Venue:         event.Venue,
		CategoryID:    event.CategoryID,
		Kind:          string(event.Kind),
		Scope:         string(event.Scope),
		Status:        string(event.Status),
		CoverImageURL: event.CoverImageURL,
		Featured:      event.Featured,
		Upcoming:      event.IsUpcoming(time.Now()),
	}
	if event.EndsAt != nil {
		resp.EndsAt = event.EndsAt.UTC().Format(time.RFC3339)
	}
	return resp
}

func toEventPageResponse(page *application.EventPage) PageResponse {
	results := make([]EventResponse, 0, len(page.Events))
	for _, event := range page.Events {
		results = append(results, toEventResponse(event))
	}
	return PageResponse{
		Count:       page.Total,
		TotalPages:  page.TotalPages(),
		CurrentPage: page.Page,
		PageSize:    page.PageSize,
		Results:     results,
	}
}

// EventDetailResponse enriches an event with its category, partner credits
// and the description rendered as sanitized HTML.
type EventDetailResponse struct {
	EventResponse
	DescriptionHTML string                  `json:"description_html"`
	Category        *CategoryResponse       `json:"category,omitempty"`
	Partners        []PartnerCreditResponse `json:"partners"`
}

func toEventDetailResponse(detail *application.EventDetail) EventDetailResponse {
	resp := EventDetailResponse{
		EventResponse:   toEventResponse(detail.Event),
		DescriptionHTML: RenderMarkdown(detail.Event.Description),
		Partners:        make([]PartnerCreditResponse, 0, len(detail.Partners)),
	}
	if detail.Category.ID != "" {
		category := toCategoryResponse(detail.Category)
		resp.Category = &category
	}
	for _, credit := range detail.Partners {
		resp.Partners = append(resp.Partners, toPartnerCreditResponse(credit))
	}
	return resp
}

// PartnerResponse is the JSON representation of a partner.
type PartnerResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Kind        string `json:"kind"`
	LogoURL     string `json:"logo_url"`
	Website     string `json:"website"`
	Description string `json:"description"`
	Active      bool   `json:"active"`
}

func toPartnerResponse(partner model.Partner) PartnerResponse {
	return PartnerResponse{
		ID:          partner.ID,
		Name:        partner.Name,
		Kind:        string(partner.Kind),
		LogoURL:     partner.LogoURL,
		Website:     partner.Website,
		Description: partner.Description,
		Active:      partner.Active,
	}
}

// PartnerCreditResponse is a partner plus its per-event sponsorship note.
type PartnerCreditResponse struct {
	PartnerResponse
	Note string `json:"note"`
}

func toPartnerCreditResponse(credit driven.PartnerCredit) PartnerCreditResponse {
	return PartnerCreditResponse{
		PartnerResponse: toPartnerResponse(credit.Partner),
		Note:            credit.Note,
	}
}

// CosplayerResponse is the JSON representation of a cosplayer profile.
type CosplayerResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	StageName   string `json:"stage_name,omitempty"`
	DisplayName string `json:"display_name"`
	Slug        string `json:"slug"`
	Bio         string `json:"bio"`
	AvatarURL   string `json:"avatar_url"`
	Instagram   string `json:"instagram,omitempty"`
	Facebook    string `json:"facebook,omitempty"`
	TikTok      string `json:"tiktok,omitempty"`
}

func toCosplayerResponse(cosplayer model.Cosplayer) CosplayerResponse {
	return CosplayerResponse{
		ID:          cosplayer.ID,
		Name:        cosplayer.Name,
		StageName:   cosplayer.StageName,
		DisplayName: cosplayer.DisplayName(),
		Slug:        cosplayer.Slug,
		Bio:         cosplayer.Bio,
		AvatarURL:   cosplayer.AvatarURL,
		Instagram:   cosplayer.Instagram,
		Facebook:    cosplayer.Facebook,
		TikTok:      cosplayer.TikTok,
	}
}

// CosplayerDetailResponse adds the bio rendered as sanitized HTML.
type CosplayerDetailResponse struct {
	CosplayerResponse
	BioHTML string `json:"bio_html"`
}

func toCosplayerDetailResponse(cosplayer model.Cosplayer) CosplayerDetailResponse {
	return CosplayerDetailResponse{
		CosplayerResponse: toCosplayerResponse(cosplayer),
		BioHTML:           RenderMarkdown(cosplayer.Bio),
	}
}

// MediaResponse is the JSON representation of a media file.
type MediaResponse struct {
	ID                 string  `json:"id"`
	Title              string  `json:"title"`
	Description        string  `json:"description"`
	FileURL            string  `json:"file_url"`
	Kind               string  `json:"kind"`
	Format             string  `json:"format"`
	SizeKB             int     `json:"size_kb"`
	SizeMB             float64 `json:"size_mb"`
	Width              int     `json:"width"`
	Height             int     `json:"height"`
	PhotographerCredit string  `json:"photographer_credit"`
	CapturedOn         string  `json:"captured_on,omitempty"`
	Featured           bool    `json:"featured"`
}

func toMediaResponse(media model.Media) MediaResponse {
	resp := MediaResponse{
		ID:                 media.ID,
		Title:              media.Title,
		Description:        media.Description,
		FileURL:            media.FileURL,
		Kind:               string(media.Kind),
		Format:             media.Format,
		SizeKB:             media.SizeKB,
		SizeMB:             media.SizeMB(),
		Width:              media.Width,
		Height:             media.Height,
		PhotographerCredit: media.PhotographerCredit,
		Featured:           media.Featured,
	}
	if media.CapturedOn != nil {
		resp.CapturedOn = media.CapturedOn.UTC().Format("2006-01-02")
	}
	return resp
}

// CollectionResponse is the JSON representation of a collection in listings.
type CollectionResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	Kind        string `json:"kind"`
	ProducedOn  string `json:"produced_on,omitempty"`
	Featured    bool   `json:"featured"`
	EventID     string `json:"event_id,omitempty"`
	CosplayerID string `json:"cosplayer_id,omitempty"`
}

func toCollectionResponse(collection model.Collection) CollectionResponse {
	resp := CollectionResponse{
		ID:          collection.ID,
		Title:       collection.Title,
		Slug:        collection.Slug,
		Description: collection.Description,
		Kind:        string(collection.Kind),
		Featured:    collection.Featured,
		EventID:     collection.EventID,
		CosplayerID: collection.CosplayerID,
	}
	if collection.ProducedOn != nil {
		resp.ProducedOn = collection.ProducedOn.UTC().Format("2006-01-02")
	}
	return resp
}

// CollectionItemResponse is a media file with its position inside a collection.
type CollectionItemResponse struct {
	MediaResponse
	Position    int    `json:"position"`
	ContextNote string `json:"context_note,omitempty"`
}

// CollectionDetailResponse is a collection with its ordered media and the
// description rendered as sanitized HTML.
type CollectionDetailResponse struct {
	CollectionResponse
	DescriptionHTML string                   `json:"description_html"`
	Items           []CollectionItemResponse `json:"items"`
}

func toCollectionDetailResponse(collection model.Collection, items []driven.CollectionItem) CollectionDetailResponse {
	resp := CollectionDetailResponse{
		CollectionResponse: toCollectionResponse(collection),
		DescriptionHTML:    RenderMarkdown(collection.Description),
		Items:              make([]CollectionItemResponse, 0, len(items)),
	}
	for _, item := range items {
		resp.Items = append(resp.Items, CollectionItemResponse{
			MediaResponse: toMediaResponse(item.Media),
			Position:      item.Position,
			ContextNote:   item.ContextNote,
		})
	}
	return resp
}

// SubscriberResponse is the JSON representation of a newsletter subscription.
type SubscriberResponse struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	Active       bool   `json:"active"`
	Confirmed    bool   `json:"confirmed"`
	SubscribedAt string `json:"subscribed_at"`
}

func toSubscriberResponse(subscriber model.Subscriber) SubscriberResponse {
	return SubscriberResponse{
		ID:           subscriber.ID,
		Email:        subscriber.Email,
		Name:         subscriber.Name,
		Active:       subscriber.Active,
		Confirmed:    subscriber.IsConfirmed(),
		SubscribedAt: subscriber.SubscribedAt.UTC().Format(time.RFC3339),
	}
}
