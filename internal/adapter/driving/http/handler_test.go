package httphandler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	httphandler "github.com/cosplayangola/acervo/internal/adapter/driving/http"
	"github.com/cosplayangola/acervo/internal/application"
	"github.com/cosplayangola/acervo/internal/domain/model"
	"github.com/cosplayangola/acervo/internal/domain/port/driven"
)

// --- In-memory store implementations ---

type memAccounts struct {
	accounts map[string]model.Account
}

func (m *memAccounts) Create(_ context.Context, account model.Account) error {
	if _, ok := m.accounts[account.Username]; ok {
		return driven.ErrAccountAlreadyExists
	}
	m.accounts[account.Username] = account
	return nil
}

func (m *memAccounts) GetByUsername(_ context.Context, username string) (*model.Account, error) {
	account, ok := m.accounts[username]
	if !ok {
		return nil, nil
	}
	return &account, nil
}

func (m *memAccounts) GetByID(_ context.Context, id string) (*model.Account, error) {
	for _, account := range m.accounts {
		if account.ID == id {
			return &account, nil
		}
	}
	return nil, nil
}

func (m *memAccounts) TouchLastLogin(_ context.Context, _ string) error { return nil }

type memTokens struct {
	revoked map[string]time.Time
}

func (m *memTokens) Revoke(_ context.Context, jti string, expiresAt time.Time) error {
	m.revoked[jti] = expiresAt
	return nil
}

func (m *memTokens) IsRevoked(_ context.Context, jti string) (bool, error) {
	_, ok := m.revoked[jti]
	return ok, nil
}

func (m *memTokens) PurgeExpired(_ context.Context, _ time.Time) (int64, error) { return 0, nil }

type memCategories struct {
	categories map[string]model.Category
	inUse      map[string]bool
}

func (m *memCategories) Create(_ context.Context, category model.Category) error {
	m.categories[category.ID] = category
	return nil
}

func (m *memCategories) GetByID(_ context.Context, id string) (*model.Category, error) {
	category, ok := m.categories[id]
	if !ok {
		return nil, nil
	}
	return &category, nil
}

func (m *memCategories) GetBySlug(_ context.Context, slug string) (*model.Category, error) {
	for _, category := range m.categories {
		if category.Slug == slug {
			return &category, nil
		}
	}
	return nil, nil
}

func (m *memCategories) ListAll(_ context.Context, kind model.CategoryKind) ([]model.Category, error) {
	var all []model.Category
	for _, category := range m.categories {
		if kind != "" && category.Kind != kind {
			continue
		}
		all = append(all, category)
	}
	return all, nil
}

func (m *memCategories) Update(_ context.Context, category model.Category) error {
	m.categories[category.ID] = category
	return nil
}

func (m *memCategories) Delete(_ context.Context, id string) error {
	if _, ok := m.categories[id]; !ok {
		return driven.ErrCategoryNotFound
	}
	if m.inUse[id] {
		return driven.ErrCategoryInUse
	}
	delete(m.categories, id)
	return nil
}

func (m *memCategories) SlugExists(_ context.Context, slug string) (bool, error) {
	for _, category := range m.categories {
		if category.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

type memEvents struct {
	events map[string]model.Event
}

func (m *memEvents) Create(_ context.Context, event model.Event) error {
	m.events[event.ID] = event
	return nil
}

func (m *memEvents) GetByID(_ context.Context, id string) (*model.Event, error) {
	event, ok := m.events[id]
	if !ok {
		return nil, nil
	}
	return &event, nil
}

func (m *memEvents) GetBySlug(_ context.Context, slug string) (*model.Event, error) {
	for _, event := range m.events {
		if event.Slug == slug {
			return &event, nil
		}
	}
	return nil, nil
}

func (m *memEvents) List(_ context.Context, filter driven.EventFilter) ([]model.Event, int, error) {
	var matched []model.Event
	for _, event := range m.events {
		if filter.Status != "" && event.Status != filter.Status {
			continue
		}
		if filter.CategoryID != "" && event.CategoryID != filter.CategoryID {
			continue
		}
		if filter.Featured != nil && event.Featured != *filter.Featured {
			continue
		}
		if filter.StartsAfter != nil && event.StartsAt.Before(*filter.StartsAfter) {
			continue
		}
		if filter.StartsBefore != nil && !event.StartsAt.Before(*filter.StartsBefore) {
			continue
		}
		matched = append(matched, event)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].StartsAt.After(matched[j].StartsAt)
	})

	total := len(matched)
	start := (filter.Page - 1) * filter.PageSize
	if start < 0 || start > total {
		start = total
	}
	end := total
	if filter.PageSize > 0 && start+filter.PageSize < end {
		end = start + filter.PageSize
	}
	return matched[start:end], total, nil
}

func (m *memEvents) Update(_ context.Context, event model.Event) error {
	if _, ok := m.events[event.ID]; !ok {
		return driven.ErrEventNotFound
	}
	m.events[event.ID] = event
	return nil
}

func (m *memEvents) Delete(_ context.Context, id string) error {
	if _, ok := m.events[id]; !ok {
		return driven.ErrEventNotFound
	}
	delete(m.events, id)
	return nil
}

func (m *memEvents) SlugExists(_ context.Context, slug string) (bool, error) {
	for _, event := range m.events {
		if event.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (m *memEvents) AddPartner(_ context.Context, _ model.EventPartner) error { return nil }

func (m *memEvents) RemovePartner(_ context.Context, _, _ string) error { return nil }

func (m *memEvents) ListPartners(_ context.Context, _ string) ([]driven.PartnerCredit, error) {
	return nil, nil
}

type memPartners struct {
	partners map[string]model.Partner
}

func (m *memPartners) Create(_ context.Context, partner model.Partner) error {
	m.partners[partner.ID] = partner
	return nil
}

func (m *memPartners) GetByID(_ context.Context, id string) (*model.Partner, error) {
	partner, ok := m.partners[id]
	if !ok {
		return nil, nil
	}
	return &partner, nil
}

func (m *memPartners) ListAll(_ context.Context, activeOnly bool) ([]model.Partner, error) {
	var all []model.Partner
	for _, partner := range m.partners {
		if activeOnly && !partner.Active {
			continue
		}
		all = append(all, partner)
	}
	return all, nil
}

func (m *memPartners) Update(_ context.Context, partner model.Partner) error {
	m.partners[partner.ID] = partner
	return nil
}

func (m *memPartners) Delete(_ context.Context, id string) error {
	if _, ok := m.partners[id]; !ok {
		return driven.ErrPartnerNotFound
	}
	delete(m.partners, id)
	return nil
}

type memCosplayers struct {
	cosplayers map[string]model.Cosplayer
}

func (m *memCosplayers) Create(_ context.Context, cosplayer model.Cosplayer) error {
	m.cosplayers[cosplayer.ID] = cosplayer
	return nil
}

func (m *memCosplayers) GetByID(_ context.Context, id string) (*model.Cosplayer, error) {
	cosplayer, ok := m.cosplayers[id]
	if !ok {
		return nil, nil
	}
	return &cosplayer, nil
}

func (m *memCosplayers) GetBySlug(_ context.Context, slug string) (*model.Cosplayer, error) {
	for _, cosplayer := range m.cosplayers {
		if cosplayer.Slug == slug {
			return &cosplayer, nil
		}
	}
	return nil, nil
}

func (m *memCosplayers) ListAll(_ context.Context) ([]model.Cosplayer, error) {
	var all []model.Cosplayer
	for _, cosplayer := range m.cosplayers {
		all = append(all, cosplayer)
	}
	return all, nil
}

func (m *memCosplayers) Update(_ context.Context, cosplayer model.Cosplayer) error {
	m.cosplayers[cosplayer.ID] = cosplayer
	return nil
}

func (m *memCosplayers) Delete(_ context.Context, id string) error {
	if _, ok := m.cosplayers[id]; !ok {
		return driven.ErrCosplayerNotFound
	}
	delete(m.cosplayers, id)
	return nil
}

func (m *memCosplayers) SlugExists(_ context.Context, slug string) (bool, error) {
	for _, cosplayer := range m.cosplayers {
		if cosplayer.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

type memCollections struct {
	collections map[string]model.Collection
	items       map[string][]driven.CollectionItem
}

func (m *memCollections) Create(_ context.Context, collection model.Collection) error {
	m.collections[collection.ID] = collection
	return nil
}

func (m *memCollections) GetByID(_ context.Context, id string) (*model.Collection, error) {
	collection, ok := m.collections[id]
	if !ok {
		return nil, nil
	}
	return &collection, nil
}

func (m *memCollections) GetBySlug(_ context.Context, slug string) (*model.Collection, error) {
	for _, collection := range m.collections {
		if collection.Slug == slug {
			return &collection, nil
		}
	}
	return nil, nil
}

func (m *memCollections) List(_ context.Context, filter driven.CollectionFilter) ([]model.Collection, error) {
	var all []model.Collection
	for _, collection := range m.collections {
		if filter.Kind != "" && collection.Kind != filter.Kind {
			continue
		}
		if filter.Featured != nil && collection.Featured != *filter.Featured {
			continue
		}
		all = append(all, collection)
	}
	return all, nil
}

func (m *memCollections) Update(_ context.Context, collection model.Collection) error {
	m.collections[collection.ID] = collection
	return nil
}

func (m *memCollections) Delete(_ context.Context, id string) error {
	if _, ok := m.collections[id]; !ok {
		return driven.ErrCollectionNotFound
	}
	delete(m.collections, id)
	return nil
}

func (m *memCollections) SlugExists(_ context.Context, slug string) (bool, error) {
	for _, collection := range m.collections {
		if collection.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (m *memCollections) AttachMedia(_ context.Context, link model.CollectionMedia) error {
	for _, item := range m.items[link.CollectionID] {
		if item.Media.ID == link.MediaID {
			return driven.ErrMediaAlreadyAttached
		}
	}
	m.items[link.CollectionID] = append(m.items[link.CollectionID], driven.CollectionItem{
		Media:       model.Media{ID: link.MediaID},
		Position:    link.Position,
		ContextNote: link.ContextNote,
	})
	return nil
}

func (m *memCollections) DetachMedia(_ context.Context, collectionID, mediaID string) error {
	items := m.items[collectionID]
	for i, item := range items {
		if item.Media.ID == mediaID {
			m.items[collectionID] = append(items[:i], items[i+1:]...)
			return nil
		}
	}
	return driven.ErrMediaNotFound
}

func (m *memCollections) ListMedia(_ context.Context, collectionID string) ([]driven.CollectionItem, error) {
	return m.items[collectionID], nil
}

type memMedia struct {
	media map[string]model.Media
}

func (m *memMedia) Create(_ context.Context, media model.Media) error {
	m.media[media.ID] = media
	return nil
}

func (m *memMedia) GetByID(_ context.Context, id string) (*model.Media, error) {
	media, ok := m.media[id]
	if !ok {
		return nil, nil
	}
	return &media, nil
}

func (m *memMedia) List(_ context.Context, filter driven.MediaFilter) ([]model.Media, error) {
	var all []model.Media
	for _, media := range m.media {
		if filter.Kind != "" && media.Kind != filter.Kind {
			continue
		}
		if filter.Featured != nil && media.Featured != *filter.Featured {
			continue
		}
		all = append(all, media)
	}
	return all, nil
}

func (m *memMedia) Update(_ context.Context, media model.Media) error {
	m.media[media.ID] = media
	return nil
}

func (m *memMedia) Delete(_ context.Context, id string) error {
	if _, ok := m.media[id]; !ok {
		return driven.ErrMediaNotFound
	}
	delete(m.media, id)
	return nil
}

type memSubscribers struct {
	subscribers map[string]model.Subscriber
}

func (m *memSubscribers) Create(_ context.Context, subscriber model.Subscriber) error {
	if existing, ok := m.subscribers[subscriber.Email]; ok {
		if existing.Active {
			return driven.ErrAlreadySubscribed
		}
		existing.Active = true
		m.subscribers[subscriber.Email] = existing
		return nil
	}
	m.subscribers[subscriber.Email] = subscriber
	return nil
}

func (m *memSubscribers) GetByEmail(_ context.Context, email string) (*model.Subscriber, error) {
	subscriber, ok := m.subscribers[email]
	if !ok {
		return nil, nil
	}
	return &subscriber, nil
}

func (m *memSubscribers) Confirm(_ context.Context, email string) error {
	subscriber, ok := m.subscribers[email]
	if !ok {
		return driven.ErrSubscriberNotFound
	}
	if subscriber.ConfirmedAt == nil {
		now := time.Now().UTC()
		subscriber.ConfirmedAt = &now
		m.subscribers[email] = subscriber
	}
	return nil
}

func (m *memSubscribers) Deactivate(_ context.Context, email string) error {
	subscriber, ok := m.subscribers[email]
	if !ok {
		return driven.ErrSubscriberNotFound
	}
	subscriber.Active = false
	m.subscribers[email] = subscriber
	return nil
}

func (m *memSubscribers) ListAll(_ context.Context, activeOnly bool) ([]model.Subscriber, error) {
	var all []model.Subscriber
	for _, subscriber := range m.subscribers {
		if activeOnly && !subscriber.Active {
			continue
		}
		all = append(all, subscriber)
	}
	return all, nil
}

// --- Fixture ---

type fixture struct {
	mux        http.Handler
	accounts   *memAccounts
	events     *memEvents
	categories *memCategories
	media      *memMedia
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	accounts := &memAccounts{accounts: make(map[string]model.Account)}
	tokens := &memTokens{revoked: make(map[string]time.Time)}
	categories := &memCategories{categories: make(map[string]model.Category), inUse: make(map[string]bool)}
	events := &memEvents{events: make(map[string]model.Event)}
	partners := &memPartners{partners: make(map[string]model.Partner)}
	cosplayers := &memCosplayers{cosplayers: make(map[string]model.Cosplayer)}
	collections := &memCollections{collections: make(map[string]model.Collection), items: make(map[string][]driven.CollectionItem)}
	media := &memMedia{media: make(map[string]model.Media)}
	subscribers := &memSubscribers{subscribers: make(map[string]model.Subscriber)}

	authSvc := application.NewAuthService(accounts, tokens, "test-secret", 15*time.Minute, time.Hour, logger)
	eventSvc := application.NewEventService(events, categories)

	handler := httphandler.NewHandler(
		authSvc, eventSvc,
		categories, partners, cosplayers, collections, media, subscribers,
		logger,
	)

	return &fixture{
		mux:        httphandler.NewServeMux(handler, logger),
		accounts:   accounts,
		events:     events,
		categories: categories,
		media:      media,
	}
}

func (f *fixture) seedAccount(t *testing.T, username, password string, superuser bool) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	f.accounts.accounts[username] = model.Account{
		ID:           username + "-id",
		Username:     username,
		PasswordHash: string(hash),
		IsSuperuser:  superuser,
		CreatedAt:    time.Now().UTC(),
	}
}

func (f *fixture) login(t *testing.T, username, password string) string {
	t.Helper()

	rec := f.do(t, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"username": username,
		"password": password,
	}, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.AccessToken
}

func (f *fixture) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	f.mux.ServeHTTP(rec, req)
	return rec
}

func (f *fixture) seedEventCategory(t *testing.T) model.Category {
	t.Helper()

	category := model.Category{
		ID:   "cat-contests",
		Name: "Contests",
		Slug: "contests",
		Kind: model.CategoryKindEvent,
	}
	f.categories.categories[category.ID] = category
	return category
}

// --- Tests ---

func TestHealth(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/api/v1/health", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestAuthFlow(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/v1/auth/register", map[string]string{
		"username": "mariana",
		"email":    "mariana@example.com",
		"password": "s3cret",
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"is_superuser":false`)
	assert.NotContains(t, rec.Body.String(), "password")

	// Duplicate username.
	rec = f.do(t, http.MethodPost, "/api/v1/auth/register", map[string]string{
		"username": "mariana",
		"password": "other",
	}, "")
	require.Equal(t, http.StatusConflict, rec.Code)

	token := f.login(t, "mariana", "s3cret")

	rec = f.do(t, http.MethodGet, "/api/v1/auth/me", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"username":"mariana"`)

	rec = f.do(t, http.MethodGet, "/api/v1/auth/me", nil, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"username": "mariana",
		"password": "wrong",
	}, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRefreshAndLogout(t *testing.T) {
	f := newFixture(t)
	f.seedAccount(t, "admin", "s3cret", true)

	rec := f.do(t, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"username": "admin",
		"password": "s3cret",
	}, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var pair struct {
		RefreshToken string `json:"refresh_token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pair))

	rec = f.do(t, http.MethodPost, "/api/v1/auth/refresh", map[string]string{
		"refresh_token": pair.RefreshToken,
	}, "")
	require.Equal(t, http.StatusOK, rec.Code)

	// The consumed token cannot be replayed.
	rec = f.do(t, http.MethodPost, "/api/v1/auth/refresh", map[string]string{
		"refresh_token": pair.RefreshToken,
	}, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/v1/auth/logout", map[string]string{
		"refresh_token": pair.RefreshToken,
	}, "")
	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestEventWriteRequiresSuperuser(t *testing.T) {
	f := newFixture(t)
	f.seedAccount(t, "admin", "s3cret", true)
	f.seedAccount(t, "reader", "s3cret", false)
	category := f.seedEventCategory(t)

	body := map[string]any{
		"title":       "Anima Fest",
		"starts_at":   time.Now().Add(48 * time.Hour).UTC().Format(time.RFC3339),
		"category_id": category.ID,
		"kind":        "contest",
		"scope":       "national",
		"status":      "published",
	}

	rec := f.do(t, http.MethodPost, "/api/v1/events", body, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	readerToken := f.login(t, "reader", "s3cret")
	rec = f.do(t, http.MethodPost, "/api/v1/events", body, readerToken)
	require.Equal(t, http.StatusForbidden, rec.Code)

	adminToken := f.login(t, "admin", "s3cret")
	rec = f.do(t, http.MethodPost, "/api/v1/events", body, adminToken)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"slug":"anima-fest"`)
	assert.Len(t, f.events.events, 1)
}

func TestEventValidation(t *testing.T) {
	f := newFixture(t)
	f.seedAccount(t, "admin", "s3cret", true)
	f.seedEventCategory(t)
	token := f.login(t, "admin", "s3cret")

	rec := f.do(t, http.MethodPost, "/api/v1/events", map[string]any{
		"title":       "Broken",
		"starts_at":   "not-a-date",
		"category_id": "cat-contests",
		"kind":        "contest",
		"scope":       "national",
		"status":      "draft",
	}, token)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/v1/events", map[string]any{
		"title":       "Broken",
		"starts_at":   time.Now().UTC().Format(time.RFC3339),
		"category_id": "cat-contests",
		"kind":        "rave",
		"scope":       "national",
		"status":      "draft",
	}, token)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEventListingIsPublishedOnly(t *testing.T) {
	f := newFixture(t)
	category := f.seedEventCategory(t)

	f.events.events["published"] = model.Event{
		ID: "published", Title: "Visible", Slug: "visible",
		StartsAt: time.Now().Add(24 * time.Hour), CategoryID: category.ID,
		Kind: model.EventKindContest, Scope: model.EventScopeNational,
		Status: model.EventStatusPublished,
	}
	f.events.events["draft"] = model.Event{
		ID: "draft", Title: "Hidden", Slug: "hidden",
		StartsAt: time.Now().Add(24 * time.Hour), CategoryID: category.ID,
		Kind: model.EventKindContest, Scope: model.EventScopeNational,
		Status: model.EventStatusDraft,
	}

	rec := f.do(t, http.MethodGet, "/api/v1/events", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var page struct {
		Count       int               `json:"count"`
		TotalPages  int               `json:"total_pages"`
		CurrentPage int               `json:"current_page"`
		PageSize    int               `json:"page_size"`
		Results     []json.RawMessage `json:"results"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Equal(t, 1, page.Count)
	assert.Equal(t, 1, page.TotalPages)
	assert.Equal(t, 1, page.CurrentPage)
	assert.Equal(t, 10, page.PageSize)
	require.Len(t, page.Results, 1)
	assert.Contains(t, string(page.Results[0]), `"slug":"visible"`)

	// An explicit draft filter without a superuser token stays public.
	rec = f.do(t, http.MethodGet, "/api/v1/events?status=draft", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Equal(t, 1, page.Count)
}

func TestEventDetailRendersMarkdown(t *testing.T) {
	f := newFixture(t)
	category := f.seedEventCategory(t)

	f.events.events["evt"] = model.Event{
		ID: "evt", Title: "Anima Fest", Slug: "anima-fest",
		Description: "# Welcome\n\n<script>alert(1)</script>Join us.",
		StartsAt:    time.Now().Add(24 * time.Hour), CategoryID: category.ID,
		Kind: model.EventKindContest, Scope: model.EventScopeNational,
		Status: model.EventStatusPublished,
	}

	rec := f.do(t, http.MethodGet, "/api/v1/events/anima-fest", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	// json.Marshal escapes angle brackets, so assert on the decoded field.
	var detail struct {
		DescriptionHTML string `json:"description_html"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &detail))
	assert.Contains(t, detail.DescriptionHTML, "<h1")
	assert.Contains(t, detail.DescriptionHTML, "Welcome")
	assert.Contains(t, detail.DescriptionHTML, "Join us.")
	assert.NotContains(t, detail.DescriptionHTML, "<script>")
	assert.Contains(t, rec.Body.String(), `"category"`)

	rec = f.do(t, http.MethodGet, "/api/v1/events/missing", nil, "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEventDetailHidesUnpublished(t *testing.T) {
	f := newFixture(t)
	f.seedAccount(t, "admin", "s3cret", true)
	category := f.seedEventCategory(t)

	f.events.events["draft"] = model.Event{
		ID: "draft", Title: "Secret Plans", Slug: "secret-plans",
		StartsAt: time.Now().Add(24 * time.Hour), CategoryID: category.ID,
		Kind: model.EventKindContest, Scope: model.EventScopeNational,
		Status: model.EventStatusDraft,
	}

	rec := f.do(t, http.MethodGet, "/api/v1/events/secret-plans", nil, "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	// A garbage token falls back to public behavior.
	rec = f.do(t, http.MethodGet, "/api/v1/events/secret-plans", nil, "not-a-token")
	require.Equal(t, http.StatusNotFound, rec.Code)

	// So does a valid token for a regular account.
	f.seedAccount(t, "reader", "s3cret", false)
	readerToken := f.login(t, "reader", "s3cret")
	rec = f.do(t, http.MethodGet, "/api/v1/events/secret-plans", nil, readerToken)
	require.Equal(t, http.StatusNotFound, rec.Code)

	token := f.login(t, "admin", "s3cret")
	rec = f.do(t, http.MethodGet, "/api/v1/events/secret-plans", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"slug":"secret-plans"`)
}

func TestCategoryLifecycle(t *testing.T) {
	f := newFixture(t)
	f.seedAccount(t, "admin", "s3cret", true)
	token := f.login(t, "admin", "s3cret")

	rec := f.do(t, http.MethodPost, "/api/v1/categories", map[string]string{
		"name": "Cosplay Contests",
		"kind": "event",
	}, token)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created struct {
		ID   string `json:"id"`
		Slug string `json:"slug"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "cosplay-contests", created.Slug)

	rec = f.do(t, http.MethodGet, "/api/v1/categories/cosplay-contests", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/v1/categories", map[string]string{
		"name": "Bad",
		"kind": "planet",
	}, token)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// Deleting a category with events attached conflicts.
	f.categories.inUse[created.ID] = true
	rec = f.do(t, http.MethodDelete, "/api/v1/categories/"+created.ID, nil, token)
	require.Equal(t, http.StatusConflict, rec.Code)

	f.categories.inUse[created.ID] = false
	rec = f.do(t, http.MethodDelete, "/api/v1/categories/"+created.ID, nil, token)
	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestMediaValidation(t *testing.T) {
	f := newFixture(t)
	f.seedAccount(t, "admin", "s3cret", true)
	token := f.login(t, "admin", "s3cret")

	base := map[string]any{
		"title":    "Clip",
		"file_url": "https://cdn.example.com/clip.mp4",
		"kind":     "video",
		"format":   "mp4",
		"size_kb":  5000,
	}
	rec := f.do(t, http.MethodPost, "/api/v1/media", base, token)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Len(t, f.media.media, 1)

	bad := map[string]any{
		"title":    "Wrong",
		"file_url": "https://cdn.example.com/file.exe",
		"kind":     "video",
		"format":   "exe",
	}
	rec = f.do(t, http.MethodPost, "/api/v1/media", bad, token)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	huge := map[string]any{
		"title":    "Huge",
		"file_url": "https://cdn.example.com/huge.mp4",
		"kind":     "video",
		"format":   "mp4",
		"size_kb":  200 * 1024,
	}
	rec = f.do(t, http.MethodPost, "/api/v1/media", huge, token)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCollectionMediaEndpoints(t *testing.T) {
	f := newFixture(t)
	f.seedAccount(t, "admin", "s3cret", true)
	token := f.login(t, "admin", "s3cret")

	rec := f.do(t, http.MethodPost, "/api/v1/collections", map[string]any{
		"title": "Spring Shoot",
		"kind":  "themed",
	}, token)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created struct {
		ID   string `json:"id"`
		Slug string `json:"slug"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "spring-shoot", created.Slug)

	rec = f.do(t, http.MethodPost, "/api/v1/collections/"+created.ID+"/media", map[string]any{
		"media_id": "m1",
		"position": 1,
	}, token)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/v1/collections/"+created.ID+"/media", map[string]any{
		"media_id": "m1",
		"position": 2,
	}, token)
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/v1/collections/spring-shoot", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"items"`)

	rec = f.do(t, http.MethodDelete, "/api/v1/collections/"+created.ID+"/media/m1", nil, token)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = f.do(t, http.MethodDelete, "/api/v1/collections/"+created.ID+"/media/m1", nil, token)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestNewsletterFlow(t *testing.T) {
	f := newFixture(t)
	f.seedAccount(t, "admin", "s3cret", true)

	rec := f.do(t, http.MethodPost, "/api/v1/newsletter/subscribe", map[string]string{
		"email": "Fan@Example.com",
		"name":  "Fan",
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"email":"fan@example.com"`)

	rec = f.do(t, http.MethodPost, "/api/v1/newsletter/subscribe", map[string]string{
		"email": "fan@example.com",
	}, "")
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/v1/newsletter/subscribe", map[string]string{
		"email": "not-an-email",
	}, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/v1/newsletter/confirm", map[string]string{
		"email": "fan@example.com",
	}, "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/v1/newsletter/confirm", map[string]string{
		"email": "ghost@example.com",
	}, "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/v1/newsletter/unsubscribe", map[string]string{
		"email": "fan@example.com",
	}, "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	// Admin listing needs a superuser token.
	rec = f.do(t, http.MethodGet, "/api/v1/newsletter/subscribers", nil, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	token := f.login(t, "admin", "s3cret")
	rec = f.do(t, http.MethodGet, "/api/v1/newsletter/subscribers?all=true", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "fan@example.com")
}
