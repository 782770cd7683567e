package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/cosplayangola/acervo/internal/domain/model"
)

// setupTestDB creates a named shared in-memory SQLite database for testing.
// Writer and reader connections share the same in-memory database via cache=shared.
// A unique name derived from t.Name() ensures isolation between parallel tests.
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	// Percent-encode the test name so it's a safe SQLite URI filename component
	// and cannot be misinterpreted as query parameters in the "file:%s?..." DSN.
	safeName := url.PathEscape(t.Name())
	// WAL mode is not applicable to in-memory databases; omit journal_mode pragma.
	dsn := fmt.Sprintf(
		"file:%s?mode=memory&cache=shared&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)&_pragma=foreign_keys(ON)&_pragma=cache_size(-64000)",
		safeName,
	)

	writer, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("create test db writer: %v", err)
	}
	writer.SetMaxOpenConns(1)
	if err := writer.PingContext(context.Background()); err != nil {
		_ = writer.Close()
		t.Fatalf("ping test db writer: %v", err)
	}

	reader, err := sql.Open("sqlite", dsn)
	if err != nil {
		_ = writer.Close()
		t.Fatalf("create test db reader: %v", err)
	}
	reader.SetMaxOpenConns(4)
	if err := reader.PingContext(context.Background()); err != nil {
		_ = reader.Close()
		_ = writer.Close()
		t.Fatalf("ping test db reader: %v", err)
	}

	db := &DB{Writer: writer, Reader: reader, path: dsn}

	if err := RunMigrations(db.Writer); err != nil {
		_ = db.Close()
		t.Fatalf("run migrations: %v", err)
	}

	t.Cleanup(func() { _ = db.Close() })

	return db
}

// seedCategory inserts a category and returns it.
func seedCategory(t *testing.T, db *DB, name string) model.Category {
	t.Helper()

	category := model.Category{
		ID:   uuid.NewString(),
		Name: name,
		Slug: "slug-" + uuid.NewString()[:8],
		Kind: model.CategoryKindEvent,
	}
	if err := NewCategoryRepo(db).Create(context.Background(), category); err != nil {
		t.Fatalf("seed category: %v", err)
	}
	return category
}

// seedEvent inserts a published event in the given category and returns it.
func seedEvent(t *testing.T, db *DB, categoryID, title string, startsAt time.Time) model.Event {
	t.Helper()

	event := model.Event{
		ID:         uuid.NewString(),
		Title:      title,
		Slug:       "slug-" + uuid.NewString()[:8],
		StartsAt:   startsAt,
		CategoryID: categoryID,
		Kind:       model.EventKindContest,
		Scope:      model.EventScopeNational,
		Status:     model.EventStatusPublished,
	}
	if err := NewEventRepo(db).Create(context.Background(), event); err != nil {
		t.Fatalf("seed event: %v", err)
	}
	return event
}

// seedMedia inserts an image media record and returns it.
func seedMedia(t *testing.T, db *DB, title string) model.Media {
	t.Helper()

	media := model.Media{
		ID:      uuid.NewString(),
		Title:   title,
		FileURL: "https://cdn.example.com/" + uuid.NewString() + ".jpg",
		Kind:    model.MediaKindImage,
		Format:  "jpg",
		SizeKB:  2048,
		Width:   1920,
		Height:  1080,
	}
	if err := NewMediaRepo(db).Create(context.Background(), media); err != nil {
		t.Fatalf("seed media: %v", err)
	}
	return media
}
