package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cosplayangola/acervo/internal/domain/model"
	"github.com/cosplayangola/acervo/internal/domain/port/driven"
)

func TestCosplayerRepo_CreateAndGetBySlug(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCosplayerRepo(db)
	ctx := context.Background()

	cosplayer := model.Cosplayer{
		ID:        uuid.NewString(),
		Name:      "Maria dos Santos",
		StageName: "Sakura Hime",
		Slug:      "sakura-hime",
		Bio:       "Cosplaying since 2019",
		Instagram: "sakurahime.cos",
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	require.NoError(t, repo.Create(ctx, cosplayer))

	got, err := repo.GetBySlug(ctx, "sakura-hime")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, cosplayer.ID, got.ID)
	assert.Equal(t, "Sakura Hime", got.DisplayName())
	assert.Equal(t, "sakurahime.cos", got.Instagram)
}

func TestCosplayerRepo_GetBySlugMissing(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCosplayerRepo(db)

	got, err := repo.GetBySlug(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCosplayerRepo_ListAll(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCosplayerRepo(db)
	ctx := context.Background()

	for _, name := range []string{"Ana", "Bruno", "Carla"} {
		require.NoError(t, repo.Create(ctx, model.Cosplayer{
			ID:        uuid.NewString(),
			Name:      name,
			Slug:      uuid.NewString(),
			CreatedAt: time.Now().UTC(),
			UpdatedAt: time.Now().UTC(),
		}))
	}

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestCosplayerRepo_UpdateAndDelete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCosplayerRepo(db)
	ctx := context.Background()

	cosplayer := model.Cosplayer{
		ID:        uuid.NewString(),
		Name:      "Pedro Miguel",
		Slug:      "pedro-miguel",
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	require.NoError(t, repo.Create(ctx, cosplayer))

	cosplayer.StageName = "Kage"
	require.NoError(t, repo.Update(ctx, cosplayer))

	got, err := repo.GetByID(ctx, cosplayer.ID)
	require.NoError(t, err)
	assert.Equal(t, "Kage", got.StageName)

	require.NoError(t, repo.Delete(ctx, cosplayer.ID))

	err = repo.Delete(ctx, cosplayer.ID)
	require.ErrorIs(t, err, driven.ErrCosplayerNotFound)
}

func TestCosplayerRepo_SlugExists(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCosplayerRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, model.Cosplayer{
		ID:        uuid.NewString(),
		Name:      "Joana",
		Slug:      "joana",
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}))

	exists, err := repo.SlugExists(ctx, "joana")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.SlugExists(ctx, "joana-2")
	require.NoError(t, err)
	assert.False(t, exists)
}
