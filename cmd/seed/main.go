// Command seed fills an empty database with demo content for local
// development: categories, a pair of events, a partner, a cosplayer and a
// small photo collection. Running it against a non-empty database will fail
// on the unique slug constraints, which is intentional.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	sqliteadapter "github.com/cosplayangola/acervo/internal/adapter/driven/sqlite"
	"github.com/cosplayangola/acervo/internal/config"
	"github.com/cosplayangola/acervo/internal/domain/model"
)

func main() {
	if err := run(); err != nil {
		slog.Error("seed failed", "error", err)
		os.Exit(1)
	}
	slog.Info("seed complete")
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	db, err := sqliteadapter.NewDB(cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	if err := sqliteadapter.RunMigrations(db.Writer); err != nil {
		return err
	}

	ctx := context.Background()
	now := time.Now().UTC()

	categories := sqliteadapter.NewCategoryRepo(db)
	events := sqliteadapter.NewEventRepo(db)
	partners := sqliteadapter.NewPartnerRepo(db)
	cosplayers := sqliteadapter.NewCosplayerRepo(db)
	collections := sqliteadapter.NewCollectionRepo(db)
	media := sqliteadapter.NewMediaRepo(db)

	contestCategory := model.Category{
		ID:          uuid.NewString(),
		Name:        "Concursos de Cosplay",
		Slug:        "concursos-de-cosplay",
		Description: "Concursos nacionais e provinciais de cosplay.",
		Kind:        model.CategoryKindEvent,
		CreatedAt:   now,
	}
	shootCategory := model.Category{
		ID:          uuid.NewString(),
		Name:        "Sessoes Fotograficas",
		Slug:        "sessoes-fotograficas",
		Description: "Sessoes fotograficas individuais e tematicas.",
		Kind:        model.CategoryKindCollection,
		CreatedAt:   now,
	}
	for _, category := range []model.Category{contestCategory, shootCategory} {
		if err := categories.Create(ctx, category); err != nil {
			return err
		}
	}

	upcoming := model.Event{
		ID:          uuid.NewString(),
		Title:       "Luanda Cosplay Festival",
		Slug:        "luanda-cosplay-festival",
		Description: "## O maior concurso do ano\n\nInscricoes abertas ate uma semana antes do evento.",
		StartsAt:    now.Add(30 * 24 * time.Hour),
		Venue:       "Centro de Convencoes de Talatona",
		CategoryID:  contestCategory.ID,
		Kind:        model.EventKindContest,
		Scope:       model.EventScopeNational,
		Status:      model.EventStatusPublished,
		Featured:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	pastEnd := now.Add(-89 * 24 * time.Hour)
	past := model.Event{
		ID:          uuid.NewString(),
		Title:       "Workshop de Armaduras em EVA",
		Slug:        "workshop-de-armaduras-em-eva",
		Description: "Tecnicas de corte, colagem e pintura de EVA para iniciantes.",
		StartsAt:    now.Add(-90 * 24 * time.Hour),
		EndsAt:      &pastEnd,
		Venue:       "Mediateca de Luanda",
		CategoryID:  contestCategory.ID,
		Kind:        model.EventKindWorkshop,
		Scope:       model.EventScopeNational,
		Status:      model.EventStatusPublished,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, event := range []model.Event{upcoming, past} {
		if err := events.Create(ctx, event); err != nil {
			return err
		}
	}

	sponsor := model.Partner{
		ID:          uuid.NewString(),
		Name:        "Otaku Store Angola",
		Kind:        model.PartnerKindSponsor,
		Website:     "https://otakustore.example.com",
		Description: "Loja de mangas e colecionaveis.",
		Active:      true,
		CreatedAt:   now,
	}
	if err := partners.Create(ctx, sponsor); err != nil {
		return err
	}
	if err := events.AddPartner(ctx, model.EventPartner{
		EventID:   upcoming.ID,
		PartnerID: sponsor.ID,
		Note:      "patrocinador ouro",
	}); err != nil {
		return err
	}

	cosplayer := model.Cosplayer{
		ID:        uuid.NewString(),
		Name:      "Teresa dos Santos",
		StageName: "Tess Cosplay",
		Slug:      "tess-cosplay",
		Bio:       "Cosplayer desde 2019, especialista em armaduras.",
		Instagram: "tesscosplay",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := cosplayers.Create(ctx, cosplayer); err != nil {
		return err
	}

	producedOn := now.Add(-60 * 24 * time.Hour)
	shoot := model.Collection{
		ID:          uuid.NewString(),
		Title:       "Sessao Sakura",
		Slug:        "sessao-sakura",
		Description: "Sessao fotografica tematica de primavera.",
		Kind:        model.CollectionKindCosplayer,
		ProducedOn:  &producedOn,
		Featured:    true,
		CosplayerID: cosplayer.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := collections.Create(ctx, shoot); err != nil {
		return err
	}

	for i, title := range []string{"Sakura I", "Sakura II", "Sakura III"} {
		photo := model.Media{
			ID:                 uuid.NewString(),
			Title:              title,
			FileURL:            "https://cdn.example.com/sakura-" + uuid.NewString() + ".jpg",
			Kind:               model.MediaKindImage,
			Format:             "jpg",
			SizeKB:             2048,
			Width:              3000,
			Height:             2000,
			PhotographerCredit: "Studio Kizomba",
			CapturedOn:         &producedOn,
			CreatedAt:          now,
		}
		if err := media.Create(ctx, photo); err != nil {
			return err
		}
		if err := collections.AttachMedia(ctx, model.CollectionMedia{
			CollectionID: shoot.ID,
			MediaID:      photo.ID,
			Position:     i + 1,
			CreatedAt:    now,
		}); err != nil {
			return err
		}
	}

	return nil
}
