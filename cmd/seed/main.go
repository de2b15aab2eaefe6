package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/dfryer1193/siteblog/blog/application"
	"github.com/dfryer1193/siteblog/blog/domain"
	"github.com/dfryer1193/siteblog/blog/persistence"
	"github.com/dfryer1193/siteblog/internal/config"
	"github.com/dfryer1193/siteblog/shared/db"
	"github.com/dfryer1193/siteblog/shared/db/sqlite"
	"github.com/rs/zerolog/log"
)

func main() {
	count := flag.Int("count", 25, "number of posts to create")
	draftEvery := flag.Int("draft-every", 5, "make every Nth post a draft (0 disables)")
	broadcastEvery := flag.Int("broadcast-every", 7, "make every Nth post a broadcast (0 disables)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	cfg.SetupLogger()

	ctx := context.Background()
	database := sqlite.NewSQLiteDB(&sqlite.SQLiteConfig{Path: cfg.SQLitePath})
	if err := database.Connect(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer database.Close()

	service := application.NewPostService(persistence.NewPostRepository(database.DB()))
	categories := domain.Categories()
	start := time.Now().UTC().Add(-time.Duration(*count) * time.Hour)

	err = db.RunInTransaction(ctx, database.DB(), func(txCtx context.Context) error {
		for i := 1; i <= *count; i++ {
			post := &domain.Post{
				Title:     fmt.Sprintf("Sample post %d", i),
				Content:   fmt.Sprintf("This is the body of sample post %d.", i),
				Category:  categories[i%len(categories)],
				Draft:     *draftEvery > 0 && i%*draftEvery == 0,
				Broadcast: *broadcastEvery > 0 && i%*broadcastEvery == 0,
				CreatedAt: start.Add(time.Duration(i) * time.Hour),
			}
			if err := service.CreatePost(txCtx, post); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to seed posts")
	}

	log.Info().Int("count", *count).Str("path", cfg.SQLitePath).Msg("Seeded posts")
}
