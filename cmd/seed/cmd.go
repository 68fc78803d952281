package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/talentview/recruit-backend/internal/config"
	"github.com/talentview/recruit-backend/internal/store"
	"github.com/talentview/recruit-backend/pkg/logger"

	"cloud.google.com/go/firestore"
)

func exitOnError(message string, err error, log *slog.Logger) {
	if err != nil {
		log.Error(message, "error", err)
		os.Exit(1)
	}
}

// Seeds the data asset catalog. Run as a one-off job after deploy; it is a
// no-op when the catalog is already populated.
func main() {
	cfg := config.New()
	log := logger.New(cfg.LogLevel, logger.NewCloudRunHandler)
	ctx := logger.ToContext(context.Background(), log)

	client, err := firestore.NewClient(ctx, cfg.ProjectID)
	exitOnError("firestore init failed", err, log)
	defer client.Close()

	astore := store.NewAssetStore(client)
	err = astore.SeedDefaults(ctx)
	exitOnError("catalog seed failed", err, log)

	log.Info("catalog seed completed")
}
