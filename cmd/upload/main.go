package main

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spacesedan/newstagger/config"
	"github.com/spacesedan/newstagger/internal/clients"
	"github.com/spacesedan/newstagger/internal/corpus"
	"github.com/spacesedan/newstagger/internal/logging"
	"github.com/spacesedan/newstagger/internal/search"
)

func main() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)
	logging.InitLogger()

	dataDir := os.Getenv("DATA_DIR")
	if dataDir == "" {
		dataDir = "data"
	}
	taggedStore := corpus.NewStore(filepath.Join(dataDir, "news", "tagged"))

	ctx := context.Background()
	client := clients.GetOpensearchClient(ctx)
	if !client.IsHealthy(ctx) {
		slog.Error("OpenSearch cluster is unreachable or unhealthy, aborting upload")
		os.Exit(1)
	}

	uploader := search.NewUploader(taggedStore, client)

	if err := uploader.UploadAll(ctx); err != nil {
		slog.Error("Upload failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("Upload process completed successfully")
}
