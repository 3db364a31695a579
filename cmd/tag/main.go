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
	"github.com/spacesedan/newstagger/internal/tagging"
	"github.com/spacesedan/newstagger/internal/taxonomy"
)

const defaultModelID = "amazon.nova-lite-v1:0"

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

	tax, err := taxonomy.Load(filepath.Join(dataDir, "tags", "tags.json"))
	if err != nil {
		slog.Error("Failed to load taxonomy", slog.String("error", err.Error()))
		os.Exit(1)
	}

	modelID := os.Getenv("MODEL_ID")
	if modelID == "" {
		modelID = defaultModelID
	}
	client, err := clients.NewModelClient(modelID)
	if err != nil {
		slog.Error("Model configuration error", slog.String("error", err.Error()))
		os.Exit(1)
	}

	tagger := tagging.NewTagger(client, tax,
		tagging.WithMaxTags(tagging.MaxTagsFromEnv(os.Getenv("MAX_TAGS"))))

	rawStore := corpus.NewStore(filepath.Join(dataDir, "news", "raw"))
	taggedStore := corpus.NewStore(filepath.Join(dataDir, "news", "tagged"))

	if _, err := corpus.TagUntagged(context.Background(), rawStore, taggedStore, tagger); err != nil {
		slog.Error("Tagging run failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("Tagging process completed")
}
