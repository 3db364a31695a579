package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spacesedan/newstagger/config"
	"github.com/spacesedan/newstagger/internal/clients"
	"github.com/spacesedan/newstagger/internal/corpus"
	"github.com/spacesedan/newstagger/internal/logging"
)

func main() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)
	logging.InitLogger()

	yesterday := time.Now().UTC().AddDate(0, 0, -1).Format("2006-01-02")
	date := flag.String("date", yesterday, "date to fetch, YYYY-MM-DD")
	topic := flag.String("topic", defaultTopic(), "search topic")
	flag.Parse()

	dataDir := os.Getenv("DATA_DIR")
	if dataDir == "" {
		dataDir = "data"
	}
	rawStore := corpus.NewStore(filepath.Join(dataDir, "news", "raw"))

	ctx := context.Background()
	resp, err := clients.GetNewsAPIClient().FetchForDate(ctx, *date, *topic)
	if err != nil {
		slog.Error("Fetch failed", slog.String("date", *date), slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := rawStore.WriteRaw(*date, resp); err != nil {
		slog.Error("Failed to save raw news", slog.String("date", *date), slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("Fetched and saved raw news",
		slog.String("date", *date),
		slog.String("path", rawStore.Path(*date)),
		slog.Int("totalResults", resp.TotalResults))
}

func defaultTopic() string {
	if topic := os.Getenv("NEWS_TOPIC"); topic != "" {
		return topic
	}
	return "trump"
}
