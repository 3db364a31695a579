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
	"github.com/spacesedan/newstagger/internal/models"
)

const defaultLookbackDays = 30

func main() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)
	logging.InitLogger()

	topic := flag.String("topic", defaultTopic(), "search topic")
	newestFirst := flag.Bool("newest-first", false, "fetch newest missing dates first")
	flag.Parse()

	dataDir := os.Getenv("DATA_DIR")
	if dataDir == "" {
		dataDir = "data"
	}
	rawStore := corpus.NewStore(filepath.Join(dataDir, "news", "raw"))

	today := time.Now().UTC()
	start := startDate(today)

	fetch := func(ctx context.Context, date string) (*models.NewsResponse, error) {
		return clients.GetNewsAPIClient().FetchForDate(ctx, date, *topic)
	}

	if _, err := corpus.Backfill(context.Background(), rawStore, fetch, start, today, *newestFirst); err != nil {
		slog.Error("Backfill aborted", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("Backfill process completed successfully")
}

// startDate resolves the fixed start of the expected calendar: the
// BACKFILL_START_DATE env when set, otherwise a 30-day lookback.
func startDate(today time.Time) time.Time {
	if raw := os.Getenv("BACKFILL_START_DATE"); raw != "" {
		if t, err := time.Parse("2006-01-02", raw); err == nil {
			return t
		}
		slog.Warn("Ignoring unparseable BACKFILL_START_DATE", slog.String("value", raw))
	}
	return today.AddDate(0, 0, -defaultLookbackDays)
}

func defaultTopic() string {
	if topic := os.Getenv("NEWS_TOPIC"); topic != "" {
		return topic
	}
	return "trump"
}
