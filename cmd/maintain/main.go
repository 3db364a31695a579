package main

import (
	"context"
	"flag"
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

	job := flag.String("job", "", "maintenance job: move-dates | normalize-tags | retag | prune | timestamps")
	flag.Parse()

	dataDir := os.Getenv("DATA_DIR")
	if dataDir == "" {
		dataDir = "data"
	}
	taggedStore := corpus.NewStore(filepath.Join(dataDir, "news", "tagged"))
	maintainer := corpus.NewMaintainer(taggedStore)

	ctx := context.Background()

	var err error
	switch *job {
	case "move-dates":
		_, err = maintainer.MoveToCorrectDate(ctx)

	case "normalize-tags":
		var tax *taxonomy.Taxonomy
		tax, err = taxonomy.Load(filepath.Join(dataDir, "tags", "tags.json"))
		if err != nil {
			break
		}
		var aliases map[string]string
		aliases, err = taxonomy.LoadAliases(aliasesPath(dataDir))
		if err != nil {
			break
		}
		_, err = maintainer.NormalizeTags(ctx, tax.NormalizationMap(aliases))

	case "retag":
		var tax *taxonomy.Taxonomy
		tax, err = taxonomy.Load(filepath.Join(dataDir, "tags", "tags.json"))
		if err != nil {
			break
		}
		modelID := os.Getenv("MODEL_ID")
		if modelID == "" {
			modelID = defaultModelID
		}
		var client tagging.ModelClient
		client, err = clients.NewModelClient(modelID)
		if err != nil {
			break
		}
		tagger := tagging.NewTagger(client, tax,
			tagging.WithMaxTags(tagging.MaxTagsFromEnv(os.Getenv("MAX_TAGS"))))
		_, err = maintainer.RetagMissing(ctx, tagger, tagging.DefaultFallbackTag)

	case "prune":
		_, err = maintainer.Prune(ctx)

	case "timestamps":
		_, err = maintainer.BackfillTimestamps(ctx)

	default:
		slog.Error("Unknown or missing -job",
			slog.String("job", *job),
			slog.String("expected", "move-dates | normalize-tags | retag | prune | timestamps"))
		os.Exit(2)
	}

	if err != nil {
		slog.Error("Maintenance job failed", slog.String("job", *job), slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func aliasesPath(dataDir string) string {
	if p := os.Getenv("TAG_ALIASES_FILE"); p != "" {
		return p
	}
	return filepath.Join(dataDir, "tags", "aliases.yaml")
}
