package corpus

import (
	"log/slog"

	"github.com/oklog/ulid/v2"
)

// SkippedFile records a date file a sweep could not process and why.
type SkippedFile struct {
	Date   string
	Reason string
}

// Report is the summary a maintenance job hands back instead of aborting on
// per-file trouble: what it scanned, what it actually rewrote, and what it
// had to skip. A job that changed nothing ran idempotently.
type Report struct {
	RunID        string
	Job          string
	FilesScanned int
	FilesChanged int
	ItemsChanged int
	ItemsDropped int
	Skipped      []SkippedFile
}

func newReport(job string) *Report {
	return &Report{
		RunID: ulid.Make().String(),
		Job:   job,
	}
}

func (r *Report) skip(date string, err error) {
	r.Skipped = append(r.Skipped, SkippedFile{Date: date, Reason: err.Error()})
	slog.Warn("[Maintenance] Skipping corpus file",
		slog.String("job", r.Job),
		slog.String("run_id", r.RunID),
		slog.String("date", date),
		slog.String("reason", err.Error()))
}

// Log emits the run summary.
func (r *Report) Log() {
	slog.Info("[Maintenance] Job finished",
		slog.String("job", r.Job),
		slog.String("run_id", r.RunID),
		slog.Int("files_scanned", r.FilesScanned),
		slog.Int("files_changed", r.FilesChanged),
		slog.Int("items_changed", r.ItemsChanged),
		slog.Int("items_dropped", r.ItemsDropped),
		slog.Int("files_skipped", len(r.Skipped)))
}
