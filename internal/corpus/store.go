// Package corpus owns the dated on-disk news corpus: one JSON file per
// calendar date, plus the batch maintenance jobs that keep the files
// consistent. All writes go through an atomic temp-file-then-rename so a
// crash mid-write never leaves a truncated date file behind.
package corpus

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/spacesedan/newstagger/internal/models"
)

// ErrCorruptFile marks a corpus file that does not parse into the expected
// shape. Maintenance sweeps skip and report these rather than aborting.
var ErrCorruptFile = errors.New("corpus file is unreadable or malformed")

var dateStemRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Store reads and writes one corpus directory of YYYY-MM-DD.json files.
type Store struct {
	Dir string
}

func NewStore(dir string) *Store {
	return &Store{Dir: dir}
}

func (s *Store) Path(date string) string {
	return filepath.Join(s.Dir, date+".json")
}

func (s *Store) EnsureDir() error {
	return os.MkdirAll(s.Dir, 0o755)
}

// Dates lists the date stems present in the directory, sorted ascending.
// Non-date and non-JSON entries are ignored.
func (s *Store) Dates() ([]string, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return nil, fmt.Errorf("corpus: reading %s: %w", s.Dir, err)
	}

	var dates []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		stem := strings.TrimSuffix(name, ".json")
		if dateStemRe.MatchString(stem) {
			dates = append(dates, stem)
		}
	}
	sort.Strings(dates)
	return dates, nil
}

// HasDate reports whether a file for the date exists.
func (s *Store) HasDate(date string) bool {
	_, err := os.Stat(s.Path(date))
	return err == nil
}

// ReadTagged loads one tagged date file. A file that fails to parse or lacks
// an articles array comes back as ErrCorruptFile.
func (s *Store) ReadTagged(date string) (*models.TaggedNewsResponse, error) {
	data, err := os.ReadFile(s.Path(date))
	if err != nil {
		return nil, err
	}

	var resp models.TaggedNewsResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorruptFile, date, err)
	}
	if resp.Articles == nil {
		return nil, fmt.Errorf("%w: %s: missing articles array", ErrCorruptFile, date)
	}
	return &resp, nil
}

// ReadRaw loads one raw date file with the same shape guard as ReadTagged.
func (s *Store) ReadRaw(date string) (*models.NewsResponse, error) {
	data, err := os.ReadFile(s.Path(date))
	if err != nil {
		return nil, err
	}

	var resp models.NewsResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorruptFile, date, err)
	}
	if resp.Articles == nil {
		return nil, fmt.Errorf("%w: %s: missing articles array", ErrCorruptFile, date)
	}
	return &resp, nil
}

// WriteTagged persists a tagged date file atomically.
func (s *Store) WriteTagged(date string, resp *models.TaggedNewsResponse) error {
	return s.writeAtomic(date, resp)
}

// WriteRaw persists a raw date file atomically.
func (s *Store) WriteRaw(date string, resp *models.NewsResponse) error {
	return s.writeAtomic(date, resp)
}

func (s *Store) writeAtomic(date string, v any) error {
	if err := s.EnsureDir(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("corpus: marshaling %s: %w", date, err)
	}

	final := s.Path(date)
	tmp := final + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("corpus: writing %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, final); err != nil {
		return fmt.Errorf("corpus: renaming %s: %w", tmp, err)
	}
	return nil
}
