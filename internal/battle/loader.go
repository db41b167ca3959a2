package battle

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// TimestampLayout is the file stem layout battle captures are saved under,
// e.g. 2025-03-14-213005.json.
const TimestampLayout = "2006-01-02-150405"

// Source provides the battle corpus.
type Source interface {
	// Load returns every aggregatable battle in chronological order.
	Load(ctx context.Context) ([]Record, error)

	// SourceName identifies the source in logs.
	SourceName() string
}

// DirSource loads battles from a directory of JSON files.
type DirSource struct {
	Dir    string
	Logger *slog.Logger
}

// NewDirSource creates a directory-backed source.
func NewDirSource(dir string, logger *slog.Logger) *DirSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &DirSource{Dir: dir, Logger: logger}
}

// SourceName returns the directory path.
func (s *DirSource) SourceName() string {
	return "dir:" + s.Dir
}

// Load reads every *.json file in the directory. Files that cannot be read
// or decoded are logged and skipped; draws are dropped.
// A missing directory yields an empty corpus.
func (s *DirSource) Load(ctx context.Context) ([]Record, error) {
	paths, err := filepath.Glob(filepath.Join(s.Dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("list battle files: %w", err)
	}

	records := make([]Record, 0, len(paths))
	draws := 0
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rec, err := ReadFile(path)
		if err != nil {
			s.Logger.Warn("skipping battle file", "path", path, "error", err)
			continue
		}
		if rec.Winner == WinnerDraw {
			draws++
			continue
		}
		records = append(records, *rec)
	}

	SortChronological(records)
	s.Logger.Info("loaded battles", "dir", s.Dir, "battles", len(records), "draws", draws)
	return records, nil
}

// ReadFile decodes one battle file and stamps its source metadata.
func ReadFile(path string) (*Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read battle file: %w", err)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decode battle file: %w", err)
	}

	rec.SourceID = filepath.Base(path)
	if ts, ok := ParseSourceTime(rec.SourceID); ok {
		rec.RecordedAt = ts
	} else if info, err := os.Stat(path); err == nil {
		rec.RecordedAt = info.ModTime().UTC()
	}
	return &rec, nil
}

// ParseSourceTime extracts the capture time from a source identifier such
// as "2025-03-14-213005.json".
func ParseSourceTime(sourceID string) (time.Time, bool) {
	stem := strings.TrimSuffix(filepath.Base(sourceID), filepath.Ext(sourceID))
	ts, err := time.Parse(TimestampLayout, stem)
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}

// SortChronological orders records by capture time, then source id.
func SortChronological(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		if !records[i].RecordedAt.Equal(records[j].RecordedAt) {
			return records[i].RecordedAt.Before(records[j].RecordedAt)
		}
		return records[i].SourceID < records[j].SourceID
	})
}
