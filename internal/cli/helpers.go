package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/ramonehamilton/draft-advisor/internal/advisor"
	"github.com/ramonehamilton/draft-advisor/internal/battle"
	"github.com/ramonehamilton/draft-advisor/internal/config"
	"github.com/ramonehamilton/draft-advisor/internal/storage"
)

// openSource returns the configured battle source and a func releasing it.
func (a *app) openSource() (battle.Source, func(), error) {
	switch a.cfg.Data.Source {
	case config.SourceSQLite:
		store, err := a.openStore()
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	default:
		return battle.NewDirSource(a.cfg.Data.BattlesDir, a.logger), func() {}, nil
	}
}

// storeHandle is a storage service that owns its database.
type storeHandle struct {
	*storage.Service
	db *storage.DB
}

func (h *storeHandle) Close() error {
	return h.db.Close()
}

// openStore opens and migrates the configured corpus database.
func (a *app) openStore() (*storeHandle, error) {
	db, err := storage.Open(storage.DefaultConfig(a.cfg.Data.DatabasePath))
	if err != nil {
		return nil, fmt.Errorf("open corpus database: %w", err)
	}
	return &storeHandle{Service: storage.NewService(db, a.logger), db: db}, nil
}

// loadCatalog reads the configured skill catalog.
func (a *app) loadCatalog() (*battle.Catalog, error) {
	return battle.LoadCatalog(a.cfg.Data.CatalogPath, a.logger)
}

// loadRecords reads the whole corpus from the configured source.
func (a *app) loadRecords(ctx context.Context) ([]battle.Record, error) {
	src, release, err := a.openSource()
	if err != nil {
		return nil, err
	}
	defer release()
	return src.Load(ctx)
}

// loadSnapshot builds a one-off snapshot for commands that answer a single
// query.
func (a *app) loadSnapshot(ctx context.Context) (*advisor.Snapshot, error) {
	records, err := a.loadRecords(ctx)
	if err != nil {
		return nil, err
	}
	catalog, err := a.loadCatalog()
	if err != nil {
		return nil, err
	}
	return advisor.NewSnapshot(records, catalog, a.logger), nil
}

// splitList parses a comma-separated flag value, dropping blanks.
func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// printHeader prints a formatted section header.
func printHeader(w io.Writer, title string) {
	fmt.Fprintf(w, "\n%s\n", title)
	fmt.Fprintln(w, strings.Repeat("-", len(title)+2))
}

// printField prints a labeled field.
func printField(w io.Writer, label, value string) {
	fmt.Fprintf(w, "  %-18s %s\n", label+":", value)
}

// printTable prints a simple table with headers and rows.
func printTable(w io.Writer, headers []string, rows [][]string) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "  (none)")
		return
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	line := func(cells []string) string {
		var b strings.Builder
		b.WriteString("  ")
		for i, cell := range cells {
			if i < len(widths) {
				fmt.Fprintf(&b, "%-*s", widths[i]+2, cell)
			}
		}
		return strings.TrimRight(b.String(), " ")
	}

	fmt.Fprintln(w, line(headers))
	sep := make([]string, len(widths))
	for i, width := range widths {
		sep[i] = strings.Repeat("-", width)
	}
	fmt.Fprintln(w, line(sep))
	for _, row := range rows {
		fmt.Fprintln(w, line(row))
	}
}

func percent(f float64) string {
	return fmt.Sprintf("%.1f%%", f*100)
}

func decimal(f float64) string {
	return fmt.Sprintf("%.3f", f)
}
