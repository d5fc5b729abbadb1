package dataset

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/reformlab/impact-cli/internal/config"
	"github.com/reformlab/impact-cli/internal/model"
)

// Load opens the configured source and loads the household table. This is
// the one bulk I/O step of the process; everything downstream reads the
// returned Store.
func Load(ctx context.Context, cfg config.DatasetConfig, cat *model.Catalog) (*Store, error) {
	format := cfg.Format
	if format == "" {
		if cfg.Path == "" && cfg.DatabaseURL != "" {
			format = "postgres"
		} else {
			format = inferFormat(cfg.Path)
		}
	}

	switch format {
	case "csv":
		return LoadCSV(cfg.Path, cat)
	case "xlsx":
		return LoadXLSX(cfg.Path, XLSXOptions{SheetName: cfg.Sheet}, cat)
	case "sqlite":
		return LoadSQLite(ctx, cfg.Path, cfg.Table, cat)
	case "postgres":
		if cfg.DatabaseURL == "" {
			return nil, eris.New("dataset: postgres format requires dataset.database_url")
		}
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, eris.Wrap(err, "dataset: connect postgres")
		}
		defer pool.Close()
		return LoadPostgres(ctx, pool, cfg.Table, cat)
	default:
		return nil, eris.Errorf("dataset: unsupported format %q", format)
	}
}

// inferFormat guesses the source format from the path extension. Anything
// unrecognized is treated as CSV, the native microsimulation export.
func inferFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return "xlsx"
	case ".db", ".sqlite", ".sqlite3":
		return "sqlite"
	default:
		return "csv"
	}
}
