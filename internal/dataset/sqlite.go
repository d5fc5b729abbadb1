package dataset

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/reformlab/impact-cli/internal/model"
)

// LoadSQLite reads the household table from a SQLite database file. The
// database is opened read-only; the table's column names must follow the
// same contract as the CSV export.
func LoadSQLite(ctx context.Context, path, table string, cat *model.Catalog) (*Store, error) {
	if table == "" {
		table = "households"
	}

	db, err := sql.Open("sqlite", path+"?mode=ro")
	if err != nil {
		return nil, eris.Wrap(err, "dataset: open sqlite")
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, fmt.Sprintf(`SELECT * FROM %q`, table))
	if err != nil {
		return nil, eris.Wrapf(err, "dataset: query sqlite table %s", table)
	}
	defer rows.Close()

	header, err := rows.Columns()
	if err != nil {
		return nil, eris.Wrap(err, "dataset: read sqlite columns")
	}

	var data [][]string
	vals := make([]any, len(header))
	ptrs := make([]any, len(header))
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, eris.Wrap(err, "dataset: scan sqlite row")
		}
		rec := make([]string, len(vals))
		for i, v := range vals {
			rec[i] = cellString(v)
		}
		data = append(data, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "dataset: iterate sqlite rows")
	}
	if len(data) == 0 {
		return nil, eris.Errorf("dataset: sqlite table %s is empty", table)
	}

	return decodeTable(path, header, data, cat)
}

// cellString converts a scanned SQL value to the string form the shared
// decode path expects. NULL becomes the empty string, which parses to NaN.
func cellString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	case time.Time:
		return t.Format(time.RFC3339)
	default:
		return fmt.Sprint(t)
	}
}
