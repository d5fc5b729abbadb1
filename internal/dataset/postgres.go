package dataset

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"

	"github.com/reformlab/impact-cli/internal/model"
)

// Pool is the subset of pgxpool.Pool the loader uses.
type Pool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// LoadPostgres reads the household table from Postgres. Microsimulation
// exports keep the original column spellings as quoted identifiers, so the
// result set's field descriptions supply the header for the shared decode
// path.
func LoadPostgres(ctx context.Context, pool Pool, table string, cat *model.Catalog) (*Store, error) {
	if table == "" {
		table = "households"
	}

	rows, err := pool.Query(ctx, fmt.Sprintf(`SELECT * FROM %q`, table))
	if err != nil {
		return nil, eris.Wrapf(err, "dataset: query postgres table %s", table)
	}
	defer rows.Close()

	fds := rows.FieldDescriptions()
	header := make([]string, len(fds))
	for i, fd := range fds {
		header[i] = fd.Name
	}

	var data [][]string
	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return nil, eris.Wrap(err, "dataset: read postgres row")
		}
		rec := make([]string, len(vals))
		for i, v := range vals {
			rec[i] = cellString(v)
		}
		data = append(data, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "dataset: iterate postgres rows")
	}
	if len(data) == 0 {
		return nil, eris.Errorf("dataset: postgres table %s is empty", table)
	}

	return decodeTable(table, header, data, cat)
}
