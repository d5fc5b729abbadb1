package dataset

import (
	"encoding/csv"
	"os"

	"github.com/rotisserie/eris"

	"github.com/reformlab/impact-cli/internal/model"
)

// LoadCSV reads the household table from a CSV export.
func LoadCSV(path string, cat *model.Catalog) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "dataset: open csv")
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, eris.Wrap(err, "dataset: read csv")
	}
	if len(records) < 2 {
		return nil, eris.Errorf("dataset: %s has no data rows", path)
	}

	return decodeTable(path, records[0], records[1:], cat)
}
