package dataset

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestCSV(t *testing.T, records [][]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "households.csv")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	w := csv.NewWriter(f)
	require.NoError(t, w.WriteAll(records))
	return path
}

func TestLoadCSV(t *testing.T) {
	cat := testCatalog(t)
	header := testHeader(cat)
	path := writeTestCSV(t, [][]string{
		header,
		testRow(header, baseFields("42.0")),
		testRow(header, baseFields("43")),
	})

	store, err := LoadCSV(path, cat)
	require.NoError(t, err)

	assert.Equal(t, 2, store.Len())
	h, ok := store.ByID("42")
	require.True(t, ok)
	assert.Equal(t, "CA", h.State)
	assert.Equal(t, path, store.Source())
}

func TestLoadCSVMissingFile(t *testing.T) {
	cat := testCatalog(t)
	_, err := LoadCSV(filepath.Join(t.TempDir(), "nope.csv"), cat)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open csv")
}

func TestLoadCSVHeaderOnly(t *testing.T) {
	cat := testCatalog(t)
	path := writeTestCSV(t, [][]string{testHeader(cat)})

	_, err := LoadCSV(path, cat)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no data rows")
}
