package writer

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-scripts/placescout/internal/types"
)

func TestWriteCSV(t *testing.T) {
	dir := t.TempDir()
	w, err := New(filepath.Join(dir, "out"))
	require.NoError(t, err)

	results := []types.MergedResult{
		{
			Name: "Cafe A", Category: "カフェ", Rating: 4.5, ReviewCount: 120,
			BudgetText: "¥1,000~¥2,000", BusinessHoursText: "月: 10:00-22:00",
			Address: "渋谷区1-2-3", ReviewSnippet: "良い", URL: "https://maps.example/a",
		},
		{Name: "Bar B", Rating: 3.9, URL: "https://maps.example/b"},
	}

	path, err := w.Write("results.csv", results)
	require.NoError(t, err)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "name", rows[0][0])
	assert.Equal(t, "Cafe A", rows[1][0])
	assert.Equal(t, "4.5", rows[1][2])
	assert.Equal(t, "120", rows[1][3])
	assert.Equal(t, "https://maps.example/b", rows[2][8])
}

func TestWriteEmptyResultSet(t *testing.T) {
	w, err := New(t.TempDir())
	require.NoError(t, err)

	path, err := w.Write("empty.csv", nil)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "name,category")
}
