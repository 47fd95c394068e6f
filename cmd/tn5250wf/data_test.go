package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeTempCSV(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadDataRowsParsesHeaderAndRows(t *testing.T) {
	path := writeTempCSV(t, "ID,NAME\n1,Alice\n2,Bob\n")
	rows, err := loadDataRows(path)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, "Alice", rows[0]["NAME"])
	require.Equal(t, "2", rows[1]["ID"])
}

func TestLoadDataRowsRejectsMismatchedColumnCount(t *testing.T) {
	path := writeTempCSV(t, "ID,NAME\n1,Alice,extra\n")
	_, err := loadDataRows(path)
	require.Error(t, err)
}

func TestLoadDataRowsRejectsEmptyFile(t *testing.T) {
	path := writeTempCSV(t, "")
	_, err := loadDataRows(path)
	require.Error(t, err)
}

func TestPrimaryKeyColumnPrefersID(t *testing.T) {
	v, ok := primaryKeyColumn(map[string]string{"ID": "42", "NAME": "Alice"})
	require.True(t, ok)
	require.Equal(t, "42", v)
}

func TestPrimaryKeyColumnAbsentWithoutIDColumn(t *testing.T) {
	_, ok := primaryKeyColumn(map[string]string{"NAME": "Alice"})
	require.False(t, ok)
}
