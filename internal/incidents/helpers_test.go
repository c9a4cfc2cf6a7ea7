package incidents

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const fullHeader = "Year,Type,Species,Age,Sex,Fatal (Y/N),Time,Name"

// csvTable parses inline CSV lines into a table
func csvTable(t *testing.T, lines ...string) *Table {
	t.Helper()
	table, _, err := ReadCSV(context.Background(), strings.NewReader(strings.Join(lines, "\n")), LoadOptions{})
	require.NoError(t, err)
	return table
}

// writeSource writes a fixture file into a temp dir and returns its path
func writeSource(t *testing.T, name string, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o644))
	return path
}

