package rvtools

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/migratehq/rvscrub/internal/testutils"
	"github.com/migratehq/rvscrub/pkg/inventory"
)

func writeSignatureFile(t *testing.T, path, signatureSheet string) {
	t.Helper()
	testutils.WriteSheet(t, path, signatureSheet, []string{"VM", "Host"},
		inventory.Row{"VM": "web01", "Host": "esx01"})
}

func writePlainFile(t *testing.T, path string) {
	t.Helper()
	testutils.WriteSheet(t, path, "Sheet1", []string{"A"}, inventory.Row{"A": "1"})
}

func TestDiscover(t *testing.T) {
	req := require.New(t)
	dir := t.TempDir()

	writeSignatureFile(t, filepath.Join(dir, "siteB.xlsx"), "vInfo")
	writeSignatureFile(t, filepath.Join(dir, "siteA.xlsx"), "vHost")
	writeSignatureFile(t, filepath.Join(dir, "~siteA.xlsx"), "vInfo")
	writePlainFile(t, filepath.Join(dir, "budget.xlsx"))
	testutils.CreateTestFileWithData(t, filepath.Join(dir, "notes.txt"), "hi")
	testutils.CreateTestFileWithData(t, filepath.Join(dir, "broken.xlsx"), "not a zip")
	req.NoError(os.Mkdir(filepath.Join(dir, "archive.xlsx"), 0755))

	files, err := Discover(dir, "")
	req.NoError(err)
	req.Equal([]string{
		filepath.Join(dir, "siteA.xlsx"),
		filepath.Join(dir, "siteB.xlsx"),
	}, files, "only signature-bearing containers, sorted, no lock files")
}

func TestDiscoverPattern(t *testing.T) {
	req := require.New(t)
	dir := t.TempDir()

	writeSignatureFile(t, filepath.Join(dir, "prod_east.xlsx"), "vInfo")
	writeSignatureFile(t, filepath.Join(dir, "dev_west.xlsx"), "vInfo")

	files, err := Discover(dir, "prod*.xlsx")
	req.NoError(err)
	req.Equal([]string{filepath.Join(dir, "prod_east.xlsx")}, files)

	_, err = Discover(dir, "[")
	req.Error(err)
}

func TestDiscoverMissingDir(t *testing.T) {
	_, err := Discover(filepath.Join(t.TempDir(), "absent"), "")
	require.Error(t, err)
}

func TestIsRVToolsFile(t *testing.T) {
	req := require.New(t)
	dir := t.TempDir()

	signature := filepath.Join(dir, "export.xlsx")
	writeSignatureFile(t, signature, "vCluster")
	ok, err := IsRVToolsFile(signature)
	req.NoError(err)
	req.True(ok)

	// sheet name matching ignores case
	lower := filepath.Join(dir, "lower.xlsx")
	writeSignatureFile(t, lower, "vinfo")
	ok, err = IsRVToolsFile(lower)
	req.NoError(err)
	req.True(ok)

	plain := filepath.Join(dir, "plain.xlsx")
	writePlainFile(t, plain)
	ok, err = IsRVToolsFile(plain)
	req.NoError(err)
	req.False(ok)

	_, err = IsRVToolsFile(filepath.Join(dir, "absent.xlsx"))
	req.Error(err)
}
