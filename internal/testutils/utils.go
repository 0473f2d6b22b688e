package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/migratehq/rvscrub/pkg/inventory"
	"github.com/migratehq/rvscrub/pkg/xlsx"
)

// WriteSheet writes a workbook fixture holding a single sheet.
func WriteSheet(t *testing.T, path, name string, columns []string, rows ...inventory.Row) {
	t.Helper()

	wb := &inventory.Workbook{}
	sheet := wb.AddSheet(name, columns)
	for _, row := range rows {
		sheet.AppendRow(row)
	}
	require.NoError(t, xlsx.WriteFile(path, wb))
}

// WriteExport writes a minimal RVTools export fixture: a vInfo sheet
// with the given rows plus a one-row vCluster sheet.
func WriteExport(t *testing.T, path string, vms []inventory.Row) {
	t.Helper()

	wb := &inventory.Workbook{}
	info := wb.AddSheet("vInfo", []string{
		"VM", "Powerstate", "VM ID", "Host", "Cluster", "Primary IP Address", "Annotation",
	})
	for _, vm := range vms {
		info.AppendRow(vm)
	}
	cluster := wb.AddSheet("vCluster", []string{"Name", "Config status"})
	cluster.AppendRow(inventory.Row{"Name": "Prod", "Config status": "green"})
	require.NoError(t, xlsx.WriteFile(path, wb))
}

// CreateTestFileWithData writes arbitrary bytes to path, creating
// parent directories as needed.
func CreateTestFileWithData(t *testing.T, path, data string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))
}
