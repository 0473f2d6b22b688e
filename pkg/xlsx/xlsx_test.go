package xlsx

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/migratehq/rvscrub/pkg/inventory"
)

func TestWriteReadRoundTrip(t *testing.T) {
	req := require.New(t)

	wb := &inventory.Workbook{}
	info := wb.AddSheet("vInfo", []string{"VM", "Host", "Annotation"})
	info.AppendRow(inventory.Row{"VM": "web01", "Host": "esx01", "Annotation": "owner: alice"})
	info.AppendRow(inventory.Row{"VM": "db01", "Host": "esx02", "Annotation": ""})
	host := wb.AddSheet("vHost", []string{"Host", "Cluster"})
	host.AppendRow(inventory.Row{"Host": "esx01", "Cluster": "prod"})

	path := filepath.Join(t.TempDir(), "out.xlsx")
	req.NoError(WriteFile(path, wb))

	got, err := ReadFile(path)
	req.NoError(err)
	req.Equal(path, got.Source)
	req.Equal([]string{"vInfo", "vHost"}, got.SheetNames())

	gotInfo := got.Sheet("vInfo")
	req.Equal([]string{"VM", "Host", "Annotation"}, gotInfo.Columns)
	req.Len(gotInfo.Rows, 2)
	req.Equal("web01", gotInfo.Rows[0].Get("VM"))
	req.Equal("owner: alice", gotInfo.Rows[0].Get("Annotation"))
	req.Equal("", gotInfo.Rows[1].Get("Annotation"), "blank cells survive as blanks")

	gotHost := got.Sheet("vHost")
	req.Len(gotHost.Rows, 1)
	req.Equal("prod", gotHost.Rows[0].Get("Cluster"))
}

func TestReadPadsShortRows(t *testing.T) {
	req := require.New(t)

	wb := &inventory.Workbook{}
	sheet := wb.AddSheet("vInfo", []string{"VM", "Host", "Cluster"})
	// trailing blanks are dropped by the container format on read
	sheet.AppendRow(inventory.Row{"VM": "web01", "Host": "", "Cluster": ""})

	path := filepath.Join(t.TempDir(), "short.xlsx")
	req.NoError(WriteFile(path, wb))

	got, err := ReadFile(path)
	req.NoError(err)
	row := got.Sheet("vInfo").Rows[0]
	req.Equal("web01", row.Get("VM"))
	req.Equal("", row.Get("Host"))
	req.Equal("", row.Get("Cluster"))
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "absent.xlsx"))
	require.Error(t, err)
}

func TestWritePreservesCellSpacing(t *testing.T) {
	req := require.New(t)

	wb := &inventory.Workbook{}
	sheet := wb.AddSheet("vInfo", []string{"Primary IP Address"})
	sheet.AppendRow(inventory.Row{"Primary IP Address": "10.1.2.3, 10.1.2.4"})

	path := filepath.Join(t.TempDir(), "spacing.xlsx")
	req.NoError(WriteFile(path, wb))

	got, err := ReadFile(path)
	req.NoError(err)
	req.Equal("10.1.2.3, 10.1.2.4", got.Sheet("vInfo").Rows[0].Get("Primary IP Address"))
}

func TestWriteKeepsLiteralSheet1(t *testing.T) {
	req := require.New(t)

	wb := &inventory.Workbook{}
	wb.AddSheet("Sheet1", []string{"A"}).AppendRow(inventory.Row{"A": "1"})

	path := filepath.Join(t.TempDir(), "default.xlsx")
	req.NoError(WriteFile(path, wb))

	got, err := ReadFile(path)
	req.NoError(err)
	req.Equal([]string{"Sheet1"}, got.SheetNames())
	req.Equal("1", got.Sheet("Sheet1").Rows[0].Get("A"))
}
