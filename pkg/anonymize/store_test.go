package anonymize

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupOrAllocateStable(t *testing.T) {
	req := require.New(t)
	store := NewMappingStore()

	first := store.LookupOrAllocate(KindHost, "esx01.corp.local")
	second := store.LookupOrAllocate(KindHost, "esx02.corp.local")
	req.Equal("HOST-0001", first)
	req.Equal("HOST-0002", second)

	// repeated sightings of the same value never move the counter
	req.Equal(first, store.LookupOrAllocate(KindHost, "esx01.corp.local"))
	req.Equal("HOST-0003", store.LookupOrAllocate(KindHost, "esx03.corp.local"))

	// kinds allocate independently, even for the same raw value
	req.Equal("CLUSTER-0001", store.LookupOrAllocate(KindCluster, "esx01.corp.local"))
}

func TestLookupOrAllocateBlank(t *testing.T) {
	req := require.New(t)
	store := NewMappingStore()

	req.Equal("", store.LookupOrAllocate(KindVM, ""))
	req.Equal("   ", store.LookupOrAllocate(KindVM, "   "))
	req.Empty(store.Stats().Labels)
}

func TestLookupOrAssign(t *testing.T) {
	req := require.New(t)
	store := NewMappingStore()

	req.Equal("421", store.LookupOrAssign(KindVM, "app-server-01", "421"))

	// an existing mapping wins over a newly supplied label
	req.Equal("421", store.LookupOrAssign(KindVM, "app-server-01", "999"))

	// label collisions get a numeric suffix so reversal stays unambiguous
	req.Equal("421-2", store.LookupOrAssign(KindVM, "app-server-02", "421"))
	req.Equal("421-3", store.LookupOrAssign(KindVM, "app-server-03", "421"))

	raw, ok := store.ResolveLabel("421-2")
	req.True(ok)
	req.Equal("app-server-02", raw)

	// blank value or blank label falls back to counter-less passthrough
	req.Equal("", store.LookupOrAssign(KindVM, "", "77"))
	req.Equal("vm-x", store.LookupOrAssign(KindVM, "vm-x", " "))
}

func TestAllocateAvoidsAssignedLabels(t *testing.T) {
	req := require.New(t)
	store := NewMappingStore()

	// a VM ID that happens to look like a counter label must not be reused
	req.Equal("VM-0001", store.LookupOrAssign(KindVM, "web01", "VM-0001"))
	req.Equal("VM-0001-2", store.LookupOrAllocate(KindVM, "web02"))

	raw, ok := store.ResolveLabel("VM-0001")
	req.True(ok)
	req.Equal("web01", raw)
	raw, ok = store.ResolveLabel("VM-0001-2")
	req.True(ok)
	req.Equal("web02", raw)
}

func TestResolveLabelUnknown(t *testing.T) {
	store := NewMappingStore()
	store.LookupOrAllocate(KindDatacenter, "DC-East")

	_, ok := store.ResolveLabel("DC-9999")
	assert.False(t, ok)

	raw, ok := store.ResolveLabel("DC-0001")
	assert.True(t, ok)
	assert.Equal(t, "DC-East", raw)
}

func TestStoreStats(t *testing.T) {
	req := require.New(t)
	store := NewMappingStore()
	store.LookupOrAllocate(KindHost, "esx01")
	store.LookupOrAllocate(KindHost, "esx02")
	store.LookupOrAllocate(KindCluster, "prod")
	store.LookupOrAssign(KindVM, "web01", "421")
	store.PutAddress("192.168.10.5", "10.77.10.5")

	stats := store.Stats()
	req.Equal(2, stats.Labels[KindHost])
	req.Equal(1, stats.Labels[KindCluster])
	req.Equal(1, stats.Addresses)
	req.Equal(1, stats.Identities)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	req := require.New(t)

	store := NewMappingStore()
	store.SetGeneratedBy("rvscrub test")
	store.LookupOrAllocate(KindHost, "esx01.corp.local")
	store.LookupOrAllocate(KindVM, "db-primary")
	store.LookupOrAssign(KindVM, "web01", "421")
	store.PutAddress("192.168.10.5", "10.77.10.5")
	store.PutAddress("fe80::1", "fd00::1")

	path := filepath.Join(t.TempDir(), "run.mapping.json")
	req.NoError(store.SaveFile(path))

	info, err := os.Stat(path)
	req.NoError(err)
	req.Equal(os.FileMode(0600), info.Mode().Perm())

	loaded, err := LoadMappingFile(path)
	req.NoError(err)
	req.Equal(store.RunID(), loaded.RunID())

	raw, ok := loaded.ResolveLabel("HOST-0001")
	req.True(ok)
	req.Equal("esx01.corp.local", raw)

	raw, ok = loaded.ResolveLabel("421")
	req.True(ok)
	req.Equal("web01", raw)

	raw, ok = loaded.ResolveAddress("10.77.10.5")
	req.True(ok)
	req.Equal("192.168.10.5", raw)

	// the loaded store still answers forward lookups consistently
	req.Equal("VM-0001", loaded.LookupOrAllocate(KindVM, "db-primary"))
	synthetic, ok := loaded.LookupAddress("fe80::1")
	req.True(ok)
	req.Equal("fd00::1", synthetic)
}

func TestLoadMappingFileRejectsBadInput(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "not json",
			content: "columns: [VM, Host]",
		},
		{
			name: "reverse does not round-trip",
			content: `{
  "runId": "x",
  "forward": {"VM": {"web01": "VM-0001"}},
  "reverse": {"VM-0001": "somebody-else"},
  "addresses": {}
}`,
		},
		{
			name: "orphan reverse label",
			content: `{
  "runId": "x",
  "forward": {"VM": {"web01": "VM-0001"}},
  "reverse": {"VM-0001": "web01", "VM-0002": "ghost"},
  "addresses": {}
}`,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			req := require.New(t)
			path := filepath.Join(t.TempDir(), "mapping.json")
			req.NoError(os.WriteFile(path, []byte(test.content), 0600))

			_, err := LoadMappingFile(path)
			req.Error(err)
		})
	}
}

func TestLoadMappingFileMissing(t *testing.T) {
	_, err := LoadMappingFile(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
}

func TestInvertAddressesFirstWins(t *testing.T) {
	req := require.New(t)

	// two raw addresses folding onto one synthetic form: inversion picks
	// the lexicographically first raw, deterministically
	inverse := invertAddresses(map[string]string{
		"192.168.10.5": "10.77.10.5",
		"172.16.10.5":  "10.77.10.5",
		"fe80::1":      "fd00::1",
	})
	req.Equal("172.16.10.5", inverse["10.77.10.5"])
	req.Equal("fe80::1", inverse["fd00::1"])
}
