package rvtools

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultOutputName(t *testing.T) {
	now := time.Date(2024, 3, 7, 14, 52, 9, 0, time.UTC)

	tests := []struct {
		mode Mode
		want string
	}{
		{ModeConsolidate, "RVTools_Combined_20240307_1452.xlsx"},
		{ModeAnonymize, "RVTools_Anonymized_20240307_1452.xlsx"},
		{ModeBoth, "RVTools_Consolidated_Anonymized_20240307_1452.xlsx"},
		{ModeDeanonymize, "RVTools_Deanonymized_20240307_1452.xlsx"},
		{Mode("other"), "RVTools_Output_20240307_1452.xlsx"},
	}
	for _, test := range tests {
		t.Run(string(test.mode), func(t *testing.T) {
			assert.Equal(t, test.want, DefaultOutputName(test.mode, now))
		})
	}
}

func TestMappingPath(t *testing.T) {
	assert.Equal(t, "out.mapping.json", MappingPath("out.xlsx"))
	assert.Equal(t, filepath.Join("a", "b", "out.mapping.json"), MappingPath(filepath.Join("a", "b", "out.xlsx")))
	assert.Equal(t, "plain.mapping.json", MappingPath("plain"))
}

func TestFindFileName(t *testing.T) {
	req := require.New(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "out.xlsx")

	got, err := findFileName(path)
	req.NoError(err)
	req.Equal(path, got)

	req.NoError(os.WriteFile(path, []byte("x"), 0644))
	got, err = findFileName(path)
	req.NoError(err)
	req.Equal(filepath.Join(dir, "out (1).xlsx"), got)

	req.NoError(os.WriteFile(got, []byte("x"), 0644))
	got, err = findFileName(path)
	req.NoError(err)
	req.Equal(filepath.Join(dir, "out (2).xlsx"), got)
}
