package rvtools

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// DefaultOutputName returns the conventional timestamped output name
// for a mode.
func DefaultOutputName(mode Mode, now time.Time) string {
	stamp := now.Format("20060102_1504")
	switch mode {
	case ModeConsolidate:
		return fmt.Sprintf("RVTools_Combined_%s.xlsx", stamp)
	case ModeAnonymize:
		return fmt.Sprintf("RVTools_Anonymized_%s.xlsx", stamp)
	case ModeBoth:
		return fmt.Sprintf("RVTools_Consolidated_Anonymized_%s.xlsx", stamp)
	case ModeDeanonymize:
		return fmt.Sprintf("RVTools_Deanonymized_%s.xlsx", stamp)
	}
	return fmt.Sprintf("RVTools_Output_%s.xlsx", stamp)
}

// MappingPath derives the mapping artifact path from an output path.
func MappingPath(outputPath string) string {
	ext := filepath.Ext(outputPath)
	return strings.TrimSuffix(outputPath, ext) + ".mapping.json"
}

// findFileName returns path if nothing exists there yet, or the first
// "name (n).ext" variant that is free. Outputs never clobber existing
// files.
func findFileName(path string) (string, error) {
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)

	candidate := path
	for n := 1; ; n++ {
		_, err := os.Stat(candidate)
		if os.IsNotExist(err) {
			return candidate, nil
		} else if err != nil {
			return "", errors.Wrap(err, "find file name")
		}
		candidate = fmt.Sprintf("%s (%d)%s", base, n, ext)
	}
}
