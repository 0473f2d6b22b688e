// Package rvtools orchestrates runs over RVTools exports: discovering
// input containers, consolidating them, driving the anonymization
// engine, and writing outputs with their mapping artifacts.
package rvtools

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/migratehq/rvscrub/pkg/xlsx"
)

// DefaultPattern matches the containers RVTools exports by default.
const DefaultPattern = "*.xlsx"

// signatureSheets identify a container as an RVTools export. One match
// is enough; partial exports are still worth processing.
var signatureSheets = []string{"vInfo", "vHost", "vCluster"}

// Discover returns the RVTools containers in dir whose names match
// pattern, sorted by path. Spreadsheet lock files (a "~" prefix) and
// containers without any signature sheet are skipped.
func Discover(dir, pattern string) ([]string, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}
	matcher, err := glob.Compile(pattern)
	if err != nil {
		return nil, errors.Wrapf(err, "compile pattern %q", pattern)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "read directory %s", dir)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, "~") {
			klog.V(1).Infof("Skipping lock file %s", name)
			continue
		}
		if !matcher.Match(name) {
			continue
		}
		path := filepath.Join(dir, name)
		ok, err := IsRVToolsFile(path)
		if err != nil {
			klog.V(1).Infof("Skipping unreadable %s: %v", name, err)
			continue
		}
		if !ok {
			klog.V(1).Infof("Skipping %s: no RVTools sheets", name)
			continue
		}
		files = append(files, path)
	}

	sort.Strings(files)
	return files, nil
}

// IsRVToolsFile reports whether the container carries at least one
// RVTools signature sheet.
func IsRVToolsFile(path string) (bool, error) {
	names, err := xlsx.SheetNames(path)
	if err != nil {
		return false, err
	}
	for _, name := range names {
		for _, sig := range signatureSheets {
			if strings.EqualFold(name, sig) {
				return true, nil
			}
		}
	}
	return false, nil
}
