// Package consolidate merges multiple same-schema inventory workbooks
// into one. Rows keep their per-file order, files keep their processing
// order, and a sheet missing from some files is simply shorter in the
// result. No anonymization happens here.
package consolidate

import (
	"fmt"
	"path/filepath"
	"strings"

	"k8s.io/klog/v2"

	"github.com/migratehq/rvscrub/pkg/inventory"
)

const (
	vmColumn   = "VM"
	vmIDColumn = "VM ID"
)

type vmOwner struct {
	file int
	id   string
}

type nameKey struct {
	file int
	name string
}

// Merge concatenates the workbooks sheet by sheet. When two files carry
// the same VM name for what the VM ID says are different machines, the
// later file's rows get the source file appended to the name so the two
// stay distinguishable after merging. The same machine exported twice,
// with matching IDs, keeps its name untouched.
func Merge(workbooks []*inventory.Workbook) *inventory.Workbook {
	merged := &inventory.Workbook{}
	owners := make(map[string]vmOwner)
	resolved := make(map[nameKey]string)

	for idx, wb := range workbooks {
		for _, sheet := range wb.Sheets {
			target := merged.Sheet(sheet.Name)
			if target == nil {
				target = merged.AddSheet(sheet.Name, append([]string(nil), sheet.Columns...))
			} else {
				mergeColumns(target, sheet.Columns)
			}

			vmCol, hasVM := sheet.Column(vmColumn)
			idCol, hasID := sheet.Column(vmIDColumn)

			for _, row := range sheet.Rows {
				dup := make(inventory.Row, len(row))
				for k, v := range row {
					dup[k] = v
				}
				if hasVM {
					name := dup.Get(vmCol)
					if strings.TrimSpace(name) != "" {
						id := ""
						if hasID {
							id = strings.TrimSpace(dup.Get(idCol))
						}
						if final := resolveVMName(owners, resolved, idx, name, id, wb.Source); final != name {
							dup.Set(vmCol, final)
						}
					}
				}
				target.AppendRow(dup)
			}
		}
	}
	return merged
}

// resolveVMName decides, once per file and name, whether this file's
// rows keep the VM name or carry the dedup suffix. Memoizing the
// decision keeps a VM's secondary sheets consistent with its vInfo row
// even when they lack the VM ID column.
func resolveVMName(owners map[string]vmOwner, resolved map[nameKey]string, file int, name, id, source string) string {
	key := nameKey{file: file, name: name}
	if final, ok := resolved[key]; ok {
		return final
	}

	final := name
	owner, seen := owners[name]
	switch {
	case !seen:
		owners[name] = vmOwner{file: file, id: id}
	case owner.file == file:
	case owner.id != "" && owner.id == id:
	default:
		final = fmt.Sprintf("%s (%s)", name, sourceStem(source))
		klog.V(1).Infof("Duplicate VM name %q in %s, renaming to %q", name, filepath.Base(source), final)
	}
	resolved[key] = final
	return final
}

func mergeColumns(target *inventory.Sheet, columns []string) {
	existing := make(map[string]struct{}, len(target.Columns))
	for _, c := range target.Columns {
		existing[c] = struct{}{}
	}
	for _, c := range columns {
		if _, ok := existing[c]; !ok {
			target.Columns = append(target.Columns, c)
			existing[c] = struct{}{}
		}
	}
}

func sourceStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
