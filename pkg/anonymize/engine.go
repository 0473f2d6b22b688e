package anonymize

import (
	"strings"

	"k8s.io/klog/v2"

	"github.com/migratehq/rvscrub/pkg/inventory"
)

// Engine applies the per-column field strategies to workbooks, in both
// directions, against a MappingStore it exclusively owns for the run.
// Sheets and columns outside the dispatch table pass through untouched,
// so a workbook with extra sheets is never an error.
type Engine struct {
	store     *MappingStore
	rewritten int
}

func NewEngine(store *MappingStore) *Engine {
	return &Engine{store: store}
}

// Store exposes the engine's mapping store for artifact serialization.
func (e *Engine) Store() *MappingStore {
	return e.store
}

// CellsRewritten reports how many cell values this engine has changed,
// across both directions.
func (e *Engine) CellsRewritten() int {
	return e.rewritten
}

// Anonymize rewrites every bound cell of the workbook in place. Rows
// are walked in order and columns in header order, so label allocation
// is deterministic for a given workbook.
func (e *Engine) Anonymize(wb *inventory.Workbook) {
	for _, sheet := range wb.Sheets {
		e.anonymizeSheet(sheet)
	}
}

func (e *Engine) anonymizeSheet(sheet *inventory.Sheet) {
	bindings := bindingsFor(sheet.Name)
	if bindings == nil {
		klog.V(2).Infof("Sheet %q has no bindings, passing through", sheet.Name)
		return
	}
	idColumn, hasIdentity := sheet.Column(identityColumn)

	for _, row := range sheet.Rows {
		vmID := ""
		if hasIdentity {
			vmID = strings.TrimSpace(row.Get(idColumn))
		}
		for _, column := range sheet.Columns {
			kind, ok := bindings[strings.ToLower(strings.TrimSpace(column))]
			if !ok {
				continue
			}
			raw := row.Get(column)
			anonymized := e.anonymizeCell(kind, raw, vmID)
			if anonymized != raw {
				row.Set(column, anonymized)
				e.rewritten++
			}
		}
	}
}

func (e *Engine) anonymizeCell(kind Kind, raw, vmID string) string {
	switch {
	case kind == KindAnnotation:
		if strings.TrimSpace(raw) == "" {
			return raw
		}
		return AnnotationMask
	case kind.IsAddress():
		return anonymizeAddressCell(e.store, kind, raw)
	case kind == KindVM && vmID != "":
		return e.store.LookupOrAssign(KindVM, raw, vmID)
	default:
		return e.store.LookupOrAllocate(kind, raw)
	}
}

// Deanonymize restores raw values for every bound cell whose current
// value the store knows. Unknown labels are left alone: they are either
// foreign data or were never mapped. Annotation masks are irreversible
// and stay masked.
func (e *Engine) Deanonymize(wb *inventory.Workbook) {
	for _, sheet := range wb.Sheets {
		e.deanonymizeSheet(sheet)
	}
}

func (e *Engine) deanonymizeSheet(sheet *inventory.Sheet) {
	bindings := bindingsFor(sheet.Name)
	if bindings == nil {
		return
	}
	for _, row := range sheet.Rows {
		for _, column := range sheet.Columns {
			kind, ok := bindings[strings.ToLower(strings.TrimSpace(column))]
			if !ok || kind == KindAnnotation {
				continue
			}
			value := row.Get(column)
			restored := e.deanonymizeCell(kind, value)
			if restored != value {
				row.Set(column, restored)
				e.rewritten++
			}
		}
	}
}

func (e *Engine) deanonymizeCell(kind Kind, value string) string {
	if kind.IsAddress() {
		return deanonymizeAddressCell(e.store, value)
	}
	if raw, ok := e.store.ResolveLabel(value); ok {
		return raw
	}
	return value
}
