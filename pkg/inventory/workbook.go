// Package inventory holds the in-memory representation of an RVTools
// export: a workbook of named sheets, each sheet a header row plus data
// rows. Sheet names and column headers are the contract boundary shared
// by the consolidator, the anonymization engine and the xlsx adapter.
package inventory

import "strings"

// Row is one record in one sheet, keyed by column header.
type Row map[string]string

// Get returns the value of the named column, or "" when absent.
func (r Row) Get(column string) string {
	return r[column]
}

// Set assigns the value of the named column.
func (r Row) Set(column, value string) {
	r[column] = value
}

// Sheet is a single named tab. Columns preserves header order; all
// transforms must iterate Columns rather than ranging over Row maps so
// that label allocation order stays deterministic.
type Sheet struct {
	Name    string
	Columns []string
	Rows    []Row
}

// Column reports whether the sheet has a header equal to name,
// ignoring case and surrounding whitespace, and returns the exact
// header as it appears in the sheet.
func (s *Sheet) Column(name string) (string, bool) {
	for _, c := range s.Columns {
		if strings.EqualFold(strings.TrimSpace(c), name) {
			return c, true
		}
	}
	return "", false
}

// AppendRow adds a row to the sheet.
func (s *Sheet) AppendRow(r Row) {
	s.Rows = append(s.Rows, r)
}

// Workbook is an ordered collection of sheets read from one container
// file. Source is the path the workbook was read from; consolidation
// uses it to disambiguate same-named VMs from different exports.
type Workbook struct {
	Source string
	Sheets []*Sheet
}

// Sheet returns the sheet with the given name, or nil.
func (w *Workbook) Sheet(name string) *Sheet {
	for _, s := range w.Sheets {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// AddSheet appends a sheet and returns it.
func (w *Workbook) AddSheet(name string, columns []string) *Sheet {
	s := &Sheet{Name: name, Columns: columns}
	w.Sheets = append(w.Sheets, s)
	return s
}

// SheetNames returns sheet names in workbook order.
func (w *Workbook) SheetNames() []string {
	names := make([]string, 0, len(w.Sheets))
	for _, s := range w.Sheets {
		names = append(names, s.Name)
	}
	return names
}

// RowCount returns the total number of data rows across all sheets.
func (w *Workbook) RowCount() int {
	n := 0
	for _, s := range w.Sheets {
		n += len(s.Rows)
	}
	return n
}
