// Package xlsx adapts multi-sheet spreadsheet containers to the
// in-memory inventory model. Sheet names, header order and row order
// survive a read/write cycle; cell styling and formulas do not, which
// is fine for exports that are plain tabular data.
package xlsx

import (
	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
	"k8s.io/klog/v2"

	"github.com/migratehq/rvscrub/pkg/inventory"
)

// ReadFile loads every sheet of a container. The first row of each
// sheet is taken as the header row; short data rows are padded with
// blanks so every row answers for every column.
func ReadFile(path string) (*inventory.Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer func() {
		if err := f.Close(); err != nil {
			klog.Errorf("Failed to close %s: %v", path, err)
		}
	}()

	wb := &inventory.Workbook{Source: path}
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, errors.Wrapf(err, "read sheet %s", name)
		}
		if len(rows) == 0 {
			wb.AddSheet(name, nil)
			continue
		}

		headers := rows[0]
		sheet := wb.AddSheet(name, headers)
		for _, raw := range rows[1:] {
			row := make(inventory.Row, len(headers))
			for i, header := range headers {
				if header == "" {
					continue
				}
				value := ""
				if i < len(raw) {
					value = raw[i]
				}
				row[header] = value
			}
			sheet.AppendRow(row)
		}
	}
	return wb, nil
}

// SheetNames lists the sheet names of a container without building the
// inventory model.
func SheetNames(path string) ([]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer func() {
		if err := f.Close(); err != nil {
			klog.Errorf("Failed to close %s: %v", path, err)
		}
	}()
	return f.GetSheetList(), nil
}

// WriteFile writes the workbook to path, one tab per sheet, in
// workbook order.
func WriteFile(path string, wb *inventory.Workbook) error {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			klog.Errorf("Failed to close workbook writer: %v", err)
		}
	}()

	for _, sheet := range wb.Sheets {
		if _, err := f.NewSheet(sheet.Name); err != nil {
			return errors.Wrapf(err, "create sheet %s", sheet.Name)
		}
		if err := writeSheet(f, sheet); err != nil {
			return errors.Wrapf(err, "write sheet %s", sheet.Name)
		}
	}

	// drop the default tab unless the workbook genuinely has one
	if wb.Sheet("Sheet1") == nil {
		if err := f.DeleteSheet("Sheet1"); err != nil {
			return errors.Wrap(err, "delete default sheet")
		}
	}

	if err := f.SaveAs(path); err != nil {
		return errors.Wrapf(err, "save %s", path)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet *inventory.Sheet) error {
	if len(sheet.Columns) == 0 {
		return nil
	}
	header := make([]interface{}, len(sheet.Columns))
	for i, column := range sheet.Columns {
		header[i] = column
	}
	if err := f.SetSheetRow(sheet.Name, "A1", &header); err != nil {
		return err
	}

	for i, row := range sheet.Rows {
		values := make([]interface{}, len(sheet.Columns))
		for j, column := range sheet.Columns {
			values[j] = row.Get(column)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet.Name, cell, &values); err != nil {
			return err
		}
	}
	return nil
}
