// Package export renders listings as downloadable documents.
package export

import (
	"fmt"
	"io"

	"github.com/fieldops/backend/internal/application/material"
	"github.com/xuri/excelize/v2"
)

const (
	materialsSheet = "Materials"
	summarySheet   = "Summary"
	timestampFmt   = "2006-01-02 15:04"
)

var (
	materialHeaders = []any{"ID", "Type", "Label", "Work Order", "Quantity", "Created At"}
	summaryHeaders  = []any{"Label", "Total Quantity", "Items"}
)

// XLSXWriter writes material workbooks with excelize
type XLSXWriter struct{}

// NewXLSXWriter creates a new XLSXWriter
func NewXLSXWriter() *XLSXWriter {
	return &XLSXWriter{}
}

// WriteMaterials writes a two sheet workbook: one row per item, then totals per label
func (x *XLSXWriter) WriteMaterials(w io.Writer, items []material.ItemResponse, summary []material.SummaryResponse) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", materialsSheet); err != nil {
		return fmt.Errorf("export: rename sheet: %w", err)
	}
	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("export: create sheet: %w", err)
	}

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("export: header style: %w", err)
	}

	itemRows := make([][]any, 0, len(items))
	for _, item := range items {
		itemRows = append(itemRows, []any{
			item.ID.String(),
			item.Type,
			item.Label,
			item.WorkOrder,
			item.Quantity.InexactFloat64(),
			item.CreatedAt.UTC().Format(timestampFmt),
		})
	}
	if err := writeSheet(f, materialsSheet, header, materialHeaders, itemRows); err != nil {
		return err
	}

	summaryRows := make([][]any, 0, len(summary))
	for _, s := range summary {
		summaryRows = append(summaryRows, []any{s.Label, s.Quantity.InexactFloat64(), s.ItemCount})
	}
	if err := writeSheet(f, summarySheet, header, summaryHeaders, summaryRows); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("export: write workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, headerStyle int, headers []any, rows [][]any) error {
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return fmt.Errorf("export: %s header: %w", sheet, err)
	}
	last, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("export: %s header style: %w", sheet, err)
	}

	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			return fmt.Errorf("export: %s row %d: %w", sheet, i+2, err)
		}
	}

	lastCol, err := excelize.ColumnNumberToName(len(headers))
	if err != nil {
		return err
	}
	return f.SetColWidth(sheet, "A", lastCol, 20)
}

var _ material.Spreadsheet = (*XLSXWriter)(nil)
