package service

import (
	"bytes"
	"context"
	"fmt"

	"github.com/jjenkins/fieldservice/internal/tracker"
	"github.com/xuri/excelize/v2"
)

// Sheet names in the territory workbook.
const (
	SheetTerritories = "Territories"
	SheetHistory     = "History"
)

// TerritoryReportHeader is the header row of the territories sheet.
var TerritoryReportHeader = []string{
	"Number",
	"Name",
	"Category",
	"Place Type",
	"Status",
	"Assignee",
	"Assigned Date",
	"Due Date",
	"Last Completed",
	"Address",
}

// HistoryReportHeader is the header row of the history sheet.
var HistoryReportHeader = []string{
	"Number",
	"Date",
	"Status",
	"Assigned To",
}

// ReportService renders spreadsheet exports.
type ReportService struct {
	base
	territories *TerritoryService
}

// TerritoryWorkbook writes every territory and its chronological history to
// an XLSX workbook.
func (r *ReportService) TerritoryWorkbook(ctx context.Context) ([]byte, error) {
	views, err := r.territories.List(ctx, TerritoryFilter{})
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(SheetTerritories)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	if _, err := f.NewSheet(SheetHistory); err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	territoryRows := make([][]any, 0, len(views))
	var historyRows [][]any
	for _, v := range views {
		territoryRows = append(territoryRows, []any{
			v.Number,
			v.Name,
			v.Category,
			v.PlaceType,
			v.Status.Label(),
			v.AssigneeName,
			v.AssignedDate,
			v.DueDate,
			v.LastCompleted,
			v.Address,
		})
		for _, e := range tracker.Chronological(v.History) {
			historyRows = append(historyRows, []any{v.Number, e.Date, e.Status.Label(), e.AssignedTo})
		}
	}

	if err := writeSheet(f, SheetTerritories, TerritoryReportHeader, territoryRows, headerStyle); err != nil {
		return nil, err
	}
	if err := writeSheet(f, SheetHistory, HistoryReportHeader, historyRows, headerStyle); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSheet(f *excelize.File, sheet string, header []string, rows [][]any, headerStyle int) error {
	headerRow := make([]any, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &headerRow); err != nil {
		return fmt.Errorf("failed to write header on %s: %w", sheet, err)
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return fmt.Errorf("failed to convert coordinates: %w", err)
	}
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("failed to set header style: %w", err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d on %s: %w", i+2, sheet, err)
		}
	}

	lastCol, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		return fmt.Errorf("failed to convert column: %w", err)
	}
	if err := f.SetColWidth(sheet, "A", lastCol, 16); err != nil {
		return fmt.Errorf("failed to set column width: %w", err)
	}
	return nil
}
