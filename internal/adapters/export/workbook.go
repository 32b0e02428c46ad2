package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/andrescamacho/voyage-estimator/internal/domain/estimate"
)

const (
	ScheduleSheet = "Schedule"
	FinanceSheet  = "Finance"
)

var scheduleHeader = []string{
	"#", "Port", "Activity", "Speed", "Distance (nm)", "SECA (nm)",
	"Port days", "ETA", "ETD", "Additional costs",
}

// WriteEstimateWorkbook writes an xlsx workbook of one ship analysis: a
// Schedule sheet with one row per leg and a Finance sheet
func WriteEstimateWorkbook(w io.Writer, analysis estimate.ShipAnalysis, currency string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), ScheduleSheet); err != nil {
		return fmt.Errorf("failed to name schedule sheet: %w", err)
	}
	if _, err := f.NewSheet(FinanceSheet); err != nil {
		return fmt.Errorf("failed to create finance sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	if err := writeSchedule(f, analysis, bold); err != nil {
		return err
	}
	if err := writeFinance(f, analysis, currency, bold); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeSchedule(f *excelize.File, analysis estimate.ShipAnalysis, headerStyle int) error {
	grades := make([]string, 0, len(analysis.BunkerRates))
	for _, r := range analysis.BunkerRates {
		grades = append(grades, r.Grade)
	}

	header := make([]interface{}, 0, len(scheduleHeader)+len(grades))
	for _, h := range scheduleHeader {
		header = append(header, h)
	}
	for _, g := range grades {
		header = append(header, g+" (t)")
	}
	if err := setRow(f, ScheduleSheet, 1, header); err != nil {
		return err
	}
	if err := styleRow(f, ScheduleSheet, 1, len(header), headerStyle); err != nil {
		return err
	}

	for i, leg := range analysis.PortCalls {
		row := []interface{}{
			i + 1,
			leg.PortName,
			string(leg.Activity),
			string(leg.SpeedSetting),
			leg.Distance,
			leg.SecDistance,
			leg.PortDays,
			leg.ETA.String(),
			leg.ETD.String(),
			leg.AdditionalCosts,
		}
		for _, g := range grades {
			total := 0.0
			for _, c := range leg.BunkerConsumption {
				if strings.EqualFold(c.Grade, g) {
					total += c.Total()
				}
			}
			row = append(row, total)
		}
		if err := setRow(f, ScheduleSheet, i+2, row); err != nil {
			return err
		}
	}
	return f.SetColWidth(ScheduleSheet, "B", "B", 22)
}

func writeFinance(f *excelize.File, analysis estimate.ShipAnalysis, currency string, headerStyle int) error {
	m := analysis.Finance
	rows := [][]interface{}{
		{"Vessel", analysis.Vessel.Name},
		{"Currency", currency},
		{"Suitable", analysis.Suitable},
		{"Revenue", m.Revenue},
		{"Bunker cost", m.BunkerCost},
		{"Additional costs", m.AdditionalCosts},
		{"Voyage cost", m.VoyageCost},
		{"OpEx", m.OpEx},
		{"Final profit", m.FinalProfit},
		{"TCE", m.TCE},
		{"Sea days", m.SeaDays},
		{"Port days", m.PortDays},
		{"Total duration", m.TotalDuration},
		{"Margin %", m.Margin},
	}
	for i, row := range rows {
		if err := setRow(f, FinanceSheet, i+1, row); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(FinanceSheet, "A1", fmt.Sprintf("A%d", len(rows)), headerStyle); err != nil {
		return err
	}
	return f.SetColWidth(FinanceSheet, "A", "A", 20)
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write %s row %d: %w", sheet, row, err)
	}
	return nil
}

func styleRow(f *excelize.File, sheet string, row, columns, style int) error {
	first, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(columns, row)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, first, last, style)
}
