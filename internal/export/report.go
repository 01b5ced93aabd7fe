// Package export renders reports as XLSX workbooks.
package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"medequip-admin/internal/app"
)

// ContentType is the MIME type of the workbooks produced here.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Sheet names, in workbook order.
const (
	SheetSummary  = "Summary"
	SheetTop      = "Top Customers"
	SheetUpcoming = "Upcoming Services"
	SheetOverdue  = "Overdue Invoices"
)

// FileName is the download name for a report over res.Range.
func FileName(res *app.ReportResult) string {
	return fmt.Sprintf("report_%s_%s.xlsx", res.Range.Start, res.Range.End)
}

// sheet is one worksheet: a styled header row followed by data rows.
type sheet struct {
	name    string
	headers []string
	rows    [][]any
}

// ReportWorkbook builds a four-sheet workbook from a loaded report. Money is
// written as numbers so the sheet can be summed.
func ReportWorkbook(res *app.ReportResult) (*bytes.Buffer, error) {
	s := res.Summary
	summary := sheet{
		name:    SheetSummary,
		headers: []string{"Metric", "Value"},
		rows: [][]any{
			{"Period start", res.Range.Start},
			{"Period end", res.Range.End},
			{"Total revenue", s.TotalRevenue.InexactFloat64()},
			{"Total costs", s.TotalCosts.InexactFloat64()},
			{"Profit", s.Profit.InexactFloat64()},
			{"Profit margin %", res.ProfitMargin},
			{"Invoices", s.InvoicesCount},
			{"Services", s.ServicesCount},
			{"Machines sold", s.MachinesSold},
			{"Machine sales revenue", s.RevenueByCategory.Machines.InexactFloat64()},
			{"Service revenue", s.RevenueByCategory.Services.InexactFloat64()},
		},
	}
	if a := s.AMCStats; a != nil {
		summary.rows = append(summary.rows,
			[]any{"AMC contracts", a.TotalContracts},
			[]any{"Active AMCs", a.ActiveContracts},
			[]any{"Expired AMCs", a.ExpiredContracts},
			[]any{"AMC value", a.TotalAMCValue.InexactFloat64()},
			[]any{"AMCs expiring in 30 days", a.Expiring30Days},
			[]any{"Services under AMC", a.ServicesUnderAMC},
		)
	}

	top := sheet{name: SheetTop, headers: []string{"Customer", "Invoices", "Total Spent"}}
	for _, c := range s.TopCustomers {
		top.rows = append(top.rows, []any{c.CustomerName, c.InvoicesCount, c.TotalSpent.InexactFloat64()})
	}

	upcoming := sheet{name: SheetUpcoming, headers: []string{"Date", "Customer", "Machine", "Type", "Status", "Cost"}}
	for _, sv := range res.UpcomingServices {
		upcoming.rows = append(upcoming.rows, []any{
			sv.ServiceDate.String(), sv.CustomerName(), sv.MachineName(),
			label(string(sv.ServiceType)), label(string(sv.Status)), sv.Cost.InexactFloat64(),
		})
	}

	overdue := sheet{name: SheetOverdue, headers: []string{"Invoice", "Customer", "Due Date", "Total", "Paid", "Outstanding"}}
	for _, inv := range res.OverdueInvoices {
		overdue.rows = append(overdue.rows, []any{
			inv.InvoiceNumber, inv.CustomerName(), inv.DueDate.String(),
			inv.TotalAmount.InexactFloat64(), inv.PaidAmount.InexactFloat64(), inv.Outstanding().InexactFloat64(),
		})
	}

	return write([]sheet{summary, top, upcoming, overdue})
}

func write(sheets []sheet) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6E6FA"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	for i, sh := range sheets {
		if i == 0 {
			// A new workbook starts with one default sheet.
			if err := f.SetSheetName(f.GetSheetName(0), sh.name); err != nil {
				return nil, fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(sh.name); err != nil {
			return nil, fmt.Errorf("create sheet %s: %w", sh.name, err)
		}
		if err := fill(f, sh, headerStyle); err != nil {
			return nil, err
		}
	}
	f.SetActiveSheet(0)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return &buf, nil
}

func fill(f *excelize.File, sh sheet, headerStyle int) error {
	for col, header := range sh.headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sh.name, cell, header); err != nil {
			return fmt.Errorf("%s header: %w", sh.name, err)
		}
	}
	if err := f.SetRowStyle(sh.name, 1, 1, headerStyle); err != nil {
		return fmt.Errorf("%s header style: %w", sh.name, err)
	}
	for i, row := range sh.rows {
		for col, v := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sh.name, cell, v); err != nil {
				return fmt.Errorf("%s row %d: %w", sh.name, i+1, err)
			}
		}
	}
	last, err := excelize.ColumnNumberToName(len(sh.headers))
	if err != nil {
		return err
	}
	return f.SetColWidth(sh.name, "A", last, 20)
}

func label(s string) string {
	s = strings.ReplaceAll(s, "_", " ")
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
