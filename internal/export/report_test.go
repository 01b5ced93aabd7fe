package export_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"medequip-admin/internal/app"
	"medequip-admin/internal/core"
	"medequip-admin/internal/export"
)

func TestReportWorkbook(t *testing.T) {
	due, _ := core.ParseDate("2024-01-10")
	res := &app.ReportResult{
		Range: core.DateRange{Start: "2024-01-01", End: "2024-01-31"},
		Summary: core.ReportSummary{
			TotalRevenue: decimal.NewFromInt(1000),
			TotalCosts:   decimal.NewFromInt(600),
			Profit:       decimal.NewFromInt(400),
			TopCustomers: []core.TopCustomer{
				{CustomerName: "City Hospital", InvoicesCount: 2, TotalSpent: decimal.NewFromInt(1000)},
			},
			AMCStats: &core.ReportAMCStats{TotalContracts: 3},
		},
		OverdueInvoices: []core.Invoice{{
			InvoiceNumber: "INV-7",
			DueDate:       due,
			TotalAmount:   decimal.NewFromInt(500),
			PaidAmount:    decimal.NewFromInt(200),
			Customer:      &core.Customer{Name: "Lab One"},
		}},
		ProfitMargin: "40.0",
	}

	buf, err := export.ReportWorkbook(res)
	if err != nil {
		t.Fatalf("ReportWorkbook: %v", err)
	}
	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	want := []string{export.SheetSummary, export.SheetTop, export.SheetUpcoming, export.SheetOverdue}
	got := f.GetSheetList()
	if len(got) != len(want) {
		t.Fatalf("sheets = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sheet %d = %q, want %q", i, got[i], want[i])
		}
	}

	tests := []struct {
		sheet, cell, want string
	}{
		{export.SheetSummary, "A1", "Metric"},
		{export.SheetSummary, "B4", "1000"},
		{export.SheetSummary, "B7", "40.0"},
		{export.SheetSummary, "A13", "AMC contracts"},
		{export.SheetTop, "A2", "City Hospital"},
		{export.SheetOverdue, "B2", "Lab One"},
		{export.SheetOverdue, "C2", "2024-01-10"},
		{export.SheetOverdue, "F2", "300"},
	}
	for _, tt := range tests {
		v, err := f.GetCellValue(tt.sheet, tt.cell)
		if err != nil {
			t.Fatalf("%s!%s: %v", tt.sheet, tt.cell, err)
		}
		if v != tt.want {
			t.Errorf("%s!%s = %q, want %q", tt.sheet, tt.cell, v, tt.want)
		}
	}
}

func TestFileName(t *testing.T) {
	res := &app.ReportResult{Range: core.DateRange{Start: "2024-01-01", End: "2024-12-31"}}
	if got := export.FileName(res); got != "report_2024-01-01_2024-12-31.xlsx" {
		t.Errorf("FileName = %q", got)
	}
}
