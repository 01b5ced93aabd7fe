package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// Chart colours shared by the dashboard widgets.
const (
	ColorRevenue      = "#22c55e"
	ColorServiceCosts = "#ef4444"
	ColorMachineCosts = "#f97316"
	ColorProfit       = "#3b82f6"
	ColorStock        = "#94a3b8"
)

// SeriesPoint is one x-axis entry of the revenue line chart.
type SeriesPoint struct {
	Label   string  `json:"label"`
	Revenue float64 `json:"revenue"`
	Costs   float64 `json:"costs"`
	Profit  float64 `json:"profit"`
}

// RevenueSeries relabels the backend's monthly series for the chart: "2025-01" becomes "Jan 25".
// Months that do not parse keep their raw label.
func RevenueSeries(points []RevenuePoint) []SeriesPoint {
	out := make([]SeriesPoint, 0, len(points))
	for _, p := range points {
		label := p.Month
		if t, err := time.Parse("2006-01", p.Month); err == nil {
			label = t.Format("Jan 06")
		}
		out = append(out, SeriesPoint{
			Label:   label,
			Revenue: p.Revenue.InexactFloat64(),
			Costs:   p.Costs.InexactFloat64(),
			Profit:  p.Profit.InexactFloat64(),
		})
	}
	return out
}

// Slice is one wedge of a pie chart. Percent is the share of the pie, 0–100.
type Slice struct {
	Name    string
	Value   decimal.Decimal
	Color   string
	Percent float64
}

// RevenueSlices builds the revenue/costs/profit pie, dropping non-positive
// wedges. An empty result means there is nothing to chart for the period.
func RevenueSlices(s DashboardStats) []Slice {
	candidates := []Slice{
		{Name: "Revenue", Value: s.TotalRevenue, Color: ColorRevenue},
		{Name: "Service Costs", Value: s.ServiceCosts, Color: ColorServiceCosts},
		{Name: "Machine Costs", Value: s.MachineCosts, Color: ColorMachineCosts},
		{Name: "Profit", Value: s.Profit, Color: ColorProfit},
	}
	total := decimal.Zero
	out := make([]Slice, 0, len(candidates))
	for _, c := range candidates {
		if c.Value.IsPositive() {
			out = append(out, c)
			total = total.Add(c.Value)
		}
	}
	for i := range out {
		out[i].Percent = Percent(out[i].Value, total)
	}
	return out
}

// Bar is one bar of a bar chart. Percent is relative to the largest bar.
type Bar struct {
	Name    string
	Value   int
	Color   string
	Percent float64
}

// InventoryBars shapes the inventory breakdown into total/available/sold bars.
func InventoryBars(totalMachines int, b InventoryBreakdown) []Bar {
	bars := []Bar{
		{Name: "Total Machines", Value: totalMachines, Color: ColorStock},
		{Name: "Available", Value: b.Available, Color: ColorRevenue},
		{Name: "Sold", Value: b.Sold, Color: ColorServiceCosts},
	}
	max := 0
	for _, b := range bars {
		if b.Value > max {
			max = b.Value
		}
	}
	if max > 0 {
		for i := range bars {
			bars[i].Percent = float64(bars[i].Value) * 100 / float64(max)
		}
	}
	return bars
}

// Percent returns part/total×100, or 0 when total is not positive.
func Percent(part, total decimal.Decimal) float64 {
	if !total.IsPositive() {
		return 0
	}
	return part.Div(total).Mul(decimal.NewFromInt(100)).InexactFloat64()
}

// ProfitMargin formats profit/revenue as a percentage with one decimal,
// or "0" when there is no revenue.
func ProfitMargin(profit, revenue decimal.Decimal) string {
	if !revenue.IsPositive() {
		return "0"
	}
	return profit.Div(revenue).Mul(decimal.NewFromInt(100)).StringFixed(1)
}
