package core

import "github.com/shopspring/decimal"

// InventorySummary is the header of the inventory page, derived from the
// machines currently loaded.
type InventorySummary struct {
	Available int
	Sold      int
	// CapitalValue is the selling price of every machine not yet sold.
	CapitalValue decimal.Decimal
}

func SummarizeInventory(machines []Machine) InventorySummary {
	var s InventorySummary
	for _, m := range machines {
		switch m.Status {
		case MachineAvailable:
			s.Available++
		case MachineSold:
			s.Sold++
		}
		if m.Status != MachineSold {
			s.CapitalValue = s.CapitalValue.Add(m.SellingPrice)
		}
	}
	return s
}

// CanSell reports whether the machine can be put on an invoice.
func (m Machine) CanSell() bool {
	return m.Status == MachineAvailable && m.StockQuantity > 0
}
