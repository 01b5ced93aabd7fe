package query

import (
	"context"

	"medequip-admin/internal/app"
	"medequip-admin/internal/core"
)

// InvoiceParams selects an invoice page and the tab shown over it.
type InvoiceParams struct {
	Options core.ListOptions
	Tab     string
}

func Customers(svc app.ApplicationService) *Query[core.ListOptions, []core.Customer] {
	return New(func(ctx context.Context, p core.ListOptions) ([]core.Customer, core.Pagination, error) {
		res, err := svc.ListCustomers(ctx, p)
		if err != nil {
			return nil, core.Pagination{}, err
		}
		return res.Items, res.Pagination, nil
	}, WithEmpty[core.ListOptions](emptySlice[core.Customer]))
}

func Machines(svc app.ApplicationService) *Query[core.ListOptions, *app.MachineListResult] {
	return New(func(ctx context.Context, p core.ListOptions) (*app.MachineListResult, core.Pagination, error) {
		res, err := svc.ListMachines(ctx, p)
		if err != nil {
			return nil, core.Pagination{}, err
		}
		return res, res.Pagination, nil
	})
}

func Services(svc app.ApplicationService) *Query[core.ListOptions, []core.Service] {
	return New(func(ctx context.Context, p core.ListOptions) ([]core.Service, core.Pagination, error) {
		res, err := svc.ListServices(ctx, p)
		if err != nil {
			return nil, core.Pagination{}, err
		}
		return res.Items, res.Pagination, nil
	}, WithEmpty[core.ListOptions](emptySlice[core.Service]))
}

func Invoices(svc app.ApplicationService) *Query[InvoiceParams, *app.InvoiceListResult] {
	return New(func(ctx context.Context, p InvoiceParams) (*app.InvoiceListResult, core.Pagination, error) {
		res, err := svc.ListInvoices(ctx, p.Options, p.Tab)
		if err != nil {
			return nil, core.Pagination{}, err
		}
		return res, res.Pagination, nil
	})
}

// AMCs resets pagination on failure, as the contracts pager expects.
func AMCs(svc app.ApplicationService) *Query[core.ListOptions, []core.AMC] {
	return New(func(ctx context.Context, p core.ListOptions) ([]core.AMC, core.Pagination, error) {
		res, err := svc.ListAMCs(ctx, p)
		if err != nil {
			return nil, core.Pagination{}, err
		}
		return res.Items, res.Pagination, nil
	}, WithEmpty[core.ListOptions](emptySlice[core.AMC]), WithResetPagination[core.ListOptions, []core.AMC]())
}

func Dashboard(svc app.ApplicationService) *Query[core.DateRange, *app.DashboardResult] {
	return New(func(ctx context.Context, r core.DateRange) (*app.DashboardResult, core.Pagination, error) {
		res, err := svc.Dashboard(ctx, r)
		if err != nil {
			return nil, core.Pagination{}, err
		}
		return res, core.Pagination{}, nil
	})
}

func emptySlice[T any]() []T { return []T{} }
