package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"medequip-admin/internal/core"
)

func addListFlags(cmd *cobra.Command, statusHelp string) {
	cmd.Flags().String("search", "", "Search text")
	cmd.Flags().String("status", "", statusHelp)
	cmd.Flags().Int("page", 1, "Page number")
	cmd.Flags().Int("limit", core.DefaultLimit, "Items per page")
}

func listOptions(cmd *cobra.Command) (core.ListOptions, error) {
	search, _ := cmd.Flags().GetString("search")
	status, _ := cmd.Flags().GetString("status")
	page, _ := cmd.Flags().GetInt("page")
	limit, _ := cmd.Flags().GetInt("limit")
	if page < 1 {
		return core.ListOptions{}, fmt.Errorf("page must be at least 1")
	}
	if limit < 1 || limit > 100 {
		return core.ListOptions{}, fmt.Errorf("limit must be between 1 and 100")
	}
	return core.ListOptions{
		Page:   page,
		Limit:  limit,
		Search: strings.TrimSpace(search),
		Status: strings.ToLower(status),
	}, nil
}

func group(use, short string, children ...*cobra.Command) *cobra.Command {
	cmd := &cobra.Command{Use: use, Short: short, Args: cobra.NoArgs}
	cmd.AddCommand(children...)
	return cmd
}

func (r *runner) customersCmd() *cobra.Command {
	list := &cobra.Command{
		Use:   "list",
		Short: "List customers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := listOptions(cmd)
			if err != nil {
				return err
			}
			res, err := r.Service.ListCustomers(cmd.Context(), opts)
			if err != nil {
				return fmt.Errorf("list customers: %w", err)
			}
			r.printer(cmd).Customers(res.Items, res.Pagination)
			return nil
		},
	}
	addListFlags(list, "Unused for customers")
	_ = list.Flags().MarkHidden("status")
	return group("customers", "Hospital and lab customers", list)
}

func (r *runner) machinesCmd() *cobra.Command {
	list := &cobra.Command{
		Use:   "list",
		Short: "List machines with stock figures",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := listOptions(cmd)
			if err != nil {
				return err
			}
			res, err := r.Service.ListMachines(cmd.Context(), opts)
			if err != nil {
				return fmt.Errorf("list machines: %w", err)
			}
			r.printer(cmd).Machines(res)
			return nil
		},
	}
	addListFlags(list, "available or sold")
	return group("machines", "Machine inventory", list)
}

func (r *runner) servicesCmd() *cobra.Command {
	list := &cobra.Command{
		Use:   "list",
		Short: "List service work orders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := listOptions(cmd)
			if err != nil {
				return err
			}
			opts.CustomerID, _ = cmd.Flags().GetString("customer")
			res, err := r.Service.ListServices(cmd.Context(), opts)
			if err != nil {
				return fmt.Errorf("list services: %w", err)
			}
			r.printer(cmd).Services(res.Items, res.Pagination)
			return nil
		},
	}
	addListFlags(list, "pending, in_progress or completed")
	list.Flags().String("customer", "", "Only services for this customer ID")
	return group("services", "Maintenance, repair and installation services", list)
}

func (r *runner) invoicesCmd() *cobra.Command {
	list := &cobra.Command{
		Use:   "list",
		Short: "List invoices with payment totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := listOptions(cmd)
			if err != nil {
				return err
			}
			tab := opts.Status
			opts.Status = ""
			res, err := r.Service.ListInvoices(cmd.Context(), opts, tab)
			if err != nil {
				return fmt.Errorf("list invoices: %w", err)
			}
			r.printer(cmd).Invoices(res)
			return nil
		},
	}
	addListFlags(list, "Tab: all, paid, pending or partial")

	stats := &cobra.Command{
		Use:   "stats",
		Short: "Payment totals for a page of invoices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := listOptions(cmd)
			if err != nil {
				return err
			}
			res, err := r.Service.ListInvoices(cmd.Context(), opts, core.TabAll)
			if err != nil {
				return fmt.Errorf("invoice stats: %w", err)
			}
			r.printer(cmd).InvoiceStats(res.Stats)
			return nil
		},
	}
	addListFlags(stats, "")
	_ = stats.Flags().MarkHidden("status")

	pay := &cobra.Command{
		Use:     "pay <invoice-id> <amount>",
		Short:   "Record a payment against an invoice",
		Example: "  medadmin invoices pay 65f1c2 2500",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := r.Service.ApplyPayment(cmd.Context(), args[0], args[1])
			if err != nil {
				return fmt.Errorf("record payment: %w", err)
			}
			r.printer(cmd).Payment(res)
			return nil
		},
	}

	markPaid := &cobra.Command{
		Use:   "mark-paid <invoice-id>",
		Short: "Mark an invoice fully paid",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := r.Service.MarkInvoicePaid(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("mark paid: %w", err)
			}
			r.printer(cmd).Payment(res)
			return nil
		},
	}

	return group("invoices", "Invoices and payments", list, stats, pay, markPaid)
}

func (r *runner) amcsCmd() *cobra.Command {
	list := &cobra.Command{
		Use:   "list",
		Short: "List AMC contracts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := listOptions(cmd)
			if err != nil {
				return err
			}
			opts.CustomerID, _ = cmd.Flags().GetString("customer")
			res, err := r.Service.ListAMCs(cmd.Context(), opts)
			if err != nil {
				return fmt.Errorf("list AMCs: %w", err)
			}
			r.printer(cmd).AMCs(res.Items, res.Pagination, r.now())
			return nil
		},
	}
	addListFlags(list, "active, expired, renewed or cancelled")
	list.Flags().String("customer", "", "Only contracts for this customer ID")

	expiring := &cobra.Command{
		Use:   "expiring",
		Short: "Contract statistics and contracts ending within 30 days",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ov, err := r.Service.AMCOverview(cmd.Context())
			if err != nil {
				return fmt.Errorf("AMC overview: %w", err)
			}
			r.printer(cmd).AMCOverview(ov, r.now())
			return nil
		},
	}

	remind := &cobra.Command{
		Use:   "remind <amc-id>",
		Short: "E-mail a renewal reminder to the contract's customer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := r.Service.SendRenewalReminder(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("send reminder: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Renewal reminder sent.")
			return nil
		},
	}

	return group("amcs", "Annual maintenance contracts", list, expiring, remind)
}
