package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"medequip-admin/internal/core"
	"medequip-admin/internal/export"
	"medequip-admin/internal/logger"
)

func addPeriodFlags(cmd *cobra.Command) {
	cmd.Flags().String("preset", core.PresetThisMonth, "this-month, last-month, this-year or custom")
	cmd.Flags().String("start", "", "Start date for --preset custom (YYYY-MM-DD)")
	cmd.Flags().String("end", "", "End date for --preset custom (YYYY-MM-DD)")
}

func (r *runner) period(cmd *cobra.Command) (core.DateRange, error) {
	preset, _ := cmd.Flags().GetString("preset")
	start, _ := cmd.Flags().GetString("start")
	end, _ := cmd.Flags().GetString("end")
	return core.RangeFor(preset, r.now(), start, end)
}

func (r *runner) dashboardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Headline figures, revenue by month and reminders",
		Example: `  medadmin dashboard
  medadmin dashboard --preset custom --start 2024-04-01 --end 2024-06-30`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rng, err := r.period(cmd)
			if err != nil {
				return err
			}
			res, err := r.Service.Dashboard(cmd.Context(), rng)
			if err != nil {
				return fmt.Errorf("dashboard: %w", err)
			}
			r.printer(cmd).Dashboard(res)
			return nil
		},
	}
	addPeriodFlags(cmd)
	return cmd
}

func (r *runner) reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Period report, optionally saved as an XLSX workbook",
		Long: `Fetch the summary report, upcoming services and overdue invoices for a
period. The three calls succeed or fail together.

With --xlsx the report is also written as a workbook with Summary, Top
Customers, Upcoming Services and Overdue Invoices sheets.`,
		Example: `  medadmin report --preset last-month
  medadmin report --preset this-year --xlsx report.xlsx`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rng, err := r.period(cmd)
			if err != nil {
				return err
			}
			res, err := r.Service.Report(cmd.Context(), rng)
			if err != nil {
				return fmt.Errorf("report: %w", err)
			}
			r.printer(cmd).Report(res)

			path, _ := cmd.Flags().GetString("xlsx")
			if path == "" {
				return nil
			}
			buf, err := export.ReportWorkbook(res)
			if err != nil {
				return err
			}
			if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
			log := logger.WithComponent("report")
			log.Info().
				Str("file", path).
				Str("start", rng.Start).
				Str("end", rng.End).
				Msg("report exported")
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", path)
			return nil
		},
	}
	addPeriodFlags(cmd)
	cmd.Flags().String("xlsx", "", "Also write the report to this .xlsx file")
	return cmd
}
