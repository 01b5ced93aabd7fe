// Package cli is the medadmin command line. Every command goes through the
// same ApplicationService as the web dashboard; the backend token is kept in
// the TokenStore the service's client was built with.
package cli

import (
	"context"
	"errors"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"medequip-admin/internal/adapters/repl"
	"medequip-admin/internal/api"
	"medequip-admin/internal/app"
	"medequip-admin/internal/logger"
)

// Options wires the root command to its collaborators.
type Options struct {
	Service  app.ApplicationService
	Currency string
	Version  string
	// Serve runs the web dashboard until ctx is done. The serve command is
	// omitted when nil.
	Serve func(ctx context.Context) error
	// In is read for passwords and by the REPL. Defaults to os.Stdin.
	In io.Reader
	// Now defaults to time.Now.
	Now func() time.Time
}

type runner struct {
	Options
}

// NewRootCommand builds the medadmin command tree.
func NewRootCommand(opts Options) *cobra.Command {
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Version == "" {
		opts.Version = "dev"
	}
	r := &runner{Options: opts}

	root := &cobra.Command{
		Use:   "medadmin",
		Short: "Admin tools for the medical equipment sales and service backend",
		Long: `medadmin manages customers, inventory, services, invoices and AMC
contracts through the backend REST API.

Sign in once with "medadmin login"; the token is saved to TOKEN_FILE and
used by every other command until it expires or "medadmin logout" runs.

Environment:
  API_URL     backend base URL (default http://localhost:3001/api)
  TOKEN_FILE  where the session token is kept
  CURRENCY    INR or USD for amounts`,
		Version:       opts.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		r.loginCmd(),
		r.registerCmd(),
		r.logoutCmd(),
		r.customersCmd(),
		r.machinesCmd(),
		r.servicesCmd(),
		r.invoicesCmd(),
		r.amcsCmd(),
		r.dashboardCmd(),
		r.reportCmd(),
		r.replCmd(),
	)
	if opts.Serve != nil {
		root.AddCommand(r.serveCmd())
	}
	return root
}

// Execute runs root with ctx and logs a failure. It returns the process exit code.
func Execute(ctx context.Context, root *cobra.Command) int {
	if err := root.ExecuteContext(ctx); err != nil {
		log := logger.WithComponent("cmd")
		if errors.Is(err, api.ErrUnauthorized) {
			log.Error().Msg("not signed in or session expired; run 'medadmin login'")
		} else {
			log.Error().Err(err).Msg("command failed")
		}
		return 1
	}
	return 0
}

func (r *runner) printer(cmd *cobra.Command) *repl.Printer {
	return repl.NewPrinter(cmd.OutOrStdout(), r.Currency)
}

func (r *runner) replCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Browse lists interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return repl.NewSession(r.Service, r.In, cmd.OutOrStdout(), r.Currency).Run(cmd.Context())
		},
	}
}

func (r *runner) serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the web dashboard",
		Long: `Run the web dashboard on SERVER_PORT. JWT_SECRET must be set.
The server stops gracefully on interrupt.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.Serve(cmd.Context())
		},
	}
}

func (r *runner) now() time.Time { return r.Now() }
