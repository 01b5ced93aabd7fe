// Package repl is an interactive browser over the resource lists. Each
// resource is backed by a query.Query, so paging and filtering reuse the
// last result until the parameters change.
package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cast"

	"medequip-admin/internal/api"
	"medequip-admin/internal/app"
	"medequip-admin/internal/core"
	"medequip-admin/internal/query"
)

// Resources a session can browse.
const (
	Customers = "customers"
	Machines  = "machines"
	Services  = "services"
	Invoices  = "invoices"
	AMCs      = "amcs"
)

var resources = []string{Customers, Machines, Services, Invoices, AMCs}

var errExit = errors.New("exit")

// Session is one REPL run. It is not safe for concurrent use.
type Session struct {
	svc   app.ApplicationService
	in    *bufio.Scanner
	out   io.Writer
	print *Printer
	now   func() time.Time

	resource string
	opts     core.ListOptions
	tab      string
	last     core.Pagination

	customers *query.Query[core.ListOptions, []core.Customer]
	machines  *query.Query[core.ListOptions, *app.MachineListResult]
	services  *query.Query[core.ListOptions, []core.Service]
	invoices  *query.Query[query.InvoiceParams, *app.InvoiceListResult]
	amcs      *query.Query[core.ListOptions, []core.AMC]
	dashboard *query.Query[core.DateRange, *app.DashboardResult]
}

func NewSession(svc app.ApplicationService, in io.Reader, out io.Writer, currency string) *Session {
	return &Session{
		svc:       svc,
		in:        bufio.NewScanner(in),
		out:       out,
		print:     NewPrinter(out, currency),
		now:       time.Now,
		opts:      core.ListOptions{}.Normalize(),
		customers: query.Customers(svc),
		machines:  query.Machines(svc),
		services:  query.Services(svc),
		invoices:  query.Invoices(svc),
		amcs:      query.AMCs(svc),
		dashboard: query.Dashboard(svc),
	}
}

// Run reads commands until quit, end of input or ctx is done.
func (s *Session) Run(ctx context.Context) error {
	defer s.Close()
	fmt.Fprintln(s.out, "Medical Equipment Admin")
	fmt.Fprintln(s.out, "Type 'use <resource>' to browse, or 'help' for commands.")
	fmt.Fprintln(s.out, strings.Repeat("-", rule))

	for {
		fmt.Fprint(s.out, "\n> ")
		if !s.in.Scan() {
			fmt.Fprintln(s.out)
			return s.in.Err()
		}
		if ctx.Err() != nil {
			return nil
		}
		err := s.Exec(ctx, s.in.Text())
		if errors.Is(err, errExit) {
			fmt.Fprintln(s.out, "Goodbye!")
			return nil
		}
		s.report(err)
	}
}

// Close aborts any fetch still in flight.
func (s *Session) Close() {
	s.customers.Cancel()
	s.machines.Cancel()
	s.services.Cancel()
	s.invoices.Cancel()
	s.amcs.Cancel()
	s.dashboard.Cancel()
}

// report prints a command failure. Superseded fetches are dropped silently.
func (s *Session) report(err error) {
	switch {
	case err == nil, errors.Is(err, query.ErrSuperseded):
	case errors.Is(err, api.ErrUnauthorized):
		fmt.Fprintln(s.out, "Session expired. Run 'medadmin login' and start the REPL again.")
	default:
		fmt.Fprintf(s.out, "Error: %v\n", err)
	}
}

// Exec runs a single command line.
func (s *Session) Exec(ctx context.Context, line string) error {
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return nil
	}
	cmd := strings.ToLower(strings.TrimPrefix(tokens[0], "/"))
	args := tokens[1:]

	switch cmd {
	case "use", "u":
		if len(args) != 1 || !isResource(args[0]) {
			fmt.Fprintf(s.out, "Usage: use <%s>\n", strings.Join(resources, "|"))
			return nil
		}
		s.resource = strings.ToLower(args[0])
		s.opts = core.ListOptions{}.Normalize()
		s.tab = ""
		return s.load(ctx, true)

	case "page", "p":
		if len(args) != 1 {
			fmt.Fprintln(s.out, "Usage: page <n>")
			return nil
		}
		n, err := cast.ToIntE(args[0])
		if err != nil || n < 1 {
			fmt.Fprintf(s.out, "Invalid page: %s\n", args[0])
			return nil
		}
		return s.goTo(ctx, n)

	case "next", "n":
		if s.needResource() {
			return nil
		}
		if !s.last.HasNext() {
			fmt.Fprintln(s.out, "Already on the last page.")
			return nil
		}
		return s.goTo(ctx, s.opts.Page+1)

	case "prev":
		if s.needResource() {
			return nil
		}
		if !s.last.HasPrev() {
			fmt.Fprintln(s.out, "Already on the first page.")
			return nil
		}
		return s.goTo(ctx, s.opts.Page-1)

	case "search", "s":
		if s.needResource() {
			return nil
		}
		s.opts.Search = strings.Join(args, " ")
		s.opts.Page = 1
		return s.load(ctx, false)

	case "status":
		if s.needResource() {
			return nil
		}
		status := ""
		if len(args) > 0 {
			status = strings.ToLower(args[0])
		}
		if s.resource == Invoices {
			s.tab = status
		} else {
			s.opts.Status = status
		}
		s.opts.Page = 1
		return s.load(ctx, false)

	case "refresh", "r":
		if s.needResource() {
			return nil
		}
		return s.load(ctx, true)

	case "stats":
		return s.stats(ctx)

	case "dashboard", "d":
		rng, ok, err := s.period(args)
		if !ok {
			fmt.Fprintln(s.out, "Usage: dashboard [this-month|last-month|this-year|custom <start> <end>]")
			return nil
		}
		if err != nil {
			return err
		}
		st, err := fetch(ctx, s.dashboard, rng, true)
		if err != nil {
			return err
		}
		s.print.Dashboard(st.Data)
		return nil

	case "pay":
		if len(args) != 2 {
			fmt.Fprintln(s.out, "Usage: pay <invoice-id> <amount>")
			return nil
		}
		res, err := s.svc.ApplyPayment(ctx, args[0], args[1])
		if err != nil {
			return err
		}
		s.print.Payment(res)
		if s.resource == Invoices {
			return s.load(ctx, true)
		}
		return nil

	case "help", "h", "?":
		s.help()
		return nil

	case "quit", "exit", "q":
		return errExit

	default:
		fmt.Fprintf(s.out, "Unknown command: %s  (type help for all commands)\n", cmd)
		return nil
	}
}

func (s *Session) goTo(ctx context.Context, page int) error {
	if s.needResource() {
		return nil
	}
	s.opts.Page = page
	return s.load(ctx, false)
}

func (s *Session) needResource() bool {
	if s.resource == "" {
		fmt.Fprintln(s.out, "Pick a list first: use <resource>")
		return true
	}
	return false
}

// load fetches the current resource page and prints it. force re-fetches
// even when the parameters have not changed.
func (s *Session) load(ctx context.Context, force bool) error {
	switch s.resource {
	case Customers:
		st, err := fetch(ctx, s.customers, s.opts, force)
		if err != nil {
			return err
		}
		s.last = st.Pagination
		s.print.Customers(st.Data, st.Pagination)
	case Machines:
		st, err := fetch(ctx, s.machines, s.opts, force)
		if err != nil {
			return err
		}
		s.last = st.Pagination
		s.print.Machines(st.Data)
	case Services:
		st, err := fetch(ctx, s.services, s.opts, force)
		if err != nil {
			return err
		}
		s.last = st.Pagination
		s.print.Services(st.Data, st.Pagination)
	case Invoices:
		st, err := fetch(ctx, s.invoices, query.InvoiceParams{Options: s.opts, Tab: s.tab}, force)
		if err != nil {
			return err
		}
		s.last = st.Pagination
		s.print.Invoices(st.Data)
	case AMCs:
		st, err := fetch(ctx, s.amcs, s.opts, force)
		// A failed AMC fetch resets pagination, so take it either way.
		s.last = st.Pagination
		if err != nil {
			return err
		}
		s.print.AMCs(st.Data, st.Pagination, s.now())
	}
	return nil
}

func fetch[P comparable, T any](ctx context.Context, q *query.Query[P, T], params P, force bool) (query.State[P, T], error) {
	if force && q.Snapshot().Params == params {
		return q.Refetch(ctx)
	}
	return q.SetParams(ctx, params)
}

// stats shows payment totals for invoices and the contract overview for AMCs.
func (s *Session) stats(ctx context.Context) error {
	switch s.resource {
	case Invoices:
		st, err := fetch(ctx, s.invoices, query.InvoiceParams{Options: s.opts, Tab: s.tab}, false)
		if err != nil {
			return err
		}
		s.print.InvoiceStats(st.Data.Stats)
	case AMCs:
		ov, err := s.svc.AMCOverview(ctx)
		if err != nil {
			return err
		}
		s.print.AMCOverview(ov, s.now())
	default:
		fmt.Fprintln(s.out, "stats is available after 'use invoices' or 'use amcs'.")
	}
	return nil
}

// period resolves dashboard arguments to a date range. ok is false when the
// arguments do not name a preset.
func (s *Session) period(args []string) (rng core.DateRange, ok bool, err error) {
	preset := core.PresetThisMonth
	if len(args) > 0 {
		preset = strings.ToLower(args[0])
	}
	var start, end string
	switch preset {
	case core.PresetThisMonth, core.PresetLastMonth, core.PresetThisYear:
		if len(args) > 1 {
			return core.DateRange{}, false, nil
		}
	case core.PresetCustom:
		if len(args) != 3 {
			return core.DateRange{}, false, nil
		}
		start, end = args[1], args[2]
	default:
		return core.DateRange{}, false, nil
	}
	rng, err = core.RangeFor(preset, s.now(), start, end)
	return rng, true, err
}

func (s *Session) help() {
	fmt.Fprintln(s.out, "Commands:")
	fmt.Fprintf(s.out, "  use <resource>      browse %s\n", strings.Join(resources, ", "))
	fmt.Fprintln(s.out, "  page <n> | next | prev")
	fmt.Fprintln(s.out, "  search <text>       filter the current list (empty clears)")
	fmt.Fprintln(s.out, "  status <value>      status filter; invoice tabs: "+
		strings.Join([]string{core.TabAll, core.TabPaid, core.TabPending, core.TabPartial}, ", "))
	fmt.Fprintln(s.out, "  refresh             fetch the current page again")
	fmt.Fprintln(s.out, "  stats               invoice payment totals or AMC overview")
	fmt.Fprintln(s.out, "  pay <id> <amount>   record an invoice payment")
	fmt.Fprintln(s.out, "  dashboard [preset]  totals for this-month, last-month, this-year or custom <start> <end>")
	fmt.Fprintln(s.out, "  quit")
}

func isResource(name string) bool {
	name = strings.ToLower(name)
	for _, r := range resources {
		if r == name {
			return true
		}
	}
	return false
}
