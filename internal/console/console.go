// Package console is the interactive terminal front end. It opens one list
// view at a time, maps typed commands onto the view's controller and
// renders the result as tables.
package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"hostel-portal/internal/common/logger"
	"hostel-portal/internal/models"
	"hostel-portal/internal/pages"
	"hostel-portal/internal/pages/dashboard"
)

var errUsage = errors.New("usage")

type command struct {
	usage string
	help  string
	// view marks commands that need an open list view.
	view bool
	run  func(c *Console, ctx context.Context, args []string) error
}

// Console is not safe for concurrent Execute calls; asynchronous results
// from debounced queries only print.
type Console struct {
	deps pages.Deps
	in   *lineReader
	log  logger.Logger

	outMu sync.Mutex
	out   io.Writer

	view     pages.View
	awaiting atomic.Bool
	commands map[string]command
}

// New builds a console for the signed-in user in deps. The notifier,
// confirmer and change hook in deps are replaced by console ones.
func New(in io.Reader, out io.Writer, deps pages.Deps) *Console {
	c := &Console{in: newLineReader(in), out: out, log: deps.Logger}
	if c.log == nil {
		c.log = logger.NewNoOpLogger()
	}
	deps.Notifier = toaster{c}
	deps.Confirmer = promptConfirmer{c}
	deps.OnChange = c.changed
	c.deps = deps
	c.commands = commandTable()
	return c
}

// Run reads commands until quit, end of input or ctx is cancelled.
func (c *Console) Run(ctx context.Context) error {
	c.greet(ctx)
	defer c.closeView()
	for {
		c.printf("%s> ", c.promptName())
		line, ok := c.in.ReadLine(ctx)
		if !ok {
			c.printf("\n")
			return ctx.Err()
		}
		if quit := c.Execute(ctx, line); quit {
			return nil
		}
	}
}

func (c *Console) greet(ctx context.Context) {
	u := c.deps.User
	if u != nil {
		c.printf("Signed in as %s (%s)\n", u.Name, u.Role)
	}
	c.showDashboard(ctx)
	c.printf("Type 'views' to list views, 'help' for commands.\n")
}

func (c *Console) promptName() string {
	if c.view == nil {
		return "hostel"
	}
	return c.view.Name()
}

// Execute runs one command line and reports whether the user asked to quit.
func (c *Console) Execute(ctx context.Context, line string) bool {
	words, err := Split(line)
	if err != nil {
		c.printf("error: %v\n", err)
		return false
	}
	if len(words) == 0 {
		return false
	}
	name, args := strings.ToLower(words[0]), words[1:]
	if name == "quit" || name == "exit" {
		return true
	}

	cmd, ok := c.commands[name]
	if !ok {
		c.printf("unknown command %q, try 'help'\n", name)
		return false
	}
	if cmd.view && c.view == nil {
		c.printf("open a view first, e.g. 'view complaints'\n")
		return false
	}

	err = cmd.run(c, ctx, args)
	switch {
	case err == nil:
	case errors.Is(err, errUsage):
		c.printf("usage: %s\n", cmd.usage)
	case errors.Is(err, pages.ErrNotPermitted):
		c.printf("error: your role cannot %s here\n", name)
	case errors.Is(err, pages.ErrNotApplicable):
		c.printf("error: %s is not available in %s\n", name, c.view.Name())
	case pages.IsInputError(err):
		c.printf("error: %v\n", err)
	default:
		// Already reported through the notifier.
		c.log.Debug("command failed", map[string]interface{}{"command": name, "error": err.Error()})
	}
	return false
}

// changed is the controller hook. Results of debounced edits arrive after
// the command returned, so they are rendered here.
func (c *Console) changed() {
	if c.awaiting.CompareAndSwap(true, false) {
		c.render()
	}
}

func (c *Console) render() {
	if c.view == nil {
		return
	}
	c.outMu.Lock()
	defer c.outMu.Unlock()
	renderView(c.out, c.view)
}

// edited renders now when the edit fetched inline, or waits for the
// debounced result.
func (c *Console) edited() {
	if c.deps.Debounce > 0 {
		c.awaiting.Store(true)
		return
	}
	c.render()
}

func (c *Console) openView(ctx context.Context, name string) error {
	spec, ok := lookupView(c.role(), name)
	if !ok {
		return pages.Invalid("no view %q for role %s; try 'views'", name, c.role())
	}
	c.closeView()
	c.view = spec.Open(c.deps)
	c.view.Load(ctx)
	c.render()
	return nil
}

func (c *Console) closeView() {
	if c.view != nil {
		c.view.Close()
		c.view = nil
	}
	c.awaiting.Store(false)
}

func (c *Console) role() models.Role { return c.deps.Role() }

func (c *Console) showDashboard(ctx context.Context) {
	panels := dashboard.New(c.deps).Load(ctx)
	c.outMu.Lock()
	defer c.outMu.Unlock()
	renderDashboard(c.out, panels)
}

// afterCreate prints credentials the backend echoed for a new account.
func (c *Console) afterCreate() {
	src, ok := c.view.(pages.CredentialSource)
	if !ok {
		return
	}
	if creds, ok := src.PopCredentials(); ok {
		c.printf("Login credentials (shown once):\n  email:    %s\n  password: %s\n", creds.Email, creds.Password)
	}
}

func rowArg(args []string, at int) (int, error) {
	if len(args) <= at {
		return 0, errUsage
	}
	i, err := ParseRow(args[at])
	if err != nil {
		return 0, pages.Invalid("%v", err)
	}
	return i, nil
}

func commandTable() map[string]command {
	return map[string]command{
		"help": {usage: "help", help: "list commands", run: (*Console).cmdHelp},
		"views": {usage: "views", help: "list the views you can open", run: func(c *Console, _ context.Context, _ []string) error {
			for _, v := range Available(c.role()) {
				c.printf("  %-14s %s\n", v.Name, v.Description)
			}
			return nil
		}},
		"view": {usage: "view <name>", help: "open a view at page 1", run: func(c *Console, ctx context.Context, args []string) error {
			if len(args) != 1 {
				return errUsage
			}
			return c.openView(ctx, strings.ToLower(args[0]))
		}},
		"dashboard": {usage: "dashboard", help: "show headline statistics", run: func(c *Console, ctx context.Context, _ []string) error {
			c.showDashboard(ctx)
			return nil
		}},
		"whoami": {usage: "whoami", help: "show the signed-in user", run: func(c *Console, _ context.Context, _ []string) error {
			u := c.deps.User
			if u == nil {
				return pages.Invalid("not signed in")
			}
			c.printf("%s <%s> role=%s block=%s\n", u.Name, u.Email, u.Role, pages.OrDash(u.Block))
			return nil
		}},
		"search": {usage: "search [term...]", help: "search the view; no term clears the search", view: true, run: func(c *Console, _ context.Context, args []string) error {
			c.view.SetSearch(strings.Join(args, " "))
			c.edited()
			return nil
		}},
		"filter": {usage: "filter <key> <value>", help: "set a filter; 'all' removes it", view: true, run: func(c *Console, _ context.Context, args []string) error {
			if len(args) == 0 {
				filters := c.view.Summary().Query.Filters
				c.outMu.Lock()
				defer c.outMu.Unlock()
				renderFacets(c.out, c.view.Facets(), filters)
				return nil
			}
			if len(args) < 2 {
				return errUsage
			}
			if err := c.view.SetFilter(args[0], strings.Join(args[1:], " ")); err != nil {
				return pages.Invalid("%v", err)
			}
			c.edited()
			return nil
		}},
		"clear": {usage: "clear", help: "reset search and filters to the defaults", view: true, run: func(c *Console, _ context.Context, _ []string) error {
			c.view.ClearFilters()
			c.edited()
			return nil
		}},
		"filters": {usage: "filters", help: "expand or collapse the filter panel", view: true, run: func(c *Console, _ context.Context, _ []string) error {
			c.view.ToggleFilters()
			c.render()
			return nil
		}},
		"page": {usage: "page <n>", help: "go to page n", view: true, run: func(c *Console, ctx context.Context, args []string) error {
			if len(args) != 1 {
				return errUsage
			}
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return pages.Invalid("page must be a number")
			}
			c.view.GoToPage(ctx, n)
			c.render()
			return nil
		}},
		"next": {usage: "next", help: "next page", view: true, run: func(c *Console, ctx context.Context, _ []string) error {
			if !c.view.Next(ctx) {
				return pages.Invalid("already on the last page")
			}
			c.render()
			return nil
		}},
		"prev": {usage: "prev", help: "previous page", view: true, run: func(c *Console, ctx context.Context, _ []string) error {
			if !c.view.Prev(ctx) {
				return pages.Invalid("already on the first page")
			}
			c.render()
			return nil
		}},
		"limit": {usage: "limit <n>", help: "change items per page", view: true, run: func(c *Console, ctx context.Context, args []string) error {
			pager, ok := c.view.(interface {
				SetItemsPerPage(ctx context.Context, n int)
			})
			if !ok {
				return pages.ErrNotApplicable
			}
			if len(args) != 1 {
				return errUsage
			}
			n, err := strconv.Atoi(args[0])
			if err != nil || n < 1 {
				return pages.Invalid("limit must be a positive number")
			}
			pager.SetItemsPerPage(ctx, n)
			c.render()
			return nil
		}},
		"refresh": {usage: "refresh", help: "reload the current page", view: true, run: func(c *Console, ctx context.Context, _ []string) error {
			c.view.Refresh(ctx)
			c.render()
			return nil
		}},
		"stats": {usage: "stats", help: "show or hide the statistics panel", view: true, run: func(c *Console, ctx context.Context, _ []string) error {
			if !c.view.HasStats() {
				return pages.ErrNotApplicable
			}
			c.view.ToggleStats(ctx)
			c.render()
			return nil
		}},
		"show": {usage: "show <row>", help: "show every field of a row", view: true, run: func(c *Console, _ context.Context, args []string) error {
			i, err := rowArg(args, 0)
			if err != nil {
				return err
			}
			fields, ok := c.view.Detail(i)
			if !ok {
				return pages.NoSuchRow(i)
			}
			c.outMu.Lock()
			defer c.outMu.Unlock()
			renderFields(c.out, fmt.Sprintf("%s #%d", c.view.Name(), i+1), fields)
			return nil
		}},
		"groups": {usage: "groups", help: "totals per room for the current page", view: true, run: func(c *Console, _ context.Context, _ []string) error {
			g, ok := c.view.(interface{ Groups() pages.Table })
			if !ok {
				return pages.ErrNotApplicable
			}
			c.outMu.Lock()
			defer c.outMu.Unlock()
			renderTable(c.out, g.Groups())
			return nil
		}},
		"create": {usage: "create key=value...", help: "create a record", view: true, run: func(c *Console, ctx context.Context, args []string) error {
			v, ok := c.view.(pages.Creator)
			if !ok {
				return pages.ErrNotApplicable
			}
			fields, rest := Fields(args)
			if len(fields) == 0 || len(rest) > 0 {
				return errUsage
			}
			if err := v.CreateFrom(ctx, fields); err != nil {
				return err
			}
			c.afterCreate()
			c.render()
			return nil
		}},
		"update": {usage: "update <row> key=value...", help: "edit a record", view: true, run: func(c *Console, ctx context.Context, args []string) error {
			v, ok := c.view.(pages.Updater)
			if !ok {
				return pages.ErrNotApplicable
			}
			i, err := rowArg(args, 0)
			if err != nil {
				return err
			}
			fields, _ := Fields(args[1:])
			if err := v.UpdateRow(ctx, i, fields); err != nil {
				return err
			}
			c.render()
			return nil
		}},
		"delete": {usage: "delete <row>", help: "delete a record after confirmation", view: true, run: func(c *Console, ctx context.Context, args []string) error {
			v, ok := c.view.(pages.Deleter)
			if !ok {
				return pages.ErrNotApplicable
			}
			i, err := rowArg(args, 0)
			if err != nil {
				return err
			}
			if err := v.DeleteRow(ctx, i); err != nil {
				return err
			}
			c.render()
			return nil
		}},
		"bulk": {usage: "bulk <rows> key=value...   rows like 1,3,5-7", help: "update several records at once", view: true, run: func(c *Console, ctx context.Context, args []string) error {
			v, ok := c.view.(pages.BulkUpdater)
			if !ok {
				return pages.ErrNotApplicable
			}
			if len(args) < 2 {
				return errUsage
			}
			rows, err := ParseRows(args[0])
			if err != nil {
				return pages.Invalid("%v", err)
			}
			fields, _ := Fields(args[1:])
			if err := v.BulkUpdateRows(ctx, rows, fields); err != nil {
				return err
			}
			c.render()
			return nil
		}},
		"toggle": {usage: "toggle <row>", help: "flip the active flag of a record", view: true, run: func(c *Console, ctx context.Context, args []string) error {
			v, ok := c.view.(pages.Toggler)
			if !ok {
				return pages.ErrNotApplicable
			}
			i, err := rowArg(args, 0)
			if err != nil {
				return err
			}
			if err := v.ToggleRow(ctx, i); err != nil {
				return err
			}
			c.render()
			return nil
		}},
		"status": {usage: "status <row> <status> [note...]", help: "review a record", view: true, run: func(c *Console, ctx context.Context, args []string) error {
			v, ok := c.view.(pages.StatusSetter)
			if !ok {
				return pages.ErrNotApplicable
			}
			i, err := rowArg(args, 0)
			if err != nil {
				return err
			}
			if len(args) < 2 {
				return errUsage
			}
			if err := v.SetRowStatus(ctx, i, args[1], strings.Join(args[2:], " ")); err != nil {
				return err
			}
			c.render()
			return nil
		}},
	}
}

func (c *Console) cmdHelp(_ context.Context, _ []string) error {
	names := []string{
		"views", "view", "dashboard", "whoami",
		"search", "filter", "clear", "filters",
		"page", "next", "prev", "limit", "refresh", "stats", "show", "groups",
		"create", "update", "delete", "bulk", "toggle", "status", "help",
	}
	for _, n := range names {
		cmd := c.commands[n]
		if cmd.view && c.view != nil && !c.offers(n) {
			continue
		}
		c.printf("  %-36s %s\n", cmd.usage, cmd.help)
	}
	c.printf("  %-36s %s\n", "quit", "leave the console")
	return nil
}

// offers reports whether the open view supports a mutation command for
// the signed-in role.
func (c *Console) offers(name string) bool {
	var has bool
	var action pages.Action
	switch name {
	case "create":
		_, has = c.view.(pages.Creator)
		action = pages.ActionCreate
	case "update":
		_, has = c.view.(pages.Updater)
		action = pages.ActionUpdate
	case "delete":
		_, has = c.view.(pages.Deleter)
		action = pages.ActionDelete
	case "bulk":
		_, has = c.view.(pages.BulkUpdater)
		action = pages.ActionBulk
	case "toggle":
		_, has = c.view.(pages.Toggler)
		action = pages.ActionToggle
	case "status":
		_, has = c.view.(pages.StatusSetter)
		action = pages.ActionStatus
	case "groups":
		_, has = c.view.(interface{ Groups() pages.Table })
		return has
	case "stats":
		return c.view.HasStats()
	default:
		return true
	}
	return has && c.view.Allows(action)
}
