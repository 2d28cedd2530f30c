package fees

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"hostel-portal/internal/listing"
	"hostel-portal/internal/models"
	"hostel-portal/internal/pages"
)

type Page struct {
	*listing.Controller[models.Fee, models.FeeStats]
	client pages.Backend
	role   models.Role
}

var (
	_ pages.View        = (*Page)(nil)
	_ pages.Creator     = (*Page)(nil)
	_ pages.Updater     = (*Page)(nil)
	_ pages.Deleter     = (*Page)(nil)
	_ pages.BulkUpdater = (*Page)(nil)
)

func New(d pages.Deps) *Page {
	role := d.Role()
	ep := endpointsFor(role)

	var stats listing.StatsFunc[models.FeeStats]
	if ep.stats != "" {
		stats = listing.HTTPStats[models.FeeStats](d.Client, ep.stats)
	}
	opts := pages.Bind(d, Resource, defaultItemsPerPage,
		listing.HTTPList[models.Fee](d.Client, ep.list, Resource),
		stats, facets, defaultFilters(role, d.Block()))

	return &Page{Controller: listing.New(opts), client: d.Client, role: role}
}

func (p *Page) Name() string { return Resource }

func (p *Page) Allows(a pages.Action) bool { return permissions.Allows(p.role, a) }

func (p *Page) Summary() pages.Summary { return pages.Summarize(p.Snapshot()) }

func (p *Page) Table() pages.Table {
	snap := p.Snapshot()
	t := pages.Table{Columns: []string{"#", "Student", "Room", "Type", "Period", "Amount", "Paid", "Status", "Due"}}
	for i, f := range snap.Items {
		t.Rows = append(t.Rows, []string{
			pages.Index(i),
			f.Student.DisplayName(),
			pages.OrDash(strings.TrimPrefix(f.Block+"-"+f.RoomNumber, "-")),
			f.FeeType,
			period(f),
			pages.Money(f.Amount),
			pages.Money(f.PaidAmount),
			f.Status,
			pages.Date(f.DueDate),
		})
	}
	return t
}

// Groups is the current page aggregated per room.
func (p *Page) Groups() pages.Table {
	t := pages.Table{Columns: []string{"Block", "Room", "Records", "Amount", "Paid", "Pending", "Students"}}
	for _, g := range GroupByRoom(p.Snapshot().Items) {
		t.Rows = append(t.Rows, []string{
			pages.OrDash(g.Block),
			g.RoomNumber,
			fmt.Sprint(g.Records),
			pages.Money(g.Amount),
			pages.Money(g.Paid),
			pages.Money(g.Pending),
			pages.OrDash(strings.Join(g.Students, ", ")),
		})
	}
	return t
}

func (p *Page) StatsPanel() []pages.Field {
	s := p.Snapshot().Stats
	return []pages.Field{
		{Label: "Records", Value: fmt.Sprint(s.Overview.TotalRecords)},
		{Label: "Billed", Value: pages.Money(s.Overview.TotalAmount)},
		{Label: "Collected", Value: pages.Money(s.Overview.CollectedAmount)},
		{Label: "Outstanding", Value: pages.Money(s.Overview.PendingAmount)},
		{Label: "Paid", Value: fmt.Sprint(s.ByStatus.Paid)},
		{Label: "Pending", Value: fmt.Sprint(s.ByStatus.Pending)},
		{Label: "Partial", Value: fmt.Sprint(s.ByStatus.Partial)},
		{Label: "Overdue", Value: fmt.Sprint(s.ByStatus.Overdue)},
	}
}

func (p *Page) Detail(i int) ([]pages.Field, bool) {
	f, ok := p.Item(i)
	if !ok {
		return nil, false
	}
	return []pages.Field{
		{Label: "Student", Value: f.Student.DisplayName()},
		{Label: "Block", Value: pages.OrDash(f.Block)},
		{Label: "Room", Value: pages.OrDash(f.RoomNumber)},
		{Label: "Type", Value: f.FeeType},
		{Label: "Period", Value: period(f)},
		{Label: "Amount", Value: pages.Money(f.Amount)},
		{Label: "Paid", Value: pages.Money(f.PaidAmount)},
		{Label: "Outstanding", Value: pages.Money(f.Outstanding())},
		{Label: "Status", Value: f.Status},
		{Label: "Due", Value: pages.Date(f.DueDate)},
		{Label: "Paid on", Value: pages.DatePtr(f.PaidAt)},
	}, true
}

func (p *Page) CreateFrom(ctx context.Context, fields map[string]string) error {
	if !p.Allows(pages.ActionCreate) {
		return pages.ErrNotPermitted
	}
	payload := pages.BuildPayload(fields, createSchema)
	return p.Create(ctx, listing.Mutation{
		Payload: payload,
		Call: func(ctx context.Context) error {
			return p.client.SendJSON(ctx, http.MethodPost, basePath, payload, nil)
		},
		Success: "Fee record created",
		Failure: "Failed to create fee record",
	})
}

// UpdateRow records a payment or corrects a fee record.
func (p *Page) UpdateRow(ctx context.Context, i int, fields map[string]string) error {
	if !p.Allows(pages.ActionUpdate) {
		return pages.ErrNotPermitted
	}
	f, ok := p.Item(i)
	if !ok {
		return pages.NoSuchRow(i)
	}
	payload := pages.BuildPayload(fields, updateSchema)
	if len(payload) == 0 {
		return pages.Invalid("nothing to update; use amount=, paidAmount=, status= or dueDate=")
	}
	if s, ok := payload["status"].(string); ok && !validStatus(s) {
		return pages.Invalid("status must be one of %s", strings.Join(statuses, ", "))
	}
	return p.Update(ctx, listing.Mutation{
		Call: func(ctx context.Context) error {
			return p.client.SendJSON(ctx, http.MethodPut, pages.ItemPath(basePath, f.ID), payload, nil)
		},
		Success: "Fee record updated",
		Failure: "Failed to update fee record",
	})
}

func (p *Page) BulkUpdateRows(ctx context.Context, rows []int, fields map[string]string) error {
	if !p.Allows(pages.ActionBulk) {
		return pages.ErrNotPermitted
	}
	status := fields["status"]
	if !validStatus(status) {
		return pages.Invalid("status must be one of %s", strings.Join(statuses, ", "))
	}
	items, err := pages.Rows(p.Item, rows)
	if err != nil {
		return err
	}
	ids := make([]string, len(items))
	for i, f := range items {
		ids[i] = f.ID
	}
	body := map[string]interface{}{"feeIds": ids, "status": status}
	return p.BulkUpdate(ctx, listing.Mutation{
		Call: func(ctx context.Context) error {
			return p.client.SendJSON(ctx, http.MethodPut, basePath+"/bulk-update", body, nil)
		},
		Prompt: &listing.Prompt{
			Title:        "Update fee records",
			Message:      fmt.Sprintf("Mark %d fee record(s) as %s?", len(ids), status),
			ConfirmLabel: "Update",
			Severity:     listing.SeverityWarning,
		},
		Success: fmt.Sprintf("%d fee record(s) updated", len(ids)),
		Failure: "Failed to update fee records",
	})
}

func (p *Page) DeleteRow(ctx context.Context, i int) error {
	if !p.Allows(pages.ActionDelete) {
		return pages.ErrNotPermitted
	}
	f, ok := p.Item(i)
	if !ok {
		return pages.NoSuchRow(i)
	}
	return p.Delete(ctx, listing.Mutation{
		Call: func(ctx context.Context) error {
			return p.client.SendJSON(ctx, http.MethodDelete, pages.ItemPath(basePath, f.ID), nil, nil)
		},
		Prompt: &listing.Prompt{
			Title:        "Delete fee record",
			Message:      fmt.Sprintf("Delete the %s fee of %s for %s?", f.FeeType, pages.Money(f.Amount), f.Student.DisplayName()),
			ConfirmLabel: "Delete",
			Severity:     listing.SeverityDanger,
		},
		Success: "Fee record deleted",
		Failure: "Failed to delete fee record",
	})
}

func period(f models.Fee) string {
	switch {
	case f.Month != "" && f.Year != 0:
		return fmt.Sprintf("%s %d", f.Month, f.Year)
	case f.Year != 0:
		return fmt.Sprint(f.Year)
	default:
		return pages.OrDash(f.Month)
	}
}
