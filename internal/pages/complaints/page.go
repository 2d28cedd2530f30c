package complaints

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
	*listing.Controller[models.Complaint, models.ComplaintStats]
	client pages.Backend
	role   models.Role
}

var (
	_ pages.View         = (*Page)(nil)
	_ pages.Creator      = (*Page)(nil)
	_ pages.Deleter      = (*Page)(nil)
	_ pages.StatusSetter = (*Page)(nil)
	_ pages.BulkUpdater  = (*Page)(nil)
)

func New(d pages.Deps) *Page {
	role := d.Role()
	ep := endpointsFor(role)

	var stats listing.StatsFunc[models.ComplaintStats]
	if ep.stats != "" {
		stats = listing.HTTPStats[models.ComplaintStats](d.Client, ep.stats)
	}
	opts := pages.Bind(d, Resource, defaultItemsPerPage,
		listing.HTTPList[models.Complaint](d.Client, ep.list, Resource),
		stats, facets, nil)

	return &Page{Controller: listing.New(opts), client: d.Client, role: role}
}

func (p *Page) Name() string { return Resource }

func (p *Page) Allows(a pages.Action) bool { return permissions.Allows(p.role, a) }

func (p *Page) Summary() pages.Summary { return pages.Summarize(p.Snapshot()) }

func (p *Page) Table() pages.Table {
	snap := p.Snapshot()
	t := pages.Table{Columns: []string{"#", "Title", "Category", "Priority", "Status", "Student", "Room", "Filed"}}
	for i, c := range snap.Items {
		t.Rows = append(t.Rows, []string{
			pages.Index(i),
			pages.Truncate(c.Title, 36),
			c.Category,
			c.Priority,
			c.Status,
			c.Student.DisplayName(),
			pages.OrDash(c.RoomNumber),
			pages.Date(c.CreatedAt),
		})
	}
	return t
}

func (p *Page) StatsPanel() []pages.Field {
	s := p.Snapshot().Stats
	return []pages.Field{
		{Label: "Total", Value: fmt.Sprint(s.Overview.Total)},
		{Label: "Pending", Value: fmt.Sprint(s.Overview.Pending)},
		{Label: "In progress", Value: fmt.Sprint(s.Overview.InProgress)},
		{Label: "Resolved", Value: fmt.Sprint(s.Overview.Resolved)},
		{Label: "Rejected", Value: fmt.Sprint(s.Overview.Rejected)},
		{Label: "Urgent", Value: fmt.Sprint(s.ByPriority.Urgent)},
		{Label: "Electrical", Value: fmt.Sprint(s.ByCategory.Electrical)},
		{Label: "Plumbing", Value: fmt.Sprint(s.ByCategory.Plumbing)},
	}
}

func (p *Page) Detail(i int) ([]pages.Field, bool) {
	c, ok := p.Item(i)
	if !ok {
		return nil, false
	}
	return []pages.Field{
		{Label: "Title", Value: c.Title},
		{Label: "Description", Value: c.Description},
		{Label: "Category", Value: c.Category},
		{Label: "Priority", Value: c.Priority},
		{Label: "Status", Value: c.Status},
		{Label: "Student", Value: c.Student.DisplayName()},
		{Label: "Room", Value: pages.OrDash(c.RoomNumber)},
		{Label: "Resolution", Value: pages.OrDash(c.Resolution)},
		{Label: "Resolved", Value: pages.DatePtr(c.ResolvedAt)},
		{Label: "Filed", Value: pages.Date(c.CreatedAt)},
	}, true
}

func (p *Page) CreateFrom(ctx context.Context, fields map[string]string) error {
	if !p.Allows(pages.ActionCreate) {
		return pages.ErrNotPermitted
	}
	payload := pages.BuildPayload(fields, payloadSchema)
	if _, ok := payload["priority"]; !ok {
		payload["priority"] = "medium"
	}
	return p.Create(ctx, listing.Mutation{
		Payload: payload,
		Call: func(ctx context.Context) error {
			return p.client.SendJSON(ctx, http.MethodPost, basePath, payload, nil)
		},
		Success: "Complaint submitted",
		Failure: "Failed to submit complaint",
	})
}

// SetRowStatus moves one complaint through its workflow; note becomes the
// resolution text.
func (p *Page) SetRowStatus(ctx context.Context, i int, status, note string) error {
	if !p.Allows(pages.ActionStatus) {
		return pages.ErrNotPermitted
	}
	if !validStatus(status) {
		return pages.Invalid("status must be one of %s", strings.Join(statuses, ", "))
	}
	c, ok := p.Item(i)
	if !ok {
		return pages.NoSuchRow(i)
	}
	body := map[string]interface{}{"status": status}
	if note != "" {
		body["resolution"] = note
	}
	m := listing.Mutation{
		Action: "status",
		Call: func(ctx context.Context) error {
			return p.client.SendJSON(ctx, http.MethodPut, pages.ItemPath(basePath, c.ID), body, nil)
		},
		Success: fmt.Sprintf("Complaint marked %s", status),
		Failure: "Failed to update complaint",
	}
	if status == "rejected" {
		m.Prompt = &listing.Prompt{
			Title:        "Reject complaint",
			Message:      fmt.Sprintf("Reject %q?", c.Title),
			ConfirmLabel: "Reject",
			Severity:     listing.SeverityWarning,
		}
	}
	return p.Update(ctx, m)
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
	for i, c := range items {
		ids[i] = c.ID
	}
	body := map[string]interface{}{"complaintIds": ids, "status": status}
	if r := fields["resolution"]; r != "" {
		body["resolution"] = r
	}
	return p.BulkUpdate(ctx, listing.Mutation{
		Call: func(ctx context.Context) error {
			return p.client.SendJSON(ctx, http.MethodPut, basePath+"/bulk-update", body, nil)
		},
		Prompt: &listing.Prompt{
			Title:        "Update complaints",
			Message:      fmt.Sprintf("Mark %d complaint(s) as %s?", len(ids), status),
			ConfirmLabel: "Update",
			Severity:     listing.SeverityWarning,
		},
		Success: fmt.Sprintf("%d complaint(s) updated", len(ids)),
		Failure: "Failed to update complaints",
	})
}

func (p *Page) DeleteRow(ctx context.Context, i int) error {
	if !p.Allows(pages.ActionDelete) {
		return pages.ErrNotPermitted
	}
	c, ok := p.Item(i)
	if !ok {
		return pages.NoSuchRow(i)
	}
	return p.Delete(ctx, listing.Mutation{
		Call: func(ctx context.Context) error {
			return p.client.SendJSON(ctx, http.MethodDelete, pages.ItemPath(basePath, c.ID), nil, nil)
		},
		Prompt: &listing.Prompt{
			Title:        "Delete complaint",
			Message:      fmt.Sprintf("Delete %q? This cannot be undone.", c.Title),
			ConfirmLabel: "Delete",
			Severity:     listing.SeverityDanger,
		},
		Success: "Complaint deleted",
		Failure: "Failed to delete complaint",
	})
}
