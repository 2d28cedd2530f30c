package leaves

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
	*listing.Controller[models.Leave, models.LeaveStats]
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

	var stats listing.StatsFunc[models.LeaveStats]
	if ep.stats != "" {
		stats = listing.HTTPStats[models.LeaveStats](d.Client, ep.stats)
	}
	opts := pages.Bind(d, Resource, defaultItemsPerPage,
		listing.HTTPList[models.Leave](d.Client, ep.list, Resource),
		stats, facets, nil)

	return &Page{Controller: listing.New(opts), client: d.Client, role: role}
}

func (p *Page) Name() string { return Resource }

func (p *Page) Allows(a pages.Action) bool { return permissions.Allows(p.role, a) }

func (p *Page) Summary() pages.Summary { return pages.Summarize(p.Snapshot()) }

func (p *Page) Table() pages.Table {
	snap := p.Snapshot()
	t := pages.Table{Columns: []string{"#", "Student", "Type", "From", "To", "Days", "Status", "Reviewed by"}}
	for i, l := range snap.Items {
		reviewer := "-"
		if l.ReviewedBy != nil {
			reviewer = l.ReviewedBy.DisplayName()
		}
		t.Rows = append(t.Rows, []string{
			pages.Index(i),
			l.Student.DisplayName(),
			l.LeaveType,
			pages.Date(l.FromDate),
			pages.Date(l.ToDate),
			fmt.Sprint(l.Days()),
			l.Status,
			reviewer,
		})
	}
	return t
}

func (p *Page) StatsPanel() []pages.Field {
	s := p.Snapshot().Stats
	return []pages.Field{
		{Label: "Total", Value: fmt.Sprint(s.Overview.Total)},
		{Label: "Pending", Value: fmt.Sprint(s.Overview.Pending)},
		{Label: "Approved", Value: fmt.Sprint(s.Overview.Approved)},
		{Label: "Rejected", Value: fmt.Sprint(s.Overview.Rejected)},
		{Label: "Home", Value: fmt.Sprint(s.ByType.Home)},
		{Label: "Medical", Value: fmt.Sprint(s.ByType.Medical)},
		{Label: "Emergency", Value: fmt.Sprint(s.ByType.Emergency)},
	}
}

func (p *Page) Detail(i int) ([]pages.Field, bool) {
	l, ok := p.Item(i)
	if !ok {
		return nil, false
	}
	reviewer := "-"
	if l.ReviewedBy != nil {
		reviewer = l.ReviewedBy.DisplayName()
	}
	return []pages.Field{
		{Label: "Student", Value: l.Student.DisplayName()},
		{Label: "Type", Value: l.LeaveType},
		{Label: "From", Value: pages.Date(l.FromDate)},
		{Label: "To", Value: pages.Date(l.ToDate)},
		{Label: "Days", Value: fmt.Sprint(l.Days())},
		{Label: "Reason", Value: l.Reason},
		{Label: "Status", Value: l.Status},
		{Label: "Reviewed by", Value: reviewer},
		{Label: "Remarks", Value: pages.OrDash(l.Remarks)},
		{Label: "Applied", Value: pages.Date(l.CreatedAt)},
	}, true
}

func (p *Page) CreateFrom(ctx context.Context, fields map[string]string) error {
	if !p.Allows(pages.ActionCreate) {
		return pages.ErrNotPermitted
	}
	payload := pages.BuildPayload(fields, payloadSchema)
	return p.Create(ctx, listing.Mutation{
		Payload: payload,
		Call: func(ctx context.Context) error {
			return p.client.SendJSON(ctx, http.MethodPost, basePath, payload, nil)
		},
		Success: "Leave application submitted",
		Failure: "Failed to submit leave application",
	})
}

// SetRowStatus approves or rejects one application; note is sent as remarks.
func (p *Page) SetRowStatus(ctx context.Context, i int, status, note string) error {
	if !p.Allows(pages.ActionStatus) {
		return pages.ErrNotPermitted
	}
	if !validReview(status) {
		return pages.Invalid("status must be one of %s", strings.Join(reviewStatuses, ", "))
	}
	l, ok := p.Item(i)
	if !ok {
		return pages.NoSuchRow(i)
	}
	body := map[string]interface{}{"status": status}
	if note != "" {
		body["remarks"] = note
	}
	return p.Update(ctx, listing.Mutation{
		Action: "status",
		Call: func(ctx context.Context) error {
			return p.client.SendJSON(ctx, http.MethodPut, pages.ItemPath(basePath, l.ID, "status"), body, nil)
		},
		Success: fmt.Sprintf("Leave %s", status),
		Failure: "Failed to update leave status",
	})
}

func (p *Page) BulkUpdateRows(ctx context.Context, rows []int, fields map[string]string) error {
	if !p.Allows(pages.ActionBulk) {
		return pages.ErrNotPermitted
	}
	status := fields["status"]
	if !validReview(status) {
		return pages.Invalid("status must be one of %s", strings.Join(reviewStatuses, ", "))
	}
	items, err := pages.Rows(p.Item, rows)
	if err != nil {
		return err
	}
	ids := make([]string, len(items))
	for i, l := range items {
		ids[i] = l.ID
	}
	body := map[string]interface{}{"leaveIds": ids, "status": status}
	if r := fields["remarks"]; r != "" {
		body["remarks"] = r
	}
	severity := listing.SeverityInfo
	if status == "rejected" {
		severity = listing.SeverityWarning
	}
	return p.BulkUpdate(ctx, listing.Mutation{
		Call: func(ctx context.Context) error {
			return p.client.SendJSON(ctx, http.MethodPut, basePath+"/bulk-update", body, nil)
		},
		Prompt: &listing.Prompt{
			Title:        "Review leave applications",
			Message:      fmt.Sprintf("Mark %d application(s) as %s?", len(ids), status),
			ConfirmLabel: strings.ToUpper(status[:1]) + status[1:],
			Severity:     severity,
		},
		Success: fmt.Sprintf("%d application(s) %s", len(ids), status),
		Failure: "Failed to update leave applications",
	})
}

func (p *Page) DeleteRow(ctx context.Context, i int) error {
	if !p.Allows(pages.ActionDelete) {
		return pages.ErrNotPermitted
	}
	l, ok := p.Item(i)
	if !ok {
		return pages.NoSuchRow(i)
	}
	return p.Delete(ctx, listing.Mutation{
		Call: func(ctx context.Context) error {
			return p.client.SendJSON(ctx, http.MethodDelete, pages.ItemPath(basePath, l.ID), nil, nil)
		},
		Prompt: &listing.Prompt{
			Title:        "Cancel leave application",
			Message:      fmt.Sprintf("Cancel the %s leave from %s to %s?", l.LeaveType, pages.Date(l.FromDate), pages.Date(l.ToDate)),
			ConfirmLabel: "Cancel leave",
			Severity:     listing.SeverityDanger,
		},
		Success: "Leave application cancelled",
		Failure: "Failed to cancel leave application",
	})
}
