package announcements

import (
	"context"
	"fmt"
	"net/http"

	"hostel-portal/internal/listing"
	"hostel-portal/internal/models"
	"hostel-portal/internal/pages"
)

type Page struct {
	*listing.Controller[models.Announcement, models.AnnouncementStats]
	client pages.Backend
	role   models.Role
}

func New(d pages.Deps) *Page {
	role := d.Role()
	ep := endpointsFor(role)

	var stats listing.StatsFunc[models.AnnouncementStats]
	if ep.stats != "" {
		stats = listing.HTTPStats[models.AnnouncementStats](d.Client, ep.stats)
	}
	f := facets
	if !role.IsStaff() {
		f = facets[:3]
	}
	opts := pages.Bind(d, Resource, defaultItemsPerPage,
		listing.HTTPList[models.Announcement](d.Client, ep.list, Resource),
		stats, f, defaultFilters(role))

	return &Page{Controller: listing.New(opts), client: d.Client, role: role}
}

func (p *Page) Name() string { return Resource }

func (p *Page) Allows(a pages.Action) bool { return permissions.Allows(p.role, a) }

func (p *Page) Summary() pages.Summary { return pages.Summarize(p.Snapshot()) }

func (p *Page) Table() pages.Table {
	snap := p.Snapshot()
	t := pages.Table{Columns: []string{"#", "Title", "Category", "Priority", "Audience", "Active", "Expires", "Posted"}}
	for i, a := range snap.Items {
		t.Rows = append(t.Rows, []string{
			pages.Index(i),
			pages.Truncate(a.Title, 40),
			a.Category,
			a.Priority,
			a.TargetAudience,
			pages.YesNo(a.IsActive),
			pages.DatePtr(a.ExpiresAt),
			pages.Date(a.CreatedAt),
		})
	}
	return t
}

func (p *Page) StatsPanel() []pages.Field {
	s := p.Snapshot().Stats
	return []pages.Field{
		{Label: "Total", Value: fmt.Sprint(s.Overview.Total)},
		{Label: "Active", Value: fmt.Sprint(s.Overview.Active)},
		{Label: "Inactive", Value: fmt.Sprint(s.Overview.Inactive)},
		{Label: "Expired", Value: fmt.Sprint(s.Overview.Expired)},
		{Label: "Urgent", Value: fmt.Sprint(s.ByPriority.Urgent)},
		{Label: "High", Value: fmt.Sprint(s.ByPriority.High)},
		{Label: "Emergency", Value: fmt.Sprint(s.ByCategory.Emergency)},
		{Label: "Events", Value: fmt.Sprint(s.ByCategory.Event)},
	}
}

func (p *Page) Detail(i int) ([]pages.Field, bool) {
	a, ok := p.Item(i)
	if !ok {
		return nil, false
	}
	return []pages.Field{
		{Label: "Title", Value: a.Title},
		{Label: "Content", Value: a.Content},
		{Label: "Category", Value: a.Category},
		{Label: "Priority", Value: a.Priority},
		{Label: "Audience", Value: a.TargetAudience},
		{Label: "Active", Value: pages.YesNo(a.IsActive)},
		{Label: "Expires", Value: pages.DatePtr(a.ExpiresAt)},
		{Label: "Posted by", Value: a.CreatedBy.DisplayName()},
		{Label: "Posted", Value: pages.Date(a.CreatedAt)},
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
		Success: "Announcement published",
		Failure: "Failed to create announcement",
	})
}

func (p *Page) UpdateRow(ctx context.Context, i int, fields map[string]string) error {
	if !p.Allows(pages.ActionUpdate) {
		return pages.ErrNotPermitted
	}
	a, ok := p.Item(i)
	if !ok {
		return pages.NoSuchRow(i)
	}
	payload := pages.BuildPayload(fields, payloadSchema)
	return p.Update(ctx, listing.Mutation{
		Call: func(ctx context.Context) error {
			return p.client.SendJSON(ctx, http.MethodPut, pages.ItemPath(basePath, a.ID), payload, nil)
		},
		Success: "Announcement updated",
		Failure: "Failed to update announcement",
	})
}

func (p *Page) DeleteRow(ctx context.Context, i int) error {
	if !p.Allows(pages.ActionDelete) {
		return pages.ErrNotPermitted
	}
	a, ok := p.Item(i)
	if !ok {
		return pages.NoSuchRow(i)
	}
	return p.Delete(ctx, listing.Mutation{
		Call: func(ctx context.Context) error {
			return p.client.SendJSON(ctx, http.MethodDelete, pages.ItemPath(basePath, a.ID), nil, nil)
		},
		Prompt: &listing.Prompt{
			Title:        "Delete announcement",
			Message:      fmt.Sprintf("Delete %q? This cannot be undone.", a.Title),
			ConfirmLabel: "Delete",
			Severity:     listing.SeverityDanger,
		},
		Success: "Announcement deleted",
		Failure: "Failed to delete announcement",
	})
}

// ToggleRow flips the active flag in place.
func (p *Page) ToggleRow(ctx context.Context, i int) error {
	if !p.Allows(pages.ActionToggle) {
		return pages.ErrNotPermitted
	}
	a, ok := p.Item(i)
	if !ok {
		return pages.NoSuchRow(i)
	}
	verb := "activated"
	if a.IsActive {
		verb = "deactivated"
	}
	return p.Update(ctx, listing.Mutation{
		Action: "toggle",
		Call: func(ctx context.Context) error {
			return p.client.SendJSON(ctx, http.MethodPatch, pages.ItemPath(basePath, a.ID, "toggle"), nil, nil)
		},
		Success: "Announcement " + verb,
		Failure: "Failed to update announcement status",
	})
}

var (
	_ pages.View    = (*Page)(nil)
	_ pages.Creator = (*Page)(nil)
	_ pages.Updater = (*Page)(nil)
	_ pages.Deleter = (*Page)(nil)
	_ pages.Toggler = (*Page)(nil)
)
