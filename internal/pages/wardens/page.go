package wardens

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"hostel-portal/internal/listing"
	"hostel-portal/internal/models"
	"hostel-portal/internal/pages"
)

const (
	Resource            = "wardens"
	defaultItemsPerPage = 10
	basePath            = "/wardens"
)

var facets = []listing.Facet{
	{Key: "block", Label: "Block"},
	{Key: "isActive", Label: "Active", Values: []string{"all", "true", "false"}},
}

var permissions = pages.Permissions{
	models.RoleAdmin: {pages.ActionCreate, pages.ActionUpdate, pages.ActionDelete, pages.ActionToggle},
}

var fieldKinds = map[string]pages.Kind{
	"name":     pages.KindString,
	"email":    pages.KindString,
	"phone":    pages.KindString,
	"block":    pages.KindString,
	"isActive": pages.KindBool,
}

// Page lists warden accounts. Only admins open it.
type Page struct {
	*listing.Controller[models.Warden, models.WardenStats]
	client pages.Backend
	role   models.Role

	mu          sync.Mutex
	credentials *models.Credentials
}

var (
	_ pages.View             = (*Page)(nil)
	_ pages.Creator          = (*Page)(nil)
	_ pages.Updater          = (*Page)(nil)
	_ pages.Deleter          = (*Page)(nil)
	_ pages.Toggler          = (*Page)(nil)
	_ pages.CredentialSource = (*Page)(nil)
)

func New(d pages.Deps) *Page {
	opts := pages.Bind(d, Resource, defaultItemsPerPage,
		listing.HTTPList[models.Warden](d.Client, basePath, Resource),
		listing.HTTPStats[models.WardenStats](d.Client, basePath+"/stats"),
		facets, nil)
	return &Page{Controller: listing.New(opts), client: d.Client, role: d.Role()}
}

func (p *Page) Name() string { return Resource }

func (p *Page) Allows(a pages.Action) bool { return permissions.Allows(p.role, a) }

func (p *Page) Summary() pages.Summary { return pages.Summarize(p.Snapshot()) }

func (p *Page) Table() pages.Table {
	snap := p.Snapshot()
	t := pages.Table{Columns: []string{"#", "Name", "Email", "Phone", "Block", "Active"}}
	for i, w := range snap.Items {
		t.Rows = append(t.Rows, []string{
			pages.Index(i),
			w.Name,
			w.Email,
			pages.OrDash(w.Phone),
			assignment(w),
			pages.YesNo(w.IsActive),
		})
	}
	return t
}

func (p *Page) StatsPanel() []pages.Field {
	s := p.Snapshot().Stats
	return []pages.Field{
		{Label: "Wardens", Value: fmt.Sprint(s.Overview.Total)},
		{Label: "Active", Value: fmt.Sprint(s.Overview.Active)},
		{Label: "Inactive", Value: fmt.Sprint(s.Overview.Inactive)},
		{Label: "Unassigned", Value: fmt.Sprint(s.Overview.Unassigned)},
	}
}

func (p *Page) Detail(i int) ([]pages.Field, bool) {
	w, ok := p.Item(i)
	if !ok {
		return nil, false
	}
	return []pages.Field{
		{Label: "Name", Value: w.Name},
		{Label: "Email", Value: w.Email},
		{Label: "Phone", Value: pages.OrDash(w.Phone)},
		{Label: "Block", Value: assignment(w)},
		{Label: "Active", Value: pages.YesNo(w.IsActive)},
		{Label: "Joined", Value: pages.Date(w.CreatedAt)},
	}, true
}

type createResponse struct {
	Warden      models.Warden       `json:"warden"`
	Credentials *models.Credentials `json:"credentials"`
}

func (p *Page) CreateFrom(ctx context.Context, fields map[string]string) error {
	if !p.Allows(pages.ActionCreate) {
		return pages.ErrNotPermitted
	}
	payload := pages.BuildPayload(fields, fieldKinds)
	delete(payload, "isActive")
	return p.Create(ctx, listing.Mutation{
		Payload: payload,
		Call: func(ctx context.Context) error {
			var out createResponse
			if err := p.client.SendJSON(ctx, http.MethodPost, basePath, payload, &out); err != nil {
				return err
			}
			if out.Credentials != nil {
				p.mu.Lock()
				p.credentials = out.Credentials
				p.mu.Unlock()
			}
			return nil
		},
		Success: "Warden created",
		Failure: "Failed to create warden",
	})
}

func (p *Page) PopCredentials() (models.Credentials, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.credentials == nil {
		return models.Credentials{}, false
	}
	c := *p.credentials
	p.credentials = nil
	return c, true
}

func (p *Page) UpdateRow(ctx context.Context, i int, fields map[string]string) error {
	if !p.Allows(pages.ActionUpdate) {
		return pages.ErrNotPermitted
	}
	w, ok := p.Item(i)
	if !ok {
		return pages.NoSuchRow(i)
	}
	payload := pages.BuildPayload(fields, fieldKinds)
	if len(payload) == 0 {
		return pages.Invalid("nothing to update for %s", w.Name)
	}
	return p.Update(ctx, listing.Mutation{
		Call: func(ctx context.Context) error {
			return p.client.SendJSON(ctx, http.MethodPut, pages.ItemPath(basePath, w.ID), payload, nil)
		},
		Success: fmt.Sprintf("%s updated", w.Name),
		Failure: "Failed to update warden",
	})
}

func (p *Page) ToggleRow(ctx context.Context, i int) error {
	if !p.Allows(pages.ActionToggle) {
		return pages.ErrNotPermitted
	}
	w, ok := p.Item(i)
	if !ok {
		return pages.NoSuchRow(i)
	}
	verb := "activated"
	if w.IsActive {
		verb = "deactivated"
	}
	return p.Update(ctx, listing.Mutation{
		Action: "toggle",
		Call: func(ctx context.Context) error {
			return p.client.SendJSON(ctx, http.MethodPut, pages.ItemPath(basePath, w.ID), map[string]bool{"isActive": !w.IsActive}, nil)
		},
		Success: fmt.Sprintf("%s %s", w.Name, verb),
		Failure: "Failed to update warden",
	})
}

func (p *Page) DeleteRow(ctx context.Context, i int) error {
	if !p.Allows(pages.ActionDelete) {
		return pages.ErrNotPermitted
	}
	w, ok := p.Item(i)
	if !ok {
		return pages.NoSuchRow(i)
	}
	msg := fmt.Sprintf("Delete warden %s?", w.Name)
	if w.Block != "" {
		msg = fmt.Sprintf("Delete warden %s? Block %s will be left without a warden.", w.Name, w.Block)
	}
	return p.Delete(ctx, listing.Mutation{
		Call: func(ctx context.Context) error {
			return p.client.SendJSON(ctx, http.MethodDelete, pages.ItemPath(basePath, w.ID), nil, nil)
		},
		Prompt: &listing.Prompt{
			Title:        "Delete warden",
			Message:      msg,
			ConfirmLabel: "Delete",
			Severity:     listing.SeverityDanger,
		},
		Success: "Warden deleted",
		Failure: "Failed to delete warden",
	})
}

func assignment(w models.Warden) string {
	if w.Block == "" {
		return "unassigned"
	}
	return w.Block
}
