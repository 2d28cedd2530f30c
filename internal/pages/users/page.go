package users

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	apperrors "hostel-portal/internal/common/errors"
	"hostel-portal/internal/common/logger"
	"hostel-portal/internal/listing"
	"hostel-portal/internal/models"
	"hostel-portal/internal/pages"

	"golang.org/x/sync/errgroup"
)

// Row is a user annotated with the room the directory placed them in.
type Row struct {
	models.User
	Room *models.RoomRef `json:"-"`
}

type Page struct {
	*listing.Controller[Row, models.UserStats]
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
	role := d.Role()
	log := d.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	limit := d.RoomDirectoryLimit
	if limit < 1 {
		limit = defaultDirectoryLimit
	}
	dir := &directoryLoader{
		client:  d.Client,
		cache:   d.Cache,
		limit:   limit,
		log:     log.With(map[string]interface{}{"lookup": "room directory"}),
		handler: apperrors.NewErrorHandler(log, d.Notifier),
	}

	opts := pages.Bind(d, Resource, defaultItemsPerPage,
		annotatedList(listing.HTTPList[Row](d.Client, basePath, Resource), dir),
		listing.HTTPStats[models.UserStats](d.Client, basePath+"/stats"),
		facets, defaultFilters(role, d.Block()))

	return &Page{Controller: listing.New(opts), client: d.Client, role: role}
}

// annotatedList runs the user query and the room directory lookup side by
// side. Only the user query can fail the fetch.
func annotatedList(list listing.ListFunc[Row], dir *directoryLoader) listing.ListFunc[Row] {
	return func(ctx context.Context, q listing.Query) (listing.ListResult[Row], error) {
		var (
			res       listing.ListResult[Row]
			directory Directory
		)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			res, err = list(gctx, q)
			return err
		})
		g.Go(func() error {
			directory = dir.Load(gctx)
			return nil
		})
		if err := g.Wait(); err != nil {
			return listing.ListResult[Row]{}, err
		}
		for i := range res.Items {
			if ref, ok := directory[res.Items[i].ID]; ok {
				ref := ref
				res.Items[i].Room = &ref
			}
		}
		return res, nil
	}
}

func (p *Page) Name() string { return Resource }

func (p *Page) Allows(a pages.Action) bool { return permissions.Allows(p.role, a) }

func (p *Page) Summary() pages.Summary { return pages.Summarize(p.Snapshot()) }

func (p *Page) Table() pages.Table {
	snap := p.Snapshot()
	t := pages.Table{Columns: []string{"#", "Name", "Email", "Role", "Block", "Room", "Active"}}
	for i, u := range snap.Items {
		t.Rows = append(t.Rows, []string{
			pages.Index(i),
			u.Name,
			u.Email,
			string(u.Role),
			pages.OrDash(u.Block),
			roomLabel(u),
			pages.YesNo(u.IsActive),
		})
	}
	return t
}

func (p *Page) StatsPanel() []pages.Field {
	s := p.Snapshot().Stats
	return []pages.Field{
		{Label: "Users", Value: fmt.Sprint(s.Overview.Total)},
		{Label: "Active", Value: fmt.Sprint(s.Overview.Active)},
		{Label: "Inactive", Value: fmt.Sprint(s.Overview.Inactive)},
		{Label: "Admins", Value: fmt.Sprint(s.ByRole.Admin)},
		{Label: "Wardens", Value: fmt.Sprint(s.ByRole.Warden)},
		{Label: "Students", Value: fmt.Sprint(s.ByRole.Student)},
	}
}

func (p *Page) Detail(i int) ([]pages.Field, bool) {
	u, ok := p.Item(i)
	if !ok {
		return nil, false
	}
	return []pages.Field{
		{Label: "Name", Value: u.Name},
		{Label: "Email", Value: u.Email},
		{Label: "Role", Value: string(u.Role)},
		{Label: "Phone", Value: pages.OrDash(u.Phone)},
		{Label: "Student ID", Value: pages.OrDash(u.StudentID)},
		{Label: "Block", Value: pages.OrDash(u.Block)},
		{Label: "Room", Value: roomLabel(u)},
		{Label: "Active", Value: pages.YesNo(u.IsActive)},
		{Label: "Joined", Value: pages.Date(u.CreatedAt)},
	}, true
}

type createResponse struct {
	User        models.User         `json:"user"`
	Credentials *models.Credentials `json:"credentials"`
}

// CreateFrom creates an account. The backend echoes the login credentials
// once; they are kept for PopCredentials.
func (p *Page) CreateFrom(ctx context.Context, fields map[string]string) error {
	if !p.Allows(pages.ActionCreate) {
		return pages.ErrNotPermitted
	}
	payload := pages.BuildPayload(fields, createKinds)
	if _, ok := payload["role"]; !ok {
		payload["role"] = string(models.RoleStudent)
	}
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
		Success: "User created",
		Failure: "Failed to create user",
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
	u, ok := p.Item(i)
	if !ok {
		return pages.NoSuchRow(i)
	}
	payload := pages.BuildPayload(fields, updateKinds)
	if len(payload) == 0 {
		return pages.Invalid("nothing to update for %s", u.Name)
	}
	if r, ok := payload["role"].(string); ok {
		if _, err := models.ParseRole(r); err != nil {
			return pages.Invalid("%v", err)
		}
	}
	return p.Update(ctx, listing.Mutation{
		Call: func(ctx context.Context) error {
			return p.client.SendJSON(ctx, http.MethodPut, pages.ItemPath(basePath, u.ID), payload, nil)
		},
		Success: fmt.Sprintf("%s updated", u.Name),
		Failure: "Failed to update user",
	})
}

// ToggleRow flips the account's active flag.
func (p *Page) ToggleRow(ctx context.Context, i int) error {
	if !p.Allows(pages.ActionToggle) {
		return pages.ErrNotPermitted
	}
	u, ok := p.Item(i)
	if !ok {
		return pages.NoSuchRow(i)
	}
	verb := "activated"
	if u.IsActive {
		verb = "deactivated"
	}
	return p.Update(ctx, listing.Mutation{
		Action: "toggle",
		Call: func(ctx context.Context) error {
			return p.client.SendJSON(ctx, http.MethodPut, pages.ItemPath(basePath, u.ID), map[string]bool{"isActive": !u.IsActive}, nil)
		},
		Success: fmt.Sprintf("%s %s", u.Name, verb),
		Failure: "Failed to update user",
	})
}

func (p *Page) DeleteRow(ctx context.Context, i int) error {
	if !p.Allows(pages.ActionDelete) {
		return pages.ErrNotPermitted
	}
	u, ok := p.Item(i)
	if !ok {
		return pages.NoSuchRow(i)
	}
	return p.Delete(ctx, listing.Mutation{
		Call: func(ctx context.Context) error {
			return p.client.SendJSON(ctx, http.MethodDelete, pages.ItemPath(basePath, u.ID), nil, nil)
		},
		Prompt: &listing.Prompt{
			Title:        "Delete user",
			Message:      fmt.Sprintf("Delete %s (%s)? This cannot be undone.", u.Name, u.Email),
			ConfirmLabel: "Delete",
			Severity:     listing.SeverityDanger,
		},
		Success: "User deleted",
		Failure: "Failed to delete user",
	})
}

func roomLabel(u Row) string {
	if u.Room != nil {
		return u.Room.Block + "-" + u.Room.RoomNumber
	}
	if u.RoomNumber != "" {
		return u.RoomNumber
	}
	return "-"
}
