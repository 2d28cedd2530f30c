package rooms

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"hostel-portal/internal/common/logger"
	"hostel-portal/internal/listing"
	"hostel-portal/internal/models"
	"hostel-portal/internal/pages"
)

type Page struct {
	*listing.Controller[models.Room, models.RoomStats]
	client pages.Backend
	cache  pages.Cache
	log    logger.Logger
	role   models.Role
}

var (
	_ pages.View    = (*Page)(nil)
	_ pages.Creator = (*Page)(nil)
	_ pages.Updater = (*Page)(nil)
	_ pages.Deleter = (*Page)(nil)
)

func New(d pages.Deps) *Page {
	role := d.Role()

	var stats listing.StatsFunc[models.RoomStats]
	if role.IsStaff() {
		stats = listing.HTTPStats[models.RoomStats](d.Client, basePath+"/stats")
	}
	opts := pages.Bind(d, Resource, defaultItemsPerPage,
		listing.HTTPList[models.Room](d.Client, basePath, Resource),
		stats, facets, defaultFilters(role, d.Block()))

	log := d.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Page{
		Controller: listing.New(opts),
		client:     d.Client,
		cache:      d.Cache,
		log:        log.With(map[string]interface{}{"resource": Resource}),
		role:       role,
	}
}

func (p *Page) Name() string { return Resource }

func (p *Page) Allows(a pages.Action) bool { return permissions.Allows(p.role, a) }

func (p *Page) Summary() pages.Summary { return pages.Summarize(p.Snapshot()) }

func (p *Page) Table() pages.Table {
	snap := p.Snapshot()
	t := pages.Table{Columns: []string{"#", "Room", "Block", "Floor", "Type", "Occupancy", "Status", "Rent"}}
	for i, r := range snap.Items {
		t.Rows = append(t.Rows, []string{
			pages.Index(i),
			r.RoomNumber,
			r.Block,
			fmt.Sprint(r.Floor),
			r.Type,
			occupancy(r),
			r.Status,
			pages.Money(r.Rent),
		})
	}
	return t
}

func (p *Page) StatsPanel() []pages.Field {
	s := p.Snapshot().Stats
	return []pages.Field{
		{Label: "Rooms", Value: fmt.Sprint(s.Overview.Total)},
		{Label: "Available", Value: fmt.Sprint(s.Overview.Available)},
		{Label: "Occupied", Value: fmt.Sprint(s.Overview.Occupied)},
		{Label: "Maintenance", Value: fmt.Sprint(s.Overview.Maintenance)},
		{Label: "Beds", Value: fmt.Sprintf("%d/%d", s.Overview.TotalOccupied, s.Overview.TotalCapacity)},
		{Label: "Occupancy", Value: fmt.Sprintf("%.0f%%", s.OccupancyRate())},
		{Label: "Single", Value: fmt.Sprint(s.ByType.Single)},
		{Label: "Double", Value: fmt.Sprint(s.ByType.Double)},
		{Label: "Triple", Value: fmt.Sprint(s.ByType.Triple)},
	}
}

func (p *Page) Detail(i int) ([]pages.Field, bool) {
	r, ok := p.Item(i)
	if !ok {
		return nil, false
	}
	names := make([]string, 0, len(r.Occupants))
	for _, o := range r.Occupants {
		names = append(names, o.DisplayName())
	}
	return []pages.Field{
		{Label: "Room", Value: r.RoomNumber},
		{Label: "Block", Value: r.Block},
		{Label: "Floor", Value: fmt.Sprint(r.Floor)},
		{Label: "Type", Value: r.Type},
		{Label: "Status", Value: r.Status},
		{Label: "Occupancy", Value: occupancy(r)},
		{Label: "Vacancies", Value: fmt.Sprint(r.Vacancies())},
		{Label: "Occupants", Value: pages.OrDash(strings.Join(names, ", "))},
		{Label: "Rent", Value: pages.Money(r.Rent)},
		{Label: "Amenities", Value: pages.OrDash(strings.Join(r.Amenities, ", "))},
	}, true
}

func (p *Page) CreateFrom(ctx context.Context, fields map[string]string) error {
	if !p.Allows(pages.ActionCreate) {
		return pages.ErrNotPermitted
	}
	payload := pages.BuildPayload(fields, fieldKinds)
	if a := amenities(fields); a != nil {
		payload["amenities"] = a
	}
	return p.Create(ctx, listing.Mutation{
		Payload: payload,
		Call: func(ctx context.Context) error {
			return p.send(ctx, http.MethodPost, basePath, payload, nil)
		},
		Success: "Room created",
		Failure: "Failed to create room",
	})
}

func (p *Page) UpdateRow(ctx context.Context, i int, fields map[string]string) error {
	if !p.Allows(pages.ActionUpdate) {
		return pages.ErrNotPermitted
	}
	r, ok := p.Item(i)
	if !ok {
		return pages.NoSuchRow(i)
	}
	kinds := fieldKinds
	if p.role != models.RoleAdmin {
		kinds = wardenEditable
	}
	payload := pages.BuildPayload(fields, kinds)
	if a := amenities(fields); a != nil && p.role == models.RoleAdmin {
		payload["amenities"] = a
	}
	if len(payload) == 0 {
		return pages.Invalid("nothing to update for room %s", r.RoomNumber)
	}
	if c, ok := payload["capacity"].(int); ok && c < len(r.Occupants) {
		return pages.Invalid("room %s has %d occupants; capacity cannot be %d", r.RoomNumber, len(r.Occupants), c)
	}
	return p.Update(ctx, listing.Mutation{
		Call: func(ctx context.Context) error {
			return p.send(ctx, http.MethodPut, pages.ItemPath(basePath, r.ID), payload, nil)
		},
		Success: fmt.Sprintf("Room %s updated", r.RoomNumber),
		Failure: "Failed to update room",
	})
}

func (p *Page) DeleteRow(ctx context.Context, i int) error {
	if !p.Allows(pages.ActionDelete) {
		return pages.ErrNotPermitted
	}
	r, ok := p.Item(i)
	if !ok {
		return pages.NoSuchRow(i)
	}
	msg := fmt.Sprintf("Delete room %s in block %s?", r.RoomNumber, r.Block)
	if n := len(r.Occupants); n > 0 {
		msg = fmt.Sprintf("Room %s still has %d occupant(s). Delete it anyway?", r.RoomNumber, n)
	}
	return p.Delete(ctx, listing.Mutation{
		Call: func(ctx context.Context) error {
			return p.send(ctx, http.MethodDelete, pages.ItemPath(basePath, r.ID), nil, nil)
		},
		Prompt: &listing.Prompt{
			Title:        "Delete room",
			Message:      msg,
			ConfirmLabel: "Delete",
			Severity:     listing.SeverityDanger,
		},
		Success: "Room deleted",
		Failure: "Failed to delete room",
	})
}

// send issues a room mutation and drops the cached room directory, since
// occupancy may have changed.
func (p *Page) send(ctx context.Context, method, path string, body, out interface{}) error {
	if err := p.client.SendJSON(ctx, method, path, body, out); err != nil {
		return err
	}
	if p.cache != nil {
		if err := p.cache.Del(ctx, pages.RoomDirectoryKey); err != nil {
			p.log.Warn("room directory cache invalidation failed", map[string]interface{}{
				"key":   pages.RoomDirectoryKey,
				"error": err.Error(),
			})
		}
	}
	return nil
}

func occupancy(r models.Room) string {
	return fmt.Sprintf("%d/%d", len(r.Occupants), r.Capacity)
}

// amenities splits a comma separated amenities field.
func amenities(fields map[string]string) []string {
	raw, ok := fields["amenities"]
	if !ok {
		return nil
	}
	out := []string{}
	for _, a := range strings.Split(raw, ",") {
		if a = strings.TrimSpace(a); a != "" {
			out = append(out, a)
		}
	}
	return out
}
