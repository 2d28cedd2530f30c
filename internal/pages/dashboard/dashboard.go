// Package dashboard aggregates the headline numbers of every view.
package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sync"
	"time"

	apperrors "hostel-portal/internal/common/errors"
	"hostel-portal/internal/common/logger"
	"hostel-portal/internal/common/metrics"
	"hostel-portal/internal/listing"
	"hostel-portal/internal/models"
	"hostel-portal/internal/pages"

	"golang.org/x/sync/errgroup"
)

const resource = "dashboard"

// Panel is one titled group of figures. Failed is set when the figures are
// zeros standing in for a failed request.
type Panel struct {
	Title  string
	Fields []pages.Field
	Failed bool
}

type source struct {
	title string
	path  string
	query url.Values
	load  func(ctx context.Context, client pages.Backend, s source) ([]pages.Field, error)
}

// Dashboard fetches every panel in parallel. A failed panel shows zeros and
// the rest still render.
type Dashboard struct {
	client   pages.Backend
	notifier apperrors.Notifier
	log      logger.Logger
	sources  []source

	mu     sync.Mutex
	panels []Panel
}

func New(d pages.Deps) *Dashboard {
	log := d.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Dashboard{
		client:   d.Client,
		notifier: d.Notifier,
		log:      log.With(map[string]interface{}{"resource": resource}),
		sources:  sourcesFor(d.Role(), d.Block()),
	}
}

func sourcesFor(role models.Role, block string) []source {
	if !role.IsStaff() {
		return []source{
			count("My complaints", "/complaints/my", "complaints"),
			count("My leave applications", "/leaves/my", "leaves"),
			count("My fee records", "/fees/my", "fees"),
			count("Announcements", "/announcements", "announcements"),
		}
	}

	var q url.Values
	if role == models.RoleWarden && block != "" {
		q = url.Values{"block": {block}}
	}
	out := []source{
		stats("Complaints", "/complaints/stats", q, complaintFields),
		stats("Leave applications", "/leaves/stats", q, leaveFields),
		stats("Fees", "/fees/stats", q, feeFields),
		stats("Rooms", "/rooms/stats", q, roomFields),
		stats("Announcements", "/announcements/stats", nil, announcementFields),
	}
	if role == models.RoleAdmin {
		out = append(out,
			stats("Users", "/users/stats", nil, userFields),
			stats("Wardens", "/wardens/stats", nil, wardenFields),
		)
	}
	return out
}

// Load refreshes every panel and returns them in a fixed order.
func (d *Dashboard) Load(ctx context.Context) []Panel {
	panels := make([]Panel, len(d.sources))
	g, gctx := errgroup.WithContext(ctx)
	for i, src := range d.sources {
		i, src := i, src
		g.Go(func() error {
			start := time.Now()
			fields, err := src.load(gctx, d.client, src)
			metrics.FetchDuration.WithLabelValues(resource, "stats").Observe(time.Since(start).Seconds())
			panels[i] = Panel{Title: src.title, Fields: fields}
			if err != nil {
				metrics.FetchTotal.WithLabelValues(resource, "stats", "failure").Inc()
				d.log.Warn("dashboard panel failed", map[string]interface{}{"panel": src.title, "path": src.path, "error": err.Error()})
				panels[i].Failed = true
				return nil
			}
			metrics.FetchTotal.WithLabelValues(resource, "stats", "success").Inc()
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, p := range panels {
		if p.Failed {
			failed++
		}
	}
	if failed > 0 && d.notifier != nil {
		d.notifier.Error(fmt.Sprintf("%d of %d dashboard panels could not be loaded", failed, len(panels)))
	}

	d.mu.Lock()
	d.panels = panels
	d.mu.Unlock()
	return panels
}

// Panels returns the result of the last Load.
func (d *Dashboard) Panels() []Panel {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Panel(nil), d.panels...)
}

// stats binds an aggregate endpoint. On failure the zero snapshot is rendered.
func stats[S any](title, path string, q url.Values, fields func(S) []pages.Field) source {
	return source{
		title: title,
		path:  path,
		query: q,
		load: func(ctx context.Context, client pages.Backend, s source) ([]pages.Field, error) {
			var body json.RawMessage
			err := client.GetJSON(ctx, s.path, s.query, &body)
			var snap S
			if err == nil {
				snap, err = listing.DecodeStats[S](body)
			}
			if err != nil {
				var zero S
				return fields(zero), err
			}
			return fields(snap), nil
		},
	}
}

// count reports how many records a list endpoint holds by asking for a
// single item and reading the pagination.
func count(title, path, key string) source {
	return source{
		title: title,
		path:  path,
		query: url.Values{"page": {"1"}, "limit": {"1"}},
		load: func(ctx context.Context, client pages.Backend, s source) ([]pages.Field, error) {
			var body json.RawMessage
			if err := client.GetJSON(ctx, s.path, s.query, &body); err != nil {
				return []pages.Field{{Label: "Total", Value: "0"}}, err
			}
			res, err := listing.DecodeList[json.RawMessage](body, key)
			if err != nil {
				return []pages.Field{{Label: "Total", Value: "0"}}, err
			}
			p := listing.Normalize(res.Pagination, res.Total, len(res.Items), 1, 1)
			return []pages.Field{{Label: "Total", Value: fmt.Sprint(p.TotalItems)}}, nil
		},
	}
}
