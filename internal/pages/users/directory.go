package users

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"time"

	apperrors "hostel-portal/internal/common/errors"
	"hostel-portal/internal/common/logger"
	"hostel-portal/internal/common/metrics"
	"hostel-portal/internal/listing"
	"hostel-portal/internal/models"
	"hostel-portal/internal/pages"
)

// Directory maps user ids to the room they occupy.
type Directory map[string]models.RoomRef

// directoryLoader builds the directory from one bulk room query, reading
// through the cache when one is configured.
type directoryLoader struct {
	client  pages.Backend
	cache   pages.Cache
	limit   int
	log     logger.Logger
	handler *apperrors.ErrorHandler
}

// Load never fails. Any error is logged and yields an empty directory.
func (l *directoryLoader) Load(ctx context.Context) Directory {
	if l.cache != nil {
		var cached Directory
		hit, err := l.cache.GetJSON(ctx, pages.RoomDirectoryKey, &cached)
		if err != nil {
			l.log.Warn("room directory cache read failed", map[string]interface{}{"error": err.Error()})
		} else if hit {
			metrics.FetchTotal.WithLabelValues(Resource, "lookup", "cached").Inc()
			return cached
		}
	}

	start := time.Now()
	dir, err := l.fetch(ctx)
	metrics.FetchDuration.WithLabelValues(Resource, "lookup").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.FetchTotal.WithLabelValues(Resource, "lookup", "failure").Inc()
		l.handler.Handle(apperrors.NewLookupFailedError("room directory", err), "")
		return Directory{}
	}
	metrics.FetchTotal.WithLabelValues(Resource, "lookup", "success").Inc()

	if l.cache != nil {
		if err := l.cache.SetJSON(ctx, pages.RoomDirectoryKey, dir); err != nil {
			l.log.Warn("room directory cache write failed", map[string]interface{}{"error": err.Error()})
		}
	}
	return dir
}

func (l *directoryLoader) fetch(ctx context.Context) (Directory, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(l.limit))

	var body json.RawMessage
	if err := l.client.GetJSON(ctx, "/rooms", q, &body); err != nil {
		return nil, err
	}
	res, err := listing.DecodeList[models.Room](body, "rooms")
	if err != nil {
		return nil, err
	}
	return BuildDirectory(res.Items), nil
}

// BuildDirectory indexes every occupant of rooms.
func BuildDirectory(rooms []models.Room) Directory {
	dir := make(Directory)
	for _, r := range rooms {
		ref := models.RoomRef{RoomID: r.ID, RoomNumber: r.RoomNumber, Block: r.Block, Floor: r.Floor}
		for _, o := range r.Occupants {
			if o.ID != "" {
				dir[o.ID] = ref
			}
		}
	}
	return dir
}
