package rooms

import (
	"context"
	"net/http"
	"testing"

	"hostel-portal/internal/common/cache"
	"hostel-portal/internal/common/config"
	"hostel-portal/internal/common/logger"
	"hostel-portal/internal/listing"
	"hostel-portal/internal/pages"
	"hostel-portal/internal/pages/pagestest"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func sampleRooms() []map[string]interface{} {
	return []map[string]interface{}{
		{"_id": "r1", "roomNumber": "101", "block": "A", "floor": 1, "type": "double", "capacity": 2, "status": "occupied", "rent": 4500,
			"occupants": []map[string]string{{"_id": "s1", "name": "Ravi"}, {"_id": "s2", "name": "Kiran"}}, "amenities": []string{"wifi", "desk"}},
		{"_id": "r2", "roomNumber": "102", "block": "A", "floor": 1, "type": "triple", "capacity": 3, "status": "available", "rent": 3500,
			"occupants": []map[string]string{{"_id": "s3", "name": "Asha"}}},
	}
}

func TestPage_StudentScopedToOwnBlock(t *testing.T) {
	fx := pagestest.NewFixture(t, pagestest.Student("A"))
	fx.Backend.Handle(http.MethodGet, "/rooms", http.StatusOK, pagestest.List("rooms", sampleRooms(), 1, 1, 2, 12))

	p := New(fx.Deps)
	t.Cleanup(p.Close)
	ctx := context.Background()
	p.Load(ctx)

	req := fx.Backend.Last(t, http.MethodGet, "/rooms")
	assert.Equal(t, "A", req.Query.Get("block"))
	assert.Equal(t, "12", req.Query.Get("limit"))
	assert.False(t, p.HasStats())
	assert.False(t, p.Allows(pages.ActionUpdate))

	table := p.Table()
	require.Len(t, table.Rows, 2)
	assert.Equal(t, []string{"1", "101", "A", "1", "double", "2/2", "occupied", "4500.00"}, table.Rows[0])
	assert.Equal(t, "1/3", table.Rows[1][5])
}

func TestPage_AdminSeesAllBlocks(t *testing.T) {
	fx := pagestest.NewFixture(t, pagestest.Admin())
	fx.Backend.Handle(http.MethodGet, "/rooms", http.StatusOK, map[string]interface{}{"data": sampleRooms()})
	fx.Backend.Handle(http.MethodGet, "/rooms/stats", http.StatusOK, map[string]interface{}{
		"overview": map[string]int{"total": 40, "available": 12, "occupied": 26, "maintenance": 2, "totalCapacity": 100, "totalOccupied": 75},
		"byType":   map[string]int{"single": 10, "double": 20, "triple": 10},
	})

	p := New(fx.Deps)
	t.Cleanup(p.Close)
	ctx := context.Background()
	p.Load(ctx)
	_, scoped := fx.Backend.Last(t, http.MethodGet, "/rooms").Query["block"]
	assert.False(t, scoped)

	require.True(t, p.ToggleStats(ctx))
	panel := p.StatsPanel()
	assert.Contains(t, panel, pages.Field{Label: "Beds", Value: "75/100"})
	assert.Contains(t, panel, pages.Field{Label: "Occupancy", Value: "75%"})

	detail, ok := p.Detail(0)
	require.True(t, ok)
	assert.Contains(t, detail, pages.Field{Label: "Occupants", Value: "Ravi, Kiran"})
	assert.Contains(t, detail, pages.Field{Label: "Vacancies", Value: "0"})
	assert.Contains(t, detail, pages.Field{Label: "Amenities", Value: "wifi, desk"})
}

func TestPage_Create(t *testing.T) {
	fx := pagestest.NewFixture(t, pagestest.Admin())
	fx.Backend.Handle(http.MethodGet, "/rooms", http.StatusOK, map[string]interface{}{"data": sampleRooms()})
	fx.Backend.Handle(http.MethodPost, "/rooms", http.StatusCreated, nil)

	p := New(fx.Deps)
	t.Cleanup(p.Close)
	ctx := context.Background()

	err := p.CreateFrom(ctx, map[string]string{"roomNumber": "201", "block": "B", "type": "single", "capacity": "ten"})
	require.Error(t, err)
	require.Len(t, fx.Notifier.Errors(), 1)
	assert.Contains(t, fx.Notifier.Errors()[0], "capacity")

	require.NoError(t, p.CreateFrom(ctx, map[string]string{
		"roomNumber": "201", "block": "B", "type": "single", "capacity": "1", "floor": "2", "amenities": "wifi, ac,",
	}))
	body := fx.Backend.Last(t, http.MethodPost, "/rooms").Body
	assert.Equal(t, 1.0, body["capacity"])
	assert.Equal(t, []interface{}{"wifi", "ac"}, body["amenities"])
	assert.Equal(t, "1", fx.Backend.Last(t, http.MethodGet, "/rooms").Query.Get("page"))
}

func TestPage_WardenUpdatesStatusOnly(t *testing.T) {
	fx := pagestest.NewFixture(t, pagestest.Warden("A"))
	fx.Backend.Handle(http.MethodGet, "/rooms", http.StatusOK, map[string]interface{}{"data": sampleRooms()})
	fx.Backend.Handle(http.MethodGet, "/rooms/stats", http.StatusOK, map[string]interface{}{})
	fx.Backend.Handle(http.MethodPut, "/rooms/r2", http.StatusOK, nil)

	p := New(fx.Deps)
	t.Cleanup(p.Close)
	ctx := context.Background()
	p.Load(ctx)

	assert.True(t, pages.IsInputError(p.UpdateRow(ctx, 1, map[string]string{"rent": "100"})))
	require.NoError(t, p.UpdateRow(ctx, 1, map[string]string{"status": "maintenance", "rent": "100"}))
	assert.Equal(t, map[string]interface{}{"status": "maintenance"}, fx.Backend.Last(t, http.MethodPut, "/rooms/r2").Body)
	assert.ErrorIs(t, p.DeleteRow(ctx, 1), pages.ErrNotPermitted)
}

func TestPage_CapacityBelowOccupants(t *testing.T) {
	fx := pagestest.NewFixture(t, pagestest.Admin())
	fx.Backend.Handle(http.MethodGet, "/rooms", http.StatusOK, map[string]interface{}{"data": sampleRooms()})

	p := New(fx.Deps)
	t.Cleanup(p.Close)
	ctx := context.Background()
	p.Load(ctx)

	err := p.UpdateRow(ctx, 0, map[string]string{"capacity": "1"})
	assert.True(t, pages.IsInputError(err))
	assert.Empty(t, fx.Backend.Find(http.MethodPut, "/rooms/r1"))
}

func TestPage_DeleteOccupiedWarns(t *testing.T) {
	fx := pagestest.NewFixture(t, pagestest.Admin())
	fx.Backend.Handle(http.MethodGet, "/rooms", http.StatusOK, map[string]interface{}{"data": sampleRooms()})
	fx.Confirmer.Answer = false

	p := New(fx.Deps)
	t.Cleanup(p.Close)
	ctx := context.Background()
	p.Load(ctx)

	require.NoError(t, p.DeleteRow(ctx, 0))
	prompts := fx.Confirmer.Prompts()
	require.Len(t, prompts, 1)
	assert.Equal(t, listing.SeverityDanger, prompts[0].Severity)
	assert.Contains(t, prompts[0].Message, "still has 2 occupant(s)")
	assert.Empty(t, fx.Backend.Find(http.MethodDelete, "/rooms/r1"))
}

func TestPage_MutationDropsRoomDirectory(t *testing.T) {
	mr := miniredis.RunT(t)
	rc := cache.NewRedis(config.RedisConfig{Address: mr.Addr(), TTLSeconds: 60})
	t.Cleanup(func() { _ = rc.Close() })
	require.NoError(t, mr.Set(pages.RoomDirectoryKey, `{"s1":{"roomNumber":"101"}}`))

	fx := pagestest.NewFixture(t, pagestest.Admin())
	fx.Deps.Cache = rc
	fx.Backend.Handle(http.MethodGet, "/rooms", http.StatusOK, map[string]interface{}{"data": sampleRooms()})
	fx.Backend.Handle(http.MethodPut, "/rooms/r2", http.StatusConflict, map[string]string{"message": "Room is locked"})
	fx.Backend.Handle(http.MethodDelete, "/rooms/r2", http.StatusOK, nil)

	p := New(fx.Deps)
	t.Cleanup(p.Close)
	ctx := context.Background()
	p.Load(ctx)

	require.Error(t, p.UpdateRow(ctx, 1, map[string]string{"status": "maintenance"}))
	assert.True(t, mr.Exists(pages.RoomDirectoryKey), "failed mutation keeps the cache")

	require.NoError(t, p.DeleteRow(ctx, 1))
	assert.False(t, mr.Exists(pages.RoomDirectoryKey))
}

func TestPage_InvalidationFailureIsLogged(t *testing.T) {
	mr := miniredis.RunT(t)
	rc := cache.NewRedis(config.RedisConfig{Address: mr.Addr(), TTLSeconds: 60})
	t.Cleanup(func() { _ = rc.Close() })

	core, logs := observer.New(zapcore.WarnLevel)
	fx := pagestest.NewFixture(t, pagestest.Admin())
	fx.Deps.Cache = rc
	fx.Deps.Logger = logger.NewZapAdapter(zap.New(core))
	fx.Backend.Handle(http.MethodGet, "/rooms", http.StatusOK, map[string]interface{}{"data": sampleRooms()})
	fx.Backend.Handle(http.MethodPut, "/rooms/r1", http.StatusOK, nil)

	p := New(fx.Deps)
	t.Cleanup(p.Close)
	ctx := context.Background()
	p.Load(ctx)
	mr.Close()

	require.NoError(t, p.UpdateRow(ctx, 0, map[string]string{"status": "maintenance"}), "the room update itself succeeded")

	found := logs.FilterMessage("room directory cache invalidation failed").All()
	require.Len(t, found, 1)
	assert.Equal(t, pages.RoomDirectoryKey, found[0].ContextMap()["key"])
	assert.Equal(t, "rooms", found[0].ContextMap()["resource"])
}

