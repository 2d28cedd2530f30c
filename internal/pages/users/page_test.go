package users

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"hostel-portal/internal/common/cache"
	"hostel-portal/internal/common/config"
	"hostel-portal/internal/models"
	"hostel-portal/internal/pages"
	"hostel-portal/internal/pages/pagestest"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleUsers() []map[string]interface{} {
	return []map[string]interface{}{
		{"_id": "s1", "name": "Ravi", "email": "ravi@hostel.test", "role": "student", "block": "A", "isActive": true},
		{"_id": "s2", "name": "Kiran", "email": "kiran@hostel.test", "role": "student", "block": "A", "isActive": false, "roomNumber": "305"},
	}
}

func sampleRooms() map[string]interface{} {
	return map[string]interface{}{"rooms": []map[string]interface{}{
		{"_id": "r1", "roomNumber": "101", "block": "A", "floor": 1, "capacity": 2,
			"occupants": []map[string]string{{"_id": "s1", "name": "Ravi"}, {"_id": "s9", "name": "Other"}}},
	}}
}

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *cache.RedisClient) {
	t.Helper()
	mr := miniredis.RunT(t)
	rc := cache.NewRedis(config.RedisConfig{Address: mr.Addr(), TTLSeconds: 300})
	t.Cleanup(func() { _ = rc.Close() })
	return mr, rc
}

func TestBuildDirectory(t *testing.T) {
	dir := BuildDirectory([]models.Room{
		{ID: "r1", RoomNumber: "101", Block: "A", Floor: 1, Occupants: []models.UserRef{{ID: "s1"}, {ID: ""}}},
		{ID: "r2", RoomNumber: "202", Block: "B", Floor: 2, Occupants: []models.UserRef{{ID: "s2"}}},
		{ID: "r3", RoomNumber: "303", Block: "B"},
	})

	assert.Len(t, dir, 2)
	assert.Equal(t, models.RoomRef{RoomID: "r2", RoomNumber: "202", Block: "B", Floor: 2}, dir["s2"])
}

func TestPage_AnnotatesRooms(t *testing.T) {
	fx := pagestest.NewFixture(t, pagestest.Admin())
	fx.Deps.RoomDirectoryLimit = 250
	fx.Backend.Handle(http.MethodGet, "/users", http.StatusOK, pagestest.List("users", sampleUsers(), 1, 1, 2, 10))
	fx.Backend.Handle(http.MethodGet, "/rooms", http.StatusOK, sampleRooms())

	p := New(fx.Deps)
	t.Cleanup(p.Close)
	p.Load(context.Background())

	assert.Equal(t, "250", fx.Backend.Last(t, http.MethodGet, "/rooms").Query.Get("limit"))
	table := p.Table()
	require.Len(t, table.Rows, 2)
	assert.Equal(t, []string{"1", "Ravi", "ravi@hostel.test", "student", "A", "A-101", "yes"}, table.Rows[0])
	assert.Equal(t, "305", table.Rows[1][5], "falls back to the room on the user record")
}

func TestPage_DirectoryFailureIsSilent(t *testing.T) {
	fx := pagestest.NewFixture(t, pagestest.Warden("A"))
	fx.Backend.Handle(http.MethodGet, "/users", http.StatusOK, map[string]interface{}{"data": sampleUsers()})
	fx.Backend.Handle(http.MethodGet, "/rooms", http.StatusInternalServerError, map[string]string{"message": "boom"})

	p := New(fx.Deps)
	t.Cleanup(p.Close)
	p.Load(context.Background())

	assert.Equal(t, "A", fx.Backend.Last(t, http.MethodGet, "/users").Query.Get("block"))
	assert.Empty(t, fx.Notifier.Errors())
	require.Len(t, p.Table().Rows, 2)
	assert.Equal(t, "-", p.Table().Rows[0][5])
	assert.False(t, p.Allows(pages.ActionCreate))
}

func TestPage_UserQueryFailureToastsOnce(t *testing.T) {
	fx := pagestest.NewFixture(t, pagestest.Admin())
	fx.Backend.Handle(http.MethodGet, "/users", http.StatusInternalServerError, map[string]string{"message": "Database unavailable"})
	fx.Backend.Handle(http.MethodGet, "/rooms", http.StatusOK, sampleRooms())

	p := New(fx.Deps)
	t.Cleanup(p.Close)
	p.Load(context.Background())

	assert.Equal(t, []string{"Database unavailable"}, fx.Notifier.Errors())
	assert.Empty(t, p.Table().Rows)
	assert.Equal(t, 1, p.Summary().Pagination.TotalPages)
}

func TestPage_DirectoryCached(t *testing.T) {
	mr, rc := newTestRedis(t)
	fx := pagestest.NewFixture(t, pagestest.Admin())
	fx.Deps.Cache = rc
	fx.Backend.Handle(http.MethodGet, "/users", http.StatusOK, map[string]interface{}{"data": sampleUsers()})
	fx.Backend.Handle(http.MethodGet, "/rooms", http.StatusOK, sampleRooms())

	p := New(fx.Deps)
	t.Cleanup(p.Close)
	ctx := context.Background()
	p.Load(ctx)
	p.Refresh(ctx)

	assert.Len(t, fx.Backend.Find(http.MethodGet, "/rooms"), 1, "second load reads the cache")
	assert.Len(t, fx.Backend.Find(http.MethodGet, "/users"), 2)
	assert.Equal(t, "A-101", p.Table().Rows[0][5])

	raw, err := mr.Get(pages.RoomDirectoryKey)
	require.NoError(t, err)
	var dir Directory
	require.NoError(t, json.Unmarshal([]byte(raw), &dir))
	assert.Equal(t, "101", dir["s1"].RoomNumber)
	assert.Equal(t, 300*time.Second, mr.TTL(pages.RoomDirectoryKey))

	mr.FastForward(301 * time.Second)
	p.Refresh(ctx)
	assert.Len(t, fx.Backend.Find(http.MethodGet, "/rooms"), 2, "expired entry is rebuilt")
}

func TestPage_CacheDownFallsThrough(t *testing.T) {
	mr, rc := newTestRedis(t)
	mr.Close()
	fx := pagestest.NewFixture(t, pagestest.Admin())
	fx.Deps.Cache = rc
	fx.Backend.Handle(http.MethodGet, "/users", http.StatusOK, map[string]interface{}{"data": sampleUsers()})
	fx.Backend.Handle(http.MethodGet, "/rooms", http.StatusOK, sampleRooms())

	p := New(fx.Deps)
	t.Cleanup(p.Close)
	p.Load(context.Background())

	assert.Equal(t, "A-101", p.Table().Rows[0][5])
	assert.Empty(t, fx.Notifier.Errors())
}

func TestPage_CreateEchoesCredentialsOnce(t *testing.T) {
	fx := pagestest.NewFixture(t, pagestest.Admin())
	fx.Backend.Handle(http.MethodGet, "/users", http.StatusOK, map[string]interface{}{"data": sampleUsers()})
	fx.Backend.Handle(http.MethodGet, "/rooms", http.StatusOK, sampleRooms())
	fx.Backend.Handle(http.MethodPost, "/users", http.StatusCreated, map[string]interface{}{
		"user":        map[string]string{"_id": "s3", "name": "Asha", "email": "asha@hostel.test", "role": "student"},
		"credentials": map[string]string{"email": "asha@hostel.test", "password": "Temp#4821"},
	})

	p := New(fx.Deps)
	t.Cleanup(p.Close)
	ctx := context.Background()

	_, ok := p.PopCredentials()
	assert.False(t, ok)

	require.NoError(t, p.CreateFrom(ctx, map[string]string{"name": "Asha", "email": "asha@hostel.test", "block": "B"}))
	assert.Equal(t, "student", fx.Backend.Last(t, http.MethodPost, "/users").Body["role"])

	creds, ok := p.PopCredentials()
	require.True(t, ok)
	assert.Equal(t, models.Credentials{Email: "asha@hostel.test", Password: "Temp#4821"}, creds)
	_, ok = p.PopCredentials()
	assert.False(t, ok)

	err := p.CreateFrom(ctx, map[string]string{"name": "Bad", "email": "not-an-email"})
	require.Error(t, err)
	assert.Len(t, fx.Backend.Find(http.MethodPost, "/users"), 1)
}

func TestPage_ToggleAndUpdate(t *testing.T) {
	fx := pagestest.NewFixture(t, pagestest.Admin())
	fx.Backend.Handle(http.MethodGet, "/users", http.StatusOK, map[string]interface{}{"data": sampleUsers()})
	fx.Backend.Handle(http.MethodGet, "/rooms", http.StatusOK, sampleRooms())
	fx.Backend.Handle(http.MethodPut, "/users/s2", http.StatusOK, nil)

	p := New(fx.Deps)
	t.Cleanup(p.Close)
	ctx := context.Background()
	p.Load(ctx)

	require.NoError(t, p.ToggleRow(ctx, 1))
	assert.Equal(t, true, fx.Backend.Last(t, http.MethodPut, "/users/s2").Body["isActive"])
	assert.Equal(t, []string{"Kiran activated"}, fx.Notifier.Successes())

	assert.True(t, pages.IsInputError(p.UpdateRow(ctx, 1, map[string]string{"role": "janitor"})))
	require.NoError(t, p.UpdateRow(ctx, 1, map[string]string{"phone": "98450 12345", "isActive": "no"}))
	assert.Equal(t, map[string]interface{}{"phone": "98450 12345", "isActive": false}, fx.Backend.Last(t, http.MethodPut, "/users/s2").Body)
}
