// test/e2e/e2e_test.go
package e2e

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hostel-portal/internal/common/auth"
	"hostel-portal/internal/common/cache"
	"hostel-portal/internal/common/config"
	httpclient "hostel-portal/internal/common/http"
	"hostel-portal/internal/common/logger"
	"hostel-portal/internal/console"
	"hostel-portal/internal/pages"
	"hostel-portal/internal/pages/pagestest"
)

// authLog remembers the Authorization header of every data request.
type authLog struct {
	mu      sync.Mutex
	headers []string
}

func (a *authLog) wrap(status int, body interface{}) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a.mu.Lock()
		a.headers = append(a.headers, r.Header.Get("Authorization"))
		a.mu.Unlock()
		pagestest.WriteJSON(w, status, body)
	}
}

func (a *authLog) all() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.headers...)
}

func rooms() map[string]interface{} {
	return pagestest.List("rooms", []map[string]interface{}{
		{"_id": "r1", "roomNumber": "101", "block": "A", "floor": 1, "type": "double", "capacity": 2, "status": "occupied", "rent": 4500,
			"occupants": []map[string]string{{"_id": "s1", "name": "Ravi"}}},
		{"_id": "r2", "roomNumber": "102", "block": "A", "floor": 1, "type": "single", "capacity": 1, "status": "available", "rent": 6000},
	}, 1, 1, 2, 12)
}

func users() map[string]interface{} {
	return pagestest.List("users", []map[string]interface{}{
		{"_id": "s1", "name": "Ravi", "email": "ravi@hostel.test", "role": "student", "block": "A", "isActive": true},
		{"_id": "w1", "name": "Meera", "email": "meera@hostel.test", "role": "warden", "block": "A", "isActive": true},
	}, 1, 1, 2, 10)
}

func writeConfig(t *testing.T, baseURL, redisAddr string) string {
	t.Helper()
	body := fmt.Sprintf(`
backend:
  base_url: %s
  timeout: 2000
session:
  email: admin@hostel.test
  password: secret
cache:
  redis:
    address: %s
    ttl_seconds: 120
logging:
  level: debug
  output: stderr
`, baseURL, redisAddr)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestConsoleSession_AdminManagesRoomsAndUsers(t *testing.T) {
	backend := pagestest.NewBackend(t)
	mr := miniredis.RunT(t)
	auths := &authLog{}

	backend.Handle(http.MethodPost, "/auth/login", http.StatusOK, map[string]interface{}{
		"token":     "jwt-admin",
		"expiresIn": 3600,
		"user":      map[string]string{"id": "admin-1", "name": "Asha", "email": "admin@hostel.test", "role": "admin"},
	})
	backend.HandleFunc(http.MethodGet, "/rooms", auths.wrap(http.StatusOK, rooms()))
	backend.Handle(http.MethodGet, "/rooms/stats", http.StatusOK, map[string]interface{}{
		"overview": map[string]int{"total": 2, "available": 1, "occupied": 1, "totalCapacity": 3, "totalOccupied": 1},
	})
	backend.HandleFunc(http.MethodPut, "/rooms/r2", auths.wrap(http.StatusOK, map[string]interface{}{}))
	backend.HandleFunc(http.MethodGet, "/users", auths.wrap(http.StatusOK, users()))
	backend.Handle(http.MethodGet, "/users/stats", http.StatusOK, map[string]interface{}{})

	cfg, err := config.LoadFromFile(writeConfig(t, backend.Server.URL, mr.Addr()))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	rc := cache.NewRedis(cfg.Cache.Redis)
	t.Cleanup(func() { _ = rc.Close() })
	require.NoError(t, rc.Ping(ctx))

	base := httpclient.NewClient(cfg.Backend.BaseURL, config.GetDuration(cfg.Backend.Timeout))
	session := auth.NewSession(base, cfg.Session)
	user, err := session.Login(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Asha", user.Name)

	deps := pages.Deps{
		Client:             base.WithTokenSource(session),
		Cache:              rc,
		User:               user,
		Logger:             logger.NewTestLogger(t),
		ItemsPerPage:       cfg.ItemsPerPage,
		RoomDirectoryLimit: cfg.Listing.RoomDirectoryLimit,
	}

	script := strings.Join([]string{
		"views",
		"view users",
		"view rooms",
		"update 2 status=maintenance",
		"view users",
		"whoami",
		"quit",
	}, "\n") + "\n"

	var out bytes.Buffer
	require.NoError(t, console.New(strings.NewReader(script), &out, deps).Run(ctx))
	printed := out.String()

	assert.Contains(t, printed, "Signed in as Asha (admin)")
	assert.Contains(t, printed, "wardens")
	assert.Contains(t, printed, "== users ==")
	assert.Contains(t, printed, "A-101", "students are annotated with their room")
	assert.Contains(t, printed, "== rooms ==")
	assert.Contains(t, printed, "1/2")
	assert.Contains(t, printed, "[ok] Room 102 updated")
	assert.Contains(t, printed, "admin@hostel.test")

	put := backend.Last(t, http.MethodPut, "/rooms/r2")
	assert.Equal(t, "maintenance", put.Body["status"])

	directoryLoads := 0
	for _, r := range backend.Find(http.MethodGet, "/rooms") {
		if r.Query.Get("limit") == "1000" {
			directoryLoads++
		}
	}
	assert.Equal(t, 2, directoryLoads, "room update invalidates the cached directory")
	assert.True(t, mr.Exists(pages.RoomDirectoryKey))

	for _, h := range auths.all() {
		assert.Equal(t, "Bearer jwt-admin", h)
	}
	assert.Len(t, backend.Find(http.MethodPost, "/auth/login"), 1)
}

func TestConsoleSession_StudentSeesOwnRecords(t *testing.T) {
	backend := pagestest.NewBackend(t)
	backend.Handle(http.MethodGet, "/auth/me", http.StatusOK, map[string]interface{}{
		"user": map[string]string{"_id": "s1", "name": "Ravi", "email": "ravi@hostel.test", "role": "student", "block": "A", "roomNumber": "101"},
	})
	backend.Handle(http.MethodGet, "/leaves/my", http.StatusOK, pagestest.List("leaves", []map[string]interface{}{
		{"_id": "l1", "leaveType": "home", "reason": "Festival", "status": "pending", "fromDate": "2026-10-20T00:00:00Z", "toDate": "2026-10-24T00:00:00Z"},
	}, 1, 1, 1, 10))

	base := httpclient.NewClient(backend.Server.URL, 2*time.Second)
	session := auth.NewSession(base, config.SessionConfig{Token: "issued-token"})

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	user, err := session.Login(ctx)
	require.NoError(t, err)

	deps := pages.Deps{
		Client: base.WithTokenSource(session),
		User:   user,
		Logger: logger.NewTestLogger(t),
	}

	var out bytes.Buffer
	script := "view users\nview leaves\nstats\nquit\n"
	require.NoError(t, console.New(strings.NewReader(script), &out, deps).Run(ctx))
	printed := out.String()

	assert.Contains(t, printed, "Signed in as Ravi (student)")
	assert.Contains(t, printed, `no view "users" for role student`)
	assert.Contains(t, printed, "2026-10-20")
	assert.Contains(t, printed, "error: stats is not available in leaves")
	assert.Empty(t, backend.Find(http.MethodGet, "/leaves"), "students only query their own records")
	assert.Empty(t, backend.Find(http.MethodGet, "/leaves/stats"))
}
