// Package pagestest provides a fake hostel backend and recording
// collaborators for view tests.
package pagestest

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	httpclient "hostel-portal/internal/common/http"
	"hostel-portal/internal/common/logger"
	"hostel-portal/internal/listing"
	"hostel-portal/internal/models"
	"hostel-portal/internal/pages"
)

// Request is one call the fake backend received.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   map[string]interface{}
}

// Backend routes "METHOD /path" to canned JSON responses.
type Backend struct {
	Server *httptest.Server

	mu       sync.Mutex
	routes   map[string]http.HandlerFunc
	requests []Request
}

func NewBackend(t testing.TB) *Backend {
	t.Helper()
	b := &Backend{routes: make(map[string]http.HandlerFunc)}
	b.Server = httptest.NewServer(http.HandlerFunc(b.serve))
	t.Cleanup(b.Server.Close)
	return b
}

func (b *Backend) serve(w http.ResponseWriter, r *http.Request) {
	req := Request{Method: r.Method, Path: r.URL.Path, Query: r.URL.Query()}
	if raw, _ := io.ReadAll(r.Body); len(raw) > 0 {
		_ = json.Unmarshal(raw, &req.Body)
	}

	b.mu.Lock()
	b.requests = append(b.requests, req)
	h, ok := b.routes[r.Method+" "+r.URL.Path]
	b.mu.Unlock()

	if !ok {
		WriteJSON(w, http.StatusNotFound, map[string]string{"message": "Route not found"})
		return
	}
	h(w, r)
}

// Handle serves body with status for every request to method+path.
func (b *Backend) Handle(method, path string, status int, body interface{}) {
	b.HandleFunc(method, path, func(w http.ResponseWriter, _ *http.Request) {
		WriteJSON(w, status, body)
	})
}

func (b *Backend) HandleFunc(method, path string, fn http.HandlerFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.routes[method+" "+path] = fn
}

func (b *Backend) Requests() []Request {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Request(nil), b.requests...)
}

// Find returns the requests made to method+path, oldest first.
func (b *Backend) Find(method, path string) []Request {
	var out []Request
	for _, r := range b.Requests() {
		if r.Method == method && r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

// Last returns the newest request to method+path.
func (b *Backend) Last(t testing.TB, method, path string) Request {
	t.Helper()
	found := b.Find(method, path)
	if len(found) == 0 {
		t.Fatalf("no %s %s request recorded", method, path)
	}
	return found[len(found)-1]
}

func (b *Backend) Client() *httpclient.Client {
	return httpclient.NewClient(b.Server.URL, 2*time.Second, httpclient.WithTokenSource(staticToken("test-token")))
}

func WriteJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// List builds a list response with a full pagination object.
func List(key string, items interface{}, page, totalPages, totalItems, perPage int) map[string]interface{} {
	return map[string]interface{}{
		key: items,
		"pagination": map[string]interface{}{
			"currentPage":  page,
			"totalPages":   totalPages,
			"totalItems":   totalItems,
			"itemsPerPage": perPage,
			"hasNext":      page < totalPages,
			"hasPrev":      page > 1,
		},
	}
}

type staticToken string

func (s staticToken) Token(context.Context) (string, error) { return string(s), nil }

// Notifier records toasts.
type Notifier struct {
	mu        sync.Mutex
	errors    []string
	successes []string
}

func (n *Notifier) Success(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.successes = append(n.successes, msg)
}

func (n *Notifier) Error(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.errors = append(n.errors, msg)
}

func (n *Notifier) Errors() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.errors...)
}

func (n *Notifier) Successes() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.successes...)
}

// Confirmer answers every prompt with Answer and keeps the prompts.
type Confirmer struct {
	Answer bool

	mu      sync.Mutex
	prompts []listing.Prompt
}

func (c *Confirmer) Confirm(_ context.Context, p listing.Prompt) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prompts = append(c.prompts, p)
	return c.Answer
}

func (c *Confirmer) Prompts() []listing.Prompt {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]listing.Prompt(nil), c.prompts...)
}

// Fixture bundles the collaborators a view test needs.
type Fixture struct {
	Backend   *Backend
	Notifier  *Notifier
	Confirmer *Confirmer
	Deps      pages.Deps
}

// NewFixture wires a fake backend for user with no debounce delay, so
// search and filter edits fetch inline.
func NewFixture(t testing.TB, user *models.User) *Fixture {
	t.Helper()
	b := NewBackend(t)
	n := &Notifier{}
	c := &Confirmer{Answer: true}
	return &Fixture{
		Backend:   b,
		Notifier:  n,
		Confirmer: c,
		Deps: pages.Deps{
			Client:    b.Client(),
			User:      user,
			Notifier:  n,
			Logger:    logger.NewTestLogger(t),
			Confirmer: c,
		},
	}
}

func Admin() *models.User {
	return &models.User{ID: "admin-1", Name: "Admin", Email: "admin@hostel.test", Role: models.RoleAdmin}
}

func Warden(block string) *models.User {
	return &models.User{ID: "warden-1", Name: "Meera", Email: "meera@hostel.test", Role: models.RoleWarden, Block: block}
}

func Student(block string) *models.User {
	return &models.User{ID: "student-1", Name: "Ravi", Email: "ravi@hostel.test", Role: models.RoleStudent, Block: block, RoomNumber: "101"}
}
