// Package pages holds what every resource view shares: the dependencies
// a view is built from, the read model the console renders, and payload
// helpers for the mutation commands.
package pages

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	apperrors "hostel-portal/internal/common/errors"
	"hostel-portal/internal/common/logger"
	"hostel-portal/internal/listing"
	"hostel-portal/internal/models"
)

var (
	ErrNoSuchRow     = errors.New("NO_SUCH_ROW")
	ErrNotPermitted  = errors.New("NOT_PERMITTED")
	ErrNotApplicable = errors.New("NOT_APPLICABLE")
)

// InputError reports a command the view refused before any call was made.
// Mutation failures are toasted by the controller and are not InputErrors.
type InputError struct {
	Message string
}

func (e *InputError) Error() string { return e.Message }

func Invalid(format string, args ...interface{}) error {
	return &InputError{Message: fmt.Sprintf(format, args...)}
}

// IsInputError reports whether err was raised before any backend call, so
// the caller still has to show it.
func IsInputError(err error) bool {
	var ie *InputError
	return errors.As(err, &ie) || errors.Is(err, ErrNoSuchRow) || errors.Is(err, ErrNotPermitted) || errors.Is(err, ErrNotApplicable)
}

// NoSuchRow wraps ErrNoSuchRow with the 1-based row the user typed.
func NoSuchRow(i int) error {
	return fmt.Errorf("%w: %d", ErrNoSuchRow, i+1)
}

// Backend is the part of the HTTP client the views use.
type Backend interface {
	GetJSON(ctx context.Context, path string, query url.Values, out interface{}) error
	SendJSON(ctx context.Context, method, path string, body, out interface{}) error
}

// Cache is the optional shared cache for auxiliary lookups.
type Cache interface {
	GetJSON(ctx context.Context, key string, out interface{}) (bool, error)
	SetJSON(ctx context.Context, key string, v interface{}) error
	Del(ctx context.Context, keys ...string) error
}

// RoomDirectoryKey caches the user to room lookup built from /rooms.
const RoomDirectoryKey = "hostel:rooms:directory"

// Deps is everything needed to open a view for the signed-in user.
type Deps struct {
	Client    Backend
	Cache     Cache
	User      *models.User
	Notifier  apperrors.Notifier
	Logger    logger.Logger
	Confirmer listing.Confirmer
	Debounce  time.Duration
	// ItemsPerPage overrides the per-resource default when positive.
	ItemsPerPage func(resource string) int
	// RoomDirectoryLimit bounds the room query behind the users view.
	RoomDirectoryLimit int
	OnChange           func()
}

// Role returns the signed-in role, defaulting to the least privileged.
func (d Deps) Role() models.Role {
	if d.User == nil {
		return models.RoleStudent
	}
	return d.User.Role
}

// Block is the signed-in user's block, used for scoped defaults.
func (d Deps) Block() string {
	if d.User == nil {
		return ""
	}
	return d.User.Block
}

// Bind assembles controller options from the shared dependencies.
func Bind[T any, S any](d Deps, resource string, fallbackIPP int, list listing.ListFunc[T], stats listing.StatsFunc[S], facets []listing.Facet, defaults map[string]string) listing.Options[T, S] {
	ipp := fallbackIPP
	if d.ItemsPerPage != nil {
		if n := d.ItemsPerPage(resource); n > 0 {
			ipp = n
		}
	}
	return listing.Options[T, S]{
		Resource:       resource,
		List:           list,
		Stats:          stats,
		Facets:         facets,
		DefaultFilters: defaults,
		ItemsPerPage:   ipp,
		Debounce:       d.Debounce,
		Notifier:       d.Notifier,
		Logger:         d.Logger,
		Confirmer:      d.Confirmer,
		OnChange:       d.OnChange,
	}
}

// Action names a mutation command a view may offer.
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionBulk   Action = "bulk"
	ActionToggle Action = "toggle"
	ActionStatus Action = "status"
)

// Permissions maps each role to the actions it may run.
type Permissions map[models.Role][]Action

func (p Permissions) Allows(role models.Role, a Action) bool {
	for _, allowed := range p[role] {
		if allowed == a {
			return true
		}
	}
	return false
}

// Field is one labelled value in a detail or stats panel.
type Field struct {
	Label string
	Value string
}

// Table is the current page as display strings.
type Table struct {
	Columns []string
	Rows    [][]string
}

// Summary is the non-item part of a snapshot.
type Summary struct {
	Query           listing.QueryState
	Pagination      listing.Pagination
	ItemCount       int
	Loading         bool
	ShowStats       bool
	FiltersExpanded bool
	FiltersActive   bool
	ShowControls    bool
}

func Summarize[T any, S any](snap listing.Snapshot[T, S]) Summary {
	return Summary{
		Query:           snap.Query,
		Pagination:      snap.Pagination,
		ItemCount:       len(snap.Items),
		Loading:         snap.Loading,
		ShowStats:       snap.ShowStats,
		FiltersExpanded: snap.FiltersExpanded,
		FiltersActive:   snap.FiltersActive,
		ShowControls:    snap.ShowControls,
	}
}

// View is what the console drives. Every resource page satisfies it by
// embedding its listing controller.
type View interface {
	Name() string
	Load(ctx context.Context)
	Refresh(ctx context.Context)
	SetSearch(term string)
	SetFilter(key, value string) error
	ClearFilters()
	ToggleFilters() bool
	GoToPage(ctx context.Context, n int)
	Next(ctx context.Context) bool
	Prev(ctx context.Context) bool
	ToggleStats(ctx context.Context) bool
	HasStats() bool
	Facets() []listing.Facet
	Close()

	Summary() Summary
	Table() Table
	StatsPanel() []Field
	Detail(i int) ([]Field, bool)
	Allows(a Action) bool
}

// Creator, Updater and the rest are the optional mutation commands.
type Creator interface {
	CreateFrom(ctx context.Context, fields map[string]string) error
}

type Updater interface {
	UpdateRow(ctx context.Context, i int, fields map[string]string) error
}

type Deleter interface {
	DeleteRow(ctx context.Context, i int) error
}

type BulkUpdater interface {
	BulkUpdateRows(ctx context.Context, rows []int, fields map[string]string) error
}

type Toggler interface {
	ToggleRow(ctx context.Context, i int) error
}

type StatusSetter interface {
	SetRowStatus(ctx context.Context, i int, status, note string) error
}

// CredentialSource is implemented by views whose create call echoes login
// credentials. PopCredentials returns them once.
type CredentialSource interface {
	PopCredentials() (models.Credentials, bool)
}

// Kind is the JSON type a form field is converted to.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindFloat
	KindBool
)

// BuildPayload converts console key=value fields into a JSON body. Keys not
// in schema are dropped; values that fail to parse are passed through as
// strings so schema validation reports them.
func BuildPayload(fields map[string]string, schema map[string]Kind) map[string]interface{} {
	out := make(map[string]interface{}, len(fields))
	for key, raw := range fields {
		kind, ok := schema[key]
		if !ok {
			continue
		}
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		out[key] = convert(raw, kind)
	}
	return out
}

func convert(raw string, kind Kind) interface{} {
	switch kind {
	case KindInt:
		if n, err := strconv.Atoi(raw); err == nil {
			return n
		}
	case KindFloat:
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			return f
		}
	case KindBool:
		switch strings.ToLower(raw) {
		case "true", "yes", "1":
			return true
		case "false", "no", "0":
			return false
		}
	}
	return raw
}

// Rows resolves 0-based row indexes to items on the current page.
func Rows[T any](item func(int) (T, bool), rows []int) ([]T, error) {
	out := make([]T, 0, len(rows))
	for _, i := range rows {
		it, ok := item(i)
		if !ok {
			return nil, NoSuchRow(i)
		}
		out = append(out, it)
	}
	return out, nil
}

// Date formats a timestamp for tables, or "-" when unset.
func Date(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02")
}

func DatePtr(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return Date(*t)
}

func Money(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func YesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func OrDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

// Truncate shortens s to n runes for table cells.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}

// Index renders the 1-based row number shown in the first column.
func Index(i int) string {
	return fmt.Sprint(i + 1)
}

// ItemPath joins a collection path and an id.
func ItemPath(base, id string, suffix ...string) string {
	p := base + "/" + url.PathEscape(id)
	for _, s := range suffix {
		p += "/" + s
	}
	return p
}
