package wardens

import (
	"context"
	"net/http"
	"testing"

	"hostel-portal/internal/models"
	"hostel-portal/internal/pages"
	"hostel-portal/internal/pages/pagestest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleWardens() map[string]interface{} {
	return map[string]interface{}{
		"wardens": []map[string]interface{}{
			{"_id": "w1", "name": "Meera", "email": "meera@hostel.test", "phone": "9845012345", "block": "A", "isActive": true},
			{"_id": "w2", "name": "Joseph", "email": "joseph@hostel.test", "isActive": true},
		},
		"total": 2,
	}
}

func TestPage_Table(t *testing.T) {
	fx := pagestest.NewFixture(t, pagestest.Admin())
	fx.Backend.Handle(http.MethodGet, "/wardens", http.StatusOK, sampleWardens())
	fx.Backend.Handle(http.MethodGet, "/wardens/stats", http.StatusOK, map[string]interface{}{
		"data": map[string]interface{}{"overview": map[string]int{"total": 2, "active": 2, "unassigned": 1}},
	})

	p := New(fx.Deps)
	t.Cleanup(p.Close)
	ctx := context.Background()
	p.Load(ctx)
	p.ToggleStats(ctx)

	table := p.Table()
	require.Len(t, table.Rows, 2)
	assert.Equal(t, []string{"1", "Meera", "meera@hostel.test", "9845012345", "A", "yes"}, table.Rows[0])
	assert.Equal(t, []string{"2", "Joseph", "joseph@hostel.test", "-", "unassigned", "yes"}, table.Rows[1])
	assert.Contains(t, p.StatsPanel(), pages.Field{Label: "Unassigned", Value: "1"})
	assert.False(t, p.Summary().Pagination.ShowChrome())
}

func TestPage_CreateWithCredentials(t *testing.T) {
	fx := pagestest.NewFixture(t, pagestest.Admin())
	fx.Backend.Handle(http.MethodGet, "/wardens", http.StatusOK, sampleWardens())
	fx.Backend.Handle(http.MethodPost, "/wardens", http.StatusCreated, map[string]interface{}{
		"warden":      map[string]string{"_id": "w3", "name": "Farah"},
		"credentials": map[string]string{"email": "farah@hostel.test", "password": "Wd!9921"},
	})

	p := New(fx.Deps)
	t.Cleanup(p.Close)
	ctx := context.Background()

	require.NoError(t, p.CreateFrom(ctx, map[string]string{"name": "Farah", "email": "farah@hostel.test", "block": "C", "isActive": "false"}))
	body := fx.Backend.Last(t, http.MethodPost, "/wardens").Body
	assert.NotContains(t, body, "isActive")
	assert.Equal(t, "C", body["block"])

	creds, ok := p.PopCredentials()
	require.True(t, ok)
	assert.Equal(t, models.Credentials{Email: "farah@hostel.test", Password: "Wd!9921"}, creds)
	assert.Equal(t, []string{"Warden created"}, fx.Notifier.Successes())
}

func TestPage_NonAdminCannotMutate(t *testing.T) {
	fx := pagestest.NewFixture(t, pagestest.Warden("A"))
	fx.Backend.Handle(http.MethodGet, "/wardens", http.StatusOK, sampleWardens())

	p := New(fx.Deps)
	t.Cleanup(p.Close)
	ctx := context.Background()
	p.Load(ctx)

	assert.ErrorIs(t, p.CreateFrom(ctx, map[string]string{"name": "X"}), pages.ErrNotPermitted)
	assert.ErrorIs(t, p.ToggleRow(ctx, 0), pages.ErrNotPermitted)
	assert.ErrorIs(t, p.DeleteRow(ctx, 0), pages.ErrNotPermitted)
}

func TestPage_DeleteAndToggle(t *testing.T) {
	fx := pagestest.NewFixture(t, pagestest.Admin())
	fx.Backend.Handle(http.MethodGet, "/wardens", http.StatusOK, sampleWardens())
	fx.Backend.Handle(http.MethodPut, "/wardens/w1", http.StatusOK, nil)
	fx.Backend.Handle(http.MethodDelete, "/wardens/w1", http.StatusOK, nil)

	p := New(fx.Deps)
	t.Cleanup(p.Close)
	ctx := context.Background()
	p.Load(ctx)

	require.NoError(t, p.ToggleRow(ctx, 0))
	assert.Equal(t, false, fx.Backend.Last(t, http.MethodPut, "/wardens/w1").Body["isActive"])

	require.NoError(t, p.DeleteRow(ctx, 0))
	prompts := fx.Confirmer.Prompts()
	require.Len(t, prompts, 1)
	assert.Contains(t, prompts[0].Message, "Block A will be left without a warden")
	assert.Len(t, fx.Backend.Find(http.MethodDelete, "/wardens/w1"), 1)
	assert.Equal(t, []string{"Meera deactivated", "Warden deleted"}, fx.Notifier.Successes())
}
