package fees

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

func sampleFees() []map[string]interface{} {
	return []map[string]interface{}{
		{"_id": "f1", "student": map[string]string{"_id": "s1", "name": "Ravi"}, "block": "A", "roomNumber": "101",
			"feeType": "hostel", "amount": 5000, "paidAmount": 5000, "status": "paid", "month": "October", "year": 2026, "dueDate": "2026-10-10T00:00:00Z"},
		{"_id": "f2", "student": map[string]string{"_id": "s2", "name": "Kiran"}, "block": "A", "roomNumber": "101",
			"feeType": "mess", "amount": 3000, "paidAmount": 1000, "status": "partial", "month": "October", "year": 2026, "dueDate": "2026-10-10T00:00:00Z"},
		{"_id": "f3", "student": map[string]string{"_id": "s3", "name": "Asha"}, "block": "B", "roomNumber": "204",
			"feeType": "hostel", "amount": 5000, "status": "overdue", "month": "September", "year": 2026},
	}
}

func TestGroupByRoom(t *testing.T) {
	fees := []models.Fee{
		{Block: "B", RoomNumber: "204", Amount: 5000, Status: "overdue", Student: &models.UserRef{Name: "Asha"}},
		{Block: "A", RoomNumber: "101", Amount: 5000, PaidAmount: 5000, Student: &models.UserRef{Name: "Ravi"}},
		{Amount: 800, PaidAmount: 200},
		{Block: "A", RoomNumber: "101", Amount: 3000, PaidAmount: 1000, Student: &models.UserRef{Name: "Ravi"}},
		{Block: "A", RoomNumber: "101", Amount: 1000, PaidAmount: 1500, Student: &models.UserRef{Name: "Kiran"}},
	}

	groups := GroupByRoom(fees)
	require.Len(t, groups, 3)

	assert.Equal(t, RoomGroup{
		RoomNumber: "101", Block: "A", Records: 3,
		Amount: 9000, Paid: 7500, Pending: 2000,
		Students: []string{"Ravi", "Kiran"},
	}, groups[0])
	assert.Equal(t, "204", groups[1].RoomNumber)
	assert.Equal(t, 5000.0, groups[1].Pending)
	assert.Equal(t, "Unassigned", groups[2].RoomNumber)
	assert.Equal(t, 600.0, groups[2].Pending)
	assert.Empty(t, groups[2].Students)

	assert.Empty(t, GroupByRoom(nil))
}

func TestPage_WardenScopedToBlock(t *testing.T) {
	fx := pagestest.NewFixture(t, pagestest.Warden("A"))
	fx.Backend.Handle(http.MethodGet, "/fees", http.StatusOK, pagestest.List("fees", sampleFees()[:2], 1, 1, 2, 20))

	p := New(fx.Deps)
	t.Cleanup(p.Close)
	p.Load(context.Background())

	req := fx.Backend.Last(t, http.MethodGet, "/fees")
	assert.Equal(t, "A", req.Query.Get("block"))
	assert.Equal(t, "20", req.Query.Get("limit"))
	assert.True(t, p.Summary().FiltersActive)

	table := p.Table()
	require.Len(t, table.Rows, 2)
	assert.Equal(t, []string{"1", "Ravi", "A-101", "hostel", "October 2026", "5000.00", "5000.00", "paid", "2026-10-10"}, table.Rows[0])
}

func TestPage_Groups(t *testing.T) {
	fx := pagestest.NewFixture(t, pagestest.Admin())
	fx.Backend.Handle(http.MethodGet, "/fees", http.StatusOK, map[string]interface{}{"data": sampleFees()})

	p := New(fx.Deps)
	t.Cleanup(p.Close)
	p.Load(context.Background())

	groups := p.Groups()
	require.Len(t, groups.Rows, 2)
	assert.Equal(t, []string{"A", "101", "2", "8000.00", "6000.00", "2000.00", "Ravi, Kiran"}, groups.Rows[0])
	assert.Equal(t, []string{"B", "204", "1", "5000.00", "0.00", "5000.00", "Asha"}, groups.Rows[1])
}

func TestPage_StudentSeesOwnFees(t *testing.T) {
	fx := pagestest.NewFixture(t, pagestest.Student("A"))
	fx.Backend.Handle(http.MethodGet, "/fees/my", http.StatusOK, map[string]interface{}{"data": sampleFees()[:1]})

	p := New(fx.Deps)
	t.Cleanup(p.Close)
	ctx := context.Background()
	p.Load(ctx)

	assert.False(t, p.HasStats())
	assert.Len(t, p.Table().Rows, 1)
	assert.ErrorIs(t, p.CreateFrom(ctx, map[string]string{"feeType": "mess"}), pages.ErrNotPermitted)
	assert.ErrorIs(t, p.UpdateRow(ctx, 0, map[string]string{"paidAmount": "1"}), pages.ErrNotPermitted)
	assert.Empty(t, fx.Backend.Find(http.MethodGet, "/fees"))
}

func TestPage_RecordPaymentRefreshesCurrentPage(t *testing.T) {
	fx := pagestest.NewFixture(t, pagestest.Admin())
	fx.Backend.Handle(http.MethodGet, "/fees", http.StatusOK, pagestest.List("fees", sampleFees(), 2, 3, 60, 20))
	fx.Backend.Handle(http.MethodPut, "/fees/f2", http.StatusOK, nil)

	p := New(fx.Deps)
	t.Cleanup(p.Close)
	ctx := context.Background()
	p.Fetch(ctx, 2)

	require.NoError(t, p.UpdateRow(ctx, 1, map[string]string{"paidAmount": "3000", "status": "paid", "note": "ignored"}))

	put := fx.Backend.Last(t, http.MethodPut, "/fees/f2")
	assert.Equal(t, map[string]interface{}{"paidAmount": 3000.0, "status": "paid"}, put.Body)
	assert.Equal(t, "2", fx.Backend.Last(t, http.MethodGet, "/fees").Query.Get("page"))
	assert.Equal(t, []string{"Fee record updated"}, fx.Notifier.Successes())

	assert.True(t, pages.IsInputError(p.UpdateRow(ctx, 1, map[string]string{"status": "waived"})))
	assert.True(t, pages.IsInputError(p.UpdateRow(ctx, 1, nil)))
	assert.ErrorIs(t, p.UpdateRow(ctx, 9, map[string]string{"status": "paid"}), pages.ErrNoSuchRow)
}

func TestPage_BulkAndDelete(t *testing.T) {
	fx := pagestest.NewFixture(t, pagestest.Admin())
	fx.Backend.Handle(http.MethodGet, "/fees", http.StatusOK, map[string]interface{}{"data": sampleFees()})
	fx.Backend.Handle(http.MethodPut, "/fees/bulk-update", http.StatusOK, nil)
	fx.Backend.Handle(http.MethodDelete, "/fees/f3", http.StatusBadRequest, map[string]string{"message": "Cannot delete a fee with payments"})

	p := New(fx.Deps)
	t.Cleanup(p.Close)
	ctx := context.Background()
	p.Load(ctx)

	require.NoError(t, p.BulkUpdateRows(ctx, []int{1, 2}, map[string]string{"status": "overdue"}))
	assert.Equal(t, []interface{}{"f2", "f3"}, fx.Backend.Last(t, http.MethodPut, "/fees/bulk-update").Body["feeIds"])

	err := p.DeleteRow(ctx, 2)
	require.Error(t, err)
	assert.False(t, pages.IsInputError(err))
	assert.Equal(t, []string{"Cannot delete a fee with payments"}, fx.Notifier.Errors())
	assert.Len(t, p.Table().Rows, 3)
}
