package listing

import (
	"context"
	"sync/atomic"
	"testing"

	apperrors "hostel-portal/internal/common/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedConfirmer struct {
	answer  bool
	prompts []Prompt
}

func (s *scriptedConfirmer) Confirm(_ context.Context, p Prompt) bool {
	s.prompts = append(s.prompts, p)
	return s.answer
}

func onPage3(t *testing.T, confirm Confirmer) (*Controller[row, testStats], *fakeBackend, *recordingNotifier) {
	t.Helper()
	b := &fakeBackend{total: 60}
	c, n := createTestController(t, b, func(o *Options[row, testStats]) { o.Confirmer = confirm })
	ctx := context.Background()
	c.Load(ctx)
	c.GoToPage(ctx, 3)
	require.Equal(t, 3, c.Pagination().CurrentPage)
	return c, b, n
}

func lastPage(b *fakeBackend) int {
	calls := b.listCalls()
	return calls[len(calls)-1].Page
}

func deletePrompt() *Prompt {
	return &Prompt{Title: "Delete complaint", Message: "This cannot be undone.", ConfirmLabel: "Delete", Severity: SeverityDanger}
}

func TestMutation_CreateRefreshesFirstPage(t *testing.T) {
	c, b, n := onPage3(t, nil)
	var calls int32

	err := c.Create(context.Background(), Mutation{
		Payload: map[string]interface{}{"title": "Fan", "description": "Broken fan", "category": "electrical"},
		Call:    func(context.Context) error { atomic.AddInt32(&calls, 1); return nil },
		Success: "Complaint submitted",
	})
	require.NoError(t, err)

	assert.Equal(t, int32(1), calls)
	assert.Equal(t, 1, lastPage(b))
	assert.Equal(t, []string{"Complaint submitted"}, n.Successes())
}

func TestMutation_CreateRejectsInvalidPayload(t *testing.T) {
	c, b, n := onPage3(t, nil)
	before := len(b.listCalls())
	var calls int32

	err := c.Create(context.Background(), Mutation{
		Payload: map[string]interface{}{"category": "electrical"},
		Call:    func(context.Context) error { atomic.AddInt32(&calls, 1); return nil },
	})

	var stdErr *apperrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, apperrors.ErrCodeValidationFailed, stdErr.Code)
	assert.Zero(t, calls)
	assert.Len(t, b.listCalls(), before)
	require.Len(t, n.Errors(), 1)
	assert.Contains(t, n.Errors()[0], "title is required")
}

func TestMutation_UpdateRefreshesCurrentPage(t *testing.T) {
	c, b, _ := onPage3(t, nil)

	require.NoError(t, c.Update(context.Background(), Mutation{Call: func(context.Context) error { return nil }}))
	assert.Equal(t, 3, lastPage(b))
}

func TestMutation_RefreshIncludesVisibleStats(t *testing.T) {
	c, b, _ := onPage3(t, nil)
	ctx := context.Background()
	c.ToggleStats(ctx)
	require.Len(t, b.statsCalls(), 1)

	require.NoError(t, c.Update(ctx, Mutation{Call: func(context.Context) error { return nil }}))
	assert.Len(t, b.statsCalls(), 2)
}

func TestMutation_DeleteDeclinedMakesNoCall(t *testing.T) {
	confirm := &scriptedConfirmer{answer: false}
	c, b, n := onPage3(t, confirm)
	before := len(b.listCalls())
	var calls int32

	err := c.Delete(context.Background(), Mutation{
		Call:   func(context.Context) error { atomic.AddInt32(&calls, 1); return nil },
		Prompt: deletePrompt(),
	})

	assert.NoError(t, err)
	assert.Zero(t, calls)
	assert.Len(t, b.listCalls(), before)
	assert.Empty(t, n.Errors())
	assert.Empty(t, n.Successes())
	require.Len(t, confirm.prompts, 1)
	assert.Equal(t, SeverityDanger, confirm.prompts[0].Severity)
}

func TestMutation_DeleteConfirmedRefreshesCurrentPage(t *testing.T) {
	c, b, n := onPage3(t, &scriptedConfirmer{answer: true})
	var calls int32

	err := c.Delete(context.Background(), Mutation{
		Call:    func(context.Context) error { atomic.AddInt32(&calls, 1); return nil },
		Prompt:  deletePrompt(),
		Success: "Complaint deleted",
	})

	require.NoError(t, err)
	assert.Equal(t, int32(1), calls)
	assert.Equal(t, 3, lastPage(b))
	assert.Equal(t, []string{"Complaint deleted"}, n.Successes())
}

func TestMutation_DestructiveWithoutPromptRefused(t *testing.T) {
	c, _, _ := onPage3(t, &scriptedConfirmer{answer: true})
	var calls int32
	call := func(context.Context) error { atomic.AddInt32(&calls, 1); return nil }

	assert.ErrorIs(t, c.Delete(context.Background(), Mutation{Call: call}), ErrConfirmationRequired)
	assert.ErrorIs(t, c.BulkUpdate(context.Background(), Mutation{Call: call}), ErrConfirmationRequired)
	assert.Zero(t, calls)
}

func TestMutation_NoConfirmerMeansDeclined(t *testing.T) {
	c, _, _ := onPage3(t, nil)
	var calls int32

	err := c.BulkUpdate(context.Background(), Mutation{
		Call:   func(context.Context) error { atomic.AddInt32(&calls, 1); return nil },
		Prompt: &Prompt{Title: "Resolve 3 complaints", Severity: SeverityWarning},
	})
	assert.NoError(t, err)
	assert.Zero(t, calls)
}

func TestMutation_CancelledContextDeclines(t *testing.T) {
	confirm := &scriptedConfirmer{answer: true}
	c, _, _ := onPage3(t, confirm)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var calls int32

	err := c.Delete(ctx, Mutation{
		Call:   func(context.Context) error { atomic.AddInt32(&calls, 1); return nil },
		Prompt: deletePrompt(),
	})
	assert.NoError(t, err)
	assert.Zero(t, calls)
	assert.Empty(t, confirm.prompts)
}

func TestMutation_FailureKeepsStateAndToasts(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"backend message", &apperrors.APIError{Status: 409, Message: "Complaint already resolved"}, "Complaint already resolved"},
		{"generic fallback", &apperrors.APIError{Status: 500}, "Failed to update complaint"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, b, n := onPage3(t, nil)
			before := c.Snapshot()
			calls := len(b.listCalls())

			err := c.Update(context.Background(), Mutation{
				Call:    func(context.Context) error { return tt.err },
				Failure: "Failed to update complaint",
			})

			assert.Error(t, err)
			assert.Equal(t, []string{tt.want}, n.Errors())
			assert.Len(t, b.listCalls(), calls, "no refresh after failure")
			assert.Equal(t, before.Items, c.Snapshot().Items)
			assert.Equal(t, before.Pagination, c.Snapshot().Pagination)
		})
	}
}

func TestMutation_DefaultFailureMessage(t *testing.T) {
	c, _, n := onPage3(t, &scriptedConfirmer{answer: true})

	_ = c.BulkUpdate(context.Background(), Mutation{
		Call:   func(context.Context) error { panic("nil map") },
		Prompt: &Prompt{Title: "Bulk", Severity: SeverityInfo},
	})
	assert.Equal(t, []string{"Failed to bulk-update complaints"}, n.Errors())
}

func TestMutation_ConfirmFuncAdapter(t *testing.T) {
	var seen Prompt
	f := ConfirmFunc(func(_ context.Context, p Prompt) bool { seen = p; return true })
	assert.True(t, f.Confirm(context.Background(), Prompt{Title: "x"}))
	assert.Equal(t, "x", seen.Title)
}
