package listing

import (
	"context"
	"fmt"

	apperrors "hostel-portal/internal/common/errors"
	"hostel-portal/internal/common/metrics"
	"hostel-portal/internal/common/validation"
)

type Severity string

const (
	SeverityDanger  Severity = "danger"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Prompt is the content of a yes/no confirmation.
type Prompt struct {
	Title        string
	Message      string
	ConfirmLabel string
	Severity     Severity
}

// Confirmer blocks until the user answers. Cancelling, dismissing or a done
// context must all answer false.
type Confirmer interface {
	Confirm(ctx context.Context, p Prompt) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, p Prompt) bool

func (f ConfirmFunc) Confirm(ctx context.Context, p Prompt) bool { return f(ctx, p) }

// Mutation describes one create/update/delete/bulk call.
type Mutation struct {
	// Action labels the call in metrics and the generic failure message.
	Action string
	// Payload is validated against the resource schema before a create.
	Payload interface{}
	Call    func(ctx context.Context) error
	// Success is shown after the call succeeds; empty shows nothing.
	Success string
	// Failure is the fallback message when the backend sends none.
	Failure string
	// Prompt, when set, must be confirmed before Call runs. Delete and
	// BulkUpdate refuse to run without one.
	Prompt *Prompt
}

type refreshTarget int

const (
	refreshFirstPage refreshTarget = iota
	refreshCurrentPage
)

// Create runs m and then reloads page 1.
func (c *Controller[T, S]) Create(ctx context.Context, m Mutation) error {
	if m.Action == "" {
		m.Action = "create"
	}
	if m.Payload != nil {
		if err := validation.ValidateCreate(c.opts.Resource, m.Payload); err != nil {
			metrics.MutationTotal.WithLabelValues(c.opts.Resource, m.Action, "invalid").Inc()
			c.handler.Handle(err, "Please check the form")
			return err
		}
	}
	return c.mutate(ctx, m, refreshFirstPage, false)
}

// Update runs m and then reloads the page that was showing.
func (c *Controller[T, S]) Update(ctx context.Context, m Mutation) error {
	if m.Action == "" {
		m.Action = "update"
	}
	return c.mutate(ctx, m, refreshCurrentPage, false)
}

// Delete requires a confirmed prompt, then behaves like Update.
func (c *Controller[T, S]) Delete(ctx context.Context, m Mutation) error {
	if m.Action == "" {
		m.Action = "delete"
	}
	return c.mutate(ctx, m, refreshCurrentPage, true)
}

// BulkUpdate requires a confirmed prompt, then behaves like Update.
func (c *Controller[T, S]) BulkUpdate(ctx context.Context, m Mutation) error {
	if m.Action == "" {
		m.Action = "bulk-update"
	}
	return c.mutate(ctx, m, refreshCurrentPage, true)
}

// mutate returns nil without calling anything when the user declines.
func (c *Controller[T, S]) mutate(ctx context.Context, m Mutation, target refreshTarget, destructive bool) error {
	if m.Call == nil {
		return fmt.Errorf("%s %s: no call bound", m.Action, c.opts.Resource)
	}
	if destructive && m.Prompt == nil {
		c.log.Error("destructive mutation without confirmation prompt", map[string]interface{}{"action": m.Action})
		return ErrConfirmationRequired
	}
	if m.Prompt != nil && !c.confirm(ctx, *m.Prompt) {
		metrics.MutationTotal.WithLabelValues(c.opts.Resource, m.Action, "declined").Inc()
		c.log.Debug("mutation declined", map[string]interface{}{"action": m.Action})
		return nil
	}

	page := c.currentPage()
	if target == refreshFirstPage {
		page = 1
	}

	if err := safeCall(ctx, m.Call); err != nil {
		metrics.MutationTotal.WithLabelValues(c.opts.Resource, m.Action, "failure").Inc()
		fallback := m.Failure
		if fallback == "" {
			fallback = fmt.Sprintf("Failed to %s %s", m.Action, c.opts.Resource)
		}
		c.handler.Handle(apperrors.NewMutationFailedError(c.opts.Resource, m.Action, err), fallback)
		return err
	}

	metrics.MutationTotal.WithLabelValues(c.opts.Resource, m.Action, "success").Inc()
	if m.Success != "" {
		c.opts.Notifier.Success(m.Success)
	}
	c.refresh(ctx, page)
	return nil
}

func (c *Controller[T, S]) confirm(ctx context.Context, p Prompt) bool {
	if c.opts.Confirmer == nil || ctx.Err() != nil {
		return false
	}
	return c.opts.Confirmer.Confirm(ctx, p)
}

func safeCall(ctx context.Context, call func(ctx context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("mutation panicked: %v", r)
		}
	}()
	return call(ctx)
}
