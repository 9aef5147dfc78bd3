package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/mamutes/party-service/internal/queue"
	"github.com/mamutes/party-service/internal/repository"
)

// Store is the persistence contract a Resource needs. Both
// repository.Repo (MySQL) and repository.MemRepo satisfy it.
type Store[T any] interface {
	Table() repository.Table[T]
	FindAll(ctx context.Context) ([]T, error)
	FindByID(ctx context.Context, id int64) (*T, error)
	ExistsByID(ctx context.Context, id int64) (bool, error)
	Insert(ctx context.Context, e *T) error
	Update(ctx context.Context, e *T) error
	DeleteByID(ctx context.Context, id int64) error
}

// Publisher receives a ChangeEvent after every successful write.
type Publisher interface {
	Publish(ctx context.Context, ev queue.ChangeEvent) error
}

const publishTimeout = 2 * time.Second

// Resource is the endpoint set of one entity kind T. R is the full wire
// schema accepted by create and replace, P the partial one accepted by
// patch.
type Resource[T, R, P any] struct {
	store        Store[T]
	table        repository.Table[T]
	fill         func(*R, *T) // overwrite every field
	merge        func(*P, *T) // overwrite fields present in the patch
	defaultLimit int
	events       Publisher
	log          *zap.Logger
}

// ResourceOption customises a Resource.
type ResourceOption func(*resourceOptions)

type resourceOptions struct {
	defaultLimit int
	events       Publisher
	log          *zap.Logger
}

// WithDefaultLimit sets the page size used when ?limit is absent (10 by default).
func WithDefaultLimit(n int) ResourceOption {
	return func(o *resourceOptions) { o.defaultLimit = n }
}

// WithEvents publishes a ChangeEvent for each successful write.
func WithEvents(p Publisher) ResourceOption {
	return func(o *resourceOptions) { o.events = p }
}

// WithLogger sets the logger used for failed change event publishes.
func WithLogger(l *zap.Logger) ResourceOption {
	return func(o *resourceOptions) { o.log = l }
}

// NewResource builds the endpoint set for one entity kind. It panics when
// any of the required dependencies is nil.
func NewResource[T, R, P any](store Store[T], fill func(*R, *T), merge func(*P, *T), opts ...ResourceOption) *Resource[T, R, P] {
	if store == nil || fill == nil || merge == nil {
		panic("nil dependency passed to NewResource")
	}
	o := resourceOptions{defaultLimit: 10, log: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	return &Resource[T, R, P]{
		store:        store,
		table:        store.Table(),
		fill:         fill,
		merge:        merge,
		defaultLimit: o.defaultLimit,
		events:       o.events,
		log:          o.log,
	}
}

// Create handles POST /{root}.
func (h *Resource[T, R, P]) Create(c echo.Context) error {
	var req R
	if err := bindBody(c, &req); err != nil {
		return err
	}
	var e T
	h.fill(&req, &e)
	if err := h.store.Insert(c.Request().Context(), &e); err != nil {
		return err
	}
	h.publish(c, queue.ActionCreated, *h.table.ID(&e), &e)
	return c.JSON(http.StatusCreated, &e)
}

// List handles GET /{root}?skip=&limit=. The window is cut from the full
// table after it is read.
func (h *Resource[T, R, P]) List(c echo.Context) error {
	skip, limit := 0, h.defaultLimit
	if err := echo.QueryParamsBinder(c).Int("skip", &skip).Int("limit", &limit).BindError(); err != nil {
		return &ValidationError{Message: "invalid query parameter", Fields: bindingFields(err)}
	}
	if skip < 0 || limit < 0 {
		return &ValidationError{Message: "skip and limit must not be negative"}
	}
	all, err := h.store.FindAll(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, window(all, skip, limit))
}

// Get handles GET /{root}/:id.
func (h *Resource[T, R, P]) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	e, err := h.store.FindByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, e)
}

// Replace handles PUT /{root}/:id. Every field is overwritten.
func (h *Resource[T, R, P]) Replace(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req R
	if err := bindBody(c, &req); err != nil {
		return err
	}
	ctx := c.Request().Context()
	cur, err := h.store.FindByID(ctx, id)
	if err != nil {
		return err
	}
	h.fill(&req, cur)
	if err := h.store.Update(ctx, cur); err != nil {
		return err
	}
	h.publish(c, queue.ActionReplaced, id, cur)
	return c.JSON(http.StatusOK, cur)
}

// Patch handles PATCH /{root}/:id. Only fields present in the body change.
func (h *Resource[T, R, P]) Patch(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req P
	if err := bindBody(c, &req); err != nil {
		return err
	}
	ctx := c.Request().Context()
	cur, err := h.store.FindByID(ctx, id)
	if err != nil {
		return err
	}
	h.merge(&req, cur)
	if err := h.store.Update(ctx, cur); err != nil {
		return err
	}
	h.publish(c, queue.ActionPatched, id, cur)
	return c.JSON(http.StatusOK, cur)
}

// Delete handles DELETE /{root}/:id. An absent id is reported as not
// found even though the store treats it as a no-op.
func (h *Resource[T, R, P]) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	ok, err := h.store.ExistsByID(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return &repository.NotFoundError{Entity: h.table.Entity, ID: id}
	}
	if err := h.store.DeleteByID(ctx, id); err != nil {
		return err
	}
	h.publish(c, queue.ActionDeleted, id, nil)
	return c.NoContent(http.StatusNoContent)
}

// publish sends a change event without failing the request; the write is
// already committed.
func (h *Resource[T, R, P]) publish(c echo.Context, action queue.Action, id int64, record *T) {
	if h.events == nil {
		return
	}
	ev := queue.ChangeEvent{
		MessageID:  uuid.NewString(),
		Entity:     h.table.Name,
		Action:     action,
		ID:         id,
		OccurredAt: time.Now().UTC(),
	}
	if record != nil {
		raw, err := json.Marshal(record)
		if err != nil {
			h.log.Warn("encode change record", zap.Error(err))
		}
		ev.Record = raw
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request().Context()), publishTimeout)
	defer cancel()
	if err := h.events.Publish(ctx, ev); err != nil {
		h.log.Warn("publish change event",
			zap.Error(err),
			zap.String("entity", ev.Entity),
			zap.String("action", string(ev.Action)),
			zap.Int64("id", id),
		)
	}
}

func bindBody(c echo.Context, v any) error {
	if err := (&echo.DefaultBinder{}).BindBody(c, v); err != nil {
		return bindError(err)
	}
	return c.Validate(v)
}

func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, &ValidationError{Message: "invalid id", Fields: map[string]string{"id": "int"}}
	}
	return id, nil
}

func bindingFields(err error) map[string]string {
	if be, ok := err.(*echo.BindingError); ok {
		return map[string]string{be.Field: "int"}
	}
	return nil
}

// window returns all[skip:skip+limit] clamped to the slice bounds.
func window[T any](all []T, skip, limit int) []T {
	if skip >= len(all) {
		return []T{}
	}
	end := len(all)
	if limit < end-skip {
		end = skip + limit
	}
	return all[skip:end]
}
