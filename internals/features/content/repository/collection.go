package repository

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"biolab_backend/internals/features/content/model"
	"biolab_backend/internals/features/content/schema"
)

// Store is the row store a Collection writes through. ContentRepository implements it.
type Store interface {
	Create(ctx context.Context, kind schema.Kind, m *model.ContentModel) error
	Update(ctx context.Context, kind schema.Kind, id uuid.UUID, p schema.Payload) (model.ContentModel, error)
	Delete(ctx context.Context, kind schema.Kind, id uuid.UUID) error
	FetchAll(ctx context.Context, kind schema.Kind, f ListFilter) ([]model.ContentModel, error)
}

// Collection is the in-memory list of one kind, newest first. It only changes after the
// store confirms a write, so it always matches the last successful response.
type Collection struct {
	kind  schema.Kind
	store Store

	mu     sync.RWMutex
	items  []model.ContentModel
	loaded bool
}

func NewCollection(kind schema.Kind, store Store) *Collection {
	return &Collection{kind: kind, store: store}
}

func (c *Collection) Kind() schema.Kind { return c.kind }

// Load replaces the list with a fresh FetchAll.
func (c *Collection) Load(ctx context.Context) error {
	rows, err := c.store.FetchAll(ctx, c.kind, ListFilter{})
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.items = rows
	c.loaded = true
	c.mu.Unlock()
	return nil
}

func (c *Collection) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

// Items returns a copy of the list.
func (c *Collection) Items() []model.ContentModel {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]model.ContentModel(nil), c.items...)
}

func (c *Collection) Get(id uuid.UUID) (model.ContentModel, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, m := range c.items {
		if m.ID == id {
			return m, true
		}
	}
	return model.ContentModel{}, false
}

// Create inserts p and prepends the stored row.
func (c *Collection) Create(ctx context.Context, p schema.Payload, createdBy *uuid.UUID) (model.ContentModel, error) {
	m := model.FromPayload(p, createdBy)
	if err := c.store.Create(ctx, c.kind, &m); err != nil {
		return model.ContentModel{}, err
	}
	c.mu.Lock()
	c.items = append([]model.ContentModel{m}, c.items...)
	c.mu.Unlock()
	return m, nil
}

// Update writes p to row id and replaces the local entry.
func (c *Collection) Update(ctx context.Context, id uuid.UUID, p schema.Payload) (model.ContentModel, error) {
	m, err := c.store.Update(ctx, c.kind, id, p)
	if err != nil {
		return model.ContentModel{}, err
	}
	c.mu.Lock()
	for i := range c.items {
		if c.items[i].ID == id {
			c.items[i] = m
			break
		}
	}
	c.mu.Unlock()
	return m, nil
}

// Remove deletes row id. A repeated remove reports ErrNotFound and leaves the list alone;
// a stale local copy of a row someone else already deleted is dropped.
func (c *Collection) Remove(ctx context.Context, id uuid.UUID) error {
	err := c.store.Delete(ctx, c.kind, id)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	c.mu.Lock()
	for i := range c.items {
		if c.items[i].ID == id {
			c.items = append(c.items[:i:i], c.items[i+1:]...)
			break
		}
	}
	c.mu.Unlock()
	return err
}
