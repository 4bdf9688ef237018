package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/docuvault/docuvault/internal/document"
)

// MemoryRepo is an in-memory repository used for unit tests and as a fallback
// when MongoDB is not configured. Ids are assigned from a monotonic counter and
// never reused, matching the Mongo-backed sequence behavior.
type MemoryRepo struct {
	mu     sync.RWMutex
	store  map[int64]*document.Document
	nextID int64
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{store: make(map[int64]*document.Document)}
}

func (m *MemoryRepo) Create(ctx context.Context, doc *document.Document) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	doc.ID = m.nextID
	now := time.Now().UTC()
	doc.CreatedAt = now
	doc.UpdatedAt = now
	cp := *doc
	m.store[doc.ID] = &cp
	return doc.ID, nil
}

func (m *MemoryRepo) Get(ctx context.Context, id int64) (*document.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.store[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (m *MemoryRepo) Update(ctx context.Context, id int64, upd document.Update) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.store[id]
	if !ok {
		return ErrNotFound
	}
	if upd.Title != nil {
		d.Title = *upd.Title
	}
	if upd.Content != nil {
		d.Content = *upd.Content
	}
	if upd.Access != nil {
		d.Access = *upd.Access
	}
	d.UpdatedAt = time.Now().UTC()
	return nil
}

func (m *MemoryRepo) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[id]; !ok {
		return ErrNotFound
	}
	delete(m.store, id)
	return nil
}

func (m *MemoryRepo) ListPublic(ctx context.Context, page document.Page) (*document.PageResult, error) {
	return m.list(func(d *document.Document) bool { return d.Access == document.AccessPublic }, page), nil
}

func (m *MemoryRepo) ListByRole(ctx context.Context, roleID int64, page document.Page) (*document.PageResult, error) {
	return m.list(func(d *document.Document) bool {
		return d.Access == document.AccessRole && d.OwnerRoleID == roleID
	}, page), nil
}

func (m *MemoryRepo) ListOwned(ctx context.Context, userID int64, page document.Page) (*document.PageResult, error) {
	return m.list(func(d *document.Document) bool { return d.UserID == userID }, page), nil
}

func (m *MemoryRepo) ListAll(ctx context.Context, page document.Page) (*document.PageResult, error) {
	return m.list(func(d *document.Document) bool { return true }, page), nil
}

func (m *MemoryRepo) Search(ctx context.Context, query string, vis *Visibility) ([]*document.Document, error) {
	q := strings.ToLower(query)
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []*document.Document{}
	for _, d := range m.store {
		if !strings.Contains(strings.ToLower(d.Title), q) && string(d.Access) != query {
			continue
		}
		if vis != nil && !visibleTo(d, vis) {
			continue
		}
		cp := *d
		out = append(out, &cp)
	}
	sortNewestFirst(out)
	return out, nil
}

func visibleTo(d *document.Document, vis *Visibility) bool {
	if d.UserID == vis.UserID {
		return true
	}
	switch d.Access {
	case document.AccessPublic:
		return true
	case document.AccessRole:
		return d.OwnerRoleID == vis.RoleID
	}
	return false
}

// list snapshots matching rows under the read lock, so a concurrent mutation
// can never surface a partially-written record.
func (m *MemoryRepo) list(match func(*document.Document) bool, page document.Page) *document.PageResult {
	page = page.Normalize()
	m.mu.RLock()
	matched := []*document.Document{}
	for _, d := range m.store {
		if match(d) {
			cp := *d
			matched = append(matched, &cp)
		}
	}
	m.mu.RUnlock()

	sortNewestFirst(matched)
	count := int64(len(matched))
	start := page.Offset()
	if start > len(matched) {
		start = len(matched)
	}
	end := start + page.Size
	if end > len(matched) {
		end = len(matched)
	}
	return &document.PageResult{Rows: matched[start:end], Count: count}
}

// sortNewestFirst orders by createdAt descending with id descending as a
// tiebreaker, so pages stay stable when timestamps collide.
func sortNewestFirst(docs []*document.Document) {
	sort.Slice(docs, func(i, j int) bool {
		if docs[i].CreatedAt.Equal(docs[j].CreatedAt) {
			return docs[i].ID > docs[j].ID
		}
		return docs[i].CreatedAt.After(docs[j].CreatedAt)
	})
}
