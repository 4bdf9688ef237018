package users

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/docuvault/docuvault/internal/models"
)

// MemoryUserRepository is an in-memory UserRepository used for tests and for
// running without a MongoDB instance.
type MemoryUserRepository struct {
	mu     sync.RWMutex
	users  map[int64]*models.User
	nextID int64
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[int64]*models.User)}
}

func copyUser(u *models.User) *models.User {
	cp := *u
	return &cp
}

func (r *MemoryUserRepository) Create(ctx context.Context, u *models.User) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email || existing.UserName == u.UserName {
			return 0, ErrDuplicate
		}
	}
	r.nextID++
	now := time.Now().UTC()
	u.ID = r.nextID
	u.CreatedAt = now
	u.UpdatedAt = now
	r.users[u.ID] = copyUser(u)
	return u.ID, nil
}

func (r *MemoryUserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyUser(u), nil
}

func (r *MemoryUserRepository) GetByLogin(ctx context.Context, login string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Email == login || u.UserName == login {
			return copyUser(u), nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryUserRepository) List(ctx context.Context, offset, limit int) ([]*models.User, int64, error) {
	r.mu.RLock()
	all := make([]*models.User, 0, len(r.users))
	for _, u := range r.users {
		all = append(all, copyUser(u))
	}
	r.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	count := int64(len(all))
	if offset >= len(all) {
		return []*models.User{}, count, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], count, nil
}

func (r *MemoryUserRepository) Search(ctx context.Context, query string) ([]*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []*models.User{}
	for _, u := range r.users {
		if matchesQuery(u, query) {
			out = append(out, copyUser(u))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *MemoryUserRepository) Update(ctx context.Context, id int64, upd Update) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return ErrNotFound
	}
	for _, other := range r.users {
		if other.ID == id {
			continue
		}
		if upd.Email != nil && other.Email == *upd.Email {
			return ErrDuplicate
		}
		if upd.UserName != nil && other.UserName == *upd.UserName {
			return ErrDuplicate
		}
	}
	if upd.Email != nil {
		u.Email = *upd.Email
	}
	if upd.UserName != nil {
		u.UserName = *upd.UserName
	}
	if upd.FullName != nil {
		u.FullName = *upd.FullName
	}
	if upd.PasswordHash != nil {
		u.PasswordHash = *upd.PasswordHash
	}
	if upd.RoleID != nil {
		u.RoleID = *upd.RoleID
	}
	u.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *MemoryUserRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return ErrNotFound
	}
	delete(r.users, id)
	return nil
}
