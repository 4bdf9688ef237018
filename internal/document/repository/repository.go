package repository

import (
	"context"
	"errors"

	"github.com/docuvault/docuvault/internal/document"
)

var ErrNotFound = errors.New("document not found")

// Visibility narrows a search to the rows the given caller may see:
// public documents, own documents, and role documents of the caller's role.
// A nil *Visibility means an unrestricted (admin) scan.
type Visibility struct {
	UserID int64
	RoleID int64
}

// Repository is the persistence gateway used by the resolver and the
// single-document operations. Implementations assign positive integer ids at
// creation and never reuse them; every method is individually atomic.
type Repository interface {
	Create(ctx context.Context, doc *document.Document) (int64, error)
	Get(ctx context.Context, id int64) (*document.Document, error)
	Update(ctx context.Context, id int64, upd document.Update) error
	Delete(ctx context.Context, id int64) error

	ListPublic(ctx context.Context, page document.Page) (*document.PageResult, error)
	ListByRole(ctx context.Context, roleID int64, page document.Page) (*document.PageResult, error)
	ListOwned(ctx context.Context, userID int64, page document.Page) (*document.PageResult, error)
	ListAll(ctx context.Context, page document.Page) (*document.PageResult, error)

	// Search matches a case-insensitive substring of the title OR the exact
	// access level, newest first, scoped by vis.
	Search(ctx context.Context, query string, vis *Visibility) ([]*document.Document, error)
}
