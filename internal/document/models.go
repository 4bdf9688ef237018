package document

import "time"

// Access is the visibility class of a document. Stored and transmitted as the
// literal strings "private", "public" and "role".
type Access string

const (
	AccessPrivate Access = "private"
	AccessPublic  Access = "public"
	AccessRole    Access = "role"
)

// Valid reports whether a is one of the three known access levels.
func (a Access) Valid() bool {
	switch a {
	case AccessPrivate, AccessPublic, AccessRole:
		return true
	}
	return false
}

// Document is the persistent document record. OwnerRoleID is denormalized from
// the creator's role at creation time so that role-restricted visibility can be
// decided without a join; UserID and ID are immutable after creation.
type Document struct {
	ID          int64     `json:"id" bson:"id"`
	Title       string    `json:"title" bson:"title"`
	Content     string    `json:"content,omitempty" bson:"content,omitempty"`
	Access      Access    `json:"access" bson:"access"`
	UserID      int64     `json:"userId" bson:"userId"`
	OwnerRoleID int64     `json:"ownerRoleId" bson:"ownerRoleId"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updatedAt"`
}

// Update describes a partial mutation. Nil fields are left untouched.
// Ownership (UserID) and ID are never mutable through updates.
type Update struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
	Access  *Access `json:"access"`
}

// Empty reports whether the update carries no fields at all.
func (u Update) Empty() bool {
	return u.Title == nil && u.Content == nil && u.Access == nil
}

// Page is a 1-based pagination request.
type Page struct {
	Number int
	Size   int
}

// Normalize applies the listing defaults (page 1, size 10) to out-of-range values.
func (p Page) Normalize() Page {
	if p.Number < 1 {
		p.Number = 1
	}
	if p.Size < 1 {
		p.Size = 10
	}
	return p
}

// Offset returns the number of rows to skip for this page.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// PageResult is one page of documents plus the total number of matching rows
// before pagination.
type PageResult struct {
	Rows  []*Document `json:"rows"`
	Count int64       `json:"count"`
}
