package policy

import "github.com/docuvault/docuvault/internal/document"

// Identity is the authenticated caller, carrying user id and role id.
// Produced by token verification; immutable for the lifetime of a request.
type Identity struct {
	ID     int64 `json:"id"`
	RoleID int64 `json:"roleId"`
}

// Operation is the action an identity wants to perform on a document.
type Operation int

const (
	OpRead Operation = iota
	OpList
	OpUpdate
	OpDelete
)

func (op Operation) String() string {
	switch op {
	case OpRead:
		return "read"
	case OpList:
		return "list"
	case OpUpdate:
		return "update"
	case OpDelete:
		return "delete"
	}
	return "unknown"
}

// DefaultAdminRoleID is the distinguished role id for administrators.
const DefaultAdminRoleID int64 = 1

// Policy decides whether an identity may perform an operation on a document.
// Evaluation is pure: no I/O, no locking, bounded time.
type Policy struct {
	adminRoleID int64
}

// New returns a Policy using the given admin role id; zero or negative values
// fall back to DefaultAdminRoleID.
func New(adminRoleID int64) *Policy {
	if adminRoleID <= 0 {
		adminRoleID = DefaultAdminRoleID
	}
	return &Policy{adminRoleID: adminRoleID}
}

// IsAdmin reports whether the identity holds the admin role.
func (p *Policy) IsAdmin(ident Identity) bool {
	return ident.RoleID == p.adminRoleID
}

// CanAccess is the access decision table. Precedence, first match wins:
//
//  1. owner: every operation
//  2. admin: read and list on any document (mutation still requires ownership;
//     administrative bulk listing is modeled separately, see ListAll)
//  3. read/list on a public document
//  4. read/list on a role document when the caller shares the owner's role
//  5. deny
//
// Visibility never grants mutation rights.
func (p *Policy) CanAccess(ident Identity, doc *document.Document, op Operation) bool {
	if ident.ID == doc.UserID {
		return true
	}
	switch op {
	case OpRead, OpList:
		if p.IsAdmin(ident) {
			return true
		}
		switch doc.Access {
		case document.AccessPublic:
			return true
		case document.AccessRole:
			return ident.RoleID == doc.OwnerRoleID
		}
		return false
	case OpUpdate, OpDelete:
		return false
	}
	return false
}
