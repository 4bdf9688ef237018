package policy

import (
	"testing"

	"github.com/docuvault/docuvault/internal/document"
	"github.com/stretchr/testify/require"
)

func doc(owner, ownerRole int64, access document.Access) *document.Document {
	return &document.Document{ID: 10, UserID: owner, OwnerRoleID: ownerRole, Access: access}
}

func TestCanAccess_OwnerHasFullControl(t *testing.T) {
	p := New(0)
	owner := Identity{ID: 5, RoleID: 2}
	for _, access := range []document.Access{document.AccessPrivate, document.AccessPublic, document.AccessRole} {
		d := doc(5, 2, access)
		for _, op := range []Operation{OpRead, OpList, OpUpdate, OpDelete} {
			require.True(t, p.CanAccess(owner, d, op), "owner denied %s on %s document", op, access)
		}
	}
}

func TestCanAccess_PublicReadableByAnyone(t *testing.T) {
	p := New(0)
	d := doc(5, 2, document.AccessPublic)
	stranger := Identity{ID: 99, RoleID: 42}
	require.True(t, p.CanAccess(stranger, d, OpRead))
	require.True(t, p.CanAccess(stranger, d, OpList))
}

func TestCanAccess_PrivateHiddenFromNonOwners(t *testing.T) {
	p := New(0)
	d := doc(5, 2, document.AccessPrivate)
	sameRole := Identity{ID: 6, RoleID: 2}
	require.False(t, p.CanAccess(sameRole, d, OpRead))
	require.False(t, p.CanAccess(sameRole, d, OpList))
}

func TestCanAccess_RoleRestricted(t *testing.T) {
	p := New(0)
	d := doc(5, 2, document.AccessRole)

	sameRole := Identity{ID: 7, RoleID: 2}
	require.True(t, p.CanAccess(sameRole, d, OpRead))

	otherRole := Identity{ID: 8, RoleID: 3}
	require.False(t, p.CanAccess(otherRole, d, OpRead))
}

func TestCanAccess_VisibilityNeverGrantsMutation(t *testing.T) {
	p := New(0)
	for _, access := range []document.Access{document.AccessPrivate, document.AccessPublic, document.AccessRole} {
		d := doc(5, 2, access)
		// same role, not owner, not admin
		i := Identity{ID: 6, RoleID: 2}
		require.False(t, p.CanAccess(i, d, OpUpdate), "update granted on %s document", access)
		require.False(t, p.CanAccess(i, d, OpDelete), "delete granted on %s document", access)
	}
}

func TestCanAccess_AdminReadsEverythingButCannotMutate(t *testing.T) {
	p := New(0)
	admin := Identity{ID: 100, RoleID: DefaultAdminRoleID}
	d := doc(5, 2, document.AccessPrivate)

	require.True(t, p.CanAccess(admin, d, OpRead))
	require.True(t, p.CanAccess(admin, d, OpList))
	require.False(t, p.CanAccess(admin, d, OpUpdate))
	require.False(t, p.CanAccess(admin, d, OpDelete))

	// admin who owns the document mutates as owner, not as admin
	own := doc(100, DefaultAdminRoleID, document.AccessPrivate)
	require.True(t, p.CanAccess(admin, own, OpUpdate))
	require.True(t, p.CanAccess(admin, own, OpDelete))
}

func TestCanAccess_ConfiguredAdminRole(t *testing.T) {
	p := New(7)
	d := doc(5, 2, document.AccessPrivate)

	require.True(t, p.CanAccess(Identity{ID: 9, RoleID: 7}, d, OpRead))
	// role 1 is not special when the admin role is reconfigured
	require.False(t, p.CanAccess(Identity{ID: 9, RoleID: 1}, d, OpRead))
}

func TestOperationString(t *testing.T) {
	require.Equal(t, "read", OpRead.String())
	require.Equal(t, "list", OpList.String())
	require.Equal(t, "update", OpUpdate.String())
	require.Equal(t, "delete", OpDelete.String())
}
