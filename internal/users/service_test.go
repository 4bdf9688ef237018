package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/docuvault/docuvault/internal/models"
)

func newTestService() *Service {
	return NewService(NewMemoryUserRepository())
}

func register(t *testing.T, s *Service, email, userName string) *models.User {
	t.Helper()
	u, err := s.Register(context.Background(), RegisterRequest{
		Email:    email,
		UserName: userName,
		FullName: "Test User",
		Password: "supersecret",
	})
	require.NoError(t, err)
	return u
}

func TestRegister_AssignsRegularRoleAndHashesPassword(t *testing.T) {
	s := newTestService()
	u := register(t, s, "a@example.com", "alice")

	require.Equal(t, RegularRoleID, u.RoleID)
	require.NotEmpty(t, u.PasswordHash)
	require.NotEqual(t, "supersecret", u.PasswordHash)
	require.NotZero(t, u.ID)
}

func TestRegister_Validation(t *testing.T) {
	s := newTestService()

	_, err := s.Register(context.Background(), RegisterRequest{UserName: "x", Password: "supersecret"})
	require.ErrorIs(t, err, ErrMissingFields)

	_, err = s.Register(context.Background(), RegisterRequest{Email: "a@b.c", UserName: "x", Password: "short"})
	require.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	s := newTestService()
	register(t, s, "a@example.com", "alice")

	_, err := s.Register(context.Background(), RegisterRequest{
		Email:    "a@example.com",
		UserName: "alice2",
		Password: "supersecret",
	})
	require.ErrorIs(t, err, ErrDuplicate)
}

func TestAuthenticate(t *testing.T) {
	s := newTestService()
	u := register(t, s, "a@example.com", "alice")

	got, err := s.Authenticate(context.Background(), "a@example.com", "supersecret")
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)

	// userName works as login too
	got, err = s.Authenticate(context.Background(), "alice", "supersecret")
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)

	_, err = s.Authenticate(context.Background(), "a@example.com", "wrongpass")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = s.Authenticate(context.Background(), "nobody@example.com", "supersecret")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUpdate_ChangesFieldsAndRehashesPassword(t *testing.T) {
	s := newTestService()
	u := register(t, s, "a@example.com", "alice")
	oldHash := u.PasswordHash

	got, err := s.Update(context.Background(), u.ID, UpdateRequest{
		FullName: "Alice Jones",
		Password: "anothersecret",
	})
	require.NoError(t, err)
	require.Equal(t, "Alice Jones", got.FullName)
	require.NotEqual(t, oldHash, got.PasswordHash)

	_, err = s.Authenticate(context.Background(), "alice", "anothersecret")
	require.NoError(t, err)
}

func TestUpdate_NotFound(t *testing.T) {
	s := newTestService()
	_, err := s.Update(context.Background(), 99, UpdateRequest{FullName: "x"})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestListAndSearch(t *testing.T) {
	s := newTestService()
	register(t, s, "a@example.com", "alice")
	register(t, s, "b@example.com", "bob")
	register(t, s, "c@example.com", "carol")

	rows, count, err := s.List(context.Background(), 1, 2)
	require.NoError(t, err)
	require.Equal(t, int64(3), count)
	require.Len(t, rows, 2)

	rows, _, err = s.List(context.Background(), 2, 2)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	found, err := s.Search(context.Background(), "BO")
	require.NoError(t, err)
	require.Len(t, found, 1)
	require.Equal(t, "bob", found[0].UserName)
}

func TestDelete(t *testing.T) {
	s := newTestService()
	u := register(t, s, "a@example.com", "alice")

	require.NoError(t, s.Delete(context.Background(), u.ID))
	_, err := s.GetByID(context.Background(), u.ID)
	require.ErrorIs(t, err, ErrNotFound)

	require.ErrorIs(t, s.Delete(context.Background(), u.ID), ErrNotFound)
}
