package sessions

import (
	"context"
	"testing"
	"time"
)

type fakeRepo struct {
	store map[string]*Session
}

func newFakeRepo() *fakeRepo { return &fakeRepo{store: map[string]*Session{}} }

func (f *fakeRepo) Create(ctx context.Context, s *Session) error {
	f.store[s.RefreshToken] = s
	return nil
}

func (f *fakeRepo) GetByRefresh(ctx context.Context, refresh string) (*Session, error) {
	return f.store[refresh], nil
}

func (f *fakeRepo) DeleteByRefresh(ctx context.Context, refresh string) error {
	delete(f.store, refresh)
	return nil
}

func TestCreateAndValidateSession(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	ctx := context.Background()

	refresh, err := svc.CreateSession(ctx, 42, time.Hour)
	if err != nil {
		t.Fatalf("CreateSession error: %v", err)
	}
	if refresh == "" {
		t.Fatal("expected a refresh token")
	}

	sess, err := svc.ValidateRefresh(ctx, refresh)
	if err != nil {
		t.Fatalf("ValidateRefresh error: %v", err)
	}
	if sess == nil {
		t.Fatal("expected session, got nil")
	}
	if sess.UserID != 42 {
		t.Fatalf("unexpected user id: %d", sess.UserID)
	}
}

func TestValidateRefresh_UnknownToken(t *testing.T) {
	svc := NewService(newFakeRepo())
	sess, err := svc.ValidateRefresh(context.Background(), "nope")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sess != nil {
		t.Fatalf("expected nil session for unknown token, got %+v", sess)
	}
}

func TestValidateRefresh_ExpiredSessionCleanedUp(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	ctx := context.Background()

	refresh, err := svc.CreateSession(ctx, 7, -time.Minute)
	if err != nil {
		t.Fatalf("CreateSession error: %v", err)
	}

	sess, err := svc.ValidateRefresh(ctx, refresh)
	if err != nil {
		t.Fatalf("ValidateRefresh error: %v", err)
	}
	if sess != nil {
		t.Fatalf("expected expired session to be rejected")
	}
	if _, ok := repo.store[refresh]; ok {
		t.Fatalf("expected expired session to be deleted")
	}
}

func TestDeleteRefresh(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	ctx := context.Background()

	refresh, _ := svc.CreateSession(ctx, 1, time.Hour)
	if err := svc.DeleteRefresh(ctx, refresh); err != nil {
		t.Fatalf("DeleteRefresh error: %v", err)
	}
	sess, _ := svc.ValidateRefresh(ctx, refresh)
	if sess != nil {
		t.Fatalf("expected session to be gone after delete")
	}
}
