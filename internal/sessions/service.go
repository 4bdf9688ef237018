package sessions

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// refreshTokenBytes sizes the random refresh token; 32 bytes encode to 64 hex chars.
const refreshTokenBytes = 32

// Service manages the refresh-token lifecycle over a Repository. Refresh
// tokens are opaque random strings; all their state lives server-side.
type Service struct {
	repo Repository
}

func NewService(r Repository) *Service { return &Service{repo: r} }

// CreateSession opens a refresh session for the user and returns its token.
func (s *Service) CreateSession(ctx context.Context, userID int64, ttl time.Duration) (string, error) {
	b := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate refresh token: %w", err)
	}
	token := hex.EncodeToString(b)
	sess := &Session{
		RefreshToken: token,
		UserID:       userID,
		ExpiresAt:    time.Now().UTC().Add(ttl),
	}
	if err := s.repo.Create(ctx, sess); err != nil {
		return "", fmt.Errorf("create refresh session: %w", err)
	}
	return token, nil
}

// ValidateRefresh resolves a refresh token to its live session. Unknown and
// expired tokens both yield (nil, nil); expired ones are removed on the way.
func (s *Service) ValidateRefresh(ctx context.Context, refresh string) (*Session, error) {
	sess, err := s.repo.GetByRefresh(ctx, refresh)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, nil
	}
	if time.Now().UTC().After(sess.ExpiresAt) {
		_ = s.repo.DeleteByRefresh(ctx, refresh)
		return nil, nil
	}
	return sess, nil
}

// DeleteRefresh closes the session, invalidating its token immediately.
func (s *Service) DeleteRefresh(ctx context.Context, refresh string) error {
	return s.repo.DeleteByRefresh(ctx, refresh)
}
