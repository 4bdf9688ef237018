package tokens

import (
	"context"
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/docuvault/docuvault/internal/config"
	"github.com/docuvault/docuvault/internal/policy"
)

func testConfig(secret string) *config.Config {
	cfg := &config.Config{}
	cfg.JWT.Secret = secret
	return cfg
}

func TestIssueAndVerify_RoundTrip(t *testing.T) {
	cfg := testConfig("test-secret-32-bytes-should-be-long-enough")
	ident := policy.Identity{ID: 5, RoleID: 2}

	tokenStr, err := Issue(cfg, ident, 2*time.Minute)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	got, err := NewVerifier(cfg).Verify(context.Background(), tokenStr)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if got != ident {
		t.Fatalf("identity mismatch: got=%+v want=%+v", got, ident)
	}
}

func TestVerify_Expired(t *testing.T) {
	cfg := testConfig("another-secret-32-bytes-longgggg")
	tokenStr, err := Issue(cfg, policy.Identity{ID: 2, RoleID: 2}, -1*time.Minute)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	if _, err := NewVerifier(cfg).Verify(context.Background(), tokenStr); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestVerify_WrongSecretFails(t *testing.T) {
	cfg := testConfig("secret-one-32-bytes-xxxxxxxxxxxxxxxx")
	tokenStr, err := Issue(cfg, policy.Identity{ID: 3, RoleID: 2}, 2*time.Minute)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	other := NewVerifier(testConfig("different-secret-xxxxxxxxxxxxxxxx"))
	if _, err := other.Verify(context.Background(), tokenStr); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken with wrong secret, got %v", err)
	}
}

func TestVerify_Malformed(t *testing.T) {
	v := NewVerifier(testConfig("x"))
	if _, err := v.Verify(context.Background(), "not.a.jwt"); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for malformed token, got %v", err)
	}
}

// Rejected when alg=none (unsigned token)
func TestVerify_AlgNoneRejected(t *testing.T) {
	headerEnc := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"none","typ":"JWT"}`))
	payloadEnc := base64.RawURLEncoding.EncodeToString([]byte(`{"id":1,"roleId":1,"exp":9999999999}`))
	tok := headerEnc + "." + payloadEnc + "."
	v := NewVerifier(testConfig("x"))
	if _, err := v.Verify(context.Background(), tok); err != ErrInvalidToken {
		t.Fatalf("expected alg=none token to be rejected, got %v", err)
	}
}

// Tampering with payload must fail signature verification
func TestVerify_TamperedPayload(t *testing.T) {
	cfg := testConfig("tamper-test-secret-32-bytes-xxxxxxx")
	tokenStr, err := Issue(cfg, policy.Identity{ID: 4, RoleID: 2}, 5*time.Minute)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	parts := strings.Split(tokenStr, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token parts")
	}
	payloadBytes, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	payloadStr := strings.Replace(string(payloadBytes), `"id":4`, `"id":999`, 1)
	parts[1] = base64.RawURLEncoding.EncodeToString([]byte(payloadStr))
	tampered := strings.Join(parts, ".")
	if _, err := NewVerifier(cfg).Verify(context.Background(), tampered); err != ErrInvalidToken {
		t.Fatalf("expected signature verification to fail for tampered token, got %v", err)
	}
}

func TestVerify_NonPositiveIdentityRejected(t *testing.T) {
	cfg := testConfig("nonpositive-secret-32-bytes-xxxxxxx")
	tokenStr, err := Issue(cfg, policy.Identity{ID: 0, RoleID: 2}, 2*time.Minute)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	if _, err := NewVerifier(cfg).Verify(context.Background(), tokenStr); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for non-positive user id, got %v", err)
	}
}
