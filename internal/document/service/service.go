package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/docuvault/docuvault/internal/document"
	"github.com/docuvault/docuvault/internal/document/repository"
	"github.com/docuvault/docuvault/internal/policy"
	"github.com/docuvault/docuvault/pkg/metrics"
)

// Domain error kinds. Handlers map these to the stable status/message contract;
// anything else surfaces as a generic internal failure.
var (
	ErrNotFound      = errors.New("document not found")
	ErrForbidden     = errors.New("access to document denied")
	ErrNotAdmin      = errors.New("user is not an admin")
	ErrInvalidID     = errors.New("id must be numeric")
	ErrNonPositiveID = errors.New("id must be greater than zero")
	ErrNoData        = errors.New("no document data provided")
	ErrNoTitle       = errors.New("document must have a title")
	ErrBadAccess     = errors.New("invalid access level")
)

// CreateRequest carries the fields a caller may set at creation. Access
// defaults to private when omitted; ownership always comes from the identity.
type CreateRequest struct {
	Title   string          `json:"title"`
	Content string          `json:"content"`
	Access  document.Access `json:"access"`
}

// Service is the document query resolver plus the single-document operation
// gate. All policy decisions go through the injected Policy so listings can
// never leak rows the policy would deny.
type Service struct {
	repo repository.Repository
	pol  *policy.Policy
}

func New(repo repository.Repository, pol *policy.Policy) *Service {
	return &Service{repo: repo, pol: pol}
}

// ParseID validates a raw document id from the request path.
func ParseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		// "-1" parses fine; only genuinely non-numeric input lands here
		return 0, ErrInvalidID
	}
	if id <= 0 {
		return 0, ErrNonPositiveID
	}
	return id, nil
}

func (s *Service) Create(ctx context.Context, ident policy.Identity, req CreateRequest) (*document.Document, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, ErrNoTitle
	}
	if req.Access == "" {
		req.Access = document.AccessPrivate
	}
	if !req.Access.Valid() {
		return nil, ErrBadAccess
	}
	doc := &document.Document{
		Title:       req.Title,
		Content:     req.Content,
		Access:      req.Access,
		UserID:      ident.ID,
		OwnerRoleID: ident.RoleID,
	}
	if _, err := s.repo.Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("create document: %w", err)
	}
	return doc, nil
}

// Get loads a single document after the read gate.
func (s *Service) Get(ctx context.Context, ident policy.Identity, id int64) (*document.Document, error) {
	return s.gate(ctx, ident, id, policy.OpRead)
}

// Update applies a partial mutation behind the update gate. Ownership and id
// are not reachable through Update by construction.
func (s *Service) Update(ctx context.Context, ident policy.Identity, id int64, upd document.Update) (*document.Document, error) {
	if upd.Empty() {
		return nil, ErrNoData
	}
	if upd.Title != nil && strings.TrimSpace(*upd.Title) == "" {
		return nil, ErrNoTitle
	}
	if upd.Access != nil && !upd.Access.Valid() {
		return nil, ErrBadAccess
	}
	if _, err := s.gate(ctx, ident, id, policy.OpUpdate); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, id, upd); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update document: %w", err)
	}
	doc, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reload document: %w", err)
	}
	return doc, nil
}

// Delete hard-removes the document behind the delete gate.
func (s *Service) Delete(ctx context.Context, ident policy.Identity, id int64) error {
	if _, err := s.gate(ctx, ident, id, policy.OpDelete); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}

// gate is the single-document operation gate: validate id, load, evaluate
// policy. Unauthorized access yields ErrForbidden; existence is not hidden
// from authenticated callers.
func (s *Service) gate(ctx context.Context, ident policy.Identity, id int64, op policy.Operation) (*document.Document, error) {
	if id <= 0 {
		return nil, ErrNonPositiveID
	}
	doc, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load document: %w", err)
	}
	if !s.pol.CanAccess(ident, doc, op) {
		metrics.AccessDecisions.WithLabelValues(op.String(), "deny").Inc()
		return nil, ErrForbidden
	}
	metrics.AccessDecisions.WithLabelValues(op.String(), "allow").Inc()
	return doc, nil
}

// ListPublic returns public documents for any authenticated caller.
func (s *Service) ListPublic(ctx context.Context, page document.Page) (*document.PageResult, error) {
	return s.repo.ListPublic(ctx, page)
}

// ListByRole returns role-restricted documents whose owner shares the caller's role.
func (s *Service) ListByRole(ctx context.Context, ident policy.Identity, page document.Page) (*document.PageResult, error) {
	return s.repo.ListByRole(ctx, ident.RoleID, page)
}

// ListOwned returns the caller's own documents across all access levels.
func (s *Service) ListOwned(ctx context.Context, ident policy.Identity, page document.Page) (*document.PageResult, error) {
	return s.repo.ListOwned(ctx, ident.ID, page)
}

// ListAll is the admin-only global listing.
func (s *Service) ListAll(ctx context.Context, ident policy.Identity, page document.Page) (*document.PageResult, error) {
	if !s.pol.IsAdmin(ident) {
		metrics.AccessDecisions.WithLabelValues(policy.OpList.String(), "deny").Inc()
		return nil, ErrNotAdmin
	}
	metrics.AccessDecisions.WithLabelValues(policy.OpList.String(), "allow").Inc()
	return s.repo.ListAll(ctx, page)
}

// Search matches titles (case-insensitive substring) or the exact access
// level. Results are visibility-scoped for regular callers; admins scan
// globally.
func (s *Service) Search(ctx context.Context, ident policy.Identity, query string) ([]*document.Document, error) {
	var vis *repository.Visibility
	if !s.pol.IsAdmin(ident) {
		vis = &repository.Visibility{UserID: ident.ID, RoleID: ident.RoleID}
	}
	return s.repo.Search(ctx, query, vis)
}
