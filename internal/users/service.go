package users

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/docuvault/docuvault/internal/models"
	"github.com/docuvault/docuvault/pkg/logger"
)

// RegularRoleID is assigned to users who register without an explicit role.
const RegularRoleID int64 = 2

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrMissingFields      = errors.New("email, userName and password are required")
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters")
)

// RegisterRequest carries the fields accepted at signup. The role is not
// among them: every new account starts as a regular user, and only an admin
// can promote it afterwards through Update.
type RegisterRequest struct {
	Email    string `json:"email"`
	UserName string `json:"userName"`
	FullName string `json:"fullName"`
	Password string `json:"password"`
}

// UpdateRequest carries the mutable profile fields. Zero values are skipped.
type UpdateRequest struct {
	Email    string `json:"email"`
	UserName string `json:"userName"`
	FullName string `json:"fullName"`
	Password string `json:"password"`
	RoleID   int64  `json:"roleId"`
}

// Service implements user lifecycle on top of a UserRepository.
type Service struct {
	repo UserRepository
}

func NewService(repo UserRepository) *Service {
	return &Service{repo: repo}
}

// Register validates the request, hashes the password and stores the user.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*models.User, error) {
	req.Email = strings.TrimSpace(req.Email)
	req.UserName = strings.TrimSpace(req.UserName)
	if req.Email == "" || req.UserName == "" || req.Password == "" {
		return nil, ErrMissingFields
	}
	if len(req.Password) < 8 {
		return nil, ErrPasswordTooShort
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u := &models.User{
		RoleID:       RegularRoleID,
		Email:        req.Email,
		UserName:     req.UserName,
		FullName:     req.FullName,
		PasswordHash: string(hash),
	}
	if _, err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	logger.Infof("user %d registered", u.ID)
	return u, nil
}

// Authenticate checks login (email or userName) and password.
func (s *Service) Authenticate(ctx context.Context, login, password string) (*models.User, error) {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return nil, ErrInvalidCredentials
	}
	u, err := s.repo.GetByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, page, size int) ([]*models.User, int64, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 10
	}
	return s.repo.List(ctx, (page-1)*size, size)
}

func (s *Service) Search(ctx context.Context, query string) ([]*models.User, error) {
	return s.repo.Search(ctx, query)
}

// Update applies the non-zero fields of req to the user.
func (s *Service) Update(ctx context.Context, id int64, req UpdateRequest) (*models.User, error) {
	var upd Update
	if v := strings.TrimSpace(req.Email); v != "" {
		upd.Email = &v
	}
	if v := strings.TrimSpace(req.UserName); v != "" {
		upd.UserName = &v
	}
	if v := req.FullName; v != "" {
		upd.FullName = &v
	}
	if req.Password != "" {
		if len(req.Password) < 8 {
			return nil, ErrPasswordTooShort
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		h := string(hash)
		upd.PasswordHash = &h
	}
	if req.RoleID > 0 {
		upd.RoleID = &req.RoleID
	}
	if err := s.repo.Update(ctx, id, upd); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
