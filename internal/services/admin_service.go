package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"samtech/internal/domain"
	"samtech/internal/validate"
)

const AdminTokenTTL = 12 * time.Hour

var ErrBadAdminCreds = fmt.Errorf("%w: invalid username or password", domain.ErrUnauthorized)

// AdminService manages staff accounts. Admin tokens carry isAdmin=true.
type AdminService struct {
	Admins AdminStore
	Tokens *Tokens
	TTL    time.Duration
	Now    func() time.Time
}

func NewAdminService(admins AdminStore, tokens *Tokens) *AdminService {
	return &AdminService{Admins: admins, Tokens: tokens, TTL: AdminTokenTTL}
}

func (s *AdminService) Login(ctx context.Context, username, password string) (domain.Admin, string, error) {
	a, err := s.Admins.ByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Admin{}, "", ErrBadAdminCreds
		}
		return domain.Admin{}, "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(a.Hash), []byte(password)) != nil {
		return domain.Admin{}, "", ErrBadAdminCreds
	}
	tok, err := s.Tokens.Issue(a.ID, true, s.TTL)
	return a, tok, err
}

// Authenticate accepts only admin tokens.
func (s *AdminService) Authenticate(token string) (string, error) {
	claims, err := s.Tokens.Parse(token)
	if err != nil {
		return "", err
	}
	if !claims.IsAdmin {
		return "", fmt.Errorf("%w: admin token required", domain.ErrForbidden)
	}
	return claims.Subject, nil
}

func (s *AdminService) Signup(ctx context.Context, username, password string) (domain.Admin, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return domain.Admin{}, domain.Invalid("username is required")
	}
	if !validate.Password(password) {
		return domain.Admin{}, domain.Invalid("password needs 8+ characters with upper, lower, digit and symbol")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.Admin{}, err
	}
	a := domain.Admin{ID: uuid.NewString(), Username: username, Hash: string(hash), CreatedAt: clock(s.Now)}
	if err := s.Admins.Create(ctx, &a); err != nil {
		return domain.Admin{}, err
	}
	return a, nil
}

func (s *AdminService) ChangePassword(ctx context.Context, adminID, current, next string) error {
	if !validate.Password(next) {
		return domain.Invalid("password needs 8+ characters with upper, lower, digit and symbol")
	}
	a, err := s.Admins.Get(ctx, adminID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(a.Hash), []byte(current)) != nil {
		return fmt.Errorf("%w: current password is incorrect", domain.ErrUnauthorized)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.Admins.SetPassword(ctx, adminID, string(hash))
}

// EnsureSeed creates the bootstrap admin if that username does not exist yet.
func (s *AdminService) EnsureSeed(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return nil
	}
	_, err := s.Admins.ByUsername(ctx, username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	_, err = s.Signup(ctx, username, password)
	if errors.Is(err, domain.ErrConflict) {
		return nil
	}
	return err
}
