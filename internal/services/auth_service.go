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

var ErrBadCreds = fmt.Errorf("%w: invalid email or password", domain.ErrUnauthorized)

const CustomerTokenTTL = 7 * 24 * time.Hour

type Registration struct {
	Username       string `json:"username" validate:"required,min=3,max=50"`
	Email          string `json:"email" validate:"required,email,max=254"`
	DateOfBirth    string `json:"dateOfBirth" validate:"required"`
	Gender         string `json:"gender" validate:"required"`
	PhoneNumber    string `json:"phoneNumber" validate:"required,max=32"`
	Password       string `json:"password" validate:"required,min=8,max=72"`
	PasswordRepeat string `json:"passwordRepeat" validate:"required,eqfield=Password"`
}

type ProfileUpdate struct {
	Username    *string `json:"username"`
	Email       *string `json:"email"`
	DateOfBirth *string `json:"dateOfBirth"`
	Gender      *string `json:"gender"`
	PhoneNumber *string `json:"phoneNumber"`
}

// AuthService manages storefront customer accounts.
type AuthService struct {
	Customers CustomerStore
	Tokens    *Tokens
	TTL       time.Duration
	Now       func() time.Time
}

func NewAuthService(customers CustomerStore, tokens *Tokens) *AuthService {
	return &AuthService{Customers: customers, Tokens: tokens, TTL: CustomerTokenTTL}
}

func (s *AuthService) issue(c domain.Customer) (string, error) {
	return s.Tokens.Issue(c.ID, false, s.TTL)
}

// Register creates the account and signs the customer in.
func (s *AuthService) Register(ctx context.Context, r Registration) (domain.Customer, string, error) {
	r.Username, r.Email = strings.TrimSpace(r.Username), strings.TrimSpace(r.Email)
	if err := validate.Struct(r); err != nil {
		return domain.Customer{}, "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(r.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.Customer{}, "", err
	}
	c := domain.Customer{
		ID: uuid.NewString(), Username: r.Username, Email: r.Email, DateOfBirth: r.DateOfBirth,
		Gender: r.Gender, PhoneNumber: strings.TrimSpace(r.PhoneNumber), Hash: string(hash), CreatedAt: clock(s.Now),
	}
	if err := s.Customers.Create(ctx, &c); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return domain.Customer{}, "", fmt.Errorf("username or email: %w", domain.ErrConflict)
		}
		return domain.Customer{}, "", err
	}
	tok, err := s.issue(c)
	return c, tok, err
}

func (s *AuthService) Login(ctx context.Context, email, password string) (domain.Customer, string, error) {
	c, err := s.Customers.ByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Customer{}, "", ErrBadCreds
		}
		return domain.Customer{}, "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(c.Hash), []byte(password)) != nil {
		return domain.Customer{}, "", ErrBadCreds
	}
	tok, err := s.issue(c)
	return c, tok, err
}

// Authenticate resolves a customer token to its subject id.
func (s *AuthService) Authenticate(token string) (string, error) {
	claims, err := s.Tokens.Parse(token)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

func (s *AuthService) Me(ctx context.Context, id string) (domain.Customer, error) {
	return s.Customers.Get(ctx, id)
}

func (s *AuthService) UpdateProfile(ctx context.Context, id string, u ProfileUpdate) (domain.Customer, error) {
	c, err := s.Customers.Get(ctx, id)
	if err != nil {
		return domain.Customer{}, err
	}
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	set(&c.Username, u.Username)
	set(&c.Email, u.Email)
	set(&c.DateOfBirth, u.DateOfBirth)
	set(&c.Gender, u.Gender)
	set(&c.PhoneNumber, u.PhoneNumber)
	if c.Username == "" {
		return domain.Customer{}, domain.Invalid("username is required")
	}
	if _, ok := validate.Email(c.Email); !ok {
		return domain.Customer{}, domain.Invalid("email is invalid")
	}
	if err := s.Customers.Update(ctx, &c); err != nil {
		return domain.Customer{}, err
	}
	return c, nil
}

func (s *AuthService) ChangePassword(ctx context.Context, id, current, next, repeat string) error {
	if next != repeat {
		return domain.Invalid("passwords do not match")
	}
	if len(next) < 8 || len(next) > 72 {
		return domain.Invalid("password must be 8 to 72 characters")
	}
	c, err := s.Customers.Get(ctx, id)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(c.Hash), []byte(current)) != nil {
		return fmt.Errorf("%w: current password is incorrect", domain.ErrUnauthorized)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.Customers.SetPassword(ctx, id, string(hash))
}
