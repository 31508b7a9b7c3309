package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"megamind_api/internal/domain"
	"megamind_api/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnconfirmed        = errors.New("email not verified")
	ErrInvalidCode        = errors.New("invalid verification code")
)

// UserAccounts is the slice of the store the identity provider needs.
type UserAccounts interface {
	Create(ctx context.Context, u *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	WithUser(ctx context.Context, id string, fn func(*domain.User) error) (*domain.User, error)
}

// AuthService maps credentials to stable user ids. Accounts start
// unconfirmed; a 6-digit code sent by the mailer confirms the email.
type AuthService struct {
	store  UserAccounts
	mailer Mailer
}

func NewAuthService(store UserAccounts, mailer Mailer) *AuthService {
	if mailer == nil {
		mailer = LogMailer{}
	}
	return &AuthService{store: store, mailer: mailer}
}

// Register creates an unconfirmed account and sends the verification code.
func (s *AuthService) Register(ctx context.Context, email, password, name, birthdate string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: bad email", ErrInvalidInput)
	}
	if len(password) < 6 {
		return nil, fmt.Errorf("%w: password too short", ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	u := &domain.User{
		ID:             uuid.NewString(),
		Email:          email,
		Name:           name,
		Birthdate:      birthdate,
		PasswordHash:   string(hash),
		VerifyCode:     newVerifyCode(),
		CompletedTasks: []string{},
	}

	if err := s.store.Create(ctx, u); err != nil {
		return nil, err
	}

	if err := s.mailer.SendVerificationCode(u.Email, u.VerifyCode); err != nil {
		return nil, err
	}
	return u, nil
}

// Verify confirms the account when the submitted code matches.
func (s *AuthService) Verify(ctx context.Context, email, code string) error {
	u, err := s.store.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return err
	}
	if u.Verified {
		return nil
	}
	if code == "" || code != u.VerifyCode {
		return ErrInvalidCode
	}

	_, err = s.store.WithUser(ctx, u.ID, func(u *domain.User) error {
		u.Verified = true
		u.VerifyCode = ""
		return nil
	})
	return err
}

// Login checks credentials and returns the user plus a signed token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	u, err := s.store.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, "", ErrInvalidCredentials
	}
	if !u.Verified {
		return nil, "", ErrUnconfirmed
	}

	token, err := GenerateJWT(u.ID)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

func newVerifyCode() string {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		// crypto/rand failing means the process has bigger problems
		panic(err)
	}
	return fmt.Sprintf("%06d", n.Int64())
}
