package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"time"

	"github.com/yukikurage/project-task-api/internal/mail"
	"github.com/yukikurage/project-task-api/internal/repository"
	"github.com/yukikurage/project-task-api/internal/resettoken"
	"github.com/yukikurage/project-task-api/internal/validation"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// PasswordResetService issues and redeems single-use reset tokens.
type PasswordResetService struct {
	users      repository.UserRepository
	store      resettoken.Store
	mailer     mail.Mailer
	ttl        time.Duration
	resetURL   string
	bcryptCost int
	newToken   func() (string, error)
}

type PasswordResetOptions struct {
	TTL        time.Duration
	ResetURL   string
	BcryptCost int
}

func NewPasswordResetService(users repository.UserRepository, store resettoken.Store, mailer mail.Mailer, opts PasswordResetOptions) *PasswordResetService {
	if opts.TTL <= 0 {
		opts.TTL = time.Hour
	}
	if opts.BcryptCost < bcrypt.MinCost || opts.BcryptCost > bcrypt.MaxCost {
		opts.BcryptCost = bcrypt.DefaultCost
	}
	return &PasswordResetService{
		users:      users,
		store:      store,
		mailer:     mailer,
		ttl:        opts.TTL,
		resetURL:   opts.ResetURL,
		bcryptCost: opts.BcryptCost,
		newToken:   resettoken.NewToken,
	}
}

// RequestReset mails a reset link when email belongs to a user. Unknown
// addresses return nil so callers cannot tell which accounts exist.
func (s *PasswordResetService) RequestReset(ctx context.Context, p Payload) error {
	email, err := validation.Email("email", p["email"])
	if err != nil {
		return invalid(err)
	}

	user, err := s.users.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("password reset requested for unknown email")
			return nil
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	tok, err := s.newToken()
	if err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}
	if err := s.store.Save(ctx, tok, user.ID, s.ttl); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	if err := s.mailer.Send(ctx, mail.ResetMessage(user.Email, user.Name, s.link(tok))); err != nil {
		return fmt.Errorf("failed to send reset email: %w", err)
	}
	return nil
}

// Reset consumes the token and stores the new password hash.
func (s *PasswordResetService) Reset(ctx context.Context, p Payload) error {
	tok, err := validation.RequiredString("token", p["token"], 1)
	if err != nil {
		return invalid(err)
	}
	password, err := validation.Password("senha", p["senha"])
	if err != nil {
		return invalid(err)
	}

	// Hash first so a failure leaves the token redeemable.
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	userID, err := s.store.Consume(ctx, tok)
	if err != nil {
		if errors.Is(err, resettoken.ErrNotFound) {
			return ErrInvalidResetToken
		}
		return fmt.Errorf("failed to consume reset token: %w", err)
	}
	if err := s.users.UpdatePassword(userID, string(hash)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidResetToken
		}
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

func (s *PasswordResetService) link(tok string) string {
	u, err := url.Parse(s.resetURL)
	if err != nil || s.resetURL == "" {
		return tok
	}
	q := u.Query()
	q.Set("token", tok)
	u.RawQuery = q.Encode()
	return u.String()
}
