package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/project-task-api/internal/constants"
	"github.com/yukikurage/project-task-api/internal/models"
	"github.com/yukikurage/project-task-api/internal/repository"
	"github.com/yukikurage/project-task-api/internal/token"
	"github.com/yukikurage/project-task-api/internal/utils"
	"github.com/yukikurage/project-task-api/internal/validation"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// TokenIssuer signs access tokens.
type TokenIssuer interface {
	Issue(id token.Identity) (string, error)
}

// UserService handles registration, login and profile management.
type UserService struct {
	users      repository.UserRepository
	tokens     TokenIssuer
	bcryptCost int
}

// NewUserService creates a new UserService.
func NewUserService(users repository.UserRepository, tokens TokenIssuer, bcryptCost int) *UserService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &UserService{
		users:      users,
		tokens:     tokens,
		bcryptCost: bcryptCost,
	}
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	Token string
	User  *models.User
}

// Register validates the payload and creates a user with the default role.
func (s *UserService) Register(p Payload) (*models.User, error) {
	name, err := validation.RequiredString("nome", p["nome"], constants.MinUserNameLength)
	if err != nil {
		return nil, invalid(err)
	}
	email, err := validation.Email("email", p["email"])
	if err != nil {
		return nil, invalid(err)
	}
	password, err := validation.Password("senha", p["senha"])
	if err != nil {
		return nil, invalid(err)
	}
	company, err := validation.OptionalString("empresa", p["empresa"])
	if err != nil {
		return nil, invalid(err)
	}

	if err := s.ensureEmailFree(email, 0); err != nil {
		return nil, err
	}

	hash, err := s.hash(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Company:      company,
		Role:         constants.RoleUser,
	}
	if err := s.users.Create(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// Login verifies credentials and issues a token.
func (s *UserService) Login(p Payload) (*LoginResult, error) {
	email, _ := p["email"].(string)
	password, _ := p["senha"].(string)
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, ErrCredentialsRequired
	}

	user, err := s.users.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	signed, err := s.tokens.Issue(token.Identity{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		Name:   user.Name,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &LoginResult{Token: signed, User: user}, nil
}

// GetUser retrieves a user by ID.
func (s *UserService) GetUser(id uint64) (*models.User, error) {
	user, err := s.users.FindByID(id)
	if err != nil {
		return nil, notFound(err, ErrUserNotFound, "find user")
	}
	return user, nil
}

func (s *UserService) GetByEmail(email string) (*models.User, error) {
	user, err := s.users.FindByEmail(strings.TrimSpace(email))
	if err != nil {
		return nil, notFound(err, ErrUserNotFound, "find user")
	}
	return user, nil
}

// EmailExists reports whether an account uses email.
func (s *UserService) EmailExists(email string) (bool, error) {
	_, err := s.users.FindByEmail(strings.TrimSpace(email))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return false, fmt.Errorf("failed to check email: %w", err)
}

func (s *UserService) List(page utils.PaginationParams) ([]models.User, int64, error) {
	users, total, err := s.users.List(page)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	return users, total, nil
}

// Update applies a partial profile update. role is only honoured for admins.
func (s *UserService) Update(id uint64, p Payload, actorIsAdmin bool) (*models.User, error) {
	if len(p) == 0 {
		return nil, ErrEmptyPayload
	}

	user, err := s.GetUser(id)
	if err != nil {
		return nil, err
	}

	fields := merge(Payload{
		"nome":    user.Name,
		"email":   user.Email,
		"empresa": stringOrNil(user.Company),
	}, p)

	name, err := validation.RequiredString("nome", fields["nome"], constants.MinUserNameLength)
	if err != nil {
		return nil, invalid(err)
	}
	email, err := validation.Email("email", fields["email"])
	if err != nil {
		return nil, invalid(err)
	}
	company, err := validation.OptionalString("empresa", fields["empresa"])
	if err != nil {
		return nil, invalid(err)
	}

	if email != user.Email {
		if err := s.ensureEmailFree(email, user.ID); err != nil {
			return nil, err
		}
	}

	if _, ok := p["senha"]; ok {
		password, err := validation.Password("senha", p["senha"])
		if err != nil {
			return nil, invalid(err)
		}
		if user.PasswordHash, err = s.hash(password); err != nil {
			return nil, err
		}
	}

	if actorIsAdmin && p.has("role") {
		role, err := validation.OneOf("role", p["role"], []string{constants.RoleUser, constants.RoleAdmin})
		if err != nil {
			return nil, invalid(err)
		}
		user.Role = role
	}

	user.Name = name
	user.Email = email
	user.Company = company

	if err := s.users.Update(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

func (s *UserService) Delete(id uint64) error {
	if err := s.users.Delete(id); err != nil {
		return notFound(err, ErrUserNotFound, "delete user")
	}
	return nil
}

// SetRole changes a user's role by email.
func (s *UserService) SetRole(email, role string) error {
	if role != constants.RoleUser && role != constants.RoleAdmin {
		return invalid(&validation.FieldError{Field: "role", Message: fmt.Sprintf("role inválido: %s", role)})
	}
	if err := s.users.UpdateRole(strings.TrimSpace(email), role); err != nil {
		return notFound(err, ErrUserNotFound, "update role")
	}
	return nil
}

// ensureEmailFree fails with ErrEmailTaken if another user (not selfID) owns email.
func (s *UserService) ensureEmailFree(email string, selfID uint64) error {
	existing, err := s.users.FindByEmail(email)
	if err == nil {
		if existing.ID != selfID {
			return ErrEmailTaken
		}
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check email: %w", err)
	}
	return nil
}

func (s *UserService) hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}
