package users

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrBlocked            = errors.New("account blocked")
	ErrNotFound           = errors.New("not found")
)

// Validación mínima de email, igual que la que hacía el front antes de llamar al API.
var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const minPasswordLen = 8

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type SignupInput struct {
	Username string
	Email    string
	Password string
	Role     string
}

func (s *Service) Signup(ctx context.Context, in SignupInput) (User, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.ToLower(strings.TrimSpace(in.Email))

	if username == "" || email == "" || in.Password == "" {
		return User{}, ErrInvalidInput
	}
	if !emailRe.MatchString(email) {
		return User{}, ErrInvalidInput
	}
	if len(in.Password) < minPasswordLen {
		return User{}, ErrInvalidInput
	}
	role, ok := ParseRole(strings.TrimSpace(in.Role))
	if !ok {
		return User{}, ErrInvalidInput
	}

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return User{}, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}

	now := s.now()
	u := User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		Status:       StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		return User{}, err
	}
	return u, nil
}

// Authenticate valida credenciales. Cuentas bloqueadas no pueden loguearse.
func (s *Service) Authenticate(ctx context.Context, email, password string) (User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return User{}, ErrInvalidCredentials
	}

	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return User{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return User{}, ErrInvalidCredentials
	}
	if u.Status == StatusBlocked {
		return User{}, ErrBlocked
	}
	return u, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.repo.List(ctx)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) CountByRole(ctx context.Context) (map[Role]int, error) {
	return s.repo.CountByRole(ctx)
}

// RoleOf expone solo el rol de un usuario.
// Lo usa pets para validar que el supplier sea shelter sin acoplarse al modelo entero.
func (s *Service) RoleOf(ctx context.Context, userID string) (Role, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}
	return u.Role, nil
}

type ProfileInput struct {
	// Punteros: nil = no tocar.
	Username *string
	Email    *string
}

// UpdateProfile es el self-service del usuario. No permite tocar role ni status.
func (s *Service) UpdateProfile(ctx context.Context, userID string, in ProfileInput) (User, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return User{}, ErrNotFound
	}

	if in.Username != nil {
		username := strings.TrimSpace(*in.Username)
		if username == "" {
			return User{}, ErrInvalidInput
		}
		u.Username = username
	}
	if in.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*in.Email))
		if !emailRe.MatchString(email) {
			return User{}, ErrInvalidInput
		}
		if email != u.Email {
			if _, err := s.repo.GetByEmail(ctx, email); err == nil {
				return User{}, ErrEmailTaken
			}
			u.Email = email
		}
	}

	u.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, u); err != nil {
		return User{}, err
	}
	return u, nil
}

type AdminUpdateInput struct {
	Username *string
	Email    *string
	Status   *string
}

// AdminUpdate permite a un admin editar cuenta y estado (active/blocked).
// El role sigue siendo inmutable también por esta vía.
func (s *Service) AdminUpdate(ctx context.Context, userID string, in AdminUpdateInput) (User, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return User{}, ErrNotFound
	}

	if in.Username != nil {
		username := strings.TrimSpace(*in.Username)
		if username == "" {
			return User{}, ErrInvalidInput
		}
		u.Username = username
	}
	if in.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*in.Email))
		if !emailRe.MatchString(email) {
			return User{}, ErrInvalidInput
		}
		u.Email = email
	}
	if in.Status != nil {
		status, ok := ParseStatus(strings.TrimSpace(*in.Status))
		if !ok {
			return User{}, ErrInvalidInput
		}
		u.Status = status
	}

	u.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, u); err != nil {
		return User{}, err
	}
	return u, nil
}
