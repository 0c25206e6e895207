package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/utafrali/RentalGo/internal/domain"
	"github.com/utafrali/RentalGo/internal/repository"
	apperrors "github.com/utafrali/RentalGo/pkg/errors"
	"github.com/utafrali/RentalGo/pkg/validator"
)

// User-facing messages of the account forms.
const (
	MsgEmailRegistered = "Email already registered."
	MsgAccountCreated  = "Account created! You can log in now."
	MsgLoggedIn        = "Logged in! Redirecting..."
)

// SignupInput holds the fields of the signup form.
type SignupInput struct {
	Name     string `form:"name" validate:"required"`
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"pass" validate:"required"`
}

// LoginInput holds the fields of the login form. The password is accepted but
// never checked.
type LoginInput struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"pass"`
}

// AccountService keeps the signup list and the logged-in profile of a visitor
// in the store.
type AccountService struct {
	store  repository.Store
	logger *slog.Logger
}

// NewAccountService creates a new account service.
func NewAccountService(store repository.Store, logger *slog.Logger) *AccountService {
	return &AccountService{store: store, logger: logger}
}

// Signup appends a new account to the visitor's users list. An email already
// in the list is rejected and the list is left untouched.
func (s *AccountService) Signup(ctx context.Context, visitorID string, in SignupInput) (*domain.Account, error) {
	if err := validator.Validate(in); err != nil {
		return nil, err
	}

	users, err := s.users(ctx, visitorID)
	if err != nil {
		return nil, err
	}

	for _, u := range users {
		if u.Email == in.Email {
			return nil, emailRegistered(in.Email)
		}
	}

	account := domain.Account{Name: in.Name, Email: in.Email, Password: in.Password}
	users = append(users, account)

	data, err := json.Marshal(users)
	if err != nil {
		return nil, fmt.Errorf("marshal users: %w", err)
	}
	if err := s.store.Set(ctx, visitorID, domain.KeyUsers, string(data)); err != nil {
		return nil, fmt.Errorf("save users: %w", err)
	}

	s.logger.InfoContext(ctx, "account created",
		slog.Int("accounts", len(users)),
	)

	return &account, nil
}

func emailRegistered(email string) error {
	err := apperrors.AlreadyExists("account", "email", email)
	err.Message = MsgEmailRegistered
	return err
}

// Users returns the visitor's signup list, empty when none was stored.
func (s *AccountService) Users(ctx context.Context, visitorID string) ([]domain.Account, error) {
	return s.users(ctx, visitorID)
}

func (s *AccountService) users(ctx context.Context, visitorID string) ([]domain.Account, error) {
	raw, err := s.store.Get(ctx, visitorID, domain.KeyUsers)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return []domain.Account{}, nil
		}
		return nil, fmt.Errorf("get users: %w", err)
	}

	var users []domain.Account
	if err := json.Unmarshal([]byte(raw), &users); err != nil {
		return nil, fmt.Errorf("unmarshal users: %w", err)
	}
	return users, nil
}

// Login records email as the logged-in user. No credential check is made.
func (s *AccountService) Login(ctx context.Context, visitorID string, in LoginInput) (domain.CurrentUser, error) {
	if err := validator.Validate(in); err != nil {
		return domain.CurrentUser{}, err
	}

	user := domain.NewCurrentUser(in.Email)
	data, err := json.Marshal(user)
	if err != nil {
		return domain.CurrentUser{}, fmt.Errorf("marshal current user: %w", err)
	}

	if err := s.store.Set(ctx, visitorID, domain.KeyLoggedInEmail, in.Email); err != nil {
		return domain.CurrentUser{}, fmt.Errorf("save logged in email: %w", err)
	}
	if err := s.store.Set(ctx, visitorID, domain.KeyCurrentUser, string(data)); err != nil {
		return domain.CurrentUser{}, fmt.Errorf("save current user: %w", err)
	}

	s.logger.InfoContext(ctx, "visitor logged in")
	return user, nil
}

// CurrentUser returns the logged-in profile, or nil when there is none or it
// cannot be read. Read failures are logged since the page renders without it.
func (s *AccountService) CurrentUser(ctx context.Context, visitorID string) *domain.CurrentUser {
	raw, err := s.store.Get(ctx, visitorID, domain.KeyCurrentUser)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.logger.WarnContext(ctx, "read current user failed", slog.String("error", err.Error()))
		}
		return nil
	}

	var user domain.CurrentUser
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		s.logger.WarnContext(ctx, "corrupt current user record", slog.String("error", err.Error()))
		return nil
	}
	return &user
}
