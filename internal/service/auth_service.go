package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-sales-desk/internal/events"
	"go-sales-desk/internal/model"
	"go-sales-desk/internal/repository"
	"go-sales-desk/pkg/jwt"
	"go-sales-desk/pkg/validator"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserInactive       = errors.New("user account is inactive")
	ErrWrongPassword      = errors.New("current password is incorrect")
	ErrSessionTimeout     = errors.New("session expired due to inactivity")
	ErrSessionReplaced    = errors.New("session expired (logged in on another device)")

	ErrUserNotFound = repository.ErrUserNotFound
)

// sessionIdleTimeout is how long a till may go without a heartbeat
const sessionIdleTimeout = 5 * time.Minute

type Credentials struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type PasswordChange struct {
	Email       string `json:"email" validate:"required,email"`
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

type AuthService interface {
	Login(ctx context.Context, creds Credentials) (*Session, error)
	ChangePassword(ctx context.Context, req PasswordChange) error
	ValidateToken(ctx context.Context, token string) (*Session, error)
	Heartbeat(ctx context.Context, userID uuid.UUID) error
}

// Session describes an authenticated operator. Token is only set by Login.
type Session struct {
	Token      string             `json:"token,omitempty"`
	User       model.UserResponse `json:"user"`
	Role       *model.Role        `json:"role"`
	Privileges []string           `json:"privileges"`
}

type UserStatus struct {
	UserID     string    `json:"user_id"`
	Status     string    `json:"status"`
	LastSeenAt time.Time `json:"last_seen_at"`
}

type authService struct {
	users repository.UserRepository
	deps  Deps
	now   func() time.Time
}

func NewAuthService(users repository.UserRepository, deps Deps) AuthService {
	return &authService{
		users: users,
		deps:  deps.withDefaults(),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func sessionFor(user *model.User) *Session {
	return &Session{
		User:       user.ToResponse(),
		Role:       user.Role,
		Privileges: user.PrivilegeCodes(),
	}
}

func (s *authService) online(ctx context.Context, userID uuid.UUID, at time.Time, actor *events.Actor) {
	s.deps.notify(ctx, events.New(events.UserStatus, UserStatus{
		UserID:     userID.String(),
		Status:     "online",
		LastSeenAt: at,
	}, actor, ""))
}

// Login rotates the session version, so a login on one till logs out any other.
func (s *authService) Login(ctx context.Context, creds Credentials) (*Session, error) {
	if err := validator.Check(creds); err != nil {
		return nil, err
	}

	user, err := s.users.FindByEmail(ctx, creds.Email)
	switch {
	case errors.Is(err, repository.ErrUserNotFound):
		return nil, ErrInvalidCredentials
	case err != nil:
		return nil, err
	case !user.IsActive:
		return nil, ErrUserInactive
	case !user.CheckPassword(creds.Password):
		return nil, ErrInvalidCredentials
	}

	now := s.now()
	user.RotateSession()
	user.LastSeenAt = &now
	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("start session: %w", err)
	}

	token, err := jwt.Sign(jwt.Subject{
		UserID:       user.ID,
		Email:        user.Email,
		Name:         user.FullName,
		RoleCode:     user.RoleCode(),
		Privileges:   user.PrivilegeCodes(),
		TokenVersion: user.TokenVersion,
	})
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	s.deps.Log.Info("User logged in", zap.String("user_id", user.ID.String()), zap.String("role", user.RoleCode()))
	s.online(ctx, user.ID, now, &events.Actor{ID: user.ID.String(), Name: user.FullName, Email: user.Email})

	session := sessionFor(user)
	session.Token = token
	return session, nil
}

// ChangePassword also ends every open session of the user. Inactive
// accounts cannot change their password.
func (s *authService) ChangePassword(ctx context.Context, req PasswordChange) error {
	if err := validator.Check(req); err != nil {
		return err
	}

	// unknown accounts answer like a wrong password so the endpoint does not reveal which emails exist
	user, err := s.users.FindByEmail(ctx, req.Email)
	switch {
	case errors.Is(err, repository.ErrUserNotFound):
		return ErrWrongPassword
	case err != nil:
		return err
	case !user.CheckPassword(req.OldPassword):
		return ErrWrongPassword
	case !user.IsActive:
		return ErrUserInactive
	}
	if err := user.SetPassword(req.NewPassword); err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	user.RotateSession()
	return s.users.Update(ctx, user)
}

func (s *authService) ValidateToken(ctx context.Context, token string) (*Session, error) {
	claims, err := jwt.ValidateToken(token)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	switch {
	case err != nil:
		return nil, err
	case !user.IsActive:
		return nil, ErrUserInactive
	case user.TokenVersion != claims.TokenVersion:
		return nil, ErrSessionReplaced
	case user.LastSeenAt == nil || s.now().Sub(*user.LastSeenAt) > sessionIdleTimeout:
		return nil, ErrSessionTimeout
	}
	return sessionFor(user), nil
}

func (s *authService) Heartbeat(ctx context.Context, userID uuid.UUID) error {
	now := s.now()
	if err := s.users.Touch(ctx, userID, now); err != nil {
		return err
	}
	s.online(ctx, userID, now, nil)
	return nil
}
