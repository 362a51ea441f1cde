package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go-sales-desk/internal/events"
	"go-sales-desk/internal/model"
	"go-sales-desk/internal/repository"
	"go-sales-desk/pkg/validator"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrEmailExists  = repository.ErrEmailTaken
	ErrRoleNotFound = repository.ErrRoleNotFound
)

type UserService interface {
	CreateUser(ctx context.Context, req *CreateUserRequest, actor *events.Actor) (*model.User, error)
	UpdateUser(ctx context.Context, id uuid.UUID, req *UpdateUserRequest, actor *events.Actor) (*model.User, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
	SetPrivileges(ctx context.Context, id uuid.UUID, codes []string, actor *events.Actor) (*model.User, error)
	ListUsers(ctx context.Context) ([]model.UserResponse, error)
	GetUser(ctx context.Context, id uuid.UUID) (*model.UserResponse, error)
}

type CreateUserRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=6"`
	FullName    string `json:"full_name" validate:"notblank"`
	PhoneNumber string `json:"phone_number" validate:"max=20"`
	RoleID      uint   `json:"role_id" validate:"required"`
}

type UpdateUserRequest struct {
	Email       string  `json:"email" validate:"required,email"`
	Password    *string `json:"password,omitempty" validate:"omitempty,min=6"`
	FullName    string  `json:"full_name" validate:"notblank"`
	PhoneNumber string  `json:"phone_number" validate:"max=20"`
	RoleID      uint    `json:"role_id" validate:"required"`
	IsActive    *bool   `json:"is_active"`
}

type userService struct {
	users      repository.UserRepository
	privileges repository.PrivilegeRepository
	roles      repository.RoleRepository
	log        *zap.Logger
}

func NewUserService(users repository.UserRepository, privileges repository.PrivilegeRepository, roles repository.RoleRepository, deps Deps) UserService {
	return &userService{
		users:      users,
		privileges: privileges,
		roles:      roles,
		log:        deps.withDefaults().Log,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// emailFree reports ErrEmailExists when another user already holds email.
func (s *userService) emailFree(ctx context.Context, email string) error {
	_, err := s.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return ErrEmailExists
	case errors.Is(err, repository.ErrUserNotFound):
		return nil
	default:
		return err
	}
}

func (s *userService) CreateUser(ctx context.Context, req *CreateUserRequest, actor *events.Actor) (*model.User, error) {
	if err := validator.Check(req); err != nil {
		return nil, err
	}

	email := normalizeEmail(req.Email)
	if err := s.emailFree(ctx, email); err != nil {
		return nil, err
	}
	role, err := s.roles.FindByID(ctx, req.RoleID)
	if err != nil {
		return nil, err
	}

	// grants start as the role's defaults
	user := &model.User{
		Email:       email,
		FullName:    strings.TrimSpace(req.FullName),
		PhoneNumber: req.PhoneNumber,
		RoleID:      &role.ID,
		IsActive:    true,
		Privileges:  role.Privileges,
	}
	user.CreatedBy = actorID(actor)
	user.UpdatedBy = actorID(actor)
	if err := user.SetPassword(req.Password); err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	s.log.Info("User created", zap.String("email", email), zap.String("role", role.Code), zap.String("by", actorName(actor)))
	return s.users.FindByID(ctx, user.ID)
}

// UpdateUser resets the user's grants to the role defaults when the role changes.
func (s *userService) UpdateUser(ctx context.Context, id uuid.UUID, req *UpdateUserRequest, actor *events.Actor) (*model.User, error) {
	if err := validator.Check(req); err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	email := normalizeEmail(req.Email)
	if email != user.Email {
		if err := s.emailFree(ctx, email); err != nil {
			return nil, err
		}
	}
	role, err := s.roles.FindByID(ctx, req.RoleID)
	if err != nil {
		return nil, err
	}
	roleChanged := user.RoleID == nil || *user.RoleID != role.ID

	user.Email = email
	user.FullName = strings.TrimSpace(req.FullName)
	user.PhoneNumber = req.PhoneNumber
	user.RoleID = &role.ID
	user.Role = nil
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	if req.Password != nil && *req.Password != "" {
		if err := user.SetPassword(*req.Password); err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.RotateSession()
	}
	user.UpdatedBy = actorID(actor)

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	if roleChanged {
		if err := s.users.ReplacePrivileges(ctx, id, role.Privileges); err != nil {
			return nil, err
		}
	}
	return s.users.FindByID(ctx, id)
}

func (s *userService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	return s.users.Delete(ctx, id)
}

// SetPrivileges replaces the user's grants. Unknown codes are ignored.
func (s *userService) SetPrivileges(ctx context.Context, id uuid.UUID, codes []string, actor *events.Actor) (*model.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	privileges, err := s.privileges.FindByCodes(ctx, codes)
	if err != nil {
		return nil, fmt.Errorf("load privileges: %w", err)
	}
	if err := s.users.ReplacePrivileges(ctx, id, privileges); err != nil {
		return nil, err
	}

	user.UpdatedBy = actorID(actor)
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return s.users.FindByID(ctx, id)
}

func (s *userService) ListUsers(ctx context.Context) ([]model.UserResponse, error) {
	users, err := s.users.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]model.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, u.ToResponse())
	}
	return out, nil
}

func (s *userService) GetUser(ctx context.Context, id uuid.UUID) (*model.UserResponse, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := user.ToResponse()
	return &resp, nil
}
