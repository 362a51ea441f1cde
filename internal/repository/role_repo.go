package repository

import (
	"context"
	"errors"

	"go-sales-desk/internal/model"

	"gorm.io/gorm"
)

type RoleRepository interface {
	FindAll(ctx context.Context) ([]model.Role, error)
	FindByID(ctx context.Context, id uint) (*model.Role, error)
	FindByCode(ctx context.Context, code string) (*model.Role, error)
	AssignPrivileges(ctx context.Context, role *model.Role, privileges []model.Privilege) error
	EnsureDefaults(ctx context.Context) error
}

type roleRepo struct {
	db *gorm.DB
}

func NewRoleRepo(db *gorm.DB) RoleRepository {
	return &roleRepo{db: db}
}

func (r *roleRepo) FindAll(ctx context.Context) ([]model.Role, error) {
	var roles []model.Role
	err := r.db.WithContext(ctx).Preload("Privileges").Order("id ASC").Find(&roles).Error
	return roles, err
}

func (r *roleRepo) find(ctx context.Context, query string, arg interface{}) (*model.Role, error) {
	var role model.Role
	if err := r.db.WithContext(ctx).Preload("Privileges").Where(query, arg).First(&role).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoleNotFound
		}
		return nil, err
	}
	return &role, nil
}

func (r *roleRepo) FindByID(ctx context.Context, id uint) (*model.Role, error) {
	return r.find(ctx, "id = ?", id)
}

func (r *roleRepo) FindByCode(ctx context.Context, code string) (*model.Role, error) {
	return r.find(ctx, "code = ?", code)
}

func (r *roleRepo) AssignPrivileges(ctx context.Context, role *model.Role, privileges []model.Privilege) error {
	return r.db.WithContext(ctx).Model(role).Association("Privileges").Replace(privileges)
}

// EnsureDefaults inserts the built-in roles that are missing and leaves
// existing rows untouched.
func (r *roleRepo) EnsureDefaults(ctx context.Context) error {
	db := r.db.WithContext(ctx)
	for _, def := range model.DefaultRoles {
		role := def
		if err := db.Where(model.Role{Code: def.Code}).FirstOrCreate(&role).Error; err != nil {
			return err
		}
	}
	return nil
}
