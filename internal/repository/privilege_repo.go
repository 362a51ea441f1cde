package repository

import (
	"context"

	"go-sales-desk/internal/model"

	"gorm.io/gorm"
)

type PrivilegeRepository interface {
	FindByCodes(ctx context.Context, codes []string) ([]model.Privilege, error)
	FindAll(ctx context.Context) ([]model.Privilege, error)
	EnsureDefaults(ctx context.Context) error
}

type privilegeRepo struct {
	db *gorm.DB
}

func NewPrivilegeRepo(db *gorm.DB) PrivilegeRepository {
	return &privilegeRepo{db}
}

// FindByCodes silently skips unknown codes.
func (r *privilegeRepo) FindByCodes(ctx context.Context, codes []string) ([]model.Privilege, error) {
	privileges := []model.Privilege{}
	if len(codes) == 0 {
		return privileges, nil
	}
	err := r.db.WithContext(ctx).Where("code IN ?", codes).Order("id ASC").Find(&privileges).Error
	return privileges, err
}

func (r *privilegeRepo) FindAll(ctx context.Context) ([]model.Privilege, error) {
	var privileges []model.Privilege
	err := r.db.WithContext(ctx).Order("id ASC").Find(&privileges).Error
	return privileges, err
}

func (r *privilegeRepo) EnsureDefaults(ctx context.Context) error {
	db := r.db.WithContext(ctx)
	for _, def := range model.DefaultPrivileges {
		priv := def
		if err := db.Where(model.Privilege{Code: def.Code}).FirstOrCreate(&priv).Error; err != nil {
			return err
		}
	}
	return nil
}
