package service

import (
	"context"
	"errors"
	"fmt"

	"go-sales-desk/internal/model"
	"go-sales-desk/internal/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SeedAccess creates the default privileges and roles, grants each role its
// privileges the first time, and creates the master admin account when no
// user with adminEmail exists
func SeedAccess(ctx context.Context, db *gorm.DB, adminEmail, adminPassword string, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}
	privilegeRepo := repository.NewPrivilegeRepo(db)
	roleRepo := repository.NewRoleRepo(db)
	userRepo := repository.NewUserRepo(db)

	if err := privilegeRepo.EnsureDefaults(ctx); err != nil {
		return fmt.Errorf("seed privileges: %w", err)
	}
	if err := roleRepo.EnsureDefaults(ctx); err != nil {
		return fmt.Errorf("seed roles: %w", err)
	}

	all, err := privilegeRepo.FindAll(ctx)
	if err != nil {
		return err
	}

	for _, def := range model.DefaultRoles {
		role, err := roleRepo.FindByCode(ctx, def.Code)
		if err != nil {
			return fmt.Errorf("load role %s: %w", def.Code, err)
		}
		if len(role.Privileges) > 0 {
			continue
		}

		grant := all
		if def.Code != model.RoleMasterAdmin {
			if grant, err = privilegeRepo.FindByCodes(ctx, model.RolePrivilegeCodes(def.Code)); err != nil {
				return err
			}
		}
		if err := roleRepo.AssignPrivileges(ctx, role, grant); err != nil {
			return fmt.Errorf("grant %s: %w", def.Code, err)
		}
		log.Info("Role privileges granted", zap.String("role", def.Code), zap.Int("privileges", len(grant)))
	}

	if _, err := userRepo.FindByEmail(ctx, adminEmail); err == nil {
		return nil
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return err
	}

	master, err := roleRepo.FindByCode(ctx, model.RoleMasterAdmin)
	if err != nil {
		return err
	}

	admin := &model.User{
		Email:      normalizeEmail(adminEmail),
		FullName:   "Master Administrator",
		RoleID:     &master.ID,
		IsActive:   true,
		Privileges: master.Privileges,
	}
	admin.CreatedBy = systemActor
	admin.UpdatedBy = systemActor
	if err := admin.SetPassword(adminPassword); err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	if err := userRepo.Create(ctx, admin); err != nil {
		return fmt.Errorf("create admin: %w", err)
	}

	log.Info("Admin user created", zap.String("email", adminEmail), zap.String("role", model.RoleMasterAdmin))
	return nil
}
