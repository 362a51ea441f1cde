package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"go-sales-desk/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	FindAll(ctx context.Context) ([]model.User, error)
	Create(ctx context.Context, user *model.User) error
	Update(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, id uuid.UUID) error
	ReplacePrivileges(ctx context.Context, userID uuid.UUID, privileges []model.Privilege) error
	Touch(ctx context.Context, userID uuid.UUID, at time.Time) error
}

type userRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) UserRepository {
	return &userRepo{db}
}

func (r *userRepo) withAccess(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Role").Preload("Privileges")
}

func (r *userRepo) first(db *gorm.DB) (*model.User, error) {
	var user model.User
	if err := db.First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// FindByEmail matches case-insensitively; stored emails are lowercase.
func (r *userRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.first(r.withAccess(ctx).Where("email = ?", email))
}

func (r *userRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return r.first(r.withAccess(ctx).Where("id = ?", id))
}

func (r *userRepo) FindAll(ctx context.Context) ([]model.User, error) {
	var users []model.User
	err := r.withAccess(ctx).Order("email ASC").Find(&users).Error
	return users, err
}

func (r *userRepo) Create(ctx context.Context, user *model.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isDuplicateKey(err) {
			return ErrEmailTaken
		}
		return err
	}
	return nil
}

// Update saves the user row only; grants change through ReplacePrivileges.
func (r *userRepo) Update(ctx context.Context, user *model.User) error {
	if err := r.db.WithContext(ctx).Omit("Privileges", "Role").Save(user).Error; err != nil {
		if isDuplicateKey(err) {
			return ErrEmailTaken
		}
		return err
	}
	return nil
}

func (r *userRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&model.User{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *userRepo) ReplacePrivileges(ctx context.Context, userID uuid.UUID, privileges []model.Privilege) error {
	db := r.db.WithContext(ctx)
	user, err := r.first(db.Where("id = ?", userID))
	if err != nil {
		return err
	}
	return db.Model(user).Association("Privileges").Replace(privileges)
}

func (r *userRepo) Touch(ctx context.Context, userID uuid.UUID, at time.Time) error {
	res := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", userID).Update("last_seen_at", at.UTC())
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}
