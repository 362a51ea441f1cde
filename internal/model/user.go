package model

import (
	"slices"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// User represents an operator of the sales desk
type User struct {
	BaseModel
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	Email        string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password     string         `gorm:"type:varchar(255);not null" json:"-"`
	FullName     string         `gorm:"type:varchar(255)" json:"full_name"`
	PhoneNumber  string         `gorm:"type:varchar(20)" json:"phone_number"`
	RoleID       *uint          `gorm:"index" json:"role_id"`
	Role         *Role          `gorm:"foreignKey:RoleID" json:"role,omitempty"`
	IsActive     bool           `gorm:"default:true" json:"is_active"`
	Privileges   []Privilege    `gorm:"many2many:user_privileges;" json:"privileges,omitempty"`
	TokenVersion string         `gorm:"type:varchar(255);default:''" json:"-"` // single session enforcement
	LastSeenAt   *time.Time     `json:"last_seen_at,omitempty"`
}

// SetPassword stores a bcrypt hash of password.
func (u *User) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hash)
	return nil
}

func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) == nil
}

// RotateSession invalidates every token issued before the call.
func (u *User) RotateSession() {
	u.TokenVersion = uuid.NewString()
}

// RoleCode is empty for users without a role.
func (u *User) RoleCode() string {
	if u.Role == nil {
		return ""
	}
	return u.Role.Code
}

func (u *User) HasPrivilege(code string) bool {
	return slices.ContainsFunc(u.Privileges, func(p Privilege) bool { return p.Code == code })
}

// PrivilegeCodes lists the user's grants in assignment order.
func (u *User) PrivilegeCodes() []string {
	codes := make([]string, 0, len(u.Privileges))
	for _, p := range u.Privileges {
		codes = append(codes, p.Code)
	}
	return codes
}

// UserResponse is the API view of a user, without credentials
type UserResponse struct {
	ID          uuid.UUID   `json:"id"`
	Email       string      `json:"email"`
	FullName    string      `json:"full_name"`
	PhoneNumber string      `json:"phone_number"`
	RoleID      *uint       `json:"role_id,omitempty"`
	Role        *Role       `json:"role,omitempty"`
	IsActive    bool        `json:"is_active"`
	LastSeenAt  *time.Time  `json:"last_seen_at,omitempty"`
	Privileges  []Privilege `json:"privileges"`
}

func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		FullName:    u.FullName,
		PhoneNumber: u.PhoneNumber,
		RoleID:      u.RoleID,
		Role:        u.Role,
		IsActive:    u.IsActive,
		LastSeenAt:  u.LastSeenAt,
		Privileges:  u.Privileges,
	}
}
