package repository

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

var (
	ErrCustomerNotFound  = errors.New("customer not found")
	ErrCustomerConflict  = errors.New("a customer with this phone or email already exists")
	ErrProductNotFound   = errors.New("product not found")
	ErrProductNameExists = errors.New("a product with this name already exists")
	ErrProductHasSales   = errors.New("cannot delete product with existing sales records")
	ErrSaleNotFound      = errors.New("sale not found")
	ErrInsufficientStock = errors.New("insufficient stock remaining")

	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already exists")
	ErrRoleNotFound = errors.New("role not found")
)

// The driver error text differs between sqlite and postgres, and gorm only
// translates some of them, so both the sentinel and the message are checked.

func isDuplicateKey(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) ||
		containsAny(err, "unique constraint", "duplicate key", "duplicated key")
}

func isForeignKeyViolation(err error) bool {
	return errors.Is(err, gorm.ErrForeignKeyViolated) ||
		containsAny(err, "foreign key constraint")
}

func isCheckViolation(err error) bool {
	return errors.Is(err, gorm.ErrCheckConstraintViolated) ||
		containsAny(err, "check constraint")
}

func containsAny(err error, needles ...string) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, n := range needles {
		if strings.Contains(msg, n) {
			return true
		}
	}
	return false
}
