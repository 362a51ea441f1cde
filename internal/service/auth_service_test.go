package service

import (
	"context"
	"testing"

	"go-sales-desk/internal/events"
	"go-sales-desk/internal/model"
	"go-sales-desk/internal/repository"
	"go-sales-desk/internal/testutil"
	"go-sales-desk/pkg/validator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedAccessIsIdempotent(t *testing.T) {
	db := testutil.NewDB(t)
	require.NoError(t, SeedAccess(context.Background(), db, "admin@example.com", "admin123", nil))
	require.NoError(t, SeedAccess(context.Background(), db, "admin@example.com", "admin123", nil))

	roles := repository.NewRoleRepo(db)
	master, err := roles.FindByCode(context.Background(), model.RoleMasterAdmin)
	require.NoError(t, err)
	assert.Len(t, master.Privileges, len(model.DefaultPrivileges))

	cashierRole, err := roles.FindByCode(context.Background(), model.RoleCashier)
	require.NoError(t, err)
	assert.Len(t, cashierRole.Privileges, len(model.RolePrivilegeCodes(model.RoleCashier)))

	var admins int64
	require.NoError(t, db.Model(&model.User{}).Where("email = ?", "admin@example.com").Count(&admins).Error)
	assert.Equal(t, int64(1), admins)
}

func TestLoginAndValidateToken(t *testing.T) {
	db := testutil.NewDB(t)
	require.NoError(t, SeedAccess(context.Background(), db, "admin@example.com", "admin123", nil))

	pub := &recordingPublisher{}
	auth := NewAuthService(repository.NewUserRepo(db), Deps{Publisher: pub})
	ctx := context.Background()

	_, err := auth.Login(ctx, Credentials{Email: "admin@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = auth.Login(ctx, Credentials{Email: "nobody@example.com", Password: "admin123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	first, err := auth.Login(ctx, Credentials{Email: "Admin@Example.com", Password: "admin123"})
	require.NoError(t, err)
	assert.Contains(t, first.Privileges, model.PrivSaleCreate)
	assert.Len(t, pub.ofType(events.UserStatus), 1)

	validated, err := auth.ValidateToken(ctx, first.Token)
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", validated.User.Email)

	// logging in again replaces the first session
	second, err := auth.Login(ctx, Credentials{Email: "Admin@Example.com", Password: "admin123"})
	require.NoError(t, err)
	_, err = auth.ValidateToken(ctx, first.Token)
	assert.ErrorIs(t, err, ErrSessionReplaced)

	require.NoError(t, auth.Heartbeat(ctx, second.User.ID))
	_, err = auth.ValidateToken(ctx, second.Token)
	assert.NoError(t, err)

	change := PasswordChange{Email: "admin@example.com", OldPassword: "admin123", NewPassword: "s3cret!"}
	require.NoError(t, auth.ChangePassword(ctx, change))
	_, err = auth.ValidateToken(ctx, second.Token)
	assert.ErrorIs(t, err, ErrSessionReplaced)
	assert.ErrorIs(t, auth.ChangePassword(ctx, change), ErrWrongPassword)
	change.NewPassword = "x"
	assert.ErrorIs(t, auth.ChangePassword(ctx, change), validator.ErrValidation)

	_, err = auth.Login(ctx, Credentials{Email: "admin@example.com", Password: "s3cret!"})
	assert.NoError(t, err)
}

func TestChangePasswordHidesAccounts(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	require.NoError(t, SeedAccess(ctx, db, "admin@example.com", "admin123", nil))
	users := repository.NewUserRepo(db)
	auth := NewAuthService(users, Deps{})

	err := auth.ChangePassword(ctx, PasswordChange{Email: "ghost@example.com", OldPassword: "whatever", NewPassword: "s3cret!"})
	assert.ErrorIs(t, err, ErrWrongPassword)

	admin, err := users.FindByEmail(ctx, "admin@example.com")
	require.NoError(t, err)
	admin.IsActive = false
	require.NoError(t, users.Update(ctx, admin))

	err = auth.ChangePassword(ctx, PasswordChange{Email: "admin@example.com", OldPassword: "nope", NewPassword: "s3cret!"})
	assert.ErrorIs(t, err, ErrWrongPassword)
	err = auth.ChangePassword(ctx, PasswordChange{Email: "admin@example.com", OldPassword: "admin123", NewPassword: "s3cret!"})
	assert.ErrorIs(t, err, ErrUserInactive)
}

func TestUserService(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	require.NoError(t, SeedAccess(ctx, db, "admin@example.com", "admin123", nil))

	roles := repository.NewRoleRepo(db)
	users := NewUserService(repository.NewUserRepo(db), repository.NewPrivilegeRepo(db), roles, Deps{})
	cashierRole, err := roles.FindByCode(ctx, model.RoleCashier)
	require.NoError(t, err)
	adminRole, err := roles.FindByCode(ctx, model.RoleAdmin)
	require.NoError(t, err)

	_, err = users.CreateUser(ctx, &CreateUserRequest{Email: "bad", Password: "123456", FullName: "X", RoleID: cashierRole.ID}, cashier)
	assert.ErrorIs(t, err, validator.ErrValidation)

	u, err := users.CreateUser(ctx, &CreateUserRequest{
		Email: "Till@Example.com", Password: "123456", FullName: "Till One", RoleID: cashierRole.ID,
	}, cashier)
	require.NoError(t, err)
	assert.Equal(t, "till@example.com", u.Email)
	assert.True(t, u.HasPrivilege(model.PrivSaleCreate))
	assert.False(t, u.HasPrivilege(model.PrivProductDelete))

	_, err = users.CreateUser(ctx, &CreateUserRequest{
		Email: "till@example.com", Password: "123456", FullName: "Dup", RoleID: cashierRole.ID,
	}, cashier)
	assert.ErrorIs(t, err, ErrEmailExists)

	_, err = users.CreateUser(ctx, &CreateUserRequest{
		Email: "other@example.com", Password: "123456", FullName: "Other", RoleID: 999,
	}, cashier)
	assert.ErrorIs(t, err, ErrRoleNotFound)

	_, err = users.UpdateUser(ctx, u.ID, &UpdateUserRequest{
		Email: "ADMIN@example.com", FullName: "Till One", RoleID: cashierRole.ID,
	}, cashier)
	assert.ErrorIs(t, err, ErrEmailExists)

	promoted, err := users.UpdateUser(ctx, u.ID, &UpdateUserRequest{
		Email: "till@example.com", FullName: "Till One", RoleID: adminRole.ID,
	}, cashier)
	require.NoError(t, err)
	assert.True(t, promoted.HasPrivilege(model.PrivProductDelete))

	restricted, err := users.SetPrivileges(ctx, u.ID, []string{model.PrivSaleView}, cashier)
	require.NoError(t, err)
	assert.Equal(t, []string{model.PrivSaleView}, restricted.PrivilegeCodes())

	require.NoError(t, users.DeleteUser(ctx, u.ID))
	assert.ErrorIs(t, users.DeleteUser(ctx, u.ID), ErrUserNotFound)
	_, err = users.GetUser(ctx, u.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
