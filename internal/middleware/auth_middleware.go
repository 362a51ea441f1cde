package middleware

import (
	"context"
	"slices"
	"strings"

	"go-sales-desk/internal/model"
	"go-sales-desk/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const identityKey = "identity"

// UserFinder is the slice of the user repository the auth check needs.
type UserFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
}

// Identity is the authenticated caller, stored on the request by RequireAuth.
type Identity struct {
	UserID     uuid.UUID
	Email      string
	Name       string
	Role       string
	Privileges []string
}

// Can reports whether the caller holds the privilege code.
func (i *Identity) Can(code string) bool {
	return i != nil && slices.Contains(i.Privileges, code)
}

// Current returns the caller identity, or nil on unauthenticated routes.
func Current(c *fiber.Ctx) *Identity {
	id, _ := c.Locals(identityKey).(*Identity)
	return id
}

// SetIdentity attaches an identity to the request.
func SetIdentity(c *fiber.Ctx, id *Identity) {
	c.Locals(identityKey, id)
}

func unauthorized(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": msg})
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// RequireAuth validates the bearer token against the stored user.
// A token minted before the last login or password change is rejected.
func RequireAuth(users UserFinder) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return unauthorized(c, "Missing authorization token")
		}
		token, ok := bearerToken(header)
		if !ok {
			return unauthorized(c, "Invalid authorization format. Use: Bearer <token>")
		}

		claims, err := jwt.ValidateToken(token)
		if err != nil {
			return unauthorized(c, "Invalid or expired token")
		}

		user, err := users.FindByID(c.UserContext(), claims.UserID)
		switch {
		case err != nil:
			return unauthorized(c, "User not found")
		case !user.IsActive:
			return unauthorized(c, "User account is inactive")
		case user.TokenVersion != claims.TokenVersion:
			return unauthorized(c, "Session expired (logged in on another device)")
		}

		// grants come from the stored row so revocations apply on the next request
		SetIdentity(c, &Identity{
			UserID:     user.ID,
			Email:      user.Email,
			Name:       user.FullName,
			Role:       user.RoleCode(),
			Privileges: user.PrivilegeCodes(),
		})
		return c.Next()
	}
}

// RequirePrivilege lets the request through only if the caller holds code.
func RequirePrivilege(code string) fiber.Handler {
	return RequireAnyPrivilege(code)
}

// RequireAnyPrivilege lets the request through if the caller holds any of codes.
func RequireAnyPrivilege(codes ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := Current(c)
		if id == nil {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "No privileges found"})
		}
		for _, code := range codes {
			if id.Can(code) {
				return c.Next()
			}
		}

		msg := "Forbidden: requires '" + codes[0] + "' privilege"
		if len(codes) > 1 {
			msg = "Forbidden: requires one of " + strings.Join(codes, ", ") + " privileges"
		}
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": msg})
	}
}
