// file: internals/helpers/auth/claims.go
package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Nama locals mengikuti yang di-set middleware AuthJWT.
const (
	LocUserID   = "user_id"
	LocSchoolID = "school_id"
	LocRole     = "role"
	LocIsOwner  = "is_owner"
)

// UserID reads the authenticated user id from locals.
func UserID(c *fiber.Ctx) (uuid.UUID, error) {
	return uuidLocal(c, LocUserID, "Unauthorized")
}

// SchoolID reads the caller's active school scope from locals.
func SchoolID(c *fiber.Ctx) (uuid.UUID, error) {
	return uuidLocal(c, LocSchoolID, "School scope missing")
}

// Role returns the caller role claim ("" when absent).
func Role(c *fiber.Ctx) string {
	if v, ok := c.Locals(LocRole).(string); ok {
		return strings.ToLower(strings.TrimSpace(v))
	}
	return ""
}

func IsOwner(c *fiber.Ctx) bool {
	v, _ := c.Locals(LocIsOwner).(bool)
	return v
}

func uuidLocal(c *fiber.Ctx, key, msg string) (uuid.UUID, error) {
	s, _ := c.Locals(key).(string)
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil || id == uuid.Nil {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, msg)
	}
	return id, nil
}
