// file: internals/middlewares/features/role_guards.go
package features

import (
	"github.com/gofiber/fiber/v2"

	"sekolahku_backend/internals/constants"
	helperAuth "sekolahku_backend/internals/helpers/auth"
)

// IsSchoolAdmin: admin sekolah atau owner.
func IsSchoolAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := helperAuth.Role(c)
		if role == constants.RoleAdmin || role == constants.RoleOwner || helperAuth.IsOwner(c) {
			return c.Next()
		}
		return fiber.NewError(fiber.StatusForbidden, constants.RoleErrorAdmin("kalender sekolah"))
	}
}

// IsSchoolStaff: teacher, admin, atau owner (penanda attendance).
func IsSchoolStaff() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if constants.IsStaffRole(helperAuth.Role(c)) || helperAuth.IsOwner(c) {
			return c.Next()
		}
		return fiber.NewError(fiber.StatusForbidden, constants.RoleErrorStaff("attendance"))
	}
}

// IsParent: hanya orang tua.
func IsParent() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if helperAuth.Role(c) == constants.RoleParent {
			return c.Next()
		}
		return fiber.NewError(fiber.StatusForbidden, constants.RoleErrorParent("alert orang tua"))
	}
}
