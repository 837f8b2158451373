// internals/route/details/school_routes.go
package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	ParentAlertRoutes "sekolahku_backend/internals/features/school/alerts/route"
	AttendanceRoutes "sekolahku_backend/internals/features/school/attendance/route"
	CalendarRoutes "sekolahku_backend/internals/features/school/calendar/route"
)

// SchoolUserRoutes: surface user ber-JWT (staf + orang tua).
func SchoolUserRoutes(r fiber.Router, db *gorm.DB) {
	AttendanceRoutes.AttendanceStaffRoutes(r, db)
	CalendarRoutes.CalendarUserRoutes(r, db)
	ParentAlertRoutes.ParentAlertRoutes(r, db)
}

// SchoolAdminRoutes: surface admin sekolah.
func SchoolAdminRoutes(r fiber.Router, db *gorm.DB) {
	CalendarRoutes.CalendarAdminRoutes(r, db)
}
