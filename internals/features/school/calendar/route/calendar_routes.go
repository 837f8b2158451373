// file: internals/features/school/calendar/route/calendar_routes.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"sekolahku_backend/internals/features/school/calendar/controller"
	calSvc "sekolahku_backend/internals/features/school/calendar/service"
	studentSvc "sekolahku_backend/internals/features/school/students/service"
	"sekolahku_backend/internals/middlewares"
)

// CalendarUserRoutes: kalender siswa — orang tua (anak sendiri) & staf.
func CalendarUserRoutes(r fiber.Router, db *gorm.DB) {
	directory := studentSvc.NewDirectory(db)
	ctl := controller.NewStudentCalendarController(db,
		calSvc.NewProjector(db, directory), directory)

	r.Get("/students/:student_id/calendar", ctl.GetStudentCalendar)
}

// CalendarAdminRoutes: CRUD event sekolah. Mutasi memicu fan-out ke semua
// kalender siswa, jadi dibatasi rate limiter khusus.
func CalendarAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := controller.NewSchoolEventController(db, calSvc.NewBroadcaster(db))

	grp := r.Group("/school-events")
	grp.Get("/", ctl.GetList)
	grp.Post("/", middlewares.BroadcastRateLimiter(), ctl.Create)
	grp.Patch("/:id", middlewares.BroadcastRateLimiter(), ctl.Update)
	grp.Delete("/:id", middlewares.BroadcastRateLimiter(), ctl.Delete)
}
