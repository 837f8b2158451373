// file: internals/features/school/attendance/route/attendance_routes.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	alertSvc "sekolahku_backend/internals/features/school/alerts/service"
	"sekolahku_backend/internals/features/school/attendance/controller"
	attSvc "sekolahku_backend/internals/features/school/attendance/service"
	calSvc "sekolahku_backend/internals/features/school/calendar/service"
	studentSvc "sekolahku_backend/internals/features/school/students/service"
	featuresMiddleware "sekolahku_backend/internals/middlewares/features"
)

// AttendanceStaffRoutes: guru/admin menandai & membaca attendance.
func AttendanceStaffRoutes(r fiber.Router, db *gorm.DB) {
	directory := studentSvc.NewDirectory(db)
	ledger := attSvc.NewLedger(db, directory,
		calSvc.NewProjector(db, directory),
		alertSvc.NewNotifier(db, directory),
	)
	ctl := controller.NewAttendanceController(db, ledger)

	grp := r.Group("/attendances", featuresMiddleware.IsSchoolStaff())
	grp.Get("/", ctl.GetList)
	grp.Get("/stats", ctl.GetStats)
	grp.Post("/", ctl.Mark)
	grp.Patch("/:id", ctl.Update)
}
