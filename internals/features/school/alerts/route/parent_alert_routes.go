// file: internals/features/school/alerts/route/parent_alert_routes.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"sekolahku_backend/internals/features/school/alerts/controller"
	featuresMiddleware "sekolahku_backend/internals/middlewares/features"
)

// ParentAlertRoutes: notifikasi absensi milik orang tua yang login.
func ParentAlertRoutes(r fiber.Router, db *gorm.DB) {
	ctl := controller.NewParentAlertController(db)

	grp := r.Group("/parent-alerts", featuresMiddleware.IsParent())
	grp.Get("/", ctl.GetList)
	grp.Get("/unread-count", ctl.GetUnreadCount)
	grp.Patch("/read-all", ctl.MarkAllRead)
	grp.Patch("/:id/read", ctl.MarkRead)
}
