// file: internals/features/school/alerts/controller/parent_alert_controller.go
package controller

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"sekolahku_backend/internals/features/school/alerts/dto"
	m "sekolahku_backend/internals/features/school/alerts/model"
	helper "sekolahku_backend/internals/helpers"
	"sekolahku_backend/internals/helpers/auth"
)

// ParentAlertController: surface baca untuk orang tua. Alert dibuat/dihapus
// notifier; di sini hanya read-state yang berubah.
type ParentAlertController struct {
	DB *gorm.DB
}

func NewParentAlertController(db *gorm.DB) *ParentAlertController {
	return &ParentAlertController{DB: db}
}

/* =======================================================
   GET /parent-alerts — alert milik caller, terbaru dulu
======================================================= */

func (ctl *ParentAlertController) GetList(c *fiber.Ctx) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return err
	}
	p := helper.ResolvePaging(c, 20, 100)

	q := ctl.DB.WithContext(c.Context()).
		Model(&m.ParentAlertModel{}).
		Where("parent_alert_parent_user_id = ?", userID)
	if status := strings.TrimSpace(c.Query("status")); status != "" {
		q = q.Where("parent_alert_status = ?", status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	var rows []m.ParentAlertModel
	err = q.Order("parent_alert_created_at DESC").
		Limit(p.Limit).Offset(p.Offset).
		Find(&rows).Error
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	pg := helper.BuildPaginationFromPage(total, p.Page, p.PerPage)
	return helper.JsonList(c, "Daftar notifikasi berhasil diambil", dto.FromModelsParentAlert(rows), &pg)
}

/* =======================================================
   GET /parent-alerts/unread-count
======================================================= */

func (ctl *ParentAlertController) GetUnreadCount(c *fiber.Ctx) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return err
	}
	var count int64
	err = ctl.DB.WithContext(c.Context()).
		Model(&m.ParentAlertModel{}).
		Where("parent_alert_parent_user_id = ? AND parent_alert_status = ?", userID, m.AlertUnread).
		Count(&count).Error
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonOK(c, "ok", fiber.Map{"unread_count": count})
}

/* =======================================================
   PATCH /parent-alerts/:id/read — owner check ketat
======================================================= */

func (ctl *ParentAlertController) MarkRead(c *fiber.Ctx) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return err
	}
	alertID, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID tidak valid")
	}

	var alert m.ParentAlertModel
	err = ctl.DB.WithContext(c.Context()).
		Where("parent_alert_id = ?", alertID).
		First(&alert).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return helper.JsonError(c, fiber.StatusNotFound, "Notifikasi tidak ditemukan")
	}
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	if alert.ParentAlertParentUserID != userID {
		return helper.JsonError(c, fiber.StatusForbidden, "Notifikasi ini bukan milik Anda")
	}

	if alert.ParentAlertStatus != m.AlertRead {
		alert.ParentAlertStatus = m.AlertRead
		if err := ctl.DB.WithContext(c.Context()).Save(&alert).Error; err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
		}
	}
	return helper.JsonUpdated(c, "Notifikasi ditandai terbaca", dto.FromModelParentAlert(&alert))
}

/* =======================================================
   PATCH /parent-alerts/read-all
======================================================= */

func (ctl *ParentAlertController) MarkAllRead(c *fiber.Ctx) error {
	userID, err := auth.UserID(c)
	if err != nil {
		return err
	}
	res := ctl.DB.WithContext(c.Context()).
		Model(&m.ParentAlertModel{}).
		Where("parent_alert_parent_user_id = ? AND parent_alert_status = ?", userID, m.AlertUnread).
		Update("parent_alert_status", m.AlertRead)
	if res.Error != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, res.Error.Error())
	}
	return helper.JsonUpdated(c, "Semua notifikasi ditandai terbaca", fiber.Map{
		"updated": res.RowsAffected,
	})
}
