// file: internals/features/school/calendar/controller/school_event_controller.go
package controller

import (
	"errors"
	"log"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"sekolahku_backend/internals/features/school/calendar/dto"
	m "sekolahku_backend/internals/features/school/calendar/model"
	calSvc "sekolahku_backend/internals/features/school/calendar/service"
	helper "sekolahku_backend/internals/helpers"
	"sekolahku_backend/internals/helpers/auth"
	"sekolahku_backend/internals/helpers/dates"
)

type SchoolEventController struct {
	DB          *gorm.DB
	Validate    *validator.Validate
	Broadcaster *calSvc.BroadcasterService
}

func NewSchoolEventController(db *gorm.DB, bc *calSvc.BroadcasterService) *SchoolEventController {
	return &SchoolEventController{
		DB:          db,
		Validate:    validator.New(),
		Broadcaster: bc,
	}
}

func writePGError(c *fiber.Ctx, err error) error {
	var pgErr *pq.Error
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return helper.JsonError(c, fiber.StatusConflict, "Data sudah ada (unik).")
		case "23503":
			return helper.JsonError(c, fiber.StatusBadRequest, "Referensi data tidak valid.")
		}
	}
	return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
}

/* =======================================================
   GET /school-events?from=&to=
======================================================= */

func (ctl *SchoolEventController) GetList(c *fiber.Ctx) error {
	schoolID, err := auth.SchoolID(c)
	if err != nil {
		return err
	}

	q := ctl.DB.WithContext(c.Context()).
		Where("school_calendar_event_school_id = ?", schoolID)

	if raw := strings.TrimSpace(c.Query("from")); raw != "" {
		from, err := dates.ParseDay(raw)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
		}
		q = q.Where("school_calendar_event_end_date >= ?", from)
	}
	if raw := strings.TrimSpace(c.Query("to")); raw != "" {
		to, err := dates.ParseDay(raw)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
		}
		q = q.Where("school_calendar_event_start_date <= ?", to)
	}

	var rows []m.SchoolCalendarEventModel
	if err := q.Order("school_calendar_event_start_date ASC").Find(&rows).Error; err != nil {
		return writePGError(c, err)
	}
	return helper.JsonOK(c, "Daftar event sekolah berhasil diambil", dto.FromModelsSchoolEvent(rows))
}

/* =======================================================
   POST /school-events — buat + broadcast ke kalender siswa
======================================================= */

func (ctl *SchoolEventController) Create(c *fiber.Ctx) error {
	schoolID, err := auth.SchoolID(c)
	if err != nil {
		return err
	}
	userID, err := auth.UserID(c)
	if err != nil {
		return err
	}

	var req dto.CreateSchoolEventRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctl.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.FieldErrors(err))
	}

	ev, err := req.ToModel(schoolID, userID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	if err := ctl.DB.WithContext(c.Context()).Create(ev).Error; err != nil {
		return writePGError(c, err)
	}

	// event sudah tersimpan; kegagalan fan-out tinggal warning, kalender
	// tersinkron lagi lewat lazy-sync read path
	if err := ctl.Broadcaster.Broadcast(c.Context(), ev); err != nil {
		log.Printf("[WARN] school event create: %v", err)
	}
	return helper.JsonCreated(c, "Event sekolah berhasil dibuat", dto.FromModelSchoolEvent(ev))
}

/* =======================================================
   PATCH /school-events/:id — ubah + re-broadcast (rekonsiliasi)
======================================================= */

func (ctl *SchoolEventController) Update(c *fiber.Ctx) error {
	schoolID, err := auth.SchoolID(c)
	if err != nil {
		return err
	}
	eventID, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID tidak valid")
	}

	var req dto.PatchSchoolEventRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctl.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.FieldErrors(err))
	}

	var ev m.SchoolCalendarEventModel
	err = ctl.DB.WithContext(c.Context()).
		Where("school_calendar_event_id = ? AND school_calendar_event_school_id = ?", eventID, schoolID).
		First(&ev).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return helper.JsonError(c, fiber.StatusNotFound, "Event tidak ditemukan")
	}
	if err != nil {
		return writePGError(c, err)
	}

	if err := req.Apply(&ev); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	if err := ctl.DB.WithContext(c.Context()).Save(&ev).Error; err != nil {
		return writePGError(c, err)
	}

	if !ev.SchoolCalendarEventIsActive {
		if err := ctl.Broadcaster.RemoveEvent(c.Context(), &ev); err != nil {
			log.Printf("[WARN] school event deactivate: %v", err)
		}
	} else if err := ctl.Broadcaster.Broadcast(c.Context(), &ev); err != nil {
		log.Printf("[WARN] school event update: %v", err)
	}
	return helper.JsonUpdated(c, "Event sekolah berhasil diubah", dto.FromModelSchoolEvent(&ev))
}

/* =======================================================
   DELETE /school-events/:id — bersihkan kalender lalu soft delete
======================================================= */

func (ctl *SchoolEventController) Delete(c *fiber.Ctx) error {
	schoolID, err := auth.SchoolID(c)
	if err != nil {
		return err
	}
	eventID, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID tidak valid")
	}

	var ev m.SchoolCalendarEventModel
	err = ctl.DB.WithContext(c.Context()).
		Where("school_calendar_event_id = ? AND school_calendar_event_school_id = ?", eventID, schoolID).
		First(&ev).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return helper.JsonError(c, fiber.StatusNotFound, "Event tidak ditemukan")
	}
	if err != nil {
		return writePGError(c, err)
	}

	if err := ctl.Broadcaster.RemoveEvent(c.Context(), &ev); err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	if err := ctl.DB.WithContext(c.Context()).Delete(&ev).Error; err != nil {
		return writePGError(c, err)
	}
	return helper.JsonDeleted(c, "Event sekolah berhasil dihapus", fiber.Map{
		"school_calendar_event_id": ev.SchoolCalendarEventID,
	})
}
