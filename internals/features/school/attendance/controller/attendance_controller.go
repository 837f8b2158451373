// file: internals/features/school/attendance/controller/attendance_controller.go
package controller

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"sekolahku_backend/internals/features/school/attendance/dto"
	attSvc "sekolahku_backend/internals/features/school/attendance/service"
	helper "sekolahku_backend/internals/helpers"
	"sekolahku_backend/internals/helpers/auth"
	"sekolahku_backend/internals/helpers/dates"
)

type AttendanceController struct {
	DB       *gorm.DB
	Validate *validator.Validate
	Ledger   *attSvc.LedgerService
}

func NewAttendanceController(db *gorm.DB, ledger *attSvc.LedgerService) *AttendanceController {
	return &AttendanceController{
		DB:       db,
		Validate: validator.New(),
		Ledger:   ledger,
	}
}

/* =======================================================
   Low-level error mapping (PG)
======================================================= */

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
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key") {
		return helper.JsonError(c, fiber.StatusConflict, "Data sudah ada (unik).")
	}
	return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
}

/* =======================================================
   GET /attendances?class_section_id=&date=
   Roster + status hari itu (nil = belum ditandai)
======================================================= */

func (ctl *AttendanceController) GetList(c *fiber.Ctx) error {
	schoolID, err := auth.SchoolID(c)
	if err != nil {
		return err
	}
	sectionID, err := uuid.Parse(strings.TrimSpace(c.Query("class_section_id")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "class_section_id tidak valid")
	}
	day, err := dates.ParseDay(c.Query("date"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	rows, err := ctl.Ledger.ListForSection(c.Context(), schoolID, sectionID, day)
	if err != nil {
		return writePGError(c, err)
	}
	return helper.JsonOK(c, "Daftar kehadiran berhasil diambil", fiber.Map{
		"class_section_id": sectionID,
		"date":             dates.DayKey(day),
		"students":         rows,
	})
}

/* =======================================================
   POST /attendances — bulk mark satu section satu hari
======================================================= */

func (ctl *AttendanceController) Mark(c *fiber.Ctx) error {
	schoolID, err := auth.SchoolID(c)
	if err != nil {
		return err
	}
	userID, err := auth.UserID(c)
	if err != nil {
		return err
	}

	var req dto.MarkAttendanceRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctl.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.FieldErrors(err))
	}
	day, err := req.ParseDate()
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	items := make([]attSvc.BulkItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, attSvc.BulkItem{
			StudentID: it.StudentID,
			Status:    it.Status,
			Remarks:   it.Remarks,
		})
	}

	res, err := ctl.Ledger.MarkBulk(c.Context(), schoolID, req.ClassSectionID, day, items, userID)
	if err != nil {
		return writePGError(c, err)
	}
	return helper.JsonCreated(c, "Kehadiran berhasil dicatat", dto.MarkAttendanceResponse{
		Count:   res.Count,
		Records: dto.FromModelsAttendance(res.Records),
	})
}

/* =======================================================
   PATCH /attendances/:id — koreksi satu record
======================================================= */

func (ctl *AttendanceController) Update(c *fiber.Ctx) error {
	schoolID, err := auth.SchoolID(c)
	if err != nil {
		return err
	}
	userID, err := auth.UserID(c)
	if err != nil {
		return err
	}
	recordID, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID tidak valid")
	}

	var req dto.UpdateAttendanceRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctl.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, helper.FieldErrors(err))
	}

	rec, _, err := ctl.Ledger.Correct(c.Context(), schoolID, recordID, req.Status, req.Remarks, userID)
	if err != nil {
		switch {
		case errors.Is(err, attSvc.ErrAttendanceNotFound):
			return helper.JsonError(c, fiber.StatusNotFound, "Record kehadiran tidak ditemukan")
		case errors.Is(err, attSvc.ErrInvalidStatus):
			return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
		default:
			return writePGError(c, err)
		}
	}
	return helper.JsonUpdated(c, "Kehadiran berhasil dikoreksi", dto.FromModelAttendance(rec))
}

/* =======================================================
   GET /attendances/stats?class_section_id=&from=&to=
======================================================= */

func (ctl *AttendanceController) GetStats(c *fiber.Ctx) error {
	schoolID, err := auth.SchoolID(c)
	if err != nil {
		return err
	}
	sectionID, err := uuid.Parse(strings.TrimSpace(c.Query("class_section_id")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "class_section_id tidak valid")
	}
	from, err := dates.ParseDay(c.Query("from"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	to, err := dates.ParseDay(c.Query("to"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	if to.Before(from) {
		return helper.JsonError(c, fiber.StatusBadRequest, "to tidak boleh sebelum from")
	}

	stats, err := ctl.Ledger.Stats(c.Context(), schoolID, sectionID, from, to)
	if err != nil {
		return writePGError(c, err)
	}
	return helper.JsonOK(c, "Rekap kehadiran berhasil diambil", stats)
}
