// file: internals/features/school/calendar/controller/student_calendar_controller.go
package controller

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"sekolahku_backend/internals/constants"
	calSvc "sekolahku_backend/internals/features/school/calendar/service"
	studentSvc "sekolahku_backend/internals/features/school/students/service"
	helper "sekolahku_backend/internals/helpers"
	"sekolahku_backend/internals/helpers/auth"
	"sekolahku_backend/internals/helpers/dates"
)

type StudentCalendarController struct {
	DB        *gorm.DB
	Projector *calSvc.ProjectorService
	Directory *studentSvc.DirectoryService
}

func NewStudentCalendarController(db *gorm.DB, proj *calSvc.ProjectorService, dir *studentSvc.DirectoryService) *StudentCalendarController {
	return &StudentCalendarController{DB: db, Projector: proj, Directory: dir}
}

/* =======================================================
   GET /students/:student_id/calendar?from=&to=
   Orang tua hanya boleh membaca kalender anaknya sendiri.
======================================================= */

func (ctl *StudentCalendarController) GetStudentCalendar(c *fiber.Ctx) error {
	schoolID, err := auth.SchoolID(c)
	if err != nil {
		return err
	}
	studentID, err := uuid.Parse(strings.TrimSpace(c.Params("student_id")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "student_id tidak valid")
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

	info, err := ctl.Directory.FindStudent(c.Context(), studentID)
	if errors.Is(err, studentSvc.ErrStudentNotFound) {
		return helper.JsonError(c, fiber.StatusNotFound, "Siswa tidak ditemukan")
	}
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	if info.SchoolID != schoolID {
		return helper.JsonError(c, fiber.StatusForbidden, "Siswa di luar scope sekolah Anda")
	}
	if auth.Role(c) == constants.RoleParent {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}
		if info.ParentUserID == nil || *info.ParentUserID != userID {
			return helper.JsonError(c, fiber.StatusForbidden, "Anda hanya dapat melihat kalender anak Anda sendiri")
		}
	}

	entries, err := ctl.Projector.GetStudentCalendar(c.Context(), studentID, from, to)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonOK(c, "Kalender siswa berhasil diambil", fiber.Map{
		"student_id": studentID,
		"from":       dates.DayKey(from),
		"to":         dates.DayKey(to),
		"entries":    entries,
	})
}
