// file: internals/features/school/attendance/dto/attendance_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"

	m "sekolahku_backend/internals/features/school/attendance/model"
	"sekolahku_backend/internals/helpers/dates"
)

/* =========================================================
 * REQUESTS
 * ========================================================= */

// Item sengaja tidak divalidasi keras: item cacat (siswa kosong / status
// tidak dikenal) dilewati service, bukan menggagalkan seluruh batch.
type MarkAttendanceItem struct {
	StudentID uuid.UUID `json:"student_id"`
	Status    string    `json:"status"`
	Remarks   *string   `json:"remarks" validate:"omitempty,max=500"`
}

type MarkAttendanceRequest struct {
	ClassSectionID uuid.UUID            `json:"class_section_id" validate:"required"`
	Date           string               `json:"date" validate:"required"` // YYYY-MM-DD
	Items          []MarkAttendanceItem `json:"items" validate:"required,min=1,dive"`
}

func (r MarkAttendanceRequest) ParseDate() (time.Time, error) {
	return dates.ParseDay(r.Date)
}

// Koreksi satu record (PATCH /:id)
type UpdateAttendanceRequest struct {
	Status  string  `json:"status" validate:"required,oneof=present absent leave"`
	Remarks *string `json:"remarks" validate:"omitempty,max=500"`
}

/* =========================================================
 * RESPONSES
 * ========================================================= */

type AttendanceResponse struct {
	AttendanceID             uuid.UUID          `json:"attendance_id"`
	AttendanceStudentID      uuid.UUID          `json:"attendance_student_id"`
	AttendanceClassSectionID uuid.UUID          `json:"attendance_class_section_id"`
	AttendanceDate           string             `json:"attendance_date"` // day key
	AttendanceStatus         m.AttendanceStatus `json:"attendance_status"`
	AttendanceRemarks        *string            `json:"attendance_remarks,omitempty"`
	AttendanceMarkedBy       uuid.UUID          `json:"attendance_marked_by"`
	AttendanceCreatedAt      time.Time          `json:"attendance_created_at"`
	AttendanceUpdatedAt      time.Time          `json:"attendance_updated_at"`
}

func FromModelAttendance(mdl *m.AttendanceModel) AttendanceResponse {
	return AttendanceResponse{
		AttendanceID:             mdl.AttendanceID,
		AttendanceStudentID:      mdl.AttendanceStudentID,
		AttendanceClassSectionID: mdl.AttendanceClassSectionID,
		AttendanceDate:           dates.DayKey(mdl.AttendanceDate),
		AttendanceStatus:         mdl.AttendanceStatus,
		AttendanceRemarks:        mdl.AttendanceRemarks,
		AttendanceMarkedBy:       mdl.AttendanceMarkedBy,
		AttendanceCreatedAt:      mdl.AttendanceCreatedAt,
		AttendanceUpdatedAt:      mdl.AttendanceUpdatedAt,
	}
}

func FromModelsAttendance(rows []m.AttendanceModel) []AttendanceResponse {
	out := make([]AttendanceResponse, 0, len(rows))
	for i := range rows {
		out = append(out, FromModelAttendance(&rows[i]))
	}
	return out
}

type MarkAttendanceResponse struct {
	Count   int                  `json:"count"`
	Records []AttendanceResponse `json:"records"`
}
