// file: internals/features/school/attendance/model/attendance_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AttendanceStatus string

const (
	StatusPresent AttendanceStatus = "present"
	StatusAbsent  AttendanceStatus = "absent"
	StatusLeave   AttendanceStatus = "leave"
)

func ValidAttendanceStatus(s string) bool {
	switch AttendanceStatus(s) {
	case StatusPresent, StatusAbsent, StatusLeave:
		return true
	}
	return false
}

// AttendanceModel: ledger otoritatif, tepat satu record per (siswa, hari).
// Kalender siswa hanyalah proyeksi dari record ini.
type AttendanceModel struct {
	AttendanceID       uuid.UUID `gorm:"type:uuid;primaryKey;column:attendance_id" json:"attendance_id"`
	AttendanceSchoolID uuid.UUID `gorm:"type:uuid;not null;index;column:attendance_school_id" json:"attendance_school_id"`

	AttendanceStudentID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_attendance_student_date,priority:1;column:attendance_student_id" json:"attendance_student_id"`
	AttendanceClassSectionID uuid.UUID `gorm:"type:uuid;not null;index:idx_attendance_section_date,priority:1;column:attendance_class_section_id" json:"attendance_class_section_id"`

	// local midnight (timezone sekolah)
	AttendanceDate time.Time `gorm:"type:date;not null;uniqueIndex:uq_attendance_student_date,priority:2;index:idx_attendance_section_date,priority:2;column:attendance_date" json:"attendance_date"`

	AttendanceStatus  AttendanceStatus `gorm:"type:varchar(16);not null;column:attendance_status" json:"attendance_status"`
	AttendanceRemarks *string          `gorm:"type:text;column:attendance_remarks" json:"attendance_remarks,omitempty"`

	// koreksi menimpa marked_by dengan aktor terakhir; updated_at menyimpan kapan
	AttendanceMarkedBy uuid.UUID `gorm:"type:uuid;not null;column:attendance_marked_by" json:"attendance_marked_by"`

	AttendanceCreatedAt time.Time `gorm:"column:attendance_created_at;autoCreateTime" json:"attendance_created_at"`
	AttendanceUpdatedAt time.Time `gorm:"column:attendance_updated_at;autoUpdateTime" json:"attendance_updated_at"`
}

func (AttendanceModel) TableName() string { return "attendances" }

func (a *AttendanceModel) BeforeCreate(tx *gorm.DB) error {
	if a.AttendanceID == uuid.Nil {
		a.AttendanceID = uuid.New()
	}
	return nil
}
