// file: internals/features/school/calendar/model/student_calendar_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// StudentCalendarModel: materialized view kalender per siswa. Bukan source of
// truth — selalu bisa dibangun ulang dari attendance + school events.
// Dimutasi projector & broadcaster lewat optimistic version, tidak pernah
// langsung oleh client API.
type StudentCalendarModel struct {
	StudentCalendarID        uuid.UUID `gorm:"type:uuid;primaryKey;column:student_calendar_id" json:"student_calendar_id"`
	StudentCalendarSchoolID  uuid.UUID `gorm:"type:uuid;not null;index;column:student_calendar_school_id" json:"student_calendar_school_id"`
	StudentCalendarStudentID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_student_calendar_student;column:student_calendar_student_id" json:"student_calendar_student_id"`

	StudentCalendarEntries datatypes.JSON `gorm:"type:jsonb;not null;column:student_calendar_entries" json:"student_calendar_entries"`

	// optimistic concurrency: projector & broadcaster menulis dokumen yang sama
	StudentCalendarVersion int64 `gorm:"not null;column:student_calendar_version" json:"student_calendar_version"`

	StudentCalendarCreatedAt time.Time `gorm:"column:student_calendar_created_at;autoCreateTime" json:"student_calendar_created_at"`
	StudentCalendarUpdatedAt time.Time `gorm:"column:student_calendar_updated_at;autoUpdateTime" json:"student_calendar_updated_at"`
}

func (StudentCalendarModel) TableName() string { return "student_calendars" }

func (m *StudentCalendarModel) BeforeCreate(tx *gorm.DB) error {
	if m.StudentCalendarID == uuid.Nil {
		m.StudentCalendarID = uuid.New()
	}
	if len(m.StudentCalendarEntries) == 0 {
		m.StudentCalendarEntries = datatypes.JSON([]byte("[]"))
	}
	if m.StudentCalendarVersion == 0 {
		m.StudentCalendarVersion = 1
	}
	return nil
}
