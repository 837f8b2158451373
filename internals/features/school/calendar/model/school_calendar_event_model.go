// file: internals/features/school/calendar/model/school_calendar_event_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type SchoolEventType string

const (
	EventTypeHoliday SchoolEventType = "holiday"
	EventTypeEvent   SchoolEventType = "event"
	EventTypeExam    SchoolEventType = "exam"
	EventTypePTM     SchoolEventType = "ptm"
)

func ValidSchoolEventType(s string) bool {
	switch SchoolEventType(s) {
	case EventTypeHoliday, EventTypeEvent, EventTypeExam, EventTypePTM:
		return true
	}
	return false
}

type SchoolCalendarEventModel struct {
	SchoolCalendarEventID       uuid.UUID `gorm:"type:uuid;primaryKey;column:school_calendar_event_id" json:"school_calendar_event_id"`
	SchoolCalendarEventSchoolID uuid.UUID `gorm:"type:uuid;not null;index;column:school_calendar_event_school_id" json:"school_calendar_event_school_id"`

	SchoolCalendarEventTitle string  `gorm:"type:varchar(160);not null;column:school_calendar_event_title" json:"school_calendar_event_title"`
	SchoolCalendarEventDesc  *string `gorm:"type:text;column:school_calendar_event_desc" json:"school_calendar_event_desc,omitempty"`

	SchoolCalendarEventType SchoolEventType `gorm:"type:varchar(16);not null;column:school_calendar_event_type" json:"school_calendar_event_type"`

	// rentang hari inklusif (local midnight)
	SchoolCalendarEventStartDate time.Time `gorm:"type:date;not null;column:school_calendar_event_start_date" json:"school_calendar_event_start_date"`
	SchoolCalendarEventEndDate   time.Time `gorm:"type:date;not null;column:school_calendar_event_end_date" json:"school_calendar_event_end_date"`

	// scope: semua kelas, atau daftar class id eksplisit
	SchoolCalendarEventAppliesToAllClasses bool           `gorm:"not null;column:school_calendar_event_applies_to_all_classes" json:"school_calendar_event_applies_to_all_classes"`
	SchoolCalendarEventClassIDs            pq.StringArray `gorm:"type:text[];column:school_calendar_event_class_ids" json:"school_calendar_event_class_ids,omitempty"`

	SchoolCalendarEventCreatedBy uuid.UUID `gorm:"type:uuid;not null;column:school_calendar_event_created_by" json:"school_calendar_event_created_by"`
	SchoolCalendarEventIsActive  bool      `gorm:"not null;default:true;column:school_calendar_event_is_active" json:"school_calendar_event_is_active"`

	SchoolCalendarEventCreatedAt time.Time      `gorm:"column:school_calendar_event_created_at;autoCreateTime" json:"school_calendar_event_created_at"`
	SchoolCalendarEventUpdatedAt time.Time      `gorm:"column:school_calendar_event_updated_at;autoUpdateTime" json:"school_calendar_event_updated_at"`
	SchoolCalendarEventDeletedAt gorm.DeletedAt `gorm:"column:school_calendar_event_deleted_at;index" json:"school_calendar_event_deleted_at,omitempty"`
}

func (SchoolCalendarEventModel) TableName() string { return "school_calendar_events" }

func (m *SchoolCalendarEventModel) BeforeCreate(tx *gorm.DB) error {
	if m.SchoolCalendarEventID == uuid.Nil {
		m.SchoolCalendarEventID = uuid.New()
	}
	return nil
}

// AppliesToClass: berlaku untuk semua kelas ATAU class id ada di daftar.
// Filter lama menumpuk dua $or sehingga cabang scope tereliminasi — di sini
// dievaluasi eksplisit di Go.
func (m *SchoolCalendarEventModel) AppliesToClass(classID uuid.UUID) bool {
	if m.SchoolCalendarEventAppliesToAllClasses {
		return true
	}
	want := classID.String()
	for _, id := range m.SchoolCalendarEventClassIDs {
		if id == want {
			return true
		}
	}
	return false
}
