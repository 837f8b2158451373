// file: internals/features/school/alerts/model/parent_alert_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ParentAlertType string

const (
	AlertTypeAbsence ParentAlertType = "absence"
	AlertTypeLeave   ParentAlertType = "leave"
)

type ParentAlertStatus string

const (
	AlertUnread ParentAlertStatus = "unread"
	AlertRead   ParentAlertStatus = "read"
)

// ParentAlertModel dimiliki notifier: dibuat saat status masuk absent,
// dihapus saat keluar absent. Orang tua hanya mengubah read-state.
type ParentAlertModel struct {
	ParentAlertID       uuid.UUID `gorm:"type:uuid;primaryKey;column:parent_alert_id" json:"parent_alert_id"`
	ParentAlertSchoolID uuid.UUID `gorm:"type:uuid;not null;column:parent_alert_school_id" json:"parent_alert_school_id"`

	ParentAlertParentUserID uuid.UUID `gorm:"type:uuid;not null;index:idx_parent_alert_parent_status,priority:1;column:parent_alert_parent_user_id" json:"parent_alert_parent_user_id"`
	ParentAlertStudentID    uuid.UUID `gorm:"type:uuid;not null;index;column:parent_alert_student_id" json:"parent_alert_student_id"`
	ParentAlertAttendanceID uuid.UUID `gorm:"type:uuid;not null;index;column:parent_alert_attendance_id" json:"parent_alert_attendance_id"`

	ParentAlertType ParentAlertType `gorm:"type:varchar(16);not null;column:parent_alert_type" json:"parent_alert_type"`

	ParentAlertDate    time.Time `gorm:"type:date;not null;column:parent_alert_date" json:"parent_alert_date"`
	ParentAlertMessage string    `gorm:"type:text;not null;column:parent_alert_message" json:"parent_alert_message"`

	ParentAlertStatus ParentAlertStatus `gorm:"type:varchar(16);not null;default:unread;index:idx_parent_alert_parent_status,priority:2;column:parent_alert_status" json:"parent_alert_status"`

	ParentAlertCreatedAt time.Time `gorm:"column:parent_alert_created_at;autoCreateTime" json:"parent_alert_created_at"`
	ParentAlertUpdatedAt time.Time `gorm:"column:parent_alert_updated_at;autoUpdateTime" json:"parent_alert_updated_at"`
}

func (ParentAlertModel) TableName() string { return "parent_alerts" }

func (m *ParentAlertModel) BeforeCreate(tx *gorm.DB) error {
	if m.ParentAlertID == uuid.Nil {
		m.ParentAlertID = uuid.New()
	}
	if m.ParentAlertStatus == "" {
		m.ParentAlertStatus = AlertUnread
	}
	return nil
}
