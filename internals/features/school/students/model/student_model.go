// file: internals/features/school/students/model/student_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StudentStatus string

const (
	StudentActive   StudentStatus = "active"
	StudentInactive StudentStatus = "inactive"
)

type StudentModel struct {
	StudentID       uuid.UUID `gorm:"type:uuid;primaryKey;column:student_id" json:"student_id"`
	StudentSchoolID uuid.UUID `gorm:"type:uuid;not null;index;column:student_school_id" json:"student_school_id"`

	StudentName       string  `gorm:"type:varchar(120);not null;column:student_name" json:"student_name"`
	StudentRollNumber *string `gorm:"type:varchar(32);column:student_roll_number" json:"student_roll_number,omitempty"`

	StudentClassID        uuid.UUID  `gorm:"type:uuid;not null;column:student_class_id" json:"student_class_id"`
	StudentSectionID      *uuid.UUID `gorm:"type:uuid;column:student_section_id" json:"student_section_id,omitempty"`
	StudentClassSectionID uuid.UUID  `gorm:"type:uuid;not null;index;column:student_class_section_id" json:"student_class_section_id"`

	// nullable: siswa tanpa akun orang tua tidak menerima alert
	StudentParentUserID *uuid.UUID `gorm:"type:uuid;column:student_parent_user_id" json:"student_parent_user_id,omitempty"`

	StudentStatus StudentStatus `gorm:"type:varchar(16);not null;default:active;column:student_status" json:"student_status"`

	StudentCreatedAt time.Time `gorm:"column:student_created_at;autoCreateTime" json:"student_created_at"`
	StudentUpdatedAt time.Time `gorm:"column:student_updated_at;autoUpdateTime" json:"student_updated_at"`
}

func (StudentModel) TableName() string { return "students" }

func (s *StudentModel) BeforeCreate(tx *gorm.DB) error {
	if s.StudentID == uuid.Nil {
		s.StudentID = uuid.New()
	}
	if s.StudentStatus == "" {
		s.StudentStatus = StudentActive
	}
	return nil
}
