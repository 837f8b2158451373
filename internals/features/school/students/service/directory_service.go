// file: internals/features/school/students/service/directory_service.go
package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	m "sekolahku_backend/internals/features/school/students/model"
)

var ErrStudentNotFound = errors.New("student not found")

// DirectoryService: lookup ringan identitas siswa untuk notifier/broadcaster.
type DirectoryService struct {
	DB *gorm.DB
}

func NewDirectory(db *gorm.DB) *DirectoryService { return &DirectoryService{DB: db} }

type StudentInfo struct {
	StudentID      uuid.UUID
	Name           string
	SchoolID       uuid.UUID
	ClassID        uuid.UUID
	ClassSectionID uuid.UUID
	ParentUserID   *uuid.UUID
}

func (s *DirectoryService) FindStudent(ctx context.Context, studentID uuid.UUID) (*StudentInfo, error) {
	var row m.StudentModel
	err := s.DB.WithContext(ctx).
		Where("student_id = ?", studentID).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrStudentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &StudentInfo{
		StudentID:      row.StudentID,
		Name:           row.StudentName,
		SchoolID:       row.StudentSchoolID,
		ClassID:        row.StudentClassID,
		ClassSectionID: row.StudentClassSectionID,
		ParentUserID:   row.StudentParentUserID,
	}, nil
}

// RosterForSection: daftar siswa aktif satu class section, urut roll number.
// school id ikut difilter supaya section sekolah lain tidak bisa diintip.
func (s *DirectoryService) RosterForSection(ctx context.Context, schoolID, classSectionID uuid.UUID) ([]m.StudentModel, error) {
	var rows []m.StudentModel
	err := s.DB.WithContext(ctx).
		Where("student_school_id = ?", schoolID).
		Where("student_class_section_id = ? AND student_status = ?", classSectionID, m.StudentActive).
		Order("student_roll_number ASC, student_name ASC").
		Find(&rows).Error
	return rows, err
}
