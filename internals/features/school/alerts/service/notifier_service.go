// file: internals/features/school/alerts/service/notifier_service.go
package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	m "sekolahku_backend/internals/features/school/alerts/model"
	attModel "sekolahku_backend/internals/features/school/attendance/model"
	studentSvc "sekolahku_backend/internals/features/school/students/service"
	"sekolahku_backend/internals/helpers/dates"
)

// NotifierService menonton transisi status attendance. State machine per
// attendance record: NoAlert -> ActiveAlert saat masuk absent, balik saat
// keluar absent, self-loop untuk koreksi status sama.
type NotifierService struct {
	DB        *gorm.DB
	Directory *studentSvc.DirectoryService
}

func NewNotifier(db *gorm.DB, dir *studentSvc.DirectoryService) *NotifierService {
	return &NotifierService{DB: db, Directory: dir}
}

type Transition struct {
	StudentID    uuid.UUID
	AttendanceID uuid.UUID
	SchoolID     uuid.UUID
	Old          attModel.AttendanceStatus // "" saat mark pertama
	New          attModel.AttendanceStatus
	Day          time.Time
}

func (s *NotifierService) OnTransition(ctx context.Context, t Transition) error {
	enteredAbsent := t.New == attModel.StatusAbsent && t.Old != attModel.StatusAbsent
	leftAbsent := t.Old == attModel.StatusAbsent && t.New != attModel.StatusAbsent

	switch {
	case enteredAbsent:
		return s.createAbsenceAlert(ctx, t)
	case leftAbsent:
		return s.deleteAbsenceAlert(ctx, t.AttendanceID)
	default:
		return nil
	}
}

func (s *NotifierService) createAbsenceAlert(ctx context.Context, t Transition) error {
	info, err := s.Directory.FindStudent(ctx, t.StudentID)
	if err != nil {
		return err
	}
	if info.ParentUserID == nil {
		// siswa tanpa akun orang tua: bukan error, cukup lewati
		log.Printf("[INFO] notifier: student=%s has no parent account, skip alert", t.StudentID)
		return nil
	}

	// paling banyak satu absence alert aktif per attendance record
	var existing int64
	err = s.DB.WithContext(ctx).
		Model(&m.ParentAlertModel{}).
		Where("parent_alert_attendance_id = ? AND parent_alert_type = ?", t.AttendanceID, m.AlertTypeAbsence).
		Count(&existing).Error
	if err != nil {
		return err
	}
	if existing > 0 {
		return nil
	}

	alert := m.ParentAlertModel{
		ParentAlertSchoolID:     t.SchoolID,
		ParentAlertParentUserID: *info.ParentUserID,
		ParentAlertStudentID:    t.StudentID,
		ParentAlertAttendanceID: t.AttendanceID,
		ParentAlertType:         m.AlertTypeAbsence,
		ParentAlertDate:         dates.Normalize(t.Day),
		ParentAlertMessage:      fmt.Sprintf("%s was marked absent on %s", info.Name, dates.Human(t.Day)),
	}
	return s.DB.WithContext(ctx).Create(&alert).Error
}

func (s *NotifierService) deleteAbsenceAlert(ctx context.Context, attendanceID uuid.UUID) error {
	return s.DB.WithContext(ctx).
		Where("parent_alert_attendance_id = ? AND parent_alert_type = ?", attendanceID, m.AlertTypeAbsence).
		Delete(&m.ParentAlertModel{}).Error
}
