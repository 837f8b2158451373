// file: internals/features/school/calendar/service/calendar_store.go
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	m "sekolahku_backend/internals/features/school/calendar/model"
)

// Dokumen kalender ditulis dua arah (projector + broadcaster), jadi setiap
// mutasi adalah satu siklus read-modify-persist per siswa dengan optimistic
// version; kalah balapan → re-read & reapply.

const maxCalendarRetries = 3

var ErrCalendarConflict = errors.New("student calendar version conflict")

// ensureCalendar: ambil dokumen kalender siswa, buat lazily kalau belum ada.
func ensureCalendar(ctx context.Context, db *gorm.DB, studentID, schoolID uuid.UUID) (*m.StudentCalendarModel, error) {
	var cal m.StudentCalendarModel
	err := db.WithContext(ctx).
		Where("student_calendar_student_id = ?", studentID).
		First(&cal).Error
	if err == nil {
		return &cal, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	fresh := m.StudentCalendarModel{
		StudentCalendarSchoolID:  schoolID,
		StudentCalendarStudentID: studentID,
	}
	// dua writer bisa sama-sama lazily create; conflict diserap lalu re-read
	if err := db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "student_calendar_student_id"}},
			DoNothing: true,
		}).
		Create(&fresh).Error; err != nil {
		return nil, err
	}

	err = db.WithContext(ctx).
		Where("student_calendar_student_id = ?", studentID).
		First(&cal).Error
	if err != nil {
		return nil, err
	}
	return &cal, nil
}

// saveCalendar menulis entries hanya bila version belum bergeser.
func saveCalendar(ctx context.Context, db *gorm.DB, cal *m.StudentCalendarModel, set *m.EntrySet) (bool, error) {
	raw, err := set.Encode()
	if err != nil {
		return false, err
	}
	res := db.WithContext(ctx).
		Model(&m.StudentCalendarModel{}).
		Where("student_calendar_id = ? AND student_calendar_version = ?",
			cal.StudentCalendarID, cal.StudentCalendarVersion).
		Updates(map[string]any{
			"student_calendar_entries": raw,
			"student_calendar_version": cal.StudentCalendarVersion + 1,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// mutateCalendar: satu unit read-modify-persist per siswa, retry saat versi
// bergeser karena writer lain (projector vs broadcaster).
func mutateCalendar(ctx context.Context, db *gorm.DB, studentID, schoolID uuid.UUID, apply func(*m.EntrySet)) error {
	for attempt := 0; attempt < maxCalendarRetries; attempt++ {
		cal, err := ensureCalendar(ctx, db, studentID, schoolID)
		if err != nil {
			return err
		}
		set, err := m.DecodeEntries(cal.StudentCalendarEntries)
		if err != nil {
			return fmt.Errorf("decode calendar entries student=%s: %w", studentID, err)
		}
		apply(set)
		ok, err := saveCalendar(ctx, db, cal, set)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
	}
	return ErrCalendarConflict
}
