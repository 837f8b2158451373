// file: internals/features/school/calendar/service/projector_service.go
package service

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	m "sekolahku_backend/internals/features/school/calendar/model"
	studentSvc "sekolahku_backend/internals/features/school/students/service"
	"sekolahku_backend/internals/helpers/dates"
)

// ProjectorService memelihara kalender turunan per siswa dari record
// attendance. Idempotent: project (siswa, hari, status) dua kali tetap satu
// entry.
type ProjectorService struct {
	DB        *gorm.DB
	Directory *studentSvc.DirectoryService
}

func NewProjector(db *gorm.DB, dir *studentSvc.DirectoryService) *ProjectorService {
	return &ProjectorService{DB: db, Directory: dir}
}

// Project upsert entry attendance untuk satu hari. Gagal di sini tidak boleh
// membatalkan tulisan ledger — caller yang memutuskan log-and-continue.
func (s *ProjectorService) Project(ctx context.Context, studentID, schoolID uuid.UUID, day time.Time, status string) error {
	dayKey := dates.DayKey(day)
	err := mutateCalendar(ctx, s.DB, studentID, schoolID, func(set *m.EntrySet) {
		set.UpsertAttendance(dayKey, status)
	})
	if err != nil {
		return err
	}
	s.verifyProjection(ctx, studentID, dayKey, status)
	return nil
}

// verifyProjection: baca balik entry yang baru ditulis; mismatch berarti ada
// writer lain menimpa di antara save & verify — cukup warning, kalender bisa
// dibangun ulang dari ledger.
func (s *ProjectorService) verifyProjection(ctx context.Context, studentID uuid.UUID, dayKey, status string) {
	var cal m.StudentCalendarModel
	if err := s.DB.WithContext(ctx).
		Where("student_calendar_student_id = ?", studentID).
		First(&cal).Error; err != nil {
		log.Printf("[WARN] projector verify: reload student=%s: %v", studentID, err)
		return
	}
	set, err := m.DecodeEntries(cal.StudentCalendarEntries)
	if err != nil {
		log.Printf("[WARN] projector verify: decode student=%s: %v", studentID, err)
		return
	}
	if got := set.AttendanceOn(dayKey); got != status {
		log.Printf("[WARN] projector verify: mismatch student=%s day=%s want=%s got=%s",
			studentID, dayKey, status, got)
	}
}

// GetStudentCalendar: read path sekaligus titik lazy-sync event sekolah —
// entry yang dihasilkan identik dengan write path broadcaster.
func (s *ProjectorService) GetStudentCalendar(ctx context.Context, studentID uuid.UUID, from, to time.Time) ([]m.CalendarEntry, error) {
	info, err := s.Directory.FindStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	from = dates.Normalize(from)
	to = dates.Normalize(to)

	events, err := s.overlappingEvents(ctx, info.SchoolID, info.ClassID, from, to)
	if err != nil {
		return nil, err
	}

	err = mutateCalendar(ctx, s.DB, studentID, info.SchoolID, func(set *m.EntrySet) {
		for _, ev := range events {
			start := ev.SchoolCalendarEventStartDate
			if start.Before(from) {
				start = from
			}
			end := ev.SchoolCalendarEventEndDate
			if end.After(to) {
				end = to
			}
			for _, day := range dates.Span(start, end) {
				set.UpsertEvent(dates.DayKey(day), ev.SchoolCalendarEventID,
					ev.SchoolCalendarEventTitle, string(ev.SchoolCalendarEventType))
			}
		}
	})
	if err != nil {
		return nil, err
	}

	var cal m.StudentCalendarModel
	if err := s.DB.WithContext(ctx).
		Where("student_calendar_student_id = ?", studentID).
		First(&cal).Error; err != nil {
		return nil, err
	}
	set, err := m.DecodeEntries(cal.StudentCalendarEntries)
	if err != nil {
		return nil, err
	}
	return set.InRange(dates.DayKey(from), dates.DayKey(to)), nil
}

// overlappingEvents: event aktif sekolah yang menyentuh range, lalu scope
// kelas difilter eksplisit di Go (lihat catatan di model AppliesToClass).
func (s *ProjectorService) overlappingEvents(ctx context.Context, schoolID, classID uuid.UUID, from, to time.Time) ([]m.SchoolCalendarEventModel, error) {
	var rows []m.SchoolCalendarEventModel
	err := s.DB.WithContext(ctx).
		Where("school_calendar_event_school_id = ?", schoolID).
		Where("school_calendar_event_is_active = ?", true).
		Where("school_calendar_event_start_date <= ?", to).
		Where("school_calendar_event_end_date >= ?", from).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := rows[:0]
	for _, ev := range rows {
		if ev.AppliesToClass(classID) {
			out = append(out, ev)
		}
	}
	return out, nil
}
