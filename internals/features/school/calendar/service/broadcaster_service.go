// file: internals/features/school/calendar/service/broadcaster_service.go
package service

import (
	"context"
	"fmt"
	"log"
	"sync/atomic"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	m "sekolahku_backend/internals/features/school/calendar/model"
	studentModel "sekolahku_backend/internals/features/school/students/model"
	"sekolahku_backend/internals/helpers/dates"
)

// batas fan-out: jangan banjiri pool koneksi saat sekolah besar
const broadcastConcurrency = 8

// BroadcasterService mem-fan-out satu event sekolah ke kalender semua siswa
// yang terdampak, satu entry per hari yang dicakup event.
type BroadcasterService struct {
	DB *gorm.DB
}

func NewBroadcaster(db *gorm.DB) *BroadcasterService { return &BroadcasterService{DB: db} }

// Broadcast dipanggil saat event dibuat ATAU diubah; re-broadcast
// merekonsiliasi, bukan sekadar menambah: entry event di hari yang sudah
// keluar dari range ikut dipangkas.
func (s *BroadcasterService) Broadcast(ctx context.Context, ev *m.SchoolCalendarEventModel) error {
	students, err := s.affectedStudents(ctx, ev)
	if err != nil {
		return err
	}

	wanted := make(map[string]bool)
	for _, day := range dates.Span(ev.SchoolCalendarEventStartDate, ev.SchoolCalendarEventEndDate) {
		wanted[dates.DayKey(day)] = true
	}

	var failed atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(broadcastConcurrency)
	for _, st := range students {
		st := st
		g.Go(func() error {
			err := mutateCalendar(gctx, s.DB, st.StudentID, ev.SchoolCalendarEventSchoolID, func(set *m.EntrySet) {
				for dayKey := range wanted {
					set.UpsertEvent(dayKey, ev.SchoolCalendarEventID,
						ev.SchoolCalendarEventTitle, string(ev.SchoolCalendarEventType))
				}
				set.PruneEventOutside(ev.SchoolCalendarEventID, wanted)
			})
			if err != nil {
				// satu kalender gagal tidak menghentikan siswa lain
				failed.Add(1)
				log.Printf("[ERROR] broadcast: event=%s student=%s: %v",
					ev.SchoolCalendarEventID, st.StudentID, err)
			}
			return nil
		})
	}
	_ = g.Wait()

	if n := failed.Load(); n > 0 {
		return fmt.Errorf("broadcast event %s: %d/%d calendars failed",
			ev.SchoolCalendarEventID, n, len(students))
	}
	return nil
}

// RemoveEvent menghapus seluruh entry milik event dari semua kalender sekolah.
// Entry attendance dan event lain tidak tersentuh.
func (s *BroadcasterService) RemoveEvent(ctx context.Context, ev *m.SchoolCalendarEventModel) error {
	var calendars []m.StudentCalendarModel
	err := s.DB.WithContext(ctx).
		Where("student_calendar_school_id = ?", ev.SchoolCalendarEventSchoolID).
		Find(&calendars).Error
	if err != nil {
		return err
	}

	var failed atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(broadcastConcurrency)
	for _, cal := range calendars {
		cal := cal
		g.Go(func() error {
			err := mutateCalendar(gctx, s.DB, cal.StudentCalendarStudentID, cal.StudentCalendarSchoolID, func(set *m.EntrySet) {
				set.RemoveEvent(ev.SchoolCalendarEventID)
			})
			if err != nil {
				failed.Add(1)
				log.Printf("[ERROR] remove event: event=%s student=%s: %v",
					ev.SchoolCalendarEventID, cal.StudentCalendarStudentID, err)
			}
			return nil
		})
	}
	_ = g.Wait()

	if n := failed.Load(); n > 0 {
		return fmt.Errorf("remove event %s: %d/%d calendars failed",
			ev.SchoolCalendarEventID, n, len(calendars))
	}
	return nil
}

// affectedStudents: seluruh siswa aktif sekolah, atau hanya kelas yang masuk
// scope event. Scope kosong (bukan all-classes, daftar kelas kosong) berarti
// tidak ada siswa.
func (s *BroadcasterService) affectedStudents(ctx context.Context, ev *m.SchoolCalendarEventModel) ([]studentModel.StudentModel, error) {
	q := s.DB.WithContext(ctx).
		Where("student_school_id = ?", ev.SchoolCalendarEventSchoolID).
		Where("student_status = ?", studentModel.StudentActive)

	if !ev.SchoolCalendarEventAppliesToAllClasses {
		classIDs := make([]uuid.UUID, 0, len(ev.SchoolCalendarEventClassIDs))
		for _, raw := range ev.SchoolCalendarEventClassIDs {
			id, err := uuid.Parse(raw)
			if err != nil {
				continue
			}
			classIDs = append(classIDs, id)
		}
		if len(classIDs) == 0 {
			return nil, nil
		}
		q = q.Where("student_class_id IN ?", classIDs)
	}

	var rows []studentModel.StudentModel
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
