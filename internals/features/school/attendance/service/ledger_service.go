// file: internals/features/school/attendance/service/ledger_service.go
package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	alertSvc "sekolahku_backend/internals/features/school/alerts/service"
	m "sekolahku_backend/internals/features/school/attendance/model"
	calSvc "sekolahku_backend/internals/features/school/calendar/service"
	studentSvc "sekolahku_backend/internals/features/school/students/service"
	"sekolahku_backend/internals/helpers/dates"
)

var (
	ErrInvalidStatus      = errors.New("attendance status must be present, absent, or leave")
	ErrMissingStudent     = errors.New("student id is required")
	ErrAttendanceNotFound = errors.New("attendance record not found")
)

// LedgerService adalah pemilik record attendance. Setiap mutasi sukses wajib
// memanggil projector + notifier sebelum balik ke caller; kegagalan keduanya
// di-log lalu ditelan — ledger otoritatif, kalender/alert derived state yang
// bisa dibangun ulang.
type LedgerService struct {
	DB        *gorm.DB
	Directory *studentSvc.DirectoryService
	Projector *calSvc.ProjectorService
	Notifier  *alertSvc.NotifierService
}

func NewLedger(db *gorm.DB, dir *studentSvc.DirectoryService, proj *calSvc.ProjectorService, notif *alertSvc.NotifierService) *LedgerService {
	return &LedgerService{DB: db, Directory: dir, Projector: proj, Notifier: notif}
}

type MarkInput struct {
	SchoolID       uuid.UUID
	StudentID      uuid.UUID
	ClassSectionID uuid.UUID
	Date           time.Time
	Status         string
	Remarks        *string
	MarkedBy       uuid.UUID
}

// Mark upsert record attendance keyed (siswa, hari). Mengembalikan record
// terbaru plus status sebelumnya ("" saat mark pertama) supaya caller bisa
// mendeteksi transisi.
func (s *LedgerService) Mark(ctx context.Context, in MarkInput) (*m.AttendanceModel, m.AttendanceStatus, error) {
	if in.StudentID == uuid.Nil {
		return nil, "", ErrMissingStudent
	}
	if !m.ValidAttendanceStatus(in.Status) {
		return nil, "", ErrInvalidStatus
	}

	day := dates.Normalize(in.Date)

	var old m.AttendanceStatus
	var rec m.AttendanceModel
	err := s.DB.WithContext(ctx).
		Where("attendance_student_id = ? AND attendance_date = ?", in.StudentID, day).
		First(&rec).Error
	switch {
	case err == nil:
		old = rec.AttendanceStatus
		rec.AttendanceStatus = m.AttendanceStatus(in.Status)
		rec.AttendanceRemarks = in.Remarks
		rec.AttendanceMarkedBy = in.MarkedBy
		if err := s.DB.WithContext(ctx).Save(&rec).Error; err != nil {
			return nil, "", err
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		rec = m.AttendanceModel{
			AttendanceSchoolID:       in.SchoolID,
			AttendanceStudentID:      in.StudentID,
			AttendanceClassSectionID: in.ClassSectionID,
			AttendanceDate:           day,
			AttendanceStatus:         m.AttendanceStatus(in.Status),
			AttendanceRemarks:        in.Remarks,
			AttendanceMarkedBy:       in.MarkedBy,
		}
		// balapan first-mark dari dua request: unique (siswa, hari) menang satu,
		// yang kalah jatuh ke update
		if err := s.DB.WithContext(ctx).
			Clauses(clause.OnConflict{
				Columns: []clause.Column{
					{Name: "attendance_student_id"},
					{Name: "attendance_date"},
				},
				DoUpdates: clause.AssignmentColumns([]string{
					"attendance_status", "attendance_remarks", "attendance_marked_by",
				}),
			}).
			Create(&rec).Error; err != nil {
			return nil, "", err
		}
		// kalah balapan berarti id dari BeforeCreate bukan id baris yang
		// menang; baca ulang (siswa, hari) sebagai sumber kebenaran
		if err := s.DB.WithContext(ctx).
			Where("attendance_student_id = ? AND attendance_date = ?", in.StudentID, day).
			First(&rec).Error; err != nil {
			return nil, "", err
		}
	default:
		return nil, "", err
	}

	s.fanOut(ctx, &rec, old)
	return &rec, old, nil
}

type BulkItem struct {
	StudentID uuid.UUID
	Status    string
	Remarks   *string
}

type BulkResult struct {
	Count   int
	Records []m.AttendanceModel
}

// MarkBulk menerapkan Mark per item. Item cacat (tanpa siswa / status tidak
// valid) dilewati, bukan menggagalkan seluruh batch — guru tetap bisa
// menyelesaikan absen sekelas. Sekuensial: payload boleh menyebut siswa yang
// sama dua kali dan urutan kedatangan harus menang.
func (s *LedgerService) MarkBulk(ctx context.Context, schoolID, classSectionID uuid.UUID, date time.Time, items []BulkItem, markedBy uuid.UUID) (*BulkResult, error) {
	res := &BulkResult{}
	for _, it := range items {
		rec, _, err := s.Mark(ctx, MarkInput{
			SchoolID:       schoolID,
			StudentID:      it.StudentID,
			ClassSectionID: classSectionID,
			Date:           date,
			Status:         it.Status,
			Remarks:        it.Remarks,
			MarkedBy:       markedBy,
		})
		if err != nil {
			if errors.Is(err, ErrMissingStudent) || errors.Is(err, ErrInvalidStatus) {
				log.Printf("[WARN] mark bulk: skip item student=%s status=%q: %v", it.StudentID, it.Status, err)
				continue
			}
			return nil, err
		}
		res.Records = append(res.Records, *rec)
		res.Count++
	}
	return res, nil
}

// Correct: semantik transisi sama dengan Mark, tapi addressing by record id.
// marked_by ditimpa aktor pengoreksi (last writer wins).
func (s *LedgerService) Correct(ctx context.Context, schoolID, recordID uuid.UUID, status string, remarks *string, correctedBy uuid.UUID) (*m.AttendanceModel, m.AttendanceStatus, error) {
	if !m.ValidAttendanceStatus(status) {
		return nil, "", ErrInvalidStatus
	}

	var rec m.AttendanceModel
	err := s.DB.WithContext(ctx).
		Where("attendance_id = ? AND attendance_school_id = ?", recordID, schoolID).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", ErrAttendanceNotFound
	}
	if err != nil {
		return nil, "", err
	}

	old := rec.AttendanceStatus
	rec.AttendanceStatus = m.AttendanceStatus(status)
	if remarks != nil {
		rec.AttendanceRemarks = remarks
	}
	rec.AttendanceMarkedBy = correctedBy
	if err := s.DB.WithContext(ctx).Save(&rec).Error; err != nil {
		return nil, "", err
	}

	s.fanOut(ctx, &rec, old)
	return &rec, old, nil
}

// fanOut: proyeksi kalender + evaluasi alert. Keduanya derived & rebuildable;
// kegagalan tidak membatalkan tulisan ledger yang sudah sukses.
func (s *LedgerService) fanOut(ctx context.Context, rec *m.AttendanceModel, old m.AttendanceStatus) {
	if err := s.Projector.Project(ctx, rec.AttendanceStudentID, rec.AttendanceSchoolID,
		rec.AttendanceDate, string(rec.AttendanceStatus)); err != nil {
		log.Printf("[ERROR] projector: student=%s day=%s status=%s->%s: %v",
			rec.AttendanceStudentID, dates.DayKey(rec.AttendanceDate), old, rec.AttendanceStatus, err)
	}
	if err := s.Notifier.OnTransition(ctx, alertSvc.Transition{
		StudentID:    rec.AttendanceStudentID,
		AttendanceID: rec.AttendanceID,
		SchoolID:     rec.AttendanceSchoolID,
		Old:          old,
		New:          rec.AttendanceStatus,
		Day:          rec.AttendanceDate,
	}); err != nil {
		log.Printf("[ERROR] notifier: student=%s day=%s status=%s->%s: %v",
			rec.AttendanceStudentID, dates.DayKey(rec.AttendanceDate), old, rec.AttendanceStatus, err)
	}
}

/* =========================
   Read path
   ========================= */

type RosterRow struct {
	StudentID   uuid.UUID          `json:"student_id"`
	StudentName string             `json:"student_name"`
	RollNumber  *string            `json:"roll_number,omitempty"`
	Attendance  *m.AttendanceModel `json:"attendance"` // nil = belum ditandai
}

// ListForSection: roster satu class section + status hari itu (nil kalau
// belum ditandai). Scoped ke sekolah caller — uuid section sekolah lain
// menghasilkan roster kosong, bukan data lintas tenant.
func (s *LedgerService) ListForSection(ctx context.Context, schoolID, classSectionID uuid.UUID, date time.Time) ([]RosterRow, error) {
	students, err := s.Directory.RosterForSection(ctx, schoolID, classSectionID)
	if err != nil {
		return nil, err
	}

	day := dates.Normalize(date)
	var records []m.AttendanceModel
	err = s.DB.WithContext(ctx).
		Where("attendance_school_id = ?", schoolID).
		Where("attendance_class_section_id = ? AND attendance_date = ?", classSectionID, day).
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	byStudent := make(map[uuid.UUID]*m.AttendanceModel, len(records))
	for i := range records {
		byStudent[records[i].AttendanceStudentID] = &records[i]
	}

	rows := make([]RosterRow, 0, len(students))
	for _, st := range students {
		rows = append(rows, RosterRow{
			StudentID:   st.StudentID,
			StudentName: st.StudentName,
			RollNumber:  st.StudentRollNumber,
			Attendance:  byStudent[st.StudentID],
		})
	}
	return rows, nil
}

type StudentTally struct {
	Present int `json:"present"`
	Absent  int `json:"absent"`
	Leave   int `json:"leave"`
}

type Stats struct {
	TotalDays int                         `json:"total_days"`
	Present   int                         `json:"present"`
	Absent    int                         `json:"absent"`
	Leave     int                         `json:"leave"`
	ByStudent map[uuid.UUID]*StudentTally `json:"by_student"`
}

// Stats: rekap rentang tanggal inklusif untuk satu class section, scoped ke
// sekolah caller.
func (s *LedgerService) Stats(ctx context.Context, schoolID, classSectionID uuid.UUID, from, to time.Time) (*Stats, error) {
	from = dates.Normalize(from)
	to = dates.Normalize(to)

	var records []m.AttendanceModel
	err := s.DB.WithContext(ctx).
		Where("attendance_school_id = ?", schoolID).
		Where("attendance_class_section_id = ?", classSectionID).
		Where("attendance_date >= ? AND attendance_date <= ?", from, to).
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	stats := &Stats{
		TotalDays: len(dates.Span(from, to)),
		ByStudent: make(map[uuid.UUID]*StudentTally),
	}
	for _, rec := range records {
		tally := stats.ByStudent[rec.AttendanceStudentID]
		if tally == nil {
			tally = &StudentTally{}
			stats.ByStudent[rec.AttendanceStudentID] = tally
		}
		switch rec.AttendanceStatus {
		case m.StatusPresent:
			stats.Present++
			tally.Present++
		case m.StatusAbsent:
			stats.Absent++
			tally.Absent++
		case m.StatusLeave:
			stats.Leave++
			tally.Leave++
		}
	}
	return stats, nil
}
