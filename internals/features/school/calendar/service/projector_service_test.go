// file: internals/features/school/calendar/service/projector_service_test.go
package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	m "sekolahku_backend/internals/features/school/calendar/model"
	studentSvc "sekolahku_backend/internals/features/school/students/service"
	"sekolahku_backend/internals/helpers/dates"
	"sekolahku_backend/internals/testutil"
)

func loadEntries(t *testing.T, db *gorm.DB, studentID uuid.UUID) *m.EntrySet {
	t.Helper()
	var cal m.StudentCalendarModel
	require.NoError(t, db.Where("student_calendar_student_id = ?", studentID).First(&cal).Error)
	set, err := m.DecodeEntries(cal.StudentCalendarEntries)
	require.NoError(t, err)
	return set
}

func seedEvent(t *testing.T, db *gorm.DB, schoolID uuid.UUID, title, evType, from, to string, mutate ...func(*m.SchoolCalendarEventModel)) *m.SchoolCalendarEventModel {
	t.Helper()
	start, err := dates.ParseDay(from)
	require.NoError(t, err)
	end, err := dates.ParseDay(to)
	require.NoError(t, err)
	ev := &m.SchoolCalendarEventModel{
		SchoolCalendarEventSchoolID:            schoolID,
		SchoolCalendarEventTitle:               title,
		SchoolCalendarEventType:                m.SchoolEventType(evType),
		SchoolCalendarEventStartDate:           start,
		SchoolCalendarEventEndDate:             end,
		SchoolCalendarEventAppliesToAllClasses: true,
		SchoolCalendarEventCreatedBy:           uuid.New(),
		SchoolCalendarEventIsActive:            true,
	}
	for _, fn := range mutate {
		fn(ev)
	}
	require.NoError(t, db.Create(ev).Error)
	return ev
}

func TestProjectIsIdempotent(t *testing.T) {
	db := testutil.OpenDB(t)
	schoolID := uuid.New()
	st := testutil.SeedStudent(t, db, schoolID)
	proj := NewProjector(db, studentSvc.NewDirectory(db))
	ctx := context.Background()
	day, _ := dates.ParseDay("2026-03-05")

	require.NoError(t, proj.Project(ctx, st.StudentID, schoolID, day, "present"))
	require.NoError(t, proj.Project(ctx, st.StudentID, schoolID, day, "present"))

	set := loadEntries(t, db, st.StudentID)
	assert.Equal(t, 1, set.Len())
	assert.Equal(t, "present", set.AttendanceOn("2026-03-05"))
}

func TestProjectReplacesStatusInPlace(t *testing.T) {
	db := testutil.OpenDB(t)
	schoolID := uuid.New()
	st := testutil.SeedStudent(t, db, schoolID)
	proj := NewProjector(db, studentSvc.NewDirectory(db))
	ctx := context.Background()
	day, _ := dates.ParseDay("2026-03-05")

	require.NoError(t, proj.Project(ctx, st.StudentID, schoolID, day, "present"))
	require.NoError(t, proj.Project(ctx, st.StudentID, schoolID, day, "absent"))

	set := loadEntries(t, db, st.StudentID)
	assert.Equal(t, 1, set.Len(), "ganti status tidak menambah entry")
	assert.Equal(t, "absent", set.AttendanceOn("2026-03-05"))
}

func TestProjectBumpsVersion(t *testing.T) {
	db := testutil.OpenDB(t)
	schoolID := uuid.New()
	st := testutil.SeedStudent(t, db, schoolID)
	proj := NewProjector(db, studentSvc.NewDirectory(db))
	ctx := context.Background()
	day, _ := dates.ParseDay("2026-03-05")

	require.NoError(t, proj.Project(ctx, st.StudentID, schoolID, day, "present"))
	var cal m.StudentCalendarModel
	require.NoError(t, db.Where("student_calendar_student_id = ?", st.StudentID).First(&cal).Error)
	v1 := cal.StudentCalendarVersion

	require.NoError(t, proj.Project(ctx, st.StudentID, schoolID, day, "absent"))
	require.NoError(t, db.Where("student_calendar_student_id = ?", st.StudentID).First(&cal).Error)
	assert.Greater(t, cal.StudentCalendarVersion, v1)
}

func TestGetStudentCalendarLazySyncsEvents(t *testing.T) {
	db := testutil.OpenDB(t)
	schoolID := uuid.New()
	st := testutil.SeedStudent(t, db, schoolID)
	dir := studentSvc.NewDirectory(db)
	proj := NewProjector(db, dir)
	ctx := context.Background()

	// event dibuat tanpa broadcast — read path yang menyinkronkan
	ev := seedEvent(t, db, schoolID, "Libur Sekolah", "holiday", "2026-03-05", "2026-03-06")

	day, _ := dates.ParseDay("2026-03-05")
	require.NoError(t, proj.Project(ctx, st.StudentID, schoolID, day, "present"))

	from, _ := dates.ParseDay("2026-03-01")
	to, _ := dates.ParseDay("2026-03-31")
	entries, err := proj.GetStudentCalendar(ctx, st.StudentID, from, to)
	require.NoError(t, err)

	// 1 attendance + 2 hari event
	require.Len(t, entries, 3)
	set := loadEntries(t, db, st.StudentID)
	assert.Equal(t, []string{"2026-03-05", "2026-03-06"}, set.EventDays(ev.SchoolCalendarEventID))

	// idempotent: baca ulang tidak menduplikasi
	entries, err = proj.GetStudentCalendar(ctx, st.StudentID, from, to)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestGetStudentCalendarClampsEventToRange(t *testing.T) {
	db := testutil.OpenDB(t)
	schoolID := uuid.New()
	st := testutil.SeedStudent(t, db, schoolID)
	proj := NewProjector(db, studentSvc.NewDirectory(db))
	ctx := context.Background()

	ev := seedEvent(t, db, schoolID, "Ujian", "exam", "2026-03-01", "2026-03-10")

	from, _ := dates.ParseDay("2026-03-05")
	to, _ := dates.ParseDay("2026-03-06")
	entries, err := proj.GetStudentCalendar(ctx, st.StudentID, from, to)
	require.NoError(t, err)

	require.Len(t, entries, 2)
	for _, e := range entries {
		assert.Equal(t, m.EntryKindSchoolEvent, e.Kind)
		require.NotNil(t, e.EventID)
		assert.Equal(t, ev.SchoolCalendarEventID, *e.EventID)
	}
}

func TestGetStudentCalendarHonorsClassScope(t *testing.T) {
	db := testutil.OpenDB(t)
	schoolID := uuid.New()
	st := testutil.SeedStudent(t, db, schoolID)
	proj := NewProjector(db, studentSvc.NewDirectory(db))
	ctx := context.Background()

	otherClass := uuid.New()
	seedEvent(t, db, schoolID, "PTM Kelas Lain", "ptm", "2026-03-05", "2026-03-05",
		func(ev *m.SchoolCalendarEventModel) {
			ev.SchoolCalendarEventAppliesToAllClasses = false
			ev.SchoolCalendarEventClassIDs = pq.StringArray{otherClass.String()}
		})
	seedEvent(t, db, schoolID, "PTM Kelas Siswa", "ptm", "2026-03-05", "2026-03-05",
		func(ev *m.SchoolCalendarEventModel) {
			ev.SchoolCalendarEventAppliesToAllClasses = false
			ev.SchoolCalendarEventClassIDs = pq.StringArray{st.StudentClassID.String()}
		})

	from, _ := dates.ParseDay("2026-03-01")
	to, _ := dates.ParseDay("2026-03-31")
	entries, err := proj.GetStudentCalendar(ctx, st.StudentID, from, to)
	require.NoError(t, err)

	require.Len(t, entries, 1)
	assert.Equal(t, "PTM Kelas Siswa", entries[0].EventTitle)
}

func TestGetStudentCalendarUnknownStudent(t *testing.T) {
	db := testutil.OpenDB(t)
	proj := NewProjector(db, studentSvc.NewDirectory(db))

	from, _ := dates.ParseDay("2026-03-01")
	to, _ := dates.ParseDay("2026-03-31")
	_, err := proj.GetStudentCalendar(context.Background(), uuid.New(), from, to)
	assert.ErrorIs(t, err, studentSvc.ErrStudentNotFound)
}
