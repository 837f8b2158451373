// file: internals/features/school/calendar/service/broadcaster_service_test.go
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
	studentModel "sekolahku_backend/internals/features/school/students/model"
	studentSvc "sekolahku_backend/internals/features/school/students/service"
	"sekolahku_backend/internals/helpers/dates"
	"sekolahku_backend/internals/testutil"
)

func eventDaysOf(t *testing.T, db *gorm.DB, studentID, eventID uuid.UUID) []string {
	t.Helper()
	return loadEntries(t, db, studentID).EventDays(eventID)
}

func TestBroadcastFansOutOneEntryPerDayPerStudent(t *testing.T) {
	db := testutil.OpenDB(t)
	schoolID := uuid.New()
	bc := NewBroadcaster(db)

	students := make([]*studentModel.StudentModel, 0, 5)
	for i := 0; i < 5; i++ {
		students = append(students, testutil.SeedStudent(t, db, schoolID))
	}

	ev := seedEvent(t, db, schoolID, "Libur Bersama", "holiday", "2026-03-05", "2026-03-07")
	require.NoError(t, bc.Broadcast(context.Background(), ev))

	for _, st := range students {
		days := eventDaysOf(t, db, st.StudentID, ev.SchoolCalendarEventID)
		assert.Equal(t, []string{"2026-03-05", "2026-03-06", "2026-03-07"}, days)
	}
}

func TestBroadcastIsIdempotent(t *testing.T) {
	db := testutil.OpenDB(t)
	schoolID := uuid.New()
	st := testutil.SeedStudent(t, db, schoolID)
	bc := NewBroadcaster(db)

	ev := seedEvent(t, db, schoolID, "Ujian", "exam", "2026-03-05", "2026-03-06")
	require.NoError(t, bc.Broadcast(context.Background(), ev))
	require.NoError(t, bc.Broadcast(context.Background(), ev))

	assert.Equal(t, 2, loadEntries(t, db, st.StudentID).Len())
}

func TestRebroadcastShrinkPrunesDroppedDays(t *testing.T) {
	db := testutil.OpenDB(t)
	schoolID := uuid.New()
	st := testutil.SeedStudent(t, db, schoolID)
	bc := NewBroadcaster(db)
	ctx := context.Background()

	ev := seedEvent(t, db, schoolID, "Libur", "holiday", "2026-03-05", "2026-03-07")
	require.NoError(t, bc.Broadcast(ctx, ev))

	// range menyusut 3 hari → 2 hari
	end, _ := dates.ParseDay("2026-03-06")
	ev.SchoolCalendarEventEndDate = end
	require.NoError(t, db.Save(ev).Error)
	require.NoError(t, bc.Broadcast(ctx, ev))

	days := eventDaysOf(t, db, st.StudentID, ev.SchoolCalendarEventID)
	assert.Equal(t, []string{"2026-03-05", "2026-03-06"}, days, "hari ketiga terpangkas")
}

func TestBroadcastScopeLimitsToListedClasses(t *testing.T) {
	db := testutil.OpenDB(t)
	schoolID := uuid.New()
	bc := NewBroadcaster(db)

	classA := uuid.New()
	classB := uuid.New()
	stA := testutil.SeedStudent(t, db, schoolID, func(s *studentModel.StudentModel) {
		s.StudentClassID = classA
	})
	stB := testutil.SeedStudent(t, db, schoolID, func(s *studentModel.StudentModel) {
		s.StudentClassID = classB
	})

	ev := seedEvent(t, db, schoolID, "PTM Kelas A", "ptm", "2026-03-05", "2026-03-05",
		func(ev *m.SchoolCalendarEventModel) {
			ev.SchoolCalendarEventAppliesToAllClasses = false
			ev.SchoolCalendarEventClassIDs = pq.StringArray{classA.String()}
		})
	require.NoError(t, bc.Broadcast(context.Background(), ev))

	assert.Len(t, eventDaysOf(t, db, stA.StudentID, ev.SchoolCalendarEventID), 1)

	// siswa kelas lain tidak pernah dapat dokumen kalender
	var n int64
	require.NoError(t, db.Model(&m.StudentCalendarModel{}).
		Where("student_calendar_student_id = ?", stB.StudentID).
		Count(&n).Error)
	assert.EqualValues(t, 0, n)
}

func TestBroadcastSkipsInactiveStudents(t *testing.T) {
	db := testutil.OpenDB(t)
	schoolID := uuid.New()
	bc := NewBroadcaster(db)

	testutil.SeedStudent(t, db, schoolID, func(s *studentModel.StudentModel) {
		s.StudentStatus = studentModel.StudentInactive
	})
	active := testutil.SeedStudent(t, db, schoolID)

	ev := seedEvent(t, db, schoolID, "Libur", "holiday", "2026-03-05", "2026-03-05")
	require.NoError(t, bc.Broadcast(context.Background(), ev))

	var n int64
	require.NoError(t, db.Model(&m.StudentCalendarModel{}).Count(&n).Error)
	assert.EqualValues(t, 1, n)
	assert.Len(t, eventDaysOf(t, db, active.StudentID, ev.SchoolCalendarEventID), 1)
}

func TestBroadcastEmptyScopeTouchesNobody(t *testing.T) {
	db := testutil.OpenDB(t)
	schoolID := uuid.New()
	bc := NewBroadcaster(db)
	testutil.SeedStudent(t, db, schoolID)

	ev := seedEvent(t, db, schoolID, "Tanpa Kelas", "event", "2026-03-05", "2026-03-05",
		func(ev *m.SchoolCalendarEventModel) {
			ev.SchoolCalendarEventAppliesToAllClasses = false
			ev.SchoolCalendarEventClassIDs = nil
		})
	require.NoError(t, bc.Broadcast(context.Background(), ev))

	var n int64
	require.NoError(t, db.Model(&m.StudentCalendarModel{}).Count(&n).Error)
	assert.EqualValues(t, 0, n)
}

func TestRemoveEventStripsOnlyThatEvent(t *testing.T) {
	db := testutil.OpenDB(t)
	schoolID := uuid.New()
	bc := NewBroadcaster(db)
	proj := NewProjector(db, studentSvc.NewDirectory(db))
	ctx := context.Background()

	students := make([]*studentModel.StudentModel, 0, 5)
	for i := 0; i < 5; i++ {
		students = append(students, testutil.SeedStudent(t, db, schoolID))
	}

	target := seedEvent(t, db, schoolID, "Libur", "holiday", "2026-03-05", "2026-03-07")
	other := seedEvent(t, db, schoolID, "Ujian", "exam", "2026-03-06", "2026-03-06")
	require.NoError(t, bc.Broadcast(ctx, target))
	require.NoError(t, bc.Broadcast(ctx, other))

	day, _ := dates.ParseDay("2026-03-05")
	require.NoError(t, proj.Project(ctx, students[0].StudentID, schoolID, day, "present"))

	require.NoError(t, bc.RemoveEvent(ctx, target))

	for _, st := range students {
		set := loadEntries(t, db, st.StudentID)
		assert.Empty(t, set.EventDays(target.SchoolCalendarEventID))
		assert.Len(t, set.EventDays(other.SchoolCalendarEventID), 1, "event lain utuh")
	}
	assert.Equal(t, "present",
		loadEntries(t, db, students[0].StudentID).AttendanceOn("2026-03-05"),
		"entry attendance tidak tersentuh")
}
