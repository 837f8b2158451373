// file: internals/features/school/calendar/service/calendar_store_test.go
package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	m "sekolahku_backend/internals/features/school/calendar/model"
	"sekolahku_backend/internals/testutil"
)

func bumpVersion(t *testing.T, db *gorm.DB, studentID uuid.UUID) {
	t.Helper()
	require.NoError(t, db.Model(&m.StudentCalendarModel{}).
		Where("student_calendar_student_id = ?", studentID).
		Update("student_calendar_version", gorm.Expr("student_calendar_version + 1")).Error)
}

func TestMutateCalendarRetriesWhenVersionMoves(t *testing.T) {
	db := testutil.OpenDB(t)
	schoolID := uuid.New()
	st := testutil.SeedStudent(t, db, schoolID)
	ctx := context.Background()

	// writer lain menang tepat di antara read dan save pertama kita:
	// version bergeser, save pertama kalah, loop harus re-read + reapply
	applies := 0
	err := mutateCalendar(ctx, db, st.StudentID, schoolID, func(set *m.EntrySet) {
		applies++
		set.UpsertAttendance("2026-03-05", "present")
		if applies == 1 {
			bumpVersion(t, db, st.StudentID)
		}
	})
	require.NoError(t, err)
	assert.Equal(t, 2, applies, "kalah sekali = satu kali reapply")

	var cal m.StudentCalendarModel
	require.NoError(t, db.Where("student_calendar_student_id = ?", st.StudentID).First(&cal).Error)
	set, err := m.DecodeEntries(cal.StudentCalendarEntries)
	require.NoError(t, err)
	assert.Equal(t, "present", set.AttendanceOn("2026-03-05"), "mutasi tetap mendarat setelah retry")
}

func TestMutateCalendarGivesUpAfterMaxRetries(t *testing.T) {
	db := testutil.OpenDB(t)
	schoolID := uuid.New()
	st := testutil.SeedStudent(t, db, schoolID)
	ctx := context.Background()

	applies := 0
	err := mutateCalendar(ctx, db, st.StudentID, schoolID, func(set *m.EntrySet) {
		applies++
		set.UpsertAttendance("2026-03-05", "present")
		bumpVersion(t, db, st.StudentID) // writer lain selalu menang
	})
	assert.ErrorIs(t, err, ErrCalendarConflict)
	assert.Equal(t, maxCalendarRetries, applies)
}

func TestMutateCalendarCreatesDocumentLazily(t *testing.T) {
	db := testutil.OpenDB(t)
	schoolID := uuid.New()
	st := testutil.SeedStudent(t, db, schoolID)

	var before int64
	require.NoError(t, db.Model(&m.StudentCalendarModel{}).Count(&before).Error)
	require.EqualValues(t, 0, before)

	err := mutateCalendar(context.Background(), db, st.StudentID, schoolID, func(set *m.EntrySet) {
		set.UpsertAttendance("2026-03-05", "leave")
	})
	require.NoError(t, err)

	var cal m.StudentCalendarModel
	require.NoError(t, db.Where("student_calendar_student_id = ?", st.StudentID).First(&cal).Error)
	assert.Equal(t, schoolID, cal.StudentCalendarSchoolID)
	assert.GreaterOrEqual(t, cal.StudentCalendarVersion, int64(2), "save pertama menaikkan version")
}
