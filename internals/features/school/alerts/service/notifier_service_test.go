// file: internals/features/school/alerts/service/notifier_service_test.go
package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	m "sekolahku_backend/internals/features/school/alerts/model"
	attModel "sekolahku_backend/internals/features/school/attendance/model"
	studentModel "sekolahku_backend/internals/features/school/students/model"
	studentSvc "sekolahku_backend/internals/features/school/students/service"
	"sekolahku_backend/internals/helpers/dates"
	"sekolahku_backend/internals/testutil"
)

func newNotifier(db *gorm.DB) *NotifierService {
	return NewNotifier(db, studentSvc.NewDirectory(db))
}

func alertsFor(t *testing.T, db *gorm.DB, attendanceID uuid.UUID) []m.ParentAlertModel {
	t.Helper()
	var rows []m.ParentAlertModel
	require.NoError(t, db.Where("parent_alert_attendance_id = ?", attendanceID).Find(&rows).Error)
	return rows
}

func mustDay(t *testing.T, s string) time.Time {
	t.Helper()
	day, err := dates.ParseDay(s)
	require.NoError(t, err)
	return day
}

func TestEnterAbsentCreatesAlert(t *testing.T) {
	db := testutil.OpenDB(t)
	schoolID := uuid.New()
	st := testutil.SeedStudent(t, db, schoolID)
	notif := newNotifier(db)
	attendanceID := uuid.New()

	err := notif.OnTransition(context.Background(), Transition{
		StudentID:    st.StudentID,
		AttendanceID: attendanceID,
		SchoolID:     schoolID,
		Old:          "",
		New:          attModel.StatusAbsent,
		Day:          mustDay(t, "2026-03-05"),
	})
	require.NoError(t, err)

	rows := alertsFor(t, db, attendanceID)
	require.Len(t, rows, 1)
	alert := rows[0]
	assert.Equal(t, m.AlertTypeAbsence, alert.ParentAlertType)
	assert.Equal(t, m.AlertUnread, alert.ParentAlertStatus)
	assert.Equal(t, *st.StudentParentUserID, alert.ParentAlertParentUserID)
	assert.Equal(t, "Siswa Uji was marked absent on 05 Mar 2026", alert.ParentAlertMessage)
}

func TestRepeatAbsentDoesNotDuplicate(t *testing.T) {
	db := testutil.OpenDB(t)
	schoolID := uuid.New()
	st := testutil.SeedStudent(t, db, schoolID)
	notif := newNotifier(db)
	attendanceID := uuid.New()
	ctx := context.Background()

	first := Transition{
		StudentID: st.StudentID, AttendanceID: attendanceID, SchoolID: schoolID,
		Old: "", New: attModel.StatusAbsent, Day: mustDay(t, "2026-03-05"),
	}
	require.NoError(t, notif.OnTransition(ctx, first))

	// koreksi absent → absent (self-loop)
	again := first
	again.Old = attModel.StatusAbsent
	require.NoError(t, notif.OnTransition(ctx, again))

	assert.Len(t, alertsFor(t, db, attendanceID), 1)
}

func TestLeaveAbsentRetractsAlert(t *testing.T) {
	db := testutil.OpenDB(t)
	schoolID := uuid.New()
	st := testutil.SeedStudent(t, db, schoolID)
	notif := newNotifier(db)
	attendanceID := uuid.New()
	ctx := context.Background()
	day := mustDay(t, "2026-03-05")

	require.NoError(t, notif.OnTransition(ctx, Transition{
		StudentID: st.StudentID, AttendanceID: attendanceID, SchoolID: schoolID,
		Old: "", New: attModel.StatusAbsent, Day: day,
	}))
	require.Len(t, alertsFor(t, db, attendanceID), 1)

	require.NoError(t, notif.OnTransition(ctx, Transition{
		StudentID: st.StudentID, AttendanceID: attendanceID, SchoolID: schoolID,
		Old: attModel.StatusAbsent, New: attModel.StatusPresent, Day: day,
	}))
	assert.Empty(t, alertsFor(t, db, attendanceID), "alert dicabut saat keluar absent")
}

func TestNonAbsentTransitionsAreNoOps(t *testing.T) {
	db := testutil.OpenDB(t)
	schoolID := uuid.New()
	st := testutil.SeedStudent(t, db, schoolID)
	notif := newNotifier(db)
	ctx := context.Background()
	day := mustDay(t, "2026-03-05")

	cases := []struct {
		name     string
		old, new attModel.AttendanceStatus
	}{
		{"mark pertama present", "", attModel.StatusPresent},
		{"mark pertama leave", "", attModel.StatusLeave},
		{"present ke leave", attModel.StatusPresent, attModel.StatusLeave},
		{"leave ke present", attModel.StatusLeave, attModel.StatusPresent},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			attendanceID := uuid.New()
			require.NoError(t, notif.OnTransition(ctx, Transition{
				StudentID: st.StudentID, AttendanceID: attendanceID, SchoolID: schoolID,
				Old: tc.old, New: tc.new, Day: day,
			}))
			assert.Empty(t, alertsFor(t, db, attendanceID))
		})
	}
}

func TestStudentWithoutParentIsSkippedSilently(t *testing.T) {
	db := testutil.OpenDB(t)
	schoolID := uuid.New()
	st := testutil.SeedStudent(t, db, schoolID, func(s *studentModel.StudentModel) {
		s.StudentParentUserID = nil
	})
	notif := newNotifier(db)
	attendanceID := uuid.New()

	err := notif.OnTransition(context.Background(), Transition{
		StudentID: st.StudentID, AttendanceID: attendanceID, SchoolID: schoolID,
		Old: "", New: attModel.StatusAbsent, Day: mustDay(t, "2026-03-05"),
	})
	require.NoError(t, err, "tanpa orang tua bukan error")
	assert.Empty(t, alertsFor(t, db, attendanceID))
}

func TestUnknownStudentIsAnError(t *testing.T) {
	db := testutil.OpenDB(t)
	notif := newNotifier(db)

	err := notif.OnTransition(context.Background(), Transition{
		StudentID: uuid.New(), AttendanceID: uuid.New(), SchoolID: uuid.New(),
		Old: "", New: attModel.StatusAbsent, Day: mustDay(t, "2026-03-05"),
	})
	assert.ErrorIs(t, err, studentSvc.ErrStudentNotFound)
}
