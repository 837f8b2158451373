// file: internals/features/school/calendar/model/calendar_entry_test.go
package model

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpsertAttendanceIsIdempotent(t *testing.T) {
	set := NewEntrySet()

	set.UpsertAttendance("2026-03-05", "present")
	set.UpsertAttendance("2026-03-05", "present")
	assert.Equal(t, 1, set.Len())

	// ganti status = replace, bukan tambah
	set.UpsertAttendance("2026-03-05", "absent")
	assert.Equal(t, 1, set.Len())
	assert.Equal(t, "absent", set.AttendanceOn("2026-03-05"))
}

func TestEventAndAttendanceCoexistOnSameDay(t *testing.T) {
	set := NewEntrySet()
	evID := uuid.New()

	set.UpsertAttendance("2026-03-05", "present")
	set.UpsertEvent("2026-03-05", evID, "Ujian Tengah Semester", "exam")
	assert.Equal(t, 2, set.Len())

	set.UpsertEvent("2026-03-05", evID, "Ujian Tengah Semester", "exam")
	assert.Equal(t, 2, set.Len(), "event upsert ulang tidak menduplikasi")
}

func TestRemoveEventLeavesOtherEntries(t *testing.T) {
	set := NewEntrySet()
	target := uuid.New()
	other := uuid.New()

	set.UpsertAttendance("2026-03-05", "present")
	set.UpsertEvent("2026-03-05", target, "Libur", "holiday")
	set.UpsertEvent("2026-03-06", target, "Libur", "holiday")
	set.UpsertEvent("2026-03-05", other, "PTM", "ptm")

	assert.Equal(t, 2, set.RemoveEvent(target))
	assert.Equal(t, 2, set.Len())
	assert.Equal(t, "present", set.AttendanceOn("2026-03-05"))
	assert.Equal(t, []string{"2026-03-05"}, set.EventDays(other))
}

func TestPruneEventOutside(t *testing.T) {
	set := NewEntrySet()
	evID := uuid.New()
	for _, day := range []string{"2026-03-05", "2026-03-06", "2026-03-07"} {
		set.UpsertEvent(day, evID, "Libur", "holiday")
	}

	keep := map[string]bool{"2026-03-05": true, "2026-03-06": true}
	assert.Equal(t, 1, set.PruneEventOutside(evID, keep))
	assert.Equal(t, []string{"2026-03-05", "2026-03-06"}, set.EventDays(evID))
}

func TestEncodeDecodeRoundTripSorted(t *testing.T) {
	set := NewEntrySet()
	evID := uuid.New()
	set.UpsertEvent("2026-03-07", evID, "Libur", "holiday")
	set.UpsertAttendance("2026-03-05", "present")
	set.UpsertAttendance("2026-03-06", "leave")

	raw, err := set.Encode()
	require.NoError(t, err)

	decoded, err := DecodeEntries(raw)
	require.NoError(t, err)
	entries := decoded.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, "2026-03-05", entries[0].Date)
	assert.Equal(t, "2026-03-07", entries[2].Date)
	assert.Equal(t, "leave", decoded.AttendanceOn("2026-03-06"))
}

func TestDecodeCollapsesLegacyDuplicates(t *testing.T) {
	raw := []byte(`[
		{"date":"2026-03-05","kind":"attendance","attendance_status":"present"},
		{"date":"2026-03-05","kind":"attendance","attendance_status":"absent"}
	]`)
	set, err := DecodeEntries(raw)
	require.NoError(t, err)
	assert.Equal(t, 1, set.Len())
	assert.Equal(t, "absent", set.AttendanceOn("2026-03-05"), "entry terakhir menang")
}

func TestInRangeInclusive(t *testing.T) {
	set := NewEntrySet()
	for _, day := range []string{"2026-03-04", "2026-03-05", "2026-03-06", "2026-03-07"} {
		set.UpsertAttendance(day, "present")
	}
	got := set.InRange("2026-03-05", "2026-03-06")
	require.Len(t, got, 2)
	assert.Equal(t, "2026-03-05", got[0].Date)
	assert.Equal(t, "2026-03-06", got[1].Date)
}
