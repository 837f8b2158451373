// file: internals/features/school/calendar/model/calendar_entry.go
package model

import (
	"encoding/json"
	"sort"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type EntryKind string

const (
	EntryKindAttendance  EntryKind = "attendance"
	EntryKindSchoolEvent EntryKind = "school_event"
)

// CalendarEntry adalah satu baris di kalender siswa (bentuk persist = JSONB).
// Tanggal disimpan sebagai day key (YYYY-MM-DD) supaya perbandingan antar
// code path tidak pernah meleset gara-gara sisa jam/offset.
type CalendarEntry struct {
	Date string    `json:"date"`
	Kind EntryKind `json:"kind"`

	// kind = attendance
	AttendanceStatus string `json:"attendance_status,omitempty"`

	// kind = school_event
	EventID    *uuid.UUID `json:"event_id,omitempty"`
	EventTitle string     `json:"event_title,omitempty"`
	EventType  string     `json:"event_type,omitempty"`
}

func (e CalendarEntry) key() string {
	k := string(e.Kind) + "|" + e.Date
	if e.EventID != nil {
		k += "|" + e.EventID.String()
	}
	return k
}

// EntrySet: index in-memory atas entries, key (kind, dayKey, eventId).
// Upsert jadi O(1) dan duplikat tidak mungkin secara struktural —
// pengganti pola scan-and-match array lama.
type EntrySet struct {
	byKey map[string]CalendarEntry
}

func NewEntrySet() *EntrySet {
	return &EntrySet{byKey: make(map[string]CalendarEntry)}
}

// DecodeEntries membangun index dari kolom JSONB. Entry duplikat (warisan
// data lama) otomatis collapse ke satu.
func DecodeEntries(raw datatypes.JSON) (*EntrySet, error) {
	set := NewEntrySet()
	if len(raw) == 0 {
		return set, nil
	}
	var list []CalendarEntry
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, err
	}
	for _, e := range list {
		set.byKey[e.key()] = e
	}
	return set, nil
}

// Encode merender kembali ke JSONB, urut (date, kind, title) supaya stabil.
func (s *EntrySet) Encode() (datatypes.JSON, error) {
	list := s.Entries()
	b, err := json.Marshal(list)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}

// Entries mengembalikan seluruh entry urut tanggal naik.
func (s *EntrySet) Entries() []CalendarEntry {
	list := make([]CalendarEntry, 0, len(s.byKey))
	for _, e := range s.byKey {
		list = append(list, e)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Date != list[j].Date {
			return list[i].Date < list[j].Date
		}
		if list[i].Kind != list[j].Kind {
			return list[i].Kind < list[j].Kind
		}
		return list[i].EventTitle < list[j].EventTitle
	})
	return list
}

// InRange: entry dengan fromKey <= date <= toKey, urut tanggal naik.
func (s *EntrySet) InRange(fromKey, toKey string) []CalendarEntry {
	var out []CalendarEntry
	for _, e := range s.Entries() {
		if e.Date >= fromKey && e.Date <= toKey {
			out = append(out, e)
		}
	}
	return out
}

// UpsertAttendance: paling banyak satu entry attendance per hari.
func (s *EntrySet) UpsertAttendance(dayKey, status string) {
	e := CalendarEntry{Date: dayKey, Kind: EntryKindAttendance, AttendanceStatus: status}
	s.byKey[e.key()] = e
}

// AttendanceOn mengembalikan status attendance pada hari itu ("" kalau kosong).
func (s *EntrySet) AttendanceOn(dayKey string) string {
	e, ok := s.byKey[CalendarEntry{Date: dayKey, Kind: EntryKindAttendance}.key()]
	if !ok {
		return ""
	}
	return e.AttendanceStatus
}

// UpsertEvent: satu entry per (hari, event); event multi-hari berarti satu
// entry per hari dengan event id sama.
func (s *EntrySet) UpsertEvent(dayKey string, eventID uuid.UUID, title, eventType string) {
	id := eventID
	e := CalendarEntry{
		Date:       dayKey,
		Kind:       EntryKindSchoolEvent,
		EventID:    &id,
		EventTitle: title,
		EventType:  eventType,
	}
	s.byKey[e.key()] = e
}

// RemoveEvent menghapus semua entry milik satu event. Return jumlah terhapus.
func (s *EntrySet) RemoveEvent(eventID uuid.UUID) int {
	n := 0
	for k, e := range s.byKey {
		if e.Kind == EntryKindSchoolEvent && e.EventID != nil && *e.EventID == eventID {
			delete(s.byKey, k)
			n++
		}
	}
	return n
}

// PruneEventOutside membuang entry event yang harinya di luar keep
// (rekonsiliasi saat range event menyusut). Return jumlah terhapus.
func (s *EntrySet) PruneEventOutside(eventID uuid.UUID, keep map[string]bool) int {
	n := 0
	for k, e := range s.byKey {
		if e.Kind == EntryKindSchoolEvent && e.EventID != nil && *e.EventID == eventID && !keep[e.Date] {
			delete(s.byKey, k)
			n++
		}
	}
	return n
}

// EventDays: day key semua entry milik event (untuk assert/verify).
func (s *EntrySet) EventDays(eventID uuid.UUID) []string {
	var days []string
	for _, e := range s.Entries() {
		if e.Kind == EntryKindSchoolEvent && e.EventID != nil && *e.EventID == eventID {
			days = append(days, e.Date)
		}
	}
	return days
}

func (s *EntrySet) Len() int { return len(s.byKey) }
