// file: internals/helpers/dates/dates.go
package dates

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"
)

// Semua perbandingan tanggal di attendance & kalender lewat paket ini.
// Satu hari sekolah = satu calendar day di timezone sekolah, jam dibuang.

const DayLayout = "2006-01-02"

const DefaultTimezone = "Asia/Jakarta"

var loc atomic.Pointer[time.Location]

func init() {
	l, err := time.LoadLocation(DefaultTimezone)
	if err != nil {
		l = time.UTC
	}
	loc.Store(l)
}

// Location returns the school timezone used for every day calculation.
func Location() *time.Location {
	return loc.Load()
}

// SetLocation overrides the school timezone (called once from configs at boot).
func SetLocation(l *time.Location) {
	if l != nil {
		loc.Store(l)
	}
}

// SetTimezone is SetLocation by IANA name; unknown names are ignored.
func SetTimezone(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	l, err := time.LoadLocation(name)
	if err != nil {
		return fmt.Errorf("dates: unknown timezone %q: %w", name, err)
	}
	loc.Store(l)
	return nil
}

// Normalize membuang jam/menit/detik: kembalikan local midnight dari
// calendar day yang dimaksud t (di timezone sekolah, bukan UTC).
func Normalize(t time.Time) time.Time {
	lt := t.In(Location())
	return time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, Location())
}

// DayKey renders t's calendar day as a sortable YYYY-MM-DD string. Entries
// produced by different code paths may carry residual time-of-day; comparing
// via DayKey never false-mismatches.
func DayKey(t time.Time) string {
	return t.In(Location()).Format(DayLayout)
}

// ParseDay parses a YYYY-MM-DD string into local midnight.
func ParseDay(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DayLayout, strings.TrimSpace(s), Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("dates: invalid day %q (want YYYY-MM-DD)", s)
	}
	return t, nil
}

// SameDay reports whether a and b fall on the same school calendar day.
func SameDay(a, b time.Time) bool {
	return DayKey(a) == DayKey(b)
}

// Span walks the inclusive day range [start, end], normalized. Empty when
// end is before start.
func Span(start, end time.Time) []time.Time {
	from := Normalize(start)
	to := Normalize(end)
	if to.Before(from) {
		return nil
	}
	var days []time.Time
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// Human renders the day for parent-facing messages, e.g. "05 Mar 2026".
func Human(t time.Time) string {
	return t.In(Location()).Format("02 Jan 2006")
}
