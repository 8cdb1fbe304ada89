package domain

import "time"

// The audit day rolls over at 04:00 property-local time, not midnight: a
// run at 03:59 still belongs to the previous calendar day, a run at 04:01
// to the current one.
const cutoverHour = 4

// NowInOffset re-expresses an instant as if local time were UTC+offset by
// shifting the epoch value. Deliberately DST-naive: properties configure a
// fixed whole-hour offset.
func NowInOffset(ref time.Time, offsetHours int) time.Time {
	return ref.UTC().Add(time.Duration(offsetHours) * time.Hour)
}

// BusinessDay returns midnight (UTC-encoded) of the business day the
// reference instant falls in, under the configured offset.
func BusinessDay(ref time.Time, offsetHours int) time.Time {
	local := NowInOffset(ref, offsetHours)
	if local.Hour() < cutoverHour {
		local = local.AddDate(0, 0, -1)
	}
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}

// BusinessDayKey formats a business day as YYYY-MM-DD. This string keys the
// run log, the snapshot, and issue de-duplication, so it must be stable.
func BusinessDayKey(day time.Time) string {
	return day.Format("2006-01-02")
}
