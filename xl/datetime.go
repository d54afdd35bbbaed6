package xl

import (
	"fmt"
	"time"
)

var (
	epoch1900 = time.Date(1899, time.December, 31, 0, 0, 0, 0, time.UTC)
	epoch1904 = time.Date(1904, time.January, 1, 0, 0, 0, 0, time.UTC)
	leapBug   = time.Date(1900, time.March, 1, 0, 0, 0, 0, time.UTC)
)

// excelTime converts t (its wall clock, ignoring the zone) into an Excel
// serial date. The 1900 system keeps Excel's phantom 1900-02-29, so dates
// from March 1900 on are offset by one day.
func excelTime(t time.Time, date1904 bool) (float64, error) {
	wall := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
	epoch := epoch1900
	if date1904 {
		epoch = epoch1904
	}
	if wall.Before(epoch) || wall.Year() > 9999 {
		return 0, fmt.Errorf("%w: date %s outside the Excel range", ErrInvalidParameter, t.Format(time.RFC3339))
	}
	d := wall.Sub(epoch)
	days := float64(d/(24*time.Hour)) + float64(d%(24*time.Hour))/float64(24*time.Hour)
	if !date1904 && !wall.Before(leapBug) {
		days++
	}
	return days, nil
}

// excelTimeOfDay converts a duration since midnight into a fraction of a day.
func excelTimeOfDay(d time.Duration) float64 {
	return float64(d) / float64(24*time.Hour)
}
