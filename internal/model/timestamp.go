package model

import (
	"fmt"
	"strings"
	"time"
)

// DueLayout is the format used when the client writes a due date
const DueLayout = "2006-01-02T15:04:05"

// DefaultDueHour is applied to due dates that carry only a day
const DefaultDueHour = 9

// Timestamp is a point in time as the API sends it. It is kept raw so a
// single bad value cannot fail decoding of the whole task list.
type Timestamp string

type timestampLayout struct {
	layout   string
	dateOnly bool
	zoned    bool
}

var timestampLayouts = []timestampLayout{
	{layout: time.RFC3339Nano, zoned: true},
	{layout: time.RFC3339, zoned: true},
	{layout: "2006-01-02T15:04:05.999999999"},
	{layout: "2006-01-02T15:04:05"},
	{layout: "2006-01-02T15:04"},
	{layout: "2006-01-02 15:04:05.999999999"},
	{layout: "2006-01-02 15:04:05"},
	{layout: "2006-01-02 15:04"},
	{layout: "2006-01-02", dateOnly: true},
}

// IsZero returns true if no timestamp was sent
func (ts Timestamp) IsZero() bool {
	return strings.TrimSpace(string(ts)) == ""
}

// Parse normalizes the timestamp to a full date-time in loc. A bare date
// becomes 09:00 and a value without seconds gets :00.
func (ts Timestamp) Parse(loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	raw := strings.TrimSpace(string(ts))
	if raw == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}

	for _, l := range timestampLayouts {
		var (
			t   time.Time
			err error
		)
		if l.zoned {
			t, err = time.Parse(l.layout, raw)
		} else {
			t, err = time.ParseInLocation(l.layout, raw, loc)
		}
		if err != nil {
			continue
		}
		if l.dateOnly {
			t = time.Date(t.Year(), t.Month(), t.Day(), DefaultDueHour, 0, 0, 0, loc)
		}
		return t, nil
	}

	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", raw)
}

// FormatDue renders t the way the client sends due dates
func FormatDue(t time.Time) string {
	return t.Format(DueLayout)
}
