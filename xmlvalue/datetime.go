package xmlvalue

import "fmt"

// DateTime is an xsd:dateTime value.
type DateTime struct {
	Date Date
	Time Time
}

// ParseDateTime parses "date'T'time", canonicalizing a "24:00:00" time
// component by rolling the date forward one day and zeroing the time,
// per spec.md section 4.2.
func ParseDateTime(s string) (DateTime, error) {
	sep := -1
	for i, c := range s {
		if c == 'T' {
			sep = i
			break
		}
	}
	if sep < 0 {
		return DateTime{}, fmt.Errorf("xmlvalue: invalid dateTime %q: missing 'T'", s)
	}
	datePart, timePart := s[:sep], s[sep+1:]

	// The date portion never carries its own timezone in a dateTime
	// literal; the timezone (if any) trails the time portion instead, so
	// ParseDate sees no timezone here and the one ParseTime finds is
	// applied to both parts below.
	d, err := ParseDate(datePart)
	if err != nil {
		return DateTime{}, fmt.Errorf("xmlvalue: invalid dateTime %q: %w", s, err)
	}
	t, err := ParseTime(timePart)
	if err != nil {
		return DateTime{}, fmt.Errorf("xmlvalue: invalid dateTime %q: %w", s, err)
	}

	rolled := len(timePart) >= 8 && timePart[:8] == "24:00:00"
	d.TZ, t.TZ = nil, t.TZ
	if rolled {
		d = d.addDays(1)
	}
	return DateTime{Date: Date{Year: d.Year, Month: d.Month, Day: d.Day, TZ: t.TZ}, Time: Time{
		Hour: t.Hour, Minute: t.Minute, Second: t.Second, Nanosecond: t.Nanosecond, TZ: t.TZ,
	}}, nil
}

// String renders the canonical lexical form.
func (dt DateTime) String() string {
	date := Date{Year: dt.Date.Year, Month: dt.Date.Month, Day: dt.Date.Day}
	time := Time{Hour: dt.Time.Hour, Minute: dt.Time.Minute, Second: dt.Time.Second, Nanosecond: dt.Time.Nanosecond}
	return date.String() + "T" + time.String() + formatTimeZone(dt.Time.TZ)
}

func (dt DateTime) absoluteNanos() int64 {
	offset := 0
	if dt.Time.TZ != nil {
		offset = *dt.Time.TZ
	}
	days := daysSinceEpoch(dt.Date.Year, dt.Date.Month, dt.Date.Day)
	nanos := days*24*3600*1e9 +
		int64(dt.Time.Hour)*3600e9 + int64(dt.Time.Minute)*60e9 +
		int64(dt.Time.Second)*1e9 + int64(dt.Time.Nanosecond)
	return nanos - int64(offset)*60e9
}

// Equal implements the mixed-timezone equality rule from spec.md
// section 4.2.
func (dt DateTime) Equal(other DateTime) bool {
	if (dt.Time.TZ == nil) != (other.Time.TZ == nil) {
		return false
	}
	if dt.Time.TZ == nil {
		return dt.Date.Year == other.Date.Year && dt.Date.Month == other.Date.Month &&
			dt.Date.Day == other.Date.Day &&
			dt.Time.Hour == other.Time.Hour && dt.Time.Minute == other.Time.Minute &&
			dt.Time.Second == other.Time.Second && dt.Time.Nanosecond == other.Time.Nanosecond
	}
	return dt.absoluteNanos() == other.absoluteNanos()
}
