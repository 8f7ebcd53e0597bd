package xmlvalue

import "fmt"

// Time is an xsd:time value: a time of day with an optional timezone
// offset in minutes east of UTC.
type Time struct {
	Hour, Minute, Second int
	Nanosecond           int
	TZ                   *int
}

// ParseTime parses the canonical lexical form "HH:MM:SS[.fff...]" with
// an optional trailing timezone. The lexical form "24:00:00" is
// accepted and canonicalized to "00:00:00", per spec.md section 4.2.
func ParseTime(s string) (Time, error) {
	if len(s) < 8 || s[2] != ':' || s[5] != ':' {
		return Time{}, fmt.Errorf("xmlvalue: invalid time %q", s)
	}
	hh, err := digits2(s[0:2])
	if err != nil {
		return Time{}, fmt.Errorf("xmlvalue: invalid time hour in %q: %w", s, err)
	}
	mm, err := digits2(s[3:5])
	if err != nil {
		return Time{}, fmt.Errorf("xmlvalue: invalid time minute in %q: %w", s, err)
	}
	ss, err := digits2(s[6:8])
	if err != nil {
		return Time{}, fmt.Errorf("xmlvalue: invalid time second in %q: %w", s, err)
	}
	rest := s[8:]
	nanos := 0
	if len(rest) > 0 && rest[0] == '.' {
		j := 1
		for j < len(rest) && rest[j] >= '0' && rest[j] <= '9' {
			j++
		}
		frac := rest[1:j]
		if frac == "" {
			return Time{}, fmt.Errorf("xmlvalue: invalid fractional second in %q", s)
		}
		for len(frac) < 9 {
			frac += "0"
		}
		for _, c := range frac[:9] {
			nanos = nanos*10 + int(c-'0')
		}
		rest = rest[j:]
	}
	if hh > 24 || mm > 59 || ss > 59 || (hh == 24 && (mm != 0 || ss != 0 || nanos != 0)) {
		return Time{}, fmt.Errorf("xmlvalue: time component out of range in %q", s)
	}
	tz, remainder, err := parseTimeZone(rest)
	if err != nil {
		return Time{}, err
	}
	if remainder != "" {
		return Time{}, fmt.Errorf("xmlvalue: trailing data in time %q", s)
	}
	if hh == 24 {
		hh = 0
	}
	return Time{Hour: hh, Minute: mm, Second: ss, Nanosecond: nanos, TZ: tz}, nil
}

// String renders the canonical lexical form.
func (t Time) String() string {
	s := fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
	if t.Nanosecond != 0 {
		frac := fmt.Sprintf("%09d", t.Nanosecond)
		for len(frac) > 0 && frac[len(frac)-1] == '0' {
			frac = frac[:len(frac)-1]
		}
		s += "." + frac
	}
	return s + formatTimeZone(t.TZ)
}

func (t Time) fields() (int, int, int, int) {
	return t.Hour, t.Minute, t.Second, t.Nanosecond
}

func (t Time) absoluteNanos() int64 {
	offset := 0
	if t.TZ != nil {
		offset = *t.TZ
	}
	total := int64(t.Hour)*3600e9 + int64(t.Minute)*60e9 + int64(t.Second)*1e9 + int64(t.Nanosecond)
	return total - int64(offset)*60e9
}

// Equal implements the mixed-timezone equality rule from spec.md
// section 4.2.
func (t Time) Equal(other Time) bool {
	if (t.TZ == nil) != (other.TZ == nil) {
		return false
	}
	if t.TZ == nil {
		return t.fields() == other.fields()
	}
	// Normalize modulo a day, since two times-of-day with different
	// offsets can wrap past midnight without changing which date they
	// belong to -- a bare Time carries no date to roll over into.
	const dayNanos = 24 * 3600 * 1e9
	a := ((t.absoluteNanos() % dayNanos) + dayNanos) % dayNanos
	b := ((other.absoluteNanos() % dayNanos) + dayNanos) % dayNanos
	return a == b
}
