package xmlvalue

import (
	"fmt"
	"strings"
)

// Duration is an xsd:duration value, normalized into a signed month
// count and a signed (seconds, nanoseconds) count. XSD duration
// arithmetic keeps months and seconds separate, since "one month" has no
// fixed number of days.
type Duration struct {
	Negative    bool
	Months      int64 // always >= 0; sign lives in Negative
	Seconds     int64 // always >= 0
	Nanoseconds int32 // always >= 0, < 1e9
}

// parsedDuration is the common parse result shared by Duration,
// YearMonthDuration, and DayTimeDuration, following the structure of
// original_source's parse_duration_str.
type parsedDuration struct {
	negative    bool
	months      int64
	seconds     int64
	nanoseconds int32
}

func parseDurationStr(s string) (parsedDuration, error) {
	if s == "" {
		return parsedDuration{}, fmt.Errorf("xmlvalue: empty duration")
	}
	var result parsedDuration
	pos := 0
	if s[pos] == '-' {
		result.negative = true
		pos++
	}
	if pos >= len(s) || s[pos] != 'P' {
		return parsedDuration{}, fmt.Errorf("xmlvalue: duration %q must start with 'P'", s)
	}
	pos++
	if pos >= len(s) {
		return parsedDuration{}, fmt.Errorf("xmlvalue: duration %q has no components", s)
	}

	foundAny := false
	for pos < len(s) && s[pos] != 'T' {
		val, newPos, err := parseDigits(s, pos)
		if err != nil {
			return parsedDuration{}, fmt.Errorf("xmlvalue: invalid duration %q: %w", s, err)
		}
		pos = newPos
		if pos >= len(s) {
			return parsedDuration{}, fmt.Errorf("xmlvalue: duration %q missing designator", s)
		}
		switch s[pos] {
		case 'Y':
			result.months += val * 12
		case 'M':
			result.months += val
		case 'D':
			result.seconds += val * 86400
		default:
			return parsedDuration{}, fmt.Errorf("xmlvalue: unexpected designator %q in duration %q", s[pos], s)
		}
		foundAny = true
		pos++
	}

	if pos < len(s) && s[pos] == 'T' {
		pos++
		if pos >= len(s) {
			return parsedDuration{}, fmt.Errorf("xmlvalue: duration %q has empty time component", s)
		}
		foundTime := false
		for pos < len(s) && s[pos] >= '0' && s[pos] <= '9' {
			val, newPos, err := parseDigits(s, pos)
			if err != nil {
				return parsedDuration{}, fmt.Errorf("xmlvalue: invalid duration %q: %w", s, err)
			}
			pos = newPos
			if pos >= len(s) {
				return parsedDuration{}, fmt.Errorf("xmlvalue: duration %q missing designator", s)
			}
			switch s[pos] {
			case 'H':
				result.seconds += val * 3600
				pos++
			case 'M':
				result.seconds += val * 60
				pos++
			case 'S', '.':
				result.seconds += val
				nanos, newPos, err := parseFractional(s, pos)
				if err != nil {
					return parsedDuration{}, err
				}
				pos = newPos
				if pos >= len(s) || s[pos] != 'S' {
					return parsedDuration{}, fmt.Errorf("xmlvalue: duration %q missing 'S'", s)
				}
				result.nanoseconds = nanos
				pos++
			default:
				return parsedDuration{}, fmt.Errorf("xmlvalue: unexpected designator %q in duration %q", s[pos], s)
			}
			foundTime = true
		}
		if !foundTime {
			return parsedDuration{}, fmt.Errorf("xmlvalue: duration %q has empty time component", s)
		}
		foundAny = true
	}

	if !foundAny {
		return parsedDuration{}, fmt.Errorf("xmlvalue: duration %q has no components", s)
	}
	if pos != len(s) {
		return parsedDuration{}, fmt.Errorf("xmlvalue: trailing data in duration %q", s)
	}

	// Collapse negative zero: a duration of exactly zero is never
	// reported as negative.
	if result.months == 0 && result.seconds == 0 && result.nanoseconds == 0 {
		result.negative = false
	}
	return result, nil
}

func parseDigits(s string, pos int) (int64, int, error) {
	start := pos
	var v int64
	for pos < len(s) && s[pos] >= '0' && s[pos] <= '9' {
		v = v*10 + int64(s[pos]-'0')
		pos++
	}
	if pos == start {
		return 0, pos, fmt.Errorf("expected digit at offset %d", pos)
	}
	return v, pos, nil
}

func parseFractional(s string, pos int) (int32, int, error) {
	if pos >= len(s) || s[pos] != '.' {
		return 0, pos, nil
	}
	pos++
	start := pos
	for pos < len(s) && s[pos] >= '0' && s[pos] <= '9' {
		pos++
	}
	digits := s[start:pos]
	if digits == "" {
		return 0, pos, fmt.Errorf("xmlvalue: expected fractional digits in %q", s)
	}
	for len(digits) < 9 {
		digits += "0"
	}
	var nanos int32
	for _, c := range digits[:9] {
		nanos = nanos*10 + int32(c-'0')
	}
	return nanos, pos, nil
}

// ParseDuration parses the canonical lexical form of xsd:duration:
// "[-]P[nY][nM][nD][T[nH][nM][n[.f]S]]".
func ParseDuration(s string) (Duration, error) {
	p, err := parseDurationStr(s)
	if err != nil {
		return Duration{}, err
	}
	return Duration{Negative: p.negative, Months: p.months, Seconds: p.seconds, Nanoseconds: p.nanoseconds}, nil
}

// String renders the canonical lexical form, normalizing months into
// years+months and seconds into days+hours+minutes+seconds.
func (d Duration) String() string {
	var b strings.Builder
	if d.Negative {
		b.WriteByte('-')
	}
	b.WriteByte('P')

	years, months := d.Months/12, d.Months%12
	if years > 0 {
		fmt.Fprintf(&b, "%dY", years)
	}
	if months > 0 {
		fmt.Fprintf(&b, "%dM", months)
	}

	days := d.Seconds / 86400
	rem := d.Seconds % 86400
	hours := rem / 3600
	rem %= 3600
	minutes := rem / 60
	seconds := rem % 60

	if days > 0 {
		fmt.Fprintf(&b, "%dD", days)
	}

	hasTime := hours > 0 || minutes > 0 || seconds > 0 || d.Nanoseconds > 0
	if hasTime {
		b.WriteByte('T')
		if hours > 0 {
			fmt.Fprintf(&b, "%dH", hours)
		}
		if minutes > 0 {
			fmt.Fprintf(&b, "%dM", minutes)
		}
		if seconds > 0 || d.Nanoseconds > 0 {
			if d.Nanoseconds > 0 {
				frac := fmt.Sprintf("%09d", d.Nanoseconds)
				for len(frac) > 0 && frac[len(frac)-1] == '0' {
					frac = frac[:len(frac)-1]
				}
				fmt.Fprintf(&b, "%d.%sS", seconds, frac)
			} else {
				fmt.Fprintf(&b, "%dS", seconds)
			}
		}
	}
	if d.Months == 0 && d.Seconds == 0 && d.Nanoseconds == 0 {
		b.WriteString("T0S")
	}
	return b.String()
}

// Equal reports whether two durations denote the same normalized
// (sign, months, seconds, nanoseconds) tuple.
func (d Duration) Equal(other Duration) bool {
	return d.Negative == other.Negative && d.Months == other.Months &&
		d.Seconds == other.Seconds && d.Nanoseconds == other.Nanoseconds
}
