package xmlvalue

import (
	"fmt"
	"strings"
)

// DayTimeDuration is the xsd:dayTimeDuration restriction of
// xsd:duration: a signed number of seconds (with nanosecond precision)
// and no year/month component.
type DayTimeDuration struct {
	Negative    bool
	Seconds     int64
	Nanoseconds int32
}

// ParseDayTimeDuration parses "[-]PnDTnHnMnS" (day/time components
// optional, at least one present), rejecting any year/month component.
func ParseDayTimeDuration(s string) (DayTimeDuration, error) {
	p, err := parseDurationStr(s)
	if err != nil {
		return DayTimeDuration{}, err
	}
	if p.months != 0 {
		return DayTimeDuration{}, fmt.Errorf("xmlvalue: dayTimeDuration %q has a year/month component", s)
	}
	if p.seconds == 0 && p.nanoseconds == 0 {
		p.negative = false
	}
	return DayTimeDuration{Negative: p.negative, Seconds: p.seconds, Nanoseconds: p.nanoseconds}, nil
}

// String renders the canonical lexical form, decomposing total seconds
// into days, hours, minutes, and seconds.
func (d DayTimeDuration) String() string {
	days := d.Seconds / 86400
	rem := d.Seconds % 86400
	hours := rem / 3600
	rem %= 3600
	minutes := rem / 60
	seconds := rem % 60

	var b strings.Builder
	if d.Negative {
		b.WriteByte('-')
	}
	b.WriteByte('P')
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
	if days == 0 && !hasTime {
		b.WriteString("T0S")
	}
	return b.String()
}

// Equal reports whether two values denote the same normalized
// (sign, seconds, nanoseconds) tuple.
func (d DayTimeDuration) Equal(other DayTimeDuration) bool {
	return d.Negative == other.Negative && d.Seconds == other.Seconds &&
		d.Nanoseconds == other.Nanoseconds
}

// TotalNanoseconds returns the signed total duration in nanoseconds.
func (d DayTimeDuration) TotalNanoseconds() int64 {
	total := d.Seconds*1e9 + int64(d.Nanoseconds)
	if d.Negative {
		return -total
	}
	return total
}
