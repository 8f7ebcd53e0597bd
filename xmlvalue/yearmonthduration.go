package xmlvalue

import "fmt"

// YearMonthDuration is the xsd:yearMonthDuration restriction of
// xsd:duration: a signed number of months, with no day/time component.
type YearMonthDuration struct {
	Negative bool
	Months   int64
}

// ParseYearMonthDuration parses "[-]PnYnM" (either component optional,
// at least one present), rejecting any day/time component.
func ParseYearMonthDuration(s string) (YearMonthDuration, error) {
	p, err := parseDurationStr(s)
	if err != nil {
		return YearMonthDuration{}, err
	}
	if p.seconds != 0 || p.nanoseconds != 0 {
		return YearMonthDuration{}, fmt.Errorf("xmlvalue: yearMonthDuration %q has a day/time component", s)
	}
	if p.months == 0 {
		p.negative = false
	}
	return YearMonthDuration{Negative: p.negative, Months: p.months}, nil
}

// String renders the canonical lexical form, normalizing months into
// years+months (months mod 12).
func (d YearMonthDuration) String() string {
	years, months := d.Months/12, d.Months%12
	sign := ""
	if d.Negative {
		sign = "-"
	}
	if years == 0 && months == 0 {
		return "P0M"
	}
	s := sign + "P"
	if years > 0 {
		s += fmt.Sprintf("%dY", years)
	}
	if months > 0 {
		s += fmt.Sprintf("%dM", months)
	}
	return s
}

// Equal reports whether two values denote the same normalized
// (sign, months) tuple.
func (d YearMonthDuration) Equal(other YearMonthDuration) bool {
	return d.Negative == other.Negative && d.Months == other.Months
}

// TotalMonths returns the signed total number of months.
func (d YearMonthDuration) TotalMonths() int64 {
	if d.Negative {
		return -d.Months
	}
	return d.Months
}
