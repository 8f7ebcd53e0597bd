package xmlvalue

import "fmt"

// parseTimeZone parses the optional trailing timezone of an ISO-8601
// lexical form: "Z", "+HH:MM", or "-HH:MM", with the offset bounded to
// [-14:00, +14:00] per spec.md section 4.2. It returns the offset in
// minutes east of UTC, and the unconsumed remainder of s. A nil offset
// means no timezone was present.
func parseTimeZone(s string) (offset *int, rest string, err error) {
	if s == "" {
		return nil, s, nil
	}
	if s[0] == 'Z' {
		zero := 0
		return &zero, s[1:], nil
	}
	if s[0] != '+' && s[0] != '-' {
		return nil, s, nil
	}
	if len(s) < 6 || s[3] != ':' {
		return nil, "", fmt.Errorf("xmlvalue: invalid timezone %q", s)
	}
	sign := 1
	if s[0] == '-' {
		sign = -1
	}
	hh, err := digits2(s[1:3])
	if err != nil {
		return nil, "", fmt.Errorf("xmlvalue: invalid timezone %q: %w", s, err)
	}
	mm, err := digits2(s[4:6])
	if err != nil {
		return nil, "", fmt.Errorf("xmlvalue: invalid timezone %q: %w", s, err)
	}
	total := sign * (hh*60 + mm)
	if total < -14*60 || total > 14*60 {
		return nil, "", fmt.Errorf("xmlvalue: timezone %q out of range", s)
	}
	return &total, s[6:], nil
}

func digits2(s string) (int, error) {
	if len(s) != 2 || s[0] < '0' || s[0] > '9' || s[1] < '0' || s[1] > '9' {
		return 0, fmt.Errorf("expected 2 digits, got %q", s)
	}
	return int(s[0]-'0')*10 + int(s[1]-'0'), nil
}

func formatTimeZone(offset *int) string {
	if offset == nil {
		return ""
	}
	if *offset == 0 {
		return "Z"
	}
	sign := "+"
	v := *offset
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%02d:%02d", sign, v/60, v%60)
}
