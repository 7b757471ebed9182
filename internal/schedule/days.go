// Package schedule implements the pure formatting and validation logic for
// playback windows and announcements: weekday-set canonicalization, display
// summaries and form validation. Nothing in this package mutates state.
package schedule

// WeekDay pairs a weekday code with its display label.
type WeekDay struct {
	Value string
	Label string
}

// WeekDays lists the seven weekday codes in canonical order with their
// display labels.
var WeekDays = []WeekDay{
	{Value: "mon", Label: "Пн"},
	{Value: "tue", Label: "Вт"},
	{Value: "wed", Label: "Ср"},
	{Value: "thu", Label: "Чт"},
	{Value: "fri", Label: "Пт"},
	{Value: "sat", Label: "Сб"},
	{Value: "sun", Label: "Вс"},
}

// AllDays returns the full week in canonical order.
func AllDays() []string {
	days := make([]string, len(WeekDays))
	for i, d := range WeekDays {
		days[i] = d.Value
	}
	return days
}

// Weekdays returns Mon–Fri.
func Weekdays() []string {
	return []string{"mon", "tue", "wed", "thu", "fri"}
}

// Weekend returns Sat–Sun.
func Weekend() []string {
	return []string{"sat", "sun"}
}

// dayIndex returns the canonical position of a weekday code, or -1 for
// codes that are not one of the seven.
func dayIndex(code string) int {
	for i, d := range WeekDays {
		if d.Value == code {
			return i
		}
	}
	return -1
}

// dayLabel returns the display label for a weekday code, or the code
// itself if it is unknown.
func dayLabel(code string) string {
	for _, d := range WeekDays {
		if d.Value == code {
			return d.Label
		}
	}
	return code
}

// CanonicalDays deduplicates a weekday set, drops empty or unknown codes
// and sorts the result into canonical Mon..Sun order. The input slice is
// not modified.
func CanonicalDays(days []string) []string {
	var out []string
	for _, d := range WeekDays {
		for _, c := range days {
			if c == d.Value {
				out = append(out, c)
				break
			}
		}
	}
	return out
}

// SameDaySet reports whether two weekday sets contain exactly the same
// days, regardless of order or duplicates.
func SameDaySet(a, b []string) bool {
	ca, cb := CanonicalDays(a), CanonicalDays(b)
	if len(ca) != len(cb) {
		return false
	}
	for i := range ca {
		if ca[i] != cb[i] {
			return false
		}
	}
	return true
}
