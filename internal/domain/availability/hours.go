package availability

import "regexp"

// Window is a start/end pair of "HH:MM" clock times.
type Window struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// DefaultWindow is used when a branch's operating-hours text contains no
// recognizable time range.
var DefaultWindow = Window{Start: "08:00", End: "17:00"}

var windowPattern = regexp.MustCompile(`(\d{1,2}:\d{2})-(\d{1,2}:\d{2})`)

// ResolveOperatingHours extracts the first "HH:MM-HH:MM" range from a
// branch's free-text operating-hours description, e.g.
// "Mon-Fri: 08:00-17:00, Sat: 08:00-13:00" resolves to 08:00-17:00.
// Day-of-week qualifiers in the text are ignored; per-day variation is
// expressed through optician working-hours templates instead. When no range
// is found the default 08:00-17:00 window is returned.
func ResolveOperatingHours(text string) Window {
	m := windowPattern.FindStringSubmatch(text)
	if m == nil {
		return DefaultWindow
	}
	return Window{Start: m[1], End: m[2]}
}
