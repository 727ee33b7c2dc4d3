package episode

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	// NoMedications is stored and rendered when an episode has no medication entries.
	NoMedications = "No medications taken"
	// NoComments is stored and rendered when the user declined to leave a comment.
	NoComments = "No comments"
)

// ErrBadTimeFormat is returned for anything that is not strict 24-hour HH:MM.
var ErrBadTimeFormat = errors.New("time must be in HH:MM format")

// TimeOfDay is a wall-clock time without a date, minute precision.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay accepts strict zero-padded 24-hour "HH:MM" input.
// time.Parse is too lenient here (it takes "8:00"), so the shape is
// checked by hand to keep parse-then-format an identity.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	s = strings.TrimSpace(s)
	if len(s) != 5 || s[2] != ':' {
		return TimeOfDay{}, ErrBadTimeFormat
	}
	for _, i := range []int{0, 1, 3, 4} {
		if s[i] < '0' || s[i] > '9' {
			return TimeOfDay{}, ErrBadTimeFormat
		}
	}
	h := int(s[0]-'0')*10 + int(s[1]-'0')
	m := int(s[3]-'0')*10 + int(s[4]-'0')
	if h > 23 || m > 59 {
		return TimeOfDay{}, ErrBadTimeFormat
	}
	return TimeOfDay{Hour: h, Minute: m}, nil
}

// At returns the time of day of t in its location.
func At(t time.Time) TimeOfDay {
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// Medication is one entry of the draft's medication sub-loop.
type Medication struct {
	Name string
	Time TimeOfDay
}

// FormatMedications renders the persisted medications line, e.g.
// "Ibuprofen at 08:00; Sumatriptan at 09:15". An empty list renders the sentinel.
func FormatMedications(meds []Medication) string {
	if len(meds) == 0 {
		return NoMedications
	}
	parts := make([]string, 0, len(meds))
	for _, m := range meds {
		parts = append(parts, fmt.Sprintf("%s at %s", m.Name, m.Time))
	}
	return strings.Join(parts, "; ")
}

// Episode is one recorded headache, immutable once saved. Medications and
// Comments hold the rendered line (sentinel when absent), which is exactly
// what gets persisted and printed in reports.
type Episode struct {
	ID          int64
	UserID      int64
	Date        time.Time
	Start       TimeOfDay
	Stop        TimeOfDay
	Medications string
	Rating      int
	Comments    string
}
