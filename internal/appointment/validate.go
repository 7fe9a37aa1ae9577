package appointment

import (
	"fmt"
	"regexp"
	"strings"
)

// MaxNotesLength caps the optional free-text notes. Longer notes are
// truncated rather than rejected.
const MaxNotesLength = 500

var (
	emailPattern    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	nonDigitPattern = regexp.MustCompile(`\D`)
)

// Draft is a booking candidate as submitted by a client, before any
// normalization or persistence.
type Draft struct {
	ID       string
	Service  string
	Location string
	Date     string
	Time     string
	Name     string
	Email    string
	Phone    string
	Notes    string
}

// Fields maps a field name to its validation error message. An empty map
// means the draft is valid.
type Fields map[string]string

// fieldOrder fixes which violation is surfaced first when several fields fail
// at once, matching the order fields appear in the submission form.
var fieldOrder = []string{"service", "location", "date", "time", "name", "email", "phone"}

// Primary returns the message for the first failing field in form order.
func (f Fields) Primary() string {
	for _, name := range fieldOrder {
		if msg, ok := f[name]; ok {
			return msg
		}
	}
	for _, msg := range f {
		return msg
	}
	return ""
}

// ValidationError carries the full field report for a rejected draft.
type ValidationError struct {
	Fields Fields
}

func (e *ValidationError) Error() string {
	return e.Fields.Primary()
}

func missingField(name string) string {
	return fmt.Sprintf("Missing required field: %s", name)
}

// NormalizePhone strips every non-digit character.
func NormalizePhone(phone string) string {
	return nonDigitPattern.ReplaceAllString(phone, "")
}

// TruncateNotes applies the notes length cap. The cap counts characters,
// not bytes; cutting by bytes could split a multi-byte sequence and hand
// the store invalid UTF-8.
func TruncateNotes(notes string) string {
	if len(notes) <= MaxNotesLength {
		return notes
	}
	runes := []rune(notes)
	if len(runes) <= MaxNotesLength {
		return notes
	}
	return string(runes[:MaxNotesLength])
}

// Validate checks a draft against the booking rules and reports every
// violation at once rather than stopping at the first. The bookable predicate
// answers whether the chosen time is currently open for the draft's
// (date, location); it is only consulted when date, location and time are all
// present.
func Validate(d Draft, bookable func(t string) bool) Fields {
	errs := Fields{}

	if strings.TrimSpace(d.Service) == "" {
		errs["service"] = missingField("service")
	}
	if strings.TrimSpace(d.Location) == "" {
		errs["location"] = missingField("location")
	}
	if strings.TrimSpace(d.Date) == "" {
		errs["date"] = missingField("date")
	}
	if strings.TrimSpace(d.Name) == "" {
		errs["name"] = missingField("name")
	}

	if strings.TrimSpace(d.Email) == "" {
		errs["email"] = missingField("email")
	} else if !emailPattern.MatchString(strings.TrimSpace(d.Email)) {
		errs["email"] = "Invalid email address"
	}

	if strings.TrimSpace(d.Phone) == "" {
		errs["phone"] = missingField("phone")
	} else if len(NormalizePhone(d.Phone)) != 10 {
		errs["phone"] = "Phone number must be 10 digits"
	}

	if strings.TrimSpace(d.Time) == "" {
		errs["time"] = missingField("time")
	} else if errs["date"] == "" && errs["location"] == "" && bookable != nil && !bookable(d.Time) {
		errs["time"] = "This time slot is not available"
	}

	return errs
}
