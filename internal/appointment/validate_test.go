package appointment

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDraft() Draft {
	return Draft{
		Service:  "styling",
		Location: "Mumbai",
		Date:     "2024-06-01",
		Time:     "13:00",
		Name:     "Asha Rao",
		Email:    "asha@example.com",
		Phone:    "(987) 654-3210",
		Notes:    "prefers the window seat",
	}
}

func alwaysBookable(string) bool { return true }

func TestValidate_ValidDraft(t *testing.T) {
	errs := Validate(validDraft(), alwaysBookable)
	assert.Empty(t, errs)
}

func TestValidate_RequiredFields(t *testing.T) {
	tests := []struct {
		field  string
		mutate func(*Draft)
	}{
		{"service", func(d *Draft) { d.Service = "" }},
		{"location", func(d *Draft) { d.Location = "  " }},
		{"date", func(d *Draft) { d.Date = "" }},
		{"time", func(d *Draft) { d.Time = "" }},
		{"name", func(d *Draft) { d.Name = "   " }},
		{"email", func(d *Draft) { d.Email = "" }},
		{"phone", func(d *Draft) { d.Phone = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			d := validDraft()
			tt.mutate(&d)

			errs := Validate(d, alwaysBookable)
			require.Contains(t, errs, tt.field)
			assert.Equal(t, "Missing required field: "+tt.field, errs[tt.field])
		})
	}
}

func TestValidate_EmailShape(t *testing.T) {
	bad := []string{"plainaddress", "missing@tld", "two@@example.com", "spaces in@example.com", "@example.com"}
	for _, email := range bad {
		d := validDraft()
		d.Email = email
		errs := Validate(d, alwaysBookable)
		assert.Equal(t, "Invalid email address", errs["email"], "email %q should fail", email)
	}

	good := []string{"a@b.co", "first.last+tag@sub.example.com"}
	for _, email := range good {
		d := validDraft()
		d.Email = email
		errs := Validate(d, alwaysBookable)
		assert.NotContains(t, errs, "email", "email %q should pass", email)
	}
}

func TestValidate_PhoneDigits(t *testing.T) {
	// Formatting characters are stripped; only the digit count matters.
	good := []string{"9876543210", "(987) 654-3210", "98-76-54-32-10"}
	for _, phone := range good {
		d := validDraft()
		d.Phone = phone
		errs := Validate(d, alwaysBookable)
		assert.NotContains(t, errs, "phone", "phone %q should pass", phone)
	}

	bad := []string{"12345", "98765432101", "987-654-321"}
	for _, phone := range bad {
		d := validDraft()
		d.Phone = phone
		errs := Validate(d, alwaysBookable)
		assert.Equal(t, "Phone number must be 10 digits", errs["phone"], "phone %q should fail", phone)
	}
}

func TestValidate_TimeMustBeBookable(t *testing.T) {
	d := validDraft()
	errs := Validate(d, func(string) bool { return false })

	require.Contains(t, errs, "time")
	assert.Equal(t, "This time slot is not available", errs["time"])
}

func TestValidate_AllViolationsReportedTogether(t *testing.T) {
	d := Draft{Notes: "only notes set"}

	errs := Validate(d, alwaysBookable)
	assert.Len(t, errs, 7, "every failing field is reported, not just the first")
	assert.Equal(t, "Missing required field: service", errs.Primary())
}

func TestValidate_BookableNotConsultedWhenPairIncomplete(t *testing.T) {
	d := validDraft()
	d.Date = ""

	// A panicking predicate proves it is not called without a full pair.
	errs := Validate(d, func(string) bool { panic("must not be called") })
	assert.Contains(t, errs, "date")
	assert.NotContains(t, errs, "time")
}

func TestNormalizePhone(t *testing.T) {
	assert.Equal(t, "9876543210", NormalizePhone("(987) 654-3210"))
	assert.Equal(t, "", NormalizePhone("abc"))
}

func TestTruncateNotes(t *testing.T) {
	long := strings.Repeat("x", MaxNotesLength+100)
	assert.Len(t, TruncateNotes(long), MaxNotesLength)
	assert.Equal(t, "short", TruncateNotes("short"))
}

func TestTruncateNotes_MultiByteBoundary(t *testing.T) {
	// A two-byte rune straddling the cap must be dropped whole; slicing
	// bytes would leave a dangling lead byte and the store rejects invalid
	// UTF-8.
	notes := strings.Repeat("x", MaxNotesLength-1) + "éé"
	got := TruncateNotes(notes)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, MaxNotesLength, utf8.RuneCountInString(got))
	assert.Equal(t, strings.Repeat("x", MaxNotesLength-1)+"é", got)

	// Exactly at the cap in characters but over it in bytes: kept whole.
	atCap := strings.Repeat("x", MaxNotesLength-1) + "é"
	assert.Equal(t, atCap, TruncateNotes(atCap))

	// All multi-byte input: the cap counts characters, not bytes.
	wide := strings.Repeat("न", MaxNotesLength+10)
	got = TruncateNotes(wide)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, MaxNotesLength, utf8.RuneCountInString(got))
}

func TestPrimary_FixedOrder(t *testing.T) {
	errs := Fields{
		"phone": "Phone number must be 10 digits",
		"email": "Missing required field: email",
	}
	assert.Equal(t, "Missing required field: email", errs.Primary())
}
