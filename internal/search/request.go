// Package search defines the normalized lookup request and the validation
// layer that produces it from untrusted wire input.
package search

import "strings"

// Mode selects which remote lookup endpoint a request targets.
type Mode int

const (
	// ByIdentity looks deeds up by owner identity document.
	ByIdentity Mode = iota + 1
	// ByDate looks deeds up by registration date.
	ByDate
)

// Wire values for Mode. An absent searchMode falls back to ModeByIdentity;
// any other value is a validation error.
const (
	ModeByIdentity = "byIdentity"
	ModeByDate     = "byDate"
)

// IdentityType enumerates the identity documents the registry accepts.
// The numeric values are fixed by the remote API.
type IdentityType int

const (
	IdentityNational   IdentityType = 1
	IdentityResident   IdentityType = 2
	IdentityCommercial IdentityType = 5
)

// IdentityQuery carries the ByIdentity-specific fields.
type IdentityQuery struct {
	Type   IdentityType
	Number string
}

// DateQuery carries the ByDate-specific fields. AlternateCalendar marks the
// date as Hijri rather than Gregorian.
type DateQuery struct {
	Year              int
	Month             int
	Day               int
	AlternateCalendar bool
}

// Request is a validated, normalized lookup request.
//
// Invariant: exactly one of Identity/Date is non-nil, matching Mode.
// DeedNumbers preserves caller order and is never empty.
type Request struct {
	RequestID   string
	DeedNumbers []string
	Mode        Mode
	Identity    *IdentityQuery
	Date        *DateQuery
}

// RawRequest is the weakly-typed wire form of a lookup request. Numeric
// fields arrive as strings because third-party pages send whatever their
// form inputs hold; the bridge codec decodes numbers into strings before
// validation.
type RawRequest struct {
	RequestID           string `json:"requestId" mapstructure:"requestId"`
	DeedNumbers         string `json:"deedNumbers" mapstructure:"deedNumbers"`
	SearchMode          string `json:"searchMode" mapstructure:"searchMode"`
	IdentityType        string `json:"identityType" mapstructure:"identityType"`
	IdentityNumber      string `json:"identityNumber" mapstructure:"identityNumber"`
	Year                string `json:"year" mapstructure:"year"`
	Month               string `json:"month" mapstructure:"month"`
	Day                 string `json:"day" mapstructure:"day"`
	IsAlternateCalendar bool   `json:"isAlternateCalendar" mapstructure:"isAlternateCalendar"`
}

// ParseDeedNumbers splits raw caller input into individual deed identifiers.
// Any run of commas, semicolons, colons, or whitespace separates tokens;
// empty tokens are dropped and order is preserved. Deduplication is
// intentionally not performed.
func ParseDeedNumbers(raw string) []string {
	return strings.FieldsFunc(raw, func(r rune) bool {
		switch r {
		case ',', ';', ':', ' ', '\t', '\n', '\r':
			return true
		}
		return false
	})
}
