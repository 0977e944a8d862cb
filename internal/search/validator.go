package search

import (
	"fmt"
	"strconv"
	"strings"
)

// Year ranges accepted per calendar. Hijri years run well behind Gregorian
// ones; both ranges are generous around the registry's actual data.
const (
	minHijriYear     = 1300
	maxHijriYear     = 1500
	minGregorianYear = 1900
	maxGregorianYear = 2100
)

// ValidationError carries every violation found in a request, so a caller
// can fix all issues in one round trip.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Violations, "; ")
}

// Validator normalizes raw lookup requests. MaxDeedNumbers bounds how many
// identifiers one request may carry; zero disables the bound.
type Validator struct {
	MaxDeedNumbers int
}

func NewValidator(maxDeedNumbers int) *Validator {
	return &Validator{MaxDeedNumbers: maxDeedNumbers}
}

// Validate checks raw and either returns a normalized Request or a
// *ValidationError listing every violation. It never returns a partially
// populated request.
func (v *Validator) Validate(raw *RawRequest) (*Request, error) {
	var violations []string

	requestID := strings.TrimSpace(raw.RequestID)
	if requestID == "" {
		violations = append(violations, "requestId is required")
	}

	deedNumbers := ParseDeedNumbers(raw.DeedNumbers)
	if len(deedNumbers) == 0 {
		violations = append(violations, "deedNumbers must contain at least one identifier")
	}
	if v.MaxDeedNumbers > 0 && len(deedNumbers) > v.MaxDeedNumbers {
		violations = append(violations, fmt.Sprintf("deedNumbers exceeds the limit of %d identifiers", v.MaxDeedNumbers))
	}

	mode, ok := parseMode(raw.SearchMode)
	if !ok {
		violations = append(violations, fmt.Sprintf("searchMode %q is not recognized", raw.SearchMode))
	}

	req := &Request{
		RequestID:   requestID,
		DeedNumbers: deedNumbers,
		Mode:        mode,
	}

	switch mode {
	case ByIdentity:
		req.Identity, violations = v.validateIdentity(raw, violations)
	case ByDate:
		req.Date, violations = v.validateDate(raw, violations)
	}

	if len(violations) > 0 {
		return nil, &ValidationError{Violations: violations}
	}
	return req, nil
}

// parseMode maps the wire searchMode to a Mode. An entirely absent value
// falls back to ByIdentity; anything else unknown is rejected.
func parseMode(raw string) (Mode, bool) {
	switch strings.TrimSpace(raw) {
	case "":
		return ByIdentity, true
	case ModeByIdentity:
		return ByIdentity, true
	case ModeByDate:
		return ByDate, true
	}
	return 0, false
}

func (v *Validator) validateIdentity(raw *RawRequest, violations []string) (*IdentityQuery, []string) {
	if hasDateFields(raw) {
		violations = append(violations, "date fields are not allowed in identity mode")
	}

	number := strings.TrimSpace(raw.IdentityNumber)
	if number == "" {
		violations = append(violations, "identityNumber is required")
	}

	idType, err := parseIdentityType(raw.IdentityType)
	if err != nil {
		violations = append(violations, err.Error())
	}

	if len(violations) > 0 {
		return nil, violations
	}
	return &IdentityQuery{Type: idType, Number: number}, nil
}

func (v *Validator) validateDate(raw *RawRequest, violations []string) (*DateQuery, []string) {
	if hasIdentityFields(raw) {
		violations = append(violations, "identity fields are not allowed in date mode")
	}

	year, yearErr := parseIntField("year", raw.Year)
	if yearErr != nil {
		violations = append(violations, yearErr.Error())
	}
	month, err := parseIntField("month", raw.Month)
	if err != nil {
		violations = append(violations, err.Error())
	} else if month < 1 || month > 12 {
		violations = append(violations, fmt.Sprintf("month %d is out of range 1..12", month))
	}
	day, err := parseIntField("day", raw.Day)
	if err != nil {
		violations = append(violations, err.Error())
	} else if day < 1 || day > 31 {
		violations = append(violations, fmt.Sprintf("day %d is out of range 1..31", day))
	}

	minYear, maxYear := minGregorianYear, maxGregorianYear
	if raw.IsAlternateCalendar {
		minYear, maxYear = minHijriYear, maxHijriYear
	}
	if yearErr == nil && (year < minYear || year > maxYear) {
		violations = append(violations, fmt.Sprintf("year %d is out of range %d..%d", year, minYear, maxYear))
	}

	if len(violations) > 0 {
		return nil, violations
	}
	return &DateQuery{
		Year:              year,
		Month:             month,
		Day:               day,
		AlternateCalendar: raw.IsAlternateCalendar,
	}, nil
}

func parseIdentityType(raw string) (IdentityType, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("identityType %q is not a number", raw)
	}
	switch t := IdentityType(n); t {
	case IdentityNational, IdentityResident, IdentityCommercial:
		return t, nil
	}
	return 0, fmt.Errorf("identityType %d is not one of 1, 2, 5", n)
}

func parseIntField(name, raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%s %q is not a number", name, raw)
	}
	return n, nil
}

func hasDateFields(raw *RawRequest) bool {
	return strings.TrimSpace(raw.Year) != "" ||
		strings.TrimSpace(raw.Month) != "" ||
		strings.TrimSpace(raw.Day) != ""
}

func hasIdentityFields(raw *RawRequest) bool {
	return strings.TrimSpace(raw.IdentityType) != "" ||
		strings.TrimSpace(raw.IdentityNumber) != ""
}
