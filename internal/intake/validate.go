package intake

import (
	"fmt"
	"regexp"
	"strconv"
	"unicode/utf8"

	"github.com/stutiagarwal3007/esahayak-2025/internal/domain"
)

// FieldError is one field-attributed validation failure.
type FieldError struct {
	// Row is the 1-based CSV row number; zero for form submissions.
	Row     int    `json:"row,omitempty"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("row %d: %s: %s", e.Row, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

var (
	rePhone = regexp.MustCompile(`^[0-9]{10,15}$`)
	reEmail = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	reDigit = regexp.MustCompile(`^[0-9]+$`)
)

const (
	fullNameMin = 2
	fullNameMax = 80
	notesMax    = 1000
)

// Validate applies every business rule to the candidate and either returns a
// fully normalized lead (ID, owner and timestamps unset, stamped by the
// caller) or the complete ordered list of field errors. It never
// short-circuits: a candidate with three invalid fields surfaces three
// errors. Identical input always yields identical output.
func Validate(c Candidate) (*domain.Lead, []FieldError) {
	var errs []FieldError
	fail := func(field, message string) {
		errs = append(errs, FieldError{Row: c.Row, Field: field, Message: message})
	}

	// Length limits count characters, not bytes.
	switch nameLen := utf8.RuneCountInString(c.FullName); {
	case nameLen < fullNameMin:
		fail("fullName", fmt.Sprintf("Must be at least %d characters", fullNameMin))
	case nameLen > fullNameMax:
		fail("fullName", fmt.Sprintf("Must be at most %d characters", fullNameMax))
	}

	if c.Email != nil && !reEmail.MatchString(*c.Email) {
		fail("email", "Invalid email format")
	}

	if !rePhone.MatchString(c.Phone) {
		fail("phone", "Must be 10-15 digits")
	}

	if !validCity(c.City) {
		fail("city", "Value is not allowed")
	}

	propertyKnown := validPropertyType(c.PropertyType)
	if !propertyKnown {
		fail("propertyType", "Value is not allowed")
	}

	var bhk *domain.BHK
	switch {
	case c.BHK != nil:
		if !validBHK(*c.BHK) {
			fail("bhk", "Value is not allowed")
		} else {
			val := domain.BHK(*c.BHK)
			bhk = &val
		}
	case propertyKnown && requiresBHK(domain.PropertyType(c.PropertyType)):
		fail("bhk", "This field is required")
	}

	if !validPurpose(c.Purpose) {
		fail("purpose", "Value is not allowed")
	}

	budgetMin, ok := parseBudget(c.BudgetMin)
	if !ok {
		fail("budgetMin", "Must be a non-negative whole number")
	}
	budgetMax, ok := parseBudget(c.BudgetMax)
	if !ok {
		fail("budgetMax", "Must be a non-negative whole number")
	} else if budgetMin != nil && budgetMax != nil && *budgetMax < *budgetMin {
		fail("budgetMax", "Must be greater than or equal to budgetMin")
	}

	if !validTimeline(c.Timeline) {
		fail("timeline", "Value is not allowed")
	}

	if !validSource(c.Source) {
		fail("source", "Value is not allowed")
	}

	status := c.Status
	if status == "" {
		status = string(domain.StatusNew)
	}
	if !validStatus(status) {
		fail("status", "Value is not allowed")
	}

	if c.Notes != nil && utf8.RuneCountInString(*c.Notes) > notesMax {
		fail("notes", fmt.Sprintf("Must be at most %d characters", notesMax))
	}

	if len(errs) > 0 {
		return nil, errs
	}

	tags := c.Tags
	if tags == nil {
		tags = []string{}
	}

	return &domain.Lead{
		FullName:     c.FullName,
		Email:        c.Email,
		Phone:        c.Phone,
		City:         domain.City(c.City),
		PropertyType: domain.PropertyType(c.PropertyType),
		BHK:          bhk,
		Purpose:      domain.Purpose(c.Purpose),
		BudgetMin:    budgetMin,
		BudgetMax:    budgetMax,
		Timeline:     domain.Timeline(c.Timeline),
		Source:       domain.LeadSource(c.Source),
		Status:       domain.LeadStatus(status),
		Notes:        c.Notes,
		Tags:         tags,
	}, nil
}

// requiresBHK reports whether the property type demands a bedroom count.
func requiresBHK(p domain.PropertyType) bool {
	return p == domain.PropertyApartment || p == domain.PropertyVilla
}

// parseBudget accepts an absent budget or a string of decimal digits. The
// second return is false when the value is present but not parseable.
func parseBudget(raw *string) (*int64, bool) {
	if raw == nil {
		return nil, true
	}
	if !reDigit.MatchString(*raw) {
		return nil, false
	}
	parsed, err := strconv.ParseInt(*raw, 10, 64)
	if err != nil {
		return nil, false
	}
	return &parsed, true
}

func validCity(val string) bool {
	switch domain.City(val) {
	case domain.CityChandigarh, domain.CityMohali, domain.CityZirakpur, domain.CityPanchkula, domain.CityOther:
		return true
	}
	return false
}

func validPropertyType(val string) bool {
	switch domain.PropertyType(val) {
	case domain.PropertyApartment, domain.PropertyVilla, domain.PropertyPlot, domain.PropertyOffice, domain.PropertyRetail:
		return true
	}
	return false
}

func validBHK(val string) bool {
	switch domain.BHK(val) {
	case domain.BHKOne, domain.BHKTwo, domain.BHKThree, domain.BHKFour, domain.BHKStudio:
		return true
	}
	return false
}

func validPurpose(val string) bool {
	switch domain.Purpose(val) {
	case domain.PurposeBuy, domain.PurposeRent:
		return true
	}
	return false
}

func validTimeline(val string) bool {
	switch domain.Timeline(val) {
	case domain.TimelineZeroToThree, domain.TimelineThreeToSix, domain.TimelineMoreThanSix, domain.TimelineExploring:
		return true
	}
	return false
}

func validSource(val string) bool {
	switch domain.LeadSource(val) {
	case domain.SourceWebsite, domain.SourceReferral, domain.SourceWalkIn, domain.SourceCall, domain.SourceOther:
		return true
	}
	return false
}

func validStatus(val string) bool {
	switch domain.LeadStatus(val) {
	case domain.StatusNew, domain.StatusQualified, domain.StatusContacted, domain.StatusVisited,
		domain.StatusNegotiation, domain.StatusConverted, domain.StatusDropped:
		return true
	}
	return false
}
