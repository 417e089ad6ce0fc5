// Package validation is the stateless rule layer shared by manual entry and
// bulk import. It turns a raw student row into either a typed, parsed value
// or a list of field errors. Errors are accumulated, never short-circuited,
// so one pass reports every problem on a row.
package validation

import (
	"regexp"
	"strings"

	"github.com/shrs/shrs/internal/model"
)

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	phonePattern = regexp.MustCompile(`^\+?[0-9][0-9\- ]{5,14}$`)
)

// StudentRow is one raw row of candidate student data, as submitted: all
// strings, untrimmed types. The four parent columns are optional but must
// appear together.
type StudentRow struct {
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	DateOfBirth   string `json:"dateOfBirth"`
	Gender        string `json:"gender"`
	BloodGroup    string `json:"bloodGroup"`
	Class         string `json:"class"`
	Section       string `json:"section"`
	AdmissionDate string `json:"admissionDate"`

	ParentName         string `json:"parentName,omitempty"`
	ParentPhone        string `json:"parentPhone,omitempty"`
	ParentEmail        string `json:"parentEmail,omitempty"`
	ParentRelationship string `json:"parentRelationship,omitempty"`
}

// FieldError locates one validation failure on a row.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ParentContact is the validated optional guardian block of a row.
type ParentContact struct {
	Name         string
	Phone        string
	Email        string
	Relationship string
}

// Student is the typed, parsed form of a valid row.
type Student struct {
	FirstName     string
	LastName      string
	DateOfBirth   model.Date
	Gender        model.Gender
	BloodGroup    model.BloodGroup
	Class         string
	Section       string
	AdmissionDate model.Date
	Parent        *ParentContact
}

// Result is the verdict for one row: either Valid with a typed Student, or
// a list of field errors.
type Result struct {
	Valid   bool
	Errors  []FieldError
	Student Student
}

// ValidateStudentRow runs every rule against the row. It has no side
// effects and is deterministic, so re-validating the same row always yields
// the same result.
func ValidateStudentRow(row StudentRow) Result {
	var errs []FieldError
	fail := func(field, message string) {
		errs = append(errs, FieldError{Field: field, Message: message})
	}

	out := Student{
		FirstName: strings.TrimSpace(row.FirstName),
		LastName:  strings.TrimSpace(row.LastName),
		Class:     strings.TrimSpace(row.Class),
		Section:   strings.TrimSpace(row.Section),
	}

	if out.FirstName == "" {
		fail("firstName", "firstName is required")
	}
	if out.LastName == "" {
		fail("lastName", "lastName is required")
	}

	if dob := strings.TrimSpace(row.DateOfBirth); dob == "" {
		fail("dateOfBirth", "dateOfBirth is required")
	} else if d, err := model.ParseDate(dob); err != nil {
		fail("dateOfBirth", "dateOfBirth must be a valid YYYY-MM-DD date")
	} else {
		out.DateOfBirth = d
	}

	switch g := model.Gender(strings.TrimSpace(row.Gender)); {
	case g == "":
		fail("gender", "gender is required")
	case !g.Valid():
		fail("gender", "gender must be Male, Female or Other")
	default:
		out.Gender = g
	}

	switch b := model.BloodGroup(strings.TrimSpace(row.BloodGroup)); {
	case b == "":
		fail("bloodGroup", "bloodGroup is required")
	case !b.Valid():
		fail("bloodGroup", "bloodGroup must be one of A+, A-, B+, B-, AB+, AB-, O+, O-")
	default:
		out.BloodGroup = b
	}

	switch {
	case out.Class == "":
		fail("class", "class is required")
	case !model.ValidClass(out.Class):
		fail("class", "class must be between 1 and 12")
	}

	switch {
	case out.Section == "":
		fail("section", "section is required")
	case !model.ValidSection(out.Section):
		fail("section", "section must be A, B, C or D")
	}

	if ad := strings.TrimSpace(row.AdmissionDate); ad == "" {
		fail("admissionDate", "admissionDate is required")
	} else if d, err := model.ParseDate(ad); err != nil {
		fail("admissionDate", "admissionDate must be a valid YYYY-MM-DD date")
	} else {
		out.AdmissionDate = d
	}

	parent, parentErrs := validateParent(row)
	errs = append(errs, parentErrs...)
	out.Parent = parent

	if len(errs) > 0 {
		return Result{Valid: false, Errors: errs}
	}
	return Result{Valid: true, Student: out}
}

// validateParent checks the optional guardian columns. Name and phone must
// be present together; email, when given, must look like an address.
func validateParent(row StudentRow) (*ParentContact, []FieldError) {
	name := strings.TrimSpace(row.ParentName)
	phone := strings.TrimSpace(row.ParentPhone)
	email := strings.TrimSpace(row.ParentEmail)
	rel := strings.TrimSpace(row.ParentRelationship)

	if name == "" && phone == "" && email == "" && rel == "" {
		return nil, nil
	}

	var errs []FieldError
	if name == "" {
		errs = append(errs, FieldError{Field: "parentName", Message: "parentName is required when parent details are provided"})
	}
	if phone == "" {
		errs = append(errs, FieldError{Field: "parentPhone", Message: "parentPhone is required when parent details are provided"})
	} else if !phonePattern.MatchString(phone) {
		errs = append(errs, FieldError{Field: "parentPhone", Message: "parentPhone must be a valid phone number"})
	}
	if email != "" && !emailPattern.MatchString(email) {
		errs = append(errs, FieldError{Field: "parentEmail", Message: "parentEmail must be a valid email address"})
	}
	if len(errs) > 0 {
		return nil, errs
	}
	if rel == "" {
		rel = "Guardian"
	}
	return &ParentContact{Name: name, Phone: phone, Email: email, Relationship: rel}, nil
}
