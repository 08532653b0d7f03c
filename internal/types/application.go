// Package types provides type definitions for structured data used throughout the jobtrack system.
package types

import (
	"time"

	"github.com/google/uuid"
)

// Status is the stage of a job application in the pipeline.
type Status string

// Canonical application statuses. No other value is valid.
const (
	StatusApplied             Status = "applied"
	StatusTestCase            Status = "test_case"
	StatusHRInterview         Status = "hr_interview"
	StatusTechnicalInterview  Status = "technical_interview"
	StatusManagementInterview Status = "management_interview"
	StatusOffer               Status = "offer"
	StatusAccepted            Status = "accepted"
	StatusRejected            Status = "rejected"
)

// StatusOrder is the canonical pipeline order, used for kanban columns.
var StatusOrder = []Status{
	StatusApplied,
	StatusTestCase,
	StatusHRInterview,
	StatusTechnicalInterview,
	StatusManagementInterview,
	StatusOffer,
	StatusAccepted,
	StatusRejected,
}

// StatusLabels maps statuses to display labels.
var StatusLabels = map[Status]string{
	StatusApplied:             "Applied",
	StatusTestCase:            "Test Case",
	StatusHRInterview:         "HR Interview",
	StatusTechnicalInterview:  "Technical Interview",
	StatusManagementInterview: "Management Interview",
	StatusOffer:               "Offer",
	StatusAccepted:            "Accepted",
	StatusRejected:            "Rejected",
}

// Valid reports whether s is one of the canonical statuses.
func (s Status) Valid() bool {
	_, ok := StatusLabels[s]
	return ok
}

// WorkType is the working arrangement of a position.
type WorkType string

// Work type constants
const (
	WorkTypeRemote WorkType = "remote"
	WorkTypeHybrid WorkType = "hybrid"
	WorkTypeOnsite WorkType = "onsite"
)

// WorkTypeLabels maps work types to display labels.
var WorkTypeLabels = map[WorkType]string{
	WorkTypeRemote: "Remote",
	WorkTypeHybrid: "Hybrid",
	WorkTypeOnsite: "On-site",
}

// Valid reports whether w is a known work type.
func (w WorkType) Valid() bool {
	_, ok := WorkTypeLabels[w]
	return ok
}

// Contact is a person attached to an application. Contacts are embedded in
// the application row and are not independently addressable; the id is
// client-generated and stable across edits.
type Contact struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Role     string    `json:"role,omitempty"`
	Email    string    `json:"email,omitempty"`
	Phone    string    `json:"phone,omitempty"`
	LinkedIn string    `json:"linkedin,omitempty"`
	Notes    string    `json:"notes,omitempty"`
}

// Application is a single tracked job application.
// ID, CreatedAt and UpdatedAt are assigned by the record store on creation
// and are never client-chosen.
type Application struct {
	ID                 uuid.UUID `json:"id"`
	UserID             uuid.UUID `json:"user_id"`
	CompanyName        string    `json:"company_name"`
	CompanyLocation    string    `json:"company_location"`
	CompanyIndustry    string    `json:"company_industry"`
	CompanySalaryRange string    `json:"company_salary_range,omitempty"`
	Position           string    `json:"position"`
	Skills             []string  `json:"skills,omitempty"`
	ApplicationDate    Date      `json:"application_date"`
	CoverLetter        string    `json:"cover_letter,omitempty"`
	SalaryExpectation  string    `json:"salary_expectation,omitempty"`
	ResumePath         string    `json:"resume_path,omitempty"`
	JobPostingURL      string    `json:"job_posting_url,omitempty"`
	JobPostingContent  string    `json:"job_posting_content,omitempty"`
	Source             string    `json:"source"`
	WorkType           WorkType  `json:"work_type"`
	Notes              string    `json:"notes,omitempty"`
	Contacts           []Contact `json:"contacts"`
	Status             Status    `json:"status"`
	IsPinned           bool      `json:"is_pinned"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// Clone returns a deep copy of the application. Slices are copied so the
// clone can be mutated without aliasing the original.
func (a Application) Clone() Application {
	out := a
	if a.Skills != nil {
		out.Skills = make([]string, len(a.Skills))
		copy(out.Skills, a.Skills)
	}
	if a.Contacts != nil {
		out.Contacts = make([]Contact, len(a.Contacts))
		copy(out.Contacts, a.Contacts)
	}
	return out
}
