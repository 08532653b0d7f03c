package types

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// ApplicationForm is the payload for creating an application or submitting a
// full edit. Validation happens before any store call; a failing form never
// reaches the network.
type ApplicationForm struct {
	CompanyName        string    `json:"company_name" validate:"required,min=1"`
	CompanyLocation    string    `json:"company_location" validate:"required"`
	CompanyIndustry    string    `json:"company_industry" validate:"required"`
	CompanySalaryRange string    `json:"company_salary_range,omitempty"`
	Position           string    `json:"position" validate:"required"`
	Skills             []string  `json:"skills,omitempty" validate:"unique"`
	ApplicationDate    Date      `json:"application_date" validate:"required"`
	CoverLetter        string    `json:"cover_letter,omitempty"`
	SalaryExpectation  string    `json:"salary_expectation,omitempty"`
	ResumePath         string    `json:"resume_path,omitempty"`
	JobPostingURL      string    `json:"job_posting_url,omitempty" validate:"omitempty,url"`
	JobPostingContent  string    `json:"job_posting_content,omitempty"`
	Source             string    `json:"source" validate:"required"`
	WorkType           WorkType  `json:"work_type" validate:"required,oneof=remote hybrid onsite"`
	Notes              string    `json:"notes,omitempty"`
	Contacts           []Contact `json:"contacts"`
	Status             Status    `json:"status" validate:"required,oneof=applied test_case hr_interview technical_interview management_interview offer accepted rejected"`
}

// Validate validates the form using the validator.
func (f *ApplicationForm) Validate() error {
	validate := validator.New()
	return validate.Struct(f)
}

// Normalize trims whitespace on free-text identity fields, removes duplicate
// skills (case-sensitive exact match, first occurrence wins) and assigns ids
// to contacts that were added without one.
func (f *ApplicationForm) Normalize() {
	f.CompanyName = strings.TrimSpace(f.CompanyName)
	f.CompanyLocation = strings.TrimSpace(f.CompanyLocation)
	f.CompanyIndustry = strings.TrimSpace(f.CompanyIndustry)
	f.Position = strings.TrimSpace(f.Position)

	if len(f.Skills) > 0 {
		seen := make(map[string]bool, len(f.Skills))
		deduped := f.Skills[:0]
		for _, skill := range f.Skills {
			skill = strings.TrimSpace(skill)
			if skill == "" || seen[skill] {
				continue
			}
			seen[skill] = true
			deduped = append(deduped, skill)
		}
		f.Skills = deduped
	}

	for i := range f.Contacts {
		if f.Contacts[i].ID == uuid.Nil {
			f.Contacts[i].ID = uuid.New()
		}
	}
}
