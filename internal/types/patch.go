package types

// Field is a tri-state value for partial updates. A zero Field is absent and
// the column is left untouched; Set provides a new value; Clear nulls the
// column. This keeps "not provided" and "explicitly cleared" distinguishable
// at the type level.
type Field[T any] struct {
	present bool
	cleared bool
	value   T
}

// Set returns a Field carrying v.
func Set[T any](v T) Field[T] {
	return Field[T]{present: true, value: v}
}

// Clear returns a Field that nulls the column.
func Clear[T any]() Field[T] {
	return Field[T]{present: true, cleared: true}
}

// Present reports whether the field was provided at all.
func (f Field[T]) Present() bool {
	return f.present
}

// Cleared reports whether the field explicitly clears the column.
func (f Field[T]) Cleared() bool {
	return f.cleared
}

// Value returns the carried value. Only meaningful when Present and not
// Cleared.
func (f Field[T]) Value() T {
	return f.value
}

// ApplicationPatch describes a partial update to an application. Only
// present fields are sent to the store; the store always refreshes
// updated_at regardless of which fields are present.
type ApplicationPatch struct {
	CompanyName        Field[string]
	CompanyLocation    Field[string]
	CompanyIndustry    Field[string]
	CompanySalaryRange Field[string]
	Position           Field[string]
	Skills             Field[[]string]
	ApplicationDate    Field[Date]
	CoverLetter        Field[string]
	SalaryExpectation  Field[string]
	ResumePath         Field[string]
	JobPostingURL      Field[string]
	JobPostingContent  Field[string]
	Source             Field[string]
	WorkType           Field[WorkType]
	Notes              Field[string]
	Contacts           Field[[]Contact]
	Status             Field[Status]
}

// IsZero reports whether the patch carries no fields at all.
func (p ApplicationPatch) IsZero() bool {
	return !p.CompanyName.Present() &&
		!p.CompanyLocation.Present() &&
		!p.CompanyIndustry.Present() &&
		!p.CompanySalaryRange.Present() &&
		!p.Position.Present() &&
		!p.Skills.Present() &&
		!p.ApplicationDate.Present() &&
		!p.CoverLetter.Present() &&
		!p.SalaryExpectation.Present() &&
		!p.ResumePath.Present() &&
		!p.JobPostingURL.Present() &&
		!p.JobPostingContent.Present() &&
		!p.Source.Present() &&
		!p.WorkType.Present() &&
		!p.Notes.Present() &&
		!p.Contacts.Present() &&
		!p.Status.Present()
}

// PatchFromForm builds a full patch out of a complete edit form. Optional
// fields left empty on the form clear the stored column, matching the edit
// form's save semantics.
func PatchFromForm(f *ApplicationForm) ApplicationPatch {
	p := ApplicationPatch{
		CompanyName:     Set(f.CompanyName),
		CompanyLocation: Set(f.CompanyLocation),
		CompanyIndustry: Set(f.CompanyIndustry),
		Position:        Set(f.Position),
		ApplicationDate: Set(f.ApplicationDate),
		Source:          Set(f.Source),
		WorkType:        Set(f.WorkType),
		Status:          Set(f.Status),
		Contacts:        Set(f.Contacts),
	}
	p.CompanySalaryRange = setOrClear(f.CompanySalaryRange)
	p.CoverLetter = setOrClear(f.CoverLetter)
	p.SalaryExpectation = setOrClear(f.SalaryExpectation)
	p.ResumePath = setOrClear(f.ResumePath)
	p.JobPostingURL = setOrClear(f.JobPostingURL)
	p.JobPostingContent = setOrClear(f.JobPostingContent)
	p.Notes = setOrClear(f.Notes)
	if len(f.Skills) > 0 {
		p.Skills = Set(f.Skills)
	} else {
		p.Skills = Clear[[]string]()
	}
	return p
}

func setOrClear(s string) Field[string] {
	if s == "" {
		return Clear[string]()
	}
	return Set(s)
}
