package db

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ekaraca/jobtrack/internal/types"
)

// applicationColumns is the full select list for application rows. Optional
// text columns are coalesced so the domain struct can use plain strings.
const applicationColumns = `id, user_id, company_name, company_location, company_industry,
	COALESCE(company_salary_range, ''), position, skills, application_date,
	COALESCE(cover_letter, ''), COALESCE(salary_expectation, ''),
	COALESCE(resume_path, ''), COALESCE(job_posting_url, ''),
	COALESCE(job_posting_content, ''), source, work_type, COALESCE(notes, ''),
	contacts, status, is_pinned, created_at, updated_at`

func scanApplication(row pgx.Row) (*types.Application, error) {
	var a types.Application
	var skillsJSON, contactsJSON []byte

	err := row.Scan(&a.ID, &a.UserID, &a.CompanyName, &a.CompanyLocation,
		&a.CompanyIndustry, &a.CompanySalaryRange, &a.Position, &skillsJSON,
		&a.ApplicationDate, &a.CoverLetter, &a.SalaryExpectation, &a.ResumePath,
		&a.JobPostingURL, &a.JobPostingContent, &a.Source, &a.WorkType,
		&a.Notes, &contactsJSON, &a.Status, &a.IsPinned, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if skillsJSON != nil {
		if err := json.Unmarshal(skillsJSON, &a.Skills); err != nil {
			return nil, fmt.Errorf("failed to decode skills: %w", err)
		}
	}
	a.Contacts = []types.Contact{}
	if contactsJSON != nil {
		if err := json.Unmarshal(contactsJSON, &a.Contacts); err != nil {
			return nil, fmt.Errorf("failed to decode contacts: %w", err)
		}
	}

	return &a, nil
}

// ListApplications returns all applications owned by the user, newest
// created first.
func (db *DB) ListApplications(ctx context.Context, userID uuid.UUID) ([]types.Application, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+applicationColumns+`
		 FROM applications WHERE user_id = $1
		 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	defer rows.Close()

	var apps []types.Application
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		apps = append(apps, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read applications: %w", err)
	}

	return apps, nil
}

// GetApplication retrieves one application by id. A missing row is reported
// as (nil, nil), not an error.
func (db *DB) GetApplication(ctx context.Context, id uuid.UUID) (*types.Application, error) {
	a, err := scanApplication(db.pool.QueryRow(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE id = $1`,
		id,
	))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get application: %w", err)
	}
	return a, nil
}

// CreateApplication inserts a new application for the user. The id and both
// timestamps are assigned server-side; new applications start unpinned.
func (db *DB) CreateApplication(ctx context.Context, form *types.ApplicationForm, userID uuid.UUID) (*types.Application, error) {
	var skillsJSON, contactsJSON []byte
	var err error
	if len(form.Skills) > 0 {
		skillsJSON, err = json.Marshal(form.Skills)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal skills: %w", err)
		}
	}
	contacts := form.Contacts
	if contacts == nil {
		contacts = []types.Contact{}
	}
	contactsJSON, err = json.Marshal(contacts)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal contacts: %w", err)
	}

	a, err := scanApplication(db.pool.QueryRow(ctx,
		`INSERT INTO applications (user_id, company_name, company_location, company_industry,
		                           company_salary_range, position, skills, application_date,
		                           cover_letter, salary_expectation, resume_path,
		                           job_posting_url, job_posting_content, source, work_type,
		                           notes, contacts, status, is_pinned)
		 VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7, $8, NULLIF($9, ''), NULLIF($10, ''),
		         NULLIF($11, ''), NULLIF($12, ''), NULLIF($13, ''), $14, $15, NULLIF($16, ''),
		         $17, $18, FALSE)
		 RETURNING `+applicationColumns,
		userID, form.CompanyName, form.CompanyLocation, form.CompanyIndustry,
		form.CompanySalaryRange, form.Position, skillsJSON, form.ApplicationDate,
		form.CoverLetter, form.SalaryExpectation, form.ResumePath,
		form.JobPostingURL, form.JobPostingContent, form.Source, form.WorkType,
		form.Notes, contactsJSON, form.Status,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create application: %w", err)
	}
	return a, nil
}

// UpdateApplication applies a partial update. Only present patch fields are
// sent: cleared or empty optional fields null the column, absent fields are
// left untouched. updated_at is always refreshed. Returns the full updated
// row, or (nil, nil) when the row does not exist.
func (db *DB) UpdateApplication(ctx context.Context, id uuid.UUID, patch types.ApplicationPatch) (*types.Application, error) {
	set := []string{"updated_at = NOW()"}
	args := []interface{}{id}
	argPos := 2

	bind := func(col string, value interface{}) {
		set = append(set, fmt.Sprintf("%s = $%d", col, argPos))
		args = append(args, value)
		argPos++
	}
	text := func(col string, f types.Field[string]) {
		if !f.Present() {
			return
		}
		if f.Cleared() || f.Value() == "" {
			set = append(set, col+" = NULL")
			return
		}
		bind(col, f.Value())
	}

	text("company_salary_range", patch.CompanySalaryRange)
	text("cover_letter", patch.CoverLetter)
	text("salary_expectation", patch.SalaryExpectation)
	text("resume_path", patch.ResumePath)
	text("job_posting_url", patch.JobPostingURL)
	text("job_posting_content", patch.JobPostingContent)
	text("notes", patch.Notes)

	if patch.CompanyName.Present() {
		bind("company_name", patch.CompanyName.Value())
	}
	if patch.CompanyLocation.Present() {
		bind("company_location", patch.CompanyLocation.Value())
	}
	if patch.CompanyIndustry.Present() {
		bind("company_industry", patch.CompanyIndustry.Value())
	}
	if patch.Position.Present() {
		bind("position", patch.Position.Value())
	}
	if patch.ApplicationDate.Present() {
		bind("application_date", patch.ApplicationDate.Value())
	}
	if patch.Source.Present() {
		bind("source", patch.Source.Value())
	}
	if patch.WorkType.Present() {
		bind("work_type", patch.WorkType.Value())
	}
	if patch.Status.Present() {
		bind("status", patch.Status.Value())
	}
	if patch.Skills.Present() {
		if patch.Skills.Cleared() || len(patch.Skills.Value()) == 0 {
			set = append(set, "skills = NULL")
		} else {
			skillsJSON, err := json.Marshal(patch.Skills.Value())
			if err != nil {
				return nil, fmt.Errorf("failed to marshal skills: %w", err)
			}
			bind("skills", skillsJSON)
		}
	}
	if patch.Contacts.Present() {
		contacts := patch.Contacts.Value()
		if patch.Contacts.Cleared() || contacts == nil {
			contacts = []types.Contact{}
		}
		contactsJSON, err := json.Marshal(contacts)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal contacts: %w", err)
		}
		bind("contacts", contactsJSON)
	}

	query := fmt.Sprintf(
		`UPDATE applications SET %s WHERE id = $1 RETURNING %s`,
		strings.Join(set, ", "), applicationColumns,
	)

	a, err := scanApplication(db.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update application: %w", err)
	}
	return a, nil
}

// DeleteApplication removes the row. Cleaning up an attached resume object
// is the caller's responsibility.
func (db *DB) DeleteApplication(ctx context.Context, id uuid.UUID) error {
	_, err := db.pool.Exec(ctx, `DELETE FROM applications WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete application: %w", err)
	}
	return nil
}

// TogglePin flips the pin flag from the caller's view of its current value
// and refreshes updated_at.
func (db *DB) TogglePin(ctx context.Context, id uuid.UUID, current bool) (*types.Application, error) {
	a, err := scanApplication(db.pool.QueryRow(ctx,
		`UPDATE applications SET is_pinned = $2, updated_at = NOW()
		 WHERE id = $1
		 RETURNING `+applicationColumns,
		id, !current,
	))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to toggle pin: %w", err)
	}
	return a, nil
}

// SuggestSkills returns distinct skills across the user's applications that
// start with the given prefix, feeding the autocomplete lookup.
func (db *DB) SuggestSkills(ctx context.Context, userID uuid.UUID, prefix string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := db.pool.Query(ctx,
		`SELECT DISTINCT skill
		 FROM applications, jsonb_array_elements_text(skills) AS skill
		 WHERE user_id = $1 AND skill ILIKE $2 || '%'
		 ORDER BY skill
		 LIMIT $3`,
		userID, prefix, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to suggest skills: %w", err)
	}
	defer rows.Close()

	var skills []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("failed to scan skill: %w", err)
		}
		skills = append(skills, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read skills: %w", err)
	}

	return skills, nil
}
