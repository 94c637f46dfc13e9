package assessment

import (
	"context"
	"fmt"

	"trainhub/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

// The department head falls back to the department directory at read time
// unless an explicit contact was recorded on the assessment.
const selectAssessment = `
    SELECT a.id, a.capability_id, c.name, a.employee_id, COALESCE(e.full_name, ''),
           a.department, COALESCE(NULLIF(a.department_head, ''), d.head_email, ''),
           a.management_level, a.required_score, a.maximum_score, a.score_achieved,
           a.mandatory, a.assessment_link, a.training_mandatory_after_test, a.created_at, a.updated_at
    FROM capability_assessments a
    JOIN capabilities c ON c.id = a.capability_id
    LEFT JOIN employees e ON e.id = a.employee_id
    LEFT JOIN departments d ON lower(d.name) = lower(a.department)`

func scan(row interface{ Scan(...any) error }) (Assessment, error) {
	var a Assessment
	err := row.Scan(&a.ID, &a.CapabilityID, &a.CapabilityName, &a.RoleID, &a.EmployeeName,
		&a.DepartmentID, &a.DepartmentHead,
		&a.ManagementLevel, &a.RequiredScore, &a.MaximumScore, &a.ScoreAchieved,
		&a.Mandatory, &a.AssessmentLink, &a.TrainingMandatoryAfterTest, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

func (s *Store) List(ctx context.Context, filter Filter) ([]Assessment, error) {
	query := selectAssessment + " WHERE 1=1"
	args := []any{}
	if filter.CapabilityID != "" {
		args = append(args, filter.CapabilityID)
		query += fmt.Sprintf(" AND a.capability_id = $%d", len(args))
	}
	if filter.RoleID != "" {
		args = append(args, filter.RoleID)
		query += fmt.Sprintf(" AND a.employee_id = $%d", len(args))
	}
	if filter.Department != "" {
		args = append(args, filter.Department)
		query += fmt.Sprintf(" AND lower(a.department) = lower($%d)", len(args))
	}
	if filter.GapsOnly {
		query += " AND a.score_achieved IS NOT NULL AND a.score_achieved < a.required_score"
	}
	query += " ORDER BY a.created_at DESC"

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Assessment
	for rows.Next() {
		a, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *Store) Get(ctx context.Context, id string) (Assessment, error) {
	a, err := scan(s.DB.QueryRow(ctx, selectAssessment+" WHERE a.id = $1", id))
	if querier.IsMissing(err) {
		return Assessment{}, ErrNotFound
	}
	return a, err
}

func (s *Store) Latest(ctx context.Context, capabilityID, employeeID string) (Assessment, error) {
	a, err := scan(s.DB.QueryRow(ctx, selectAssessment+`
    WHERE a.capability_id = $1 AND a.employee_id = $2
    ORDER BY a.updated_at DESC
    LIMIT 1`, capabilityID, employeeID))
	if querier.IsMissing(err) {
		return Assessment{}, ErrNotFound
	}
	return a, err
}

func (s *Store) Create(ctx context.Context, a Assessment) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO capability_assessments (
      capability_id, employee_id, department, department_head, management_level,
      required_score, maximum_score, score_achieved, mandatory, assessment_link, training_mandatory_after_test
    )
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
    RETURNING id
  `, a.CapabilityID, a.RoleID, a.DepartmentID, a.DepartmentHead, a.ManagementLevel,
		a.RequiredScore, a.MaximumScore, a.ScoreAchieved, a.Mandatory, a.AssessmentLink, a.TrainingMandatoryAfterTest).Scan(&id)
	return id, err
}

func (s *Store) Update(ctx context.Context, a Assessment) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE capability_assessments
    SET capability_id = $2, employee_id = $3, department = $4, department_head = $5, management_level = $6,
        required_score = $7, maximum_score = $8, score_achieved = $9, mandatory = $10,
        assessment_link = $11, training_mandatory_after_test = $12, updated_at = now()
    WHERE id = $1
  `, a.ID, a.CapabilityID, a.RoleID, a.DepartmentID, a.DepartmentHead, a.ManagementLevel,
		a.RequiredScore, a.MaximumScore, a.ScoreAchieved, a.Mandatory, a.AssessmentLink, a.TrainingMandatoryAfterTest)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM capability_assessments WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
