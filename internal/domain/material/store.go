package material

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

const selectMaterial = `
    SELECT m.id, m.training_schedule_id, s.training_name, m.content_file, m.video_url,
           m.assessment_id, m.uploaded_by, m.created_at, m.updated_at
    FROM training_materials m
    JOIN training_schedules s ON s.id = m.training_schedule_id`

func scan(row interface{ Scan(...any) error }) (Material, error) {
	var m Material
	err := row.Scan(&m.ID, &m.ScheduleID, &m.TrainingName, &m.ContentFile, &m.VideoURL,
		&m.AssessmentID, &m.UploadedBy, &m.CreatedAt, &m.UpdatedAt)
	return m, err
}

func (s *Store) List(ctx context.Context, filter Filter) ([]Material, error) {
	query := selectMaterial + " WHERE 1=1"
	args := []any{}
	if filter.ScheduleID != "" {
		args = append(args, filter.ScheduleID)
		query += fmt.Sprintf(" AND m.training_schedule_id = $%d", len(args))
	}
	query += " ORDER BY m.created_at DESC"

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Material
	for rows.Next() {
		m, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *Store) Get(ctx context.Context, id string) (Material, error) {
	m, err := scan(s.DB.QueryRow(ctx, selectMaterial+" WHERE m.id = $1", id))
	if querier.IsMissing(err) {
		return Material{}, ErrNotFound
	}
	return m, err
}

func (s *Store) Create(ctx context.Context, m Material) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO training_materials (training_schedule_id, content_file, video_url, assessment_id, uploaded_by)
    VALUES ($1,$2,$3,$4,$5)
    RETURNING id
  `, m.ScheduleID, m.ContentFile, m.VideoURL, m.AssessmentID, m.UploadedBy).Scan(&id)
	if querier.IsCheckViolation(err) {
		return "", ErrContentRequired
	}
	return id, err
}

func (s *Store) Update(ctx context.Context, m Material) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE training_materials
    SET content_file = $2, video_url = $3, assessment_id = $4, updated_at = now()
    WHERE id = $1
  `, m.ID, m.ContentFile, m.VideoURL, m.AssessmentID)
	if querier.IsCheckViolation(err) {
		return ErrContentRequired
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM training_materials WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
