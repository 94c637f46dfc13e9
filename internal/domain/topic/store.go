package topic

import (
	"context"

	"trainhub/internal/domain/workflow"
	"trainhub/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

const selectTopic = `
    SELECT id, topic_code, training_name, trainer_name, capability_area, capability_skill, type,
           proposed_schedule_date, content_link, video_link, assessment_link, status, management_remark,
           approved_by, approved_at, submitted_at, created_by, created_at, updated_at
    FROM training_topics`

func scan(row interface{ Scan(...any) error }) (Topic, error) {
	var t Topic
	var status string
	err := row.Scan(&t.ID, &t.TopicCode, &t.TrainingName, &t.TrainerName, &t.CapabilityArea, &t.CapabilitySkill, &t.Type,
		&t.ProposedScheduleDate, &t.ContentLink, &t.VideoLink, &t.AssessmentLink, &status, &t.ManagementRemark,
		&t.ApprovedBy, &t.ApprovedAt, &t.SubmittedAt, &t.CreatedBy, &t.CreatedAt, &t.UpdatedAt)
	t.Status = workflow.State(status)
	return t, err
}

func (s *Store) List(ctx context.Context, status string) ([]Topic, error) {
	rows, err := s.DB.Query(ctx, selectTopic+`
    WHERE ($1 = '' OR status = $1)
    ORDER BY created_at DESC`, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Topic
	for rows.Next() {
		t, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *Store) Get(ctx context.Context, id string) (Topic, error) {
	t, err := scan(s.DB.QueryRow(ctx, selectTopic+" WHERE id = $1", id))
	if querier.IsMissing(err) {
		return Topic{}, ErrNotFound
	}
	return t, err
}

// Create relies on the column default for topic_code.
func (s *Store) Create(ctx context.Context, t Topic) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO training_topics (
      training_name, trainer_name, capability_area, capability_skill, type, proposed_schedule_date,
      content_link, video_link, assessment_link, status, created_by
    )
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
    RETURNING id
  `, t.TrainingName, t.TrainerName, t.CapabilityArea, t.CapabilitySkill, t.Type, t.ProposedScheduleDate,
		t.ContentLink, t.VideoLink, t.AssessmentLink, string(t.Status), t.CreatedBy).Scan(&id)
	return id, err
}

func (s *Store) Update(ctx context.Context, t Topic, expected workflow.State) (bool, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE training_topics
    SET training_name = $3, trainer_name = $4, capability_area = $5, capability_skill = $6, type = $7,
        proposed_schedule_date = $8, content_link = $9, video_link = $10, assessment_link = $11, updated_at = now()
    WHERE id = $1 AND status = $2
  `, t.ID, string(expected), t.TrainingName, t.TrainerName, t.CapabilityArea, t.CapabilitySkill, t.Type,
		t.ProposedScheduleDate, t.ContentLink, t.VideoLink, t.AssessmentLink)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// Transition is a compare-and-swap on the previous status. Approve and reject
// stamp the approver; submit stamps the submission time.
func (s *Store) Transition(ctx context.Context, id string, tr workflow.Transition) (bool, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE training_topics
    SET status = $3,
        management_remark = CASE WHEN $4 <> '' THEN $4 ELSE management_remark END,
        submitted_at = CASE WHEN $5 = 'submit' THEN $6 ELSE submitted_at END,
        approved_by = CASE WHEN $5 IN ('approve', 'reject') THEN NULLIF($7, '')::uuid ELSE approved_by END,
        approved_at = CASE WHEN $5 IN ('approve', 'reject') THEN $6 ELSE approved_at END,
        updated_at = now()
    WHERE id = $1 AND status = $2
  `, id, string(tr.From), string(tr.To), tr.Remarks, string(tr.Action), tr.At, tr.Actor)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (s *Store) Delete(ctx context.Context, id string, expected workflow.State) (bool, error) {
	tag, err := s.DB.Exec(ctx, "DELETE FROM training_topics WHERE id = $1 AND status = $2", id, string(expected))
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}
