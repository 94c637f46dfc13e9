package suggestion

import (
	"context"

	"trainhub/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

const selectSuggestion = `
    SELECT s.id, s.capability_id, c.name, s.role_ids, s.department_ids, s.training_type, s.level,
           s.mandatory, s.score_achieved, s.gap, s.topic_suggestions, s.selected_topics, s.suggested_by,
           s.created_at, s.updated_at
    FROM training_suggestions s
    JOIN capabilities c ON c.id = s.capability_id`

func scan(row interface{ Scan(...any) error }) (Suggestion, error) {
	var s Suggestion
	err := row.Scan(&s.ID, &s.CapabilityID, &s.CapabilityName, &s.RoleIDs, &s.DepartmentIDs, &s.TrainingType, &s.Level,
		&s.Mandatory, &s.ScoreAchieved, &s.Gap, &s.TopicSuggestions, &s.SelectedTopics, &s.SuggestedBy,
		&s.CreatedAt, &s.UpdatedAt)
	return s, err
}

func (s *Store) List(ctx context.Context, capabilityID string) ([]Suggestion, error) {
	rows, err := s.DB.Query(ctx, selectSuggestion+`
    WHERE ($1 = '' OR s.capability_id::text = $1)
    ORDER BY s.created_at DESC`, capabilityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Suggestion
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func (s *Store) Get(ctx context.Context, id string) (Suggestion, error) {
	item, err := scan(s.DB.QueryRow(ctx, selectSuggestion+" WHERE s.id = $1", id))
	if querier.IsMissing(err) {
		return Suggestion{}, ErrNotFound
	}
	return item, err
}

func (s *Store) Create(ctx context.Context, item Suggestion) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO training_suggestions (
      capability_id, role_ids, department_ids, training_type, level, mandatory,
      score_achieved, gap, topic_suggestions, selected_topics, suggested_by
    )
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
    RETURNING id
  `, item.CapabilityID, item.RoleIDs, item.DepartmentIDs, item.TrainingType, item.Level, item.Mandatory,
		item.ScoreAchieved, item.Gap, item.TopicSuggestions, item.SelectedTopics, item.SuggestedBy).Scan(&id)
	return id, err
}

func (s *Store) Update(ctx context.Context, item Suggestion) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE training_suggestions
    SET capability_id = $2, role_ids = $3, department_ids = $4, training_type = $5, level = $6,
        mandatory = $7, score_achieved = $8, gap = $9, topic_suggestions = $10, selected_topics = $11,
        updated_at = now()
    WHERE id = $1
  `, item.ID, item.CapabilityID, item.RoleIDs, item.DepartmentIDs, item.TrainingType, item.Level,
		item.Mandatory, item.ScoreAchieved, item.Gap, item.TopicSuggestions, item.SelectedTopics)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// AppendTopics adds topics that are not already present, keeping existing order.
func (s *Store) AppendTopics(ctx context.Context, id string, topics []string) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE training_suggestions
    SET topic_suggestions = topic_suggestions || ARRAY(
          SELECT t FROM unnest($2::text[]) WITH ORDINALITY AS n(t, ord)
          WHERE t <> ALL(topic_suggestions)
          ORDER BY ord
        ),
        updated_at = now()
    WHERE id = $1
  `, id, topics)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM training_suggestions WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
