package capability

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

const columns = "id, name, description, is_generic, created_at, updated_at"

func scan(row interface{ Scan(...any) error }) (Capability, error) {
	var c Capability
	err := row.Scan(&c.ID, &c.Name, &c.Description, &c.IsGeneric, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func (s *Store) List(ctx context.Context, generic *bool) ([]Capability, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+columns+`
    FROM capabilities
    WHERE ($1::boolean IS NULL OR is_generic = $1)
    ORDER BY name
  `, generic)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Capability
	for rows.Next() {
		c, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) Get(ctx context.Context, id string) (Capability, error) {
	c, err := scan(s.DB.QueryRow(ctx, "SELECT "+columns+" FROM capabilities WHERE id = $1", id))
	if querier.IsMissing(err) {
		return Capability{}, ErrNotFound
	}
	return c, err
}

func (s *Store) Create(ctx context.Context, c Capability) (Capability, error) {
	out, err := scan(s.DB.QueryRow(ctx, `
    INSERT INTO capabilities (name, description, is_generic)
    VALUES ($1,$2,$3)
    RETURNING `+columns, c.Name, c.Description, c.IsGeneric))
	if querier.IsUniqueViolation(err) {
		return Capability{}, ErrDuplicateName
	}
	return out, err
}

func (s *Store) Update(ctx context.Context, c Capability) (Capability, error) {
	out, err := scan(s.DB.QueryRow(ctx, `
    UPDATE capabilities
    SET name = $2, description = $3, is_generic = $4, updated_at = now()
    WHERE id = $1
    RETURNING `+columns, c.ID, c.Name, c.Description, c.IsGeneric))
	if querier.IsMissing(err) {
		return Capability{}, ErrNotFound
	}
	if querier.IsUniqueViolation(err) {
		return Capability{}, ErrDuplicateName
	}
	return out, err
}

// Delete cascades to assessments and suggestions through foreign keys.
func (s *Store) Delete(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM capabilities WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
