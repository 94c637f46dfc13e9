package auth

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

const userColumns = "id, email, role, employee_id::text, status, mfa_enabled, last_login, created_at"

func scanUser(row interface{ Scan(...any) error }, extra ...any) (User, error) {
	var u User
	dest := append([]any{&u.ID, &u.Email, &u.RoleName, &u.EmployeeID, &u.Status, &u.MFAEnabled, &u.LastLogin, &u.CreatedAt}, extra...)
	err := row.Scan(dest...)
	return u, err
}

func (s *Store) FindActiveUserByEmail(ctx context.Context, email string) (credentials, error) {
	var out credentials
	user, err := scanUser(s.DB.QueryRow(ctx, `
    SELECT `+userColumns+`, password_hash, mfa_secret_enc
    FROM users
    WHERE email = $1 AND status = $2
  `, email, UserStatusActive), &out.PasswordHash, &out.MFASecretEnc)
	if querier.IsNoRows(err) {
		return credentials{}, ErrInvalidCredentials
	}
	if err != nil {
		return credentials{}, err
	}
	out.User = user
	return out, nil
}

func (s *Store) GetUser(ctx context.Context, id string) (User, error) {
	u, err := scanUser(s.DB.QueryRow(ctx, "SELECT "+userColumns+" FROM users WHERE id = $1", id))
	if querier.IsNoRows(err) {
		return User{}, ErrUserNotFound
	}
	return u, err
}

func (s *Store) ListUsers(ctx context.Context) ([]User, error) {
	rows, err := s.DB.Query(ctx, "SELECT "+userColumns+" FROM users ORDER BY email")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (s *Store) CreateUser(ctx context.Context, u NewUser, passwordHash string) (User, error) {
	created, err := scanUser(s.DB.QueryRow(ctx, `
    INSERT INTO users (email, password_hash, role, employee_id, status)
    VALUES ($1, $2, $3, NULLIF($4,'')::uuid, $5)
    RETURNING `+userColumns,
		u.Email, passwordHash, u.RoleName, u.EmployeeID, UserStatusActive))
	if querier.IsUniqueViolation(err) {
		return User{}, ErrDuplicateEmail
	}
	if querier.IsForeignKeyViolation(err) {
		return User{}, ErrEmployeeMissing
	}
	return created, err
}

func (s *Store) UpdateLastLogin(ctx context.Context, userID string) error {
	_, err := s.DB.Exec(ctx, "UPDATE users SET last_login = now() WHERE id = $1", userID)
	return err
}

func (s *Store) UpdateMFASecret(ctx context.Context, userID string, secretEnc []byte) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE users SET mfa_secret_enc = $1, mfa_enabled = false WHERE id = $2
  `, secretEnc, userID)
	return err
}

func (s *Store) GetMFASecret(ctx context.Context, userID string) ([]byte, error) {
	var secretEnc []byte
	err := s.DB.QueryRow(ctx, "SELECT mfa_secret_enc FROM users WHERE id = $1", userID).Scan(&secretEnc)
	if querier.IsNoRows(err) {
		return nil, ErrUserNotFound
	}
	return secretEnc, err
}

func (s *Store) SetMFAEnabled(ctx context.Context, userID string, enabled bool) error {
	_, err := s.DB.Exec(ctx, "UPDATE users SET mfa_enabled = $1 WHERE id = $2", enabled, userID)
	return err
}
