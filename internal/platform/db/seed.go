package db

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"trainhub/internal/domain/auth"
	"trainhub/internal/platform/config"
	"trainhub/internal/platform/querier"
)

// SeedData is the shape of SEED_FILE. Every section is optional and rows that
// already exist are left alone.
type SeedData struct {
	Departments []struct {
		Name       string `yaml:"name"`
		HeadEmail  string `yaml:"headEmail"`
		GroupEmail string `yaml:"groupEmail"`
		ParentName string `yaml:"parentName"`
	} `yaml:"departments"`
	Employees []struct {
		EmployeeCode  string `yaml:"employeeCode"`
		FullName      string `yaml:"fullName"`
		OfficialEmail string `yaml:"officialEmail"`
		Department    string `yaml:"department"`
		Designation   string `yaml:"designation"`
		Level         int    `yaml:"level"`
	} `yaml:"employees"`
	Capabilities []struct {
		Name        string `yaml:"name"`
		Description string `yaml:"description"`
		Generic     bool   `yaml:"generic"`
	} `yaml:"capabilities"`
	RequiredScores []struct {
		Level int     `yaml:"level"`
		Score float64 `yaml:"score"`
	} `yaml:"requiredScores"`
	Users []struct {
		Email        string `yaml:"email"`
		Password     string `yaml:"password"`
		Role         string `yaml:"role"`
		EmployeeCode string `yaml:"employeeCode"`
	} `yaml:"users"`
}

func ParseSeed(raw []byte) (SeedData, error) {
	var data SeedData
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return SeedData{}, fmt.Errorf("parse seed file: %w", err)
	}
	for i, d := range data.Departments {
		if strings.TrimSpace(d.Name) == "" {
			return SeedData{}, fmt.Errorf("departments[%d]: name is required", i)
		}
	}
	for i, e := range data.Employees {
		if strings.TrimSpace(e.EmployeeCode) == "" || strings.TrimSpace(e.FullName) == "" {
			return SeedData{}, fmt.Errorf("employees[%d]: employeeCode and fullName are required", i)
		}
		if e.Level == 0 {
			data.Employees[i].Level = 1
		} else if e.Level < 1 || e.Level > 4 {
			return SeedData{}, fmt.Errorf("employees[%d]: level must be between 1 and 4", i)
		}
	}
	for i, c := range data.Capabilities {
		if strings.TrimSpace(c.Name) == "" {
			return SeedData{}, fmt.Errorf("capabilities[%d]: name is required", i)
		}
	}
	for i, rs := range data.RequiredScores {
		if rs.Level < 1 || rs.Level > 4 || rs.Score < 0 {
			return SeedData{}, fmt.Errorf("requiredScores[%d]: invalid level or score", i)
		}
	}
	for i, u := range data.Users {
		if !auth.ValidRole(u.Role) {
			return SeedData{}, fmt.Errorf("users[%d]: unknown role %q", i, u.Role)
		}
		if err := auth.ValidatePassword(u.Password); err != nil {
			return SeedData{}, fmt.Errorf("users[%d]: %w", i, err)
		}
	}
	return data, nil
}

func Seed(ctx context.Context, db querier.Querier, cfg config.Config) error {
	if err := ensureUser(ctx, db, cfg.SeedAdminEmail, cfg.SeedAdminPassword, auth.RoleAdmin, ""); err != nil {
		return err
	}
	if strings.TrimSpace(cfg.SeedFile) == "" {
		return nil
	}

	raw, err := os.ReadFile(cfg.SeedFile)
	if err != nil {
		return fmt.Errorf("read seed file: %w", err)
	}
	data, err := ParseSeed(raw)
	if err != nil {
		return err
	}
	return applySeed(ctx, db, data)
}

func applySeed(ctx context.Context, db querier.Querier, data SeedData) error {
	for _, d := range data.Departments {
		if _, err := db.Exec(ctx, `
      INSERT INTO departments (name, head_email, group_email, parent_name)
      VALUES ($1,$2,$3,$4)
      ON CONFLICT DO NOTHING
    `, strings.TrimSpace(d.Name), d.HeadEmail, d.GroupEmail, d.ParentName); err != nil {
			return err
		}
	}
	for _, e := range data.Employees {
		if _, err := db.Exec(ctx, `
      INSERT INTO employees (employee_code, full_name, official_email, department, designation, level)
      VALUES ($1,$2,$3,$4,$5,$6)
      ON CONFLICT (employee_code) DO NOTHING
    `, strings.TrimSpace(e.EmployeeCode), strings.TrimSpace(e.FullName), e.OfficialEmail, e.Department, e.Designation, e.Level); err != nil {
			return err
		}
	}
	for _, c := range data.Capabilities {
		if _, err := db.Exec(ctx, `
      INSERT INTO capabilities (name, description, is_generic)
      VALUES ($1,$2,$3)
      ON CONFLICT DO NOTHING
    `, strings.TrimSpace(c.Name), c.Description, c.Generic); err != nil {
			return err
		}
	}
	for _, rs := range data.RequiredScores {
		if _, err := db.Exec(ctx, `
      INSERT INTO required_score_by_level (level, required_score)
      VALUES ($1,$2)
      ON CONFLICT (level) DO NOTHING
    `, rs.Level, rs.Score); err != nil {
			return err
		}
	}
	for _, u := range data.Users {
		employeeID := ""
		if u.EmployeeCode != "" {
			err := db.QueryRow(ctx, "SELECT id::text FROM employees WHERE employee_code = $1", u.EmployeeCode).Scan(&employeeID)
			if err != nil && !querier.IsNoRows(err) {
				return err
			}
			if employeeID == "" {
				slog.Warn("seed user employee not found", "email", u.Email, "employeeCode", u.EmployeeCode)
			}
		}
		if err := ensureUser(ctx, db, u.Email, u.Password, u.Role, employeeID); err != nil {
			return err
		}
	}
	return nil
}

func ensureUser(ctx context.Context, db querier.Querier, email, password, role, employeeID string) error {
	email = auth.NormalizeEmail(email)
	if email == "" || strings.TrimSpace(password) == "" {
		return nil
	}

	var id string
	err := db.QueryRow(ctx, "SELECT id FROM users WHERE email = $1", email).Scan(&id)
	if err == nil {
		return nil
	}
	if !querier.IsNoRows(err) {
		return err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	_, err = db.Exec(ctx, `
    INSERT INTO users (email, password_hash, role, employee_id)
    VALUES ($1, $2, $3, NULLIF($4,'')::uuid)
  `, email, hash, role, employeeID)
	return err
}
