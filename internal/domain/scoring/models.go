package scoring

import "time"

// LevelScore is the stored passing threshold for a management level.
type LevelScore struct {
	Level         int        `json:"level"`
	RequiredScore float64    `json:"requiredScore"`
	IsDefault     bool       `json:"isDefault"`
	UpdatedBy     string     `json:"updatedBy,omitempty"`
	UpdatedAt     *time.Time `json:"updatedAt,omitempty"`
}
