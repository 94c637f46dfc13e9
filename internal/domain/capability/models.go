package capability

import "time"

type Capability struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	IsGeneric   bool      `json:"isGeneric"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type Patch struct {
	Name        *string
	Description *string
	IsGeneric   *bool
}
