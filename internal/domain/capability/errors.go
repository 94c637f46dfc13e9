package capability

import "trainhub/internal/domain/apperr"

var (
	ErrNotFound      = apperr.NotFound("capability")
	ErrDuplicateName = apperr.Validation("name", "capability already exists")
	ErrNameRequired  = apperr.Validation("name", "is required")
)
