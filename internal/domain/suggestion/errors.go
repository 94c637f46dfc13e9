package suggestion

import "trainhub/internal/domain/apperr"

var ErrNotFound = apperr.NotFound("training suggestion")
