package feedback

import "trainhub/internal/domain/apperr"

var (
	ErrDuplicate = apperr.ErrDuplicateFeedback
	ErrClosed    = apperr.ErrFeedbackWindowClosed
)

const (
	MinRating = 1
	MaxRating = 5
)
