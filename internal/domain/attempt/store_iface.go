package attempt

import "context"

type StoreAPI interface {
	// Insert claims the next attempt number, failing with ErrAttemptLimitExceeded
	// once MaxAttempts is reached and ErrSlotTaken on a concurrent claim.
	Insert(ctx context.Context, a Attempt, max int) (Attempt, error)
	List(ctx context.Context, trainingID, employeeID string) ([]Attempt, error)
}
