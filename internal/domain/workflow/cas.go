package workflow

import "context"

// maxSwapAttempts bounds retries when concurrent writers keep moving the state.
const maxSwapAttempts = 3

// Loader reads the current state of an entity.
type Loader func(ctx context.Context) (State, error)

// Swapper persists t only if the stored state still equals t.From. It reports
// false when another writer got there first.
type Swapper func(ctx context.Context, t Transition) (bool, error)

// Persist validates action against the freshly loaded state and stores the
// result with compare-and-swap. A lost race re-reads the state so the caller
// sees the transition error for what is actually stored.
func (t *Table) Persist(ctx context.Context, load Loader, action Action, in Input, swap Swapper) (Transition, error) {
	var last Transition
	for attempt := 0; attempt < maxSwapAttempts; attempt++ {
		current, err := load(ctx)
		if err != nil {
			return Transition{}, err
		}
		tr, err := t.Apply(current, action, in)
		if err != nil {
			return Transition{}, err
		}
		if tr.Noop {
			return tr, nil
		}
		ok, err := swap(ctx, tr)
		if err != nil {
			return Transition{}, err
		}
		if ok {
			return tr, nil
		}
		last = tr
	}
	return Transition{}, &TransitionError{
		Entity:  t.entity,
		Current: last.From,
		Action:  action,
		Allowed: t.sourcesFor(action),
	}
}
