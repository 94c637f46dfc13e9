// Package workflow implements table-driven state machines for trainable
// entities. Each entity type declares its transitions as rules; the engine
// validates an action against the table before any state is mutated.
package workflow

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"trainhub/internal/domain/apperr"
)

type State string

type Action string

// Field names a value an action cannot proceed without.
type Field string

const (
	FieldRemarks       Field = "remarks"
	FieldScheduledDate Field = "scheduledDate"
	FieldTrainingDate  Field = "trainingDate"
)

// Rule is one row of a transition table.
type Rule struct {
	From     State
	Action   Action
	To       State
	Requires []Field
	// Noop rules accept the action but leave the entity untouched.
	Noop bool
}

type Input struct {
	Actor  string
	Fields map[Field]string
}

func (in Input) Value(field Field) string {
	if in.Fields == nil {
		return ""
	}
	return strings.TrimSpace(in.Fields[field])
}

type Transition struct {
	From    State     `json:"from"`
	To      State     `json:"to"`
	Action  Action    `json:"action"`
	Actor   string    `json:"actor"`
	Remarks string    `json:"remarks,omitempty"`
	At      time.Time `json:"at"`
	Noop    bool      `json:"noop"`
}

type ruleKey struct {
	from   State
	action Action
}

type Table struct {
	entity string
	rules  map[ruleKey]Rule
	order  []Rule
	now    func() time.Time
}

func NewTable(entity string, rules ...Rule) *Table {
	t := &Table{
		entity: entity,
		rules:  make(map[ruleKey]Rule, len(rules)),
		now:    time.Now,
	}
	for _, rule := range rules {
		key := ruleKey{from: rule.From, action: rule.Action}
		if _, dup := t.rules[key]; dup {
			panic(fmt.Sprintf("workflow: duplicate rule %s/%s for %s", rule.From, rule.Action, entity))
		}
		t.rules[key] = rule
		t.order = append(t.order, rule)
	}
	return t
}

// WithClock returns a copy of the table that stamps transitions with now.
func (t *Table) WithClock(now func() time.Time) *Table {
	clone := *t
	clone.now = now
	return &clone
}

func (t *Table) Entity() string {
	return t.entity
}

// Apply validates action against the current state and returns the resulting
// transition. It never mutates anything; persisting the result is the caller's job.
func (t *Table) Apply(current State, action Action, in Input) (Transition, error) {
	rule, ok := t.rules[ruleKey{from: current, action: action}]
	if !ok {
		return Transition{}, &TransitionError{
			Entity:  t.entity,
			Current: current,
			Action:  action,
			Allowed: t.sourcesFor(action),
		}
	}
	if !rule.Noop {
		for _, field := range rule.Requires {
			if in.Value(field) == "" {
				return Transition{}, apperr.Validation(string(field), fmt.Sprintf("is required to %s a %s", action, t.entity))
			}
		}
	}
	return Transition{
		From:    current,
		To:      rule.To,
		Action:  action,
		Actor:   in.Actor,
		Remarks: in.Value(FieldRemarks),
		At:      t.now().UTC(),
		Noop:    rule.Noop,
	}, nil
}

// Can reports whether action is legal from current, ignoring required fields.
func (t *Table) Can(current State, action Action) bool {
	_, ok := t.rules[ruleKey{from: current, action: action}]
	return ok
}

// Actions lists the actions available from a state, in declaration order.
func (t *Table) Actions(current State) []Action {
	out := make([]Action, 0, 4)
	for _, rule := range t.order {
		if rule.From == current && !rule.Noop {
			out = append(out, rule.Action)
		}
	}
	return out
}

func (t *Table) sourcesFor(action Action) []State {
	seen := map[State]bool{}
	var out []State
	for _, rule := range t.order {
		if rule.Action == action && !rule.Noop && !seen[rule.From] {
			seen[rule.From] = true
			out = append(out, rule.From)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// TransitionError names the state an entity is in and the states the action requires.
type TransitionError struct {
	Entity  string
	Current State
	Action  Action
	Allowed []State
}

func (e *TransitionError) Error() string {
	if len(e.Allowed) == 0 {
		return fmt.Sprintf("cannot %s %s: action is not supported", e.Action, e.Entity)
	}
	allowed := make([]string, len(e.Allowed))
	for i, s := range e.Allowed {
		allowed[i] = string(s)
	}
	return fmt.Sprintf("cannot %s %s in state %s (requires %s)", e.Action, e.Entity, e.Current, strings.Join(allowed, " or "))
}

func (e *TransitionError) Unwrap() error {
	return apperr.ErrInvalidTransition
}
