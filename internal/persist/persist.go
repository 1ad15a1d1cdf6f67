/*
Package persist is the durable-storage capability behind the wizard's
save/load affordance. The wizard only sees the small KV interface, so the
core stays testable without a real backend; the Postgres and in-memory
implementations live alongside it.
*/
package persist

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"vitaplan/internal/routine"
)

// KV is the minimal key-value capability the wizard needs. Get reports
// presence separately from failure so a missing key is not an error.
type KV interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte) error
}

// RoutineStore persists a client's last-saved routine and health goals as two
// keyed JSON blobs on top of a KV backend. Reads are defensive: a blob that
// fails to parse or has the wrong shape is treated as absent, never as a
// fault that escapes to the caller.
type RoutineStore struct {
	kv KV
}

func NewRoutineStore(kv KV) *RoutineStore {
	return &RoutineStore{kv: kv}
}

func routineKey(clientID string) string { return "saved_routine:" + clientID }
func goalsKey(clientID string) string   { return "saved_goals:" + clientID }

// SaveRoutine writes the effective routine and the goal identifiers for a
// client. The two blobs are written in parallel; any failure surfaces as a
// single error for the caller to report.
func (s *RoutineStore) SaveRoutine(ctx context.Context, clientID string, items []routine.Item, goals []string) error {
	routineBlob, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode routine: %w", err)
	}
	goalsBlob, err := json.Marshal(goals)
	if err != nil {
		return fmt.Errorf("encode goals: %w", err)
	}

	g, grpCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.kv.Set(grpCtx, routineKey(clientID), routineBlob)
	})
	g.Go(func() error {
		return s.kv.Set(grpCtx, goalsKey(clientID), goalsBlob)
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("persist routine: %w", err)
	}
	return nil
}

// LoadRoutine reads a client's saved routine and goals. ok is false when no
// usable routine exists, whether the key is missing or the payload is
// malformed. Goals degrade independently: a saved routine with unreadable
// goals still loads, with goals == nil for the caller to default.
func (s *RoutineStore) LoadRoutine(ctx context.Context, clientID string) (items []routine.Item, goals []string, ok bool, err error) {
	var routineBlob, goalsBlob []byte
	var routineOK, goalsOK bool

	g, grpCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var e error
		routineBlob, routineOK, e = s.kv.Get(grpCtx, routineKey(clientID))
		return e
	})
	g.Go(func() error {
		var e error
		goalsBlob, goalsOK, e = s.kv.Get(grpCtx, goalsKey(clientID))
		return e
	})
	if err := g.Wait(); err != nil {
		return nil, nil, false, fmt.Errorf("read saved routine: %w", err)
	}

	if !routineOK {
		return nil, nil, false, nil
	}

	items, ok = decodeRoutine(routineBlob)
	if !ok {
		return nil, nil, false, nil
	}

	if goalsOK {
		goals = decodeGoals(goalsBlob)
	}
	return items, goals, true, nil
}

// decodeRoutine validates the shape of a persisted routine blob: a non-empty
// array of objects that each carry the fields the schedule view depends on.
func decodeRoutine(blob []byte) ([]routine.Item, bool) {
	var items []routine.Item
	if err := json.Unmarshal(blob, &items); err != nil {
		log.Warn().Err(err).Msg("Saved routine blob is not valid JSON, treating as absent")
		return nil, false
	}
	if len(items) == 0 {
		return nil, false
	}
	for _, item := range items {
		if item.Supplement == "" || item.TimeOfDay == "" || item.Time == "" {
			log.Warn().Msg("Saved routine blob has malformed items, treating as absent")
			return nil, false
		}
	}
	return items, true
}

func decodeGoals(blob []byte) []string {
	var goals []string
	if err := json.Unmarshal(blob, &goals); err != nil {
		log.Warn().Err(err).Msg("Saved goals blob is malformed, falling back to default goal")
		return nil
	}
	return goals
}
