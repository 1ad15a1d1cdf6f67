/*
Package wizard drives the three-step routine generator flow: health goals,
lifestyle, results. Each browser tab owns one Session; the session holds the
in-progress form data, talks to the recommendation collaborator, and applies
the transition rules (validation, back, saved-routine shortcut).
*/
package wizard

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"vitaplan/internal/notify"
	"vitaplan/internal/persist"
	"vitaplan/internal/routine"
)

// Step is the wizard's visible state.
type Step int

const (
	StepGoals     Step = 1
	StepLifestyle Step = 2
	StepResults   Step = 3
)

// DefaultGoal is assumed when a saved routine exists but its goals blob is
// absent or malformed.
const DefaultGoal = "general health"

// HealthGoals is the step-1 payload.
type HealthGoals struct {
	HealthGoals []string `json:"healthGoals"`
	OtherGoals  string   `json:"otherGoals"`
}

// Lifestyle is the step-2 payload.
type Lifestyle struct {
	WakeTime       string `json:"wakeTime"`
	SleepTime      string `json:"sleepTime"`
	SleepQuality   int    `json:"sleepQuality"`
	StressLevel    int    `json:"stressLevel"`
	MenstrualPhase string `json:"menstrualPhase"`
	DietPreference string `json:"dietPreference"`
	FoodAllergies  string `json:"foodAllergies"`
}

// DefaultLifestyle mirrors the form's initial values.
func DefaultLifestyle() Lifestyle {
	return Lifestyle{
		WakeTime:       "07:00",
		SleepTime:      "23:00",
		SleepQuality:   3,
		StressLevel:    3,
		DietPreference: "omnivore",
	}
}

// Generator is the recommendation collaborator contract: one asynchronous
// call returning either a recommendation or a failure with a human-readable
// cause. Its internals (LLM prompting) are out of the wizard's scope.
type Generator interface {
	Generate(ctx context.Context, goals HealthGoals, lifestyle Lifestyle) (routine.Recommendation, error)
}

// Notifier is the side channel for outcomes that must not surface as request
// errors, such as save confirmations. *notify.Hub implements it.
type Notifier interface {
	Notify(sessionID string, n notify.Notification)
}

// Session is one tab's wizard state. All methods are safe for concurrent use;
// the transport layer may overlap requests even though each logical session
// has a single user.
type Session struct {
	ID       string
	ClientID string // persistence key shared by the tab's saves

	mu        sync.Mutex
	step      Step
	goals     HealthGoals
	lifestyle Lifestyle
	rec       *routine.Recommendation
	edits     *routine.EditLog

	// genSeq invalidates in-flight generation results: any navigation away
	// from the lifestyle step bumps it, and a result only commits when the
	// sequence it was started under is still current.
	genSeq  uint64
	pending bool

	store    *persist.RoutineStore
	notifier Notifier
}

// NewSession starts a session at the goals step with default lifestyle
// values.
func NewSession(id, clientID string, store *persist.RoutineStore, notifier Notifier) *Session {
	return &Session{
		ID:        id,
		ClientID:  clientID,
		step:      StepGoals,
		lifestyle: DefaultLifestyle(),
		store:     store,
		notifier:  notifier,
	}
}

// Step returns the current wizard step.
func (s *Session) Step() Step {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.step
}

// SubmitGoals validates and stores the step-1 data, then advances to the
// lifestyle step. With no goal selected the session stays at the goals step
// and the caller gets an inline validation message.
func (s *Session) SubmitGoals(goals HealthGoals) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.step != StepGoals {
		return &ValidationError{Msg: "health goals can only be submitted from step 1"}
	}
	if len(goals.HealthGoals) == 0 {
		return &ValidationError{Msg: "Please select at least one health goal"}
	}

	s.goals = goals
	s.step = StepLifestyle
	log.Info().Str("session_id", s.ID).Strs("goals", goals.HealthGoals).Msg("Goals submitted, advancing to lifestyle step")
	return nil
}

// SubmitLifestyle stores the step-2 data and invokes the recommendation
// collaborator. The call is not cancellable by the user but is safe to retry:
// nothing commits on failure. A single generation may be in flight per
// session, and a result that lands after the user navigated away is discarded
// rather than allowed to corrupt later state.
func (s *Session) SubmitLifestyle(ctx context.Context, lifestyle Lifestyle, gen Generator) error {
	s.mu.Lock()
	if s.step != StepLifestyle {
		s.mu.Unlock()
		return &ValidationError{Msg: "lifestyle can only be submitted from step 2"}
	}
	if s.pending {
		s.mu.Unlock()
		return ErrGenerationInFlight
	}
	s.lifestyle = lifestyle
	s.pending = true
	token := s.genSeq
	goals := s.goals
	s.mu.Unlock()

	rec, genErr := gen.Generate(ctx, goals, lifestyle)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = false

	if genErr != nil {
		log.Error().Err(genErr).Str("session_id", s.ID).Msg("Recommendation collaborator failed")
		return &CollaboratorError{Cause: genErr}
	}
	if len(rec.SupplementRoutine) == 0 {
		// The schedule view assumes at least one item.
		return &CollaboratorError{Cause: errEmptyRoutine}
	}
	if s.step != StepLifestyle || s.genSeq != token {
		log.Warn().Str("session_id", s.ID).Msg("Discarding stale recommendation result")
		return ErrStaleResult
	}

	s.rec = &rec
	s.edits = routine.NewEditLog(rec.SupplementRoutine)
	s.step = StepResults
	log.Info().Str("session_id", s.ID).Int("items", len(rec.SupplementRoutine)).Msg("Recommendation generated, advancing to results")
	return nil
}

// Back retreats one step, floor at the goals step. Data entered on the step
// being left is kept.
func (s *Session) Back() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.step <= StepGoals {
		return
	}
	s.step--
	s.genSeq++
}

// LoadSaved rehydrates the last saved routine and jumps straight to the
// results step. Only the supplement schedule is persisted, so food
// suggestions come back empty; goals fall back to a single default when their
// blob is absent or malformed. A missing or invalid saved routine leaves the
// session where it is.
func (s *Session) LoadSaved(ctx context.Context) error {
	items, goals, ok, err := s.store.LoadRoutine(ctx, s.ClientID)
	if err != nil {
		return &PersistenceError{Cause: err}
	}
	if !ok {
		return ErrNoSavedRoutine
	}
	if len(goals) == 0 {
		goals = []string{DefaultGoal}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.rec = &routine.Recommendation{
		SupplementRoutine: items,
		FoodSuggestions:   routine.EmptyFoodSuggestions(),
	}
	s.edits = routine.NewEditLog(items)
	s.goals = HealthGoals{HealthGoals: goals}
	s.step = StepResults
	s.genSeq++
	log.Info().Str("session_id", s.ID).Int("items", len(items)).Msg("Loaded saved routine, jumping to results")
	return nil
}

// Save persists the effective (post-edit) routine and the health goals.
// The outcome is reported through the notification side channel only; save
// never fails toward its caller.
func (s *Session) Save(ctx context.Context) {
	s.mu.Lock()
	if s.step != StepResults || s.rec == nil {
		s.mu.Unlock()
		s.notifier.Notify(s.ID, notify.Notification{
			Level:   notify.LevelError,
			Title:   "Error",
			Message: "There is no routine to save yet.",
		})
		return
	}
	effective := s.edits.Effective()
	goals := s.goals.HealthGoals
	s.mu.Unlock()

	if err := s.store.SaveRoutine(ctx, s.ClientID, effective, goals); err != nil {
		log.Error().Err(err).Str("session_id", s.ID).Msg("Failed to persist routine")
		s.notifier.Notify(s.ID, notify.Notification{
			Level:   notify.LevelError,
			Title:   "Error",
			Message: "Failed to save your routine. Please try again.",
		})
		return
	}

	s.mu.Lock()
	s.edits.MarkSaved()
	s.mu.Unlock()

	s.notifier.Notify(s.ID, notify.Notification{
		Level:   notify.LevelSuccess,
		Title:   "Success",
		Message: "Your routine has been saved successfully!",
	})
}

// RemoveItem marks an original-array index as removed. Idempotent.
func (s *Session) RemoveItem(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.edits == nil {
		return &ValidationError{Msg: "no routine to edit"}
	}
	s.edits.Remove(index)
	return nil
}

// RestoreItem un-removes an index; no-op when it is not removed.
func (s *Session) RestoreItem(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.edits == nil {
		return &ValidationError{Msg: "no routine to edit"}
	}
	s.edits.Restore(index)
	return nil
}

// RestoreAll clears all removals.
func (s *Session) RestoreAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.edits == nil {
		return &ValidationError{Msg: "no routine to edit"}
	}
	s.edits.RestoreAll()
	return nil
}

// SwapItem replaces the routine entry matching the target's supplement name
// and time-of-day pair with the replacement. An unmatched target is logged
// and dropped.
func (s *Session) SwapItem(target, replacement routine.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.edits == nil {
		return &ValidationError{Msg: "no routine to edit"}
	}
	s.edits.Swap(target, replacement)
	return nil
}

// EffectiveRoutine is the post-edit routine in original order: swaps applied,
// removals filtered out.
func (s *Session) EffectiveRoutine() []routine.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.edits == nil {
		return nil
	}
	return s.edits.Effective()
}

// Goals returns the submitted (or rehydrated) step-1 data.
func (s *Session) Goals() HealthGoals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.goals
}

// Lifestyle returns the current step-2 data.
func (s *Session) Lifestyle() Lifestyle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lifestyle
}

// Snapshot is the session state a client needs to render the wizard.
type Snapshot struct {
	SessionID       string                   `json:"session_id"`
	Step            Step                     `json:"current_step"`
	Goals           HealthGoals              `json:"health_goals"`
	Lifestyle       Lifestyle                `json:"lifestyle"`
	Routine         []routine.Entry          `json:"routine,omitempty"`
	FoodSuggestions *routine.FoodSuggestions `json:"food_suggestions,omitempty"`
	RemovedIndices  []int                    `json:"removed_indices,omitempty"`
	UnsavedChanges  bool                     `json:"unsaved_changes"`
	Pending         bool                     `json:"generation_pending"`
}

// Snapshot captures the session for rendering. The routine comes pre-sorted
// for display (Morning < Midday < Evening < Night, stable within a bucket);
// each entry carries the original-array index the edit endpoints address it
// by, since sorting and removal filtering make positions in the rendered list
// meaningless for editing.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		SessionID: s.ID,
		Step:      s.step,
		Goals:     s.goals,
		Lifestyle: s.lifestyle,
		Pending:   s.pending,
	}
	if s.rec != nil && s.edits != nil {
		snap.Routine = routine.SortEntriesForDisplay(s.edits.EffectiveEntries())
		fs := s.rec.FoodSuggestions
		snap.FoodSuggestions = &fs
		snap.RemovedIndices = s.edits.RemovedIndices()
		snap.UnsavedChanges = s.edits.Dirty()
	}
	return snap
}
