/*
Package aiservice is the recommendation collaborator: it prompts Gemini with
the user's health goals and lifestyle and parses the structured response into
the routine domain model. It also hosts the swap collaborator that proposes a
replacement for a single routine entry.
*/
package aiservice

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"vitaplan/internal/routine"
	"vitaplan/internal/wizard"
)

// Service implements wizard.Generator on top of the Gemini API.
type Service struct{}

func New() *Service {
	return &Service{}
}

// Generate produces a full recommendation for the submitted profile.
func (s *Service) Generate(ctx context.Context, goals wizard.HealthGoals, lifestyle wizard.Lifestyle) (routine.Recommendation, error) {
	goalsJSON, err := json.Marshal(goals)
	if err != nil {
		return routine.Recommendation{}, fmt.Errorf("encode goals: %w", err)
	}
	lifestyleJSON, err := json.Marshal(lifestyle)
	if err != nil {
		return routine.Recommendation{}, fmt.Errorf("encode lifestyle: %w", err)
	}

	userPrompt := fmt.Sprintf(userPromptTemplate, goalsJSON, lifestyleJSON)

	var rec routine.Recommendation
	if err := generateAndParse(ctx, "SupplementRoutine", SystemPrompt, userPrompt, RoutineSchema, &rec); err != nil {
		return routine.Recommendation{}, err
	}

	// The schedule and sync views iterate these without nil checks.
	if rec.FoodSuggestions.Breakfast == nil {
		rec.FoodSuggestions.Breakfast = []string{}
	}
	if rec.FoodSuggestions.Lunch == nil {
		rec.FoodSuggestions.Lunch = []string{}
	}
	if rec.FoodSuggestions.Snacks == nil {
		rec.FoodSuggestions.Snacks = []string{}
	}

	log.Info().Int("items", len(rec.SupplementRoutine)).Msg("Generated supplement routine")
	return rec, nil
}
