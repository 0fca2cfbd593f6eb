package outreach

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"callpilot/directory"
	"callpilot/models"
	"callpilot/services/intelligence"
	"callpilot/services/ranking"
)

// userTestPhone is the directory placeholder that routes a call to the
// requesting user's own number for end-to-end testing.
const userTestPhone = "USER_TEST_PHONE"

// AvailabilitySource reports the user's free calendar windows.
type AvailabilitySource interface {
	FreeSlots(ctx context.Context, preferredTime string) []string
}

// PreferenceOverrides narrows the provider pool for one request. A field
// left out keeps the value from the preference file (or its default).
type PreferenceOverrides struct {
	MinRating   *float64 `json:"min_rating,omitempty"`
	MaxDistance *float64 `json:"max_distance,omitempty"`
}

// SwarmRequest starts concurrent outreach against the top-ranked providers.
type SwarmRequest struct {
	UserPhone   string               `json:"user_phone"`
	Objective   string               `json:"objective"`
	Preferences *PreferenceOverrides `json:"preferences,omitempty"`
}

// SwarmResult is the per-session view returned to the caller.
type SwarmResult struct {
	Sessions []models.CallSession    `json:"sessions"`
	Ranked   []models.ScoredProvider `json:"ranked"`
}

// CampaignService runs solo and swarm outreach campaigns.
type CampaignService interface {
	StartSolo(ctx context.Context, phone, task string) (models.CallSession, error)
	StartSwarm(ctx context.Context, req SwarmRequest) (*SwarmResult, error)
}

// DefaultCampaignService implements CampaignService.
type DefaultCampaignService struct {
	Dir        directory.Directory
	Engine     ranking.Engine
	Refiner    intelligence.Refiner
	Calendar   AvailabilitySource
	Dispatcher Dispatcher
	SwarmSize  int
	Logger     *zap.Logger
}

// StartSolo refines the task and places a single call to the given number.
func (s *DefaultCampaignService) StartSolo(ctx context.Context, phone, task string) (models.CallSession, error) {
	refined, err := s.Refiner.RefineInstruction(ctx, task)
	if err != nil {
		return models.CallSession{}, fmt.Errorf("failed to refine task: %w", err)
	}

	s.Logger.Info("Solo outreach dispatching", zap.String("phone", phone))
	sessions := s.Dispatcher.Dispatch(ctx, []Target{{Phone: phone, Prompt: refined}})
	return sessions[0], nil
}

// StartSwarm loads and filters the provider pool, ranks it, checks calendar
// availability, refines the objective and dispatches the top-K concurrently.
func (s *DefaultCampaignService) StartSwarm(ctx context.Context, req SwarmRequest) (*SwarmResult, error) {
	prefs := s.Dir.Preferences()
	if req.Preferences != nil {
		if req.Preferences.MinRating != nil {
			prefs.MinRating = *req.Preferences.MinRating
		}
		if req.Preferences.MaxDistance != nil {
			prefs.MaxDistance = *req.Preferences.MaxDistance
		}
	}

	providers, err := s.Dir.Providers()
	if err != nil {
		return nil, err
	}

	ranked, err := s.Engine.Rank(ranking.FilterByPreferences(providers, prefs))
	if err != nil {
		return nil, err
	}

	top := ranked
	if s.SwarmSize > 0 && len(top) > s.SwarmSize {
		top = top[:s.SwarmSize]
	}

	freeSlots := s.Calendar.FreeSlots(ctx, prefs.PreferredTime)
	refined, err := s.Refiner.RefineInstruction(ctx, req.Objective)
	if err != nil {
		return nil, fmt.Errorf("failed to refine objective: %w", err)
	}

	targets := make([]Target, 0, len(top))
	for _, sp := range top {
		phone := sp.Provider.Phone
		if phone == userTestPhone {
			phone = req.UserPhone
		}
		targets = append(targets, Target{
			ProviderID:   sp.Provider.ID,
			ProviderName: sp.Provider.Name,
			Phone:        phone,
			Rank:         sp.Rank,
			Score:        sp.Score,
			Prompt:       buildAgentPrompt(sp, prefs.PreferredTime, freeSlots, refined),
		})
	}

	names := make([]string, 0, len(targets))
	for _, t := range targets {
		names = append(names, t.ProviderName)
	}
	s.Logger.Info("Swarm deployed", zap.Strings("providers", names))

	return &SwarmResult{
		Sessions: s.Dispatcher.Dispatch(ctx, targets),
		Ranked:   ranked,
	}, nil
}

// buildAgentPrompt composes the per-provider instruction: ranking context,
// the negotiation goal, the user's free windows, then the refined objective.
func buildAgentPrompt(sp models.ScoredProvider, preferredTime string, freeSlots []string, refined string) string {
	return fmt.Sprintf(
		"You are calling %s. They have a match score of %.2f and are %.1f miles away. "+
			"They are ranked #%d. Your goal is to negotiate a %s slot. "+
			"The user is free during these times: %s. "+
			"Only request slots that fall within these windows. %s",
		sp.Provider.Name, sp.Score, sp.Provider.DistanceMi, sp.Rank,
		preferredTime, strings.Join(freeSlots, ", "), refined)
}
