package intelligence

import (
	"context"
	"fmt"
	"strings"

	genai "github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Refiner turns a short user objective into the detailed instruction the
// voice agent follows on the call.
type Refiner interface {
	RefineInstruction(ctx context.Context, objective string) (string, error)
}

const refinerSystemPrompt = `You write system prompts for an AI voice agent that makes outbound calls (e.g., to receptionists).

Rules:
1. Transform the user's short input into a clear, detailed instruction the voice agent will follow.
2. The resulting instructions MUST tell the voice agent to be extremely concise and avoid long introductions. Receptionists are busy; the agent should state the purpose of the call in the first 10 seconds.
3. The agent has tools available: check_availability and confirm_booking. When booking appointments or checking schedules, instruct the agent to use check_availability to find open slots and confirm_booking to finalize the appointment.
4. Output only the refined instruction text - no meta-commentary or markdown.`

// GeminiRefiner implements Refiner on top of the Gemini API.
type GeminiRefiner struct {
	model *genai.GenerativeModel
}

func NewGeminiRefiner(apiKey string) (*GeminiRefiner, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel("models/gemini-1.5-pro")
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(refinerSystemPrompt)},
	}
	return &GeminiRefiner{model: model}, nil
}

func (g *GeminiRefiner) RefineInstruction(ctx context.Context, objective string) (string, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(objective))
	if err != nil {
		return "", fmt.Errorf("gemini generate error: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("gemini returned no candidates")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if textPart, ok := part.(genai.Text); ok {
			sb.WriteString(string(textPart))
		}
	}
	return strings.TrimSpace(sb.String()), nil
}
