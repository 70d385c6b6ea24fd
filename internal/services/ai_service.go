package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/sashabaranov/go-openai"
	"google.golang.org/api/option"

	apperrors "github.com/vladimiradmaev/carb-calculator/internal/errors"
	"github.com/vladimiradmaev/carb-calculator/internal/utils"
)

const geminiModel = "gemini-1.5-flash"

// ErrNoProvider is returned when no AI key is configured.
var ErrNoProvider = errors.New("no AI provider configured")

// AIService suggests carbohydrate densities for foods the user has not
// entered yet. Gemini is asked first, OpenAI second.
type AIService struct {
	geminiClient *genai.Client
	openaiClient *openai.Client
	logger       *slog.Logger
}

// NewAIService creates clients for whichever keys are set. Both empty is
// allowed; EstimateCarbsPer100g then returns ErrNoProvider.
func NewAIService(ctx context.Context, geminiAPIKey, openaiAPIKey string, logger *slog.Logger) (*AIService, error) {
	s := &AIService{logger: logger.With("component", "ai")}

	if geminiAPIKey != "" {
		client, err := genai.NewClient(ctx, option.WithAPIKey(geminiAPIKey))
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini client: %w", err)
		}
		s.geminiClient = client
	}
	if openaiAPIKey != "" {
		s.openaiClient = openai.NewClient(openaiAPIKey)
	}
	return s, nil
}

// Enabled reports whether at least one provider is configured.
func (s *AIService) Enabled() bool {
	return s != nil && (s.geminiClient != nil || s.openaiClient != nil)
}

// Close releases the Gemini client.
func (s *AIService) Close() error {
	if s.geminiClient != nil {
		return s.geminiClient.Close()
	}
	return nil
}

func carbPrompt(food string) string {
	return fmt.Sprintf(`You are a nutrition database. How many grams of carbohydrate are in 100 grams of "%s"?

REQUIREMENTS:
- Use standard nutritional tables for the food as usually eaten
- Return ONLY a number between 0 and 100
- Do not include any text, units, or explanations

Example response format:
28`, food)
}

// EstimateCarbsPer100g asks the configured providers for a density. The
// result is a suggestion and is never saved by this service.
func (s *AIService) EstimateCarbsPer100g(ctx context.Context, food string) (float64, error) {
	food, err := validateName(food)
	if err != nil {
		return 0, err
	}
	if !s.Enabled() {
		return 0, ErrNoProvider
	}

	var lastErr error
	if s.geminiClient != nil {
		v, err := s.estimateWithGemini(ctx, food)
		if err == nil {
			return v, nil
		}
		s.logger.WarnContext(ctx, "Gemini estimate failed", "food", food, "error", err)
		lastErr = err
	}
	if s.openaiClient != nil {
		v, err := s.estimateWithOpenAI(ctx, food)
		if err == nil {
			return v, nil
		}
		s.logger.WarnContext(ctx, "OpenAI estimate failed", "food", food, "error", err)
		lastErr = err
	}

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return 0, apperrors.NewTimeoutError("carb estimate")
	}
	return 0, apperrors.NewExternalAPIError(lastErr, "carb estimate")
}

func (s *AIService) estimateWithGemini(ctx context.Context, food string) (float64, error) {
	model := s.geminiClient.GenerativeModel(geminiModel)
	resp, err := model.GenerateContent(ctx, genai.Text(carbPrompt(food)))
	if err != nil {
		return 0, fmt.Errorf("failed to generate content: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return 0, fmt.Errorf("empty Gemini response")
	}
	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return 0, fmt.Errorf("unexpected Gemini response part %T", resp.Candidates[0].Content.Parts[0])
	}
	return parseEstimate(string(text))
}

func (s *AIService) estimateWithOpenAI(ctx context.Context, food string) (float64, error) {
	resp, err := s.openaiClient.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: openai.GPT4oMini,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: carbPrompt(food),
				},
			},
		},
	)
	if err != nil {
		return 0, fmt.Errorf("failed to create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return 0, fmt.Errorf("empty OpenAI response")
	}
	return parseEstimate(resp.Choices[0].Message.Content)
}

var numberPattern = regexp.MustCompile(`\d+(?:[.,]\d+)?`)

// parseEstimate pulls the first number out of a model reply and checks it
// is a possible density.
func parseEstimate(reply string) (float64, error) {
	match := numberPattern.FindString(strings.TrimSpace(reply))
	if match == "" {
		return 0, fmt.Errorf("no number in reply %q", reply)
	}
	v, err := utils.ParseNumber(match)
	if err != nil {
		return 0, err
	}
	if v < 0 || v > 100 {
		return 0, fmt.Errorf("estimate %.1f is outside 0-100 g", v)
	}
	return v, nil
}
