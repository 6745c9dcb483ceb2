package intelligence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"concierge/models"
	"concierge/utils"

	genai "github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// GeminiClient implements Interpreter on the Gemini API. The model is asked
// for a single JSON object matching the directive contract.
type GeminiClient struct {
	model *genai.GenerativeModel

	defaultHotelCode string
	defaultLanguage  string

	// now feeds the date context of the prompt; tests override it.
	now func() time.Time
}

func NewGeminiClient(apiKey, modelName, defaultHotelCode, defaultLanguage string) *GeminiClient {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		panic(fmt.Sprintf("failed to create Gemini client: %v", err))
	}

	model := client.GenerativeModel(modelName)
	model.ResponseMIMEType = "application/json"
	return &GeminiClient{
		model:            model,
		defaultHotelCode: defaultHotelCode,
		defaultLanguage:  defaultLanguage,
		now:              time.Now,
	}
}

func (g *GeminiClient) Interpret(ctx context.Context, sess *models.Session, utterance string) (*models.Directive, error) {
	logger := utils.GetLogger()

	prompt := BuildSystemPrompt(sess, g.defaultHotelCode, g.defaultLanguage, g.now()) +
		"\n\nLatest user message: " + utterance

	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		if isRateLimited(err) {
			return nil, ErrRateLimited
		}
		return nil, fmt.Errorf("gemini generate error: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("gemini returned no candidates")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if textPart, ok := part.(genai.Text); ok {
			sb.WriteString(string(textPart))
		}
	}
	raw := sb.String()
	logger.Debug("Interpreter raw response", zap.Int("length", len(raw)))

	directive, err := parseDirective(raw)
	if err != nil {
		logger.Error("Interpreter returned unparseable output", zap.Error(err), zap.String("raw", truncate(raw, 500)))
		return nil, err
	}
	return directive, nil
}

func isRateLimited(err error) bool {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code == 429
	}
	return false
}

// parseDirective unmarshals the model output, tolerating a markdown code
// fence around the JSON object.
func parseDirective(raw string) (*models.Directive, error) {
	trimmed := strings.TrimSpace(raw)
	if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimPrefix(trimmed, "```json")
		trimmed = strings.TrimPrefix(trimmed, "```")
		trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
		trimmed = strings.TrimSpace(trimmed)
	}

	var d models.Directive
	if err := json.Unmarshal([]byte(trimmed), &d); err != nil {
		return nil, fmt.Errorf("directive is not valid JSON: %w", err)
	}
	if strings.EqualFold(d.ToolName, "null") {
		d.ToolName = ""
	}
	if strings.EqualFold(d.ClarificationNeeded, "null") {
		d.ClarificationNeeded = ""
	}
	return &d, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
