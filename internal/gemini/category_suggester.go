package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gitlab.com/yelinaung/expense-api/internal/logger"
	"gitlab.com/yelinaung/expense-api/internal/models"
	"google.golang.org/genai"
)

// CategorySuggestion represents a suggested category for an expense
// description.
type CategorySuggestion struct {
	Category   string  `json:"category"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
}

// SuggestCategory asks Gemini for the most appropriate category from
// the fixed category set for the given expense description.
func (c *Client) SuggestCategory(ctx context.Context, description string) (*CategorySuggestion, error) {
	if c.generator == nil {
		return nil, fmt.Errorf("gemini client not initialized")
	}
	if description == "" {
		return nil, fmt.Errorf("description is required")
	}

	// Sanitized before embedding to block prompt injection.
	prompt := buildPrompt(sanitizeForPrompt(description, models.MaxDescriptionLength))

	timeoutCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: prompt},
			},
		},
	}

	temp := float32(0.3)
	config := &genai.GenerateContentConfig{
		Temperature:     &temp,
		MaxOutputTokens: int32(500),
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{
				{Text: "You are a JSON API. You MUST respond with ONLY valid JSON, no preamble or explanation. Output a single JSON object."},
			},
		},
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"category": {
					Type:        genai.TypeString,
					Enum:        models.Categories,
					Description: "The most appropriate category from the provided list",
				},
				"confidence": {
					Type:        genai.TypeNumber,
					Description: "Confidence score between 0 and 1",
				},
				"reasoning": {
					Type:        genai.TypeString,
					Description: "Brief explanation for the categorization",
				},
			},
			Required: []string{"category", "confidence", "reasoning"},
		},
	}

	resp, err := c.generator.GenerateContent(timeoutCtx, ModelName, contents, config)
	if err != nil {
		return nil, fmt.Errorf("gemini API call failed: %w", err)
	}
	if resp == nil {
		return nil, fmt.Errorf("no response from Gemini")
	}

	fullText := resp.Text()
	if fullText == "" {
		return nil, fmt.Errorf("no text content in response")
	}

	// Gemini sometimes includes preamble despite the JSON MIME type.
	jsonText := extractJSON(fullText)
	if jsonText == "" {
		return nil, fmt.Errorf("no JSON found in response")
	}

	var suggestion CategorySuggestion
	if err := json.Unmarshal([]byte(jsonText), &suggestion); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w", err)
	}

	matched := false
	for _, cat := range models.Categories {
		if strings.EqualFold(cat, suggestion.Category) {
			suggestion.Category = cat
			matched = true
			break
		}
	}
	if !matched {
		logger.Log.Warn().
			Str("suggested_category", suggestion.Category).
			Msg("SuggestCategory: category outside the fixed set")
		return nil, fmt.Errorf("suggested category %q not in category set", suggestion.Category)
	}

	if suggestion.Confidence < 0.0 || suggestion.Confidence > 1.0 {
		return nil, fmt.Errorf("confidence out of range: %f", suggestion.Confidence)
	}

	suggestion.Reasoning = sanitizeReasoning(suggestion.Reasoning)

	logger.Log.Debug().
		Str("description", logger.SanitizeDescription(description)).
		Str("category", suggestion.Category).
		Float64("confidence", suggestion.Confidence).
		Msg("SuggestCategory: matched category")

	return &suggestion, nil
}

// buildPrompt creates the categorization prompt.
func buildPrompt(description string) string {
	categoriesList := strings.Join(models.Categories, "\n- ")

	return fmt.Sprintf(`Categorize this expense: "%s"

Available categories:
- %s

Rules:
- Choose the MOST appropriate category from the list
- "Meals & Entertainment" covers restaurants, catering and client meals
- "Software & Subscriptions" covers SaaS, licenses and recurring tools
- Use "Other" only when nothing else fits
- Higher confidence (0.8-1.0) for obvious categories, lower (0.5-0.7) for ambiguous ones

Return JSON only:
{"category": "exact category name", "confidence": 0.0-1.0, "reasoning": "brief explanation"}`, description, categoriesList)
}

// extractJSON extracts a JSON object from text that may contain
// preamble around it.
func extractJSON(text string) string {
	text = strings.TrimSpace(text)

	start := strings.Index(text, "{")
	if start == -1 {
		return ""
	}
	end := strings.LastIndex(text, "}")
	if end == -1 || end <= start {
		return ""
	}
	return text[start : end+1]
}

// sanitizeForPrompt strips characters that could break prompt
// structure and truncates to maxLength.
func sanitizeForPrompt(input string, maxLength int) string {
	input = strings.ReplaceAll(input, `"`, `'`)
	input = strings.ReplaceAll(input, "`", "'")
	input = strings.ReplaceAll(input, "\x00", "")

	// Collapse all whitespace runs, including newlines, to single spaces.
	input = strings.Join(strings.Fields(input), " ")

	if len(input) > maxLength {
		input = strings.TrimSpace(input[:maxLength])
	}
	return input
}

// sanitizeReasoning normalizes and bounds the reasoning text returned
// by the model before it is passed on to clients.
func sanitizeReasoning(reasoning string) string {
	reasoning = strings.Join(strings.Fields(reasoning), " ")

	const maxReasoningLength = 500
	if len(reasoning) > maxReasoningLength {
		reasoning = strings.TrimSpace(reasoning[:maxReasoningLength])
	}
	return reasoning
}
