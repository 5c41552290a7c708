package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const DefaultModel = "gemini-pro"

const promptTemplate = `You are an event tag suggestion expert. Given an event description, you will suggest relevant tags for the event.

Description: %s

Suggest at least 5 tags. The tags should be short and descriptive.  The tags should be suitable for filtering and searching events. Return a JSON array of strings.`

var errEmptyResponse = errors.New("model returned no content")

// Tagger suggests event tags with a Gemini model.
type Tagger struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

func New(ctx context.Context, apiKey, model string) (*Tagger, error) {
	if model == "" {
		model = DefaultModel
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	m := client.GenerativeModel(model)
	m.ResponseMIMEType = "application/json"
	m.ResponseSchema = &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"tags": {
				Type:        genai.TypeArray,
				Items:       &genai.Schema{Type: genai.TypeString},
				Description: "An array of suggested tags for the event description.",
			},
		},
		Required: []string{"tags"},
	}
	return &Tagger{client: client, model: m}, nil
}

func (t *Tagger) SuggestTags(ctx context.Context, description string) ([]string, error) {
	resp, err := t.model.GenerateContent(ctx, genai.Text(fmt.Sprintf(promptTemplate, description)))
	if err != nil {
		return nil, err
	}
	return parseResponse(resp)
}

func (t *Tagger) Close() error {
	return t.client.Close()
}

func parseResponse(resp *genai.GenerateContentResponse) ([]string, error) {
	var raw strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				raw.WriteString(string(text))
			}
		}
		break
	}
	if raw.Len() == 0 {
		return nil, errEmptyResponse
	}
	return decodeTags(raw.String())
}

// decodeTags accepts {"tags": [...]} and, from older models, a bare array.
func decodeTags(raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	var out struct {
		Tags []string `json:"tags"`
	}
	if strings.HasPrefix(raw, "[") {
		if err := json.Unmarshal([]byte(raw), &out.Tags); err != nil {
			return nil, fmt.Errorf("decode tags: %w", err)
		}
		return out.Tags, nil
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("decode tags: %w", err)
	}
	return out.Tags, nil
}
