package anthropic

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/amcjunkshop/scrapledger/internal/domain/models"
)

const (
	apiURL     = "https://api.anthropic.com/v1/messages"
	apiVersion = "2023-06-01"
	model      = "claude-3-haiku-20240307"
	maxTokens  = 512
)

// Client defines the AI features offered to the operator: classifying a
// record description and summarizing spending habits.
type Client interface {
	SuggestCategory(ctx context.Context, description string) (models.Category, error)
	AnalyzeSpending(ctx context.Context, records []models.ExpenseRecord, lang string) (string, error)
}

type anthropicClient struct {
	httpClient *resty.Client
	apiURL     string
}

// NewClient creates a configured Anthropic client.
func NewClient(apiKey string) Client {
	client := resty.New().
		SetHeader("x-api-key", apiKey).
		SetHeader("anthropic-version", apiVersion).
		SetHeader("content-type", "application/json").
		SetTimeout(15 * time.Second)

	return &anthropicClient{httpClient: client, apiURL: apiURL}
}

type messageRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system,omitempty"`
	Messages  []Message `json:"messages"`
}

// Message is one turn of an Anthropic conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messageResponse struct {
	Content []struct {
		Text string `json:"text"`
	} `json:"content"`
}

var categories = []models.Category{
	models.CategoryFood,
	models.CategoryTransport,
	models.CategoryShopping,
	models.CategoryEntertainment,
	models.CategoryHousing,
	models.CategoryOther,
}

// SuggestCategory classifies a record description into one of the known
// category tags, defaulting to "other" when the model answers off-script.
func (c *anthropicClient) SuggestCategory(ctx context.Context, description string) (models.Category, error) {
	if len(strings.TrimSpace(description)) < 2 {
		return models.CategoryOther, nil
	}

	names := make([]string, len(categories))
	for i, cat := range categories {
		names[i] = string(cat)
	}

	prompt := fmt.Sprintf("Classify this expense description: %q into one of these categories: %s. Return ONLY the category string value.",
		description, strings.Join(names, ", "))

	text, err := c.complete(ctx, "", prompt)
	if err != nil {
		return "", err
	}

	answer := strings.ToLower(strings.TrimSpace(text))
	for _, cat := range categories {
		if strings.Contains(answer, string(cat)) {
			return cat, nil
		}
	}
	return models.CategoryOther, nil
}

// AnalyzeSpending summarizes recent records and returns one piece of advice
// in the requested language.
func (c *anthropicClient) AnalyzeSpending(ctx context.Context, records []models.ExpenseRecord, lang string) (string, error) {
	if len(records) == 0 {
		return "No records to analyze.", nil
	}

	// Trim the payload to keep the prompt small.
	if len(records) > 50 {
		records = records[:50]
	}
	type slim struct {
		D    string          `json:"d"`
		C    models.Category `json:"c"`
		A    int64           `json:"a"`
		Desc string          `json:"desc"`
	}
	slims := make([]slim, len(records))
	for i, r := range records {
		slims[i] = slim{D: r.Date, C: r.Category, A: r.Amount, Desc: r.Description}
	}
	payload, err := json.Marshal(slims)
	if err != nil {
		return "", fmt.Errorf("encoding records: %w", err)
	}

	system := "Act as a friendly financial advisor for a small scrap materials shop."
	prompt := fmt.Sprintf(`Analyze these expense records (last 50 max): %s.

1. Summarize the top spending category.
2. Give one specific tip to save money based on this data.
3. Keep the tone encouraging.
4. Respond strictly in this language code: %s.
5. Keep it under 100 words.`, payload, lang)

	return c.complete(ctx, system, prompt)
}

func (c *anthropicClient) complete(ctx context.Context, system, prompt string) (string, error) {
	req := messageRequest{
		Model:     model,
		MaxTokens: maxTokens,
		System:    system,
		Messages:  []Message{{Role: "user", Content: prompt}},
	}

	var parsed messageResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&parsed).
		Post(c.apiURL)
	if err != nil {
		return "", fmt.Errorf("anthropic request failed: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("anthropic request failed with status %d: %s", resp.StatusCode(), resp.String())
	}
	if len(parsed.Content) == 0 {
		return "", fmt.Errorf("anthropic response contained no content")
	}

	return parsed.Content[0].Text, nil
}
