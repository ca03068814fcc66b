// Package advisor provides a client for the Gemini text-generation API used
// for financial tips and the in-app chat. Request/response only: no
// streaming, no function calling, no retries. A failed call surfaces as an
// error and never touches local state.
package advisor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/zcorpion/zcorpion-be/internal/models"
)

const (
	requestTimeout = 10 * time.Second
	maxBodySize    = 1 << 20 // 1 MB
)

var (
	// ErrUnauthorized indicates the API key is missing or invalid.
	ErrUnauthorized = errors.New("advisor: unauthorized (check API key)")
	// ErrRateLimited indicates the API rate limit was hit.
	ErrRateLimited = errors.New("advisor: rate limited")
)

// Client calls the Gemini generateContent endpoint.
type Client struct {
	baseURL string
	apiKey  string
	model   string
	http    *http.Client
}

// NewClient creates a client for the given endpoint, key, and model.
// Returns nil if the key is empty; callers treat a nil client as
// advice-disabled.
func NewClient(baseURL, apiKey, model string) *Client {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		http:    &http.Client{},
	}
}

// Tips asks for three structured tips tailored to the user's situation.
func (c *Client) Tips(ctx context.Context, profile models.Profile, expenses []models.Movement, goals []models.SavingsGoal) ([]Tip, error) {
	req := generateRequest{
		Contents:         []content{{Role: "user", Parts: []part{{Text: tipsPrompt(profile, expenses, goals)}}}},
		GenerationConfig: &generationConfig{ResponseMIMEType: "application/json"},
	}

	text, err := c.generate(ctx, req)
	if err != nil {
		return nil, err
	}

	var payload tipsPayload
	if err := json.Unmarshal([]byte(stripFences(text)), &payload); err != nil {
		return nil, fmt.Errorf("advisor: parsing tips: %w", err)
	}
	return payload.Tips, nil
}

// Chat sends a free-text user message with the budgeting context attached
// and returns the model's reply.
func (c *Client) Chat(ctx context.Context, message string, profile models.Profile, expenses []models.Movement, goals []models.SavingsGoal) (string, error) {
	req := generateRequest{
		SystemInstruction: &content{Parts: []part{{Text: chatSystem(profile, expenses, goals)}}},
		Contents:          []content{{Role: "user", Parts: []part{{Text: message}}}},
	}

	text, err := c.generate(ctx, req)
	if err != nil {
		return "", err
	}
	return text, nil
}

func (c *Client) generate(ctx context.Context, payload generateRequest) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("advisor: encoding request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("advisor: creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Goog-Api-Key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("advisor: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return "", ErrUnauthorized
	case http.StatusTooManyRequests:
		return "", ErrRateLimited
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("advisor: unexpected status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", fmt.Errorf("advisor: reading response: %w", err)
	}

	var out generateResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("advisor: parsing response: %w", err)
	}
	return out.text(), nil
}

func tipsPrompt(profile models.Profile, expenses []models.Movement, goals []models.SavingsGoal) string {
	total := decimal.Zero
	for _, e := range expenses {
		total = total.Add(e.Amount)
	}

	var goalParts []string
	for _, g := range goals {
		goalParts = append(goalParts, fmt.Sprintf("%s: %s/%s", g.Name, g.Current, g.Target))
	}
	goalsInfo := strings.Join(goalParts, ", ")
	if goalsInfo == "" {
		goalsInfo = "Ninguna definida aún"
	}

	recent, _ := json.Marshal(lastN(expenses, 5))

	return fmt.Sprintf(`Actúa como un asesor financiero experto. El usuario tiene un ingreso %s de %s %s.
Sigue el método 50/30/20.
Gastos totales registrados: %s.
Metas de ahorro actuales: %s.
Gastos detallados recientes: %s.

Genera 3 consejos prácticos, cortos y motivadores en español.
Prioriza consejos que ayuden a alcanzar sus metas específicas si las tiene.
Devuelve la respuesta en formato JSON con la siguiente estructura:
{
  "tips": [
    {"title": "string", "content": "string", "category": "ahorro" | "inversion" | "gasto"}
  ]
}`,
		strings.ToLower(string(profile.Frequency)), profile.Income, profile.Currency,
		total, goalsInfo, recent)
}

func chatSystem(profile models.Profile, expenses []models.Movement, goals []models.SavingsGoal) string {
	recent, _ := json.Marshal(lastN(expenses, 10))
	goalsJSON, _ := json.Marshal(goals)
	return fmt.Sprintf(
		"Eres Zcorpion, un asistente financiero experto. Responde breve y claramente. Contexto: Usuario: ingreso %s %s. Gastos recientes: %s. Metas: %s.",
		profile.Income, profile.Currency, recent, goalsJSON)
}

func lastN(expenses []models.Movement, n int) []models.Movement {
	if len(expenses) <= n {
		return expenses
	}
	return expenses[len(expenses)-n:]
}

// stripFences removes a markdown code fence if the model wrapped its JSON in
// one despite the response MIME type.
func stripFences(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}
