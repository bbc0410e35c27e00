package provider

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

	"github.com/batalabs/pinchat/internal/domain"
)

// DefaultBaseURL is the public OpenRouter API root.
const DefaultBaseURL = "https://openrouter.ai/api/v1"

// OpenRouter is a small client for the parts of the OpenRouter API that
// pinchat uses: credit balance, model listing and chat completions.
type OpenRouter struct {
	baseURL string
	client  *http.Client
}

// NewOpenRouter creates a client rooted at baseURL (DefaultBaseURL when empty).
func NewOpenRouter(baseURL string) *OpenRouter {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &OpenRouter{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Usage contains token accounting for a completion.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
}

// Credits is the account balance reported by /credits, in US dollars.
type Credits struct {
	TotalCredits float64 `json:"total_credits"`
	TotalUsage   float64 `json:"total_usage"`
}

// Balance returns the remaining credit.
func (c Credits) Balance() float64 {
	return c.TotalCredits - c.TotalUsage
}

// FormatUSD renders an amount the way the balance header shows it.
func FormatUSD(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

// Credits queries the remaining credit for apiKey.
func (o *OpenRouter) Credits(ctx context.Context, apiKey string) (Credits, error) {
	var out struct {
		Data *Credits `json:"data"`
	}
	if err := o.getJSON(ctx, apiKey, "/credits", &out); err != nil {
		return Credits{}, err
	}
	if out.Data == nil {
		return Credits{}, errors.New("credits: response has no data")
	}
	return *out.Data, nil
}

// FetchModels retrieves the list of available models.
func (o *OpenRouter) FetchModels(ctx context.Context, apiKey string) ([]domain.ModelInfo, error) {
	var out struct {
		Data []domain.ModelInfo `json:"data"`
	}
	if err := o.getJSON(ctx, apiKey, "/models", &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

type chatRequest struct {
	Model    string               `json:"model"`
	Messages []domain.ChatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message domain.ChatMessage `json:"message"`
	} `json:"choices"`
	Usage Usage `json:"usage"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Complete sends the conversation to modelID and returns the assistant reply.
func (o *OpenRouter) Complete(ctx context.Context, apiKey, modelID string, history []domain.ChatMessage) (domain.ChatMessage, Usage, error) {
	body, err := json.Marshal(chatRequest{Model: modelID, Messages: history})
	if err != nil {
		return domain.ChatMessage{}, Usage{}, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := o.newRequest(ctx, http.MethodPost, "/chat/completions", apiKey, bytes.NewReader(body))
	if err != nil {
		return domain.ChatMessage{}, Usage{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return domain.ChatMessage{}, Usage{}, fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return domain.ChatMessage{}, Usage{}, readAPIError(resp)
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return domain.ChatMessage{}, Usage{}, fmt.Errorf("decoding response: %w", err)
	}
	// Upstream failures can arrive with a 200 status.
	if out.Error != nil {
		return domain.ChatMessage{}, Usage{}, &APIError{StatusCode: out.Error.Code, Message: out.Error.Message}
	}
	if len(out.Choices) == 0 {
		return domain.ChatMessage{}, Usage{}, errors.New("completion returned no choices")
	}
	msg := out.Choices[0].Message
	if msg.Role == "" {
		msg.Role = domain.RoleAssistant
	}
	return msg, out.Usage, nil
}

func (o *OpenRouter) newRequest(ctx context.Context, method, path, apiKey string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, o.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}
	req.Header.Set("X-Title", "pinchat")
	return req, nil
}

func (o *OpenRouter) getJSON(ctx context.Context, apiKey, path string, out any) error {
	req, err := o.newRequest(ctx, http.MethodGet, path, apiKey, nil)
	if err != nil {
		return err
	}
	resp, err := o.client.Do(req)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return readAPIError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
