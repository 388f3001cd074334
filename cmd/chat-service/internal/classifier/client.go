package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/Kozeke/marketplace-chatwidget/cmd/chat-service/internal/domain"
	"github.com/Kozeke/marketplace-chatwidget/config"
)

// Client calls the model-serving endpoint that hosts the intent model.
// Classification is synchronous and side-effect free; the router treats a
// failure here as fatal to that single message's automated handling only.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(cfg *config.ClassifierConfig) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		http:    &http.Client{Timeout: cfg.Timeout},
	}
}

type classifyRequest struct {
	Text string `json:"text"`
}

type classifyResponse struct {
	Intents []domain.Intent `json:"intents"`
}

func (c *Client) Classify(ctx context.Context, text string) ([]domain.Intent, error) {
	body, err := json.Marshal(classifyRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("marshal classify request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/classify-intent", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build classify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("classify request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("classifier returned status %d", resp.StatusCode)
	}

	var out classifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode classify response: %w", err)
	}
	return out.Intents, nil
}
