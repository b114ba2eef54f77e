package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"

	"core/internal/config"
)

// GoogleNLPClient calls the Google Cloud Natural Language REST API
type GoogleNLPClient struct {
	cfg        *config.GoogleConfig
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[[]Entity]
}

// NewGoogleNLPClient creates a new entity analysis client
func NewGoogleNLPClient(cfg *config.GoogleConfig) *GoogleNLPClient {
	settings := gobreaker.Settings{
		Name:        "google-nlp",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Printf("Circuit breaker %s: %s -> %s", name, from, to)
		},
	}

	return &GoogleNLPClient{
		cfg:     cfg,
		breaker: gobreaker.NewCircuitBreaker[[]Entity](settings),
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
	}
}

// IsEnabled returns whether the client is configured and ready
func (c *GoogleNLPClient) IsEnabled() bool {
	return c.cfg.NLPEnabled
}

type analyzeEntitiesRequest struct {
	Document struct {
		Type    string `json:"type"`
		Content string `json:"content"`
	} `json:"document"`
	EncodingType string `json:"encodingType"`
}

type analyzeEntitiesResponse struct {
	Entities []struct {
		Name     string  `json:"name"`
		Type     string  `json:"type"`
		Salience float64 `json:"salience"`
	} `json:"entities"`
}

// AnalyzeEntities submits text to the entity analysis endpoint
func (c *GoogleNLPClient) AnalyzeEntities(ctx context.Context, text string) ([]Entity, error) {
	if !c.cfg.NLPEnabled {
		return nil, fmt.Errorf("Google NLP API is not enabled (missing API key)")
	}

	return c.breaker.Execute(func() ([]Entity, error) {
		return c.analyzeEntities(ctx, text)
	})
}

func (c *GoogleNLPClient) analyzeEntities(ctx context.Context, text string) ([]Entity, error) {
	var req analyzeEntitiesRequest
	req.Document.Type = "PLAIN_TEXT"
	req.Document.Content = text
	req.EncodingType = "UTF8"

	reqBody, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/documents:analyzeEntities?key=%s", c.cfg.NLPEndpoint, c.cfg.NLPAPIKey)
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("NLP request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var result analyzeEntitiesResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	entities := make([]Entity, 0, len(result.Entities))
	for _, e := range result.Entities {
		entities = append(entities, Entity{
			Name:     e.Name,
			Type:     e.Type,
			Salience: e.Salience,
		})
	}

	return entities, nil
}
