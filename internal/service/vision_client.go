package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"

	"core/internal/config"
)

// GoogleVisionClient calls the Google Cloud Vision REST API
type GoogleVisionClient struct {
	cfg        *config.GoogleConfig
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[*ImageAnalysis]
}

// NewGoogleVisionClient creates a new image annotation client
func NewGoogleVisionClient(cfg *config.GoogleConfig) *GoogleVisionClient {
	settings := gobreaker.Settings{
		Name:        "google-vision",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Printf("Circuit breaker %s: %s -> %s", name, from, to)
		},
	}

	return &GoogleVisionClient{
		cfg:     cfg,
		breaker: gobreaker.NewCircuitBreaker[*ImageAnalysis](settings),
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
	}
}

// IsEnabled returns whether the client is configured and ready
func (c *GoogleVisionClient) IsEnabled() bool {
	return c.cfg.VisionEnabled
}

type annotateRequest struct {
	Requests []annotateEntry `json:"requests"`
}

type annotateEntry struct {
	Image    annotateImage     `json:"image"`
	Features []annotateFeature `json:"features"`
}

type annotateImage struct {
	Content string `json:"content"`
}

type annotateFeature struct {
	Type       string `json:"type"`
	MaxResults int    `json:"maxResults,omitempty"`
}

type annotateResponse struct {
	Responses []struct {
		LabelAnnotations []struct {
			Description string  `json:"description"`
			Score       float64 `json:"score"`
		} `json:"labelAnnotations"`
		ImagePropertiesAnnotation struct {
			DominantColors struct {
				Colors []struct {
					Color struct {
						Red   float64 `json:"red"`
						Green float64 `json:"green"`
						Blue  float64 `json:"blue"`
					} `json:"color"`
					Score float64 `json:"score"`
				} `json:"colors"`
			} `json:"dominantColors"`
		} `json:"imagePropertiesAnnotation"`
		Error *struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	} `json:"responses"`
}

// Annotate runs label detection and image properties in a single batched call
func (c *GoogleVisionClient) Annotate(ctx context.Context, image []byte) (*ImageAnalysis, error) {
	if !c.cfg.VisionEnabled {
		return nil, fmt.Errorf("Google Vision API is not enabled (missing API key)")
	}

	return c.breaker.Execute(func() (*ImageAnalysis, error) {
		return c.annotate(ctx, image)
	})
}

func (c *GoogleVisionClient) annotate(ctx context.Context, image []byte) (*ImageAnalysis, error) {
	req := annotateRequest{
		Requests: []annotateEntry{{
			Image: annotateImage{Content: base64.StdEncoding.EncodeToString(image)},
			Features: []annotateFeature{
				{Type: "LABEL_DETECTION", MaxResults: 10},
				{Type: "IMAGE_PROPERTIES"},
			},
		}},
	}

	reqBody, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/images:annotate?key=%s", c.cfg.VisionEndpoint, c.cfg.VisionAPIKey)
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
		return nil, fmt.Errorf("Vision request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var result annotateResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if len(result.Responses) == 0 {
		return nil, fmt.Errorf("empty Vision response")
	}
	if apiErr := result.Responses[0].Error; apiErr != nil {
		return nil, fmt.Errorf("Vision API error %d: %s", apiErr.Code, apiErr.Message)
	}

	analysis := &ImageAnalysis{}
	for _, l := range result.Responses[0].LabelAnnotations {
		analysis.Labels = append(analysis.Labels, LabelAnnotation{
			Description: l.Description,
			Score:       l.Score,
		})
	}
	for _, dc := range result.Responses[0].ImagePropertiesAnnotation.DominantColors.Colors {
		analysis.Colors = append(analysis.Colors, DominantColor{
			Red:   int(dc.Color.Red),
			Green: int(dc.Color.Green),
			Blue:  int(dc.Color.Blue),
			Score: dc.Score,
		})
	}

	return analysis, nil
}
