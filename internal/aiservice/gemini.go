package aiservice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog/log"
)

// --- Gemini API Configuration ---
const (
	geminiAPIURL       = "https://generativelanguage.googleapis.com/v1beta/models/gemini-2.5-flash-preview-09-2025:generateContent?key="
	maxRetries         = 3
	initialBackoff     = 1 * time.Second
	requestTimeout     = 30 * time.Second
	structuredMimeType = "application/json"
)

// --- Structs for the Gemini API wire format ---

type geminiPayload struct {
	Contents          []geminiContent   `json:"contents"`
	SystemInstruction *geminiContent    `json:"systemInstruction,omitempty"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text,omitempty"`
}

type generationConfig struct {
	ResponseMimeType string        `json:"responseMimeType"`
	ResponseSchema   *GeminiSchema `json:"response_schema,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// retryDelay is the backoff before the next attempt. ok is false after the
// final attempt, which must fail immediately instead of sleeping.
func retryDelay(attempt int) (time.Duration, bool) {
	if attempt >= maxRetries-1 {
		return 0, false
	}
	return initialBackoff * time.Duration(math.Pow(2, float64(attempt))), true
}

// generateAndParse calls the API with structured output enforced and decodes
// the returned JSON text into out.
func generateAndParse(ctx context.Context, label, systemPrompt, userPrompt string, schema *GeminiSchema, out interface{}) error {
	raw, err := callStructuredGemini(ctx, systemPrompt, userPrompt, schema)
	if err != nil {
		log.Error().Err(err).Str("call", label).Msg("Gemini call failed")
		return err
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		log.Error().Err(err).Str("call", label).Msg("Gemini returned unparsable JSON")
		return fmt.Errorf("failed to parse %s response: %w", label, err)
	}
	return nil
}

// callStructuredGemini handles the HTTP request, with exponential backoff on
// transport failures and non-200 statuses.
func callStructuredGemini(ctx context.Context, systemPrompt, userPrompt string, schema *GeminiSchema) (string, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return "", fmt.Errorf("server is not configured for AI recommendations")
	}

	payload := geminiPayload{
		SystemInstruction: &geminiContent{
			Parts: []geminiPart{{Text: systemPrompt}},
		},
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: userPrompt}}},
		},
		GenerationConfig: &generationConfig{
			ResponseMimeType: structuredMimeType,
			ResponseSchema:   schema,
		},
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal payload: %w", err)
	}

	client := &http.Client{Timeout: requestTimeout}
	var lastErr error

	for i := 0; i < maxRetries; i++ {
		reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)

		req, err := http.NewRequestWithContext(reqCtx, "POST", geminiAPIURL+apiKey, bytes.NewBuffer(payloadBytes))
		if err != nil {
			cancel()
			return "", fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		log.Info().Int("attempt", i+1).Msg("Calling Gemini API")

		resp, err := client.Do(req)
		if err != nil {
			cancel()
			lastErr = fmt.Errorf("request failed: %w", err)
			log.Warn().Err(lastErr).Int("attempt", i+1).Msg("Gemini attempt failed")
			if d, retry := retryDelay(i); retry {
				time.Sleep(d)
			}
			continue
		}

		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			cancel()
			lastErr = fmt.Errorf("API returned non-200 status: %s, Body: %s", resp.Status, string(body))
			log.Warn().Err(lastErr).Int("attempt", i+1).Msg("Gemini attempt failed")
			if d, retry := retryDelay(i); retry {
				time.Sleep(d)
			}
			continue
		}

		var geminiResp geminiResponse
		decodeErr := json.NewDecoder(resp.Body).Decode(&geminiResp)
		resp.Body.Close()
		cancel()
		if decodeErr != nil {
			return "", fmt.Errorf("failed to decode response: %w", decodeErr)
		}

		if len(geminiResp.Candidates) > 0 && len(geminiResp.Candidates[0].Content.Parts) > 0 {
			return geminiResp.Candidates[0].Content.Parts[0].Text, nil
		}
		return "", fmt.Errorf("no content found in Gemini response")
	}

	return "", fmt.Errorf("failed to call Gemini API after %d attempts: %w", maxRetries, lastErr)
}
