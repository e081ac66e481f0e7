// Package translate wraps the external text-translation capability as a
// provider chain: each provider is tried in turn under a timeout, and when
// all of them fail the original text comes back untranslated. Translation
// failure is never surfaced to the caller.
package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/example/craftora/pkg/config"
)

// Provider translates text from source ("auto" for detection) to target.
type Provider interface {
	Name() string
	Translate(ctx context.Context, text, source, target string) (string, error)
}

// Chain tries providers in order and falls back to passthrough.
type Chain struct {
	providers []Provider
	timeout   time.Duration
	logger    *zap.Logger
}

func NewChain(cfg *config.TranslateConfig, logger *zap.Logger) *Chain {
	client := &http.Client{Timeout: cfg.Timeout}
	return &Chain{
		providers: []Provider{
			&LibreProvider{Endpoint: cfg.LibreURL, Client: client},
			&GoogleProvider{Endpoint: cfg.GoogleURL, Client: client},
		},
		timeout: cfg.Timeout,
		logger:  logger,
	}
}

// NewChainWith builds a chain over explicit providers, for tests and custom
// deployments.
func NewChainWith(timeout time.Duration, logger *zap.Logger, providers ...Provider) *Chain {
	return &Chain{providers: providers, timeout: timeout, logger: logger}
}

// Translate returns the translated text, or the original text when every
// provider fails. The error is always nil; degradation is the contract.
func (c *Chain) Translate(ctx context.Context, text, source, target string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return text, nil
	}
	if source == "" {
		source = "auto"
	}

	for _, p := range c.providers {
		attempt, cancel := context.WithTimeout(ctx, c.timeout)
		translated, err := p.Translate(attempt, text, source, target)
		cancel()
		if err == nil && translated != "" {
			return translated, nil
		}
		c.logger.Warn("translation provider failed",
			zap.String("provider", p.Name()),
			zap.Error(err))
	}
	return text, nil
}

// LibreProvider speaks the LibreTranslate JSON API.
type LibreProvider struct {
	Endpoint string
	Client   *http.Client
}

func (p *LibreProvider) Name() string { return "libretranslate" }

func (p *LibreProvider) Translate(ctx context.Context, text, source, target string) (string, error) {
	body, err := json.Marshal(map[string]string{
		"q":      text,
		"source": source,
		"target": target,
		"format": "text",
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var out struct {
		TranslatedText string `json:"translatedText"`
		Translated     string `json:"translated"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if out.TranslatedText != "" {
		return out.TranslatedText, nil
	}
	if out.Translated != "" {
		return out.Translated, nil
	}
	return "", fmt.Errorf("empty translation")
}

// GoogleProvider speaks the unofficial translate_a/single endpoint, which
// answers with nested arrays of segments.
type GoogleProvider struct {
	Endpoint string
	Client   *http.Client
}

func (p *GoogleProvider) Name() string { return "google" }

func (p *GoogleProvider) Translate(ctx context.Context, text, source, target string) (string, error) {
	q := url.Values{}
	q.Set("client", "gtx")
	q.Set("sl", source)
	q.Set("tl", target)
	q.Set("dt", "t")
	q.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.Endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return "", err
	}

	resp, err := p.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var payload []any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", err
	}
	return joinSegments(payload)
}

// joinSegments extracts payload[0][i][0] strings and concatenates them.
func joinSegments(payload []any) (string, error) {
	if len(payload) == 0 {
		return "", fmt.Errorf("empty response")
	}
	segments, ok := payload[0].([]any)
	if !ok {
		return "", fmt.Errorf("unexpected response shape")
	}

	var b strings.Builder
	for _, seg := range segments {
		parts, ok := seg.([]any)
		if !ok || len(parts) == 0 {
			continue
		}
		if s, ok := parts[0].(string); ok {
			b.WriteString(s)
		}
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("empty translation")
	}
	return b.String(), nil
}
