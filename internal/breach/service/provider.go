package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	breachDomain "github.com/allisson/passvault/internal/breach/domain"
	apperrors "github.com/allisson/passvault/internal/errors"
)

// Provider returns the full breach corpus. Throttling must surface as
// ErrProviderRateLimited and any other failure as ErrProviderFailure.
type Provider interface {
	GetAllBreaches(ctx context.Context) ([]breachDomain.Breach, error)
}

// HIBPConfig configures HIBPProvider.
type HIBPConfig struct {
	BaseURL   string
	APIKey    string
	UserAgent string
	Timeout   time.Duration
}

// HIBPProvider reads the Have I Been Pwned v3 /breaches corpus.
type HIBPProvider struct {
	config HIBPConfig
	client *http.Client
}

// NewHIBPProvider creates a new HIBPProvider.
func NewHIBPProvider(config HIBPConfig) *HIBPProvider {
	return &HIBPProvider{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
	}
}

type hibpBreach struct {
	Name        string   `json:"Name"`
	Title       string   `json:"Title"`
	Domain      string   `json:"Domain"`
	BreachDate  string   `json:"BreachDate"`
	DataClasses []string `json:"DataClasses"`
}

// GetAllBreaches fetches every breach known to the provider.
func (h *HIBPProvider) GetAllBreaches(ctx context.Context) ([]breachDomain.Breach, error) {
	url := strings.TrimRight(h.config.BaseURL, "/") + "/breaches"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, apperrors.Wrap(breachDomain.ErrProviderFailure, err.Error())
	}
	req.Header.Set("Accept", "application/json")
	if h.config.UserAgent != "" {
		req.Header.Set("User-Agent", h.config.UserAgent)
	}
	if h.config.APIKey != "" {
		req.Header.Set("hibp-api-key", h.config.APIKey)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, apperrors.Wrap(breachDomain.ErrProviderFailure, err.Error())
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, breachDomain.ErrProviderRateLimited
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, apperrors.Wrap(
			breachDomain.ErrProviderFailure,
			fmt.Sprintf("unexpected status code %d", resp.StatusCode),
		)
	}

	var payload []hibpBreach
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, apperrors.Wrap(breachDomain.ErrProviderFailure, "failed to decode breaches: "+err.Error())
	}

	breaches := make([]breachDomain.Breach, 0, len(payload))
	for _, b := range payload {
		// Unparseable dates are kept as the zero time.
		date, _ := time.Parse(time.DateOnly, b.BreachDate)
		breaches = append(breaches, breachDomain.Breach{
			Name:        b.Name,
			Title:       b.Title,
			Domain:      b.Domain,
			BreachDate:  date,
			DataClasses: b.DataClasses,
		})
	}
	return breaches, nil
}
