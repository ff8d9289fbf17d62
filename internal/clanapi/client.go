package clanapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"clan_war_stats/internal/app"
	"clan_war_stats/internal/config"

	"github.com/rs/zerolog/log"
)

// Client fetches war state from the upstream clan API.
type Client struct {
	baseURL      string
	token        string
	client       *http.Client
	retry        config.RetryConfig
	apiCallCount int64
	apiCallMutex sync.Mutex
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		client: &http.Client{
			Timeout: config.APIRequestTimeout,
		},
		retry: config.DefaultResilienceConfig.APIRequest,
	}
}

// IncrementAPICall safely increments the API call counter
func (c *Client) IncrementAPICall() {
	c.apiCallMutex.Lock()
	c.apiCallCount++
	c.apiCallMutex.Unlock()
}

// GetAPICallCount returns the current API call count
func (c *Client) GetAPICallCount() int64 {
	c.apiCallMutex.Lock()
	defer c.apiCallMutex.Unlock()
	return c.apiCallCount
}

// ResetAPICallCount resets the API call counter to zero
func (c *Client) ResetAPICallCount() {
	c.apiCallMutex.Lock()
	c.apiCallCount = 0
	c.apiCallMutex.Unlock()
}

// makeAPIRequest creates and executes an HTTP GET request against the clan API
func (c *Client) makeAPIRequest(ctx context.Context, requestURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		log.Debug().
			Err(err).
			Str("url", requestURL).
			Msg("API request failed")
		return nil, fmt.Errorf("failed to make request: %w", err)
	}

	c.IncrementAPICall()
	return resp, nil
}

// handleAPIResponse processes the HTTP response and returns the body bytes
func (c *Client) handleAPIResponse(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return body, nil
}

// fetchWithRetry executes the request with bounded exponential backoff.
// Non-200 responses count as failures; the last error is returned when
// all attempts are exhausted.
func (c *Client) fetchWithRetry(ctx context.Context, requestURL string) ([]byte, error) {
	var lastErr error

	for attempt := 1; attempt <= c.retry.MaxAttempts; attempt++ {
		resp, err := c.makeAPIRequest(ctx, requestURL)
		if err == nil {
			body, err := c.handleAPIResponse(resp)
			if err == nil {
				return body, nil
			}
			lastErr = err
		} else {
			lastErr = err
		}

		if attempt == c.retry.MaxAttempts {
			break
		}

		wait := c.retry.NextWait(attempt)
		log.Debug().
			Int("attempt", attempt).
			Dur("wait", wait).
			Err(lastErr).
			Msg("Retrying API request")

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}

	return nil, lastErr
}

// GetCurrentWar fetches the clan's current river-war state
func (c *Client) GetCurrentWar(ctx context.Context, clanTag string) (*app.CurrentWar, error) {
	requestURL := fmt.Sprintf("%s/clans/%s/currentriverrace", c.baseURL, url.PathEscape(clanTag))

	log.Debug().Str("url", requestURL).Msg("Fetching current war")

	body, err := c.fetchWithRetry(ctx, requestURL)
	if err != nil {
		return nil, err
	}

	var war app.CurrentWar
	if err := json.Unmarshal(body, &war); err != nil {
		return nil, fmt.Errorf("failed to decode war response: %w", err)
	}

	log.Debug().
		Int("season_id", war.SeasonID).
		Int("section_index", war.SectionIndex).
		Int("period_index", war.PeriodIndex).
		Str("period_type", war.PeriodType).
		Int("participants", len(war.Participants)).
		Msg("Successfully fetched current war")

	return &war, nil
}
