package trakt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	gocache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"

	"github.com/amaumene/shelfspace/internal/config"
)

const (
	defaultBaseURL = "https://api.trakt.tv"
	apiVersion     = "2"
)

// Client handles communication with the Trakt API
type Client struct {
	baseURL      string
	clientID     string
	clientSecret string
	tokenStore   TokenStore
	httpClient   *http.Client
	cache        *gocache.Cache
	logger       *logrus.Logger
}

// NewClient creates a new Trakt API client
func NewClient(cfg *config.Config, logger *logrus.Logger) (*Client, error) {
	if cfg.TraktClientID == "" {
		return nil, fmt.Errorf("TRAKT_CLIENT_ID is required")
	}
	if cfg.TraktClientSecret == "" {
		return nil, fmt.Errorf("TRAKT_CLIENT_SECRET is required")
	}

	tokenStore, err := NewFileTokenStore(cfg.TokenFile)
	if err != nil {
		return nil, fmt.Errorf("failed to create token store: %w", err)
	}

	return &Client{
		baseURL:      defaultBaseURL,
		clientID:     cfg.TraktClientID,
		clientSecret: cfg.TraktClientSecret,
		tokenStore:   tokenStore,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		cache:        gocache.New(6*time.Hour, 30*time.Minute),
		logger:       logger,
	}, nil
}

// doRequest performs an authenticated HTTP request to the Trakt API,
// retrying transient failures with exponential backoff
func (c *Client) doRequest(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	// OAuth endpoints are exempt, otherwise a refresh would recurse
	if !strings.HasPrefix(path, "/oauth/") {
		if err := c.ensureValidToken(ctx); err != nil {
			return fmt.Errorf("failed to ensure valid token: %w", err)
		}
	}

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
	}

	fullURL := c.baseURL + path
	c.logger.WithFields(logrus.Fields{
		"method": method,
		"url":    fullURL,
	}).Debug("Making Trakt API request")

	operation := func() error {
		var reqBody io.Reader
		if payload != nil {
			reqBody = bytes.NewBuffer(payload)
		}

		req, err := http.NewRequestWithContext(ctx, method, fullURL, reqBody)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
		}

		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("trakt-api-version", apiVersion)
		req.Header.Set("trakt-api-key", c.clientID)

		token, err := c.tokenStore.GetToken()
		if err == nil && token != nil {
			req.Header.Set("Authorization", "Bearer "+token.AccessToken)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("request failed: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return fmt.Errorf("API request failed with status %d", resp.StatusCode)
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			bodyBytes, _ := io.ReadAll(resp.Body)
			return backoff.Permanent(fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(bodyBytes)))
		}

		if result != nil {
			if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
				return backoff.Permanent(fmt.Errorf("failed to decode response: %w", err))
			}
		}

		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3), ctx)
	return backoff.Retry(operation, policy)
}

// getCached performs a GET request memoized for the lifetime of the cache
// entry, so repeated imports within a run hit the API once per item
func (c *Client) getCached(ctx context.Context, path string, result interface{}) error {
	if raw, found := c.cache.Get(path); found {
		return json.Unmarshal(raw.([]byte), result)
	}

	if err := c.doRequest(ctx, http.MethodGet, path, nil, result); err != nil {
		return err
	}

	raw, err := json.Marshal(result)
	if err == nil {
		c.cache.Set(path, raw, gocache.DefaultExpiration)
	}
	return nil
}

// ensureValidToken checks if the current token is valid and refreshes if needed
func (c *Client) ensureValidToken(ctx context.Context) error {
	token, err := c.tokenStore.GetToken()
	if err != nil {
		c.logger.Debug("No valid token found, authentication required")
		return nil
	}

	if time.Until(token.ExpiresAt) < 24*time.Hour {
		c.logger.Info("Token expires soon, refreshing...")
		return c.RefreshToken(ctx)
	}

	return nil
}
