// Package gateway implements the APISIX admin API client backing API key
// provisioning. Consumers are written with a key-auth credential and a
// per-consumer limit-count plugin.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"

	appgateway "keygate/internal/application/apikey/gateway"
	"keygate/internal/shared/config"
	"keygate/internal/shared/logger"
)

const (
	// rateLimitWindowSeconds is the limit-count window. Plan quotas are
	// expressed per hour, so the window is fixed.
	rateLimitWindowSeconds = 3600

	rateLimitRejectedCode = 429
)

// APIError is a non-2xx response from the admin API.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("gateway admin API returned %d: %s", e.StatusCode, e.Body)
}

// ConnectionError wraps transport-level failures reaching the admin API.
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("gateway unreachable: %v", e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

type consumerPayload struct {
	Username string                    `json:"username"`
	Plugins  map[string]map[string]any `json:"plugins"`
	Labels   map[string]string         `json:"labels,omitempty"`
}

type consumerResponse struct {
	Value consumerPayload `json:"value"`
}

// Client talks to the APISIX admin API.
type Client struct {
	baseURL    string
	adminKey   string
	httpClient *http.Client
	logger     logger.Interface
}

// NewClient builds an admin API client. The connect timeout bounds dialing
// separately from the overall request timeout.
func NewClient(cfg *config.GatewayConfig, logger logger.Interface) *Client {
	dialer := &net.Dialer{Timeout: cfg.GetConnectTimeout()}
	transport := &http.Transport{
		DialContext:         dialer.DialContext,
		MaxIdleConnsPerHost: 4,
	}

	return &Client{
		baseURL:  strings.TrimRight(cfg.AdminURL, "/"),
		adminKey: cfg.AdminKey,
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   cfg.GetReadTimeout(),
		},
		logger: logger,
	}
}

// EnsureConsumer creates or replaces the consumer with the given credential
// and rate limit. The operation is a full PUT of desired state, so retries
// are safe.
func (c *Client) EnsureConsumer(ctx context.Context, params appgateway.EnsureConsumerParams) error {
	if params.Username == "" {
		return fmt.Errorf("consumer username is required")
	}
	if params.APIKey == "" {
		return fmt.Errorf("consumer api key is required")
	}
	if params.RequestsPerHour <= 0 {
		return fmt.Errorf("requests per hour must be positive")
	}

	payload := consumerPayload{
		Username: params.Username,
		Plugins: map[string]map[string]any{
			"key-auth": {
				"key": params.APIKey,
			},
			"limit-count": rateLimitPlugin(params.RequestsPerHour),
		},
		Labels: sanitizeLabels(params.Labels),
	}

	if err := c.putConsumer(ctx, payload); err != nil {
		return err
	}

	c.logger.Infow("gateway consumer ensured",
		"username", params.Username,
		"requests_per_hour", params.RequestsPerHour,
	)
	return nil
}

// GetConsumer fetches a consumer. The second return value is false when the
// consumer does not exist.
func (c *Client) GetConsumer(ctx context.Context, username string) (*appgateway.Consumer, bool, error) {
	resp, err := c.do(ctx, http.MethodGet, "/apisix/admin/consumers/"+username, nil)
	if err != nil {
		return nil, false, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, false, &ConnectionError{Err: err}
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, false, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, false, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var decoded consumerResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, false, fmt.Errorf("failed to decode consumer response: %w", err)
	}

	consumer := &appgateway.Consumer{
		Username: decoded.Value.Username,
		Labels:   decoded.Value.Labels,
	}
	if limit, ok := decoded.Value.Plugins["limit-count"]; ok {
		if count, ok := limit["count"].(float64); ok {
			consumer.RequestsPerHour = int(count)
		}
	}
	return consumer, true, nil
}

// UpdateRateLimit rewrites only the limit-count plugin, preserving the
// consumer's other plugins as stored at the gateway.
func (c *Client) UpdateRateLimit(ctx context.Context, username string, requestsPerHour int) error {
	if requestsPerHour <= 0 {
		return fmt.Errorf("requests per hour must be positive")
	}

	resp, err := c.do(ctx, http.MethodGet, "/apisix/admin/consumers/"+username, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return &ConnectionError{Err: err}
	}

	if resp.StatusCode == http.StatusNotFound {
		return &APIError{StatusCode: http.StatusNotFound, Body: "consumer not found"}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var decoded consumerResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return fmt.Errorf("failed to decode consumer response: %w", err)
	}

	payload := decoded.Value
	if payload.Plugins == nil {
		payload.Plugins = map[string]map[string]any{}
	}
	payload.Plugins["limit-count"] = rateLimitPlugin(requestsPerHour)

	if err := c.putConsumer(ctx, payload); err != nil {
		return err
	}

	c.logger.Infow("gateway consumer rate limit updated",
		"username", username,
		"requests_per_hour", requestsPerHour,
	)
	return nil
}

// DeleteConsumer removes the consumer. A 404 is treated as success so revoke
// retries converge.
func (c *Client) DeleteConsumer(ctx context.Context, username string) error {
	resp, err := c.do(ctx, http.MethodDelete, "/apisix/admin/consumers/"+username, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	if resp.StatusCode == http.StatusNotFound {
		c.logger.Warnw("gateway consumer already absent on delete", "username", username)
		return nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	c.logger.Infow("gateway consumer deleted", "username", username)
	return nil
}

func (c *Client) putConsumer(ctx context.Context, payload consumerPayload) error {
	resp, err := c.do(ctx, http.MethodPut, "/apisix/admin/consumers/"+payload.Username, payload)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, payload any) (*http.Response, error) {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode gateway request: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build gateway request: %w", err)
	}
	req.Header.Set("X-API-KEY", c.adminKey)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &ConnectionError{Err: err}
	}
	return resp, nil
}

func rateLimitPlugin(requestsPerHour int) map[string]any {
	return map[string]any{
		"count":         requestsPerHour,
		"time_window":   rateLimitWindowSeconds,
		"rejected_code": rateLimitRejectedCode,
		"key_type":      "var",
		"key":           "consumer_name",
	}
}

// sanitizeLabels drops values APISIX label validation rejects. Labels are
// informational; a dropped label must never fail provisioning.
func sanitizeLabels(labels map[string]string) map[string]string {
	if len(labels) == 0 {
		return nil
	}
	clean := make(map[string]string, len(labels))
	for k, v := range labels {
		if k == "" || v == "" {
			continue
		}
		clean[k] = sanitizeLabelValue(v)
	}
	if len(clean) == 0 {
		return nil
	}
	return clean
}

func sanitizeLabelValue(v string) string {
	var b strings.Builder
	for _, r := range v {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' || r == '_' || r == '.':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	const maxLabelLen = 64
	s := b.String()
	if len(s) > maxLabelLen {
		s = s[:maxLabelLen]
	}
	return s
}
