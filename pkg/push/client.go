// Package push delivers device notifications through the OneSignal REST API.
package push

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

	pkgerrors "github.com/cardchase/location-portal/pkg/errors"
)

const (
	defaultBaseURL             = "https://onesignal.com/api/v1"
	requestBodyReadLimit int64 = 1024
)

var errCredentialsRequired = errors.New("onesignal app id and rest key are required")

// Message is one notification addressed to a set of device player ids.
type Message struct {
	PlayerIDs []string
	Title     string
	Body      string
}

// Client posts notifications to OneSignal.
type Client struct {
	httpClient *http.Client
	baseURL    string
	appID      string
	restKey    string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the OneSignal API base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if trimmed := strings.TrimSpace(baseURL); trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

func NewClient(appID, restKey string, opts ...Option) (*Client, error) {
	appID = strings.TrimSpace(appID)
	restKey = strings.TrimSpace(restKey)
	if appID == "" || restKey == "" {
		return nil, errCredentialsRequired
	}

	client := &Client{
		appID:      appID,
		restKey:    restKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client, nil
}

type notificationRequest struct {
	AppID            string            `json:"app_id"`
	IncludePlayerIDs []string          `json:"include_player_ids"`
	Headings         map[string]string `json:"headings"`
	Contents         map[string]string `json:"contents"`
}

// Send delivers msg. An empty player list is a no-op.
func (c *Client) Send(ctx context.Context, msg Message) error {
	if c == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "push client not configured")
	}
	ids := compact(msg.PlayerIDs)
	if len(ids) == 0 {
		return nil
	}

	payload, err := json.Marshal(notificationRequest{
		AppID:            c.appID,
		IncludePlayerIDs: ids,
		Headings:         map[string]string{"en": msg.Title},
		Contents:         map[string]string{"en": msg.Body},
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "marshal notification")
	}

	url := strings.TrimRight(c.baseURL, "/") + "/notifications"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build notification request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Basic "+c.restKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute notification request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, requestBodyReadLimit))
		return pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))), "notification request failed")
	}
	return nil
}

func compact(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// Noop drops every message. It stands in when push credentials are absent.
type Noop struct{}

func (Noop) Send(context.Context, Message) error { return nil }
