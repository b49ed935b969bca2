// Package telegram is the bot API transport. It implements the outbound
// sender the relay drives, plus the webhook management and callback
// acknowledgement calls the HTTP layer needs.
package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/anongap/anongap/internal/logging"
)

const DefaultAPIBaseURL = "https://api.telegram.org"

// Client talks to the bot API. All calls are JSON POSTs to
// <base>/bot<token>/<method>.
type Client struct {
	http   *resty.Client
	logger logging.Logger
}

func NewClient(token, baseURL string, logger logging.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultAPIBaseURL
	}

	http := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/") + "/bot" + token).
		SetTimeout(10 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond)

	return &Client{http: http, logger: logger.With("module", "telegram")}
}

type apiResponse struct {
	OK          bool            `json:"ok"`
	Result      json.RawMessage `json:"result"`
	Description string          `json:"description"`
}

// message is the slice of the bot API message object we care about.
type message struct {
	MessageID int `json:"message_id"`
}

func (c *Client) call(ctx context.Context, method string, body any, out any) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post("/" + method)
	if err != nil {
		return fmt.Errorf("calling %s: %w", method, err)
	}

	var apiResp apiResponse
	if err := json.Unmarshal(resp.Body(), &apiResp); err != nil {
		return fmt.Errorf("parsing %s response: %w", method, err)
	}
	if !apiResp.OK {
		return fmt.Errorf("%s failed: %s", method, apiResp.Description)
	}

	if out != nil && apiResp.Result != nil {
		if err := json.Unmarshal(apiResp.Result, out); err != nil {
			return fmt.Errorf("parsing %s result: %w", method, err)
		}
	}
	return nil
}

// SetWebhook registers url as the update sink, with secret echoed back by
// the platform in a request header.
func (c *Client) SetWebhook(ctx context.Context, url, secret string) error {
	body := map[string]any{
		"url":             url,
		"secret_token":    secret,
		"allowed_updates": []string{"message", "callback_query"},
	}
	return c.call(ctx, "setWebhook", body, nil)
}

// AnswerCallbackQuery acknowledges an inline-button press so the client
// stops its progress indicator.
func (c *Client) AnswerCallbackQuery(ctx context.Context, callbackID string) error {
	return c.call(ctx, "answerCallbackQuery", map[string]any{"callback_query_id": callbackID}, nil)
}
