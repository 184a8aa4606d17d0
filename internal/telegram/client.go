package telegram

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"reelog/internal/config"
	"reelog/internal/services"
)

// Client is a minimal Telegram Bot API client built on long polling. It
// covers exactly what the diary needs: getMe, getUpdates, and sendMessage.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	token       string
	pollTimeout int
}

// NewClient builds a client from the Telegram section of the configuration.
// The request timeout must exceed the long-poll timeout or every getUpdates
// call with no traffic would fail.
func NewClient(cfg *config.Config) (*Client, error) {
	if err := cfg.ValidateTelegram(); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "telegram", "new-client",
			"invalid transport configuration", err)
	}
	requestTimeout := cfg.Telegram.RequestTimeout
	if requestTimeout <= cfg.Telegram.PollTimeout {
		requestTimeout = cfg.Telegram.PollTimeout + 10
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: time.Duration(requestTimeout) * time.Second,
		},
		baseURL:     cfg.Telegram.BaseURL,
		token:       cfg.Telegram.Token,
		pollTimeout: cfg.Telegram.PollTimeout,
	}, nil
}

// GetMe fetches the bot's own identity. Used as a startup reachability and
// credential check.
func (c *Client) GetMe(ctx context.Context) (*User, error) {
	var resp userResponse
	if err := c.call(ctx, "getMe", nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Result, nil
}

// GetUpdates long-polls for incoming updates. The offset must be one past
// the last update already handled; Telegram then discards everything older.
func (c *Client) GetUpdates(ctx context.Context, offset int64) ([]Update, error) {
	req := getUpdatesRequest{Offset: offset, Timeout: c.pollTimeout}
	var resp updatesResponse
	if err := c.call(ctx, "getUpdates", req, &resp); err != nil {
		return nil, err
	}
	return resp.Result, nil
}

// SendMessage delivers a plain-text reply. markup may be a
// ReplyKeyboardMarkup, a ReplyKeyboardRemove, or nil.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string, markup any) error {
	req := sendMessageRequest{ChatID: chatID, Text: text, ReplyMarkup: markup}
	var resp apiResponse
	return c.call(ctx, "sendMessage", req, &resp)
}

type apiResult interface {
	status() (bool, int, string)
}

func (r apiResponse) status() (bool, int, string) {
	return r.OK, r.ErrorCode, r.Description
}

func (c *Client) call(ctx context.Context, method string, payload any, out apiResult) error {
	url := fmt.Sprintf("%s/bot%s/%s", c.baseURL, c.token, method)

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return services.Wrap(services.ErrTransient, "telegram", method, "encode request", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return services.Wrap(services.ErrTransient, "telegram", method, "build request", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return services.Wrap(services.ErrTransient, "telegram", method, "perform request", err)
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(httpResp.Body, 1<<20))
	if err != nil {
		return services.Wrap(services.ErrTransient, "telegram", method, "read response", err)
	}
	if httpResp.StatusCode == http.StatusUnauthorized || httpResp.StatusCode == http.StatusForbidden {
		return services.Wrap(services.ErrConfiguration, "telegram", method,
			fmt.Sprintf("rejected with status %d, check the bot token", httpResp.StatusCode), nil)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return services.Wrap(services.ErrTransient, "telegram", method,
			fmt.Sprintf("decode response (status %d)", httpResp.StatusCode), err)
	}
	if ok, code, description := out.status(); !ok {
		return services.Wrap(services.ErrTransient, "telegram", method,
			fmt.Sprintf("api error %d: %s", code, description), nil)
	}
	return nil
}
