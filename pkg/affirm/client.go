// Package affirm is a client for the charge endpoints of the Affirm REST API v2.
package affirm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Doer sends an HTTP request. *http.Client satisfies it. Retries, timeouts
// and connection handling belong to the Doer, not to Client.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Response is the decoded JSON object Affirm returned. Numbers are kept as
// json.Number.
type Response map[string]any

type Client struct {
	cfg      Config
	baseURL  string
	doer     Doer
	logger   *slog.Logger
	keepZero bool
}

type Option func(*Client)

// WithBaseURL sends requests to baseURL instead of the live or sandbox URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(baseURL, "/") + "/"
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithKeepZeroValues forwards optional parameters holding "", "0" or 0 instead of
// dropping them, so an explicit refund amount of 0 reaches Affirm.
func WithKeepZeroValues() Option {
	return func(c *Client) {
		c.keepZero = true
	}
}

// New validates cfg and returns a Client that sends requests through doer.
// A nil doer uses an *http.Client with a 30 second timeout.
func New(cfg Config, doer Doer, opts ...Option) (*Client, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if doer == nil {
		doer = &http.Client{Timeout: 30 * time.Second}
	}

	c := &Client{
		cfg:     cfg,
		baseURL: cfg.baseURL(),
		doer:    doer,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Authorize turns a checkout token into an authorized charge.
func (c *Client) Authorize(ctx context.Context, checkoutToken string, params Params) (Response, error) {
	optional, err := c.prepare(authorizeSchema, params)
	if err != nil {
		return nil, err
	}

	body := map[string]any{"checkout_token": checkoutToken}
	for k, v := range optional {
		body[k] = v
	}
	return c.request(ctx, http.MethodPost, c.baseURL+"charges/", body)
}

// Capture settles an authorized charge.
func (c *Client) Capture(ctx context.Context, chargeID string, params Params) (Response, error) {
	optional, err := c.prepare(captureSchema, params)
	if err != nil {
		return nil, err
	}
	return c.request(ctx, http.MethodPost, c.chargeURL(chargeID, "capture"), optional)
}

// Read fetches a charge. limit, before and after are sent as query parameters.
func (c *Client) Read(ctx context.Context, chargeID string, params Params) (Response, error) {
	optional, err := c.prepare(readSchema, params)
	if err != nil {
		return nil, err
	}

	u := c.chargeURL(chargeID, "")
	if len(optional) > 0 {
		u += "?" + optional.query().Encode()
	}
	return c.request(ctx, http.MethodGet, u, nil)
}

// Void cancels an authorized charge that has not been captured.
func (c *Client) Void(ctx context.Context, chargeID string) (Response, error) {
	return c.request(ctx, http.MethodPost, c.chargeURL(chargeID, "void"), nil)
}

// Refund returns all of a captured charge, or amount cents of it.
func (c *Client) Refund(ctx context.Context, chargeID string, params Params) (Response, error) {
	optional, err := c.prepare(refundSchema, params)
	if err != nil {
		return nil, err
	}
	return c.request(ctx, http.MethodPost, c.chargeURL(chargeID, "refund"), optional)
}

func (c *Client) prepare(schema Schema, params Params) (Params, error) {
	if err := schema.Validate(params); err != nil {
		return nil, err
	}
	return schema.Whitelist(params, c.keepZero), nil
}

func (c *Client) chargeURL(chargeID, action string) string {
	u := c.baseURL + "charges/" + url.PathEscape(chargeID)
	if action != "" {
		u += "/" + action
	}
	return u
}

func (c *Client) request(ctx context.Context, method, url string, body map[string]any) (Response, error) {
	var bodyReader io.Reader
	if len(body) > 0 {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("error marshalling json: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	httpReq.SetBasicAuth(c.cfg.PublicAPIKey, c.cfg.PrivateAPIKey)
	httpReq.Header.Set("Accept", "application/json")
	if bodyReader != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	c.logger.DebugContext(ctx, "sending affirm request", "method", method, "url", url)

	resp, err := c.doer.Do(httpReq)
	if err != nil {
		return nil, &ResponseError{
			Message: fmt.Sprintf("%s %s failed", method, url),
			Err:     err,
		}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ResponseError{
			StatusCode: resp.StatusCode,
			Message:    "error reading response body",
			Err:        err,
		}
	}

	c.logger.DebugContext(ctx, "received affirm response", "method", method, "url", url, "status", resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newStatusError(resp.StatusCode, raw)
	}

	return decodeResponse(raw)
}

func newStatusError(status int, raw []byte) *ResponseError {
	respErr := &ResponseError{
		StatusCode: status,
		Message:    fmt.Sprintf("affirm returned status %d: %s", status, string(raw)),
		Body:       string(raw),
	}

	var envelope errorEnvelope
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Code != "" {
		respErr.Type = envelope.Type
		respErr.Code = envelope.Code
		respErr.Field = envelope.Field
		if envelope.Message != "" {
			respErr.Message = envelope.Message
		}
	}
	return respErr
}

func decodeResponse(raw []byte) (Response, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var decoded any
	err := dec.Decode(&decoded)
	if err == nil && dec.Decode(&struct{}{}) != io.EOF {
		err = errors.New("unexpected data after top-level value")
	}
	if err != nil {
		return nil, &ResponseError{
			Message: "json could not be decoded from affirm response. response body: " + string(raw),
			Body:    string(raw),
			Err:     err,
		}
	}

	obj, ok := decoded.(map[string]any)
	if !ok {
		return nil, &ResponseError{
			Message: "affirm response is not a json object. response body: " + string(raw),
			Body:    string(raw),
		}
	}
	return Response(obj), nil
}
