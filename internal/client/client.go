package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"gravity/internal/logger"
	"gravity/internal/models"
	"gravity/internal/relay"
)

// StatusError is a non-2xx response the client has no sentinel for.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("gravity server returned %d: %s", e.StatusCode, e.Message)
}

// Client talks to a running gravity server. It satisfies wizard.Store.
type Client struct {
	baseURL string
	http    *http.Client
	log     logger.Logger
}

func New(baseURL string, hc *http.Client, log logger.Logger) *Client {
	if hc == nil {
		hc = &http.Client{Timeout: 30 * time.Second}
	}
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: hc, log: log}
}

func (c *Client) List(ctx context.Context) ([]models.Offer, error) {
	var offers []models.Offer
	if err := c.doJSON(ctx, http.MethodGet, "/offers", nil, &offers); err != nil {
		return nil, fmt.Errorf("list offers: %w", err)
	}
	return offers, nil
}

func (c *Client) Get(ctx context.Context, id uint) (models.Offer, error) {
	var offer models.Offer
	if err := c.doJSON(ctx, http.MethodGet, offerPath(id), nil, &offer); err != nil {
		return models.Offer{}, fmt.Errorf("get offer %d: %w", id, err)
	}
	return offer, nil
}

func (c *Client) Create(ctx context.Context, p models.Patch) (models.Offer, error) {
	var offer models.Offer
	if err := c.doJSON(ctx, http.MethodPost, "/offers", p, &offer); err != nil {
		return models.Offer{}, fmt.Errorf("create offer: %w", err)
	}
	return offer, nil
}

// Update sends p as a partial update. Compound fields travel as their
// serialized text, which the server stores unchanged.
func (c *Client) Update(ctx context.Context, id uint, p models.Patch) (models.Offer, error) {
	var offer models.Offer
	if err := c.doJSON(ctx, http.MethodPut, offerPath(id), p, &offer); err != nil {
		return models.Offer{}, fmt.Errorf("update offer %d: %w", id, err)
	}
	return offer, nil
}

func (c *Client) Delete(ctx context.Context, id uint) error {
	if err := c.doJSON(ctx, http.MethodDelete, offerPath(id), nil, nil); err != nil {
		return fmt.Errorf("delete offer %d: %w", id, err)
	}
	return nil
}

type GenerateRequest struct {
	Prompt   string `json:"prompt"`
	Provider string `json:"provider"`
	APIKey   string `json:"apiKey"`
}

// Generate streams /generate output into w as it arrives.
func (c *Client) Generate(ctx context.Context, req GenerateRequest, w io.Writer) error {
	resp, err := c.send(ctx, http.MethodPost, "/generate", req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if _, err := io.Copy(w, resp.Body); err != nil {
		return fmt.Errorf("read generation stream: %w", err)
	}
	return nil
}

func offerPath(id uint) string {
	return "/offers/" + strconv.FormatUint(uint64(id), 10)
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out interface{}) error {
	resp, err := c.send(ctx, method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// send performs the request and converts error statuses. On success the
// caller owns the response body.
func (c *Client) send(ctx context.Context, method, path string, body interface{}) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	c.log.Debug("request failed", map[string]interface{}{
		"method": method,
		"path":   path,
		"status": resp.StatusCode,
	})
	return nil, statusError(resp.StatusCode, raw)
}

func statusError(code int, raw []byte) error {
	switch code {
	case http.StatusNotFound:
		return models.ErrNotFound
	case http.StatusUnauthorized:
		return relay.ErrAuthRequired
	}
	msg := strings.TrimSpace(string(raw))
	var body struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(raw, &body) == nil && body.Error != "" {
		msg = body.Error
	}
	return &StatusError{StatusCode: code, Message: msg}
}

// IsStatus reports whether err is a StatusError with the given code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == code
}
