package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"gravity/internal/config"
)

// Anthropic 通过 Messages 流式接口生成
type Anthropic struct {
	baseURL   string
	model     string
	version   string
	maxTokens int
	client    *http.Client
}

func NewAnthropic(cfg config.ProviderConfig, version string, maxTokens int, client *http.Client) *Anthropic {
	if client == nil {
		client = http.DefaultClient
	}
	if maxTokens <= 0 {
		maxTokens = 4096
	}
	return &Anthropic{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		model:     cfg.Model,
		version:   version,
		maxTokens: maxTokens,
		client:    client,
	}
}

type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system,omitempty"`
	Messages  []Message `json:"messages"`
	Stream    bool      `json:"stream"`
}

type messagesStreamEvent struct {
	Type  string `json:"type"`
	Delta struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"delta"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

func (a *Anthropic) Stream(ctx context.Context, req Request, onDelta func(string) error) (string, error) {
	// Messages 接口只接受 user/assistant，system 角色并入 system 字段
	system := []string{}
	if req.System != "" {
		system = append(system, req.System)
	}
	messages := make([]Message, 0, len(req.Messages))
	for _, m := range req.Messages {
		if m.Role == "system" {
			system = append(system, m.Content)
			continue
		}
		messages = append(messages, m)
	}

	jsonData, err := json.Marshal(messagesRequest{
		Model:     a.model,
		MaxTokens: a.maxTokens,
		System:    strings.Join(system, "\n\n"),
		Messages:  messages,
		Stream:    true,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/v1/messages", bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")
	httpReq.Header.Set("x-api-key", req.APIKey)
	httpReq.Header.Set("anthropic-version", a.version)

	resp, err := a.client.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", &UpstreamError{Provider: ProviderAnthropic, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		return "", &UpstreamError{Provider: ProviderAnthropic, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}

	var out strings.Builder
	err = streamSSE(resp.Body, func(_ string, data string) error {
		var ev messagesStreamEvent
		if err := json.Unmarshal([]byte(data), &ev); err != nil {
			return &UpstreamError{Provider: ProviderAnthropic, Err: fmt.Errorf("decode stream event: %w", err)}
		}
		switch ev.Type {
		case "content_block_delta":
			if ev.Delta.Type != "text_delta" || ev.Delta.Text == "" {
				return nil
			}
			out.WriteString(ev.Delta.Text)
			return onDelta(ev.Delta.Text)
		case "error":
			msg := "stream error"
			if ev.Error != nil {
				msg = ev.Error.Message
			}
			return &UpstreamError{Provider: ProviderAnthropic, Body: msg}
		case "message_stop":
			return errStreamDone
		}
		return nil
	})
	return finishStream(ctx, out.String(), err)
}
