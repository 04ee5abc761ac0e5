package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"gravity/internal/config"
)

// OpenAI 通过 Chat Completions 流式接口生成
type OpenAI struct {
	baseURL string
	model   string
	client  *http.Client
}

func NewOpenAI(cfg config.ProviderConfig, client *http.Client) *OpenAI {
	if client == nil {
		client = http.DefaultClient
	}
	return &OpenAI{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		model:   cfg.Model,
		client:  client,
	}
}

type chatCompletionRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
	Stream   bool      `json:"stream"`
}

type chatCompletionStreamChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
		FinishReason *string `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

func (o *OpenAI) Stream(ctx context.Context, req Request, onDelta func(string) error) (string, error) {
	messages := make([]Message, 0, len(req.Messages)+1)
	if req.System != "" {
		messages = append(messages, Message{Role: "system", Content: req.System})
	}
	messages = append(messages, req.Messages...)

	jsonData, err := json.Marshal(chatCompletionRequest{Model: o.model, Messages: messages, Stream: true})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/v1/chat/completions", bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")
	httpReq.Header.Set("Authorization", "Bearer "+req.APIKey)

	resp, err := o.client.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", &UpstreamError{Provider: ProviderOpenAI, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		return "", &UpstreamError{Provider: ProviderOpenAI, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}

	var out strings.Builder
	err = streamSSE(resp.Body, func(_ string, data string) error {
		if strings.TrimSpace(data) == "[DONE]" {
			return errStreamDone
		}
		var chunk chatCompletionStreamChunk
		if err := json.Unmarshal([]byte(data), &chunk); err != nil {
			return &UpstreamError{Provider: ProviderOpenAI, Err: fmt.Errorf("decode stream chunk: %w", err)}
		}
		if chunk.Error != nil {
			return &UpstreamError{Provider: ProviderOpenAI, Body: chunk.Error.Message}
		}
		for _, choice := range chunk.Choices {
			if choice.Delta.Content == "" {
				continue
			}
			out.WriteString(choice.Delta.Content)
			if err := onDelta(choice.Delta.Content); err != nil {
				return err
			}
		}
		return nil
	})
	return finishStream(ctx, out.String(), err)
}

// finishStream normalizes the end of an SSE read.
func finishStream(ctx context.Context, text string, err error) (string, error) {
	if err == nil || errors.Is(err, errStreamDone) {
		return text, nil
	}
	if ctx.Err() != nil {
		return text, ctx.Err()
	}
	return text, err
}
