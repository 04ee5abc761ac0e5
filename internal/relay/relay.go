package relay

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"gravity/internal/config"
	"gravity/internal/logger"
	"gravity/internal/metrics"
	"gravity/internal/prompts"
)

type Provider string

const (
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
)

// ParseProvider maps the wire value to a Provider. Empty means openai.
func ParseProvider(s string) (Provider, error) {
	switch p := Provider(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return ProviderOpenAI, nil
	case ProviderOpenAI, ProviderAnthropic:
		return p, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownProvider, s)
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request is what an adapter sends to its vendor.
type Request struct {
	APIKey   string
	System   string
	Messages []Message
}

// Completer streams one completion. onDelta receives text fragments in order;
// an error from onDelta aborts the stream. The full text is returned.
type Completer interface {
	Stream(ctx context.Context, req Request, onDelta func(string) error) (string, error)
}

// Input 一次生成请求：prompt 与 messages 二选一
type Input struct {
	Provider    string
	APIKey      string
	Prompt      string
	Messages    []Message
	BuilderStep int
}

// Relay 按 provider 选择厂商适配器，把增量文本原样转发给调用方
type Relay struct {
	completers map[Provider]Completer
	log        logger.Logger
}

func New(cfg config.LLMConfig, log logger.Logger) *Relay {
	client := &http.Client{Timeout: config.GetDuration(cfg.TimeoutMs)}
	return NewWithCompleters(map[Provider]Completer{
		ProviderOpenAI:    NewOpenAI(cfg.OpenAI, client),
		ProviderAnthropic: NewAnthropic(cfg.Anthropic, cfg.AnthropicVersion, cfg.MaxTokens, client),
	}, log)
}

func NewWithCompleters(completers map[Provider]Completer, log logger.Logger) *Relay {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Relay{completers: completers, log: log}
}

// Start runs a completion and forwards deltas until the vendor finishes, the
// context is cancelled or onDelta fails. A missing API key fails before any
// vendor call.
func (r *Relay) Start(ctx context.Context, in Input, onDelta func(string) error) (string, error) {
	if strings.TrimSpace(in.APIKey) == "" {
		return "", ErrAuthRequired
	}
	provider, err := ParseProvider(in.Provider)
	if err != nil {
		return "", err
	}
	completer, ok := r.completers[provider]
	if !ok {
		return "", fmt.Errorf("%w: %s is not configured", ErrUnknownProvider, provider)
	}
	messages, err := buildMessages(in)
	if err != nil {
		return "", err
	}

	req := Request{
		APIKey:   in.APIKey,
		System:   prompts.System(in.BuilderStep),
		Messages: messages,
	}

	start := time.Now()
	text, err := completer.Stream(ctx, req, onDelta)
	metrics.RelayStreamDuration.WithLabelValues(string(provider)).Observe(time.Since(start).Seconds())

	fields := map[string]interface{}{
		"provider":    provider,
		"builderStep": in.BuilderStep,
		"chars":       len(text),
	}
	switch {
	case err == nil:
		metrics.RelayStreams.WithLabelValues(string(provider), metrics.OutcomeCompleted).Inc()
		r.log.Debug("generation completed", fields)
	case errors.Is(err, context.Canceled) || ctx.Err() != nil:
		metrics.RelayStreams.WithLabelValues(string(provider), metrics.OutcomeCancelled).Inc()
		r.log.Info("generation cancelled", fields)
	default:
		metrics.RelayStreams.WithLabelValues(string(provider), metrics.OutcomeFailed).Inc()
		r.log.WithError(err).Warn("generation failed", fields)
	}
	return text, err
}

func buildMessages(in Input) ([]Message, error) {
	if strings.TrimSpace(in.Prompt) != "" {
		return []Message{{Role: "user", Content: in.Prompt}}, nil
	}
	if len(in.Messages) == 0 {
		return nil, fmt.Errorf("%w: prompt or messages required", ErrInvalidInput)
	}
	out := make([]Message, 0, len(in.Messages))
	for i, m := range in.Messages {
		switch m.Role {
		case "user", "assistant", "system":
		default:
			return nil, fmt.Errorf("%w: message %d has role %q", ErrInvalidInput, i, m.Role)
		}
		out = append(out, m)
	}
	return out, nil
}
