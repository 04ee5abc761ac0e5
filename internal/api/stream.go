package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"gravity/internal/prompts"
	"gravity/internal/relay"
)

type generateRequest struct {
	Prompt   string `json:"prompt"`
	Provider string `json:"provider"`
	APIKey   string `json:"apiKey"`
}

type chatPart struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// chatMessage accepts both plain {role, content} messages and UI messages
// that carry their text in parts.
type chatMessage struct {
	Role    string     `json:"role"`
	Content string     `json:"content"`
	Parts   []chatPart `json:"parts"`
}

func (m chatMessage) text() string {
	if m.Content != "" || len(m.Parts) == 0 {
		return m.Content
	}
	var b strings.Builder
	for _, p := range m.Parts {
		if p.Type == "text" {
			b.WriteString(p.Text)
		}
	}
	return b.String()
}

type chatRequest struct {
	Messages    []chatMessage `json:"messages"`
	Provider    string        `json:"provider"`
	APIKey      string        `json:"apiKey"`
	BuilderStep int           `json:"builderStep"`
}

type launchRequest struct {
	Provider string `json:"provider"`
	APIKey   string `json:"apiKey"`
}

func bindJSON(c *gin.Context, dst interface{}) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return fmt.Errorf("%w: %v", relay.ErrInvalidInput, err)
	}
	return nil
}

// Generate 按 prompt 生成文本，原样流式返回
func (h *Handler) Generate(c *gin.Context) {
	var req generateRequest
	if err := bindJSON(c, &req); err != nil {
		h.fail(c, err)
		return
	}
	h.streamText(c, relay.Input{
		Provider: req.Provider,
		APIKey:   req.APIKey,
		Prompt:   req.Prompt,
	})
}

// Launch 根据 offer 生成发布内容（文档 / DM 脚本 / 邮件序列）
func (h *Handler) Launch(c *gin.Context) {
	id, ok := h.offerID(c)
	if !ok {
		return
	}
	kind, err := prompts.ParseLaunchKind(c.Param("kind"))
	if err != nil {
		h.fail(c, fmt.Errorf("%w: %v", relay.ErrInvalidInput, err))
		return
	}
	var req launchRequest
	if err := bindJSON(c, &req); err != nil {
		h.fail(c, err)
		return
	}
	if strings.TrimSpace(req.APIKey) == "" {
		h.fail(c, relay.ErrAuthRequired)
		return
	}
	offer, err := h.offers.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.streamText(c, relay.Input{
		Provider: req.Provider,
		APIKey:   req.APIKey,
		Prompt:   prompts.LaunchPrompt(kind, offer),
	})
}

// streamText writes deltas as plain text. Headers go out with the first
// delta so a failure before it still gets a proper error status.
func (h *Handler) streamText(c *gin.Context, in relay.Input) {
	started := false
	begin := func() {
		c.Header("Content-Type", "text/plain; charset=utf-8")
		c.Header("Cache-Control", "no-cache")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Status(http.StatusOK)
		c.Writer.WriteHeaderNow()
		started = true
	}

	_, err := h.gen.Start(c.Request.Context(), in, func(delta string) error {
		if !started {
			begin()
		}
		if _, err := c.Writer.WriteString(delta); err != nil {
			return err
		}
		c.Writer.Flush()
		return nil
	})
	switch {
	case err == nil:
		if !started {
			begin()
		}
	case !started:
		h.fail(c, err)
	case !errors.Is(err, context.Canceled):
		h.log.WithError(err).Warn("text stream aborted", map[string]interface{}{"path": c.FullPath()})
	}
}

// Chat 对话接口，以 UI message stream 格式输出
func (h *Handler) Chat(c *gin.Context) {
	var req chatRequest
	if err := bindJSON(c, &req); err != nil {
		h.fail(c, err)
		return
	}
	messages := make([]relay.Message, 0, len(req.Messages))
	for _, m := range req.Messages {
		messages = append(messages, relay.Message{Role: m.Role, Content: m.text()})
	}

	sse := &partWriter{c: c, messageID: uuid.NewString(), textID: uuid.NewString()}
	_, err := h.gen.Start(c.Request.Context(), relay.Input{
		Provider:    req.Provider,
		APIKey:      req.APIKey,
		Messages:    messages,
		BuilderStep: req.BuilderStep,
	}, func(delta string) error {
		if !sse.started {
			if err := sse.begin(); err != nil {
				return err
			}
		}
		return sse.write(gin.H{"type": "text-delta", "id": sse.textID, "delta": delta})
	})

	switch {
	case err == nil:
		if !sse.started {
			if err := sse.begin(); err != nil {
				return
			}
		}
		_ = sse.finish()
	case !sse.started:
		h.fail(c, err)
	case errors.Is(err, context.Canceled) || c.Request.Context().Err() != nil:
		// client went away
	default:
		h.log.WithError(err).Warn("chat stream aborted", map[string]interface{}{"path": c.FullPath()})
		_ = sse.write(gin.H{"type": "error", "errorText": err.Error()})
		_ = sse.done()
	}
}

// partWriter emits UI message stream parts as server-sent events.
type partWriter struct {
	c         *gin.Context
	messageID string
	textID    string
	started   bool
}

func (w *partWriter) begin() error {
	h := w.c.Writer.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	h.Set("x-vercel-ai-ui-message-stream", "v1")
	w.c.Status(http.StatusOK)
	w.c.Writer.WriteHeaderNow()
	w.started = true

	if err := w.write(gin.H{"type": "start", "messageId": w.messageID}); err != nil {
		return err
	}
	return w.write(gin.H{"type": "text-start", "id": w.textID})
}

func (w *partWriter) finish() error {
	if err := w.write(gin.H{"type": "text-end", "id": w.textID}); err != nil {
		return err
	}
	if err := w.write(gin.H{"type": "finish"}); err != nil {
		return err
	}
	return w.done()
}

func (w *partWriter) done() error {
	if _, err := w.c.Writer.WriteString("data: [DONE]\n\n"); err != nil {
		return err
	}
	w.c.Writer.Flush()
	return nil
}

func (w *partWriter) write(part gin.H) error {
	data, err := json.Marshal(part)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w.c.Writer, "data: %s\n\n", data); err != nil {
		return err
	}
	w.c.Writer.Flush()
	return nil
}
