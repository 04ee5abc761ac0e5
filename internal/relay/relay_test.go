package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gravity/internal/config"
	"gravity/internal/logger"
)

type roundTripperFunc func(req *http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) { return f(req) }

func sseResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"text/event-stream"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

type fakeCompleter struct {
	calls  int
	last   Request
	deltas []string
	err    error
}

func (f *fakeCompleter) Stream(_ context.Context, req Request, onDelta func(string) error) (string, error) {
	f.calls++
	f.last = req
	var out strings.Builder
	for _, d := range f.deltas {
		out.WriteString(d)
		if err := onDelta(d); err != nil {
			return out.String(), err
		}
	}
	return out.String(), f.err
}

func TestParseProvider(t *testing.T) {
	p, err := ParseProvider("")
	require.NoError(t, err)
	assert.Equal(t, ProviderOpenAI, p)

	p, err = ParseProvider("Anthropic")
	require.NoError(t, err)
	assert.Equal(t, ProviderAnthropic, p)

	_, err = ParseProvider("gemini")
	assert.ErrorIs(t, err, ErrUnknownProvider)
}

func TestStartRequiresAPIKeyBeforeVendorCall(t *testing.T) {
	fake := &fakeCompleter{deltas: []string{"never"}}
	r := NewWithCompleters(map[Provider]Completer{ProviderOpenAI: fake}, logger.NewTestLogger(t))

	var got []string
	_, err := r.Start(context.Background(), Input{Prompt: "hi", APIKey: "  "}, func(d string) error {
		got = append(got, d)
		return nil
	})
	assert.ErrorIs(t, err, ErrAuthRequired)
	assert.Zero(t, fake.calls)
	assert.Empty(t, got)
}

func TestStartForwardsDeltasInOrder(t *testing.T) {
	fake := &fakeCompleter{deltas: []string{"Hel", "lo", "!"}}
	r := NewWithCompleters(map[Provider]Completer{ProviderAnthropic: fake}, logger.NewTestLogger(t))

	var got []string
	text, err := r.Start(context.Background(), Input{
		Provider:    "anthropic",
		APIKey:      "sk-ant",
		Messages:    []Message{{Role: "user", Content: "help"}},
		BuilderStep: 4,
	}, func(d string) error {
		got = append(got, d)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "Hello!", text)
	assert.Equal(t, []string{"Hel", "lo", "!"}, got)
	assert.Equal(t, "sk-ant", fake.last.APIKey)
	assert.Contains(t, fake.last.System, "The user is on Step 4 of the offer builder.")
}

func TestStartPromptBecomesSingleUserMessage(t *testing.T) {
	fake := &fakeCompleter{}
	r := NewWithCompleters(map[Provider]Completer{ProviderOpenAI: fake}, nil)

	_, err := r.Start(context.Background(), Input{APIKey: "k", Prompt: "write a DM"}, func(string) error { return nil })
	require.NoError(t, err)
	assert.Equal(t, []Message{{Role: "user", Content: "write a DM"}}, fake.last.Messages)
	assert.NotContains(t, fake.last.System, "## CURRENT TASK")
}

func TestStartRejectsBadInput(t *testing.T) {
	fake := &fakeCompleter{}
	r := NewWithCompleters(map[Provider]Completer{ProviderOpenAI: fake}, nil)
	noop := func(string) error { return nil }

	_, err := r.Start(context.Background(), Input{APIKey: "k"}, noop)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = r.Start(context.Background(), Input{APIKey: "k", Messages: []Message{{Role: "tool", Content: "x"}}}, noop)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = r.Start(context.Background(), Input{APIKey: "k", Provider: "anthropic", Prompt: "x"}, noop)
	assert.ErrorIs(t, err, ErrUnknownProvider)
	assert.Zero(t, fake.calls)
}

func TestStartStopsWhenSinkFails(t *testing.T) {
	fake := &fakeCompleter{deltas: []string{"a", "b", "c"}}
	r := NewWithCompleters(map[Provider]Completer{ProviderOpenAI: fake}, nil)
	sinkErr := errors.New("client gone")

	n := 0
	text, err := r.Start(context.Background(), Input{APIKey: "k", Prompt: "x"}, func(string) error {
		n++
		if n == 2 {
			return sinkErr
		}
		return nil
	})
	assert.ErrorIs(t, err, sinkErr)
	assert.Equal(t, "ab", text)
}

func TestNewWiresBothVendors(t *testing.T) {
	r := New(config.LLMConfig{
		OpenAI:    config.ProviderConfig{BaseURL: "http://openai", Model: "gpt-4o"},
		Anthropic: config.ProviderConfig{BaseURL: "http://anthropic", Model: "claude-sonnet-4-20250514"},
	}, nil)
	assert.IsType(t, &OpenAI{}, r.completers[ProviderOpenAI])
	assert.IsType(t, &Anthropic{}, r.completers[ProviderAnthropic])
}

func TestOpenAIStream(t *testing.T) {
	client := &http.Client{Transport: roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		assert.Equal(t, "/v1/chat/completions", req.URL.Path)
		assert.Equal(t, "Bearer sk-test", req.Header.Get("Authorization"))

		var in chatCompletionRequest
		require.NoError(t, json.NewDecoder(req.Body).Decode(&in))
		assert.Equal(t, "gpt-4o", in.Model)
		assert.True(t, in.Stream)
		require.Len(t, in.Messages, 2)
		assert.Equal(t, Message{Role: "system", Content: "sys"}, in.Messages[0])

		return sseResponse(http.StatusOK, strings.Join([]string{
			`data: {"choices":[{"delta":{"role":"assistant"}}]}`,
			``,
			`data: {"choices":[{"delta":{"content":"Hi"}}]}`,
			``,
			`: keep-alive`,
			`data: {"choices":[{"delta":{"content":" there"}}]}`,
			``,
			`data: [DONE]`,
			``,
			`data: {"choices":[{"delta":{"content":"ignored"}}]}`,
			``,
		}, "\n")), nil
	})}

	o := NewOpenAI(config.ProviderConfig{BaseURL: "http://upstream/", Model: "gpt-4o"}, client)
	var got []string
	text, err := o.Stream(context.Background(), Request{
		APIKey:   "sk-test",
		System:   "sys",
		Messages: []Message{{Role: "user", Content: "hello"}},
	}, func(d string) error {
		got = append(got, d)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "Hi there", text)
	assert.Equal(t, []string{"Hi", " there"}, got)
}

func TestOpenAIUpstreamStatus(t *testing.T) {
	client := &http.Client{Transport: roundTripperFunc(func(*http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusUnauthorized,
			Body:       io.NopCloser(bytes.NewBufferString(`{"error":{"message":"bad key"}}`)),
		}, nil
	})}

	o := NewOpenAI(config.ProviderConfig{BaseURL: "http://upstream", Model: "gpt-4o"}, client)
	_, err := o.Stream(context.Background(), Request{APIKey: "bad"}, func(string) error { return nil })

	var ue *UpstreamError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, http.StatusUnauthorized, ue.StatusCode)
	assert.Contains(t, ue.Body, "bad key")
	assert.True(t, IsUpstream(err))
}

func TestOpenAITransportErrorAfterCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	client := &http.Client{Transport: roundTripperFunc(func(*http.Request) (*http.Response, error) {
		cancel()
		return nil, errors.New("connection reset")
	})}

	o := NewOpenAI(config.ProviderConfig{BaseURL: "http://upstream", Model: "gpt-4o"}, client)
	_, err := o.Stream(ctx, Request{APIKey: "k"}, func(string) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAnthropicStream(t *testing.T) {
	client := &http.Client{Transport: roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		assert.Equal(t, "/v1/messages", req.URL.Path)
		assert.Equal(t, "sk-ant", req.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", req.Header.Get("anthropic-version"))

		var in messagesRequest
		require.NoError(t, json.NewDecoder(req.Body).Decode(&in))
		assert.Equal(t, 4096, in.MaxTokens)
		assert.Equal(t, "sys\n\nextra rules", in.System)
		assert.Equal(t, []Message{{Role: "user", Content: "hi"}}, in.Messages)

		return sseResponse(http.StatusOK, strings.Join([]string{
			`event: message_start`,
			`data: {"type":"message_start","message":{"id":"msg_1"}}`,
			``,
			`event: content_block_delta`,
			`data: {"type":"content_block_delta","index":0,"delta":{"type":"text_delta","text":"Your "}}`,
			``,
			`event: ping`,
			`data: {"type":"ping"}`,
			``,
			`event: content_block_delta`,
			`data: {"type":"content_block_delta","index":0,"delta":{"type":"text_delta","text":"offer"}}`,
			``,
			`event: message_stop`,
			`data: {"type":"message_stop"}`,
			``,
		}, "\n")), nil
	})}

	a := NewAnthropic(config.ProviderConfig{BaseURL: "http://upstream", Model: "claude-sonnet-4-20250514"}, "2023-06-01", 0, client)
	var got []string
	text, err := a.Stream(context.Background(), Request{
		APIKey: "sk-ant",
		System: "sys",
		Messages: []Message{
			{Role: "system", Content: "extra rules"},
			{Role: "user", Content: "hi"},
		},
	}, func(d string) error {
		got = append(got, d)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "Your offer", text)
	assert.Equal(t, []string{"Your ", "offer"}, got)
}

func TestAnthropicErrorEvent(t *testing.T) {
	client := &http.Client{Transport: roundTripperFunc(func(*http.Request) (*http.Response, error) {
		return sseResponse(http.StatusOK, strings.Join([]string{
			`event: content_block_delta`,
			`data: {"type":"content_block_delta","delta":{"type":"text_delta","text":"partial"}}`,
			``,
			`event: error`,
			`data: {"type":"error","error":{"type":"overloaded_error","message":"Overloaded"}}`,
			``,
		}, "\n")), nil
	})}

	a := NewAnthropic(config.ProviderConfig{BaseURL: "http://upstream", Model: "m"}, "2023-06-01", 1024, client)
	text, err := a.Stream(context.Background(), Request{APIKey: "k"}, func(string) error { return nil })

	var ue *UpstreamError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, "Overloaded", ue.Body)
	assert.Equal(t, "partial", text)
}

func TestStreamSSEFlushesFinalEventWithoutBlankLine(t *testing.T) {
	var events [][2]string
	err := streamSSE(strings.NewReader("event: a\ndata: one\ndata: two\n\ndata: tail"), func(ev, data string) error {
		events = append(events, [2]string{ev, data})
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, [][2]string{{"a", "one\ntwo"}, {"", "tail"}}, events)
}

func TestUpstreamErrorMessages(t *testing.T) {
	assert.Equal(t, "openai upstream error: status=500", (&UpstreamError{Provider: ProviderOpenAI, StatusCode: 500}).Error())
	assert.Equal(t, "anthropic upstream error: Overloaded", (&UpstreamError{Provider: ProviderAnthropic, Body: "Overloaded"}).Error())
	cause := errors.New("dial tcp")
	assert.ErrorIs(t, &UpstreamError{Provider: ProviderOpenAI, Err: cause}, cause)
}
