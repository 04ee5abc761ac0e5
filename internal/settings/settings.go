package settings

import (
	"context"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"

	"gravity/internal/config"
)

const (
	KeyOpenAI    = "gravity-openai-key"
	KeyAnthropic = "gravity-anthropic-key"
	KeyProvider  = "gravity-provider"

	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// Settings is the user's provider choice and per-vendor API keys.
type Settings struct {
	OpenAIKey    string `json:"openaiKey"`
	AnthropicKey string `json:"anthropicKey"`
	Provider     string `json:"provider"`
}

func Default() Settings {
	return Settings{Provider: ProviderOpenAI}
}

// ActiveKey returns the key for the selected provider.
func (s Settings) ActiveKey() string {
	if s.Provider == ProviderAnthropic {
		return s.AnthropicKey
	}
	return s.OpenAIKey
}

// Partial carries the fields to write; nil fields are left as they are.
type Partial struct {
	OpenAIKey    *string
	AnthropicKey *string
	Provider     *string
}

// Store 设置的内存快照与持久化后端，写入与快照更新在同一把锁内完成
type Store struct {
	backend Backend

	mu      sync.Mutex
	current Settings
	subs    map[int]func(Settings)
	nextSub int
}

func NewStore(b Backend) *Store {
	return &Store{backend: b, current: Default(), subs: map[int]func(Settings){}}
}

// Load reads the three keys independently; missing ones take their defaults.
func (s *Store) Load(ctx context.Context) (Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := Default()
	for key, dst := range map[string]*string{
		KeyOpenAI:    &next.OpenAIKey,
		KeyAnthropic: &next.AnthropicKey,
		KeyProvider:  &next.Provider,
	} {
		v, ok, err := s.backend.Get(ctx, key)
		if err != nil {
			return s.current, fmt.Errorf("load %s: %w", key, err)
		}
		if ok && v != "" {
			*dst = v
		}
	}
	s.current = next
	return next, nil
}

// Save writes only the present fields. On a failed write the snapshot keeps
// whatever was written before the failure.
func (s *Store) Save(ctx context.Context, p Partial) (Settings, error) {
	if p.Provider != nil && *p.Provider != ProviderOpenAI && *p.Provider != ProviderAnthropic {
		return s.Get(), fmt.Errorf("unknown provider %q", *p.Provider)
	}

	s.mu.Lock()
	next := s.current
	var saveErr error
	for _, w := range []struct {
		key string
		val *string
		dst *string
	}{
		{KeyOpenAI, p.OpenAIKey, &next.OpenAIKey},
		{KeyAnthropic, p.AnthropicKey, &next.AnthropicKey},
		{KeyProvider, p.Provider, &next.Provider},
	} {
		if w.val == nil {
			continue
		}
		if err := s.backend.Set(ctx, w.key, *w.val); err != nil {
			saveErr = fmt.Errorf("save %s: %w", w.key, err)
			break
		}
		*w.dst = *w.val
	}
	s.current = next
	subs := make([]func(Settings), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(next)
	}
	return next, saveErr
}

func (s *Store) Get() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *Store) ActiveKey() string {
	return s.Get().ActiveKey()
}

// Subscribe registers fn for every saved snapshot and returns its cancel func.
func (s *Store) Subscribe(fn func(Settings)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// OpenBackend builds the backend named by the config.
func OpenBackend(cfg config.SettingsConfig) (Backend, func() error, error) {
	noop := func() error { return nil }
	switch cfg.Backend {
	case config.SettingsBackendFile, "":
		path := cfg.Path
		if path == "" {
			p, err := config.DefaultSettingsPath()
			if err != nil {
				return nil, noop, err
			}
			path = p
		}
		return NewFileBackend(path), noop, nil
	case config.SettingsBackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		return NewRedisBackend(client, cfg.Redis.Prefix), client.Close, nil
	case config.SettingsBackendMemory:
		return NewMemoryBackend(), noop, nil
	}
	return nil, noop, fmt.Errorf("unsupported settings backend %q", cfg.Backend)
}
