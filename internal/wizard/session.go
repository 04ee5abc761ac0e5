package wizard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"gravity/internal/config"
	"gravity/internal/logger"
	"gravity/internal/metrics"
	"gravity/internal/models"
)

var (
	ErrOfferNotFound = errors.New("offer not found")
	ErrClosed        = errors.New("wizard session closed")
)

// Store is the persistence the wizard needs. The gorm repository and the
// HTTP client both satisfy it.
type Store interface {
	Get(ctx context.Context, id uint) (models.Offer, error)
	Create(ctx context.Context, p models.Patch) (models.Offer, error)
	Update(ctx context.Context, id uint, p models.Patch) (models.Offer, error)
}

type Options struct {
	AutosaveDelay time.Duration
	SaveRetries   int
	RetryBackoff  time.Duration
	// SaveTimeout bounds a background autosave.
	SaveTimeout time.Duration
}

func DefaultOptions() Options {
	return Options{
		AutosaveDelay: time.Second,
		SaveRetries:   3,
		RetryBackoff:  200 * time.Millisecond,
		SaveTimeout:   30 * time.Second,
	}
}

func OptionsFromConfig(cfg config.WizardConfig) Options {
	opts := DefaultOptions()
	if cfg.AutosaveDelayMs > 0 {
		opts.AutosaveDelay = config.GetDuration(cfg.AutosaveDelayMs)
	}
	if cfg.SaveRetries > 0 {
		opts.SaveRetries = cfg.SaveRetries
	}
	if cfg.RetryBackoffMs > 0 {
		opts.RetryBackoff = config.GetDuration(cfg.RetryBackoffMs)
	}
	return opts
}

type SaveState string

const (
	StateSaved   SaveState = "saved"
	StatePending SaveState = "pending"
	StateSaving  SaveState = "saving"
	StateError   SaveState = "error"
)

type Status struct {
	State     SaveState
	LastSaved time.Time
	Err       error
}

// Session 向导会话：内存草稿 + 防抖自动保存
type Session struct {
	store Store
	log   logger.Logger
	opts  Options

	mu        sync.Mutex
	draft     Draft
	malformed map[string]bool
	status    Status
	observers map[int]func(Status)
	nextObs   int
	closed    bool

	saveMu    sync.Mutex
	saveErr   error
	debouncer *Debouncer
}

// Open loads the offer with the given id, or creates a blank one when id is nil.
func Open(ctx context.Context, store Store, id *uint, log logger.Logger, opts Options) (*Session, error) {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	if opts.SaveRetries < 1 {
		opts.SaveRetries = 1
	}
	if opts.SaveTimeout <= 0 {
		opts.SaveTimeout = DefaultOptions().SaveTimeout
	}

	var (
		offer models.Offer
		err   error
	)
	if id != nil {
		offer, err = store.Get(ctx, *id)
		if errors.Is(err, models.ErrNotFound) {
			return nil, fmt.Errorf("%w: %d", ErrOfferNotFound, *id)
		}
		if err != nil {
			return nil, fmt.Errorf("load offer %d: %w", *id, err)
		}
	} else {
		offer, err = store.Create(ctx, models.Patch{
			models.FieldTitle:       models.WizardTitle,
			models.FieldStatus:      models.StatusDraft,
			models.FieldCurrentStep: models.FirstStep,
		})
		if err != nil {
			return nil, fmt.Errorf("create offer: %w", err)
		}
	}

	draft, malformed := draftFromOffer(offer)
	s := &Session{
		store:     store,
		log:       log.WithFields(map[string]interface{}{"offerId": offer.ID}),
		opts:      opts,
		draft:     draft,
		malformed: map[string]bool{},
		status:    Status{State: StateSaved, LastSaved: offer.UpdatedAt},
		observers: map[int]func(Status){},
	}
	for _, f := range malformed {
		s.malformed[f] = true
		s.log.Warn("stored field could not be decoded, leaving it untouched", map[string]interface{}{"field": f})
	}
	s.debouncer = NewDebouncer(opts.AutosaveDelay, s.autosave)
	return s, nil
}

func (s *Session) ID() uint {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft.ID
}

// Draft returns a copy of the current draft.
func (s *Session) Draft() Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft.clone()
}

func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// OnStatus registers fn for status changes and returns its cancel func.
func (s *Session) OnStatus(fn func(Status)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextObs
	s.nextObs++
	s.observers[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.observers, id)
	}
}

// Patch merges c into the draft and schedules an autosave.
func (s *Session) Patch(c Changes) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	touched, err := s.draft.apply(c)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	for _, f := range touched {
		delete(s.malformed, f)
	}
	s.mu.Unlock()

	if len(touched) > 0 {
		s.schedule()
	}
	return nil
}

// GoTo moves to step. Out-of-range steps change nothing and return false.
func (s *Session) GoTo(step int) bool {
	if !models.StepInRange(step) {
		return false
	}
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false
	}
	s.draft.CurrentStep = step
	s.mu.Unlock()
	s.schedule()
	return true
}

func (s *Session) Next() bool {
	return s.GoTo(s.Draft().CurrentStep + 1)
}

func (s *Session) Prev() bool {
	return s.GoTo(s.Draft().CurrentStep - 1)
}

// AddThorn appends a thorn with default scores.
func (s *Session) AddThorn(thing string) error {
	card := s.Draft().ThornScorecard.Add(models.NewThorn(thing))
	return s.Patch(Changes{ThornScorecard: &card})
}

// UpdateThorn edits thorn i and recomputes its total.
func (s *Session) UpdateThorn(i int, fn func(*models.ThornItem)) error {
	card := s.Draft().ThornScorecard.Update(i, fn)
	return s.Patch(Changes{ThornScorecard: &card})
}

func (s *Session) RemoveThorn(i int) error {
	card := s.Draft().ThornScorecard.Remove(i)
	return s.Patch(Changes{ThornScorecard: &card})
}

func (s *Session) schedule() {
	s.setState(StatePending, nil, false)
	s.debouncer.Trigger()
}

func (s *Session) autosave() {
	ctx, cancel := context.WithTimeout(context.Background(), s.opts.SaveTimeout)
	defer cancel()
	if err := s.save(ctx); err != nil {
		s.log.WithError(err).Error("autosave failed", nil)
	}
}

// Save cancels any pending autosave and saves now.
func (s *Session) Save(ctx context.Context) error {
	s.debouncer.Cancel()
	return s.save(ctx)
}

// Flush runs a pending autosave immediately. When an autosave is already
// running it waits for it and returns its result. It does nothing otherwise.
func (s *Session) Flush(ctx context.Context) error {
	if s.debouncer.Cancel() {
		return s.save(ctx)
	}
	if !s.debouncer.Wait() {
		return nil
	}
	s.saveMu.Lock()
	defer s.saveMu.Unlock()
	return s.saveErr
}

// Close flushes and stops the autosave timer. Later mutations return ErrClosed.
func (s *Session) Close(ctx context.Context) error {
	err := s.Flush(ctx)
	s.debouncer.Stop()
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return err
}

func (s *Session) save(ctx context.Context) error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.mu.Lock()
	draft := s.draft.clone()
	skip := make(map[string]bool, len(s.malformed))
	for f := range s.malformed {
		skip[f] = true
	}
	s.mu.Unlock()
	s.setState(StateSaving, nil, false)

	patch, err := draft.patch(skip)
	if err == nil {
		err = retryWithBackoff(ctx, func() error {
			_, uerr := s.store.Update(ctx, draft.ID, patch)
			return uerr
		}, s.opts.SaveRetries, s.opts.RetryBackoff, s.log, "save offer")
	}

	s.saveErr = err
	if err != nil {
		metrics.WizardSaves.WithLabelValues("error").Inc()
		s.setState(StateError, err, false)
		return err
	}
	metrics.WizardSaves.WithLabelValues("ok").Inc()
	state := StateSaved
	if s.debouncer.Pending() {
		state = StatePending
	}
	s.setState(state, nil, true)
	return nil
}

func (s *Session) setState(state SaveState, err error, saved bool) {
	s.mu.Lock()
	s.status.State = state
	s.status.Err = err
	if saved {
		s.status.LastSaved = time.Now()
	}
	snapshot := s.status
	observers := make([]func(Status), 0, len(s.observers))
	for _, fn := range s.observers {
		observers = append(observers, fn)
	}
	s.mu.Unlock()

	for _, fn := range observers {
		fn(snapshot)
	}
}
