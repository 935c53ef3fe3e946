// File: pkg/onboard/onboard.go

// Package onboard is the host-facing API of the SDK. A Client gates the host
// application's main UI behind a one-time onboarding flow: it presents the
// hosted page when needed, persists the outcome, and publishes state changes
// to subscribers.
package onboard

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/onboardkit/onboardkit/internal/presenter"
	"github.com/onboardkit/onboardkit/internal/store"
	"github.com/onboardkit/onboardkit/pkg/config"
)

// Errors returned by Client operations. They are informational: every
// failure class is absorbed locally (logged, state untouched) and never
// leaves the host in a broken state.
var (
	ErrNotConfigured      = errors.New("onboard: client is not configured")
	ErrNoIdentifier       = errors.New("onboard: onboarding identifier is empty")
	ErrPresentationActive = errors.New("onboard: a presentation is already active")
)

// Flow presents one onboarding session and blocks until it completes or the
// context is cancelled. The returned mapping may be nil when the flow
// completed without a payload.
type Flow interface {
	Present(ctx context.Context, targetURL string) (map[string]string, error)
}

// FlowFactory builds a Flow per presentation. Hosts with their own embedded
// view can substitute the default browser-window implementation.
type FlowFactory func(cfg *config.Config, logger *zap.Logger) Flow

// Storage abstracts the persisted record. Satisfied by *store.Store.
type Storage interface {
	Load(ctx context.Context) (bool, map[string]string)
	Save(ctx context.Context, completed bool, data map[string]string) error
	Reset(ctx context.Context) error
	Close() error
}

// Client owns the onboarding state for one host application. Construct it
// with New and share the pointer; there is no package-level singleton.
type Client struct {
	cfg        *config.Config
	logger     *zap.Logger
	newFlow    FlowFactory
	store      Storage
	onComplete func(map[string]string)

	mu         sync.RWMutex
	completed  bool
	data       map[string]string
	presenting bool
	subs       map[int]chan Event
	nextSubID  int
}

// Option customizes a Client.
type Option func(*Client)

// WithOnComplete registers a callback invoked once per completion event with
// the collected mapping (possibly nil). It runs on the goroutine that drove
// the presentation.
func WithOnComplete(fn func(map[string]string)) Option {
	return func(c *Client) { c.onComplete = fn }
}

// WithFlowFactory replaces the default browser-window presentation.
func WithFlowFactory(f FlowFactory) Option {
	return func(c *Client) { c.newFlow = f }
}

// WithStorage replaces the default SQLite-backed store.
func WithStorage(s Storage) Option {
	return func(c *Client) { c.store = s }
}

// New creates a configured Client and loads any previously persisted state.
// This replaces the traced design's process-wide configure() singleton.
func New(cfg *config.Config, logger *zap.Logger, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("onboard: configuration is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &Client{
		cfg:    cfg,
		logger: logger.Named("onboard"),
		subs:   make(map[int]chan Event),
		newFlow: func(cfg *config.Config, logger *zap.Logger) Flow {
			return presenter.New(cfg, logger)
		},
	}
	for _, opt := range opts {
		opt(c)
	}

	if cfg.Onboarding.Persist && c.store == nil {
		path, err := cfg.StorePath()
		if err != nil {
			return nil, err
		}
		s, err := store.Open(path, c.logger)
		if err != nil {
			return nil, err
		}
		c.store = s
	}

	if c.store != nil {
		completed, data := c.store.Load(context.Background())
		c.completed = completed
		c.data = data
	}

	return c, nil
}

// ready guards every operation against use before New. A nil or zero-value
// Client logs (when it can) and no-ops rather than crashing.
func (c *Client) ready() bool {
	if c == nil {
		return false
	}
	if c.cfg == nil {
		if c.logger != nil {
			c.logger.Error("Client used before it was configured; ignoring call.")
		}
		return false
	}
	return true
}

// Start runs the auto-show policy: when enabled and the flow has not been
// completed, it presents the onboarding page and blocks until completion or
// context cancellation. Hosts typically call this once at startup.
func (c *Client) Start(ctx context.Context) error {
	if !c.ready() {
		return ErrNotConfigured
	}
	if !c.cfg.Onboarding.AutoShow {
		c.logger.Debug("Auto-show disabled; skipping presentation.")
		return nil
	}
	if c.Completed() {
		c.logger.Debug("Onboarding already completed; skipping presentation.")
		return nil
	}
	return c.ShowOnboarding(ctx)
}

// ShowOnboarding presents the flow unconditionally, even when previously
// completed. A second call while a presentation is active is rejected.
func (c *Client) ShowOnboarding(ctx context.Context) error {
	if !c.ready() {
		return ErrNotConfigured
	}

	identifier := strings.TrimSpace(c.cfg.Onboarding.Identifier)
	if identifier == "" {
		c.logger.Error("Onboarding identifier is empty; refusing to load.")
		return ErrNoIdentifier
	}

	c.mu.Lock()
	if c.presenting {
		c.mu.Unlock()
		c.logger.Warn("Presentation request rejected: another presentation is active.")
		return ErrPresentationActive
	}
	c.presenting = true
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.presenting = false
		c.mu.Unlock()
	}()

	flow := c.newFlow(c.cfg, c.logger)
	targetURL := presenter.TargetURL(c.cfg.Onboarding.BaseURL, identifier)

	data, err := flow.Present(ctx, targetURL)
	if err != nil {
		// The presentation ended without a completion signal (host cancel,
		// window closed). State stays as it was.
		c.logger.Warn("Presentation ended without completion.", zap.Error(err))
		return nil
	}

	c.finishCompletion(ctx, data)
	return nil
}

// ResetOnboarding clears the persisted completion flag and data, notifies
// subscribers, and re-presents the flow.
func (c *Client) ResetOnboarding(ctx context.Context) error {
	if !c.ready() {
		return ErrNotConfigured
	}

	c.mu.Lock()
	c.completed = false
	c.data = nil
	c.mu.Unlock()

	if c.store != nil {
		if err := c.store.Reset(ctx); err != nil {
			c.logger.Error("Failed to reset persisted onboarding state.", zap.Error(err))
		}
	}
	c.publish(Event{Completed: false})

	return c.ShowOnboarding(ctx)
}

// finishCompletion records a completion event: state, persistence,
// subscribers, and the host callback, in that order. data may be nil when
// the flow completed without a payload; that absence is preserved.
func (c *Client) finishCompletion(ctx context.Context, data map[string]string) {
	c.mu.Lock()
	c.completed = true
	c.data = cloneMapping(data)
	cb := c.onComplete
	c.mu.Unlock()

	if c.store != nil {
		// Persisted synchronously: the host may terminate right after the
		// completion callback fires.
		if err := c.store.Save(ctx, true, data); err != nil {
			c.logger.Error("Failed to persist onboarding completion.", zap.Error(err))
		}
	}

	c.publish(Event{Completed: true, Data: cloneMapping(data)})

	if cb != nil {
		cb(cloneMapping(data))
	}
}

// Completed reports whether the onboarding flow has been completed.
func (c *Client) Completed() bool {
	if !c.ready() {
		return false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.completed
}

// Data returns a copy of the collected mapping, or nil when the flow has
// not produced one.
func (c *Client) Data() map[string]string {
	if !c.ready() {
		return nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return cloneMapping(c.data)
}

// Close releases the persisted store. The Client must not be used after.
func (c *Client) Close() error {
	if !c.ready() {
		return nil
	}
	if c.store != nil {
		return c.store.Close()
	}
	return nil
}

func cloneMapping(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
