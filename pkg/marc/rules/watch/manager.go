package watch

import (
	"fmt"
	"sync"

	"catalog-hq/marcval/pkg/marc/rules"
	"catalog-hq/marcval/pkg/telemetry/logging"
)

// Manager loads a rule override file and serves the parsed context to
// validation callers. Reload replaces the context atomically; a failed
// reload keeps the previous context in place.
type Manager struct {
	path   string
	logger *logging.Logger

	mu  sync.RWMutex
	ctx *rules.RuleContext

	// onReload observes every reload attempt. Used to feed metrics.
	onReload func(error)
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithLogger sets the manager's logger.
func WithLogger(logger *logging.Logger) ManagerOption {
	return func(m *Manager) { m.logger = logger }
}

// WithReloadHook registers a callback invoked after every reload attempt
// with the reload outcome.
func WithReloadHook(hook func(error)) ManagerOption {
	return func(m *Manager) { m.onReload = hook }
}

// NewManager loads the override file at path. An empty path yields a
// manager whose Current is always nil.
func NewManager(path string, opts ...ManagerOption) (*Manager, error) {
	m := &Manager{
		path:   path,
		logger: logging.Discard(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = m.logger.With("component", "rules.watch")

	if path == "" {
		return m, nil
	}

	ctx, err := rules.LoadContextFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load rule overrides: %w", err)
	}
	m.ctx = ctx

	m.logger.Info("rule overrides loaded",
		"path", path,
		"rules", len(ctx.Rules),
		"replace_all", ctx.ReplaceAll,
	)
	return m, nil
}

// Current returns the active override context, or nil when no override
// file is configured.
func (m *Manager) Current() *rules.RuleContext {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.ctx
}

// Path returns the watched file path.
func (m *Manager) Path() string {
	return m.path
}

// Reload re-reads the override file. On parse failure the previous
// context stays active and the error is returned.
func (m *Manager) Reload() error {
	if m.path == "" {
		return nil
	}

	ctx, err := rules.LoadContextFile(m.path)
	if m.onReload != nil {
		m.onReload(err)
	}
	if err != nil {
		m.logger.Error("rule override reload failed, keeping previous rules",
			"path", m.path,
			"error", err,
		)
		return err
	}

	m.mu.Lock()
	m.ctx = ctx
	m.mu.Unlock()

	m.logger.Info("rule overrides reloaded",
		"path", m.path,
		"rules", len(ctx.Rules),
		"replace_all", ctx.ReplaceAll,
	)
	return nil
}
