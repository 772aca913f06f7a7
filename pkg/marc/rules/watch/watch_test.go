package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"catalog-hq/marcval/pkg/telemetry/logging"
)

func writeRuleFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write rule file: %v", err)
	}
}

func TestManagerLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "overrides.yaml")
	writeRuleFile(t, path, "rules:\n  \"500\":\n    repeatable: false\n")

	m, err := NewManager(path)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}

	ctx := m.Current()
	if ctx == nil {
		t.Fatal("expected a loaded context")
	}
	if len(ctx.Rules) != 1 {
		t.Errorf("loaded %d rules, want 1", len(ctx.Rules))
	}
	if _, ok := ctx.Rules["500"]; !ok {
		t.Error("expected a rule for tag 500")
	}
}

func TestManagerEmptyPath(t *testing.T) {
	m, err := NewManager("")
	if err != nil {
		t.Fatalf("NewManager(\"\") error = %v", err)
	}
	if m.Current() != nil {
		t.Error("expected nil context with no override file")
	}
	if err := m.Reload(); err != nil {
		t.Errorf("Reload() with no path error = %v", err)
	}
}

func TestManagerLoadErrors(t *testing.T) {
	if _, err := NewManager(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	writeRuleFile(t, path, "rules:\n  \"50\":\n    repeatable: false\n")
	if _, err := NewManager(path); err == nil {
		t.Error("expected error for invalid rule tag")
	}
}

func TestManagerReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "overrides.yaml")
	writeRuleFile(t, path, "rules:\n  \"500\":\n    repeatable: false\n")

	var outcomes []error
	m, err := NewManager(path, WithReloadHook(func(err error) {
		outcomes = append(outcomes, err)
	}))
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}

	writeRuleFile(t, path, "rules:\n  \"500\":\n    repeatable: false\n  \"600\":\n    repeatable: true\n")
	if err := m.Reload(); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	if got := len(m.Current().Rules); got != 2 {
		t.Errorf("reloaded %d rules, want 2", got)
	}

	// A broken file keeps the previous context.
	writeRuleFile(t, path, "rules: [not, a, map]\n")
	if err := m.Reload(); err == nil {
		t.Fatal("expected reload error for malformed file")
	}
	if got := len(m.Current().Rules); got != 2 {
		t.Errorf("context after failed reload has %d rules, want 2", got)
	}

	if len(outcomes) != 2 {
		t.Fatalf("reload hook called %d times, want 2", len(outcomes))
	}
	if outcomes[0] != nil || outcomes[1] == nil {
		t.Errorf("hook outcomes = [%v, %v], want [nil, error]", outcomes[0], outcomes[1])
	}
}

func TestFileWatcherRequiresPath(t *testing.T) {
	m, err := NewManager("")
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	if _, err := NewFileWatcher(m, nil); err == nil {
		t.Error("expected error for manager without a path")
	}
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return cond()
}

func TestFileWatcherReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "overrides.yaml")
	writeRuleFile(t, path, "rules:\n  \"500\":\n    repeatable: false\n")

	m, err := NewManager(path)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}

	fw, err := NewFileWatcher(m, logging.Discard())
	if err != nil {
		t.Fatalf("NewFileWatcher() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	watchDone := make(chan error, 1)
	go func() { watchDone <- fw.Watch(ctx) }()

	// Let the watcher register the directory before writing.
	time.Sleep(50 * time.Millisecond)

	writeRuleFile(t, path, "rules:\n  \"500\":\n    repeatable: false\n  \"600\":\n    repeatable: true\n")

	reloaded := waitFor(t, 3*time.Second, func() bool {
		c := m.Current()
		return c != nil && len(c.Rules) == 2
	})
	if !reloaded {
		t.Error("expected watcher to reload the override file")
	}

	if err := fw.Stop(); err != nil {
		t.Errorf("Stop() error = %v", err)
	}
	if err := <-watchDone; err != nil {
		t.Errorf("Watch() returned error = %v", err)
	}

	// Stop again is a no-op.
	if err := fw.Stop(); err != nil {
		t.Errorf("second Stop() error = %v", err)
	}
}
