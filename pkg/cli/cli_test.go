package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestCommandError(t *testing.T) {
	inner := errors.New("file not found")
	err := NewCommandError("validate", inner)

	if got := err.Error(); got != "marcval validate: file not found" {
		t.Errorf("Error() = %q", got)
	}
	if !errors.Is(err, inner) {
		t.Error("expected CommandError to unwrap to the inner error")
	}
}

func TestConfigError(t *testing.T) {
	err := NewConfigError("server.listen_address", "missing port")
	if got := err.Error(); got != "invalid configuration: server.listen_address: missing port" {
		t.Errorf("Error() = %q", got)
	}

	bare := NewConfigError("", "no config file")
	if got := bare.Error(); got != "invalid configuration: no config file" {
		t.Errorf("Error() = %q", got)
	}
}

func TestValidationError(t *testing.T) {
	err := NewValidationError(2, 5)
	if got := err.Error(); got != "2 of 5 record(s) invalid" {
		t.Errorf("Error() = %q", got)
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitOK},
		{"plain error", errors.New("boom"), ExitFailure},
		{"command error", NewCommandError("serve", errors.New("boom")), ExitFailure},
		{"validation error", NewValidationError(1, 1), ExitInvalid},
		{"wrapped validation error", NewCommandError("validate", NewValidationError(1, 3)), ExitInvalid},
	}
	for _, tt := range tests {
		if got := ExitCode(tt.err); got != tt.want {
			t.Errorf("ExitCode(%s) = %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    OutputFormat
		wantErr bool
	}{
		{"text", FormatText, false},
		{"json", FormatJSON, false},
		{"", FormatText, false},
		{"yaml", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseFormat(%q) expected error", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseFormat(%q) error = %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestJSONFormatter(t *testing.T) {
	formatter := NewFormatter(FormatJSON)

	data := map[string]any{"valid": true, "violations": 0}
	out, err := formatter.Format(data)
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if decoded["valid"] != true {
		t.Errorf("decoded = %v", decoded)
	}

	var buf bytes.Buffer
	if err := formatter.FormatTo(&buf, data); err != nil {
		t.Fatalf("FormatTo() error = %v", err)
	}
	if !strings.Contains(buf.String(), "\"valid\": true") {
		t.Errorf("FormatTo output = %q, want indented JSON", buf.String())
	}
}

func TestTextFormatter(t *testing.T) {
	formatter := NewFormatter(FormatText)

	var buf bytes.Buffer
	if err := formatter.FormatTo(&buf, "3 records valid"); err != nil {
		t.Fatalf("FormatTo() error = %v", err)
	}
	if buf.String() != "3 records valid\n" {
		t.Errorf("FormatTo output = %q", buf.String())
	}
}

func TestProgressReporter(t *testing.T) {
	var buf bytes.Buffer
	progress := NewProgressReporter(&buf)

	progress.Start(4)
	progress.Update(2)
	progress.Finish()

	out := buf.String()
	if !strings.Contains(out, "(2/4)") {
		t.Errorf("expected intermediate progress in output: %q", out)
	}
	if !strings.Contains(out, "(4/4)") {
		t.Errorf("expected completed progress in output: %q", out)
	}
	if !strings.Contains(out, "100.0%") {
		t.Errorf("expected 100%% on finish: %q", out)
	}
}

func TestProgressReporterError(t *testing.T) {
	var buf bytes.Buffer
	progress := NewProgressReporter(&buf)

	progress.Start(2)
	progress.Error(errors.New("record 2: malformed"))

	if !strings.Contains(buf.String(), "record 2: malformed") {
		t.Errorf("expected error message in output: %q", buf.String())
	}
}

func TestSignalContext(t *testing.T) {
	ctx, stop := SignalContext(context.Background())
	select {
	case <-ctx.Done():
		t.Error("context should not be canceled without a signal")
	default:
	}

	// stop both unregisters the handler and cancels the context.
	stop()
	<-ctx.Done()
}

func TestSignalContextParentCancel(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	ctx, stop := SignalContext(parent)
	defer stop()

	cancel()
	<-ctx.Done()
}
