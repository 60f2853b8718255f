package app

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestCopyTextFallsBackToOSC52(t *testing.T) {
	origSystem := clipboardWriteAll
	origOSC := clipboardWriteOSC52
	t.Cleanup(func() {
		clipboardWriteAll = origSystem
		clipboardWriteOSC52 = origOSC
	})

	clipboardWriteAll = func(string) error { return errors.New("no clipboard helper") }
	var got string
	clipboardWriteOSC52 = func(text string) error {
		got = text
		return nil
	}

	if err := copyText("http://cdn/i1.png"); err != nil {
		t.Fatalf("OSC52 fallback should succeed: %v", err)
	}
	if got != "http://cdn/i1.png" {
		t.Fatalf("fallback received %q", got)
	}
}

func TestCopyTextReportsBothFailures(t *testing.T) {
	origSystem := clipboardWriteAll
	origOSC := clipboardWriteOSC52
	t.Cleanup(func() {
		clipboardWriteAll = origSystem
		clipboardWriteOSC52 = origOSC
	})

	clipboardWriteAll = func(string) error { return errors.New("system down") }
	clipboardWriteOSC52 = func(string) error { return errors.New("no tty") }

	err := copyText("x")
	if err == nil {
		t.Fatalf("expected combined failure")
	}
	if !strings.Contains(err.Error(), "no tty") {
		t.Fatalf("fallback failure missing from message: %v", err)
	}
}

func TestWriteOSC52SequenceTmuxEmitsBothWrappings(t *testing.T) {
	t.Setenv("TMUX", "/tmp/tmux-1000/default,123,0")
	t.Setenv("TERM", "tmux-256color")

	var buf bytes.Buffer
	if err := writeOSC52Sequence(&buf, "hello"); err != nil {
		t.Fatalf("writeOSC52Sequence error: %v", err)
	}
	out := buf.String()
	if strings.Count(out, "\x1b]52;") < 1 {
		t.Fatalf("no OSC52 sequence emitted: %q", out)
	}
	if !strings.Contains(out, "\x1bPtmux;") {
		t.Fatalf("tmux wrapping missing: %q", out)
	}
}

func TestShouldAttemptOSC52RespectsOptOut(t *testing.T) {
	t.Setenv("TERM", "xterm-256color")
	t.Setenv("SHORTSAI_DISABLE_OSC52", "1")
	if shouldAttemptOSC52() {
		t.Fatalf("opt-out ignored")
	}

	t.Setenv("SHORTSAI_DISABLE_OSC52", "")
	t.Setenv("TERM", "dumb")
	if shouldAttemptOSC52() {
		t.Fatalf("dumb terminal should not attempt OSC52")
	}

	t.Setenv("TERM", "xterm-256color")
	if !shouldAttemptOSC52() {
		t.Fatalf("normal terminal should attempt OSC52")
	}
}
