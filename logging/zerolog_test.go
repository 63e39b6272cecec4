package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/motionkit/sequencer/core"
)

func TestZerologAdapter_EmitsFields(t *testing.T) {
	var buf bytes.Buffer
	adapter := Wrap(zerolog.New(&buf))

	adapter.Info("run started",
		core.F("tag", "fade"),
		core.F("animated", true),
		core.F("steps", 3),
		core.F("delay", 250*time.Millisecond),
	)

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("unmarshal log record: %v", err)
	}

	if record["level"] != "info" {
		t.Fatalf("level = %v, want info", record["level"])
	}
	if record["message"] != "run started" {
		t.Fatalf("message = %v, want %q", record["message"], "run started")
	}
	if record["tag"] != "fade" {
		t.Fatalf("tag = %v, want fade", record["tag"])
	}
	if record["animated"] != true {
		t.Fatalf("animated = %v, want true", record["animated"])
	}
	if record["steps"] != float64(3) {
		t.Fatalf("steps = %v, want 3", record["steps"])
	}
	if record["delay"] != float64(250) {
		t.Fatalf("delay = %v, want 250", record["delay"])
	}
}

func TestZerologAdapter_ErrorField(t *testing.T) {
	var buf bytes.Buffer
	adapter := Wrap(zerolog.New(&buf))

	adapter.Error("step panicked", core.F("cause", errors.New("boom")))

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("unmarshal log record: %v", err)
	}
	if record["level"] != "error" {
		t.Fatalf("level = %v, want error", record["level"])
	}
	if record["cause"] != "boom" {
		t.Fatalf("cause = %v, want boom", record["cause"])
	}
}

func TestNew_AddsTimestamp(t *testing.T) {
	var buf bytes.Buffer
	adapter := New(&buf)

	adapter.Debug("frame applied")

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("unmarshal log record: %v", err)
	}
	if _, ok := record["time"]; !ok {
		t.Fatalf("record missing time field: %v", record)
	}
}
