package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/tarmac-project/fetchmock/host"
	"github.com/tarmac-project/fetchmock/hostmock"
)

func TestNew(t *testing.T) {
	t.Parallel()

	tt := []struct {
		name    string
		level   string
		wantErr bool
	}{
		{"default level", "", false},
		{"debug", "debug", false},
		{"bogus", "loud", true},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := New(Config{Writer: &bytes.Buffer{}, Level: tc.level})
			if (err != nil) != tc.wantErr {
				t.Fatalf("want error %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestWriterOutput(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	c, err := New(Config{Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	c.Debug("hidden")
	c.Warn("Unmatched GET to /other", F("method", "GET"), F("url", "/other"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected exactly one line at info level, got %d: %q", len(lines), buf.String())
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	want := map[string]string{
		"level":     "warn",
		"message":   "Unmatched GET to /other",
		"method":    "GET",
		"url":       "/other",
		"component": "fetchmock",
	}
	for k, v := range want {
		if entry[k] != v {
			t.Fatalf("field %s mismatch: want %q, got %v", k, v, entry[k])
		}
	}
}

func TestHostForwarding(t *testing.T) {
	t.Parallel()

	m, err := hostmock.New(hostmock.Config{
		ExpectedNamespace:  "custom",
		ExpectedCapability: capabilityName,
	})
	if err != nil {
		t.Fatalf("hostmock: %v", err)
	}

	c, err := New(Config{SDKConfig: host.RuntimeConfig{Namespace: "custom"}, HostCall: m.HostCall, Level: "trace"})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	tt := []struct {
		name string
		call func(Client)
		fn   string
	}{
		{"Info", func(c Client) { c.Info("msg") }, "Info"},
		{"Warn", func(c Client) { c.Warn("msg") }, "Warn"},
		{"Error", func(c Client) { c.Error("msg") }, "Error"},
		{"Debug", func(c Client) { c.Debug("msg") }, "Debug"},
		{"Trace", func(c Client) { c.Trace("msg") }, "Trace"},
	}

	for i, tc := range tt {
		tc.call(c)
		calls := m.Calls()
		if len(calls) != i+1 {
			t.Fatalf("%s: expected %d host calls, got %d", tc.name, i+1, len(calls))
		}
		got := calls[i]
		if got.Function != tc.fn {
			t.Fatalf("%s: function mismatch: want %q, got %q", tc.name, tc.fn, got.Function)
		}
		if got.Err != nil {
			t.Fatalf("%s: unexpected host error: %v", tc.name, got.Err)
		}
		if !bytes.Contains(got.Payload, []byte(`"message":"msg"`)) {
			t.Fatalf("%s: payload missing message: %s", tc.name, got.Payload)
		}
	}
}

func TestNop(t *testing.T) {
	t.Parallel()

	c := Nop()
	c.Info("nothing")
	c.Warn("nothing", F("k", "v"))
}
