package hostfetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"

	sdkproto "github.com/tarmac-project/protobuf-go/sdk"
	proto "github.com/tarmac-project/protobuf-go/sdk/http"

	"github.com/tarmac-project/fetchmock/host"
	"github.com/tarmac-project/fetchmock/hostmock"
)

// hostReply builds a marshaled host response.
func hostReply(hostCode int32, httpCode int32, body string) []byte {
	resp := &proto.HTTPClientResponse{
		Status: &sdkproto.Status{Status: "Host OK", Code: hostCode},
		Code:   httpCode,
		Headers: map[string]*proto.Header{
			"Content-Type": {Values: []string{"application/json"}},
		},
		Body: []byte(body),
	}
	b, _ := resp.MarshalVT()
	return b
}

// newClientWith builds a Client from a hostmock.Config.
func newClientWith(t *testing.T, cfg hostmock.Config) (*Client, *hostmock.Mock) {
	t.Helper()

	m, err := hostmock.New(cfg)
	if err != nil {
		t.Fatalf("hostmock: %v", err)
	}
	c, err := New(Config{SDKConfig: host.RuntimeConfig{Namespace: cfg.ExpectedNamespace}, HostCall: m.HostCall})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return c, m
}

// requestValidator verifies method, URL, body and headers set on the protobuf payload.
func requestValidator(method, url string, body []byte, headers map[string]string) func([]byte) error {
	return func(payload []byte) error {
		var req proto.HTTPClient
		if err := hostmock.Decode(payload, &req); err != nil {
			return err
		}
		if req.GetMethod() != method {
			return fmt.Errorf("method mismatch: expected %s, got %s", method, req.GetMethod())
		}
		if req.GetUrl() != url {
			return fmt.Errorf("url mismatch: expected %s, got %s", url, req.GetUrl())
		}
		if body != nil && !bytes.Equal(req.GetBody(), body) {
			return fmt.Errorf("body mismatch: expected %q, got %q", body, req.GetBody())
		}
		for k, v := range headers {
			h, ok := req.GetHeaders()[k]
			if !ok || len(h.GetValues()) == 0 || h.GetValues()[0] != v {
				return fmt.Errorf("header %s: expected %q", k, v)
			}
		}
		return nil
	}
}

func TestFetchHappyPaths(t *testing.T) {
	tt := []struct {
		name    string
		method  string
		url     string
		body    string
		headers map[string]string
	}{
		{"GET", http.MethodGet, "http://example.com/api", "", nil},
		{"POST with body", http.MethodPost, "http://example.com/api/resource", `{"name":"test"}`, map[string]string{"Content-Type": "application/json"}},
		{"PATCH with headers", http.MethodPatch, "https://example.com/api/1", `{"x":1}`, map[string]string{"X-Trace": "abc"}},
		{"DELETE", http.MethodDelete, "http://example.com/api/1", "", nil},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			var wantBody []byte
			if tc.body != "" {
				wantBody = []byte(tc.body)
			}
			c, m := newClientWith(t, hostmock.Config{
				ExpectedNamespace:  host.DefaultNamespace,
				ExpectedCapability: "httpclient",
				ExpectedFunction:   "call",
				PayloadValidator:   requestValidator(tc.method, tc.url, wantBody, tc.headers),
				Response:           func() []byte { return hostReply(200, 200, `{"message":"success"}`) },
			})

			var body io.Reader
			if tc.body != "" {
				body = strings.NewReader(tc.body)
			}
			req, err := http.NewRequest(tc.method, tc.url, body)
			if err != nil {
				t.Fatalf("NewRequest returned error: %v", err)
			}
			for k, v := range tc.headers {
				req.Header.Set(k, v)
			}

			resp, err := c.Network()(context.Background(), req)
			if err != nil {
				t.Fatalf("Fetch returned error: %v", err)
			}
			if resp.StatusCode != http.StatusOK || resp.Status != "200 OK" {
				t.Fatalf("status mismatch: got %d %q", resp.StatusCode, resp.Status)
			}
			if resp.Header.Get("Content-Type") != "application/json" {
				t.Fatalf("header mismatch: got %v", resp.Header)
			}
			if resp.Request != req {
				t.Fatalf("expected response to reference the sent request")
			}
			got, _ := io.ReadAll(resp.Body)
			if string(got) != `{"message":"success"}` {
				t.Fatalf("body mismatch: got %q", got)
			}
			if len(m.Calls()) != 1 {
				t.Fatalf("expected one host call, got %d", len(m.Calls()))
			}
		})
	}
}

func TestFetchStatusCodes(t *testing.T) {
	tt := []struct {
		name     string
		hostCode int32
		noStatus bool
		httpCode int32
		wantErr  error
	}{
		{name: "HTTP 404, host success", hostCode: 200, httpCode: 404},
		{name: "Partial host success", hostCode: 206, httpCode: 200},
		{name: "Host error", hostCode: 500, wantErr: host.ErrHostError},
		{name: "Host bad request", hostCode: 400, wantErr: host.ErrHostError},
		{name: "Host missing", hostCode: 404, wantErr: host.ErrHostError},
		{name: "Missing status", noStatus: true, wantErr: host.ErrHostResponseInvalid},
		{name: "Unknown status", hostCode: 999, wantErr: host.ErrHostResponseInvalid},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			reply := &proto.HTTPClientResponse{Code: tc.httpCode}
			if !tc.noStatus {
				reply.Status = &sdkproto.Status{Status: "detail", Code: tc.hostCode}
			}
			b, err := reply.MarshalVT()
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			c, _ := newClientWith(t, hostmock.Config{Response: func() []byte { return b }})

			req, _ := http.NewRequest(http.MethodGet, "http://example.com", nil)
			resp, err := c.Fetch(context.Background(), req)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected error %v, got %v", tc.wantErr, err)
			}
			if err != nil {
				return
			}
			if resp.StatusCode != int(tc.httpCode) {
				t.Fatalf("code mismatch: want %d, got %d", tc.httpCode, resp.StatusCode)
			}
		})
	}
}

func TestFetchErrors(t *testing.T) {
	t.Run("Host call failure", func(t *testing.T) {
		c, _ := newClientWith(t, hostmock.Config{Fail: true, Error: errors.New("host call failed")})
		req, _ := http.NewRequest(http.MethodGet, "http://example.com", nil)
		if _, err := c.Fetch(context.Background(), req); !errors.Is(err, host.ErrHostCall) {
			t.Fatalf("want ErrHostCall, got %v", err)
		}
	})

	t.Run("Garbage reply", func(t *testing.T) {
		c, _ := newClientWith(t, hostmock.Config{Response: func() []byte { return []byte{0xff, 0xff} }})
		req, _ := http.NewRequest(http.MethodGet, "http://example.com", nil)
		if _, err := c.Fetch(context.Background(), req); !errors.Is(err, ErrUnmarshalResponse) {
			t.Fatalf("want ErrUnmarshalResponse, got %v", err)
		}
	})

	t.Run("Nil request", func(t *testing.T) {
		c, _ := newClientWith(t, hostmock.Config{})
		if _, err := c.Fetch(context.Background(), nil); !errors.Is(err, ErrNilRequest) {
			t.Fatalf("want ErrNilRequest, got %v", err)
		}
	})

	t.Run("Relative URL", func(t *testing.T) {
		c, m := newClientWith(t, hostmock.Config{})
		req, _ := http.NewRequest(http.MethodGet, "/relative", nil)
		if _, err := c.Fetch(context.Background(), req); !errors.Is(err, ErrInvalidURL) {
			t.Fatalf("want ErrInvalidURL, got %v", err)
		}
		if len(m.Calls()) != 0 {
			t.Fatalf("host must not be called for invalid URLs")
		}
	})

	t.Run("Cancelled context", func(t *testing.T) {
		c, m := newClientWith(t, hostmock.Config{})
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		req, _ := http.NewRequest(http.MethodGet, "http://example.com", nil)
		if _, err := c.Fetch(ctx, req); !errors.Is(err, context.Canceled) {
			t.Fatalf("want context.Canceled, got %v", err)
		}
		if len(m.Calls()) != 0 {
			t.Fatalf("host must not be called once cancelled")
		}
	})

	t.Run("Body read failure", func(t *testing.T) {
		c, _ := newClientWith(t, hostmock.Config{})
		req, _ := http.NewRequest(http.MethodPost, "http://example.com", errReader{})
		if _, err := c.Fetch(context.Background(), req); !errors.Is(err, ErrReadBody) {
			t.Fatalf("want ErrReadBody, got %v", err)
		}
	})
}

type errReader struct{}

func (errReader) Read([]byte) (int, error) { return 0, errors.New("read failed") }

func TestNewDefaults(t *testing.T) {
	c, err := New(Config{})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if c.cfg.SDKConfig.Namespace != host.DefaultNamespace {
		t.Fatalf("namespace mismatch: want %q, got %q", host.DefaultNamespace, c.cfg.SDKConfig.Namespace)
	}
	if c.hostCall == nil {
		t.Fatalf("expected default host call")
	}
}
