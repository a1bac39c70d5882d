package hostfetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	proto "github.com/tarmac-project/protobuf-go/sdk/http"

	"github.com/tarmac-project/fetchmock/host"
	"github.com/tarmac-project/fetchmock/resolve"
)

const (
	capabilityName = "httpclient"
	fnCall         = "call"

	hostStatusOK       = int32(200)
	hostStatusPartial  = int32(206)
	hostStatusBadInput = int32(400)
	hostStatusMissing  = int32(404)
	hostStatusError    = int32(500)
)

var (
	// ErrInvalidURL indicates a request without an absolute URL.
	ErrInvalidURL = errors.New("invalid URL provided")

	// ErrNilRequest indicates Fetch received a nil request.
	ErrNilRequest = errors.New("request is nil")

	// ErrMarshalRequest wraps failures while encoding the request payload.
	ErrMarshalRequest = errors.New("failed to create request")

	// ErrReadBody wraps failures while reading a request body stream.
	ErrReadBody = errors.New("failed to read request body")

	// ErrUnmarshalResponse wraps failures while decoding the host response.
	ErrUnmarshalResponse = errors.New("failed to unmarshal response")
)

// Config configures the host-backed network function.
type Config struct {
	// SDKConfig provides the runtime namespace for host calls.
	SDKConfig host.RuntimeConfig

	// InsecureSkipVerify disables TLS verification when supported by the host.
	InsecureSkipVerify bool

	// HostCall overrides the waPC host function used for requests.
	HostCall host.Call
}

// Client performs requests through the host httpclient capability.
type Client struct {
	cfg      Config
	hostCall host.Call
}

// New creates a Client with the provided configuration.
func New(config Config) (*Client, error) {
	config.SDKConfig = config.SDKConfig.WithDefaults()
	return &Client{cfg: config, hostCall: host.Resolve(config.HostCall)}, nil
}

// Network returns c.Fetch as a resolve.NetworkFunc.
func (c *Client) Network() resolve.NetworkFunc {
	return c.Fetch
}

// Fetch sends req to the host and returns the host's response.
// The host call itself cannot be interrupted; ctx is checked before it starts.
func (c *Client) Fetch(ctx context.Context, req *http.Request) (*http.Response, error) {
	if req == nil {
		return nil, ErrNilRequest
	}
	if req.URL == nil || req.URL.Host == "" {
		return nil, ErrInvalidURL
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Read the body content if present
	var body []byte
	if req.Body != nil && req.Body != http.NoBody {
		defer func() { _ = req.Body.Close() }()
		b, err := io.ReadAll(req.Body)
		if err != nil {
			return nil, errors.Join(ErrReadBody, err)
		}
		body = b
	}

	pbReq := &proto.HTTPClient{
		Method:   req.Method,
		Url:      req.URL.String(),
		Insecure: c.cfg.InsecureSkipVerify,
		Body:     body,
		Headers:  make(map[string]*proto.Header),
	}
	if pbReq.Method == "" {
		pbReq.Method = http.MethodGet
	}
	for key, values := range req.Header {
		pbReq.Headers[key] = &proto.Header{Values: values}
	}

	return c.do(req, pbReq)
}

// do marshals the protobuf request, performs the host call, and converts the reply.
func (c *Client) do(orig *http.Request, req *proto.HTTPClient) (*http.Response, error) {
	b, err := req.MarshalVT()
	if err != nil {
		return nil, errors.Join(ErrMarshalRequest, err)
	}

	resp, err := c.hostCall(c.cfg.SDKConfig.Namespace, capabilityName, fnCall, b)
	if err != nil {
		return nil, errors.Join(host.ErrHostCall, err)
	}

	var r proto.HTTPClientResponse
	if err := r.UnmarshalVT(resp); err != nil {
		return nil, errors.Join(ErrUnmarshalResponse, err)
	}

	status := r.GetStatus()
	if status == nil {
		return nil, host.ErrHostResponseInvalid
	}

	switch code := status.GetCode(); code {
	case hostStatusOK, hostStatusPartial:
		// success path continues
	case hostStatusBadInput, hostStatusMissing, hostStatusError:
		detail := fmt.Sprintf("host status %d", code)
		if msg := status.GetStatus(); msg != "" {
			detail = fmt.Sprintf("%s: %s", detail, msg)
		}
		return nil, errors.Join(host.ErrHostError, errors.New(detail))
	default:
		return nil, errors.Join(host.ErrHostResponseInvalid, fmt.Errorf("unexpected host status code %d", code))
	}

	httpCode := int(r.GetCode())
	out := &http.Response{
		Status:     strconv.Itoa(httpCode) + " " + http.StatusText(httpCode),
		StatusCode: httpCode,
		Proto:      "HTTP/1.1",
		ProtoMajor: 1,
		ProtoMinor: 1,
		Header:     make(http.Header),
		Request:    orig,
	}
	for name, header := range r.GetHeaders() {
		out.Header[name] = header.GetValues()
	}

	body := r.GetBody()
	out.ContentLength = int64(len(body))
	out.Body = io.NopCloser(bytes.NewReader(body))
	return out, nil
}
