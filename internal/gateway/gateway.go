package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"topic-pulse/internal/metrics"
	"topic-pulse/internal/reddit"
)

const jsonContentType = "application/json; charset=utf-8"

// Upstream is the subset of the platform client the gateway needs.
type Upstream interface {
	Fetch(ctx context.Context, t reddit.Target, bearer string) (*reddit.Response, error)
	Token(ctx context.Context, clientID, clientSecret string) (string, error)
}

// Credentials is the optional app-level credential pair.
type Credentials struct {
	ClientID     string
	ClientSecret string
}

func (c Credentials) configured() bool {
	return strings.TrimSpace(c.ClientID) != "" && strings.TrimSpace(c.ClientSecret) != ""
}

// Strategy is how a request reaches the upstream.
type Strategy int

const (
	Anonymous Strategy = iota
	Authenticated
)

func (s Strategy) String() string {
	if s == Authenticated {
		return "authenticated"
	}
	return "anonymous"
}

// Access is the strategy selected for one request. Token is set only for
// Authenticated.
type Access struct {
	Strategy Strategy
	Token    string
}

// Response is what the gateway hands back to its caller.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
	Access Strategy
}

// OK reports a 2xx status.
func (r *Response) OK() bool {
	return r.Status >= 200 && r.Status < 300
}

// Gateway is stateless: each request negotiates its own access strategy.
type Gateway struct {
	upstream Upstream
	creds    Credentials
	metrics  *metrics.Metrics
}

// New creates a gateway. m may be nil.
func New(up Upstream, creds Credentials, m *metrics.Metrics) *Gateway {
	return &Gateway{upstream: up, creds: creds, metrics: m}
}

// SelectAccess picks the access strategy for one request. With credentials it
// attempts a token exchange; any failure resolves to Anonymous.
func (g *Gateway) SelectAccess(ctx context.Context) Access {
	if !g.creds.configured() {
		return Access{Strategy: Anonymous}
	}
	tok, err := g.upstream.Token(ctx, g.creds.ClientID, g.creds.ClientSecret)
	if err != nil {
		slog.Warn("gateway: token exchange failed, using anonymous access", "error", err)
		g.metrics.AuthFallback()
		return Access{Strategy: Anonymous}
	}
	return Access{Strategy: Authenticated, Token: tok}
}

// Serve normalizes the request, selects access and performs the upstream call.
// An *InvalidRequestError is returned for bad input; any other error is a
// transport failure. Upstream non-2xx statuses are returned as responses.
func (g *Gateway) Serve(ctx context.Context, req Request) (*Response, error) {
	req, err := req.Normalize()
	if err != nil {
		return nil, err
	}
	acc := g.SelectAccess(ctx)
	target := reddit.Target{Source: req.Source, Path: req.ItemPath, Limit: req.Limit, Kind: reddit.KindList}
	if req.Mode == ModeReplies {
		target.Kind = reddit.KindReplies
	}

	start := time.Now()
	up, err := g.upstream.Fetch(ctx, target, acc.Token)
	g.metrics.UpstreamLatency(string(req.Mode), time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("gateway: %s upstream: %w", req.Mode, err)
	}
	resp := &Response{
		Status: up.Status,
		Header: forwardHeaders(up.Header),
		Body:   up.Body,
		Access: acc.Strategy,
	}
	if resp.Header.Get("Content-Type") == "" {
		resp.Header.Set("Content-Type", jsonContentType)
	}
	g.metrics.GatewayRequest(string(req.Mode), acc.Strategy.String(), resp.Status)
	slog.Debug("gateway: served", "mode", req.Mode, "access", acc.Strategy.String(), "status", resp.Status)
	return resp, nil
}

// hop-by-hop and length headers are recomputed by our own server.
var skipHeaders = map[string]struct{}{
	"Connection":        {},
	"Content-Length":    {},
	"Content-Encoding":  {},
	"Transfer-Encoding": {},
	"Keep-Alive":        {},
	"Set-Cookie":        {},
}

func forwardHeaders(h http.Header) http.Header {
	out := http.Header{}
	for k, vs := range h {
		if _, skip := skipHeaders[http.CanonicalHeaderKey(k)]; skip {
			continue
		}
		for _, v := range vs {
			out.Add(k, v)
		}
	}
	return out
}

// Local adapts a Gateway into the in-process proxy used by the pipeline.
// Non-2xx upstream statuses become errors.
type Local struct {
	G *Gateway
}

// Get returns the upstream body for a successful gateway call.
func (l Local) Get(ctx context.Context, req Request) ([]byte, error) {
	resp, err := l.G.Serve(ctx, req)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, fmt.Errorf("gateway: upstream status %d", resp.Status)
	}
	return resp.Body, nil
}

// IsInvalidRequest reports whether err is an *InvalidRequestError.
func IsInvalidRequest(err error) bool {
	var ir *InvalidRequestError
	return errors.As(err, &ir)
}
