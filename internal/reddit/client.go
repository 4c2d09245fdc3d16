package reddit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// maxBodyBytes bounds how much of an upstream response is buffered.
const maxBodyBytes = 8 << 20

// Kind selects the upstream endpoint family.
type Kind int

const (
	// KindList is a board's hot listing.
	KindList Kind = iota
	// KindReplies is the reply tree of one item.
	KindReplies
)

func (k Kind) String() string {
	switch k {
	case KindList:
		return "list"
	case KindReplies:
		return "replies"
	default:
		return "unknown"
	}
}

// Target describes one upstream call. Source is used by KindList, Path by KindReplies.
type Target struct {
	Kind   Kind
	Source string
	Path   string
	Limit  int
}

// Response is an upstream response buffered in memory.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// Options configures a Client. Zero values fall back to the public platform defaults.
type Options struct {
	PublicBaseURL     string
	OAuthBaseURL      string
	TokenURL          string
	UserAgent         string
	Timeout           time.Duration
	RequestsPerMinute int
	Burst             int
	HTTPClient        *http.Client
}

// Client is a minimal discussion-platform client. It knows two endpoint
// variants: the anonymous public host and the bearer-authenticated host.
type Client struct {
	publicBase string
	oauthBase  string
	tokenURL   string
	userAgent  string
	client     *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a new upstream client.
func NewClient(opts Options) *Client {
	if strings.TrimSpace(opts.PublicBaseURL) == "" {
		opts.PublicBaseURL = "https://www.reddit.com"
	}
	if strings.TrimSpace(opts.OAuthBaseURL) == "" {
		opts.OAuthBaseURL = "https://oauth.reddit.com"
	}
	if strings.TrimSpace(opts.TokenURL) == "" {
		opts.TokenURL = strings.TrimRight(opts.PublicBaseURL, "/") + "/api/v1/access_token"
	}
	if strings.TrimSpace(opts.UserAgent) == "" {
		opts.UserAgent = "topic-pulse/1.0"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: opts.Timeout}
	}
	limit := rate.Inf
	if opts.RequestsPerMinute > 0 {
		limit = rate.Limit(float64(opts.RequestsPerMinute) / 60.0)
	}
	burst := opts.Burst
	if burst <= 0 {
		burst = 1
	}
	return &Client{
		publicBase: strings.TrimRight(opts.PublicBaseURL, "/"),
		oauthBase:  strings.TrimRight(opts.OAuthBaseURL, "/"),
		tokenURL:   opts.TokenURL,
		userAgent:  opts.UserAgent,
		client:     hc,
		limiter:    rate.NewLimiter(limit, burst),
	}
}

// URL builds the upstream URL for a target on the public or authenticated host.
func (c *Client) URL(t Target, authenticated bool) (string, error) {
	base := c.publicBase
	if authenticated {
		base = c.oauthBase
	}
	q := url.Values{}
	q.Set("limit", strconv.Itoa(t.Limit))
	q.Set("raw_json", "1")
	q.Set("api_type", "json")
	switch t.Kind {
	case KindList:
		if t.Source == "" {
			return "", errors.New("reddit: empty source")
		}
		return fmt.Sprintf("%s/r/%s/hot.json?%s", base, url.PathEscape(t.Source), q.Encode()), nil
	case KindReplies:
		if !strings.HasPrefix(t.Path, "/") {
			return "", fmt.Errorf("reddit: invalid item path %q", t.Path)
		}
		return fmt.Sprintf("%s%s.json?%s", base, t.Path, q.Encode()), nil
	default:
		return "", fmt.Errorf("reddit: unknown target kind %d", t.Kind)
	}
}

// Fetch performs the upstream call. An empty bearer uses the anonymous public
// host; otherwise the authenticated host is called with the token attached.
// Non-2xx statuses are returned as a Response, not an error.
func (c *Client) Fetch(ctx context.Context, t Target, bearer string) (*Response, error) {
	endpoint, err := c.URL(t, bearer != "")
	if err != nil {
		return nil, err
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, err
	}
	return &Response{Status: resp.StatusCode, Header: resp.Header.Clone(), Body: body}, nil
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	Error       string `json:"error"`
}

// Token exchanges the app credential pair for a short-lived bearer token
// using the client-credentials grant.
func (c *Client) Token(ctx context.Context, clientID, clientSecret string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}
	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(clientID, clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("reddit: token status %d", resp.StatusCode)
	}
	var tr tokenResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&tr); err != nil {
		return "", fmt.Errorf("reddit: decode token: %w", err)
	}
	if tr.Error != "" {
		return "", fmt.Errorf("reddit: token error %s", tr.Error)
	}
	if strings.TrimSpace(tr.AccessToken) == "" {
		return "", errors.New("reddit: token response missing access_token")
	}
	return tr.AccessToken, nil
}
