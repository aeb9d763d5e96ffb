package sportsdb

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/matchwatch/matchwatch/internal/domain/match"
	"github.com/matchwatch/matchwatch/internal/platform/logging"
	"github.com/matchwatch/matchwatch/internal/platform/resilience"
	"github.com/matchwatch/matchwatch/internal/usecase"
	"github.com/valyala/fasthttp"
)

const (
	defaultBaseURL     = "https://www.thesportsdb.com/api/v1/json"
	defaultAPIKey      = "1"
	maxResponseBody    = 6 << 20
	defaultHTTPTimeout = 20 * time.Second
)

var errSportsDBTransient = crerr.New("sportsdb transient failure")

type ClientConfig struct {
	HTTPClient     *fasthttp.Client
	BaseURL        string
	APIKey         string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client talks to a TheSportsDB-style API. The key rides in the URL path,
// the free tier key works without registration.
type Client struct {
	httpClient     *fasthttp.Client
	baseURL        string
	apiKey         string
	timeout        time.Duration
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &fasthttp.Client{
			ReadTimeout:         timeout,
			WriteTimeout:        timeout,
			MaxResponseBodySize: maxResponseBody,
		}
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		apiKey = defaultAPIKey
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		apiKey:         apiKey,
		timeout:        timeout,
		maxRetries:     maxInt(cfg.MaxRetries, 0),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

// CircuitState exposes the breaker state for status reporting.
func (c *Client) CircuitState() string {
	return string(c.breaker.State())
}

// EventsOnDay lists a sport's events on the given UTC day. sport is the
// canonical key; the provider's sport name is resolved here.
func (c *Client) EventsOnDay(ctx context.Context, dayYMD, sport string) ([]match.Record, error) {
	if strings.TrimSpace(dayYMD) == "" {
		return nil, fmt.Errorf("day is required")
	}
	providerSport, ok := SportName(sport)
	if !ok {
		return nil, fmt.Errorf("%w: unknown sport %q", usecase.ErrInvalidInput, sport)
	}

	query := map[string]string{
		"d": strings.TrimSpace(dayYMD),
		"s": providerSport,
	}
	var payload eventsEnvelope
	if err := c.doJSON(ctx, "eventsday.php", query, &payload); err != nil {
		return nil, fmt.Errorf("fetch events day=%s sport=%s: %w", dayYMD, sport, err)
	}
	return mapEvents(payload.Events), nil
}

// SearchTeam resolves a team by display name. The second return is false
// when the provider knows no such team.
func (c *Client) SearchTeam(ctx context.Context, name string) (match.Team, bool, error) {
	if strings.TrimSpace(name) == "" {
		return match.Team{}, false, fmt.Errorf("team name is required")
	}

	query := map[string]string{"t": strings.TrimSpace(name)}
	var payload teamsEnvelope
	if err := c.doJSON(ctx, "searchteams.php", query, &payload); err != nil {
		return match.Team{}, false, fmt.Errorf("search team name=%q: %w", name, err)
	}
	if len(payload.Teams) == 0 {
		return match.Team{}, false, nil
	}
	return mapTeam(payload.Teams[0]), true, nil
}

// LastEvents lists the team's most recent events, newest first.
func (c *Client) LastEvents(ctx context.Context, teamID string) ([]match.Record, error) {
	if strings.TrimSpace(teamID) == "" {
		return nil, fmt.Errorf("team id is required")
	}

	query := map[string]string{"id": strings.TrimSpace(teamID)}
	var payload lastEventsEnvelope
	if err := c.doJSON(ctx, "eventslast.php", query, &payload); err != nil {
		return nil, fmt.Errorf("fetch last events team_id=%s: %w", teamID, err)
	}
	return mapEvents(payload.Results), nil
}

func (c *Client) doJSON(ctx context.Context, endpoint string, query map[string]string, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "sportsdb circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("%w: sports data provider is temporarily unavailable", usecase.ErrDataUnavailable)
		}
	}

	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}

	fullURL := c.baseURL + "/" + c.apiKey + "/" + endpoint
	if encoded := values.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	key := endpoint + "?" + values.Encode()
	out, err, _ := c.flight.Do(key, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && isSportsDBCircuitFailure(reqErr) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
			return err
		}
		// Callers see one failure class for any upstream trouble; the full
		// chain stays attached for logs.
		return crerr.Mark(err, usecase.ErrDataUnavailable)
	}

	raw, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", out)
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return crerr.Mark(fmt.Errorf("%w: decode provider payload: %v", errSportsDBTransient, err), usecase.ErrDataUnavailable)
	}
	return nil
}

// executeRequest runs the fasthttp round trip with bounded retries. The
// transport has no context plumbing of its own, so cancellation is honored
// between attempts and the per-attempt deadline comes from DoTimeout.
func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		raw, status, err := c.roundTrip(fullURL)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %s", errSportsDBTransient, c.sanitize(err.Error()))
		} else if status >= 200 && status < 300 {
			return raw, nil
		} else if isRetryableStatus(status) {
			lastErr = fmt.Errorf("%w: provider status=%d body=%s", errSportsDBTransient, status, abbreviateBody(raw))
		} else {
			return nil, fmt.Errorf("provider status=%d body=%s", status, abbreviateBody(raw))
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("provider request failed")
	}
	c.logger.WarnContext(ctx, "sportsdb request failed", "url", c.redactURL(fullURL), "error", lastErr)
	return nil, lastErr
}

func (c *Client) roundTrip(fullURL string) ([]byte, int, error) {
	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(fullURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("accept", "application/json")

	if err := c.httpClient.DoTimeout(req, resp, c.timeout); err != nil {
		return nil, 0, err
	}

	// The response buffer is pooled, copy before release.
	raw := append([]byte(nil), resp.Body()...)
	return raw, resp.StatusCode(), nil
}

// sanitize strips the path-embedded key out of error text.
func (c *Client) sanitize(value string) string {
	value = strings.TrimSpace(value)
	if value == "" || c.apiKey == "" {
		return value
	}
	return strings.ReplaceAll(value, "/"+c.apiKey+"/", "/REDACTED/")
}

func (c *Client) redactURL(rawURL string) string {
	return c.sanitize(rawURL)
}

func isSportsDBCircuitFailure(err error) bool {
	if err == nil {
		return false
	}
	return stderrors.Is(err, errSportsDBTransient)
}

func isRetryableStatus(code int) bool {
	return code == fasthttp.StatusTooManyRequests || code >= fasthttp.StatusInternalServerError
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}

func maxInt(left, right int) int {
	if left > right {
		return left
	}
	return right
}
