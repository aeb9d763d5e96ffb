package pandascore

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/matchwatch/matchwatch/internal/domain/match"
	"github.com/matchwatch/matchwatch/internal/platform/logging"
	"github.com/matchwatch/matchwatch/internal/platform/resilience"
	"github.com/matchwatch/matchwatch/internal/usecase"
)

const (
	defaultBaseURL = "https://api.pandascore.co"
	defaultPerPage = "50"
)

var tokenParamRegex = regexp.MustCompile(`token=[^&\s"']+`)
var errPandaScoreTransient = crerr.New("pandascore transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Token          string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

type Client struct {
	httpClient     *http.Client
	baseURL        string
	token          string
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

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 20 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		token:          strings.TrimSpace(cfg.Token),
		maxRetries:     maxInt(cfg.MaxRetries, 0),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

// Enabled reports whether a token is configured. Without one every esports
// call must be short-circuited by the caller instead of reaching the API.
func (c *Client) Enabled() bool {
	return c != nil && c.token != ""
}

// CircuitState exposes the breaker state for status reporting.
func (c *Client) CircuitState() string {
	return string(c.breaker.State())
}

// MatchesToday lists the videogame's matches inside the UTC day, earliest
// first. game is the canonical key; the provider slug is resolved here.
func (c *Client) MatchesToday(ctx context.Context, game, dayYMD string) ([]match.Record, error) {
	slug, err := resolveSlug(game)
	if err != nil {
		return nil, err
	}
	day, err := time.Parse("2006-01-02", strings.TrimSpace(dayYMD))
	if err != nil {
		return nil, fmt.Errorf("parse day %q: %w", dayYMD, err)
	}
	from := day.UTC()
	return c.matches(ctx, slug, from, from.Add(24*time.Hour), "")
}

// UpcomingMatches lists matches between from and to, optionally narrowed by
// a provider-side name search.
func (c *Client) UpcomingMatches(ctx context.Context, game string, from, to time.Time, search string) ([]match.Record, error) {
	slug, err := resolveSlug(game)
	if err != nil {
		return nil, err
	}
	return c.matches(ctx, slug, from, to, search)
}

func (c *Client) matches(ctx context.Context, slug string, from, to time.Time, search string) ([]match.Record, error) {
	if strings.TrimSpace(slug) == "" {
		return nil, fmt.Errorf("videogame slug is required")
	}

	query := map[string]string{
		"sort":              "begin_at",
		"range[begin_at]":   from.UTC().Format(time.RFC3339) + "," + to.UTC().Format(time.RFC3339),
		"filter[videogame]": slug,
		"per_page":          defaultPerPage,
	}
	if strings.TrimSpace(search) != "" {
		query["search[name]"] = strings.TrimSpace(search)
	}

	var payload []apiMatch
	if err := c.doJSON(ctx, "/matches", query, &payload); err != nil {
		return nil, fmt.Errorf("fetch matches videogame=%s: %w", slug, err)
	}
	return mapMatches(payload), nil
}

// TeamPastMatches lists a team's finished matches, most recent first.
func (c *Client) TeamPastMatches(ctx context.Context, game, teamID string) ([]match.Record, error) {
	slug, err := resolveSlug(game)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(teamID) == "" {
		return nil, fmt.Errorf("team id is required")
	}

	query := map[string]string{
		"sort":                "-begin_at",
		"filter[videogame]":   slug,
		"filter[opponent_id]": strings.TrimSpace(teamID),
		"per_page":            defaultPerPage,
	}

	var payload []apiMatch
	if err := c.doJSON(ctx, "/matches/past", query, &payload); err != nil {
		return nil, fmt.Errorf("fetch past matches team_id=%s: %w", teamID, err)
	}
	return mapMatches(payload), nil
}

func (c *Client) doJSON(ctx context.Context, path string, query map[string]string, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "pandascore circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("%w: esports data provider is temporarily unavailable", usecase.ErrDataUnavailable)
		}
	}

	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}

	fullURL := c.baseURL + path
	if encoded := values.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	key := path + "?" + values.Encode()
	out, err, _ := c.flight.Do(key, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && isPandaScoreCircuitFailure(reqErr) {
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
		return crerr.Mark(fmt.Errorf("%w: decode provider payload: %v", errPandaScoreTransient, err), usecase.ErrDataUnavailable)
	}
	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")
		req.Header.Set("authorization", "Bearer "+c.token)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %s", errPandaScoreTransient, sanitizeSensitiveText(err.Error(), c.token))
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 6<<20))
			_ = resp.Body.Close()
			if readErr != nil {
				lastErr = fmt.Errorf("%w: read response body: %v", errPandaScoreTransient, readErr)
			} else if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				return raw, nil
			} else {
				if isRetryableStatus(resp.StatusCode) {
					lastErr = fmt.Errorf("%w: provider status=%d body=%s", errPandaScoreTransient, resp.StatusCode, abbreviateBody(raw))
				} else {
					return nil, fmt.Errorf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
				}
			}
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
	c.logger.WarnContext(ctx, "pandascore request failed", "url", redactAPIURL(fullURL), "error", lastErr)
	return nil, lastErr
}

func resolveSlug(game string) (string, error) {
	slug, ok := Slug(game)
	if !ok {
		return "", fmt.Errorf("%w: unknown videogame %q", usecase.ErrInvalidInput, game)
	}
	return slug, nil
}

func sanitizeSensitiveText(value, token string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return value
	}
	if token != "" {
		value = strings.ReplaceAll(value, token, "REDACTED")
	}
	return tokenParamRegex.ReplaceAllString(value, "token=REDACTED")
}

func isPandaScoreCircuitFailure(err error) bool {
	if err == nil {
		return false
	}
	return stderrors.Is(err, errPandaScoreTransient)
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func redactAPIURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	query := parsed.Query()
	if query.Has("token") {
		query.Set("token", "REDACTED")
		parsed.RawQuery = query.Encode()
	}
	return parsed.String()
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
