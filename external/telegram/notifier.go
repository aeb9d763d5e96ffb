package telegram

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/matchwatch/matchwatch/internal/platform/logging"
	"github.com/matchwatch/matchwatch/internal/platform/resilience"
	"github.com/matchwatch/matchwatch/internal/usecase"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const defaultBaseURL = "https://api.telegram.org"

var errTelegramTransient = crerr.New("telegram transient failure")

type NotifierConfig struct {
	HTTPClient *http.Client
	BaseURL    string
	BotToken   string
	Timeout    time.Duration
	MaxRetries int
	// DisplayLocation is the zone alert times are rendered in. Defaults to
	// UTC when nil.
	DisplayLocation *time.Location
	Logger          *logging.Logger
	CircuitBreaker  resilience.CircuitBreakerConfig
}

// Notifier delivers chat messages through the Telegram Bot API. The bot
// token rides in the URL path, every log and span redacts it.
type Notifier struct {
	client         *http.Client
	baseURL        string
	botToken       string
	maxRetries     int
	displayIn      *time.Location
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
}

func NewNotifier(cfg NotifierConfig) *Notifier {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	displayIn := cfg.DisplayLocation
	if displayIn == nil {
		displayIn = time.UTC
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Notifier{
		client:         client,
		baseURL:        baseURL,
		botToken:       strings.TrimSpace(cfg.BotToken),
		maxRetries:     cfg.MaxRetries,
		displayIn:      displayIn,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

// Enabled reports whether a bot token is configured.
func (n *Notifier) Enabled() bool {
	return n.botToken != ""
}

// CircuitState exposes the breaker state for status reporting.
func (n *Notifier) CircuitState() string {
	return string(n.breaker.State())
}

type sendMessageRequest struct {
	ChatID                string `json:"chat_id"`
	Text                  string `json:"text"`
	ParseMode             string `json:"parse_mode,omitempty"`
	DisableWebPagePreview bool   `json:"disable_web_page_preview"`
}

type apiResponse struct {
	OK          bool   `json:"ok"`
	ErrorCode   int    `json:"error_code"`
	Description string `json:"description"`
}

// SendMessage posts a plain-text message to the chat. Parse mode is left
// unset on purpose: titles and team names are free text and must never
// trip Telegram's entity parser.
func (n *Notifier) SendMessage(ctx context.Context, chatID, text string) error {
	if !n.Enabled() {
		return fmt.Errorf("%w: notification channel is not configured", usecase.ErrFeatureUnavailable)
	}
	if strings.TrimSpace(chatID) == "" {
		return crerr.New("chat id is required")
	}
	if strings.TrimSpace(text) == "" {
		return crerr.New("message text is required")
	}

	if n.circuitEnabled {
		if err := n.breaker.Allow(); err != nil {
			n.logger.WarnContext(ctx, "telegram circuit breaker rejected request", "state", n.breaker.State())
			return fmt.Errorf("telegram is temporarily unavailable: %w", err)
		}
	}

	sendURL := n.baseURL + "/bot" + n.botToken + "/sendMessage"
	body, err := sonic.Marshal(sendMessageRequest{
		ChatID:                chatID,
		Text:                  text,
		DisableWebPagePreview: true,
	})
	if err != nil {
		return crerr.Wrap(err, "marshal send message payload")
	}

	bodyText := truncateForLog(string(body), 4096)
	curlPreview := buildSendCurlPreview(n.redactURL(sendURL), bodyText)

	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.SetAttributes(
			attribute.String("telegram.chat_id", chatID),
			attribute.String("telegram.request_body", bodyText),
			attribute.String("telegram.request_curl_preview", curlPreview),
		)
	}
	n.logger.InfoContext(ctx, "telegram send message request", "chat_id", chatID, "curl_preview", curlPreview)

	callErr := n.executeSend(ctx, sendURL, body)
	n.recordCircuitResult(callErr)
	if callErr != nil {
		return callErr
	}

	n.logger.InfoContext(ctx, "telegram message delivered", "chat_id", chatID)
	return nil
}

func (n *Notifier) executeSend(ctx context.Context, sendURL string, body []byte) error {
	var lastErr error
	for attempt := 0; attempt <= n.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, sendURL, strings.NewReader(string(body)))
		if err != nil {
			return crerr.Wrap(err, "create telegram request")
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := n.client.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send telegram message: %s", errTelegramTransient, n.sanitize(err.Error()))
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
			_ = resp.Body.Close()
			if readErr != nil {
				lastErr = fmt.Errorf("%w: read telegram response: %v", errTelegramTransient, readErr)
			} else if resp.StatusCode/100 == 2 {
				var parsed apiResponse
				if err := sonic.Unmarshal(raw, &parsed); err != nil {
					return fmt.Errorf("decode telegram response: %w", err)
				}
				if !parsed.OK {
					return fmt.Errorf("telegram rejected message code=%d description=%s", parsed.ErrorCode, parsed.Description)
				}
				return nil
			} else if isRetryableStatus(resp.StatusCode) {
				lastErr = fmt.Errorf("%w: telegram status=%d body=%s", errTelegramTransient, resp.StatusCode, abbreviateBody(raw))
			} else {
				return fmt.Errorf("telegram status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			}
		}

		if attempt == n.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("telegram request failed")
	}
	return lastErr
}

func (n *Notifier) sanitize(value string) string {
	if n.botToken == "" {
		return value
	}
	return strings.ReplaceAll(value, n.botToken, "***")
}

func (n *Notifier) redactURL(rawURL string) string {
	return n.sanitize(rawURL)
}

func (n *Notifier) recordCircuitResult(err error) {
	if !n.circuitEnabled || n.breaker == nil {
		return
	}
	if err == nil {
		n.breaker.RecordSuccess()
		return
	}
	if isTelegramCircuitFailure(err) {
		n.breaker.RecordFailure()
		return
	}
	n.breaker.RecordSuccess()
}

func isTelegramCircuitFailure(err error) bool {
	if err == nil {
		return false
	}
	return stderrors.Is(err, errTelegramTransient)
}

func isRetryableStatus(statusCode int) bool {
	return statusCode == http.StatusRequestTimeout ||
		statusCode == http.StatusTooManyRequests ||
		statusCode >= http.StatusInternalServerError
}

func buildSendCurlPreview(sendURL, body string) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	appendPart := func(part string) {
		if buf.Len() > 0 {
			_ = buf.WriteByte(' ')
		}
		_, _ = buf.WriteString(part)
	}

	appendPart("curl")
	appendPart("-X")
	appendPart("POST")
	appendPart(shellQuote(sendURL))
	appendPart("-H")
	appendPart(shellQuote("Content-Type: application/json"))
	appendPart("-d")
	appendPart(shellQuote(body))

	return buf.String()
}

func shellQuote(value string) string {
	return "'" + strings.ReplaceAll(value, "'", "'\"'\"'") + "'"
}

func truncateForLog(value string, max int) string {
	if max <= 0 || len(value) <= max {
		return value
	}
	return value[:max] + "...(truncated)"
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}
