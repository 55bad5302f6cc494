// Package orchestrator centralizes the HTTP conversation with AI providers:
// message assembly, the request itself, timeout, bounded retry with
// exponential backoff, and normalization of responses and failures.
//
// Retried requests are independent; the upstream APIs offer no idempotency
// keys, so a retry after an ambiguous failure may bill twice. That is a
// known limitation, not a guarantee this package can paper over.
package orchestrator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/user/codechat/internal/chat"
	"github.com/user/codechat/internal/logging"
	"github.com/user/codechat/internal/provider"
	"github.com/user/codechat/internal/secrets"
)

var (
	// ErrTimeout is returned when the overall request deadline is exceeded.
	ErrTimeout = errors.New("request timed out")

	// ErrRetriesExhausted is returned when every attempt failed with a
	// retryable error. It wraps the last underlying failure.
	ErrRetriesExhausted = errors.New("retries exhausted")
)

// Options bound one ask.
type Options struct {
	Timeout    time.Duration // per-attempt HTTP timeout
	MaxRetries int           // retry attempts after the first try
	BaseDelay  time.Duration // first backoff delay, doubled each retry
	MaxDelay   time.Duration // backoff cap
}

// DefaultOptions mirror the upstream client defaults: three retries, one
// second base delay capped at ten.
func DefaultOptions() Options {
	return Options{
		Timeout:    120 * time.Second,
		MaxRetries: 3,
		BaseDelay:  time.Second,
		MaxDelay:   10 * time.Second,
	}
}

// Answer is the normalized result of one ask.
type Answer struct {
	Text    string
	Usage   provider.Usage
	Elapsed time.Duration
}

// Orchestrator performs provider-agnostic request orchestration. All I/O for
// every provider flows through here so the retry policy is uniform.
type Orchestrator struct {
	client *http.Client
	system *chat.SystemMessageSource
	opts   Options
	log    *logging.Logger

	// sleep is swapped out by tests to avoid real backoff waits.
	sleep func(ctx context.Context, d time.Duration) error
}

// New creates an orchestrator. A nil logger disables logging.
func New(system *chat.SystemMessageSource, opts Options, log *logging.Logger) *Orchestrator {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultOptions().Timeout
	}
	if opts.BaseDelay <= 0 {
		opts.BaseDelay = DefaultOptions().BaseDelay
	}
	if opts.MaxDelay <= 0 {
		opts.MaxDelay = DefaultOptions().MaxDelay
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Orchestrator{
		client: &http.Client{Timeout: opts.Timeout},
		system: system,
		opts:   opts,
		log:    log.Named("orchestrator"),
		sleep:  sleepContext,
	}
}

// Ask builds the provider request, performs the HTTP call with retry, and
// returns the normalized answer.
func (o *Orchestrator) Ask(ctx context.Context, p provider.Provider, history []chat.Turn, codebaseContext, question, model string) (*Answer, error) {
	messages := BuildMessages(o.system, history, codebaseContext, question)

	body, err := p.BuildBody(messages, model)
	if err != nil {
		return nil, fmt.Errorf("failed to build request body: %w", err)
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	cfg := p.Config()
	start := time.Now()

	raw, err := o.doWithRetry(ctx, cfg.APIURL, p.Headers(), payload)
	if err != nil {
		return nil, err
	}

	text, err := p.ParseAnswer(raw)
	if err != nil {
		// Malformed responses are never retried; the payload will not
		// improve on a second read.
		return nil, err
	}

	answer := &Answer{
		Text:    text,
		Usage:   p.ParseUsage(raw),
		Elapsed: time.Since(start),
	}
	o.log.Debug("ask completed",
		logging.String("provider", cfg.Name),
		logging.Int("prompt_tokens", answer.Usage.PromptTokens),
		logging.Int("completion_tokens", answer.Usage.CompletionTokens),
		logging.Duration("elapsed", answer.Elapsed),
	)
	return answer, nil
}

// doWithRetry issues the POST, retrying transiently-classified failures
// (network timeouts, 5xx, 429) with exponential backoff. Other 4xx statuses
// fail immediately.
func (o *Orchestrator) doWithRetry(ctx context.Context, url string, headers map[string]string, payload []byte) ([]byte, error) {
	var lastErr error
	attempts := o.opts.MaxRetries + 1

	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			delay := o.backoffDelay(attempt, lastErr)
			o.log.Debug("retrying request",
				logging.Int("attempt", attempt),
				logging.Duration("delay", delay),
			)
			if err := o.sleep(ctx, delay); err != nil {
				return nil, o.wrapDeadline(err, lastErr)
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		for key, value := range headers {
			req.Header.Set(key, value)
		}

		resp, err := o.client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, o.wrapDeadline(ctx.Err(), lastErr)
			}
			// Network errors and per-attempt timeouts are transient.
			lastErr = fmt.Errorf("network request failed: %s", secrets.Sanitize(err.Error()))
			continue
		}

		raw, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			lastErr = fmt.Errorf("failed to read response: %w", readErr)
			continue
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			return raw, nil
		case resp.StatusCode == http.StatusTooManyRequests:
			lastErr = retryAfterError{
				err:   provider.NewError(provider.KindRateLimited, "rate limited (status 429): %s", string(raw)),
				delay: parseRetryAfter(resp.Header.Get("Retry-After")),
			}
		case resp.StatusCode >= 500:
			lastErr = provider.NewError(provider.KindServerError, "server error (status %d): %s", resp.StatusCode, string(raw))
		case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
			return nil, provider.NewError(provider.KindInvalidAPIKey, "API key rejected (status %d)", resp.StatusCode)
		default:
			// Remaining 4xx statuses are caller errors; retrying cannot help.
			return nil, provider.NewError(provider.KindServerError, "request rejected (status %d): %s", resp.StatusCode, string(raw))
		}
	}

	return nil, fmt.Errorf("%w after %d attempts: %w", ErrRetriesExhausted, attempts, errOf(lastErr))
}

// backoffDelay doubles the base delay per attempt, capped at MaxDelay. A 429
// Retry-After hint overrides the computed delay when it is longer.
func (o *Orchestrator) backoffDelay(attempt int, lastErr error) time.Duration {
	delay := o.opts.BaseDelay << (attempt - 1)
	if delay > o.opts.MaxDelay {
		delay = o.opts.MaxDelay
	}
	var ra retryAfterError
	if errors.As(lastErr, &ra) && ra.delay > delay {
		delay = ra.delay
	}
	return delay
}

func (o *Orchestrator) wrapDeadline(ctxErr error, lastErr error) error {
	if errors.Is(ctxErr, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrTimeout, errOf(lastErr))
	}
	return ctxErr
}

// retryAfterError carries a server-supplied backoff hint alongside the
// normalized rate-limit error.
type retryAfterError struct {
	err   error
	delay time.Duration
}

func (e retryAfterError) Error() string { return e.err.Error() }
func (e retryAfterError) Unwrap() error { return e.err }

func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 0
	}
	if secs, err := strconv.Atoi(header); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return 0
}

func errOf(err error) error {
	if err == nil {
		return errors.New("no attempts made")
	}
	return err
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
