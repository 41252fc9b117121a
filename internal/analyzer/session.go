package analyzer

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/spacesedan/stockdigest/internal/clients"
)

// Session owns the per-run analysis state: the Gemini client, the currently
// active model tier, and the inter-batch cooldown limiter. One session per
// run; the retry loop is the only writer of the tier index.
type Session struct {
	client   *genai.Client
	generate generateFunc

	modelTiers []string
	tierIdx    int

	maxRetries  int
	defaultWait time.Duration
	cooldown    *rate.Limiter

	marketBoost float64
}

// generateFunc is the single upstream call the retry loop wraps. Tests swap
// it out to drive the loop through quota and rate-limit shapes.
type generateFunc func(ctx context.Context, model, prompt string) (string, error)

type SessionOptions struct {
	MaxRetries    int
	DefaultWait   time.Duration
	BatchCooldown time.Duration
	MarketBoost   float64
}

func NewSession(ctx context.Context, opts SessionOptions) (*Session, error) {
	gc, err := clients.GetGeminiClient(ctx)
	if err != nil {
		return nil, err
	}

	if opts.MaxRetries <= 0 {
		opts.MaxRetries = 3
	}
	if opts.DefaultWait <= 0 {
		opts.DefaultWait = 60 * time.Second
	}
	if opts.BatchCooldown <= 0 {
		opts.BatchCooldown = 6 * time.Second
	}
	if opts.MarketBoost <= 0 {
		opts.MarketBoost = 1.1
	}

	s := &Session{
		client:      gc.Client,
		modelTiers:  clients.ModelFallbackOrder,
		maxRetries:  opts.MaxRetries,
		defaultWait: opts.DefaultWait,
		cooldown:    rate.NewLimiter(rate.Every(opts.BatchCooldown), 1),
		marketBoost: opts.MarketBoost,
	}
	s.generate = func(ctx context.Context, model, prompt string) (string, error) {
		resp, err := s.client.Models.GenerateContent(ctx, model, genai.Text(prompt), nil)
		if err != nil {
			return "", err
		}
		return resp.Text(), nil
	}
	return s, nil
}

// ActiveModel returns the model the next call will use.
func (s *Session) ActiveModel() string {
	return s.modelTiers[s.tierIdx]
}

// callWithRetry issues one generation request with rate-limit backoff and
// model-tier degradation. Returns the response text and whether it
// succeeded; any failure shape maps to ok=false, never an error that could
// abort the run.
func (s *Session) callWithRetry(ctx context.Context, prompt string, tickers []string) (string, bool) {
	// Respect the requests-per-minute cap between successive batches, not
	// just after failures.
	if err := s.cooldown.Wait(ctx); err != nil {
		return "", false
	}

	attempt := 0
	for attempt < s.maxRetries {
		text, err := s.generate(ctx, s.ActiveModel(), prompt)
		if err == nil {
			return strings.TrimSpace(text), true
		}

		if !isRateLimit(err) {
			slog.Error("[Analyzer] Gemini call failed",
				slog.Any("tickers", tickers),
				slog.String("model", s.ActiveModel()),
				slog.String("error", err.Error()))
			return "", false
		}

		// A daily-quota 429 means waiting won't help this model today.
		// Tier switches don't consume an attempt.
		if attempt == 0 && isDailyQuota(err) && s.tierIdx+1 < len(s.modelTiers) {
			s.tierIdx++
			slog.Warn("[Analyzer] daily quota exhausted, switching model",
				slog.String("model", s.ActiveModel()))
			continue
		}

		wait := parseRetryDelay(err.Error(), s.defaultWait)
		attempt++
		if attempt >= s.maxRetries {
			break
		}

		slog.Warn("[Analyzer] rate limited, backing off",
			slog.Int("attempt", attempt),
			slog.Int("max_retries", s.maxRetries),
			slog.Duration("wait", wait))

		select {
		case <-ctx.Done():
			return "", false
		case <-time.After(wait):
		}
	}

	slog.Error("[Analyzer] max retries exceeded for batch", slog.Any("tickers", tickers))
	return "", false
}

func isRateLimit(err error) bool {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == 429
	}
	return strings.Contains(err.Error(), "429") ||
		strings.Contains(err.Error(), "RESOURCE_EXHAUSTED")
}

// isDailyQuota distinguishes an exhausted per-day quota from a transient
// per-minute limit.
func isDailyQuota(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "PerDay") || strings.Contains(msg, "per day")
}

var (
	retryDelayPattern  = regexp.MustCompile(`retry_delay\s*\{\s*seconds:\s*(\d+)`)
	retryPlainPattern  = regexp.MustCompile(`[Pp]lease retry in (\d+)`)
	retryDelayBufferMs = int64(2000)
)

// parseRetryDelay pulls the suggested wait out of a 429 payload. The API
// reports it either as a retry_delay proto fragment or as prose; both get a
// 2s buffer. Unparseable payloads fall back to the configured default.
func parseRetryDelay(msg string, fallback time.Duration) time.Duration {
	for _, pattern := range []*regexp.Regexp{retryDelayPattern, retryPlainPattern} {
		if m := pattern.FindStringSubmatch(msg); m != nil {
			secs, err := strconv.Atoi(m[1])
			if err != nil {
				continue
			}
			return time.Duration(secs)*time.Second + time.Duration(retryDelayBufferMs)*time.Millisecond
		}
	}
	return fallback
}
