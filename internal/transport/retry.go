package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"time"

	"github.com/DanielPopoola/affirm-go/internal/config"
	"github.com/DanielPopoola/affirm-go/pkg/affirm"
)

// Retrying re-sends a GET or HEAD request when the round trip fails or Affirm
// answers with a 5xx. Other methods change charge state and are sent once:
// a failed POST may already have been applied.
type Retrying struct {
	inner       affirm.Doer
	baseDelay   time.Duration
	maxAttempts int
}

func NewRetrying(inner affirm.Doer, cfg config.RetryConfig) *Retrying {
	maxAttempts := cfg.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Retrying{
		inner:       inner,
		baseDelay:   cfg.BaseDelay,
		maxAttempts: maxAttempts,
	}
}

func (r *Retrying) Do(req *http.Request) (*http.Response, error) {
	if r.maxAttempts == 1 || !replayable(req.Method) {
		return r.inner.Do(req)
	}

	ctx := req.Context()
	var lastErr error

	for attempt := 0; attempt < r.maxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		attemptReq, err := rewind(req, attempt)
		if err != nil {
			return nil, err
		}

		resp, err := r.inner.Do(attemptReq)
		if err == nil && !retryableStatus(resp.StatusCode) {
			return resp, nil
		}

		if err != nil {
			if !isRetryable(err) {
				return nil, err
			}
			lastErr = err
		} else {
			if attempt == r.maxAttempts-1 {
				return resp, nil
			}
			drain(resp)
			lastErr = fmt.Errorf("affirm returned status %d", resp.StatusCode)
		}

		if attempt < r.maxAttempts-1 {
			if err := sleep(ctx, r.backoff(attempt)); err != nil {
				return nil, err
			}
		}
	}

	return nil, fmt.Errorf("maximum retries exceeded: %w", lastErr)
}

// rewind returns req with a fresh body for every attempt after the first.
func rewind(req *http.Request, attempt int) (*http.Request, error) {
	if attempt == 0 || req.Body == nil || req.Body == http.NoBody {
		return req, nil
	}
	if req.GetBody == nil {
		return nil, errors.New("request body cannot be replayed")
	}

	body, err := req.GetBody()
	if err != nil {
		return nil, fmt.Errorf("error rewinding request body: %w", err)
	}
	clone := req.Clone(req.Context())
	clone.Body = body
	return clone, nil
}

func replayable(method string) bool {
	return method == http.MethodGet || method == http.MethodHead
}

func retryableStatus(code int) bool {
	return code >= 500
}

func isRetryable(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	return true
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Backoff calculation with exponential delay and jitter
func (r *Retrying) backoff(attempt int) time.Duration {
	base := r.baseDelay * time.Duration(1<<attempt)

	var jitter time.Duration
	if half := int64(r.baseDelay / 2); half > 0 {
		jitter = time.Duration(rand.Int63n(half))
	}

	return base + jitter
}
