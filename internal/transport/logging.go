package transport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/DanielPopoola/affirm-go/pkg/affirm"
)

const requestIDHeader = "X-Request-Id"

// Logging tags every request with an X-Request-Id and logs the round trip.
type Logging struct {
	inner  affirm.Doer
	logger *slog.Logger
}

func NewLogging(inner affirm.Doer, logger *slog.Logger) *Logging {
	return &Logging{inner: inner, logger: logger}
}

func (l *Logging) Do(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	requestID := req.Header.Get(requestIDHeader)
	if requestID == "" {
		requestID = uuid.NewString()
		req = req.Clone(ctx)
		req.Header.Set(requestIDHeader, requestID)
	}

	start := time.Now()
	resp, err := l.inner.Do(req)
	duration := time.Since(start)

	if err != nil {
		l.logger.ErrorContext(ctx, "affirm request failed",
			"request_id", requestID,
			"method", req.Method,
			"url", req.URL.Redacted(),
			"duration", duration,
			"error", err,
		)
		return nil, err
	}

	level := slog.LevelInfo
	if resp.StatusCode >= 400 {
		level = slog.LevelWarn
	}
	l.logger.Log(ctx, level, "affirm request completed",
		"request_id", requestID,
		"method", req.Method,
		"url", req.URL.Redacted(),
		"status", resp.StatusCode,
		"duration", duration,
	)
	return resp, nil
}
