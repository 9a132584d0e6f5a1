package transport

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestLogging_AddsRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	var seen string
	inner := doerFunc(func(req *http.Request) (*http.Response, error) {
		seen = req.Header.Get(requestIDHeader)
		return response(http.StatusOK, `{}`), nil
	})

	req := newRequest(t, context.Background(), "")
	_, err := NewLogging(inner, logger).Do(req)

	require.NoError(t, err)
	_, err = uuid.Parse(seen)
	assert.NoError(t, err)
	assert.Empty(t, req.Header.Get(requestIDHeader), "caller's request must not be modified")
	assert.Contains(t, buf.String(), "request_id="+seen)
	assert.Contains(t, buf.String(), "status=200")
}

func TestLogging_KeepsExistingRequestID(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	inner := &mockDoer{}
	inner.On("Do", mock.MatchedBy(func(req *http.Request) bool {
		return req.Header.Get(requestIDHeader) == "req-1"
	})).Return(response(http.StatusOK, `{}`), nil).Once()

	req := newRequest(t, context.Background(), "")
	req.Header.Set(requestIDHeader, "req-1")

	_, err := NewLogging(inner, logger).Do(req)

	require.NoError(t, err)
	inner.AssertExpectations(t)
}

func TestLogging_LogsFailures(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	cause := errors.New("dial tcp: connection refused")

	inner := &mockDoer{}
	inner.On("Do", mock.Anything).Return(nil, cause).Once()

	resp, err := NewLogging(inner, logger).Do(newRequest(t, context.Background(), ""))

	assert.Nil(t, resp)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, buf.String(), "level=ERROR")
	assert.Contains(t, buf.String(), "connection refused")
}
