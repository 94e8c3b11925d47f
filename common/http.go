package common

import (
	"context"
	"net/http"

	"github.com/bitrise-io/sage/logger"
	"github.com/hashicorp/go-retryablehttp"
)

// NewHTTPClient returns the client shared by the provider SDKs. Requests
// are logged at debug level. It never retries: a failed call is reported as
// it happened and retrying is left to the user.
func NewHTTPClient() *http.Client {
	client := retryablehttp.NewClient()
	client.RetryMax = 0
	client.CheckRetry = noRetry
	client.ErrorHandler = retryablehttp.PassthroughErrorHandler
	client.Logger = &zapHTTPLogger{}

	client.RequestLogHook = func(_ retryablehttp.Logger, req *http.Request, attempt int) {
		logger.Debugw("Sending provider request", "method", req.Method, "url", req.URL.Redacted(), "attempt", attempt+1)
	}
	client.ResponseLogHook = func(_ retryablehttp.Logger, resp *http.Response) {
		logger.Debugw("Provider responded", "status", resp.StatusCode, "url", resp.Request.URL.Redacted())
	}

	return client.StandardClient()
}

func noRetry(_ context.Context, _ *http.Response, _ error) (bool, error) {
	return false, nil
}

// zapHTTPLogger adapts the zap logger to retryablehttp.LeveledLogger.
// Request failures come back to the caller as errors, so they only show up
// here at debug level.
type zapHTTPLogger struct{}

func (z *zapHTTPLogger) Error(msg string, keysAndValues ...interface{}) {
	logger.Debugw(msg, keysAndValues...)
}

func (z *zapHTTPLogger) Info(msg string, keysAndValues ...interface{}) {
	logger.Debugw(msg, keysAndValues...)
}

func (z *zapHTTPLogger) Debug(msg string, keysAndValues ...interface{}) {
	logger.Debugw(msg, keysAndValues...)
}

func (z *zapHTTPLogger) Warn(msg string, keysAndValues ...interface{}) {
	logger.Warnw(msg, keysAndValues...)
}
