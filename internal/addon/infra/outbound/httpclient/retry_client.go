package httpclient

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/davicafu/flaghooks/internal/addon/domain"
)

// Options controla la política de reintentos. Solo se reintentan fallos de transporte;
// cualquier respuesta HTTP, también 4xx/5xx, es definitiva.
type Options struct {
	Retries         int
	InitialInterval time.Duration
	MaxInterval     time.Duration
	Timeout         time.Duration
}

func DefaultOptions() Options {
	return Options{
		Retries:         1,
		InitialInterval: 500 * time.Millisecond,
		MaxInterval:     5 * time.Second,
		Timeout:         10 * time.Second,
	}
}

type RetryClient struct {
	client *http.Client
	opts   Options
	log    *zap.Logger
}

var _ domain.HTTPPoster = (*RetryClient)(nil)

// NewRetryClient usa un transporte instrumentado con OpenTelemetry.
func NewRetryClient(opts Options, log *zap.Logger) *RetryClient {
	return NewRetryClientWithHTTP(&http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
		Timeout:   opts.Timeout,
	}, opts, log)
}

func NewRetryClientWithHTTP(client *http.Client, opts Options, log *zap.Logger) *RetryClient {
	if opts.Retries < 0 {
		opts.Retries = 0
	}
	return &RetryClient{client: client, opts: opts, log: log}
}

func (c *RetryClient) Post(ctx context.Context, url string, headers map[string]string, body string) (*domain.HTTPResponse, error) {
	attempt := 0
	op := func() (*domain.HTTPResponse, error) {
		attempt++
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(body))
		if err != nil {
			return nil, backoff.Permanent(err)
		}
		for k, v := range headers {
			req.Header.Set(k, v)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		_, _ = io.Copy(io.Discard, resp.Body)

		return &domain.HTTPResponse{
			Status: resp.StatusCode,
			OK:     resp.StatusCode >= 200 && resp.StatusCode < 300,
		}, nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.opts.InitialInterval
	b.MaxInterval = c.opts.MaxInterval

	return backoff.Retry(ctx, op,
		backoff.WithBackOff(b),
		backoff.WithMaxTries(uint(c.opts.Retries+1)),
		backoff.WithNotify(func(err error, next time.Duration) {
			c.log.Warn("Webhook request failed, retrying",
				zap.Int("attempt", attempt),
				zap.Duration("next", next),
				zap.Error(err),
			)
		}),
	)
}
