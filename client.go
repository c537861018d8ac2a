package client

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"
)

type client struct {
	restyClient       *resty.Client
	transferClient    *resty.Client
	processingTimeout time.Duration
	logger            *slog.Logger
}

var _ Client = (*client)(nil)

type Option func(*client)

func WithBaseURL(baseURL string) Option {
	return func(c *client) {
		if baseURL != "" {
			c.restyClient.SetBaseURL(baseURL)
			if c.transferClient != nil {
				c.transferClient.SetBaseURL(baseURL)
			}
		}
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(c *client) {
		if timeout > 0 {
			c.restyClient.SetTimeout(timeout)
		}
	}
}

// WithRetryCount enables transport-level retries. The default is zero: recovery is user-initiated.
func WithRetryCount(count int) Option {
	return func(c *client) {
		if count >= 0 {
			c.restyClient.SetRetryCount(count)
		}
	}
}

// WithRestyClient allows callers to provide a preconfigured API client.
func WithRestyClient(restyClient *resty.Client) Option {
	return func(c *client) {
		if restyClient != nil {
			c.restyClient = restyClient
		}
	}
}

// WithTransferClient overrides the client used for package downloads.
func WithTransferClient(transfer *resty.Client) Option {
	return func(c *client) {
		if transfer != nil {
			c.transferClient = transfer
		}
	}
}

// WithProcessingTimeout bounds package downloads, which can be much larger than API responses.
func WithProcessingTimeout(timeout time.Duration) Option {
	return func(c *client) {
		if timeout > 0 {
			c.processingTimeout = timeout
			if c.transferClient != nil {
				c.transferClient.SetTimeout(timeout)
			}
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func NewClient(opts ...Option) Client {
	c := &client{
		restyClient:       newDefaultAPIClient(),
		processingTimeout: DefaultTimeout,
		logger:            slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.restyClient == nil {
		c.restyClient = newDefaultAPIClient()
	}

	if c.transferClient == nil {
		c.transferClient = newTransferClient(c.restyClient.BaseURL, c.processingTimeout)
	}

	return c
}

// Name returns the service name.
func (c *client) Name() string {
	return ServiceName
}

// Version returns the API version.
func (c *client) Version() string {
	return APIVersion
}

func newDefaultAPIClient() *resty.Client {
	return resty.New().
		SetBaseURL(DefaultBaseURL).
		SetTimeout(DefaultTimeout).
		SetHeader("Accept", "application/json").
		SetRetryCount(0)
}

func newTransferClient(baseURL string, timeout time.Duration) *resty.Client {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetRetryCount(0)

	return client
}

// checkResponse normalizes transport and HTTP status failures for one call and returns the trace id.
func checkResponse(operation Operation, resp *resty.Response, err error) (string, error) {
	if err != nil {
		return "", fmt.Errorf("%s failed: %w", operation, err)
	}

	traceID := resp.Header().Get(TraceIDHeader)
	if !resp.IsSuccess() {
		var msg string
		if body, ok := resp.Error().(*apiError); ok {
			msg = body.text()
		}
		return traceID, errStatus(operation, resp.StatusCode(), resp.Status(), msg, traceID)
	}

	return traceID, nil
}
