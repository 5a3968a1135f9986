package netbird

import (
	"strings"
	"time"
)

type Option func(*Options)

type Options struct {
	timeout        time.Duration
	retryCount     int
	retryDelay     time.Duration
	backoffFactor  float64
	verifySSL      bool
	userAgent      string
	poolSize       int
	poolMaxSize    int
	requestLogger  RequestLogger
	retryPolicy    func(error) bool
	requestHeaders map[string]string
	authScheme     string
	authToken      string
}

func newClientOptions() *Options {
	return &Options{
		timeout:       30 * time.Second,
		retryCount:    3,
		retryDelay:    time.Second,
		backoffFactor: 2.0,
		verifySSL:     true,
		userAgent:     "netbird-go-client/0.1.0",
		poolSize:      10,
		poolMaxSize:   20,
		requestLogger: &NoopLogger{},
		retryPolicy:   DefaultRetryPolicy,
		requestHeaders: map[string]string{
			"Content-Type": "application/json",
			"Accept":       "application/json",
		},
		authScheme: "Token",
	}
}

func (o *Options) validate() error {
	if o.requestLogger == nil {
		return NewConfigurationError("invalid options: request logger must not be nil")
	}
	if o.retryPolicy == nil {
		return NewConfigurationError("invalid options: retry policy must not be nil")
	}
	return nil
}

func WithTimeout(timeout time.Duration) Option {
	return func(o *Options) {
		if timeout > 0 {
			o.timeout = timeout
		}
	}
}

func WithRetryCount(count int) Option {
	return func(o *Options) {
		if count >= 0 {
			o.retryCount = count
		}
	}
}

func WithRetryDelay(delay time.Duration) Option {
	return func(o *Options) {
		if delay >= 0 {
			o.retryDelay = delay
		}
	}
}

func WithBackoffFactor(factor float64) Option {
	return func(o *Options) {
		if factor >= 1 {
			o.backoffFactor = factor
		}
	}
}

func WithVerifySSL(verify bool) Option {
	return func(o *Options) {
		o.verifySSL = verify
	}
}

func WithUserAgent(userAgent string) Option {
	return func(o *Options) {
		if strings.TrimSpace(userAgent) != "" {
			o.userAgent = userAgent
		}
	}
}

func WithPoolSize(size int) Option {
	return func(o *Options) {
		if size > 0 {
			o.poolSize = size
		}
	}
}

func WithPoolMaxSize(maxSize int) Option {
	return func(o *Options) {
		if maxSize > 0 {
			o.poolMaxSize = maxSize
		}
	}
}

func WithRequestLogger(logger RequestLogger) Option {
	return func(o *Options) {
		if logger != nil {
			o.requestLogger = logger
		}
	}
}

func WithRetryPolicy(policy func(error) bool) Option {
	return func(o *Options) {
		if policy != nil {
			o.retryPolicy = policy
		}
	}
}

func WithRequestHeader(header, value string) Option {
	return func(o *Options) {
		header = strings.TrimSpace(header)

		if header == "" ||
			strings.EqualFold(header, "Content-Type") ||
			strings.EqualFold(header, "Accept") ||
			strings.EqualFold(header, "Authorization") {
			return
		}

		o.requestHeaders[header] = value
	}
}

func WithAuthScheme(scheme string) Option {
	return func(o *Options) {
		if strings.TrimSpace(scheme) != "" {
			o.authScheme = scheme
		}
	}
}

func WithAuthToken(token string) Option {
	return func(o *Options) {
		o.authToken = token
	}
}
