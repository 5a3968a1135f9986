// Package netbird provides an HTTP client for the NetBird management API.
//
// The client wraps [github.com/go-resty/resty/v2] with automatic retries,
// configurable connection pooling, and pluggable logging. Typed data models
// for peers, groups and policies live in the models subpackage, high-level
// operations in the manager subpackage, and multi-source configuration
// loading in the config subpackage.
//
// # Basic Usage
//
//	c := netbird.New("https://api.netbird.io",
//	    netbird.WithAuthToken("my-token"),
//	    netbird.WithRetryCount(5),
//	)
//	defer c.Close()
//
//	raw, err := c.Get(ctx, "peers", nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	peers, err := models.ParsePeerList(raw)
//
// # Configuration
//
// All configuration is supplied as [Option] functions passed to [New].
// Invalid values are silently ignored and the default is retained. To load
// configuration from files and NETBIRD_* environment variables, resolve a
// config.Config and pass its Options() to [New].
//
// # Retry Behaviour
//
// Transport-level failures (connection errors and timeouts) are retried up
// to the configured retry count with exponential backoff; the delay before
// retry n is retryDelay * backoffFactor^(n-1). Classified API errors are
// never retried and propagate on first occurrence. Cancelling the request
// context aborts both the in-flight round trip and any backoff sleep.
// Supply a custom function via [WithRetryPolicy] to override the transient
// classification.
//
// # Errors
//
// Non-2xx responses are mapped to typed errors ([ValidationError],
// [AuthenticationError], [AuthorizationError], [ResourceNotFoundError],
// [ConflictError], [RateLimitError], [ServerError]) that all embed [Error]
// and can be matched with errors.As. Transport failures surface as
// [NetworkError] or [TimeoutError].
//
// # Resource Management
//
// The pooled transport is created lazily on the first request. Call
// [Client.Close] when done to release idle connections; connections held by
// an abandoned client are eventually reclaimed by the runtime, but Close is
// the primary cleanup path.
//
// # Logging
//
// Implement [RequestLogger] and supply it via [WithRequestLogger] to
// integrate with your logging library, or use [NewSlogLogger] to adapt a
// log/slog logger. The default [NoopLogger] discards all log output.
// Request and response payloads are passed through [MaskSensitive] before
// logging so credential fields never appear unmasked.
package netbird
