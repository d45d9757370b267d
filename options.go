package skyle

import (
	"log/slog"
	"net"
	"strconv"
	"time"

	"google.golang.org/grpc"
)

// Defaults of a new Client.
const (
	DefaultHost           = "skyle.local"
	DefaultPort           = 50052
	DefaultConnectTimeout = 3 * time.Second
	DefaultRequestTimeout = 5 * time.Second
	DefaultQueueSize      = 5
)

type options struct {
	host           string
	port           int
	target         string
	logger         *slog.Logger
	connectTimeout time.Duration
	requestTimeout time.Duration
	baseDelay      time.Duration
	maxDelay       time.Duration
	queueSize      int
	dialOptions    []grpc.DialOption
}

func defaultOptions(host string) options {
	if host == "" {
		host = DefaultHost
	}
	return options{
		host:           host,
		port:           DefaultPort,
		connectTimeout: DefaultConnectTimeout,
		requestTimeout: DefaultRequestTimeout,
		baseDelay:      time.Second,
		maxDelay:       30 * time.Second,
		queueSize:      DefaultQueueSize,
	}
}

// endpoint returns the grpc target.
func (o options) endpoint() string {
	if o.target != "" {
		return o.target
	}
	return net.JoinHostPort(o.host, strconv.Itoa(o.port))
}

// Option configures a Client.
type Option func(*options)

// WithPort sets the device port.
func WithPort(port int) Option {
	return func(o *options) { o.port = port }
}

// WithTarget sets a full grpc target, overriding host and port.
func WithTarget(target string) Option {
	return func(o *options) { o.target = target }
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithConnectTimeout bounds the blocking connect done by Connect and by
// calls made before any connection exists.
func WithConnectTimeout(d time.Duration) Option {
	return func(o *options) { o.connectTimeout = d }
}

// WithRequestTimeout bounds every one-shot request. Zero disables it.
func WithRequestTimeout(d time.Duration) Option {
	return func(o *options) { o.requestTimeout = d }
}

// WithBackoff sets the transport reconnect backoff.
func WithBackoff(base, limit time.Duration) Option {
	return func(o *options) {
		o.baseDelay = base
		o.maxDelay = limit
	}
}

// WithQueueSize sets the calibration command queue capacity.
func WithQueueSize(n int) Option {
	return func(o *options) { o.queueSize = n }
}

// WithDialOptions appends grpc dial options.
func WithDialOptions(opts ...grpc.DialOption) Option {
	return func(o *options) { o.dialOptions = append(o.dialOptions, opts...) }
}
