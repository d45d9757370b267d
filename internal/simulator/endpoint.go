package simulator

import (
	"context"
	"errors"
	"net"
	"sync"

	"google.golang.org/grpc"
	"google.golang.org/grpc/test/bufconn"
)

// ErrEndpointDown is returned when dialing an endpoint that is taken down.
var ErrEndpointDown = errors.New("simulator endpoint down")

const bufSize = 1 << 20

// Endpoint serves a Device on a listener that can be taken down and
// brought back, simulating a device dropping off the network.
type Endpoint struct {
	device *Device
	listen func() (net.Listener, error)

	mu    sync.Mutex
	lis   net.Listener
	srv   *grpc.Server
	ups   int
	downs int
}

// NewEndpoint creates an endpoint that listens through listen on every Up.
func NewEndpoint(d *Device, listen func() (net.Listener, error)) *Endpoint {
	return &Endpoint{device: d, listen: listen}
}

// NewBufEndpoint creates an in-memory endpoint. Clients reach it through
// DialContext.
func NewBufEndpoint(d *Device) *Endpoint {
	return NewEndpoint(d, func() (net.Listener, error) {
		return bufconn.Listen(bufSize), nil
	})
}

// NewTCPEndpoint creates an endpoint listening on addr.
func NewTCPEndpoint(d *Device, addr string) *Endpoint {
	return NewEndpoint(d, func() (net.Listener, error) {
		return net.Listen("tcp", addr)
	})
}

// Up starts serving. It is a no-op when already up.
func (e *Endpoint) Up() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.srv != nil {
		return nil
	}

	lis, err := e.listen()
	if err != nil {
		return err
	}
	srv := e.device.NewServer()
	go srv.Serve(lis)

	e.lis, e.srv = lis, srv
	e.ups++
	e.device.logger.Debug("endpoint up", "addr", lis.Addr().String())
	return nil
}

// Down stops serving and drops every open connection.
func (e *Endpoint) Down() {
	e.mu.Lock()
	srv := e.srv
	e.lis, e.srv = nil, nil
	if srv != nil {
		e.downs++
	}
	e.mu.Unlock()

	if srv != nil {
		srv.Stop()
		e.device.logger.Debug("endpoint down")
	}
}

// IsUp reports whether the endpoint is serving.
func (e *Endpoint) IsUp() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.srv != nil
}

// Toggles returns how many times the endpoint went up and down.
func (e *Endpoint) Toggles() (ups, downs int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ups, e.downs
}

// Addr returns the listening address, or "" when down.
func (e *Endpoint) Addr() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.lis == nil {
		return ""
	}
	return e.lis.Addr().String()
}

// DialContext dials an in-memory endpoint. It is meant for
// grpc.WithContextDialer and fails while the endpoint is down.
func (e *Endpoint) DialContext(ctx context.Context, _ string) (net.Conn, error) {
	e.mu.Lock()
	lis := e.lis
	e.mu.Unlock()

	bl, ok := lis.(*bufconn.Listener)
	if !ok || bl == nil {
		return nil, ErrEndpointDown
	}
	return bl.DialContext(ctx)
}
