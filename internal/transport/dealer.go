// Package transport delivers control messages to the corky bot service over
// a ZeroMQ DEALER socket. Each outbound message is two frames: the
// destination identity followed by the payload.
package transport

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strings"

	"github.com/go-zeromq/zmq4"
)

// DefaultIdentity is the socket identity the service sees on incoming frames.
const DefaultIdentity = "test-client"

// ErrInvalidEndpoint reports an endpoint string the transport cannot use.
var ErrInvalidEndpoint = errors.New("invalid endpoint")

// ValidateEndpoint checks that endpoint has the form scheme://address with a
// scheme the transport supports. tcp addresses must carry a port.
func ValidateEndpoint(endpoint string) error {
	scheme, rest, ok := strings.Cut(endpoint, "://")
	if !ok || rest == "" {
		return fmt.Errorf("%w: %q (want scheme://address)", ErrInvalidEndpoint, endpoint)
	}
	switch scheme {
	case "tcp":
		if _, _, err := net.SplitHostPort(rest); err != nil {
			return fmt.Errorf("%w: %q: %v", ErrInvalidEndpoint, endpoint, err)
		}
	case "ipc", "inproc":
		// address is an arbitrary path or name
	default:
		return fmt.Errorf("%w: unsupported scheme %q", ErrInvalidEndpoint, scheme)
	}
	return nil
}

// Options configures a Dealer.
type Options struct {
	Endpoint string
	Identity string // defaults to DefaultIdentity
	Logger   *slog.Logger
}

// Dealer is a connected DEALER socket. Sends are fire-and-forget: success
// means the local transport accepted the frames, not that they were
// delivered.
type Dealer struct {
	sock   zmq4.Socket
	logger *slog.Logger
}

// Dial validates the endpoint, opens a DEALER socket with the configured
// identity, and connects. Unlike libzmq's lazy connect, a refused TCP
// connection surfaces here.
func Dial(ctx context.Context, opts Options) (*Dealer, error) {
	if opts.Identity == "" {
		opts.Identity = DefaultIdentity
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if err := ValidateEndpoint(opts.Endpoint); err != nil {
		return nil, err
	}

	sock := zmq4.NewDealer(ctx, zmq4.WithID(zmq4.SocketIdentity(opts.Identity)))
	opts.Logger.Debug("connecting", "endpoint", opts.Endpoint, "identity", opts.Identity)
	if err := sock.Dial(opts.Endpoint); err != nil {
		sock.Close()
		return nil, fmt.Errorf("connect %s: %w", opts.Endpoint, err)
	}
	return &Dealer{sock: sock, logger: opts.Logger}, nil
}

// Send transmits the two-frame message [destination, payload].
func (d *Dealer) Send(destination string, payload []byte) error {
	msg := zmq4.NewMsgFrom([]byte(destination), payload)
	d.logger.Debug("sending frames",
		"frames", len(msg.Frames),
		"destination", destination,
		"payload", string(payload))
	if err := d.sock.Send(msg); err != nil {
		return fmt.Errorf("send to %s: %w", destination, err)
	}
	return nil
}

// Close releases the socket. Safe to call exactly once per Dial.
func (d *Dealer) Close() error {
	return d.sock.Close()
}
