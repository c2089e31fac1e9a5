package relay

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"
)

// Transport carries the messages of a session to and from the remote peer. A message is delivered whole
// or not at all.
type Transport interface {
	// Send delivers one message to the remote peer.
	Send(ctx context.Context, msg []byte) error
	// Receive blocks until a message from the remote peer arrives or ctx is done, in which case the
	// error of ctx is returned.
	Receive(ctx context.Context) ([]byte, error)
	Close() error
}

// UDPTransport exchanges messages as single UDP datagrams with a fixed remote address.
type UDPTransport struct {
	conn    *net.UDPConn
	remote  *net.UDPAddr
	bufSize int
}

var _ Transport = (*UDPTransport)(nil)

// DialUDP binds the local port on all interfaces and resolves the remote peer.
func DialUDP(localPort uint16, remoteHost string, remotePort uint16, maxMessageSize uint) (*UDPTransport, error) {
	remote, err := net.ResolveUDPAddr("udp", net.JoinHostPort(remoteHost, strconv.Itoa(int(remotePort))))
	if err != nil {
		return nil, fmt.Errorf("could not resolve remote peer %s: %w", remoteHost, err)
	}

	conn, err := net.ListenUDP("udp", &net.UDPAddr{Port: int(localPort)})
	if err != nil {
		return nil, fmt.Errorf("could not listen on port %d: %w", localPort, err)
	}

	return NewUDPTransport(conn, remote, maxMessageSize), nil
}

// NewUDPTransport returns a transport over an already bound connection. Datagrams longer than
// maxMessageSize are truncated on receive, never in the middle of a multi-byte character.
func NewUDPTransport(conn *net.UDPConn, remote *net.UDPAddr, maxMessageSize uint) *UDPTransport {
	return &UDPTransport{
		conn:    conn,
		remote:  remote,
		bufSize: int(maxMessageSize),
	}
}

func (u *UDPTransport) Send(ctx context.Context, msg []byte) error {
	if deadline, ok := ctx.Deadline(); ok {
		if err := u.conn.SetWriteDeadline(deadline); err != nil {
			return fmt.Errorf("could not set write deadline: %w", err)
		}
	}

	if _, err := u.conn.WriteToUDP(msg, u.remote); err != nil {
		return fmt.Errorf("could not send datagram to %s: %w", u.remote, err)
	}
	return nil
}

func (u *UDPTransport) Receive(ctx context.Context) ([]byte, error) {
	// a previous cancellation leaves an expired deadline behind, it must be cleared before the
	// cancellation hook of this call is registered
	if err := u.conn.SetReadDeadline(time.Time{}); err != nil {
		return nil, fmt.Errorf("could not reset read deadline: %w", err)
	}
	// unblocks the pending read once ctx is done
	stop := context.AfterFunc(ctx, func() {
		_ = u.conn.SetReadDeadline(time.Now())
	})
	defer stop()

	// one spare byte tells a datagram cut by the kernel from one of exactly the maximum size
	buf := make([]byte, u.bufSize+1)
	n, _, err := u.conn.ReadFromUDP(buf)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if errors.Is(err, net.ErrClosed) {
			return nil, fmt.Errorf("connection closed: %w", err)
		}
		return nil, fmt.Errorf("could not receive datagram: %w", err)
	}
	return []byte(truncate(string(buf[:n]), uint(u.bufSize))), nil
}

func (u *UDPTransport) Close() error {
	return u.conn.Close()
}

// LocalAddr returns the address the transport is bound to.
func (u *UDPTransport) LocalAddr() *net.UDPAddr {
	return u.conn.LocalAddr().(*net.UDPAddr)
}
