// Package relay implements a two-party chat session: lines typed locally are sent to the remote peer and
// messages from the remote peer are printed, each direction buffered in a queue of a shared arena pool.
package relay

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"
	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"

	"github.com/stalkchat/stalk/module/arena"
	"github.com/stalkchat/stalk/module/arena/queue"
	"github.com/stalkchat/stalk/module/metrics"
)

// errSessionEndDropped is returned when the sentinel could not be queued, the session is ended anyway.
var errSessionEndDropped = errors.New("could not queue session end")

const (
	endedByLocal  = "local"
	endedByRemote = "remote"
	endedByInput  = "input closed"
)

// inputBufferSize is the size of the input reader buffer, longer lines are read in several fragments.
const inputBufferSize = 4096

// Params are the tunables of a session.
type Params struct {
	// MaxMessageSize is the size in bytes above which a message is truncated.
	MaxMessageSize uint `validate:"gt=0" mapstructure:"max-message-size"`
	// Sentinel is the message ending the session, typed by either peer.
	Sentinel string `validate:"required" mapstructure:"sentinel"`
	// QueueCapacity is the number of messages each direction buffers before dropping.
	QueueCapacity uint `validate:"gt=0" mapstructure:"queue-capacity"`
}

// Engine runs one chat session. It reads lines from the input and sends them, and writes every received
// message to the output, until the sentinel is sent or received.
type Engine struct {
	log       zerolog.Logger
	params    Params
	transport Transport
	input     io.Reader
	output    io.Writer

	outbound *queue.Queue
	inbound  *queue.Queue

	sent     *atomic.Uint64
	received *atomic.Uint64
	dropped  *atomic.Uint64
	endedBy  *atomic.String

	// inputErr is only written by the keyboard worker and read once all workers returned.
	inputErr error
}

// New creates the outbound and inbound queues of the session from the group.
// Expected errors during normal operations:
//   - arena.ErrPoolExhausted if the pool of the group has less than two free lists.
func New(log zerolog.Logger, group *queue.Group, transport Transport, input io.Reader, output io.Writer, params Params) (*Engine, error) {
	outbound, err := group.NewQueue(metrics.QueueOutbound, params.QueueCapacity)
	if err != nil {
		return nil, fmt.Errorf("could not create outbound queue: %w", err)
	}
	inbound, err := group.NewQueue(metrics.QueueInbound, params.QueueCapacity)
	if err != nil {
		outbound.Destroy(nil)
		return nil, fmt.Errorf("could not create inbound queue: %w", err)
	}

	return &Engine{
		log:       log.With().Str("engine", "relay").Logger(),
		params:    params,
		transport: transport,
		input:     input,
		output:    output,
		outbound:  outbound,
		inbound:   inbound,
		sent:      atomic.NewUint64(0),
		received:  atomic.NewUint64(0),
		dropped:   atomic.NewUint64(0),
		endedBy:   atomic.NewString(""),
	}, nil
}

// Run blocks until the session ends, either by the sentinel from any side, the end of the input, or
// cancellation of ctx. The queues and the transport are released before returning; the engine cannot
// be run again.
func (e *Engine) Run(ctx context.Context) error {
	session, end := context.WithCancel(ctx)
	defer end()

	lines, readErrs := e.readLines(session)

	g, gCtx := errgroup.WithContext(session)
	g.Go(func() error {
		return e.keyboard(gCtx, lines, readErrs)
	})
	g.Go(func() error {
		defer end()
		return e.send(gCtx)
	})
	g.Go(func() error {
		return e.receive(gCtx)
	})
	g.Go(func() error {
		defer end()
		return e.print(gCtx)
	})

	var result *multierror.Error
	if err := g.Wait(); err != nil {
		result = multierror.Append(result, err)
	}
	if e.inputErr != nil {
		result = multierror.Append(result, e.inputErr)
	}

	leftover := func(arena.Element) { e.dropped.Inc() }
	e.outbound.Destroy(leftover)
	e.inbound.Destroy(leftover)
	if err := e.transport.Close(); err != nil {
		result = multierror.Append(result, fmt.Errorf("could not close transport: %w", err))
	}

	endedBy := e.endedBy.Load()
	if endedBy == "" && ctx.Err() != nil {
		endedBy = "interrupted"
	}
	e.log.Info().
		Str("ended_by", endedBy).
		Uint64("sent", e.sent.Load()).
		Uint64("received", e.received.Load()).
		Uint64("dropped", e.dropped.Load()).
		Msg("session ended")

	return result.ErrorOrNil()
}

// Sent returns the number of messages sent to the remote peer.
func (e *Engine) Sent() uint64 {
	return e.sent.Load()
}

// Received returns the number of messages received from the remote peer.
func (e *Engine) Received() uint64 {
	return e.received.Load()
}

// Dropped returns the number of messages lost to full queues or left over when the session ended.
func (e *Engine) Dropped() uint64 {
	return e.dropped.Load()
}

// readLines reads the input in its own goroutine, a read in progress cannot be canceled. Lines longer than
// the maximum message size are truncated and the rest of the line is discarded. The lines channel is closed
// at the end of the input, a read failure is delivered on the error channel before that.
func (e *Engine) readLines(ctx context.Context) (<-chan string, <-chan error) {
	lines := make(chan string)
	errs := make(chan error, 1)
	go func() {
		defer close(lines)
		reader := bufio.NewReaderSize(e.input, inputBufferSize)
		for {
			line, err := readLine(reader, e.params.MaxMessageSize)
			if err != nil {
				if !errors.Is(err, io.EOF) {
					errs <- err
				}
				return
			}
			select {
			case lines <- line:
			case <-ctx.Done():
				return
			}
		}
	}()
	return lines, errs
}

// readLine returns the next line of r without its line ending, cut to at most limit bytes.
func readLine(r *bufio.Reader, limit uint) (string, error) {
	var line []byte
	for {
		fragment, more, err := r.ReadLine()
		if err != nil {
			return "", err
		}
		if uint(len(line)) < limit {
			line = append(line, fragment...)
		}
		if !more {
			return truncate(string(line), limit), nil
		}
	}
}

// keyboard pushes every input line to the outbound queue. The sentinel and the end of input close the
// queue, the latter sending the sentinel on behalf of the user so the remote peer learns the session ended.
// A failing input ends the session the same way, the failure is kept for Run to return once the sentinel
// went out.
func (e *Engine) keyboard(ctx context.Context, lines <-chan string, readErrs <-chan error) error {
	defer e.outbound.Close()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				select {
				case err := <-readErrs:
					e.inputErr = fmt.Errorf("could not read input: %w", err)
					e.log.Error().Err(err).Msg("could not read input, ending session")
				default:
					e.log.Debug().Msg("end of input, ending session")
				}
				e.endedBy.CompareAndSwap("", endedByInput)
				line = e.params.Sentinel
			}
			if !e.outbound.Push(line) {
				e.dropped.Inc()
				e.log.Warn().Msg("outbound queue full, message dropped")
				if line == e.params.Sentinel {
					return errSessionEndDropped
				}
			}
			if line == e.params.Sentinel {
				return nil
			}
		}
	}
}

// send delivers the outbound messages to the remote peer, the session ends once the sentinel is sent.
func (e *Engine) send(ctx context.Context) error {
	for {
		item, err := e.outbound.PopWait(ctx)
		if err != nil {
			return ignoreEnd(err)
		}
		msg := item.(string)

		if err := e.transport.Send(ctx, []byte(msg)); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("could not send message: %w", err)
		}
		e.sent.Inc()

		if msg == e.params.Sentinel {
			e.endedBy.CompareAndSwap("", endedByLocal)
			return nil
		}
	}
}

// receive pushes the messages of the remote peer to the inbound queue until the sentinel arrives.
func (e *Engine) receive(ctx context.Context) error {
	defer e.inbound.Close()

	for {
		data, err := e.transport.Receive(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("could not receive message: %w", err)
		}
		e.received.Inc()

		msg := truncate(string(data), e.params.MaxMessageSize)
		if !e.inbound.Push(msg) {
			e.dropped.Inc()
			e.log.Warn().Msg("inbound queue full, message dropped")
			if msg != e.params.Sentinel {
				continue
			}
			// the printer would never see the sentinel
			e.endedBy.CompareAndSwap("", endedByRemote)
			return errSessionEndDropped
		}

		if msg == e.params.Sentinel {
			return nil
		}
	}
}

// print writes the inbound messages to the output, the session ends once the sentinel is printed.
func (e *Engine) print(ctx context.Context) error {
	for {
		item, err := e.inbound.PopWait(ctx)
		if err != nil {
			return ignoreEnd(err)
		}
		msg := item.(string)

		if _, err := fmt.Fprintln(e.output, msg); err != nil {
			return fmt.Errorf("could not print message: %w", err)
		}

		if msg == e.params.Sentinel {
			e.endedBy.CompareAndSwap("", endedByRemote)
			return nil
		}
	}
}

// ignoreEnd swallows the errors a worker gets when the session ends under it.
func ignoreEnd(err error) error {
	if errors.Is(err, queue.ErrQueueClosed) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}

// truncate cuts s to at most limit bytes without splitting a multi-byte character.
func truncate(s string, limit uint) string {
	if uint(len(s)) <= limit {
		return s
	}
	cut := int(limit)
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
