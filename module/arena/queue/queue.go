// Package queue provides goroutine-safe FIFO queues over the lists of a shared arena pool.
package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/stalkchat/stalk/module"
	"github.com/stalkchat/stalk/module/arena"
)

// ErrQueueClosed is returned by PopWait once the queue is closed and every message pushed before has been
// popped.
var ErrQueueClosed = errors.New("queue: closed")

// Group serializes access to an arena pool shared by several queues. Every queue of a group draws its
// nodes from the same pool, so a burst on one queue may make pushes to the others fail.
type Group struct {
	mu        sync.Mutex
	pool      *arena.Pool
	log       zerolog.Logger
	collector module.QueueMetrics
}

// NewGroup returns a group owning the pool. The pool must not be used outside of the group afterwards.
func NewGroup(pool *arena.Pool, logger zerolog.Logger, collector module.QueueMetrics) *Group {
	return &Group{
		pool:      pool,
		log:       logger.With().Str("component", "arena_queue").Logger(),
		collector: collector,
	}
}

// NewQueue creates a queue holding at most capacity messages, backed by a new list of the pool.
// Expected errors during normal operations:
//   - arena.ErrPoolExhausted if the pool has no free list head.
func (g *Group) NewQueue(name string, capacity uint) (*Queue, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	id, err := g.pool.Create()
	if err != nil {
		return nil, fmt.Errorf("could not create queue %s: %w", name, err)
	}

	q := &Queue{
		group:     g,
		name:      name,
		id:        id,
		sizeLimit: capacity,
		cond:      sync.NewCond(&g.mu),
		log:       g.log.With().Str("queue", name).Logger(),
	}
	g.collector.QueueSize(name, 0)
	return q, nil
}

// Stats returns the occupancy of the shared pool.
func (g *Group) Stats() arena.Stats {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.pool.Stats()
}

// Queue is a concurrency-safe FIFO of messages stored in an arena list.
type Queue struct {
	group     *Group
	name      string
	id        arena.ListID
	sizeLimit uint
	// cond is signaled on push, close and destruction, it shares the lock of the group.
	cond      *sync.Cond
	closed    bool
	destroyed bool
	log       zerolog.Logger
}

// Push stores the message at the end of the queue.
// Boolean returned variable determines whether push was successful, i.e.,
// push may be dropped if the queue is full, the shared pool is exhausted or the queue is closed.
func (q *Queue) Push(item arena.Element) bool {
	q.group.mu.Lock()
	defer q.group.mu.Unlock()

	if q.closed {
		q.group.collector.OnMessageDropped(q.name)
		return false
	}

	if uint(q.group.pool.Count(q.id)) >= q.sizeLimit {
		q.group.collector.OnMessageDropped(q.name)
		q.log.Debug().Uint("size_limit", q.sizeLimit).Msg("queue full, message dropped")
		return false
	}

	if err := q.group.pool.Append(q.id, item); err != nil {
		q.group.collector.OnMessageDropped(q.name)
		q.log.Debug().Err(err).Msg("could not push message")
		return false
	}

	q.group.collector.QueueSize(q.name, uint(q.group.pool.Count(q.id)))
	q.cond.Signal()
	return true
}

// Pop removes and returns the head of queue, and updates the head to the next element.
// Boolean return value determines whether pop is successful, i.e., popping an empty queue returns false.
func (q *Queue) Pop() (arena.Element, bool) {
	q.group.mu.Lock()
	defer q.group.mu.Unlock()

	return q.pop()
}

// PopWait removes and returns the head of queue, blocking while the queue is empty.
// Expected errors during normal operations:
//   - ErrQueueClosed if the queue is closed and empty.
//   - the error of ctx if it is done before a message is available.
func (q *Queue) PopWait(ctx context.Context) (arena.Element, error) {
	stop := context.AfterFunc(ctx, func() {
		q.group.mu.Lock()
		defer q.group.mu.Unlock()
		q.cond.Broadcast()
	})
	defer stop()

	q.group.mu.Lock()
	defer q.group.mu.Unlock()

	for {
		if item, ok := q.pop(); ok {
			return item, nil
		}
		if q.closed {
			return nil, ErrQueueClosed
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		q.cond.Wait()
	}
}

// Size returns the number of messages in the queue.
func (q *Queue) Size() uint {
	q.group.mu.Lock()
	defer q.group.mu.Unlock()

	if q.destroyed {
		return 0
	}
	return uint(q.group.pool.Count(q.id))
}

// Close rejects any further push and wakes up the waiting consumers. Messages already in the queue can
// still be popped.
func (q *Queue) Close() {
	q.group.mu.Lock()
	defer q.group.mu.Unlock()

	q.closed = true
	q.cond.Broadcast()
}

// Destroy closes the queue and returns its list to the pool. Every message left in the queue is passed
// to cleanup, which may be nil, and counted as dropped. Destroying a queue twice is a no-op.
func (q *Queue) Destroy(cleanup func(arena.Element)) {
	q.group.mu.Lock()
	defer q.group.mu.Unlock()

	if q.destroyed {
		return
	}

	left := 0
	q.group.pool.Destroy(q.id, func(item arena.Element) {
		left++
		q.group.collector.OnMessageDropped(q.name)
		if cleanup != nil {
			cleanup(item)
		}
	})
	q.closed = true
	q.destroyed = true
	q.cond.Broadcast()
	q.group.collector.QueueSize(q.name, 0)

	if left > 0 {
		q.log.Debug().Int("messages", left).Msg("queue destroyed with pending messages")
	}
}

// pop removes the first message of the queue, the group lock must be held.
func (q *Queue) pop() (arena.Element, bool) {
	if q.destroyed {
		return nil, false
	}
	if _, ok := q.group.pool.First(q.id); !ok {
		return nil, false
	}
	item, _ := q.group.pool.Remove(q.id)
	q.group.collector.QueueSize(q.name, uint(q.group.pool.Count(q.id)))
	return item, true
}
