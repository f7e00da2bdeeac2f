// Package websockets streams published DKG tasks to subscribed nodes over
// websocket connections.
//
// Every connection runs three routines under one errgroup: a writer that
// forwards the tasks queued for the subscription, a reader that drains client
// frames so control messages get processed, and a keepalive that pings the
// client. The first routine to fail tears down the other two.
//
// A subscriber whose queue is full when a task is published is dropped with a
// try-again-later close frame. It can reconnect and fetch the latest task of
// its group from the REST API.
package websockets

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/arpa-network/randcast-controller/model/randcast"
	"github.com/arpa-network/randcast-controller/module"
	"github.com/arpa-network/randcast-controller/state/controller"
	"github.com/arpa-network/randcast-controller/state/controller/events"
)

// MemberQueryParam restricts a subscription to the tasks of groups the
// address is a member of.
const MemberQueryParam = "member"

var (
	// ErrMaxSubscriptionsReached is returned when the broker already serves the configured number of subscriptions.
	ErrMaxSubscriptionsReached = errors.New("maximum number of subscriptions reached")

	// ErrBrokerStopped is returned for subscriptions attempted after Stop.
	ErrBrokerStopped = errors.New("task broker stopped")

	errSubscriptionClosed = errors.New("subscription closed")
)

// TaskMessage is written to subscribers for every matching task.
type TaskMessage struct {
	SubscriptionID string           `json:"subscription_id"`
	Task           randcast.DKGTask `json:"task"`
}

// Broker fans out published DKG tasks to websocket subscribers.
type Broker struct {
	events.Noop
	log      zerolog.Logger
	config   Config
	metrics  module.SubscriptionMetrics
	upgrader websocket.Upgrader

	mu      sync.Mutex
	subs    map[uuid.UUID]*subscription
	stopped bool
	conns   sync.WaitGroup
}

var (
	_ controller.Consumer = (*Broker)(nil)
	_ http.Handler        = (*Broker)(nil)
)

func NewBroker(log zerolog.Logger, config Config, metrics module.SubscriptionMetrics) *Broker {
	return &Broker{
		log:     log.With().Str("component", "task_broker").Logger(),
		config:  config,
		metrics: metrics,
		upgrader: websocket.Upgrader{
			// nodes connect from anywhere, same as the REST API's CORS policy
			CheckOrigin: func(*http.Request) bool { return true },
		},
		subs: make(map[uuid.UUID]*subscription),
	}
}

// DKGTaskPublished queues the task on every matching subscription. It never
// blocks: subscribers with a full queue are dropped.
func (b *Broker) DKGTaskPublished(task randcast.DKGTask) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for id, sub := range b.subs {
		if !sub.wants(task) {
			continue
		}
		select {
		case sub.tasks <- task:
		default:
			b.log.Warn().
				Str("subscription_id", id.String()).
				Uint64("group_index", task.GroupIndex).
				Msg("subscriber too slow, dropping")
			b.removeLocked(id, websocket.CloseTryAgainLater, "subscriber too slow")
			b.metrics.SubscriberDropped()
		}
	}
}

// Subscriptions returns the number of open subscriptions.
func (b *Broker) Subscriptions() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// ServeHTTP upgrades the request to a websocket connection and streams tasks
// until either side closes it.
func (b *Broker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var member *randcast.Address
	if raw := r.URL.Query().Get(MemberQueryParam); raw != "" {
		if !randcast.IsHexAddress(raw) {
			http.Error(w, fmt.Sprintf("invalid member address %q", raw), http.StatusBadRequest)
			return
		}
		addr := randcast.HexToAddress(raw)
		member = &addr
	}

	sub, err := b.subscribe(member)
	if err != nil {
		status := http.StatusTooManyRequests
		if errors.Is(err, ErrBrokerStopped) {
			status = http.StatusServiceUnavailable
		}
		http.Error(w, err.Error(), status)
		return
	}
	defer b.conns.Done()

	conn, err := b.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// the upgrader already replied to the client
		b.log.Debug().Err(err).Msg("websocket upgrade failed")
		b.remove(sub.id, websocket.CloseNormalClosure, "")
		return
	}

	log := b.log.With().Str("subscription_id", sub.id.String()).Logger()
	if member != nil {
		log = log.With().Str("member", member.Hex()).Logger()
	}
	log.Debug().Msg("task subscription opened")

	c := &connection{
		log:     log,
		conn:    conn,
		sub:     sub,
		metrics: b.metrics,
	}
	if b.config.MaxResponsesPerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(b.config.MaxResponsesPerSecond), 1)
	}
	c.handle(r.Context())

	b.remove(sub.id, websocket.CloseNormalClosure, "")
	log.Debug().Msg("task subscription closed")
}

// Stop closes every subscription and waits for their connections to finish.
// Later subscription attempts are rejected.
func (b *Broker) Stop() {
	b.mu.Lock()
	b.stopped = true
	for id := range b.subs {
		b.removeLocked(id, websocket.CloseGoingAway, "controller shutting down")
	}
	b.mu.Unlock()

	b.conns.Wait()
}

func (b *Broker) subscribe(member *randcast.Address) (*subscription, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.stopped {
		return nil, ErrBrokerStopped
	}
	if len(b.subs) >= b.config.MaxSubscriptions {
		return nil, ErrMaxSubscriptionsReached
	}

	sub := &subscription{
		id:     uuid.New(),
		member: member,
		tasks:  make(chan randcast.DKGTask, b.config.SendBufferSize),
		done:   make(chan struct{}),
	}
	b.subs[sub.id] = sub
	b.conns.Add(1)
	b.metrics.SubscriptionsActive(len(b.subs))
	return sub, nil
}

func (b *Broker) remove(id uuid.UUID, code int, reason string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.removeLocked(id, code, reason)
}

func (b *Broker) removeLocked(id uuid.UUID, code int, reason string) {
	sub, ok := b.subs[id]
	if !ok {
		return
	}
	delete(b.subs, id)
	sub.close(code, reason)
	b.metrics.SubscriptionsActive(len(b.subs))
}

type subscription struct {
	id     uuid.UUID
	member *randcast.Address
	tasks  chan randcast.DKGTask

	// done is closed once the broker gives up on the subscription. code and
	// reason are written before and read after.
	done   chan struct{}
	code   int
	reason string
}

func (s *subscription) wants(task randcast.DKGTask) bool {
	return s.member == nil || task.Members.Contains(*s.member)
}

// close must be called at most once, under the broker lock.
func (s *subscription) close(code int, reason string) {
	s.code = code
	s.reason = reason
	close(s.done)
}

type connection struct {
	log     zerolog.Logger
	conn    *websocket.Conn
	sub     *subscription
	metrics module.SubscriptionMetrics
	limiter *rate.Limiter
}

func (c *connection) handle(ctx context.Context) {
	defer c.conn.Close()

	if err := c.configureKeepalive(); err != nil {
		c.log.Error().Err(err).Msg("error configuring keepalive connection")
		return
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return c.keepalive(gCtx)
	})
	g.Go(func() error {
		return c.writeTasks(gCtx)
	})
	g.Go(func() error {
		return c.readMessages()
	})
	g.Go(func() error {
		// unblocks the reader once any routine is done
		<-gCtx.Done()
		return c.conn.Close()
	})

	err := g.Wait()
	if err == nil || errors.Is(err, errSubscriptionClosed) || errors.Is(err, websocket.ErrCloseSent) {
		return
	}
	var closeErr *websocket.CloseError
	if errors.As(err, &closeErr) {
		c.log.Debug().Int("code", closeErr.Code).Msg("client closed the connection")
		return
	}
	c.log.Warn().Err(err).Msg("task subscription failed")
}

func (c *connection) configureKeepalive() error {
	if err := c.conn.SetReadDeadline(time.Now().Add(PongWait)); err != nil {
		return fmt.Errorf("failed to set the initial read deadline: %w", err)
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(PongWait))
	})
	return nil
}

func (c *connection) keepalive(ctx context.Context) error {
	ticker := time.NewTicker(PingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(WriteWait)); err != nil {
				return fmt.Errorf("error sending ping: %w", err)
			}
		}
	}
}

func (c *connection) writeTasks(ctx context.Context) error {
	// a pending rate limit wait is aborted when the broker drops the subscription
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-c.sub.done:
			cancel()
		case <-ctx.Done():
		}
	}()

	for {
		select {
		case <-c.sub.done:
			return c.sendClose()
		case <-ctx.Done():
			if c.closed() {
				return c.sendClose()
			}
			return nil
		case task := <-c.sub.tasks:
			if c.limiter != nil {
				if err := c.limiter.Wait(ctx); err != nil {
					if c.closed() {
						return c.sendClose()
					}
					if ctx.Err() != nil {
						return nil
					}
					return fmt.Errorf("rate limiter wait failed: %w", err)
				}
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(WriteWait)); err != nil {
				return fmt.Errorf("failed to set the write deadline: %w", err)
			}
			err := c.conn.WriteJSON(TaskMessage{
				SubscriptionID: c.sub.id.String(),
				Task:           task,
			})
			if err != nil {
				return fmt.Errorf("could not write task: %w", err)
			}
			c.metrics.TaskStreamed()
		}
	}
}

func (c *connection) closed() bool {
	select {
	case <-c.sub.done:
		return true
	default:
		return false
	}
}

// sendClose tells the client why the broker dropped the subscription.
func (c *connection) sendClose() error {
	msg := websocket.FormatCloseMessage(c.sub.code, c.sub.reason)
	if err := c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(WriteWait)); err != nil {
		c.log.Debug().Err(err).Msg("could not send close message")
	}
	return errSubscriptionClosed
}

// readMessages discards client frames. Reading is what runs the pong and close
// handlers.
func (c *connection) readMessages() error {
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return err
		}
	}
}
