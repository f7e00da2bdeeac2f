// Package notifier delivers published DKG tasks to webhook endpoints.
package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gammazero/workerpool"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/sethvargo/go-retry"
	"github.com/sony/gobreaker"

	"github.com/arpa-network/randcast-controller/model/randcast"
	"github.com/arpa-network/randcast-controller/module"
	"github.com/arpa-network/randcast-controller/module/metrics"
	"github.com/arpa-network/randcast-controller/state/controller"
	"github.com/arpa-network/randcast-controller/state/controller/events"
)

// RequestIDHeader carries the delivery id. It is the same for all attempts
// of one delivery, so receivers can drop duplicates.
const RequestIDHeader = "X-Request-ID"

// RetryDescriptor configures the exponential back-off between delivery
// attempts.
type RetryDescriptor struct {
	// Base is the wait before the first retry. It doubles with every retry.
	Base time.Duration `mapstructure:"base" validate:"gt=0"`
	// Max caps the wait between two attempts.
	Max time.Duration `mapstructure:"max" validate:"gtefield=Base"`
	// JitterPercent randomizes each wait by up to the given percentage.
	JitterPercent uint64 `mapstructure:"jitter-percent" validate:"lte=100"`
	// MaxAttempts bounds the number of attempts of one delivery.
	MaxAttempts uint64 `mapstructure:"max-attempts" validate:"gt=0"`
}

func DefaultRetryDescriptor() RetryDescriptor {
	return RetryDescriptor{
		Base:          500 * time.Millisecond,
		Max:           10 * time.Second,
		JitterPercent: 20,
		MaxAttempts:   5,
	}
}

func (d RetryDescriptor) backoff() (retry.Backoff, error) {
	if d.Base <= 0 {
		return nil, fmt.Errorf("retry base must be positive, got %s", d.Base)
	}
	backoff := retry.NewExponential(d.Base)
	backoff = retry.WithCappedDuration(d.Max, backoff)
	if d.JitterPercent > 0 {
		backoff = retry.WithJitterPercent(d.JitterPercent, backoff)
	}
	// the first attempt is not a retry
	return retry.WithMaxRetries(d.MaxAttempts-1, backoff), nil
}

// CircuitBreakerConfig configures the per-endpoint circuit breakers. An open
// breaker fails attempts without contacting the endpoint until RestoreTimeout
// passes. Then up to MaxRequests trial attempts decide whether it closes
// again.
type CircuitBreakerConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	MaxFailures    uint32        `mapstructure:"max-failures" validate:"required_if=Enabled true"`
	RestoreTimeout time.Duration `mapstructure:"restore-timeout" validate:"required_if=Enabled true"`
	MaxRequests    uint32        `mapstructure:"max-requests" validate:"required_if=Enabled true"`
}

func DefaultCircuitBreakerConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Enabled:        false,
		MaxFailures:    5,
		RestoreTimeout: 60 * time.Second,
		MaxRequests:    1,
	}
}

// Envelope is the body posted to the endpoints.
type Envelope struct {
	ID   string           `json:"id"`
	Task randcast.DKGTask `json:"task"`
}

// Notifier posts every published DKG task to all endpoints. Deliveries run on
// a worker pool, so the controller is never blocked by a slow endpoint.
type Notifier struct {
	events.Noop
	log       zerolog.Logger
	client    *http.Client
	endpoints []string
	retry     RetryDescriptor
	metrics   module.NotifierMetrics
	pool      *workerpool.WorkerPool

	breakerConfig CircuitBreakerConfig
	breakers      map[string]*gobreaker.CircuitBreaker

	ctx    context.Context
	cancel context.CancelFunc

	// guards stopped against concurrent publishing, the pool panics on
	// submission after StopWait
	mu      sync.Mutex
	stopped bool
}

var _ controller.Consumer = (*Notifier)(nil)

// Option configures a Notifier.
type Option func(*Notifier)

func WithMetrics(collector module.NotifierMetrics) Option {
	return func(n *Notifier) {
		n.metrics = collector
	}
}

// WithHTTPClient replaces the client used for deliveries.
func WithHTTPClient(client *http.Client) Option {
	return func(n *Notifier) {
		n.client = client
	}
}

// WithCircuitBreaker guards every endpoint with a circuit breaker.
func WithCircuitBreaker(config CircuitBreakerConfig) Option {
	return func(n *Notifier) {
		n.breakerConfig = config
	}
}

// New creates a notifier delivering with the given number of workers.
func New(log zerolog.Logger, endpoints []string, workers int, descriptor RetryDescriptor, opts ...Option) (*Notifier, error) {
	if workers <= 0 {
		return nil, fmt.Errorf("number of workers must be positive, got %d", workers)
	}
	if descriptor.MaxAttempts == 0 {
		return nil, fmt.Errorf("max attempts must be positive")
	}
	if _, err := descriptor.backoff(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	n := &Notifier{
		log:       log.With().Str("component", "task_notifier").Logger(),
		client:    &http.Client{Timeout: 10 * time.Second},
		endpoints: endpoints,
		retry:     descriptor,
		metrics:   metrics.NewNoopCollector(),
		pool:      workerpool.New(workers),
		ctx:       ctx,
		cancel:    cancel,
	}
	for _, apply := range opts {
		apply(n)
	}
	if n.breakerConfig.Enabled {
		n.breakers = make(map[string]*gobreaker.CircuitBreaker, len(endpoints))
		for _, endpoint := range endpoints {
			n.breakers[endpoint] = n.newCircuitBreaker(endpoint)
		}
	}
	return n, nil
}

func (n *Notifier) newCircuitBreaker(endpoint string) *gobreaker.CircuitBreaker {
	maxFailures := n.breakerConfig.MaxFailures
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        endpoint,
		MaxRequests: n.breakerConfig.MaxRequests,
		Timeout:     n.breakerConfig.RestoreTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			n.log.Info().
				Str("endpoint", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state changed")
			n.metrics.CircuitBreakerStateChanged(name, to.String())
		},
	})
}

// DKGTaskPublished schedules the delivery of the task to every endpoint.
func (n *Notifier) DKGTaskPublished(task randcast.DKGTask) {
	envelope := Envelope{
		ID:   uuid.New().String(),
		Task: task,
	}
	body, err := json.Marshal(envelope)
	if err != nil {
		n.log.Error().Err(err).Uint64("group_index", task.GroupIndex).Msg("could not encode dkg task")
		return
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	if n.stopped {
		n.log.Debug().Uint64("group_index", task.GroupIndex).Msg("notifier stopped, dropping dkg task")
		return
	}
	for _, endpoint := range n.endpoints {
		endpoint := endpoint
		n.pool.Submit(func() {
			n.deliver(endpoint, envelope.ID, body)
		})
	}
}

// Stop aborts pending retries and waits for the running deliveries. Tasks
// published afterwards are dropped.
func (n *Notifier) Stop() {
	n.cancel()
	n.Wait()
}

// Wait blocks until all scheduled deliveries are done. Tasks published
// afterwards are dropped.
func (n *Notifier) Wait() {
	n.mu.Lock()
	n.stopped = true
	n.mu.Unlock()
	n.pool.StopWait()
}

func (n *Notifier) deliver(endpoint string, id string, body []byte) {
	log := n.log.With().Str("endpoint", endpoint).Str("delivery_id", id).Logger()

	backoff, err := n.retry.backoff()
	if err != nil {
		log.Error().Err(err).Msg("could not create retry mechanism")
		n.metrics.TaskDeliveryFailed(endpoint)
		return
	}

	attempts := 0
	err = retry.Do(n.ctx, backoff, func(ctx context.Context) error {
		attempts++
		err := n.attempt(ctx, endpoint, id, body)
		if err == nil {
			return nil
		}
		var permanent *permanentError
		if errors.As(err, &permanent) {
			return err
		}
		log.Debug().Err(err).Int("attempt", attempts).Msg("delivery failed, retrying")
		return retry.RetryableError(err)
	})
	if err != nil {
		log.Warn().Err(err).Int("attempts", attempts).Msg("could not deliver dkg task")
		n.metrics.TaskDeliveryFailed(endpoint)
		return
	}

	log.Debug().Int("attempts", attempts).Msg("dkg task delivered")
	n.metrics.TaskDelivered(endpoint, attempts)
}

// attempt posts the body once, through the endpoint's circuit breaker if
// there is one. Errors of an open breaker are retryable.
func (n *Notifier) attempt(ctx context.Context, endpoint string, id string, body []byte) error {
	breaker, ok := n.breakers[endpoint]
	if !ok {
		return n.post(ctx, endpoint, id, body)
	}

	// a rejected task still proves the endpoint is up, so it does not count
	// as a breaker failure
	var permanent error
	_, err := breaker.Execute(func() (interface{}, error) {
		err := n.post(ctx, endpoint, id, body)
		var p *permanentError
		if errors.As(err, &p) {
			permanent = err
			return nil, nil
		}
		return nil, err
	})
	if err != nil {
		return err
	}
	return permanent
}

// permanentError is a failure that retrying will not change.
type permanentError struct {
	err error
}

func (e *permanentError) Error() string {
	return e.err.Error()
}

func (e *permanentError) Unwrap() error {
	return e.err
}

func (n *Notifier) post(ctx context.Context, endpoint string, id string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return &permanentError{err: fmt.Errorf("could not create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(RequestIDHeader, id)

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("could not post task: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return fmt.Errorf("endpoint responded with status %d", resp.StatusCode)
	default:
		return &permanentError{err: fmt.Errorf("endpoint rejected task with status %d", resp.StatusCode)}
	}
}
