package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/arpa-network/randcast-controller/engine/api/rest"
	"github.com/arpa-network/randcast-controller/engine/api/websockets"
	"github.com/arpa-network/randcast-controller/engine/notifier"
	"github.com/arpa-network/randcast-controller/module/chain"
	"github.com/arpa-network/randcast-controller/module/coordinator"
	"github.com/arpa-network/randcast-controller/module/metrics"
	"github.com/arpa-network/randcast-controller/state/controller"
	"github.com/arpa-network/randcast-controller/state/controller/events"
	"github.com/arpa-network/randcast-controller/storage"
	"github.com/arpa-network/randcast-controller/storage/store"
)

func init() {
	rootCmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "run the controller with its block clock, REST API, metrics server and task notifier",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := run(ctx); err != nil {
			log.Fatal().Err(err).Msg("controller failed")
		}
	},
}

func run(ctx context.Context) error {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	stores, err := initStores(conf.Storage, metrics.NewCacheCollector(registry))
	if err != nil {
		return err
	}
	defer func() {
		if err := stores.DB.Close(); err != nil {
			log.Error().Err(err).Msg("could not close database")
		}
	}()

	clock, err := resumeClock(stores)
	if err != nil {
		return err
	}

	distributor := events.NewDistributor()
	tasks, err := rest.NewTaskCache(conf.API.TaskCacheSize)
	if err != nil {
		return fmt.Errorf("could not create task cache: %w", err)
	}
	distributor.AddConsumer(tasks)

	var taskNotifier *notifier.Notifier
	if len(conf.Notifier.Endpoints) > 0 {
		taskNotifier, err = notifier.New(log.Logger, conf.Notifier.Endpoints, conf.Notifier.Workers, conf.Notifier.Retry,
			notifier.WithMetrics(metrics.NewNotifierCollector(registry)),
			notifier.WithCircuitBreaker(conf.Notifier.CircuitBreaker))
		if err != nil {
			return fmt.Errorf("could not create task notifier: %w", err)
		}
		distributor.AddConsumer(taskNotifier)
	}

	var broker *websockets.Broker
	if conf.API.Enabled && conf.API.Subscriptions.Enabled {
		broker = websockets.NewBroker(log.Logger, conf.API.Subscriptions.Config, metrics.NewSubscriptionCollector(registry))
		distributor.AddConsumer(broker)
	}

	engine, err := controller.Load(log.Logger, conf.Controller, clock, coordinator.NewFactory(log.Logger, clock), controllerStores(stores),
		controller.WithConsumer(distributor),
		controller.WithMetrics(metrics.NewControllerCollector(registry)),
	)
	if err != nil {
		return fmt.Errorf("could not load controller: %w", err)
	}
	log.Info().
		Int("nodes", len(engine.Nodes())).
		Int("groups", len(engine.Groups())).
		Uint64("global_epoch", engine.GlobalEpoch()).
		Uint64("height", clock.Height()).
		Msg("controller loaded")

	var metricsServer *metrics.Server
	if conf.Metrics.Enabled {
		metricsServer = metrics.NewServer(log.Logger, conf.Metrics.Port, registry)
		metricsServer.Start()
	}

	var apiServer *http.Server
	if conf.API.Enabled {
		// a nil broker must not become a non-nil handler
		var subscribe http.Handler
		if broker != nil {
			subscribe = broker
		}
		apiServer = rest.NewServer(engine, tasks, conf.API.Listen, metrics.NewRestCollector(registry), subscribe, log.Logger)
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		chain.NewTicker(log.Logger, clock, conf.Chain.BlockInterval, checkpointHeight(engine)).Run(gCtx)
		return nil
	})
	if apiServer != nil {
		g.Go(func() error {
			log.Info().Str("address", conf.API.Listen).Msg("rest api started")
			if err := apiServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("rest api failed: %w", err)
			}
			return nil
		})
	}
	g.Go(func() error {
		<-gCtx.Done()
		log.Info().Msg("shutting down")
		return shutdown(apiServer, broker, metricsServer, taskNotifier)
	})
	return g.Wait()
}

// shutdown stops the servers and background workers. Any of them may be nil.
func shutdown(apiServer *http.Server, broker *websockets.Broker, metricsServer *metrics.Server, taskNotifier *notifier.Notifier) error {
	var errs *multierror.Error
	if apiServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := apiServer.Shutdown(shutdownCtx); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("could not stop rest api: %w", err))
		}
	}
	// hijacked subscription connections are not tracked by the http server
	if broker != nil {
		broker.Stop()
	}
	if metricsServer != nil {
		if err := metricsServer.Shutdown(); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("could not stop metrics server: %w", err))
		}
	}
	if taskNotifier != nil {
		taskNotifier.Stop()
	}
	return errs.ErrorOrNil()
}

// resumeClock creates the block clock. After a restart the clock starts at
// the highest of the configured start height, the persisted height and the
// start of any persisted round, so ended rounds stay ended.
func resumeClock(stores *store.All) (*chain.Clock, error) {
	clock := chain.NewClock(conf.Chain.StartHeight)
	meta, err := stores.Meta.Retrieve()
	switch {
	case err == nil:
		clock.Set(meta.Height)
	case !errors.Is(err, storage.ErrNotFound):
		return nil, fmt.Errorf("could not read controller meta: %w", err)
	}

	rounds, err := stores.DKGRounds.All()
	if err != nil {
		return nil, fmt.Errorf("could not read dkg rounds: %w", err)
	}
	for _, round := range rounds {
		clock.Set(round.StartBlock)
	}
	return clock, nil
}

// checkpointHeight persists every new block height.
func checkpointHeight(engine *controller.Engine) func(uint64) {
	return func(height uint64) {
		if err := engine.CheckpointHeight(); err != nil {
			log.Error().Err(err).Uint64("height", height).Msg("could not persist block height")
		}
	}
}
