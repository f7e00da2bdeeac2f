package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/arpa-network/randcast-controller/module"
)

// ControllerCollector collects the metrics of the controller engine.
type ControllerCollector struct {
	registrations     prometheus.Counter
	activations       prometheus.Counter
	quits             prometheus.Counter
	groups            prometheus.Gauge
	globalEpoch       prometheus.Gauge
	tasksPublished    prometheus.Counter
	taskGroupSize     prometheus.Histogram
	commits           prometheus.Counter
	consensusReached  prometheus.Counter
	groupsVoided      prometheus.Counter
	slashes           prometheus.Counter
	slashedStake      prometheus.Counter
	freezes           prometheus.Counter
	rebalances        prometheus.Counter
	rebalancedMembers prometheus.Counter
	operationDuration *prometheus.HistogramVec
}

var _ module.ControllerMetrics = (*ControllerCollector)(nil)

func NewControllerCollector(registerer prometheus.Registerer) *ControllerCollector {
	cc := &ControllerCollector{
		registrations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespaceRandcast,
			Subsystem: subsystemController,
			Name:      "nodes_registered_total",
			Help:      "the number of registered nodes",
		}),
		activations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespaceRandcast,
			Subsystem: subsystemController,
			Name:      "nodes_activated_total",
			Help:      "the number of frozen nodes which joined a group again",
		}),
		quits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespaceRandcast,
			Subsystem: subsystemController,
			Name:      "nodes_quit_total",
			Help:      "the number of nodes which quit",
		}),
		groups: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespaceRandcast,
			Subsystem: subsystemController,
			Name:      "groups",
			Help:      "the number of groups ever created",
		}),
		globalEpoch: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespaceRandcast,
			Subsystem: subsystemController,
			Name:      "global_epoch",
			Help:      "the current global epoch",
		}),
		tasksPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespaceRandcast,
			Subsystem: subsystemController,
			Name:      "dkg_tasks_published_total",
			Help:      "the number of published dkg tasks",
		}),
		taskGroupSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespaceRandcast,
			Subsystem: subsystemController,
			Name:      "dkg_task_group_size",
			Help:      "the size of the groups dkg tasks are published for",
			Buckets:   prometheus.LinearBuckets(1, 1, 12),
		}),
		commits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespaceRandcast,
			Subsystem: subsystemController,
			Name:      "dkg_commits_total",
			Help:      "the number of accepted dkg commitments",
		}),
		consensusReached: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespaceRandcast,
			Subsystem: subsystemController,
			Name:      "dkg_consensus_reached_total",
			Help:      "the number of dkg rounds which reached consensus",
		}),
		groupsVoided: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespaceRandcast,
			Subsystem: subsystemController,
			Name:      "groups_voided_total",
			Help:      "the number of groups voided after a dkg round without majority",
		}),
		slashes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespaceRandcast,
			Subsystem: subsystemController,
			Name:      "nodes_slashed_total",
			Help:      "the number of slashings",
		}),
		slashedStake: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespaceRandcast,
			Subsystem: subsystemController,
			Name:      "slashed_stake_total",
			Help:      "the total stake penalty applied by slashing",
		}),
		freezes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespaceRandcast,
			Subsystem: subsystemController,
			Name:      "nodes_frozen_total",
			Help:      "the number of node freezes",
		}),
		rebalances: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespaceRandcast,
			Subsystem: subsystemController,
			Name:      "rebalances_total",
			Help:      "the number of successful pairwise group rebalances",
		}),
		rebalancedMembers: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespaceRandcast,
			Subsystem: subsystemController,
			Name:      "rebalanced_members_total",
			Help:      "the number of members moved by rebalances",
		}),
		operationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespaceRandcast,
			Subsystem: subsystemController,
			Name:      "operation_duration_seconds",
			Help:      "the time state changing operations hold the controller",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5},
		}, []string{LabelOperation}),
	}

	registerer.MustRegister(
		cc.registrations,
		cc.activations,
		cc.quits,
		cc.groups,
		cc.globalEpoch,
		cc.tasksPublished,
		cc.taskGroupSize,
		cc.commits,
		cc.consensusReached,
		cc.groupsVoided,
		cc.slashes,
		cc.slashedStake,
		cc.freezes,
		cc.rebalances,
		cc.rebalancedMembers,
		cc.operationDuration,
	)

	return cc
}

func (cc *ControllerCollector) NodeRegistered() {
	cc.registrations.Inc()
}

func (cc *ControllerCollector) NodeActivated() {
	cc.activations.Inc()
}

func (cc *ControllerCollector) NodeQuit() {
	cc.quits.Inc()
}

func (cc *ControllerCollector) GroupCreated(total int) {
	cc.groups.Set(float64(total))
}

func (cc *ControllerCollector) GlobalEpoch(epoch uint64) {
	cc.globalEpoch.Set(float64(epoch))
}

func (cc *ControllerCollector) TaskPublished(groupSize int) {
	cc.tasksPublished.Inc()
	cc.taskGroupSize.Observe(float64(groupSize))
}

func (cc *ControllerCollector) CommitAccepted() {
	cc.commits.Inc()
}

func (cc *ControllerCollector) ConsensusReached() {
	cc.consensusReached.Inc()
}

func (cc *ControllerCollector) GroupVoided() {
	cc.groupsVoided.Inc()
}

func (cc *ControllerCollector) NodeSlashed(penalty uint64) {
	cc.slashes.Inc()
	cc.slashedStake.Add(float64(penalty))
}

func (cc *ControllerCollector) NodeFrozen() {
	cc.freezes.Inc()
}

func (cc *ControllerCollector) Rebalanced(moved int) {
	cc.rebalances.Inc()
	cc.rebalancedMembers.Add(float64(moved))
}

func (cc *ControllerCollector) OperationDuration(operation string, duration time.Duration) {
	cc.operationDuration.With(prometheus.Labels{LabelOperation: operation}).Observe(duration.Seconds())
}
