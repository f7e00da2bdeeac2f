package metrics_test

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arpa-network/randcast-controller/module/metrics"
)

func TestControllerCollector(t *testing.T) {
	registry := prometheus.NewRegistry()
	cc := metrics.NewControllerCollector(registry)

	cc.NodeRegistered()
	cc.NodeRegistered()
	cc.GroupCreated(3)
	cc.NodeSlashed(1000)
	cc.NodeSlashed(500)
	cc.Rebalanced(2)
	cc.OperationDuration("commit_dkg", time.Millisecond)

	count, err := testutil.GatherAndCount(registry,
		"randcast_controller_nodes_registered_total",
		"randcast_controller_groups",
		"randcast_controller_slashed_stake_total",
		"randcast_controller_operation_duration_seconds",
	)
	require.NoError(t, err)
	assert.Equal(t, 4, count)

	families, err := registry.Gather()
	require.NoError(t, err)
	values := make(map[string]float64)
	for _, f := range families {
		m := f.GetMetric()[0]
		switch {
		case m.GetCounter() != nil:
			values[f.GetName()] = m.GetCounter().GetValue()
		case m.GetGauge() != nil:
			values[f.GetName()] = m.GetGauge().GetValue()
		}
	}
	assert.Equal(t, float64(2), values["randcast_controller_nodes_registered_total"])
	assert.Equal(t, float64(3), values["randcast_controller_groups"])
	assert.Equal(t, float64(1500), values["randcast_controller_slashed_stake_total"])
	assert.Equal(t, float64(2), values["randcast_controller_rebalanced_members_total"])
}
