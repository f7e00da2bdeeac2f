package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arpa-network/randcast-controller/config"
	"github.com/arpa-network/randcast-controller/model/randcast"
)

func TestSimulate(t *testing.T) {
	var err error
	conf, err = config.DefaultConfig()
	require.NoError(t, err)

	groups, err := simulate(12, 7)
	require.NoError(t, err)
	require.NotEmpty(t, groups)

	members := 0
	consensus := 0
	for _, group := range groups {
		members += group.Size
		if group.ConsensusReached {
			consensus++
			assert.NotEmpty(t, group.PublicKey)
			assert.NotEmpty(t, group.Committers)
		}
	}
	assert.Equal(t, 12, members)
	assert.Positive(t, consensus)
}

func TestSummarizeGroupSizes(t *testing.T) {
	summary, err := summarizeGroupSizes(nil)
	require.NoError(t, err)
	assert.Zero(t, summary)

	groups := []*randcast.Group{{Size: 3}, {Size: 5}, {Size: 4}, {Size: 4}}
	summary, err = summarizeGroupSizes(groups)
	require.NoError(t, err)
	assert.Equal(t, 4.0, summary.Mean)
	assert.Equal(t, 4.0, summary.Median)
	assert.Equal(t, 3.0, summary.Min)
	assert.Equal(t, 5.0, summary.Max)
	assert.InDelta(t, 0.7071, summary.StdDev, 0.0001)
}
