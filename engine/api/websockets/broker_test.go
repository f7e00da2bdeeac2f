package websockets_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arpa-network/randcast-controller/engine/api/websockets"
	"github.com/arpa-network/randcast-controller/model/randcast"
	"github.com/arpa-network/randcast-controller/module/metrics"
	"github.com/arpa-network/randcast-controller/utils/unittest"
)

func newBroker(t *testing.T, config websockets.Config) (*websockets.Broker, string) {
	broker := websockets.NewBroker(unittest.Logger(), config, metrics.NewNoopCollector())
	srv := httptest.NewServer(broker)
	t.Cleanup(func() {
		broker.Stop()
		srv.Close()
	})
	return broker, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dial(t *testing.T, broker *websockets.Broker, url string) *websocket.Conn {
	before := broker.Subscriptions()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.Eventually(t, func() bool {
		return broker.Subscriptions() == before+1
	}, time.Second, 10*time.Millisecond)
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	return conn
}

func taskFixture(index uint64, members randcast.AddressList) randcast.DKGTask {
	return randcast.DKGTask{
		GroupIndex:            index,
		Epoch:                 1,
		Size:                  len(members),
		Threshold:             randcast.ComputeThreshold(len(members), 3),
		Members:               members,
		AssignmentBlockHeight: 100,
		CoordinatorAddress:    unittest.AddressFixture(),
	}
}

func requireClosedWith(t *testing.T, conn *websocket.Conn, code int) {
	for {
		_, _, err := conn.ReadMessage()
		if err == nil {
			continue
		}
		var closeErr *websocket.CloseError
		require.ErrorAs(t, err, &closeErr)
		assert.Equal(t, code, closeErr.Code)
		return
	}
}

func TestBroker_Streams(t *testing.T) {
	broker, url := newBroker(t, websockets.NewDefaultWebsocketConfig())
	first := dial(t, broker, url)
	second := dial(t, broker, url)

	task := taskFixture(0, unittest.AddressListFixture(3))
	broker.DKGTaskPublished(task)

	ids := make(map[string]struct{})
	for _, conn := range []*websocket.Conn{first, second} {
		var msg websockets.TaskMessage
		require.NoError(t, conn.ReadJSON(&msg))
		assert.Equal(t, task, msg.Task)
		assert.NotEmpty(t, msg.SubscriptionID)
		ids[msg.SubscriptionID] = struct{}{}
	}
	assert.Len(t, ids, 2)
}

func TestBroker_MemberFilter(t *testing.T) {
	broker, url := newBroker(t, websockets.NewDefaultWebsocketConfig())
	members := unittest.AddressListFixture(3)
	conn := dial(t, broker, url+"?member="+members[1].Hex())

	other := taskFixture(0, unittest.AddressListFixture(3))
	mine := taskFixture(1, members)
	broker.DKGTaskPublished(other)
	broker.DKGTaskPublished(mine)

	var msg websockets.TaskMessage
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, mine, msg.Task)
}

func TestBroker_Rejects(t *testing.T) {
	config := websockets.NewDefaultWebsocketConfig()
	config.MaxSubscriptions = 1
	broker, url := newBroker(t, config)

	t.Run("invalid member", func(t *testing.T) {
		_, resp, err := websocket.DefaultDialer.Dial(url+"?member=nope", nil)
		require.ErrorIs(t, err, websocket.ErrBadHandshake)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("subscription limit", func(t *testing.T) {
		dial(t, broker, url)
		_, resp, err := websocket.DefaultDialer.Dial(url, nil)
		require.ErrorIs(t, err, websocket.ErrBadHandshake)
		assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
		assert.Equal(t, 1, broker.Subscriptions())
	})
}

func TestBroker_DropsSlowSubscriber(t *testing.T) {
	config := websockets.NewDefaultWebsocketConfig()
	config.SendBufferSize = 1
	// one task goes out, the next one waits on the limiter
	config.MaxResponsesPerSecond = 0.001
	broker, url := newBroker(t, config)
	conn := dial(t, broker, url)

	members := unittest.AddressListFixture(3)
	for i := uint64(0); i < 4; i++ {
		broker.DKGTaskPublished(taskFixture(i, members))
	}

	requireClosedWith(t, conn, websocket.CloseTryAgainLater)
	require.Eventually(t, func() bool {
		return broker.Subscriptions() == 0
	}, time.Second, 10*time.Millisecond)
}

func TestBroker_Stop(t *testing.T) {
	broker, url := newBroker(t, websockets.NewDefaultWebsocketConfig())
	conn := dial(t, broker, url)

	unittest.RequireReturnsBefore(t, broker.Stop, 5*time.Second)
	requireClosedWith(t, conn, websocket.CloseGoingAway)
	assert.Equal(t, 0, broker.Subscriptions())

	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.ErrorIs(t, err, websocket.ErrBadHandshake)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	// publishing after stop is a no-op
	broker.DKGTaskPublished(taskFixture(0, unittest.AddressListFixture(3)))
}
