package websockets

import (
	"time"
)

const (
	// PingPeriod defines the interval at which ping messages are sent to the client.
	// This value must be less than PongWait, cause it that case the server ensures it sends a ping well before the PongWait
	// timeout elapses.
	PingPeriod = (PongWait * 9) / 10

	// PongWait specifies the maximum time to wait for a pong response message from the peer
	// after sending a ping
	PongWait = 10 * time.Second

	// WriteWait specifies a timeout for the write operation. If the write
	// isn't completed within this duration, it fails with a timeout error.
	WriteWait = 10 * time.Second

	// DefaultMaxSubscriptions is the default number of task subscriptions the
	// broker serves at once.
	DefaultMaxSubscriptions = 1000

	// DefaultMaxResponsesPerSecond is the default number of tasks written per
	// second on a single connection. Zero disables the limit.
	DefaultMaxResponsesPerSecond = 0

	// DefaultSendBufferSize is the default number of tasks queued per
	// subscriber before it is considered too slow and dropped.
	DefaultSendBufferSize = 64
)

type Config struct {
	MaxSubscriptions      int     `mapstructure:"max-subscriptions" validate:"gt=0"`
	MaxResponsesPerSecond float64 `mapstructure:"max-responses-per-second" validate:"gte=0"`
	SendBufferSize        int     `mapstructure:"send-buffer-size" validate:"gt=0"`
}

func NewDefaultWebsocketConfig() Config {
	return Config{
		MaxSubscriptions:      DefaultMaxSubscriptions,
		MaxResponsesPerSecond: DefaultMaxResponsesPerSecond,
		SendBufferSize:        DefaultSendBufferSize,
	}
}
