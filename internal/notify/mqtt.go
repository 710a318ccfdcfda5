package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog"
)

// ErrNotConnected is returned by Publish before Connect succeeds or after Disconnect.
var ErrNotConnected = errors.New("mqtt client not connected")

const publishTimeout = 5 * time.Second

// MQTTClient publishes retained QoS 1 messages to a single broker.
type MQTTClient struct {
	client    mqtt.Client
	logger    zerolog.Logger
	mu        sync.RWMutex
	connected bool

	stopCh   chan struct{}
	stopOnce sync.Once
}

// BrokerURL adds the tcp scheme and default port to a bare host.
func BrokerURL(broker string) string {
	if !strings.Contains(broker, "://") {
		broker = "tcp://" + broker
	}
	rest := broker[strings.Index(broker, "://")+3:]
	if !strings.Contains(rest, ":") {
		broker += ":1883"
	}
	return broker
}

// NewMQTTClient configures a client; call Connect before publishing.
func NewMQTTClient(broker, clientID string, logger zerolog.Logger) *MQTTClient {
	c := &MQTTClient{
		logger: logger,
		stopCh: make(chan struct{}),
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(BrokerURL(broker))
	opts.SetClientID(clientID)
	opts.SetCleanSession(true)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(5 * time.Second)
	opts.SetMaxReconnectInterval(60 * time.Second)
	opts.SetKeepAlive(30 * time.Second)
	opts.SetPingTimeout(10 * time.Second)

	opts.SetOnConnectHandler(func(_ mqtt.Client) {
		c.setConnected(true)
		logger.Info().Str("broker", broker).Msg("mqtt connected")
	})
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		c.setConnected(false)
		logger.Warn().Err(err).Msg("mqtt connection lost")
	})

	c.client = mqtt.NewClient(opts)
	return c
}

// Connect waits for the first connection, honouring ctx and Disconnect.
func (c *MQTTClient) Connect(ctx context.Context) error {
	select {
	case <-c.stopCh:
		return fmt.Errorf("client stopped")
	default:
	}
	if c.IsConnected() {
		return nil
	}

	token := c.client.Connect()
	const poll = 200 * time.Millisecond
	for {
		if token.WaitTimeout(poll) {
			if err := token.Error(); err != nil {
				return fmt.Errorf("mqtt connect: %w", err)
			}
			return nil
		}
		select {
		case <-ctx.Done():
			c.client.Disconnect(0)
			return ctx.Err()
		case <-c.stopCh:
			return fmt.Errorf("client stopped")
		default:
		}
	}
}

// Publish sends payload to topic with QoS 1, retained.
func (c *MQTTClient) Publish(topic string, payload []byte) error {
	if !c.IsConnected() {
		return ErrNotConnected
	}
	token := c.client.Publish(topic, 1, true, payload)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("publish timeout for topic %s", topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish to %s: %w", topic, err)
	}
	c.logger.Debug().Str("topic", topic).Int("size", len(payload)).Msg("published")
	return nil
}

// IsConnected reports whether the client currently holds a connection.
func (c *MQTTClient) IsConnected() bool {
	c.mu.RLock()
	connected := c.connected
	c.mu.RUnlock()
	return connected && c.client.IsConnected()
}

// Disconnect is idempotent. Connect fails after it.
func (c *MQTTClient) Disconnect() {
	c.stopOnce.Do(func() { close(c.stopCh) })
	c.client.Disconnect(250)
	c.setConnected(false)
	c.logger.Info().Msg("mqtt disconnected")
}

func (c *MQTTClient) setConnected(v bool) {
	c.mu.Lock()
	c.connected = v
	c.mu.Unlock()
}
