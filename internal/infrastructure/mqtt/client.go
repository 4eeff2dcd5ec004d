package mqtt

import (
	"context"
	"fmt"
	"strings"
	"sync"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/nerrad567/studyaid-core/internal/infrastructure/config"
)

// Client publishes change events and runs the commands the core listens
// for. paho reconnects with backoff; every connect re-registers the
// command subscriptions and republishes the online status.
type Client struct {
	conn   pahomqtt.Client
	cfg    config.MQTTConfig
	logger Logger

	mu       sync.RWMutex
	online   bool
	commands map[string]CommandHandler
}

// Logger is the subset of logging.Logger the client reports through.
type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// CommandHandler runs a command received on studyaid/command/{name}.
// Handlers run on paho's goroutines. A returned error or a panic is
// logged and never reaches the broker.
type CommandHandler func(payload []byte) error

func newClient(cfg config.MQTTConfig, logger Logger) *Client {
	if logger == nil {
		logger = noopLogger{}
	}
	return &Client{
		cfg:      cfg,
		logger:   logger,
		commands: make(map[string]CommandHandler),
	}
}

// Connect dials the broker and waits for the first connection. It fails
// with ErrBrokerUnreachable rather than retrying forever, so the caller
// can run without change events.
func Connect(cfg config.MQTTConfig, logger Logger) (*Client, error) {
	c := newClient(cfg, logger)

	opts := buildClientOptions(cfg)
	configureLWT(opts, cfg.Broker.ClientID)
	opts.SetOnConnectHandler(func(_ pahomqtt.Client) {
		c.handleConnect()
	})
	opts.SetConnectionLostHandler(func(_ pahomqtt.Client, err error) {
		c.setOnline(false)
		c.logger.Warn("MQTT connection lost", "error", err)
	})
	opts.SetReconnectingHandler(func(_ pahomqtt.Client, _ *pahomqtt.ClientOptions) {
		c.logger.Warn("MQTT reconnecting", "broker", brokerURL(cfg.Broker))
	})

	c.conn = pahomqtt.NewClient(opts)
	token := c.conn.Connect()
	if !token.WaitTimeout(defaultConnectTimeout) {
		c.conn.Disconnect(0)
		return nil, fmt.Errorf("%w: %s: timeout after %v", ErrBrokerUnreachable, brokerURL(cfg.Broker), defaultConnectTimeout)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrBrokerUnreachable, brokerURL(cfg.Broker), err)
	}

	// The connect handler runs asynchronously; mark online now so callers
	// can register commands straight away.
	c.setOnline(true)
	return c, nil
}

func (c *Client) handleConnect() {
	c.setOnline(true)

	c.mu.RLock()
	for name, h := range c.commands {
		c.conn.Subscribe(Topics{}.Command(name), c.qos(), c.commandHandler(name, h))
	}
	c.mu.RUnlock()

	c.conn.Publish(Topics{}.SystemStatus(), c.qos(), true, buildStatusPayload("online", c.cfg.Broker.ClientID, ""))
	c.logger.Info("MQTT connected", "broker", brokerURL(c.cfg.Broker), "client_id", c.cfg.Broker.ClientID)
}

// OnCommand runs h for every message on studyaid/command/{name}. The
// subscription survives reconnects.
func (c *Client) OnCommand(name string, h CommandHandler) error {
	if name == "" || strings.ContainsAny(name, "/+#") || h == nil {
		return fmt.Errorf("%w: %q", ErrInvalidCommand, name)
	}
	if !c.Online() {
		return ErrNotConnected
	}

	c.mu.Lock()
	c.commands[name] = h
	c.mu.Unlock()

	token := c.conn.Subscribe(Topics{}.Command(name), c.qos(), c.commandHandler(name, h))
	var err error
	if token.WaitTimeout(defaultOperationTimeout) {
		err = token.Error()
	} else {
		err = fmt.Errorf("timeout after %v", defaultOperationTimeout)
	}
	if err != nil {
		c.mu.Lock()
		delete(c.commands, name)
		c.mu.Unlock()
		return fmt.Errorf("%w %s: %w", ErrCommandSubscribe, name, err)
	}
	return nil
}

func (c *Client) commandHandler(name string, h CommandHandler) pahomqtt.MessageHandler {
	return func(_ pahomqtt.Client, msg pahomqtt.Message) {
		if err := runCommand(name, h, msg.Payload()); err != nil {
			c.logger.Error("MQTT command failed", "command", name, "error", err)
		}
	}
}

// runCommand calls h, converting a panic into ErrCommandFailed.
func runCommand(name string, h CommandHandler, payload []byte) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w %s: panic: %v", ErrCommandFailed, name, r)
		}
	}()
	if err := h(payload); err != nil {
		return fmt.Errorf("%w %s: %w", ErrCommandFailed, name, err)
	}
	return nil
}

// Close publishes a graceful offline status and disconnects.
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	if c.Online() {
		payload := buildStatusPayload("offline", c.cfg.Broker.ClientID, "graceful_shutdown")
		c.conn.Publish(Topics{}.SystemStatus(), c.qos(), true, payload).WaitTimeout(defaultOperationTimeout)
	}
	c.conn.Disconnect(defaultDisconnectQuiesce)
	c.setOnline(false)
	return nil
}

// HealthCheck reports ErrNotConnected while the broker link is down.
func (c *Client) HealthCheck(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("mqtt health check: %w", err)
	}
	if !c.Online() {
		return ErrNotConnected
	}
	return nil
}

// Online reports whether change events can currently be delivered.
func (c *Client) Online() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.online && c.conn != nil && c.conn.IsConnected()
}

func (c *Client) setOnline(online bool) {
	c.mu.Lock()
	c.online = online
	c.mu.Unlock()
}

func (c *Client) qos() byte {
	return byte(c.cfg.QoS) //nolint:gosec // validated to 0..2 by config
}
