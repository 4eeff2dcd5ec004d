package influxdb

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/nerrad567/studyaid-core/internal/infrastructure/config"
)

const (
	defaultConnectTimeout = 10 * time.Second
	defaultPingTimeout    = 5 * time.Second

	defaultBatchSize     = 100
	defaultFlushInterval = 10 // seconds

	// millisecondsPerSecond converts seconds to milliseconds for the InfluxDB API.
	millisecondsPerSecond = 1000
)

// Logger is the subset of logging.Logger used to report write failures.
type Logger interface {
	Error(msg string, args ...any)
}

// pointWriter is the batching half of the InfluxDB write API.
type pointWriter interface {
	WritePoint(point *write.Point)
	Flush()
}

// pinger is the part of the InfluxDB client used for liveness.
type pinger interface {
	Ping(ctx context.Context) (bool, error)
	Close()
}

// Client records quiz scores and reviewer activity for the analytics
// dashboards. Writes are batched and never block a request; after Close
// they are dropped.
type Client struct {
	server pinger
	points pointWriter
	closed atomic.Bool
}

func newClient(server pinger, points pointWriter) *Client {
	return &Client{server: server, points: points}
}

// Connect pings the server and starts the batching writer. Asynchronous
// write failures are reported through logger.
func Connect(ctx context.Context, cfg config.InfluxDBConfig, logger Logger) (*Client, error) {
	if !cfg.Enabled {
		return nil, ErrDisabled
	}

	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	flushInterval := cfg.FlushInterval
	if flushInterval <= 0 {
		flushInterval = defaultFlushInterval
	}

	// #nosec G115 -- values validated above to be positive
	server := influxdb2.NewClientWithOptions(
		cfg.URL,
		cfg.Token,
		influxdb2.DefaultOptions().
			SetBatchSize(uint(batchSize)).
			SetFlushInterval(uint(flushInterval)*millisecondsPerSecond),
	)

	pingCtx, cancel := context.WithTimeout(ctx, defaultConnectTimeout)
	defer cancel()
	if err := ping(pingCtx, server); err != nil {
		server.Close()
		return nil, fmt.Errorf("%w: %s: %w", ErrAnalyticsUnavailable, cfg.URL, err)
	}

	writeAPI := server.WriteAPI(cfg.Org, cfg.Bucket)
	go logWriteErrors(writeAPI.Errors(), cfg.Bucket, logger)

	return newClient(server, writeAPI), nil
}

func ping(ctx context.Context, server pinger) error {
	healthy, err := server.Ping(ctx)
	if err != nil {
		return err
	}
	if !healthy {
		return errors.New("server reports unhealthy")
	}
	return nil
}

// logWriteErrors drains the write API's error channel until it closes.
func logWriteErrors(errs <-chan error, bucket string, logger Logger) {
	for err := range errs {
		if logger != nil {
			logger.Error("analytics write failed", "bucket", bucket, "error", err)
		}
	}
}

// Close flushes buffered points and releases the connection. It is safe
// to call more than once.
func (c *Client) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	c.points.Flush()
	c.server.Close()
	return nil
}

// HealthCheck pings the analytics server.
func (c *Client) HealthCheck(ctx context.Context) error {
	if c.closed.Load() {
		return ErrClosed
	}

	checkCtx, cancel := context.WithTimeout(ctx, defaultPingTimeout)
	defer cancel()
	if err := ping(checkCtx, c.server); err != nil {
		return fmt.Errorf("%w: %w", ErrAnalyticsUnavailable, err)
	}
	return nil
}
