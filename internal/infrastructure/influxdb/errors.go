package influxdb

import "errors"

// Analytics errors. None of them affect stored study data; callers log
// them and carry on without quiz analytics.
var (
	// ErrDisabled indicates analytics are switched off in config.yaml.
	ErrDisabled = errors.New("influxdb: analytics disabled in configuration")

	// ErrAnalyticsUnavailable indicates the server did not answer a ping.
	ErrAnalyticsUnavailable = errors.New("influxdb: analytics server unavailable")

	// ErrClosed is returned by HealthCheck after Close.
	ErrClosed = errors.New("influxdb: analytics writer closed")
)
