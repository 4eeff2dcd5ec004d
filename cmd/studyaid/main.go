// Study-aid core: local persistence and HTTP API for the study-aid app.
//
// Usage:
//
//	studyaid [-config path] [serve|export]
//
// serve (the default) runs the API until SIGINT or SIGTERM. export writes
// the user export file, mirrors it when S3 is enabled, and prints its path.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/nerrad567/studyaid-core/internal/api"
	"github.com/nerrad567/studyaid-core/internal/infrastructure/config"
	"github.com/nerrad567/studyaid-core/internal/infrastructure/database"
	"github.com/nerrad567/studyaid-core/internal/infrastructure/influxdb"
	"github.com/nerrad567/studyaid-core/internal/infrastructure/logging"
	"github.com/nerrad567/studyaid-core/internal/infrastructure/mqtt"
	"github.com/nerrad567/studyaid-core/internal/infrastructure/objectstore"
	"github.com/nerrad567/studyaid-core/internal/store"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

const (
	cmdServe  = "serve"
	cmdExport = "export"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the application logic, separated from main for testability.
func run(ctx context.Context, args []string, stdout io.Writer) error {
	flags := flag.NewFlagSet("studyaid", flag.ContinueOnError)
	configPath := flags.String("config", getConfigPath(), "path to config.yaml")
	if err := flags.Parse(args); err != nil {
		return err
	}

	command := cmdServe
	if flags.NArg() > 0 {
		command = flags.Arg(0)
	}
	if command != cmdServe && command != cmdExport {
		return fmt.Errorf("unknown command %q (want %s or %s)", command, cmdServe, cmdExport)
	}

	log := logging.Default()
	log.Info("starting study-aid core",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	st := store.New(store.Config{
		Database: database.Config{
			Path:        cfg.Database.Path,
			WALMode:     cfg.Database.WALMode,
			BusyTimeout: cfg.Database.BusyTimeout,
		},
		ExportPath: cfg.Export.Path,
	})
	st.SetLogger(log.With("component", "store"))

	if err := st.Initialize(ctx); err != nil {
		return fmt.Errorf("initialising store: %w", err)
	}
	defer func() {
		log.Info("closing store")
		if closeErr := st.Close(); closeErr != nil {
			log.Error("error closing store", "error", closeErr)
		}
	}()

	if command == cmdExport {
		return runExport(ctx, cfg, st, log, stdout)
	}
	return serve(ctx, cfg, st, log)
}

// loadConfig reads the config file. A missing file at the default location
// falls back to built-in defaults; an explicit path must exist.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err == nil {
		return cfg, nil
	}
	if path == defaultConfigPath && errors.Is(err, fs.ErrNotExist) {
		return config.Default()
	}
	return nil, err
}

// runExport writes the export, mirrors it when configured and prints the path.
func runExport(ctx context.Context, cfg *config.Config, st *store.Store, log *logging.Logger, stdout io.Writer) error {
	path, err := st.ExportUsers(ctx)
	if err != nil {
		return fmt.Errorf("exporting users: %w", err)
	}
	log.Info("users exported", "path", path)

	if cfg.Export.S3.Enabled {
		mirror, err := objectstore.New(ctx, cfg.Export.S3)
		if err != nil {
			return fmt.Errorf("configuring export mirror: %w", err)
		}
		key, err := mirror.UploadFile(ctx, path)
		if err != nil {
			return fmt.Errorf("mirroring export: %w", err)
		}
		log.Info("export mirrored", "bucket", mirror.Bucket(), "key", key)
	}

	fmt.Fprintln(stdout, path)
	return nil
}

// serve connects the optional collaborators, starts the API and blocks
// until ctx is cancelled.
func serve(ctx context.Context, cfg *config.Config, st *store.Store, log *logging.Logger) error {
	deps := api.Deps{
		Config:   cfg.API,
		Logger:   log,
		Store:    st,
		Services: make(map[string]api.HealthChecker),
		Version:  version,
	}

	if cfg.MQTT.Enabled {
		mqttClient, err := connectMQTT(ctx, cfg, st, log.With("component", "mqtt"))
		if err != nil {
			log.Warn("MQTT unavailable, change events disabled", "error", err)
		} else {
			defer func() {
				log.Info("disconnecting from MQTT")
				if closeErr := mqttClient.Close(); closeErr != nil {
					log.Error("error closing MQTT", "error", closeErr)
				}
			}()
			deps.Events = mqttClient
			deps.Services["mqtt"] = mqttClient
		}
	} else {
		log.Info("MQTT disabled")
	}

	if cfg.InfluxDB.Enabled {
		influxClient, err := influxdb.Connect(ctx, cfg.InfluxDB, log.With("component", "influxdb"))
		if err != nil {
			log.Warn("InfluxDB unavailable, quiz analytics disabled", "error", err)
		} else {
			defer func() {
				log.Info("closing InfluxDB connection")
				if closeErr := influxClient.Close(); closeErr != nil {
					log.Error("error closing InfluxDB", "error", closeErr)
				}
			}()
			log.Info("InfluxDB connected", "url", cfg.InfluxDB.URL, "bucket", cfg.InfluxDB.Bucket)
			deps.Scores = influxClient
			deps.Services["influxdb"] = influxClient
		}
	} else {
		log.Info("InfluxDB disabled")
	}

	if cfg.Export.S3.Enabled {
		mirror, err := objectstore.New(ctx, cfg.Export.S3)
		if err != nil {
			log.Warn("export mirror unavailable", "error", err)
		} else {
			log.Info("export mirror configured", "bucket", mirror.Bucket())
			deps.Mirror = mirror
		}
	}

	server, err := api.New(deps)
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if err := server.Start(ctx); err != nil {
		return fmt.Errorf("starting API server: %w", err)
	}
	defer func() {
		if closeErr := server.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()

	log.Info("study-aid core started",
		"address", fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port),
	)

	<-ctx.Done()
	log.Info("shutdown signal received")
	return nil
}

// connectMQTT connects to the broker and listens for remote export commands.
func connectMQTT(ctx context.Context, cfg *config.Config, st *store.Store, log *logging.Logger) (*mqtt.Client, error) {
	client, err := mqtt.Connect(cfg.MQTT, log)
	if err != nil {
		return nil, err
	}

	err = client.OnCommand(mqtt.CommandExport, func(_ []byte) error {
		path, exportErr := st.ExportUsers(ctx)
		if exportErr != nil {
			return exportErr
		}
		log.Info("users exported on command", "path", path)
		return client.PublishEvent(mqtt.EventUsersExported, mqtt.Event{Path: path})
	})
	if err != nil {
		client.Close() //nolint:errcheck // Best effort cleanup on error path
		return nil, err
	}
	return client, nil
}

// getConfigPath returns the configuration file path.
// Uses STUDYAID_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("STUDYAID_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}
