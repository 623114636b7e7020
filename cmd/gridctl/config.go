package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gridtree/gridtree-go/pkg/service"
)

// LogConfig selects operational log output.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Config holds the gridctl configuration. Values come from defaults, then
// the optional config file, then explicitly set flags.
type Config struct {
	Log          LogConfig `yaml:"log"`
	EventLog     string    `yaml:"event_log"`
	Topology     string    `yaml:"topology"`
	Label        string    `yaml:"label"`
	WallOutlets  int       `yaml:"wall_outlets"`
	ReinitPolicy string    `yaml:"reinit_policy"`
}

func defaultConfig() Config {
	def := service.DefaultConfig()
	return Config{
		Log:          LogConfig{Level: "info", Format: "text"},
		Label:        def.Label,
		WallOutlets:  def.WallOutlets,
		ReinitPolicy: def.ReinitPolicy.String(),
	}
}

// parseArgs parses command-line flags and returns the merged configuration
// and any remaining arguments.
func parseArgs(args []string, stderr io.Writer) (Config, []string, error) {
	fs := flag.NewFlagSet("gridctl", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		configFile string
		f          Config
	)
	d := defaultConfig()
	fs.StringVar(&configFile, "config", "", "Configuration file path (YAML)")
	fs.StringVar(&f.Log.Level, "log-level", d.Log.Level, "Log level: debug, info, warn, error")
	fs.StringVar(&f.Log.Format, "log-format", d.Log.Format, "Log format: text, json")
	fs.StringVar(&f.EventLog, "event-log", "", "Append grid events to this file (CBOR)")
	fs.StringVar(&f.Topology, "topology", "", "Build the initial tree from this YAML file")
	fs.StringVar(&f.Label, "label", d.Label, "Root strip label")
	fs.IntVar(&f.WallOutlets, "outlets", d.WallOutlets, "Number of wall outlets")
	fs.StringVar(&f.ReinitPolicy, "reinit", d.ReinitPolicy, "Re-initialisation policy: reject, replace")

	if err := fs.Parse(args); err != nil {
		return Config{}, nil, err
	}

	cfg := d
	if configFile != "" {
		if err := loadConfigFile(configFile, &cfg); err != nil {
			return Config{}, nil, err
		}
	}

	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "log-level":
			cfg.Log.Level = f.Log.Level
		case "log-format":
			cfg.Log.Format = f.Log.Format
		case "event-log":
			cfg.EventLog = f.EventLog
		case "topology":
			cfg.Topology = f.Topology
		case "label":
			cfg.Label = f.Label
		case "outlets":
			cfg.WallOutlets = f.WallOutlets
		case "reinit":
			cfg.ReinitPolicy = f.ReinitPolicy
		}
	})

	if err := cfg.validate(); err != nil {
		return Config{}, nil, err
	}
	return cfg, fs.Args(), nil
}

// loadConfigFile overlays the YAML file at path onto cfg.
func loadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}

func (c Config) validate() error {
	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format: %s", c.Log.Format)
	}
	if c.Topology == "" && c.WallOutlets <= 0 {
		return fmt.Errorf("wall outlets must be positive, got %d", c.WallOutlets)
	}
	if _, ok := service.ParseReinitPolicy(c.ReinitPolicy); !ok {
		return fmt.Errorf("unknown reinit policy: %s", c.ReinitPolicy)
	}
	return nil
}

// serviceConfig converts c to a service configuration without loggers.
func (c Config) serviceConfig() service.Config {
	policy, _ := service.ParseReinitPolicy(c.ReinitPolicy)
	sc := service.DefaultConfig()
	sc.Label = c.Label
	sc.WallOutlets = c.WallOutlets
	sc.ReinitPolicy = policy
	return sc
}

func parseLevel(level string) (slog.Level, error) {
	switch level {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level: %s", level)
	}
}

// newLogger builds the operational logger described by cfg.
func newLogger(cfg LogConfig, w io.Writer) (*slog.Logger, error) {
	level, err := parseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}
