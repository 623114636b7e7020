// Command gridctl builds a power tree and manipulates it interactively.
//
// Usage:
//
//	gridctl [flags] [command [args...]]
//
// Without a command, gridctl starts an interactive shell. With a command, it
// runs that single command against the initial tree and exits.
//
// Flags:
//
//	-config string      Configuration file path (YAML)
//	-topology string    Build the initial tree from this YAML file
//	-outlets int        Number of wall outlets (default 1)
//	-label string       Root strip label (default "wall")
//	-event-log string   Append grid events to this file (CBOR)
//	-reinit string      Re-initialisation policy: reject, replace (default "reject")
//	-log-level string   Log level: debug, info, warn, error (default "info")
//	-log-format string  Log format: text, json (default "text")
//
// Examples:
//
//	# Interactive shell with three wall outlets
//	gridctl -outlets 3
//
//	# Print the status of a saved topology
//	gridctl -topology kitchen.yaml status
//
//	# Record every change for later analysis with grid-log
//	gridctl -topology kitchen.yaml -event-log kitchen.glog
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gridtree/gridtree-go/cmd/gridctl/interactive"
	gridlog "github.com/gridtree/gridtree-go/pkg/log"
	"github.com/gridtree/gridtree-go/pkg/service"
	"github.com/gridtree/gridtree-go/pkg/topology"
)

func main() {
	cfg, args, err := parseArgs(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "gridctl: %v\n", err)
		os.Exit(2)
	}

	if err := run(cfg, args, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "gridctl: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg Config, args []string, stdout, stderr io.Writer) error {
	logger, err := newLogger(cfg.Log, stderr)
	if err != nil {
		return err
	}

	svcCfg := cfg.serviceConfig()
	svcCfg.Logger = logger

	events := []gridlog.Logger{gridlog.NewSlogAdapter(logger)}
	if cfg.EventLog != "" {
		fl, err := gridlog.NewFileLogger(cfg.EventLog)
		if err != nil {
			return fmt.Errorf("opening event log: %w", err)
		}
		defer fl.Close()
		events = append(events, fl)
		logger.Info("recording events", "file", cfg.EventLog)
	}
	svcCfg.EventLogger = gridlog.NewMultiLogger(events...)

	svc, err := newService(cfg, svcCfg, logger)
	if err != nil {
		return err
	}

	shell := interactive.NewShell(svc)
	if len(args) > 0 {
		_, err := shell.Exec(strings.Join(args, " "), stdout)
		return err
	}

	console, err := interactive.NewConsole(shell)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	console.Run(ctx, cancel)
	return nil
}

// newService creates the grid service, from the topology file if one is set.
func newService(cfg Config, svcCfg service.Config, logger *slog.Logger) (*service.GridService, error) {
	if cfg.Topology == "" {
		return service.NewGridService(svcCfg)
	}

	doc, err := topology.Load(cfg.Topology)
	if err != nil {
		return nil, err
	}
	root, err := topology.Build(doc)
	if err != nil {
		return nil, err
	}
	logger.Info("topology loaded", "file", cfg.Topology, "outlets", root.Len())
	return service.NewGridServiceFromRoot(root, svcCfg)
}
