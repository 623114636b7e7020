// Package commands implements the grid-log CLI commands.
package commands

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gridtree/gridtree-go/pkg/log"
)

// formatEvent writes a human-readable representation of the event to w.
func formatEvent(w io.Writer, event log.Event) {
	// Header line: timestamp [grid:id] CATEGORY Type path
	ts := event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z")

	var typeLabel string
	switch {
	case event.Topology != nil:
		typeLabel = event.Topology.Action.String()
	case event.Power != nil:
		typeLabel = "SWITCH_" + event.Power.Switch.String()
	case event.Error != nil:
		typeLabel = "Error"
	default:
		typeLabel = "Unknown"
	}

	path := event.Path
	if path == "" {
		path = "/"
	}
	fmt.Fprintf(w, "%s [grid:%s] %-8s %s %s\n", ts, shortenID(event.GridID), event.Category, typeLabel, path)
	fmt.Fprintf(w, "  Node: %s (%s)\n", shortenID(event.NodeID), event.NodeKind)

	switch {
	case event.Topology != nil:
		formatTopologyDetails(w, event.Topology)
	case event.Power != nil:
		formatPowerDetails(w, event.Power)
	case event.Error != nil:
		formatErrorDetails(w, event.Error)
	}

	fmt.Fprintln(w)
}

// shortenID returns the first 8 characters of an identifier.
func shortenID(id string) string {
	if id == "" {
		return "-"
	}
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}

func formatTopologyDetails(w io.Writer, t *log.TopologyEvent) {
	if t.Device != "" {
		fmt.Fprintf(w, "  Device: %s\n", t.Device)
	}
	if t.ChildID != "" {
		fmt.Fprintf(w, "  Strip: %s\n", shortenID(t.ChildID))
	}
	if t.Outlets > 0 {
		fmt.Fprintf(w, "  Outlets: %d\n", t.Outlets)
	}
}

func formatPowerDetails(w io.Writer, p *log.PowerEvent) {
	fmt.Fprintf(w, "  Powered: %s -> %s (%d nodes changed)\n", onOff(p.WasPowered), onOff(p.IsPowered), p.Changed)
}

func formatErrorDetails(w io.Writer, e *log.ErrorEventData) {
	fmt.Fprintf(w, "  Op: %s\n", e.Op)
	fmt.Fprintf(w, "  Message: %s\n", e.Message)
}

func onOff(b bool) string {
	if b {
		return "ON"
	}
	return "OFF"
}

// ParseCategoryFlag parses a category name as given on the command line.
func ParseCategoryFlag(s string) (log.Category, error) {
	switch strings.ToLower(s) {
	case "topology":
		return log.CategoryTopology, nil
	case "power":
		return log.CategoryPower, nil
	case "error":
		return log.CategoryError, nil
	default:
		return 0, fmt.Errorf("invalid category: %s (must be topology, power, or error)", s)
	}
}

// FilterOptions holds the textual filter flags shared by view and filter.
type FilterOptions struct {
	GridID    string
	NodeID    string
	Path      string
	Category  string
	TimeStart string
	TimeEnd   string
}

// Build converts the options to a log.Filter.
func (o FilterOptions) Build() (log.Filter, error) {
	filter := log.Filter{
		GridID:     o.GridID,
		NodeID:     o.NodeID,
		PathPrefix: o.Path,
	}

	if o.Category != "" {
		c, err := ParseCategoryFlag(o.Category)
		if err != nil {
			return log.Filter{}, err
		}
		filter.Category = &c
	}

	if o.TimeStart != "" {
		t, err := time.Parse(time.RFC3339, o.TimeStart)
		if err != nil {
			return log.Filter{}, fmt.Errorf("invalid time-start format: %w", err)
		}
		filter.TimeStart = &t
	}

	if o.TimeEnd != "" {
		t, err := time.Parse(time.RFC3339, o.TimeEnd)
		if err != nil {
			return log.Filter{}, fmt.Errorf("invalid time-end format: %w", err)
		}
		filter.TimeEnd = &t
	}

	return filter, nil
}

// RunView prints every event matching opts.
func RunView(path string, opts FilterOptions, output io.Writer) error {
	filter, err := opts.Build()
	if err != nil {
		return err
	}

	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		formatEvent(output, event)
	}

	return nil
}
