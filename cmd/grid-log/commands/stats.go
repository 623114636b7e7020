package commands

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/gridtree/gridtree-go/pkg/log"
)

// Stats holds aggregate statistics about a log file.
type Stats struct {
	TotalEvents      int
	EventsByCategory map[log.Category]int
	EventsByAction   map[log.Action]int
	PowerSwitches    map[log.Switch]int
	Grids            map[string]*GridStats
	Devices          map[string]int
	Errors           int
	TimeRange        struct {
		Start time.Time
		End   time.Time
	}
}

// GridStats holds statistics for a single grid.
type GridStats struct {
	FirstSeen time.Time
	LastSeen  time.Time
	Events    int
	Errors    int
}

// Collect reads every event from path into a Stats.
func Collect(path string) (*Stats, error) {
	reader, err := log.NewReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	stats := &Stats{
		EventsByCategory: make(map[log.Category]int),
		EventsByAction:   make(map[log.Action]int),
		PowerSwitches:    make(map[log.Switch]int),
		Grids:            make(map[string]*GridStats),
		Devices:          make(map[string]int),
	}

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read event: %w", err)
		}

		stats.TotalEvents++
		stats.EventsByCategory[event.Category]++

		if stats.TimeRange.Start.IsZero() || event.Timestamp.Before(stats.TimeRange.Start) {
			stats.TimeRange.Start = event.Timestamp
		}
		if event.Timestamp.After(stats.TimeRange.End) {
			stats.TimeRange.End = event.Timestamp
		}

		g, ok := stats.Grids[event.GridID]
		if !ok {
			g = &GridStats{FirstSeen: event.Timestamp, LastSeen: event.Timestamp}
			stats.Grids[event.GridID] = g
		}
		g.Events++
		if event.Timestamp.After(g.LastSeen) {
			g.LastSeen = event.Timestamp
		}

		switch {
		case event.Topology != nil:
			stats.EventsByAction[event.Topology.Action]++
			if event.Topology.Action == log.ActionPlugDevice {
				stats.Devices[event.Topology.Device]++
			}
		case event.Power != nil:
			stats.PowerSwitches[event.Power.Switch]++
		case event.Error != nil:
			stats.Errors++
			g.Errors++
		}
	}

	return stats, nil
}

// RunStats analyzes the log file and prints statistics.
func RunStats(path string, w io.Writer) error {
	stats, err := Collect(path)
	if err != nil {
		return err
	}
	printStats(w, stats)
	return nil
}

func printStats(w io.Writer, stats *Stats) {
	fmt.Fprintln(w, "=== Grid Event Log Statistics ===")
	fmt.Fprintln(w)

	if stats.TotalEvents > 0 {
		fmt.Fprintf(w, "Time Range: %s to %s\n",
			stats.TimeRange.Start.Format(time.RFC3339),
			stats.TimeRange.End.Format(time.RFC3339))
		fmt.Fprintf(w, "Duration:   %s\n", stats.TimeRange.End.Sub(stats.TimeRange.Start).Round(time.Second))
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Total Events: %d\n", stats.TotalEvents)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Category:")
	for _, cat := range []log.Category{log.CategoryTopology, log.CategoryPower, log.CategoryError} {
		if count := stats.EventsByCategory[cat]; count > 0 {
			fmt.Fprintf(w, "  %-15s %d\n", cat.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	if len(stats.EventsByAction) > 0 {
		fmt.Fprintln(w, "Topology Changes:")
		for _, a := range []log.Action{log.ActionInit, log.ActionPlugDevice, log.ActionUnplugDevice, log.ActionSplice, log.ActionDetach, log.ActionReset} {
			if count := stats.EventsByAction[a]; count > 0 {
				fmt.Fprintf(w, "  %-15s %d\n", a.String()+":", count)
			}
		}
		fmt.Fprintln(w)
	}

	if len(stats.PowerSwitches) > 0 {
		fmt.Fprintln(w, "Power Switches:")
		for _, s := range []log.Switch{log.SwitchUp, log.SwitchOff} {
			if count := stats.PowerSwitches[s]; count > 0 {
				fmt.Fprintf(w, "  %-15s %d\n", s.String()+":", count)
			}
		}
		fmt.Fprintln(w)
	}

	if len(stats.Devices) > 0 {
		names := make([]string, 0, len(stats.Devices))
		for name := range stats.Devices {
			names = append(names, name)
		}
		sort.Strings(names)

		fmt.Fprintln(w, "Devices Plugged:")
		for _, name := range names {
			fmt.Fprintf(w, "  %-15s %d\n", name+":", stats.Devices[name])
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Grids: %d\n", len(stats.Grids))
	if len(stats.Grids) > 0 {
		type gridInfo struct {
			id    string
			stats *GridStats
		}
		grids := make([]gridInfo, 0, len(stats.Grids))
		for id, gs := range stats.Grids {
			grids = append(grids, gridInfo{id, gs})
		}
		sort.Slice(grids, func(i, j int) bool {
			return grids[i].stats.FirstSeen.Before(grids[j].stats.FirstSeen)
		})

		fmt.Fprintln(w)
		for _, g := range grids {
			duration := g.stats.LastSeen.Sub(g.stats.FirstSeen).Round(time.Millisecond)
			fmt.Fprintf(w, "  [%s] %d events, duration %s\n", shortenID(g.id), g.stats.Events, duration)
			if g.stats.Errors > 0 {
				fmt.Fprintf(w, "           Errors: %d\n", g.stats.Errors)
			}
		}
	}

	if stats.Errors > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Errors: %d\n", stats.Errors)
	}
}
