package log

import (
	"context"
	"log/slog"
)

// SlogAdapter writes grid events to an slog.Logger at Debug level.
// Error events are written at Warn level.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a SlogAdapter writing to logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event as a structured record.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("grid_id", event.GridID),
		slog.String("category", event.Category.String()),
		slog.String("kind", event.NodeKind.String()),
	}
	if event.NodeID != "" {
		attrs = append(attrs, slog.String("node_id", event.NodeID))
	}
	if event.Path != "" {
		attrs = append(attrs, slog.String("path", event.Path))
	}

	level := slog.LevelDebug
	switch {
	case event.Topology != nil:
		attrs = append(attrs, slog.String("action", event.Topology.Action.String()))
		if event.Topology.Device != "" {
			attrs = append(attrs, slog.String("device", event.Topology.Device))
		}
		if event.Topology.ChildID != "" {
			attrs = append(attrs, slog.String("child_id", event.Topology.ChildID))
		}
		if event.Topology.Outlets > 0 {
			attrs = append(attrs, slog.Int("outlets", event.Topology.Outlets))
		}
	case event.Power != nil:
		attrs = append(attrs,
			slog.String("switch", event.Power.Switch.String()),
			slog.Bool("was_powered", event.Power.WasPowered),
			slog.Bool("is_powered", event.Power.IsPowered),
			slog.Int("changed", event.Power.Changed),
		)
	case event.Error != nil:
		level = slog.LevelWarn
		attrs = append(attrs,
			slog.String("op", event.Error.Op),
			slog.String("error", event.Error.Message),
		)
	}

	a.logger.LogAttrs(context.Background(), level, "grid", attrs...)
}

// Compile-time interface satisfaction check.
var _ Logger = (*SlogAdapter)(nil)
