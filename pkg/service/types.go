package service

import (
	"log/slog"

	"github.com/gridtree/gridtree-go/pkg/log"
)

// ReinitPolicy selects what SetOutlets does on an initialized strip.
type ReinitPolicy uint8

const (
	// ReinitReject fails with grid.ErrAlreadyInitialized.
	ReinitReject ReinitPolicy = iota
	// ReinitReplace discards the existing children.
	ReinitReplace
)

// String returns the policy name.
func (p ReinitPolicy) String() string {
	switch p {
	case ReinitReject:
		return "reject"
	case ReinitReplace:
		return "replace"
	default:
		return "unknown"
	}
}

// ParseReinitPolicy parses "reject" or "replace".
func ParseReinitPolicy(s string) (ReinitPolicy, bool) {
	switch s {
	case "reject", "":
		return ReinitReject, true
	case "replace":
		return ReinitReplace, true
	default:
		return ReinitReject, false
	}
}

// Config configures a GridService.
type Config struct {
	// Label is the root strip label.
	Label string

	// WallOutlets is the outlet count of the root strip.
	WallOutlets int

	// ReinitPolicy applies to strips created by the service.
	ReinitPolicy ReinitPolicy

	// Logger receives operational log output (optional).
	Logger *slog.Logger

	// EventLogger receives grid events (optional).
	EventLogger log.Logger
}

// DefaultConfig returns a Config with a single wall outlet.
func DefaultConfig() Config {
	return Config{
		Label:        "wall",
		WallOutlets:  1,
		ReinitPolicy: ReinitReject,
	}
}

// EventHandler handles grid events.
type EventHandler func(log.Event)
