package service

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gridtree/gridtree-go/pkg/catalog"
	"github.com/gridtree/gridtree-go/pkg/grid"
	"github.com/gridtree/gridtree-go/pkg/inspect"
	"github.com/gridtree/gridtree-go/pkg/log"
)

// GridService owns a wall-rooted tree and serializes access to it.
type GridService struct {
	mu sync.Mutex

	id     string
	config Config
	root   *grid.Strip

	// Event handlers
	handlersMu sync.RWMutex
	handlers   []EventHandler

	logger *slog.Logger
	events log.Logger

	inspector *inspect.Inspector

	now func() time.Time
}

// NewGridService creates a service with a fresh root strip.
func NewGridService(cfg Config) (*GridService, error) {
	root, err := grid.NewWallStrip(cfg.Label, cfg.WallOutlets)
	if err != nil {
		return nil, err
	}
	return newGridService(root, cfg), nil
}

// NewGridServiceFromRoot creates a service around an existing tree, for
// example one built by the topology package. The root must be fed by the wall.
func NewGridServiceFromRoot(root *grid.Strip, cfg Config) (*GridService, error) {
	if root == nil {
		return nil, grid.ErrNilNode
	}
	if !root.IsRoot() {
		return nil, fmt.Errorf("%w: root strip is fed by %s, not the wall", grid.ErrStructural, root.Source())
	}
	return newGridService(root, cfg), nil
}

func newGridService(root *grid.Strip, cfg Config) *GridService {
	s := &GridService{
		id:        uuid.NewString(),
		config:    cfg,
		root:      root,
		logger:    cfg.Logger,
		events:    cfg.EventLogger,
		inspector: inspect.NewInspector(),
		now:       time.Now,
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}
	if s.events == nil {
		s.events = log.NoopLogger{}
	}
	s.applyPolicy(root)

	s.logger.Info("grid created", "grid_id", s.id, "outlets", root.Len())
	s.emit(s.event(root, grid.Path{}, log.CategoryTopology, func(e *log.Event) {
		e.Topology = &log.TopologyEvent{Action: log.ActionInit, Outlets: root.Len()}
	}))
	return s
}

// ID returns the grid identifier carried by every event.
func (s *GridService) ID() string {
	return s.id
}

// Root returns the root strip. Callers sharing the service between
// goroutines must use Do to touch the tree.
func (s *GridService) Root() *grid.Strip {
	return s.root
}

// OnEvent registers an event handler.
func (s *GridService) OnEvent(handler EventHandler) {
	s.handlersMu.Lock()
	defer s.handlersMu.Unlock()
	s.handlers = append(s.handlers, handler)
}

// Do runs fn with the tree lock held. No events are emitted for changes fn makes.
func (s *GridService) Do(fn func(root *grid.Strip) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.root)
}

// Plug plugs item into the outlet at p.
func (s *GridService) Plug(p grid.Path, item grid.Pluggable) error {
	return s.run("plug", p, func() ([]log.Event, error) {
		return s.plugLocked(p, item)
	})
}

// PlugDevice plugs a device into the outlet at p. The name may be a catalog key.
func (s *GridService) PlugDevice(p grid.Path, name string) (*grid.Device, error) {
	d := catalog.NewDevice(name)
	if err := s.Plug(p, d); err != nil {
		return nil, err
	}
	return d, nil
}

// PlugStrip creates a strip with the given outlets and splices it in at p.
func (s *GridService) PlugStrip(p grid.Path, label string, outlets int) (*grid.Strip, error) {
	strip := grid.NewStrip(label)
	if err := strip.SetOutlets(outlets); err != nil {
		return nil, err
	}
	if err := s.Plug(p, strip); err != nil {
		return nil, err
	}
	return strip, nil
}

// PlugFree plugs item into the first free outlet and returns its path.
func (s *GridService) PlugFree(item grid.Pluggable) (grid.Path, error) {
	var at grid.Path
	err := s.run("plug", grid.Path{}, func() ([]log.Event, error) {
		o := s.root.FreeOutlet()
		if o == nil {
			return nil, grid.ErrNoFreeOutlet
		}
		p, err := grid.PathOf(o)
		if err != nil {
			return nil, err
		}
		at = p
		return s.plugLocked(p, item)
	})
	if err != nil {
		return nil, err
	}
	return at, nil
}

func (s *GridService) plugLocked(p grid.Path, item grid.Pluggable) ([]log.Event, error) {
	n, err := grid.Resolve(s.root, p)
	if err != nil {
		return nil, err
	}
	if err := grid.Plug(n, item); err != nil {
		return nil, err
	}

	var e log.Event
	switch it := item.(type) {
	case *grid.Device:
		s.logger.Debug("device plugged", "path", p.String(), "device", it.Name())
		e = s.event(n, p, log.CategoryTopology, func(e *log.Event) {
			e.Topology = &log.TopologyEvent{Action: log.ActionPlugDevice, Device: it.Name()}
		})
	case *grid.Strip:
		s.applyPolicy(it)
		s.logger.Debug("strip spliced", "path", p.String(), "outlets", it.Len())
		e = s.event(n, p, log.CategoryTopology, func(e *log.Event) {
			e.Topology = &log.TopologyEvent{Action: log.ActionSplice, ChildID: it.ID(), Outlets: it.Len()}
		})
	}
	return []log.Event{e}, nil
}

// Unplug removes the device at p, or detaches the strip at p.
func (s *GridService) Unplug(p grid.Path) error {
	return s.run("unplug", p, func() ([]log.Event, error) {
		n, err := grid.Resolve(s.root, p)
		if err != nil {
			return nil, err
		}

		switch v := n.(type) {
		case *grid.Outlet:
			d := v.Device()
			if d == nil {
				return nil, nil
			}
			if err := v.Unplug(); err != nil {
				return nil, err
			}
			s.logger.Debug("device unplugged", "path", p.String(), "device", d.Name())
			return []log.Event{s.event(v, p, log.CategoryTopology, func(e *log.Event) {
				e.Topology = &log.TopologyEvent{Action: log.ActionUnplugDevice, Device: d.Name()}
			})}, nil
		case *grid.Strip:
			if err := v.Unplug(); err != nil {
				return nil, err
			}
			s.logger.Debug("strip detached", "path", p.String())
			return []log.Event{s.event(v, p, log.CategoryTopology, func(e *log.Event) {
				e.Topology = &log.TopologyEvent{Action: log.ActionDetach, ChildID: v.ID(), Outlets: v.Len()}
			})}, nil
		}
		return nil, grid.ErrInvalidOperation
	})
}

// SetOutlets initializes the strip at p according to the reinit policy.
func (s *GridService) SetOutlets(p grid.Path, outlets int) error {
	return s.run("set-outlets", p, func() ([]log.Event, error) {
		n, err := grid.Resolve(s.root, p)
		if err != nil {
			return nil, err
		}
		action := log.ActionInit
		if st, ok := n.(*grid.Strip); ok && st.Initialized() {
			action = log.ActionReset
		}
		if err := grid.SetOutlets(n, outlets); err != nil {
			return nil, err
		}
		return []log.Event{s.event(n, p, log.CategoryTopology, func(e *log.Event) {
			e.Topology = &log.TopologyEvent{Action: action, Outlets: outlets}
		})}, nil
	})
}

// ResetOutlets replaces the children of the strip at p with fresh outlets.
func (s *GridService) ResetOutlets(p grid.Path, outlets int) error {
	return s.run("reset-outlets", p, func() ([]log.Event, error) {
		n, err := grid.Resolve(s.root, p)
		if err != nil {
			return nil, err
		}
		st, err := grid.AsStrip(n)
		if err != nil {
			return nil, err
		}
		if err := st.ResetOutlets(outlets); err != nil {
			return nil, err
		}
		return []log.Event{s.event(st, p, log.CategoryTopology, func(e *log.Event) {
			e.Topology = &log.TopologyEvent{Action: log.ActionReset, Outlets: outlets}
		})}, nil
	})
}

// PowerUp switches on the subtree at p.
func (s *GridService) PowerUp(p grid.Path) error {
	return s.power("power-up", p, log.SwitchUp)
}

// PowerOff switches off the subtree at p.
func (s *GridService) PowerOff(p grid.Path) error {
	return s.power("power-off", p, log.SwitchOff)
}

func (s *GridService) power(op string, p grid.Path, sw log.Switch) error {
	return s.run(op, p, func() ([]log.Event, error) {
		n, err := grid.Resolve(s.root, p)
		if err != nil {
			return nil, err
		}

		before := poweredSet(n)
		was := n.HasPower()
		if sw == log.SwitchUp {
			n.PowerUp()
		} else {
			n.PowerOff()
		}
		changed := 0
		for node, on := range poweredSet(n) {
			if before[node] != on {
				changed++
			}
		}

		s.logger.Debug("power switched", "path", p.String(), "switch", sw.String(), "changed", changed)
		return []log.Event{s.event(n, p, log.CategoryPower, func(e *log.Event) {
			e.Power = &log.PowerEvent{Switch: sw, WasPowered: was, IsPowered: n.HasPower(), Changed: changed}
		})}, nil
	})
}

func poweredSet(n grid.Node) map[grid.Node]bool {
	out := make(map[grid.Node]bool)
	_ = grid.Walk(n, func(_ grid.Path, c grid.Node) error {
		out[c] = c.HasPower()
		return nil
	})
	return out
}

// FreeOutlet returns the path of the leftmost free outlet.
func (s *GridService) FreeOutlet() (grid.Path, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o := s.root.FreeOutlet()
	if o == nil {
		return nil, false
	}
	p, err := grid.PathOf(o)
	if err != nil {
		return nil, false
	}
	return p, true
}

// HasPower reports whether the node at p has power.
func (s *GridService) HasPower(p grid.Path) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, err := grid.Resolve(s.root, p)
	if err != nil {
		return false, err
	}
	return n.HasPower(), nil
}

// Status writes the status dump of the whole tree.
func (s *GridService) Status(w io.Writer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.root.PrintStatus(w, "")
}

// StatusString returns the status dump of the whole tree.
func (s *GridService) StatusString() string {
	var sb strings.Builder
	_ = s.Status(&sb)
	return sb.String()
}

// Snapshot returns a consistent inspection of every node, in pre-order.
func (s *GridService) Snapshot() []inspect.NodeInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inspector.Inspect(s.root)
}

// run executes fn under the tree lock and emits the resulting events after
// the lock is released.
func (s *GridService) run(op string, p grid.Path, fn func() ([]log.Event, error)) error {
	events, err := func() ([]log.Event, error) {
		s.mu.Lock()
		defer s.mu.Unlock()
		events, err := fn()
		if err != nil {
			s.logger.Warn("grid operation failed", "op", op, "path", p.String(), "error", err)
			events = append(events, s.errorEvent(op, p, err))
		}
		return events, err
	}()

	for _, e := range events {
		s.emit(e)
	}
	return err
}

func (s *GridService) applyPolicy(root *grid.Strip) {
	_ = grid.Walk(root, func(_ grid.Path, n grid.Node) error {
		if st, ok := n.(*grid.Strip); ok {
			st.ReplaceOnReinit = s.config.ReinitPolicy == ReinitReplace
		}
		return nil
	})
}

func (s *GridService) event(n grid.Node, p grid.Path, category log.Category, fill func(*log.Event)) log.Event {
	e := log.Event{
		Timestamp: s.now(),
		GridID:    s.id,
		Path:      p.String(),
		Category:  category,
	}
	if n != nil {
		e.NodeID = n.ID()
		e.NodeKind = n.Kind()
	}
	if fill != nil {
		fill(&e)
	}
	return e
}

// errorEvent must be called with the lock held.
func (s *GridService) errorEvent(op string, p grid.Path, err error) log.Event {
	n, _ := grid.Resolve(s.root, p)
	return s.event(n, p, log.CategoryError, func(e *log.Event) {
		e.Error = &log.ErrorEventData{Op: op, Message: err.Error()}
	})
}

func (s *GridService) emit(e log.Event) {
	s.events.Log(e)

	s.handlersMu.RLock()
	handlers := make([]EventHandler, len(s.handlers))
	copy(handlers, s.handlers)
	s.handlersMu.RUnlock()

	for _, h := range handlers {
		h(e)
	}
}
