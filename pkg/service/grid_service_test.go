package service

import (
	"bytes"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/gridtree/gridtree-go/pkg/grid"
	"github.com/gridtree/gridtree-go/pkg/log"
)

type stubEventLogger struct{ mock.Mock }

func (s *stubEventLogger) Log(event log.Event) { s.Called(event) }

// recorder collects events delivered to a handler.
type recorder struct {
	mu     sync.Mutex
	events []log.Event
}

func (r *recorder) handle(e log.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) last(t *testing.T) log.Event {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	require.NotEmpty(t, r.events)
	return r.events[len(r.events)-1]
}

func newService(t *testing.T) (*GridService, *recorder) {
	t.Helper()
	svc, err := NewGridService(DefaultConfig())
	require.NoError(t, err)
	rec := &recorder{}
	svc.OnEvent(rec.handle)
	return svc, rec
}

func TestNewGridServiceInvalidOutlets(t *testing.T) {
	cfg := DefaultConfig()
	cfg.WallOutlets = 0
	_, err := NewGridService(cfg)
	assert.ErrorIs(t, err, grid.ErrInvalidOutletCount)
}

func TestNewGridServiceFromRoot(t *testing.T) {
	_, err := NewGridServiceFromRoot(grid.NewStrip("loose"), DefaultConfig())
	assert.ErrorIs(t, err, grid.ErrStructural)

	_, err = NewGridServiceFromRoot(nil, DefaultConfig())
	assert.ErrorIs(t, err, grid.ErrNilNode)

	root, err := grid.NewWallStrip("", 2)
	require.NoError(t, err)
	svc, err := NewGridServiceFromRoot(root, DefaultConfig())
	require.NoError(t, err)
	assert.Same(t, root, svc.Root())
}

func TestGridServiceKitchenScenario(t *testing.T) {
	svc, rec := newService(t)

	a, err := svc.PlugStrip(grid.Path{0}, "", 3)
	require.NoError(t, err)
	e := rec.last(t)
	assert.Equal(t, log.CategoryTopology, e.Category)
	require.NotNil(t, e.Topology)
	assert.Equal(t, log.ActionSplice, e.Topology.Action)
	assert.Equal(t, a.ID(), e.Topology.ChildID)
	assert.Equal(t, svc.ID(), e.GridID)

	p, ok := svc.FreeOutlet()
	require.True(t, ok)
	assert.Equal(t, "0/0", p.String())

	_, err = svc.PlugStrip(p, "", 3)
	require.NoError(t, err)

	at, err := svc.PlugFree(grid.NewDevice("Kettle"))
	require.NoError(t, err)
	assert.Equal(t, "0/0/0", at.String(), "leftmost free outlet is inside the nested strip")

	require.NoError(t, svc.Unplug(at))
	e = rec.last(t)
	assert.Equal(t, log.ActionUnplugDevice, e.Topology.Action)
	assert.Equal(t, "Kettle", e.Topology.Device)

	_, err = svc.PlugDevice(grid.Path{0, 1}, "kettle")
	require.NoError(t, err)
	_, err = svc.PlugDevice(grid.Path{0, 0, 0}, "Iron")
	require.NoError(t, err)

	want := "PowerStrip wall:\n" +
		"\tPowerStrip:\n" +
		"\t\tPowerStrip:\n" +
		"\t\t\tholds device Iron\n" +
		"\t\t\thas power, empty\n" +
		"\t\t\thas power, empty\n" +
		"\t\tholds device Electric kettle\n" +
		"\t\thas power, empty\n"
	assert.Equal(t, want, svc.StatusString())
	assert.Len(t, svc.Snapshot(), 8)
}

func TestGridServiceUnplugStrip(t *testing.T) {
	svc, rec := newService(t)
	_, err := svc.PlugStrip(grid.Path{0}, "desk", 2)
	require.NoError(t, err)

	require.NoError(t, svc.Unplug(grid.Path{0}))
	e := rec.last(t)
	assert.Equal(t, log.ActionDetach, e.Topology.Action)
	assert.Equal(t, grid.KindStrip, e.NodeKind)
	assert.Equal(t, "PowerStrip wall:\n\thas power, empty\n", svc.StatusString())

	err = svc.Unplug(grid.Path{})
	require.ErrorIs(t, err, grid.ErrStructural)
	e = rec.last(t)
	assert.Equal(t, log.CategoryError, e.Category)
	require.NotNil(t, e.Error)
	assert.Equal(t, "unplug", e.Error.Op)
	assert.Contains(t, e.Error.Message, "cannot detach the grid root")

	// Unplugging an empty outlet emits nothing.
	count := len(rec.events)
	require.NoError(t, svc.Unplug(grid.Path{0}))
	assert.Len(t, rec.events, count)
}

func TestGridServicePower(t *testing.T) {
	svc, rec := newService(t)
	_, err := svc.PlugStrip(grid.Path{0}, "", 2)
	require.NoError(t, err)

	require.NoError(t, svc.PowerOff(grid.Path{}))
	e := rec.last(t)
	require.NotNil(t, e.Power)
	assert.Equal(t, log.SwitchOff, e.Power.Switch)
	assert.True(t, e.Power.WasPowered)
	assert.False(t, e.Power.IsPowered)
	assert.Equal(t, 4, e.Power.Changed)

	on, err := svc.HasPower(grid.Path{0, 1})
	require.NoError(t, err)
	assert.False(t, on)

	require.NoError(t, svc.PowerOff(grid.Path{}))
	assert.Zero(t, rec.last(t).Power.Changed, "power-off is idempotent")

	require.NoError(t, svc.PowerUp(grid.Path{}))
	assert.Equal(t, 4, rec.last(t).Power.Changed)
	on, err = svc.HasPower(grid.Path{0, 1})
	require.NoError(t, err)
	assert.True(t, on)
}

func TestGridServiceErrors(t *testing.T) {
	svc, rec := newService(t)

	err := svc.Plug(grid.Path{5}, grid.NewDevice("Lamp"))
	assert.ErrorIs(t, err, grid.ErrInvalidPath)
	assert.Equal(t, log.CategoryError, rec.last(t).Category)

	err = svc.Plug(grid.Path{}, grid.NewDevice("Lamp"))
	assert.ErrorIs(t, err, grid.ErrInvalidOperation)
	assert.Equal(t, svc.Root().ID(), rec.last(t).NodeID)

	_, err = svc.PlugDevice(grid.Path{0}, "lamp")
	require.NoError(t, err)
	_, err = svc.PlugDevice(grid.Path{0}, "toaster")
	assert.ErrorIs(t, err, grid.ErrSlotOccupied)

	_, err = svc.PlugFree(grid.NewDevice("Radio"))
	assert.ErrorIs(t, err, grid.ErrNoFreeOutlet)
	_, ok := svc.FreeOutlet()
	assert.False(t, ok)

	_, err = svc.PlugStrip(grid.Path{0}, "", 0)
	assert.ErrorIs(t, err, grid.ErrInvalidOutletCount)
}

func TestGridServiceReinitPolicy(t *testing.T) {
	t.Run("Reject", func(t *testing.T) {
		svc, _ := newService(t)
		err := svc.SetOutlets(grid.Path{}, 3)
		assert.ErrorIs(t, err, grid.ErrAlreadyInitialized)

		require.NoError(t, svc.ResetOutlets(grid.Path{}, 3))
		assert.Equal(t, 3, svc.Root().Len())
	})

	t.Run("Replace", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.ReinitPolicy = ReinitReplace
		svc, err := NewGridService(cfg)
		require.NoError(t, err)
		rec := &recorder{}
		svc.OnEvent(rec.handle)

		require.NoError(t, svc.SetOutlets(grid.Path{}, 4))
		assert.Equal(t, 4, svc.Root().Len())
		assert.Equal(t, log.ActionReset, rec.last(t).Topology.Action)

		strip, err := svc.PlugStrip(grid.Path{1}, "", 2)
		require.NoError(t, err)
		assert.True(t, strip.ReplaceOnReinit)
	})

	t.Run("ResetOutlet", func(t *testing.T) {
		svc, _ := newService(t)
		assert.ErrorIs(t, svc.ResetOutlets(grid.Path{0}, 2), grid.ErrInvalidOperation)
	})
}

func TestParseReinitPolicy(t *testing.T) {
	p, ok := ParseReinitPolicy("replace")
	assert.True(t, ok)
	assert.Equal(t, ReinitReplace, p)
	assert.Equal(t, "replace", p.String())

	_, ok = ParseReinitPolicy("sometimes")
	assert.False(t, ok)
}

func TestGridServiceEventLogger(t *testing.T) {
	stub := &stubEventLogger{}
	stub.On("Log", mock.MatchedBy(func(e log.Event) bool {
		return e.Topology != nil && e.Topology.Action == log.ActionInit
	})).Once()
	stub.On("Log", mock.MatchedBy(func(e log.Event) bool {
		return e.Topology != nil && e.Topology.Action == log.ActionPlugDevice
	})).Once()

	cfg := DefaultConfig()
	cfg.EventLogger = stub
	svc, err := NewGridService(cfg)
	require.NoError(t, err)

	_, err = svc.PlugDevice(grid.Path{0}, "iron")
	require.NoError(t, err)
	stub.AssertExpectations(t)
}

func TestGridServiceOperationalLogging(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultConfig()
	cfg.Logger = slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	svc, err := NewGridService(cfg)
	require.NoError(t, err)

	_ = svc.Unplug(grid.Path{})
	out := buf.String()
	assert.Contains(t, out, "grid created")
	assert.Contains(t, out, "grid operation failed")
	assert.True(t, strings.Contains(out, "op=unplug"))
}

func TestGridServiceHandlerReentry(t *testing.T) {
	svc, _ := newService(t)
	var status string
	svc.OnEvent(func(e log.Event) {
		if e.Category == log.CategoryTopology {
			status = svc.StatusString()
		}
	})

	_, err := svc.PlugDevice(grid.Path{0}, "lamp")
	require.NoError(t, err)
	assert.Contains(t, status, "holds device Desk lamp")
}

func TestGridServiceConcurrentUse(t *testing.T) {
	cfg := DefaultConfig()
	cfg.WallOutlets = 4
	svc, err := NewGridService(cfg)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				if p, err := svc.PlugFree(grid.NewDevice("d")); err == nil {
					_ = svc.Unplug(p)
				}
				_ = svc.StatusString()
				_ = svc.Snapshot()
			}
		}()
	}
	wg.Wait()

	err = svc.Do(func(root *grid.Strip) error {
		for _, c := range root.Children() {
			o, err := grid.AsOutlet(c)
			if err != nil {
				return err
			}
			if o.Device() != nil {
				t.Errorf("outlet still holds %s", o.Device().Name())
			}
		}
		return nil
	})
	require.NoError(t, err)
}

func TestGridServiceUnlocksAfterPanic(t *testing.T) {
	svc, rec := newService(t)

	assert.Panics(t, func() {
		_ = svc.run("explode", grid.Path{}, func() ([]log.Event, error) {
			panic("boom")
		})
	})

	_, err := svc.PlugDevice(grid.Path{0}, "Iron")
	require.NoError(t, err)
	assert.Equal(t, log.ActionPlugDevice, rec.last(t).Topology.Action)
}
