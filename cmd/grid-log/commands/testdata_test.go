package commands

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/gridtree/gridtree-go/pkg/grid"
	"github.com/gridtree/gridtree-go/pkg/log"
)

const (
	testGrid = "11111111-aaaa-bbbb-cccc-000000000001"
	testNode = "22222222-aaaa-bbbb-cccc-000000000002"
)

func createTestLogFile(t *testing.T, events []log.Event) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.glog")

	logger, err := log.NewFileLogger(path)
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}
	for _, e := range events {
		logger.Log(e)
	}
	logger.Close()

	return path
}

// sessionEvents is a short session: init, splice, plug, power-off, failed unplug.
func sessionEvents() []log.Event {
	ts := time.Date(2026, 1, 28, 10, 0, 0, 0, time.UTC)
	return []log.Event{
		{
			Timestamp: ts, GridID: testGrid, NodeID: "root-node", NodeKind: grid.KindStrip,
			Path: "/", Category: log.CategoryTopology,
			Topology: &log.TopologyEvent{Action: log.ActionInit, Outlets: 1},
		},
		{
			Timestamp: ts.Add(time.Second), GridID: testGrid, NodeID: testNode, NodeKind: grid.KindOutlet,
			Path: "0", Category: log.CategoryTopology,
			Topology: &log.TopologyEvent{Action: log.ActionSplice, ChildID: "strip-a", Outlets: 3},
		},
		{
			Timestamp: ts.Add(2 * time.Second), GridID: testGrid, NodeID: "outlet-b", NodeKind: grid.KindOutlet,
			Path: "0/1", Category: log.CategoryTopology,
			Topology: &log.TopologyEvent{Action: log.ActionPlugDevice, Device: "Electric kettle"},
		},
		{
			Timestamp: ts.Add(3 * time.Second), GridID: testGrid, NodeID: "strip-a", NodeKind: grid.KindStrip,
			Path: "0", Category: log.CategoryPower,
			Power: &log.PowerEvent{Switch: log.SwitchOff, WasPowered: true, IsPowered: false, Changed: 4},
		},
		{
			Timestamp: ts.Add(4 * time.Second), GridID: testGrid, NodeID: "root-node", NodeKind: grid.KindStrip,
			Path: "/", Category: log.CategoryError,
			Error: &log.ErrorEventData{Op: "unplug", Message: "cannot detach the grid root"},
		},
	}
}
