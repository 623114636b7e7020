// Package grid implements the power-distribution tree.
//
// # Tree Structure
//
// A grid is a tree of nodes rooted at a strip whose source is the wall:
//
//	Wall
//	└── PowerStrip (root)
//	    └── PowerStrip A
//	        ├── PowerStrip B
//	        │   ├── Outlet (Iron)
//	        │   ├── Outlet
//	        │   └── Outlet
//	        ├── Outlet (Kettle)
//	        └── Outlet
//
// There are two node kinds:
//   - Outlet: a leaf receptacle holding at most one Device.
//   - Strip: a composite owning an ordered, fixed-size sequence of children.
//
// Plugging a Strip into an Outlet splices the strip into the outlet's slot in
// its parent. Unplugging a Strip restores a fresh, empty Outlet in that slot.
//
// # Sources
//
// Every node has a Source naming its supplier: the wall, a parent Strip, or
// nothing (detached). Sources are non-owning; ownership flows from a Strip to
// its children only. A node has power iff its own switch is on and its source
// chain reaches the wall.
//
// # Capabilities
//
// Node is the contract shared by both kinds. Outlet-only operations are
// described by Occupancy, Strip-only operations by ChildManager. AsOutlet and
// AsStrip perform the capability check at runtime and fail with
// ErrInvalidOperation for the wrong kind.
//
// # Concurrency
//
// Nodes are not safe for concurrent use. Callers sharing a tree between
// goroutines must hold one lock for the whole tree; see the service package.
package grid
