// Package service wraps a grid tree behind a single lock.
//
// Nodes in package grid are not safe for concurrent use. GridService owns
// one wall-rooted tree and serializes every mutation and every read that must
// see a consistent snapshot. Nodes are addressed by slot path from the root.
//
// Example usage:
//
//	cfg := service.DefaultConfig()
//	cfg.WallOutlets = 2
//	svc, err := service.NewGridService(cfg)
//
//	strip, _ := svc.PlugStrip(grid.Path{0}, "desk", 3)
//	_, _ = svc.PlugDevice(grid.Path{0, 1}, "kettle")
//	_ = svc.Status(os.Stdout)
//
// # Events
//
// Every mutation is reported as a log.Event to the configured EventLogger
// and to handlers registered with OnEvent. Failed operations produce an
// event in CategoryError. Handlers run after the lock is released and may
// call back into the service.
package service
