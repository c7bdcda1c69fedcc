// Package detector implements FastTrack-style happens-before checking for
// replayed parallel regions.
//
// A replay drives the Detector with the accesses and synchronization a
// parallel loop would perform, one worker.Context per worker:
//
//	d := detector.NewDetector()
//	master := worker.Alloc(0)
//	d.OnWrite(shadowmem.Scalar("sum"), master)   // sum = 0
//	w1 := d.OnFork(master, 1)
//	w2 := d.OnFork(master, 2)
//	d.OnWrite(shadowmem.Scalar("sum"), w1)       // ordered after sum = 0
//	d.OnWrite(shadowmem.Scalar("sum"), w2)       // races with w1
//
// Each unique race (kind, location, worker pair) is recorded once as a
// RaceReport. Reports are kept in detection order and optionally written to
// an io.Writer in the layout of Go's race detector.
//
// Synchronization edges:
//   - OnFork, OnWake: everything the parent did happens-before the member
//   - OnAcquire/OnRelease: critical-section lock
//   - OnBarrierDone/OnBarrierWait: join barrier at the end of a region
package detector
