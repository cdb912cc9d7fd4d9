// Package decision contains the pure delivery decision logic of the
// notification engine: validation against the data-model invariants,
// per-channel suppression under preferences and quiet hours, channel
// resolution, priority ordering, expiry filtering, and the batch-summary
// heuristics.
//
// Every function here is side-effect free and performs no I/O. Functions
// that depend on the current time take it as an explicit argument, which
// keeps the package trivially testable. Orchestration of the resulting
// decisions lives in the dispatch package.
package decision
