// Package presence tracks which recipients currently hold live real-time
// connections. The dispatch package consults it at dispatch time: a
// real-time delivery is attempted only for online recipients, offline ones
// rely on the persisted in-app record — there is no queued replay.
//
// Two backends implement the Tracker interface:
//
//   - MemoryTracker: single-process map-based authority, used when one
//     process owns all connections.
//   - RedisTracker: Redis sets shared by every connection-serving process,
//     for multi-process deployments.
//
// The transport layer calls Connect/Disconnect from its connection lifecycle
// callbacks; the tracker itself never touches sockets.
package presence
