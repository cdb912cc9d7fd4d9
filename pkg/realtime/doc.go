// Package realtime carries live notification events from the dispatcher to
// transport adapters. The Hub is a recipient-keyed fan-out over buffered
// channels: the dispatcher calls Emit for online recipients, and each
// WebSocket or SSE connection holds one Subscriber and forwards from its
// Receive channel.
//
// Sends never block: a subscriber whose buffer is full has the event dropped
// and is unsubscribed, on the assumption that its connection is dead or
// hopelessly behind. Cross-process fan-out is out of scope here — a
// multi-process deployment puts a broadcast-capable transport (or a Redis
// pub/sub bridge) behind the same Emitter interface.
package realtime
