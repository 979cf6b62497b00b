// Package tally counts tagged messages sent by several producers to one
// consumer over an [mpsc] channel.
//
// [Run] wires everything together. Each of the [Producers] producer tasks
// sends its own tag a fixed number of times; the consumer counts by tag
// until it receives [Sentinel]. The sentinel is sent by the orchestrator
// on its own sender, which it keeps open until then, and only after every
// producer has been joined. Since the queue is FIFO and has a single
// reader, the sentinel is always the last value the consumer sees, and
// every counter ends up equal to n.
//
// [Produce] and [Consume] are exported for callers that want to arrange
// the tasks differently.
package tally
