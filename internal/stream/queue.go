// ABOUTME: Bounded packet queue between ingestion and processing
// ABOUTME: Explicit block-or-drop policy when the queue is full
package stream

import "context"

// DefaultQueueDepth is the number of encoded packets buffered between the
// demuxer and the processing goroutine.
const DefaultQueueDepth = 9

// Policy selects what Push does when the queue is full.
type Policy int

const (
	// PolicyBlock backpressures the producer until there is room.
	PolicyBlock Policy = iota
	// PolicyDrop discards the pushed packet and reports false.
	PolicyDrop
)

// Queue is a bounded FIFO of encoded packets. One producer feeds it from
// the demux loop; one consumer drains it on the processing goroutine.
type Queue struct {
	ch     chan InputPacket
	policy Policy
}

// NewQueue creates a queue of the given depth. A non-positive depth selects
// DefaultQueueDepth.
func NewQueue(depth int, policy Policy) *Queue {
	if depth <= 0 {
		depth = DefaultQueueDepth
	}
	return &Queue{
		ch:     make(chan InputPacket, depth),
		policy: policy,
	}
}

// Push enqueues a packet and reports whether it was accepted. With
// PolicyBlock a full queue backpressures until there is room or the context
// is done; with PolicyDrop the packet is discarded immediately. The nil
// end-of-stream marker always waits for delivery.
func (q *Queue) Push(ctx context.Context, pkt InputPacket) bool {
	if pkt != nil && q.policy == PolicyDrop {
		select {
		case q.ch <- pkt:
			return true
		default:
			return false
		}
	}

	select {
	case <-ctx.Done():
		return false
	case q.ch <- pkt:
		return true
	}
}

// Pop dequeues the next packet, blocking until one is available or the
// context is done. ok is false only on context cancellation.
func (q *Queue) Pop(ctx context.Context) (pkt InputPacket, ok bool) {
	select {
	case <-ctx.Done():
		return nil, false
	case pkt = <-q.ch:
		return pkt, true
	}
}

// Len returns the number of queued packets.
func (q *Queue) Len() int {
	return len(q.ch)
}
